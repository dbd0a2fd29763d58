package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// startWatch runs Watch in the background and returns a channel of reloaded
// configs.
func startWatch(t *testing.T, path string) <-chan *Config {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	ch := make(chan *Config, 8)
	go func() {
		if err := Watch(ctx, path, func(cfg *Config) { ch <- cfg }); err != nil {
			t.Errorf("Watch: %v", err)
		}
	}()
	// Give the watcher a moment to install before the first write.
	time.Sleep(50 * time.Millisecond)
	return ch
}

// awaitPort drains reload notifications until one carries the wanted port.
func awaitPort(t *testing.T, ch <-chan *Config, want int) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case cfg := <-ch:
			if cfg.Server.HTTPPort == want {
				return
			}
		case <-deadline:
			t.Fatalf("no reload with http_port %d before deadline", want)
		}
	}
}

// replace mimics an atomic save: write a tempfile, rename it into place.
func replace(t *testing.T, path, content string) {
	t.Helper()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp: %v", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("rename: %v", err)
	}
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  http_port: 8080\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	ch := startWatch(t, path)

	if err := os.WriteFile(path, []byte("server:\n  http_port: 9090\n"), 0o600); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	awaitPort(t, ch, 9090)
}

func TestWatch_SurvivesBadReloadAndAtomicSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  http_port: 8080\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	ch := startWatch(t, path)

	// An atomic save of a broken config must not end the watch or reach
	// onChange.
	replace(t, path, "server: [not a map")
	select {
	case cfg := <-ch:
		t.Fatalf("broken config reached onChange: %+v", cfg)
	case <-time.After(200 * time.Millisecond):
	}

	// The next good save still lands.
	replace(t, path, "server:\n  http_port: 9191\n")
	awaitPort(t, ch, 9191)
}
