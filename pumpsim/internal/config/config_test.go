package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoad_Defaults(t *testing.T) {
	p := writeConfig(t, `pumpsim: {}
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Pumpsim.BrokerURL != DefaultBrokerURL {
		t.Errorf("broker_url: got %q, want %q", cfg.Pumpsim.BrokerURL, DefaultBrokerURL)
	}
	if cfg.Pumpsim.Interval != DefaultInterval {
		t.Errorf("interval: got %v, want %v", cfg.Pumpsim.Interval, DefaultInterval)
	}
	if cfg.Pumpsim.BaseFlow != DefaultBaseFlow {
		t.Errorf("base_flow: got %v, want %v", cfg.Pumpsim.BaseFlow, DefaultBaseFlow)
	}
}

func TestLoad_Full(t *testing.T) {
	p := writeConfig(t, `pumpsim:
  broker_url: nats://broker:4222
  subject_prefix: ward7.iv
  interval: 250ms
  base_flow: 45
  base_tissue: 20
  base_temp: 37.1
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Pumpsim.SubjectPrefix != "ward7.iv" {
		t.Errorf("subject_prefix: got %q, want ward7.iv", cfg.Pumpsim.SubjectPrefix)
	}
	if cfg.Pumpsim.Interval != 250*time.Millisecond {
		t.Errorf("interval: got %v, want 250ms", cfg.Pumpsim.Interval)
	}
	if cfg.Pumpsim.BaseTemp != 37.1 {
		t.Errorf("base_temp: got %v, want 37.1", cfg.Pumpsim.BaseTemp)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "zero interval",
			content: `pumpsim:
  interval: 0s
`,
		},
		{
			name: "zero base flow",
			content: `pumpsim:
  base_flow: 0
`,
		},
		{
			name: "empty broker url",
			content: `pumpsim:
  broker_url: ""
`,
		},
		{
			name:    "garbage yaml",
			content: "pumpsim: [not a map",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := writeConfig(t, tc.content)
			if _, err := Load(p); err == nil {
				t.Fatal("Load: expected error, got nil")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load: expected error for missing file")
	}
}
