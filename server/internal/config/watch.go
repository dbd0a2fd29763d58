package config

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch monitors the config file at path and calls onChange with the newly
// loaded Config each time it changes. It blocks until ctx is cancelled.
//
// Which fields take effect at runtime is the caller's decision;
// dripguard-server re-targets alert webhooks on reload and leaves ports,
// the DSN and the broker URL for a restart.
//
// The watch is placed on the file's directory, not the file itself. Editors
// and config pushers replace files by renaming a tempfile into place, which
// retires the old inode and would silently end a file-level watch; the
// directory watch sees the replacement as a create for the same name.
//
// A reload that fails to parse or validate is logged and skipped — the
// previous config stays active, and the watch keeps running so the next
// good write still lands.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}
	target := filepath.Clean(path)

	slog.Info("config: watching for changes", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			cfg, err := Load(path)
			if err != nil {
				slog.Error("config: reload failed, keeping previous config",
					"path", path, "err", err)
				continue
			}

			slog.Info("config: reloaded", "path", path)
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "err", err)
		}
	}
}
