package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/vovakirdan/tui-snake/internal/session"
)

// Live holds the current configuration and replaces it when the backing
// file changes. Sessions read it at Start, so running games are never
// affected by a reload.
type Live struct {
	path string
	cur  atomic.Pointer[Config]
}

// NewLive wraps cfg. path is the file to watch; empty disables watching.
func NewLive(cfg Config, path string) *Live {
	l := &Live{path: path}
	l.cur.Store(&cfg)
	return l
}

// Path returns the watched file, or "" for the embedded default.
func (l *Live) Path() string {
	return l.path
}

// Get returns the current config.
func (l *Live) Get() Config {
	return *l.cur.Load()
}

// Settings returns the current config as session settings. The stored
// config is always valid, so the error is only checked for safety.
func (l *Live) Settings() session.Settings {
	s, err := l.Get().Settings()
	if err != nil {
		return session.DefaultSettings()
	}
	return s
}

// Watch reloads the config whenever its file is written, until ctx is
// done. Invalid files are logged and the previous config is kept.
func (l *Live) Watch(ctx context.Context, logger *log.Logger) error {
	if l.path == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file instead of writing it.
	target := filepath.Clean(l.path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", target, err)
	}
	logger.Debug("watching config", "path", target)

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
			l.reload(logger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher error", "error", err)
		}
	}
}

func (l *Live) reload(logger *log.Logger) {
	// A truncate shows up as its own write; wait for the content.
	if info, err := os.Stat(l.path); err == nil && info.Size() == 0 {
		return
	}

	cfg, err := LoadFile(l.path)
	if err != nil {
		logger.Warn("keeping previous config", "error", err)
		return
	}
	l.cur.Store(&cfg)
	logger.Info("config reloaded", "path", l.path, "tick", cfg.Timing.Tick)
}
