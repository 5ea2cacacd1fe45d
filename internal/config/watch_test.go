package config

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func waitFor(t *testing.T, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func TestLiveWithoutPath(t *testing.T) {
	live := NewLive(DefaultConfig(), "")

	if err := live.Watch(context.Background(), log.New(io.Discard)); err != nil {
		t.Errorf("Watch() without a path should return nil, got %v", err)
	}
	if live.Settings().Grid.Columns != 30 {
		t.Errorf("Settings().Grid.Columns = %d, expected 30", live.Settings().Grid.Columns)
	}
}

func TestLiveReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snake.yaml")
	writeFile(t, path, "timing:\n  tick: 100ms\n")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}
	live := NewLive(cfg, path)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- live.Watch(ctx, log.New(io.Discard)) }()
	defer func() {
		cancel()
		<-done
	}()

	// Give the watcher a moment to register before writing.
	time.Sleep(50 * time.Millisecond)
	writeFile(t, path, "timing:\n  tick: 40ms\n")

	if !waitFor(t, func() bool { return live.Get().Timing.Tick == 40*time.Millisecond }) {
		t.Fatalf("Tick = %s, expected reload to 40ms", live.Get().Timing.Tick)
	}
	if live.Settings().TickPeriod != 40*time.Millisecond {
		t.Errorf("Settings().TickPeriod = %s, expected 40ms", live.Settings().TickPeriod)
	}

	// Invalid content keeps the previous config.
	writeFile(t, path, "timing:\n  tick: -1s\n")
	time.Sleep(200 * time.Millisecond)
	if live.Get().Timing.Tick != 40*time.Millisecond {
		t.Errorf("Tick = %s, invalid file should be ignored", live.Get().Timing.Tick)
	}
}
