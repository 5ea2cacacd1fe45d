package session

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/exp/rand"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/game"
)

// fakeScheduler is a manual clock. Callbacks only run inside Advance.
type fakeScheduler struct {
	now        time.Duration
	timers     []*fakeTimer
	ignoreStop bool // Simulates a timer that already fired when Stop was called
}

type fakeTimer struct {
	sched   *fakeScheduler
	at      time.Duration
	f       func()
	fired   bool
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	if t.sched.ignoreStop || t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{sched: s, at: s.now + d, f: f}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves the clock forward, firing due timers in order.
func (s *fakeScheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		var next *fakeTimer
		for _, t := range s.timers {
			if t.fired || t.stopped || t.at > target {
				continue
			}
			if next == nil || t.at < next.at {
				next = t
			}
		}
		if next == nil {
			break
		}
		s.now = next.at
		next.fired = true
		next.f()
	}
	s.now = target
}

// Pending counts timers that have neither fired nor been stopped.
func (s *fakeScheduler) Pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}

// recordingSurface remembers the last painted frame.
type recordingSurface struct {
	clears int
	cells  map[core.Cell]core.Color
}

func (r *recordingSurface) Clear() {
	r.clears++
	r.cells = make(map[core.Cell]core.Color)
}

func (r *recordingSurface) DrawCell(c core.Cell, color core.Color) {
	r.cells[c] = color
}

type harness struct {
	sess    *Session
	sched   *fakeScheduler
	surface *recordingSurface
	events  []Event
}

func newHarness(t *testing.T, mutate func(*Settings)) *harness {
	t.Helper()
	settings := DefaultSettings()
	if mutate != nil {
		mutate(&settings)
	}

	h := &harness{
		sched:   &fakeScheduler{},
		surface: &recordingSurface{},
	}
	sess, err := New(settings,
		WithScheduler(h.sched),
		WithSurface(h.surface),
		WithListener(func(e Event) { h.events = append(h.events, e) }),
		WithRand(rand.New(rand.NewSource(42))),
	)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	h.sess = sess
	return h
}

// startRunning starts a game and waits out the countdown.
func (h *harness) startRunning(t *testing.T) {
	t.Helper()
	if err := h.sess.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	h.sched.Advance(3 * time.Second)
	if h.sess.State() != StateRunning {
		t.Fatalf("State() = %v after countdown, expected running", h.sess.State())
	}
}

func (h *harness) countdowns() []int {
	var out []int
	for _, e := range h.events {
		if e.Kind == EventCountdown {
			out = append(out, e.Countdown)
		}
	}
	return out
}

func (h *harness) hasEvent(kind EventKind) bool {
	for _, e := range h.events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

func TestNewValidatesSettings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"spawn outside grid", func(s *Settings) { s.Spawn = core.Cell{X: 30, Y: 0} }},
		{"zero tick", func(s *Settings) { s.TickPeriod = 0 }},
		{"negative countdown", func(s *Settings) { s.CountdownSteps = -1 }},
		{"zero countdown step", func(s *Settings) { s.CountdownStep = 0 }},
		{"empty grid", func(s *Settings) { s.Grid = core.Grid{} }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			settings := DefaultSettings()
			tc.mutate(&settings)
			if _, err := New(settings); !errors.Is(err, ErrInvalidSettings) {
				t.Errorf("New() error = %v, expected ErrInvalidSettings", err)
			}
		})
	}
}

func TestNewStartsIdle(t *testing.T) {
	h := newHarness(t, nil)

	if h.sess.State() != StateIdle {
		t.Errorf("State() = %v, expected idle", h.sess.State())
	}
	if h.sess.Listening() {
		t.Error("Input should be detached while idle")
	}
	snap := h.sess.Snapshot()
	if snap.Head() != (core.Cell{X: 5, Y: 5}) || snap.Length != 1 {
		t.Errorf("Snapshot head = %v len %d, expected {5 5} len 1", snap.Head(), snap.Length)
	}
}

func TestCountdownThenRunning(t *testing.T) {
	h := newHarness(t, nil)

	if err := h.sess.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if h.sess.State() != StateCountingDown {
		t.Fatalf("State() = %v, expected counting_down", h.sess.State())
	}
	if h.sess.Listening() {
		t.Error("Input should be detached during countdown")
	}

	// Keys during the countdown are dropped.
	h.sess.OnDirectionKey(core.ActionDown)

	h.sched.Advance(2 * time.Second)
	if h.sess.State() != StateCountingDown {
		t.Fatalf("State() = %v after 2s, expected counting_down", h.sess.State())
	}
	if h.surface.clears != 0 {
		t.Error("Surface must not be painted during the countdown")
	}

	h.sched.Advance(time.Second)
	if h.sess.State() != StateRunning {
		t.Fatalf("State() = %v after 3s, expected running", h.sess.State())
	}
	if !h.sess.Listening() {
		t.Error("Input should be attached while running")
	}

	expected := []int{3, 2, 1, 0}
	got := h.countdowns()
	if len(got) != len(expected) {
		t.Fatalf("Countdown events = %v, expected %v", got, expected)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Countdown events = %v, expected %v", got, expected)
			break
		}
	}

	// First tick goes right, the key pressed during countdown was ignored.
	h.sched.Advance(100 * time.Millisecond)
	if head := h.sess.Snapshot().Head(); head != (core.Cell{X: 6, Y: 5}) {
		t.Errorf("Head = %v after first tick, expected {6 5}", head)
	}
}

func TestTickAdvancesAndRedraws(t *testing.T) {
	h := newHarness(t, nil)
	h.startRunning(t)
	h.sess.food = core.Cell{X: 20, Y: 10}

	h.sched.Advance(99 * time.Millisecond)
	if h.sess.Snapshot().Ticks != 0 {
		t.Fatal("No tick should run before the period elapses")
	}

	h.sched.Advance(time.Millisecond)
	snap := h.sess.Snapshot()
	if snap.Ticks != 1 || snap.Head() != (core.Cell{X: 6, Y: 5}) {
		t.Errorf("After one period: ticks %d head %v, expected 1 and {6 5}", snap.Ticks, snap.Head())
	}
	if h.surface.clears != 1 {
		t.Errorf("Surface cleared %d times, expected 1", h.surface.clears)
	}
	if h.surface.cells[core.Cell{X: 6, Y: 5}] != core.ColorBrightGreen {
		t.Error("Head should be painted in the head color")
	}
	if h.surface.cells[core.Cell{X: 20, Y: 10}] != core.ColorRed {
		t.Error("Food should be painted in the food color")
	}
	if !h.hasEvent(EventRedraw) {
		t.Error("Expected a redraw event")
	}

	h.sched.Advance(400 * time.Millisecond)
	if head := h.sess.Snapshot().Head(); head != (core.Cell{X: 10, Y: 5}) {
		t.Errorf("Head = %v after five ticks, expected {10 5}", head)
	}
	if h.sched.Pending() != 1 {
		t.Errorf("Pending timers = %d, expected exactly one", h.sched.Pending())
	}
}

func TestEatingFoodGrowsAndReplacesFood(t *testing.T) {
	h := newHarness(t, nil)
	h.startRunning(t)
	h.sess.food = core.Cell{X: 6, Y: 5}

	h.sched.Advance(100 * time.Millisecond)

	snap := h.sess.Snapshot()
	if snap.Length != 2 {
		t.Errorf("Length = %d, expected 2", snap.Length)
	}
	if !snap.Grid.Contains(snap.Food) {
		t.Errorf("New food %v outside grid", snap.Food)
	}

	// Growth sticks: the next move keeps length 2.
	h.sess.food = core.Cell{X: 0, Y: 0}
	h.sched.Advance(100 * time.Millisecond)
	if l := h.sess.Snapshot().Length; l != 2 {
		t.Errorf("Length = %d after a plain move, expected 2", l)
	}
}

func TestDirectionKeysWhileRunning(t *testing.T) {
	h := newHarness(t, nil)
	h.startRunning(t)
	h.sess.food = core.Cell{X: 0, Y: 0}

	// Reversal is rejected.
	h.sess.OnDirectionKey(core.ActionLeft)
	h.sched.Advance(100 * time.Millisecond)
	if head := h.sess.Snapshot().Head(); head != (core.Cell{X: 6, Y: 5}) {
		t.Fatalf("Head = %v, expected {6 5} after rejected reversal", head)
	}

	// Up then Left in one period: Left is still the reverse of Right, Up wins.
	h.sess.OnDirectionKey(core.ActionUp)
	h.sess.OnDirectionKey(core.ActionLeft)
	h.sched.Advance(100 * time.Millisecond)
	snap := h.sess.Snapshot()
	if snap.Head() != (core.Cell{X: 6, Y: 4}) || snap.Heading != game.HeadingUp {
		t.Errorf("Head = %v heading %v, expected {6 4} up", snap.Head(), snap.Heading)
	}
}

func TestPauseAndResume(t *testing.T) {
	h := newHarness(t, nil)
	h.startRunning(t)
	h.sess.food = core.Cell{X: 0, Y: 0}
	h.sched.Advance(200 * time.Millisecond)

	before := h.sess.Snapshot()
	if err := h.sess.Pause(); err != nil {
		t.Fatalf("Pause() failed: %v", err)
	}
	if h.sess.State() != StatePaused {
		t.Fatalf("State() = %v, expected paused", h.sess.State())
	}
	if h.sess.Listening() {
		t.Error("Input should be detached while paused")
	}
	if h.sched.Pending() != 0 {
		t.Errorf("Pending timers = %d while paused, expected 0", h.sched.Pending())
	}

	h.sess.OnDirectionKey(core.ActionDown)
	h.sched.Advance(5 * time.Second)

	during := h.sess.Snapshot()
	if during.Ticks != before.Ticks || during.Head() != before.Head() {
		t.Errorf("Snake moved while paused: %v -> %v", before.Head(), during.Head())
	}

	if err := h.sess.Resume(); err != nil {
		t.Fatalf("Resume() failed: %v", err)
	}
	if h.sess.State() != StateRunning {
		t.Fatalf("State() = %v after resume, expected running (no countdown)", h.sess.State())
	}
	after := h.sess.Snapshot()
	if after.Head() != before.Head() || after.Food != before.Food || after.Heading != before.Heading {
		t.Error("Resume must not reset the snake, food or heading")
	}

	// The key pressed while paused was never applied.
	h.sched.Advance(100 * time.Millisecond)
	if head := h.sess.Snapshot().Head(); head != before.Head().Add(1, 0) {
		t.Errorf("Head = %v after resume, expected %v", head, before.Head().Add(1, 0))
	}
	if len(h.countdowns()) != 4 {
		t.Errorf("Countdown replayed on resume: %v", h.countdowns())
	}
}

func TestTogglePause(t *testing.T) {
	h := newHarness(t, nil)

	if err := h.sess.TogglePause(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("TogglePause() while idle error = %v, expected ErrInvalidTransition", err)
	}

	h.startRunning(t)
	if err := h.sess.TogglePause(); err != nil || h.sess.State() != StatePaused {
		t.Fatalf("TogglePause() = %v, state %v, expected paused", err, h.sess.State())
	}
	if err := h.sess.TogglePause(); err != nil || h.sess.State() != StateRunning {
		t.Fatalf("TogglePause() = %v, state %v, expected running", err, h.sess.State())
	}
}

func TestPausedTickDoesNothing(t *testing.T) {
	h := newHarness(t, nil)
	h.startRunning(t)
	h.sched.ignoreStop = true // The tick timer cannot be cancelled any more

	if err := h.sess.Pause(); err != nil {
		t.Fatalf("Pause() failed: %v", err)
	}
	h.sched.Advance(time.Second)

	if ticks := h.sess.Snapshot().Ticks; ticks != 0 {
		t.Errorf("Ticks = %d, expected 0 while paused", ticks)
	}
	if h.sched.Pending() != 0 {
		t.Errorf("Paused tick rescheduled itself: %d pending", h.sched.Pending())
	}
}

func TestStopCancelsCountdown(t *testing.T) {
	h := newHarness(t, nil)
	if err := h.sess.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	h.sched.Advance(time.Second)

	if err := h.sess.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	h.sched.Advance(10 * time.Second)

	if h.sess.State() != StateIdle {
		t.Errorf("State() = %v, expected idle", h.sess.State())
	}
	if h.sched.Pending() != 0 {
		t.Errorf("Pending timers = %d after stop, expected 0", h.sched.Pending())
	}
}

func TestStaleCallbacksAfterRestart(t *testing.T) {
	h := newHarness(t, nil)
	h.sched.ignoreStop = true

	h.startRunning(t)
	if err := h.sess.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if err := h.sess.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	// The old tick fires now; it must not touch the new session.
	h.sched.Advance(500 * time.Millisecond)
	snap := h.sess.Snapshot()
	if snap.State != StateCountingDown || snap.Ticks != 0 || snap.Head() != (core.Cell{X: 5, Y: 5}) {
		t.Errorf("Stale callback mutated session: state %v ticks %d head %v", snap.State, snap.Ticks, snap.Head())
	}

	h.sched.Advance(2500 * time.Millisecond)
	if h.sess.State() != StateRunning {
		t.Errorf("State() = %v, expected running after a single countdown", h.sess.State())
	}
}

func TestWallCollisionEndsGame(t *testing.T) {
	h := newHarness(t, func(s *Settings) { s.Spawn = core.Cell{X: 29, Y: 5} })
	h.startRunning(t)
	h.sess.food = core.Cell{X: 0, Y: 0}

	h.sched.Advance(100 * time.Millisecond)

	if h.sess.State() != StateGameOver {
		t.Fatalf("State() = %v, expected game_over", h.sess.State())
	}
	if !h.hasEvent(EventGameOver) {
		t.Error("Expected a game over event")
	}
	// The offending move is drawn before the game ends.
	if h.surface.clears != 1 {
		t.Errorf("Surface cleared %d times, expected 1", h.surface.clears)
	}
	if h.sess.Listening() {
		t.Error("Input should be detached after game over")
	}
	if h.sched.Pending() != 0 {
		t.Errorf("Pending timers = %d after game over, expected 0", h.sched.Pending())
	}

	h.sched.Advance(time.Second)
	if ticks := h.sess.Snapshot().Ticks; ticks != 1 {
		t.Errorf("Ticks = %d, loop kept running after game over", ticks)
	}
}

func TestSelfCollisionEndsGame(t *testing.T) {
	h := newHarness(t, nil)
	h.startRunning(t)

	// Hand-build a snake about to run into itself.
	h.sess.snake = game.NewSnake(core.Cell{X: 10, Y: 10}, game.HeadingRight)
	h.sess.input.Bind(h.sess.snake)
	for _, food := range []core.Cell{{X: 11, Y: 10}, {X: 12, Y: 10}, {X: 13, Y: 10}, {X: 14, Y: 10}} {
		h.sess.snake.Advance(game.HeadingRight, food)
	}
	h.sess.food = core.Cell{X: 0, Y: 0}

	h.sess.OnDirectionKey(core.ActionDown)
	h.sched.Advance(100 * time.Millisecond)
	h.sess.OnDirectionKey(core.ActionLeft)
	h.sched.Advance(100 * time.Millisecond)
	h.sess.OnDirectionKey(core.ActionUp)
	h.sched.Advance(100 * time.Millisecond)

	if h.sess.State() != StateGameOver {
		t.Errorf("State() = %v, expected game_over", h.sess.State())
	}
}

func TestGameOverOnlyAcceptsStop(t *testing.T) {
	h := newHarness(t, func(s *Settings) { s.Spawn = core.Cell{X: 29, Y: 0} })
	h.startRunning(t)
	h.sched.Advance(100 * time.Millisecond)
	if h.sess.State() != StateGameOver {
		t.Fatalf("State() = %v, expected game_over", h.sess.State())
	}

	if err := h.sess.Start(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Start() error = %v, expected ErrInvalidTransition", err)
	}
	if err := h.sess.TogglePause(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("TogglePause() error = %v, expected ErrInvalidTransition", err)
	}
	if err := h.sess.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if h.sess.State() != StateIdle {
		t.Errorf("State() = %v, expected idle", h.sess.State())
	}

	// A fresh game starts from the spawn cell again.
	if err := h.sess.Start(); err != nil {
		t.Fatalf("Start() after acknowledge failed: %v", err)
	}
	if snap := h.sess.Snapshot(); snap.Head() != (core.Cell{X: 29, Y: 0}) || snap.Length != 1 {
		t.Errorf("Restart head = %v len %d, expected spawn and len 1", snap.Head(), snap.Length)
	}
}

func TestInvalidTransitions(t *testing.T) {
	h := newHarness(t, nil)

	if err := h.sess.Stop(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Stop() while idle error = %v, expected ErrInvalidTransition", err)
	}
	if err := h.sess.Pause(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Pause() while idle error = %v, expected ErrInvalidTransition", err)
	}
	if err := h.sess.Resume(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Resume() while idle error = %v, expected ErrInvalidTransition", err)
	}

	if err := h.sess.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if err := h.sess.Start(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Start() while counting down error = %v, expected ErrInvalidTransition", err)
	}
	if err := h.sess.Pause(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Pause() while counting down error = %v, expected ErrInvalidTransition", err)
	}
}

func TestStartWithoutScheduler(t *testing.T) {
	sess, err := New(DefaultSettings())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if err := sess.Start(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Start() error = %v, expected ErrInvalidTransition", err)
	}
	if sess.State() != StateIdle {
		t.Errorf("State() = %v, expected idle", sess.State())
	}
}

func TestHandleDispatchesActions(t *testing.T) {
	h := newHarness(t, func(s *Settings) { s.CountdownSteps = 0 })

	// Directions are never an error, even when nothing listens.
	if err := h.sess.Handle(core.ActionLeft); err != nil {
		t.Errorf("Handle(left) while idle failed: %v", err)
	}

	if err := h.sess.Handle(core.ActionStart); err != nil {
		t.Fatalf("Handle(start) failed: %v", err)
	}
	if h.sess.State() != StateRunning {
		t.Fatalf("State() = %v, expected running with no countdown", h.sess.State())
	}

	if err := h.sess.Handle(core.ActionDown); err != nil {
		t.Errorf("Handle(down) failed: %v", err)
	}
	if h.sess.snake.Pending() != game.HeadingDown {
		t.Errorf("Pending() = %v, expected down", h.sess.snake.Pending())
	}

	if err := h.sess.Handle(core.ActionPause); err != nil || h.sess.State() != StatePaused {
		t.Errorf("Handle(pause) = %v, state %v", err, h.sess.State())
	}
	if err := h.sess.Handle(core.ActionStop); err != nil || h.sess.State() != StateIdle {
		t.Errorf("Handle(stop) = %v, state %v", err, h.sess.State())
	}
}

func TestSettingsSourceAppliesOnStart(t *testing.T) {
	next := DefaultSettings()
	next.Spawn = core.Cell{X: 1, Y: 1}
	next.SpawnHeading = game.HeadingDown
	next.TickPeriod = 50 * time.Millisecond
	next.CountdownSteps = 0

	sched := &fakeScheduler{}
	sess, err := New(DefaultSettings(),
		WithScheduler(sched),
		WithSettingsSource(func() Settings { return next }),
	)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if err := sess.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	sess.food = core.Cell{X: 0, Y: 0}
	sched.Advance(50 * time.Millisecond)

	if head := sess.Snapshot().Head(); head != (core.Cell{X: 1, Y: 2}) {
		t.Errorf("Head = %v, expected {1 2} with reloaded settings", head)
	}
}

func TestSettingsSourceRejectsInvalid(t *testing.T) {
	bad := DefaultSettings()
	bad.TickPeriod = 0

	sched := &fakeScheduler{}
	sess, err := New(DefaultSettings(),
		WithScheduler(sched),
		WithSettingsSource(func() Settings { return bad }),
	)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if err := sess.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if sess.Settings().TickPeriod != 100*time.Millisecond {
		t.Errorf("TickPeriod = %s, invalid settings should be ignored", sess.Settings().TickPeriod)
	}
}

func TestControlsTable(t *testing.T) {
	tests := []struct {
		state    State
		expected Controls
	}{
		{StateIdle, Controls{Start: true, PauseLabel: "Pause"}},
		{StateCountingDown, Controls{PauseLabel: "Pause"}},
		{StateRunning, Controls{Stop: true, Pause: true, PauseLabel: "Pause"}},
		{StatePaused, Controls{Stop: true, Pause: true, PauseLabel: "Resume"}},
		{StateGameOver, Controls{Stop: true, PauseLabel: "Pause"}},
	}

	for _, tc := range tests {
		t.Run(tc.state.String(), func(t *testing.T) {
			if got := ControlsFor(tc.state); got != tc.expected {
				t.Errorf("ControlsFor(%v) = %+v, expected %+v", tc.state, got, tc.expected)
			}
		})
	}
}

func TestPaintOrder(t *testing.T) {
	surface := &recordingSurface{}
	snap := Snapshot{
		Snake: []core.Cell{{X: 2, Y: 2}, {X: 1, Y: 2}},
		Food:  core.Cell{X: 1, Y: 2}, // Under the body
	}

	Paint(surface, snap, DefaultPalette())

	if surface.cells[core.Cell{X: 1, Y: 2}] != core.ColorGreen {
		t.Error("Snake should be painted over food")
	}
	if surface.cells[core.Cell{X: 2, Y: 2}] != core.ColorBrightGreen {
		t.Error("Head should use the head color")
	}
}
