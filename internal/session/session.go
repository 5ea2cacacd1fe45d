// Package session implements the game session state machine: the
// Idle -> CountingDown -> Running <-> Paused -> GameOver lifecycle and the
// tick loop that drives the snake. A Session is not safe for concurrent
// use; callers serialize access through a Scheduler-compatible actor
// (see Loop) or a UI event loop.
package session

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/rand"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/game"
)

// ErrInvalidTransition is returned when a command is not allowed in the
// current state. The session is left untouched.
var ErrInvalidTransition = errors.New("session: invalid transition")

// ErrInvalidSettings is returned by New and Validate for unusable settings.
var ErrInvalidSettings = errors.New("session: invalid settings")

// Settings are the fixed parameters of a session.
type Settings struct {
	Grid           core.Grid
	TickPeriod     time.Duration // Delay between simulation steps
	CountdownSteps int           // Steps shown before the first tick
	CountdownStep  time.Duration // Delay between countdown steps
	Spawn          core.Cell
	SpawnHeading   game.Heading
	Palette        Palette
}

// DefaultSettings returns a 30x18 board of 20px cells, 100ms ticks and a
// three second countdown.
func DefaultSettings() Settings {
	grid, _ := core.NewGrid(600, 360, 20)
	return Settings{
		Grid:           grid,
		TickPeriod:     100 * time.Millisecond,
		CountdownSteps: 3,
		CountdownStep:  time.Second,
		Spawn:          core.Cell{X: 5, Y: 5},
		SpawnHeading:   game.HeadingRight,
		Palette:        DefaultPalette(),
	}
}

// Validate checks that the settings describe a playable board.
func (s Settings) Validate() error {
	if s.Grid.Columns <= 0 || s.Grid.Rows <= 0 {
		return fmt.Errorf("%w: empty grid", ErrInvalidSettings)
	}
	if s.TickPeriod <= 0 {
		return fmt.Errorf("%w: tick period %s must be positive", ErrInvalidSettings, s.TickPeriod)
	}
	if s.CountdownSteps < 0 {
		return fmt.Errorf("%w: countdown steps %d must not be negative", ErrInvalidSettings, s.CountdownSteps)
	}
	if s.CountdownSteps > 0 && s.CountdownStep <= 0 {
		return fmt.Errorf("%w: countdown step %s must be positive", ErrInvalidSettings, s.CountdownStep)
	}
	if !s.Grid.Contains(s.Spawn) {
		return fmt.Errorf("%w: spawn %v outside %dx%d grid",
			ErrInvalidSettings, s.Spawn, s.Grid.Columns, s.Grid.Rows)
	}
	return nil
}

// Option configures a Session.
type Option func(*Session)

// WithScheduler sets the timer source. Required for anything but Idle.
func WithScheduler(sched Scheduler) Option {
	return func(s *Session) { s.sched = sched }
}

// WithSurface sets the render target painted after every tick.
func WithSurface(surface Surface) Option {
	return func(s *Session) { s.surface = surface }
}

// WithListener sets the event callback.
func WithListener(l Listener) Option {
	return func(s *Session) { s.listener = l }
}

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithRand sets the random source used for food placement.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) { s.rng = rng }
}

// WithSettingsSource makes Start pick up new settings from src. Invalid
// settings returned by src are logged and ignored.
func WithSettingsSource(src func() Settings) Option {
	return func(s *Session) { s.source = src }
}

// Session owns the snake, the food, the lifecycle state and the single
// pending timer.
type Session struct {
	settings Settings
	source   func() Settings
	sched    Scheduler
	surface  Surface
	listener Listener
	logger   *log.Logger
	rng      *rand.Rand

	snake *game.Snake
	food  core.Cell
	foods *game.FoodGenerator
	input *game.InputController

	state     State
	paused    bool
	countdown int
	ticks     uint64

	timer Timer
	gen   uint64 // Bumped on every schedule/cancel; stale callbacks compare against it
}

// New creates an idle session.
func New(settings Settings, opts ...Option) (*Session, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	s := &Session{settings: settings}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}

	s.foods = game.NewFoodGenerator(settings.Grid, s.rng)
	s.snake = game.NewSnake(settings.Spawn, settings.SpawnHeading)
	s.input = game.NewInputController(s.snake)
	s.food = s.foods.Place()

	return s, nil
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Settings returns the settings of the current (or next) game.
func (s *Session) Settings() Settings {
	return s.settings
}

// Controls returns the button table for the current state.
func (s *Session) Controls() Controls {
	return ControlsFor(s.state)
}

// Listening reports whether directional input is currently applied.
func (s *Session) Listening() bool {
	return s.input.Attached()
}

// Handle dispatches an action to the matching command. Direction actions
// never fail; they are dropped unless the game is running.
func (s *Session) Handle(a core.Action) error {
	if a.IsDirection() {
		s.OnDirectionKey(a)
		return nil
	}
	switch a {
	case core.ActionStart:
		return s.Start()
	case core.ActionStop:
		return s.Stop()
	case core.ActionPause:
		return s.TogglePause()
	}
	return nil
}

// Start resets the board and begins the countdown. Only valid when idle.
func (s *Session) Start() error {
	if s.state != StateIdle {
		return fmt.Errorf("%w: start while %s", ErrInvalidTransition, s.state)
	}
	if s.sched == nil {
		return fmt.Errorf("%w: no scheduler", ErrInvalidTransition)
	}

	s.cancel()
	s.reload()

	s.snake = game.NewSnake(s.settings.Spawn, s.settings.SpawnHeading)
	s.input.Bind(s.snake)
	s.input.Detach()
	s.food = s.foods.Place()
	s.paused = false
	s.ticks = 0
	s.countdown = s.settings.CountdownSteps

	s.setState(StateCountingDown)
	if s.countdown <= 0 {
		s.run()
		return nil
	}
	s.emit(Event{Kind: EventCountdown, State: s.state, Countdown: s.countdown})
	s.schedule(s.settings.CountdownStep, s.countdownStep)
	return nil
}

// Stop cancels whatever is pending and returns to idle. From GameOver it
// acknowledges the end of the game.
func (s *Session) Stop() error {
	if s.state == StateIdle {
		return fmt.Errorf("%w: stop while %s", ErrInvalidTransition, s.state)
	}

	s.cancel()
	s.input.Detach()
	s.paused = true
	s.setState(StateIdle)
	return nil
}

// Pause suspends the tick loop and detaches input.
func (s *Session) Pause() error {
	if s.state != StateRunning {
		return fmt.Errorf("%w: pause while %s", ErrInvalidTransition, s.state)
	}

	s.paused = true
	s.cancel()
	s.input.Detach()
	s.setState(StatePaused)
	return nil
}

// Resume re-attaches input and restarts the tick loop without a countdown.
func (s *Session) Resume() error {
	if s.state != StatePaused {
		return fmt.Errorf("%w: resume while %s", ErrInvalidTransition, s.state)
	}

	s.paused = false
	s.run()
	return nil
}

// TogglePause pauses a running game or resumes a paused one.
func (s *Session) TogglePause() error {
	switch s.state {
	case StateRunning:
		return s.Pause()
	case StatePaused:
		return s.Resume()
	}
	return fmt.Errorf("%w: toggle pause while %s", ErrInvalidTransition, s.state)
}

// OnDirectionKey forwards a directional action to the input controller.
// It has no effect unless the game is running.
func (s *Session) OnDirectionKey(a core.Action) {
	s.input.OnDirectionKey(a)
}

// countdownStep runs once per countdown step.
func (s *Session) countdownStep() {
	s.countdown--
	if s.countdown > 0 {
		s.emit(Event{Kind: EventCountdown, State: s.state, Countdown: s.countdown})
		s.schedule(s.settings.CountdownStep, s.countdownStep)
		return
	}
	s.emit(Event{Kind: EventCountdown, State: s.state, Countdown: 0})
	s.run()
}

// run enters Running and starts a loop iteration.
func (s *Session) run() {
	s.input.Attach()
	s.setState(StateRunning)
	s.loop()
}

// loop checks for the end of the game using the board as the last tick
// left it, then schedules the next tick.
func (s *Session) loop() {
	if s.snake.IsColliding(s.settings.Grid) {
		s.gameOver()
		return
	}
	s.schedule(s.settings.TickPeriod, s.tick)
}

// tick advances the snake one cell.
func (s *Session) tick() {
	if s.paused {
		return
	}

	s.ticks++
	res := s.snake.Advance(s.snake.Pending(), s.food)
	if res.AteFood {
		s.food = s.foods.Place()
	}

	s.redraw()
	s.loop()
}

// gameOver stops the loop and reports the result.
func (s *Session) gameOver() {
	s.cancel()
	s.input.Detach()
	s.setState(StateGameOver)

	s.logger.Info("game over", "length", s.snake.Len(), "ticks", s.ticks, "head", s.snake.Head())
	s.emit(Event{Kind: EventGameOver, State: s.state, Length: s.snake.Len()})
}

// redraw paints the board and announces the new frame.
func (s *Session) redraw() {
	if s.surface != nil {
		Paint(s.surface, s.Snapshot(), s.settings.Palette)
	}
	s.emit(Event{Kind: EventRedraw, State: s.state, Length: s.snake.Len()})
}

// reload swaps in settings from the source, if any.
func (s *Session) reload() {
	if s.source == nil {
		return
	}

	next := s.source()
	if err := next.Validate(); err != nil {
		s.logger.Warn("ignoring new settings", "error", err)
		return
	}
	if next.Grid != s.settings.Grid {
		s.foods = game.NewFoodGenerator(next.Grid, s.rng)
	}
	s.settings = next
}

// schedule arms the single session timer.
func (s *Session) schedule(d time.Duration, f func()) {
	s.cancel()
	gen := s.gen
	s.timer = s.sched.AfterFunc(d, func() {
		if gen != s.gen {
			return // Cancelled after it fired
		}
		s.timer = nil
		f()
	})
}

// cancel stops the pending timer and invalidates any callback in flight.
func (s *Session) cancel() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

func (s *Session) setState(next State) {
	if next == s.state {
		return
	}
	prev := s.state
	s.state = next
	s.logger.Debug("state changed", "from", prev, "to", next)
	s.emit(Event{Kind: EventStateChanged, State: next, Previous: prev})
}

func (s *Session) emit(evt Event) {
	if s.listener != nil {
		s.listener(evt)
	}
}
