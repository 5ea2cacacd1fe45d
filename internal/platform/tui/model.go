package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/render"
	"github.com/vovakirdan/tui-snake/internal/session"
)

// Layout constants
const (
	hudHeight    = 1 // Status line above the board
	footerHeight = 1 // Help line below the board
)

// Options configures a game Model.
type Options struct {
	Live          *config.Live // Settings source, re-read on every start
	Logger        *log.Logger
	ScreenshotDir string // Defaults to ~/.snake/screenshots
	Width         int    // Initial terminal size until the first resize
	Height        int
}

// Model is the Bubble Tea model for one snake session. It is the input
// source, the control panel and the render target of the session.
type Model struct {
	sess    *session.Session
	sched   *cmdScheduler
	board   *boardSurface
	screen  *core.Screen
	keys    KeyMap
	help    help.Model
	logger  *log.Logger
	shotDir string

	width    int
	height   int
	notice   string // Transient message shown in the status line
	quitting bool
}

// NewModel creates an idle game model.
func NewModel(opts Options) (Model, error) {
	if opts.Live == nil {
		opts.Live = config.NewLive(config.DefaultConfig(), "")
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.ScreenshotDir == "" {
		opts.ScreenshotDir = filepath.Join(os.Getenv("HOME"), ".snake", "screenshots")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 80, 24
	}

	settings := opts.Live.Settings()
	sched := newCmdScheduler()
	board := newBoardSurface(settings.Grid)

	sess, err := session.New(settings,
		session.WithScheduler(sched),
		session.WithSurface(board),
		session.WithLogger(opts.Logger),
		session.WithSettingsSource(opts.Live.Settings),
	)
	if err != nil {
		return Model{}, err
	}

	h := help.New()
	h.Width = opts.Width

	return Model{
		sess:    sess,
		sched:   sched,
		board:   board,
		screen:  core.NewScreen(opts.Width, boardRows(opts.Height)),
		keys:    DefaultKeyMap(),
		help:    h,
		logger:  opts.Logger,
		shotDir: opts.ScreenshotDir,
		width:   opts.Width,
		height:  opts.Height,
	}, nil
}

// Init sets the window title. Nothing ticks until the player starts a game.
func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("snake")
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if quit := m.handleKey(msg); quit {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.screen.Resize(msg.Width, boardRows(msg.Height))
		m.help.Width = msg.Width

	case timerFiredMsg:
		m.sched.fire(msg.id)
	}

	m.keys.SetState(m.sess.State())
	return m, m.sched.Cmd()
}

// handleKey processes keyboard input. Returns true on quit.
func (m *Model) handleKey(msg tea.KeyMsg) bool {
	if key.Matches(msg, m.keys.Screenshot) {
		m.notice = m.saveScreenshot()
		return false
	}

	action := m.keys.MapKey(msg)
	switch action {
	case core.ActionNone:
		return false
	case core.ActionQuit:
		m.quitting = true
		if m.sess.State() != session.StateIdle {
			_ = m.sess.Stop()
		}
		return true
	}

	m.notice = ""
	if err := m.sess.Handle(action); err != nil {
		m.logger.Debug("action rejected", "action", action, "error", err)
	}
	return false
}

// saveScreenshot writes the current board as PNG and returns a notice.
func (m *Model) saveScreenshot() string {
	img := render.Frame(m.sess.Snapshot(), m.sess.Settings().Palette, render.FrameOptions{})

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(m.shotDir, fmt.Sprintf("snake_%s.png", timestamp))
	if err := render.SavePNG(path, img); err != nil {
		m.logger.Warn("screenshot failed", "error", err)
		return "screenshot failed"
	}
	m.logger.Info("screenshot saved", "path", path)
	return "saved " + path
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.sess.Snapshot()
	m.board.Fit(snap.Grid)
	m.screen.Clear()

	hud := fmt.Sprintf(" Snake  Length: %d  %s", snap.Length, stateLabel(snap.State))
	if m.notice != "" {
		hud += "  " + noticeStyle.Render(m.notice)
	}

	boxW := m.board.Width() + 2
	boxH := m.board.Height() + 2
	if m.width < boxW || m.height < boxH+hudHeight+footerHeight {
		m.renderOverlay(core.NewRect(0, 0, m.screen.Width(), m.screen.Height()),
			"Window too small",
			fmt.Sprintf("Need %dx%d", boxW, boxH+hudHeight+footerHeight))
		return hudStyle.Render(hud) + "\n" + RenderScreen(m.screen)
	}

	box := core.NewRect((m.screen.Width()-boxW)/2, 0, boxW, boxH)
	m.screen.DrawBox(box)
	m.screen.Blit(m.board.screen, box.X+1, box.Y+1)

	switch snap.State {
	case session.StateIdle:
		m.renderOverlay(box, "Snake", "Press enter to start")
	case session.StateCountingDown:
		m.renderOverlay(box, fmt.Sprintf("Starting in: %d", snap.Countdown), "")
	case session.StatePaused:
		m.renderOverlay(box, "Paused", "Press p to resume")
	case session.StateGameOver:
		m.renderOverlay(box, "Game Over!", fmt.Sprintf("Length: %d  Press enter", snap.Length))
	}

	return hudStyle.Render(hud) + "\n" + RenderScreen(m.screen) + "\n" + m.help.View(m.keys)
}

// renderOverlay draws a message box centered in area.
func (m Model) renderOverlay(area core.Rect, line1, line2 string) {
	width := max(len([]rune(line1)), len([]rune(line2))) + 4
	height := 5
	if line2 == "" {
		height = 3
	}

	cx, cy := area.Center()
	r := core.NewRect(cx-width/2, cy-height/2, width, height)
	m.screen.Fill(r, ' ')
	m.screen.DrawBox(r)
	m.screen.DrawTextIn(r, r.Y+1, line1)
	if line2 != "" {
		m.screen.DrawTextIn(r, r.Y+3, line2)
	}
}

// boardRows returns the rows left for the board area.
func boardRows(height int) int {
	return max(height-hudHeight-footerHeight, 1)
}

func stateLabel(s session.State) string {
	switch s {
	case session.StateCountingDown:
		return "starting"
	case session.StateGameOver:
		return "game over"
	default:
		return s.String()
	}
}

// Run starts the Bubble Tea program with a new model. It returns when the
// player quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	model, err := NewModel(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
		tea.WithContext(ctx),
	)

	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
