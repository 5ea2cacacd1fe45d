package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/session"
)

// KeyMap defines the key bindings of the game screen. Bindings that the
// current state does not accept are disabled, which also hides them from
// the help footer.
type KeyMap struct {
	Start      key.Binding
	Stop       key.Binding
	Ack        key.Binding // Dismisses the game over notice
	Pause      key.Binding
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	Screenshot key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Ack, k.Pause, k.Stop, k.Up, k.Screenshot, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Ack, k.Pause, k.Stop},
		{k.Up, k.Down, k.Left, k.Right},
		{k.Screenshot, k.Quit},
	}
}

// DefaultKeyMap returns default key bindings with the idle controls enabled.
func DefaultKeyMap() KeyMap {
	k := KeyMap{
		Start: key.NewBinding(
			key.WithKeys("enter", "n"),
			key.WithHelp("enter", "start"),
		),
		Stop: key.NewBinding(
			key.WithKeys("x", "esc"),
			key.WithHelp("x", "stop"),
		),
		Ack: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "ok"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", " "),
			key.WithHelp("p", "pause"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "w", "k"),
			key.WithHelp("←↑↓→/wasd", "steer"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "s", "j"),
			key.WithHelp("down/s", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "a", "h"),
			key.WithHelp("left/a", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d", "l"),
			key.WithHelp("right/d", "right"),
		),
		Screenshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
	k.SetState(session.StateIdle)
	return k
}

// SetState enables the bindings the state accepts and relabels Pause.
func (k *KeyMap) SetState(state session.State) {
	c := session.ControlsFor(state)
	k.Start.SetEnabled(c.Start)
	k.Stop.SetEnabled(c.Stop)
	k.Pause.SetEnabled(c.Pause)
	k.Pause.SetHelp("p", strings.ToLower(c.PauseLabel))
	k.Ack.SetEnabled(state == session.StateGameOver)

	steering := state == session.StateRunning
	k.Up.SetEnabled(steering)
	k.Down.SetEnabled(steering)
	k.Left.SetEnabled(steering)
	k.Right.SetEnabled(steering)
}

// MapKey translates a key message to a game action.
// Returns ActionNone for unbound or disabled keys.
func (k KeyMap) MapKey(msg tea.KeyMsg) core.Action {
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit
	case key.Matches(msg, k.Start):
		return core.ActionStart
	case key.Matches(msg, k.Stop), key.Matches(msg, k.Ack):
		return core.ActionStop
	case key.Matches(msg, k.Pause):
		return core.ActionPause
	case key.Matches(msg, k.Up):
		return core.ActionUp
	case key.Matches(msg, k.Down):
		return core.ActionDown
	case key.Matches(msg, k.Left):
		return core.ActionLeft
	case key.Matches(msg, k.Right):
		return core.ActionRight
	}
	return core.ActionNone
}
