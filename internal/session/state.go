package session

// State is the lifecycle state of a session.
type State int

const (
	StateIdle State = iota
	StateCountingDown
	StateRunning
	StatePaused
	StateGameOver
)

// String returns the wire name of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCountingDown:
		return "counting_down"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Controls mirrors the three UI buttons: which are enabled and what the
// pause button currently says.
type Controls struct {
	Start      bool   `json:"start"`
	Stop       bool   `json:"stop"`
	Pause      bool   `json:"pause"`
	PauseLabel string `json:"pause_label"`
}

// ControlsFor returns the button table for a state.
func ControlsFor(s State) Controls {
	c := Controls{PauseLabel: "Pause"}
	switch s {
	case StateIdle:
		c.Start = true
	case StateCountingDown:
		// Everything is locked until the countdown finishes.
	case StateRunning:
		c.Stop = true
		c.Pause = true
	case StatePaused:
		c.Stop = true
		c.Pause = true
		c.PauseLabel = "Resume"
	case StateGameOver:
		c.Stop = true
	}
	return c
}
