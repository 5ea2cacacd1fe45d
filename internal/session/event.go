package session

// EventKind identifies what a session Event reports.
type EventKind int

const (
	EventStateChanged EventKind = iota // State moved; Previous holds the old one
	EventCountdown                     // Countdown holds the remaining steps
	EventRedraw                        // The surface was repainted after a tick
	EventGameOver                      // The snake collided; Length is final
)

// String returns the wire name of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventStateChanged:
		return "state"
	case EventCountdown:
		return "countdown"
	case EventRedraw:
		return "redraw"
	case EventGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Event is a notification from the session to its UI.
type Event struct {
	Kind      EventKind
	State     State
	Previous  State
	Countdown int
	Length    int
}

// Listener receives session events. It runs on the session's context and
// must not block.
type Listener func(Event)
