package session

import (
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/game"
)

// Snapshot is a read-only copy of the session, safe to hand to renderers
// and transports.
type Snapshot struct {
	State     State
	Countdown int // Remaining countdown steps, meaningful in StateCountingDown
	Grid      core.Grid
	Snake     []core.Cell // Head first
	Food      core.Cell
	Heading   game.Heading
	Length    int
	Ticks     uint64
	Controls  Controls
}

// Head returns the head cell of the snapshot.
func (s Snapshot) Head() core.Cell {
	if len(s.Snake) == 0 {
		return core.Cell{}
	}
	return s.Snake[0]
}

// Snapshot returns the current session state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		State:     s.state,
		Countdown: s.countdown,
		Grid:      s.settings.Grid,
		Snake:     s.snake.Body(),
		Food:      s.food,
		Heading:   s.snake.Heading(),
		Length:    s.snake.Len(),
		Ticks:     s.ticks,
		Controls:  ControlsFor(s.state),
	}
}
