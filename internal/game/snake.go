// Package game holds the pure snake rules: the snake body and its heading,
// food placement and the directional input guard. It knows nothing about
// timers, terminals or sockets; the session package drives it tick by tick.
package game

import (
	"fmt"

	"github.com/vovakirdan/tui-snake/internal/core"
)

// Heading represents the snake's movement direction.
type Heading int

const (
	HeadingRight Heading = iota
	HeadingDown
	HeadingLeft
	HeadingUp
)

// String returns the config name of the heading.
func (h Heading) String() string {
	switch h {
	case HeadingUp:
		return "up"
	case HeadingDown:
		return "down"
	case HeadingLeft:
		return "left"
	case HeadingRight:
		return "right"
	default:
		return "unknown"
	}
}

// ParseHeading resolves a heading from its config name.
func ParseHeading(name string) (Heading, error) {
	switch name {
	case "up":
		return HeadingUp, nil
	case "down":
		return HeadingDown, nil
	case "left":
		return HeadingLeft, nil
	case "right":
		return HeadingRight, nil
	}
	return HeadingRight, fmt.Errorf("game: unknown heading %q", name)
}

// Reverse returns the opposite heading.
func (h Heading) Reverse() Heading {
	switch h {
	case HeadingUp:
		return HeadingDown
	case HeadingDown:
		return HeadingUp
	case HeadingLeft:
		return HeadingRight
	default:
		return HeadingLeft
	}
}

// Delta returns the one-cell offset for the heading.
func (h Heading) Delta() (dx, dy int) {
	switch h {
	case HeadingUp:
		return 0, -1
	case HeadingDown:
		return 0, 1
	case HeadingLeft:
		return -1, 0
	default:
		return 1, 0
	}
}

// AdvanceResult is returned by Snake.Advance after one move.
type AdvanceResult struct {
	Head    core.Cell // New head position
	AteFood bool      // Head landed on the food; caller must place new food
}

// Snake is the ordered list of occupied cells, head at index 0, plus the
// heading committed by the last completed move and the pending heading
// requested for the next one.
type Snake struct {
	body    []core.Cell
	heading Heading
	pending Heading
}

// NewSnake creates a one-segment snake at start facing heading.
func NewSnake(start core.Cell, heading Heading) *Snake {
	return &Snake{
		body:    []core.Cell{start},
		heading: heading,
		pending: heading,
	}
}

// Advance moves the snake one cell in heading. The new head is prepended;
// the tail is dropped unless the head landed on food. The heading is
// committed as the heading of the last completed move. Advance trusts the
// caller: the reversal guard lives in Turn.
func (s *Snake) Advance(heading Heading, food core.Cell) AdvanceResult {
	dx, dy := heading.Delta()
	head := s.body[0].Add(dx, dy)

	s.body = append([]core.Cell{head}, s.body...)
	s.heading = heading
	s.pending = heading

	ate := head == food
	if !ate {
		s.body = s.body[:len(s.body)-1]
	}

	return AdvanceResult{Head: head, AteFood: ate}
}

// IsColliding reports whether the head is off the grid or overlaps
// another segment.
func (s *Snake) IsColliding(grid core.Grid) bool {
	head := s.body[0]
	if !grid.Contains(head) {
		return true
	}
	for _, seg := range s.body[1:] {
		if seg == head {
			return true
		}
	}
	return false
}

// Turn requests a heading change for the next move.
// The exact reverse of the committed heading is rejected.
func (s *Snake) Turn(h Heading) bool {
	if h == s.heading.Reverse() {
		return false
	}
	s.pending = h
	return true
}

// Head returns the head cell.
func (s *Snake) Head() core.Cell {
	return s.body[0]
}

// Body returns a copy of all segments, head first.
func (s *Snake) Body() []core.Cell {
	out := make([]core.Cell, len(s.body))
	copy(out, s.body)
	return out
}

// Len returns the number of segments.
func (s *Snake) Len() int {
	return len(s.body)
}

// Heading returns the heading used by the last completed move.
func (s *Snake) Heading() Heading {
	return s.heading
}

// Pending returns the heading the next move will use.
func (s *Snake) Pending() Heading {
	return s.pending
}

