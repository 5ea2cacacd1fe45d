package web

import (
	"fmt"
	"image/color"

	"github.com/vovakirdan/tui-snake/internal/session"
)

// Server message types. Event types reuse session.EventKind names.
const (
	TypeHello = "hello" // First message on a connection
	TypeError = "error" // A command was rejected
)

// ClientMessage is sent by the browser.
//
//	{"action": "start"}
//	{"action": "left"}
type ClientMessage struct {
	Action string `json:"action"`
}

// ServerMessage is sent to the browser after every session event.
type ServerMessage struct {
	Type    string `json:"type"`
	Session string `json:"session,omitempty"`
	Frame   *Frame `json:"frame,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Point is a board cell on the wire.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Frame is everything the browser needs to draw the board and the buttons.
type Frame struct {
	State     string           `json:"state"`
	Countdown int              `json:"countdown"`
	Columns   int              `json:"columns"`
	Rows      int              `json:"rows"`
	CellSize  int              `json:"cell_size"`
	Snake     []Point          `json:"snake"`
	Food      Point            `json:"food"`
	Heading   string           `json:"heading"`
	Length    int              `json:"length"`
	Ticks     uint64           `json:"ticks"`
	Controls  session.Controls `json:"controls"`
	Steering  bool             `json:"steering"` // Direction keys are applied
	Palette   PaletteInfo      `json:"palette"`
}

// PaletteInfo carries the board colors as CSS colors.
type PaletteInfo struct {
	Snake string `json:"snake"`
	Head  string `json:"head"`
	Food  string `json:"food"`
}

// SessionInfo is one entry of the /sessions listing.
type SessionInfo struct {
	ID        string `json:"id"`
	State     string `json:"state"`
	Length    int    `json:"length"`
	Remote    string `json:"remote"`
	Connected string `json:"connected"`
}

func newFrame(snap session.Snapshot, pal session.Palette) *Frame {
	f := &Frame{
		State:     snap.State.String(),
		Countdown: snap.Countdown,
		Columns:   snap.Grid.Columns,
		Rows:      snap.Grid.Rows,
		CellSize:  snap.Grid.CellSize,
		Snake:     make([]Point, len(snap.Snake)),
		Food:      Point{X: snap.Food.X, Y: snap.Food.Y},
		Heading:   snap.Heading.String(),
		Length:    snap.Length,
		Ticks:     snap.Ticks,
		Controls:  snap.Controls,
		Palette: PaletteInfo{
			Snake: cssColor(pal.Snake.RGBA()),
			Head:  cssColor(pal.Head.RGBA()),
			Food:  cssColor(pal.Food.RGBA()),
		},
	}
	for i, c := range snap.Snake {
		f.Snake[i] = Point{X: c.X, Y: c.Y}
	}
	return f
}

func cssColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
