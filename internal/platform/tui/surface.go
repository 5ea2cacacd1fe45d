package tui

import (
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/session"
)

// cellWidth is the number of terminal columns per board cell. Terminal
// cells are roughly twice as tall as wide, so two columns look square.
const cellWidth = 2

// boardSurface is a session.Surface drawing into a character buffer sized
// to the grid.
type boardSurface struct {
	screen *core.Screen
	grid   core.Grid
}

func newBoardSurface(grid core.Grid) *boardSurface {
	return &boardSurface{
		screen: core.NewScreen(grid.Columns*cellWidth, grid.Rows),
		grid:   grid,
	}
}

// Fit resizes the buffer when the grid changed, e.g. after a config reload.
func (b *boardSurface) Fit(grid core.Grid) {
	if grid == b.grid {
		return
	}
	b.grid = grid
	b.screen.Resize(grid.Columns*cellWidth, grid.Rows)
}

func (b *boardSurface) Clear() {
	b.screen.Clear()
}

// DrawCell paints one cell as a full block. Off-board cells are clipped.
func (b *boardSurface) DrawCell(c core.Cell, color core.Color) {
	if !b.grid.Contains(c) {
		return
	}
	for i := 0; i < cellWidth; i++ {
		b.screen.SetColored(c.X*cellWidth+i, c.Y, '█', color)
	}
}

// Width returns the board width in terminal columns.
func (b *boardSurface) Width() int {
	return b.screen.Width()
}

// Height returns the board height in terminal rows.
func (b *boardSurface) Height() int {
	return b.screen.Height()
}

var _ session.Surface = (*boardSurface)(nil)
