package core

import (
	"errors"
	"fmt"
)

// ErrInvalidGrid is returned when board dimensions cannot be divided into cells.
var ErrInvalidGrid = errors.New("core: invalid grid")

// Cell is a position on the board measured in grid units.
type Cell struct {
	X, Y int
}

// Add returns the cell shifted by (dx, dy).
func (c Cell) Add(dx, dy int) Cell {
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// Grid describes the board: its pixel size and the fixed cell size.
// Columns and Rows are derived once at construction.
type Grid struct {
	Width    int // Board width in pixels
	Height   int // Board height in pixels
	CellSize int // Edge length of one cell in pixels
	Columns  int
	Rows     int
}

// NewGrid validates the board dimensions and derives the cell counts.
// Width and height must be positive multiples of cellSize.
func NewGrid(width, height, cellSize int) (Grid, error) {
	if cellSize <= 0 {
		return Grid{}, fmt.Errorf("%w: cell size %d must be positive", ErrInvalidGrid, cellSize)
	}
	if width <= 0 || height <= 0 {
		return Grid{}, fmt.Errorf("%w: board %dx%d must be positive", ErrInvalidGrid, width, height)
	}
	if width%cellSize != 0 || height%cellSize != 0 {
		return Grid{}, fmt.Errorf("%w: board %dx%d is not a multiple of cell size %d",
			ErrInvalidGrid, width, height, cellSize)
	}

	return Grid{
		Width:    width,
		Height:   height,
		CellSize: cellSize,
		Columns:  width / cellSize,
		Rows:     height / cellSize,
	}, nil
}

// Contains reports whether the cell lies on the board.
func (g Grid) Contains(c Cell) bool {
	return c.X >= 0 && c.X < g.Columns && c.Y >= 0 && c.Y < g.Rows
}

// Pixel returns the top-left pixel of the cell.
func (g Grid) Pixel(c Cell) (int, int) {
	return c.X * g.CellSize, c.Y * g.CellSize
}
