package session

import "github.com/vovakirdan/tui-snake/internal/core"

// Surface is the render target the session paints after every tick.
type Surface interface {
	Clear()
	DrawCell(c core.Cell, color core.Color)
}

// Palette holds the colors used to paint the board.
type Palette struct {
	Snake core.Color
	Head  core.Color
	Food  core.Color
}

// DefaultPalette returns green snake on red food.
func DefaultPalette() Palette {
	return Palette{
		Snake: core.ColorGreen,
		Head:  core.ColorBrightGreen,
		Food:  core.ColorRed,
	}
}

// Paint clears dst and draws the snapshot: food first, then the snake on top.
func Paint(dst Surface, snap Snapshot, pal Palette) {
	dst.Clear()
	dst.DrawCell(snap.Food, pal.Food)
	for i, seg := range snap.Snake {
		if i == 0 {
			dst.DrawCell(seg, pal.Head)
			continue
		}
		dst.DrawCell(seg, pal.Snake)
	}
}
