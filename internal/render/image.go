// Package render paints session snapshots into images: PNG screenshots for
// the terminal client and board frames for the web server.
package render

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/session"
)

// ImageSurface is a session.Surface backed by an RGBA canvas. One cell is
// CellSize x CellSize pixels, so the canvas matches the configured board.
type ImageSurface struct {
	grid       core.Grid
	dc         *gg.Context
	background color.Color
	gridLines  bool
}

// NewImageSurface creates a white canvas for grid.
func NewImageSurface(grid core.Grid) *ImageSurface {
	s := &ImageSurface{
		grid:       grid,
		dc:         gg.NewContext(grid.Columns*grid.CellSize, grid.Rows*grid.CellSize),
		background: color.White,
	}
	s.Clear()
	return s
}

// SetGridLines toggles light grid lines under the cells. Takes effect on
// the next Clear.
func (s *ImageSurface) SetGridLines(on bool) {
	s.gridLines = on
}

// Clear fills the canvas with the background.
func (s *ImageSurface) Clear() {
	s.dc.SetColor(s.background)
	s.dc.Clear()
	if s.gridLines {
		s.drawGrid()
	}
}

// DrawCell fills one cell. Cells outside the board are clipped by the canvas.
func (s *ImageSurface) DrawCell(c core.Cell, col core.Color) {
	x, y := s.grid.Pixel(c)
	size := float64(s.grid.CellSize)
	s.dc.SetColor(col.RGBA())
	s.dc.DrawRectangle(float64(x), float64(y), size, size)
	s.dc.Fill()
}

// Image returns the canvas.
func (s *ImageSurface) Image() image.Image {
	return s.dc.Image()
}

func (s *ImageSurface) drawGrid() {
	w := float64(s.dc.Width())
	h := float64(s.dc.Height())
	step := s.grid.CellSize

	s.dc.SetRGB(0.9, 0.9, 0.9)
	s.dc.SetLineWidth(1)
	for x := 0; x <= s.dc.Width(); x += step {
		s.dc.DrawLine(float64(x), 0, float64(x), h)
		s.dc.Stroke()
	}
	for y := 0; y <= s.dc.Height(); y += step {
		s.dc.DrawLine(0, float64(y), w, float64(y))
		s.dc.Stroke()
	}
}

var _ session.Surface = (*ImageSurface)(nil)

// FrameOptions tunes Frame.
type FrameOptions struct {
	// Width scales the result to that many pixels wide, keeping the aspect
	// ratio and hard cell edges. Zero keeps the board size.
	Width int

	// GridLines draws the cell grid under the board.
	GridLines bool
}

// Frame paints snap into a fresh image.
func Frame(snap session.Snapshot, pal session.Palette, opts FrameOptions) image.Image {
	surface := NewImageSurface(snap.Grid)
	if opts.GridLines {
		surface.SetGridLines(true)
	}
	session.Paint(surface, snap, pal)

	img := surface.Image()
	if opts.Width > 0 && opts.Width != img.Bounds().Dx() {
		return imaging.Resize(img, opts.Width, 0, imaging.NearestNeighbor)
	}
	return img
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		return fmt.Errorf("render: encode png: %w", err)
	}
	return nil
}

// SavePNG writes img to path, creating parent directories.
func SavePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("render: create %s: %w", filepath.Dir(path), err)
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("render: save %s: %w", path, err)
	}
	return nil
}
