package core

import (
	"fmt"
	"image/color"
	"sort"
)

// Color represents a foreground color for a board cell.
// Terminal adapters map it to ANSI codes, image adapters to RGBA.
type Color uint8

// Predefined colors for game elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorOrange
	ColorGray
)

var colorNames = map[Color]string{
	ColorDefault:     "default",
	ColorRed:         "red",
	ColorGreen:       "green",
	ColorYellow:      "yellow",
	ColorBlue:        "blue",
	ColorMagenta:     "magenta",
	ColorCyan:        "cyan",
	ColorWhite:       "white",
	ColorBrightRed:   "bright-red",
	ColorBrightGreen: "bright-green",
	ColorOrange:      "orange",
	ColorGray:        "gray",
}

// Canvas colours, close to what a browser would paint for the same names.
var colorRGBA = map[Color]color.RGBA{
	ColorDefault:     {0, 0, 0, 255},
	ColorRed:         {255, 0, 0, 255},
	ColorGreen:       {0, 128, 0, 255},
	ColorYellow:      {255, 215, 0, 255},
	ColorBlue:        {0, 0, 255, 255},
	ColorMagenta:     {255, 0, 255, 255},
	ColorCyan:        {0, 255, 255, 255},
	ColorWhite:       {255, 255, 255, 255},
	ColorBrightRed:   {255, 85, 85, 255},
	ColorBrightGreen: {85, 255, 85, 255},
	ColorOrange:      {255, 165, 0, 255},
	ColorGray:        {128, 128, 128, 255},
}

// String returns the config name of the color.
func (c Color) String() string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return "unknown"
}

// RGBA returns the color used when painting into images.
func (c Color) RGBA() color.RGBA {
	if rgba, ok := colorRGBA[c]; ok {
		return rgba
	}
	return colorRGBA[ColorDefault]
}

// ParseColor resolves a config color name.
func ParseColor(name string) (Color, error) {
	for c, n := range colorNames {
		if n == name {
			return c, nil
		}
	}
	return ColorDefault, fmt.Errorf("core: unknown color %q", name)
}

// ColorNames returns all known color names, sorted.
func ColorNames() []string {
	names := make([]string, 0, len(colorNames))
	for _, n := range colorNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
