// Package config provides YAML-based configuration loading, validation and
// live reload for the snake game.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/game"
	"github.com/vovakirdan/tui-snake/internal/session"
)

// ErrInvalidConfig is returned by Validate and Settings for unusable values.
var ErrInvalidConfig = errors.New("config: invalid config")

// Config contains all tunable parameters of a game.
type Config struct {
	Board  BoardConfig  `yaml:"board"`
	Timing TimingConfig `yaml:"timing"`
	Spawn  SpawnConfig  `yaml:"spawn"`
	Colors ColorConfig  `yaml:"colors"`
}

// BoardConfig defines the board in pixels. Width and Height must be
// multiples of CellSize.
type BoardConfig struct {
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
	CellSize int `yaml:"cell_size"`
}

// TimingConfig defines the tick period and the start countdown.
type TimingConfig struct {
	Tick           time.Duration `yaml:"tick"`
	CountdownSteps int           `yaml:"countdown_steps"`
	CountdownStep  time.Duration `yaml:"countdown_step"`
}

// SpawnConfig defines where a new snake appears and where it heads.
type SpawnConfig struct {
	X       int    `yaml:"x"`
	Y       int    `yaml:"y"`
	Heading string `yaml:"heading"` // up, down, left or right
}

// ColorConfig names the board colors. See core.ColorNames.
type ColorConfig struct {
	Snake string `yaml:"snake"`
	Head  string `yaml:"head"`
	Food  string `yaml:"food"`
}

// Validate reports the first problem with the config, if any.
func (c Config) Validate() error {
	_, err := c.Settings()
	return err
}

// Settings converts the config into session settings.
func (c Config) Settings() (session.Settings, error) {
	var s session.Settings

	grid, err := core.NewGrid(c.Board.Width, c.Board.Height, c.Board.CellSize)
	if err != nil {
		return s, fmt.Errorf("%w: board: %w", ErrInvalidConfig, err)
	}
	heading, err := game.ParseHeading(c.Spawn.Heading)
	if err != nil {
		return s, fmt.Errorf("%w: spawn: %w", ErrInvalidConfig, err)
	}

	var pal session.Palette
	for _, field := range []struct {
		name string
		dst  *core.Color
	}{
		{c.Colors.Snake, &pal.Snake},
		{c.Colors.Head, &pal.Head},
		{c.Colors.Food, &pal.Food},
	} {
		color, err := core.ParseColor(field.name)
		if err != nil {
			return s, fmt.Errorf("%w: colors: %w", ErrInvalidConfig, err)
		}
		*field.dst = color
	}

	s = session.Settings{
		Grid:           grid,
		TickPeriod:     c.Timing.Tick,
		CountdownSteps: c.Timing.CountdownSteps,
		CountdownStep:  c.Timing.CountdownStep,
		Spawn:          core.Cell{X: c.Spawn.X, Y: c.Spawn.Y},
		SpawnHeading:   heading,
		Palette:        pal,
	}
	if err := s.Validate(); err != nil {
		return session.Settings{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return s, nil
}
