package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/snake.yaml
var defaultSnakeYAML []byte

// DefaultConfig returns the built-in configuration: a 600x360 board of
// 20px cells, 100ms ticks and a three second countdown.
func DefaultConfig() Config {
	return Config{
		Board: BoardConfig{
			Width:    600,
			Height:   360,
			CellSize: 20,
		},
		Timing: TimingConfig{
			Tick:           100 * time.Millisecond,
			CountdownSteps: 3,
			CountdownStep:  time.Second,
		},
		Spawn: SpawnConfig{
			X:       5,
			Y:       5,
			Heading: "right",
		},
		Colors: ColorConfig{
			Snake: "green",
			Head:  "bright-green",
			Food:  "red",
		},
	}
}

// DefaultYAML returns the embedded default config file.
func DefaultYAML() []byte {
	return defaultSnakeYAML
}
