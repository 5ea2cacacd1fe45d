package game

import (
	"time"

	"golang.org/x/exp/rand"

	"github.com/vovakirdan/tui-snake/internal/core"
)

// FoodGenerator places food on a uniformly random cell of the grid.
// It does not look at the snake: food may land on an occupied cell.
type FoodGenerator struct {
	grid core.Grid
	rng  *rand.Rand
}

// NewFoodGenerator creates a generator for grid. A nil rng is replaced by
// one seeded from the clock.
func NewFoodGenerator(grid core.Grid, rng *rand.Rand) *FoodGenerator {
	if rng == nil {
		rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return &FoodGenerator{grid: grid, rng: rng}
}

// Place returns a random cell with column in [0, Columns) and row in [0, Rows).
func (f *FoodGenerator) Place() core.Cell {
	return core.Cell{
		X: f.rng.Intn(f.grid.Columns),
		Y: f.rng.Intn(f.grid.Rows),
	}
}
