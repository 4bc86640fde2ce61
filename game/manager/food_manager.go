package manager

import (
	"errors"

	"gridsnake/game/types"

	"golang.org/x/exp/rand"
)

// ErrNoFreeCell is returned when the snake covers the whole grid.
var ErrNoFreeCell = errors.New("no free cell for food")

type FoodManager struct {
	grid         types.Grid
	rng          *rand.Rand
	collisionMgr *CollisionManager
}

// NewFoodManager returns a food generator for grid. A nil rng falls back to a
// time-independent default source seeded with 1.
func NewFoodManager(grid types.Grid, collisionMgr *CollisionManager, rng *rand.Rand) *FoodManager {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &FoodManager{
		grid:         grid,
		rng:          rng,
		collisionMgr: collisionMgr,
	}
}

// GenerateFood samples uniformly random cells until one is not covered by
// body. It fails instead of spinning when body fills the grid.
func (fm *FoodManager) GenerateFood(body []types.Point) (types.Point, error) {
	if countDistinct(body) >= fm.grid.Cells() {
		return types.Point{}, ErrNoFreeCell
	}
	for {
		food := types.Point{
			X: fm.rng.Intn(fm.grid.Width),
			Y: fm.rng.Intn(fm.grid.Height),
		}

		if fm.collisionMgr.ValidateSpawnPosition(food, body) {
			return food, nil
		}
	}
}

func countDistinct(body []types.Point) int {
	seen := make(map[types.Point]struct{}, len(body))
	for _, p := range body {
		seen[p] = struct{}{}
	}
	return len(seen)
}
