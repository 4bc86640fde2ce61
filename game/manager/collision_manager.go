package manager

import (
	"gridsnake/game/entity"
	"gridsnake/game/types"
)

type CollisionManager struct {
	grid types.Grid
}

func NewCollisionManager(grid types.Grid) *CollisionManager {
	return &CollisionManager{
		grid: grid,
	}
}

// CheckCollision classifies the snake's head after a move.
func (cm *CollisionManager) CheckCollision(snake *entity.Snake) types.CollisionType {
	return snake.Collision(cm.grid)
}

// IsFoodCollision checks if a position collides with food
func (cm *CollisionManager) IsFoodCollision(pos types.Point, food types.Point) bool {
	return pos == food
}

// ValidateSpawnPosition checks if a position is inside the grid and free of
// snake segments.
func (cm *CollisionManager) ValidateSpawnPosition(pos types.Point, body []types.Point) bool {
	if !cm.grid.Contains(pos) {
		return false
	}
	for _, bodyPart := range body {
		if pos == bodyPart {
			return false
		}
	}
	return true
}
