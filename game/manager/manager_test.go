package manager

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"gridsnake/game/entity"
	"gridsnake/game/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

type fakeStore struct {
	mu      sync.Mutex
	value   int
	saves   []int
	loadErr error
	saveErr error
}

func (f *fakeStore) LoadHighScore(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return 0, f.loadErr
	}
	return f.value, nil
}

func (f *fakeStore) SaveHighScore(ctx context.Context, score int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves = append(f.saves, score)
	if f.saveErr != nil {
		return f.saveErr
	}
	f.value = score
	return nil
}

func TestValidateSpawnPosition(t *testing.T) {
	cm := NewCollisionManager(types.Square(10))
	body := []types.Point{{X: 5, Y: 5}, {X: 4, Y: 5}}

	assert.True(t, cm.ValidateSpawnPosition(types.Point{X: 0, Y: 0}, body))
	assert.False(t, cm.ValidateSpawnPosition(types.Point{X: 4, Y: 5}, body))
	assert.False(t, cm.ValidateSpawnPosition(types.Point{X: 10, Y: 0}, body))
	assert.False(t, cm.ValidateSpawnPosition(types.Point{X: 0, Y: -1}, body))
}

func TestCheckCollision(t *testing.T) {
	cm := NewCollisionManager(types.Square(20))
	s := entity.NewSnake(types.Point{X: 0, Y: 10}, 1, types.Left)

	assert.Equal(t, types.NoCollision, cm.CheckCollision(s))

	s.Move()
	assert.Equal(t, types.WallCollision, cm.CheckCollision(s))
}

func TestGenerateFoodAvoidsBody(t *testing.T) {
	grid := types.Square(6)
	cm := NewCollisionManager(grid)
	fm := NewFoodManager(grid, cm, rand.New(rand.NewSource(42)))

	// Everything except the last row is snake.
	var body []types.Point
	for y := 0; y < grid.Height-1; y++ {
		for x := 0; x < grid.Width; x++ {
			body = append(body, types.Point{X: x, Y: y})
		}
	}

	for i := 0; i < 200; i++ {
		food, err := fm.GenerateFood(body)
		require.NoError(t, err)
		assert.Equal(t, grid.Height-1, food.Y)
		assert.True(t, grid.Contains(food))
	}
}

func TestGenerateFoodSingleFreeCell(t *testing.T) {
	grid := types.Square(5)
	fm := NewFoodManager(grid, NewCollisionManager(grid), rand.New(rand.NewSource(7)))

	free := types.Point{X: 3, Y: 1}
	var body []types.Point
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			if p := (types.Point{X: x, Y: y}); p != free {
				body = append(body, p)
			}
		}
	}

	food, err := fm.GenerateFood(body)
	require.NoError(t, err)
	assert.Equal(t, free, food)
}

func TestGenerateFoodFullGrid(t *testing.T) {
	grid := types.Square(5)
	fm := NewFoodManager(grid, NewCollisionManager(grid), nil)

	var body []types.Point
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			body = append(body, types.Point{X: x, Y: y})
		}
	}
	// A grown tail duplicates a cell without covering a new one.
	body = append(body, body[len(body)-1])

	_, err := fm.GenerateFood(body)
	assert.ErrorIs(t, err, ErrNoFreeCell)
}

func TestGenerateFoodDeterministicWithSeed(t *testing.T) {
	grid := types.Square(20)
	body := entity.NewStartingSnake(grid).Body

	a := NewFoodManager(grid, NewCollisionManager(grid), rand.New(rand.NewSource(99)))
	b := NewFoodManager(grid, NewCollisionManager(grid), rand.New(rand.NewSource(99)))
	for i := 0; i < 10; i++ {
		fa, err := a.GenerateFood(body)
		require.NoError(t, err)
		fb, err := b.GenerateFood(body)
		require.NoError(t, err)
		assert.Equal(t, fa, fb)
	}
}

func TestStateManagerScoring(t *testing.T) {
	store := &fakeStore{value: 20}
	sm := NewStateManager(context.Background(), store, nil, 0)

	assert.Equal(t, 0, sm.GetScore())
	assert.Equal(t, 20, sm.GetHighScore())

	assert.False(t, sm.AddPoints(types.FoodScore))
	assert.False(t, sm.AddPoints(types.FoodScore))
	assert.Equal(t, 20, sm.GetHighScore())

	assert.True(t, sm.AddPoints(types.FoodScore))
	assert.Equal(t, 30, sm.GetScore())
	assert.Equal(t, 30, sm.GetHighScore())

	sm.ResetScore()
	assert.Equal(t, 0, sm.GetScore())
	assert.Equal(t, 30, sm.GetHighScore())

	assert.False(t, sm.AddPoints(types.FoodScore))
	assert.Equal(t, 30, sm.GetHighScore())

	sm.Close()
	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Equal(t, 30, store.value)
	require.NotEmpty(t, store.saves)
	assert.Equal(t, 30, store.saves[len(store.saves)-1])
}

func TestStateManagerSavesAreOrdered(t *testing.T) {
	store := &fakeStore{}
	sm := NewStateManager(context.Background(), store, nil, 0)

	for i := 0; i < 50; i++ {
		sm.AddPoints(types.FoodScore)
	}
	sm.Close()

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Equal(t, 500, store.value)
	for i := 1; i < len(store.saves); i++ {
		assert.Greater(t, store.saves[i], store.saves[i-1])
	}
}

func TestStateManagerLoadFailureStartsAtZero(t *testing.T) {
	store := &fakeStore{value: 90, loadErr: errors.New("store down")}
	sm := NewStateManager(context.Background(), store, nil, 0)
	defer sm.Close()

	assert.Equal(t, 0, sm.GetHighScore())
	assert.True(t, sm.AddPoints(types.FoodScore))
}

func TestStateManagerSaveFailureIsBestEffort(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("disk full")}
	sm := NewStateManager(context.Background(), store, nil, 0)

	assert.True(t, sm.AddPoints(types.FoodScore))
	assert.True(t, sm.AddPoints(types.FoodScore))
	sm.Close()

	assert.Equal(t, 20, sm.GetHighScore())
	store.mu.Lock()
	defer store.mu.Unlock()
	assert.NotEmpty(t, store.saves)
}

func TestStateManagerCloseIsIdempotent(t *testing.T) {
	sm := NewStateManager(context.Background(), &fakeStore{}, nil, 0)
	sm.Close()
	sm.Close()

	// Points after close still count, they are just not persisted.
	assert.True(t, sm.AddPoints(types.FoodScore))
}

func TestStatsManager(t *testing.T) {
	sm := NewStatsManager()
	assert.Equal(t, 0, sm.GamesPlayed())
	assert.Equal(t, 0.0, sm.AverageScore())
	assert.Equal(t, 0.0, sm.MedianScore())
	assert.Equal(t, time.Duration(0), sm.AverageDuration())

	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, score := range []int{30, 10, 50, 20} {
		sm.AddGame(GameRecord{
			SessionID: fmt.Sprintf("s%d", i),
			StartTime: start,
			EndTime:   start.Add(time.Duration(i+1) * time.Second),
			Score:     score,
		})
	}

	assert.Equal(t, 4, sm.GamesPlayed())
	assert.Equal(t, 27.5, sm.AverageScore())
	assert.Equal(t, 25.0, sm.MedianScore())
	assert.Equal(t, 50, sm.MaxScore())
	assert.Equal(t, 2500*time.Millisecond, sm.AverageDuration())

	games := sm.Games()
	require.Len(t, games, 4)
	assert.Equal(t, "s0", games[0].SessionID)

	// The returned slice is a copy.
	games[0].Score = 1000
	assert.Equal(t, 50, sm.MaxScore())
}
