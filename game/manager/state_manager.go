package manager

import (
	"context"
	"io"
	"log"
	"sync"
	"time"
)

const defaultStoreTimeout = 2 * time.Second

// HighScoreStore is the persistent slot holding the best score.
type HighScoreStore interface {
	LoadHighScore(ctx context.Context) (int, error)
	SaveHighScore(ctx context.Context, score int) error
}

// StateManager keeps the running score and the session high score.
// New high scores are handed to a single writer goroutine so the tick never
// waits on the store. Writes are best effort: failures are logged and dropped.
type StateManager struct {
	store   HighScoreStore
	logger  *log.Logger
	timeout time.Duration

	score     int
	highScore int

	pending chan int
	closed  bool
	wg      sync.WaitGroup
}

// NewStateManager loads the persisted high score once. A failed load starts
// from zero.
func NewStateManager(ctx context.Context, store HighScoreStore, logger *log.Logger, timeout time.Duration) *StateManager {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if timeout <= 0 {
		timeout = defaultStoreTimeout
	}

	sm := &StateManager{
		store:   store,
		logger:  logger,
		timeout: timeout,
		pending: make(chan int, 1),
	}

	loadCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	high, err := store.LoadHighScore(loadCtx)
	switch {
	case err != nil:
		sm.logger.Printf("[WARN] loading high score: %v", err)
	case high > 0:
		sm.highScore = high
	}

	sm.wg.Add(1)
	go sm.persistLoop()

	return sm
}

// AddPoints adds to the score and reports whether it set a new high score.
func (sm *StateManager) AddPoints(points int) bool {
	sm.score += points
	if sm.score <= sm.highScore {
		return false
	}
	sm.highScore = sm.score
	sm.queueSave(sm.highScore)
	return true
}

// ResetScore starts a new game's score at zero. The high score is kept.
func (sm *StateManager) ResetScore() {
	sm.score = 0
}

func (sm *StateManager) GetScore() int {
	return sm.score
}

func (sm *StateManager) GetHighScore() int {
	return sm.highScore
}

// queueSave replaces any unsent value with v. Only the owning goroutine calls
// it, so the drain-then-send loop cannot starve.
func (sm *StateManager) queueSave(v int) {
	if sm.closed {
		return
	}
	for {
		select {
		case sm.pending <- v:
			return
		default:
			select {
			case <-sm.pending:
			default:
			}
		}
	}
}

func (sm *StateManager) persistLoop() {
	defer sm.wg.Done()

	for score := range sm.pending {
		ctx, cancel := context.WithTimeout(context.Background(), sm.timeout)
		if err := sm.store.SaveHighScore(ctx, score); err != nil {
			sm.logger.Printf("[WARN] saving high score %d: %v", score, err)
		}
		cancel()
	}
}

// Close flushes the last queued high score and stops the writer.
func (sm *StateManager) Close() {
	if sm.closed {
		return
	}
	sm.closed = true
	close(sm.pending)
	sm.wg.Wait()
}
