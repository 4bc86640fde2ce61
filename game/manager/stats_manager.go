package manager

import (
	"sort"
	"sync"
	"time"
)

// GameRecord is one finished game.
type GameRecord struct {
	SessionID string
	StartTime time.Time
	EndTime   time.Time
	Score     int
	Ticks     uint64
}

func (r GameRecord) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

// StatsManager records the games finished in this process. Nothing is
// persisted; the high score store is the only durable state.
type StatsManager struct {
	mu    sync.RWMutex
	games []GameRecord
}

func NewStatsManager() *StatsManager {
	return &StatsManager{}
}

func (s *StatsManager) AddGame(r GameRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games = append(s.games, r)
}

// Games returns a copy of the records in the order they finished.
func (s *StatsManager) Games() []GameRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]GameRecord, len(s.games))
	copy(out, s.games)
	return out
}

func (s *StatsManager) GamesPlayed() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

func (s *StatsManager) AverageScore() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.games) == 0 {
		return 0
	}
	total := 0
	for _, g := range s.games {
		total += g.Score
	}
	return float64(total) / float64(len(s.games))
}

func (s *StatsManager) MedianScore() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.games) == 0 {
		return 0
	}
	scores := make([]int, len(s.games))
	for i, g := range s.games {
		scores[i] = g.Score
	}
	sort.Ints(scores)
	n := len(scores)
	if n%2 == 0 {
		return float64(scores[n/2-1]+scores[n/2]) / 2
	}
	return float64(scores[n/2])
}

func (s *StatsManager) MaxScore() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	best := 0
	for _, g := range s.games {
		best = max(best, g.Score)
	}
	return best
}

func (s *StatsManager) AverageDuration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.games) == 0 {
		return 0
	}
	var total time.Duration
	for _, g := range s.games {
		total += g.Duration()
	}
	return total / time.Duration(len(s.games))
}
