package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisKey = "snake:highscore"
	unlockTimeout   = time.Second
)

// RedisStore keeps the high score under a single Redis key. Saves are
// compare-and-set under a redsync lock so concurrent players sharing the key
// never lower it.
type RedisStore struct {
	client *redis.Client
	locker *redsync.Redsync
	key    string
}

// NewRedisStore initializes a RedisStore with the provided client and key.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = defaultRedisKey
	}
	pool := goredis.NewPool(client)
	return &RedisStore{
		client: client,
		locker: redsync.New(pool),
		key:    key,
	}
}

// LoadHighScore returns 0 when the key is not set.
func (s *RedisStore) LoadHighScore(ctx context.Context) (int, error) {
	score, err := s.client.Get(ctx, s.key).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", s.key, err)
	}
	return score, nil
}

// SaveHighScore writes score only if it beats the stored value.
func (s *RedisStore) SaveHighScore(ctx context.Context, score int) error {
	if score < 0 {
		return ErrNegativeScore
	}

	mutex := s.locker.NewMutex(s.key + ":lock")
	if err := mutex.LockContext(ctx); err != nil {
		return fmt.Errorf("locking %s: %w", s.key, err)
	}
	// Unlock on its own deadline: ctx may already be done when the write
	// fails, and a held lock blocks every save until it expires.
	defer func() {
		unlockCtx, cancel := context.WithTimeout(context.Background(), unlockTimeout)
		defer cancel()
		_, _ = mutex.UnlockContext(unlockCtx)
	}()

	current, err := s.LoadHighScore(ctx)
	if err != nil {
		return err
	}
	if score <= current {
		return nil
	}
	if err := s.client.Set(ctx, s.key, score, 0).Err(); err != nil {
		return fmt.Errorf("writing %s: %w", s.key, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
