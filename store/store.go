package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Store errors.
var (
	ErrUnknownBackend = errors.New("unknown score backend")
	ErrCorruptScore   = errors.New("corrupt high score data")
	ErrNegativeScore  = errors.New("high score cannot be negative")
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Store is a persistent slot holding a single high score.
type Store interface {
	LoadHighScore(ctx context.Context) (int, error)
	SaveHighScore(ctx context.Context, score int) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend string

	FilePath string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisKey      string

	MongoURI        string
	MongoDatabase   string
	MongoCollection string
}

// Open connects the backend named by opts.Backend. Network backends are
// pinged before returning.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendMemory:
		return NewMemoryStore(0), nil
	case BackendFile, "":
		return NewFileStore(opts.FilePath), nil
	case BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connecting to redis at %s: %w", opts.RedisAddr, err)
		}
		return NewRedisStore(client, opts.RedisKey), nil
	case BackendMongo:
		return NewMongoStore(ctx, opts.MongoURI, opts.MongoDatabase, opts.MongoCollection)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

// MemoryStore keeps the high score in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	value int
}

func NewMemoryStore(initial int) *MemoryStore {
	return &MemoryStore{value: initial}
}

func (m *MemoryStore) LoadHighScore(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value, nil
}

func (m *MemoryStore) SaveHighScore(ctx context.Context, score int) error {
	if score < 0 {
		return ErrNegativeScore
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = score
	return nil
}

func (m *MemoryStore) Close() error { return nil }
