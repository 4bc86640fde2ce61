package store

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
)

const scoreSize = 4

// FileStore keeps the high score as a 4-byte little-endian integer.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// LoadHighScore returns 0 when the file does not exist yet.
func (s *FileStore) LoadHighScore(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading high score file: %w", err)
	}
	if len(data) != scoreSize {
		return 0, fmt.Errorf("%w: %s has %d bytes", ErrCorruptScore, s.path, len(data))
	}
	return int(binary.LittleEndian.Uint32(data)), nil
}

// SaveHighScore replaces the file contents. The write goes to a temporary
// file first so a crash never leaves a truncated score behind.
func (s *FileStore) SaveHighScore(ctx context.Context, score int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if score < 0 {
		return ErrNegativeScore
	}
	value := uint32(math.MaxUint32)
	if int64(score) < math.MaxUint32 {
		value = uint32(score)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data := make([]byte, scoreSize)
	binary.LittleEndian.PutUint32(data, value)

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write high score: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace high score file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
