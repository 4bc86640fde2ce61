package config

import (
	"bytes"
	"log"
	"os"
	"testing"
	"time"

	"gridsnake/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.GridSize)
	assert.Equal(t, 150*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, UIWindow, cfg.UI)
	assert.True(t, cfg.Sound)
	assert.False(t, cfg.Debug)
	assert.Equal(t, uint64(0), cfg.Seed)
	assert.Equal(t, "file", cfg.ScoreBackend)
	assert.Equal(t, "data/highscore.bin", cfg.ScoreFile)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "snake:highscore", cfg.RedisKey)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "snake", cfg.MongoDatabase)
	assert.Equal(t, "scores", cfg.MongoCollection)
	assert.Equal(t, 2*time.Second, cfg.StoreTimeout)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SNAKE_GRID_SIZE", "30")
	t.Setenv("SNAKE_TICK_MS", "80")
	t.Setenv("SNAKE_UI", "terminal")
	t.Setenv("SNAKE_SOUND", "false")
	t.Setenv("SNAKE_SEED", "42")
	t.Setenv("SNAKE_SCORE_BACKEND", "redis")
	t.Setenv("SNAKE_REDIS_DB", "3")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.GridSize)
	assert.Equal(t, 80*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, UITerminal, cfg.UI)
	assert.False(t, cfg.Sound)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, "redis", cfg.ScoreBackend)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("SNAKE_GRID_SIZE", "30")
	t.Setenv("SNAKE_UI", "terminal")

	cfg, err := Load([]string{"-grid", "12", "-ui", "window", "-speed", "90ms", "-scores", "memory"})
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.GridSize)
	assert.Equal(t, UIWindow, cfg.UI)
	assert.Equal(t, 90*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, "memory", cfg.ScoreBackend)
}

func TestLoadRejectsBadEnv(t *testing.T) {
	t.Setenv("SNAKE_GRID_SIZE", "big")

	_, err := Load(nil)
	assert.ErrorIs(t, err, ErrInvalidEnv)
}

func TestLoadMissingEnvFileIsQuiet(t *testing.T) {
	chdir(t, t.TempDir())

	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Error(t, cfg.EnvFile)
	assert.Empty(t, buf.String(), "nothing may be logged before logging is set up")
}

func TestLoadReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(".env", []byte("SNAKE_GRID_SIZE=33\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("SNAKE_GRID_SIZE") })

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.NoError(t, cfg.EnvFile)
	assert.Equal(t, 33, cfg.GridSize)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{GridSize: 20, TickInterval: time.Second, UI: UIWindow, ScoreBackend: "file", StoreTimeout: time.Second}
	}

	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"valid", func(*Config) {}, nil},
		{"grid too small", func(c *Config) { c.GridSize = 4 }, ErrInvalidGridSize},
		{"grid too large", func(c *Config) { c.GridSize = 201 }, ErrInvalidGridSize},
		{"zero tick", func(c *Config) { c.TickInterval = 0 }, ErrInvalidTick},
		{"zero store timeout", func(c *Config) { c.StoreTimeout = 0 }, ErrInvalidStoreTimeout},
		{"negative store timeout", func(c *Config) { c.StoreTimeout = -time.Millisecond }, ErrInvalidStoreTimeout},
		{"unknown ui", func(c *Config) { c.UI = "web" }, ErrUnknownUI},
		{"unknown backend", func(c *Config) { c.ScoreBackend = "sqlite" }, store.ErrUnknownBackend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.modify(&c)
			err := c.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent to testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
