package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"gridsnake/game/types"
	"gridsnake/store"

	"github.com/joho/godotenv"
)

// Configuration errors.
var (
	ErrInvalidGridSize     = errors.New("grid size out of range")
	ErrInvalidTick         = errors.New("tick interval must be positive")
	ErrInvalidStoreTimeout = errors.New("store timeout must be positive")
	ErrUnknownUI           = errors.New("unknown ui")
	ErrInvalidEnv          = errors.New("invalid environment value")
)

// Frontends.
const (
	UIWindow   = "window"
	UITerminal = "terminal"
)

// Config holds the game's configuration values.
type Config struct {
	GridSize     int           // Cells per side of the square board
	TickInterval time.Duration // Time between simulation steps
	UI           string        // Frontend: window or terminal
	Sound        bool          // Play audio cues
	Debug        bool          // Write logs to the logs directory
	Seed         uint64        // Food RNG seed, 0 picks one from the clock

	ScoreBackend    string // file, memory, redis or mongo
	ScoreFile       string // Path of the high score file
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	RedisKey        string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
	StoreTimeout    time.Duration // Deadline for each store call

	// EnvFile is why no .env file was loaded, nil when one was. Load runs
	// before logging is set up, so the caller reports it.
	EnvFile error
}

// Load reads an optional .env file, then the environment, then args.
// Flags win over environment values.
func Load(args []string) (Config, error) {
	envErr := godotenv.Load()

	cfg, err := fromEnv()
	if err != nil {
		return Config{}, err
	}
	cfg.EnvFile = envErr

	fs := flag.NewFlagSet("gridsnake", flag.ContinueOnError)
	fs.IntVar(&cfg.GridSize, "grid", cfg.GridSize, "cells per side of the board")
	fs.DurationVar(&cfg.TickInterval, "speed", cfg.TickInterval, "time between moves (lower = faster)")
	fs.StringVar(&cfg.UI, "ui", cfg.UI, "frontend: window or terminal")
	fs.BoolVar(&cfg.Sound, "sound", cfg.Sound, "play sound cues")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "write logs to the logs directory")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "food placement seed (0 = random)")
	fs.StringVar(&cfg.ScoreBackend, "scores", cfg.ScoreBackend, "high score backend: file, memory, redis or mongo")
	fs.StringVar(&cfg.ScoreFile, "score-file", cfg.ScoreFile, "high score file for the file backend")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "redis address")
	fs.IntVar(&cfg.RedisDB, "redis-db", cfg.RedisDB, "redis database")
	fs.StringVar(&cfg.RedisKey, "redis-key", cfg.RedisKey, "redis key holding the high score")
	fs.StringVar(&cfg.MongoURI, "mongo-uri", cfg.MongoURI, "mongodb connection string")
	fs.StringVar(&cfg.MongoDatabase, "mongo-db", cfg.MongoDatabase, "mongodb database")
	fs.StringVar(&cfg.MongoCollection, "mongo-collection", cfg.MongoCollection, "mongodb collection")
	fs.DurationVar(&cfg.StoreTimeout, "store-timeout", cfg.StoreTimeout, "deadline for high score reads and writes")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func fromEnv() (Config, error) {
	var errs []error
	intEnv := func(key string, def int) int {
		v, err := getEnvAsInt(key, def)
		errs = append(errs, err)
		return v
	}
	boolEnv := func(key string, def bool) bool {
		v, err := getEnvAsBool(key, def)
		errs = append(errs, err)
		return v
	}

	cfg := Config{
		GridSize:        intEnv("SNAKE_GRID_SIZE", 20),
		TickInterval:    time.Duration(intEnv("SNAKE_TICK_MS", 150)) * time.Millisecond,
		UI:              getEnvWithDefault("SNAKE_UI", UIWindow),
		Sound:           boolEnv("SNAKE_SOUND", true),
		Debug:           boolEnv("SNAKE_DEBUG", false),
		Seed:            uint64(intEnv("SNAKE_SEED", 0)),
		ScoreBackend:    getEnvWithDefault("SNAKE_SCORE_BACKEND", store.BackendFile),
		ScoreFile:       getEnvWithDefault("SNAKE_SCORE_FILE", "data/highscore.bin"),
		RedisAddr:       getEnvWithDefault("SNAKE_REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnvWithDefault("SNAKE_REDIS_PASSWORD", ""),
		RedisDB:         intEnv("SNAKE_REDIS_DB", 0),
		RedisKey:        getEnvWithDefault("SNAKE_REDIS_KEY", "snake:highscore"),
		MongoURI:        getEnvWithDefault("SNAKE_MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnvWithDefault("SNAKE_MONGO_DB", "snake"),
		MongoCollection: getEnvWithDefault("SNAKE_MONGO_COLLECTION", "scores"),
		StoreTimeout:    time.Duration(intEnv("SNAKE_STORE_TIMEOUT_MS", 2000)) * time.Millisecond,
	}
	return cfg, errors.Join(errs...)
}

// Validate checks ranges and names.
func (c Config) Validate() error {
	if c.GridSize < types.MinGridSize || c.GridSize > types.MaxGridSize {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidGridSize, c.GridSize, types.MinGridSize, types.MaxGridSize)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTick, c.TickInterval)
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidStoreTimeout, c.StoreTimeout)
	}
	switch c.UI {
	case UIWindow, UITerminal:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownUI, c.UI)
	}
	switch c.ScoreBackend {
	case store.BackendFile, store.BackendMemory, store.BackendRedis, store.BackendMongo:
	default:
		return fmt.Errorf("%w: %q", store.ErrUnknownBackend, c.ScoreBackend)
	}
	return nil
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue, fmt.Errorf("%w: %s must be an integer: %v", ErrInvalidEnv, key, err)
	}
	return value, nil
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue, fmt.Errorf("%w: %s must be a boolean: %v", ErrInvalidEnv, key, err)
	}
	return value, nil
}
