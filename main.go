package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"gridsnake/config"
	"gridsnake/game"
	"gridsnake/game/types"
	"gridsnake/store"
	"gridsnake/ui"
	"gridsnake/ui/input"
	"gridsnake/ui/sound"
	"gridsnake/ui/term"

	"golang.org/x/exp/rand"
)

// frontend draws snapshots and feeds player input to the game until the
// player quits.
type frontend interface {
	game.Renderer
	Run(ctx context.Context, c input.Controller) error
}

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(2)
	}

	if logFile := setupLogging(cfg.Debug); logFile != nil {
		defer logFile.Close()
	}
	if cfg.EnvFile != nil {
		log.Printf("[CONFIG] [INFO] .env file not found or could not be loaded: %v", cfg.EnvFile)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to run: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	logger := log.New(log.Writer(), "[SNAKE] ", log.Flags())
	logger.Printf("[INFO] starting: grid=%d tick=%s ui=%s scores=%s", cfg.GridSize, cfg.TickInterval, cfg.UI, cfg.ScoreBackend)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	openCtx, cancelOpen := context.WithTimeout(ctx, cfg.StoreTimeout)
	scores, err := store.Open(openCtx, store.Options{
		Backend:         cfg.ScoreBackend,
		FilePath:        cfg.ScoreFile,
		RedisAddr:       cfg.RedisAddr,
		RedisPassword:   cfg.RedisPassword,
		RedisDB:         cfg.RedisDB,
		RedisKey:        cfg.RedisKey,
		MongoURI:        cfg.MongoURI,
		MongoDatabase:   cfg.MongoDatabase,
		MongoCollection: cfg.MongoCollection,
	})
	cancelOpen()
	if err != nil {
		return fmt.Errorf("opening high score store: %w", err)
	}
	defer func() {
		if err := scores.Close(); err != nil {
			logger.Printf("[WARN] closing high score store: %v", err)
		}
	}()

	front, closeFront, err := newFrontend(cfg)
	if err != nil {
		return err
	}
	defer closeFront()

	var renderer game.Renderer = front
	if cfg.Sound {
		if spk, err := sound.NewSpeaker(); err != nil {
			logger.Printf("[WARN] audio disabled: %v", err)
		} else {
			defer spk.Close()
			renderer = sound.NewCues(front, spk)
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	g, err := game.NewGame(ctx, game.Options{
		Grid:         types.Square(cfg.GridSize),
		TickInterval: cfg.TickInterval,
		Scores:       scores,
		StoreTimeout: cfg.StoreTimeout,
		Renderer:     renderer,
		Rand:         rand.New(rand.NewSource(seed)),
		Logger:       logger,
	})
	if err != nil {
		return err
	}
	defer g.Close()

	runCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		g.Run(runCtx)
	}()

	// The frontend owns the calling goroutine; the window frontend needs the
	// main OS thread.
	err = front.Run(runCtx, g)
	cancel()
	wg.Wait()

	stats := g.Stats()
	logger.Printf("[INFO] shutting down: games=%d best=%d avg=%.1f median=%.1f avg_duration=%s",
		stats.GamesPlayed(), stats.MaxScore(), stats.AverageScore(), stats.MedianScore(),
		stats.AverageDuration().Round(time.Millisecond))
	return err
}

func newFrontend(cfg config.Config) (frontend, func(), error) {
	switch cfg.UI {
	case config.UITerminal:
		t, err := term.New()
		if err != nil {
			return nil, nil, fmt.Errorf("initializing terminal: %w", err)
		}
		return t, t.Close, nil
	default:
		return ui.NewRenderer(), func() {}, nil
	}
}
