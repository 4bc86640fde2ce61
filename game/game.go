package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"gridsnake/game/entity"
	"gridsnake/game/manager"
	"gridsnake/game/types"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"
)

// Game-related errors.
var (
	ErrGridTooSmall  = errors.New("grid is too small")
	ErrInvalidTick   = errors.New("tick interval must be positive")
	ErrMissingScores = errors.New("high score store is required")
)

const commandQueueSize = 64

// State is the controller's run state.
type State int

const (
	Idle State = iota // Built but not started yet
	Running
	Paused
	GameOver
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case GameOver:
		return "game over"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Snapshot is a read-only copy of the game handed to renderers.
type Snapshot struct {
	SessionID string
	Grid      types.Grid
	Body      []types.Point
	Food      types.Point
	Direction types.Direction
	Score     int
	HighScore int
	State     State
	IsOver    bool
	IsPaused  bool
	Tick      uint64
}

// Renderer draws snapshots. It must not keep references into the game.
type Renderer interface {
	Render(s Snapshot)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(s Snapshot)

func (f RendererFunc) Render(s Snapshot) { f(s) }

type commandKind int

const (
	cmdDirection commandKind = iota
	cmdTogglePause
	cmdRestart
)

type command struct {
	kind commandKind
	dir  types.Direction
}

func (c command) String() string {
	switch c.kind {
	case cmdDirection:
		return "direction " + c.dir.String()
	case cmdTogglePause:
		return "toggle pause"
	case cmdRestart:
		return "restart"
	default:
		return "unknown"
	}
}

// Options configures a Game. Grid, Scores and a positive TickInterval are
// required; the rest have defaults.
type Options struct {
	Grid         types.Grid
	TickInterval time.Duration
	Scores       manager.HighScoreStore
	StoreTimeout time.Duration
	Renderer     Renderer
	Clock        Clock
	Rand         *rand.Rand
	Logger       *log.Logger
}

// Game owns the snake, the food, the score and the run state. Every mutation
// happens on the goroutine executing Run; other goroutines talk to it through
// the On* methods, which only enqueue commands.
type Game struct {
	UUID      string
	Grid      types.Grid
	StartTime time.Time

	interval time.Duration
	snake    *entity.Snake
	food     types.Point
	state    State
	ticks    uint64

	collisionMgr *manager.CollisionManager
	foodMgr      *manager.FoodManager
	stateMgr     *manager.StateManager
	statsMgr     *manager.StatsManager

	renderer Renderer
	clock    Clock
	ticker   Ticker
	commands chan command
	logger   *log.Logger
}

// NewGame validates opts, loads the persisted high score and prepares a
// fresh board in the Idle state.
func NewGame(ctx context.Context, opts Options) (*Game, error) {
	if opts.Grid.Width < types.MinGridSize || opts.Grid.Height < types.MinGridSize {
		return nil, fmt.Errorf("%w: %dx%d, need at least %d", ErrGridTooSmall, opts.Grid.Width, opts.Grid.Height, types.MinGridSize)
	}
	if opts.TickInterval <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTick, opts.TickInterval)
	}
	if opts.Scores == nil {
		return nil, ErrMissingScores
	}
	if opts.Renderer == nil {
		opts.Renderer = RendererFunc(func(Snapshot) {})
	}
	if opts.Clock == nil {
		opts.Clock = realClock{}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}

	collisionMgr := manager.NewCollisionManager(opts.Grid)
	g := &Game{
		Grid:         opts.Grid,
		interval:     opts.TickInterval,
		collisionMgr: collisionMgr,
		foodMgr:      manager.NewFoodManager(opts.Grid, collisionMgr, opts.Rand),
		stateMgr:     manager.NewStateManager(ctx, opts.Scores, opts.Logger, opts.StoreTimeout),
		statsMgr:     manager.NewStatsManager(),
		renderer:     opts.Renderer,
		clock:        opts.Clock,
		commands:     make(chan command, commandQueueSize),
		logger:       opts.Logger,
	}
	if err := g.reset(); err != nil {
		g.stateMgr.Close()
		return nil, err
	}
	return g, nil
}

// OnDirection queues a heading change. It reports false if the input queue
// is full and the intent was dropped.
func (g *Game) OnDirection(d types.Direction) bool {
	return g.enqueue(command{kind: cmdDirection, dir: d})
}

// OnTogglePause queues a pause/resume request.
func (g *Game) OnTogglePause() bool {
	return g.enqueue(command{kind: cmdTogglePause})
}

// OnRestart queues a restart. From Idle this starts the first game.
func (g *Game) OnRestart() bool {
	return g.enqueue(command{kind: cmdRestart})
}

func (g *Game) enqueue(cmd command) bool {
	select {
	case g.commands <- cmd:
		return true
	default:
		g.logger.Printf("[WARN] input queue full, dropping %s", cmd)
		return false
	}
}

// Run drives the game until ctx is done: queued commands are applied as they
// arrive and each ticker tick runs one step. Both happen on this goroutine,
// so a tick always sees fully applied input.
func (g *Game) Run(ctx context.Context) {
	defer g.stopTicker()

	g.render()
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-g.commands:
			g.apply(cmd)
		case <-g.tickC():
			g.step()
		}
	}
}

// Close flushes the high score writer. Call it after Run returns.
func (g *Game) Close() {
	g.stateMgr.Close()
}

// Stats returns the games finished so far in this process.
func (g *Game) Stats() *manager.StatsManager {
	return g.statsMgr
}

func (g *Game) tickC() <-chan time.Time {
	if g.ticker == nil {
		return nil
	}
	return g.ticker.C()
}

func (g *Game) apply(cmd command) {
	switch cmd.kind {
	case cmdDirection:
		if g.state != Running {
			return
		}
		g.snake.SetDirection(cmd.dir)
	case cmdTogglePause:
		g.togglePause()
	case cmdRestart:
		g.restart()
	}
}

func (g *Game) togglePause() {
	switch g.state {
	case Running:
		g.state = Paused
	case Paused:
		g.state = Running
	default:
		return
	}
	g.render()
}

func (g *Game) restart() {
	g.stopTicker()
	if err := g.reset(); err != nil {
		g.logger.Printf("[ERROR] restarting: %v", err)
		return
	}
	g.state = Running
	g.ticker = g.clock.NewTicker(g.interval)
	g.logger.Printf("[INFO] session %s started", g.UUID)
	g.render()
}

// reset builds a fresh board: new snake, new food, zero score.
func (g *Game) reset() error {
	snake := entity.NewStartingSnake(g.Grid)
	food, err := g.foodMgr.GenerateFood(snake.Body)
	if err != nil {
		return fmt.Errorf("placing food: %w", err)
	}

	g.UUID = uuid.New().String()
	g.StartTime = time.Now()
	g.snake = snake
	g.food = food
	g.ticks = 0
	g.state = Idle
	g.stateMgr.ResetScore()
	return nil
}

// step runs one tick: the simulation advances only while Running, the
// renderer is called either way.
func (g *Game) step() {
	if g.state == Running {
		g.advance()
	}
	g.render()
}

func (g *Game) advance() {
	g.ticks++
	g.snake.Move()

	if g.collisionMgr.IsFoodCollision(g.snake.GetHead(), g.food) {
		g.snake.Grow()
		if g.stateMgr.AddPoints(types.FoodScore) {
			g.logger.Printf("[INFO] new high score %d", g.stateMgr.GetHighScore())
		}
		food, err := g.foodMgr.GenerateFood(g.snake.Body)
		if err != nil {
			g.endGame(err.Error())
			return
		}
		g.food = food
	}

	if collision := g.collisionMgr.CheckCollision(g.snake); collision != types.NoCollision {
		g.endGame(collision.String() + " collision")
	}
}

func (g *Game) endGame(reason string) {
	g.state = GameOver
	g.stopTicker()

	record := manager.GameRecord{
		SessionID: g.UUID,
		StartTime: g.StartTime,
		EndTime:   time.Now(),
		Score:     g.stateMgr.GetScore(),
		Ticks:     g.ticks,
	}
	g.statsMgr.AddGame(record)
	g.logger.Printf("[INFO] session %s over (%s): score=%d ticks=%d duration=%s",
		g.UUID, reason, record.Score, record.Ticks, record.Duration().Round(time.Millisecond))
}

func (g *Game) stopTicker() {
	if g.ticker != nil {
		g.ticker.Stop()
		g.ticker = nil
	}
}

func (g *Game) render() {
	g.renderer.Render(g.snapshot())
}

func (g *Game) snapshot() Snapshot {
	return Snapshot{
		SessionID: g.UUID,
		Grid:      g.Grid,
		Body:      g.snake.Segments(),
		Food:      g.food,
		Direction: g.snake.Direction,
		Score:     g.stateMgr.GetScore(),
		HighScore: g.stateMgr.GetHighScore(),
		State:     g.state,
		IsOver:    g.state == GameOver,
		IsPaused:  g.state == Paused,
		Tick:      g.ticks,
	}
}
