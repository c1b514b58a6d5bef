package match

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"

	"battleship/internal/game"
)

const DefaultTurnTimeout = 180 * time.Second

// Config parametrises every match an Engine creates.
type Config struct {
	Rules             game.Rules
	TurnTimeout       time.Duration
	PlacementAttempts int
	MaxRestarts       int
}

func DefaultConfig() Config {
	return Config{
		Rules:             game.DefaultRules(),
		TurnTimeout:       DefaultTurnTimeout,
		PlacementAttempts: game.DefaultPlacementAttempts,
		MaxRestarts:       game.DefaultMaxRestarts,
	}
}

// Engine deals boards and starts matches, registering each one until it ends.
type Engine struct {
	cfg      Config
	gen      *game.Generator
	registry *Registry
	clock    clock.Clock
	log      zerolog.Logger
	hooks    []Ended

	mu  sync.Mutex
	rng *rand.Rand
}

type Option func(*Engine)

func WithClock(c clock.Clock) Option { return func(e *Engine) { e.clock = c } }

func WithLogger(l zerolog.Logger) Option { return func(e *Engine) { e.log = l } }

// WithRand seeds board generation and the first-turn coin toss.
func WithRand(r *rand.Rand) Option { return func(e *Engine) { e.rng = r } }

// OnEnd registers a callback run after a match ends and leaves the registry.
func OnEnd(fn Ended) Option { return func(e *Engine) { e.hooks = append(e.hooks, fn) } }

func NewEngine(cfg Config, registry *Registry, opts ...Option) *Engine {
	if registry == nil {
		registry = NewRegistry()
	}
	e := &Engine{
		cfg:      cfg,
		registry: registry,
		clock:    clock.New(),
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e.gen = game.NewGenerator(cfg.Rules, rand.New(rand.NewSource(e.rng.Int63())))
	if cfg.PlacementAttempts > 0 {
		e.gen.Attempts = cfg.PlacementAttempts
	}
	if cfg.MaxRestarts > 0 {
		e.gen.MaxRestarts = cfg.MaxRestarts
	}
	return e
}

func (e *Engine) Registry() *Registry { return e.registry }

func (e *Engine) Rules() game.Rules { return e.cfg.Rules }

// Create deals two boards, tosses for the first turn and starts the
// inactivity timer.
func (e *Engine) Create(a, b string) (*Match, error) {
	if a == b {
		return nil, ErrSamePlayer
	}
	if e.registry.Busy(a) || e.registry.Busy(b) {
		return nil, ErrPlayerBusy
	}

	var boards [2]*game.Board
	for i := range boards {
		board, err := e.gen.Generate()
		if err != nil {
			return nil, fmt.Errorf("deal board: %w", err)
		}
		boards[i] = board
	}

	e.mu.Lock()
	first := e.rng.Intn(2)
	e.mu.Unlock()

	m, err := newMatch(params{
		players: [2]string{a, b},
		boards:  boards,
		first:   first,
		timeout: e.cfg.TurnTimeout,
		clock:   e.clock,
		log:     e.log,
		onEnd:   e.ended,
	})
	if err != nil {
		return nil, err
	}
	if err := e.registry.Add(m); err != nil {
		return nil, err
	}
	m.start()

	m.log.Info().
		Str("player_a", a).
		Str("player_b", b).
		Str("first", m.Turn()).
		Msg("match created")
	return m, nil
}

func (e *Engine) ended(m *Match) {
	e.registry.Remove(m)
	for _, fn := range e.hooks {
		fn(m)
	}
}
