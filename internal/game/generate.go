package game

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
)

const (
	DefaultPlacementAttempts = 1000
	DefaultMaxRestarts       = 1000
)

var ErrFleetDoesNotFit = errors.New("fleet does not fit the board")

// Generator places a fleet at random, one ship at a time, keeping every ship
// out of the 8-neighbour margin of the others. When a ship cannot be placed
// within Attempts samples the whole board is thrown away and generation starts
// over, at most MaxRestarts times.
type Generator struct {
	Rules       Rules
	Attempts    int
	MaxRestarts int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator returns a generator using the default attempt budgets.
// It is safe for concurrent use.
func NewGenerator(rules Rules, rng *rand.Rand) *Generator {
	return &Generator{
		Rules:       rules,
		Attempts:    DefaultPlacementAttempts,
		MaxRestarts: DefaultMaxRestarts,
		rng:         rng,
	}
}

// Generate returns a freshly populated board.
func (g *Generator) Generate() (*Board, error) {
	if err := g.Rules.Validate(); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	restarts := max(g.MaxRestarts, 1)
	for i := 0; i < restarts; i++ {
		if b, ok := g.tryPlaceFleet(); ok {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: gave up after %d restarts", ErrFleetDoesNotFit, restarts)
}

func (g *Generator) tryPlaceFleet() (*Board, bool) {
	b := NewBoard(g.Rules.Size)
	attempts := max(g.Attempts, 1)
	for _, size := range g.Rules.Fleet {
		placed := false
		for try := 0; try < attempts && !placed; try++ {
			p := Placement{
				At:          Coord{X: g.rng.Intn(b.Size), Y: g.rng.Intn(b.Size)},
				Size:        size,
				Orientation: Orientation(g.rng.Intn(2)),
			}
			placed = b.PlaceShip(p) == nil
		}
		if !placed {
			return nil, false
		}
	}
	return b, true
}
