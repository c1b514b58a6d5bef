package match

import (
	"bytes"
	"math/rand"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battleship/internal/game"
)

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *clock.Mock) {
	t.Helper()
	clk := clock.NewMock()
	opts = append([]Option{WithClock(clk), WithRand(rand.New(rand.NewSource(11)))}, opts...)
	e := NewEngine(DefaultConfig(), NewRegistry(), opts...)
	t.Cleanup(e.Registry().CloseAll)
	return e, clk
}

func TestCreateDealsValidBoards(t *testing.T) {
	e, clk := newTestEngine(t)

	m, err := e.Create(alice, bob)
	require.NoError(t, err)
	assert.Equal(t, Pending, m.Status())
	assert.Contains(t, []string{alice, bob}, m.Turn())
	assert.Equal(t, clk.Now().Add(DefaultTurnTimeout), m.Deadline())

	for _, p := range []string{alice, bob} {
		view, err := m.BoardView(p, p)
		require.NoError(t, err)
		b := &game.Board{Size: game.DefaultSize, Cells: view}
		assert.NoError(t, b.Validate(game.DefaultFleet))
	}

	got, ok := e.Registry().Get(bob, alice)
	require.True(t, ok)
	assert.Same(t, m, got)
}

func TestCreateRejectsBusyPlayers(t *testing.T) {
	e, _ := newTestEngine(t)

	_, err := e.Create(alice, alice)
	assert.ErrorIs(t, err, ErrSamePlayer)

	_, err = e.Create(alice, bob)
	require.NoError(t, err)
	_, err = e.Create("carol", bob)
	assert.ErrorIs(t, err, ErrPlayerBusy)
	_, err = e.Create("carol", "dave")
	assert.NoError(t, err)
	assert.Equal(t, 2, e.Registry().Len())
}

func TestFirstTurnIsRandom(t *testing.T) {
	e, _ := newTestEngine(t)
	seen := map[string]int{}
	for i := 0; i < 40; i++ {
		m, err := e.Create(alice, bob)
		require.NoError(t, err)
		seen[m.Turn()]++
		require.NoError(t, m.Forfeit(alice))
	}
	assert.Positive(t, seen[alice])
	assert.Positive(t, seen[bob])
}

func TestEndedMatchLeavesRegistry(t *testing.T) {
	var ended []*Match
	e, clk := newTestEngine(t, OnEnd(func(m *Match) { ended = append(ended, m) }))

	m, err := e.Create(alice, bob)
	require.NoError(t, err)
	require.NoError(t, m.Forfeit(alice))
	assert.Zero(t, e.Registry().Len())
	require.Len(t, ended, 1)
	assert.Same(t, m, ended[0])

	m2, err := e.Create(alice, bob)
	require.NoError(t, err)
	clk.Add(DefaultTurnTimeout)
	require.Eventually(t, func() bool { return e.Registry().Len() == 0 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, TimedOut, m2.Status())
}

func TestCreateFailsOnUnplayableRules(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rules = game.Rules{Size: 2, Fleet: game.Fleet{2, 2}}
	cfg.PlacementAttempts = 5
	cfg.MaxRestarts = 5
	e := NewEngine(cfg, nil, WithRand(rand.New(rand.NewSource(1))))

	_, err := e.Create(alice, bob)
	assert.ErrorIs(t, err, game.ErrFleetDoesNotFit)
	assert.Zero(t, e.Registry().Len())
}

func TestEngineLogsLifecycle(t *testing.T) {
	var buf bytes.Buffer
	e, _ := newTestEngine(t, WithLogger(zerolog.New(&buf)))

	m, err := e.Create(alice, bob)
	require.NoError(t, err)
	require.NoError(t, m.Forfeit(bob))

	out := buf.String()
	assert.Contains(t, out, `"message":"match created"`)
	assert.Contains(t, out, `"message":"match over"`)
	assert.Contains(t, out, `"status":"forfeited"`)
	assert.Contains(t, out, m.ID().String())
}
