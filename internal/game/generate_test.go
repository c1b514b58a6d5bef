package game

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDefaultFleet(t *testing.T) {
	g := NewGenerator(DefaultRules(), rand.New(rand.NewSource(1)))

	for i := 0; i < 200; i++ {
		b, err := g.Generate()
		require.NoError(t, err)
		require.Equal(t, DefaultSize, b.Size)
		assert.Equal(t, DefaultFleet.Cells(), b.Count(Ship))
		assert.Zero(t, b.Count(Hit, Miss, Sunk))
		require.NoError(t, b.Validate(DefaultFleet))
	}
}

func TestGenerateOrderDoesNotMatter(t *testing.T) {
	rules := Rules{Size: DefaultSize, Fleet: Fleet{1, 1, 1, 1, 2, 2, 2, 3, 3, 4}}
	g := NewGenerator(rules, rand.New(rand.NewSource(2)))
	for i := 0; i < 50; i++ {
		b, err := g.Generate()
		require.NoError(t, err)
		require.NoError(t, b.Validate(rules.Fleet))
	}
}

func TestGenerateGivesUpOnImpossibleFleet(t *testing.T) {
	// Two 2-long ships cannot both fit on a 2x2 board with a margin.
	g := NewGenerator(Rules{Size: 2, Fleet: Fleet{2, 2}}, rand.New(rand.NewSource(3)))
	g.Attempts = 20
	g.MaxRestarts = 50

	_, err := g.Generate()
	assert.ErrorIs(t, err, ErrFleetDoesNotFit)
}

func TestGenerateRejectsBadRules(t *testing.T) {
	cases := map[string]Rules{
		"no board":     {Size: 0, Fleet: Fleet{1}},
		"no fleet":     {Size: 5},
		"ship too big": {Size: 3, Fleet: Fleet{4}},
		"zero ship":    {Size: 3, Fleet: Fleet{0}},
		"overfull":     {Size: 2, Fleet: Fleet{2, 2, 1}},
	}
	for name, r := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewGenerator(r, rand.New(rand.NewSource(4))).Generate()
			assert.ErrorIs(t, err, ErrBadRules)
		})
	}
}

func TestGenerateConcurrent(t *testing.T) {
	g := NewGenerator(DefaultRules(), rand.New(rand.NewSource(5)))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := g.Generate()
			if assert.NoError(t, err) {
				assert.NoError(t, b.Validate(DefaultFleet))
			}
		}()
	}
	wg.Wait()
}
