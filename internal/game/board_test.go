package game

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPlace(t *testing.T, b *Board, ps ...Placement) {
	t.Helper()
	for _, p := range ps {
		require.NoError(t, b.PlaceShip(p))
	}
}

func TestPlaceShipRejectsTouching(t *testing.T) {
	b := NewBoard(DefaultSize)
	mustPlace(t, b, Placement{At: Coord{X: 2, Y: 2}, Size: 3, Orientation: Horizontal})

	cases := map[string]Placement{
		"overlap":        {At: Coord{X: 3, Y: 0}, Size: 3, Orientation: Vertical},
		"side by side":   {At: Coord{X: 2, Y: 3}, Size: 2, Orientation: Horizontal},
		"diagonal":       {At: Coord{X: 5, Y: 3}, Size: 1},
		"end to end":     {At: Coord{X: 5, Y: 2}, Size: 2, Orientation: Horizontal},
		"off the board":  {At: Coord{X: 8, Y: 8}, Size: 3, Orientation: Horizontal},
		"negative start": {At: Coord{X: -1, Y: 0}, Size: 1},
		"zero length":    {At: Coord{X: 0, Y: 9}, Size: 0},
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, b.PlaceShip(p), ErrInvalidPlacement)
		})
	}

	assert.NoError(t, b.PlaceShip(Placement{At: Coord{X: 6, Y: 2}, Size: 1}))
	assert.Equal(t, 4, b.Count(Ship))
}

func TestStrikeMissAndRepeat(t *testing.T) {
	b := NewBoard(DefaultSize)
	assert.Equal(t, StrikeMiss, b.Strike(Coord{X: 5, Y: 5}))
	assert.Equal(t, Miss, b.At(Coord{X: 5, Y: 5}))
	assert.Equal(t, StrikeRepeat, b.Strike(Coord{X: 5, Y: 5}))
	assert.Equal(t, StrikeOutside, b.Strike(Coord{X: 10, Y: 3}))
	assert.Equal(t, StrikeOutside, b.Strike(Coord{X: -1, Y: 0}))
}

func TestStrikeHitThenSunk(t *testing.T) {
	b := NewBoard(DefaultSize)
	mustPlace(t, b, Placement{At: Coord{X: 2, Y: 2}, Size: 3, Orientation: Horizontal})

	assert.Equal(t, StrikeHit, b.Strike(Coord{X: 2, Y: 2}))
	assert.Equal(t, Hit, b.At(Coord{X: 2, Y: 2}))
	assert.Equal(t, Ship, b.At(Coord{X: 3, Y: 2}))
	assert.Equal(t, StrikeRepeat, b.Strike(Coord{X: 2, Y: 2}))

	assert.Equal(t, StrikeHit, b.Strike(Coord{X: 4, Y: 2}))
	assert.Equal(t, StrikeSunk, b.Strike(Coord{X: 3, Y: 2}))
	for x := 2; x <= 4; x++ {
		assert.Equal(t, Sunk, b.At(Coord{X: x, Y: 2}))
	}
	assert.Equal(t, StrikeRepeat, b.Strike(Coord{X: 3, Y: 2}))
}

func TestSunkDetectionIsOrderIndependent(t *testing.T) {
	ship := Placement{At: Coord{X: 4, Y: 1}, Size: 4, Orientation: Vertical}
	neighbour := Placement{At: Coord{X: 6, Y: 1}, Size: 2, Orientation: Vertical}
	cells := ship.cells()
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 24; i++ {
		b := NewBoard(DefaultSize)
		mustPlace(t, b, ship, neighbour)
		before := b.Clone()

		order := rng.Perm(len(cells))
		for k, idx := range order {
			got := b.Strike(cells[idx])
			if k < len(order)-1 {
				require.Equal(t, StrikeHit, got)
			} else {
				require.Equal(t, StrikeSunk, got)
			}
		}

		for y := 0; y < b.Size; y++ {
			for x := 0; x < b.Size; x++ {
				c := Coord{X: x, Y: y}
				if c.X == 4 && c.Y >= 1 && c.Y <= 4 {
					assert.Equal(t, Sunk, b.At(c), "ship cell %s", c)
				} else {
					assert.Equal(t, before.At(c), b.At(c), "cell %s", c)
				}
			}
		}
	}
}

func TestShipAt(t *testing.T) {
	b := NewBoard(DefaultSize)
	mustPlace(t, b,
		Placement{At: Coord{X: 0, Y: 0}, Size: 2, Orientation: Horizontal},
		Placement{At: Coord{X: 0, Y: 2}, Size: 3, Orientation: Vertical},
	)
	assert.ElementsMatch(t, []Coord{{X: 0, Y: 0}, {X: 1, Y: 0}}, b.ShipAt(Coord{X: 1, Y: 0}))
	assert.Len(t, b.ShipAt(Coord{X: 0, Y: 3}), 3)
	assert.Nil(t, b.ShipAt(Coord{X: 5, Y: 5}))
	assert.Nil(t, b.ShipAt(Coord{X: 20, Y: 5}))
}

func TestValidate(t *testing.T) {
	fleet := Fleet{3, 1}

	good := NewBoard(6)
	mustPlace(t, good,
		Placement{At: Coord{X: 0, Y: 0}, Size: 3, Orientation: Vertical},
		Placement{At: Coord{X: 4, Y: 4}, Size: 1},
	)
	require.NoError(t, good.Validate(fleet))

	wrongFleet := good.Clone()
	assert.ErrorIs(t, wrongFleet.Validate(Fleet{2, 1}), ErrInvalidBoard)

	bent := NewBoard(6)
	bent.Cells[0][0], bent.Cells[1][0], bent.Cells[1][1] = Ship, Ship, Ship
	bent.Cells[5][5] = Ship
	assert.ErrorIs(t, bent.Validate(fleet), ErrInvalidBoard)

	touching := NewBoard(6)
	touching.Cells[0][0], touching.Cells[1][0], touching.Cells[2][0] = Ship, Ship, Ship
	touching.Cells[3][1] = Ship
	assert.ErrorIs(t, touching.Validate(fleet), ErrInvalidBoard)

	ragged := NewBoard(6)
	ragged.Cells[2] = ragged.Cells[2][:4]
	assert.ErrorIs(t, ragged.Validate(fleet), ErrInvalidBoard)
}

func TestOccupancy(t *testing.T) {
	b := NewBoard(3)
	mustPlace(t, b, Placement{At: Coord{X: 1, Y: 0}, Size: 2, Orientation: Vertical})
	b.Strike(Coord{X: 1, Y: 0})
	b.Strike(Coord{X: 2, Y: 2})
	assert.Equal(t, []uint8{0, 1, 0, 0, 1, 0, 0, 0, 0}, b.Occupancy())
}

func TestBoardJSON(t *testing.T) {
	b := NewBoard(3)
	mustPlace(t, b, Placement{At: Coord{X: 0, Y: 0}, Size: 2, Orientation: Horizontal})
	b.Strike(Coord{X: 0, Y: 0})
	b.Strike(Coord{X: 2, Y: 2})

	raw, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `["hit","ship","empty"]`)

	var back Board
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, b, &back)

	assert.Error(t, json.Unmarshal([]byte(`{"size":1,"cells":[["lava"]]}`), &back))
}
