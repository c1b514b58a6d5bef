package game

import (
	"errors"
	"fmt"
)

const DefaultSize = 10

// Fleet is the ordered list of ship lengths placed on every board.
type Fleet []int

// DefaultFleet: one 4, two 3s, three 2s, four 1s (20 cells).
var DefaultFleet = Fleet{4, 3, 3, 2, 2, 2, 1, 1, 1, 1}

// Cells is the number of occupied cells the fleet covers.
func (f Fleet) Cells() int {
	total := 0
	for _, n := range f {
		total += n
	}
	return total
}

var ErrBadRules = errors.New("invalid rules")

// Rules fixes the board geometry a match is played with.
type Rules struct {
	Size  int
	Fleet Fleet
}

func DefaultRules() Rules {
	return Rules{Size: DefaultSize, Fleet: append(Fleet(nil), DefaultFleet...)}
}

// Validate rejects geometries that can never be generated. It is a cheap
// necessary check only; a fleet that passes may still fail to fit once the
// no-touch margins are counted, which Generate reports.
func (r Rules) Validate() error {
	if r.Size <= 0 {
		return fmt.Errorf("%w: board size %d", ErrBadRules, r.Size)
	}
	if len(r.Fleet) == 0 {
		return fmt.Errorf("%w: empty fleet", ErrBadRules)
	}
	for _, n := range r.Fleet {
		if n <= 0 || n > r.Size {
			return fmt.Errorf("%w: ship length %d on a %dx%d board", ErrBadRules, n, r.Size, r.Size)
		}
	}
	if r.Fleet.Cells() > r.Size*r.Size {
		return fmt.Errorf("%w: fleet covers %d cells, board has %d", ErrBadRules, r.Fleet.Cells(), r.Size*r.Size)
	}
	return nil
}
