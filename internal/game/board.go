package game

import (
	"errors"
	"fmt"
)

// Cell is the state of one board position.
type Cell uint8

const (
	Empty Cell = iota // water, never shot
	Ship              // unrevealed ship cell
	Hit               // struck ship cell, ship still afloat
	Miss              // struck water
	Sunk              // struck cell of a fully destroyed ship
)

// Occupied reports whether a ship covers the cell.
func (c Cell) Occupied() bool { return c == Ship || c == Hit || c == Sunk }

// Targeted reports whether the cell has already been shot.
func (c Cell) Targeted() bool { return c == Hit || c == Miss || c == Sunk }

func (c Cell) String() string {
	switch c {
	case Empty:
		return "empty"
	case Ship:
		return "ship"
	case Hit:
		return "hit"
	case Miss:
		return "miss"
	case Sunk:
		return "sunk"
	}
	return fmt.Sprintf("cell(%d)", uint8(c))
}

// MarshalText keeps boards readable in JSON instead of base64 rows.
func (c Cell) MarshalText() ([]byte, error) {
	if c > Sunk {
		return nil, fmt.Errorf("%w: unknown cell state %d", ErrInvalidBoard, uint8(c))
	}
	return []byte(c.String()), nil
}

func (c *Cell) UnmarshalText(b []byte) error {
	for v := Empty; v <= Sunk; v++ {
		if v.String() == string(b) {
			*c = v
			return nil
		}
	}
	return fmt.Errorf("%w: unknown cell %q", ErrInvalidBoard, b)
}

// Coord is a zero-based position: X is the column, Y the row.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Coord) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Y) }

var (
	ErrInvalidPlacement = errors.New("invalid ship placement")
	ErrInvalidBoard     = errors.New("invalid board")
)

// Board is a square grid of cells indexed Cells[y][x].
type Board struct {
	Size  int      `json:"size"`
	Cells [][]Cell `json:"cells"`
}

// NewBoard returns an all-Empty board.
func NewBoard(size int) *Board {
	cells := make([][]Cell, size)
	for y := range cells {
		cells[y] = make([]Cell, size)
	}
	return &Board{Size: size, Cells: cells}
}

func (b *Board) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < b.Size && c.Y >= 0 && c.Y < b.Size
}

// At returns the cell at c; c must be in bounds.
func (b *Board) At(c Coord) Cell { return b.Cells[c.Y][c.X] }

func (b *Board) set(c Coord, v Cell) { b.Cells[c.Y][c.X] = v }

// Count returns how many cells are in any of the given states.
func (b *Board) Count(states ...Cell) int {
	n := 0
	for _, row := range b.Cells {
		for _, v := range row {
			for _, s := range states {
				if v == s {
					n++
					break
				}
			}
		}
	}
	return n
}

// Remaining is the number of ship cells not yet struck.
func (b *Board) Remaining() int { return b.Count(Ship) }

func (b *Board) Clone() *Board {
	out := NewBoard(b.Size)
	for y := range b.Cells {
		copy(out.Cells[y], b.Cells[y])
	}
	return out
}

// Occupancy flattens the board row by row: 1 where a ship is, else 0.
func (b *Board) Occupancy() []uint8 {
	out := make([]uint8, 0, b.Size*b.Size)
	for _, row := range b.Cells {
		for _, v := range row {
			if v.Occupied() {
				out = append(out, 1)
			} else {
				out = append(out, 0)
			}
		}
	}
	return out
}

// Orientation of a ship run.
type Orientation uint8

const (
	Horizontal Orientation = iota
	Vertical
)

// Placement anchors a ship at its top-left cell.
type Placement struct {
	At          Coord
	Size        int
	Orientation Orientation
}

func (p Placement) cells() []Coord {
	out := make([]Coord, p.Size)
	for i := range out {
		if p.Orientation == Horizontal {
			out[i] = Coord{X: p.At.X + i, Y: p.At.Y}
		} else {
			out[i] = Coord{X: p.At.X, Y: p.At.Y + i}
		}
	}
	return out
}

// CanPlace reports whether p lies fully inside the board and no cell of it
// (or any of its 8 neighbours) is already occupied.
func (b *Board) CanPlace(p Placement) bool {
	if p.Size <= 0 {
		return false
	}
	for _, c := range p.cells() {
		if !b.InBounds(c) {
			return false
		}
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				n := Coord{X: c.X + dx, Y: c.Y + dy}
				if b.InBounds(n) && b.At(n) != Empty {
					return false
				}
			}
		}
	}
	return true
}

// PlaceShip commits p to the board.
func (b *Board) PlaceShip(p Placement) error {
	if !b.CanPlace(p) {
		return fmt.Errorf("%w: size %d at %s", ErrInvalidPlacement, p.Size, p.At)
	}
	for _, c := range p.cells() {
		b.set(c, Ship)
	}
	return nil
}

// Validate checks that the board holds exactly the given fleet: every ship a
// straight run, lengths matching the fleet, and no two ships touching, even
// diagonally.
func (b *Board) Validate(fleet Fleet) error {
	if b.Size <= 0 || len(b.Cells) != b.Size {
		return fmt.Errorf("%w: bad dimensions", ErrInvalidBoard)
	}
	for _, row := range b.Cells {
		if len(row) != b.Size {
			return fmt.Errorf("%w: bad dimensions", ErrInvalidBoard)
		}
		for _, v := range row {
			if v > Sunk {
				return fmt.Errorf("%w: unknown cell state %d", ErrInvalidBoard, v)
			}
		}
	}

	owner := make(map[Coord]int)
	lengths := make(map[int]int)
	ship := 0
	for y := 0; y < b.Size; y++ {
		for x := 0; x < b.Size; x++ {
			c := Coord{X: x, Y: y}
			if _, seen := owner[c]; seen || !b.At(c).Occupied() {
				continue
			}
			cells := b.ShipAt(c)
			if !straight(cells) {
				return fmt.Errorf("%w: ship at %s is not a straight run", ErrInvalidBoard, c)
			}
			for _, sc := range cells {
				owner[sc] = ship
			}
			lengths[len(cells)]++
			ship++
		}
	}

	for c, id := range owner {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if other, ok := owner[Coord{X: c.X + dx, Y: c.Y + dy}]; ok && other != id {
					return fmt.Errorf("%w: ships touch at %s", ErrInvalidBoard, c)
				}
			}
		}
	}

	want := make(map[int]int)
	for _, n := range fleet {
		want[n]++
	}
	if len(want) != len(lengths) {
		return fmt.Errorf("%w: fleet mismatch", ErrInvalidBoard)
	}
	for n, k := range want {
		if lengths[n] != k {
			return fmt.Errorf("%w: want %d ships of size %d, found %d", ErrInvalidBoard, k, n, lengths[n])
		}
	}
	return nil
}

func straight(cells []Coord) bool {
	minX, maxX, minY, maxY := cells[0].X, cells[0].X, cells[0].Y, cells[0].Y
	for _, c := range cells[1:] {
		minX, maxX = min(minX, c.X), max(maxX, c.X)
		minY, maxY = min(minY, c.Y), max(maxY, c.Y)
	}
	if minX == maxX {
		return maxY-minY+1 == len(cells)
	}
	if minY == maxY {
		return maxX-minX+1 == len(cells)
	}
	return false
}
