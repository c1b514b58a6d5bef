package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrBadCoord = errors.New("malformed coordinate")

// ColumnLabel names column x: 0 -> "A".
func ColumnLabel(x int) string { return string(rune('A' + x)) }

// FormatCoord renders c the way players type it, e.g. (0,0) -> "A1".
func FormatCoord(c Coord) string { return ColumnLabel(c.X) + strconv.Itoa(c.Y+1) }

// ParseCoord reads a column letter followed by a 1-based row number ("A1",
// " j10 ") and bounds-checks it against a board of the given size.
func ParseCoord(s string, size int) (Coord, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 {
		return Coord{}, fmt.Errorf("%w: %q", ErrBadCoord, s)
	}
	letter := s[0]
	if letter < 'A' || letter > 'Z' {
		return Coord{}, fmt.Errorf("%w: %q", ErrBadCoord, s)
	}
	row, err := strconv.Atoi(s[1:])
	if err != nil {
		return Coord{}, fmt.Errorf("%w: %q", ErrBadCoord, s)
	}
	c := Coord{X: int(letter - 'A'), Y: row - 1}
	if c.X >= size || c.Y < 0 || c.Y >= size {
		return Coord{}, fmt.Errorf("%w: %q is off a %dx%d board", ErrBadCoord, s, size, size)
	}
	return c, nil
}
