package game

import (
	"strconv"
	"strings"
)

// View projects the board for a viewer. Unless reveal is set, Ship cells read
// as Empty; Hit, Miss and Sunk are always shown.
func (b *Board) View(reveal bool) [][]Cell {
	out := make([][]Cell, b.Size)
	for y, row := range b.Cells {
		out[y] = make([]Cell, len(row))
		for x, v := range row {
			if v == Ship && !reveal {
				v = Empty
			}
			out[y][x] = v
		}
	}
	return out
}

// Symbols maps projected cells to printable glyphs.
type Symbols map[Cell]string

var (
	Emoji = Symbols{Empty: "🟦", Ship: "🚢", Miss: "⚪️", Hit: "💥", Sunk: "💀"}
	ASCII = Symbols{Empty: ".", Ship: "#", Miss: "o", Hit: "x", Sunk: "X"}
)

// Grid turns a view into glyphs.
func (s Symbols) Grid(view [][]Cell) [][]string {
	out := make([][]string, len(view))
	for y, row := range view {
		out[y] = make([]string, len(row))
		for x, v := range row {
			g, ok := s[v]
			if !ok {
				g = s[Empty]
			}
			out[y][x] = g
		}
	}
	return out
}

// Render draws a view with lettered columns and 1-based row numbers.
func (s Symbols) Render(view [][]Cell) string {
	var sb strings.Builder
	width := len(strconv.Itoa(len(view)))
	sb.WriteString(strings.Repeat(" ", width+1))
	for x := range view {
		sb.WriteString(ColumnLabel(x))
		sb.WriteByte(' ')
	}
	sb.WriteByte('\n')
	for y, row := range s.Grid(view) {
		num := strconv.Itoa(y + 1)
		sb.WriteString(strings.Repeat(" ", width-len(num)))
		sb.WriteString(num)
		sb.WriteByte(' ')
		sb.WriteString(strings.Join(row, " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}
