package game

// Strike is the board-level effect of one shot.
type Strike uint8

const (
	StrikeMiss    Strike = iota // water: cell is now Miss
	StrikeHit                   // ship cell hit, ship still afloat
	StrikeSunk                  // ship cell hit, whole ship now Sunk
	StrikeRepeat                // cell was already targeted; nothing changed
	StrikeOutside               // coordinate off the board; nothing changed
)

var neighbours4 = [...]Coord{{X: -1}, {X: 1}, {Y: -1}, {Y: 1}}

// ShipAt returns every cell of the ship covering c by flood fill over
// orthogonally adjacent occupied cells. Ships never touch, so the component is
// exactly one ship. Returns nil if c holds no ship.
func (b *Board) ShipAt(c Coord) []Coord {
	if !b.InBounds(c) || !b.At(c).Occupied() {
		return nil
	}
	seen := map[Coord]bool{c: true}
	queue := []Coord{c}
	var cells []Coord
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		cells = append(cells, cur)
		for _, d := range neighbours4 {
			n := Coord{X: cur.X + d.X, Y: cur.Y + d.Y}
			if seen[n] || !b.InBounds(n) || !b.At(n).Occupied() {
				continue
			}
			seen[n] = true
			queue = append(queue, n)
		}
	}
	return cells
}

// Strike applies a shot at c. A hit that leaves no Ship cell in its ship
// promotes the whole ship to Sunk.
func (b *Board) Strike(c Coord) Strike {
	if !b.InBounds(c) {
		return StrikeOutside
	}
	switch b.At(c) {
	case Empty:
		b.set(c, Miss)
		return StrikeMiss
	case Ship:
		b.set(c, Hit)
	default:
		return StrikeRepeat
	}

	ship := b.ShipAt(c)
	for _, sc := range ship {
		if b.At(sc) == Ship {
			return StrikeHit
		}
	}
	for _, sc := range ship {
		b.set(sc, Sunk)
	}
	return StrikeSunk
}
