package domino

// Side is the end of the line a tile is placed on.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Valid reports whether s names an end of the line.
func (s Side) Valid() bool {
	return s == SideLeft || s == SideRight
}

// HandValue returns the pip total of a hand.
func HandValue(hand []Tile) int {
	total := 0
	for _, t := range hand {
		total += t.Pips()
	}
	return total
}

// IndexOf returns the position of t in hand in either orientation, or -1.
func IndexOf(hand []Tile, t Tile) int {
	for i, h := range hand {
		if h.Same(t) {
			return i
		}
	}
	return -1
}

// Contains reports whether hand holds t in either orientation.
func Contains(hand []Tile, t Tile) bool {
	return IndexOf(hand, t) >= 0
}

// Remove returns hand without the tile at i. The input slice is not modified.
func Remove(hand []Tile, i int) []Tile {
	out := make([]Tile, 0, len(hand)-1)
	out = append(out, hand[:i]...)
	return append(out, hand[i+1:]...)
}

// Orient turns t so that its matching face touches end on the given side.
// On the left the touching face is Right; on the right it is Left.
func Orient(t Tile, side Side, end int) (Tile, bool) {
	switch side {
	case SideLeft:
		if t.Right == end {
			return t, true
		}
		if t.Left == end {
			return t.Flip(), true
		}
	case SideRight:
		if t.Left == end {
			return t, true
		}
		if t.Right == end {
			return t.Flip(), true
		}
	}
	return Tile{}, false
}

// CanMatch reports whether any tile in hand touches either open end.
func CanMatch(hand []Tile, leftEnd, rightEnd int) bool {
	for _, t := range hand {
		if t.Matches(leftEnd) || t.Matches(rightEnd) {
			return true
		}
	}
	return false
}
