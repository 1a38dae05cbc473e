// Package domino holds the double-six tile set and the pure rules that do not
// depend on room or turn state.
package domino

import (
	"fmt"
	"math/rand/v2"
)

const (
	// MaxPip is the highest face value in a double-six set.
	MaxPip = 6
	// SetSize is the number of tiles in a double-six set.
	SetSize = 28
)

// DoubleSix opens the first round of every match.
var DoubleSix = Tile{Left: MaxPip, Right: MaxPip}

// Tile is a domino with two faces.
type Tile struct {
	Left  int `json:"left"`
	Right int `json:"right"`
}

func (t Tile) String() string {
	return fmt.Sprintf("%d|%d", t.Left, t.Right)
}

// IsDouble reports whether both faces are equal.
func (t Tile) IsDouble() bool {
	return t.Left == t.Right
}

// Pips returns the sum of both faces.
func (t Tile) Pips() int {
	return t.Left + t.Right
}

// Flip swaps the faces.
func (t Tile) Flip() Tile {
	return Tile{Left: t.Right, Right: t.Left}
}

// Same reports whether o is the same tile in either orientation.
func (t Tile) Same(o Tile) bool {
	return t == o || t == o.Flip()
}

// Matches reports whether either face equals n.
func (t Tile) Matches(n int) bool {
	return t.Left == n || t.Right == n
}

// NewSet returns the 28 tiles of a double-six set in canonical order.
func NewSet() []Tile {
	set := make([]Tile, 0, SetSize)
	for i := 0; i <= MaxPip; i++ {
		for j := i; j <= MaxPip; j++ {
			set = append(set, Tile{Left: i, Right: j})
		}
	}
	return set
}

// Shuffle permutes tiles in place with a uniform Fisher-Yates shuffle.
func Shuffle(rng *rand.Rand, tiles []Tile) {
	rng.Shuffle(len(tiles), func(i, j int) {
		tiles[i], tiles[j] = tiles[j], tiles[i]
	})
}
