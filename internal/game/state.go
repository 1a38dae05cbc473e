package game

import (
	"slices"

	"dominom/internal/domino"
)

const (
	TeamA = 0
	TeamB = 1
)

// teamRotations pairs partners differently for each match, cycling every three.
var teamRotations = [3][2][2]Seat{
	{{Seat1, Seat2}, {Seat3, Seat4}},
	{{Seat1, Seat3}, {Seat2, Seat4}},
	{{Seat1, Seat4}, {Seat2, Seat3}},
}

// TeamsFor returns the partnerships of the given 1-based match number.
func TeamsFor(match int) [2][2]Seat {
	if match < 1 {
		match = 1
	}
	return teamRotations[(match-1)%len(teamRotations)]
}

// SeatingFor alternates partners so the turn order is A0, B0, A1, B1.
func SeatingFor(teams [2][2]Seat) []Seat {
	return []Seat{teams[TeamA][0], teams[TeamB][0], teams[TeamA][1], teams[TeamB][1]}
}

// Played is the most recent placement.
type Played struct {
	Seat     Seat
	Tile     domino.Tile
	Position domino.Side
}

// State is one room's game. Hands are only reachable through methods.
type State struct {
	Board       []domino.Tile
	LeftEnd     int
	RightEnd    int
	Spinner     *domino.Tile
	CurrentTurn Seat
	Seating     []Seat
	Teams       [2][2]Seat
	TeamScores  [2]int
	MatchNumber int
	RoundNumber int
	PlayerStats map[Seat]int
	LastWinner  Seat
	Ready       map[Seat]bool
	LastPlayed  *Played
	Phase       Phase

	EndRoundMessage string
	EndMatchMessage string

	hands map[Seat][]domino.Tile
}

// NewState returns the state of a room before its first round.
func NewState() *State {
	teams := TeamsFor(1)
	return &State{
		Teams:       teams,
		Seating:     SeatingFor(teams),
		MatchNumber: 1,
		PlayerStats: make(map[Seat]int, NumSeats),
		Ready:       make(map[Seat]bool, NumSeats),
		Phase:       NotStarted{},
		hands:       make(map[Seat][]domino.Tile, NumSeats),
	}
}

// nextMatch starts a fresh match that keeps stats and the last winner.
func (st *State) nextMatch() *State {
	next := NewState()
	next.MatchNumber = st.MatchNumber + 1
	next.LastWinner = st.LastWinner
	for seat, won := range st.PlayerStats {
		next.PlayerStats[seat] = won
	}
	return next
}

// Hand returns a copy of the seat's hand.
func (st *State) Hand(seat Seat) []domino.Tile {
	return append([]domino.Tile{}, st.hands[seat]...)
}

// HandCount returns the number of tiles the seat holds.
func (st *State) HandCount(seat Seat) int {
	return len(st.hands[seat])
}

// HandValue returns the pip total of the seat's hand.
func (st *State) HandValue(seat Seat) int {
	return domino.HandValue(st.hands[seat])
}

func (st *State) setHand(seat Seat, hand []domino.Tile) {
	st.hands[seat] = hand
}

func (st *State) clearHands() {
	clear(st.hands)
}

// holderOf returns the seat holding t among the given seats.
func (st *State) holderOf(t domino.Tile, seats []Seat) (Seat, bool) {
	for _, seat := range seats {
		if domino.Contains(st.hands[seat], t) {
			return seat, true
		}
	}
	return SeatNone, false
}

// TeamOf returns the team index of seat.
func (st *State) TeamOf(seat Seat) int {
	for team, members := range st.Teams {
		if slices.Contains(members[:], seat) {
			return team
		}
	}
	return -1
}

// TeamValue returns the combined pip total of a team's hands.
func (st *State) TeamValue(team int) int {
	total := 0
	for _, seat := range st.Teams[team] {
		total += st.HandValue(seat)
	}
	return total
}

// HasLegalMove reports whether the seat could place any tile right now.
// It accepts exactly what placeTile accepts for the current phase.
func (st *State) HasLegalMove(seat Seat) bool {
	hand := st.hands[seat]
	switch p := st.Phase.(type) {
	case AwaitingFirstTile:
		if p.MustBeDoubleSix {
			return domino.Contains(hand, domino.DoubleSix)
		}
		return len(hand) > 0
	case InPlay:
		return domino.CanMatch(hand, st.LeftEnd, st.RightEnd)
	}
	return false
}

// resetRound clears everything that lives for a single round.
func (st *State) resetRound() {
	st.Board = nil
	st.LeftEnd = 0
	st.RightEnd = 0
	st.Spinner = nil
	st.LastPlayed = nil
	st.EndRoundMessage = ""
	st.EndMatchMessage = ""
	clear(st.Ready)
	st.clearHands()
}

// readySeats returns the ready seats in seat order.
func (st *State) readySeats() []Seat {
	out := make([]Seat, 0, len(st.Ready))
	for _, seat := range Seats {
		if st.Ready[seat] {
			out = append(out, seat)
		}
	}
	return out
}
