package game

import "dominom/internal/domino"

// Notifier receives gameplay milestones. Calls happen while a room is locked,
// so implementations must return without blocking.
type Notifier interface {
	RoomCreated(roomID string)
	PlayerJoined(roomID string, seat Seat, name string)
	TilePlaced(roomID string, seat Seat, tile domino.Tile)
	RoundCompleted(roomID string, result RoundResult)
}

// RoundResult summarizes a finished round.
type RoundResult struct {
	Reason      EndReason
	Winner      Seat
	WinningTeam int // -1 on a tie
	Points      int
	TeamScores  [2]int
	MatchNumber int
	RoundNumber int
	MatchOver   bool
	MatchPoints int
}

type nopNotifier struct{}

func (nopNotifier) RoomCreated(string)                   {}
func (nopNotifier) PlayerJoined(string, Seat, string)    {}
func (nopNotifier) TilePlaced(string, Seat, domino.Tile) {}
func (nopNotifier) RoundCompleted(string, RoundResult)   {}
