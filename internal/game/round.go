package game

import (
	"fmt"
	"slices"

	"dominom/internal/domino"
	"dominom/internal/protocol"
)

var teamNames = [2]string{"A", "B"}

// initializeRound deals a new round and picks who opens it.
func (r *Room) initializeRound() {
	st := r.state
	prev := st.Phase
	st.resetRound()
	st.Teams = TeamsFor(st.MatchNumber)
	st.Seating = SeatingFor(st.Teams)
	st.RoundNumber++

	deck := domino.NewSet()
	domino.Shuffle(r.rng, deck)
	connected := r.connectedSeats()
	for _, seat := range connected {
		st.setHand(seat, slices.Clone(deck[:HandSize]))
		deck = deck[HandSize:]
	}
	holder, hasHolder := st.holderOf(domino.DoubleSix, connected)

	var start Seat
	switch p := prev.(type) {
	case NotStarted:
		start = Seat1
		if hasHolder {
			start = holder
		}
		st.Phase = AwaitingFirstTile{MustBeDoubleSix: true}
	case RoundOver:
		if p.Tied {
			switch {
			case hasHolder:
				start = holder
			case st.LastWinner.Valid():
				start = st.LastWinner
			default:
				start = st.Seating[0]
			}
			st.Phase = AwaitingFirstTile{AnyTileAllowed: true}
		} else {
			start = r.roundLeader()
			st.Phase = AwaitingFirstTile{}
		}
	default:
		start = r.roundLeader()
		st.Phase = AwaitingFirstTile{}
	}
	st.CurrentTurn = start

	r.log.Info().
		Int("match", st.MatchNumber).
		Int("round", st.RoundNumber).
		Int("starter", int(start)).
		Str("phase", st.Phase.Name()).
		Msg("round initialized")

	for _, seat := range connected {
		r.sendHand(seat)
	}
	r.broadcastState()
}

// roundLeader is the previous winner when still connected, else the first seat.
func (r *Room) roundLeader() Seat {
	st := r.state
	if st.LastWinner.Valid() && r.isConnected(st.LastWinner) {
		return st.LastWinner
	}
	return st.Seating[0]
}

// placeTile validates and applies a placement. A rejected move changes nothing.
func (r *Room) placeTile(seat Seat, tile domino.Tile, side domino.Side) error {
	st := r.state
	if !RoundActive(st.Phase) {
		return ErrRoundNotActive
	}
	if st.CurrentTurn != seat {
		return ErrNotYourTurn
	}
	if !side.Valid() {
		return ErrInvalidPosition
	}
	hand := st.hands[seat]
	i := domino.IndexOf(hand, tile)
	if i < 0 {
		return ErrTileNotInHand
	}
	held := hand[i]

	var placed domino.Tile
	if opening, ok := st.Phase.(AwaitingFirstTile); ok {
		if opening.MustBeDoubleSix && !held.Same(domino.DoubleSix) {
			return ErrMustOpenDoubleSix
		}
		placed = held
		spinner := placed
		st.Board = []domino.Tile{placed}
		st.LeftEnd, st.RightEnd = placed.Left, placed.Right
		st.Spinner = &spinner
	} else {
		end := st.RightEnd
		if side == domino.SideLeft {
			end = st.LeftEnd
		}
		oriented, ok := domino.Orient(held, side, end)
		if !ok {
			return ErrIllegalPlacement
		}
		placed = oriented
		if side == domino.SideLeft {
			st.Board = append([]domino.Tile{placed}, st.Board...)
			st.LeftEnd = placed.Left
		} else {
			st.Board = append(st.Board, placed)
			st.RightEnd = placed.Right
		}
	}

	st.hands[seat] = domino.Remove(hand, i)
	st.LastPlayed = &Played{Seat: seat, Tile: placed, Position: side}
	st.Phase = InPlay{}

	r.sendHand(seat)
	r.unicast(seat, protocol.TypeMoveAccepted, protocol.MoveAccepted{Tile: placed, Position: string(side)})
	r.broadcast(protocol.TypeTilePlaced, protocol.TilePlaced{
		Seat:     int(seat),
		Name:     r.name(seat),
		Tile:     placed,
		Position: string(side),
	})
	r.notify.TilePlaced(r.ID, seat, placed)

	if err := r.nextTurn(); err != nil {
		// Logged by nextTurn; the move itself stands.
		return nil
	}
	r.checkRoundEnd()
	return nil
}

// passTurn is only allowed when the seat cannot place anything.
func (r *Room) passTurn(seat Seat) error {
	st := r.state
	if !RoundActive(st.Phase) {
		return ErrRoundNotActive
	}
	if st.CurrentTurn != seat {
		return ErrNotYourTurn
	}
	if st.HasLegalMove(seat) {
		return ErrIllegalPass
	}

	r.broadcast(protocol.TypeTurnPassed, protocol.TurnPassed{Seat: int(seat), Name: r.name(seat)})
	if err := r.nextTurn(); err != nil {
		// Logged by nextTurn; the move itself stands.
		return nil
	}
	r.checkRoundEnd()
	return nil
}

// nextTurn moves to the following seat in seating order. Disconnected seats
// keep their turn.
func (r *Room) nextTurn() error {
	st := r.state
	idx := slices.Index(st.Seating, st.CurrentTurn)
	if idx < 0 {
		err := fmt.Errorf("%w: seat %d", ErrTurnOutOfSeating, st.CurrentTurn)
		r.log.Error().Err(err).Ints("seating", seatInts(st.Seating)).Msg("turn advance aborted")
		return err
	}
	st.CurrentTurn = st.Seating[(idx+1)%len(st.Seating)]
	return nil
}

// checkRoundEnd ends the round on a domino or a block, or publishes the new state.
func (r *Room) checkRoundEnd() {
	st := r.state
	for _, seat := range r.connectedSeats() {
		if st.HandCount(seat) == 0 {
			r.endRound(seat)
			return
		}
	}
	for _, seat := range r.connectedSeats() {
		if st.HasLegalMove(seat) {
			r.broadcastState()
			return
		}
	}
	r.endRound(SeatNone)
}

// endRound scores a domino by winner, or a blocked round when winner is SeatNone.
func (r *Room) endRound(winner Seat) {
	st := r.state
	result := RoundResult{
		WinningTeam: -1,
		MatchNumber: st.MatchNumber,
		RoundNumber: st.RoundNumber,
	}
	var endMessage string
	tied := false

	if winner.Valid() {
		team := st.TeamOf(winner)
		points := st.TeamValue(1 - team)
		st.TeamScores[team] += points
		st.LastWinner = winner
		result.Reason, result.Winner, result.WinningTeam, result.Points = ReasonDomino, winner, team, points
		endMessage = fmt.Sprintf("%s domino! Team %s wins %d points!", r.name(winner), teamNames[team], points)
		r.broadcast(protocol.TypeRoundWon, protocol.RoundWon{
			Seat:   int(winner),
			Name:   r.name(winner),
			Team:   team,
			Points: points,
		})
	} else {
		result.Reason = ReasonBlocked
		a, b := st.TeamValue(TeamA), st.TeamValue(TeamB)
		if a != b {
			team, points := TeamA, b
			if b < a {
				team, points = TeamB, a
			}
			st.TeamScores[team] += points
			st.LastWinner = r.lowestPipSeat()
			result.WinningTeam, result.Points = team, points
			endMessage = fmt.Sprintf("Blocked game! Team %s wins with fewer pips, %d points.", teamNames[team], points)
		} else {
			tied = true
			if holder, ok := st.holderOf(domino.DoubleSix, Seats[:]); ok {
				st.LastWinner = holder
			} else {
				st.LastWinner = r.lowestPipSeat()
			}
			endMessage = "Blocked game! Tie, no points awarded."
		}
	}
	result.TeamScores = st.TeamScores
	clear(st.Ready)

	r.log.Info().
		Str("reason", string(result.Reason)).
		Int("winning_team", result.WinningTeam).
		Int("points", result.Points).
		Ints("scores", st.TeamScores[:]).
		Msg("round ended")

	if st.TeamScores[TeamA] >= r.TargetScore || st.TeamScores[TeamB] >= r.TargetScore {
		team := result.WinningTeam
		switch {
		case st.TeamScores[TeamA] > st.TeamScores[TeamB]:
			team = TeamA
		case st.TeamScores[TeamB] > st.TeamScores[TeamA]:
			team = TeamB
		case team < 0:
			team = TeamA
		}
		loser := st.TeamScores[1-team]
		matchPoints := 1
		shutout := ""
		if loser == 0 {
			matchPoints = 2
			shutout = fmt.Sprintf(" (Shutout: +%d points!)", matchPoints)
		}
		for _, seat := range st.Teams[team] {
			st.PlayerStats[seat] += matchPoints
		}
		st.EndMatchMessage = fmt.Sprintf("Team %s wins the match %d to %d!%s",
			teamNames[team], st.TeamScores[TeamA], st.TeamScores[TeamB], shutout)
		st.EndRoundMessage = endMessage + "\n" + st.EndMatchMessage
		st.Phase = MatchOver{Reason: result.Reason, WinningTeam: team, MatchPoints: matchPoints}
		result.MatchOver, result.MatchPoints = true, matchPoints

		r.log.Info().Int("winning_team", team).Int("match_points", matchPoints).Msg("match over")
		r.notify.RoundCompleted(r.ID, result)
		r.broadcastState()
		return
	}

	st.EndMatchMessage = ""
	st.EndRoundMessage = endMessage
	st.Phase = RoundOver{Reason: result.Reason, Tied: tied}
	r.notify.RoundCompleted(r.ID, result)
	r.broadcastState()
}

// lowestPipSeat returns the connected seat with the smallest hand total.
func (r *Room) lowestPipSeat() Seat {
	best, bestValue := SeatNone, 0
	for _, seat := range r.connectedSeats() {
		v := r.state.HandValue(seat)
		if !best.Valid() || v < bestValue {
			best, bestValue = seat, v
		}
	}
	return best
}

// playerReady records a ready signal and starts the next round once all four
// connected players are ready.
func (r *Room) playerReady(seat Seat) error {
	st := r.state
	if !awaitingReady(st.Phase) {
		return ErrNotAwaitingReady
	}
	st.Ready[seat] = true

	connected := r.connectedSeats()
	if len(connected) < NumSeats {
		r.broadcastState()
		return nil
	}
	for _, s := range connected {
		if !st.Ready[s] {
			r.broadcastState()
			return nil
		}
	}

	if _, over := st.Phase.(MatchOver); over {
		r.state = st.nextMatch()
		r.log.Info().Int("match", r.state.MatchNumber).Msg("new match")
	}
	r.initializeRound()
	return nil
}

func seatInts(seats []Seat) []int {
	out := make([]int, len(seats))
	for i, s := range seats {
		out[i] = int(s)
	}
	return out
}
