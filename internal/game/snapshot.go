package game

import (
	"dominom/internal/domino"
	"dominom/internal/protocol"
)

// PlayerView is the public part of a slot.
type PlayerView struct {
	Seat       Seat            `json:"seat"`
	Slot       string          `json:"slot"`
	Name       string          `json:"name"`
	Connected  bool            `json:"connected"`
	TileCount  int             `json:"tileCount"`
	Avatar     protocol.Avatar `json:"avatar"`
	MatchesWon int             `json:"matchesWon"`
}

// PlayedView is the last placement as shown to clients.
type PlayedView struct {
	Seat     Seat        `json:"seat"`
	Tile     domino.Tile `json:"tile"`
	Position domino.Side `json:"position"`
}

// Snapshot is the client-safe projection of a room. It never contains hands.
type Snapshot struct {
	RoomID         string        `json:"roomId"`
	TargetScore    int           `json:"targetScore"`
	Phase          string        `json:"phase"`
	ConnectedCount int           `json:"connectedCount"`
	Players        []PlayerView  `json:"players"`
	Board          []domino.Tile `json:"board"`
	LeftEnd        *int          `json:"leftEnd"`
	RightEnd       *int          `json:"rightEnd"`
	Spinner        *domino.Tile  `json:"spinner"`
	CurrentTurn    Seat          `json:"currentTurn"`
	Seating        []Seat        `json:"seating"`
	Teams          [2][2]Seat    `json:"teams"`
	TeamScores     [2]int        `json:"teamScores"`
	MatchNumber    int           `json:"matchNumber"`
	RoundNumber    int           `json:"roundNumber"`
	ReadyPlayers   []Seat        `json:"readyPlayers"`
	LastPlayed     *PlayedView   `json:"lastPlayed"`

	EndRoundMessage string `json:"endRoundMessage,omitempty"`
	EndMatchMessage string `json:"endMatchMessage,omitempty"`

	IsFirstMove            bool `json:"isFirstMove"`
	IsFirstRoundOfMatch    bool `json:"isFirstRoundOfMatch"`
	IsAfterTiedBlockedGame bool `json:"isAfterTiedBlockedGame"`
	GameBlocked            bool `json:"gameBlocked"`
	IsTiedBlockedGame      bool `json:"isTiedBlockedGame"`
	MatchOver              bool `json:"matchOver"`
}

// Snapshot returns the current public view of the room.
func (r *Room) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

func (r *Room) snapshot() Snapshot {
	st := r.state
	snap := Snapshot{
		RoomID:         r.ID,
		TargetScore:    r.TargetScore,
		Phase:          st.Phase.Name(),
		ConnectedCount: r.connectedCount(),
		Players:        make([]PlayerView, 0, NumSeats),
		Board:          append([]domino.Tile{}, st.Board...),
		CurrentTurn:    st.CurrentTurn,
		Seating:        append([]Seat{}, st.Seating...),
		Teams:          st.Teams,
		TeamScores:     st.TeamScores,
		MatchNumber:    st.MatchNumber,
		RoundNumber:    st.RoundNumber,
		ReadyPlayers:   st.readySeats(),

		EndRoundMessage: st.EndRoundMessage,
		EndMatchMessage: st.EndMatchMessage,
	}
	for _, slot := range r.slots {
		snap.Players = append(snap.Players, PlayerView{
			Seat:       slot.Seat,
			Slot:       slot.Seat.String(),
			Name:       slot.Name,
			Connected:  slot.Connected,
			TileCount:  st.HandCount(slot.Seat),
			Avatar:     slot.Avatar,
			MatchesWon: st.PlayerStats[slot.Seat],
		})
	}
	if len(st.Board) > 0 {
		left, right := st.LeftEnd, st.RightEnd
		snap.LeftEnd, snap.RightEnd = &left, &right
	}
	if st.Spinner != nil {
		spinner := *st.Spinner
		snap.Spinner = &spinner
	}
	if st.LastPlayed != nil {
		snap.LastPlayed = &PlayedView{
			Seat:     st.LastPlayed.Seat,
			Tile:     st.LastPlayed.Tile,
			Position: st.LastPlayed.Position,
		}
	}

	switch p := st.Phase.(type) {
	case AwaitingFirstTile:
		snap.IsFirstMove = true
		snap.IsAfterTiedBlockedGame = p.AnyTileAllowed
	case RoundOver:
		snap.GameBlocked = p.Reason == ReasonBlocked
		snap.IsTiedBlockedGame = p.Tied
	case MatchOver:
		snap.GameBlocked = p.Reason == ReasonBlocked
		snap.MatchOver = true
	}
	snap.IsFirstRoundOfMatch = st.RoundNumber <= 1
	return snap
}
