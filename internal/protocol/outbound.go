package protocol

import "dominom/internal/domino"

type Assigned struct {
	RoomID   string `json:"roomId"`
	Seat     int    `json:"seat"`
	Name     string `json:"name"`
	RoomFull bool   `json:"roomFull"`
}

type Hand struct {
	Tiles []domino.Tile `json:"tiles"`
}

type MoveAccepted struct {
	Tile     domino.Tile `json:"tile"`
	Position string      `json:"position"`
}

type MoveRejected struct {
	Reason string `json:"reason"`
}

type TilePlaced struct {
	Seat     int         `json:"seat"`
	Name     string      `json:"name"`
	Tile     domino.Tile `json:"tile"`
	Position string      `json:"position"`
}

type TurnPassed struct {
	Seat int    `json:"seat"`
	Name string `json:"name"`
}

type RoundWon struct {
	Seat   int    `json:"seat"`
	Name   string `json:"name"`
	Team   int    `json:"team"`
	Points int    `json:"points"`
}

type Reconnected struct {
	Seat int    `json:"seat"`
	Name string `json:"name"`
}

type ConnectedCount struct {
	Count    int  `json:"count"`
	RoomFull bool `json:"roomFull"`
}

type PlayerLeft struct {
	Seat int    `json:"seat"`
	Name string `json:"name"`
}

type LeaveAck struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type RoomRestarted struct {
	RoomID string `json:"roomId"`
}

type Error struct {
	Message string `json:"message"`
}
