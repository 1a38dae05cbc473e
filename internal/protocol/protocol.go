// Package protocol defines the JSON envelope exchanged over the game socket.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"dominom/internal/domino"
)

// Inbound message types.
const (
	TypeJoin      = "join"
	TypePlaceTile = "placeTile"
	TypePassTurn  = "passTurn"
	TypeReady     = "readyForNextRound"
	TypeRestart   = "restartRoom"
	TypeLeave     = "leaveRoom"
)

// Outbound message types.
const (
	TypeAssigned       = "assigned"
	TypeState          = "state"
	TypeHand           = "hand"
	TypeMoveAccepted   = "moveAccepted"
	TypeMoveRejected   = "moveRejected"
	TypeTilePlaced     = "tilePlaced"
	TypeTurnPassed     = "turnPassed"
	TypeRoundWon       = "roundWon"
	TypeReconnected    = "roomReconnected"
	TypeConnectedCount = "connectedCount"
	TypePlayerLeft     = "playerLeft"
	TypeLeaveAck       = "leaveAck"
	TypeRoomRestarted  = "roomRestarted"
	TypeError          = "error"
)

// ErrMalformed is returned for frames that are not a valid envelope.
var ErrMalformed = errors.New("malformed message")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Envelope wraps every message on the wire.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Encode builds a wire frame for the given type and payload.
func Encode(kind string, payload any) ([]byte, error) {
	env := struct {
		Type string `json:"type"`
		Data any    `json:"data,omitempty"`
	}{Type: kind, Data: payload}
	return json.Marshal(env)
}

// Decode parses a wire frame into its envelope.
func Decode(frame []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if env.Type == "" {
		return Envelope{}, fmt.Errorf("%w: missing type", ErrMalformed)
	}
	return env, nil
}

// Payload unmarshals and validates the envelope data.
func Payload[T any](env Envelope) (T, error) {
	var v T
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return v, fmt.Errorf("%w: %s: %v", ErrMalformed, env.Type, err)
		}
	}
	if err := Validate(v); err != nil {
		return v, err
	}
	return v, nil
}

// Validate checks struct tags on an inbound payload.
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: field %s failed %s", ErrMalformed, fe.Field(), fe.Tag())
		}
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

// Avatar is an opaque avatar reference chosen by the client.
type Avatar struct {
	Type string `json:"type" validate:"omitempty,oneof=emoji file url"`
	Data string `json:"data,omitempty" validate:"max=4096"`
}

// JoinRequest asks to be seated, optionally in a named room.
type JoinRequest struct {
	Name        string  `json:"name" validate:"required,max=64"`
	RoomID      string  `json:"roomId,omitempty" validate:"omitempty,max=32,printascii"`
	Avatar      *Avatar `json:"avatar,omitempty"`
	TargetScore int     `json:"targetScore,omitempty" validate:"omitempty,min=10,max=500"`
}

// PlaceTileRequest places a tile on one end of the line.
type PlaceTileRequest struct {
	Tile     TileRequest `json:"tile"`
	Position string      `json:"position" validate:"required,oneof=left right"`
}

// TileRequest is a tile as sent by a client.
type TileRequest struct {
	Left  int `json:"left" validate:"min=0,max=6"`
	Right int `json:"right" validate:"min=0,max=6"`
}

// Tile converts the request into a domino tile.
func (t TileRequest) Tile() domino.Tile {
	return domino.Tile{Left: t.Left, Right: t.Right}
}

// LeaveRequest leaves the named room.
type LeaveRequest struct {
	RoomID string `json:"roomId" validate:"required,max=32"`
}

// Empty is the payload of messages that carry no data.
type Empty struct{}
