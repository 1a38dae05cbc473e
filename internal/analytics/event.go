// Package analytics records usage events off the game path and fans them out
// to pluggable sinks.
package analytics

import (
	"context"
	"time"
)

// EventType names a usage event.
type EventType string

const (
	EventRoomCreated    EventType = "room_created"
	EventPlayerJoin     EventType = "player_join"
	EventTilePlaced     EventType = "tile_placed"
	EventRoundCompleted EventType = "round_completed"
	EventMatchCompleted EventType = "match_completed"
)

// Event is one usage record.
type Event struct {
	Type   EventType      `json:"eventType"`
	RoomID string         `json:"roomId"`
	Seat   int            `json:"seat,omitempty"`
	Player string         `json:"displayName,omitempty"`
	Data   map[string]any `json:"data,omitempty"`
	At     time.Time      `json:"timestamp"`
}

// Sink stores or forwards events.
type Sink interface {
	Record(ctx context.Context, e Event) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, e Event) error

func (f SinkFunc) Record(ctx context.Context, e Event) error {
	return f(ctx, e)
}
