package analytics

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"dominom/internal/domino"
	"dominom/internal/game"
)

const (
	DefaultBuffer = 256
	sinkTimeout   = 2 * time.Second
)

var _ game.Notifier = (*Dispatcher)(nil)

// Dispatcher queues events and delivers them to sinks on a single worker.
// Enqueueing never blocks; a full queue drops the event.
type Dispatcher struct {
	events  chan Event
	sinks   []Sink
	log     zerolog.Logger
	now     func() time.Time
	dropped atomic.Int64
}

// NewDispatcher creates a dispatcher. Call Run to start delivery.
func NewDispatcher(buffer int, log zerolog.Logger, sinks ...Sink) *Dispatcher {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Dispatcher{
		events: make(chan Event, buffer),
		sinks:  sinks,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Track queues an event and reports whether it was accepted.
func (d *Dispatcher) Track(e Event) bool {
	if e.At.IsZero() {
		e.At = d.now()
	}
	select {
	case d.events <- e:
		return true
	default:
		d.dropped.Add(1)
		return false
	}
}

// Dropped returns how many events were discarded because the queue was full.
func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}

// Run delivers queued events until ctx is cancelled, then drains what is left.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case e := <-d.events:
			d.deliver(e)
		case <-ctx.Done():
			for {
				select {
				case e := <-d.events:
					d.deliver(e)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) deliver(e Event) {
	for _, sink := range d.sinks {
		ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
		if err := sink.Record(ctx, e); err != nil {
			d.log.Warn().Err(err).Str("event", string(e.Type)).Str("room", e.RoomID).Msg("analytics sink failed")
		}
		cancel()
	}
}

func (d *Dispatcher) RoomCreated(roomID string) {
	d.Track(Event{Type: EventRoomCreated, RoomID: roomID})
}

func (d *Dispatcher) PlayerJoined(roomID string, seat game.Seat, name string) {
	d.Track(Event{Type: EventPlayerJoin, RoomID: roomID, Seat: int(seat), Player: name})
}

func (d *Dispatcher) TilePlaced(roomID string, seat game.Seat, tile domino.Tile) {
	d.Track(Event{
		Type:   EventTilePlaced,
		RoomID: roomID,
		Seat:   int(seat),
		Data:   map[string]any{"tile": tile.String()},
	})
}

func (d *Dispatcher) RoundCompleted(roomID string, result game.RoundResult) {
	data := map[string]any{
		"reason":      string(result.Reason),
		"winningTeam": result.WinningTeam,
		"points":      result.Points,
		"teamScores":  result.TeamScores,
		"match":       result.MatchNumber,
		"round":       result.RoundNumber,
	}
	d.Track(Event{Type: EventRoundCompleted, RoomID: roomID, Seat: int(result.Winner), Data: data})
	if result.MatchOver {
		d.Track(Event{
			Type:   EventMatchCompleted,
			RoomID: roomID,
			Data: map[string]any{
				"winningTeam": result.WinningTeam,
				"matchPoints": result.MatchPoints,
				"teamScores":  result.TeamScores,
				"match":       result.MatchNumber,
			},
		})
	}
}
