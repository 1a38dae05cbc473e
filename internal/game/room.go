package game

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"dominom/internal/domino"
	"dominom/internal/protocol"
)

// Room is one four-seat table. Every mutation and the delivery of the events
// it produces happen under mu, so a room's moves are applied and sent in order.
type Room struct {
	mu          sync.Mutex
	ID          string
	TargetScore int
	CreatedAt   time.Time

	slots [NumSeats]Slot
	state *State
	rng   *rand.Rand

	out      Sender
	notify   Notifier
	log      zerolog.Logger
	schedule func(d time.Duration, fn func()) bool

	startDelay   time.Duration
	restartDelay time.Duration
	startGen     int
	startPending bool
}

func newRoom(id string, targetScore int, s *Store) *Room {
	r := &Room{
		ID:           id,
		TargetScore:  targetScore,
		CreatedAt:    time.Now().UTC(),
		state:        NewState(),
		rng:          s.cfg.Rand(),
		out:          s.out,
		notify:       s.cfg.Notifier,
		log:          s.log.With().Str("room", id).Logger(),
		startDelay:   s.cfg.StartDelay,
		restartDelay: s.cfg.RestartDelay,
	}
	r.schedule = func(d time.Duration, fn func()) bool {
		return s.rooms.After(id, d, fn)
	}
	for i, seat := range Seats {
		r.slots[i].Seat = seat
	}
	return r
}

// Phase returns the current phase.
func (r *Room) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Phase
}

// Hand returns a copy of the seat's hand.
func (r *Room) Hand(seat Seat) []domino.Tile {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Hand(seat)
}

// Slots returns a copy of the room's seats.
func (r *Room) Slots() [NumSeats]Slot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.slots
}

// ConnectedCount returns how many seats have a live connection.
func (r *Room) ConnectedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.connectedCount()
}

func (r *Room) slot(seat Seat) *Slot {
	if !seat.Valid() {
		return nil
	}
	return &r.slots[seat-1]
}

func (r *Room) connectedCount() int {
	n := 0
	for _, slot := range r.slots {
		if slot.Connected {
			n++
		}
	}
	return n
}

func (r *Room) connectedSeats() []Seat {
	seats := make([]Seat, 0, NumSeats)
	for _, slot := range r.slots {
		if slot.Connected {
			seats = append(seats, slot.Seat)
		}
	}
	return seats
}

func (r *Room) isConnected(seat Seat) bool {
	slot := r.slot(seat)
	return slot != nil && slot.Connected
}

func (r *Room) seatOf(connID string) (Seat, bool) {
	for _, slot := range r.slots {
		if slot.Connected && slot.ConnID == connID {
			return slot.Seat, true
		}
	}
	return SeatNone, false
}

func (r *Room) name(seat Seat) string {
	if slot := r.slot(seat); slot != nil && slot.Name != "" {
		return slot.Name
	}
	return seat.String()
}

// hasConnectedName reports whether name is held by a connected seat.
func (r *Room) hasConnectedName(name string) bool {
	for _, slot := range r.slots {
		if slot.Connected && slot.Name == name {
			return true
		}
	}
	return false
}

// disconnectedSeatFor returns the seat that was claimed by name and has since dropped.
func (r *Room) disconnectedSeatFor(name string) (Seat, bool) {
	for _, slot := range r.slots {
		if !slot.Connected && slot.Name != "" && slot.Name == name {
			return slot.Seat, true
		}
	}
	return SeatNone, false
}

// scheduleStart arms the first round once four seats are connected.
// A zero delay starts the round inline.
func (r *Room) scheduleStart(delay time.Duration) {
	if r.startPending || r.connectedCount() < NumSeats {
		return
	}
	if _, ok := r.state.Phase.(NotStarted); !ok {
		return
	}
	r.startGen++
	gen := r.startGen
	r.startPending = true
	if delay <= 0 {
		r.startIfReady(gen)
		return
	}
	scheduled := r.schedule(delay, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.startIfReady(gen)
	})
	if !scheduled {
		r.startPending = false
	}
}

func (r *Room) startIfReady(gen int) {
	if gen != r.startGen {
		return
	}
	r.startPending = false
	if _, ok := r.state.Phase.(NotStarted); !ok {
		return
	}
	if r.connectedCount() < NumSeats {
		r.log.Debug().Msg("start cancelled, table no longer full")
		return
	}
	r.initializeRound()
}

// restart replaces the game with a fresh match and forgets dropped players.
func (r *Room) restart() {
	r.state = NewState()
	r.startGen++
	r.startPending = false
	for i := range r.slots {
		if !r.slots[i].Connected {
			r.slots[i].Name = ""
			r.slots[i].Avatar = protocol.Avatar{}
		}
	}
	r.log.Info().Msg("room restarted")
	r.broadcast(protocol.TypeRoomRestarted, protocol.RoomRestarted{RoomID: r.ID})
	r.broadcastState()
	r.scheduleStart(r.restartDelay)
}
