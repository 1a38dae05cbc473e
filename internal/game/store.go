package game

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"dominom/internal/domino"
	"dominom/internal/protocol"
	"dominom/pkg/realtime"
)

const (
	DefaultTargetScore  = 70
	DefaultStartDelay   = 100 * time.Millisecond
	DefaultRestartDelay = 2 * time.Second

	roomPrefix = "Sala-"
)

// Config tunes room defaults. Zero delays start rounds inline.
type Config struct {
	TargetScore  int
	StartDelay   time.Duration
	RestartDelay time.Duration
	Notifier     Notifier
	// Rand returns the shuffler of a new room.
	Rand func() *rand.Rand
}

// Store is the room registry. It delegates room bookkeeping and timers to
// realtime.RoomStore and owns the connection to room index.
type Store struct {
	mu    sync.Mutex
	rooms *realtime.RoomStore[*Room]
	conns map[string]string
	seq   int
	out   Sender
	cfg   Config
	log   zerolog.Logger
}

// NewStore creates an empty registry that delivers events through out.
func NewStore(out Sender, cfg Config, log zerolog.Logger) *Store {
	if cfg.TargetScore <= 0 {
		cfg.TargetScore = DefaultTargetScore
	}
	if cfg.Notifier == nil {
		cfg.Notifier = nopNotifier{}
	}
	if cfg.Rand == nil {
		cfg.Rand = func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}
	}
	return &Store{
		rooms: realtime.NewRoomStore[*Room](),
		conns: make(map[string]string),
		out:   out,
		cfg:   cfg,
		log:   log,
	}
}

// RoomSummary describes a room for listings.
type RoomSummary struct {
	ID             string    `json:"roomId"`
	ConnectedCount int       `json:"connectedCount"`
	Phase          string    `json:"phase"`
	TargetScore    int       `json:"targetScore"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Rooms lists every room in creation order.
func (s *Store) Rooms() []RoomSummary {
	list := s.rooms.List()
	out := make([]RoomSummary, 0, len(list))
	for _, rr := range list {
		room := rr.State
		room.mu.Lock()
		out = append(out, RoomSummary{
			ID:             room.ID,
			ConnectedCount: room.connectedCount(),
			Phase:          room.state.Phase.Name(),
			TargetScore:    room.TargetScore,
			CreatedAt:      room.CreatedAt,
		})
		room.mu.Unlock()
	}
	return out
}

// Room returns a room by ID if it exists.
func (s *Store) Room(id string) (*Room, bool) {
	rr, ok := s.rooms.Get(id)
	if !ok {
		return nil, false
	}
	return rr.State, true
}

// FindOrCreateRoom resolves the room a player should join. A requested id is
// used or created; otherwise a room holding the player's dropped seat, then
// any room with a free seat, then a new room.
func (s *Store) FindOrCreateRoom(name, roomID string, targetScore int) *Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findOrCreate(NormalizeName(name), roomID, targetScore)
}

func (s *Store) findOrCreate(name, roomID string, targetScore int) *Room {
	if roomID != "" {
		if rr, ok := s.rooms.Get(roomID); ok {
			return rr.State
		}
		return s.create(roomID, targetScore)
	}

	rooms := s.rooms.List()
	if name != "" {
		for _, rr := range rooms {
			room := rr.State
			room.mu.Lock()
			_, dropped := room.disconnectedSeatFor(name)
			free := room.connectedCount() < NumSeats
			room.mu.Unlock()
			if dropped && free {
				return room
			}
		}
	}
	for _, rr := range rooms {
		if rr.State.ConnectedCount() < NumSeats {
			return rr.State
		}
	}
	return s.create("", targetScore)
}

func (s *Store) create(id string, targetScore int) *Room {
	for id == "" {
		s.seq++
		candidate := fmt.Sprintf("%s%d", roomPrefix, s.seq)
		if _, taken := s.rooms.Get(candidate); !taken {
			id = candidate
		}
	}
	if targetScore <= 0 {
		targetScore = s.cfg.TargetScore
	}
	room := newRoom(id, targetScore, s)
	rr, created := s.rooms.Create(id, room)
	if created {
		s.log.Info().Str("room", id).Int("target_score", targetScore).Msg("room created")
		s.cfg.Notifier.RoomCreated(id)
	}
	return rr.State
}

// FindRoomByConnection returns the room a connection is seated in.
func (s *Store) FindRoomByConnection(connID string) (*Room, bool) {
	s.mu.Lock()
	roomID, ok := s.conns[connID]
	s.mu.Unlock()
	if !ok {
		return nil, false
	}
	return s.Room(roomID)
}

// JoinResult reports where a connection was seated.
type JoinResult struct {
	RoomID      string
	Seat        Seat
	Name        string
	Reconnected bool
}

// Join seats a connection. A dropped seat with the same name anywhere is
// reclaimed first; otherwise the connection claims a free seat in the
// resolved room.
func (s *Store) Join(connID string, req protocol.JoinRequest) (JoinResult, error) {
	name := NormalizeName(req.Name)
	if name == "" {
		s.sendError(connID, ErrNameRequired)
		return JoinResult{}, ErrNameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, seated := s.conns[connID]; seated {
		s.sendError(connID, ErrAlreadySeated)
		return JoinResult{}, ErrAlreadySeated
	}

	for _, rr := range s.rooms.List() {
		if res, ok := rr.State.reconnect(connID, name, req.Avatar); ok {
			s.conns[connID] = rr.ID
			return res, nil
		}
	}

	room := s.findOrCreate(name, req.RoomID, req.TargetScore)
	res, err := room.join(connID, name, req.Avatar)
	if err != nil {
		s.sendError(connID, err)
		return res, fmt.Errorf("join %s: %w", room.ID, err)
	}
	s.conns[connID] = room.ID
	return res, nil
}

func (r *Room) reconnect(connID, name string, avatar *protocol.Avatar) (JoinResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seat, ok := r.disconnectedSeatFor(name)
	if !ok {
		return JoinResult{}, false
	}
	slot := r.slot(seat)
	slot.bind(connID)
	if avatar != nil && avatar.Type != "" {
		slot.Avatar = *avatar
	}
	if slot.Avatar.Type == "" {
		slot.Avatar = seat.DefaultAvatar()
	}

	n := r.connectedCount()
	r.log.Info().Str("name", name).Int("seat", int(seat)).Int("connected", n).Msg("player reconnected")
	r.sendConn(connID, protocol.TypeAssigned, protocol.Assigned{
		RoomID:   r.ID,
		Seat:     int(seat),
		Name:     name,
		RoomFull: n >= NumSeats,
	})
	if RoundActive(r.state.Phase) {
		r.sendHand(seat)
	}
	r.broadcastConnectedCount()
	r.broadcastState()
	r.broadcast(protocol.TypeReconnected, protocol.Reconnected{Seat: int(seat), Name: name})
	r.scheduleStart(r.startDelay)
	return JoinResult{RoomID: r.ID, Seat: seat, Name: name, Reconnected: true}, true
}

func (r *Room) join(connID, name string, avatar *protocol.Avatar) (JoinResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hasConnectedName(name) {
		return JoinResult{}, ErrNameTaken
	}
	var slot *Slot
	for i := range r.slots {
		if !r.slots[i].Connected {
			slot = &r.slots[i]
			break
		}
	}
	if slot == nil {
		return JoinResult{}, ErrRoomFull
	}

	seat := slot.Seat
	slot.bind(connID)
	slot.Name = name
	slot.Avatar = seat.DefaultAvatar()
	if avatar != nil && avatar.Type != "" {
		slot.Avatar = *avatar
	}

	n := r.connectedCount()
	r.log.Info().Str("name", name).Int("seat", int(seat)).Int("connected", n).Msg("player joined")
	r.sendConn(connID, protocol.TypeAssigned, protocol.Assigned{
		RoomID:   r.ID,
		Seat:     int(seat),
		Name:     name,
		RoomFull: n >= NumSeats,
	})
	r.broadcastConnectedCount()
	r.notify.PlayerJoined(r.ID, seat, name)

	res := JoinResult{RoomID: r.ID, Seat: seat, Name: name}
	if _, waiting := r.state.Phase.(NotStarted); waiting && n == NumSeats && !r.startPending {
		r.broadcastState()
		r.scheduleStart(r.startDelay)
		return res, nil
	}
	if RoundActive(r.state.Phase) {
		if r.state.HandCount(seat) == 0 {
			deck := domino.NewSet()
			domino.Shuffle(r.rng, deck)
			r.state.setHand(seat, slices.Clone(deck[:HandSize]))
		}
		r.sendHand(seat)
	}
	r.broadcastState()
	return res, nil
}

// Disconnect marks the connection's seat as dropped. The seat keeps its name
// and hand for a later reconnect. Empty rooms are destroyed.
func (s *Store) Disconnect(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.release(connID, false)
}

// Leave is an explicit disconnect from roomID, acknowledged to the leaver.
func (s *Store) Leave(connID, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if bound, ok := s.conns[connID]; !ok || bound != roomID {
		s.send(connID, protocol.TypeLeaveAck, protocol.LeaveAck{Success: false, Message: ErrNotSeated.Error()})
		return ErrNotSeated
	}
	s.send(connID, protocol.TypeLeaveAck, protocol.LeaveAck{Success: true})
	s.release(connID, true)
	return nil
}

func (s *Store) release(connID string, left bool) {
	roomID, ok := s.conns[connID]
	if !ok {
		return
	}
	delete(s.conns, connID)
	rr, ok := s.rooms.Get(roomID)
	if !ok {
		return
	}
	if remaining := rr.State.drop(connID, left); remaining == 0 {
		s.rooms.Delete(roomID)
		s.log.Info().Str("room", roomID).Msg("room destroyed")
	}
}

func (r *Room) drop(connID string, left bool) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	seat, ok := r.seatOf(connID)
	if !ok {
		return r.connectedCount()
	}
	r.slot(seat).unbind()
	delete(r.state.Ready, seat)

	n := r.connectedCount()
	r.log.Info().Int("seat", int(seat)).Bool("left", left).Int("connected", n).Msg("player disconnected")
	if left {
		r.broadcast(protocol.TypePlayerLeft, protocol.PlayerLeft{Seat: int(seat), Name: r.name(seat)})
	}
	r.broadcastConnectedCount()
	r.broadcastState()
	return n
}

// PlaceTile places a tile for the connection's seat.
func (s *Store) PlaceTile(connID string, tile domino.Tile, side domino.Side) error {
	return s.play(connID, protocol.TypeMoveRejected, func(r *Room, seat Seat) error {
		return r.placeTile(seat, tile, side)
	})
}

// PassTurn passes for the connection's seat.
func (s *Store) PassTurn(connID string) error {
	return s.play(connID, protocol.TypeMoveRejected, func(r *Room, seat Seat) error {
		return r.passTurn(seat)
	})
}

// Ready signals the connection's seat is ready for the next round.
func (s *Store) Ready(connID string) error {
	return s.play(connID, protocol.TypeError, func(r *Room, seat Seat) error {
		return r.playerReady(seat)
	})
}

// Restart starts the connection's room over with a fresh match.
func (s *Store) Restart(connID string) error {
	return s.play(connID, protocol.TypeError, func(r *Room, _ Seat) error {
		r.restart()
		return nil
	})
}

// play runs op under the room lock and reports a rejection to the caller only.
func (s *Store) play(connID, rejectAs string, op func(*Room, Seat) error) error {
	room, ok := s.FindRoomByConnection(connID)
	if !ok {
		s.sendError(connID, ErrNotSeated)
		return ErrNotSeated
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	seat, ok := room.seatOf(connID)
	if !ok {
		s.sendError(connID, ErrNotSeated)
		return ErrNotSeated
	}
	if err := op(room, seat); err != nil {
		if rejectAs == protocol.TypeMoveRejected {
			room.reject(seat, err)
		} else {
			room.unicast(seat, protocol.TypeError, protocol.Error{Message: err.Error()})
		}
		return err
	}
	return nil
}

func (s *Store) send(connID, kind string, payload any) {
	msg, err := protocol.Encode(kind, payload)
	if err != nil {
		s.log.Error().Err(err).Str("type", kind).Msg("encode outbound message")
		return
	}
	s.out.Send(connID, msg)
}

func (s *Store) sendError(connID string, err error) {
	s.send(connID, protocol.TypeError, protocol.Error{Message: err.Error()})
}
