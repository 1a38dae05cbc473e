package realtime

import (
	"context"
	"sync"
	"time"
)

// Room holds state for one room.
type Room[T any] struct {
	ID        string
	State     T
	CreatedAt time.Time
}

// RoomStore manages rooms in creation order and the timers scheduled on them.
type RoomStore[T any] struct {
	mu    sync.RWMutex
	rooms map[string]*Room[T]
	order []string
	loops map[string]context.Context
	stops map[string]context.CancelFunc
}

// NewRoomStore creates an empty room store.
func NewRoomStore[T any]() *RoomStore[T] {
	return &RoomStore[T]{
		rooms: make(map[string]*Room[T]),
		loops: make(map[string]context.Context),
		stops: make(map[string]context.CancelFunc),
	}
}

// Create adds a room with the given id and state. An existing room with the
// same id is returned unchanged and created is false.
func (s *RoomStore[T]) Create(id string, state T) (room *Room[T], created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rooms[id]; ok {
		return r, false
	}
	r := &Room[T]{ID: id, State: state, CreatedAt: time.Now().UTC()}
	ctx, cancel := context.WithCancel(context.Background())
	s.rooms[id] = r
	s.order = append(s.order, id)
	s.loops[id] = ctx
	s.stops[id] = cancel
	return r, true
}

// Get returns the room by ID if it exists.
func (s *RoomStore[T]) Get(id string) (*Room[T], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	return r, ok
}

// Delete removes the room and cancels its pending timers.
func (s *RoomStore[T]) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[id]; !ok {
		return false
	}
	delete(s.rooms, id)
	if cancel, ok := s.stops[id]; ok {
		cancel()
	}
	delete(s.stops, id)
	delete(s.loops, id)
	for i, rid := range s.order {
		if rid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// List returns the rooms in creation order.
func (s *RoomStore[T]) List() []*Room[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Room[T], 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.rooms[id])
	}
	return out
}

// Len returns the number of rooms.
func (s *RoomStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

// After runs fn once d has elapsed, unless the room is deleted first.
// It returns false when the room does not exist.
func (s *RoomStore[T]) After(id string, d time.Duration, fn func()) bool {
	s.mu.RLock()
	ctx, ok := s.loops[id]
	s.mu.RUnlock()
	if !ok {
		return false
	}

	go func() {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
		case <-timer.C:
			if ctx.Err() == nil {
				fn()
			}
		}
	}()
	return true
}
