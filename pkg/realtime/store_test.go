package realtime

import (
	"testing"
	"time"
)

func TestNewRoomStore(t *testing.T) {
	s := NewRoomStore[string]()
	if s == nil {
		t.Fatal("NewRoomStore returned nil")
	}
}

func TestRoomStore_Create_Get(t *testing.T) {
	s := NewRoomStore[string]()
	_, created := s.Create("room1", "state1")
	if !created {
		t.Fatal("Create reported existing room")
	}
	room, ok := s.Get("room1")
	if !ok {
		t.Fatal("Get returned false for existing room")
	}
	if room.ID != "room1" {
		t.Errorf("room ID %q, want room1", room.ID)
	}
	if room.State != "state1" {
		t.Errorf("room State %q, want state1", room.State)
	}

	_, ok = s.Get("nonexistent")
	if ok {
		t.Error("Get should return false for missing ID")
	}
}

func TestRoomStore_CreateExistingKeepsState(t *testing.T) {
	s := NewRoomStore[string]()
	s.Create("r1", "first")
	room, created := s.Create("r1", "second")
	if created {
		t.Error("Create should not replace an existing room")
	}
	if room.State != "first" {
		t.Errorf("State %q, want first", room.State)
	}
}

func TestRoomStore_ListCreationOrder(t *testing.T) {
	s := NewRoomStore[int]()
	s.Create("b", 1)
	s.Create("a", 2)
	s.Create("c", 3)
	s.Delete("a")

	rooms := s.List()
	if len(rooms) != 2 {
		t.Fatalf("len(List) %d, want 2", len(rooms))
	}
	if rooms[0].ID != "b" || rooms[1].ID != "c" {
		t.Errorf("order %q,%q, want b,c", rooms[0].ID, rooms[1].ID)
	}
	if s.Len() != 2 {
		t.Errorf("Len %d, want 2", s.Len())
	}
}

func TestRoomStore_Delete(t *testing.T) {
	s := NewRoomStore[string]()
	s.Create("r1", "x")
	if !s.Delete("r1") {
		t.Error("Delete returned false for existing room")
	}
	if s.Delete("r1") {
		t.Error("Delete returned true for removed room")
	}
	if _, ok := s.Get("r1"); ok {
		t.Error("room still present after Delete")
	}
}

func TestRoomStore_AfterFires(t *testing.T) {
	s := NewRoomStore[string]()
	s.Create("r1", "x")
	done := make(chan struct{})
	if !s.After("r1", 10*time.Millisecond, func() { close(done) }) {
		t.Fatal("After returned false for existing room")
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
}

func TestRoomStore_AfterCancelledByDelete(t *testing.T) {
	s := NewRoomStore[string]()
	s.Create("r1", "x")
	fired := make(chan struct{}, 1)
	s.After("r1", 50*time.Millisecond, func() { fired <- struct{}{} })
	s.Delete("r1")

	select {
	case <-fired:
		t.Error("timer fired after room was deleted")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestRoomStore_AfterMissingRoom(t *testing.T) {
	s := NewRoomStore[string]()
	if s.After("nonexistent", time.Millisecond, func() {}) {
		t.Error("After should return false for missing room")
	}
}
