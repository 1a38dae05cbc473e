package game

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"dominom/internal/domino"
	"dominom/internal/protocol"
)

// recorder is a Sender that keeps every frame per connection.
type recorder struct {
	mu   sync.Mutex
	msgs map[string][]protocol.Envelope
}

func newRecorder() *recorder {
	return &recorder{msgs: make(map[string][]protocol.Envelope)}
}

func (r *recorder) Send(connID string, msg []byte) bool {
	env, err := protocol.Decode(msg)
	if err != nil {
		panic(err)
	}
	r.mu.Lock()
	r.msgs[connID] = append(r.msgs[connID], env)
	r.mu.Unlock()
	return true
}

func (r *recorder) Publish(connIDs []string, msg []byte) int {
	for _, id := range connIDs {
		r.Send(id, msg)
	}
	return len(connIDs)
}

func (r *recorder) count(connID, kind string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, env := range r.msgs[connID] {
		if env.Type == kind {
			n++
		}
	}
	return n
}

// last decodes the most recent frame of the given type into v.
func (r *recorder) last(t *testing.T, connID, kind string, v any) {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := r.msgs[connID]
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Type == kind {
			require.NoError(t, json.Unmarshal(msgs[i].Data, v))
			return
		}
	}
	t.Fatalf("no %q message for %s", kind, connID)
}

func (r *recorder) reset() {
	r.mu.Lock()
	clear(r.msgs)
	r.mu.Unlock()
}

func seededRand() *rand.Rand {
	return rand.New(rand.NewPCG(42, 1042))
}

func newTestStore(t *testing.T, cfg Config) (*Store, *recorder) {
	t.Helper()
	if cfg.Rand == nil {
		cfg.Rand = seededRand
	}
	rec := newRecorder()
	return NewStore(rec, cfg, zerolog.Nop()), rec
}

var testNames = []string{"ANA", "BEN", "CARLA", "DIEGO"}

// seatFour joins connections c1..c4 into one room, which starts inline.
func seatFour(t *testing.T, s *Store) *Room {
	t.Helper()
	for i, name := range testNames {
		res, err := s.Join(fmt.Sprintf("c%d", i+1), protocol.JoinRequest{Name: name})
		require.NoError(t, err)
		require.Equal(t, Seats[i], res.Seat)
	}
	room, ok := s.FindRoomByConnection("c1")
	require.True(t, ok)
	return room
}

func connOf(seat Seat) string {
	return fmt.Sprintf("c%d", int(seat))
}

func withState(room *Room, fn func(st *State)) {
	room.mu.Lock()
	defer room.mu.Unlock()
	fn(room.state)
}

// inPlay puts the room mid-round with the given ends and hands.
func inPlay(room *Room, turn Seat, left, right int, hands map[Seat][]domino.Tile) {
	withState(room, func(st *State) {
		st.Phase = InPlay{}
		st.Board = []domino.Tile{{Left: left, Right: right}}
		st.LeftEnd, st.RightEnd = left, right
		st.CurrentTurn = turn
		st.clearHands()
		for seat, hand := range hands {
			st.setHand(seat, hand)
		}
	})
}

func tileCount(room *Room) int {
	room.mu.Lock()
	defer room.mu.Unlock()
	n := len(room.state.Board)
	for _, seat := range Seats {
		n += room.state.HandCount(seat)
	}
	return n
}
