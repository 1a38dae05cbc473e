package game

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dominom/internal/domino"
	"dominom/internal/protocol"
)

func TestNewStore(t *testing.T) {
	s, _ := newTestStore(t, Config{})
	require.NotNil(t, s)
	assert.Equal(t, DefaultTargetScore, s.cfg.TargetScore)
	assert.Empty(t, s.Rooms())
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  ana  ", "ANA"},
		{"maria jose de la cruz", "MARIA JOSE D"},
		{"josé", "JOSÉ"},
		{"   ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeName(tt.in), "NormalizeName(%q)", tt.in)
	}
}

func TestStore_Join_SeatsAndStarts(t *testing.T) {
	assert := assert.New(t)
	s, rec := newTestStore(t, Config{})
	room := seatFour(t, s)

	assert.Equal("Sala-1", room.ID)
	assert.Equal(NumSeats, room.ConnectedCount())
	assert.Equal(AwaitingFirstTile{MustBeDoubleSix: true}, room.Phase())
	assert.Equal(domino.SetSize, tileCount(room))

	var assigned protocol.Assigned
	rec.last(t, "c4", protocol.TypeAssigned, &assigned)
	assert.Equal(4, assigned.Seat)
	assert.True(assigned.RoomFull)

	for _, seat := range Seats {
		assert.Len(room.Hand(seat), HandSize)
		assert.Equal(1, rec.count(connOf(seat), protocol.TypeHand))
	}

	withState(room, func(st *State) {
		holder, ok := st.holderOf(domino.DoubleSix, Seats[:])
		assert.True(ok)
		assert.Equal(holder, st.CurrentTurn, "double-six holder opens the match")
	})
}

func TestStore_Join_FifthPlayerGetsNewRoom(t *testing.T) {
	s, _ := newTestStore(t, Config{})
	seatFour(t, s)

	res, err := s.Join("c5", protocol.JoinRequest{Name: "EVA"})
	require.NoError(t, err)
	assert.Equal(t, "Sala-2", res.RoomID)
	assert.Equal(t, Seat1, res.Seat)
	assert.Len(t, s.Rooms(), 2)
}

func TestStore_Join_NameRequired(t *testing.T) {
	s, rec := newTestStore(t, Config{})
	_, err := s.Join("c1", protocol.JoinRequest{Name: "   "})
	assert.ErrorIs(t, err, ErrNameRequired)
	assert.True(t, IsValidation(err))
	assert.Equal(t, 1, rec.count("c1", protocol.TypeError))
}

func TestStore_Join_NameTaken(t *testing.T) {
	s, rec := newTestStore(t, Config{})
	_, err := s.Join("c1", protocol.JoinRequest{Name: "ana"})
	require.NoError(t, err)

	_, err = s.Join("c2", protocol.JoinRequest{Name: "Ana "})
	assert.ErrorIs(t, err, ErrNameTaken)
	assert.Equal(t, 1, rec.count("c2", protocol.TypeError))

	room, _ := s.Room("Sala-1")
	assert.Equal(t, 1, room.ConnectedCount())
}

func TestStore_Join_RequestedRoomFull(t *testing.T) {
	s, _ := newTestStore(t, Config{})
	for i, name := range testNames {
		_, err := s.Join(connOf(Seats[i]), protocol.JoinRequest{Name: name, RoomID: "mesa"})
		require.NoError(t, err)
	}
	_, err := s.Join("c5", protocol.JoinRequest{Name: "EVA", RoomID: "mesa"})
	assert.ErrorIs(t, err, ErrRoomFull)
	assert.False(t, IsValidation(err))
}

func TestStore_Join_AlreadySeated(t *testing.T) {
	s, _ := newTestStore(t, Config{})
	_, err := s.Join("c1", protocol.JoinRequest{Name: "ANA"})
	require.NoError(t, err)
	_, err = s.Join("c1", protocol.JoinRequest{Name: "OTRO"})
	assert.ErrorIs(t, err, ErrAlreadySeated)
}

func TestStore_Join_RequestedRoomUsesTargetScore(t *testing.T) {
	s, _ := newTestStore(t, Config{})
	res, err := s.Join("c1", protocol.JoinRequest{Name: "ANA", RoomID: "mesa", TargetScore: 100})
	require.NoError(t, err)

	room, ok := s.Room(res.RoomID)
	require.True(t, ok)
	assert.Equal(t, 100, room.TargetScore)

	_, err = s.Join("c2", protocol.JoinRequest{Name: "BEN", RoomID: "mesa", TargetScore: 150})
	require.NoError(t, err)
	assert.Equal(t, 100, room.TargetScore, "target score is fixed at creation")
}

func TestStore_Join_DefaultAvatar(t *testing.T) {
	s, _ := newTestStore(t, Config{})
	_, err := s.Join("c1", protocol.JoinRequest{Name: "ANA"})
	require.NoError(t, err)
	_, err = s.Join("c2", protocol.JoinRequest{Name: "BEN", Avatar: &protocol.Avatar{Type: "emoji", Data: "🐯"}})
	require.NoError(t, err)

	room, _ := s.Room("Sala-1")
	slots := room.Slots()
	assert.Equal(t, Seat1.DefaultAvatar(), slots[0].Avatar)
	assert.Equal(t, protocol.Avatar{Type: "emoji", Data: "🐯"}, slots[1].Avatar)
}

func TestStore_Reconnect_RestoresSeatAndHand(t *testing.T) {
	assert := assert.New(t)
	s, rec := newTestStore(t, Config{})
	room := seatFour(t, s)
	before := room.Hand(Seat2)

	s.Disconnect("c2")
	assert.Equal(3, room.ConnectedCount())
	assert.Equal(before, room.Hand(Seat2), "hand survives a disconnect")

	res, err := s.Join("c9", protocol.JoinRequest{Name: "ben"})
	require.NoError(t, err)
	assert.True(res.Reconnected)
	assert.Equal(Seat2, res.Seat)
	assert.Equal(room.ID, res.RoomID)

	var hand protocol.Hand
	rec.last(t, "c9", protocol.TypeHand, &hand)
	assert.Equal(before, hand.Tiles)
	assert.Equal(1, rec.count("c1", protocol.TypeReconnected))

	got, ok := s.FindRoomByConnection("c9")
	assert.True(ok)
	assert.Same(room, got)
}

func TestStore_Disconnect_DestroysEmptyRoom(t *testing.T) {
	s, _ := newTestStore(t, Config{})
	seatFour(t, s)
	for _, seat := range Seats {
		s.Disconnect(connOf(seat))
	}
	_, ok := s.Room("Sala-1")
	assert.False(t, ok)
	assert.Empty(t, s.Rooms())

	s.Disconnect("c1")
}

func TestStore_Disconnect_RemovesReadySignal(t *testing.T) {
	s, _ := newTestStore(t, Config{})
	room := seatFour(t, s)
	withState(room, func(st *State) {
		st.Phase = RoundOver{Reason: ReasonDomino}
	})
	require.NoError(t, s.Ready("c3"))
	s.Disconnect("c3")

	withState(room, func(st *State) {
		assert.False(t, st.Ready[Seat3])
	})
}

func TestStore_Leave(t *testing.T) {
	assert := assert.New(t)
	s, rec := newTestStore(t, Config{})
	room := seatFour(t, s)

	err := s.Leave("c1", "otra-sala")
	assert.ErrorIs(err, ErrNotSeated)
	var ack protocol.LeaveAck
	rec.last(t, "c1", protocol.TypeLeaveAck, &ack)
	assert.False(ack.Success)

	require.NoError(t, s.Leave("c1", room.ID))
	rec.last(t, "c1", protocol.TypeLeaveAck, &ack)
	assert.True(ack.Success)

	var left protocol.PlayerLeft
	rec.last(t, "c2", protocol.TypePlayerLeft, &left)
	assert.Equal(1, left.Seat)
	assert.Equal("ANA", left.Name)
	assert.Equal(0, rec.count("c1", protocol.TypePlayerLeft))
	assert.Equal(3, room.ConnectedCount())

	_, ok := s.FindRoomByConnection("c1")
	assert.False(ok)
}

func TestStore_MidRoundJoinDealsFreshHand(t *testing.T) {
	s, rec := newTestStore(t, Config{})
	room := seatFour(t, s)
	s.Disconnect("c4")
	withState(room, func(st *State) {
		st.setHand(Seat4, nil)
	})

	res, err := s.Join("c5", protocol.JoinRequest{Name: "EVA"})
	require.NoError(t, err)
	assert.Equal(t, Seat4, res.Seat)
	assert.Len(t, room.Hand(Seat4), HandSize)

	var hand protocol.Hand
	rec.last(t, "c5", protocol.TypeHand, &hand)
	assert.Len(t, hand.Tiles, HandSize)
}

func TestStore_MidRoundJoinKeepsExistingHand(t *testing.T) {
	s, _ := newTestStore(t, Config{})
	room := seatFour(t, s)
	before := room.Hand(Seat3)
	s.Disconnect("c3")

	res, err := s.Join("c5", protocol.JoinRequest{Name: "EVA"})
	require.NoError(t, err)
	assert.Equal(t, Seat3, res.Seat)
	assert.Equal(t, before, room.Hand(Seat3))
	assert.Equal(t, "EVA", room.Slots()[2].Name)
}

func TestStore_FindOrCreateRoom(t *testing.T) {
	s, _ := newTestStore(t, Config{})
	_, err := s.Join("c1", protocol.JoinRequest{Name: "ANA", RoomID: "uno"})
	require.NoError(t, err)
	_, err = s.Join("c2", protocol.JoinRequest{Name: "BEN", RoomID: "dos"})
	require.NoError(t, err)
	_, err = s.Join("c3", protocol.JoinRequest{Name: "CARLA", RoomID: "dos"})
	require.NoError(t, err)
	s.Disconnect("c2")

	assert.Equal(t, "dos", s.FindOrCreateRoom("ben", "", 0).ID, "room holding the dropped seat wins")
	assert.Equal(t, "uno", s.FindOrCreateRoom("nadie", "", 0).ID, "first room with a free seat")
	assert.Equal(t, "tres", s.FindOrCreateRoom("nadie", "tres", 0).ID)
	assert.Len(t, s.Rooms(), 3)
}

func TestStore_Rooms(t *testing.T) {
	s, _ := newTestStore(t, Config{})
	seatFour(t, s)
	_, err := s.Join("c5", protocol.JoinRequest{Name: "EVA"})
	require.NoError(t, err)

	rooms := s.Rooms()
	require.Len(t, rooms, 2)
	assert.Equal(t, "Sala-1", rooms[0].ID)
	assert.Equal(t, 4, rooms[0].ConnectedCount)
	assert.Equal(t, "awaitingFirstTile", rooms[0].Phase)
	assert.Equal(t, "Sala-2", rooms[1].ID)
	assert.Equal(t, 1, rooms[1].ConnectedCount)
}

func TestStore_StartDelay(t *testing.T) {
	s, _ := newTestStore(t, Config{StartDelay: 20 * time.Millisecond})
	room := seatFour(t, s)
	assert.Equal(t, NotStarted{}, room.Phase())

	assert.Eventually(t, func() bool {
		return RoundActive(room.Phase())
	}, time.Second, 5*time.Millisecond)
}

func TestStore_StartCancelledWhenPlayerDrops(t *testing.T) {
	s, _ := newTestStore(t, Config{StartDelay: 30 * time.Millisecond})
	room := seatFour(t, s)
	s.Disconnect("c4")

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, NotStarted{}, room.Phase())
}

func TestStore_Restart(t *testing.T) {
	assert := assert.New(t)
	s, rec := newTestStore(t, Config{})
	room := seatFour(t, s)
	withState(room, func(st *State) {
		st.TeamScores = [2]int{30, 12}
		st.PlayerStats[Seat1] = 3
	})

	require.NoError(t, s.Restart("c2"))
	assert.Equal(1, rec.count("c3", protocol.TypeRoomRestarted))
	assert.Equal(AwaitingFirstTile{MustBeDoubleSix: true}, room.Phase())
	withState(room, func(st *State) {
		assert.Equal([2]int{0, 0}, st.TeamScores)
		assert.Zero(st.PlayerStats[Seat1])
		assert.Equal(1, st.MatchNumber)
	})
	assert.Equal(domino.SetSize, tileCount(room))
}

func TestStore_RestartClearsDroppedPlayers(t *testing.T) {
	s, _ := newTestStore(t, Config{})
	room := seatFour(t, s)
	s.Disconnect("c4")

	require.NoError(t, s.Restart("c1"))
	slots := room.Slots()
	assert.Equal(t, "", slots[3].Name)
	assert.Equal(t, "ANA", slots[0].Name)
	assert.Equal(t, NotStarted{}, room.Phase())

	res, err := s.Join("c9", protocol.JoinRequest{Name: "DIEGO"})
	require.NoError(t, err)
	assert.False(t, res.Reconnected)
	assert.Equal(t, Seat4, res.Seat)
}

func TestStore_NotSeated(t *testing.T) {
	s, rec := newTestStore(t, Config{})
	err := s.PassTurn("ghost")
	assert.True(t, errors.Is(err, ErrNotSeated))
	assert.Equal(t, 1, rec.count("ghost", protocol.TypeError))
}
