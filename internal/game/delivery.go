package game

import (
	"dominom/internal/protocol"
)

// Sender delivers encoded frames to connections without blocking.
type Sender interface {
	Send(connID string, msg []byte) bool
	Publish(connIDs []string, msg []byte) int
}

func (r *Room) encode(kind string, payload any) []byte {
	msg, err := protocol.Encode(kind, payload)
	if err != nil {
		r.log.Error().Err(err).Str("type", kind).Msg("encode outbound message")
		return nil
	}
	return msg
}

// connIDs returns the connections of every connected seat.
func (r *Room) connIDs() []string {
	ids := make([]string, 0, NumSeats)
	for _, slot := range r.slots {
		if slot.Connected {
			ids = append(ids, slot.ConnID)
		}
	}
	return ids
}

func (r *Room) broadcast(kind string, payload any) {
	msg := r.encode(kind, payload)
	if msg == nil {
		return
	}
	ids := r.connIDs()
	if n := r.out.Publish(ids, msg); n < len(ids) {
		r.log.Debug().Str("type", kind).Int("dropped", len(ids)-n).Msg("broadcast partially delivered")
	}
}

func (r *Room) sendConn(connID, kind string, payload any) {
	msg := r.encode(kind, payload)
	if msg == nil {
		return
	}
	if !r.out.Send(connID, msg) {
		r.log.Debug().Str("type", kind).Str("conn", connID).Msg("unicast dropped")
	}
}

func (r *Room) unicast(seat Seat, kind string, payload any) {
	slot := r.slot(seat)
	if slot == nil || !slot.Connected {
		return
	}
	r.sendConn(slot.ConnID, kind, payload)
}

func (r *Room) broadcastState() {
	r.broadcast(protocol.TypeState, r.snapshot())
}

func (r *Room) broadcastConnectedCount() {
	n := r.connectedCount()
	r.broadcast(protocol.TypeConnectedCount, protocol.ConnectedCount{Count: n, RoomFull: n >= NumSeats})
}

func (r *Room) sendHand(seat Seat) {
	r.unicast(seat, protocol.TypeHand, protocol.Hand{Tiles: r.state.Hand(seat)})
}

func (r *Room) reject(seat Seat, err error) {
	r.unicast(seat, protocol.TypeMoveRejected, protocol.MoveRejected{Reason: err.Error()})
}
