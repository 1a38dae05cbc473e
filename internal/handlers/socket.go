package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"dominom/internal/domino"
	"dominom/internal/game"
	"dominom/internal/protocol"
	"dominom/pkg/realtime"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 64 << 10
)

// SocketHandler serves the game protocol over websockets.
type SocketHandler struct {
	store    *game.Store
	hub      *realtime.Broadcaster
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

func NewSocketHandler(store *game.Store, hub *realtime.Broadcaster, log zerolog.Logger) *SocketHandler {
	return &SocketHandler{
		store: store,
		hub:   hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		log: log,
	}
}

func (h *SocketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/ws", h.serve)
}

func (h *SocketHandler) serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	connID := uuid.NewString()
	log := h.log.With().Str("conn", connID).Logger()
	log.Info().Str("remote", r.RemoteAddr).Msg("client connected")

	queue := h.hub.Subscribe(connID)
	go writePump(conn, queue)

	h.readPump(conn, connID, log)

	h.store.Disconnect(connID)
	h.hub.Unsubscribe(connID)
	log.Info().Msg("client disconnected")
}

func (h *SocketHandler) readPump(conn *websocket.Conn, connID string, log zerolog.Logger) {
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Msg("websocket read")
			}
			return
		}
		h.handle(connID, frame, log)
	}
}

// writePump owns all writes to conn. It exits when queue is closed or a
// write fails.
func writePump(conn *websocket.Conn, queue <-chan []byte) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()
	for {
		select {
		case msg, ok := <-queue:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handle dispatches one inbound frame. A panic is contained to the frame.
func (h *SocketHandler) handle(connID string, frame []byte, log zerolog.Logger) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Bytes("frame", frame).Msg("message handler panicked")
			h.sendError(connID, "internal error")
		}
	}()

	env, err := protocol.Decode(frame)
	if err != nil {
		h.sendError(connID, err.Error())
		return
	}
	log = log.With().Str("type", env.Type).Logger()

	switch env.Type {
	case protocol.TypeJoin:
		req, err := protocol.Payload[protocol.JoinRequest](env)
		if err != nil {
			h.sendError(connID, err.Error())
			return
		}
		res, err := h.store.Join(connID, req)
		if err != nil {
			logResult(log, err)
			return
		}
		log.Info().Str("room", res.RoomID).Int("seat", int(res.Seat)).Str("name", res.Name).
			Bool("reconnected", res.Reconnected).Msg("player seated")
	case protocol.TypePlaceTile:
		req, err := protocol.Payload[protocol.PlaceTileRequest](env)
		if err != nil {
			h.send(connID, protocol.TypeMoveRejected, protocol.MoveRejected{Reason: err.Error()})
			return
		}
		logResult(log, h.store.PlaceTile(connID, req.Tile.Tile(), domino.Side(req.Position)))
	case protocol.TypePassTurn:
		logResult(log, h.store.PassTurn(connID))
	case protocol.TypeReady:
		logResult(log, h.store.Ready(connID))
	case protocol.TypeRestart:
		logResult(log, h.store.Restart(connID))
	case protocol.TypeLeave:
		req, err := protocol.Payload[protocol.LeaveRequest](env)
		if err != nil {
			h.send(connID, protocol.TypeLeaveAck, protocol.LeaveAck{Success: false, Message: err.Error()})
			return
		}
		logResult(log, h.store.Leave(connID, req.RoomID))
	default:
		h.sendError(connID, "unknown message type: "+env.Type)
	}
}

// logResult logs a failed request. Rejections were already reported to the
// client by the store.
func logResult(log zerolog.Logger, err error) {
	switch {
	case err == nil:
	case game.IsValidation(err):
		log.Debug().Err(err).Msg("request rejected")
	case errors.Is(err, game.ErrRoomFull):
		log.Info().Err(err).Msg("room full")
	default:
		log.Warn().Err(err).Msg("request failed")
	}
}

func (h *SocketHandler) send(connID, kind string, payload any) {
	msg, err := protocol.Encode(kind, payload)
	if err != nil {
		h.log.Error().Err(err).Str("type", kind).Msg("encode outbound message")
		return
	}
	h.hub.Send(connID, msg)
}

func (h *SocketHandler) sendError(connID, message string) {
	h.send(connID, protocol.TypeError, protocol.Error{Message: message})
}
