package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"dominom/internal/game"
	"dominom/internal/viewmodel"
	"dominom/views/pages"
)

type HomeHandler struct {
	store       *game.Store
	baseURL     string
	targetScore int
}

func NewHomeHandler(store *game.Store, baseURL string, targetScore int) *HomeHandler {
	return &HomeHandler{store: store, baseURL: baseURL, targetScore: targetScore}
}

func (h *HomeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.home)
	r.Get("/active-rooms", h.activeRooms)
	r.Get("/healthz", h.healthz)
}

func (h *HomeHandler) home(w http.ResponseWriter, r *http.Request) {
	rooms := h.store.Rooms()
	data := viewmodel.HomePage{
		Title:       "Dominó",
		SocketURL:   buildSocketURL(r, h.baseURL),
		TargetScore: h.targetScore,
		Rooms:       make([]viewmodel.RoomEntry, 0, len(rooms)),
	}
	for _, room := range rooms {
		data.Rooms = append(data.Rooms, viewmodel.RoomEntry{
			ID:        room.ID,
			Connected: room.ConnectedCount,
			Seats:     game.NumSeats,
			Phase:     room.Phase,
			Full:      room.ConnectedCount >= game.NumSeats,
		})
	}
	render(w, r, pages.HomePage(data))
}

type activeRoom struct {
	RoomID         string `json:"roomId"`
	ConnectedCount int    `json:"connectedCount"`
}

func (h *HomeHandler) activeRooms(w http.ResponseWriter, _ *http.Request) {
	rooms := h.store.Rooms()
	out := make([]activeRoom, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, activeRoom{RoomID: room.ID, ConnectedCount: room.ConnectedCount})
	}
	writeJSON(w, http.StatusOK, map[string]any{"rooms": out})
}

func (h *HomeHandler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"rooms":  len(h.store.Rooms()),
	})
}

func buildSocketURL(r *http.Request, baseURL string) string {
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		base := strings.TrimRight(baseURL, "/")
		base = strings.Replace(base, "https://", "wss://", 1)
		base = strings.Replace(base, "http://", "ws://", 1)
		return base + "/ws"
	}
	scheme := "ws"
	if r.TLS != nil {
		scheme = "wss"
	}
	return scheme + "://" + r.Host + "/ws"
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
