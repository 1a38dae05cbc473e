package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"dominom/internal/analytics"
)

const maxReportDays = 30

type AnalyticsHandler struct {
	tracker *analytics.Tracker
}

func NewAnalyticsHandler(tracker *analytics.Tracker) *AnalyticsHandler {
	return &AnalyticsHandler{tracker: tracker}
}

func (h *AnalyticsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/analytics", h.summary)
}

func (h *AnalyticsHandler) summary(w http.ResponseWriter, r *http.Request) {
	days := parseInt(r.URL.Query().Get("days"), 7)
	if days < 1 {
		days = 1
	}
	if days > maxReportDays {
		days = maxReportDays
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    h.tracker.Summary(days),
	})
}

func parseInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
