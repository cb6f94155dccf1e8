package handler

import (
	"net/http"

	"github.com/mcoot/duckrace/internal/api/apierr"
	"github.com/mcoot/duckrace/internal/api/response"
	"github.com/mcoot/duckrace/internal/services/room"
)

// ConnectionCounter reports how many websocket clients are connected
type ConnectionCounter interface {
	ClientCount() int
}

// StatsHandler serves the read-only server views
type StatsHandler struct {
	store *room.Store
	conns ConnectionCounter
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(store *room.Store, conns ConnectionCounter) *StatsHandler {
	return &StatsHandler{store: store, conns: conns}
}

// Stats handles GET /api/stats
func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Snapshot(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.StatsFromModel(stats))
}

// Health handles GET /api/health
func (h *StatsHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{
		Status:      "ok",
		Connections: h.conns.ClientCount(),
	})
}
