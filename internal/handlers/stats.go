package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/besuhoff/collision-demo-go/internal/config"
	"github.com/besuhoff/collision-demo-go/internal/db"
	"github.com/besuhoff/collision-demo-go/internal/server"
)

const (
	defaultTopLimit = 10
	maxTopLimit     = 100
)

// StatsHandler serves collision statistics
type StatsHandler struct {
	server *server.GameServer
}

func NewStatsHandler(gs *server.GameServer) *StatsHandler {
	return &StatsHandler{server: gs}
}

// HandleGetTopSessions returns sessions ranked by resolved collisions
func (h *StatsHandler) HandleGetTopSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := defaultTopLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if val, err := strconv.Atoi(limitStr); err == nil && val > 0 {
			limit = val
		}
	}
	if limit > maxTopLimit {
		limit = maxTopLimit
	}

	ctx, cancel := context.WithTimeout(r.Context(), config.StoreTimeout)
	defer cancel()

	entries, err := h.server.TopSessions(ctx, limit)
	if err != nil {
		log.Printf("Fetching top sessions: %v", err)
		http.Error(w, "Failed to fetch stats", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []db.CollisionStatsEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}
