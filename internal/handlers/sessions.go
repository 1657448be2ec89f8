package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/besuhoff/collision-demo-go/internal/auth"
	"github.com/besuhoff/collision-demo-go/internal/config"
	"github.com/besuhoff/collision-demo-go/internal/server"
	"github.com/besuhoff/collision-demo-go/internal/types"
)

const maxSessionNameLength = 50

// SessionHandler handles session-related HTTP requests
type SessionHandler struct {
	server *server.GameServer
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(gs *server.GameServer) *SessionHandler {
	return &SessionHandler{server: gs}
}

// CreateSessionRequest represents the request body for creating a session.
// Width and height are the caller's viewport; they are read once.
type CreateSessionRequest struct {
	Name          string  `json:"name"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	ParticleCount int     `json:"particle_count,omitempty"`
}

// SessionResponse is a session plus a token for joining it over /ws
type SessionResponse struct {
	Session types.SessionInfo `json:"session"`
	Token   string            `json:"token"`
}

// HandleCreateSession creates a new simulation session
func (h *SessionHandler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if len(req.Name) > maxSessionNameLength {
		http.Error(w, "Name must be at most 50 characters", http.StatusBadRequest)
		return
	}

	session, err := h.server.CreateSession(req.Name, types.World{Width: req.Width, Height: req.Height}, req.ParticleCount)
	if errors.Is(err, server.ErrInvalidSession) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Printf("Creating session: %v", err)
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	response, err := h.sessionResponse(session)
	if err != nil {
		http.Error(w, "Failed to issue token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response)
}

// HandleListSessions lists live sessions and stored ones that can be rejoined
func (h *SessionHandler) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), config.StoreTimeout)
	defer cancel()

	sessions, err := h.server.ListSessions(ctx)
	if err != nil {
		log.Printf("Listing sessions: %v", err)
		http.Error(w, "Failed to fetch sessions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sessions)
}

// HandleJoinSession issues a join token for an existing session
func (h *SessionHandler) HandleJoinSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Extract session ID from URL path
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/sessions/")
	sessionID := strings.TrimSuffix(path, "/join")
	if sessionID == "" || strings.Contains(sessionID, "/") {
		http.Error(w, "Invalid session ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), config.StoreTimeout)
	defer cancel()

	session, err := h.server.LoadSession(ctx, sessionID)
	if errors.Is(err, server.ErrSessionNotFound) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("Loading session %s: %v", sessionID, err)
		http.Error(w, "Failed to load session", http.StatusInternalServerError)
		return
	}

	response, err := h.sessionResponse(session)
	if err != nil {
		http.Error(w, "Failed to issue token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// HandleDeleteSession stops and deletes a session
func (h *SessionHandler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Extract session ID from URL path
	sessionID := strings.TrimPrefix(r.URL.Path, "/api/v1/sessions/")
	if sessionID == "" || strings.Contains(sessionID, "/") {
		http.Error(w, "Invalid session ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), config.StoreTimeout)
	defer cancel()

	err := h.server.DeleteSession(ctx, sessionID)
	if errors.Is(err, server.ErrSessionNotFound) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("Deleting session %s: %v", sessionID, err)
		http.Error(w, "Failed to delete session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Successfully deleted session"})
}

func (h *SessionHandler) sessionResponse(session *server.Session) (SessionResponse, error) {
	token, err := auth.GenerateToken(session.ID)
	if err != nil {
		log.Printf("Generating token for session %s: %v", session.ID, err)
		return SessionResponse{}, err
	}
	return SessionResponse{
		Session: h.server.SessionInfo(session),
		Token:   token,
	}, nil
}
