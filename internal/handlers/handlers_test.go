package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/besuhoff/collision-demo-go/internal/auth"
	"github.com/besuhoff/collision-demo-go/internal/config"
	"github.com/besuhoff/collision-demo-go/internal/db"
	"github.com/besuhoff/collision-demo-go/internal/server"
	"github.com/besuhoff/collision-demo-go/internal/types"
)

func newTestServer(t *testing.T) *server.GameServer {
	t.Helper()
	prev := config.AppConfig
	config.AppConfig = &config.Config{
		SecretKey:                "test-secret",
		AccessTokenExpireMinutes: 10,
		ParticleCount:            3,
		ParticleRadius:           10,
		OverlapRule:              config.OverlapRuleDiameter,
	}
	t.Cleanup(func() { config.AppConfig = prev })
	return server.NewGameServer(nil)
}

func createSession(t *testing.T, h *SessionHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleCreateSession(rec, req)
	return rec
}

func TestHandleCreateSession(t *testing.T) {
	gs := newTestServer(t)
	h := NewSessionHandler(gs)

	rec := createSession(t, h, `{"name":"demo","width":640,"height":480,"particle_count":4}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}

	var resp SessionResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Session.Name != "demo" || resp.Session.ParticleCount != 4 {
		t.Errorf("session = %+v", resp.Session)
	}
	if resp.Session.World != (types.World{Width: 640, Height: 480}) {
		t.Errorf("world = %+v, want viewport size", resp.Session.World)
	}

	sessionID, err := auth.ValidateToken(resp.Token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if sessionID != resp.Session.ID {
		t.Errorf("token grants %q, want %q", sessionID, resp.Session.ID)
	}
}

func TestHandleCreateSessionBadRequests(t *testing.T) {
	gs := newTestServer(t)
	h := NewSessionHandler(gs)

	tests := []struct {
		name string
		body string
	}{
		{"not json", `{`},
		{"missing size", `{"name":"demo"}`},
		{"name too long", `{"name":"` + strings.Repeat("x", 51) + `","width":640,"height":480}`},
		{"too many particles", `{"width":640,"height":480,"particle_count":100000}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := createSession(t, h, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestHandleListSessions(t *testing.T) {
	gs := newTestServer(t)
	h := NewSessionHandler(gs)

	createSession(t, h, `{"name":"a","width":300,"height":300}`)
	createSession(t, h, `{"name":"b","width":300,"height":300}`)

	rec := httptest.NewRecorder()
	h.HandleListSessions(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sessions", nil))

	var infos []types.SessionInfo
	if err := json.NewDecoder(rec.Body).Decode(&infos); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("got %d sessions, want 2", len(infos))
	}
	if infos[0].ParticleCount != 3 {
		t.Errorf("ParticleCount = %d, want configured default 3", infos[0].ParticleCount)
	}
}

func TestHandleJoinAndDeleteSession(t *testing.T) {
	gs := newTestServer(t)
	h := NewSessionHandler(gs)

	var created SessionResponse
	rec := createSession(t, h, `{"name":"demo","width":300,"height":300}`)
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	id := created.Session.ID

	tests := []struct {
		name    string
		method  string
		path    string
		handler http.HandlerFunc
		status  int
	}{
		{"join", http.MethodPost, "/api/v1/sessions/" + id + "/join", h.HandleJoinSession, http.StatusOK},
		{"join wrong method", http.MethodGet, "/api/v1/sessions/" + id + "/join", h.HandleJoinSession, http.StatusMethodNotAllowed},
		{"join unknown", http.MethodPost, "/api/v1/sessions/nope/join", h.HandleJoinSession, http.StatusNotFound},
		{"delete", http.MethodDelete, "/api/v1/sessions/" + id, h.HandleDeleteSession, http.StatusOK},
		{"delete again", http.MethodDelete, "/api/v1/sessions/" + id, h.HandleDeleteSession, http.StatusNotFound},
		{"join deleted", http.MethodPost, "/api/v1/sessions/" + id + "/join", h.HandleJoinSession, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.handler(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d (body %q)", rec.Code, tt.status, rec.Body.String())
			}
		})
	}
}

func TestHandleGetTopSessions(t *testing.T) {
	gs := newTestServer(t)
	sessions := NewSessionHandler(gs)
	stats := NewStatsHandler(gs)

	for i := 0; i < 3; i++ {
		createSession(t, sessions, `{"width":300,"height":300}`)
	}

	tests := []struct {
		query string
		want  int
	}{
		{"", 3},
		{"?limit=2", 2},
		{"?limit=abc", 3},
		{"?limit=-1", 3},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := httptest.NewRecorder()
			stats.HandleGetTopSessions(rec, httptest.NewRequest(http.MethodGet, "/api/v1/stats/top"+tt.query, nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}

			var entries []db.CollisionStatsEntry
			if err := json.NewDecoder(rec.Body).Decode(&entries); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if len(entries) != tt.want {
				t.Errorf("got %d entries, want %d", len(entries), tt.want)
			}
		})
	}
}
