package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/besuhoff/collision-demo-go/internal/auth"
	"github.com/besuhoff/collision-demo-go/internal/config"
	"github.com/besuhoff/collision-demo-go/internal/db"
	"github.com/besuhoff/collision-demo-go/internal/game"
	"github.com/besuhoff/collision-demo-go/internal/protocol"
	"github.com/besuhoff/collision-demo-go/internal/types"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidSession  = errors.New("invalid session parameters")
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

// SessionStore persists session snapshots and collision stats.
// *db.Store implements it.
type SessionStore interface {
	LoadSession(ctx context.Context, id string) (*db.SimulationSession, error)
	SaveSession(ctx context.Context, session *db.SimulationSession) error
	DeleteSession(ctx context.Context, id string) error
	TopSessions(ctx context.Context, limit int) ([]db.CollisionStatsEntry, error)
	ActiveSessions(ctx context.Context) ([]db.SimulationSession, error)
}

// Session represents a simulation session with its engine
type Session struct {
	ID           string
	Name         string
	Engine       *game.Engine
	CreatedAt    time.Time
	viewers      int  // guarded by GameServer.mu
	deleted      bool // guarded by GameServer.mu
	lastSaveTime time.Time
}

// GameServer manages the sessions and all connected viewers
type GameServer struct {
	store      SessionStore
	clients    map[string]*WebsocketClient
	sessions   map[string]*Session // sessionID -> Session
	register   chan *WebsocketClient
	unregister chan *WebsocketClient
	shutdown   chan struct{}
	done       chan struct{}
	mu         sync.RWMutex
	running    bool
}

// NewGameServer creates a new game server. store may be nil, in which case
// sessions live in memory only.
func NewGameServer(store SessionStore) *GameServer {
	return &GameServer{
		store:      store,
		clients:    make(map[string]*WebsocketClient),
		sessions:   make(map[string]*Session),
		register:   make(chan *WebsocketClient),
		unregister: make(chan *WebsocketClient),
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Run starts the frame loop
func (gs *GameServer) Run() {
	gs.mu.Lock()
	gs.running = true
	gs.mu.Unlock()
	defer close(gs.done)

	ticker := time.NewTicker(config.FrameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-gs.shutdown:
			log.Println("Game server loop shutting down...")
			return

		case client := <-gs.register:
			gs.registerClient(client)

		case client := <-gs.unregister:
			gs.unregisterClient(client)

		case <-ticker.C:
			gs.tick()
		}
	}
}

// tick advances every viewed session by one frame and broadcasts it
func (gs *GameServer) tick() {
	gs.mu.RLock()
	active := make([]*Session, 0, len(gs.sessions))
	for _, session := range gs.sessions {
		if session.viewers > 0 {
			active = append(active, session)
		}
	}
	gs.mu.RUnlock()

	for _, session := range active {
		frame := session.Engine.Tick()
		gs.broadcastToSession(session.ID, protocol.NewFrameMessage(&frame))

		if time.Since(session.lastSaveTime) > config.SessionSaveInterval {
			gs.saveSession(session)
		}
	}
}

// Shutdown stops the frame loop, disconnects every viewer and saves all sessions
func (gs *GameServer) Shutdown() {
	log.Println("Starting graceful shutdown...")

	close(gs.shutdown)

	gs.mu.RLock()
	running := gs.running
	gs.mu.RUnlock()
	if running {
		select {
		case <-gs.done:
		case <-time.After(time.Second):
			log.Println("Frame loop did not stop in time")
		}
	}

	gs.mu.Lock()
	log.Printf("Closing %d client connections...", len(gs.clients))
	for id, client := range gs.clients {
		client.Conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Server shutting down"),
			time.Now().Add(time.Second))
		client.Conn.Close()
		delete(gs.clients, id)
	}
	sessions := make([]*Session, 0, len(gs.sessions))
	for _, session := range gs.sessions {
		sessions = append(sessions, session)
	}
	gs.mu.Unlock()

	if gs.store != nil {
		log.Printf("Saving %d active sessions to database...", len(sessions))
		for _, session := range sessions {
			gs.saveSession(session)
		}
	}

	log.Println("Graceful shutdown complete")
}

// CreateSession places a new simulation sized to the given world.
// particleCount 0 selects the configured default.
func (gs *GameServer) CreateSession(name string, world types.World, particleCount int) (*Session, error) {
	if !(world.Width > 0 && world.Height > 0) || world.Width > config.MaxWorldSize || world.Height > config.MaxWorldSize {
		return nil, fmt.Errorf("%w: world %vx%v", ErrInvalidSession, world.Width, world.Height)
	}
	if particleCount == 0 {
		particleCount = config.AppConfig.ParticleCount
	}
	if particleCount < 0 || particleCount > config.MaxParticleCount {
		return nil, fmt.Errorf("%w: particle count %d", ErrInvalidSession, particleCount)
	}

	id := uuid.New().String()
	if name = strings.TrimSpace(name); name == "" {
		name = "Session " + id[:8]
	}

	engine, err := game.NewEngine(id, game.EngineOptions{
		World:         world,
		ParticleCount: particleCount,
		Radius:        config.AppConfig.ParticleRadius,
		Rule:          game.ParseOverlapRule(config.AppConfig.OverlapRule),
		Random:        game.NewRandomSource(config.AppConfig.RandomSeed),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}

	session := &Session{
		ID:        id,
		Name:      name,
		Engine:    engine,
		CreatedAt: time.Now(),
	}

	gs.mu.Lock()
	gs.sessions[id] = session
	gs.mu.Unlock()

	gs.saveSession(session)

	log.Printf("Created session %s (%s): %d particles in %vx%v", id, name, particleCount, world.Width, world.Height)
	return session, nil
}

// GetSession returns a live session
func (gs *GameServer) GetSession(id string) (*Session, bool) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	session, ok := gs.sessions[id]
	return session, ok
}

// ListSessions describes live sessions, oldest first, followed by stored
// sessions that are not loaded
func (gs *GameServer) ListSessions(ctx context.Context) ([]types.SessionInfo, error) {
	gs.mu.RLock()
	sessions := make([]*Session, 0, len(gs.sessions))
	for _, session := range gs.sessions {
		sessions = append(sessions, session)
	}
	infos := make([]types.SessionInfo, len(sessions))
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})
	for i, session := range sessions {
		infos[i] = gs.sessionInfoLocked(session)
	}
	gs.mu.RUnlock()

	if gs.store == nil {
		return infos, nil
	}

	stored, err := gs.store.ActiveSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing stored sessions: %w", err)
	}
	live := make(map[string]bool, len(infos))
	for _, info := range infos {
		live[info.ID] = true
	}
	for _, s := range stored {
		if live[s.ID] {
			continue
		}
		infos = append(infos, types.SessionInfo{
			ID:            s.ID,
			Name:          s.Name,
			World:         types.World{Width: s.Width, Height: s.Height},
			ParticleCount: len(s.Particles),
			Stats: types.SimulationStats{
				Frames:      uint64(s.Frames),
				Collisions:  uint64(s.Collisions),
				WallBounces: uint64(s.WallBounces),
			},
		})
	}
	return infos, nil
}

// SessionInfo describes one session
func (gs *GameServer) SessionInfo(session *Session) types.SessionInfo {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return gs.sessionInfoLocked(session)
}

func (gs *GameServer) sessionInfoLocked(session *Session) types.SessionInfo {
	return types.SessionInfo{
		ID:            session.ID,
		Name:          session.Name,
		World:         session.Engine.World(),
		ParticleCount: session.Engine.ParticleCount(),
		Viewers:       session.viewers,
		Stats:         session.Engine.Stats(),
	}
}

// LoadSession returns a live session, restoring it from the store if needed
func (gs *GameServer) LoadSession(ctx context.Context, id string) (*Session, error) {
	if session, ok := gs.GetSession(id); ok {
		return session, nil
	}
	if gs.store == nil {
		return nil, ErrSessionNotFound
	}

	snapshot, err := gs.store.LoadSession(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading session %s: %w", id, err)
	}

	engine, err := game.NewEngineFromSession(snapshot)
	if err != nil {
		return nil, err
	}

	gs.mu.Lock()
	defer gs.mu.Unlock()
	// Another request may have restored it meanwhile
	if session, ok := gs.sessions[id]; ok {
		return session, nil
	}
	session := &Session{
		ID:           snapshot.ID,
		Name:         snapshot.Name,
		Engine:       engine,
		CreatedAt:    snapshot.CreatedAt,
		lastSaveTime: time.Now(),
	}
	gs.sessions[id] = session
	log.Printf("Loaded session %s from database", id)
	return session, nil
}

// DeleteSession stops a session, disconnects its viewers and removes its snapshot
func (gs *GameServer) DeleteSession(ctx context.Context, id string) error {
	gs.mu.Lock()
	session, live := gs.sessions[id]
	if live {
		session.deleted = true
		delete(gs.sessions, id)
	}
	var viewers []*WebsocketClient
	for _, client := range gs.clients {
		if client.SessionID == id {
			viewers = append(viewers, client)
		}
	}
	gs.mu.Unlock()

	for _, client := range viewers {
		client.Conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Session deleted"),
			time.Now().Add(time.Second))
		client.Conn.Close()
	}

	if gs.store != nil {
		err := gs.store.DeleteSession(ctx, id)
		if errors.Is(err, db.ErrNotFound) && !live {
			return ErrSessionNotFound
		}
		if err != nil && !errors.Is(err, db.ErrNotFound) {
			return err
		}
	} else if !live {
		return ErrSessionNotFound
	}

	log.Printf("Deleted session %s", id)
	return nil
}

// TopSessions ranks sessions by collision count, from the store when
// configured and from live sessions otherwise
func (gs *GameServer) TopSessions(ctx context.Context, limit int) ([]db.CollisionStatsEntry, error) {
	if gs.store != nil {
		return gs.store.TopSessions(ctx, limit)
	}

	gs.mu.RLock()
	entries := make([]db.CollisionStatsEntry, 0, len(gs.sessions))
	for _, session := range gs.sessions {
		stats := session.Engine.Stats()
		entries = append(entries, db.CollisionStatsEntry{
			SessionID:   session.ID,
			SessionName: session.Name,
			Particles:   session.Engine.ParticleCount(),
			Frames:      int64(stats.Frames),
			Collisions:  int64(stats.Collisions),
			WallBounces: int64(stats.WallBounces),
			CreatedAt:   session.CreatedAt,
			UpdatedAt:   time.Now(),
		})
	}
	gs.mu.RUnlock()

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Collisions > entries[j].Collisions
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (gs *GameServer) saveSession(session *Session) {
	if gs.store == nil {
		return
	}

	gs.mu.RLock()
	deleted := session.deleted
	gs.mu.RUnlock()
	if deleted {
		return
	}

	snapshot := &db.SimulationSession{
		Name:      session.Name,
		CreatedAt: session.CreatedAt,
		IsActive:  true,
	}
	session.Engine.SaveToSession(snapshot)

	ctx, cancel := context.WithTimeout(context.Background(), config.StoreTimeout)
	defer cancel()

	if err := gs.store.SaveSession(ctx, snapshot); err != nil {
		log.Printf("Failed to save session %s: %v", session.ID, err)
		return
	}
	session.lastSaveTime = time.Now()
	log.Printf("Session %s saved to database", session.ID)
}

func (gs *GameServer) registerClient(client *WebsocketClient) {
	gs.mu.Lock()
	session := client.session
	if session.deleted {
		gs.mu.Unlock()
		close(client.send)
		client.Conn.Close()
		return
	}
	gs.clients[client.ID] = client

	// The last viewer may have left, evicting the session, after this
	// client looked it up
	if _, ok := gs.sessions[session.ID]; !ok {
		gs.sessions[session.ID] = session
	}
	session.viewers++
	viewers := session.viewers
	info := gs.sessionInfoLocked(session)
	gs.mu.Unlock()

	client.Send(protocol.NewSessionMessage(&info))
	frame := session.Engine.GetFrame()
	client.Send(protocol.NewFrameMessage(&frame))

	log.Printf("Viewer %s joined session %s (viewers: %d)", client.ID, session.ID, viewers)
}

func (gs *GameServer) unregisterClient(client *WebsocketClient) {
	gs.mu.Lock()
	if _, exists := gs.clients[client.ID]; !exists {
		gs.mu.Unlock()
		return
	}
	delete(gs.clients, client.ID)
	close(client.send)

	session := client.session
	session.viewers--
	viewers := session.viewers
	evict := viewers == 0 && gs.store != nil && !session.deleted
	gs.mu.Unlock()

	log.Printf("Viewer %s left session %s (remaining: %d)", client.ID, session.ID, viewers)

	if evict {
		log.Printf("Last viewer left session %s, saving to database", session.ID)
		gs.saveSession(session)

		gs.mu.Lock()
		if session.viewers == 0 {
			delete(gs.sessions, session.ID)
		}
		gs.mu.Unlock()
	}
}

func (gs *GameServer) broadcastToSession(sessionID string, msg *protocol.GameMessage) {
	var jsonData, binaryData []byte

	gs.mu.RLock()
	defer gs.mu.RUnlock()

	for _, client := range gs.clients {
		if client.SessionID != sessionID {
			continue
		}

		var err error
		if client.UseBinary {
			if binaryData == nil {
				binaryData, err = protocol.MarshalBinary(msg)
			}
			if err == nil {
				client.enqueue(binaryData)
			}
		} else {
			if jsonData == nil {
				jsonData, err = protocol.MarshalJSON(msg)
			}
			if err == nil {
				client.enqueue(jsonData)
			}
		}
		if err != nil {
			log.Printf("Error marshaling %s message: %v", msg.Type, err)
			return
		}
	}
}

// HandleWebSocket handles WebSocket connections
func (gs *GameServer) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Extract and validate JWT token from query parameters
	token := r.URL.Query().Get("token")
	if token == "" {
		// Check Authorization header as fallback
		authHeader := r.Header.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}

	if token == "" {
		http.Error(w, "Unauthorized: missing token", http.StatusUnauthorized)
		return
	}

	tokenSessionID, err := auth.ValidateToken(token)
	if err != nil {
		log.Printf("Token validation error: %v", err)
		http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
		return
	}

	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		http.Error(w, "Invalid session ID", http.StatusBadRequest)
		return
	}
	if sessionID != tokenSessionID {
		http.Error(w, "Forbidden: token is for another session", http.StatusForbidden)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), config.StoreTimeout)
	defer cancel()

	session, err := gs.LoadSession(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("Session lookup error: %v", err)
		http.Error(w, "Failed to load session", http.StatusInternalServerError)
		return
	}

	// Upgrade to WebSocket
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	// Check if client wants binary protocol (via query parameter)
	useBinary := r.URL.Query().Get("protocol") == "binary"

	client := &WebsocketClient{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Conn:      conn,
		Server:    gs,
		UseBinary: useBinary,
		session:   session,
		send:      make(chan []byte, 256),
	}

	log.Printf("New client connected (ID: %s, Session: %s, Binary: %v)",
		client.ID, client.SessionID, useBinary)

	gs.register <- client

	go client.writePump()
	go client.readPump()
}

func finitePointer(p *types.PointerPayload) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}
