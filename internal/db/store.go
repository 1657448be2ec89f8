package db

import (
	"context"
	"fmt"
)

// Store bundles the repositories used by the simulation server
type Store struct {
	sessions *SessionRepository
	stats    *StatsRepository
}

// NewStore creates a store on the connected database
func NewStore() *Store {
	return &Store{
		sessions: NewSessionRepository(),
		stats:    NewStatsRepository(),
	}
}

func (s *Store) LoadSession(ctx context.Context, id string) (*SimulationSession, error) {
	return s.sessions.FindByID(ctx, id)
}

// SaveSession writes the snapshot and refreshes the session's stats entry
func (s *Store) SaveSession(ctx context.Context, session *SimulationSession) error {
	if err := s.sessions.Save(ctx, session); err != nil {
		return fmt.Errorf("saving session %s: %w", session.ID, err)
	}

	entry := &CollisionStatsEntry{
		SessionID:   session.ID,
		SessionName: session.Name,
		Particles:   len(session.Particles),
		Frames:      session.Frames,
		Collisions:  session.Collisions,
		WallBounces: session.WallBounces,
	}
	if err := s.stats.UpsertEntry(ctx, entry); err != nil {
		return fmt.Errorf("updating stats for session %s: %w", session.ID, err)
	}
	return nil
}

// DeleteSession removes the snapshot and the session's stats entry
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	if err := s.sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting session %s: %w", id, err)
	}
	if err := s.stats.DeleteEntry(ctx, id); err != nil {
		return fmt.Errorf("deleting stats for session %s: %w", id, err)
	}
	return nil
}

// ActiveSessions returns stored snapshots, most recently saved first
func (s *Store) ActiveSessions(ctx context.Context) ([]SimulationSession, error) {
	return s.sessions.FindActiveSessions(ctx)
}

func (s *Store) TopSessions(ctx context.Context, limit int) ([]CollisionStatsEntry, error) {
	return s.stats.GetTopSessions(ctx, limit)
}
