package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("not found")

// ParticleRecord is the persisted state of one particle
type ParticleRecord struct {
	ID      int     `bson:"id" json:"id"`
	X       float64 `bson:"x" json:"x"`
	Y       float64 `bson:"y" json:"y"`
	VX      float64 `bson:"vx" json:"vx"`
	VY      float64 `bson:"vy" json:"vy"`
	Radius  float64 `bson:"radius" json:"radius"`
	Mass    float64 `bson:"mass" json:"mass"`
	Color   string  `bson:"color" json:"color"`
	Opacity float64 `bson:"opacity" json:"opacity"`
}

// SimulationSession is a snapshot of a session's engine
type SimulationSession struct {
	ID          string           `bson:"_id" json:"id"`
	Name        string           `bson:"name" json:"name"`
	Width       float64          `bson:"width" json:"width"`
	Height      float64          `bson:"height" json:"height"`
	OverlapRule string           `bson:"overlap_rule" json:"overlap_rule"`
	Particles   []ParticleRecord `bson:"particles" json:"particles"`
	Frames      int64            `bson:"frames" json:"frames"`
	Collisions  int64            `bson:"collisions" json:"collisions"`
	WallBounces int64            `bson:"wall_bounces" json:"wall_bounces"`
	CreatedAt   time.Time        `bson:"created_at" json:"created_at"`
	LastUpdated time.Time        `bson:"last_updated" json:"last_updated"`
	IsActive    bool             `bson:"is_active" json:"is_active"`
}

// CollisionStatsEntry ranks sessions by how many collisions they resolved
type CollisionStatsEntry struct {
	SessionID   string    `bson:"_id" json:"session_id"`
	SessionName string    `bson:"session_name" json:"session_name"`
	Particles   int       `bson:"particles" json:"particles"`
	Frames      int64     `bson:"frames" json:"frames"`
	Collisions  int64     `bson:"collisions" json:"collisions"`
	WallBounces int64     `bson:"wall_bounces" json:"wall_bounces"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// SessionRepository provides database operations for simulation sessions
type SessionRepository struct {
	collection *mongo.Collection
}

// NewSessionRepository creates a new session repository
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		collection: Database.Collection(sessionsCollection),
	}
}

// FindByID finds a session by ID
func (r *SessionRepository) FindByID(ctx context.Context, id string) (*SimulationSession, error) {
	var session SimulationSession
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// FindActiveSessions finds all active sessions
func (r *SessionRepository) FindActiveSessions(ctx context.Context) ([]SimulationSession, error) {
	opts := options.Find().SetSort(bson.D{{Key: "last_updated", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sessions []SimulationSession
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// Save inserts or replaces a session snapshot
func (r *SessionRepository) Save(ctx context.Context, session *SimulationSession) error {
	now := time.Now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.LastUpdated = now

	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": session.ID}, session, opts)
	return err
}

// Delete deletes a session
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// StatsRepository provides database operations for collision statistics
type StatsRepository struct {
	collection *mongo.Collection
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository() *StatsRepository {
	return &StatsRepository{
		collection: Database.Collection(statsCollection),
	}
}

// UpsertEntry creates or updates the stats entry of a session
func (r *StatsRepository) UpsertEntry(ctx context.Context, entry *CollisionStatsEntry) error {
	update := bson.M{
		"$max": bson.M{
			"frames":       entry.Frames, // Counters only grow
			"collisions":   entry.Collisions,
			"wall_bounces": entry.WallBounces,
		},
		"$set": bson.M{
			"session_name": entry.SessionName,
			"particles":    entry.Particles,
			"updated_at":   time.Now(),
		},
		"$setOnInsert": bson.M{
			"created_at": time.Now(),
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": entry.SessionID}, update, opts)
	return err
}

// GetTopSessions returns the N sessions with the most collisions
func (r *StatsRepository) GetTopSessions(ctx context.Context, limit int) ([]CollisionStatsEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "collisions", Value: -1}}).SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []CollisionStatsEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteEntry removes the stats entry of a session
func (r *StatsRepository) DeleteEntry(ctx context.Context, sessionID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": sessionID})
	return err
}
