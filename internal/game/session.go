package game

import (
	"fmt"

	"github.com/besuhoff/collision-demo-go/internal/db"
	"github.com/besuhoff/collision-demo-go/internal/types"
)

// NewEngineFromSession restores an engine from a database snapshot
func NewEngineFromSession(session *db.SimulationSession) (*Engine, error) {
	e := &Engine{sessionID: session.ID}
	if err := e.LoadFromSession(session); err != nil {
		return nil, err
	}
	return e, nil
}

// LoadFromSession replaces the engine state with a database snapshot
func (e *Engine) LoadFromSession(session *db.SimulationSession) error {
	particles := make([]*types.Particle, len(session.Particles))
	for i, rec := range session.Particles {
		p, err := types.NewParticle(rec.ID, types.Vector2{X: rec.X, Y: rec.Y}, rec.Radius, rec.Mass, rec.Color)
		if err != nil {
			return fmt.Errorf("loading session %s: %w", session.ID, err)
		}
		p.Velocity = types.Vector2{X: rec.VX, Y: rec.VY}
		p.Opacity = rec.Opacity
		particles[i] = p
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.particles = particles
	e.world = types.World{Width: session.Width, Height: session.Height}
	e.rule = ParseOverlapRule(session.OverlapRule)
	e.stats = types.SimulationStats{
		Frames:      uint64(session.Frames),
		Collisions:  uint64(session.Collisions),
		WallBounces: uint64(session.WallBounces),
	}
	return nil
}

// SaveToSession writes the engine state into a database snapshot
func (e *Engine) SaveToSession(session *db.SimulationSession) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	session.ID = e.sessionID
	session.Width = e.world.Width
	session.Height = e.world.Height
	session.OverlapRule = e.rule.String()
	session.Frames = int64(e.stats.Frames)
	session.Collisions = int64(e.stats.Collisions)
	session.WallBounces = int64(e.stats.WallBounces)

	session.Particles = make([]db.ParticleRecord, len(e.particles))
	for i, p := range e.particles {
		session.Particles[i] = db.ParticleRecord{
			ID:      p.ID,
			X:       p.Position.X,
			Y:       p.Position.Y,
			VX:      p.Velocity.X,
			VY:      p.Velocity.Y,
			Radius:  p.Radius,
			Mass:    p.Mass,
			Color:   p.Color,
			Opacity: p.Opacity,
		}
	}
}
