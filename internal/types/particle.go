package types

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidMass   = errors.New("particle mass must be positive")
	ErrInvalidRadius = errors.New("particle radius must be positive")
)

// Particle is one simulated disc. Radius and mass are fixed at creation;
// position, velocity and opacity change every frame.
type Particle struct {
	ScreenObject
	Velocity Vector2 `json:"velocity"`
	Radius   float64 `json:"radius"`
	Mass     float64 `json:"mass"`
	Color    string  `json:"color"`
	Opacity  float64 `json:"opacity"`
}

// NewParticle creates a particle at rest with zero opacity
func NewParticle(id int, position Vector2, radius, mass float64, color string) (*Particle, error) {
	if !(mass > 0) {
		return nil, fmt.Errorf("particle %d: %w", id, ErrInvalidMass)
	}
	if !(radius > 0) {
		return nil, fmt.Errorf("particle %d: %w", id, ErrInvalidRadius)
	}

	return &Particle{
		ScreenObject: ScreenObject{ID: id, Position: position},
		Radius:       radius,
		Mass:         mass,
		Color:        color,
	}, nil
}

// State returns the render view of the particle
func (p *Particle) State() ParticleState {
	return ParticleState{
		ID:      p.ID,
		X:       p.Position.X,
		Y:       p.Position.Y,
		Radius:  p.Radius,
		Color:   p.Color,
		Opacity: p.Opacity,
	}
}
