package game

import (
	"errors"
	"math"
	"testing"

	"github.com/besuhoff/collision-demo-go/internal/config"
	"github.com/besuhoff/collision-demo-go/internal/types"
	"github.com/besuhoff/collision-demo-go/internal/utils"
)

// fixedRandom always returns the same values, forcing every candidate onto one spot
type fixedRandom struct{}

func (fixedRandom) IntRange(min, max int) int { return min }
func (fixedRandom) Float64() float64          { return 0.5 }

func TestPlaceParticlesNoOverlap(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		radius float64
		world  types.World
		rule   OverlapRule
	}{
		{name: "default population", n: config.DefaultParticleCount, radius: config.DefaultParticleRadius, world: types.World{Width: 1920, Height: 1080}, rule: OverlapOtherDiameter},
		{name: "small world", n: 30, radius: 10, world: types.World{Width: 400, Height: 300}, rule: OverlapOtherDiameter},
		{name: "sum rule", n: 60, radius: 15, world: types.World{Width: 800, Height: 600}, rule: OverlapRadiusSum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			particles, err := PlaceParticles(tt.n, tt.radius, tt.world, NewRandomSource(42), config.PlacementMaxAttempts, tt.rule)
			if err != nil {
				t.Fatalf("PlaceParticles() unexpected error: %v", err)
			}
			if len(particles) != tt.n {
				t.Fatalf("placed %d particles, want %d", len(particles), tt.n)
			}

			for i, p := range particles {
				if p.ID != i {
					t.Errorf("particle %d has ID %d", i, p.ID)
				}
				if !utils.CheckCircleInBounds(p.Position.X, p.Position.Y, tt.radius, tt.world.Width, tt.world.Height) {
					t.Errorf("particle %d at %v is outside the placement area", i, p.Position)
				}
				half := config.InitialSpeedSpan / 2
				if math.Abs(p.Velocity.X) > half || math.Abs(p.Velocity.Y) > half {
					t.Errorf("particle %d velocity %v exceeds %v per axis", i, p.Velocity, half)
				}
				if p.Mass != config.ParticleMass || p.Radius != tt.radius || p.Opacity != 0 {
					t.Errorf("particle %d = %+v, want mass %v radius %v opacity 0", i, p, config.ParticleMass, tt.radius)
				}
				for j := i + 1; j < len(particles); j++ {
					if d := p.DistanceToPoint(particles[j].Position); d < 2*tt.radius {
						t.Errorf("particles %d and %d are %v apart, want at least %v", i, j, d, 2*tt.radius)
					}
				}
			}
		})
	}
}

func TestPlaceParticlesUsesPalette(t *testing.T) {
	particles, err := PlaceParticles(40, 10, types.World{Width: 1000, Height: 1000}, NewRandomSource(7), config.PlacementMaxAttempts, OverlapOtherDiameter)
	if err != nil {
		t.Fatalf("PlaceParticles() unexpected error: %v", err)
	}

	palette := make(map[string]bool)
	for _, c := range config.Palette {
		palette[c] = true
	}
	for _, p := range particles {
		if !palette[p.Color] {
			t.Errorf("particle %d color %q is not in the palette", p.ID, p.Color)
		}
	}
}

func TestPlaceParticlesBoundedRetries(t *testing.T) {
	_, err := PlaceParticles(2, 20, types.World{Width: 800, Height: 600}, fixedRandom{}, 25, OverlapOtherDiameter)
	if !errors.Is(err, ErrPlacementFailed) {
		t.Fatalf("PlaceParticles() error = %v, want %v", err, ErrPlacementFailed)
	}
}

func TestPlaceParticlesInfeasible(t *testing.T) {
	// 50 discs of diameter 40 cannot fit in 100x100
	_, err := PlaceParticles(50, 20, types.World{Width: 100, Height: 100}, NewRandomSource(1), 500, OverlapOtherDiameter)
	if !errors.Is(err, ErrPlacementFailed) {
		t.Fatalf("PlaceParticles() error = %v, want %v", err, ErrPlacementFailed)
	}
}

func TestPlaceParticlesWorldTooSmall(t *testing.T) {
	_, err := PlaceParticles(1, 20, types.World{Width: 30, Height: 300}, NewRandomSource(1), 10, OverlapOtherDiameter)
	if !errors.Is(err, ErrWorldTooSmall) {
		t.Fatalf("PlaceParticles() error = %v, want %v", err, ErrWorldTooSmall)
	}
}

func TestPlaceParticlesSingleNeedsNoRetry(t *testing.T) {
	particles, err := PlaceParticles(1, 20, types.World{Width: 40, Height: 40}, fixedRandom{}, 1, OverlapOtherDiameter)
	if err != nil {
		t.Fatalf("PlaceParticles() unexpected error: %v", err)
	}
	if particles[0].Position != (types.Vector2{X: 20, Y: 20}) {
		t.Errorf("Position = %v, want (20, 20)", particles[0].Position)
	}
}
