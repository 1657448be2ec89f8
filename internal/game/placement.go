package game

import (
	"errors"
	"fmt"
	"math"

	"github.com/besuhoff/collision-demo-go/internal/config"
	"github.com/besuhoff/collision-demo-go/internal/types"
)

var (
	ErrPlacementFailed = errors.New("could not place particle without overlap")
	ErrWorldTooSmall   = errors.New("world is smaller than one particle")
)

// PlaceParticles creates n particles at random non-overlapping positions
// inside world. Each new candidate is compared against every particle
// placed so far; on overlap a fresh candidate is drawn and the scan starts
// over. At most maxAttempts candidates are drawn per particle.
func PlaceParticles(n int, radius float64, world types.World, rng RandomSource, maxAttempts int, rule OverlapRule) ([]*types.Particle, error) {
	if world.Width < 2*radius || world.Height < 2*radius {
		return nil, fmt.Errorf("%w: %vx%v for radius %v", ErrWorldTooSmall, world.Width, world.Height, radius)
	}

	minX, maxX := int(math.Ceil(radius)), int(math.Floor(world.Width-radius))
	minY, maxY := int(math.Ceil(radius)), int(math.Floor(world.Height-radius))
	candidate := func() types.Vector2 {
		return types.Vector2{
			X: float64(rng.IntRange(minX, maxX)),
			Y: float64(rng.IntRange(minY, maxY)),
		}
	}

	particles := make([]*types.Particle, 0, n)
	for i := 0; i < n; i++ {
		pos := candidate()
		attempts := 1

		for j := 0; j < len(particles); j++ {
			if !overlapsAt(pos, radius, particles[j], rule) {
				continue
			}
			if attempts >= maxAttempts {
				return nil, fmt.Errorf("particle %d after %d attempts: %w", i, attempts, ErrPlacementFailed)
			}
			pos = candidate()
			attempts++
			j = -1
		}

		color := config.Palette[rng.IntRange(0, len(config.Palette)-1)]
		p, err := types.NewParticle(i, pos, radius, config.ParticleMass, color)
		if err != nil {
			return nil, err
		}
		p.Velocity = types.Vector2{
			X: (rng.Float64() - 0.5) * config.InitialSpeedSpan,
			Y: (rng.Float64() - 0.5) * config.InitialSpeedSpan,
		}

		particles = append(particles, p)
	}

	return particles, nil
}
