package game

import (
	"math"

	"github.com/besuhoff/collision-demo-go/internal/config"
	"github.com/besuhoff/collision-demo-go/internal/types"
)

// RenderSink receives one draw request per particle per frame
type RenderSink interface {
	DrawParticle(p *types.Particle)
}

// StepStats counts what happened to one particle during a step
type StepStats struct {
	Collisions  int
	WallBounces int
}

// StepParticle advances p by one frame against the whole collection.
// particles is read and written in place, so a particle stepped later in
// the same frame sees the updates made to earlier ones.
func StepParticle(p *types.Particle, particles []*types.Particle, ctx types.SimulationContext, rule OverlapRule, sink RenderSink) StepStats {
	var stats StepStats

	for _, q := range particles {
		if q == p {
			continue
		}

		if Overlapping(p, q, rule) && ResolveCollision(p, q) {
			stats.Collisions++
		}

		updateOpacity(p, ctx.Pointer)
	}

	if p.Position.X-p.Radius <= 0 || p.Position.X+p.Radius >= ctx.World.Width {
		p.Velocity.X = -p.Velocity.X
		stats.WallBounces++
	}
	if p.Position.Y-p.Radius <= 0 || p.Position.Y+p.Radius >= ctx.World.Height {
		p.Velocity.Y = -p.Velocity.Y
		stats.WallBounces++
	}

	p.Position.X += p.Velocity.X
	p.Position.Y += p.Velocity.Y

	if sink != nil {
		sink.DrawParticle(p)
	}

	return stats
}

// updateOpacity fades p in while the pointer is near and out otherwise
func updateOpacity(p *types.Particle, pointer types.Vector2) {
	if p.DistanceToPoint(pointer) < config.PointerRadius && p.Opacity < config.MaxOpacity {
		p.Opacity = math.Min(p.Opacity+config.OpacityStep, config.MaxOpacity)
	} else if p.Opacity > 0 {
		p.Opacity = math.Max(0, p.Opacity-config.OpacityStep)
	}
}
