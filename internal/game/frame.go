package game

import "github.com/besuhoff/collision-demo-go/internal/types"

// FrameRecorder is a RenderSink that collects draw requests into a frame
type FrameRecorder struct {
	particles []types.ParticleState
}

// Reset clears the previous frame's drawing
func (r *FrameRecorder) Reset() {
	r.particles = r.particles[:0]
}

func (r *FrameRecorder) DrawParticle(p *types.Particle) {
	r.particles = append(r.particles, p.State())
}

// Snapshot returns a copy of everything drawn since the last Reset
func (r *FrameRecorder) Snapshot() []types.ParticleState {
	out := make([]types.ParticleState, len(r.particles))
	copy(out, r.particles)
	return out
}
