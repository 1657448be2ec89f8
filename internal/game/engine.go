package game

import (
	"sync"
	"time"

	"github.com/besuhoff/collision-demo-go/internal/config"
	"github.com/besuhoff/collision-demo-go/internal/types"
)

// EngineOptions configures a freshly placed simulation
type EngineOptions struct {
	World         types.World
	ParticleCount int
	Radius        float64
	Rule          OverlapRule
	Random        RandomSource
	MaxAttempts   int
}

// Engine runs the simulation of one session
type Engine struct {
	mu        sync.RWMutex
	sessionID string
	particles []*types.Particle
	world     types.World
	pointer   types.Vector2
	rule      OverlapRule
	stats     types.SimulationStats
	recorder  FrameRecorder
}

// NewEngine creates an engine with particles placed at random
func NewEngine(sessionID string, opts EngineOptions) (*Engine, error) {
	if opts.Random == nil {
		opts.Random = NewRandomSource(0)
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = config.PlacementMaxAttempts
	}

	particles, err := PlaceParticles(opts.ParticleCount, opts.Radius, opts.World, opts.Random, opts.MaxAttempts, opts.Rule)
	if err != nil {
		return nil, err
	}

	return NewEngineWithParticles(sessionID, opts.World, particles, opts.Rule), nil
}

// NewEngineWithParticles creates an engine around an existing collection
func NewEngineWithParticles(sessionID string, world types.World, particles []*types.Particle, rule OverlapRule) *Engine {
	return &Engine{
		sessionID: sessionID,
		particles: particles,
		world:     world,
		rule:      rule,
	}
}

// SetPointer records the latest pointer position; it takes effect on the next frame
func (e *Engine) SetPointer(x, y float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pointer = types.Vector2{X: x, Y: y}
}

// Update runs one frame: every particle is stepped once, in collection order
func (e *Engine) Update(sink RenderSink) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.update(sink)
}

func (e *Engine) update(sink RenderSink) {
	ctx := types.SimulationContext{World: e.world, Pointer: e.pointer}

	for _, p := range e.particles {
		stats := StepParticle(p, e.particles, ctx, e.rule, sink)
		e.stats.Collisions += uint64(stats.Collisions)
		e.stats.WallBounces += uint64(stats.WallBounces)
	}
	e.stats.Frames++
}

// Tick runs one frame and returns what was drawn
func (e *Engine) Tick() types.FrameState {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.recorder.Reset()
	e.update(&e.recorder)

	return types.FrameState{
		SessionID:  e.sessionID,
		Frame:      e.stats.Frames,
		World:      e.world,
		Collisions: e.stats.Collisions,
		Particles:  e.recorder.Snapshot(),
		Timestamp:  time.Now().UnixMilli(),
	}
}

// GetFrame returns the current state without advancing the simulation
func (e *Engine) GetFrame() types.FrameState {
	e.mu.RLock()
	defer e.mu.RUnlock()

	particles := make([]types.ParticleState, len(e.particles))
	for i, p := range e.particles {
		particles[i] = p.State()
	}

	return types.FrameState{
		SessionID:  e.sessionID,
		Frame:      e.stats.Frames,
		World:      e.world,
		Collisions: e.stats.Collisions,
		Particles:  particles,
		Timestamp:  time.Now().UnixMilli(),
	}
}

// GetParticles returns a deep copy of the collection
func (e *Engine) GetParticles() []types.Particle {
	e.mu.RLock()
	defer e.mu.RUnlock()

	particlesCopy := make([]types.Particle, len(e.particles))
	for i, p := range e.particles {
		particlesCopy[i] = *p
	}
	return particlesCopy
}

func (e *Engine) Stats() types.SimulationStats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stats
}

func (e *Engine) World() types.World {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.world
}

func (e *Engine) Pointer() types.Vector2 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.pointer
}

func (e *Engine) ParticleCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.particles)
}
