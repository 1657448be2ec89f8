package types

// World holds the simulation bounds, read once when a session is created
type World struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// SimulationContext is the per-frame input shared by every particle step
type SimulationContext struct {
	World   World
	Pointer Vector2
}

// ParticleState is what a renderer needs to draw one particle
type ParticleState struct {
	ID      int     `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Radius  float64 `json:"radius"`
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
}

// FrameState is one rendered frame of a session
type FrameState struct {
	SessionID  string          `json:"session_id"`
	Frame      uint64          `json:"frame"`
	World      World           `json:"world"`
	Collisions uint64          `json:"collisions"`
	Particles  []ParticleState `json:"particles"`
	Timestamp  int64           `json:"timestamp"`
}

// SimulationStats are the cumulative counters of a session
type SimulationStats struct {
	Frames      uint64 `json:"frames"`
	Collisions  uint64 `json:"collisions"`
	WallBounces uint64 `json:"wall_bounces"`
}

// SessionInfo describes a live session
type SessionInfo struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	World         World           `json:"world"`
	ParticleCount int             `json:"particle_count"`
	Viewers       int             `json:"viewers"`
	Stats         SimulationStats `json:"stats"`
}
