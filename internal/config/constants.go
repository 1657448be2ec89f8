package config

import "time"

// Loop timing
const (
	FrameInterval       = 16 * time.Millisecond // ~60 FPS, one simulation step per tick
	SessionSaveInterval = 30 * time.Second
	StoreTimeout        = 5 * time.Second
)

// Simulation defaults
const (
	DefaultParticleCount  = 150
	DefaultParticleRadius = 20.0
	DefaultWorldWidth     = 1280.0
	DefaultWorldHeight    = 720.0
	MaxWorldSize          = 8192.0
	MaxParticleCount      = 1000

	ParticleMass     = 1.0
	InitialSpeedSpan = 5.0 // each axis starts in [-span/2, span/2)

	PointerRadius = 120.0
	OpacityStep   = 0.02
	MaxOpacity    = 0.2

	PlacementMaxAttempts = 10000
)

// Overlap rules
const (
	OverlapRuleDiameter = "diameter" // d - r_other*2 < 0
	OverlapRuleSum      = "sum"      // d - (r_self + r_other) < 0
)

var Palette = []string{
	"#1abc9c",
	"#341f97",
	"#7f8c8d",
	"#34495e",
	"#54a0ff",
	"#f1c40f",
	"#0abde3",
	"#ee5253",
	"#e74c3c",
	"#576574",
	"#8e44ad",
	"#feca57",
	"#2c3e50",
	"#f39c12",
	"#d35400",
	"#c0392b",
	"#2980b9",
	"#16a085",
	"#27ae60",
	"#e67e22",
}
