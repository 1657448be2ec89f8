package game

import (
	"math"

	"github.com/besuhoff/collision-demo-go/internal/config"
	"github.com/besuhoff/collision-demo-go/internal/types"
	"github.com/besuhoff/collision-demo-go/internal/utils"
)

// OverlapRule selects how two particles are judged to be touching
type OverlapRule int

const (
	// OverlapOtherDiameter treats p and q as overlapping when d - q.r*2 < 0.
	// Only the other particle's radius is used; with uniform radii this
	// equals the radius-sum test.
	OverlapOtherDiameter OverlapRule = iota
	// OverlapRadiusSum treats p and q as overlapping when d < p.r + q.r
	OverlapRadiusSum
)

// ParseOverlapRule maps a config value to a rule, defaulting to OverlapOtherDiameter
func ParseOverlapRule(s string) OverlapRule {
	if s == config.OverlapRuleSum {
		return OverlapRadiusSum
	}
	return OverlapOtherDiameter
}

func (r OverlapRule) String() string {
	if r == OverlapRadiusSum {
		return config.OverlapRuleSum
	}
	return config.OverlapRuleDiameter
}

// Overlapping reports whether p and q overlap under rule
func Overlapping(p, q *types.Particle, rule OverlapRule) bool {
	return overlapsAt(p.Position, p.Radius, q, rule)
}

func overlapsAt(pos types.Vector2, radius float64, q *types.Particle, rule OverlapRule) bool {
	if rule == OverlapRadiusSum {
		return utils.CheckCircleCollision(pos.X, pos.Y, radius, q.Position.X, q.Position.Y, q.Radius)
	}
	return pos.DistanceTo(q.Position)-q.Radius*2 < 0
}

// ResolveCollision applies a 2D elastic collision to a and b in place.
// The velocities are rotated so the line of centers lies on the x-axis,
// the 1D elastic formula is applied to the x components, and the result
// is rotated back. Pairs that are already separating are left untouched.
// It reports whether the velocities were changed.
func ResolveCollision(a, b *types.Particle) bool {
	velocityDiff := a.Velocity.Sub(b.Velocity)
	displacement := b.Position.Sub(a.Position)

	if velocityDiff.Dot(displacement) < 0 {
		return false
	}

	m1 := a.Mass
	m2 := b.Mass
	total := m1 + m2
	if !(m1 > 0) || !(m2 > 0) {
		return false
	}

	angle := -math.Atan2(displacement.Y, displacement.X)

	u1 := a.Velocity.Rotate(angle)
	u2 := b.Velocity.Rotate(angle)

	v1 := types.Vector2{
		X: (u1.X*(m1-m2) + 2*m2*u2.X) / total,
		Y: u1.Y,
	}
	v2 := types.Vector2{
		X: (u2.X*(m2-m1) + 2*m1*u1.X) / total,
		Y: u2.Y,
	}

	a.Velocity = v1.Rotate(-angle)
	b.Velocity = v2.Rotate(-angle)
	return true
}
