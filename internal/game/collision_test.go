package game

import (
	"math"
	"testing"

	"github.com/besuhoff/collision-demo-go/internal/types"
)

const epsilon = 1e-9

func newTestParticle(t *testing.T, id int, x, y, vx, vy, radius, mass float64) *types.Particle {
	t.Helper()
	p, err := types.NewParticle(id, types.Vector2{X: x, Y: y}, radius, mass, "#1abc9c")
	if err != nil {
		t.Fatalf("NewParticle() unexpected error: %v", err)
	}
	p.Velocity = types.Vector2{X: vx, Y: vy}
	return p
}

func vectorsClose(a, b types.Vector2) bool {
	return math.Abs(a.X-b.X) < epsilon && math.Abs(a.Y-b.Y) < epsilon
}

func TestResolveCollisionHeadOn(t *testing.T) {
	a := newTestParticle(t, 0, 100, 100, 2, 0, 10, 1)
	b := newTestParticle(t, 1, 120, 100, -2, 0, 10, 1)

	if !ResolveCollision(a, b) {
		t.Fatal("ResolveCollision() = false, want true for approaching particles")
	}

	if !vectorsClose(a.Velocity, types.Vector2{X: -2, Y: 0}) {
		t.Errorf("a.Velocity = %v, want (-2, 0)", a.Velocity)
	}
	if !vectorsClose(b.Velocity, types.Vector2{X: 2, Y: 0}) {
		t.Errorf("b.Velocity = %v, want (2, 0)", b.Velocity)
	}
}

func TestResolveCollisionSeparatingIsIgnored(t *testing.T) {
	tests := []struct {
		name string
		a, b [4]float64 // x, y, vx, vy
	}{
		{
			name: "moving apart along x",
			a:    [4]float64{100, 100, -1, 0},
			b:    [4]float64{115, 100, 1, 0},
		},
		{
			name: "moving apart diagonally",
			a:    [4]float64{0, 0, -1, -1},
			b:    [4]float64{10, 10, 2, 0.5},
		},
		{
			name: "one chasing but slower",
			a:    [4]float64{0, 0, 1, 0},
			b:    [4]float64{15, 0, 3, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestParticle(t, 0, tt.a[0], tt.a[1], tt.a[2], tt.a[3], 10, 1)
			b := newTestParticle(t, 1, tt.b[0], tt.b[1], tt.b[2], tt.b[3], 10, 1)
			beforeA, beforeB := a.Velocity, b.Velocity

			if ResolveCollision(a, b) {
				t.Error("ResolveCollision() = true, want false for separating particles")
			}
			if a.Velocity != beforeA || b.Velocity != beforeB {
				t.Errorf("velocities changed to %v, %v; want %v, %v", a.Velocity, b.Velocity, beforeA, beforeB)
			}
		})
	}
}

func TestResolveCollisionConservesMomentumAndEnergy(t *testing.T) {
	tests := []struct {
		name   string
		m1, m2 float64
		a, b   [4]float64
	}{
		{name: "equal masses oblique", m1: 1, m2: 1, a: [4]float64{0, 0, 3, 1}, b: [4]float64{12, 9, -1, 2}},
		{name: "light into heavy", m1: 1, m2: 3, a: [4]float64{0, 0, 4, 0}, b: [4]float64{15, 5, 0, 0}},
		{name: "heavy into light", m1: 2.5, m2: 0.5, a: [4]float64{10, 10, 1, -2}, b: [4]float64{5, -2, -3, 1}},
		{name: "vertical contact", m1: 1, m2: 2, a: [4]float64{50, 50, 0, 3}, b: [4]float64{50, 70, 0.5, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestParticle(t, 0, tt.a[0], tt.a[1], tt.a[2], tt.a[3], 10, tt.m1)
			b := newTestParticle(t, 1, tt.b[0], tt.b[1], tt.b[2], tt.b[3], 10, tt.m2)

			px := tt.m1*a.Velocity.X + tt.m2*b.Velocity.X
			py := tt.m1*a.Velocity.Y + tt.m2*b.Velocity.Y
			energy := tt.m1*a.Velocity.Dot(a.Velocity) + tt.m2*b.Velocity.Dot(b.Velocity)

			if !ResolveCollision(a, b) {
				t.Fatal("ResolveCollision() = false, want true")
			}

			gotPx := tt.m1*a.Velocity.X + tt.m2*b.Velocity.X
			gotPy := tt.m1*a.Velocity.Y + tt.m2*b.Velocity.Y
			gotEnergy := tt.m1*a.Velocity.Dot(a.Velocity) + tt.m2*b.Velocity.Dot(b.Velocity)

			if math.Abs(gotPx-px) > epsilon || math.Abs(gotPy-py) > epsilon {
				t.Errorf("momentum = (%v, %v), want (%v, %v)", gotPx, gotPy, px, py)
			}
			if math.Abs(gotEnergy-energy) > 1e-8 {
				t.Errorf("kinetic energy = %v, want %v", gotEnergy, energy)
			}
		})
	}
}

func TestResolveCollisionEqualMassExchange(t *testing.T) {
	a := newTestParticle(t, 0, 0, 0, 3, 1, 10, 1)
	b := newTestParticle(t, 1, 10, 10, -1, 2, 10, 1)

	normal := types.Vector2{X: 1 / math.Sqrt2, Y: 1 / math.Sqrt2}
	tangent := types.Vector2{X: -1 / math.Sqrt2, Y: 1 / math.Sqrt2}

	aNormal, aTangent := a.Velocity.Dot(normal), a.Velocity.Dot(tangent)
	bNormal, bTangent := b.Velocity.Dot(normal), b.Velocity.Dot(tangent)

	ResolveCollision(a, b)

	if got := a.Velocity.Dot(normal); math.Abs(got-bNormal) > epsilon {
		t.Errorf("a normal component = %v, want %v", got, bNormal)
	}
	if got := b.Velocity.Dot(normal); math.Abs(got-aNormal) > epsilon {
		t.Errorf("b normal component = %v, want %v", got, aNormal)
	}
	if got := a.Velocity.Dot(tangent); math.Abs(got-aTangent) > epsilon {
		t.Errorf("a tangent component = %v, want %v", got, aTangent)
	}
	if got := b.Velocity.Dot(tangent); math.Abs(got-bTangent) > epsilon {
		t.Errorf("b tangent component = %v, want %v", got, bTangent)
	}
}

func TestResolveCollisionRejectsInvalidMass(t *testing.T) {
	a := &types.Particle{Velocity: types.Vector2{X: 1}, Radius: 10}
	b := &types.Particle{ScreenObject: types.ScreenObject{Position: types.Vector2{X: 15}}, Velocity: types.Vector2{X: -1}, Radius: 10}

	if ResolveCollision(a, b) {
		t.Error("ResolveCollision() = true, want false for massless particles")
	}
	if a.Velocity.X != 1 || b.Velocity.X != -1 {
		t.Errorf("velocities changed to %v, %v", a.Velocity, b.Velocity)
	}
}

func TestOverlapping(t *testing.T) {
	tests := []struct {
		name     string
		rP, rQ   float64
		distance float64
		rule     OverlapRule
		expected bool
	}{
		{name: "equal radii touching", rP: 10, rQ: 10, distance: 20, rule: OverlapOtherDiameter, expected: false},
		{name: "equal radii overlapping", rP: 10, rQ: 10, distance: 19.5, rule: OverlapOtherDiameter, expected: true},
		{name: "equal radii sum rule", rP: 10, rQ: 10, distance: 19.5, rule: OverlapRadiusSum, expected: true},
		{name: "big other, diameter rule", rP: 10, rQ: 30, distance: 50, rule: OverlapOtherDiameter, expected: true},
		{name: "big other, sum rule", rP: 10, rQ: 30, distance: 50, rule: OverlapRadiusSum, expected: false},
		{name: "small other, diameter rule", rP: 30, rQ: 10, distance: 25, rule: OverlapOtherDiameter, expected: false},
		{name: "small other, sum rule", rP: 30, rQ: 10, distance: 25, rule: OverlapRadiusSum, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestParticle(t, 0, 0, 0, 0, 0, tt.rP, 1)
			q := newTestParticle(t, 1, tt.distance, 0, 0, 0, tt.rQ, 1)
			if got := Overlapping(p, q, tt.rule); got != tt.expected {
				t.Errorf("Overlapping() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseOverlapRule(t *testing.T) {
	if ParseOverlapRule("sum") != OverlapRadiusSum {
		t.Error(`ParseOverlapRule("sum") should be OverlapRadiusSum`)
	}
	if ParseOverlapRule("diameter") != OverlapOtherDiameter || ParseOverlapRule("") != OverlapOtherDiameter {
		t.Error("ParseOverlapRule should default to OverlapOtherDiameter")
	}
	if OverlapRadiusSum.String() != "sum" || OverlapOtherDiameter.String() != "diameter" {
		t.Error("OverlapRule.String() should round-trip config values")
	}
}
