package utils

import "math"

// Distance returns the Euclidean distance between two points
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// Collision detection helpers
func CheckCircleCollision(x1, y1, r1, x2, y2, r2 float64) bool {
	return Distance(x1, y1, x2, y2) < r1+r2
}

// CheckCircleInBounds reports whether a circle lies fully inside [0,w]x[0,h]
func CheckCircleInBounds(cx, cy, r, w, h float64) bool {
	return cx-r >= 0 && cx+r <= w && cy-r >= 0 && cy+r <= h
}

func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
