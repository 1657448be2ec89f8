package utils

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name     string
		x1, y1   float64
		x2, y2   float64
		expected float64
	}{
		{name: "3-4-5 triangle", x1: 0, y1: 0, x2: 3, y2: 4, expected: 5},
		{name: "same point", x1: 7, y1: -2, x2: 7, y2: -2, expected: 0},
		{name: "horizontal", x1: 100, y1: 100, x2: 120, y2: 100, expected: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Distance(tt.x1, tt.y1, tt.x2, tt.y2)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("Distance() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestCheckCircleCollision(t *testing.T) {
	tests := []struct {
		name     string
		x1, y1   float64
		r1       float64
		x2, y2   float64
		r2       float64
		expected bool
	}{
		{
			name: "overlapping circles",
			x1:   0, y1: 0, r1: 5,
			x2: 3, y2: 4, r2: 5,
			expected: true,
		},
		{
			name: "non-overlapping circles",
			x1:   0, y1: 0, r1: 5,
			x2: 20, y2: 20, r2: 5,
			expected: false,
		},
		{
			name: "touching circles",
			x1:   0, y1: 0, r1: 5,
			x2: 10, y2: 0, r2: 5,
			expected: false,
		},
		{
			name: "one inside another",
			x1:   0, y1: 0, r1: 10,
			x2: 0, y2: 0, r2: 5,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CheckCircleCollision(tt.x1, tt.y1, tt.r1, tt.x2, tt.y2, tt.r2)
			if result != tt.expected {
				t.Errorf("CheckCircleCollision() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestCheckCircleInBounds(t *testing.T) {
	tests := []struct {
		name     string
		cx, cy   float64
		r        float64
		expected bool
	}{
		{name: "centered", cx: 50, cy: 50, r: 10, expected: true},
		{name: "touching left edge", cx: 10, cy: 50, r: 10, expected: true},
		{name: "crossing right edge", cx: 95, cy: 50, r: 10, expected: false},
		{name: "crossing top edge", cx: 50, cy: 5, r: 10, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CheckCircleInBounds(tt.cx, tt.cy, tt.r, 100, 100)
			if result != tt.expected {
				t.Errorf("CheckCircleInBounds() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(-0.01, 0, 0.2); got != 0 {
		t.Errorf("Clamp() = %v, want 0", got)
	}
	if got := Clamp(0.3, 0, 0.2); got != 0.2 {
		t.Errorf("Clamp() = %v, want 0.2", got)
	}
	if got := Clamp(0.1, 0, 0.2); got != 0.1 {
		t.Errorf("Clamp() = %v, want 0.1", got)
	}
}
