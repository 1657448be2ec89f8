package game

import (
	"math/rand"
	"time"
)

// RandomSource supplies the randomness used for placement, velocity and color
type RandomSource interface {
	// IntRange returns a uniform integer in [min, max]
	IntRange(min, max int) int
	// Float64 returns a uniform float in [0, 1)
	Float64() float64
}

type mathRandSource struct {
	r *rand.Rand
}

// NewRandomSource returns a math/rand backed source; seed 0 seeds from the clock
func NewRandomSource(seed int64) RandomSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &mathRandSource{r: rand.New(rand.NewSource(seed))}
}

func (s *mathRandSource) IntRange(min, max int) int {
	if max <= min {
		return min
	}
	return s.r.Intn(max-min+1) + min
}

func (s *mathRandSource) Float64() float64 {
	return s.r.Float64()
}
