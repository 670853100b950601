package ops

import (
	"math/rand/v2"
)

// Sampler keeps a fraction of ops events per action. Rates are fixed at
// construction and clamped to [0, 1].
type Sampler struct {
	fallback float64
	rates    map[string]float64
	draw     func() float64
}

// NewSampler keeps events at fallback unless overrides names the action.
func NewSampler(fallback float64, overrides map[string]float64) *Sampler {
	rates := make(map[string]float64, len(overrides))
	for action, rate := range overrides {
		rates[action] = clamp(rate)
	}
	return &Sampler{
		fallback: clamp(fallback),
		rates:    rates,
		draw:     rand.Float64, //nolint:gosec // sampling only
	}
}

// Keep reports whether an event with this action should be recorded.
func (s *Sampler) Keep(action string) bool {
	rate, ok := s.rates[action]
	if !ok {
		rate = s.fallback
	}
	switch rate {
	case 0:
		return false
	case 1:
		return true
	}
	return s.draw() < rate
}

func clamp(rate float64) float64 {
	return min(max(rate, 0), 1)
}
