package lights

import (
	"fmt"
	"sort"
)

// WeightedLightSampler selects lights with fixed, normalized weights
// Weights must match the order of the lights slice
type WeightedLightSampler struct {
	lights  []Light
	weights []float64
	cdf     []float64
}

// NewWeightedLightSampler creates a light sampler with specified weights.
// Weights are normalized to sum to 1.0; all-zero weights fall back to uniform.
func NewWeightedLightSampler(lights []Light, weights []float64) (*WeightedLightSampler, error) {
	if len(lights) != len(weights) {
		return nil, fmt.Errorf("lights length (%d) must match weights length (%d)", len(lights), len(weights))
	}

	totalWeight := 0.0
	for i, weight := range weights {
		if weight < 0 {
			return nil, fmt.Errorf("weight %d is negative: %g", i, weight)
		}
		totalWeight += weight
	}

	normalized := make([]float64, len(weights))
	for i, weight := range weights {
		if totalWeight == 0 {
			normalized[i] = 1.0 / float64(len(weights))
		} else {
			normalized[i] = weight / totalWeight
		}
	}

	cdf := make([]float64, len(normalized))
	running := 0.0
	lastPositive := len(normalized) - 1
	for i, w := range normalized {
		running += w
		cdf[i] = running
		if w > 0 {
			lastPositive = i
		}
	}
	// Pin the tail so rounding in the running sum never selects a trailing zero-weight light
	for i := lastPositive; i >= 0 && i < len(cdf); i++ {
		cdf[i] = 1
	}

	return &WeightedLightSampler{lights: lights, weights: normalized, cdf: cdf}, nil
}

// NewUniformLightSampler creates a light sampler with equal weights for all lights
func NewUniformLightSampler(lights []Light) *WeightedLightSampler {
	sampler, _ := NewWeightedLightSampler(lights, make([]float64, len(lights)))
	return sampler
}

// NewPowerLightSampler weights lights by their emitted power
func NewPowerLightSampler(lights []Light) (*WeightedLightSampler, error) {
	weights := make([]float64, len(lights))
	for i, light := range lights {
		weights[i] = light.Power()
	}
	return NewWeightedLightSampler(lights, weights)
}

// SampleLightEmission selects a light for emission sampling
// Returns the selected light, its selection probability, and its index
func (s *WeightedLightSampler) SampleLightEmission(u float64) (Light, float64, int) {
	if len(s.lights) == 0 {
		return nil, 0, -1
	}
	i := sort.SearchFloat64s(s.cdf, u)
	if i >= len(s.lights) {
		i = len(s.lights) - 1
	}
	// Skip zero-weight lights that share a CDF value with their successor
	for s.weights[i] == 0 && i < len(s.lights)-1 {
		i++
	}
	return s.lights[i], s.weights[i], i
}

// GetLightProbability returns the selection probability for a specific light
func (s *WeightedLightSampler) GetLightProbability(lightIndex int) float64 {
	if lightIndex < 0 || lightIndex >= len(s.weights) {
		return 0
	}
	return s.weights[lightIndex]
}

// GetLightCount returns the number of lights in this sampler
func (s *WeightedLightSampler) GetLightCount() int {
	return len(s.lights)
}
