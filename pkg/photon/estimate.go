package photon

import (
	"math"

	"github.com/df07/go-photon-vcm/pkg/core"
)

// EstimateRadiance returns the photon density estimate at point: the summed power of
// photons within radius divided by the disc area π r². When normal is non-zero, photons
// on the far side of the surface plane are excluded.
func EstimateRadiance(index Index, point, normal core.Vec3, radius float64) core.Vec3 {
	if radius <= 0 {
		return core.Vec3{}
	}

	var sum core.Vec3
	for _, p := range index.QueryNeighbors(point, radius) {
		if !normal.IsZero() && p.Position.Subtract(point).Dot(normal) < -radius*1e-3 {
			continue
		}
		sum = sum.Add(p.Color)
	}
	return sum.Multiply(1.0 / (math.Pi * radius * radius))
}
