package scene

import (
	"github.com/df07/go-photon-vcm/pkg/core"
	"github.com/df07/go-photon-vcm/pkg/geometry"
	"github.com/df07/go-photon-vcm/pkg/tracer"
)

// Surface is a diffuse parallelogram
type Surface struct {
	geometry.Parallelogram
	Albedo core.Vec3
}

// QuadScene intersects rays against a list of surfaces by linear search.
// It is meant for small scenes; it is read-only once tracing starts.
type QuadScene struct {
	surfaces []Surface
	bounds   core.AABB
}

// NewQuadScene creates a scene from surfaces
func NewQuadScene(surfaces []Surface) *QuadScene {
	qs := &QuadScene{}
	for _, s := range surfaces {
		qs.Add(s)
	}
	return qs
}

// Add appends a surface
func (qs *QuadScene) Add(surface Surface) {
	if len(qs.surfaces) == 0 {
		qs.bounds = surface.Bounds()
	} else {
		qs.bounds = qs.bounds.Union(surface.Bounds())
	}
	qs.surfaces = append(qs.surfaces, surface)
}

// Len returns the number of surfaces
func (qs *QuadScene) Len() int {
	return len(qs.surfaces)
}

// Bounds returns the box around all surfaces
func (qs *QuadScene) Bounds() core.AABB {
	return qs.bounds
}

// Intersect implements tracer.Scene by returning the closest surface hit
func (qs *QuadScene) Intersect(ray core.Ray, tMin, tMax float64) (tracer.Interaction, bool) {
	var closest tracer.Interaction
	hitAnything := false
	closestSoFar := tMax

	for _, s := range qs.surfaces {
		hit, ok := s.Intersect(ray, tMin, closestSoFar)
		if !ok {
			continue
		}
		hitAnything = true
		closestSoFar = hit.T
		closest = tracer.Interaction{
			T:      hit.T,
			Point:  hit.Point,
			Normal: s.GeometricNormal(),
			Albedo: s.Albedo,
		}
	}

	return closest, hitAnything
}
