package scene

import (
	"github.com/df07/go-photon-vcm/pkg/core"
	"github.com/df07/go-photon-vcm/pkg/geometry"
	"github.com/df07/go-photon-vcm/pkg/lights"
	"github.com/df07/go-photon-vcm/pkg/tracer"
)

// Scene holds everything a photon pass needs: emitters, diffuse geometry and tracing settings
type Scene struct {
	Lights   []*lights.ParallelogramLight
	Geometry *QuadScene
	Tracing  tracer.Config
}

// NewScene creates an empty scene with default tracing settings
func NewScene() *Scene {
	return &Scene{
		Geometry: NewQuadScene(nil),
		Tracing:  tracer.DefaultConfig(),
	}
}

// AddQuadLight adds a parallelogram light whose normal follows u × v. The emitter is also
// added to the geometry as a black surface, so photons reaching it are absorbed.
func (s *Scene) AddQuadLight(corner, u, v, emission core.Vec3) *lights.ParallelogramLight {
	light := lights.NewParallelogramLight(corner, u, v, emission)
	s.Lights = append(s.Lights, light)
	s.Geometry.Add(Surface{Parallelogram: light.Parallelogram})
	return light
}

// AddSurface adds a diffuse parallelogram
func (s *Scene) AddSurface(corner, u, v, albedo core.Vec3) {
	s.Geometry.Add(Surface{
		Parallelogram: geometry.NewParallelogram(corner, u, v),
		Albedo:        albedo,
	})
}

// Emitters returns the lights behind the generic light interface
func (s *Scene) Emitters() []lights.Light {
	emitters := make([]lights.Light, len(s.Lights))
	for i, light := range s.Lights {
		emitters[i] = light
	}
	return emitters
}
