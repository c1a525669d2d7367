package lights

import (
	"fmt"
	"math"

	"github.com/df07/go-photon-vcm/pkg/core"
	"github.com/df07/go-photon-vcm/pkg/geometry"
)

// ParallelogramLight represents a planar parallelogram area light.
// It must not be mutated once rendering begins.
type ParallelogramLight struct {
	geometry.Parallelogram           // Corner, Edge1, Edge2
	Normal                 core.Vec3 // Outward-facing unit normal
	Emission               core.Vec3 // Radiant emittance (RGB)
}

// NewParallelogramLight creates a light whose normal follows Edge1 × Edge2
func NewParallelogramLight(corner, edge1, edge2, emission core.Vec3) *ParallelogramLight {
	p := geometry.NewParallelogram(corner, edge1, edge2)
	return &ParallelogramLight{
		Parallelogram: p,
		Normal:        p.GeometricNormal(),
		Emission:      emission,
	}
}

// Area returns |(Edge1/|Edge1|²) × (Edge2/|Edge2|²)|.
// Each edge is scaled by its inverse squared length before the cross product,
// so a rectangle with sides a and b yields 1/(a*b) and unit edges yield 1.
// SurfaceArea returns the conventional |Edge1 × Edge2|.
func (l *ParallelogramLight) Area() float64 {
	e1 := l.Edge1.Divide(l.Edge1.Dot(l.Edge1))
	e2 := l.Edge2.Divide(l.Edge2.Dot(l.Edge2))
	return e1.Cross(e2).Length()
}

// AreaPDF returns 1/Area(), the per-area density the light-sampling contract is stated in
func (l *ParallelogramLight) AreaPDF() float64 {
	return 1.0 / l.Area()
}

// SurfacePDF returns the density of uniform sampling over the actual surface, 1/|Edge1 × Edge2|
func (l *ParallelogramLight) SurfacePDF() float64 {
	return 1.0 / l.SurfaceArea()
}

// SamplePoint maps (u, v) in [0,1)² to Corner + u*Edge1 + v*Edge2
func (l *ParallelogramLight) SamplePoint(u, v float64) core.Vec3 {
	return l.PointAt(u, v)
}

// Power implements the Light interface - flux of a one-sided Lambertian emitter, π·L·A
func (l *ParallelogramLight) Power() float64 {
	return math.Pi * max(0, l.Emission.Luminance()) * l.SurfaceArea()
}

// Validate rejects zero-area, badly oriented or non-physical lights
func (l *ParallelogramLight) Validate() error {
	cross := l.Edge1.Cross(l.Edge2)
	if cross.Length() < 1e-12 {
		return fmt.Errorf("%w: edges %v and %v are parallel or zero", ErrDegenerateLight, l.Edge1, l.Edge2)
	}
	if area := l.Area(); !(area > 0) || math.IsInf(area, 0) {
		return fmt.Errorf("%w: area %g", ErrDegenerateLight, area)
	}
	if math.Abs(l.Normal.Length()-1) > 1e-6 {
		return fmt.Errorf("%w: |normal| = %g", ErrInvalidNormal, l.Normal.Length())
	}
	if l.Normal.Dot(cross) <= 0 {
		return fmt.Errorf("%w: normal %v opposes edge1 × edge2", ErrInvalidNormal, l.Normal)
	}
	if !l.Emission.IsFinite() || l.Emission.X < 0 || l.Emission.Y < 0 || l.Emission.Z < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidEmission, l.Emission)
	}
	return nil
}

// Sample implements the Light interface - samples a point on the light for direct lighting
func (l *ParallelogramLight) Sample(point core.Vec3, sample core.Vec2) LightSample {
	samplePoint := l.SamplePoint(sample.X, sample.Y)

	toLight := samplePoint.Subtract(point)
	distance := toLight.Length()
	direction := toLight.Multiply(1.0 / distance)

	cosTheta := l.Normal.Dot(direction.Negate())
	pdf := SolidAnglePDF(l.SurfacePDF(), distance, cosTheta)

	// Only emit from front face, direction opposes the normal there
	var emission core.Vec3
	if pdf > 0 && direction.Dot(l.Normal) < 0 {
		emission = l.Emission
	}

	return LightSample{
		Point:     samplePoint,
		Normal:    l.Normal,
		Direction: direction,
		Distance:  distance,
		Emission:  emission,
		PDF:       pdf,
	}
}

// PDF implements the Light interface - returns the solid angle density for sampling a given direction
func (l *ParallelogramLight) PDF(point, direction core.Vec3) float64 {
	dir := direction.Normalize()
	hit, ok := l.Intersect(core.NewRay(point, dir), 0.001, math.Inf(1))
	if !ok {
		return 0.0
	}
	cosTheta := l.Normal.Dot(dir.Negate())
	return SolidAnglePDF(l.SurfacePDF(), hit.T, cosTheta)
}

// SampleEmission implements the Light interface - samples an emission point and direction
func (l *ParallelogramLight) SampleEmission(samplePoint core.Vec2, sampleDirection core.Vec2) EmissionSample {
	point := l.SamplePoint(samplePoint.X, samplePoint.Y)
	emissionDir := core.SampleCosineHemisphere(l.Normal, sampleDirection)

	return EmissionSample{
		Point:        point,
		Normal:       l.Normal,
		Direction:    emissionDir,
		Emission:     l.Emission,
		AreaPDF:      l.SurfacePDF(),
		DirectionPDF: core.CosineHemispherePDF(emissionDir.Dot(l.Normal)),
	}
}

// EmissionPDF implements the Light interface - returns position and directional densities
func (l *ParallelogramLight) EmissionPDF(point core.Vec3, direction core.Vec3) (pdfPos, pdfDir float64) {
	if _, _, ok := l.Locate(point); !ok {
		return 0.0, 0.0
	}
	return l.SurfacePDF(), core.CosineHemispherePDF(direction.Dot(l.Normal))
}
