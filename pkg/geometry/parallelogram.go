package geometry

import (
	"math"

	"github.com/df07/go-photon-vcm/pkg/core"
)

// Parallelogram is a planar patch spanned by two edge vectors from a corner
type Parallelogram struct {
	Corner core.Vec3 // One vertex of the parallelogram
	Edge1  core.Vec3 // First edge vector from Corner
	Edge2  core.Vec3 // Second edge vector from Corner
}

// Hit holds the parametric result of a ray-parallelogram intersection
type Hit struct {
	T     float64   // Ray parameter of the hit
	Point core.Vec3 // World-space hit point
	Alpha float64   // Coordinate along Edge1, in [0, 1]
	Beta  float64   // Coordinate along Edge2, in [0, 1]
}

// NewParallelogram creates a parallelogram from a corner and two edge vectors
func NewParallelogram(corner, edge1, edge2 core.Vec3) Parallelogram {
	return Parallelogram{Corner: corner, Edge1: edge1, Edge2: edge2}
}

// GeometricNormal returns the unit normal implied by Edge1 × Edge2
func (p Parallelogram) GeometricNormal() core.Vec3 {
	return p.Edge1.Cross(p.Edge2).Normalize()
}

// SurfaceArea returns |Edge1 × Edge2|
func (p Parallelogram) SurfaceArea() float64 {
	return p.Edge1.Cross(p.Edge2).Length()
}

// PointAt returns Corner + u*Edge1 + v*Edge2
func (p Parallelogram) PointAt(u, v float64) core.Vec3 {
	return p.Corner.Add(p.Edge1.Multiply(u)).Add(p.Edge2.Multiply(v))
}

// Bounds returns the axis-aligned box around the four vertices
func (p Parallelogram) Bounds() core.AABB {
	return core.NewAABBFromPoints(
		p.Corner,
		p.Corner.Add(p.Edge1),
		p.Corner.Add(p.Edge2),
		p.Corner.Add(p.Edge1).Add(p.Edge2),
	)
}

// Intersect tests if a ray hits the parallelogram within [tMin, tMax]
func (p Parallelogram) Intersect(ray core.Ray, tMin, tMax float64) (Hit, bool) {
	cross := p.Edge1.Cross(p.Edge2)
	normal := cross.Normalize()

	// If denominator is close to zero, ray is parallel to the plane
	denominator := ray.Direction.Dot(normal)
	if math.Abs(denominator) < 1e-8 {
		return Hit{}, false
	}

	d := normal.Dot(p.Corner)
	t := (d - ray.Origin.Dot(normal)) / denominator
	if t < tMin || t > tMax {
		return Hit{}, false
	}

	hitPoint := ray.At(t)
	hitVector := hitPoint.Subtract(p.Corner)

	// w = n / (n · (e1 × e2)) gives planar coordinates directly
	w := normal.Multiply(1.0 / normal.Dot(cross))
	alpha := w.Dot(hitVector.Cross(p.Edge2))
	beta := w.Dot(p.Edge1.Cross(hitVector))

	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return Hit{}, false
	}

	return Hit{T: t, Point: hitPoint, Alpha: alpha, Beta: beta}, true
}

// Locate solves point = Corner + alpha*Edge1 + beta*Edge2 and reports whether the
// point lies on the patch (within tolerance of the plane and inside the bounds)
func (p Parallelogram) Locate(point core.Vec3) (alpha, beta float64, ok bool) {
	toPoint := point.Subtract(p.Corner)

	e1e1 := p.Edge1.Dot(p.Edge1)
	e2e2 := p.Edge2.Dot(p.Edge2)
	e1e2 := p.Edge1.Dot(p.Edge2)
	if e1e1 == 0 || e2e2 == 0 {
		return 0, 0, false
	}

	det := e1e1*e2e2 - e1e2*e1e2
	if math.Abs(det) < 1e-8 {
		return 0, 0, false
	}

	toDotE1 := toPoint.Dot(p.Edge1)
	toDotE2 := toPoint.Dot(p.Edge2)
	alpha = (e2e2*toDotE1 - e1e2*toDotE2) / det
	beta = (e1e1*toDotE2 - e1e2*toDotE1) / det

	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return 0, 0, false
	}

	if p.PointAt(alpha, beta).Subtract(point).Length() > 0.001 {
		return 0, 0, false
	}
	return alpha, beta, true
}
