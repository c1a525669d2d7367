package photon

import (
	"cmp"
	"math"

	"github.com/df07/go-photon-vcm/pkg/core"
)

// Photon is one deposited photon: where it landed, the power it carries,
// the density of the path that produced it and how many bounces it took.
// The zero value has no meaning until the tracer fills it in.
type Photon struct {
	Position core.Vec3 // Deposit point
	Color    core.Vec3 // Carried power (RGB)
	RayPDF   float64   // Product of sampling densities along the path
	RayDepth int       // Bounces since leaving the light
}

// Copy returns the record as stored by a photon map: Position, Color and RayPDF
// are kept verbatim and RayDepth is reset to zero. Plain assignment keeps every field.
func (p Photon) Copy() Photon {
	return Photon{
		Position: p.Position,
		Color:    p.Color,
		RayPDF:   p.RayPDF,
		RayDepth: 0,
	}
}

// Less orders photons by the x coordinate of their position.
// Photons with equal x are unordered with respect to each other regardless of y and z,
// so an index built on it must break ties on another axis.
func Less(a, b Photon) bool {
	return a.Position.X < b.Position.X
}

// Less reports whether p sorts before other; it is the same relation as the Less function
func (p Photon) Less(other Photon) bool {
	return Less(p, other)
}

// AxisLess returns the ordering by a single position axis (0=X, 1=Y, 2=Z).
// AxisLess(0) is equivalent to Less.
func AxisLess(axis int) func(a, b Photon) bool {
	return func(a, b Photon) bool {
		return a.Position.Axis(axis) < b.Position.Axis(axis)
	}
}

// Compare returns a three-way comparison by a single position axis, for slices.SortFunc
func Compare(axis int) func(a, b Photon) int {
	return func(a, b Photon) int {
		return cmp.Compare(a.Position.Axis(axis), b.Position.Axis(axis))
	}
}

// Valid reports whether the photon may be stored: a positive finite path density,
// a finite position and color, and a depth in [0, maxDepth]. A negative maxDepth
// disables the depth bound.
func (p Photon) Valid(maxDepth int) bool {
	if !(p.RayPDF > 0) || math.IsInf(p.RayPDF, 0) {
		return false
	}
	if !p.Position.IsFinite() || !p.Color.IsFinite() {
		return false
	}
	if p.RayDepth < 0 || (maxDepth >= 0 && p.RayDepth > maxDepth) {
		return false
	}
	return true
}
