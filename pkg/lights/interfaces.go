package lights

import (
	"errors"

	"github.com/df07/go-photon-vcm/pkg/core"
)

var (
	// ErrDegenerateLight is returned for lights whose edges do not span a surface
	ErrDegenerateLight = errors.New("degenerate light")
	// ErrInvalidNormal is returned when the normal is not unit length or faces against Edge1 × Edge2
	ErrInvalidNormal = errors.New("invalid light normal")
	// ErrInvalidEmission is returned for negative or non-finite emission
	ErrInvalidEmission = errors.New("invalid light emission")
)

// Light interface for emitters that can be sampled for direct lighting and photon emission
type Light interface {
	// Sample samples light toward a specific point for direct lighting
	// Returns LightSample with direction FROM shading point TO light
	Sample(point core.Vec3, sample core.Vec2) LightSample

	// PDF calculates the solid angle density for sampling a given direction toward the light
	PDF(point core.Vec3, direction core.Vec3) float64

	// SampleEmission samples emission from the light surface for photon tracing
	// Returns EmissionSample with direction FROM light surface
	SampleEmission(samplePoint core.Vec2, sampleDirection core.Vec2) EmissionSample

	// EmissionPDF returns the position (per area) and direction (per solid angle) densities
	// that SampleEmission would assign to leaving point along direction
	EmissionPDF(point core.Vec3, direction core.Vec3) (pdfPos, pdfDir float64)

	// Power returns the total emitted flux as a scalar luminance, used for light selection
	Power() float64

	// Validate rejects lights that cannot be sampled; called at scene load
	Validate() error
}

// LightSample contains information about a sampled point on a light
type LightSample struct {
	Point     core.Vec3 // Point on the light source
	Normal    core.Vec3 // Normal at the light sample point
	Direction core.Vec3 // Direction from shading point to light
	Distance  float64   // Distance to light
	Emission  core.Vec3 // Emitted light
	PDF       float64   // Probability density of this sample (solid angle)
}

// EmissionSample contains information about a sampled emission for photon tracing
type EmissionSample struct {
	Point        core.Vec3 // Point on the light surface
	Normal       core.Vec3 // Surface normal at the emission point (outward facing)
	Direction    core.Vec3 // Emission direction FROM the surface (cosine-weighted hemisphere)
	Emission     core.Vec3 // Emitted radiance at this point and direction
	AreaPDF      float64   // PDF for position sampling (per unit area)
	DirectionPDF float64   // PDF for direction sampling (per steradian)
}

// SolidAnglePDF converts a per-area density into a per-solid-angle density
// PDF_solid_angle = PDF_area * distance² / |cos(θ)|, zero when the surface is seen edge-on
func SolidAnglePDF(areaPDF, distance, cosTheta float64) float64 {
	if cosTheta < 0 {
		cosTheta = -cosTheta
	}
	if cosTheta < 1e-8 {
		return 0
	}
	return areaPDF * distance * distance / cosTheta
}
