package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-photon-vcm/pkg/core"
)

func TestParallelogram_Intersect_BasicIntersection(t *testing.T) {
	// 1x1 patch in the XZ plane at y=0
	p := NewParallelogram(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1))

	ray := core.NewRay(core.NewVec3(0.5, 1, 0.5), core.NewVec3(0, -1, 0))
	hit, ok := p.Intersect(ray, 0.001, 1000.0)
	if !ok {
		t.Fatal("Expected hit, but got miss")
	}

	const tolerance = 1e-9
	if math.Abs(hit.T-1.0) > tolerance {
		t.Errorf("Expected t=1, got t=%f", hit.T)
	}
	if hit.Point.Subtract(core.NewVec3(0.5, 0, 0.5)).Length() > tolerance {
		t.Errorf("Expected hit point (0.5,0,0.5), got %v", hit.Point)
	}
	if math.Abs(hit.Alpha-0.5) > tolerance || math.Abs(hit.Beta-0.5) > tolerance {
		t.Errorf("Expected alpha=beta=0.5, got %f, %f", hit.Alpha, hit.Beta)
	}
}

func TestParallelogram_Intersect_Misses(t *testing.T) {
	p := NewParallelogram(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1))

	tests := []struct {
		name      string
		rayOrigin core.Vec3
		rayDir    core.Vec3
	}{
		{"outside X bounds", core.NewVec3(-0.5, 1, 0.5), core.NewVec3(0, -1, 0)},
		{"outside Z bounds", core.NewVec3(0.5, 1, 1.5), core.NewVec3(0, -1, 0)},
		{"parallel to plane", core.NewVec3(0.5, 1, 0.5), core.NewVec3(1, 0, 0)},
		{"pointing away", core.NewVec3(0.5, 1, 0.5), core.NewVec3(0, 1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := p.Intersect(core.NewRay(tt.rayOrigin, tt.rayDir), 0.001, 1000.0); ok {
				t.Error("Expected miss, got hit")
			}
		})
	}
}

func TestParallelogram_Locate(t *testing.T) {
	p := NewParallelogram(core.NewVec3(1, 1, 1), core.NewVec3(2, 0, 0), core.NewVec3(0, 3, 0))

	alpha, beta, ok := p.Locate(p.PointAt(0.25, 0.75))
	if !ok {
		t.Fatal("Expected point on patch")
	}
	if math.Abs(alpha-0.25) > 1e-9 || math.Abs(beta-0.75) > 1e-9 {
		t.Errorf("Expected (0.25, 0.75), got (%f, %f)", alpha, beta)
	}

	if _, _, ok := p.Locate(core.NewVec3(2, 2, 1.5)); ok {
		t.Error("Point off the plane should not be located")
	}
	if _, _, ok := p.Locate(core.NewVec3(4, 2, 1)); ok {
		t.Error("Point outside bounds should not be located")
	}
}

func TestParallelogram_SurfaceAreaAndBounds(t *testing.T) {
	p := NewParallelogram(core.NewVec3(0, 0, 0), core.NewVec3(2, 0, 0), core.NewVec3(0, 5, 0))
	if got := p.SurfaceArea(); math.Abs(got-10) > 1e-12 {
		t.Errorf("Expected area 10, got %f", got)
	}
	bounds := p.Bounds()
	if bounds.Min != core.NewVec3(0, 0, 0) || bounds.Max != core.NewVec3(2, 5, 0) {
		t.Errorf("Unexpected bounds %v", bounds)
	}
	if got := p.GeometricNormal(); got != core.NewVec3(0, 0, 1) {
		t.Errorf("Expected +Z normal, got %v", got)
	}
}
