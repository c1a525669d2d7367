package scene

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-photon-vcm/pkg/core"
	"github.com/df07/go-photon-vcm/pkg/lights"
)

const boxScene = `{
  "lights": [
    {"corner": [-1, 2, -1], "edge1": [2, 0, 0], "edge2": [0, 0, 2], "emission": [10, 10, 10]}
  ],
  "surfaces": [
    {"corner": [-5, 0, -5], "edge1": [10, 0, 0], "edge2": [0, 0, 10], "albedo": [0.5, 0.5, 0.5]}
  ],
  "tracing": {"photons": 5000, "maxDepth": 3, "seed": 9}
}`

func TestParse_Build(t *testing.T) {
	desc, err := Parse(strings.NewReader(boxScene))
	if err != nil {
		t.Fatalf("Unexpected parse error: %v", err)
	}

	s, err := desc.Build()
	if err != nil {
		t.Fatalf("Unexpected build error: %v", err)
	}

	if len(s.Lights) != 1 {
		t.Fatalf("Expected 1 light, got %d", len(s.Lights))
	}
	light := s.Lights[0]
	if light.Corner != core.NewVec3(-1, 2, -1) || light.Emission != core.NewVec3(10, 10, 10) {
		t.Errorf("Light not populated from JSON: %+v", light)
	}
	if light.Normal != core.NewVec3(0, -1, 0) {
		t.Errorf("Expected derived normal facing down, got %v", light.Normal)
	}
	// The floor plus the emitter quad
	if s.Geometry.Len() != 2 {
		t.Errorf("Expected 2 surfaces, got %d", s.Geometry.Len())
	}

	if s.Tracing.PhotonsPerPass != 5000 || s.Tracing.MaxDepth != 3 || s.Tracing.Seed != 9 {
		t.Errorf("Tracing overrides not applied: %+v", s.Tracing)
	}
	if s.Tracing.RussianRouletteDepth != 3 || s.Tracing.BatchSize != 1024 {
		t.Errorf("Defaults lost for unset fields: %+v", s.Tracing)
	}
	if len(s.Emitters()) != 1 {
		t.Errorf("Expected 1 emitter")
	}
}

func TestBuild_MaxDepthOverride(t *testing.T) {
	const light = `{"corner": [0, 1, 0], "edge1": [1, 0, 0], "edge2": [0, 0, 1], "emission": [1, 1, 1]}`

	tests := []struct {
		name     string
		tracing  string
		expected int
	}{
		{"Absent keeps default", `{}`, 8},
		{"Zero means direct deposits only", `{"maxDepth": 0}`, 0},
		{"Explicit depth", `{"maxDepth": 5}`, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc, err := Parse(strings.NewReader(`{"lights": [` + light + `], "tracing": ` + tt.tracing + `}`))
			if err != nil {
				t.Fatalf("Unexpected parse error: %v", err)
			}
			s, err := desc.Build()
			if err != nil {
				t.Fatalf("Unexpected build error: %v", err)
			}
			if s.Tracing.MaxDepth != tt.expected {
				t.Errorf("Expected MaxDepth %d, got %d", tt.expected, s.Tracing.MaxDepth)
			}
		})
	}

	negative := -1
	desc := Description{
		Lights:  []LightCfg{{Edge1: Vec3Cfg{1, 0, 0}, Edge2: Vec3Cfg{0, 0, 1}, Emission: Vec3Cfg{1, 1, 1}}},
		Tracing: TracingCfg{MaxDepth: &negative},
	}
	if _, err := desc.Build(); err == nil {
		t.Error("Expected negative maxDepth to be rejected")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"Malformed JSON", `{"lights": [`},
		{"Unknown field", `{"lights": [{"corner": [0,0,0], "edge1": [1,0,0], "edge2": [0,1,0], "emission": [1,1,1], "radius": 3}]}`},
		{"No lights", `{"surfaces": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tt.json)); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}

	if _, err := Parse(strings.NewReader(`{"lights": []}`)); !errors.Is(err, ErrNoLights) {
		t.Errorf("Expected ErrNoLights, got %v", err)
	}
}

func TestBuild_RejectsInvalidGeometry(t *testing.T) {
	tests := []struct {
		name     string
		desc     Description
		expected error
	}{
		{
			name: "Degenerate light",
			desc: Description{Lights: []LightCfg{{Edge1: Vec3Cfg{1, 0, 0}, Edge2: Vec3Cfg{2, 0, 0}, Emission: Vec3Cfg{1, 1, 1}}}},
			expected: lights.ErrDegenerateLight,
		},
		{
			name: "Normal against edge orientation",
			desc: Description{Lights: []LightCfg{{
				Edge1: Vec3Cfg{1, 0, 0}, Edge2: Vec3Cfg{0, 1, 0}, Normal: &Vec3Cfg{0, 0, -1}, Emission: Vec3Cfg{1, 1, 1},
			}}},
			expected: lights.ErrInvalidNormal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.desc.Build()
			if !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
		})
	}

	validLight := LightCfg{Edge1: Vec3Cfg{1, 0, 0}, Edge2: Vec3Cfg{0, 1, 0}, Emission: Vec3Cfg{1, 1, 1}}
	bad := []SurfaceCfg{
		{Edge1: Vec3Cfg{1, 0, 0}, Edge2: Vec3Cfg{3, 0, 0}, Albedo: Vec3Cfg{0.5, 0.5, 0.5}},
		{Edge1: Vec3Cfg{1, 0, 0}, Edge2: Vec3Cfg{0, 1, 0}, Albedo: Vec3Cfg{1.5, 0.5, 0.5}},
	}
	for i, surface := range bad {
		desc := Description{Lights: []LightCfg{validLight}, Surfaces: []SurfaceCfg{surface}}
		if _, err := desc.Build(); err == nil {
			t.Errorf("Surface %d: expected error", i)
		}
	}

	if _, err := (&Description{}).Build(); !errors.Is(err, ErrNoLights) {
		t.Errorf("Expected ErrNoLights, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.json")
	if err := os.WriteFile(path, []byte(boxScene), 0644); err != nil {
		t.Fatalf("Writing scene: %v", err)
	}

	desc, err := Load(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(desc.Lights) != 1 || len(desc.Surfaces) != 1 {
		t.Errorf("Unexpected description %+v", desc)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
}
