package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/df07/go-photon-vcm/pkg/core"
	"github.com/df07/go-photon-vcm/pkg/tracer"
)

// ErrNoLights is returned for descriptions without any light
var ErrNoLights = errors.New("scene has no lights")

// Vec3Cfg is a vector written as a JSON array [x, y, z]
type Vec3Cfg [3]float64

// Vec3 converts to the core vector type
func (v Vec3Cfg) Vec3() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// LightCfg describes a parallelogram light
type LightCfg struct {
	Corner   Vec3Cfg  `json:"corner"`
	Edge1    Vec3Cfg  `json:"edge1"`
	Edge2    Vec3Cfg  `json:"edge2"`
	Normal   *Vec3Cfg `json:"normal,omitempty"` // defaults to normalize(edge1 × edge2)
	Emission Vec3Cfg  `json:"emission"`
}

// SurfaceCfg describes a diffuse parallelogram
type SurfaceCfg struct {
	Corner Vec3Cfg `json:"corner"`
	Edge1  Vec3Cfg `json:"edge1"`
	Edge2  Vec3Cfg `json:"edge2"`
	Albedo Vec3Cfg `json:"albedo"`
}

// TracingCfg overrides tracer defaults; zero fields keep the default.
// A nil MaxDepth keeps the default; 0 stores direct deposits only.
type TracingCfg struct {
	Photons              int   `json:"photons,omitempty"`
	MaxDepth             *int  `json:"maxDepth,omitempty"`
	Workers              int   `json:"workers,omitempty"`
	Seed                 int64 `json:"seed,omitempty"`
	RussianRouletteDepth int   `json:"russianRouletteDepth,omitempty"`
}

// Description is the JSON scene file
type Description struct {
	Lights   []LightCfg   `json:"lights"`
	Surfaces []SurfaceCfg `json:"surfaces,omitempty"`
	Tracing  TracingCfg   `json:"tracing"`
}

// Load reads a scene description from a JSON file
func Load(path string) (*Description, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	desc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return desc, nil
}

// Parse decodes a scene description, rejecting unknown fields
func Parse(r io.Reader) (*Description, error) {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()

	var desc Description
	if err := decoder.Decode(&desc); err != nil {
		return nil, fmt.Errorf("decoding scene: %w", err)
	}
	if len(desc.Lights) == 0 {
		return nil, ErrNoLights
	}
	return &desc, nil
}

// Build validates every light and surface and constructs the scene
func (d *Description) Build() (*Scene, error) {
	if len(d.Lights) == 0 {
		return nil, ErrNoLights
	}

	s := NewScene()
	for i, lc := range d.Lights {
		light := s.AddQuadLight(lc.Corner.Vec3(), lc.Edge1.Vec3(), lc.Edge2.Vec3(), lc.Emission.Vec3())
		if lc.Normal != nil {
			light.Normal = lc.Normal.Vec3()
		}
		if err := light.Validate(); err != nil {
			return nil, fmt.Errorf("light %d: %w", i, err)
		}
	}

	for i, sc := range d.Surfaces {
		edge1, edge2 := sc.Edge1.Vec3(), sc.Edge2.Vec3()
		if edge1.Cross(edge2).Length() < 1e-12 {
			return nil, fmt.Errorf("surface %d: edges %v and %v do not span an area", i, edge1, edge2)
		}
		albedo := sc.Albedo.Vec3()
		if !albedo.IsFinite() || albedo.X < 0 || albedo.Y < 0 || albedo.Z < 0 || albedo.MaxComponent() > 1 {
			return nil, fmt.Errorf("surface %d: albedo %v outside [0, 1]", i, albedo)
		}
		s.AddSurface(sc.Corner.Vec3(), edge1, edge2, albedo)
	}

	s.Tracing = d.Tracing.apply(tracer.DefaultConfig())
	if err := s.Tracing.Validate(); err != nil {
		return nil, fmt.Errorf("tracing: %w", err)
	}
	return s, nil
}

// apply overlays non-zero fields, and MaxDepth when present, onto config
func (tc TracingCfg) apply(config tracer.Config) tracer.Config {
	if tc.Photons > 0 {
		config.PhotonsPerPass = tc.Photons
	}
	if tc.MaxDepth != nil {
		config.MaxDepth = *tc.MaxDepth
	}
	if tc.Workers > 0 {
		config.NumWorkers = tc.Workers
	}
	if tc.Seed != 0 {
		config.Seed = tc.Seed
	}
	if tc.RussianRouletteDepth > 0 {
		config.RussianRouletteDepth = tc.RussianRouletteDepth
	}
	return config
}
