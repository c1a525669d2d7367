package scene

import (
	"github.com/df07/go-photon-vcm/pkg/core"
)

// NewCornellScene creates a closed Cornell box with a ceiling light
func NewCornellScene() *Scene {
	s := NewScene()

	white := core.NewVec3(0.73, 0.73, 0.73)
	red := core.NewVec3(0.65, 0.05, 0.05)
	green := core.NewVec3(0.12, 0.45, 0.15)

	// Cornell box dimensions (standard 555x555x555 units)
	boxSize := 555.0

	// Floor - XZ plane at y=0
	s.AddSurface(core.NewVec3(0, 0, 0), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, 0, boxSize), white)
	// Ceiling - XZ plane at y=boxSize
	s.AddSurface(core.NewVec3(0, boxSize, 0), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, 0, boxSize), white)
	// Back wall - XY plane at z=boxSize
	s.AddSurface(core.NewVec3(0, 0, boxSize), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, boxSize, 0), white)
	// Front wall closes the box so photons cannot escape
	s.AddSurface(core.NewVec3(0, 0, 0), core.NewVec3(0, boxSize, 0), core.NewVec3(boxSize, 0, 0), white)
	// Left wall - YZ plane at x=0
	s.AddSurface(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, boxSize), core.NewVec3(0, boxSize, 0), red)
	// Right wall - YZ plane at x=boxSize
	s.AddSurface(core.NewVec3(boxSize, 0, 0), core.NewVec3(0, boxSize, 0), core.NewVec3(0, 0, boxSize), green)

	// Ceiling light, slightly below the ceiling and facing down
	lightSize := 130.0
	lightOffset := (boxSize - lightSize) / 2.0
	s.AddQuadLight(
		core.NewVec3(lightOffset, boxSize-1, lightOffset),
		core.NewVec3(lightSize, 0, 0),
		core.NewVec3(0, 0, lightSize),
		core.NewVec3(15.0, 15.0, 15.0),
	)

	return s
}
