package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/sparks/camera"
	"github.com/pthm-cable/sparks/gfx"
)

// FlameQuad is the unit quad the fire shader is painted on.
var FlameQuad = gfx.Mesh{
	Vertices: []gfx.MeshVertex{
		{Pos: [3]float32{-1, -1, 0}, UV: [2]float32{0, 0}},
		{Pos: [3]float32{1, -1, 0}, UV: [2]float32{1, 0}},
		{Pos: [3]float32{1, 1, 0}, UV: [2]float32{1, 1}},
		{Pos: [3]float32{-1, 1, 0}, UV: [2]float32{0, 1}},
	},
	Indices: []uint16{0, 1, 2, 0, 2, 3},
}

// FlameRenderer draws the shader-driven flame quad.
type FlameRenderer struct {
	backend gfx.Backend
	program gfx.Program
	world   mgl32.Mat4

	timeLoc     gfx.Location
	viewProjLoc gfx.Location
	worldMatLoc gfx.Location
}

// NewFlameRenderer builds the fire program. On failure the flame is skipped
// and the rest of the frame still renders.
func NewFlameRenderer(backend gfx.Backend, vertexPath, fragmentPath string) *FlameRenderer {
	r := &FlameRenderer{backend: backend, world: mgl32.Ident4(), timeLoc: -1, viewProjLoc: -1, worldMatLoc: -1}

	prog, err := gfx.BuildProgram(backend, "fire", vertexPath, fragmentPath)
	if err != nil {
		return r
	}
	r.program = prog
	r.timeLoc = prog.Uniform("Time")
	r.viewProjLoc = prog.Uniform("ViewProjMatrix")
	r.worldMatLoc = prog.Uniform("WorldMatrix")
	return r
}

// Ready reports whether the fire program built.
func (r *FlameRenderer) Ready() bool {
	return r.program != nil && r.program.Valid()
}

// Draw renders the quad. Returns false when the program is unusable.
func (r *FlameRenderer) Draw(now float32, cam *camera.Camera) bool {
	if !r.Ready() {
		return false
	}
	r.program.SetFloat(r.timeLoc, now)
	r.program.SetMat4(r.viewProjLoc, cam.ViewProjection())
	r.program.SetMat4(r.worldMatLoc, r.world)
	r.backend.DrawMesh(r.program, &FlameQuad)
	return true
}

// Unload releases the program.
func (r *FlameRenderer) Unload() {
	if r.program != nil {
		r.program.Release()
	}
}
