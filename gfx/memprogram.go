package gfx

import (
	"fmt"
	"strings"
)

// MemProgram records uniform writes instead of sending them to a GPU.
type MemProgram struct {
	Name     string
	locs     map[string]Location
	Floats   map[Location]float32
	Vec2s    map[Location][2]float32
	Mat4s    map[Location][16]float32
	released bool
}

func newMemProgram(name string) *MemProgram {
	return &MemProgram{
		Name:   name,
		locs:   make(map[string]Location),
		Floats: make(map[Location]float32),
		Vec2s:  make(map[Location][2]float32),
		Mat4s:  make(map[Location][16]float32),
	}
}

func (p *MemProgram) Valid() bool { return !p.released }

// Uniform hands out stable locations in request order.
func (p *MemProgram) Uniform(name string) Location {
	if loc, ok := p.locs[name]; ok {
		return loc
	}
	loc := Location(len(p.locs))
	p.locs[name] = loc
	return loc
}

func (p *MemProgram) SetFloat(loc Location, v float32)    { p.Floats[loc] = v }
func (p *MemProgram) SetVec2(loc Location, v [2]float32)  { p.Vec2s[loc] = v }
func (p *MemProgram) SetMat4(loc Location, m [16]float32) { p.Mat4s[loc] = m }
func (p *MemProgram) Use()                                {}
func (p *MemProgram) End()                                {}
func (p *MemProgram) Release()                            { p.released = true }

// Float returns the last value written to the named uniform.
func (p *MemProgram) Float(name string) (float32, bool) {
	loc, ok := p.locs[name]
	if !ok {
		return 0, false
	}
	v, ok := p.Floats[loc]
	return v, ok
}

// Compile accepts any non-empty source. Sources containing "#error" fail,
// which lets tests exercise the compile-failure path.
func (d *MemDevice) Compile(name, vertexSrc, fragmentSrc string) (Program, error) {
	for stage, src := range map[string]string{"vertex": vertexSrc, "fragment": fragmentSrc} {
		if strings.TrimSpace(src) == "" {
			return nil, fmt.Errorf("%w: %s: empty %s stage", ErrShaderCompile, name, stage)
		}
		if strings.Contains(src, "#error") {
			return nil, fmt.Errorf("%w: %s: %s stage: #error directive", ErrShaderCompile, name, stage)
		}
	}
	prog := newMemProgram(name)
	d.Programs = append(d.Programs, prog)
	return prog, nil
}

// DrawMesh records the mesh draw.
func (d *MemDevice) DrawMesh(p Program, m *Mesh) {
	d.MeshDraws = append(d.MeshDraws, len(m.Indices))
}

// SetBlend records the blend mode.
func (d *MemDevice) SetBlend(mode BlendMode) {
	d.Blend = mode
}

// Viewport returns the configured framebuffer size.
func (d *MemDevice) Viewport() (int, int) {
	return d.Width, d.Height
}
