// Package rlgfx implements gfx.Backend on top of raylib's rlgl layer.
// All calls must happen on the thread that owns the GL context.
package rlgfx

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sparks/gfx"
)

// GL_FLOAT
const glFloat = 0x1406

// Vertices emitted per instanced point sprite (two triangles).
const spriteVertices = 6

// Backend drives raylib. Create it after rl.InitWindow.
type Backend struct{}

// New creates a raylib backend.
func New() *Backend {
	return &Backend{}
}

// AllocBuffer reserves a zero-filled vertex buffer on the GPU.
func (b *Backend) AllocBuffer(size int, usage gfx.Usage) (gfx.Buffer, error) {
	if size <= 0 || size%4 != 0 {
		return gfx.Buffer{}, fmt.Errorf("%w: size %d", gfx.ErrAllocation, size)
	}
	zero := make([]float32, size/4)
	id := rl.LoadVertexBuffer(zero, usage == gfx.UsageDynamic)
	if id == 0 {
		return gfx.Buffer{}, fmt.Errorf("%w: driver returned no buffer for %d bytes", gfx.ErrAllocation, size)
	}
	return gfx.Buffer{ID: id, Size: size}, nil
}

// UpdateBuffer uploads data at a byte offset (glBufferSubData).
func (b *Backend) UpdateBuffer(buf gfx.Buffer, offset int, data []float32) error {
	if offset < 0 || offset+len(data)*4 > buf.Size {
		return fmt.Errorf("rlgfx: update [%d,%d) out of bounds for buffer of %d bytes", offset, offset+len(data)*4, buf.Size)
	}
	rl.UpdateVertexBuffer(buf.ID, data, int32(offset))
	return nil
}

// BindLayout creates a VAO with one per-instance attribute per entry.
func (b *Backend) BindLayout(buf gfx.Buffer, attrs []gfx.Attribute, stride int) (gfx.VertexArray, error) {
	vao := rl.LoadVertexArray()
	if vao == 0 {
		return gfx.VertexArray{}, fmt.Errorf("rlgfx: vertex arrays unsupported")
	}
	rl.EnableVertexArray(vao)
	rl.EnableVertexBuffer(buf.ID)
	for _, a := range attrs {
		rl.SetVertexAttribute(a.Location, int32(a.Components), glFloat, false, int32(stride), int32(a.Offset))
		rl.EnableVertexAttribute(a.Location)
		rl.SetVertexAttributeDivisor(a.Location, 1)
	}
	rl.DisableVertexArray()
	rl.DisableVertexBuffer()
	return gfx.VertexArray{ID: vao, Buffer: buf, Stride: stride}, nil
}

// DrawPoints draws count instanced sprites. The vertex shader expands each
// instance into a quad from gl_VertexID.
func (b *Backend) DrawPoints(va gfx.VertexArray, count int) {
	if count <= 0 {
		return
	}
	rl.EnableVertexArray(va.ID)
	rl.DrawVertexArrayInstanced(0, spriteVertices, int32(count))
	rl.DisableVertexArray()
}

func (b *Backend) ReleaseBuffer(buf gfx.Buffer) {
	rl.UnloadVertexBuffer(buf.ID)
}

func (b *Backend) ReleaseVertexArray(va gfx.VertexArray) {
	rl.UnloadVertexArray(va.ID)
}

// DrawMesh submits an indexed triangle list through raylib's batch with p bound.
func (b *Backend) DrawMesh(p gfx.Program, m *gfx.Mesh) {
	prog, ok := p.(*Program)
	if !ok || !prog.Valid() {
		return
	}
	rl.BeginShaderMode(prog.shader)
	rl.Begin(rl.Triangles)
	rl.Color4ub(255, 255, 255, 255)
	for _, idx := range m.Indices {
		v := m.Vertices[idx]
		rl.TexCoord2f(v.UV[0], v.UV[1])
		rl.Vertex3f(v.Pos[0], v.Pos[1], v.Pos[2])
	}
	rl.End()
	rl.EndShaderMode()
}

// SetBlend flushes pending batch geometry and switches blend equations.
func (b *Backend) SetBlend(mode gfx.BlendMode) {
	rl.DrawRenderBatchActive()
	switch mode {
	case gfx.BlendAdditive:
		rl.SetBlendMode(rl.BlendAdditive)
	default:
		rl.SetBlendMode(rl.BlendAlpha)
	}
}

// Viewport returns the current render size.
func (b *Backend) Viewport() (int, int) {
	return rl.GetRenderWidth(), rl.GetRenderHeight()
}
