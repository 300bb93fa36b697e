package rlgfx

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sparks/gfx"
)

// Program wraps a raylib shader.
type Program struct {
	name   string
	shader rl.Shader
	valid  bool
}

// Compile builds a program from source text. raylib falls back to its
// default shader when compilation or linking fails; that case is reported
// as gfx.ErrShaderCompile. The compiler log goes to raylib's trace output.
func (b *Backend) Compile(name, vertexSrc, fragmentSrc string) (gfx.Program, error) {
	shader := rl.LoadShaderFromMemory(vertexSrc, fragmentSrc)
	if shader.ID == 0 || shader.ID == rl.GetShaderIdDefault() {
		return nil, fmt.Errorf("%w: %s: see raylib log for compiler output", gfx.ErrShaderCompile, name)
	}
	return &Program{name: name, shader: shader, valid: true}, nil
}

// Shader exposes the raylib handle for tools that render with it directly.
func (p *Program) Shader() rl.Shader { return p.shader }

func (p *Program) Valid() bool { return p.valid }

func (p *Program) Uniform(name string) gfx.Location {
	return gfx.Location(rl.GetShaderLocation(p.shader, name))
}

func (p *Program) SetFloat(loc gfx.Location, v float32) {
	if loc < 0 {
		return
	}
	rl.SetShaderValue(p.shader, int32(loc), []float32{v}, rl.ShaderUniformFloat)
}

func (p *Program) SetVec2(loc gfx.Location, v [2]float32) {
	if loc < 0 {
		return
	}
	rl.SetShaderValue(p.shader, int32(loc), v[:], rl.ShaderUniformVec2)
}

// SetMat4 uploads a column-major matrix.
func (p *Program) SetMat4(loc gfx.Location, m [16]float32) {
	if loc < 0 {
		return
	}
	rl.SetShaderValueMatrix(p.shader, int32(loc), rl.Matrix{
		M0: m[0], M1: m[1], M2: m[2], M3: m[3],
		M4: m[4], M5: m[5], M6: m[6], M7: m[7],
		M8: m[8], M9: m[9], M10: m[10], M11: m[11],
		M12: m[12], M13: m[13], M14: m[14], M15: m[15],
	})
}

// Use flushes the batch and binds the program for raw vertex array draws.
func (p *Program) Use() {
	rl.DrawRenderBatchActive()
	rl.EnableShader(p.shader.ID)
}

func (p *Program) End() {
	rl.DisableShader()
}

func (p *Program) Release() {
	if p.valid {
		rl.UnloadShader(p.shader)
		p.valid = false
	}
}
