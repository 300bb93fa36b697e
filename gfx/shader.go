package gfx

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
)

var (
	// ErrShaderSource is returned when a shader source file cannot be read.
	ErrShaderSource = errors.New("gfx: shader source unavailable")
	// ErrShaderCompile is returned when a program fails to compile or link.
	ErrShaderCompile = errors.New("gfx: shader build failed")
)

// Location is a uniform slot inside a program. -1 means absent.
type Location int32

// Program is a linked shader program.
type Program interface {
	Valid() bool
	Uniform(name string) Location
	SetFloat(loc Location, v float32)
	SetVec2(loc Location, v [2]float32)
	SetMat4(loc Location, m [16]float32)
	// Use binds the program for raw draws; End restores the default one.
	Use()
	End()
	Release()
}

// Compiler builds programs from source text.
type Compiler interface {
	Compile(name, vertexSrc, fragmentSrc string) (Program, error)
}

// BlendMode selects the framebuffer blend equation.
type BlendMode uint8

const (
	BlendAlpha    BlendMode = iota // SRC_ALPHA, ONE_MINUS_SRC_ALPHA
	BlendAdditive                  // SRC_ALPHA, ONE
)

// MeshVertex is one flame quad vertex.
type MeshVertex struct {
	Pos [3]float32
	UV  [2]float32
}

// Mesh is an indexed triangle list.
type Mesh struct {
	Vertices []MeshVertex
	Indices  []uint16
}

// Backend is everything the renderers need from the graphics layer.
type Backend interface {
	Device
	Compiler
	DrawMesh(p Program, m *Mesh)
	SetBlend(mode BlendMode)
	Viewport() (width, height int)
}

// ReadSource loads shader source text from path.
func ReadSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrShaderSource, path, err)
	}
	return string(data), nil
}

// BuildProgram reads both stages and compiles them. A missing stage is
// logged and left empty, which makes the build fail; callers log the
// returned error and skip draws with the program.
func BuildProgram(c Compiler, name, vertexPath, fragmentPath string) (Program, error) {
	vs, vsErr := ReadSource(vertexPath)
	if vsErr != nil {
		slog.Error("can't open shader", "program", name, "path", vertexPath, "error", vsErr)
	}
	fs, fsErr := ReadSource(fragmentPath)
	if fsErr != nil {
		slog.Error("can't open shader", "program", name, "path", fragmentPath, "error", fsErr)
	}
	if vsErr != nil || fsErr != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrShaderCompile, name, errors.Join(vsErr, fsErr))
	}

	prog, err := c.Compile(name, vs, fs)
	if err != nil {
		slog.Error("shader build failed", "program", name, "vertex", vertexPath, "fragment", fragmentPath, "error", err)
		return nil, err
	}
	return prog, nil
}
