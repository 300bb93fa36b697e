// Package gfx is the thin graphics-device layer the particle stream talks to.
// The raylib implementation drives the GPU; MemDevice records calls for
// headless runs and tests.
package gfx

import "errors"

// ErrAllocation is returned when the device cannot allocate a buffer.
var ErrAllocation = errors.New("gfx: buffer allocation failed")

// Usage hints how a buffer will be updated.
type Usage uint8

const (
	UsageStatic  Usage = iota // written once
	UsageDynamic              // frequent partial updates
)

// Buffer identifies a device-resident vertex buffer.
type Buffer struct {
	ID   uint32
	Size int // bytes
}

// VertexArray identifies an attribute layout bound over a buffer.
type VertexArray struct {
	ID     uint32
	Buffer Buffer
	Stride int
}

// Attribute describes one float vertex attribute inside an interleaved record.
type Attribute struct {
	Name       string
	Location   uint32
	Components int // float32 count
	Offset     int // bytes from record start
}

// Size returns the attribute footprint in bytes.
func (a Attribute) Size() int {
	return a.Components * 4
}

// Device is the GPU collaborator: buffer allocation, addressed partial
// update, attribute binding and instanced point draws.
type Device interface {
	AllocBuffer(size int, usage Usage) (Buffer, error)
	UpdateBuffer(b Buffer, offset int, data []float32) error
	BindLayout(b Buffer, attrs []Attribute, stride int) (VertexArray, error)
	// DrawPoints issues one draw of count point sprites from slot 0.
	DrawPoints(va VertexArray, count int)
	ReleaseBuffer(b Buffer)
	ReleaseVertexArray(va VertexArray)
}
