package gfx

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Upload records one UpdateBuffer call.
type Upload struct {
	Buffer uint32
	Offset int
	Bytes  int
}

// Draw records one DrawPoints call.
type Draw struct {
	VertexArray uint32
	Count       int
}

// MemDevice is a CPU-only Device. Buffers live in byte slices so tests can
// inspect exactly what would have reached the GPU.
type MemDevice struct {
	// Limit caps total allocated bytes (0 = unlimited). Exceeding it fails
	// AllocBuffer the way an out-of-memory driver would.
	Limit int

	buffers   map[uint32][]byte
	layouts   map[uint32]VertexArray
	nextID    uint32
	allocated int

	// Framebuffer size reported by Viewport.
	Width, Height int

	Uploads   []Upload
	Draws     []Draw
	MeshDraws []int // index count per DrawMesh
	Programs  []*MemProgram
	Blend     BlendMode
}

// NewMemDevice creates an empty recording device.
func NewMemDevice() *MemDevice {
	return &MemDevice{
		buffers: make(map[uint32][]byte),
		layouts: make(map[uint32]VertexArray),
		Width:   1024,
		Height:  1024,
	}
}

// AllocBuffer reserves a zeroed byte slice.
func (d *MemDevice) AllocBuffer(size int, usage Usage) (Buffer, error) {
	if size <= 0 {
		return Buffer{}, fmt.Errorf("%w: size %d", ErrAllocation, size)
	}
	if d.Limit > 0 && d.allocated+size > d.Limit {
		return Buffer{}, fmt.Errorf("%w: %d bytes exceeds limit %d", ErrAllocation, size, d.Limit-d.allocated)
	}
	d.nextID++
	d.buffers[d.nextID] = make([]byte, size)
	d.allocated += size
	return Buffer{ID: d.nextID, Size: size}, nil
}

// UpdateBuffer copies data into the buffer at a byte offset.
func (d *MemDevice) UpdateBuffer(b Buffer, offset int, data []float32) error {
	mem, ok := d.buffers[b.ID]
	if !ok {
		return fmt.Errorf("gfx: update of unknown buffer %d", b.ID)
	}
	n := len(data) * 4
	if offset < 0 || offset+n > len(mem) {
		return fmt.Errorf("gfx: update [%d,%d) out of bounds for buffer of %d bytes", offset, offset+n, len(mem))
	}
	for i, f := range data {
		binary.LittleEndian.PutUint32(mem[offset+i*4:], math.Float32bits(f))
	}
	d.Uploads = append(d.Uploads, Upload{Buffer: b.ID, Offset: offset, Bytes: n})
	return nil
}

// BindLayout validates the attribute layout against the buffer.
func (d *MemDevice) BindLayout(b Buffer, attrs []Attribute, stride int) (VertexArray, error) {
	if _, ok := d.buffers[b.ID]; !ok {
		return VertexArray{}, fmt.Errorf("gfx: layout over unknown buffer %d", b.ID)
	}
	for _, a := range attrs {
		if a.Offset+a.Size() > stride {
			return VertexArray{}, fmt.Errorf("gfx: attribute %s overruns stride %d", a.Name, stride)
		}
	}
	d.nextID++
	va := VertexArray{ID: d.nextID, Buffer: b, Stride: stride}
	d.layouts[va.ID] = va
	return va, nil
}

// DrawPoints records the draw.
func (d *MemDevice) DrawPoints(va VertexArray, count int) {
	d.Draws = append(d.Draws, Draw{VertexArray: va.ID, Count: count})
}

// ReleaseBuffer frees a buffer.
func (d *MemDevice) ReleaseBuffer(b Buffer) {
	if mem, ok := d.buffers[b.ID]; ok {
		d.allocated -= len(mem)
		delete(d.buffers, b.ID)
	}
}

// ReleaseVertexArray frees a layout.
func (d *MemDevice) ReleaseVertexArray(va VertexArray) {
	delete(d.layouts, va.ID)
}

// Floats decodes a float32 range of a buffer.
func (d *MemDevice) Floats(b Buffer, offset, count int) []float32 {
	mem := d.buffers[b.ID]
	out := make([]float32, count)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(mem[offset+i*4:]))
	}
	return out
}

// Allocated returns the bytes currently allocated.
func (d *MemDevice) Allocated() int {
	return d.allocated
}

// LastDraw returns the most recent draw, if any.
func (d *MemDevice) LastDraw() (Draw, bool) {
	if len(d.Draws) == 0 {
		return Draw{}, false
	}
	return d.Draws[len(d.Draws)-1], true
}

// Reset clears the recorded uploads and draws.
func (d *MemDevice) Reset() {
	d.Uploads = d.Uploads[:0]
	d.Draws = d.Draws[:0]
	d.MeshDraws = d.MeshDraws[:0]
}
