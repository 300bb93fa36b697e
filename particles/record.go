// Package particles implements the spark streaming engine: write-once
// particle records, a fixed-capacity ring buffer mirrored into GPU memory,
// and the emission policy that feeds it.
package particles

import "github.com/pthm-cable/sparks/gfx"

// RecordFloats is the number of float32 values in one Record.
const RecordFloats = 11

// RecordSize is the byte footprint of one Record on the GPU.
const RecordSize = RecordFloats * 4

// Record is the spawn state of one particle. It is written once at
// emission; everything time-dependent is derived from it at draw time.
type Record struct {
	Position [2]float32
	Size     float32
	Birth    float32 // seconds since start
	Duration float32 // lifetime in seconds, > 0
	Color    [4]float32
	Velocity [2]float32
}

// AppendFloats appends the record in attribute order.
func (r Record) AppendFloats(dst []float32) []float32 {
	return append(dst,
		r.Position[0], r.Position[1],
		r.Size,
		r.Birth,
		r.Duration,
		r.Color[0], r.Color[1], r.Color[2], r.Color[3],
		r.Velocity[0], r.Velocity[1],
	)
}

// RecordFromFloats decodes a record written by AppendFloats.
func RecordFromFloats(f []float32) Record {
	_ = f[RecordFloats-1]
	return Record{
		Position: [2]float32{f[0], f[1]},
		Size:     f[2],
		Birth:    f[3],
		Duration: f[4],
		Color:    [4]float32{f[5], f[6], f[7], f[8]},
		Velocity: [2]float32{f[9], f[10]},
	}
}

// Attribute locations used by the spark vertex shader.
const (
	LocPosition uint32 = iota
	LocSize
	LocBirth
	LocDuration
	LocColor
	LocVelocity
)

// Layout returns the tightly packed vertex attribute layout of Record.
func Layout() []gfx.Attribute {
	attrs := []gfx.Attribute{
		{Name: "Position", Location: LocPosition, Components: 2},
		{Name: "Size", Location: LocSize, Components: 1},
		{Name: "Birth", Location: LocBirth, Components: 1},
		{Name: "Duration", Location: LocDuration, Components: 1},
		{Name: "Color", Location: LocColor, Components: 4},
		{Name: "Velocity", Location: LocVelocity, Components: 2},
	}
	offset := 0
	for i := range attrs {
		attrs[i].Offset = offset
		offset += attrs[i].Size()
	}
	return attrs
}
