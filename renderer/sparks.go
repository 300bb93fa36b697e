package renderer

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/sparks/gfx"
	"github.com/pthm-cable/sparks/particles"
)

// SparkRenderer draws the live slots of particle ring buffers with the
// spark program. The program computes age-dependent state from the
// immutable records plus CurrentTime and Gravity.
type SparkRenderer struct {
	backend gfx.Backend
	program gfx.Program

	timeLoc       gfx.Location
	gravityLoc    gfx.Location
	resolutionLoc gfx.Location

	streams []sparkStream
}

type sparkStream struct {
	ring *particles.RingBuffer
	vao  gfx.VertexArray
}

// NewSparkRenderer builds the spark program. A shader failure is logged and
// leaves the renderer in a state where Draw does nothing.
func NewSparkRenderer(backend gfx.Backend, vertexPath, fragmentPath string) *SparkRenderer {
	r := &SparkRenderer{backend: backend, timeLoc: -1, gravityLoc: -1, resolutionLoc: -1}

	prog, err := gfx.BuildProgram(backend, "sparks", vertexPath, fragmentPath)
	if err != nil {
		return r
	}
	r.program = prog
	r.timeLoc = prog.Uniform("CurrentTime")
	r.gravityLoc = prog.Uniform("Gravity")
	r.resolutionLoc = prog.Uniform("Resolution")
	return r
}

// Ready reports whether the spark program built.
func (r *SparkRenderer) Ready() bool {
	return r.program != nil && r.program.Valid()
}

// Attach binds the record layout over a ring buffer so Draw includes it.
func (r *SparkRenderer) Attach(ring *particles.RingBuffer) error {
	vao, err := r.backend.BindLayout(ring.Buffer(), particles.Layout(), particles.RecordSize)
	if err != nil {
		return fmt.Errorf("binding spark layout: %w", err)
	}
	r.streams = append(r.streams, sparkStream{ring: ring, vao: vao})
	return nil
}

// Draw issues one instanced draw of LiveCount() sprites per attached ring,
// starting at slot 0. Slots are drawn in index order, not age order.
func (r *SparkRenderer) Draw(now, gravity float32) int {
	if !r.Ready() {
		return 0
	}

	w, h := r.backend.Viewport()
	r.backend.SetBlend(gfx.BlendAdditive)
	r.program.Use()
	r.program.SetFloat(r.timeLoc, now)
	r.program.SetFloat(r.gravityLoc, gravity)
	r.program.SetVec2(r.resolutionLoc, [2]float32{float32(w), float32(h)})

	drawn := 0
	for _, s := range r.streams {
		n := s.ring.LiveCount()
		if n == 0 {
			continue
		}
		r.backend.DrawPoints(s.vao, n)
		drawn += n
	}
	r.program.End()
	r.backend.SetBlend(gfx.BlendAlpha)
	return drawn
}

// Unload releases the vertex arrays and program. Ring buffers are owned
// by the caller.
func (r *SparkRenderer) Unload() {
	for _, s := range r.streams {
		r.backend.ReleaseVertexArray(s.vao)
	}
	r.streams = nil
	if r.program != nil {
		r.program.Release()
	}
	slog.Debug("spark renderer unloaded")
}
