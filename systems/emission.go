// Package systems holds the per-frame ECS systems of the demo.
package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sparks/components"
	"github.com/pthm-cable/sparks/particles"
)

// Emission reports one particle written during an update.
type Emission struct {
	Source string
	Record particles.Record
	Err    error // upload failure; the slot was still consumed
}

// EmissionSystem gives every enabled stream one chance to emit per frame.
type EmissionSystem struct {
	filter ecs.Filter3[components.Source, components.Spawner, components.Stream]
	events []Emission
}

// NewEmissionSystem creates a new emission system.
func NewEmissionSystem(w *ecs.World) *EmissionSystem {
	return &EmissionSystem{
		filter: *ecs.NewFilter3[components.Source, components.Spawner, components.Stream](w),
	}
}

// Update runs every enabled emitter at time now and returns what was
// emitted. The returned slice is reused by the next call.
func (s *EmissionSystem) Update(now float32) []Emission {
	s.events = s.events[:0]

	query := s.filter.Query()
	for query.Next() {
		src, sp, _ := query.Get()
		if !src.Enabled || sp.Emitter == nil {
			continue
		}
		rec, ok, err := sp.Emitter.MaybeEmit(now)
		if !ok {
			continue
		}
		s.events = append(s.events, Emission{Source: sp.Emitter.Name(), Record: rec, Err: err})
	}

	return s.events
}
