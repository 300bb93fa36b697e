// Package components defines ECS components for the particle demo.
package components

import (
	"github.com/google/uuid"

	"github.com/pthm-cable/sparks/particles"
)

// Source identifies one particle stream.
type Source struct {
	ID      uuid.UUID
	Name    string
	Enabled bool
}

// Spawner holds the emission policy of a stream.
type Spawner struct {
	Emitter *particles.Emitter
}

// Stream holds the ring buffer a stream writes into.
type Stream struct {
	Ring *particles.RingBuffer
}
