package particles

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/sparks/gfx"
)

var (
	// ErrAllocation is returned when the ring buffer cannot get GPU storage.
	// It is fatal to initialisation.
	ErrAllocation = errors.New("particles: ring buffer allocation failed")
	// ErrInvalidDuration is returned for records that would never be visible.
	ErrInvalidDuration = errors.New("particles: duration must be positive")
)

// RingBuffer is a fixed-capacity store of particle records mirrored into a
// GPU vertex buffer. Slots are addressed by emitted count mod capacity, so
// once full every write replaces the oldest record.
//
// A slot's contents never change after Write until the same slot is
// written again. There is no fence between writes and draws; ordering
// comes from emission and drawing happening on the same goroutine.
type RingBuffer struct {
	dev      gfx.Device
	buf      gfx.Buffer
	slots    []Record
	emitted  uint64
	scratch  []float32
	released bool
}

// NewRingBuffer allocates capacity slots of device memory.
func NewRingBuffer(dev gfx.Device, capacity int) (*RingBuffer, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity %d", ErrAllocation, capacity)
	}
	buf, err := dev.AllocBuffer(capacity*RecordSize, gfx.UsageDynamic)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAllocation, err)
	}
	return &RingBuffer{
		dev:     dev,
		buf:     buf,
		slots:   make([]Record, capacity),
		scratch: make([]float32, 0, RecordFloats),
	}, nil
}

// Write stores rec in the next slot and uploads only that slot's bytes.
// It returns the slot index that was written. The emitted count advances
// even when the upload fails so the CPU mirror and slot addressing stay in
// step; the GPU copy of that slot is then stale until it is rewritten.
func (r *RingBuffer) Write(rec Record) (int, error) {
	if !(rec.Duration > 0) {
		return -1, fmt.Errorf("%w: got %v", ErrInvalidDuration, rec.Duration)
	}
	slot := int(r.emitted % uint64(len(r.slots)))
	r.slots[slot] = rec
	r.emitted++

	r.scratch = rec.AppendFloats(r.scratch[:0])
	if err := r.dev.UpdateBuffer(r.buf, slot*RecordSize, r.scratch); err != nil {
		return slot, fmt.Errorf("uploading slot %d: %w", slot, err)
	}
	return slot, nil
}

// LiveCount returns min(emitted, capacity): the number of slots to draw.
func (r *RingBuffer) LiveCount() int {
	if r.emitted < uint64(len(r.slots)) {
		return int(r.emitted)
	}
	return len(r.slots)
}

// Emitted returns the total number of records ever written.
func (r *RingBuffer) Emitted() uint64 {
	return r.emitted
}

// Capacity returns the number of slots.
func (r *RingBuffer) Capacity() int {
	return len(r.slots)
}

// Slot returns the CPU copy of slot i.
func (r *RingBuffer) Slot(i int) Record {
	return r.slots[i]
}

// Buffer returns the device buffer backing the ring.
func (r *RingBuffer) Buffer() gfx.Buffer {
	return r.buf
}

// Release frees the device buffer. The ring must not be used afterwards.
func (r *RingBuffer) Release() {
	if r.released {
		return
	}
	r.dev.ReleaseBuffer(r.buf)
	r.released = true
}
