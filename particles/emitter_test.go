package particles

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/sparks/gfx"
)

// sparkParams mirrors the default spark stream.
func sparkParams() EmitterParams {
	return EmitterParams{
		Interval: 0.2,
		PosX:     Range{-0.3, 0.3},
		PosY:     Range{-0.7, 0.0},
		Size:     Range{3, 7},
		Duration: Range{0.5, 1.0},
		Color:    [4]Range{Fixed(1), {0.3, 0.6}, Fixed(0.1), Fixed(1)},
		VelX:     Range{-0.1, 0.1},
		VelY:     Range{0.5, 1.5},
	}
}

type recordingStore struct {
	records []Record
	err     error
}

func (s *recordingStore) Write(rec Record) (int, error) {
	s.records = append(s.records, rec)
	return len(s.records) - 1, s.err
}

func TestRandomRange_Containment(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10000; i++ {
		x := RandomRange(rng, 2.0, 5.0)
		require.GreaterOrEqual(t, x, float32(2.0))
		require.Less(t, x, float32(5.0))
	}
}

func TestRandomRange_Degenerate(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		assert.Equal(t, float32(3.0), RandomRange(rng, 3.0, 3.0))
	}
}

func TestRandomRange_UpperBoundExclusive(t *testing.T) {
	// A generator returning the largest float32 below 1 must not reach hi
	rng := &SeqRand{Values: []float32{0.99999994}}
	x := RandomRange(rng, 2.0, 5.0)
	assert.Less(t, x, float32(5.0))
	assert.Equal(t, float32(2.0), RandomRange(&SeqRand{Values: []float32{0}}, 2.0, 5.0))
}

func TestEmitter_Cadence(t *testing.T) {
	store := &recordingStore{}
	em := NewEmitter("sparks", sparkParams(), store, rand.New(rand.NewSource(1)))

	var emittedAt []float32
	for _, now := range []float32{0.0, 0.05, 0.21, 0.25, 0.42} {
		rec, ok, err := em.MaybeEmit(now)
		require.NoError(t, err)
		if ok {
			emittedAt = append(emittedAt, now)
			assert.Equal(t, now, rec.Birth)
			assert.Equal(t, now, em.LastEmission())
		}
	}

	assert.Equal(t, []float32{0.0, 0.21, 0.42}, emittedAt)
	assert.Len(t, store.records, 3)
	assert.Equal(t, uint64(3), em.Emitted())
}

func TestEmitter_StallDropsDeficit(t *testing.T) {
	store := &recordingStore{}
	em := NewEmitter("sparks", sparkParams(), store, rand.New(rand.NewSource(1)))

	_, ok, _ := em.MaybeEmit(0)
	require.True(t, ok)

	// Ten intervals pass in one stalled frame: still one particle
	_, ok, _ = em.MaybeEmit(2.0)
	require.True(t, ok)
	_, ok, _ = em.MaybeEmit(2.05)
	assert.False(t, ok, "no catch-up emissions after a stall")
	assert.Len(t, store.records, 2)
}

func TestEmitter_ZeroIntervalEmitsEveryCall(t *testing.T) {
	store := &recordingStore{}
	p := sparkParams()
	p.Interval = 0
	em := NewEmitter("smoke", p, store, rand.New(rand.NewSource(1)))

	for i := 0; i < 5; i++ {
		_, ok, err := em.MaybeEmit(1.0)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	assert.Len(t, store.records, 5)
}

func TestEmitter_RangedFields(t *testing.T) {
	store := &recordingStore{}
	p := sparkParams()
	p.Interval = 0
	em := NewEmitter("sparks", p, store, rand.New(rand.NewSource(7)))

	for i := 0; i < 2000; i++ {
		_, _, err := em.MaybeEmit(float32(i) * 0.01)
		require.NoError(t, err)
	}

	var prevBirth float32 = -1
	for _, r := range store.records {
		assert.True(t, r.Position[0] >= -0.3 && r.Position[0] < 0.3)
		assert.True(t, r.Position[1] >= -0.7 && r.Position[1] < 0.0)
		assert.True(t, r.Size >= 3 && r.Size < 7)
		assert.True(t, r.Duration >= 0.5 && r.Duration < 1.0)
		assert.Greater(t, r.Duration, float32(0))
		assert.Equal(t, float32(1), r.Color[0])
		assert.True(t, r.Color[1] >= 0.3 && r.Color[1] < 0.6)
		assert.Equal(t, float32(0.1), r.Color[2])
		assert.True(t, r.Velocity[0] >= -0.1 && r.Velocity[0] < 0.1)
		assert.True(t, r.Velocity[1] >= 0.5 && r.Velocity[1] < 1.5)
		assert.GreaterOrEqual(t, r.Birth, prevBirth, "birth is non-decreasing")
		prevBirth = r.Birth
	}
}

func TestEmitter_ExactValuesWithFixedSequence(t *testing.T) {
	store := &recordingStore{}
	rng := &SeqRand{Values: []float32{0.5}}
	em := NewEmitter("sparks", sparkParams(), store, rng)

	rec, ok, err := em.MaybeEmit(1.5)
	require.NoError(t, err)
	require.True(t, ok)

	assert.InDelta(t, 0.0, rec.Position[0], 1e-6)
	assert.InDelta(t, -0.35, rec.Position[1], 1e-6)
	assert.InDelta(t, 5.0, rec.Size, 1e-6)
	assert.Equal(t, float32(1.5), rec.Birth)
	assert.InDelta(t, 0.75, rec.Duration, 1e-6)
	assert.InDelta(t, 0.45, rec.Color[1], 1e-6)
	assert.InDelta(t, 0.0, rec.Velocity[0], 1e-6)
	assert.InDelta(t, 1.0, rec.Velocity[1], 1e-6)
	assert.Equal(t, []Record{rec}, store.records)
}

func TestEmitter_ClampsNonPositiveDuration(t *testing.T) {
	store := &recordingStore{}
	p := sparkParams()
	p.Duration = Fixed(0)
	em := NewEmitter("sparks", p, store, &SeqRand{Values: []float32{0.5}})

	rec, ok, err := em.MaybeEmit(0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Greater(t, rec.Duration, float32(0))
}

func TestEmitter_StoreErrorStillResetsTimer(t *testing.T) {
	store := &recordingStore{err: errors.New("device lost")}
	em := NewEmitter("sparks", sparkParams(), store, &SeqRand{Values: []float32{0.5}})

	_, ok, err := em.MaybeEmit(1)
	assert.True(t, ok)
	assert.Error(t, err)
	assert.Equal(t, float32(1), em.LastEmission())
}

func TestEmitter_IntoRingBuffer(t *testing.T) {
	dev := gfx.NewMemDevice()
	ring, err := NewRingBuffer(dev, 1024)
	require.NoError(t, err)
	em := NewEmitter("sparks", sparkParams(), ring, rand.New(rand.NewSource(3)))

	now := float32(0)
	for emitted := 0; emitted < 5; now += 0.25 {
		if _, ok, err := em.MaybeEmit(now); ok {
			require.NoError(t, err)
			emitted++
		}
	}
	assert.Equal(t, 5, ring.LiveCount())
	assert.Len(t, dev.Uploads, 5)
}

func TestEmitter_SetInterval(t *testing.T) {
	em := NewEmitter("sparks", sparkParams(), &recordingStore{}, &SeqRand{})
	em.SetInterval(-1)
	assert.Equal(t, float32(0), em.Interval())
	em.SetInterval(0.5)
	assert.Equal(t, float32(0.5), em.Interval())
	assert.Equal(t, "sparks", em.Name())
}
