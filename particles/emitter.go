package particles

import "math"

// Store is where emitted records go. *RingBuffer implements it.
type Store interface {
	Write(rec Record) (int, error)
}

// EmitterParams are the tunables of one particle stream.
type EmitterParams struct {
	Interval float32 // seconds between emissions, 0 = every call
	PosX     Range
	PosY     Range
	Size     Range
	Duration Range
	Color    [4]Range // channels with Min == Max stay at the base hue
	VelX     Range
	VelY     Range
}

// minDuration keeps generated lifetimes strictly positive.
const minDuration = 1e-3

// Emitter decides when to spawn particles and with what parameters.
//
// The only state carried between calls is the time of the last emission.
// When several intervals elapse between two calls (a stalled frame) a
// single particle is emitted and the rest are dropped; there is no backlog.
type Emitter struct {
	name   string
	params EmitterParams
	store  Store
	rng    Rand

	lastEmission float32
	emitted      uint64
}

// NewEmitter creates an emitter writing to store. The first MaybeEmit call
// always emits.
func NewEmitter(name string, params EmitterParams, store Store, rng Rand) *Emitter {
	return &Emitter{
		name:         name,
		params:       params,
		store:        store,
		rng:          rng,
		lastEmission: float32(math.Inf(-1)),
	}
}

// MaybeEmit spawns one particle if at least Interval seconds have passed
// since the last emission. It returns the record and true when it emitted.
// A store error is returned alongside the record; the timer still resets.
func (e *Emitter) MaybeEmit(now float32) (Record, bool, error) {
	if now-e.lastEmission < e.params.Interval {
		return Record{}, false, nil
	}

	rec := e.synthesize(now)
	e.lastEmission = now
	e.emitted++
	_, err := e.store.Write(rec)
	return rec, true, err
}

// synthesize draws every field independently.
func (e *Emitter) synthesize(now float32) Record {
	p := &e.params
	rec := Record{
		Position: [2]float32{p.PosX.Sample(e.rng), p.PosY.Sample(e.rng)},
		Size:     p.Size.Sample(e.rng),
		Birth:    now,
		Duration: p.Duration.Sample(e.rng),
	}
	for ch := range rec.Color {
		rec.Color[ch] = p.Color[ch].Sample(e.rng)
	}
	rec.Velocity = [2]float32{p.VelX.Sample(e.rng), p.VelY.Sample(e.rng)}

	if rec.Duration < minDuration {
		rec.Duration = minDuration
	}
	return rec
}

// Name returns the emitter name.
func (e *Emitter) Name() string { return e.name }

// Interval returns the emission interval in seconds.
func (e *Emitter) Interval() float32 { return e.params.Interval }

// SetInterval changes the emission interval. Negative values become 0.
func (e *Emitter) SetInterval(sec float32) {
	if sec < 0 {
		sec = 0
	}
	e.params.Interval = sec
}

// LastEmission returns the time of the last emission (-Inf before the first).
func (e *Emitter) LastEmission() float32 { return e.lastEmission }

// Emitted returns how many particles this emitter has produced.
func (e *Emitter) Emitted() uint64 { return e.emitted }
