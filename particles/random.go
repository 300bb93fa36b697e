package particles

import "math"

// Rand is the randomness the emitter needs. *math/rand.Rand satisfies it;
// tests inject fixed sequences.
type Rand interface {
	// Float32 returns a value in [0, 1).
	Float32() float32
}

// Range is a half-open interval [Min, Max).
type Range struct {
	Min, Max float32
}

// Fixed returns a degenerate range that always samples v.
func Fixed(v float32) Range {
	return Range{Min: v, Max: v}
}

// Sample draws one value from the range.
func (r Range) Sample(rng Rand) float32 {
	return RandomRange(rng, r.Min, r.Max)
}

// RandomRange returns lo + u*(hi-lo) with u uniform in [0,1).
// For lo < hi the result lies in [lo, hi); lo == hi yields lo.
func RandomRange(rng Rand, lo, hi float32) float32 {
	if lo == hi {
		return lo
	}
	v := lo + rng.Float32()*(hi-lo)
	// Rounding of u*(hi-lo) can land exactly on hi for u close to 1.
	if v >= hi {
		v = math.Nextafter32(hi, lo)
	}
	return v
}

// SeqRand replays a fixed sequence of values, cycling when exhausted.
type SeqRand struct {
	Values []float32
	next   int
}

// Float32 returns the next value in the sequence.
func (s *SeqRand) Float32() float32 {
	if len(s.Values) == 0 {
		return 0
	}
	v := s.Values[s.next%len(s.Values)]
	s.next++
	return v
}
