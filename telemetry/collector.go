package telemetry

// StreamState is the ring buffer snapshot the collector reports at window end.
type StreamState struct {
	TotalEmitted uint64
	LiveCount    int
	Capacity     int
}

// streamCounters accumulates one emitter's events within a window.
type streamCounters struct {
	emitted      int
	uploadErrors int
	durations    []float64
}

// Collector accumulates emission events and frame times within time windows
// and produces one WindowStats per emitter.
type Collector struct {
	runID             string
	windowDurationSec float64

	// Current window tracking
	windowStartSec float64
	ticks          int
	frameMS        []float64

	streams map[string]*streamCounters
	order   []string
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in demo seconds.
func NewCollector(runID string, windowDurationSec float64) *Collector {
	if windowDurationSec <= 0 {
		windowDurationSec = 1
	}
	return &Collector{
		runID:             runID,
		windowDurationSec: windowDurationSec,
		streams:           make(map[string]*streamCounters),
	}
}

func (c *Collector) stream(name string) *streamCounters {
	s, ok := c.streams[name]
	if !ok {
		s = &streamCounters{}
		c.streams[name] = s
		c.order = append(c.order, name)
	}
	return s
}

// RecordEmission records one particle written by the named emitter.
func (c *Collector) RecordEmission(emitter string, duration float32) {
	s := c.stream(emitter)
	s.emitted++
	s.durations = append(s.durations, float64(duration))
}

// RecordUploadError records a failed GPU transfer for the named emitter.
func (c *Collector) RecordUploadError(emitter string) {
	c.stream(emitter).uploadErrors++
}

// RecordTick records one tick and its frame time in seconds.
func (c *Collector) RecordTick(frameSec float64) {
	c.ticks++
	c.frameMS = append(c.frameMS, frameSec*1000)
}

// ShouldFlush returns true if the window has elapsed.
func (c *Collector) ShouldFlush(nowSec float64) bool {
	return nowSec-c.windowStartSec >= c.windowDurationSec
}

// Flush produces one WindowStats per known emitter, in first-seen order,
// and resets counters for the next window. state supplies the ring buffer
// snapshot per emitter; emitters missing from it report zero state.
func (c *Collector) Flush(nowSec float64, state map[string]StreamState) []WindowStats {
	frameMean, frameStd, frameP50, frameP90 := ComputeFrameStats(c.frameMS)

	elapsed := nowSec - c.windowStartSec
	out := make([]WindowStats, 0, len(c.order))
	for _, name := range c.order {
		s := c.streams[name]
		st := state[name]

		var rate float64
		if elapsed > 0 {
			rate = float64(s.emitted) / elapsed
		}
		var wraps uint64
		if st.Capacity > 0 {
			wraps = st.TotalEmitted / uint64(st.Capacity)
		}
		durMean, durStd := meanStd(s.durations)

		out = append(out, WindowStats{
			RunID:          c.runID,
			WindowStartSec: c.windowStartSec,
			WindowEndSec:   nowSec,
			Ticks:          c.ticks,
			Emitter:        name,

			Emitted:      s.emitted,
			EmitRate:     rate,
			UploadErrors: s.uploadErrors,

			TotalEmitted: st.TotalEmitted,
			LiveCount:    st.LiveCount,
			Capacity:     st.Capacity,
			Wraps:        wraps,

			DurationMean: durMean,
			DurationStd:  durStd,

			FrameMean: frameMean,
			FrameStd:  frameStd,
			FrameP50:  frameP50,
			FrameP90:  frameP90,
		})

		// Reset for next window
		s.emitted = 0
		s.uploadErrors = 0
		s.durations = s.durations[:0]
	}

	c.windowStartSec = nowSec
	c.ticks = 0
	c.frameMS = c.frameMS[:0]
	return out
}

// Track registers an emitter so it reports even before its first emission.
func (c *Collector) Track(emitter string) {
	c.stream(emitter)
}

// WindowDuration returns the window length in seconds.
func (c *Collector) WindowDuration() float64 {
	return c.windowDurationSec
}
