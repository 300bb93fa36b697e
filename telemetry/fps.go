package telemetry

import "log/slog"

// FPSCounter counts frames and reports the rate once per interval.
type FPSCounter struct {
	interval  float64
	lastReset float64
	frames    int
	last      int
}

// NewFPSCounter creates a counter reporting every interval seconds.
func NewFPSCounter(interval float64) *FPSCounter {
	if interval <= 0 {
		interval = 1
	}
	return &FPSCounter{interval: interval}
}

// Frame counts one frame at time now. It returns the frames-per-second
// figure and true when an interval has just completed.
func (f *FPSCounter) Frame(now float64) (int, bool) {
	f.frames++
	elapsed := now - f.lastReset
	if elapsed < f.interval {
		return 0, false
	}
	fps := int(float64(f.frames)/elapsed + 0.5)
	f.last = fps
	f.frames = 0
	f.lastReset = now
	slog.Debug("fps", "fps", fps)
	return fps, true
}

// Last returns the most recently completed FPS figure.
func (f *FPSCounter) Last() int {
	return f.last
}
