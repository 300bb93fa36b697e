package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for one emitter over a time window.
type WindowStats struct {
	RunID          string  `csv:"run_id"`
	WindowStartSec float64 `csv:"-"`
	WindowEndSec   float64 `csv:"window_end"`
	Ticks          int     `csv:"ticks"`
	Emitter        string  `csv:"emitter"`

	// Emission during window
	Emitted      int     `csv:"emitted"`
	EmitRate     float64 `csv:"emit_rate"` // particles per second
	UploadErrors int     `csv:"upload_errors"`

	// Ring buffer state at window end
	TotalEmitted uint64 `csv:"total_emitted"`
	LiveCount    int    `csv:"live"`
	Capacity     int    `csv:"capacity"`
	Wraps        uint64 `csv:"wraps"` // full passes over the ring so far

	// Particle lifetimes emitted during window
	DurationMean float64 `csv:"duration_mean"`
	DurationStd  float64 `csv:"duration_std"`

	// Frame time distribution (milliseconds)
	FrameMean float64 `csv:"frame_ms_mean"`
	FrameStd  float64 `csv:"frame_ms_std"`
	FrameP50  float64 `csv:"frame_ms_p50"`
	FrameP90  float64 `csv:"frame_ms_p90"`
}

// Percentile calculates the p-th percentile of a sorted slice using linear
// interpolation between closest ranks. p should be in [0, 1]. Returns 0 if
// slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeFrameStats calculates mean, population std and percentiles of
// frame times.
func ComputeFrameStats(values []float64) (mean, std, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	mean, std = meanStd(values)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)
	return mean, std, p50, p90
}

// meanStd returns the mean and population standard deviation.
func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean, variance := stat.PopMeanVariance(values, nil)
	if variance < 0 {
		variance = 0
	}
	return mean, math.Sqrt(variance)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("emitter", s.Emitter),
		slog.Float64("window_start", s.WindowStartSec),
		slog.Float64("window_end", s.WindowEndSec),
		slog.Int("ticks", s.Ticks),
		slog.Int("emitted", s.Emitted),
		slog.Float64("emit_rate", s.EmitRate),
		slog.Int("upload_errors", s.UploadErrors),
		slog.Uint64("total_emitted", s.TotalEmitted),
		slog.Int("live", s.LiveCount),
		slog.Int("capacity", s.Capacity),
		slog.Uint64("wraps", s.Wraps),
		slog.Float64("duration_mean", s.DurationMean),
		slog.Float64("duration_std", s.DurationStd),
		slog.Float64("frame_ms_mean", s.FrameMean),
		slog.Float64("frame_ms_p90", s.FrameP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "run_id", s.RunID, "window", s)
}
