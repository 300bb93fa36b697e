package game

import (
	"log/slog"

	"github.com/pthm-cable/sparks/telemetry"
)

// flushTelemetry checks if the stats window should be flushed.
func (d *Demo) flushTelemetry() {
	nowSec := float64(d.now)
	if !d.collector.ShouldFlush(nowSec) {
		return
	}

	stats := d.collector.Flush(nowSec, d.streamStates())
	perfStats := d.perfCollector.Stats()

	// Log stats if enabled (console output)
	if d.opts.LogStats {
		for _, s := range stats {
			s.LogStats()
		}
		perfStats.LogStats()
		d.logStreams()
	}

	// Write to CSV if output manager is enabled
	if d.outputManager != nil {
		if err := d.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := d.outputManager.WritePerf(perfStats, d.RunID(), nowSec); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// LastWindow flushes the partial window at shutdown so short runs still
// produce a row per emitter.
func (d *Demo) LastWindow() []telemetry.WindowStats {
	stats := d.collector.Flush(float64(d.now), d.streamStates())
	if err := d.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	return stats
}
