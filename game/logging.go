package game

import (
	"fmt"
	"io"
	"time"
)

// logWriter is the destination for log output.
var logWriter io.Writer

// SetLogWriter sets the log output destination.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// Logf writes a formatted log message.
func Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if logWriter != nil {
		fmt.Fprintln(logWriter, msg)
	} else {
		fmt.Println(msg)
	}
}

// logStreams logs the state of every stream and the per-phase frame cost.
func (d *Demo) logStreams() {
	Logf("=== Tick %d @ %.2fs | FPS: %d | window %.1fs ===", d.tick, d.now, d.fps.Last(), d.collector.WindowDuration())
	for _, s := range d.Streams() {
		state := "on"
		if !s.Enabled {
			state = "off"
		}
		Logf("  %-10s %-3s live=%4d/%-4d total=%d interval=%.3fs",
			s.Name, state, s.LiveCount, s.Capacity, s.TotalEmitted, s.Interval)
	}

	perf := d.perfCollector.Stats()
	Logf("Frame time: %s", perf.AvgWork.Round(time.Microsecond))
	for _, id := range d.registry.IDs() {
		ps := perf.Phase(id)
		Logf("  %-12s %10s  %5.1f%%", d.registry.GetName(id), ps.Avg.Round(time.Microsecond), ps.Pct)
	}
	Logf("")
}
