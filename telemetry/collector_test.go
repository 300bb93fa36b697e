package telemetry

import (
	"math"
	"testing"
)

func TestCollectorFlush(t *testing.T) {
	c := NewCollector("run-1", 2.0)
	c.Track("smoke")

	for i := 0; i < 10; i++ {
		c.RecordTick(1.0 / 60)
	}
	c.RecordEmission("sparks", 0.5)
	c.RecordEmission("sparks", 1.0)
	c.RecordUploadError("sparks")

	if c.ShouldFlush(1.0) {
		t.Error("window should not flush before it elapses")
	}
	if !c.ShouldFlush(2.0) {
		t.Fatal("window should flush once elapsed")
	}

	stats := c.Flush(2.0, map[string]StreamState{
		"sparks": {TotalEmitted: 2100, LiveCount: 1024, Capacity: 1024},
	})
	if len(stats) != 2 {
		t.Fatalf("expected 2 emitters, got %d", len(stats))
	}

	smoke, sparks := stats[0], stats[1]
	if smoke.Emitter != "smoke" || smoke.Emitted != 0 || smoke.Capacity != 0 {
		t.Errorf("unexpected smoke stats: %+v", smoke)
	}
	if sparks.Emitter != "sparks" || sparks.Emitted != 2 || sparks.UploadErrors != 1 {
		t.Errorf("unexpected sparks stats: %+v", sparks)
	}
	if math.Abs(sparks.EmitRate-1.0) > 1e-9 {
		t.Errorf("expected emit rate 1/s, got %v", sparks.EmitRate)
	}
	if sparks.Wraps != 2 {
		t.Errorf("expected 2 wraps, got %d", sparks.Wraps)
	}
	if math.Abs(sparks.DurationMean-0.75) > 1e-9 {
		t.Errorf("expected duration mean 0.75, got %v", sparks.DurationMean)
	}
	if sparks.Ticks != 10 || sparks.RunID != "run-1" {
		t.Errorf("unexpected window metadata: %+v", sparks)
	}
	if math.Abs(sparks.FrameMean-1000.0/60) > 1e-6 {
		t.Errorf("expected frame mean %.3f ms, got %v", 1000.0/60, sparks.FrameMean)
	}
}

func TestCollectorResetsAfterFlush(t *testing.T) {
	c := NewCollector("run-1", 1.0)
	c.RecordEmission("sparks", 0.5)
	c.RecordTick(0.01)
	c.Flush(1.0, nil)

	if c.ShouldFlush(1.5) {
		t.Error("new window should start at last flush time")
	}

	stats := c.Flush(2.0, nil)
	if len(stats) != 1 || stats[0].Emitted != 0 || stats[0].Ticks != 0 {
		t.Errorf("expected empty second window, got %+v", stats)
	}
	if stats[0].WindowStartSec != 1.0 {
		t.Errorf("expected window start 1.0, got %v", stats[0].WindowStartSec)
	}
}
