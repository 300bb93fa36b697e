package telemetry

import (
	"testing"
	"time"
)

// fakeClock advances only when told to.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCollector(window int) (*PerfCollector, *fakeClock) {
	clk := &fakeClock{t: time.Unix(1000, 0)}
	pc := NewPerfCollector(window)
	pc.now = clk.Now
	return pc, clk
}

// frame runs one frame where each phase takes the given duration.
func frame(pc *PerfCollector, clk *fakeClock, phases map[string]time.Duration) {
	pc.BeginFrame()
	for _, name := range phaseOrder {
		d, ok := phases[name]
		if !ok {
			continue
		}
		pc.StartPhase(name)
		clk.Advance(d)
	}
	pc.EndFrame()
}

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc, clk := newTestCollector(10)

	for i := 0; i < 5; i++ {
		frame(pc, clk, map[string]time.Duration{
			PhaseEmission: 100 * time.Microsecond,
			PhaseSparks:   200 * time.Microsecond,
		})
	}

	stats := pc.Stats()
	if stats.Frames != 5 {
		t.Errorf("expected 5 frames, got %d", stats.Frames)
	}
	if stats.AvgWork != 300*time.Microsecond {
		t.Errorf("expected 300us average frame, got %v", stats.AvgWork)
	}
	if got := stats.Phase(PhaseEmission).Avg; got != 100*time.Microsecond {
		t.Errorf("expected 100us emission, got %v", got)
	}
	if got := stats.Phase(PhaseSparks).Avg; got != 200*time.Microsecond {
		t.Errorf("expected 200us sparks, got %v", got)
	}
	if got := stats.Phase(PhaseFlame).Avg; got != 0 {
		t.Errorf("expected untouched flame phase to be zero, got %v", got)
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc, clk := newTestCollector(5)

	// Five slow frames, then five fast ones that push them all out.
	for i := 0; i < 5; i++ {
		frame(pc, clk, map[string]time.Duration{PhaseEmission: 10 * time.Millisecond})
	}
	for i := 0; i < 5; i++ {
		frame(pc, clk, map[string]time.Duration{PhaseEmission: time.Millisecond})
	}

	stats := pc.Stats()
	if stats.Frames != 5 {
		t.Errorf("expected window of 5, got %d", stats.Frames)
	}
	if stats.AvgWork != time.Millisecond || stats.MaxWork != time.Millisecond {
		t.Errorf("expected only the fast frames in the window, got avg=%v max=%v", stats.AvgWork, stats.MaxWork)
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc, clk := newTestCollector(10)

	for i := 0; i < 5; i++ {
		frame(pc, clk, map[string]time.Duration{
			PhaseEmission: 10 * time.Microsecond,
			PhaseSparks:   90 * time.Microsecond,
		})
	}

	stats := pc.Stats()
	if got := stats.Phase(PhaseEmission).Pct; got != 10 {
		t.Errorf("expected emission at 10%%, got %v", got)
	}
	if got := stats.Phase(PhaseSparks).Pct; got != 90 {
		t.Errorf("expected sparks at 90%%, got %v", got)
	}
}

func TestPerfCollector_UnknownPhaseNotCharged(t *testing.T) {
	pc, clk := newTestCollector(4)

	pc.BeginFrame()
	pc.StartPhase(PhaseEmission)
	clk.Advance(time.Millisecond)
	pc.StartPhase("vsync")
	clk.Advance(3 * time.Millisecond)
	pc.EndFrame()

	stats := pc.Stats()
	if stats.AvgWork != 4*time.Millisecond {
		t.Errorf("expected the full 4ms in the frame total, got %v", stats.AvgWork)
	}
	if got := stats.Phase(PhaseEmission).Pct; got != 25 {
		t.Errorf("expected emission at 25%%, got %v", got)
	}
	if got := stats.Phase("vsync"); got.Avg != 0 || got.Pct != 0 {
		t.Errorf("expected no stat for an unknown phase, got %+v", got)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc, _ := newTestCollector(10)

	stats := pc.Stats()
	if stats.AvgWork != 0 || stats.Frames != 0 {
		t.Errorf("expected zero stats for empty collector, got %+v", stats)
	}
	if len(stats.Phases) != numPhases {
		t.Fatalf("expected %d phase entries, got %d", numPhases, len(stats.Phases))
	}
	for i, ps := range stats.Phases {
		if ps.Name != phaseOrder[i] {
			t.Errorf("phase %d: expected %q, got %q", i, phaseOrder[i], ps.Name)
		}
	}
}

func TestPerfCollector_FrameInterval(t *testing.T) {
	pc, clk := newTestCollector(10)

	// The first frame has no predecessor to measure against.
	frame(pc, clk, map[string]time.Duration{PhaseSparks: 4 * time.Millisecond})
	if fps := pc.Stats().FPS; fps != 0 {
		t.Errorf("expected no FPS after one frame, got %v", fps)
	}

	clk.Advance(16 * time.Millisecond)
	frame(pc, clk, map[string]time.Duration{PhaseSparks: 4 * time.Millisecond})

	stats := pc.Stats()
	if stats.Interval != 20*time.Millisecond {
		t.Errorf("expected 20ms between frame ends, got %v", stats.Interval)
	}
	if stats.FPS != 50 {
		t.Errorf("expected 50 fps, got %v", stats.FPS)
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	s := PerfStats{
		Frames:  60,
		AvgWork: 2 * time.Millisecond,
		Phases: []PhaseStat{
			{Name: PhaseEmission, Pct: 10},
			{Name: PhaseFlame, Pct: 30},
			{Name: PhaseSparks, Pct: 60},
			{Name: PhaseUI},
			{Name: PhaseTelemetry},
		},
	}

	row := s.ToCSV("run-1", 5.0)
	if row.RunID != "run-1" || row.WindowEnd != 5.0 || row.Frames != 60 {
		t.Errorf("unexpected row metadata: %+v", row)
	}
	if row.AvgWorkUS != 2000 {
		t.Errorf("expected 2000us, got %d", row.AvgWorkUS)
	}
	if row.EmissionPct != 10 || row.SparksPct != 60 || row.FlamePct != 30 || row.UIPct != 0 {
		t.Errorf("unexpected phase percentages: %+v", row)
	}
}

func TestPerfStats_ToCSVZeroValue(t *testing.T) {
	row := PerfStats{}.ToCSV("run", 1)
	if row.EmissionPct != 0 || row.TelemetryPct != 0 {
		t.Errorf("expected zero percentages from empty stats, got %+v", row)
	}
}
