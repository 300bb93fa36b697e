package telemetry

import (
	"log/slog"
	"time"
)

// Frame phases, in the order Demo runs them.
const (
	PhaseEmission  = "emission"
	PhaseFlame     = "flame"
	PhaseSparks    = "sparks"
	PhaseUI        = "ui"
	PhaseTelemetry = "telemetry"
)

var phaseOrder = [...]string{PhaseEmission, PhaseFlame, PhaseSparks, PhaseUI, PhaseTelemetry}

const numPhases = len(phaseOrder)

// noPhase marks time that is not charged to any phase.
const noPhase = -1

func phaseIndex(name string) int {
	for i, p := range phaseOrder {
		if p == name {
			return i
		}
	}
	return noPhase
}

// frameSample is the CPU time one frame spent, split by phase.
type frameSample struct {
	work   time.Duration
	phases [numPhases]time.Duration
}

// PerfCollector times frame phases over a rolling window of frames.
// It is not safe for concurrent use; the render loop owns it.
type PerfCollector struct {
	now func() time.Time

	ring  []frameSample
	next  int
	count int

	cur        frameSample
	frameStart time.Time
	phaseStart time.Time
	phase      int

	lastPresent time.Time
	interval    time.Duration
}

// NewPerfCollector keeps the last window frames. A window below one falls
// back to 60 (one second at 60 fps).
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 60
	}
	return &PerfCollector{
		now:   time.Now,
		ring:  make([]frameSample, window),
		phase: noPhase,
	}
}

// BeginFrame starts timing a frame. Time before the first StartPhase is
// counted in the frame total only.
func (p *PerfCollector) BeginFrame() {
	p.frameStart = p.now()
	p.cur = frameSample{}
	p.phase = noPhase
}

// StartPhase closes the running phase and opens the named one. Unknown
// names stop phase accounting until the next known phase.
func (p *PerfCollector) StartPhase(name string) {
	t := p.now()
	p.closePhase(t)
	p.phase = phaseIndex(name)
	p.phaseStart = t
}

func (p *PerfCollector) closePhase(t time.Time) {
	if p.phase != noPhase {
		p.cur.phases[p.phase] += t.Sub(p.phaseStart)
	}
}

// EndFrame closes the frame, stores its sample and measures the interval
// since the previous EndFrame, which is what the display sees.
func (p *PerfCollector) EndFrame() {
	t := p.now()
	p.closePhase(t)
	p.phase = noPhase
	p.cur.work = t.Sub(p.frameStart)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	if p.count < len(p.ring) {
		p.count++
	}

	if !p.lastPresent.IsZero() {
		p.interval = t.Sub(p.lastPresent)
	}
	p.lastPresent = t
}

// PhaseStat is one phase's share of the average frame.
type PhaseStat struct {
	Name string
	Avg  time.Duration
	Pct  float64
}

// PerfStats summarises the window.
type PerfStats struct {
	Frames  int
	AvgWork time.Duration
	MinWork time.Duration
	MaxWork time.Duration

	// Phases is always in frame order, one entry per phase.
	Phases []PhaseStat

	Interval time.Duration
	FPS      float64
}

// Phase returns the entry for name, or a zero PhaseStat if name is not a phase.
func (s PerfStats) Phase(name string) PhaseStat {
	if i := phaseIndex(name); i != noPhase && i < len(s.Phases) {
		return s.Phases[i]
	}
	return PhaseStat{Name: name}
}

// Stats aggregates the frames currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		Frames:   p.count,
		Phases:   make([]PhaseStat, numPhases),
		Interval: p.interval,
	}
	if p.interval > 0 {
		s.FPS = float64(time.Second) / float64(p.interval)
	}

	var total time.Duration
	var sums [numPhases]time.Duration
	for i, f := range p.ring[:p.count] {
		total += f.work
		if i == 0 || f.work < s.MinWork {
			s.MinWork = f.work
		}
		s.MaxWork = max(s.MaxWork, f.work)
		for j, d := range f.phases {
			sums[j] += d
		}
	}
	if p.count > 0 {
		s.AvgWork = total / time.Duration(p.count)
	}

	for i, name := range phaseOrder {
		ps := PhaseStat{Name: name}
		if p.count > 0 {
			ps.Avg = sums[i] / time.Duration(p.count)
		}
		if total > 0 {
			ps.Pct = float64(sums[i]) / float64(total) * 100
		}
		s.Phases[i] = ps
	}
	return s
}

// LogStats writes one "perf" line. Phases under 0.1% are omitted.
func (s PerfStats) LogStats() {
	attrs := []any{
		"frames", s.Frames,
		"avg_work_us", s.AvgWork.Microseconds(),
		"max_work_us", s.MaxWork.Microseconds(),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, ps := range s.Phases {
		if ps.Pct > 0.1 {
			attrs = append(attrs, ps.Name+"_pct", int(ps.Pct*10)/10.0)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("frames", s.Frames),
		slog.Int64("avg_work_us", s.AvgWork.Microseconds()),
		slog.Int64("min_work_us", s.MinWork.Microseconds()),
		slog.Int64("max_work_us", s.MaxWork.Microseconds()),
		slog.Float64("fps", s.FPS),
	}
	for _, ps := range s.Phases {
		attrs = append(attrs, slog.Float64(ps.Name+"_pct", ps.Pct))
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	RunID        string  `csv:"run_id"`
	WindowEnd    float64 `csv:"window_end"`
	Frames       int     `csv:"frames"`
	AvgWorkUS    int64   `csv:"avg_work_us"`
	MinWorkUS    int64   `csv:"min_work_us"`
	MaxWorkUS    int64   `csv:"max_work_us"`
	IntervalUS   int64   `csv:"interval_us"`
	FPS          float64 `csv:"fps"`
	EmissionPct  float64 `csv:"emission_pct"`
	FlamePct     float64 `csv:"flame_pct"`
	SparksPct    float64 `csv:"sparks_pct"`
	UIPct        float64 `csv:"ui_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV flattens s for gocsv.
func (s PerfStats) ToCSV(runID string, windowEnd float64) PerfStatsCSV {
	return PerfStatsCSV{
		RunID:        runID,
		WindowEnd:    windowEnd,
		Frames:       s.Frames,
		AvgWorkUS:    s.AvgWork.Microseconds(),
		MinWorkUS:    s.MinWork.Microseconds(),
		MaxWorkUS:    s.MaxWork.Microseconds(),
		IntervalUS:   s.Interval.Microseconds(),
		FPS:          s.FPS,
		EmissionPct:  s.Phase(PhaseEmission).Pct,
		FlamePct:     s.Phase(PhaseFlame).Pct,
		SparksPct:    s.Phase(PhaseSparks).Pct,
		UIPct:        s.Phase(PhaseUI).Pct,
		TelemetryPct: s.Phase(PhaseTelemetry).Pct,
	}
}
