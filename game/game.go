// Package game wires emitters, renderers and telemetry into the demo loop.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/google/uuid"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sparks/camera"
	"github.com/pthm-cable/sparks/components"
	"github.com/pthm-cable/sparks/config"
	"github.com/pthm-cable/sparks/gfx"
	"github.com/pthm-cable/sparks/renderer"
	"github.com/pthm-cable/sparks/systems"
	"github.com/pthm-cable/sparks/telemetry"
)

// Options configures a demo run.
type Options struct {
	Seed           int64   // RNG seed for particle jitter
	LogStats       bool    // Log window stats via slog
	StatsWindowSec float64 // Stats window size in seconds (0 = use config)
	OutputDir      string  // Directory for CSV logs and config snapshot (empty = disabled)
	Headless       bool    // No window; the backend is a recording device
}

// Demo holds the complete demo state.
type Demo struct {
	cfg     *config.Config
	backend gfx.Backend
	opts    Options
	rng     *rand.Rand
	runID   uuid.UUID

	// ECS
	world        *ecs.World
	streamMapper *ecs.Map3[components.Source, components.Spawner, components.Stream]
	streamFilter *ecs.Filter2[components.Source, components.Stream]
	sourceMap    *ecs.Map[components.Source]
	spawnerMap   *ecs.Map[components.Spawner]
	streamMap    *ecs.Map[components.Stream]
	entities     map[string]ecs.Entity
	order        []string

	emission *systems.EmissionSystem
	registry *systems.SystemRegistry

	// Rendering
	camera *camera.Camera
	flame  *renderer.FlameRenderer
	sparks *renderer.SparkRenderer

	// Overlay is drawn last each frame (the tuning panel in windowed mode).
	overlay func()

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	fps           *telemetry.FPSCounter
	outputManager *telemetry.OutputManager

	// State
	gravity     float32
	now         float32
	lastNow     float32
	tick        int
	emitted     int // emissions during the current tick
	initialized bool
}

// NewDemo creates a demo over the given backend. Call Init before Tick.
func NewDemo(cfg *config.Config, backend gfx.Backend, opts Options) *Demo {
	world := ecs.NewWorld()

	windowSec := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		windowSec = opts.StatsWindowSec
	}

	runID := uuid.New()
	d := &Demo{
		cfg:     cfg,
		backend: backend,
		opts:    opts,
		rng:     rand.New(rand.NewSource(opts.Seed)),
		runID:   runID,

		world:        world,
		streamMapper: ecs.NewMap3[components.Source, components.Spawner, components.Stream](world),
		streamFilter: ecs.NewFilter2[components.Source, components.Stream](world),
		sourceMap:    ecs.NewMap[components.Source](world),
		spawnerMap:   ecs.NewMap[components.Spawner](world),
		streamMap:    ecs.NewMap[components.Stream](world),
		entities:     make(map[string]ecs.Entity),

		emission: systems.NewEmissionSystem(world),
		registry: systems.NewSystemRegistry(),

		collector:     telemetry.NewCollector(runID.String(), windowSec),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		fps:           telemetry.NewFPSCounter(cfg.Telemetry.FPSInterval),

		gravity: cfg.Derived.Gravity32,
	}

	w, h := backend.Viewport()
	d.camera = camera.New(
		float32(cfg.Camera.FovY),
		float32(cfg.Camera.Near),
		float32(cfg.Camera.Far),
		float32(cfg.Camera.Distance),
		float32(w), float32(h),
	)
	return d
}

// Init allocates one ring buffer per configured emitter and builds the
// shader programs. A ring buffer allocation failure is fatal and returned;
// shader failures are logged and only disable the affected draw.
func (d *Demo) Init() error {
	if d.initialized {
		return nil
	}

	d.sparks = renderer.NewSparkRenderer(d.backend, d.cfg.Sparks.VertexShader, d.cfg.Sparks.FragmentShader)
	if d.cfg.Flame.Enabled {
		d.flame = renderer.NewFlameRenderer(d.backend, d.cfg.Flame.VertexShader, d.cfg.Flame.FragmentShader)
	}

	for _, ec := range d.cfg.Emitters {
		if err := d.spawnStream(ec); err != nil {
			d.Unload()
			return fmt.Errorf("initializing emitter %q: %w", ec.Name, err)
		}
	}

	om, err := telemetry.NewOutputManager(d.opts.OutputDir)
	if err != nil {
		d.Unload()
		return fmt.Errorf("initializing output: %w", err)
	}
	d.outputManager = om
	if err := om.WriteConfig(d.cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	d.initialized = true
	slog.Info("demo initialized",
		"run_id", d.runID.String(),
		"emitters", len(d.order),
		"enabled", d.cfg.Derived.EnabledCount,
		"capacity", d.cfg.Sparks.Capacity,
		"sparks_ready", d.sparks.Ready(),
		"flame_ready", d.flame != nil && d.flame.Ready(),
		"headless", d.opts.Headless,
	)
	return nil
}

// Tick advances the demo to time now (seconds since start): emitters get
// one chance to emit, and telemetry counts the frame.
func (d *Demo) Tick(now float32) {
	d.perfCollector.BeginFrame()
	d.perfCollector.StartPhase(telemetry.PhaseEmission)

	frameSec := float64(0)
	if d.tick > 0 {
		frameSec = float64(now - d.lastNow)
	}
	d.lastNow = now
	d.now = now
	d.tick++

	d.emitted = 0
	for _, ev := range d.emission.Update(now) {
		d.emitted++
		d.collector.RecordEmission(ev.Source, ev.Record.Duration)
		if ev.Err != nil {
			d.collector.RecordUploadError(ev.Source)
			slog.Warn("particle upload failed", "emitter", ev.Source, "error", ev.Err)
		}
	}

	d.collector.RecordTick(frameSec)
	if fps, ok := d.fps.Frame(float64(now)); ok {
		slog.Info("fps", "fps", fps, "run_id", d.runID.String())
	}
}

// Draw renders the flame quad, then the sparks, then the overlay, and
// closes the frame's perf sample.
func (d *Demo) Draw() {
	w, h := d.backend.Viewport()
	d.camera.Resize(float32(w), float32(h))

	d.perfCollector.StartPhase(telemetry.PhaseFlame)
	if d.flame != nil {
		d.flame.Draw(d.now, d.camera)
	}

	d.perfCollector.StartPhase(telemetry.PhaseSparks)
	d.sparks.Draw(d.now, d.gravity)

	d.perfCollector.StartPhase(telemetry.PhaseUI)
	if d.overlay != nil {
		d.overlay()
	}

	d.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	d.flushTelemetry()

	d.perfCollector.EndFrame()
}

// Unload releases GPU resources and closes output files.
func (d *Demo) Unload() {
	if d.sparks != nil {
		d.sparks.Unload()
	}
	if d.flame != nil {
		d.flame.Unload()
	}

	query := d.streamFilter.Query()
	for query.Next() {
		_, st := query.Get()
		if st.Ring != nil {
			st.Ring.Release()
		}
	}

	if err := d.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	d.outputManager = nil
	d.initialized = false
}

// SetOverlay installs a callback drawn after the particles each frame.
func (d *Demo) SetOverlay(fn func()) {
	d.overlay = fn
}

// TickCount returns the number of ticks run so far.
func (d *Demo) TickCount() int {
	return d.tick
}

// Now returns the time of the last tick.
func (d *Demo) Now() float32 {
	return d.now
}

// RunID returns the identifier stamped into logs and CSV rows.
func (d *Demo) RunID() string {
	return d.runID.String()
}

// Camera returns the flame camera.
func (d *Demo) Camera() *camera.Camera {
	return d.camera
}

// Gravity returns the vertical acceleration passed to the spark program.
func (d *Demo) Gravity() float32 {
	return d.gravity
}

// SetGravity changes gravity for every live and future particle.
func (d *Demo) SetGravity(g float32) {
	d.gravity = g
}

// FPS returns the last completed frames-per-second figure.
func (d *Demo) FPS() int {
	return d.fps.Last()
}

// PerfStats returns the rolling per-phase timings.
func (d *Demo) PerfStats() telemetry.PerfStats {
	return d.perfCollector.Stats()
}

// Registry returns the frame phase registry.
func (d *Demo) Registry() *systems.SystemRegistry {
	return d.registry
}

// EmittedThisTick returns how many particles the last Tick emitted.
func (d *Demo) EmittedThisTick() int {
	return d.emitted
}
