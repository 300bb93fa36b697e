package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sparks/config"
	"github.com/pthm-cable/sparks/game"
	"github.com/pthm-cable/sparks/gfx"
	"github.com/pthm-cable/sparks/gfx/rlgfx"
	"github.com/pthm-cable/sparks/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
		Headless:       *headless,
	}

	if *headless {
		runHeadless(cfg, opts, *maxTicks)
		return
	}
	runWindowed(cfg, opts, *maxTicks)
}

// runHeadless drives the demo on a recording device with a fixed time step.
func runHeadless(cfg *config.Config, opts game.Options, maxTicks int) {
	dev := gfx.NewMemDevice()
	dev.Width, dev.Height = cfg.Screen.Width, cfg.Screen.Height

	d := game.NewDemo(cfg, dev, opts)
	if err := d.Init(); err != nil {
		slog.Error("failed to initialize demo", "error", err)
		os.Exit(1)
	}
	defer d.Unload()

	fps := cfg.Screen.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	step := 1.0 / float64(fps)

	slog.Info("starting headless run",
		"run_id", d.RunID(),
		"seed", opts.Seed,
		"max_ticks", maxTicks,
		"step", step,
	)

	for tick := 0; maxTicks == 0 || tick < maxTicks; tick++ {
		d.Tick(float32(float64(tick) * step))
		d.Draw()
		dev.Reset()
	}

	for _, s := range d.LastWindow() {
		s.LogStats()
	}
	slog.Info("max ticks reached", "tick", d.TickCount())
}

// runWindowed opens a raylib window and renders in real time.
func runWindowed(cfg *config.Config, opts game.Options, maxTicks int) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	d := game.NewDemo(cfg, rlgfx.New(), opts)
	if err := d.Init(); err != nil {
		slog.Error("failed to initialize demo", "error", err)
		os.Exit(1)
	}
	defer d.Unload()

	hud := ui.NewHUD()
	perf := ui.NewPerfPanel(10, 60)
	showPerf := false
	tuning := ui.NewTuningPanel(int32(cfg.Screen.Width)-290, 10, 280, cfg.Derived.Gravity32)

	d.SetOverlay(func() {
		w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
		live := 0
		for _, s := range d.Streams() {
			live += s.LiveCount
		}
		hud.Draw(ui.HUDData{
			Title:        cfg.Screen.Title,
			Tick:         d.TickCount(),
			Time:         d.Now(),
			FPS:          d.FPS(),
			Particles:    live,
			RunID:        d.RunID(),
			ScreenHeight: h,
		})
		hud.DrawControls(h, "[TAB] tuning  [P] perf  [ESC] quit")
		if showPerf {
			perf.Draw(d.PerfStats(), d.Registry())
		}
		tuning.SetPosition(w-290, 10)
		tuning.Draw(d)
	})

	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyTab) {
			tuning.Toggle()
		}
		if rl.IsKeyPressed(rl.KeyP) {
			showPerf = !showPerf
		}

		d.Tick(float32(rl.GetTime()))

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		d.Draw()
		rl.EndDrawing()

		if maxTicks > 0 && d.TickCount() >= maxTicks {
			break
		}
	}
}
