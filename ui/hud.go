package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sparks/systems"
	"github.com/pthm-cable/sparks/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Tick         int
	Time         float32
	FPS          int
	Particles    int // live slots across all streams
	RunID        string
	ScreenHeight int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("FPS: %d | Particles: %d | Time: %.1fs | Tick: %d", data.FPS, data.Particles, data.Time, data.Tick),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText("run "+data.RunID, 10, data.ScreenHeight-20, 12, rl.DarkGray)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-40, 14, rl.Gray)
}

// PerfPanel renders the per-phase frame cost.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel with phases in registry order.
func (p *PerfPanel) Draw(stats telemetry.PerfStats, registry *systems.SystemRegistry) {
	x := p.x
	y := p.y

	rl.DrawText("Frame Phases", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Total: %s", stats.AvgWork.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 16

	for _, info := range registry.All() {
		ps := stats.Phase(info.ID)
		avg, pct := ps.Avg, ps.Pct

		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-10s %6s %5.1f%%", info.Name, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
