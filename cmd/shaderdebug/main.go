// Shader debug tool - renders the flame and sparks at a chosen time to a PNG.
//
// Usage: go run ./cmd/shaderdebug -time 3 -out debug.png
//
// With -cpu the sparks are drawn from the CPU reference of the spark shader
// instead of the shader itself, which makes shader regressions visible by
// diffing the two images.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sparks/config"
	"github.com/pthm-cable/sparks/game"
	"github.com/pthm-cable/sparks/gfx/rlgfx"
	"github.com/pthm-cable/sparks/particles"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outPath := flag.String("out", "debug.png", "Output PNG path")
	width := flag.Int("width", 512, "Render width")
	height := flag.Int("height", 512, "Render height")
	simTime := flag.Float64("time", 3.0, "Seconds of emission to simulate before rendering")
	seed := flag.Int64("seed", 1, "RNG seed")
	cpu := flag.Bool("cpu", false, "Draw sparks from the CPU reference instead of the shader")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Initialize raylib with hidden window
	rl.SetConfigFlags(rl.FlagWindowHidden)
	rl.InitWindow(int32(*width), int32(*height), "Shader Debug")
	defer rl.CloseWindow()

	d := game.NewDemo(cfg, rlgfx.New(), game.Options{Seed: *seed, Headless: true})
	if err := d.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer d.Unload()

	// Emit at a fixed 60 Hz up to the requested time
	fps := cfg.Screen.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	ticks := int(*simTime * float64(fps))
	for i := 0; i <= ticks; i++ {
		d.Tick(float32(float64(i) / float64(fps)))
	}

	// Create render texture
	target := rl.LoadRenderTexture(int32(*width), int32(*height))
	defer rl.UnloadRenderTexture(target)

	rl.BeginTextureMode(target)
	rl.ClearBackground(rl.Black)
	if *cpu {
		drawReference(d, *width, *height)
	} else {
		d.Draw()
	}
	rl.EndTextureMode()

	// Get image from texture and flip it (OpenGL convention)
	img := rl.LoadImageFromTexture(target.Texture)
	rl.ImageFlipVertical(img)

	// Export to PNG
	success := rl.ExportImage(*img, *outPath)
	rl.UnloadImage(img)

	if success {
		slog.Info("rendered", "out", *outPath, "width", *width, "height", *height, "time", d.Now(), "cpu", *cpu)
	} else {
		fmt.Fprintf(os.Stderr, "Failed to export image\n")
		os.Exit(1)
	}
}

// drawReference draws every live slot as a circle using particles.Appearance,
// mapping clip space to pixels the way the spark vertex shader does.
func drawReference(d *game.Demo, width, height int) {
	rl.BeginBlendMode(rl.BlendAdditive)
	defer rl.EndBlendMode()

	for _, s := range d.Streams() {
		ring, ok := d.Ring(s.Name)
		if !ok {
			continue
		}
		for i := 0; i < ring.LiveCount(); i++ {
			rec := ring.Slot(i)
			v := particles.Appearance(rec, d.Now(), d.Gravity())
			if !v.Alive || v.Size <= 0 {
				continue
			}
			px := (v.Position[0] + 1) / 2 * float32(width)
			py := (1 - v.Position[1]) / 2 * float32(height)
			col := rl.ColorFromNormalized(rl.Vector4{X: rec.Color[0], Y: rec.Color[1], Z: rec.Color[2], W: v.Alpha})
			rl.DrawCircleV(rl.Vector2{X: px, Y: py}, v.Size/2, col)
		}
	}
}
