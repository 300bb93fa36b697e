package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sparks/camera"
	"github.com/pthm-cable/sparks/game"
)

// Tunable is the live state the tuning panel edits. *game.Demo implements it.
type Tunable interface {
	Streams() []game.StreamInfo
	SetEnabled(name string, enabled bool) error
	SetInterval(name string, sec float32) error
	Gravity() float32
	SetGravity(g float32)
	Camera() *camera.Camera
}

// Slider limits.
const (
	maxInterval = 1.0
	minGravity  = -5.0
	maxGravity  = 2.0
	minDistance = 0.5
	maxDistance = 6.0
)

// TuningPanel renders raygui controls for the emitters, gravity and camera.
type TuningPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool

	defaultGravity float32
}

// NewTuningPanel creates a new tuning panel. defaultGravity is restored by
// the reset button.
func NewTuningPanel(x, y, width int32, defaultGravity float32) *TuningPanel {
	return &TuningPanel{
		renderer:       NewRenderer(),
		x:              x,
		y:              y,
		width:          width,
		visible:        true,
		defaultGravity: defaultGravity,
	}
}

// Toggle switches panel visibility.
func (p *TuningPanel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// SetPosition updates the panel position.
func (p *TuningPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the panel and applies any edits to t.
func (p *TuningPanel) Draw(t Tunable) {
	if !p.visible {
		return
	}

	r := p.renderer
	padding := r.Theme.Padding
	streams := t.Streams()

	r.DrawPanel(p.x, p.y, p.width, panelHeight(len(streams)))

	x := float32(p.x + padding)
	y := p.y + padding
	sliderW := float32(p.width - 2*padding - 50)

	y = r.DrawSectionHeader(p.x+padding, y, "Emitters")
	for _, s := range streams {
		enabled := gui.CheckBox(rl.Rectangle{X: x, Y: float32(y), Width: 14, Height: 14}, s.Name, s.Enabled)
		if enabled != s.Enabled {
			_ = t.SetEnabled(s.Name, enabled)
		}
		y += 20

		y = r.DrawFillBar(p.x+padding, y, "live", s.LiveCount, s.Capacity, p.width-2*padding)
		y = r.DrawLabelValue(p.x+padding, y, "emitted", fmt.Sprintf("%d", s.TotalEmitted))

		interval := gui.SliderBar(
			rl.Rectangle{X: x + float32(r.Theme.LabelWidth), Y: float32(y), Width: sliderW - float32(r.Theme.LabelWidth), Height: 14},
			"interval", fmt.Sprintf("%.2fs", s.Interval),
			s.Interval, 0, maxInterval,
		)
		if interval != s.Interval {
			_ = t.SetInterval(s.Name, interval)
		}
		y += 22
	}

	y += 4
	y = r.DrawSectionHeader(p.x+padding, y, "Physics")
	gravity := t.Gravity()
	newGravity := gui.SliderBar(
		rl.Rectangle{X: x + float32(r.Theme.LabelWidth), Y: float32(y), Width: sliderW - float32(r.Theme.LabelWidth), Height: 14},
		"gravity", fmt.Sprintf("%.2f", gravity),
		gravity, minGravity, maxGravity,
	)
	if newGravity != gravity {
		t.SetGravity(newGravity)
	}
	y += 22

	cam := t.Camera()
	newDistance := gui.SliderBar(
		rl.Rectangle{X: x + float32(r.Theme.LabelWidth), Y: float32(y), Width: sliderW - float32(r.Theme.LabelWidth), Height: 14},
		"camera", fmt.Sprintf("%.2f", cam.Distance),
		cam.Distance, minDistance, maxDistance,
	)
	if newDistance != cam.Distance {
		cam.SetDistance(newDistance)
	}
	y += 22

	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: 120, Height: 22}, "Reset gravity") {
		t.SetGravity(p.defaultGravity)
	}
}

// panelHeight returns the panel height for n streams.
func panelHeight(n int) int32 {
	th := DefaultTheme()
	perStream := 20 + th.LineHeight + 2 + th.LineHeight + 22
	return th.Padding*2 + th.LineHeight + int32(n)*perStream + 4 + th.LineHeight + 22*2 + 22
}
