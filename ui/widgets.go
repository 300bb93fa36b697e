package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawFillBar draws a count/capacity bar, shifting color as it fills.
func (r *Renderer) DrawFillBar(x, y int32, label string, current, max int, width int32) int32 {
	ratio := fillRatio(current, max)

	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth - 80

	// Label
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)

	// Background
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.BarBg)

	barColor := r.Theme.BarFillLow
	if ratio >= 1 {
		barColor = r.Theme.BarFillHigh
	} else if ratio >= 0.6 {
		barColor = r.Theme.BarFillMedium
	}

	// Fill
	fillWidth := int32(float32(barWidth) * ratio)
	rl.DrawRectangle(barX, y+2, fillWidth, r.Theme.BarHeight, barColor)

	// Value text
	rl.DrawText(fmt.Sprintf("%d/%d", current, max), barX+barWidth+5, y, r.Theme.FontSize, r.Theme.ValueColor)

	return y + r.Theme.LineHeight + 2
}

// fillRatio returns current/max clamped to [0, 1].
func fillRatio(current, max int) float32 {
	if max <= 0 || current <= 0 {
		return 0
	}
	if current >= max {
		return 1
	}
	return float32(current) / float32(max)
}
