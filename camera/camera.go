// Package camera provides the perspective camera the flame quad is drawn with.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a perspective camera looking at the origin from +Z.
type Camera struct {
	// Projection parameters
	FovY      float32 // radians
	Near, Far float32

	// Eye distance from the origin along +Z
	Distance float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	view mgl32.Mat4
	proj mgl32.Mat4
}

// New creates a camera and computes its matrices.
func New(fovY, near, far, distance, viewportW, viewportH float32) *Camera {
	c := &Camera{
		FovY:      fovY,
		Near:      near,
		Far:       far,
		Distance:  distance,
		ViewportW: viewportW,
		ViewportH: viewportH,
	}
	c.update()
	return c
}

// Aspect returns the viewport aspect ratio (1 for a degenerate viewport).
func (c *Camera) Aspect() float32 {
	if c.ViewportH <= 0 {
		return 1
	}
	return c.ViewportW / c.ViewportH
}

// Resize updates the viewport and recomputes the projection.
// Call it each frame; it is a no-op when the size is unchanged.
func (c *Camera) Resize(w, h float32) {
	if w == c.ViewportW && h == c.ViewportH {
		return
	}
	c.ViewportW, c.ViewportH = w, h
	c.update()
}

// SetDistance moves the eye along +Z.
func (c *Camera) SetDistance(d float32) {
	c.Distance = d
	c.update()
}

func (c *Camera) update() {
	c.proj = mgl32.Perspective(c.FovY, c.Aspect(), c.Near, c.Far)
	c.view = mgl32.LookAtV(
		mgl32.Vec3{0, 0, c.Distance},
		mgl32.Vec3{0, 0, 0},
		mgl32.Vec3{0, 1, 0},
	)
}

// View returns the view matrix.
func (c *Camera) View() mgl32.Mat4 { return c.view }

// Projection returns the projection matrix.
func (c *Camera) Projection() mgl32.Mat4 { return c.proj }

// ViewProjection returns projection * view.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.proj.Mul4(c.view)
}

// WorldToClip transforms a world point to normalized device coordinates.
func (c *Camera) WorldToClip(p mgl32.Vec3) mgl32.Vec3 {
	v := c.ViewProjection().Mul4x1(p.Vec4(1))
	if v.W() == 0 {
		return mgl32.Vec3{}
	}
	return v.Vec3().Mul(1 / v.W())
}
