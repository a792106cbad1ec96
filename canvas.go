package rendercore

import "image"

// Paint describes how FillRect colors its rectangle: a solid Color, or a
// linear gradient when Gradient is non-nil.
type Paint struct {
	Color    Color
	Gradient *GradientPaint
}

// GradientPaint is a linear gradient resolved to absolute coordinates in
// the canvas's current user space.
type GradientPaint struct {
	Start, End Point
	Gradient   *LinearGradient
}

// ColorAt returns the gradient color at user-space point (x, y).
func (g *GradientPaint) ColorAt(x, y float64) Color {
	return g.Gradient.ColorAt(Project(g.Start, g.End, x, y))
}

// Canvas is the drawing backend the render pipeline streams the scene
// through. It keeps a current transform (the CTM) and a stack of saved
// states and compositing layers. Implementations live under backend/.
//
// A Canvas is driven from a single goroutine.
type Canvas interface {
	// Size returns the surface size in device pixels.
	Size() (width, height int)
	// Resize reallocates the surface. Contents are undefined afterwards.
	Resize(width, height int) error
	// Clear makes every pixel transparent and resets the CTM, clip, saved
	// states and layers.
	Clear()

	// Save pushes the CTM and clip.
	Save()
	// Restore pops the state pushed by the matching Save.
	Restore()
	// Concat post-multiplies the CTM: m applies before the current CTM.
	Concat(m Matrix)
	// SetMatrix replaces the CTM.
	SetMatrix(m Matrix)
	// ClipRect intersects the clip with r in user space.
	ClipRect(r Rect)

	// SaveLayer redirects drawing into an offscreen layer that is composited
	// with mode and opacity by the matching RestoreLayer.
	SaveLayer(mode BlendMode, opacity float64)
	// RestoreLayer composites the innermost layer onto its parent.
	RestoreLayer()

	// FillRect fills r in user space.
	FillRect(r Rect, p Paint) error
	// DrawImage draws img stretched into dst in user space with the given
	// alpha in [0, 1].
	DrawImage(img *Image, dst Rect, alpha float64) error

	// Snapshot copies the current surface.
	Snapshot() image.Image
	// DrawSnapshot draws a snapshot under m (device to device), ignoring the
	// CTM.
	DrawSnapshot(img image.Image, m Matrix) error
}

// Overlay draws debug decorations for shapes when DebugShapeBounds is set.
// It receives the canvas with the shape's full transform as the CTM.
type Overlay interface {
	DrawShape(c Canvas, s *Shape) error
}
