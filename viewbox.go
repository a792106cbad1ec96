package rendercore

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// viewAnim holds the active tweens of an animated view change.
type viewAnim struct {
	zoom, x, y          *gween.Tween
	doneZ, doneX, doneY bool
}

// Viewbox is the view into the scene: a zoom factor and a pan offset in
// world units. The device transform is Scale(dpr*zoom) * Translate(pan).
//
// Values are stored as given; a zero or negative zoom is the caller's
// responsibility.
type Viewbox struct {
	Zoom float64
	PanX float64
	PanY float64

	anim *viewAnim
}

// NewViewbox returns a viewbox at zoom 1 with no pan.
func NewViewbox() Viewbox {
	return Viewbox{Zoom: 1}
}

// SetZoom sets the zoom factor and cancels any running animation.
func (v *Viewbox) SetZoom(zoom float64) {
	v.anim = nil
	v.Zoom = zoom
}

// SetPan sets the pan offset and cancels any running animation.
func (v *Viewbox) SetPan(x, y float64) {
	v.anim = nil
	v.PanX = x
	v.PanY = y
}

// SetAll sets zoom and pan together and cancels any running animation.
func (v *Viewbox) SetAll(zoom, x, y float64) {
	v.anim = nil
	v.Zoom = zoom
	v.PanX = x
	v.PanY = y
}

// AnimateTo tweens the view to the given zoom and pan over duration seconds.
// A nil easeFn means ease.InOutCubic. The view only moves when Advance is
// called.
func (v *Viewbox) AnimateTo(zoom, x, y float64, duration float32, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.InOutCubic
	}
	if duration <= 0 {
		v.SetAll(zoom, x, y)
		return
	}
	v.anim = &viewAnim{
		zoom: gween.New(float32(v.Zoom), float32(zoom), duration, easeFn),
		x:    gween.New(float32(v.PanX), float32(x), duration, easeFn),
		y:    gween.New(float32(v.PanY), float32(y), duration, easeFn),
	}
}

// Animating reports whether an animation is in progress.
func (v *Viewbox) Animating() bool {
	return v.anim != nil
}

// Advance steps a running animation by dt seconds. It reports whether the
// view changed.
func (v *Viewbox) Advance(dt float32) bool {
	a := v.anim
	if a == nil {
		return false
	}
	if !a.doneZ {
		val, done := a.zoom.Update(dt)
		v.Zoom = float64(val)
		a.doneZ = done
	}
	if !a.doneX {
		val, done := a.x.Update(dt)
		v.PanX = float64(val)
		a.doneX = done
	}
	if !a.doneY {
		val, done := a.y.Update(dt)
		v.PanY = float64(val)
		a.doneY = done
	}
	if a.doneZ && a.doneX && a.doneY {
		v.anim = nil
	}
	return true
}

// Matrix returns the world-to-device transform for the given device pixel
// ratio.
func (v *Viewbox) Matrix(dpr float64) Matrix {
	s := dpr * v.Zoom
	return ScaleMatrix(s, s).Multiply(Translate(v.PanX, v.PanY))
}

// WorldToScreen converts world coordinates to device coordinates.
func (v *Viewbox) WorldToScreen(dpr, wx, wy float64) (sx, sy float64) {
	return v.Matrix(dpr).TransformPoint(wx, wy)
}

// ScreenToWorld converts device coordinates to world coordinates.
func (v *Viewbox) ScreenToWorld(dpr, sx, sy float64) (wx, wy float64) {
	return v.Matrix(dpr).Invert().TransformPoint(sx, sy)
}
