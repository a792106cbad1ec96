package rendercore

// RenderState is the view, debug and caching configuration, independent of
// scene content. It owns the image cache.
type RenderState struct {
	Viewbox Viewbox
	DPR     float64
	Debug   DebugFlags
	Images  ImageCache
}

// NewRenderState creates a render state with identity view, DPR 1 and an
// image cache of the given capacity (<= 0 for unbounded).
func NewRenderState(imageCapacity int) *RenderState {
	return &RenderState{
		Viewbox: NewViewbox(),
		DPR:     1,
		Images:  NewImageCache(imageCapacity),
	}
}

// SetDebugFlags overwrites the debug bitmask.
func (rs *RenderState) SetDebugFlags(flags DebugFlags) {
	rs.Debug = flags
}

// SetDPR overwrites the device pixel ratio. No validation is performed.
func (rs *RenderState) SetDPR(dpr float64) {
	rs.DPR = dpr
}

// ViewMatrix returns the world-to-device transform.
func (rs *RenderState) ViewMatrix() Matrix {
	return rs.Viewbox.Matrix(rs.DPR)
}
