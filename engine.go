package rendercore

import (
	"github.com/sirupsen/logrus"
	"github.com/tanema/gween/ease"
)

// gradientStopSize is the byte size of one host gradient stop record:
// r, g, b, a, offset (0-100).
const gradientStopSize = 5

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	log           logrus.FieldLogger
	imageCapacity int
	dpr           float64
	debug         DebugFlags
	overlay       Overlay
	maxDepth      int
}

// WithLogger sets the logger. The default is DefaultLogger().
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *engineOptions) { o.log = log }
}

// WithImageCacheCapacity bounds the image cache to roughly n images with
// least-recently-used eviction. n <= 0 keeps every image.
func WithImageCacheCapacity(n int) Option {
	return func(o *engineOptions) { o.imageCapacity = n }
}

// WithDPR sets the initial device pixel ratio.
func WithDPR(dpr float64) Option {
	return func(o *engineOptions) { o.dpr = dpr }
}

// WithDebugFlags sets the initial debug bitmask.
func WithDebugFlags(flags DebugFlags) Option {
	return func(o *engineOptions) { o.debug = flags }
}

// WithOverlay sets the overlay that receives shapes when DebugShapeBounds is
// enabled.
func WithOverlay(ov Overlay) Option {
	return func(o *engineOptions) { o.overlay = ov }
}

// WithMaxDepth sets how deep the render walk descends before cutting a
// branch. n <= 0 keeps DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(o *engineOptions) { o.maxDepth = n }
}

// Engine is one scene with its render state, selection cursor and boundary
// arena, drawn through a Canvas. It is the handle every host entry point
// operates on.
//
// Shape mutators act on the selected shape and are silent no-ops when
// nothing is selected.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	store  *Store
	state  *RenderState
	cursor Cursor
	arena  *Arena
	render *renderer
	log    logrus.FieldLogger
}

// New creates an engine drawing into canvas, which is resized to width x
// height.
func New(canvas Canvas, width, height int, opts ...Option) (*Engine, error) {
	o := engineOptions{dpr: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = defaultLogger
	}
	if width <= 0 || height <= 0 {
		return nil, opError("init", ID{}, ErrInvalidSize)
	}
	if err := canvas.Resize(width, height); err != nil {
		return nil, opError("init", ID{}, err)
	}

	state := NewRenderState(o.imageCapacity)
	state.SetDPR(o.dpr)
	state.SetDebugFlags(o.debug)

	e := &Engine{
		store: NewStore(),
		state: state,
		arena: NewArena(),
		log:   o.log,
	}
	e.render = newRenderer(canvas, e.store, state, o.log)
	e.render.overlay = o.overlay
	if o.maxDepth > 0 {
		e.render.maxDepth = o.maxDepth
	}
	e.log.WithFields(logrus.Fields{"width": width, "height": height, "dpr": o.dpr}).Debug("engine initialized")
	return e, nil
}

// Store returns the scene store.
func (e *Engine) Store() *Store { return e.store }

// RenderState returns the render state.
func (e *Engine) RenderState() *RenderState { return e.state }

// Arena returns the boundary arena host buffers are allocated from.
func (e *Engine) Arena() *Arena { return e.arena }

// Canvas returns the drawing backend.
func (e *Engine) Canvas() Canvas { return e.render.canvas }

// Shape returns the shape with the given ID.
func (e *Engine) Shape(id ID) (*Shape, bool) { return e.store.Get(id) }

// Alloc allocates a host-writable buffer of n bytes.
func (e *Engine) Alloc(n int) (uintptr, error) { return e.arena.Alloc(n) }

// Free returns a buffer the host never handed to an entry point.
func (e *Engine) Free(ptr uintptr) error { return e.arena.Free(ptr) }

// ---------------------------------------------------------------------------
// Render control
// ---------------------------------------------------------------------------

// ConfigureRender overwrites the debug flags and the device pixel ratio.
func (e *Engine) ConfigureRender(debug DebugFlags, dpr float64) {
	e.state.SetDebugFlags(debug)
	e.state.SetDPR(dpr)
}

// Render draws the scene. With useCache the previous frame is reused when
// neither the view, the surface nor the scene changed since it was drawn.
func (e *Engine) Render(useCache bool) error {
	return e.render.render(useCache)
}

// Navigate redraws the last cached frame under the current view without
// walking the scene.
func (e *Engine) Navigate() error {
	return e.render.navigate()
}

// ResetCanvas clears the drawing surface.
func (e *Engine) ResetCanvas() {
	e.render.canvas.Clear()
}

// Resize resizes the drawing surface and drops the cached frame.
func (e *Engine) Resize(width, height int) error {
	return opError("resize_viewbox", ID{}, e.render.resize(width, height))
}

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

// SetView sets zoom and pan.
func (e *Engine) SetView(zoom, x, y float64) { e.state.Viewbox.SetAll(zoom, x, y) }

// SetViewZoom sets the zoom.
func (e *Engine) SetViewZoom(zoom float64) { e.state.Viewbox.SetZoom(zoom) }

// SetViewPan sets the pan offset.
func (e *Engine) SetViewPan(x, y float64) { e.state.Viewbox.SetPan(x, y) }

// AnimateView tweens the view to zoom and pan over duration seconds. A nil
// easeFn means ease.InOutCubic. Tick advances the animation.
func (e *Engine) AnimateView(zoom, x, y float64, duration float32, easeFn ease.TweenFunc) {
	e.state.Viewbox.AnimateTo(zoom, x, y, duration, easeFn)
}

// Tick advances a view animation by dt seconds and reports whether the view
// moved.
func (e *Engine) Tick(dt float32) bool {
	return e.state.Viewbox.Advance(dt)
}

// ---------------------------------------------------------------------------
// Selection
// ---------------------------------------------------------------------------

// SelectShape selects id, creating an empty shape for it if it is new.
func (e *Engine) SelectShape(id ID) {
	e.store.GetOrCreate(id)
	e.cursor.Select(id)
}

// ClearSelection deselects. Mutators become no-ops until the next
// SelectShape.
func (e *Engine) ClearSelection() { e.cursor.Clear() }

// Selected returns the selected ID, if any.
func (e *Engine) Selected() (ID, bool) { return e.cursor.Current() }

// selected returns the selected shape, or nil.
func (e *Engine) selected() *Shape {
	id, ok := e.cursor.Current()
	if !ok {
		return nil
	}
	return e.store.GetOrCreate(id)
}

// mutate applies fn to the selected shape and records the change.
func (e *Engine) mutate(fn func(*Shape)) {
	s := e.selected()
	if s == nil {
		return
	}
	fn(s)
	e.store.Touch()
}

// ---------------------------------------------------------------------------
// Shape geometry and hierarchy
// ---------------------------------------------------------------------------

// SetShapeBounds sets the selected shape's selrect.
func (e *Engine) SetShapeBounds(left, top, right, bottom float64) {
	e.mutate(func(s *Shape) { s.SetSelrect(left, top, right, bottom) })
}

// SetShapeRotation sets the selected shape's rotation in degrees.
func (e *Engine) SetShapeRotation(deg float64) {
	e.mutate(func(s *Shape) { s.SetRotation(deg) })
}

// SetShapeTransform sets the selected shape's affine transform.
func (e *Engine) SetShapeTransform(a, b, c, d, ex, f float64) {
	m := NewMatrix(a, b, c, d, ex, f)
	e.mutate(func(s *Shape) { s.SetTransform(m) })
}

// AddShapeChild appends a child reference to the selected shape.
func (e *Engine) AddShapeChild(child ID) {
	e.mutate(func(s *Shape) { s.AddChild(child) })
}

// ClearShapeChildren removes the selected shape's child references.
func (e *Engine) ClearShapeChildren() {
	e.mutate(func(s *Shape) { s.ClearChildren() })
}

// SetBlendMode sets the selected shape's blend mode from its numeric code.
// Unknown codes mean normal.
func (e *Engine) SetBlendMode(code int32) {
	mode := BlendModeFromCode(code)
	e.mutate(func(s *Shape) { s.SetBlendMode(mode) })
}

// SetOpacity sets the selected shape's opacity.
func (e *Engine) SetOpacity(opacity float64) {
	e.mutate(func(s *Shape) { s.SetOpacity(opacity) })
}

// ---------------------------------------------------------------------------
// Fills
// ---------------------------------------------------------------------------

// AddSolidFill appends a solid fill of the ARGB color c.
func (e *Engine) AddSolidFill(c Color) {
	e.mutate(func(s *Shape) { s.AddFill(SolidFill{Color: c}) })
}

// AddLinearGradientFill appends a gradient without stops. Points are
// fractions of the selrect.
func (e *Engine) AddLinearGradientFill(startX, startY, endX, endY, opacity float64) {
	g := NewLinearGradient(Point{X: startX, Y: startY}, Point{X: endX, Y: endY}, opacity)
	e.mutate(func(s *Shape) { s.AddFill(g) })
}

// AddGradientStop appends a stop to the selected shape's last fill. It is a
// no-op returning nil when nothing is selected.
func (e *Engine) AddGradientStop(c Color, offset float64) error {
	s := e.selected()
	if s == nil {
		return nil
	}
	if err := s.AddGradientStop(c, offset); err != nil {
		return opError("add_shape_fill_stop", s.ID, err)
	}
	e.store.Touch()
	return nil
}

// AddGradientStops takes ownership of count stop records at ptr and appends
// them to the selected shape's last fill. The buffer is released on every
// path, including when nothing is selected.
func (e *Engine) AddGradientStops(ptr uintptr, count int) error {
	shapeID, _ := e.cursor.Current()
	err := e.arena.With(ptr, count*gradientStopSize, func(buf []byte) error {
		s := e.selected()
		if s == nil {
			return nil
		}
		for _, stop := range decodeStops(buf) {
			if err := s.AddGradientStop(stop.Color, stop.Offset); err != nil {
				return err
			}
		}
		e.store.Touch()
		return nil
	})
	return opError("add_shape_fill_stops", shapeID, err)
}

// decodeStops parses 5-byte {r, g, b, a, offset} records.
func decodeStops(buf []byte) []GradientStop {
	stops := make([]GradientStop, 0, len(buf)/gradientStopSize)
	for i := 0; i+gradientStopSize <= len(buf); i += gradientStopSize {
		rec := buf[i : i+gradientStopSize]
		stops = append(stops, GradientStop{
			Color:  ARGB(rec[3], rec[0], rec[1], rec[2]),
			Offset: float64(rec[4]) / 100,
		})
	}
	return stops
}

// AddImageFill appends a fill painting the cached image id with alpha in
// [0, 1]. width and height are the image's intrinsic size.
func (e *Engine) AddImageFill(id ID, alpha, width, height float64) {
	f := NewImageFill(id, alpha, width, height)
	e.mutate(func(s *Shape) { s.AddFill(f) })
}

// ClearFills removes every fill of the selected shape.
func (e *Engine) ClearFills() {
	e.mutate(func(s *Shape) { s.ClearFills() })
}

// ---------------------------------------------------------------------------
// Images
// ---------------------------------------------------------------------------

// StoreImage takes ownership of size encoded bytes at ptr, decodes them and
// caches the result under id. A decode failure is logged and the image
// dropped; the buffer is released either way. Buffer errors are returned.
func (e *Engine) StoreImage(id ID, ptr uintptr, size int) error {
	err := e.arena.With(ptr, size, func(buf []byte) error {
		e.StoreImageBytes(id, buf)
		return nil
	})
	return opError("store_image", ID{}, err)
}

// StoreImageBytes decodes data and caches it under id. It reports whether
// the image was stored.
func (e *Engine) StoreImageBytes(id ID, data []byte) bool {
	img, err := DecodeImage(data)
	if err != nil {
		e.log.WithFields(logrus.Fields{"op": "store_image", "key": id.Key()}).WithError(err).Error("dropping undecodable image")
		return false
	}
	e.state.Images.Insert(id.Key(), img)
	e.store.Touch()
	return true
}

// IsImageCached reports whether an image is cached under id.
func (e *Engine) IsImageCached(id ID) bool {
	return e.state.Images.Contains(id.Key())
}
