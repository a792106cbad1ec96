package rendercore

import (
	"image"
	"math"
	"time"

	"github.com/sirupsen/logrus"
)

// renderKey identifies the parameters a cached raster was produced under.
type renderKey struct {
	view          Matrix
	debug         DebugFlags
	width, height int
	revision      uint64
}

// renderer streams the store through a Canvas.
type renderer struct {
	canvas  Canvas
	store   *Store
	state   *RenderState
	overlay  Overlay
	log      logrus.FieldLogger
	maxDepth int

	// Cached raster from the last render(true).
	cached     image.Image
	cachedKey  renderKey
	cachedView Matrix

	// Per-walk state, reused across renders.
	visited map[ID]struct{}
	stats   renderStats
	err     error
}

func newRenderer(canvas Canvas, store *Store, state *RenderState, log logrus.FieldLogger) *renderer {
	return &renderer{
		canvas:   canvas,
		store:    store,
		state:    state,
		log:      log,
		maxDepth: DefaultMaxDepth,
		visited:  make(map[ID]struct{}),
	}
}

func (r *renderer) currentKey() renderKey {
	w, h := r.canvas.Size()
	return renderKey{
		view:     r.state.ViewMatrix(),
		debug:    r.state.Debug,
		width:    w,
		height:   h,
		revision: r.store.Revision(),
	}
}

// cacheValid reports whether the cached raster matches key.
func (r *renderer) cacheValid(key renderKey) bool {
	return r.cached != nil && !r.state.Debug.Has(DebugNoCache) && key == r.cachedKey
}

// render draws the scene. With useCache it reuses the cached raster when
// nothing it depends on changed, and refreshes the cache after a full walk.
func (r *renderer) render(useCache bool) error {
	start := time.Now()
	key := r.currentKey()

	if useCache && r.cacheValid(key) {
		r.canvas.Clear()
		err := r.canvas.DrawSnapshot(r.cached, Identity())
		r.finish("cached", start)
		return opError("render", RootID, err)
	}

	err := r.full(key.view)
	if useCache {
		r.cached = r.canvas.Snapshot()
		r.cachedKey = key
		r.cachedView = key.view
	}
	r.finish("full", start)
	return err
}

// navigate redraws the cached raster moved by the view change since it was
// taken. The cache key is left untouched so the next render(true) still
// recomputes when the view moved.
func (r *renderer) navigate() error {
	start := time.Now()
	view := r.state.ViewMatrix()
	if r.cached == nil {
		err := r.full(view)
		r.finish("full", start)
		return err
	}
	delta := view.Multiply(r.cachedView.Invert())
	r.canvas.Clear()
	err := r.canvas.DrawSnapshot(r.cached, delta)
	r.finish("navigate", start)
	return opError("navigate", RootID, err)
}

// resize resizes the surface and drops the cached raster.
func (r *renderer) resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return ErrInvalidSize
	}
	if err := r.canvas.Resize(width, height); err != nil {
		return err
	}
	r.invalidate()
	return nil
}

// invalidate drops the cached raster.
func (r *renderer) invalidate() {
	r.cached = nil
	r.cachedKey = renderKey{}
}

// full clears the surface and walks every root under the view transform.
func (r *renderer) full(view Matrix) error {
	r.canvas.Clear()
	r.canvas.SetMatrix(view)
	clear(r.visited)
	r.err = nil

	t0 := time.Now()
	for _, id := range r.store.roots() {
		r.walk(id, 0)
	}
	r.stats.walkTime = time.Since(t0)
	return r.err
}

// walk draws a shape and its children depth-first. Each shape is drawn at
// most once per walk, which also breaks cycles in the child graph.
func (r *renderer) walk(id ID, depth int) {
	if _, seen := r.visited[id]; seen {
		r.stats.revisits++
		r.log.WithField("shape", id).Debug("skipping revisited shape")
		return
	}
	shape, ok := r.store.Get(id)
	if !ok {
		r.stats.missingIDs++
		return
	}
	if depth >= r.maxDepth {
		r.log.WithFields(logrus.Fields{"shape": id, "depth": depth}).Warn("shape tree too deep, branch cut")
		return
	}
	r.visited[id] = struct{}{}
	r.stats.shapes++

	c := r.canvas
	c.Save()
	c.Concat(shape.LocalMatrix())

	layered := shape.needsLayer()
	if layered {
		c.SaveLayer(shape.BlendMode, clamp01(shape.Opacity))
		r.stats.layers++
	}

	for _, f := range shape.Fills() {
		r.drawFill(shape, f)
	}
	if r.overlay != nil && r.state.Debug.Has(DebugShapeBounds) {
		r.fillErr(shape, r.overlay.DrawShape(c, shape))
	}
	for _, child := range shape.Children {
		r.walk(child, depth+1)
	}

	if layered {
		c.RestoreLayer()
	}
	c.Restore()
}

// drawFill paints one fill of shape over its selrect.
func (r *renderer) drawFill(shape *Shape, f Fill) {
	c := r.canvas
	sel := shape.Selrect
	switch f := f.(type) {
	case SolidFill:
		r.fillErr(shape, c.FillRect(sel, Paint{Color: f.Color}))
	case *LinearGradient:
		if len(f.Stops) == 0 {
			return
		}
		start, end := f.Resolve(sel)
		r.fillErr(shape, c.FillRect(sel, Paint{Gradient: &GradientPaint{Start: start, End: end, Gradient: f}}))
	case ImageFill:
		img, ok := r.state.Images.Get(f.ID.Key())
		if !ok {
			r.log.WithFields(logrus.Fields{"shape": shape.ID, "image": f.ID}).Debug("image fill references uncached image")
			return
		}
		w, h := f.Width, f.Height
		if w <= 0 || h <= 0 {
			w, h = float64(img.Width()), float64(img.Height())
		}
		c.Save()
		c.ClipRect(sel)
		r.fillErr(shape, c.DrawImage(img, coverRect(sel, w, h), float64(f.Alpha)/0xff))
		c.Restore()
	default:
		return
	}
	r.stats.fills++
}

func (r *renderer) fillErr(shape *Shape, err error) {
	if err == nil {
		return
	}
	r.log.WithField("shape", shape.ID).WithError(err).Warn("fill failed")
	if r.err == nil {
		r.err = opError("render", shape.ID, err)
	}
}

// finish records timing, logs stats when enabled and resets them.
func (r *renderer) finish(mode string, start time.Time) {
	r.stats.mode = mode
	r.stats.totalTime = time.Since(start)
	if r.state.Debug.Has(DebugStats) {
		logStats(r.log, r.stats)
	}
	r.stats = renderStats{}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
