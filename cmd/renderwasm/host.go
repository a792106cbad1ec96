package main

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/phanxgames/rendercore"
	"github.com/phanxgames/rendercore/backend/raster"
)

// Status codes returned by entry points that report failures.
const (
	statusOK          int32 = 0
	statusNoFills     int32 = 1
	statusNotGradient int32 = 2
	statusBadBuffer   int32 = 3
	statusOther       int32 = 4
)

// host is the module-wide state behind the exported entry points. The wasm
// host calls in from a single thread.
type host struct {
	engine *rendercore.Engine
	canvas *raster.Canvas
	log    *logrus.Logger
}

var global = newHost()

func newHost() *host {
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)
	return &host{log: log}
}

// setup creates the engine. Calling it again replaces the scene.
func (h *host) setup(width, height int32) {
	canvas := raster.New()
	e, err := rendercore.New(canvas, int(width), int(height), rendercore.WithLogger(h.log))
	if err != nil {
		panic(err)
	}
	h.engine, h.canvas = e, canvas
}

// must returns the engine, panicking when setup has not run.
func (h *host) must() *rendercore.Engine {
	if h.engine == nil {
		panic("rendercore: entry point called before init")
	}
	return h.engine
}

func shapeID(a, b, c, d uint32) rendercore.ID {
	return rendercore.FromQuartet(a, b, c, d)
}

// status maps an engine error onto a status code.
func status(err error) int32 {
	switch {
	case err == nil:
		return statusOK
	case errors.Is(err, rendercore.ErrNoFills):
		return statusNoFills
	case errors.Is(err, rendercore.ErrNotAGradient):
		return statusNotGradient
	case errors.Is(err, rendercore.ErrInvalidBuffer),
		errors.Is(err, rendercore.ErrUnknownBuffer),
		errors.Is(err, rendercore.ErrBufferOverrun),
		errors.Is(err, rendercore.ErrDoubleRelease):
		return statusBadBuffer
	default:
		return statusOther
	}
}

func (h *host) render(useCache bool) int32 {
	err := h.must().Render(useCache)
	if err != nil {
		h.log.WithError(err).Warn("render")
	}
	return status(err)
}

// addFillStops panics on a null or empty buffer, like every buffer-taking
// entry point; other failures come back as status codes.
func (h *host) addFillStops(ptr uintptr, count int32) int32 {
	err := h.must().AddGradientStops(ptr, int(count))
	if errors.Is(err, rendercore.ErrInvalidBuffer) {
		panic(fmt.Sprintf("rendercore: add_shape_fill_stops: %v", err))
	}
	if err != nil {
		h.log.WithError(err).Warn("add_shape_fill_stops")
	}
	return status(err)
}

// storeImage panics on buffer errors; decode errors are logged by the
// engine and do not surface.
func (h *host) storeImage(id rendercore.ID, ptr uintptr, size int32) {
	if err := h.must().StoreImage(id, ptr, int(size)); err != nil {
		panic(fmt.Sprintf("rendercore: store_image: %v", err))
	}
}

func (h *host) alloc(n int32) uintptr {
	ptr, err := h.must().Alloc(int(n))
	if err != nil {
		panic(fmt.Sprintf("rendercore: alloc_bytes: %v", err))
	}
	return ptr
}

func (h *host) free(ptr uintptr) int32 {
	return status(h.must().Free(ptr))
}

// frame returns the raster surface bytes.
func (h *host) frame() []byte {
	h.must()
	return h.canvas.Pixels()
}
