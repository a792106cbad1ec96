// Package rendercore is a retained-mode 2D scene engine driven one primitive
// call at a time by an external host.
//
// An [Engine] owns a [Store] of shapes, a [RenderState] (view, device pixel
// ratio, debug flags, image cache), a selection [Cursor] and an [Arena] for
// host buffers. It draws through a [Canvas]; implementations live in
// backend/raster (software, [gogpu/gg]) and backend/ebitencanvas
// ([Ebitengine]).
//
// # Quick start
//
//	canvas := raster.New()
//	e, err := rendercore.New(canvas, 800, 600)
//	if err != nil {
//		return err
//	}
//	e.SelectShape(rendercore.FromQuartet(0, 0, 0, 1))
//	e.SetShapeBounds(0, 0, 100, 100)
//	e.AddSolidFill(rendercore.FromRGBA32(0xFF0000FF))
//	err = e.Render(false)
//
// # Mutation protocol
//
// Every shape mutator targets the shape selected by [Engine.SelectShape].
// Selecting an unknown ID creates an empty rectangle shape. With nothing
// selected, mutators do nothing. Gradient stops always go to the most
// recently added fill, which must be a [LinearGradient].
//
// # Host buffers
//
// Hosts obtain writable memory with [Engine.Alloc], fill it and pass
// (pointer, length) to [Engine.AddGradientStops] or [Engine.StoreImage].
// The engine takes ownership and releases the buffer on every path. Buffers
// never handed over are returned with [Engine.Free].
//
// # Rendering
//
// [Engine.Render] walks the scene from [RootID], or from every shape that is
// nobody's child when there is no root. Children are ID references, so the
// walk draws each shape at most once and tolerates cycles. Render(true)
// reuses the last frame when neither view, surface nor scene changed;
// [Engine.Navigate] redraws that frame under the current view while the
// host is panning or zooming.
//
// # Debugging
//
// [DebugStats] logs per-render counters through logrus, [DebugNoCache]
// disables frame reuse and [DebugShapeBounds] hands every drawn shape to the
// [Overlay] set with [WithOverlay].
//
// [gogpu/gg]: https://github.com/gogpu/gg
// [Ebitengine]: https://ebitengine.org
package rendercore
