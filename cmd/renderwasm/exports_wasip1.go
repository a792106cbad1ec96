//go:build wasip1

package main

import (
	"unsafe"

	"github.com/phanxgames/rendercore"
)

func main() {}

//go:wasmexport init
func wasmInit(width, height int32) { global.setup(width, height) }

//go:wasmexport set_render_options
func setRenderOptions(debug uint32, dpr float32) {
	global.must().ConfigureRender(rendercore.DebugFlags(debug), float64(dpr))
}

//go:wasmexport render
func render() int32 { return global.render(true) }

//go:wasmexport render_without_cache
func renderWithoutCache() int32 { return global.render(false) }

//go:wasmexport navigate
func navigate() int32 { return status(global.must().Navigate()) }

//go:wasmexport reset_canvas
func resetCanvas() { global.must().ResetCanvas() }

//go:wasmexport resize_viewbox
func resizeViewbox(width, height int32) int32 {
	return status(global.must().Resize(int(width), int(height)))
}

//go:wasmexport set_view
func setView(zoom, x, y float32) {
	global.must().SetView(float64(zoom), float64(x), float64(y))
}

//go:wasmexport set_view_zoom
func setViewZoom(zoom float32) { global.must().SetViewZoom(float64(zoom)) }

//go:wasmexport set_view_xy
func setViewXY(x, y float32) { global.must().SetViewPan(float64(x), float64(y)) }

//go:wasmexport animate_view
func animateView(zoom, x, y, duration float32) {
	global.must().AnimateView(float64(zoom), float64(x), float64(y), duration, nil)
}

//go:wasmexport tick_view
func tickView(dt float32) int32 {
	if global.must().Tick(dt) {
		return 1
	}
	return 0
}

//go:wasmexport use_shape
func useShape(a, b, c, d uint32) { global.must().SelectShape(shapeID(a, b, c, d)) }

//go:wasmexport clear_selection
func clearSelection() { global.must().ClearSelection() }

//go:wasmexport set_shape_selrect
func setShapeSelrect(left, top, right, bottom float32) {
	global.must().SetShapeBounds(float64(left), float64(top), float64(right), float64(bottom))
}

//go:wasmexport set_shape_rotation
func setShapeRotation(deg float32) { global.must().SetShapeRotation(float64(deg)) }

//go:wasmexport set_shape_transform
func setShapeTransform(a, b, c, d, e, f float32) {
	global.must().SetShapeTransform(float64(a), float64(b), float64(c), float64(d), float64(e), float64(f))
}

//go:wasmexport add_shape_child
func addShapeChild(a, b, c, d uint32) { global.must().AddShapeChild(shapeID(a, b, c, d)) }

//go:wasmexport clear_shape_children
func clearShapeChildren() { global.must().ClearShapeChildren() }

//go:wasmexport add_shape_solid_fill
func addShapeSolidFill(rgba uint32) {
	global.must().AddSolidFill(rendercore.FromRGBA32(rgba))
}

//go:wasmexport add_shape_linear_fill
func addShapeLinearFill(startX, startY, endX, endY, opacity float32) {
	global.must().AddLinearGradientFill(float64(startX), float64(startY), float64(endX), float64(endY), float64(opacity))
}

//go:wasmexport add_shape_fill_stop
func addShapeFillStop(rgba uint32, offset float32) int32 {
	return status(global.must().AddGradientStop(rendercore.FromRGBA32(rgba), float64(offset)))
}

//go:wasmexport add_shape_fill_stops
func addShapeFillStops(ptr uintptr, count int32) int32 {
	return global.addFillStops(ptr, count)
}

//go:wasmexport clear_shape_fills
func clearShapeFills() { global.must().ClearFills() }

//go:wasmexport store_image
func storeImage(a, b, c, d uint32, ptr uintptr, size int32) {
	global.storeImage(shapeID(a, b, c, d), ptr, size)
}

//go:wasmexport is_image_cached
func isImageCached(a, b, c, d uint32) int32 {
	if global.must().IsImageCached(shapeID(a, b, c, d)) {
		return 1
	}
	return 0
}

//go:wasmexport add_shape_image_fill
func addShapeImageFill(a, b, c, d uint32, alpha, width, height float32) {
	global.must().AddImageFill(shapeID(a, b, c, d), float64(alpha), float64(width), float64(height))
}

//go:wasmexport set_shape_blend_mode
func setShapeBlendMode(code int32) { global.must().SetBlendMode(code) }

//go:wasmexport set_shape_opacity
func setShapeOpacity(opacity float32) { global.must().SetOpacity(float64(opacity)) }

//go:wasmexport alloc_bytes
func allocBytes(n int32) uintptr { return global.alloc(n) }

//go:wasmexport free_bytes
func freeBytes(ptr uintptr) int32 { return global.free(ptr) }

//go:wasmexport frame_buffer
func frameBuffer() unsafe.Pointer {
	pix := global.frame()
	return unsafe.Pointer(&pix[0])
}

//go:wasmexport frame_buffer_len
func frameBufferLen() int32 { return int32(len(global.frame())) }
