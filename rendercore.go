package rendercore

import "math"

// Color is a 32-bit ARGB color (0xAARRGGBB). Not premultiplied.
//
// Hosts pass colors across the boundary as 0xRRGGBBAA, the same channel
// order as gradient stop records; FromRGBA32 converts.
type Color uint32

// Common colors.
const (
	ColorTransparent Color = 0x00000000
	ColorBlack       Color = 0xFF000000
	ColorWhite       Color = 0xFFFFFFFF
)

// ARGB packs four 8-bit channels into a Color.
func ARGB(a, r, g, b uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// FromRGBA32 converts a host 0xRRGGBBAA value to a Color.
func FromRGBA32(v uint32) Color {
	return Color(v>>8 | v<<24)
}

// RGBA32 returns c in the host 0xRRGGBBAA encoding.
func (c Color) RGBA32() uint32 {
	return uint32(c)<<8 | uint32(c)>>24
}

// A returns the alpha channel.
func (c Color) A() uint8 { return uint8(c >> 24) }

// R returns the red channel.
func (c Color) R() uint8 { return uint8(c >> 16) }

// G returns the green channel.
func (c Color) G() uint8 { return uint8(c >> 8) }

// B returns the blue channel.
func (c Color) B() uint8 { return uint8(c) }

// RGBA implements color.Color. The returned values are alpha-premultiplied.
func (c Color) RGBA() (r, g, b, a uint32) {
	a = uint32(c.A())
	r = uint32(c.R()) * a / 0xff
	g = uint32(c.G()) * a / 0xff
	b = uint32(c.B()) * a / 0xff
	return r * 0x101, g * 0x101, b * 0x101, a * 0x101
}

// Floats returns the channels as straight-alpha values in [0, 1].
func (c Color) Floats() (r, g, b, a float64) {
	return float64(c.R()) / 255, float64(c.G()) / 255, float64(c.B()) / 255, float64(c.A()) / 255
}

// WithAlpha returns c with its alpha channel multiplied by f (clamped to [0, 1]).
func (c Color) WithAlpha(f float64) Color {
	f = math.Max(0, math.Min(1, f))
	return ARGB(uint8(math.Round(float64(c.A())*f)), c.R(), c.G(), c.B())
}

// lerpColor interpolates two colors channel by channel.
func lerpColor(a, b Color, t float64) Color {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return ARGB(mix(a.A(), b.A()), mix(a.R(), b.R()), mix(a.G(), b.G()), mix(a.B(), b.B()))
}

// Point is a 2D position.
type Point struct {
	X, Y float64
}

// Rect is an edge-defined rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward. Degenerate rectangles
// (Left > Right or Top > Bottom) are stored as given.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// RectLTRB builds a Rect from its four edges.
func RectLTRB(left, top, right, bottom float64) Rect {
	return Rect{Left: left, Top: top, Right: right, Bottom: bottom}
}

// Width returns Right - Left. May be negative for degenerate rectangles.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns Bottom - Top. May be negative for degenerate rectangles.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: (r.Left + r.Right) / 2, Y: (r.Top + r.Bottom) / 2}
}

// IsEmpty reports whether the rectangle encloses no area.
func (r Rect) IsEmpty() bool {
	return !(r.Left < r.Right && r.Top < r.Bottom)
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.Left && x <= r.Right && y >= r.Top && y <= r.Bottom
}

// Kind distinguishes how a shape's geometry is interpreted.
type Kind uint8

const (
	KindRect Kind = iota // axis-aligned rectangle spanning the selrect
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindRect:
		return "rect"
	default:
		return "unknown"
	}
}

// BlendMode selects a compositing operation. Values match the Skia blend
// mode codes hosts send across the boundary.
type BlendMode int32

const (
	BlendClear      BlendMode = iota // clear
	BlendSrc                         // src (copy)
	BlendDst                         // dst (no-op)
	BlendSrcOver                     // src_over (normal alpha blending)
	BlendDstOver                     // dst_over (draw behind existing content)
	BlendSrcIn                       // src_in
	BlendDstIn                       // dst_in
	BlendSrcOut                      // src_out
	BlendDstOut                      // dst_out (punch transparent holes)
	BlendSrcATop                     // src_atop
	BlendDstATop                     // dst_atop
	BlendXor                         // xor
	BlendPlus                        // plus (additive)
	BlendModulate                    // modulate
	BlendScreen                      // screen
	BlendOverlay                     // overlay
	BlendDarken                      // darken
	BlendLighten                     // lighten
	BlendColorDodge                  // color_dodge
	BlendColorBurn                   // color_burn
	BlendHardLight                   // hard_light
	BlendSoftLight                   // soft_light
	BlendDifference                  // difference
	BlendExclusion                   // exclusion
	BlendMultiply                    // multiply
	BlendHue                         // hue
	BlendSaturation                  // saturation
	BlendColor                       // color
	BlendLuminosity                  // luminosity
)

// BlendNormal is the default blend mode.
const BlendNormal = BlendSrcOver

var blendModeNames = [...]string{
	"clear", "src", "dst", "src_over", "dst_over",
	"src_in", "dst_in", "src_out", "dst_out",
	"src_atop", "dst_atop", "xor", "plus", "modulate",
	"screen", "overlay", "darken", "lighten",
	"color_dodge", "color_burn", "hard_light", "soft_light",
	"difference", "exclusion", "multiply",
	"hue", "saturation", "color", "luminosity",
}

// BlendModeFromCode maps a host blend code to a BlendMode. Every code maps to
// some mode: codes outside the known range fall back to BlendNormal.
func BlendModeFromCode(code int32) BlendMode {
	if code < int32(BlendClear) || code > int32(BlendLuminosity) {
		return BlendNormal
	}
	return BlendMode(code)
}

// String returns the Skia-style name of the blend mode.
func (b BlendMode) String() string {
	if b >= BlendClear && b <= BlendLuminosity {
		return blendModeNames[b]
	}
	return "unknown"
}
