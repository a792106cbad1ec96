package rendercore

import (
	"math"
	"sort"
)

// Fill is a paint definition applied to a shape. A shape paints its fills in
// order, so later fills composite over earlier ones.
//
// The concrete types are SolidFill, *LinearGradient and ImageFill.
type Fill interface {
	fill()
}

// SolidFill paints a single color.
type SolidFill struct {
	Color Color
}

func (SolidFill) fill() {}

// GradientStop is one color of a gradient at an offset in [0, 1].
type GradientStop struct {
	Color  Color
	Offset float64
}

// LinearGradient paints a color ramp between two points. Start and End are
// fractions of the shape's selrect: (0, 0) is its top-left corner and
// (1, 1) its bottom-right. Opacity scales the alpha of every stop.
//
// Stops keep the order in which they were added.
type LinearGradient struct {
	Start   Point
	End     Point
	Opacity float64
	Stops   []GradientStop
}

func (*LinearGradient) fill() {}

// NewLinearGradient creates a gradient with no stops.
func NewLinearGradient(start, end Point, opacity float64) *LinearGradient {
	return &LinearGradient{Start: start, End: end, Opacity: opacity}
}

// AddStop appends a stop.
func (g *LinearGradient) AddStop(c Color, offset float64) {
	g.Stops = append(g.Stops, GradientStop{Color: c, Offset: offset})
}

// ColorAt returns the gradient color at parameter t along the Start→End
// axis. Stops are evaluated in offset order, the end colors extend past
// [0, 1], and Opacity is applied. A gradient without stops is transparent.
func (g *LinearGradient) ColorAt(t float64) Color {
	if len(g.Stops) == 0 {
		return ColorTransparent
	}
	stops := sortedStops(g.Stops)
	var c Color
	switch {
	case t <= stops[0].Offset:
		c = stops[0].Color
	case t >= stops[len(stops)-1].Offset:
		c = stops[len(stops)-1].Color
	default:
		c = stops[len(stops)-1].Color
		for i := 1; i < len(stops); i++ {
			lo, hi := stops[i-1], stops[i]
			if t > hi.Offset {
				continue
			}
			span := hi.Offset - lo.Offset
			if span <= 0 {
				c = hi.Color
			} else {
				c = lerpColor(lo.Color, hi.Color, (t-lo.Offset)/span)
			}
			break
		}
	}
	return c.WithAlpha(g.Opacity)
}

// Project returns the gradient parameter for point (x, y) given the absolute
// start and end points of the axis.
func Project(start, end Point, x, y float64) float64 {
	dx, dy := end.X-start.X, end.Y-start.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return 0
	}
	return ((x-start.X)*dx + (y-start.Y)*dy) / lenSq
}

// Resolve maps the fractional Start and End points into absolute
// coordinates inside r.
func (g *LinearGradient) Resolve(r Rect) (start, end Point) {
	w, h := r.Width(), r.Height()
	start = Point{X: r.Left + g.Start.X*w, Y: r.Top + g.Start.Y*h}
	end = Point{X: r.Left + g.End.X*w, Y: r.Top + g.End.Y*h}
	return start, end
}

// SortedStops returns the stops ordered by offset. Equal offsets keep their
// insertion order. The result may alias Stops and MUST NOT be mutated.
func (g *LinearGradient) SortedStops() []GradientStop {
	return sortedStops(g.Stops)
}

func sortedStops(stops []GradientStop) []GradientStop {
	if sort.SliceIsSorted(stops, func(i, j int) bool { return stops[i].Offset < stops[j].Offset }) {
		return stops
	}
	out := make([]GradientStop, len(stops))
	copy(out, stops)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Offset < out[j].Offset })
	return out
}

// ImageFill paints a cached image, referenced by ID, covering the shape.
// Width and Height are the image's intrinsic size used to preserve its
// aspect ratio; zero means "use the decoded size".
type ImageFill struct {
	ID     ID
	Alpha  uint8
	Width  float64
	Height float64
}

func (ImageFill) fill() {}

// NewImageFill builds an ImageFill from an alpha fraction in [0, 1].
func NewImageFill(id ID, alpha float64, width, height float64) ImageFill {
	a := math.Floor(math.Max(0, math.Min(1, alpha)) * 0xff)
	return ImageFill{ID: id, Alpha: uint8(a), Width: width, Height: height}
}

// coverRect returns the destination rectangle for an image of size (iw, ih)
// scaled to cover r while keeping its aspect ratio, centered in r.
func coverRect(r Rect, iw, ih float64) Rect {
	w, h := r.Width(), r.Height()
	if iw <= 0 || ih <= 0 || w <= 0 || h <= 0 {
		return r
	}
	s := math.Max(w/iw, h/ih)
	dw, dh := iw*s, ih*s
	c := r.Center()
	return Rect{Left: c.X - dw/2, Top: c.Y - dh/2, Right: c.X + dw/2, Bottom: c.Y + dh/2}
}
