// Package ebitencanvas is a GPU Canvas drawing into Ebitengine images.
//
// Rectangles are submitted with DrawTriangles, so any affine CTM is exact.
// Clips are device-space bounding boxes applied through SubImage; image
// quads are also cut to the innermost clip rectangle in user space, so an
// image never spills past a rotated clip. Gradients
// are sampled into a one-row ramp texture spanning the rectangle's gradient
// range, which stays exact because the gradient parameter is affine in the
// vertex positions.
//
// Snapshot reads pixels back from the GPU and therefore needs a running game
// loop, like every ebiten pixel read.
package ebitencanvas

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/rendercore"
)

// rampWidth is the resolution of gradient ramp textures.
const rampWidth = 256

// whitePixel is the source image for solid fills.
var whitePixel *ebiten.Image

func init() {
	img := ebiten.NewImage(3, 3)
	img.Fill(rendercore.ColorWhite)
	whitePixel = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}

type state struct {
	ctm     rendercore.Matrix
	clip    image.Rectangle
	clipped bool

	// Innermost clip rectangle and the CTM it was set under.
	userClip rendercore.Rect
	clipCTM  rendercore.Matrix
}

type layer struct {
	img     *ebiten.Image
	mode    rendercore.BlendMode
	opacity float64
	saved   state
}

// Canvas draws into an offscreen ebiten.Image owned by the canvas. Hosts
// present it with Image().
//
// A Canvas is not safe for concurrent use.
type Canvas struct {
	target *ebiten.Image
	cur    state
	stack  []state
	layers []layer
	pool   layerPool

	images map[*rendercore.Image]*ebiten.Image
	snap   image.Image
	snapGP *ebiten.Image
	ramp   *ebiten.Image

	verts   []ebiten.Vertex
	indices []uint16
	rampPix []byte
}

// New creates a 1x1 canvas. rendercore.New resizes it.
func New() *Canvas {
	return &Canvas{
		target:  ebiten.NewImage(1, 1),
		cur:     state{ctm: rendercore.Identity()},
		images:  make(map[*rendercore.Image]*ebiten.Image),
		ramp:    ebiten.NewImage(rampWidth, 1),
		verts:   make([]ebiten.Vertex, 4),
		indices: []uint16{0, 1, 2, 1, 3, 2},
		rampPix: make([]byte, 4*rampWidth),
	}
}

// Image returns the surface.
func (c *Canvas) Image() *ebiten.Image { return c.target }

// Size implements rendercore.Canvas.
func (c *Canvas) Size() (int, int) {
	b := c.target.Bounds()
	return b.Dx(), b.Dy()
}

// Resize implements rendercore.Canvas.
func (c *Canvas) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return rendercore.ErrInvalidSize
	}
	c.reset()
	if w, h := c.Size(); w == width && h == height {
		return nil
	}
	c.target.Deallocate()
	c.target = ebiten.NewImage(width, height)
	c.pool.drain()
	return nil
}

// Clear implements rendercore.Canvas.
func (c *Canvas) Clear() {
	c.reset()
	c.target.Clear()
}

func (c *Canvas) reset() {
	for _, l := range c.layers {
		c.pool.put(l.img)
	}
	c.layers = c.layers[:0]
	c.stack = c.stack[:0]
	c.cur = state{ctm: rendercore.Identity()}
}

// Save implements rendercore.Canvas.
func (c *Canvas) Save() { c.stack = append(c.stack, c.cur) }

// Restore implements rendercore.Canvas.
func (c *Canvas) Restore() {
	if len(c.stack) == 0 {
		return
	}
	c.cur = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

// Concat implements rendercore.Canvas.
func (c *Canvas) Concat(m rendercore.Matrix) { c.cur.ctm = c.cur.ctm.Multiply(m) }

// SetMatrix implements rendercore.Canvas.
func (c *Canvas) SetMatrix(m rendercore.Matrix) { c.cur.ctm = m }

// ClipRect implements rendercore.Canvas.
func (c *Canvas) ClipRect(r rendercore.Rect) {
	c.cur.clip, c.cur.clipped = intersectClip(c.cur, deviceBounds(c.cur.ctm, r)), true
	c.cur.userClip, c.cur.clipCTM = r, c.cur.ctm
}

// SaveLayer implements rendercore.Canvas.
func (c *Canvas) SaveLayer(mode rendercore.BlendMode, opacity float64) {
	w, h := c.Size()
	c.layers = append(c.layers, layer{
		img:     c.pool.get(w, h),
		mode:    mode,
		opacity: math.Max(0, math.Min(1, opacity)),
		saved:   c.cur,
	})
}

// RestoreLayer implements rendercore.Canvas.
func (c *Canvas) RestoreLayer() {
	if len(c.layers) == 0 {
		return
	}
	l := c.layers[len(c.layers)-1]
	c.layers = c.layers[:len(c.layers)-1]

	w, h := c.Size()
	src := l.img.SubImage(image.Rect(0, 0, w, h)).(*ebiten.Image)
	var op ebiten.DrawImageOptions
	op.ColorScale.ScaleAlpha(float32(l.opacity))
	op.Blend = ebitenBlend(l.mode)
	c.surface(l.saved).DrawImage(src, &op)
	c.pool.put(l.img)
}

// FillRect implements rendercore.Canvas.
func (c *Canvas) FillRect(r rendercore.Rect, p rendercore.Paint) error {
	quad := quadCorners(c.cur.ctm, r)
	dst := c.surface(c.cur)
	var op ebiten.DrawTrianglesOptions
	op.ColorScaleMode = ebiten.ColorScaleModeStraightAlpha

	if p.Gradient == nil {
		cr, cg, cb, ca := p.Color.Floats()
		for i, pt := range quad {
			c.verts[i] = ebiten.Vertex{
				DstX: float32(pt.X), DstY: float32(pt.Y),
				SrcX: 1.5, SrcY: 1.5,
				ColorR: float32(cr), ColorG: float32(cg), ColorB: float32(cb), ColorA: float32(ca),
			}
		}
		dst.DrawTriangles(c.verts, c.indices, whitePixel, &op)
		return nil
	}

	ts := gradientParams(p.Gradient, r)
	lo, hi := ts[0], ts[0]
	for _, t := range ts[1:] {
		lo, hi = math.Min(lo, t), math.Max(hi, t)
	}
	fillRamp(c.rampPix, p.Gradient.Gradient, lo, hi)
	c.ramp.WritePixels(c.rampPix)
	for i, pt := range quad {
		c.verts[i] = ebiten.Vertex{
			DstX: float32(pt.X), DstY: float32(pt.Y),
			SrcX: float32(rampCoord(ts[i], lo, hi)), SrcY: 0.5,
			ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
		}
	}
	op.Filter = ebiten.FilterLinear
	dst.DrawTriangles(c.verts, c.indices, c.ramp, &op)
	return nil
}

// DrawImage implements rendercore.Canvas.
func (c *Canvas) DrawImage(img *rendercore.Image, dst rendercore.Rect, alpha float64) error {
	if alpha <= 0 || dst.Width() == 0 || dst.Height() == 0 {
		return nil
	}
	q, ok := imageQuad(c.cur, dst)
	if !ok {
		return nil
	}
	src := c.uploaded(img)
	srcPts := imageSrc(q, dst, src.Bounds())
	a := float32(math.Min(alpha, 1))
	for i, pt := range quadCorners(c.cur.ctm, q) {
		c.verts[i] = ebiten.Vertex{
			DstX: float32(pt.X), DstY: float32(pt.Y),
			SrcX: float32(srcPts[i].X), SrcY: float32(srcPts[i].Y),
			ColorR: 1, ColorG: 1, ColorB: 1, ColorA: a,
		}
	}
	var op ebiten.DrawTrianglesOptions
	op.ColorScaleMode = ebiten.ColorScaleModeStraightAlpha
	op.Filter = ebiten.FilterLinear
	c.surface(c.cur).DrawTriangles(c.verts, c.indices, src, &op)
	return nil
}

// Snapshot implements rendercore.Canvas. It returns an *image.RGBA with
// premultiplied pixels read back from the GPU.
func (c *Canvas) Snapshot() image.Image {
	b := c.target.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	c.target.ReadPixels(img.Pix)
	return img
}

// DrawSnapshot implements rendercore.Canvas.
func (c *Canvas) DrawSnapshot(img image.Image, m rendercore.Matrix) error {
	if c.snap != img {
		if c.snapGP != nil {
			c.snapGP.Deallocate()
		}
		c.snap = img
		c.snapGP = ebiten.NewImageFromImage(img)
	}
	var op ebiten.DrawImageOptions
	op.GeoM = geoM(m)
	c.target.DrawImage(c.snapGP, &op)
	return nil
}

// surface returns the image drawing lands in for state s: the innermost
// layer (or the target) restricted to the clip.
func (c *Canvas) surface(s state) *ebiten.Image {
	dst := c.target
	if n := len(c.layers); n > 0 {
		dst = c.layers[n-1].img
	}
	if s.clipped {
		return dst.SubImage(s.clip).(*ebiten.Image)
	}
	return dst
}

func (c *Canvas) uploaded(img *rendercore.Image) *ebiten.Image {
	if e, ok := c.images[img]; ok {
		return e
	}
	e := ebiten.NewImageFromImage(img.Source())
	c.images[img] = e
	return e
}

// geoM converts a Matrix into an ebiten.GeoM.
func geoM(m rendercore.Matrix) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m.A)
	g.SetElement(1, 0, m.B)
	g.SetElement(0, 1, m.C)
	g.SetElement(1, 1, m.D)
	g.SetElement(0, 2, m.E)
	g.SetElement(1, 2, m.F)
	return g
}

// quadCorners returns the device positions of r's corners in the order
// top-left, top-right, bottom-left, bottom-right.
func quadCorners(m rendercore.Matrix, r rendercore.Rect) [4]rendercore.Point {
	pt := func(x, y float64) rendercore.Point {
		dx, dy := m.TransformPoint(x, y)
		return rendercore.Point{X: dx, Y: dy}
	}
	return [4]rendercore.Point{
		pt(r.Left, r.Top), pt(r.Right, r.Top),
		pt(r.Left, r.Bottom), pt(r.Right, r.Bottom),
	}
}

// imageQuad returns the part of dst to draw in current user space: dst cut
// to the innermost clip when that clip maps onto an axis-aligned rectangle
// here. ok is false when nothing is left.
func imageQuad(s state, dst rendercore.Rect) (q rendercore.Rect, ok bool) {
	q = rendercore.RectLTRB(
		math.Min(dst.Left, dst.Right), math.Min(dst.Top, dst.Bottom),
		math.Max(dst.Left, dst.Right), math.Max(dst.Top, dst.Bottom),
	)
	if !s.clipped {
		return q, true
	}
	const eps = 1e-9
	rel := s.ctm.Invert().Multiply(s.clipCTM)
	if math.Abs(rel.B) > eps || math.Abs(rel.C) > eps {
		return q, true
	}
	cr := rel.TransformRect(s.userClip)
	q = rendercore.RectLTRB(
		math.Max(q.Left, cr.Left), math.Max(q.Top, cr.Top),
		math.Min(q.Right, cr.Right), math.Min(q.Bottom, cr.Bottom),
	)
	return q, q.Right > q.Left && q.Bottom > q.Top
}

// imageSrc maps q's corners, in quadCorners order, to source texel
// coordinates of an image stretched over dst.
func imageSrc(q, dst rendercore.Rect, src image.Rectangle) [4]rendercore.Point {
	sx := float64(src.Dx()) / dst.Width()
	sy := float64(src.Dy()) / dst.Height()
	pt := func(x, y float64) rendercore.Point {
		return rendercore.Point{
			X: float64(src.Min.X) + (x-dst.Left)*sx,
			Y: float64(src.Min.Y) + (y-dst.Top)*sy,
		}
	}
	return [4]rendercore.Point{
		pt(q.Left, q.Top), pt(q.Right, q.Top),
		pt(q.Left, q.Bottom), pt(q.Right, q.Bottom),
	}
}

// gradientParams returns the gradient parameter at r's corners, in
// quadCorners order.
func gradientParams(g *rendercore.GradientPaint, r rendercore.Rect) [4]float64 {
	t := func(x, y float64) float64 { return rendercore.Project(g.Start, g.End, x, y) }
	return [4]float64{t(r.Left, r.Top), t(r.Right, r.Top), t(r.Left, r.Bottom), t(r.Right, r.Bottom)}
}

// fillRamp writes premultiplied RGBA samples of g over [lo, hi] into pix.
func fillRamp(pix []byte, g *rendercore.LinearGradient, lo, hi float64) {
	n := len(pix) / 4
	for i := 0; i < n; i++ {
		t := lo
		if n > 1 {
			t = lo + (hi-lo)*float64(i)/float64(n-1)
		}
		r, gr, b, a := g.ColorAt(t).RGBA()
		pix[4*i+0] = uint8(r >> 8)
		pix[4*i+1] = uint8(gr >> 8)
		pix[4*i+2] = uint8(b >> 8)
		pix[4*i+3] = uint8(a >> 8)
	}
}

// rampCoord maps t in [lo, hi] to a texel-center x coordinate in the ramp.
func rampCoord(t, lo, hi float64) float64 {
	if hi <= lo {
		return 0.5
	}
	return 0.5 + (t-lo)/(hi-lo)*(rampWidth-1)
}

// deviceBounds returns the integer device-space bounding box of r under m.
func deviceBounds(m rendercore.Matrix, r rendercore.Rect) image.Rectangle {
	b := m.TransformRect(r)
	return image.Rect(
		int(math.Floor(b.Left)), int(math.Floor(b.Top)),
		int(math.Ceil(b.Right)), int(math.Ceil(b.Bottom)),
	)
}

func intersectClip(s state, r image.Rectangle) image.Rectangle {
	if s.clipped {
		return s.clip.Intersect(r)
	}
	return r
}
