// Package raster is a software Canvas backed by a gogpu/gg context.
//
// Solid fills and layers map directly onto gg. Gradients under a conformal
// transform use gg's linear gradient brush; other gradients, images and
// snapshot redraws use custom brushes that sample through the inverse CTM,
// so arbitrary affine transforms render correctly.
//
// gg clips to device-space rectangles only. The canvas also keeps every clip
// rectangle in the user space it was set under, and image brushes drop
// pixels outside them, so images are cut exactly under rotation and skew.
package raster

import (
	"image"
	"math"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"

	"github.com/phanxgames/rendercore"
)

// maxConverted bounds the converted-image table; it is dropped wholesale
// when full.
const maxConverted = 64

// Canvas draws into an in-memory RGBA surface.
//
// A Canvas is not safe for concurrent use.
type Canvas struct {
	ctx    *gg.Context
	saves  int
	layers int

	clips     []userClip
	clipMarks []int // len(clips) at each Save

	images map[*rendercore.Image]*gg.ImageBuf

	snap    image.Image
	snapBuf *gg.ImageBuf
}

// userClip is a clip rectangle with the device-to-user transform in force
// when it was set.
type userClip struct {
	inv  rendercore.Matrix
	rect rendercore.Rect
}

// New creates a 1x1 canvas. rendercore.New resizes it.
func New() *Canvas {
	return &Canvas{
		ctx:    gg.NewContext(1, 1),
		images: make(map[*rendercore.Image]*gg.ImageBuf),
	}
}

// Context exposes the underlying gg context.
func (c *Canvas) Context() *gg.Context { return c.ctx }

// Size implements rendercore.Canvas.
func (c *Canvas) Size() (int, int) { return c.ctx.Width(), c.ctx.Height() }

// Resize implements rendercore.Canvas.
func (c *Canvas) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return rendercore.ErrInvalidSize
	}
	c.reset()
	return c.ctx.Resize(width, height)
}

// Clear implements rendercore.Canvas.
func (c *Canvas) Clear() {
	c.reset()
	c.ctx.Clear()
}

// reset unwinds layers and saved states and restores identity and the full
// clip.
func (c *Canvas) reset() {
	for ; c.layers > 0; c.layers-- {
		c.ctx.PopLayer()
	}
	for ; c.saves > 0; c.saves-- {
		c.ctx.Pop()
	}
	c.ctx.Identity()
	c.ctx.ResetClip()
	c.clips = c.clips[:0]
	c.clipMarks = c.clipMarks[:0]
}

// Save implements rendercore.Canvas.
func (c *Canvas) Save() {
	c.ctx.Push()
	c.saves++
	c.clipMarks = append(c.clipMarks, len(c.clips))
}

// Restore implements rendercore.Canvas.
func (c *Canvas) Restore() {
	if c.saves == 0 {
		return
	}
	c.ctx.Pop()
	c.saves--
	n := len(c.clipMarks) - 1
	c.clips = c.clips[:c.clipMarks[n]]
	c.clipMarks = c.clipMarks[:n]
}

// Concat implements rendercore.Canvas.
func (c *Canvas) Concat(m rendercore.Matrix) { c.ctx.Transform(toGG(m)) }

// SetMatrix implements rendercore.Canvas.
func (c *Canvas) SetMatrix(m rendercore.Matrix) { c.ctx.SetTransform(toGG(m)) }

// ClipRect implements rendercore.Canvas. gg receives the device bounding
// box of r, which is exact for axis-aligned transforms; image brushes test
// the user-space rectangle itself.
func (c *Canvas) ClipRect(r rendercore.Rect) {
	r = normalize(r)
	ctm := c.ctm()
	c.clips = append(c.clips, userClip{inv: ctm.Invert(), rect: r})

	b := ctm.TransformRect(r)
	c.ctx.Identity()
	c.ctx.ClipRect(b.Left, b.Top, b.Width(), b.Height())
	c.ctx.SetTransform(toGG(ctm))
}

// SaveLayer implements rendercore.Canvas.
func (c *Canvas) SaveLayer(mode rendercore.BlendMode, opacity float64) {
	c.ctx.PushLayer(ggBlend(mode), opacity)
	c.layers++
}

// RestoreLayer implements rendercore.Canvas.
func (c *Canvas) RestoreLayer() {
	if c.layers == 0 {
		return
	}
	c.ctx.PopLayer()
	c.layers--
}

// FillRect implements rendercore.Canvas.
func (c *Canvas) FillRect(r rendercore.Rect, p rendercore.Paint) error {
	r = normalize(r)
	if r.Width() == 0 || r.Height() == 0 {
		return nil
	}
	if p.Gradient != nil {
		c.ctx.SetFillBrush(c.gradientBrush(p.Gradient))
	} else {
		c.ctx.SetRGBA(p.Color.Floats())
	}
	c.ctx.DrawRectangle(r.Left, r.Top, r.Width(), r.Height())
	return c.ctx.Fill()
}

// DrawImage implements rendercore.Canvas.
func (c *Canvas) DrawImage(img *rendercore.Image, dst rendercore.Rect, alpha float64) error {
	dst = normalize(dst)
	if alpha <= 0 || dst.Width() == 0 || dst.Height() == 0 {
		return nil
	}
	buf := c.converted(img)
	iw, ih := buf.Bounds()
	inv := c.ctm().Invert()
	sx, sy := float64(iw)/dst.Width(), float64(ih)/dst.Height()
	alpha = math.Min(alpha, 1)
	clips := c.clips

	c.ctx.SetFillBrush(gg.NewCustomBrush(func(x, y float64) gg.RGBA {
		if !insideClips(clips, x, y) {
			return gg.Transparent
		}
		ux, uy := inv.TransformPoint(x, y)
		px := clampInt(int(math.Floor((ux-dst.Left)*sx)), iw)
		py := clampInt(int(math.Floor((uy-dst.Top)*sy)), ih)
		r, g, b, a := buf.GetRGBA(px, py)
		return gg.RGBA{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255, A: float64(a) / 255 * alpha}
	}).WithName("image"))
	c.ctx.DrawRectangle(dst.Left, dst.Top, dst.Width(), dst.Height())
	return c.ctx.Fill()
}

// Snapshot implements rendercore.Canvas. The result is an *image.RGBA.
func (c *Canvas) Snapshot() image.Image {
	return c.ctx.Image()
}

// DrawSnapshot implements rendercore.Canvas.
func (c *Canvas) DrawSnapshot(img image.Image, m rendercore.Matrix) error {
	if c.snap != img {
		c.snap = img
		c.snapBuf = snapshotBuf(img)
	}
	buf := c.snapBuf
	iw, ih := buf.Bounds()
	inv := m.Invert()

	c.ctx.Push()
	c.ctx.Identity()
	c.ctx.SetFillBrush(gg.NewCustomBrush(func(x, y float64) gg.RGBA {
		sx, sy := inv.TransformPoint(x, y)
		px, py := int(math.Floor(sx)), int(math.Floor(sy))
		if px < 0 || py < 0 || px >= iw || py >= ih {
			return gg.Transparent
		}
		r, g, b, a := buf.GetRGBA(px, py)
		return gg.RGBA{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255, A: float64(a) / 255}
	}).WithName("snapshot"))
	w, h := c.Size()
	c.ctx.DrawRectangle(0, 0, float64(w), float64(h))
	err := c.ctx.Fill()
	c.ctx.Pop()
	return err
}

// Pixels returns the surface as tightly packed RGBA bytes. The slice aliases
// the surface and is valid until the next call that draws or resizes.
func (c *Canvas) Pixels() []byte {
	return c.ctx.ResizeTarget().Data()
}

// gradientBrush returns a brush for g under the current CTM.
func (c *Canvas) gradientBrush(g *rendercore.GradientPaint) gg.Brush {
	ctm := c.ctm()
	if !conformal(ctm) {
		inv := ctm.Invert()
		return gg.NewCustomBrush(func(x, y float64) gg.RGBA {
			return toGGColor(g.ColorAt(inv.TransformPoint(x, y)))
		}).WithName("gradient")
	}
	x0, y0 := ctm.TransformPoint(g.Start.X, g.Start.Y)
	x1, y1 := ctm.TransformPoint(g.End.X, g.End.Y)
	brush := gg.NewLinearGradientBrush(x0, y0, x1, y1)
	for _, s := range g.Gradient.SortedStops() {
		brush.AddColorStop(s.Offset, toGGColor(s.Color.WithAlpha(g.Gradient.Opacity)))
	}
	return brush
}

// converted returns img as a straight-alpha gg image buffer.
func (c *Canvas) converted(img *rendercore.Image) *gg.ImageBuf {
	if buf, ok := c.images[img]; ok {
		return buf
	}
	if len(c.images) >= maxConverted {
		clear(c.images)
	}
	src := img.Source()
	b := src.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), src, b.Min, draw.Src)
	buf := gg.ImageBufFromImage(nrgba)
	c.images[img] = buf
	return buf
}

// snapshotBuf wraps a snapshot. Snapshots taken from this canvas are copied
// byte for byte so a redraw reproduces them exactly.
func snapshotBuf(img image.Image) *gg.ImageBuf {
	if rgba, ok := img.(*image.RGBA); ok {
		return gg.ImageBufFromImage(rgba)
	}
	b := img.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	return gg.ImageBufFromImage(nrgba)
}

// insideClips reports whether device point (x, y) lies in every clip.
func insideClips(clips []userClip, x, y float64) bool {
	for _, cl := range clips {
		if !cl.rect.Contains(cl.inv.TransformPoint(x, y)) {
			return false
		}
	}
	return true
}

func (c *Canvas) ctm() rendercore.Matrix { return fromGG(c.ctx.GetTransform()) }

// toGG converts (a, b, c, d, e, f) with x' = a x + c y + e into gg's row
// layout x' = A x + B y + C.
func toGG(m rendercore.Matrix) gg.Matrix {
	return gg.Matrix{A: m.A, B: m.C, C: m.E, D: m.B, E: m.D, F: m.F}
}

func fromGG(m gg.Matrix) rendercore.Matrix {
	return rendercore.NewMatrix(m.A, m.D, m.B, m.E, m.C, m.F)
}

// conformal reports whether m preserves angles, so a gradient axis maps to a
// device-space gradient axis.
func conformal(m rendercore.Matrix) bool {
	const eps = 1e-9
	rot := math.Abs(m.A-m.D) < eps && math.Abs(m.B+m.C) < eps
	refl := math.Abs(m.A+m.D) < eps && math.Abs(m.B-m.C) < eps
	return rot || refl
}

// ggBlend maps a blend mode onto the four modes gg layers composite with.
// Every other mode composites as normal.
func ggBlend(mode rendercore.BlendMode) gg.BlendMode {
	switch mode {
	case rendercore.BlendMultiply:
		return gg.BlendMultiply
	case rendercore.BlendScreen:
		return gg.BlendScreen
	case rendercore.BlendOverlay:
		return gg.BlendOverlay
	default:
		return gg.BlendNormal
	}
}

func toGGColor(c rendercore.Color) gg.RGBA {
	r, g, b, a := c.Floats()
	return gg.RGBA{R: r, G: g, B: b, A: a}
}

func normalize(r rendercore.Rect) rendercore.Rect {
	return rendercore.RectLTRB(
		math.Min(r.Left, r.Right), math.Min(r.Top, r.Bottom),
		math.Max(r.Left, r.Right), math.Max(r.Top, r.Bottom),
	)
}

func clampInt(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}
