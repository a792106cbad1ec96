package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/gogpu/gg"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/phanxgames/rendercore"
)

func newEngine(t *testing.T, w, h int) (*rendercore.Engine, *Canvas) {
	t.Helper()
	log, _ := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	c := New()
	e, err := rendercore.New(c, w, h, rendercore.WithLogger(log))
	if err != nil {
		t.Fatal(err)
	}
	return e, c
}

// pixel reads the RGBA bytes at (x, y) from the raw surface.
func pixel(c *Canvas, x, y int) [4]uint8 {
	w, _ := c.Size()
	pix := c.Pixels()
	i := 4 * (y*w + x)
	return [4]uint8{pix[i], pix[i+1], pix[i+2], pix[i+3]}
}

func near(a, b uint8, tol int) bool {
	d := int(a) - int(b)
	return d >= -tol && d <= tol
}

func redSquare(e *rendercore.Engine) {
	e.SelectShape(rendercore.RootID)
	e.SetShapeBounds(0, 0, 100, 100)
	e.AddSolidFill(rendercore.FromRGBA32(0xFF0000FF))
	e.ClearSelection()
}

func TestRenderOpaqueRedSquare(t *testing.T) {
	e, c := newEngine(t, 800, 600)
	redSquare(e)
	if err := e.Render(true); err != nil {
		t.Fatal(err)
	}

	red := [4]uint8{255, 0, 0, 255}
	for _, p := range [][2]int{{1, 1}, {50, 50}, {98, 98}} {
		if got := pixel(c, p[0], p[1]); got != red {
			t.Errorf("pixel%v = %v, want opaque red", p, got)
		}
	}
	empty := [4]uint8{}
	for _, p := range [][2]int{{101, 50}, {50, 101}, {150, 150}, {799, 599}} {
		if got := pixel(c, p[0], p[1]); got != empty {
			t.Errorf("pixel%v = %v, want transparent", p, got)
		}
	}
}

func TestSnapshotMatchesPixels(t *testing.T) {
	e, c := newEngine(t, 200, 200)
	redSquare(e)
	_ = e.Render(false)

	snap, ok := c.Snapshot().(*image.RGBA)
	if !ok {
		t.Fatalf("Snapshot = %T, want *image.RGBA", c.Snapshot())
	}
	if !bytes.Equal(snap.Pix, c.Pixels()) {
		t.Error("snapshot differs from the surface")
	}
}

func TestCachedRenderReproducesFrame(t *testing.T) {
	e, c := newEngine(t, 200, 200)
	redSquare(e)
	_ = e.Render(true)
	first := append([]byte(nil), c.Pixels()...)

	_ = e.Render(true)
	if !bytes.Equal(first, c.Pixels()) {
		t.Error("cached render differs from the full render")
	}
}

func TestNavigateShiftsFrame(t *testing.T) {
	e, c := newEngine(t, 200, 200)
	redSquare(e)
	_ = e.Render(true)

	e.SetViewPan(10, 0)
	if err := e.Navigate(); err != nil {
		t.Fatal(err)
	}
	if got := pixel(c, 105, 50); got != [4]uint8{255, 0, 0, 255} {
		t.Errorf("pixel(105,50) = %v, want red after the shift", got)
	}
	if got := pixel(c, 5, 50); got[3] != 0 {
		t.Errorf("pixel(5,50) = %v, want transparent after the shift", got)
	}
}

func TestViewZoomScalesScene(t *testing.T) {
	e, c := newEngine(t, 300, 300)
	redSquare(e)
	e.SetView(2, 0, 0)
	_ = e.Render(false)
	if got := pixel(c, 150, 150); got[0] != 255 || got[3] != 255 {
		t.Errorf("pixel(150,150) = %v, want red at zoom 2", got)
	}
	if got := pixel(c, 210, 150); got[3] != 0 {
		t.Errorf("pixel(210,150) = %v, want transparent", got)
	}
}

func TestLinearGradientEnds(t *testing.T) {
	e, c := newEngine(t, 100, 10)
	e.SelectShape(rendercore.RootID)
	e.SetShapeBounds(0, 0, 100, 10)
	e.AddLinearGradientFill(0, 0.5, 1, 0.5, 1)
	_ = e.AddGradientStop(rendercore.ColorBlack, 0)
	_ = e.AddGradientStop(rendercore.ColorWhite, 1)
	_ = e.Render(false)

	left, right := pixel(c, 1, 5), pixel(c, 98, 5)
	if left[0] > 40 || left[3] != 255 {
		t.Errorf("left = %v, want near black", left)
	}
	if right[0] < 215 || right[3] != 255 {
		t.Errorf("right = %v, want near white", right)
	}
}

func TestGradientUnderSkew(t *testing.T) {
	e, c := newEngine(t, 200, 50)
	e.SelectShape(rendercore.RootID)
	e.SetShapeBounds(0, 0, 100, 20)
	e.SetShapeTransform(1, 0, 0.5, 1, 0, 0)
	e.AddLinearGradientFill(0, 0.5, 1, 0.5, 1)
	_ = e.AddGradientStop(rendercore.ColorBlack, 0)
	_ = e.AddGradientStop(rendercore.ColorWhite, 1)
	if err := e.Render(false); err != nil {
		t.Fatal(err)
	}
	// The center row keeps its x under a skew about the center.
	if got := pixel(c, 50, 10); got[3] != 255 || !near(got[0], 128, 20) {
		t.Errorf("center = %v, want mid grey", got)
	}
}

func TestOpacityLayer(t *testing.T) {
	e, c := newEngine(t, 50, 50)
	e.SelectShape(rendercore.RootID)
	e.SetShapeBounds(0, 0, 50, 50)
	e.SetOpacity(0.5)
	e.AddSolidFill(rendercore.FromRGBA32(0xFF0000FF))
	_ = e.Render(false)

	if got := pixel(c, 25, 25); !near(got[3], 128, 8) {
		t.Errorf("alpha = %d, want about half", got[3])
	}
}

// storeGreen stores a w x h opaque green PNG under a fixed image ID.
func storeGreen(t *testing.T, e *rendercore.Engine, w, h int) rendercore.ID {
	t.Helper()
	src := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			src.Set(x, y, color.NRGBA{G: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}
	img := rendercore.FromQuartet(9, 0, 0, 0)
	if !e.StoreImageBytes(img, buf.Bytes()) {
		t.Fatal("image not stored")
	}
	return img
}

func TestImageFillDrawn(t *testing.T) {
	e, c := newEngine(t, 40, 40)
	img := storeGreen(t, e, 2, 2)

	e.SelectShape(rendercore.RootID)
	e.SetShapeBounds(10, 10, 30, 30)
	e.AddImageFill(img, 1, 2, 2)
	_ = e.Render(false)

	if got := pixel(c, 20, 20); got != [4]uint8{0, 255, 0, 255} {
		t.Errorf("inside = %v, want green", got)
	}
	if got := pixel(c, 5, 5); got[3] != 0 {
		t.Errorf("outside = %v, want transparent", got)
	}
}

// rotate45 rotates the selected shape by 45 degrees about its center.
func rotate45(e *rendercore.Engine) {
	r := math.Sqrt2 / 2
	e.SetShapeTransform(r, r, -r, r, 0, 0)
}

func TestImageFillRotated(t *testing.T) {
	e, c := newEngine(t, 200, 200)
	img := storeGreen(t, e, 2, 2)
	e.SelectShape(rendercore.RootID)
	e.SetShapeBounds(50, 50, 150, 150)
	rotate45(e)
	e.AddImageFill(img, 1, 2, 2)
	if err := e.Render(false); err != nil {
		t.Fatal(err)
	}

	green := [4]uint8{0, 255, 0, 255}
	// (100,40) lies in the rotated square but outside the unrotated one.
	for _, p := range [][2]int{{100, 100}, {100, 40}, {60, 100}} {
		if got := pixel(c, p[0], p[1]); got != green {
			t.Errorf("pixel%v = %v, want green", p, got)
		}
	}
	if got := pixel(c, 55, 55); got[3] != 0 {
		t.Errorf("pixel(55,55) = %v, want transparent outside the rotated square", got)
	}
}

func TestImageFillRotatedCoverClipped(t *testing.T) {
	e, c := newEngine(t, 200, 200)
	img := storeGreen(t, e, 4, 2)
	e.SelectShape(rendercore.RootID)
	e.SetShapeBounds(50, 50, 150, 150)
	rotate45(e)
	e.AddImageFill(img, 1, 4, 2)
	_ = e.Render(false)

	if got := pixel(c, 100, 100); got != [4]uint8{0, 255, 0, 255} {
		t.Errorf("center = %v, want green", got)
	}
	// Inside the 200x100 cover rect but outside the selrect.
	if got := pixel(c, 156, 156); got[3] != 0 {
		t.Errorf("pixel(156,156) = %v, want the cover overflow clipped", got)
	}
}

func TestClipStackFollowsSaveRestore(t *testing.T) {
	c := New()
	if err := c.Resize(10, 10); err != nil {
		t.Fatal(err)
	}
	c.ClipRect(rendercore.RectLTRB(0, 0, 8, 8))
	c.Save()
	c.Concat(rendercore.Translate(2, 2))
	c.ClipRect(rendercore.RectLTRB(0, 0, 4, 4))
	if len(c.clips) != 2 {
		t.Fatalf("clips = %d, want 2", len(c.clips))
	}
	if !c.ctm().Multiply(rendercore.Translate(-2, -2)).IsIdentity() {
		t.Error("ClipRect changed the transform")
	}
	c.Restore()
	if len(c.clips) != 1 {
		t.Errorf("clips = %d after Restore, want 1", len(c.clips))
	}
	c.Clear()
	if len(c.clips) != 0 || len(c.clipMarks) != 0 {
		t.Error("Clear kept clips")
	}
}

func TestInsideClips(t *testing.T) {
	r := math.Sqrt2 / 2
	rot := rendercore.NewMatrix(r, r, -r, r, 0, 0)
	clips := []userClip{{inv: rot.Invert(), rect: rendercore.RectLTRB(-10, -10, 10, 10)}}
	tests := []struct {
		x, y float64
		want bool
	}{
		{0, 0, true},
		{0, 13, true},
		{9, 9, false},
		{0, 15, false},
	}
	for _, tt := range tests {
		if got := insideClips(clips, tt.x, tt.y); got != tt.want {
			t.Errorf("insideClips(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
	if !insideClips(nil, 100, 100) {
		t.Error("no clips should accept every point")
	}
}

func TestResizeSurface(t *testing.T) {
	e, c := newEngine(t, 10, 10)
	if err := e.Resize(64, 32); err != nil {
		t.Fatal(err)
	}
	if w, h := c.Size(); w != 64 || h != 32 {
		t.Errorf("size = %dx%d, want 64x32", w, h)
	}
	if n := len(c.Pixels()); n != 64*32*4 {
		t.Errorf("pixels = %d bytes", n)
	}
	if err := c.Resize(0, 5); err == nil {
		t.Error("expected error for zero width")
	}
}

func TestSaveRestoreUnwoundByClear(t *testing.T) {
	c := New()
	if err := c.Resize(10, 10); err != nil {
		t.Fatal(err)
	}
	c.Save()
	c.Save()
	c.SaveLayer(rendercore.BlendMultiply, 1)
	c.Concat(rendercore.Translate(5, 5))
	c.Clear()
	if c.saves != 0 || c.layers != 0 {
		t.Errorf("saves %d layers %d after Clear, want 0 0", c.saves, c.layers)
	}
	if !c.ctm().IsIdentity() {
		t.Error("Clear left a transform")
	}
	c.Restore() // unbalanced restores are ignored
	c.RestoreLayer()
}

func TestMatrixConversionRoundTrip(t *testing.T) {
	m := rendercore.NewMatrix(1, 2, 3, 4, 5, 6)
	got := fromGG(toGG(m))
	if got != m {
		t.Errorf("round trip = %+v, want %+v", got, m)
	}
	p := toGG(m).TransformPoint(gg.Point{X: 1, Y: 1})
	wx, wy := m.TransformPoint(1, 1)
	if math.Abs(p.X-wx) > 1e-9 || math.Abs(p.Y-wy) > 1e-9 {
		t.Errorf("gg maps (1,1) to (%v,%v), want (%v,%v)", p.X, p.Y, wx, wy)
	}
}

func TestConformal(t *testing.T) {
	tests := []struct {
		name string
		m    rendercore.Matrix
		want bool
	}{
		{"identity", rendercore.Identity(), true},
		{"uniform scale", rendercore.ScaleMatrix(2, 2), true},
		{"rotation", rendercore.NewMatrix(0, 1, -1, 0, 3, 4), true},
		{"reflection", rendercore.NewMatrix(1, 0, 0, -1, 0, 0), true},
		{"non-uniform", rendercore.ScaleMatrix(2, 1), false},
		{"skew", rendercore.NewMatrix(1, 0, 0.5, 1, 0, 0), false},
	}
	for _, tt := range tests {
		if got := conformal(tt.m); got != tt.want {
			t.Errorf("%s: conformal = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestGGBlend(t *testing.T) {
	tests := []struct {
		in   rendercore.BlendMode
		want gg.BlendMode
	}{
		{rendercore.BlendNormal, gg.BlendNormal},
		{rendercore.BlendMultiply, gg.BlendMultiply},
		{rendercore.BlendScreen, gg.BlendScreen},
		{rendercore.BlendOverlay, gg.BlendOverlay},
		{rendercore.BlendXor, gg.BlendNormal},
		{rendercore.BlendLuminosity, gg.BlendNormal},
	}
	for _, tt := range tests {
		if got := ggBlend(tt.in); got != tt.want {
			t.Errorf("ggBlend(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	got := normalize(rendercore.RectLTRB(10, 20, 0, 5))
	if got != rendercore.RectLTRB(0, 5, 10, 20) {
		t.Errorf("normalize = %+v", got)
	}
}
