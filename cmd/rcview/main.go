// Command rcview opens an Ebitengine window on a rendercore scene built from
// a YAML call-trace script. Drag to pan, scroll to zoom around the cursor,
// press R to animate back to the initial view, C to toggle frame reuse, B to
// outline shape bounds and H to show the frame rate panel.
//
//	rcview -script scene.yaml
package main

import (
	"errors"
	"flag"
	"math"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	log "github.com/sirupsen/logrus"
	"github.com/tanema/gween/ease"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"github.com/phanxgames/rendercore"
	"github.com/phanxgames/rendercore/backend/ebitencanvas"
)

const (
	windowTitle  = "rendercore viewer"
	zoomStep     = 1.1
	resetSeconds = 0.6
)

// viewer is the ebiten.Game driving one engine.
type viewer struct {
	engine *rendercore.Engine
	canvas *ebitencanvas.Canvas
	script *rendercore.Script
	outDir string
	hud    *ebitencanvas.HUD

	showHUD  bool
	ran      bool
	dirty    bool
	dragging bool
	lastX    int
	lastY    int
	home     [3]float64
}

func (v *viewer) Update() error {
	e := v.engine
	if !v.ran {
		v.ran = true
		if v.script != nil {
			shots, err := v.script.Run(e, v.outDir)
			for _, path := range shots {
				log.WithField("path", path).Info("screenshot")
			}
			if err != nil {
				return err
			}
		}
		vb := e.RenderState().Viewbox
		v.home = [3]float64{vb.Zoom, vb.PanX, vb.PanY}
		v.dirty = true
	}

	moved := false
	rs := e.RenderState()
	cx, cy := ebiten.CursorPosition()

	if _, wy := ebiten.Wheel(); wy != 0 {
		wx0, wy0 := rs.Viewbox.ScreenToWorld(rs.DPR, float64(cx), float64(cy))
		zoom := rs.Viewbox.Zoom * math.Pow(zoomStep, wy)
		s := rs.DPR * zoom
		e.SetView(zoom, float64(cx)/s-wx0, float64(cy)/s-wy0)
		moved = true
	}

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		v.dragging = true
		v.lastX, v.lastY = cx, cy
	case v.dragging && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		if dx, dy := cx-v.lastX, cy-v.lastY; dx != 0 || dy != 0 {
			s := rs.DPR * rs.Viewbox.Zoom
			e.SetViewPan(rs.Viewbox.PanX+float64(dx)/s, rs.Viewbox.PanY+float64(dy)/s)
			v.lastX, v.lastY = cx, cy
			moved = true
		}
	case v.dragging:
		v.dragging = false
		v.dirty = true
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		e.AnimateView(v.home[0], v.home[1], v.home[2], resetSeconds, ease.OutCubic)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		rs.SetDebugFlags(rs.Debug ^ rendercore.DebugNoCache)
		v.dirty = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		rs.SetDebugFlags(rs.Debug ^ rendercore.DebugShapeBounds)
		v.dirty = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		v.showHUD = !v.showHUD
	}
	if rs.Viewbox.Animating() {
		e.Tick(1 / float32(ebiten.TPS()))
		moved = true
		if !rs.Viewbox.Animating() {
			v.dirty = true
		}
	}

	if v.showHUD {
		v.hud.Update(1/float64(ebiten.TPS()), &rs.Viewbox)
	}

	switch {
	case moved && !v.dirty:
		return e.Navigate()
	case v.dirty || moved:
		v.dirty = false
		return e.Render(true)
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.DrawImage(v.canvas.Image(), nil)
	if v.showHUD {
		v.hud.Draw(screen)
	}
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	if w, h := v.canvas.Size(); w != outsideWidth || h != outsideHeight {
		if err := v.engine.Resize(outsideWidth, outsideHeight); err != nil {
			log.WithError(err).Warn("resize")
		}
		v.dirty = true
	}
	return outsideWidth, outsideHeight
}

func _main() error {
	configPath := flag.String("config", "", "YAML config file")
	scriptPath := flag.String("script", "", "YAML call-trace script building the scene")
	outDir := flag.String("out", "screenshots", "directory for screenshot steps")
	flag.Parse()

	cfg := rendercore.DefaultConfig()
	cfg.Backend = rendercore.BackendEbiten
	if *configPath != "" {
		var err error
		if cfg, err = rendercore.LoadConfig(*configPath); err != nil {
			return err
		}
	}
	if cfg.Backend != rendercore.BackendEbiten {
		return errors.New("rcview renders with the ebiten backend only")
	}
	lvl, err := rendercore.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)

	v := &viewer{outDir: *outDir, hud: ebitencanvas.NewHUD()}
	if *scriptPath != "" {
		if v.script, err = rendercore.LoadScript(*scriptPath); err != nil {
			return err
		}
	}

	v.canvas = ebitencanvas.New()
	opts := append(cfg.Options(),
		rendercore.WithLogger(log.StandardLogger()),
		rendercore.WithOverlay(rendercore.BoundsOverlay{Color: rendercore.FromRGBA32(0x00B4FFFF), Width: 1}),
	)
	if v.engine, err = rendercore.New(v.canvas, cfg.Width, cfg.Height, opts...); err != nil {
		return err
	}

	ebiten.SetWindowTitle(windowTitle)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(v)
}

func main() {
	prefixed := &prefixed.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
		ForceFormatting: true,
		ForceColors:     true,
	}
	log.SetFormatter(prefixed)
	log.SetOutput(os.Stdout)
	if err := _main(); err != nil {
		log.Fatal(err)
	}
}
