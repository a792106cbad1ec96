package ebitencanvas

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/rendercore"
)

// hudInterval is the refresh period of the HUD text in seconds.
const hudInterval = 0.5

// HUD is a small panel showing frame rates and the current view.
type HUD struct {
	img     *ebiten.Image
	elapsed float64
}

// NewHUD creates a HUD that draws on its first Update.
func NewHUD() *HUD {
	// 160x48 fits three lines of debug text.
	return &HUD{img: ebiten.NewImage(160, 48), elapsed: hudInterval}
}

// Update advances the refresh timer by dt seconds and redraws the panel
// when it is due.
func (h *HUD) Update(dt float64, vb *rendercore.Viewbox) {
	h.elapsed += dt
	if h.elapsed < hudInterval {
		return
	}
	h.elapsed = 0

	h.img.Clear()
	h.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(h.img, hudText(ebiten.ActualFPS(), ebiten.ActualTPS(), vb))
}

// Draw draws the panel at the top-left corner of screen.
func (h *HUD) Draw(screen *ebiten.Image) {
	screen.DrawImage(h.img, nil)
}

func hudText(fps, tps float64, vb *rendercore.Viewbox) string {
	return fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nzoom %.2f pan %.0f,%.0f", fps, tps, vb.Zoom, vb.PanX, vb.PanY)
}
