package rendercore

import (
	"time"

	"github.com/sirupsen/logrus"
)

// DebugFlags is the debug bitmask set through ConfigureRender.
type DebugFlags uint32

const (
	DebugStats       DebugFlags = 1 << iota // log per-render timings and counts
	DebugNoCache                            // never reuse the cached raster
	DebugShapeBounds                        // hand every drawn shape to the Overlay
)

// Has reports whether every bit of f is set.
func (d DebugFlags) Has(f DebugFlags) bool {
	return d&f == f
}

// renderStats holds per-render timing and draw metrics.
// Only logged when DebugStats is set.
type renderStats struct {
	mode       string // "full", "cached" or "navigate"
	walkTime   time.Duration
	totalTime  time.Duration
	shapes     int
	fills      int
	layers     int
	revisits   int
	missingIDs int
}

// logStats writes the stats of one render at debug level.
func logStats(log logrus.FieldLogger, stats renderStats) {
	log.WithFields(logrus.Fields{
		"mode":     stats.mode,
		"walk":     stats.walkTime,
		"total":    stats.totalTime,
		"shapes":   stats.shapes,
		"fills":    stats.fills,
		"layers":   stats.layers,
		"revisits": stats.revisits,
		"missing":  stats.missingIDs,
	}).Info("render")
}

// DefaultMaxDepth is the walk depth beyond which branches are cut and
// logged. The visited set already stops cycles; this only bounds recursion.
const DefaultMaxDepth = 1 << 14

// BoundsOverlay outlines the selrect of every drawn shape with strips Width
// user units wide.
type BoundsOverlay struct {
	Color Color
	Width float64
}

// DrawShape implements Overlay.
func (o BoundsOverlay) DrawShape(c Canvas, s *Shape) error {
	r, w := s.Selrect, o.Width
	if w <= 0 {
		w = 1
	}
	strips := [4]Rect{
		RectLTRB(r.Left, r.Top, r.Right, r.Top+w),
		RectLTRB(r.Left, r.Bottom-w, r.Right, r.Bottom),
		RectLTRB(r.Left, r.Top, r.Left+w, r.Bottom),
		RectLTRB(r.Right-w, r.Top, r.Right, r.Bottom),
	}
	for _, strip := range strips {
		if err := c.FillRect(strip, Paint{Color: o.Color}); err != nil {
			return err
		}
	}
	return nil
}
