package ebitencanvas

import (
	"image"
	"math/bits"

	"github.com/hajimehoshi/ebiten/v2"
)

// maxIdlePerSize bounds how many idle layers of one size are kept. Deeper
// group nesting than this allocates past the pool.
const maxIdlePerSize = 4

// layerPool recycles the offscreen images behind SaveLayer. Sizes are rounded
// up to powers of two so a resized viewport still reuses most layers.
type layerPool struct {
	idle map[image.Point][]*ebiten.Image
}

// layerSize rounds w and h up to powers of two.
func layerSize(w, h int) image.Point {
	return image.Pt(ceilPow2(w), ceilPow2(h))
}

// get returns a cleared layer covering at least w by h pixels.
func (p *layerPool) get(w, h int) *ebiten.Image {
	size := layerSize(w, h)
	if free := p.idle[size]; len(free) > 0 {
		img := free[len(free)-1]
		p.idle[size] = free[:len(free)-1]
		img.Clear()
		return img
	}
	return ebiten.NewImageWithOptions(image.Rectangle{Max: size}, &ebiten.NewImageOptions{Unmanaged: true})
}

// put hands a layer back. Layers beyond maxIdlePerSize are deallocated.
func (p *layerPool) put(img *ebiten.Image) {
	if img == nil {
		return
	}
	size := img.Bounds().Size()
	if len(p.idle[size]) >= maxIdlePerSize {
		img.Deallocate()
		return
	}
	if p.idle == nil {
		p.idle = make(map[image.Point][]*ebiten.Image)
	}
	p.idle[size] = append(p.idle[size], img)
}

// drain deallocates every idle layer.
func (p *layerPool) drain() {
	for _, free := range p.idle {
		for _, img := range free {
			img.Deallocate()
		}
	}
	clear(p.idle)
}

// idleCount returns the number of idle layers.
func (p *layerPool) idleCount() int {
	n := 0
	for _, free := range p.idle {
		n += len(free)
	}
	return n
}

func ceilPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
