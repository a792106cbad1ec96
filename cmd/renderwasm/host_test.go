package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/phanxgames/rendercore"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int32
	}{
		{nil, statusOK},
		{rendercore.ErrNoFills, statusNoFills},
		{fmt.Errorf("wrapped: %w", rendercore.ErrNotAGradient), statusNotGradient},
		{&rendercore.OpError{Op: "add_shape_fill_stops", Err: rendercore.ErrBufferOverrun}, statusBadBuffer},
		{rendercore.ErrUnknownBuffer, statusBadBuffer},
		{rendercore.ErrDoubleRelease, statusBadBuffer},
		{rendercore.ErrInvalidBuffer, statusBadBuffer},
		{errors.New("other"), statusOther},
		{rendercore.ErrInvalidSize, statusOther},
	}
	for _, tt := range tests {
		if got := status(tt.err); got != tt.want {
			t.Errorf("status(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s did not panic", name)
		}
	}()
	fn()
}

func TestEntryPointsBeforeSetupPanic(t *testing.T) {
	h := newHost()
	mustPanic(t, "render", func() { h.render(true) })
	mustPanic(t, "alloc", func() { h.alloc(4) })
	mustPanic(t, "frame", func() { h.frame() })
}

func TestSetupInvalidSizePanics(t *testing.T) {
	h := newHost()
	mustPanic(t, "setup", func() { h.setup(0, 10) })
}

func TestHostRendersRedSquare(t *testing.T) {
	h := newHost()
	h.setup(800, 600)
	e := h.must()

	e.SelectShape(shapeID(0, 0, 0, 0))
	e.SetShapeBounds(0, 0, 100, 100)
	e.AddSolidFill(rendercore.FromRGBA32(0xFF0000FF))
	if got := h.render(true); got != statusOK {
		t.Fatalf("render = %d, want ok", got)
	}

	pix := h.frame()
	if len(pix) != 800*600*4 {
		t.Fatalf("frame = %d bytes, want %d", len(pix), 800*600*4)
	}
	at := func(x, y int) []byte {
		i := 4 * (y*800 + x)
		return pix[i : i+4]
	}
	if p := at(50, 50); p[0] != 255 || p[1] != 0 || p[2] != 0 || p[3] != 255 {
		t.Errorf("pixel(50,50) = %v, want opaque red", p)
	}
	if p := at(150, 150); p[3] != 0 {
		t.Errorf("pixel(150,150) = %v, want transparent", p)
	}
}

func TestHostFillStops(t *testing.T) {
	h := newHost()
	h.setup(16, 16)
	e := h.must()
	e.SelectShape(shapeID(1, 0, 0, 0))
	e.AddLinearGradientFill(0, 0, 1, 0, 1)

	ptr := h.alloc(10)
	copy(e.Arena().Bytes(ptr), []byte{255, 0, 0, 255, 0, 0, 0, 255, 255, 100})
	if got := h.addFillStops(ptr, 2); got != statusOK {
		t.Fatalf("addFillStops = %d, want ok", got)
	}
	if e.Arena().Outstanding() != 0 {
		t.Error("stop buffer not released")
	}

	ptr = h.alloc(5)
	if got := h.addFillStops(ptr, 2); got != statusBadBuffer {
		t.Errorf("overrun = %d, want bad buffer", got)
	}
	if got := h.free(ptr); got != statusOK {
		t.Errorf("free = %d, want ok", got)
	}
	if got := h.free(ptr); got != statusBadBuffer {
		t.Errorf("second free = %d, want bad buffer", got)
	}
}

func TestHostStoreImageBadBufferPanics(t *testing.T) {
	h := newHost()
	h.setup(16, 16)
	mustPanic(t, "storeImage", func() { h.storeImage(shapeID(9, 0, 0, 0), 1234, 8) })
}

func TestHostFillStopsInvalidBufferPanics(t *testing.T) {
	h := newHost()
	h.setup(16, 16)
	e := h.must()
	e.SelectShape(shapeID(1, 0, 0, 0))
	e.AddLinearGradientFill(0, 0, 1, 0, 1)

	mustPanic(t, "null pointer", func() { h.addFillStops(0, 1) })
	ptr := h.alloc(5)
	mustPanic(t, "zero count", func() { h.addFillStops(ptr, 0) })
}

func TestHostAllocZeroPanics(t *testing.T) {
	h := newHost()
	h.setup(16, 16)
	mustPanic(t, "alloc", func() { h.alloc(0) })
}
