package rendercore

import (
	"errors"
	"fmt"
)

// Gradient errors returned by Shape.AddGradientStop.
var (
	ErrNoFills      = errors.New("rendercore: shape has no fills")
	ErrNotAGradient = errors.New("rendercore: active fill is not a gradient")
)

// Boundary buffer errors returned by Arena.
var (
	ErrInvalidBuffer = errors.New("rendercore: null pointer or zero-length buffer")
	ErrUnknownBuffer = errors.New("rendercore: buffer was not allocated by this arena or was already taken")
	ErrBufferOverrun = errors.New("rendercore: requested length exceeds the allocation")
	ErrDoubleRelease = errors.New("rendercore: buffer released twice")
)

// ErrInvalidSize is returned when a surface dimension is not positive.
var ErrInvalidSize = errors.New("rendercore: width and height must be positive")

// OpError records the boundary operation that failed.
type OpError struct {
	Op    string // entry point, e.g. "store_image"
	Shape ID     // selected shape, zero when not applicable
	Err   error
}

func (e *OpError) Error() string {
	if e.Shape != (ID{}) {
		return fmt.Sprintf("%s (shape %s): %v", e.Op, e.Shape, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

func opError(op string, shape ID, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Shape: shape, Err: err}
}
