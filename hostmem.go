package rendercore

import (
	"fmt"
	"unsafe"
)

// Arena hands out module-owned scratch buffers for the host to fill and
// takes them back when the host passes (pointer, length) to an entry point.
//
// Every allocation is in exactly one state: host-owned after Alloc,
// core-owned after Take, gone after Release (or Free). The backing slices
// stay referenced from the arena while live so the collector never moves
// or reclaims memory the host can still address.
//
// An Arena is not safe for concurrent use.
type Arena struct {
	host map[uintptr][]byte
	core map[uintptr][]byte
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{
		host: make(map[uintptr][]byte),
		core: make(map[uintptr][]byte),
	}
}

// Alloc allocates n bytes and returns their address for the host to write.
func (a *Arena) Alloc(n int) (uintptr, error) {
	if n <= 0 {
		return 0, ErrInvalidBuffer
	}
	buf := make([]byte, n)
	ptr := uintptr(unsafe.Pointer(&buf[0]))
	a.host[ptr] = buf
	return ptr, nil
}

// Bytes returns the host-owned buffer at ptr so Go hosts can fill it. It
// returns nil once the buffer has been taken or freed.
func (a *Arena) Bytes(ptr uintptr) []byte {
	return a.host[ptr]
}

// Free drops a host-owned buffer that was never handed to the core.
func (a *Arena) Free(ptr uintptr) error {
	if _, ok := a.host[ptr]; !ok {
		return ErrUnknownBuffer
	}
	delete(a.host, ptr)
	return nil
}

// Take transfers ownership of the n-byte region at ptr to the core. The host
// must not touch the region afterwards. The returned Buffer must be released
// exactly once.
func (a *Arena) Take(ptr uintptr, n int) (*Buffer, error) {
	if ptr == 0 || n <= 0 {
		return nil, ErrInvalidBuffer
	}
	buf, ok := a.host[ptr]
	if !ok {
		return nil, ErrUnknownBuffer
	}
	if n > len(buf) {
		return nil, fmt.Errorf("%w: %d > %d", ErrBufferOverrun, n, len(buf))
	}
	delete(a.host, ptr)
	a.core[ptr] = buf
	return &Buffer{arena: a, ptr: ptr, data: buf[:n:n]}, nil
}

// With takes ownership of the region at ptr, passes its bytes to fn and
// releases the buffer when fn returns, panics included. fn must not retain
// the slice.
func (a *Arena) With(ptr uintptr, n int, fn func([]byte) error) (err error) {
	b, err := a.Take(ptr, n)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := b.Release(); rerr != nil && err == nil {
			err = rerr
		}
	}()
	return fn(b.Bytes())
}

// Outstanding returns the number of allocations not yet released or freed.
func (a *Arena) Outstanding() int {
	return len(a.host) + len(a.core)
}

func (a *Arena) release(ptr uintptr, n int) error {
	buf, ok := a.core[ptr]
	if !ok {
		return ErrDoubleRelease
	}
	if n > len(buf) {
		return fmt.Errorf("%w: %d > %d", ErrBufferOverrun, n, len(buf))
	}
	delete(a.core, ptr)
	return nil
}

// Buffer is a core-owned region taken from the host.
type Buffer struct {
	arena    *Arena
	ptr      uintptr
	data     []byte
	released bool
}

// Bytes returns the buffer contents. The slice is invalid after Release.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len returns the length the host handed over.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Release returns the memory. Calling it a second time returns
// ErrDoubleRelease.
func (b *Buffer) Release() error {
	if b.released {
		return ErrDoubleRelease
	}
	b.released = true
	err := b.arena.release(b.ptr, len(b.data))
	b.data = nil
	return err
}
