//go:build !tinygo

package hal

import (
	"sync"
	"sync/atomic"
)

type hostFramebuffer struct {
	mu     sync.Mutex
	width  int
	height int
	stride int
	buf    []byte

	// generation counts Present calls; the window re-uploads on change.
	generation atomic.Uint64
}

func newHostFramebuffer(width, height int) *hostFramebuffer {
	stride := width * 2
	return &hostFramebuffer{
		width:  width,
		height: height,
		stride: stride,
		buf:    make([]byte, stride*height),
	}
}

func (f *hostFramebuffer) Width() int          { return f.width }
func (f *hostFramebuffer) Height() int         { return f.height }
func (f *hostFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *hostFramebuffer) StrideBytes() int    { return f.stride }
func (f *hostFramebuffer) Buffer() []byte      { return f.buf }

func (f *hostFramebuffer) Present() error {
	f.generation.Add(1)
	return nil
}

func (f *hostFramebuffer) ClearRGB(r, g, b uint8) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fillRGB565(f.buf, rgb565(r, g, b))
}

// snapshotRGB565 copies the pixels into dst if the framebuffer was presented
// since generation seen. It returns the current generation and whether dst
// was written.
func (f *hostFramebuffer) snapshotRGB565(dst []byte, seen uint64) (uint64, bool) {
	gen := f.generation.Load()
	if gen == seen {
		return gen, false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(dst, f.buf)
	return gen, true
}
