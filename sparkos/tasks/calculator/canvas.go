package calculator

import (
	"image/color"

	"sparkcalc/hal"

	"tinygo.org/x/drivers"
)

type rect struct {
	x, y, w, h int
}

func (r rect) inset(d int) rect {
	return rect{x: r.x + d, y: r.y + d, w: r.w - 2*d, h: r.h - 2*d}
}

// canvas draws into a little-endian RGB565 framebuffer. All writes are
// clipped to the buffer.
type canvas struct {
	buf    []byte
	stride int
	w      int
	h      int
}

func newCanvas(fb hal.Framebuffer) canvas {
	return canvas{buf: fb.Buffer(), stride: fb.StrideBytes(), w: fb.Width(), h: fb.Height()}
}

func (c canvas) clear(pixel uint16) {
	lo, hi := byte(pixel), byte(pixel>>8)
	for i := 0; i+1 < len(c.buf); i += 2 {
		c.buf[i] = lo
		c.buf[i+1] = hi
	}
}

func (c canvas) set(x, y int, pixel uint16) {
	if x < 0 || x >= c.w || y < 0 || y >= c.h {
		return
	}
	off := y*c.stride + x*2
	if off+1 >= len(c.buf) {
		return
	}
	c.buf[off] = byte(pixel)
	c.buf[off+1] = byte(pixel >> 8)
}

func (c canvas) fill(r rect, pixel uint16) {
	for y := r.y; y < r.y+r.h; y++ {
		for x := r.x; x < r.x+r.w; x++ {
			c.set(x, y, pixel)
		}
	}
}

// outline draws a border of the given thickness inside r.
func (c canvas) outline(r rect, thickness int, pixel uint16) {
	for i := 0; i < thickness; i++ {
		in := r.inset(i)
		if in.w <= 0 || in.h <= 0 {
			return
		}
		c.fill(rect{x: in.x, y: in.y, w: in.w, h: 1}, pixel)
		c.fill(rect{x: in.x, y: in.y + in.h - 1, w: in.w, h: 1}, pixel)
		c.fill(rect{x: in.x, y: in.y, w: 1, h: in.h}, pixel)
		c.fill(rect{x: in.x + in.w - 1, y: in.y, w: 1, h: in.h}, pixel)
	}
}

// fbDisplayer adapts the canvas to tinyfont.
type fbDisplayer struct {
	c canvas
}

var _ drivers.Displayer = (*fbDisplayer)(nil)

func (d *fbDisplayer) Size() (x, y int16) { return int16(d.c.w), int16(d.c.h) }

func (d *fbDisplayer) SetPixel(x, y int16, c color.RGBA) {
	d.c.set(int(x), int(y), rgb565(c))
}

func (d *fbDisplayer) Display() error { return nil }
