package app

import (
	"fmt"
	"image/color"
	"strings"
	"unicode/utf8"

	"sparkcalc/hal"
	"sparkcalc/sparkos/kernel"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

const panicLineHeight = 10

func installPanicHandler(h hal.HAL) {
	kernel.SetPanicHandler(func(info kernel.PanicInfo) {
		lines := panicLines(info)
		if l := h.Logger(); l != nil {
			for _, line := range lines {
				l.WriteLineString(line)
			}
		}

		disp := h.Display()
		if disp == nil {
			return
		}
		fb := disp.Framebuffer()
		if fb == nil || fb.Buffer() == nil {
			return
		}
		drawPanicScreen(fb, lines)
		_ = fb.Present()
	})
}

func panicLines(info kernel.PanicInfo) []string {
	lines := []string{
		"sparkcalc panic",
		fmt.Sprintf("task: %d %s", info.TaskID, info.Task),
		fmt.Sprintf("panic: %v", info.Value),
	}
	if len(info.Stack) == 0 {
		return append(lines, "stack: unavailable")
	}
	lines = append(lines, "stack:")
	for _, line := range strings.Split(string(info.Stack), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// drawPanicScreen writes lines top to bottom on white, wrapping long lines
// and stopping at the bottom edge.
func drawPanicScreen(fb hal.Framebuffer, lines []string) {
	fb.ClearRGB(0xFF, 0xFF, 0xFF)
	d := panicDisplay{fb: fb}
	fg := color.RGBA{A: 0xFF}
	font := &proggy.TinySZ8pt7b

	maxW := fb.Width() - 4
	y := panicLineHeight
	for _, line := range lines {
		for line != "" {
			if y > fb.Height() {
				return
			}
			chunk, rest := splitToWidth(font, line, maxW)
			tinyfont.WriteLine(d, font, 2, int16(y), chunk, fg)
			y += panicLineHeight
			line = rest
		}
	}
}

// splitToWidth returns the longest prefix of s that fits in maxW pixels
// (at least one rune) and the rest.
func splitToWidth(f tinyfont.Fonter, s string, maxW int) (string, string) {
	if fits(f, s, maxW) {
		return s, ""
	}
	_, end := utf8.DecodeRuneInString(s)
	for end < len(s) {
		_, sz := utf8.DecodeRuneInString(s[end:])
		if !fits(f, s[:end+sz], maxW) {
			break
		}
		end += sz
	}
	return s[:end], s[end:]
}

func fits(f tinyfont.Fonter, s string, maxW int) bool {
	_, w := tinyfont.LineWidth(f, s)
	return int(w) <= maxW
}

type panicDisplay struct {
	fb hal.Framebuffer
}

func (d panicDisplay) Size() (x, y int16) {
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d panicDisplay) SetPixel(x, y int16, c color.RGBA) {
	if d.fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	buf := d.fb.Buffer()
	ix, iy := int(x), int(y)
	if ix < 0 || ix >= d.fb.Width() || iy < 0 || iy >= d.fb.Height() {
		return
	}
	pixel := uint16((uint16(c.R>>3)&0x1F)<<11 | (uint16(c.G>>2)&0x3F)<<5 | (uint16(c.B>>3) & 0x1F))
	off := iy*d.fb.StrideBytes() + ix*2
	if off+1 >= len(buf) {
		return
	}
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (d panicDisplay) Display() error { return nil }
