//go:build tinygo && baremetal && picocalc

package hal

import (
	"errors"
	"machine"
	"time"
)

// ili9488 drives the PicoCalc LCD over SPI1 in 16bpp mode.
type ili9488 struct {
	spi machine.SPI
	cs  machine.Pin
	dc  machine.Pin
	rst machine.Pin

	txBuf []byte
}

var errNoSPI = errors.New("SPI1 unavailable")

func initILI9488() (*ili9488, error) {
	if machine.SPI1 == nil {
		return nil, errNoSPI
	}

	machine.SPI1.Configure(machine.SPIConfig{
		SCK:       machine.GP10,
		SDO:       machine.GP11,
		SDI:       machine.GP12,
		Frequency: 40_000_000,
	})

	lcd := &ili9488{
		spi:   *machine.SPI1,
		cs:    machine.GP13,
		dc:    machine.GP14,
		rst:   machine.GP15,
		txBuf: make([]byte, 4096),
	}

	for _, p := range []machine.Pin{lcd.cs, lcd.dc, lcd.rst} {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.High()
	}

	lcd.reset()
	for _, c := range ili9488InitSeq {
		lcd.cmd(c.cmd, c.data...)
		if c.delay > 0 {
			time.Sleep(c.delay)
		}
	}
	return lcd, nil
}

var ili9488InitSeq = []struct {
	cmd   byte
	data  []byte
	delay time.Duration
}{
	{cmd: 0xC0, data: []byte{0x17, 0x15}},             // PWCTRL1
	{cmd: 0xC1, data: []byte{0x41}},                   // PWCTRL2
	{cmd: 0xC5, data: []byte{0x00, 0x12, 0x80, 0x40}}, // VMCTRL
	{cmd: 0x3A, data: []byte{0x55}},                   // COLMOD 16bpp
	{cmd: 0xB1, data: []byte{0xA0, 0x11}},             // FRMCTRL1
	{cmd: 0xB6, data: []byte{0x02, 0x22, 0x27}},       // DISCTRL, 320 lines
	{cmd: 0x21},                                       // INVON
	{cmd: 0x36, data: []byte{0x40 | 0x04 | 0x08}},     // MADCTL: MX|MH|BGR
	{cmd: 0x11, delay: 120 * time.Millisecond},        // SLPOUT
	{cmd: 0x29},                                       // DISPON
}

func (d *ili9488) reset() {
	d.rst.Low()
	time.Sleep(64 * time.Millisecond)
	d.rst.High()
	time.Sleep(140 * time.Millisecond)
}

func (d *ili9488) cmd(cmd byte, data ...byte) {
	d.cs.Low()
	d.dc.Low()
	d.spi.Tx([]byte{cmd}, nil)
	d.dc.High()
	if len(data) > 0 {
		d.spi.Tx(data, nil)
	}
	d.cs.High()
}

func (d *ili9488) setWindow(x0, y0, x1, y1 uint16) {
	d.cmd(0x2A, byte(x0>>8), byte(x0), byte(x1>>8), byte(x1))
	d.cmd(0x2B, byte(y0>>8), byte(y0), byte(y1>>8), byte(y1))
	d.cmd(0x2C)
}

// blitRows sends rows full-width lines of little-endian RGB565 pixels
// starting at screen row y.
func (d *ili9488) blitRows(buf []byte, w, y, rows int) error {
	n := w * rows * 2
	if w <= 0 || rows <= 0 || len(buf) < n {
		return errors.New("invalid framebuffer region")
	}

	d.setWindow(0, uint16(y), uint16(w-1), uint16(y+rows-1))

	d.cs.Low()
	d.dc.High()
	defer d.cs.High()

	chunk := d.txBuf[:len(d.txBuf)&^1]
	for off := 0; off < n; {
		m := len(chunk)
		if remain := n - off; m > remain {
			m = remain
		}
		src := buf[off : off+m]
		// The panel expects big-endian pixels.
		for i := 0; i < m; i += 2 {
			chunk[i] = src[i+1]
			chunk[i+1] = src[i]
		}
		d.spi.Tx(chunk[:m], nil)
		off += m
	}
	return nil
}
