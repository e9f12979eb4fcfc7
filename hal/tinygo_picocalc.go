//go:build tinygo && baremetal && picocalc

package hal

import (
	"time"

	"github.com/cespare/xxhash/v2"
)

type picoCalcHAL struct {
	logger *uartLogger
	fb     Framebuffer
	kbd    Keyboard
	t      *tinyGoTime
}

// New returns a PicoCalc HAL implementation (Pico/Pico2 on the PicoCalc carrier).
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
func New() HAL {
	logger := newUARTLogger()

	var fb Framebuffer
	if disp, err := newPicoCalcDisplay(); err == nil {
		fb = disp
	} else {
		logger.WriteLineString("hal: display: " + err.Error())
		fb = &stubFramebuffer{w: picoCalcWidth, h: picoCalcHeight, format: PixelFormatRGB565}
	}

	var kbd Keyboard
	if kb, err := newPicoCalcKeyboard(); err == nil {
		kbd = kb
	} else {
		logger.WriteLineString("hal: " + err.Error())
		kbd = &stubKeyboard{}
	}

	return &picoCalcHAL{
		logger: logger,
		fb:     fb,
		kbd:    kbd,
		t:      newTinyGoTime(),
	}
}

func (h *picoCalcHAL) Logger() Logger   { return h.logger }
func (h *picoCalcHAL) Display() Display { return tinyGoDisplay{fb: h.fb} }
func (h *picoCalcHAL) Input() Input     { return tinyGoInput{kbd: h.kbd} }
func (h *picoCalcHAL) Time() Time       { return h.t }
func (h *picoCalcHAL) Console() Console { return nil }

const (
	picoCalcWidth  = 320
	picoCalcHeight = 320

	// Present pushes only the bands whose content hash changed.
	picoCalcBandRows = 16
	picoCalcBands    = picoCalcHeight / picoCalcBandRows
)

type picoCalcFramebuffer struct {
	w      int
	h      int
	stride int
	buf    []byte

	lcd   *ili9488
	bands [picoCalcBands]uint64
	valid bool
}

func (f *picoCalcFramebuffer) Width() int          { return f.w }
func (f *picoCalcFramebuffer) Height() int         { return f.h }
func (f *picoCalcFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *picoCalcFramebuffer) StrideBytes() int    { return f.stride }
func (f *picoCalcFramebuffer) Buffer() []byte      { return f.buf }

func (f *picoCalcFramebuffer) ClearRGB(r, g, b uint8) {
	fillRGB565(f.buf, rgb565(r, g, b))
}

func (f *picoCalcFramebuffer) Present() error {
	bandBytes := f.stride * picoCalcBandRows
	for i := 0; i < picoCalcBands; i++ {
		band := f.buf[i*bandBytes : (i+1)*bandBytes]
		sum := xxhash.Sum64(band)
		if f.valid && f.bands[i] == sum {
			continue
		}
		if err := f.lcd.blitRows(band, f.w, i*picoCalcBandRows, picoCalcBandRows); err != nil {
			f.valid = false
			return err
		}
		f.bands[i] = sum
	}
	f.valid = true
	return nil
}

func newPicoCalcDisplay() (*picoCalcFramebuffer, error) {
	lcd, err := initILI9488()
	if err != nil {
		return nil, err
	}
	return &picoCalcFramebuffer{
		w:      picoCalcWidth,
		h:      picoCalcHeight,
		stride: picoCalcWidth * 2,
		buf:    make([]byte, picoCalcWidth*picoCalcHeight*2),
		lcd:    lcd,
	}, nil
}

type picoCalcKeyboard struct {
	ch chan KeyEvent
}

func (k *picoCalcKeyboard) Events() <-chan KeyEvent { return k.ch }

func newPicoCalcKeyboard() (*picoCalcKeyboard, error) {
	kbd, err := initI2CKeyboard()
	if err != nil {
		return nil, err
	}
	dev := &picoCalcKeyboard{ch: make(chan KeyEvent, 64)}

	go func() {
		for {
			if ev, ok := kbd.readEvent(); ok {
				select {
				case dev.ch <- ev:
				default:
				}
			}
			time.Sleep(2 * time.Millisecond)
		}
	}()

	return dev, nil
}
