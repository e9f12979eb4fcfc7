//go:build tinygo && baremetal && picocalc

package hal

import (
	"errors"
	"machine"
	"time"
)

const (
	picoCalcKbdAddr uint16 = 0x1F
	picoCalcKbdCmd         = 0x09
)

const (
	picoCalcEvPress   = 0x01
	picoCalcEvHold    = 0x02
	picoCalcEvRelease = 0x03
)

// Special key codes reported by the keyboard MCU.
var picoCalcSpecial = map[byte]KeyCode{
	0x08: KeyBackspace,
	0xB1: KeyEscape,
	0xD4: KeyDelete,
	0xD2: KeyHome,
	0xD5: KeyEnd,
	0xB4: KeyLeft,
	0xB7: KeyRight,
	0xB5: KeyUp,
	0xB6: KeyDown,
	'\r': KeyEnter,
	'\n': KeyEnter,
}

const (
	picoCalcKeyAlt  byte = 0xA1
	picoCalcKeyCtrl byte = 0xA5
)

var errNoKeyboard = errors.New("keyboard: I2C unavailable")

type i2cKeyboard struct {
	i2c   *machine.I2C
	write [1]byte
	read  [2]byte
}

func initI2CKeyboard() (*i2cKeyboard, error) {
	// Prefer I2C1 (stock PicoCalc wiring), but some TinyGo targets expose only I2C0.
	for _, bus := range []*machine.I2C{machine.I2C1, machine.I2C0} {
		if bus == nil {
			continue
		}
		for _, freq := range []uint32{100_000, 400_000} {
			if err := bus.Configure(machine.I2CConfig{
				SCL:       machine.GP7,
				SDA:       machine.GP6,
				Frequency: freq,
			}); err != nil {
				continue
			}

			k := &i2cKeyboard{i2c: bus, write: [1]byte{picoCalcKbdCmd}}

			// The keyboard MCU can be slow to answer right after power-up.
			for i := 0; i < 50; i++ {
				if err := k.i2c.Tx(picoCalcKbdAddr, k.write[:], k.read[:]); err == nil {
					return k, nil
				}
				time.Sleep(10 * time.Millisecond)
			}
		}
	}
	return nil, errNoKeyboard
}

func (k *i2cKeyboard) readEvent() (KeyEvent, bool) {
	if err := k.i2c.Tx(picoCalcKbdAddr, k.write[:], k.read[:]); err != nil {
		return KeyEvent{}, false
	}
	switch k.read[0] {
	case picoCalcEvPress:
		return translatePicoCalcKey(k.read[1], true)
	case picoCalcEvRelease:
		return translatePicoCalcKey(k.read[1], false)
	default:
		// Holds and idle polls; repeat is done in termkbd.
		return KeyEvent{}, false
	}
}

func translatePicoCalcKey(code byte, press bool) (KeyEvent, bool) {
	switch code {
	case 0, picoCalcKeyAlt, picoCalcKeyCtrl:
		return KeyEvent{}, false
	}
	if kc, ok := picoCalcSpecial[code]; ok {
		return KeyEvent{Code: kc, Press: press}, true
	}
	if !press {
		// termkbd only tracks releases of repeatable special keys.
		return KeyEvent{}, false
	}
	return KeyEvent{Press: true, Rune: rune(code)}, true
}
