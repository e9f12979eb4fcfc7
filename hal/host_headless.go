//go:build !tinygo

package hal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Hz    int
	Ticks uint64

	// Keys is typed into the keyboard, one key per frame, before any other input.
	Keys string

	// Stdin, when set, is read for further key input.
	Stdin io.Reader
}

// RunHeadless runs the OS without opening a window. The calculator display is
// mirrored to stdout through the HAL console and logs go to stderr.
func RunHeadless(ctx context.Context, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	console := newConsole(os.Stdout)
	defer console.stop()

	h := newHostHAL(os.Stderr, console)
	step := newApp(h)

	if cfg.Stdin != nil {
		go readKeys(cfg.Stdin, h.kbd)
	}
	script := scriptEvents(cfg.Keys)

	t := time.NewTicker(d)
	defer t.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if len(script) > 0 && h.kbd.push(script[0]) {
				script = script[1:]
			}
			h.t.step(1)
			if step != nil {
				if err := step(); err != nil {
					if errors.Is(err, ErrExit) {
						return nil
					}
					return err
				}
			}
			tick++
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				return nil
			}
		}
	}
}

// scriptEvents converts a key script into key events. '<' is backspace and
// '~' is escape; every other rune is typed as-is.
func scriptEvents(s string) []KeyEvent {
	var evs []KeyEvent
	for _, r := range s {
		evs = append(evs, runeEvents(r)...)
	}
	return evs
}

func runeEvents(r rune) []KeyEvent {
	switch r {
	case '<', 0x7f, 0x08:
		return []KeyEvent{{Code: KeyBackspace, Press: true}, {Code: KeyBackspace}}
	case '~', 0x1b:
		return []KeyEvent{{Code: KeyEscape, Press: true}, {Code: KeyEscape}}
	case '\n', '\r':
		// Line-buffered terminals send a newline with every line; it is not a key.
		return nil
	default:
		return []KeyEvent{{Press: true, Rune: r}}
	}
}

func codeEvents(c KeyCode) []KeyEvent {
	return []KeyEvent{{Code: c, Press: true}, {Code: c}}
}

var csiCodes = map[string]KeyCode{
	"A":  KeyUp,
	"B":  KeyDown,
	"C":  KeyRight,
	"D":  KeyLeft,
	"H":  KeyHome,
	"F":  KeyEnd,
	"1~": KeyHome,
	"3~": KeyDelete,
	"4~": KeyEnd,
}

// readKeys turns terminal input into key events. CSI sequences become
// navigation keys and an empty line is Enter; the newline that ends a line
// of typed keys is not a key.
func readKeys(r io.Reader, kbd *hostKeyboard) {
	br := bufio.NewReader(r)
	lineEmpty := true
	for {
		ch, _, err := br.ReadRune()
		if err != nil {
			return
		}

		var evs []KeyEvent
		switch ch {
		case '\n', '\r':
			if ch == '\n' && lineEmpty {
				evs = codeEvents(KeyEnter)
			}
			if ch == '\n' {
				lineEmpty = true
			}
		case 0x1b:
			evs = escapeEvents(br)
			lineEmpty = false
		default:
			evs = runeEvents(ch)
			lineEmpty = false
		}

		for _, ev := range evs {
			for !kbd.push(ev) {
				time.Sleep(time.Millisecond)
			}
		}
	}
}

// escapeEvents decodes what follows an ESC byte. Only bytes already read
// from the terminal are examined, so a lone ESC is not held back.
func escapeEvents(br *bufio.Reader) []KeyEvent {
	if br.Buffered() == 0 {
		return codeEvents(KeyEscape)
	}
	if next, err := br.Peek(1); err != nil || next[0] != '[' {
		return codeEvents(KeyEscape)
	}
	_, _ = br.ReadByte()

	var seq []byte
	for br.Buffered() > 0 && len(seq) < 16 {
		c, err := br.ReadByte()
		if err != nil {
			break
		}
		seq = append(seq, c)
		if c >= 0x40 && c <= 0x7e {
			if code, ok := csiCodes[string(seq)]; ok {
				return codeEvents(code)
			}
			return nil
		}
		if c < 0x20 || c > 0x3f {
			return nil
		}
	}
	return nil
}
