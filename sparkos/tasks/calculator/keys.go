package calculator

import "unicode/utf8"

type keyKind uint8

const (
	keyRune keyKind = iota
	keyEnter
	keyBackspace
	keyEsc
	keyUp
	keyDown
	keyLeft
	keyRight
	keyDelete
	keyHome
	keyEnd
	keyIgnore
)

type key struct {
	kind keyKind
	r    rune
}

// nextKey decodes one key from a VT100 byte stream. It reports ok=false
// when b holds only the start of a sequence.
func nextKey(b []byte) (consumed int, k key, ok bool) {
	if len(b) == 0 {
		return 0, key{}, false
	}

	switch b[0] {
	case 0x1b:
		return parseEscapeKey(b)
	case '\r', '\n':
		return 1, key{kind: keyEnter}, true
	case 0x7f, 0x08:
		return 1, key{kind: keyBackspace}, true
	}

	if b[0] < 0x20 {
		return 1, key{kind: keyIgnore}, true
	}
	if !utf8.FullRune(b) {
		return 0, key{}, false
	}
	r, sz := utf8.DecodeRune(b)
	if r == utf8.RuneError && sz == 1 {
		return 1, key{kind: keyIgnore}, true
	}
	return sz, key{kind: keyRune, r: r}, true
}

var csiKeys = map[byte]keyKind{
	'A': keyUp,
	'B': keyDown,
	'C': keyRight,
	'D': keyLeft,
	'H': keyHome,
	'F': keyEnd,
}

var tildeKeys = map[string]keyKind{
	"1": keyHome,
	"3": keyDelete,
	"4": keyEnd,
}

// maxCSI bounds how long an unterminated CSI sequence is buffered.
const maxCSI = 16

// parseEscapeKey decodes ESC-prefixed input. A bare ESC is a key of its own;
// a CSI sequence is consumed through its final byte even when it is not one
// the calculator knows.
func parseEscapeKey(b []byte) (consumed int, k key, ok bool) {
	if len(b) < 2 || b[1] != '[' {
		return 1, key{kind: keyEsc}, true
	}
	for i := 2; i < len(b); i++ {
		c := b[i]
		switch {
		case c >= 0x20 && c <= 0x3f:
			// parameter or intermediate byte
		case c >= 0x40 && c <= 0x7e:
			return i + 1, key{kind: csiKind(string(b[2:i]), c)}, true
		default:
			return i, key{kind: keyIgnore}, true
		}
		if i+1 >= maxCSI {
			return i + 1, key{kind: keyIgnore}, true
		}
	}
	return 0, key{}, false
}

func csiKind(params string, final byte) keyKind {
	if final == '~' {
		if kind, ok := tildeKeys[params]; ok {
			return kind
		}
		return keyIgnore
	}
	if params != "" {
		return keyIgnore
	}
	if kind, ok := csiKeys[final]; ok {
		return kind
	}
	return keyIgnore
}
