package calc

// Key is one keypad button.
type Key uint8

const (
	Key0 Key = iota
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyDecimal
	KeyAdd
	KeySub
	KeyMul
	KeyDiv
	KeyEquals
	KeyClear
	KeyBackspace
)

// IsDigit reports whether k is one of Key0..Key9.
func (k Key) IsDigit() bool { return k <= Key9 }

func (k Key) String() string {
	if k.IsDigit() {
		return string(rune('0' + k))
	}
	switch k {
	case KeyDecimal:
		return "."
	case KeyAdd:
		return OpAdd.Symbol()
	case KeySub:
		return OpSub.Symbol()
	case KeyMul:
		return OpMul.Symbol()
	case KeyDiv:
		return OpDiv.Symbol()
	case KeyEquals:
		return "="
	case KeyClear:
		return "Clear"
	case KeyBackspace:
		return "⌫"
	default:
		return "?"
	}
}

// DigitKey returns the key for digit d.
func DigitKey(d int) (Key, bool) {
	if d < 0 || d > 9 {
		return 0, false
	}
	return Key0 + Key(d), true
}

// ParseKey maps a typed rune to a keypad key.
func ParseKey(r rune) (Key, bool) {
	if r >= '0' && r <= '9' {
		return DigitKey(int(r - '0'))
	}
	switch r {
	case '.', ',':
		return KeyDecimal, true
	case '+':
		return KeyAdd, true
	case '-', '−':
		return KeySub, true
	case '*', 'x', 'X', '×':
		return KeyMul, true
	case '/', '÷':
		return KeyDiv, true
	case '=', '\r', '\n':
		return KeyEquals, true
	case 'c', 'C':
		return KeyClear, true
	case 0x7f, 0x08:
		return KeyBackspace, true
	default:
		return 0, false
	}
}
