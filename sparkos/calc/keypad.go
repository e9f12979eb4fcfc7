package calc

import "strings"

// ButtonKind groups keypad buttons by role; renderers color them by kind.
type ButtonKind uint8

const (
	ButtonDigit ButtonKind = iota
	ButtonFunction
	ButtonOperator
	ButtonEquals
	ButtonClear
)

// Button is one keypad button occupying Span cells of a grid row.
type Button struct {
	Key  Key
	Kind ButtonKind
	Row  int
	Col  int
	Span int
}

const (
	KeypadRows = 5
	KeypadCols = 4
)

// Keypad lists the buttons in reading order:
//
//	Clear Clear ⌫ ÷
//	7     8     9 ×
//	4     5     6 −
//	1     2     3 +
//	0     0     . =
var Keypad = []Button{
	{Key: KeyClear, Kind: ButtonClear, Row: 0, Col: 0, Span: 2},
	{Key: KeyBackspace, Kind: ButtonFunction, Row: 0, Col: 2, Span: 1},
	{Key: KeyDiv, Kind: ButtonOperator, Row: 0, Col: 3, Span: 1},

	{Key: Key7, Kind: ButtonDigit, Row: 1, Col: 0, Span: 1},
	{Key: Key8, Kind: ButtonDigit, Row: 1, Col: 1, Span: 1},
	{Key: Key9, Kind: ButtonDigit, Row: 1, Col: 2, Span: 1},
	{Key: KeyMul, Kind: ButtonOperator, Row: 1, Col: 3, Span: 1},

	{Key: Key4, Kind: ButtonDigit, Row: 2, Col: 0, Span: 1},
	{Key: Key5, Kind: ButtonDigit, Row: 2, Col: 1, Span: 1},
	{Key: Key6, Kind: ButtonDigit, Row: 2, Col: 2, Span: 1},
	{Key: KeySub, Kind: ButtonOperator, Row: 2, Col: 3, Span: 1},

	{Key: Key1, Kind: ButtonDigit, Row: 3, Col: 0, Span: 1},
	{Key: Key2, Kind: ButtonDigit, Row: 3, Col: 1, Span: 1},
	{Key: Key3, Kind: ButtonDigit, Row: 3, Col: 2, Span: 1},
	{Key: KeyAdd, Kind: ButtonOperator, Row: 3, Col: 3, Span: 1},

	{Key: Key0, Kind: ButtonDigit, Row: 4, Col: 0, Span: 2},
	{Key: KeyDecimal, Kind: ButtonDigit, Row: 4, Col: 2, Span: 1},
	{Key: KeyEquals, Kind: ButtonEquals, Row: 4, Col: 3, Span: 1},
}

// ButtonAt returns the index in Keypad of the button covering grid cell
// (row, col), or -1.
func ButtonAt(row, col int) int {
	for i, b := range Keypad {
		if b.Row == row && col >= b.Col && col < b.Col+b.Span {
			return i
		}
	}
	return -1
}

// ButtonFor returns the index in Keypad of the button for k, or -1.
func ButtonFor(k Key) int {
	for i, b := range Keypad {
		if b.Key == k {
			return i
		}
	}
	return -1
}

// KeypadText draws the keypad as a text grid, one line per row, with the
// button for focused in brackets.
func KeypadText(focused Key) string {
	const cellW = 7
	var sb strings.Builder
	for row := 0; row < KeypadRows; row++ {
		sb.WriteByte('|')
		for col := 0; col < KeypadCols; {
			b := Keypad[ButtonAt(row, col)]
			label := b.Key.String()
			if b.Key == focused {
				label = "[" + label + "]"
			}
			w := cellW*b.Span + b.Span - 1
			pad := w - len([]rune(label))
			sb.WriteString(strings.Repeat(" ", pad/2))
			sb.WriteString(label)
			sb.WriteString(strings.Repeat(" ", pad-pad/2))
			sb.WriteByte('|')
			col += b.Span
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
