// Package calc implements the keypad calculator state machine.
//
// State holds exactly what a pocket calculator keeps between key presses: the
// text on the display, an optional left-hand operand, an optional pending
// operator and whether the next digit starts a fresh number. It performs no
// I/O and is not safe for concurrent use; the owning task serializes presses.
package calc

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Op is a pending binary operator.
type Op uint8

const (
	OpNone Op = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpEquals
)

func (op Op) String() string {
	switch op {
	case OpNone:
		return "none"
	case OpAdd:
		return "add"
	case OpSub:
		return "subtract"
	case OpMul:
		return "multiply"
	case OpDiv:
		return "divide"
	case OpEquals:
		return "equals"
	default:
		return "unknown"
	}
}

// Symbol returns the keypad label of the operator.
func (op Op) Symbol() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "−"
	case OpMul:
		return "×"
	case OpDiv:
		return "÷"
	case OpEquals:
		return "="
	default:
		return ""
	}
}

const defaultDisplay = "0"

// State is the calculator state. The zero value is not ready; use New.
type State struct {
	display    string
	operand    float64
	hasOperand bool
	op         Op
	awaiting   bool

	// entered is set once the display holds a value typed or edited since
	// the last operator; only then does a further operator resolve.
	entered bool
}

// Snapshot is a read-only copy of State.
type Snapshot struct {
	Display    string
	Operand    float64
	HasOperand bool
	Op         Op
	Awaiting   bool
}

func New() *State {
	s := &State{}
	s.Reset()
	return s
}

// Reset returns every field to its initial value (the Clear key).
func (s *State) Reset() {
	*s = State{display: defaultDisplay}
}

// Display returns the raw display text.
func (s *State) Display() string { return s.display }

func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Display:    s.display,
		Operand:    s.operand,
		HasOperand: s.hasOperand,
		Op:         s.op,
		Awaiting:   s.awaiting,
	}
}

// InputDigit handles a press of digit d (0-9). Other values are ignored.
func (s *State) InputDigit(d int) {
	if d < 0 || d > 9 {
		return
	}
	digit := string(rune('0' + d))
	s.entered = true
	if s.awaiting {
		s.display = digit
		s.awaiting = false
		return
	}
	if s.display == defaultDisplay {
		s.display = digit
		return
	}
	s.display += digit
}

// InputDecimal adds a decimal point to the number being entered.
func (s *State) InputDecimal() {
	s.entered = true
	if s.awaiting {
		s.display = "0."
		s.awaiting = false
		return
	}
	if !strings.Contains(s.display, ".") {
		s.display += "."
	}
}

// ApplyOperator records op as the pending operator.
//
// The displayed value becomes the left-hand operand when none is pending.
// When an operator is already pending and a second operand has been entered,
// it is resolved first and its result shown. Pressing operators back to back
// only swaps the pending operator.
func (s *State) ApplyOperator(op Op) {
	if op == OpNone {
		return
	}
	value := ParseDisplay(s.display)

	switch {
	case !s.hasOperand:
		s.operand = value
		s.hasOperand = true
	case s.op != OpNone && s.entered:
		lhs := s.operand
		if math.IsNaN(lhs) {
			// A NaN left-hand side chains as zero.
			lhs = 0
		}
		result := Evaluate(lhs, value, s.op)
		s.display = FormatNumber(result)
		s.operand = result
	}

	s.op = op
	s.awaiting = true
	s.entered = false
}

// Equals resolves the pending operator against the displayed value.
// It does nothing unless both an operand and an operator are pending.
func (s *State) Equals() {
	if !s.hasOperand || s.op == OpNone {
		return
	}
	result := Evaluate(s.operand, ParseDisplay(s.display), s.op)
	s.display = FormatNumber(result)
	s.operand = 0
	s.hasOperand = false
	s.op = OpNone
	s.awaiting = true
	s.entered = false
}

// Backspace removes the last display character. A lone "0" is left alone
// and an emptied display falls back to "0". The edited display counts as an
// entered operand.
func (s *State) Backspace() {
	if s.display == defaultDisplay {
		return
	}
	_, size := utf8.DecodeLastRuneInString(s.display)
	next := s.display[:len(s.display)-size]
	if next == "" {
		next = defaultDisplay
	}
	s.display = next
	s.entered = true
}

// Press dispatches one keypad key.
func (s *State) Press(k Key) {
	if k.IsDigit() {
		s.InputDigit(int(k - Key0))
		return
	}
	switch k {
	case KeyDecimal:
		s.InputDecimal()
	case KeyAdd:
		s.ApplyOperator(OpAdd)
	case KeySub:
		s.ApplyOperator(OpSub)
	case KeyMul:
		s.ApplyOperator(OpMul)
	case KeyDiv:
		s.ApplyOperator(OpDiv)
	case KeyEquals:
		s.Equals()
	case KeyClear:
		s.Reset()
	case KeyBackspace:
		s.Backspace()
	}
}

// Evaluate applies op to a and b with IEEE-754 semantics. Division is not
// guarded: x/0 yields ±Inf and 0/0 yields NaN. OpEquals and OpNone return b.
func Evaluate(a, b float64, op Op) float64 {
	switch op {
	case OpAdd:
		return a + b
	case OpSub:
		return a - b
	case OpMul:
		return a * b
	case OpDiv:
		return a / b
	default:
		return b
	}
}
