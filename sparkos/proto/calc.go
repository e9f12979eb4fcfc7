package proto

import (
	"encoding/binary"
	"math"

	"sparkcalc/sparkos/calc"
)

// CalcDisplay is a snapshot of the calculator state published after every
// key press.
type CalcDisplay struct {
	Display    string
	Operand    float64
	Op         uint8
	Focus      uint8
	HasOperand bool
	Awaiting   bool
}

const (
	calcFlagOperand = 1 << iota
	calcFlagAwaiting
)

const calcHeaderLen = 11

// MaxCalcDisplayText is the longest display text a MsgCalcDisplay carries.
const MaxCalcDisplayText = 128 - calcHeaderLen

// CalcDisplayPayload encodes a MsgCalcDisplay payload.
//
// Payload format (little-endian):
//
//	u8  op
//	u8  flags (bit0 operand present, bit1 awaiting next operand)
//	u8  focused keypad key
//	f64 operand
//	... display text
//
// Display text longer than MaxCalcDisplayText is sent in its on-screen
// exponential form, which denotes the same value.
func CalcDisplayPayload(d CalcDisplay) []byte {
	text := d.Display
	if len(text) > MaxCalcDisplayText {
		text = calc.FormatDisplay(text)
	}
	b := make([]byte, calcHeaderLen+len(text))
	b[0] = d.Op
	if d.HasOperand {
		b[1] |= calcFlagOperand
	}
	if d.Awaiting {
		b[1] |= calcFlagAwaiting
	}
	b[2] = d.Focus
	binary.LittleEndian.PutUint64(b[3:11], math.Float64bits(d.Operand))
	copy(b[calcHeaderLen:], text)
	return b
}

func DecodeCalcDisplayPayload(b []byte) (CalcDisplay, bool) {
	if len(b) < calcHeaderLen+1 {
		return CalcDisplay{}, false
	}
	return CalcDisplay{
		Op:         b[0],
		HasOperand: b[1]&calcFlagOperand != 0,
		Awaiting:   b[1]&calcFlagAwaiting != 0,
		Focus:      b[2],
		Operand:    math.Float64frombits(binary.LittleEndian.Uint64(b[3:11])),
		Display:    string(b[calcHeaderLen:]),
	}, true
}
