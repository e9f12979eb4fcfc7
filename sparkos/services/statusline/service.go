// Package statusline mirrors calculator display snapshots to a text console.
package statusline

import (
	"strings"

	"sparkcalc/hal"
	"sparkcalc/sparkos/calc"
	"sparkcalc/sparkos/kernel"
	"sparkcalc/sparkos/proto"
)

type Service struct {
	console hal.Console
	ep      kernel.Capability
}

func New(console hal.Console, ep kernel.Capability) *Service {
	return &Service{console: console, ep: ep}
}

func (s *Service) Run(ctx *kernel.Context) {
	ch, ok := ctx.RecvChan(s.ep)
	if !ok || s.console == nil {
		return
	}
	for msg := range ch {
		if proto.Kind(msg.Kind) != proto.MsgCalcDisplay {
			continue
		}
		d, ok := proto.DecodeCalcDisplayPayload(msg.Payload())
		if !ok {
			continue
		}
		s.console.Show(Format(d))
	}
}

// Format renders a snapshot as the display line followed by the keypad grid.
func Format(d proto.CalcDisplay) string {
	var sb strings.Builder
	sb.WriteString(calc.FormatDisplay(d.Display))
	if op := calc.Op(d.Op); d.HasOperand && op != calc.OpNone && op != calc.OpEquals {
		sb.WriteString("   [")
		sb.WriteString(calc.FormatDisplay(calc.FormatNumber(d.Operand)))
		sb.WriteString(" ")
		sb.WriteString(op.Symbol())
		sb.WriteString("]")
	}
	sb.WriteByte('\n')
	sb.WriteString(strings.TrimSuffix(calc.KeypadText(calc.Key(d.Focus)), "\n"))
	return sb.String()
}
