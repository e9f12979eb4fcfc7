package calculator

import (
	"image/color"

	"sparkcalc/sparkos/calc"
	"sparkcalc/sparkos/proto"
)

// DefaultTheme is the palette used until a MsgTheme arrives.
func DefaultTheme() proto.Theme {
	return proto.Theme{
		Background: rgb(0x0F, 0x0C, 0x29),
		Display:    rgb(0x00, 0x00, 0x00),
		Text:       rgb(0xFF, 0xFF, 0xFF),
		Digit:      rgb(0x37, 0x41, 0x51),
		Function:   rgb(0x4B, 0x55, 0x63),
		Operator:   rgb(0xEA, 0x58, 0x0C),
		Equals:     rgb(0x25, 0x63, 0xEB),
		Clear:      rgb(0xDC, 0x26, 0x26),
		Focus:      rgb(0xFA, 0xCC, 0x15),
	}
}

func rgb(r, g, b uint8) color.RGBA { return color.RGBA{R: r, G: g, B: b, A: 0xFF} }

func buttonColor(th *proto.Theme, kind calc.ButtonKind) color.RGBA {
	switch kind {
	case calc.ButtonFunction:
		return th.Function
	case calc.ButtonOperator:
		return th.Operator
	case calc.ButtonEquals:
		return th.Equals
	case calc.ButtonClear:
		return th.Clear
	default:
		return th.Digit
	}
}

func dim(c color.RGBA) color.RGBA {
	return color.RGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: 0xFF}
}

func rgb565From888(r, g, b uint8) uint16 {
	return uint16((uint16(r>>3)&0x1F)<<11 | (uint16(g>>2)&0x3F)<<5 | (uint16(b>>3) & 0x1F))
}

func rgb565(c color.RGBA) uint16 { return rgb565From888(c.R, c.G, c.B) }
