package proto

import (
	"image/color"
	"strings"
	"testing"
	"unicode/utf8"

	"sparkcalc/sparkos/kernel"
)

func TestCalcDisplayPayload(t *testing.T) {
	in := CalcDisplay{Display: "12.5", Operand: -3.25, Op: 2, Focus: 15, HasOperand: true}
	got, ok := DecodeCalcDisplayPayload(CalcDisplayPayload(in))
	if !ok {
		t.Fatal("decode failed")
	}
	if got != in {
		t.Fatalf("got %+v, want %+v", got, in)
	}
}

func TestCalcDisplayPayloadLongDisplay(t *testing.T) {
	long := "1" + strings.Repeat("0", 130)
	b := CalcDisplayPayload(CalcDisplay{Display: long, Awaiting: true})
	if len(b) > 128 {
		t.Fatalf("payload is %d bytes", len(b))
	}
	got, ok := DecodeCalcDisplayPayload(b)
	if !ok {
		t.Fatal("decode failed")
	}
	if got.Display != "1.00000e+130" {
		t.Fatalf("display = %q", got.Display)
	}
	if !got.Awaiting || got.HasOperand {
		t.Fatalf("flags = %+v", got)
	}

	exact := strings.Repeat("7", MaxCalcDisplayText)
	got, _ = DecodeCalcDisplayPayload(CalcDisplayPayload(CalcDisplay{Display: exact}))
	if got.Display != exact {
		t.Fatalf("display of %d bytes was rewritten to %q", len(exact), got.Display)
	}
}

func TestDecodeCalcDisplayRejectsShort(t *testing.T) {
	if _, ok := DecodeCalcDisplayPayload(make([]byte, calcHeaderLen)); ok {
		t.Fatal("expected empty display to be rejected")
	}
}

func TestThemePayload(t *testing.T) {
	in := Theme{
		Background: color.RGBA{R: 1, G: 2, B: 3, A: 0xFF},
		Focus:      color.RGBA{R: 0xFA, G: 0xCC, B: 0x15, A: 0xFF},
	}
	b := ThemePayload(in)
	if len(b) != 27 {
		t.Fatalf("len = %d", len(b))
	}
	got, ok := DecodeThemePayload(b)
	if !ok {
		t.Fatal("decode failed")
	}
	if got.Background != in.Background || got.Focus != in.Focus {
		t.Fatalf("got %+v", got)
	}
	// Zero-valued fields come back opaque.
	if got.Text != (color.RGBA{A: 0xFF}) {
		t.Fatalf("text = %+v", got.Text)
	}
	if _, ok := DecodeThemePayload(b[:26]); ok {
		t.Fatal("expected short payload to be rejected")
	}
}

func TestLogLinePayload(t *testing.T) {
	if got := string(LogLinePayload("calc: key=5\r\n")); got != "calc: key=5" {
		t.Fatalf("got %q", got)
	}
	b := LogLinePayload(strings.Repeat("×", 80))
	if len(b) > kernel.MaxMessageBytes || !utf8.Valid(b) {
		t.Fatalf("clipped line invalid: %d bytes", len(b))
	}
}

func TestErrorPayload(t *testing.T) {
	code, ref, detail, ok := DecodeErrorPayload(ErrorPayload(ErrBadMessage, MsgTheme, "len"))
	if !ok || code != ErrBadMessage || ref != MsgTheme || detail != "len" {
		t.Fatalf("got %s %s %q %v", code, ref, detail, ok)
	}

	long := ErrorPayload(ErrTooLarge, MsgCalcDisplay, strings.Repeat("÷", 100))
	if len(long) > kernel.MaxMessageBytes {
		t.Fatalf("payload %d bytes", len(long))
	}
	if _, _, detail, _ := DecodeErrorPayload(long); !utf8.ValidString(detail) {
		t.Fatalf("detail cut mid-rune: %q", detail)
	}
	if _, _, _, ok := DecodeErrorPayload([]byte{1}); ok {
		t.Fatal("expected short payload to be rejected")
	}
}
