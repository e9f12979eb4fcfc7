package calculator

import (
	"image/color"
	"unicode/utf8"

	"sparkcalc/sparkos/calc"

	"github.com/cespare/xxhash/v2"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
	"tinygo.org/x/tinyfont/proggy"
)

const (
	margin    = 8
	gap       = 4
	displayH  = 72
	footerH   = 14
	focusLine = 3

	// Approximate cap height of labelFont, used to center labels.
	labelCap  = 12
	glyphHalf = 7
)

var (
	numberFont tinyfont.Fonter = &freemono.Bold18pt7b
	labelFont  tinyfont.Fonter = &freemono.Bold12pt7b
	smallFont  tinyfont.Fonter = &proggy.TinySZ8pt7b
)

type layout struct {
	display rect
	keypad  rect
	cellW   int
	cellH   int
	footerY int
}

func computeLayout(w, h int) layout {
	var l layout
	l.display = rect{x: margin, y: margin, w: w - 2*margin, h: displayH}
	top := l.display.y + l.display.h + margin
	l.footerY = h - footerH
	l.keypad = rect{x: margin, y: top, w: w - 2*margin, h: l.footerY - gap - top}
	l.cellW = (l.keypad.w - (calc.KeypadCols-1)*gap) / calc.KeypadCols
	l.cellH = (l.keypad.h - (calc.KeypadRows-1)*gap) / calc.KeypadRows
	return l
}

func (l layout) valid() bool { return l.cellW > 0 && l.cellH > 0 && l.display.w > 0 }

func (l layout) buttonRect(b calc.Button) rect {
	return rect{
		x: l.keypad.x + b.Col*(l.cellW+gap),
		y: l.keypad.y + b.Row*(l.cellH+gap),
		w: b.Span*l.cellW + (b.Span-1)*gap,
		h: l.cellH,
	}
}

func (t *Task) render() {
	if !t.active || t.fb == nil {
		return
	}
	c := newCanvas(t.fb)
	if c.buf == nil || !t.layout.valid() {
		return
	}
	t.renders++

	th := &t.theme
	l := t.layout
	c.clear(rgb565(th.Background))

	c.fill(l.display, rgb565(th.Display))
	c.outline(l.display, 1, rgb565(dim(th.Text)))

	snap := t.calc.Snapshot()
	if hint := pendingHint(snap); hint != "" {
		drawText(c, smallFont, l.display.x+6, l.display.y+14, hint, dim(th.Text))
	}
	text := fitRight(numberFont, calc.FormatDisplay(snap.Display), l.display.w-12)
	x := l.display.x + l.display.w - 6 - textWidth(numberFont, text)
	drawText(c, numberFont, x, l.display.y+l.display.h-14, text, th.Text)

	focused := t.focus.button().Key
	for _, b := range calc.Keypad {
		r := l.buttonRect(b)
		c.fill(r, rgb565(buttonColor(th, b.Kind)))
		if b.Key == focused {
			c.outline(r, focusLine, rgb565(th.Focus))
		}
		t.drawLabel(c, b.Key, r)
	}

	drawText(c, smallFont, margin, l.footerY+10, t.footer(), dim(th.Text))
	t.present(c)
}

// present pushes the frame unless it is identical to the previous one.
func (t *Task) present(c canvas) {
	sum := xxhash.Sum64(c.buf)
	if t.presented && sum == t.lastFrame {
		return
	}
	if err := t.fb.Present(); err != nil {
		t.presented = false
		return
	}
	t.lastFrame = sum
	t.presented = true
	t.presents++
}

func (t *Task) footer() string {
	if t.muxCap.Valid() {
		return "arrows move  enter press  esc clear  q quit"
	}
	return "arrows move  enter press  esc clear"
}

func drawText(c canvas, f tinyfont.Fonter, x, baseline int, s string, col color.RGBA) {
	d := &fbDisplayer{c: c}
	tinyfont.WriteLine(d, f, int16(x), int16(baseline), s, col)
}

func (t *Task) drawLabel(c canvas, k calc.Key, r rect) {
	col := t.theme.Text
	cx := r.x + r.w/2
	cy := r.y + r.h/2
	px := rgb565(col)

	switch k {
	case calc.KeyDiv:
		c.fill(rect{x: cx - glyphHalf, y: cy - 1, w: 2*glyphHalf + 1, h: 3}, px)
		c.fill(rect{x: cx - 1, y: cy - glyphHalf, w: 3, h: 3}, px)
		c.fill(rect{x: cx - 1, y: cy + glyphHalf - 2, w: 3, h: 3}, px)
	case calc.KeyMul:
		for i := -glyphHalf + 1; i < glyphHalf; i++ {
			c.fill(rect{x: cx + i, y: cy + i, w: 2, h: 2}, px)
			c.fill(rect{x: cx + i, y: cy - i, w: 2, h: 2}, px)
		}
	case calc.KeySub:
		c.fill(rect{x: cx - glyphHalf, y: cy - 1, w: 2*glyphHalf + 1, h: 3}, px)
	case calc.KeyBackspace:
		left := cx - glyphHalf - 2
		c.fill(rect{x: left, y: cy - 1, w: 2*glyphHalf + 5, h: 3}, px)
		for i := 1; i <= glyphHalf-2; i++ {
			c.fill(rect{x: left + i, y: cy - i - 1, w: 2, h: 1}, px)
			c.fill(rect{x: left + i, y: cy + i + 1, w: 2, h: 1}, px)
		}
	default:
		s := k.String()
		drawText(c, labelFont, cx-textWidth(labelFont, s)/2, cy+labelCap/2, s, col)
	}
}

func textWidth(f tinyfont.Fonter, s string) int {
	_, outbox := tinyfont.LineWidth(f, s)
	return int(outbox)
}

// fitRight drops leading runes until s fits in maxW; the least significant
// digits stay visible while typing.
func fitRight(f tinyfont.Fonter, s string, maxW int) string {
	for s != "" && textWidth(f, s) > maxW {
		_, sz := utf8.DecodeRuneInString(s)
		s = s[sz:]
	}
	return s
}

// pendingHint shows the left operand and operator while an operation is pending.
func pendingHint(s calc.Snapshot) string {
	if !s.HasOperand {
		return ""
	}
	var op string
	switch s.Op {
	case calc.OpAdd:
		op = "+"
	case calc.OpSub:
		op = "-"
	case calc.OpMul:
		op = "*"
	case calc.OpDiv:
		op = "/"
	default:
		return ""
	}
	return calc.FormatDisplay(calc.FormatNumber(s.Operand)) + " " + op
}
