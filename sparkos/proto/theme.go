package proto

import "image/color"

// Theme is the calculator palette.
type Theme struct {
	Background color.RGBA
	Display    color.RGBA
	Text       color.RGBA
	Digit      color.RGBA
	Function   color.RGBA
	Operator   color.RGBA
	Equals     color.RGBA
	Clear      color.RGBA
	Focus      color.RGBA
}

const themeColors = 9

func (t *Theme) colors() [themeColors]*color.RGBA {
	return [themeColors]*color.RGBA{
		&t.Background, &t.Display, &t.Text,
		&t.Digit, &t.Function, &t.Operator,
		&t.Equals, &t.Clear, &t.Focus,
	}
}

// ThemePayload encodes a MsgTheme payload as 9 RGB triplets in field order.
func ThemePayload(t Theme) []byte {
	b := make([]byte, 0, themeColors*3)
	for _, c := range t.colors() {
		b = append(b, c.R, c.G, c.B)
	}
	return b
}

func DecodeThemePayload(b []byte) (Theme, bool) {
	var t Theme
	if len(b) != themeColors*3 {
		return t, false
	}
	for i, c := range t.colors() {
		*c = color.RGBA{R: b[i*3], G: b[i*3+1], B: b[i*3+2], A: 0xFF}
	}
	return t, true
}
