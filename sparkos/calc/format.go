package calc

import (
	"math"
	"strconv"
	"strings"
)

// MaxPlainDisplay is the longest display text rendered verbatim. Longer text
// is rendered in exponential notation.
const MaxPlainDisplay = 10

// displayFracDigits is the number of fraction digits in exponential display.
const displayFracDigits = 5

// FormatNumber renders f as the shortest decimal that round-trips.
//
// Integers carry no fraction, magnitudes in [1e-6, 1e21) use positional
// notation and everything else switches to "d.ddde±x". Non-finite values
// render as "Infinity", "-Infinity" and "NaN".
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}

	digits, exp := shortestDigits(f)
	k := len(digits)
	n := exp + 1 // position of the decimal point relative to digits

	var b strings.Builder
	b.WriteString(sign)
	switch {
	case k <= n && n <= 21:
		b.WriteString(digits)
		b.WriteString(strings.Repeat("0", n-k))
	case 0 < n && n <= 21:
		b.WriteString(digits[:n])
		b.WriteByte('.')
		b.WriteString(digits[n:])
	case -6 < n && n <= 0:
		b.WriteString("0.")
		b.WriteString(strings.Repeat("0", -n))
		b.WriteString(digits)
	default:
		b.WriteByte(digits[0])
		if k > 1 {
			b.WriteByte('.')
			b.WriteString(digits[1:])
		}
		b.WriteString(exponentSuffix(n - 1))
	}
	return b.String()
}

// shortestDigits returns the significant digits of f (f > 0) and the decimal
// exponent of the first digit.
func shortestDigits(f float64) (string, int) {
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, expPart, _ := strings.Cut(s, "e")
	exp, err := strconv.Atoi(expPart)
	if err != nil {
		return "0", 0
	}
	digits := strings.Replace(mant, ".", "", 1)
	digits = strings.TrimRight(digits, "0")
	if digits == "" {
		digits = "0"
	}
	return digits, exp
}

func exponentSuffix(e int) string {
	if e < 0 {
		return "e-" + strconv.Itoa(-e)
	}
	return "e+" + strconv.Itoa(e)
}

// FormatExponential renders f with fracDigits digits after the point and an
// unpadded signed exponent, e.g. 1.23457e+10.
func FormatExponential(f float64, fracDigits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	if fracDigits < 0 {
		fracDigits = 0
	}
	s := strconv.FormatFloat(f, 'e', fracDigits, 64)
	mant, expPart, ok := strings.Cut(s, "e")
	if !ok {
		return s
	}
	exp, err := strconv.Atoi(expPart)
	if err != nil {
		return s
	}
	return mant + exponentSuffix(exp)
}

// FormatDisplay returns the text shown for the raw display string s.
func FormatDisplay(s string) string {
	if len(s) <= MaxPlainDisplay {
		return s
	}
	return FormatExponential(ParseDisplay(s), displayFracDigits)
}

// ParseDisplay converts display text to a number the way a lenient
// leading-prefix parser does: the longest numeric prefix wins, "Infinity"
// (optionally signed) is infinite and anything else is NaN.
func ParseDisplay(s string) float64 {
	s = strings.TrimLeft(s, " \t")
	if s == "" {
		return math.NaN()
	}

	i := 0
	neg := false
	if s[0] == '+' || s[0] == '-' {
		neg = s[0] == '-'
		i++
	}
	if strings.HasPrefix(s[i:], "Infinity") {
		if neg {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}

	end := scanNumber(s, i)
	if end == i {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		// Out of range literals come back as ±Inf with an error.
		if math.IsInf(f, 0) {
			return f
		}
		return math.NaN()
	}
	return f
}

// scanNumber returns the end of the longest decimal literal starting at i,
// or i when there is none.
func scanNumber(s string, i int) int {
	start := i
	intDigits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		intDigits++
	}
	fracDigits := 0
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
			fracDigits++
		}
		if intDigits > 0 || fracDigits > 0 {
			i = j
		}
	}
	if intDigits == 0 && fracDigits == 0 {
		return start
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		expStart := j
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > expStart {
			i = j
		}
	}
	return i
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
