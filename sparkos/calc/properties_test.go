package calc

import (
	"strconv"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

var allKeys = []Key{
	Key0, Key1, Key2, Key3, Key4, Key5, Key6, Key7, Key8, Key9,
	KeyDecimal, KeyAdd, KeySub, KeyMul, KeyDiv, KeyEquals, KeyClear, KeyBackspace,
}

func TestStateInvariantsProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		keys := rapid.SliceOfN(rapid.SampledFrom(allKeys), 0, 64).Draw(rt, "keys")

		s := New()
		for i, k := range keys {
			s.Press(k)
			snap := s.Snapshot()

			if snap.Display == "" {
				rt.Fatalf("empty display after key %d (%s)", i, k)
			}
			if n := strings.Count(snap.Display, "."); n > 1 {
				rt.Fatalf("display %q has %d decimal points", snap.Display, n)
			}
			if snap.Op != OpNone && !snap.HasOperand {
				rt.Fatalf("pending operator %s without operand", snap.Op)
			}
			if k == KeyEquals && snap.HasOperand {
				rt.Fatalf("operand still pending after equals: %v", snap.Operand)
			}
			if k == KeyClear && snap != New().Snapshot() {
				rt.Fatalf("clear left state %+v", snap)
			}
		}
	})
}

func TestDigitEntryProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		digits := rapid.StringMatching(`[0-9]{1,12}`).Draw(rt, "digits")

		s := New()
		for _, r := range digits {
			s.InputDigit(int(r - '0'))
		}

		want := strings.TrimLeft(digits, "0")
		if want == "" {
			want = "0"
		}
		if got := s.Display(); got != want {
			rt.Fatalf("display = %q, want %q", got, want)
		}
	})
}

func TestBinaryOperationProperty(t *testing.T) {
	ops := []struct {
		key Key
		op  Op
	}{
		{key: KeyAdd, op: OpAdd},
		{key: KeySub, op: OpSub},
		{key: KeyMul, op: OpMul},
		{key: KeyDiv, op: OpDiv},
	}

	rapid.Check(t, func(rt *rapid.T) {
		a := rapid.IntRange(0, 999_999).Draw(rt, "a")
		b := rapid.IntRange(0, 999_999).Draw(rt, "b")
		sel := rapid.IntRange(0, len(ops)-1).Draw(rt, "op")

		s := New()
		for _, r := range strconv.Itoa(a) {
			s.InputDigit(int(r - '0'))
		}
		s.Press(ops[sel].key)
		for _, r := range strconv.Itoa(b) {
			s.InputDigit(int(r - '0'))
		}
		s.Press(KeyEquals)

		want := FormatNumber(Evaluate(float64(a), float64(b), ops[sel].op))
		if got := s.Display(); got != want {
			rt.Fatalf("%d %s %d = %q, want %q", a, ops[sel].op.Symbol(), b, got, want)
		}
	})
}
