//go:build !tinygo

package kernel

import "runtime/debug"

// Enough for the panic screen and a log dump.
const maxStackBytes = 4 << 10

func captureStack() []byte {
	s := debug.Stack()
	if len(s) > maxStackBytes {
		s = s[:maxStackBytes]
	}
	return s
}
