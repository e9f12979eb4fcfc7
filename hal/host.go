//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
)

type hostHAL struct {
	logger  *hostLogger
	fb      *hostFramebuffer
	kbd     *hostKeyboard
	t       *hostTime
	console Console
}

// New returns a host HAL implementation that logs to stdout.
func New() HAL {
	return newHostHAL(os.Stdout, nil)
}

func newHostHAL(logOut io.Writer, console Console) *hostHAL {
	return &hostHAL{
		logger:  &hostLogger{w: logOut},
		fb:      newHostFramebuffer(320, 320),
		kbd:     newHostKeyboard(),
		t:       newHostTime(),
		console: console,
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Input() Input     { return hostInput{kbd: h.kbd} }
func (h *hostHAL) Time() Time       { return h.t }
func (h *hostHAL) Console() Console { return h.console }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostInput struct {
	kbd *hostKeyboard
}

func (in hostInput) Keyboard() Keyboard { return in.kbd }

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}
