//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/gosuri/uilive"
	"github.com/mattn/go-isatty"
)

// liveConsole rewrites a single terminal line in place.
type liveConsole struct {
	mu sync.Mutex
	w  *uilive.Writer
}

func (c *liveConsole) Show(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, line)
	c.w.Flush()
}

func (c *liveConsole) stop() { c.w.Stop() }

// lineConsole prints every update on its own line, for pipes and files.
type lineConsole struct {
	mu   sync.Mutex
	w    io.Writer
	last string
}

func (c *lineConsole) Show(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if line == c.last {
		return
	}
	c.last = line
	fmt.Fprintln(c.w, line)
}

func (c *lineConsole) stop() {}

type stoppableConsole interface {
	Console
	stop()
}

func newConsole(out *os.File) stoppableConsole {
	fd := out.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return &lineConsole{w: out}
	}
	w := uilive.New()
	w.Out = out
	w.RefreshInterval = 50 * time.Millisecond
	w.Start()
	return &liveConsole{w: w}
}
