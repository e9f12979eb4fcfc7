package kernel

import (
	"sync"
	"sync/atomic"
)

// PanicInfo describes a task that panicked.
type PanicInfo struct {
	TaskID TaskID
	Task   string // dynamic type of the task
	Value  any
	Stack  []byte
}

var (
	panicked atomic.Bool

	panicMu      sync.Mutex
	panicHandler func(PanicInfo)
	panicFired   bool
)

// InPanicMode reports whether any task has panicked.
func InPanicMode() bool { return panicked.Load() }

// SetPanicHandler installs the process-wide panic handler. Only the first
// panic is reported; the handler must not panic itself.
func SetPanicHandler(fn func(PanicInfo)) {
	panicMu.Lock()
	panicHandler = fn
	panicMu.Unlock()
}

func triggerPanic(info PanicInfo) {
	panicMu.Lock()
	if panicFired {
		panicMu.Unlock()
		return
	}
	panicFired = true
	fn := panicHandler
	panicMu.Unlock()

	panicked.Store(true)
	info.Stack = captureStack()
	if fn != nil {
		fn(info)
	}
}
