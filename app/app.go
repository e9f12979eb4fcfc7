package app

import (
	"sparkcalc/hal"
	"sparkcalc/sparkos/kernel"
	"sparkcalc/sparkos/proto"
	"sparkcalc/sparkos/services/logger"
	"sparkcalc/sparkos/services/statusline"
	"sparkcalc/sparkos/services/termkbd"
	"sparkcalc/sparkos/tasks/calculator"
)

// Config selects optional behavior of the system.
type Config struct {
	// Theme replaces the default palette when it is not the zero value.
	Theme proto.Theme

	// AllowExit lets 'q' close the calculator and stop the host runner.
	AllowExit bool

	// SessionID tags the boot log line.
	SessionID string
}

// System is a running calculator OS instance.
type System struct {
	k      *kernel.Kernel
	done   chan struct{}
	themes chan proto.Theme
}

// NewWithConfig wires endpoints and starts all tasks.
func NewWithConfig(h hal.HAL, cfg Config) *System {
	installPanicHandler(h)

	k := kernel.New()
	s := &System{
		k:      k,
		done:   make(chan struct{}),
		themes: make(chan proto.Theme, 4),
	}

	logEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	calcEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	ctlEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)

	var observer kernel.Capability
	if c := h.Console(); c != nil {
		statusEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
		k.AddTask(statusline.New(c, statusEP.Restrict(kernel.RightRecv)))
		observer = statusEP.Restrict(kernel.RightSend)
	}

	k.AddTask(logger.New(h.Logger(), logEP.Restrict(kernel.RightRecv)))
	k.AddTask(calculator.New(
		h.Display(),
		calcEP.Restrict(kernel.RightRecv),
		logEP.Restrict(kernel.RightSend),
		observer,
	))
	k.AddTask(termkbd.NewInput(h.Input(), calcEP.Restrict(kernel.RightSend)))
	k.AddTask(&supervisor{
		ep:        ctlEP,
		calcCap:   calcEP.Restrict(kernel.RightSend),
		logCap:    logEP.Restrict(kernel.RightSend),
		theme:     cfg.Theme,
		allowExit: cfg.AllowExit,
		session:   cfg.SessionID,
		themes:    s.themes,
		done:      s.done,
	})

	if ht := h.Time(); ht != nil {
		if ch := ht.Ticks(); ch != nil {
			go func() {
				for seq := range ch {
					k.TickTo(seq)
				}
			}()
		}
	}

	return s
}

// Kernel returns the kernel the system runs on.
func (s *System) Kernel() *kernel.Kernel { return s.k }

// Done is closed once the calculator has exited.
func (s *System) Done() <-chan struct{} { return s.done }

// Step is the per-frame hook for the host runners. It reports hal.ErrExit
// once the calculator has exited.
func (s *System) Step() error {
	select {
	case <-s.done:
		return hal.ErrExit
	default:
		return nil
	}
}

// SetTheme hands a new palette to the calculator. It never blocks; when
// updates pile up the oldest pending one is dropped.
func (s *System) SetTheme(th proto.Theme) {
	for {
		select {
		case s.themes <- th:
			return
		default:
		}
		select {
		case <-s.themes:
		default:
		}
	}
}

// Run starts the OS and blocks forever (TinyGo entrypoint).
func Run(h hal.HAL) {
	_ = NewWithConfig(h, Config{})
	select {}
}
