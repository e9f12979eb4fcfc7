package termkbd

import (
	"sparkcalc/hal"
	"sparkcalc/sparkos/kernel"
	"sparkcalc/sparkos/proto"
)

// Service turns hal key events into a VT100 byte stream delivered as
// MsgTermInput, with repeat for held navigation and erase keys.
type Service struct {
	in     hal.Input
	outCap kernel.Capability

	events  <-chan hal.KeyEvent
	pending []byte

	held           hal.KeyCode
	heldData       []byte
	nextRepeatTick uint64
}

// NewInput forwards key bytes to inputCap.
func NewInput(in hal.Input, inputCap kernel.Capability) *Service {
	return &Service{in: in, outCap: inputCap}
}

func (s *Service) Run(ctx *kernel.Context) {
	if ctx == nil || s.in == nil {
		return
	}
	kbd := s.in.Keyboard()
	if kbd == nil {
		return
	}
	s.events = kbd.Events()
	if s.events == nil {
		return
	}

	done := make(chan struct{})
	defer close(done)

	tickCh := make(chan uint64, 16)
	go func() {
		last := ctx.NowTick()
		for {
			select {
			case <-done:
				return
			default:
			}
			last = ctx.WaitTick(last)
			select {
			case tickCh <- last:
			default:
			}
		}
	}()

	for {
		select {
		case ev, ok := <-s.events:
			if !ok {
				return
			}
			s.handleKeyEvent(ctx.NowTick(), ev)
			s.flush(ctx)
		case tick := <-tickCh:
			s.handleRepeat(tick)
			s.flush(ctx)
		}
	}
}

func (s *Service) handleKeyEvent(now uint64, ev hal.KeyEvent) {
	if !ev.Press {
		if s.heldData != nil && ev.Code == s.held {
			s.heldData = nil
			s.nextRepeatTick = 0
		}
		return
	}

	data := encodeKey(ev)
	if len(data) == 0 {
		return
	}
	s.pending = append(s.pending, data...)

	if !repeats(ev.Code) {
		return
	}
	s.held = ev.Code
	s.heldData = append(s.heldData[:0], data...)
	s.nextRepeatTick = now + repeatDelayTicks
}

func (s *Service) handleRepeat(tick uint64) {
	if s.heldData == nil || tick < s.nextRepeatTick {
		return
	}
	s.pending = append(s.pending, s.heldData...)
	s.nextRepeatTick = tick + repeatRateTicks
}

// flush sends at most one message. Bytes stay pending while the consumer
// queue is full and are dropped on any other send error.
func (s *Service) flush(ctx *kernel.Context) {
	if len(s.pending) == 0 {
		return
	}
	if !s.outCap.Valid() {
		s.pending = nil
		return
	}

	chunk := s.pending
	if len(chunk) > kernel.MaxMessageBytes {
		chunk = chunk[:kernel.MaxMessageBytes]
	}

	switch ctx.SendToCapResult(s.outCap, uint16(proto.MsgTermInput), chunk, kernel.Capability{}) {
	case kernel.SendOK:
		s.pending = s.pending[len(chunk):]
	case kernel.SendErrQueueFull:
	default:
		s.pending = nil
	}
}

const (
	// Ticks are 1ms on host and TinyGo.
	repeatDelayTicks = 350
	repeatRateTicks  = 60
)

func repeats(code hal.KeyCode) bool {
	switch code {
	case hal.KeyUp, hal.KeyDown, hal.KeyLeft, hal.KeyRight,
		hal.KeyBackspace, hal.KeyDelete:
		return true
	default:
		return false
	}
}

var sequences = map[hal.KeyCode]string{
	hal.KeyEnter:     "\n",
	hal.KeyEscape:    "\x1b",
	hal.KeyBackspace: "\x7f",
	hal.KeyUp:        "\x1b[A",
	hal.KeyDown:      "\x1b[B",
	hal.KeyRight:     "\x1b[C",
	hal.KeyLeft:      "\x1b[D",
	hal.KeyDelete:    "\x1b[3~",
	hal.KeyHome:      "\x1b[H",
	hal.KeyEnd:       "\x1b[F",
}

func encodeKey(ev hal.KeyEvent) []byte {
	if ev.Rune != 0 {
		return []byte(string(ev.Rune))
	}
	if seq, ok := sequences[ev.Code]; ok {
		return []byte(seq)
	}
	return nil
}
