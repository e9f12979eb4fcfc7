package calculator

import (
	"fmt"

	"sparkcalc/hal"
	"sparkcalc/sparkos/calc"
	logclient "sparkcalc/sparkos/client/logger"
	"sparkcalc/sparkos/kernel"
	"sparkcalc/sparkos/proto"
)

// Task is the keypad calculator app. It owns the calculator state; every
// other task reaches it through its endpoint.
type Task struct {
	disp        hal.Display
	ep          kernel.Capability
	logCap      kernel.Capability
	observerCap kernel.Capability

	fb     hal.Framebuffer
	layout layout
	theme  proto.Theme

	calc  *calc.State
	focus focus

	active bool
	muxCap kernel.Capability

	inbuf []byte

	lastFrame uint64
	presented bool
	renders   int
	presents  int
}

// New creates the calculator. logCap and observerCap are optional: key
// presses are logged to logCap and display snapshots go to observerCap.
func New(disp hal.Display, ep, logCap, observerCap kernel.Capability) *Task {
	return &Task{
		disp:        disp,
		ep:          ep,
		logCap:      logCap,
		observerCap: observerCap,
		theme:       DefaultTheme(),
		calc:        calc.New(),
		focus:       focusOn(calc.KeyEquals),
	}
}

func (t *Task) Run(ctx *kernel.Context) {
	ch, ok := ctx.RecvChan(t.ep)
	if !ok {
		return
	}
	if t.disp == nil {
		return
	}
	t.fb = t.disp.Framebuffer()
	if t.fb == nil || t.fb.Buffer() == nil || t.fb.Format() != hal.PixelFormatRGB565 {
		t.log(ctx, "calc: no rgb565 framebuffer")
		return
	}
	t.layout = computeLayout(t.fb.Width(), t.fb.Height())

	for msg := range ch {
		switch proto.Kind(msg.Kind) {
		case proto.MsgAppShutdown:
			_ = logclient.LogRetry(ctx, t.logCap, fmt.Sprintf("calc: shutdown after %d renders (%d presented)", t.renders, t.presents), 8)
			t.unload()
			return

		case proto.MsgAppControl:
			if msg.Cap.Valid() {
				t.muxCap = msg.Cap
			}
			active, ok := proto.DecodeAppControlPayload(msg.Payload())
			if !ok {
				t.replyError(ctx, msg, proto.ErrBadMessage)
				continue
			}
			t.setActive(ctx, active)

		case proto.MsgTheme:
			th, ok := proto.DecodeThemePayload(msg.Payload())
			if !ok {
				t.replyError(ctx, msg, proto.ErrBadMessage)
				continue
			}
			t.theme = th
			t.render()

		case proto.MsgTermInput:
			if !t.active {
				continue
			}
			t.handleInput(ctx, msg.Payload())
		}
	}
}

func (t *Task) setActive(ctx *kernel.Context, active bool) {
	if active == t.active {
		return
	}
	t.active = active
	if !active {
		t.inbuf = t.inbuf[:0]
		return
	}
	t.presented = false
	t.render()
	t.publish(ctx)
}

func (t *Task) unload() {
	t.active = false
	t.inbuf = nil
	t.fb = nil
}

func (t *Task) handleInput(ctx *kernel.Context, b []byte) {
	t.inbuf = append(t.inbuf, b...)
	buf := t.inbuf

	for len(buf) > 0 {
		n, k, ok := nextKey(buf)
		if !ok {
			break
		}
		buf = buf[n:]
		t.handleKey(ctx, k)
		if !t.active {
			t.inbuf = t.inbuf[:0]
			return
		}
	}
	t.inbuf = append(t.inbuf[:0], buf...)
}

func (t *Task) handleKey(ctx *kernel.Context, k key) {
	switch k.kind {
	case keyUp:
		t.moveFocus(ctx, t.focus.up())
	case keyDown:
		t.moveFocus(ctx, t.focus.down())
	case keyLeft:
		t.moveFocus(ctx, t.focus.left())
	case keyRight:
		t.moveFocus(ctx, t.focus.right())
	case keyHome:
		t.moveFocus(ctx, t.focus.home())
	case keyEnd:
		t.moveFocus(ctx, t.focus.end())
	case keyEnter:
		t.press(ctx, t.focus.button().Key)
	case keyEsc:
		t.press(ctx, calc.KeyClear)
	case keyBackspace, keyDelete:
		t.press(ctx, calc.KeyBackspace)
	case keyRune:
		if k.r == 'q' {
			if t.muxCap.Valid() {
				t.requestExit(ctx)
			}
			return
		}
		if ck, ok := calc.ParseKey(k.r); ok {
			t.press(ctx, ck)
		}
	}
}

func (t *Task) moveFocus(ctx *kernel.Context, f focus) {
	t.focus = f
	t.render()
	t.publish(ctx)
}

// press applies one key: one state update, one render.
func (t *Task) press(ctx *kernel.Context, k calc.Key) {
	t.calc.Press(k)
	if i := calc.ButtonFor(k); i >= 0 {
		b := calc.Keypad[i]
		t.focus = focus{row: b.Row, col: b.Col}
	}
	t.render()
	t.publish(ctx)

	snap := t.calc.Snapshot()
	t.log(ctx, fmt.Sprintf("calc: key=%s display=%s op=%s", k, snap.Display, snap.Op))
}

// publish sends the current snapshot to the observer, dropping it when the
// observer is behind.
func (t *Task) publish(ctx *kernel.Context) {
	if ctx == nil || !t.observerCap.Valid() {
		return
	}
	snap := t.calc.Snapshot()
	payload := proto.CalcDisplayPayload(proto.CalcDisplay{
		Display:    snap.Display,
		Operand:    snap.Operand,
		Op:         uint8(snap.Op),
		Focus:      uint8(t.focus.button().Key),
		HasOperand: snap.HasOperand,
		Awaiting:   snap.Awaiting,
	})
	_ = ctx.SendToCapResult(t.observerCap, uint16(proto.MsgCalcDisplay), payload, kernel.Capability{})
}

func (t *Task) log(ctx *kernel.Context, line string) {
	if ctx == nil || !t.logCap.Valid() {
		return
	}
	_ = logclient.Log(ctx, t.logCap, line)
}

func (t *Task) replyError(ctx *kernel.Context, msg kernel.Message, code proto.ErrCode) {
	detail := fmt.Sprintf("bad %s payload (%d bytes)", proto.Kind(msg.Kind), msg.Len)
	t.log(ctx, "calc: "+detail)
	if !msg.Cap.Valid() {
		return
	}
	_ = ctx.SendToCapResult(msg.Cap, uint16(proto.MsgError), proto.ErrorPayload(code, proto.Kind(msg.Kind), detail), kernel.Capability{})
}

func (t *Task) requestExit(ctx *kernel.Context) {
	t.active = false
	if !t.muxCap.Valid() {
		return
	}
	res := ctx.SendToCapRetry(t.muxCap, uint16(proto.MsgAppControl), proto.AppControlPayload(false), kernel.Capability{}, 100)
	if res != kernel.SendOK {
		t.log(ctx, "calc: exit request: "+res.String())
	}
}
