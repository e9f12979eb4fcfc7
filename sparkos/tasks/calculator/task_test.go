package calculator

import (
	"testing"
	"time"

	"sparkcalc/hal"
	"sparkcalc/sparkos/calc"
	"sparkcalc/sparkos/kernel"
	"sparkcalc/sparkos/proto"
)

type memFramebuffer struct {
	w, h     int
	buf      []byte
	presents int
}

func newMemFramebuffer(w, h int) *memFramebuffer {
	return &memFramebuffer{w: w, h: h, buf: make([]byte, w*h*2)}
}

func (f *memFramebuffer) Width() int              { return f.w }
func (f *memFramebuffer) Height() int             { return f.h }
func (f *memFramebuffer) Format() hal.PixelFormat { return hal.PixelFormatRGB565 }
func (f *memFramebuffer) StrideBytes() int        { return f.w * 2 }
func (f *memFramebuffer) Buffer() []byte          { return f.buf }
func (f *memFramebuffer) ClearRGB(_, _, _ uint8)  {}
func (f *memFramebuffer) Present() error {
	f.presents++
	return nil
}

func (f *memFramebuffer) pixel(x, y int) uint16 {
	off := y*f.w*2 + x*2
	return uint16(f.buf[off]) | uint16(f.buf[off+1])<<8
}

type memDisplay struct{ fb *memFramebuffer }

func (d memDisplay) Framebuffer() hal.Framebuffer { return d.fb }

func newActiveTask(t *testing.T) (*Task, *memFramebuffer) {
	t.Helper()
	fb := newMemFramebuffer(320, 320)
	task := New(memDisplay{fb: fb}, kernel.Capability{}, kernel.Capability{}, kernel.Capability{})
	task.fb = fb
	task.layout = computeLayout(fb.w, fb.h)
	if !task.layout.valid() {
		t.Fatalf("invalid layout %+v", task.layout)
	}
	task.setActive(nil, true)
	return task, fb
}

func TestTypedKeysDriveCalculator(t *testing.T) {
	task, _ := newActiveTask(t)
	task.handleInput(nil, []byte("12+3="))
	if got := task.calc.Display(); got != "15" {
		t.Fatalf("display = %q, want %q", got, "15")
	}

	task.handleInput(nil, []byte("\x1b"))
	if got := task.calc.Snapshot(); got != calc.New().Snapshot() {
		t.Fatalf("escape did not clear: %+v", got)
	}
}

func TestEnterPressesFocusedButton(t *testing.T) {
	task, _ := newActiveTask(t)
	// Focus starts on "="; two lefts land on "0", one up on "1".
	task.handleInput(nil, []byte("\x1b[D\x1b[D\x1b[A\n\n"))
	if got := task.calc.Display(); got != "11" {
		t.Fatalf("display = %q, want %q", got, "11")
	}
	task.handleInput(nil, []byte("\x7f"))
	if got := task.calc.Display(); got != "1" {
		t.Fatalf("display after backspace = %q, want %q", got, "1")
	}
}

func TestSplitEscapeSequence(t *testing.T) {
	task, _ := newActiveTask(t)
	task.handleInput(nil, []byte("\x1b["))
	if got := task.focus.button().Key; got != calc.KeyEquals {
		t.Fatalf("partial sequence moved focus to %s", got)
	}
	task.handleInput(nil, []byte("D"))
	if got := task.focus.button().Key; got != calc.KeyDecimal {
		t.Fatalf("focus = %s, want %s", got, calc.KeyDecimal)
	}
}

func TestUnknownEscapeSequencesLeaveStateAlone(t *testing.T) {
	for _, seq := range []string{"\x1b[5~", "\x1b[2~", "\x1b[1;5C", "\x1b[6~"} {
		task, _ := newActiveTask(t)
		task.handleInput(nil, []byte("12+3"))
		before := task.calc.Snapshot()
		renders := task.renders

		task.handleInput(nil, []byte(seq))
		if got := task.calc.Snapshot(); got != before {
			t.Fatalf("%q changed state: %+v, want %+v", seq, got, before)
		}
		if task.renders != renders {
			t.Fatalf("%q rendered %d times", seq, task.renders-renders)
		}
		if len(task.inbuf) != 0 {
			t.Fatalf("%q left %q buffered", seq, task.inbuf)
		}
	}
}

func TestOneRenderPerKey(t *testing.T) {
	task, fb := newActiveTask(t)
	if task.renders != 1 || fb.presents != 1 {
		t.Fatalf("activation: renders=%d presents=%d", task.renders, fb.presents)
	}

	for i, in := range []string{"5", "+", "\x1b[A", "3", "="} {
		task.handleInput(nil, []byte(in))
		if want := i + 2; task.renders != want {
			t.Fatalf("after %q renders = %d, want %d", in, task.renders, want)
		}
	}

	// Identical frames are not presented again.
	before := fb.presents
	task.render()
	if task.renders != 7 || fb.presents != before {
		t.Fatalf("redraw: renders=%d presents=%d (was %d)", task.renders, fb.presents, before)
	}
}

func TestRenderHighlightsFocus(t *testing.T) {
	task, fb := newActiveTask(t)
	th := DefaultTheme()

	eq := task.layout.buttonRect(calc.Keypad[calc.ButtonFor(calc.KeyEquals)])
	if got, want := fb.pixel(eq.x, eq.y), rgb565(th.Focus); got != want {
		t.Fatalf("focused corner = %#04x, want %#04x", got, want)
	}

	add := task.layout.buttonRect(calc.Keypad[calc.ButtonFor(calc.KeyAdd)])
	if got, want := fb.pixel(add.x, add.y), rgb565(th.Operator); got != want {
		t.Fatalf("operator corner = %#04x, want %#04x", got, want)
	}

	if got, want := fb.pixel(0, 0), rgb565(th.Background); got != want {
		t.Fatalf("background = %#04x, want %#04x", got, want)
	}
}

func TestPendingHint(t *testing.T) {
	s := calc.New()
	for _, k := range []calc.Key{calc.Key1, calc.Key2, calc.KeyDiv} {
		s.Press(k)
	}
	if got := pendingHint(s.Snapshot()); got != "12 /" {
		t.Fatalf("hint = %q", got)
	}
	s.Press(calc.KeyEquals)
	if got := pendingHint(s.Snapshot()); got != "" {
		t.Fatalf("hint after equals = %q", got)
	}
}

func TestFitRight(t *testing.T) {
	s := "1234567890"
	full := textWidth(numberFont, s)
	got := fitRight(numberFont, s, full-1)
	if got == s || len(got) == 0 || s[len(s)-len(got):] != got {
		t.Fatalf("fitRight = %q", got)
	}
	if fitRight(numberFont, s, full) != s {
		t.Fatal("fitting text was cut")
	}
}

type funcTask func(*kernel.Context)

func (f funcTask) Run(ctx *kernel.Context) { f(ctx) }

func waitFor(t *testing.T, ch <-chan kernel.Message, kind proto.Kind, match func(kernel.Message) bool) kernel.Message {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case msg := <-ch:
			if proto.Kind(msg.Kind) == kind && (match == nil || match(msg)) {
				return msg
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", kind)
			return kernel.Message{}
		}
	}
}

func TestTaskOverKernel(t *testing.T) {
	k := kernel.New()
	calcEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	obsEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	muxEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	replyEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)

	fb := newMemFramebuffer(320, 320)
	k.AddTask(New(memDisplay{fb: fb}, calcEP.Restrict(kernel.RightRecv), kernel.Capability{}, obsEP.Restrict(kernel.RightSend)))

	obs := make(chan kernel.Message, 64)
	mux := make(chan kernel.Message, 8)
	reply := make(chan kernel.Message, 8)
	send := make(chan func(*kernel.Context))
	k.AddTask(funcTask(func(ctx *kernel.Context) {
		obsCh, _ := ctx.RecvChan(obsEP)
		muxCh, _ := ctx.RecvChan(muxEP)
		replyCh, _ := ctx.RecvChan(replyEP)
		for {
			select {
			case m := <-obsCh:
				obs <- m
			case m := <-muxCh:
				mux <- m
			case m := <-replyCh:
				reply <- m
			case fn := <-send:
				fn(ctx)
			}
		}
	}))

	to := calcEP.Restrict(kernel.RightSend)
	send <- func(ctx *kernel.Context) {
		ctx.SendToCapResult(to, uint16(proto.MsgAppControl), proto.AppControlPayload(true), muxEP.Restrict(kernel.RightSend))
	}
	waitFor(t, obs, proto.MsgCalcDisplay, nil)

	send <- func(ctx *kernel.Context) {
		ctx.SendToCapResult(to, uint16(proto.MsgTermInput), []byte("5+3="), kernel.Capability{})
	}
	msg := waitFor(t, obs, proto.MsgCalcDisplay, func(m kernel.Message) bool {
		d, ok := proto.DecodeCalcDisplayPayload(m.Payload())
		return ok && d.Display == "8"
	})
	d, _ := proto.DecodeCalcDisplayPayload(msg.Payload())
	if d.HasOperand || calc.Op(d.Op) != calc.OpNone || !d.Awaiting || calc.Key(d.Focus) != calc.KeyEquals {
		t.Fatalf("snapshot = %+v", d)
	}

	send <- func(ctx *kernel.Context) {
		ctx.SendToCapResult(to, uint16(proto.MsgTheme), []byte{1, 2, 3}, replyEP.Restrict(kernel.RightSend))
	}
	errMsg := waitFor(t, reply, proto.MsgError, nil)
	if code, ref, _, ok := proto.DecodeErrorPayload(errMsg.Payload()); !ok || code != proto.ErrBadMessage || ref != proto.MsgTheme {
		t.Fatalf("error reply = %s %s %v", code, ref, ok)
	}

	send <- func(ctx *kernel.Context) {
		ctx.SendToCapResult(to, uint16(proto.MsgTermInput), []byte("q"), kernel.Capability{})
	}
	exit := waitFor(t, mux, proto.MsgAppControl, nil)
	if active, ok := proto.DecodeAppControlPayload(exit.Payload()); !ok || active {
		t.Fatalf("exit request active=%v ok=%v", active, ok)
	}

	send <- func(ctx *kernel.Context) {
		ctx.SendToCapResult(to, uint16(proto.MsgAppShutdown), nil, kernel.Capability{})
	}
}
