package kernel

import (
	"testing"
	"time"
)

func recvWithTimeout(t *testing.T, ch <-chan Message, d time.Duration) Message {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(d):
		t.Fatal("timed out waiting for message")
		return Message{}
	}
}

type echoTask struct {
	ep    Capability
	reply Capability
}

func (e *echoTask) Run(ctx *Context) {
	for {
		msg, ok := ctx.Recv(e.ep)
		if !ok {
			return
		}
		if string(msg.Payload()) == "stop" {
			return
		}
		_ = ctx.SendToCapResult(e.reply, msg.Kind+1, msg.Payload(), Capability{})
	}
}

func TestAddTaskEcho(t *testing.T) {
	k := New()
	in := k.NewEndpoint(RightSend | RightRecv)
	out := k.NewEndpoint(RightSend | RightRecv)

	k.AddTask(&echoTask{ep: in.Restrict(RightRecv), reply: out.Restrict(RightSend)})

	ctx := &Context{k: k}
	if res := ctx.SendToCapResult(in.Restrict(RightSend), 41, []byte("hi"), Capability{}); res != SendOK {
		t.Fatalf("send: %s", res)
	}
	ch, ok := ctx.RecvChan(out.Restrict(RightRecv))
	if !ok {
		t.Fatal("expected recv channel")
	}
	msg := recvWithTimeout(t, ch, time.Second)
	if msg.Kind != 42 || string(msg.Payload()) != "hi" {
		t.Fatalf("got kind=%d payload=%q", msg.Kind, msg.Payload())
	}
	_ = ctx.SendToCapResult(in.Restrict(RightSend), 0, []byte("stop"), Capability{})
}

func TestSendRights(t *testing.T) {
	k := New()
	ep := k.NewEndpoint(RightSend | RightRecv)
	ctx := &Context{k: k}

	if res := ctx.SendToCapResult(Capability{}, 1, nil, Capability{}); res != SendErrInvalidToCap {
		t.Fatalf("zero cap: %s", res)
	}
	if res := ctx.SendToCapResult(ep.Restrict(RightRecv), 1, nil, Capability{}); res != SendErrToNoSendRight {
		t.Fatalf("recv-only cap: %s", res)
	}
	if res := ctx.SendToCapResult(ep, 1, make([]byte, MaxMessageBytes+1), Capability{}); res != SendErrPayloadTooLarge {
		t.Fatalf("large payload: %s", res)
	}
	if res := ctx.SendCapResult(ep.Restrict(RightRecv), ep, 1, nil, Capability{}); res != SendErrFromNoSendRight {
		t.Fatalf("from recv-only: %s", res)
	}
	if _, ok := ctx.RecvChan(ep.Restrict(RightSend)); ok {
		t.Fatal("send-only cap must not receive")
	}
	if ep.Restrict(0).Valid() {
		t.Fatal("restricting to no rights must invalidate")
	}
}

func TestCapabilityTransfer(t *testing.T) {
	k := New()
	ep := k.NewEndpoint(RightSend | RightRecv)
	other := k.NewEndpoint(RightSend | RightRecv)
	ctx := &Context{k: k}

	if res := ctx.SendToCapResult(ep, 1, nil, other.Restrict(RightSend)); res != SendOK {
		t.Fatalf("send: %s", res)
	}
	msg, ok := ctx.TryRecv(ep)
	if !ok {
		t.Fatal("expected message")
	}
	if res := ctx.SendToCapResult(msg.Cap, 2, []byte("via cap"), Capability{}); res != SendOK {
		t.Fatalf("send via transferred cap: %s", res)
	}
	if msg, ok := ctx.TryRecv(other); !ok || string(msg.Payload()) != "via cap" {
		t.Fatalf("got %q, %v", msg.Payload(), ok)
	}
}

func TestTickToIsMonotonic(t *testing.T) {
	k := New()
	k.TickTo(5)
	k.TickTo(3)
	if got := k.nowTick(); got != 5 {
		t.Fatalf("tick = %d, want 5", got)
	}

	ctx := &Context{k: k}
	done := make(chan uint64, 1)
	go func() { done <- ctx.WaitTick(5) }()

	k.TickTo(6)
	select {
	case got := <-done:
		if got != 6 {
			t.Fatalf("WaitTick = %d, want 6", got)
		}
	case <-time.After(time.Second):
		t.Fatal("WaitTick did not wake")
	}
}

type panicTask struct{}

func (panicTask) Run(*Context) { panic("boom") }

func TestTaskPanicReported(t *testing.T) {
	got := make(chan PanicInfo, 1)
	SetPanicHandler(func(info PanicInfo) { got <- info })

	k := New()
	id := k.AddTask(panicTask{})

	select {
	case info := <-got:
		if info.TaskID != id || info.Value != "boom" {
			t.Fatalf("got task=%d value=%v", info.TaskID, info.Value)
		}
		if info.Task != "kernel.panicTask" {
			t.Fatalf("task type = %q", info.Task)
		}
		if len(info.Stack) == 0 || len(info.Stack) > maxStackBytes {
			t.Fatalf("stack length %d", len(info.Stack))
		}
		if !InPanicMode() {
			t.Fatal("expected panic mode")
		}
	case <-time.After(time.Second):
		t.Fatal("panic handler not called")
	}
}
