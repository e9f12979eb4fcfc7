package app

import (
	"fmt"

	"sparkcalc/internal/buildinfo"
	logclient "sparkcalc/sparkos/client/logger"
	"sparkcalc/sparkos/kernel"
	"sparkcalc/sparkos/proto"
)

const sendRetryTicks = 500

// supervisor activates the calculator, forwards theme updates and handles
// its exit request.
type supervisor struct {
	ep      kernel.Capability
	calcCap kernel.Capability
	logCap  kernel.Capability

	theme     proto.Theme
	allowExit bool
	session   string

	themes <-chan proto.Theme
	done   chan struct{}
}

func (s *supervisor) Run(ctx *kernel.Context) {
	ch, ok := ctx.RecvChan(s.ep.Restrict(kernel.RightRecv))
	if !ok {
		return
	}

	line := "sparkcalc " + buildinfo.Short()
	if s.session != "" {
		line += " session=" + s.session
	}
	_ = logclient.LogRetry(ctx, s.logCap, line, sendRetryTicks)

	if s.theme != (proto.Theme{}) {
		s.sendTheme(ctx, s.theme)
	}

	var muxCap kernel.Capability
	if s.allowExit {
		muxCap = s.ep.Restrict(kernel.RightSend)
	}
	if res := ctx.SendToCapRetry(s.calcCap, uint16(proto.MsgAppControl), proto.AppControlPayload(true), muxCap, sendRetryTicks); res != kernel.SendOK {
		_ = logclient.LogRetry(ctx, s.logCap, "app: activate calculator: "+res.String(), sendRetryTicks)
	}

	for {
		select {
		case th := <-s.themes:
			s.sendTheme(ctx, th)

		case msg, ok := <-ch:
			if !ok {
				return
			}
			switch proto.Kind(msg.Kind) {
			case proto.MsgAppControl:
				active, ok := proto.DecodeAppControlPayload(msg.Payload())
				if !ok || active {
					continue
				}
				_ = ctx.SendToCapRetry(s.calcCap, uint16(proto.MsgAppShutdown), nil, kernel.Capability{}, sendRetryTicks)
				_ = logclient.LogRetry(ctx, s.logCap, "app: calculator exited", sendRetryTicks)
				close(s.done)
				return

			case proto.MsgError:
				code, ref, detail, ok := proto.DecodeErrorPayload(msg.Payload())
				if !ok {
					continue
				}
				logclient.Log(ctx, s.logCap, fmt.Sprintf("app: %s rejected: %s: %s", ref, code, detail))
			}
		}
	}
}

func (s *supervisor) sendTheme(ctx *kernel.Context, th proto.Theme) {
	res := ctx.SendToCapRetry(s.calcCap, uint16(proto.MsgTheme), proto.ThemePayload(th), s.ep.Restrict(kernel.RightSend), sendRetryTicks)
	if res != kernel.SendOK {
		logclient.Log(ctx, s.logCap, "app: theme update: "+res.String())
	}
}
