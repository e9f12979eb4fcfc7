//go:build !tinygo

package hal

import "time"

const hostTickDur = time.Millisecond

// hostTime converts wall-clock time elapsed between frames into 1ms ticks.
type hostTime struct {
	ch  chan uint64
	seq uint64
	now func() time.Time

	last time.Time
	acc  time.Duration
}

func newHostTime() *hostTime {
	return &hostTime{ch: make(chan uint64, 1024), now: time.Now}
}

func (t *hostTime) Ticks() <-chan uint64 { return t.ch }

// step is called once per frame. The first call emits minTicks so time starts
// moving immediately.
func (t *hostTime) step(minTicks uint64) {
	now := t.now()
	if t.last.IsZero() {
		t.last = now
		t.emit(minTicks)
		return
	}

	t.acc += now.Sub(t.last)
	t.last = now

	n := uint64(t.acc / hostTickDur)
	if n == 0 {
		return
	}
	t.acc %= hostTickDur
	t.emit(n)
}

// emit advances the sequence by n and publishes only the newest value when
// the consumer lags; ticks are absolute so skipped values carry no data.
func (t *hostTime) emit(n uint64) {
	t.seq += n
	for {
		select {
		case t.ch <- t.seq:
			return
		default:
		}
		select {
		case <-t.ch:
		default:
		}
	}
}
