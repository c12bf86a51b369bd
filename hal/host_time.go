//go:build !tinygo

package hal

import "time"

// hostTime emits one tick per frame and tracks the frame interval.
type hostTime struct {
	ch  chan uint64
	seq uint64

	last time.Time
}

func newHostTime() *hostTime {
	return &hostTime{ch: make(chan uint64, 1024)}
}

func (t *hostTime) Ticks() <-chan uint64 { return t.ch }

// step advances one frame and returns the time since the previous one.
func (t *hostTime) step(now time.Time) time.Duration {
	var dt time.Duration
	if !t.last.IsZero() {
		dt = now.Sub(t.last)
	}
	t.last = now
	t.seq++
	select {
	case t.ch <- t.seq:
	default:
	}
	return dt
}
