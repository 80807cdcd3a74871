//go:build !tinygo

package hal

import "time"

// hostMaxCatchUp bounds the ticks emitted by one step after the process was
// stalled (suspend, debugger), so the app resumes instead of replaying.
const hostMaxCatchUp = 250

// hostTime turns wall-clock progress into the 1ms tick stream. It is driven
// by the runner loop, not by its own goroutine.
type hostTime struct {
	ch  chan uint64
	seq uint64

	now     func() time.Time
	last    time.Time
	acc     time.Duration
	dropped uint64
}

func newHostTime() *hostTime {
	return &hostTime{ch: make(chan uint64, 1024), now: time.Now}
}

func (t *hostTime) Ticks() <-chan uint64 { return t.ch }

// step converts the wall time elapsed since the previous call into ticks.
// The first call emits a single tick.
func (t *hostTime) step() {
	now := t.now()
	if t.last.IsZero() {
		t.last = now
		t.emit(1)
		return
	}

	t.acc += now.Sub(t.last)
	t.last = now
	if t.acc < 0 {
		t.acc = 0
	}

	n := uint64(t.acc / time.Millisecond)
	if n == 0 {
		return
	}
	t.acc %= time.Millisecond
	if n > hostMaxCatchUp {
		t.dropped += n - hostMaxCatchUp
		n = hostMaxCatchUp
	}
	t.emit(n)
}

func (t *hostTime) emit(n uint64) {
	for ; n > 0; n-- {
		t.seq++
		select {
		case t.ch <- t.seq:
		default:
			t.dropped++
		}
	}
}
