package audit

import (
	"sync"
	"time"
)

// DefaultDebounce is the idle window after the last change before an audit
// runs.
const DefaultDebounce = 1500 * time.Millisecond

// Debouncer runs fn once per idle window: every Trigger cancels the pending
// run and schedules a new one delay later.
type Debouncer struct {
	clock Clock
	delay time.Duration
	fn    func()

	mu    sync.Mutex
	timer Timer
	seq   uint64
}

func NewDebouncer(clock Clock, delay time.Duration, fn func()) *Debouncer {
	if clock == nil {
		clock = RealClock
	}
	return &Debouncer{clock: clock, delay: delay, fn: fn}
}

// Trigger (re)schedules the run.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.timer = d.clock.AfterFunc(d.delay, func() { d.fire(seq) })
}

// Cancel drops the pending run, if any. It reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	if d.timer == nil {
		return false
	}
	stopped := d.timer.Stop()
	d.timer = nil
	return stopped
}

// fire runs fn unless a later Trigger or Cancel superseded this schedule.
// Stop can lose the race with a timer that is already firing; seq catches it.
func (d *Debouncer) fire(seq uint64) {
	d.mu.Lock()
	if seq != d.seq {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()
	d.fn()
}
