package session

import (
	"sync"
	"time"
)

// debouncer collapses a rapid stream of raw term updates into a single
// settle callback once input has been quiet for the configured interval.
// Classic trailing debounce: every update resets the timer and only the
// most recent value ever settles.
type debouncer struct {
	interval time.Duration
	settle   func(term string)

	mu      sync.Mutex
	seq     uint64
	timer   *time.Timer
	stopped bool
}

func newDebouncer(interval time.Duration, settle func(term string)) *debouncer {
	return &debouncer{
		interval: interval,
		settle:   settle,
	}
}

// Update records a new raw term and restarts the quiet-period timer. The
// sequence guard makes the last writer win even when an older timer has
// already fired and is waiting to run.
func (d *debouncer) Update(term string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.seq++
	seq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		live := !d.stopped && seq == d.seq
		d.mu.Unlock()
		if live {
			d.settle(term)
		}
	})
}

// Stop prevents any pending or future settle from firing.
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
