package controller

import (
	"sync"
	"time"
)

// Debouncer delivers the last value passed to Trigger once no further
// trigger has arrived for the delay. Values are read from C.
type Debouncer struct {
	delay time.Duration

	mu     sync.Mutex
	timer  *time.Timer
	gen    uint64
	out    chan string
	closed bool
}

// NewDebouncer returns a Debouncer with the given quiet period.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay < 0 {
		delay = 0
	}
	return &Debouncer{delay: delay, out: make(chan string, 1)}
}

// C receives fired values. It is closed by Close.
func (d *Debouncer) C() <-chan string {
	return d.out
}

// Trigger cancels any pending fire and schedules value.
func (d *Debouncer) Trigger(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen, value) })
}

// Cancel drops the pending fire and any fired value not yet received.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if !d.closed {
		select {
		case <-d.out:
		default:
		}
	}
}

// Pending reports whether a fire is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Close stops the debouncer and closes C.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	close(d.out)
}

func (d *Debouncer) fire(gen uint64, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	// A timer that fired while Trigger or Cancel held the lock is stale.
	if d.closed || gen != d.gen {
		return
	}
	d.timer = nil
	select {
	case <-d.out:
	default:
	}
	d.out <- value
}
