// Package debounce owns a single quiet-period timer: every trigger cancels the
// pending timer before arming a new one, and Cancel releases it on detach.
package debounce

import (
	"sync"
	"time"
)

// Timer is a handle on a scheduled callback
type Timer interface {
	// Stop prevents the callback from running; false if it already ran
	Stop() bool
}

// Scheduler runs f after d on some goroutine
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type systemScheduler struct{}

func (systemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// System schedules on the runtime timer
var System Scheduler = systemScheduler{}

// Debouncer fires its callback once the triggers stop for the quiet period
type Debouncer struct {
	mu        sync.Mutex
	scheduler Scheduler
	delay     time.Duration
	timer     Timer
	gen       uint64
}

// New creates a debouncer; a nil scheduler selects System
func New(delay time.Duration, scheduler Scheduler) *Debouncer {
	if scheduler == nil {
		scheduler = System
	}
	return &Debouncer{
		scheduler: scheduler,
		delay:     delay,
	}
}

// Delay returns the quiet period
func (d *Debouncer) Delay() time.Duration { return d.delay }

// Trigger cancels any pending callback and schedules fn after the quiet period.
// A timer that already fired but lost the race with a newer trigger is dropped.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.scheduler.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		fn()
	})
}

// Cancel stops the pending callback, if any
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

// Pending reports whether a callback is scheduled
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
