// Package debounce delays an action until input has been quiet for a fixed
// period. Each new schedule supersedes the pending one.
package debounce

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// DefaultDelay is the quiet period used for search input.
const DefaultDelay = 500 * time.Millisecond

// Debouncer hands out [Waiter]s that fire after the delay unless superseded.
// It is safe for concurrent use.
type Debouncer struct {
	clock    clock.Clock
	timer    *clock.Timer
	canceled chan struct{}
	delay    time.Duration
	gen      uint64
	mu       sync.Mutex
}

// Opt configures a [Debouncer].
type Opt func(*Debouncer)

// WithClock sets the clock used for timers.
func WithClock(c clock.Clock) Opt {
	return func(d *Debouncer) {
		d.clock = c
	}
}

// New creates a [Debouncer]. A non-positive delay uses [DefaultDelay].
func New(delay time.Duration, opts ...Opt) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}

	d := &Debouncer{
		clock: clock.New(),
		delay: delay,
	}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Delay returns the quiet period.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Schedule cancels any pending waiter and starts a new one.
func (d *Debouncer) Schedule() *Waiter {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()

	gen := d.gen
	w := &Waiter{
		fired:    make(chan struct{}),
		canceled: make(chan struct{}),
	}

	d.canceled = w.canceled
	d.timer = d.clock.AfterFunc(d.delay, func() {
		d.mu.Lock()
		defer d.mu.Unlock()

		if d.gen == gen {
			close(w.fired)
			d.timer = nil
			d.canceled = nil
		}
	})

	return w
}

// Call runs fn once the delay elapses without a newer Schedule, Call or Stop.
func (d *Debouncer) Call(fn func()) {
	w := d.Schedule()

	go func() {
		if w.Wait() {
			fn()
		}
	}()
}

// Stop cancels the pending waiter, if any.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
}

func (d *Debouncer) stopLocked() {
	d.gen++

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	if d.canceled != nil {
		close(d.canceled)
		d.canceled = nil
	}
}

// Waiter is a single scheduled firing.
type Waiter struct {
	fired    chan struct{}
	canceled chan struct{}
}

// Wait blocks until the delay elapses (true) or the waiter is superseded or
// stopped (false).
func (w *Waiter) Wait() bool {
	select {
	case <-w.fired:
		return true
	case <-w.canceled:
	}

	select {
	case <-w.fired:
		return true
	default:
		return false
	}
}

// Fired is closed when the delay elapses.
func (w *Waiter) Fired() <-chan struct{} {
	return w.fired
}
