package tracker

import (
	"sort"
	"sync"
	"time"
)

// Debouncer coalesces rapid file change events into one batch per
// quiescence window. Every Add resets the timer, so a burst of edits
// produces a single callback once the burst settles.
//
// Delivery happens under the mutex: when Flush returns, any pending batch
// has been handed to the callback, even if the timer expired at the same
// instant. A reader that flushes first therefore never misses a batch.
type Debouncer struct {
	mu       sync.Mutex
	pending  map[string]struct{}
	timer    *time.Timer
	window   time.Duration
	callback func(paths []string)
}

// NewDebouncer creates a debouncer with the given quiescence window.
func NewDebouncer(window time.Duration, callback func(paths []string)) *Debouncer {
	return &Debouncer{
		pending:  make(map[string]struct{}),
		window:   window,
		callback: callback,
	}
}

// Add records a changed path and restarts the quiescence window.
// Duplicate paths within one window collapse into a single entry.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[path] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

// fire delivers the pending batch when the window expires. If a concurrent
// Flush drained the set first, there is nothing left to deliver.
func (d *Debouncer) fire() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.timer = nil
	d.deliverLocked()
}

// Flush synchronously delivers any pending batch without waiting for the
// window. A timer that already expired races Flush for the mutex; whichever
// side wins delivers, the other finds the set empty.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.deliverLocked()
}

// deliverLocked drains the pending set and invokes the callback. Callers
// hold d.mu; the callback must not call back into the debouncer.
func (d *Debouncer) deliverLocked() {
	paths := d.takePending()
	if len(paths) > 0 && d.callback != nil {
		d.callback(paths)
	}
}

// takePending drains the pending set, returning paths in sorted order for
// deterministic batches. Callers hold d.mu.
func (d *Debouncer) takePending() []string {
	if len(d.pending) == 0 {
		return nil
	}
	paths := make([]string, 0, len(d.pending))
	for p := range d.pending {
		paths = append(paths, p)
	}
	d.pending = make(map[string]struct{})
	sort.Strings(paths)
	return paths
}
