package pagination

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of triggers into one call after a quiet window
type Debouncer struct {
	mu     sync.Mutex
	window time.Duration
	timer  *time.Timer
}

// NewDebouncer creates a debouncer. A non-positive window defaults to 150ms.
func NewDebouncer(window time.Duration) *Debouncer {
	if window <= 0 {
		window = 150 * time.Millisecond
	}
	return &Debouncer{window: window}
}

// Trigger (re)starts the window; fn runs once the window passes without
// another trigger. Only the most recent fn runs.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, fn)
}

// Stop cancels a pending call
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
