package scan

import (
	"sync"
	"time"
)

// DefaultDebounceWindow suppresses a reader re-reporting a code that is
// still in front of it.
const DefaultDebounceWindow = 1500 * time.Millisecond

// Debouncer drops a detection identical to the previous one when it arrives
// within Window of the last sighting. Every suppressed repeat counts as a
// sighting, so a code held steadily is reported once.
type Debouncer struct {
	Window time.Duration
	Now    func() time.Time

	mu     sync.Mutex
	last   string
	lastAt time.Time
	seen   bool
}

func NewDebouncer(window time.Duration) *Debouncer {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &Debouncer{Window: window}
}

// Accept reports whether text should be forwarded.
func (d *Debouncer) Accept(text string) bool {
	now := time.Now()
	if d.Now != nil {
		now = d.Now()
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	dup := d.seen && text == d.last && now.Sub(d.lastAt) < d.Window
	d.last, d.lastAt, d.seen = text, now, true
	return !dup
}

// Reset forgets the last sighting.
func (d *Debouncer) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen = false
	d.last = ""
}
