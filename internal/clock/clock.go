// Package clock supplies the current time to services so that nothing in the
// ledger reads the wall clock directly.
package clock

import (
	"sync"
	"time"
)

// Clock returns the current instant.
type Clock interface {
	Now() time.Time
}

// System reads the wall clock, in UTC with microsecond precision to match
// the database column resolution.
type System struct{}

// Now implements Clock.
func (System) Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Fixed always returns the same instant.
type Fixed time.Time

// Now implements Clock.
func (f Fixed) Now() time.Time { return time.Time(f) }

// Monotonic wraps another clock and guarantees strictly increasing readings,
// so transactions created within the same microsecond still order correctly.
type Monotonic struct {
	mu   sync.Mutex
	src  Clock
	last time.Time
}

// NewMonotonic wraps src.
func NewMonotonic(src Clock) *Monotonic {
	return &Monotonic{src: src}
}

// Now implements Clock.
func (m *Monotonic) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.src.Now()
	if !now.After(m.last) {
		now = m.last.Add(time.Microsecond)
	}
	m.last = now
	return now
}

// Date truncates t to midnight UTC of the same day.
func Date(t time.Time) time.Time {
	y, mo, d := t.UTC().Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the date of c's current reading.
func Today(c Clock) time.Time {
	return Date(c.Now())
}
