package ledger

import "time"

// Clock supplies the current wall time for check-in and check-out stamps.
// Callers never supply timestamps; tests substitute a manual clock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the host clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}
