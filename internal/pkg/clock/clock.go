package clock

import "time"

// Clocker is the time source used by business code.
type Clocker interface {
	Now() time.Time
}

// TimeClocker reads the real system clock.
type TimeClocker struct{}

// New returns the system-time implementation of Clocker.
func New() *TimeClocker {
	return &TimeClocker{}
}

// Now reports the current wall-clock time.
func (*TimeClocker) Now() time.Time {
	return time.Now()
}
