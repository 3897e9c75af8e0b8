package clock

import "time"

// Clock is the time source used for session expiry and game
// timestamps. Tests swap in a mock to control expiry deadlines.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock
type RealClock struct{}

// New creates a RealClock
func New() *RealClock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time {
	return time.Now()
}
