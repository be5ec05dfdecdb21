package clock

import "time"

// Clock abstracts "now" so lifecycle math, onboarding resolution and the
// broadcast throttle can be tested deterministically. Services must never
// call time.Now directly.
type Clock interface {
	Now() time.Time
}

// RealClock is the production clock.
type RealClock struct{}

func NewRealClock() RealClock {
	return RealClock{}
}

func (RealClock) Now() time.Time {
	return time.Now()
}
