package clock

import "time"

// Clock is the time source threaded into every write path. Durable
// timestamps always come from here, never from ambient time.Now calls,
// so tests can drive them deterministically.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}
