package coach

import "time"

// Timer is a handle of a scheduled callback.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. Tests replace it to control time.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
