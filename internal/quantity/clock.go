package quantity

import "time"

// Timer is a scheduled callback that can be cancelled.
// *time.Timer satisfies it.
type Timer interface {
	Stop() bool
}

// Clock schedules future callbacks. Production code uses the wall clock;
// tests drive a manual clock from the quantitytest package.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type wallClock struct{}

func (wallClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// WallClock returns a Clock backed by time.AfterFunc.
func WallClock() Clock {
	return wallClock{}
}
