package carousel

import "time"

// Scheduler arms one-shot callbacks. The real one is time.AfterFunc; tests use
// a manual clock.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
	Now() time.Time
}

type Timer interface {
	Stop() bool
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }
func (realScheduler) Now() time.Time                            { return time.Now() }

// RealScheduler is backed by the runtime timers.
var RealScheduler Scheduler = realScheduler{}
