// Package interact holds the expansion and gallery state machines that back
// the card UI. Each machine is owned by one viewer and is safe for concurrent
// use; deferred work (scroll settle, overlay fade) goes through a Scheduler
// so every pending callback can be cancelled.
package interact

import "time"

// Cancel stops a scheduled callback. Calling it after the callback ran, or
// more than once, is a no-op.
type Cancel func()

// Scheduler runs fn once after d.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) Cancel
}

// TimerScheduler schedules on the runtime timer heap.
type TimerScheduler struct{}

// Schedule implements Scheduler with time.AfterFunc.
func (TimerScheduler) Schedule(d time.Duration, fn func()) Cancel {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

func noop() {}
