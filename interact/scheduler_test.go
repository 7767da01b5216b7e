package interact

import (
	"testing"
	"time"
)

// fakeScheduler records callbacks and runs them only when told to.
type fakeScheduler struct {
	tasks []*fakeTask
}

type fakeTask struct {
	delay     time.Duration
	fn        func()
	cancelled bool
	fired     bool
}

func (f *fakeScheduler) Schedule(d time.Duration, fn func()) Cancel {
	t := &fakeTask{delay: d, fn: fn}
	f.tasks = append(f.tasks, t)
	return func() { t.cancelled = true }
}

// flush runs every live task once.
func (f *fakeScheduler) flush() {
	tasks := f.tasks
	f.tasks = nil
	for _, t := range tasks {
		if !t.cancelled && !t.fired {
			t.fired = true
			t.fn()
		}
	}
}

func (f *fakeScheduler) live() int {
	n := 0
	for _, t := range f.tasks {
		if !t.cancelled && !t.fired {
			n++
		}
	}
	return n
}

func TestTimerSchedulerFires(t *testing.T) {
	done := make(chan struct{})
	TimerScheduler{}.Schedule(time.Millisecond, func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("callback did not fire")
	}
}

func TestTimerSchedulerCancel(t *testing.T) {
	fired := make(chan struct{}, 1)
	cancel := TimerScheduler{}.Schedule(20*time.Millisecond, func() { fired <- struct{}{} })
	cancel()
	cancel()
	select {
	case <-fired:
		t.Fatal("cancelled callback fired")
	case <-time.After(60 * time.Millisecond):
	}
}
