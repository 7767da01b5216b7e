package showcase

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/eringen/showcase/cms"
	"github.com/eringen/showcase/interact"
)

// queuedScheduler holds callbacks until run is called.
type queuedScheduler struct {
	mu  sync.Mutex
	fns []func()
}

func (q *queuedScheduler) Schedule(d time.Duration, fn func()) interact.Cancel {
	q.mu.Lock()
	q.fns = append(q.fns, fn)
	q.mu.Unlock()
	return func() {}
}

func (q *queuedScheduler) run() {
	q.mu.Lock()
	fns := q.fns
	q.fns = nil
	q.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func TestViewerStoreGetReturnsSameViewer(t *testing.T) {
	s := NewViewerStore(time.Minute, nil)
	a := s.Get("a")
	if s.Get("a") != a {
		t.Fatal("Get should return the existing viewer")
	}
	if s.Get("b") == a {
		t.Fatal("different ids must not share state")
	}
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
	if a.Cards(cms.News) != a.News || a.Cards(cms.Project) != a.Projects {
		t.Error("Cards returned the wrong section")
	}
}

func TestViewerStoreSweepDropsIdle(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewViewerStore(10*time.Minute, nil)
	s.now = func() time.Time { return now }

	old := s.Get("old")
	old.Projects.Toggle("1")
	now = now.Add(8 * time.Minute)
	s.Get("fresh")
	now = now.Add(5 * time.Minute)

	if n := s.Sweep(); n != 1 {
		t.Fatalf("Sweep removed %d, want 1", n)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
	if _, ok := old.Projects.Expanded(); ok {
		t.Error("swept viewer should be torn down")
	}
	if s.Get("old") == old {
		t.Error("swept viewer came back")
	}
}

func TestViewerStoreGetRefreshesActivity(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewViewerStore(10*time.Minute, nil)
	s.now = func() time.Time { return now }

	s.Get("a")
	now = now.Add(9 * time.Minute)
	s.Get("a")
	now = now.Add(9 * time.Minute)

	if n := s.Sweep(); n != 0 {
		t.Errorf("active viewer swept")
	}
}

func TestViewerStoreStartCleanup(t *testing.T) {
	s := NewViewerStore(time.Millisecond, nil)
	s.Get("a")
	stop := s.StartCleanup(20 * time.Millisecond)
	defer stop()

	time.Sleep(100 * time.Millisecond)
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0 after cleanup", s.Len())
	}
}

func TestViewerStoreLogsSettledScroll(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sched := &queuedScheduler{}
	s := NewViewerStore(time.Minute, zap.New(core))
	s.sched = sched

	v := s.Get("a")
	v.Projects.Toggle("7")
	v.News.Toggle("3")
	v.News.Toggle("3")
	sched.run()

	settled := logs.FilterMessage("card settled").All()
	if len(settled) != 1 {
		t.Fatalf("got %d settle entries, want 1 (the collapsed news card must not log)", len(settled))
	}
	fields := settled[0].ContextMap()
	if fields["viewer"] != "a" || fields["section"] != "projects" || fields["card"] != "7" || fields["offset"] != int64(interact.ProjectsHeaderOffset) {
		t.Errorf("fields = %v", fields)
	}
}
