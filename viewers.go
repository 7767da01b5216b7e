package showcase

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/eringen/showcase/cms"
	"github.com/eringen/showcase/interact"
)

// Viewer is the interaction state of one browser session.
type Viewer struct {
	ID       string
	News     *interact.Cards
	Projects *interact.Cards
	Gallery  *interact.Gallery

	seen time.Time
}

// Cards returns the expansion machine of a section.
func (v *Viewer) Cards(kind cms.Kind) *interact.Cards {
	if kind == cms.Project {
		return v.Projects
	}
	return v.News
}

func (v *Viewer) teardown() {
	v.News.Reset()
	v.Projects.Reset()
	v.Gallery.Reset()
}

// ViewerStore keeps viewers in memory and prunes the idle ones.
type ViewerStore struct {
	mu      sync.Mutex
	viewers map[string]*Viewer
	idle    time.Duration
	sched   interact.Scheduler
	log     *zap.Logger
	now     func() time.Time
}

// NewViewerStore creates a store that forgets viewers idle for longer than
// idle.
func NewViewerStore(idle time.Duration, log *zap.Logger) *ViewerStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &ViewerStore{
		viewers: make(map[string]*Viewer),
		idle:    idle,
		sched:   interact.TimerScheduler{},
		log:     log,
		now:     time.Now,
	}
}

// Get returns the viewer for id, creating it on first use, and marks it as
// active.
func (s *ViewerStore) Get(id string) *Viewer {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.viewers[id]
	if !ok {
		v = &Viewer{
			ID:       id,
			News:     interact.NewCards(interact.NewsHeaderOffset, interact.WithScheduler(s.sched)),
			Projects: interact.NewCards(interact.ProjectsHeaderOffset, interact.WithScheduler(s.sched)),
			Gallery:  interact.NewGallery(s.sched),
		}
		v.News.OnScroll = s.logScroll(id, cms.News)
		v.Projects.OnScroll = s.logScroll(id, cms.Project)
		s.viewers[id] = v
		s.log.Debug("viewer created", zap.String("viewer", id))
	}
	v.seen = s.now()
	return v
}

// logScroll records that an expanded card settled and was scrolled to. The
// browser performs the scroll itself from the HX-Reswap show modifier.
func (s *ViewerStore) logScroll(viewer string, kind cms.Kind) func(interact.ScrollRequest) {
	return func(r interact.ScrollRequest) {
		s.log.Debug("card settled",
			zap.String("viewer", viewer),
			zap.Stringer("section", kind),
			zap.String("card", r.CardID),
			zap.Int("offset", r.Offset),
		)
	}
}

// Len returns the number of live viewers.
func (s *ViewerStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.viewers)
}

// Sweep drops idle viewers, cancelling their pending timers, and returns how
// many were removed.
func (s *ViewerStore) Sweep() int {
	cutoff := s.now().Add(-s.idle)
	var stale []*Viewer

	s.mu.Lock()
	for id, v := range s.viewers {
		if v.seen.Before(cutoff) {
			stale = append(stale, v)
			delete(s.viewers, id)
		}
	}
	s.mu.Unlock()

	for _, v := range stale {
		v.teardown()
	}
	if len(stale) > 0 {
		s.log.Info("pruned idle viewers", zap.Int("count", len(stale)))
	}
	return len(stale)
}

// StartCleanup runs Sweep every interval. Returns a stop function.
func (s *ViewerStore) StartCleanup(interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() { close(done) }
}
