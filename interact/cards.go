package interact

import (
	"sync"
	"time"
)

const (
	// ScrollDelay lets layout settle before the expanded card is measured.
	ScrollDelay = 10 * time.Millisecond

	// Header offsets keep an expanded card clear of the sticky header.
	ProjectsHeaderOffset = 24
	NewsHeaderOffset     = 100
)

// ScrollRequest asks the client to bring a card's top near the viewport top.
type ScrollRequest struct {
	CardID string
	Offset int
	Delay  time.Duration
}

// Transition describes the outcome of one Toggle.
type Transition struct {
	ID        string
	Expanded  bool     // state of ID after the toggle
	Collapsed []string // other cards closed by this toggle
	Scroll    *ScrollRequest
}

// Cards is the single-expansion machine for one section. At most one card is
// expanded at any time.
type Cards struct {
	mu       sync.Mutex
	sched    Scheduler
	offset   int
	expanded string
	pending  map[string]Cancel

	// OnScroll, when set, runs once the settle delay of an expansion
	// elapses. It is called without the lock held.
	OnScroll func(ScrollRequest)
}

// CardsOption configures Cards.
type CardsOption func(*Cards)

// WithScheduler replaces the default TimerScheduler.
func WithScheduler(s Scheduler) CardsOption {
	return func(c *Cards) { c.sched = s }
}

// NewCards returns a machine with every card collapsed. offset is the header
// offset carried by scroll requests.
func NewCards(offset int, opts ...CardsOption) *Cards {
	c := &Cards{
		sched:   TimerScheduler{},
		offset:  offset,
		pending: map[string]Cancel{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Toggle collapses every other card, flips id, and schedules a scroll when id
// went from collapsed to expanded.
func (c *Cards) Toggle(id string) Transition {
	c.mu.Lock()
	defer c.mu.Unlock()

	tr := Transition{ID: id}
	if c.expanded != "" && c.expanded != id {
		tr.Collapsed = append(tr.Collapsed, c.expanded)
		c.cancelLocked(c.expanded)
	}
	if c.expanded == id {
		c.expanded = ""
		c.cancelLocked(id)
		return tr
	}

	c.expanded = id
	tr.Expanded = true
	req := ScrollRequest{CardID: id, Offset: c.offset, Delay: ScrollDelay}
	tr.Scroll = &req
	c.cancelLocked(id)
	c.pending[id] = c.sched.Schedule(ScrollDelay, func() { c.fire(req) })
	return tr
}

func (c *Cards) fire(req ScrollRequest) {
	c.mu.Lock()
	_, ok := c.pending[req.CardID]
	delete(c.pending, req.CardID)
	still := ok && c.expanded == req.CardID
	fn := c.OnScroll
	c.mu.Unlock()

	if still && fn != nil {
		fn(req)
	}
}

// Expanded returns the expanded card, if any.
func (c *Cards) Expanded() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expanded, c.expanded != ""
}

// IsExpanded reports whether id is expanded.
func (c *Cards) IsExpanded(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return id != "" && c.expanded == id
}

// Pending reports whether a scroll for id is still scheduled.
func (c *Cards) Pending(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pending[id]
	return ok
}

// Remove drops the state of a card that is no longer rendered and cancels its
// pending scroll.
func (c *Cards) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(id)
}

// Retain removes every card whose id is not in ids.
func (c *Cards) Retain(ids []string) {
	keep := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		keep[id] = struct{}{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := keep[c.expanded]; c.expanded != "" && !ok {
		c.removeLocked(c.expanded)
	}
	for id := range c.pending {
		if _, ok := keep[id]; !ok {
			c.removeLocked(id)
		}
	}
}

// Reset collapses everything and cancels all pending work.
func (c *Cards) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id := range c.pending {
		c.cancelLocked(id)
	}
	c.expanded = ""
}

func (c *Cards) removeLocked(id string) {
	c.cancelLocked(id)
	if c.expanded == id {
		c.expanded = ""
	}
}

func (c *Cards) cancelLocked(id string) {
	if cancel, ok := c.pending[id]; ok {
		cancel()
		delete(c.pending, id)
	}
}
