package interact

import (
	"sync"
	"time"
)

// FadeDelay is how long the overlay stays in its fading state before it is
// removed.
const FadeDelay = 300 * time.Millisecond

// Overlay is the presence state of the full-page overlay.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayVisible
	OverlayFading
)

func (o Overlay) String() string {
	switch o {
	case OverlayVisible:
		return "visible"
	case OverlayFading:
		return "fading"
	}
	return "none"
}

// Target is what a click landed on while the gallery is open.
type Target int

const (
	TargetOutside Target = iota
	TargetImage
	TargetArrow
	TargetOverlay
)

// ParseTarget maps a client target name to a Target. Unknown names count as
// outside clicks.
func ParseTarget(s string) Target {
	switch s {
	case "image":
		return TargetImage
	case "arrow":
		return TargetArrow
	case "overlay":
		return TargetOverlay
	}
	return TargetOutside
}

// Key names understood by Gallery.Key.
const (
	KeyLeft   = "ArrowLeft"
	KeyRight  = "ArrowRight"
	KeyEscape = "Escape"
)

// Group is one card's image collection.
type Group struct {
	ID     string
	Images []string
}

// Snapshot is a consistent read of the gallery.
type Snapshot struct {
	Open     bool
	GroupID  string
	Index    int
	Count    int
	URL      string
	HasPrev  bool
	HasNext  bool
	Overlay  Overlay
	Keyboard bool
}

// Gallery is the at-most-one-open-image machine shared by every card of a
// viewer.
type Gallery struct {
	mu       sync.Mutex
	sched    Scheduler
	open     bool
	group    Group
	index    int
	overlay  Overlay
	keyboard bool
	fade     Cancel
	gen      uint64
}

// NewGallery returns a closed gallery. A nil scheduler means TimerScheduler.
func NewGallery(s Scheduler) *Gallery {
	if s == nil {
		s = TimerScheduler{}
	}
	return &Gallery{sched: s, fade: noop}
}

// ClickImage handles a click on image i of g. Clicking the open image closes
// it; clicking any other image moves the gallery to it.
func (g *Gallery) ClickImage(grp Group, i int) Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	if i < 0 || i >= len(grp.Images) {
		return g.snapshotLocked()
	}
	if g.open && g.group.ID == grp.ID && g.index == i {
		g.closeLocked()
		return g.snapshotLocked()
	}
	g.openLocked(grp, i)
	return g.snapshotLocked()
}

// Open shows image i of grp regardless of the current state.
func (g *Gallery) Open(grp Group, i int) Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	if i >= 0 && i < len(grp.Images) {
		g.openLocked(grp, i)
	}
	return g.snapshotLocked()
}

// Step moves dir images within the open group, clamped to its bounds.
func (g *Gallery) Step(dir int) Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.open {
		g.index = clamp(g.index+dir, 0, len(g.group.Images)-1)
	}
	return g.snapshotLocked()
}

// Key handles a key press. Keys are ignored while no image is open.
func (g *Gallery) Key(key string) Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.keyboard {
		return g.snapshotLocked()
	}
	switch key {
	case KeyLeft:
		g.index = clamp(g.index-1, 0, len(g.group.Images)-1)
	case KeyRight:
		g.index = clamp(g.index+1, 0, len(g.group.Images)-1)
	case KeyEscape:
		g.closeLocked()
	}
	return g.snapshotLocked()
}

// Click handles a click while the gallery may be open. Clicks on the image or
// an arrow keep it open; anything else closes it.
func (g *Gallery) Click(t Target) Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch t {
	case TargetImage, TargetArrow:
	default:
		g.closeLocked()
	}
	return g.snapshotLocked()
}

// Close closes the open image. The overlay fades and is removed after
// FadeDelay.
func (g *Gallery) Close() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closeLocked()
	return g.snapshotLocked()
}

// RemoveGroup tears the gallery down immediately if it belongs to the group
// being removed.
func (g *Gallery) RemoveGroup(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.group.ID == id {
		g.resetLocked()
	}
}

// Reset closes the gallery at once and cancels the pending fade.
func (g *Gallery) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.resetLocked()
}

func (g *Gallery) resetLocked() {
	g.cancelFadeLocked()
	g.open = false
	g.keyboard = false
	g.overlay = OverlayNone
	g.group = Group{}
	g.index = 0
}

// Snapshot returns the current state.
func (g *Gallery) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

func (g *Gallery) openLocked(grp Group, i int) {
	g.cancelFadeLocked()
	g.group = Group{ID: grp.ID, Images: append([]string(nil), grp.Images...)}
	g.index = i
	g.open = true
	g.keyboard = true
	g.overlay = OverlayVisible
}

func (g *Gallery) closeLocked() {
	if !g.open {
		return
	}
	g.open = false
	g.keyboard = false
	g.overlay = OverlayFading
	g.gen++
	gen := g.gen
	g.fade = g.sched.Schedule(FadeDelay, func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if g.gen == gen && g.overlay == OverlayFading {
			g.overlay = OverlayNone
			g.fade = noop
		}
	})
}

func (g *Gallery) cancelFadeLocked() {
	g.gen++
	g.fade()
	g.fade = noop
}

func (g *Gallery) snapshotLocked() Snapshot {
	s := Snapshot{
		Open:     g.open,
		Overlay:  g.overlay,
		Keyboard: g.keyboard,
	}
	if g.open {
		s.GroupID = g.group.ID
		s.Index = g.index
		s.Count = len(g.group.Images)
		s.URL = g.group.Images[g.index]
		s.HasPrev = g.index > 0
		s.HasNext = g.index < s.Count-1
	}
	return s
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
