package views

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/showcase/interact"
)

// GalleryFragment renders the #gallery region: nothing, a fading overlay that
// asks for its own removal, or the open image with arrows and key bindings.
func GalleryFragment(g Gallery) templ.Component {
	return component(func(h *writer) {
		base := "/ui/" + g.Section + "/gallery/"
		h.raw(`<div id="gallery">`)
		switch {
		case g.Snap.Open:
			galleryOpen(h, g, base)
		case g.Snap.Overlay == interact.OverlayFading:
			h.raw(`<div class="image-overlay fading"`)
			h.attr("hx-get", base)
			h.attr("hx-trigger", "load delay:"+strconv.Itoa(int(interact.FadeDelay.Milliseconds()))+"ms")
			h.attr("hx-target", "#gallery")
			h.attr("hx-swap", "outerHTML")
			h.raw("></div>")
		}
		h.raw("</div>")
	})
}

func galleryOpen(h *writer, g Gallery, base string) {
	s := g.Snap
	post := func(action string, vals ...string) {
		h.attr("hx-post", base+action)
		if len(vals) > 0 {
			h.attr("hx-vals", hxVals(vals...))
		}
		h.attr("hx-target", "#gallery")
		h.attr("hx-swap", "outerHTML")
	}

	h.raw(`<div class="image-overlay"`)
	post("click", "target", "overlay")
	h.attr("hx-trigger", "click consume")
	h.raw("></div>")

	h.raw("<figure")
	h.attr("class", "gallery-view")
	h.attr("data-group", s.GroupID)
	h.attr("data-index", strconv.Itoa(s.Index))
	h.raw("><img")
	h.attr("class", "gallery-image expanded")
	h.attr("src", s.URL)
	h.attr("alt", g.Alt)
	post("click", "target", "image")
	h.attr("hx-trigger", "click consume")
	h.raw("><figcaption>")
	h.text(strconv.Itoa(s.Index+1) + " / " + strconv.Itoa(s.Count))
	h.raw("</figcaption></figure>")

	if s.HasPrev {
		h.raw(`<button type="button" class="gallery-arrow prev" aria-label="Previous image"`)
		post("step", "dir", "-1")
		h.attr("hx-trigger", "click consume")
		h.raw(">&#8249;</button>")
	}
	if s.HasNext {
		h.raw(`<button type="button" class="gallery-arrow next" aria-label="Next image"`)
		post("step", "dir", "1")
		h.attr("hx-trigger", "click consume")
		h.raw(">&#8250;</button>")
	}

	// Key bindings exist only while an image is open.
	if s.Keyboard {
		for _, key := range []string{interact.KeyLeft, interact.KeyRight, interact.KeyEscape} {
			h.raw(`<span class="gallery-key" hidden`)
			post("key", "key", key)
			h.attr("hx-trigger", "keydown[key=='"+key+"'] from:body")
			h.raw("></span>")
		}
	}
	h.raw(`<span class="gallery-outside" hidden`)
	post("click", "target", "outside")
	h.attr("hx-trigger", "click from:body")
	h.raw("></span>")
}
