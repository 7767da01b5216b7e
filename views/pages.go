package views

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/showcase/cms"
	"github.com/eringen/showcase/filter"
)

var nav = []struct{ Path, Label string }{
	{"/", "Home"},
	{"/news/", "News"},
	{"/projects/", "Projects"},
}

// Layout wraps body in the document shell: head, header, modals, gallery
// region and footer.
func Layout(p Page, body templ.Component) templ.Component {
	return component(func(h *writer) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw("<title>")
		h.text(title(p))
		h.raw("</title>")
		if p.Meta.Description != "" {
			h.raw(`<meta name="description"`)
			h.attr("content", p.Meta.Description)
			h.raw(">")
		}
		if p.Meta.URL != "" {
			h.raw(`<link rel="canonical"`)
			h.attr("href", p.Meta.URL)
			h.raw(`><meta property="og:url"`)
			h.attr("content", p.Meta.URL)
			h.raw(">")
		}
		h.raw(`<meta property="og:title"`)
		h.attr("content", title(p))
		h.raw(`><meta property="og:type"`)
		h.attr("content", orDefault(p.Meta.OGType, "website"))
		h.raw(">")
		h.raw(`<link rel="alternate" type="application/rss+xml" href="/feed.xml">`)
		h.raw(`<link rel="stylesheet" href="/public/styles.css">`)
		h.raw(`<script src="/public/htmx.min.js" defer></script>`)
		h.raw(`<script type="application/ld+json">`)
		h.raw(WebsiteJsonLD(p.Site))
		h.raw("</script></head>")

		h.raw("<body")
		h.attr("hx-headers", hxVals("X-CSRF-Token", p.CSRFToken))
		h.raw(">")

		h.raw(`<header class="site-header"><a class="logo" href="/" onclick="event.preventDefault();document.getElementById('welcome-modal').classList.add('open')">`)
		h.text(p.Site.Name)
		h.raw(`</a><nav>`)
		for _, n := range nav {
			h.raw("<a")
			h.attr("href", n.Path)
			h.attrIf(n.Path == p.Path, "aria-current", "page")
			h.raw(">")
			h.text(n.Label)
			h.raw("</a>")
		}
		h.raw("</nav>")
		if p.Popup != nil {
			h.raw(`<button type="button" class="info-button" aria-label="About this page" onclick="document.getElementById('popup-modal').classList.add('open')">i</button>`)
		}
		h.raw("</header>")

		h.raw(`<main id="main">`)
		h.component(body)
		h.raw("</main>")

		if p.Popup != nil {
			modal(h, "popup-modal", *p.Popup, p.ShowPopup)
			modal(h, "welcome-modal", p.Welcome, false)
		} else {
			modal(h, "welcome-modal", p.Welcome, p.ShowPopup)
		}

		h.component(GalleryFragment(p.Gallery))

		h.raw(`<footer class="site-footer"><p>&copy; `)
		h.raw(strconv.Itoa(p.Year))
		h.raw(" ")
		h.text(p.Site.Name)
		h.raw(`</p><p><a href="/feed.xml">RSS</a></p></footer>`)
		h.raw("<script>")
		h.raw(stickyFadeScript)
		h.raw("</script></body></html>")
	})
}

func modal(h *writer, id string, m Modal, open bool) {
	if m.Title == "" && m.Body == "" {
		return
	}
	class := "modal"
	if open {
		class += " open"
	}
	h.raw("<div")
	h.attr("id", id)
	h.attr("class", class)
	// A click on the backdrop itself closes the modal; clicks in the content
	// do not.
	h.raw(` role="dialog" aria-modal="true" onclick="if(event.target===this)this.classList.remove('open')"><div class="modal-content">`)
	h.elem("h2", "modal-title", m.Title)
	h.raw(`<div class="modal-body">`)
	h.raw(m.Body)
	h.raw(`</div><button type="button" class="modal-close" onclick="this.closest('.modal').classList.remove('open')">Close</button></div></div>`)
}

func title(p Page) string {
	if p.Meta.Title == "" {
		return p.Site.Name
	}
	return p.Meta.Title + " | " + p.Site.Name
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Index is the landing page.
func Index(p Page) templ.Component {
	return Layout(p, component(func(h *writer) {
		h.raw(`<section class="hero">`)
		h.elem("h1", "", p.Site.Name)
		h.elem("p", "lead", p.Site.Description)
		h.raw(`<p class="hero-links"><a class="button" href="/news/">Latest news</a> <a class="button" href="/projects/">Browse projects</a></p>`)
		h.raw("</section>")
	}))
}

// NewsPage is the news shell; its list loads lazily.
func NewsPage(p Page, l List) templ.Component {
	return Layout(p, component(func(h *writer) {
		h.raw(`<section class="news-section"><h1>News</h1>`)
		h.component(ListFragment(l))
		h.raw("</section>")
	}))
}

// ProjectsPage is the project shell with its filter form.
func ProjectsPage(p Page, l List) templ.Component {
	return Layout(p, component(func(h *writer) {
		h.raw(`<section class="projects-section"><h1>Projects</h1>`)
		h.component(FilterForm(l))
		h.component(ListFragment(l))
		h.raw("</section>")
	}))
}

// FilterForm renders the four filter inputs. Every change re-requests the
// grid with the current values.
func FilterForm(l List) templ.Component {
	return component(func(h *writer) {
		h.raw(`<form id="project-filters" class="filters" hx-get="/projects/" hx-trigger="input changed delay:200ms from:#tag-search, change" hx-target="#projects-grid" hx-swap="outerHTML" onsubmit="return false">`)
		h.raw(`<input type="hidden" name="partial" value="grid">`)
		h.raw(`<input id="tag-search" type="search" name="q" placeholder="Search tags, artists, areas..." autocomplete="off"`)
		h.attr("value", l.Filter.Query)
		h.raw(">")
		h.component(filterSelects(l, false))
		h.raw("</form>")
	})
}

// filterSelects renders the artist/area/date selects. The out-of-band form
// replaces the selects after every grid render so their options follow the
// loaded records.
func filterSelects(l List, oob bool) templ.Component {
	return component(func(h *writer) {
		h.raw(`<div id="filter-selects" class="filter-selects"`)
		h.attrIf(oob, "hx-swap-oob", "true")
		h.raw(">")
		selectInput(h, "artist-filter", "artist", "All artists", l.Options.Artists, l.Filter.Artist)
		selectInput(h, "area-filter", "area", "All areas", l.Options.Areas, l.Filter.Area)
		selectInput(h, "date-filter", "date", "All years", l.Options.Dates, l.Filter.Date)
		if !l.Filter.Empty() {
			h.raw(`<a class="filter-reset" href="/projects/">Clear filters</a>`)
		}
		h.raw("</div>")
	})
}

func selectInput(h *writer, id, name, all string, options []string, selected string) {
	h.raw("<select")
	h.attr("id", id)
	h.attr("name", name)
	h.attr("form", "project-filters")
	h.raw(`><option value="">`)
	h.text(all)
	h.raw("</option>")
	for _, o := range options {
		h.raw("<option")
		h.attr("value", o)
		h.attrIf(o == selected, "selected", "selected")
		h.raw(">")
		h.text(o)
		h.raw("</option>")
	}
	h.raw("</select>")
}

// NotFound is the 404 page.
func NotFound(p Page) templ.Component {
	return Layout(p, component(func(h *writer) {
		h.raw(`<section class="error-page"><h1>Page not found</h1><p><a href="/">Back home</a></p></section>`)
	}))
}

// ServerError is the 500 page.
func ServerError(p Page) templ.Component {
	return Layout(p, component(func(h *writer) {
		h.raw(`<section class="error-page"><h1>Something went wrong</h1><p>Please try again in a moment.</p></section>`)
	}))
}

// ListFor returns an empty List in its loading state for kind.
func ListFor(kind cms.Kind, f filter.State) List {
	return List{Kind: kind, Loading: true, Filter: f}
}
