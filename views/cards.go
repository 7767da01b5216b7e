package views

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/showcase/cms"
	"github.com/eringen/showcase/interact"
)

// Literal container states.
const (
	LoadingNews     = "Loading news..."
	LoadingProjects = "Loading projects..."
	EmptyNews       = "No news updates yet."
	EmptyProjects   = "No projects found."
	ErrorNews       = "Error Loading News:"
	ErrorProjects   = "Error Loading Projects:"
)

const noImageAlt = "No image available"

// ListFragment renders a section container in its loading, error, empty or
// populated state. Project grids also refresh the filter selects out of band.
func ListFragment(l List) templ.Component {
	return component(func(h *writer) {
		id := ContainerID(l.Kind)
		h.raw("<div")
		h.attr("id", id)
		h.attr("class", id)
		if l.Loading {
			h.attr("hx-get", sectionPath(l.Kind)+"?"+loadQuery(l))
			h.attr("hx-trigger", "load")
			h.attr("hx-swap", "outerHTML")
		}
		h.raw(">")
		switch {
		case l.Loading:
			h.elem("p", "loading", pick(l.Kind, LoadingNews, LoadingProjects))
		case l.Err != nil:
			h.raw(`<div class="error-message"><strong>`)
			h.text(pick(l.Kind, ErrorNews, ErrorProjects))
			h.raw("</strong> ")
			h.text(l.Err.Error())
			h.raw("</div>")
		case len(l.Cards) == 0:
			h.elem("p", "empty-state", pick(l.Kind, EmptyNews, EmptyProjects))
		default:
			for _, c := range l.Cards {
				if l.Kind == cms.Project {
					h.component(ProjectCard(c, l.Placeholder))
				} else {
					h.component(NewsCard(c))
				}
			}
		}
		h.raw("</div>")
		if l.Kind == cms.Project && !l.Loading {
			h.component(filterSelects(l, true))
		}
	})
}

func loadQuery(l List) string {
	v := l.Filter.Values()
	v.Set("partial", PartialName(l.Kind))
	return v.Encode()
}

// NewsCard renders one news record.
func NewsCard(c Card) templ.Component {
	return component(func(h *writer) {
		r := c.Record
		openCard(h, c, "news-card")
		h.raw(`<div class="news-summary">`)
		h.elem("h3", "news-title", r.Title)
		h.raw(`<p class="news-meta">`)
		h.elem("span", "news-date", r.Date)
		byline(h, r, "news-author")
		h.raw("</p>")
		tagPills(h, r.Tags)
		if len(c.Images) > 0 {
			preview(h, c.Images[0], altOf(r, 0))
		}
		h.elem("p", "news-preview", r.Summary)
		h.raw(`</div><div class="news-details"><div class="news-body">`)
		h.raw(c.Body)
		h.raw("</div>")
		imageGroup(h, c)
		h.raw("</div></div>")
	})
}

// ProjectCard renders one project record. Cards without images show the
// placeholder.
func ProjectCard(c Card, placeholder string) templ.Component {
	return component(func(h *writer) {
		r := c.Record
		openCard(h, c, "project-card")
		h.raw(`<div class="project-summary">`)
		h.elem("h3", "project-title", r.Title)
		h.raw(`<p class="project-meta">`)
		byline(h, r, "project-artist")
		h.elem("span", "project-area", r.Area)
		h.elem("span", "project-date", r.Date)
		h.raw("</p>")
		tagPills(h, r.Tags)
		if len(c.Images) > 0 {
			preview(h, c.Images[0], altOf(r, 0))
		} else if placeholder != "" {
			preview(h, placeholder, noImageAlt)
		}
		h.elem("p", "project-summary-text", r.Summary)
		h.raw(`</div><div class="project-details"><div class="project-body">`)
		h.raw(c.Body)
		h.raw("</div>")
		imageGroup(h, c)
		h.raw("</div></div>")
	})
}

func openCard(h *writer, c Card, class string) {
	r := c.Record
	kind := r.Kind
	if c.Expanded {
		class += " expanded"
	}
	h.raw("<article")
	h.attr("id", "card-"+c.ID)
	h.attr("class", class)
	if kind == cms.Project {
		h.attr("data-tags", JoinTags(r.Tags))
		h.attr("data-artist", r.Author)
		h.attr("data-area", r.Area)
		h.attr("data-date", r.Date)
	}
	style := "scroll-margin-top:" + strconv.Itoa(headerOffset(kind)) + "px"
	if c.Hidden {
		style = "display:none;" + style
	}
	h.attr("style", style)
	h.attr("hx-post", uiPath(kind, "cards", c.ID, "toggle"))
	h.attr("hx-trigger", "click")
	h.attr("hx-target", "#"+ContainerID(kind))
	h.attr("hx-swap", "outerHTML")
	if kind == cms.Project {
		h.attr("hx-include", "#project-filters")
	}
	h.raw(">")
}

// byline writes the author or artist, with the hidden profile link when a
// real URL exists.
func byline(h *writer, r cms.Record, class string) {
	if r.Author == "" {
		return
	}
	h.raw("<span")
	h.attr("class", class)
	h.raw(">")
	h.text(r.Author)
	h.raw("</span>")
	if r.AuthorURL != "" {
		h.raw("<a")
		h.attr("class", "artist-url-hidden")
		h.attr("href", r.AuthorURL)
		h.attr("target", "_blank")
		h.attr("rel", "noopener")
		h.raw(">")
		h.text(r.Author)
		h.raw("</a>")
	}
}

func tagPills(h *writer, tags []string) {
	if len(tags) == 0 {
		return
	}
	h.raw(`<div class="tags">`)
	for _, t := range tags {
		h.elem("span", "tag-pill", t)
	}
	h.raw("</div>")
}

func preview(h *writer, src, alt string) {
	h.raw("<img")
	h.attr("class", "card-preview")
	h.attr("src", src)
	h.attr("alt", alt)
	h.attr("loading", "lazy")
	h.raw(">")
}

// imageGroup writes the full image collection of a card. Image clicks are
// consumed so they never toggle the card as well.
func imageGroup(h *writer, c Card) {
	if len(c.Images) == 0 {
		return
	}
	kind := c.Record.Kind
	h.raw("<div")
	h.attr("class", "project-images")
	h.attr("data-group", GroupID(kind, c.ID))
	h.raw(">")
	for i, src := range c.Images {
		h.raw("<img")
		h.attr("class", "gallery-image")
		h.attr("src", src)
		h.attr("alt", altOf(c.Record, i))
		h.attr("loading", "lazy")
		h.attr("hx-post", uiPath(kind, "gallery", "open"))
		h.attr("hx-vals", hxVals("card", c.ID, "index", strconv.Itoa(i)))
		h.attr("hx-trigger", "click consume")
		h.attr("hx-target", "#gallery")
		h.attr("hx-swap", "outerHTML")
		h.raw(">")
	}
	h.raw("</div>")
}

func altOf(r cms.Record, i int) string {
	if i < len(r.Images) && r.Images[i].Alt != "" {
		return r.Images[i].Alt
	}
	return r.Title
}

func headerOffset(kind cms.Kind) int {
	if kind == cms.Project {
		return interact.ProjectsHeaderOffset
	}
	return interact.NewsHeaderOffset
}

func pick(kind cms.Kind, news, projects string) string {
	if kind == cms.Project {
		return projects
	}
	return news
}
