package views

import (
	"github.com/eringen/showcase/cms"
	"github.com/eringen/showcase/filter"
	"github.com/eringen/showcase/interact"
)

// SiteConfig holds the site-wide settings every page needs.
type SiteConfig struct {
	Name        string
	URL         string
	Description string
	Author      string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head>.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}

// Modal is a page popup or the welcome dialog. Body is trusted HTML.
type Modal struct {
	Title string
	Body  string
}

// Page is the shell shared by every full page.
type Page struct {
	Site      SiteConfig
	Meta      PageMeta
	Path      string
	CSRFToken string
	Year      int

	Popup     *Modal // nil when the page has no popup of its own
	Welcome   Modal
	ShowPopup bool // first visit of Path in this session

	Gallery Gallery
}

// Card is one rendered record.
type Card struct {
	ID       string
	Record   cms.Record
	Body     string   // rendered rich text
	Images   []string // resolved image URLs, index-aligned with Record.Images
	Expanded bool
	Hidden   bool
}

// List is the state of a news list or project grid container.
type List struct {
	Kind        cms.Kind
	Cards       []Card
	Loading     bool
	Err         error
	Placeholder string
	Filter      filter.State
	Options     filter.Options
}

// Gallery is the overlay region for the viewer's open image.
type Gallery struct {
	Section string
	Snap    interact.Snapshot
	Alt     string
}
