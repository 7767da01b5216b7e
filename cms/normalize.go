package cms

import (
	"strings"
	"time"
)

// Kind identifies the collection a Record came from.
type Kind int

const (
	News Kind = iota
	Project
)

func (k Kind) String() string {
	switch k {
	case News:
		return "news"
	case Project:
		return "projects"
	}
	return "unknown"
}

// ImageRef points at one CMS media file. URL is kept exactly as the CMS sent
// it and resolved with Media at render time.
type ImageRef struct {
	URL string
	Alt string
}

// Record is the normalized form of one news item or project. Downstream code
// never sees which schema revision produced it.
type Record struct {
	ID        string
	Kind      Kind
	Title     string
	Date      string // display form: "May 2025" for news, the year for projects
	RawDate   string
	Author    string // news author or project artist
	AuthorURL string
	Area      string
	Tags      []string
	Summary   string
	Body      RichText
	Images    []ImageRef
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	c := r
	if r.Tags != nil {
		c.Tags = append([]string(nil), r.Tags...)
	}
	if r.Images != nil {
		c.Images = append([]ImageRef(nil), r.Images...)
	}
	if r.Body.Blocks != nil {
		c.Body.Blocks = make([]Block, len(r.Body.Blocks))
		for i, b := range r.Body.Blocks {
			c.Body.Blocks[i] = cloneBlock(b)
		}
	}
	return c
}

func cloneBlock(b Block) Block {
	c := b
	if b.Spans != nil {
		c.Spans = append([]Span(nil), b.Spans...)
	}
	if b.Items != nil {
		c.Items = make([][]Span, len(b.Items))
		for i, item := range b.Items {
			c.Items[i] = append([]Span(nil), item...)
		}
	}
	return c
}

// NormalizeNews maps one raw news-items entry to a Record.
func NormalizeNews(item map[string]any) Record {
	return normalize(newsSchema, item)
}

// NormalizeProject maps one raw projects entry to a Record.
func NormalizeProject(item map[string]any) Record {
	return normalize(projectSchema, item)
}

// Normalize maps a raw entry of the given kind to a Record.
func Normalize(kind Kind, item map[string]any) Record {
	if kind == Project {
		return NormalizeProject(item)
	}
	return NormalizeNews(item)
}

func normalize(s schema, item map[string]any) Record {
	scope := scopeOf(item)

	id, ok := first(item, idKeys)
	if !ok {
		id, _ = first(scope, idKeys)
	}

	rec := Record{
		ID:        stringOf(id),
		Kind:      s.kind,
		Title:     s.title.resolve(scope),
		RawDate:   s.date.resolve(scope),
		Author:    s.author.resolve(scope),
		AuthorURL: s.authorURL.resolve(scope),
		Area:      s.area.resolve(scope),
		Summary:   s.summary.resolve(scope),
	}
	if rec.AuthorURL == "#" {
		rec.AuthorURL = ""
	}
	rec.Date = rec.RawDate
	if s.kind == News {
		rec.Date = FormatMonthYear(rec.RawDate)
	}
	if v, ok := first(scope, s.tags); ok {
		rec.Tags = parseTags(v)
	}
	if v, ok := first(scope, s.body); ok {
		rec.Body = decodeRichText(v)
	}
	rec.Images = images(scope, s.images, s.singleMedia)
	return rec
}

func images(scope map[string]any, keys []string, single bool) []ImageRef {
	v, ok := first(scope, keys)
	if !ok {
		return nil
	}
	var items []any
	switch t := unwrapData(v).(type) {
	case []any:
		items = t
	case map[string]any:
		items = []any{t}
	}
	if single && len(items) > 1 {
		items = items[:1]
	}
	var refs []ImageRef
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		m = scopeOf(m)
		u := stringOf(m["url"])
		if u == "" {
			continue
		}
		refs = append(refs, ImageRef{URL: u, Alt: stringOf(m["alternativeText"])})
	}
	return refs
}

func parseTags(v any) []string {
	switch t := v.(type) {
	case string:
		return SplitTags(t)
	case []any:
		var out []string
		for _, e := range t {
			out = append(out, SplitTags(stringOf(e))...)
		}
		return out
	}
	return nil
}

// SplitTags turns a raw tag string into tag names. Pieces are separated by
// commas; a piece using the "+tag" convention is split on its markers.
//
//	"solar, water"        -> [solar water]
//	"+solar +urban farms" -> [solar urban farms]
func SplitTags(raw string) []string {
	var out []string
	for _, piece := range strings.Split(raw, ",") {
		if strings.Contains(piece, "+") {
			for _, p := range strings.Split(piece, "+") {
				if s := strings.TrimSpace(p); s != "" {
					out = append(out, s)
				}
			}
			continue
		}
		if s := strings.TrimSpace(piece); s != "" {
			out = append(out, s)
		}
	}
	return out
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006-01",
}

// FormatMonthYear renders a CMS date as "May 2025". Values that do not parse
// are returned unchanged.
func FormatMonthYear(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Format("January 2006")
		}
	}
	return raw
}
