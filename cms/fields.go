package cms

import (
	"encoding/json"
	"strconv"
	"strings"
)

// field is an ordered list of candidate keys for one target field and the
// literal used when none of them carries a value.
type field struct {
	keys []string
	def  string
}

func (f field) resolve(scope map[string]any) string {
	v, ok := first(scope, f.keys)
	if !ok {
		return f.def
	}
	if s := strings.TrimSpace(stringOf(v)); s != "" {
		return s
	}
	return f.def
}

// schema lists the candidates for every Record field of one collection.
type schema struct {
	kind      Kind
	title     field
	date      field
	author    field
	authorURL field
	area      field
	summary   field
	tags      []string
	body      []string
	images    []string
	// singleMedia marks a media field that should hold one file; a list is
	// narrowed to its first element.
	singleMedia bool
}

var newsSchema = schema{
	kind:        News,
	title:       field{keys: []string{"title", "Title"}, def: "Untitled News"},
	date:        field{keys: []string{"publishedDate", "PublishedDate"}},
	author:      field{keys: []string{"author", "Author"}},
	authorURL:   field{keys: []string{"authorUrl", "AuthorUrl", "AuthorURL", "authorURL"}},
	summary:     field{keys: []string{"summary", "Summary"}},
	tags:        []string{"tags", "Tags"},
	body:        []string{"content", "Content"},
	images:      []string{"image", "Image"},
	singleMedia: true,
}

var projectSchema = schema{
	kind:      Project,
	title:     field{keys: []string{"title", "Title"}, def: "Untitled Project"},
	date:      field{keys: []string{"year", "Year"}},
	author:    field{keys: []string{"artist", "Artist"}, def: "Unknown Artist"},
	authorURL: field{keys: []string{"artistUrl", "ArtistUrl", "ArtistURL", "artistURL"}, def: "#"},
	area:      field{keys: []string{"area", "Area"}, def: "General"},
	summary:   field{keys: []string{"summary", "Summary"}},
	tags:      []string{"tags", "Tags"},
	body:      []string{"description", "Description"},
	images:    []string{"banners", "Banners"},
}

var idKeys = []string{"id", "documentId"}

// first returns the first present value among keys.
func first(scope map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := scope[k]; ok && present(v) {
			return v, true
		}
	}
	return nil, false
}

// present mirrors JavaScript truthiness for decoded JSON values.
func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	case json.Number:
		return t.String() != "0"
	}
	return true
}

func stringOf(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

func intOf(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case json.Number:
		n, _ := t.Int64()
		return int(n)
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(t))
		return n
	}
	return 0
}

// scopeOf unwraps a Strapi v4 "attributes" object. v5 payloads are flat.
func scopeOf(item map[string]any) map[string]any {
	if attrs, ok := item["attributes"].(map[string]any); ok {
		return attrs
	}
	return item
}

// unwrapData strips a v4 relational {"data": ...} envelope.
func unwrapData(v any) any {
	if m, ok := v.(map[string]any); ok {
		if d, has := m["data"]; has {
			return d
		}
	}
	return v
}
