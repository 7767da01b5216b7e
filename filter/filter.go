// Package filter decides which cards are visible for a given set of filter
// inputs. It is stateless: every pass reads the inputs fresh.
package filter

import (
	"net/url"
	"sort"
	"strings"

	"github.com/eringen/showcase/cms"
)

// State is the current value of the four filter inputs.
type State struct {
	Query  string
	Artist string
	Area   string
	Date   string
}

// FromQuery reads a State from request query values. "q" and "tag-search" are
// both accepted for the free-text input.
func FromQuery(v url.Values) State {
	q := v.Get("q")
	if q == "" {
		q = v.Get("tag-search")
	}
	return State{
		Query:  strings.TrimSpace(q),
		Artist: v.Get("artist"),
		Area:   v.Get("area"),
		Date:   v.Get("date"),
	}
}

// Empty reports whether no filter is set.
func (s State) Empty() bool {
	return s.Query == "" && s.Artist == "" && s.Area == "" && s.Date == ""
}

// Values encodes s back into query values, omitting empty inputs.
func (s State) Values() url.Values {
	v := url.Values{}
	for k, val := range map[string]string{"q": s.Query, "artist": s.Artist, "area": s.Area, "date": s.Date} {
		if val != "" {
			v.Set(k, val)
		}
	}
	return v
}

// Facets are the lowercase searchable attributes of one card.
type Facets struct {
	Tags     string   // full tag string, "solar, water"
	TagWords []string // individual words of every tag
	Artist   string
	Area     string
	Date     string
	Title    string
}

// FacetsOf builds the facets of a record.
func FacetsOf(r cms.Record) Facets {
	tags := strings.ToLower(strings.Join(r.Tags, ", "))
	return Facets{
		Tags:     tags,
		TagWords: strings.FieldsFunc(tags, func(c rune) bool { return c == ',' || c == '+' || c == ' ' || c == '\t' || c == '\n' }),
		Artist:   strings.ToLower(r.Author),
		Area:     strings.ToLower(r.Area),
		Date:     strings.ToLower(r.Date),
		Title:    strings.ToLower(r.Title),
	}
}

// Result holds the four predicates of one filter pass over a card.
type Result struct {
	Text    bool
	Artist  bool
	Area    bool
	Date    bool
	Visible bool
}

// Match evaluates s against one card.
func Match(f Facets, s State) Result {
	r := Result{
		Text:   matchText(f, strings.ToLower(s.Query)),
		Artist: matchExact(f.Artist, s.Artist),
		Area:   matchExact(f.Area, s.Area),
		Date:   matchExact(f.Date, s.Date),
	}
	r.Visible = r.Text && r.Artist && r.Area && r.Date
	return r
}

// Visible reports whether a record passes s.
func Visible(r cms.Record, s State) bool {
	return Match(FacetsOf(r), s).Visible
}

// Apply returns the visibility of every record, index-aligned.
func Apply(records []cms.Record, s State) []bool {
	out := make([]bool, len(records))
	for i, r := range records {
		out[i] = Visible(r, s)
	}
	return out
}

// matchText accepts a query matching a tag word exactly, as a substring of
// a tag word or of the full tag string, or as a substring of the artist,
// area, date or title.
func matchText(f Facets, q string) bool {
	if q == "" {
		return true
	}
	for _, w := range f.TagWords {
		if w == q || strings.Contains(w, q) {
			return true
		}
	}
	return strings.Contains(f.Tags, q) ||
		strings.Contains(f.Artist, q) ||
		strings.Contains(f.Area, q) ||
		strings.Contains(f.Date, q) ||
		strings.Contains(f.Title, q)
}

func matchExact(value, want string) bool {
	if want == "" {
		return true
	}
	return strings.TrimSpace(value) == strings.ToLower(strings.TrimSpace(want))
}

// Options are the choices offered by the categorical inputs.
type Options struct {
	Artists []string
	Areas   []string
	Dates   []string
}

// OptionsOf collects the unique, sorted, non-empty artist, area and date
// values of records.
func OptionsOf(records []cms.Record) Options {
	artists := map[string]struct{}{}
	areas := map[string]struct{}{}
	dates := map[string]struct{}{}
	for _, r := range records {
		add(artists, r.Author)
		add(areas, r.Area)
		add(dates, r.Date)
	}
	return Options{
		Artists: sortedKeys(artists),
		Areas:   sortedKeys(areas),
		Dates:   sortedKeys(dates),
	}
}

func add(set map[string]struct{}, v string) {
	if v = strings.TrimSpace(v); v != "" {
		set[v] = struct{}{}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
