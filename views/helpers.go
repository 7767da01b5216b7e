package views

import (
	"encoding/json"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/eringen/showcase/cms"
)

// buildURL joins path segments onto a base URL, ensuring a trailing slash.
func buildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// JoinTags formats tags the way the filter engine searches them.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// CardID returns a DOM and URL safe id for the record at position i. Bytes
// outside [A-Za-z0-9-] are written as "_" plus two hex digits, so distinct
// CMS ids never share a card id. Records without a CMS id fall back to
// "_n<position>", which no escaped id can produce.
func CardID(r cms.Record, i int) string {
	if r.ID == "" {
		return "_n" + strconv.Itoa(i+1)
	}
	const hex = "0123456789abcdef"
	var b strings.Builder
	for j := 0; j < len(r.ID); j++ {
		c := r.ID[j]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-':
			b.WriteByte(c)
		default:
			b.WriteByte('_')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0x0f])
		}
	}
	return b.String()
}

// GroupID names the image group of a card across sections.
func GroupID(kind cms.Kind, cardID string) string {
	return kind.String() + "/" + cardID
}

// ContainerID returns the element id of a section's card container.
func ContainerID(kind cms.Kind) string {
	if kind == cms.Project {
		return "projects-grid"
	}
	return "news-list"
}

// PartialName is the ?partial= value that selects a section's container.
func PartialName(kind cms.Kind) string {
	if kind == cms.Project {
		return "grid"
	}
	return "list"
}

func sectionPath(kind cms.Kind) string {
	return "/" + kind.String() + "/"
}

func uiPath(kind cms.Kind, parts ...string) string {
	return "/ui/" + kind.String() + "/" + strings.Join(parts, "/")
}

func hxVals(kv ...string) string {
	m := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block using cfg values.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Name,
		"url":      buildURL(cfg.URL),
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
