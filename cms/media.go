package cms

import "strings"

// MediaURL resolves a CMS asset path against base. Empty paths stay empty so
// templates never emit a broken <img>, absolute and protocol-relative URLs are
// returned unchanged, and anything else is appended to base as-is. Callers
// pass site-relative paths that already start with "/".
func MediaURL(base, path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http") || strings.HasPrefix(path, "//") {
		return path
	}
	return base + path
}

// Media resolves asset paths for one CMS deployment.
type Media struct {
	Base string
}

// URL resolves path against m.Base.
func (m Media) URL(path string) string {
	return MediaURL(m.Base, path)
}
