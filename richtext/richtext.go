// Package richtext renders CMS rich text (Strapi block trees or markdown
// strings) to HTML.
package richtext

import (
	"bytes"
	"context"
	"html"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/eringen/showcase/cms"
)

// Renderer converts RichText to HTML. The zero value is not usable; call New.
type Renderer struct {
	md       goldmark.Markdown
	sanitize *bluemonday.Policy
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithoutMarkdown disables the markdown engine; markdown strings are then
// emitted as-is.
func WithoutMarkdown() Option {
	return func(r *Renderer) {
		r.md = nil
	}
}

// WithUnsafeHTML turns off sanitizing of markdown output. Only use it for
// fully trusted CMS content.
func WithUnsafeHTML() Option {
	return func(r *Renderer) {
		r.sanitize = nil
	}
}

// New returns a Renderer with GFM markdown and UGC sanitizing enabled.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(
				gmhtml.WithHardWraps(),
				gmhtml.WithUnsafe(),
			),
		),
		sanitize: bluemonday.UGCPolicy(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render returns the HTML for rt.
func (r *Renderer) Render(rt cms.RichText) string {
	if rt.IsBlocks() {
		return RenderBlocks(rt.Blocks)
	}
	return r.Markdown(rt.Markdown)
}

// Component wraps Render as a templ component.
func (r *Renderer) Component(rt cms.RichText) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, r.Render(rt))
		return err
	})
}

// Markdown renders a markdown string. When the engine fails, the source text
// is used instead so the card still shows something.
func (r *Renderer) Markdown(src string) string {
	if src == "" {
		return ""
	}
	out := src
	if r.md != nil {
		var buf bytes.Buffer
		if err := r.md.Convert([]byte(src), &buf); err == nil {
			out = buf.String()
		}
	}
	if r.sanitize != nil {
		out = r.sanitize.Sanitize(out)
	}
	return out
}

// RenderBlocks renders a Strapi block tree. Image blocks produce nothing and
// unknown block types render as paragraphs.
func RenderBlocks(blocks []cms.Block) string {
	var buf strings.Builder
	for _, b := range blocks {
		switch b.Type {
		case cms.BlockParagraph:
			wrap(&buf, "p", RenderSpans(b.Spans))
		case cms.BlockHeading:
			wrap(&buf, "h"+strconv.Itoa(clampLevel(b.Level)), RenderSpans(b.Spans))
		case cms.BlockList:
			tag := "ul"
			if b.Ordered {
				tag = "ol"
			}
			buf.WriteString("<" + tag + ">")
			for _, item := range b.Items {
				wrap(&buf, "li", RenderSpans(item))
			}
			buf.WriteString("</" + tag + ">")
		case cms.BlockQuote:
			wrap(&buf, "blockquote", RenderSpans(b.Spans))
		case cms.BlockImage:
		default:
			wrap(&buf, "p", RenderSpans(b.Spans))
		}
	}
	return buf.String()
}

// RenderSpans renders inline spans. Marks nest in a fixed order: bold,
// italic, underline, strikethrough, code, then the link around all of them.
func RenderSpans(spans []cms.Span) string {
	var buf strings.Builder
	for _, s := range spans {
		t := html.EscapeString(s.Text)
		if s.Bold {
			t = "<strong>" + t + "</strong>"
		}
		if s.Italic {
			t = "<em>" + t + "</em>"
		}
		if s.Underline {
			t = "<u>" + t + "</u>"
		}
		if s.Strikethrough {
			t = "<s>" + t + "</s>"
		}
		if s.Code {
			t = "<code>" + t + "</code>"
		}
		if s.Link != "" {
			if href := SafeURL(s.Link); href != "" {
				t = `<a href="` + href + `">` + t + `</a>`
			}
		}
		buf.WriteString(t)
	}
	return buf.String()
}

func wrap(buf *strings.Builder, tag, inner string) {
	buf.WriteString("<" + tag + ">")
	buf.WriteString(inner)
	buf.WriteString("</" + tag + ">")
}

func clampLevel(level int) int {
	switch {
	case level < 1:
		return 1
	case level > 6:
		return 6
	}
	return level
}

// SafeURL validates a link target and escapes it for an HTML attribute.
// Unsupported schemes yield "".
func SafeURL(raw string) string {
	val := strings.TrimSpace(raw)
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	default:
		return ""
	}
}
