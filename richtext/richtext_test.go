package richtext

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/eringen/showcase/cms"
)

func TestRenderBlocksTags(t *testing.T) {
	tests := []struct {
		name  string
		block cms.Block
		want  string
	}{
		{"paragraph", cms.Block{Type: cms.BlockParagraph, Spans: []cms.Span{{Text: "hi"}}}, "<p>hi</p>"},
		{"heading", cms.Block{Type: cms.BlockHeading, Level: 3, Spans: []cms.Span{{Text: "T"}}}, "<h3>T</h3>"},
		{"heading clamped", cms.Block{Type: cms.BlockHeading, Level: 9, Spans: []cms.Span{{Text: "T"}}}, "<h6>T</h6>"},
		{"heading missing level", cms.Block{Type: cms.BlockHeading, Spans: []cms.Span{{Text: "T"}}}, "<h1>T</h1>"},
		{"unordered list", cms.Block{Type: cms.BlockList, Items: [][]cms.Span{{{Text: "a"}}, {{Text: "b"}}}}, "<ul><li>a</li><li>b</li></ul>"},
		{"ordered list", cms.Block{Type: cms.BlockList, Ordered: true, Items: [][]cms.Span{{{Text: "a"}}}}, "<ol><li>a</li></ol>"},
		{"quote", cms.Block{Type: cms.BlockQuote, Spans: []cms.Span{{Text: "q"}}}, "<blockquote>q</blockquote>"},
		{"image", cms.Block{Type: cms.BlockImage}, ""},
		{"unknown", cms.Block{Type: "code", Spans: []cms.Span{{Text: "x"}}}, "<p>x</p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderBlocks([]cms.Block{tt.block}); got != tt.want {
				t.Errorf("RenderBlocks = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderSpansMarkOrder(t *testing.T) {
	got := RenderSpans([]cms.Span{{Text: "x", Bold: true, Italic: true, Underline: true, Strikethrough: true, Code: true}})
	want := "<code><s><u><em><strong>x</strong></em></u></s></code>"
	if got != want {
		t.Errorf("RenderSpans = %q, want %q", got, want)
	}
}

func TestRenderSpansEscapesText(t *testing.T) {
	got := RenderSpans([]cms.Span{{Text: "<script>alert(1)</script>"}})
	if strings.Contains(got, "<script>") {
		t.Errorf("span text should be escaped: %q", got)
	}
}

func TestRenderSpansLinks(t *testing.T) {
	tests := []struct {
		link string
		want string
	}{
		{"https://example.org/a?b=1&c=2", `<a href="https://example.org/a?b=1&amp;c=2"><strong>go</strong></a>`},
		{"/about", `<a href="/about"><strong>go</strong></a>`},
		{"javascript:alert(1)", `<strong>go</strong>`},
	}
	for _, tt := range tests {
		got := RenderSpans([]cms.Span{{Text: "go", Bold: true, Link: tt.link}})
		if got != tt.want {
			t.Errorf("link %q: got %q, want %q", tt.link, got, tt.want)
		}
	}
}

func TestRenderMarkdown(t *testing.T) {
	r := New()
	got := r.Render(cms.RichText{Markdown: "**Hi** there\nnext line"})
	if !strings.Contains(got, "<strong>Hi</strong>") {
		t.Errorf("markdown bold missing: %q", got)
	}
	if !strings.Contains(got, "<br") {
		t.Errorf("newline should become a line break: %q", got)
	}
}

func TestRenderMarkdownSanitizes(t *testing.T) {
	got := New().Markdown("<script>alert(1)</script>\n\nok")
	if strings.Contains(got, "<script") {
		t.Errorf("script should be stripped: %q", got)
	}
	if !strings.Contains(got, "ok") {
		t.Errorf("text should survive sanitizing: %q", got)
	}
}

func TestRenderMarkdownUnsafe(t *testing.T) {
	got := New(WithUnsafeHTML()).Markdown("<b>bold</b>")
	if !strings.Contains(got, "<b>bold</b>") {
		t.Errorf("raw html should pass through: %q", got)
	}
}

func TestRenderWithoutMarkdownPassesThrough(t *testing.T) {
	src := "**raw** <b>x</b>"
	got := New(WithoutMarkdown(), WithUnsafeHTML()).Render(cms.RichText{Markdown: src})
	if got != src {
		t.Errorf("Render = %q, want %q", got, src)
	}
}

func TestRenderEmpty(t *testing.T) {
	if got := New().Render(cms.RichText{}); got != "" {
		t.Errorf("empty rich text rendered %q", got)
	}
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	rt := cms.RichText{Blocks: []cms.Block{{Type: cms.BlockParagraph, Spans: []cms.Span{{Text: "a"}}}}}
	if err := New().Component(rt).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if buf.String() != "<p>a</p>" {
		t.Errorf("component output = %q", buf.String())
	}
}

func TestSafeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://example.org", "https://example.org"},
		{"mailto:a@b.c", "mailto:a@b.c"},
		{"#top", "#top"},
		{"data:text/html,hi", ""},
		{"relative/path", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SafeURL(tt.in); got != tt.want {
			t.Errorf("SafeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
