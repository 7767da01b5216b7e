package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// writer accumulates the first write error so component bodies can emit
// markup without checking every call.
type writer struct {
	w   io.Writer
	ctx context.Context
	err error
}

func (h *writer) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *writer) text(s string) {
	h.raw(templ.EscapeString(s))
}

// attr writes ` name="value"` with value escaped.
func (h *writer) attr(name, value string) {
	h.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

func (h *writer) attrIf(ok bool, name, value string) {
	if ok {
		h.attr(name, value)
	}
}

// elem writes <tag class="class">text</tag>, skipping it when text is empty.
func (h *writer) elem(tag, class, text string) {
	if text == "" {
		return
	}
	h.raw("<" + tag)
	h.attrIf(class != "", "class", class)
	h.raw(">")
	h.text(text)
	h.raw("</" + tag + ">")
}

func (h *writer) component(c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(h.ctx, h.w)
}

// component builds a templ.Component from a body that writes through writer.
func component(body func(h *writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &writer{w: w, ctx: ctx}
		body(h)
		return h.err
	})
}
