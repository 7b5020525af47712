// Package views renders the documentation site pages as templ components.
package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// html writes markup to w and keeps the first write error, so components can
// emit a sequence of fragments and check once at the end.
type html struct {
	ctx context.Context
	w   io.Writer
	err error
}

func newHTML(ctx context.Context, w io.Writer) *html {
	return &html{ctx: ctx, w: w}
}

// raw writes s unescaped.
func (h *html) raw(parts ...string) {
	for _, s := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, s)
	}
}

// text writes s escaped for element content and attribute values.
func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

// href writes a sanitized, escaped URL.
func (h *html) href(u string) {
	h.raw(templ.EscapeString(string(templ.URL(u))))
}

func (h *html) component(c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(h.ctx, h.w)
}
