package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/protoworx/rippledocs/internal/breadcrumbs"
)

// Breadcrumbs renders a trail produced by breadcrumbs.Resolve. A root trail
// is rendered as a single unlinked Home; any other trail is preceded by a
// Home link.
func Breadcrumbs(crumbs []breadcrumbs.Crumb) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)

		h.raw(`<nav aria-label="breadcrumb" class="breadcrumbs"><ol>`)

		root := len(crumbs) == 1 && crumbs[0].Href == "/" && crumbs[0].Current
		if !root {
			h.raw(`<li><a href="/">`, breadcrumbs.HomeTitle, `</a></li>`)
		}

		for _, c := range crumbs {
			if !root {
				h.raw(`<li role="presentation" aria-hidden="true" class="breadcrumb-separator">/</li>`)
			}
			h.raw(`<li>`)
			if c.Current {
				h.raw(`<span aria-current="page">`)
				h.text(c.Title)
				h.raw(`</span>`)
			} else {
				h.raw(`<a href="`)
				h.href(c.Href)
				h.raw(`">`)
				h.text(c.Title)
				h.raw(`</a>`)
			}
			h.raw(`</li>`)
		}

		h.raw(`</ol></nav>`)
		return h.err
	})
}
