package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/protoworx/rippledocs/internal/navigation"
)

// Sidebar lists every navigation section with its items. The item whose URL
// equals currentPath is marked active. version, when known, is shown as
// "v<version>" under the header.
func Sidebar(nav navigation.Navigation, currentPath, version string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)

		h.raw(`<aside class="sidebar"><div class="sidebar-header"><a href="/docs" class="sidebar-brand">`)
		h.raw(`<span class="sidebar-title">Documentation</span><span class="sidebar-version">`)
		if version != "" {
			h.text("v" + version)
		}
		h.raw(`</span></a></div><nav class="sidebar-content"><ul class="sidebar-menu">`)

		for _, section := range nav.NavMain {
			h.raw(`<li class="sidebar-section"><a class="sidebar-section-link" href="`)
			h.href(section.URL)
			h.raw(`"`)
			if section.URL == currentPath {
				h.raw(` aria-current="page"`)
			}
			h.raw(`>`)
			h.text(section.Title)
			h.raw(`</a>`)

			if len(section.Items) > 0 {
				h.raw(`<ul class="sidebar-sub">`)
				for _, item := range section.Items {
					h.raw(`<li><a href="`)
					h.href(item.URL)
					h.raw(`"`)
					if item.URL == currentPath {
						h.raw(` data-active="true" aria-current="page"`)
					}
					h.raw(`>`)
					h.text(item.Title)
					h.raw(`</a></li>`)
				}
				h.raw(`</ul>`)
			}

			h.raw(`</li>`)
		}

		h.raw(`</ul></nav></aside>`)
		return h.err
	})
}
