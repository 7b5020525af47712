package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/protoworx/rippledocs/internal/breadcrumbs"
	"github.com/protoworx/rippledocs/internal/content"
)

// SiteName is appended to every page title.
const SiteName = "React Ripple Effect"

// LayoutProps are the parts of a page shell.
type LayoutProps struct {
	Title   string
	Body    templ.Component
	Sidebar templ.Component
	Crumbs  []breadcrumbs.Crumb
	// LiveReload adds the websocket client that reloads the page when the
	// server broadcasts a content change.
	LiveReload bool
}

// Layout renders the full HTML document. Pages without a sidebar render
// full-width.
func Layout(p LayoutProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)

		title := SiteName
		if p.Title != "" && p.Title != SiteName {
			title = p.Title + " | " + SiteName
		}

		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(`</title><style>`, stylesheet, `</style></head><body>`)

		if p.Sidebar != nil {
			h.raw(`<div class="docs-shell">`)
			h.component(p.Sidebar)
			h.raw(`<div class="docs-main"><header class="docs-header">`)
			if len(p.Crumbs) > 0 {
				h.component(Breadcrumbs(p.Crumbs))
			}
			h.raw(`</header><main class="docs-content">`)
			h.component(p.Body)
			h.raw(`</main></div></div>`)
		} else {
			h.raw(`<main class="page">`)
			h.component(p.Body)
			h.raw(`</main>`)
		}

		if p.LiveReload {
			h.raw(`<script>`, liveReloadScript, `</script>`)
		}

		h.raw(`</body></html>`)
		return h.err
	})
}

// Article renders a page body with its outline.
func Article(r content.Rendered) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)

		h.raw(`<article class="prose">`)
		h.component(templ.Raw(r.HTML))
		h.raw(`</article>`)

		if len(r.TOC) > 0 {
			h.raw(`<aside class="toc"><p class="toc-title">On this page</p><ul>`)
			for _, heading := range r.TOC {
				if heading.Level == 3 {
					h.raw(`<li class="toc-nested">`)
				} else {
					h.raw(`<li>`)
				}
				h.raw(`<a href="`)
				h.href("#" + heading.ID)
				h.raw(`">`)
				h.text(heading.Text)
				h.raw(`</a></li>`)
			}
			h.raw(`</ul></aside>`)
		}

		return h.err
	})
}

// NotFound is the body of a 404 page.
func NotFound(path string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)

		h.raw(`<section class="not-found"><h1>Page not found</h1><p>Nothing lives at <code>`)
		h.text(path)
		h.raw(`</code>.</p><p><a href="/docs">Back to the documentation</a></p></section>`)

		return h.err
	})
}

const liveReloadScript = `(function(){
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  function connect(){
    var ws = new WebSocket(proto + location.host + "/ws");
    ws.onmessage = function(e){
      try { var msg = JSON.parse(e.data); if (msg.type === "reload") { location.reload(); } } catch (_) {}
    };
    ws.onclose = function(){ setTimeout(connect, 1000); };
  }
  connect();
})();`

const stylesheet = `
*{box-sizing:border-box}
body{margin:0;font-family:system-ui,-apple-system,sans-serif;color:#111;background:#fff;line-height:1.6}
a{color:#2563eb;text-decoration:none}
a:hover{text-decoration:underline}
.docs-shell{display:flex;min-height:100vh}
.sidebar{width:16rem;flex-shrink:0;border-right:1px solid #e5e7eb;padding:1rem;background:#fafafa}
.sidebar-brand{display:flex;flex-direction:column;color:inherit;margin-bottom:1rem}
.sidebar-title{font-weight:600}
.sidebar-version{font-size:.8rem;color:#6b7280}
.sidebar-menu,.sidebar-sub{list-style:none;margin:0;padding:0}
.sidebar-section{margin-bottom:.75rem}
.sidebar-section-link{font-weight:500;color:inherit}
.sidebar-sub{margin-left:.75rem;border-left:1px solid #e5e7eb;padding-left:.75rem}
.sidebar-sub a{display:block;font-size:.9rem;color:#4b5563}
.sidebar-sub a[data-active="true"]{color:#111;font-weight:600}
.docs-main{flex:1;min-width:0}
.docs-header{border-bottom:1px solid #e5e7eb;padding:.75rem 2rem}
.breadcrumbs ol{display:flex;gap:.5rem;list-style:none;margin:0;padding:0;font-size:.9rem}
.breadcrumb-separator{color:#9ca3af}
.docs-content{display:flex;gap:2rem;padding:1.5rem 2rem}
.prose{flex:1;min-width:0;max-width:48rem}
.prose pre{padding:1rem;border-radius:.5rem;overflow-x:auto}
.toc{width:14rem;font-size:.85rem}
.toc ul{list-style:none;padding:0}
.toc-nested{margin-left:.75rem}
.page{max-width:64rem;margin:0 auto;padding:2rem}
.hero{min-height:80vh;display:flex;flex-direction:column;justify-content:center;align-items:center;text-align:center;gap:1.5rem}
.hero h1{font-size:3rem;max-width:48rem;margin:0}
.actions{display:flex;gap:1rem}
.button{padding:.5rem 1rem;border-radius:.375rem;border:1px solid #d1d5db}
.button-primary{background:#111;color:#fff;border-color:#111}
.install pre{background:#f3f4f6;padding:.75rem 1rem;border-radius:.5rem}
.features{display:grid;grid-template-columns:repeat(3,1fr);gap:1rem}
.feature{border:1px solid #e5e7eb;border-radius:.75rem;padding:1rem}
.col-span-3{grid-column:span 3}
@media (min-width:1024px){.lg\:col-span-1{grid-column:span 1}.lg\:col-span-2{grid-column:span 2}}
.stats{display:flex;gap:2rem;justify-content:center;color:#4b5563}
`
