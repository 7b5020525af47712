package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/protoworx/rippledocs/internal/features"
	"github.com/protoworx/rippledocs/internal/stats"
)

// LandingProps carry everything the landing page shows. Repo and Bundle are
// nil when the upstream fetch failed.
type LandingProps struct {
	Package   string
	RepoURL   string
	Features  []features.Feature
	Repo      *stats.RepoStats
	Bundle    *stats.BundleStats
	ShowStats bool
}

var iconGlyphs = map[string]string{
	features.IconCode:    "&lt;/&gt;",
	features.IconType:    "T",
	features.IconClock:   "&#9201;",
	features.IconCheck:   "&#10003;",
	features.IconPackage: "&#9635;",
}

// Landing is the body of the site root.
func Landing(p LandingProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)

		h.raw(`<section id="hero" class="hero">`)
		h.raw(`<h1>A tiny, hook based <span class="accent">event bus</span> for React.</h1>`)
		h.raw(`<p>Let your components communicate via named events. Type-safe, lightweight, and built with hooks.</p>`)
		h.raw(`<div class="actions"><a class="button button-primary" href="/docs">Get Started</a>`)
		if p.RepoURL != "" {
			h.raw(`<a class="button" href="`)
			h.href(p.RepoURL)
			h.raw(`">View on GitHub</a>`)
		}
		h.raw(`</div>`)

		if p.Repo != nil {
			h.raw(`<div class="stats">`)
			h.raw(fmt.Sprintf(`<span class="stat-stars">&#9733; %d stars</span>`, p.Repo.Repository.Stars))
			if p.Repo.Package != nil && p.Repo.Package.Version != "" {
				h.raw(`<span class="stat-version">`)
				h.text("v" + p.Repo.Package.Version)
				h.raw(`</span>`)
			}
			h.raw(`</div>`)
		}
		h.raw(`</section>`)

		h.raw(`<section id="installation" class="install"><h2>Installation</h2><pre><code>npm install `)
		h.text(p.Package)
		h.raw(`</code></pre></section>`)

		if len(p.Features) > 0 {
			h.raw(`<section id="features"><h2>Features</h2><div class="features">`)
			for _, f := range p.Features {
				h.raw(`<div class="feature `)
				h.text(f.ClassName)
				h.raw(`"><span class="feature-icon" aria-hidden="true">`, iconGlyphs[f.Icon], `</span><h3>`)
				h.text(f.Name)
				h.raw(`</h3><p>`)
				h.text(f.Description)
				h.raw(`</p>`)
				if f.Href != "" {
					h.raw(`<a href="`)
					h.href(f.Href)
					h.raw(`">`)
					h.text(f.CTA)
					h.raw(`</a>`)
				}
				h.raw(`</div>`)
			}
			h.raw(`</div></section>`)
		}

		if p.ShowStats && p.Bundle != nil {
			h.raw(`<section id="bundle" class="stats">`)
			h.raw(`<span>Minified: `)
			h.text(features.FormatBytes(p.Bundle.Size))
			h.raw(`</span><span>Gzipped: `)
			h.text(features.FormatBytes(p.Bundle.Gzip))
			h.raw(`</span><span>`)
			h.text(fmt.Sprintf("%d dependencies", p.Bundle.DependencyCount))
			h.raw(`</span></section>`)
		}

		return h.err
	})
}
