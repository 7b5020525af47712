package views

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/protoworx/rippledocs/internal/breadcrumbs"
	"github.com/protoworx/rippledocs/internal/content"
	"github.com/protoworx/rippledocs/internal/features"
	"github.com/protoworx/rippledocs/internal/navigation"
	"github.com/protoworx/rippledocs/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func testNav() navigation.Navigation {
	return navigation.Navigation{NavMain: []navigation.NavSection{
		{Title: "Hooks", URL: "/docs/hooks", Items: []navigation.NavItem{
			{Title: "Use Event", URL: "/docs/hooks/use-event"},
			{Title: "<Trigger>", URL: "/docs/hooks#trigger"},
		}},
		{Title: "Installation", URL: "/docs/installation", Items: []navigation.NavItem{}},
	}}
}

func TestSidebar(t *testing.T) {
	out := render(t, Sidebar(testNav(), "/docs/hooks/use-event", "0.0.6"))

	assert.Contains(t, out, "Documentation")
	assert.Contains(t, out, "v0.0.6")
	assert.Contains(t, out, `<a href="/docs/hooks/use-event" data-active="true" aria-current="page">Use Event</a>`)
	assert.Contains(t, out, `<a href="/docs/hooks#trigger">&lt;Trigger&gt;</a>`)
	assert.Equal(t, 1, strings.Count(out, `data-active="true"`))
	// Sections without items render no nested list.
	assert.Equal(t, 1, strings.Count(out, `class="sidebar-sub"`))
}

func TestSidebarWithoutVersion(t *testing.T) {
	out := render(t, Sidebar(navigation.Empty(), "/docs", ""))

	assert.Contains(t, out, `<span class="sidebar-version"></span>`)
	assert.NotContains(t, out, "<li")
}

func TestBreadcrumbs(t *testing.T) {
	t.Run("root", func(t *testing.T) {
		out := render(t, Breadcrumbs(breadcrumbs.Resolve(nil, "/")))

		assert.Contains(t, out, `<span aria-current="page">Home</span>`)
		assert.NotContains(t, out, `<a href="/">`)
	})

	t.Run("nested", func(t *testing.T) {
		nav := testNav()
		out := render(t, Breadcrumbs(breadcrumbs.Resolve(&nav, "/docs/hooks/use-event")))

		assert.Contains(t, out, `<a href="/">Home</a>`)
		assert.Contains(t, out, `<a href="/docs/hooks">Hooks</a>`)
		assert.Contains(t, out, `<span aria-current="page">Use Event</span>`)
		assert.Less(t, strings.Index(out, "Home"), strings.Index(out, "Hooks"))
	})

	t.Run("escapes titles and unsafe hrefs", func(t *testing.T) {
		out := render(t, Breadcrumbs([]breadcrumbs.Crumb{
			{Title: "<b>x</b>", Href: "javascript:alert(1)"},
			{Title: "Last", Href: "/last", Current: true},
		}))

		assert.Contains(t, out, "&lt;b&gt;x&lt;/b&gt;")
		assert.NotContains(t, out, "javascript:")
	})
}

func TestLayout(t *testing.T) {
	body := Article(content.Rendered{
		HTML: "<h2 id=\"intro\">Intro</h2><p>Hello</p>",
		TOC:  []content.Heading{{Level: 2, ID: "intro", Text: "Intro"}, {Level: 3, ID: "deep", Text: "Deep"}},
	})

	out := render(t, Layout(LayoutProps{
		Title:      "Hooks",
		Body:       body,
		Sidebar:    Sidebar(testNav(), "/docs/hooks", ""),
		Crumbs:     []breadcrumbs.Crumb{{Title: "Hooks", Href: "/docs/hooks", Current: true}},
		LiveReload: true,
	}))

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>Hooks | React Ripple Effect</title>")
	assert.Contains(t, out, `<p>Hello</p>`)
	assert.Contains(t, out, `<a href="#intro">Intro</a>`)
	assert.Contains(t, out, `<li class="toc-nested"><a href="#deep">Deep</a></li>`)
	assert.Contains(t, out, `aria-label="breadcrumb"`)
	assert.Contains(t, out, `new WebSocket`)
}

func TestLayoutWithoutSidebarOrReload(t *testing.T) {
	out := render(t, Layout(LayoutProps{Body: NotFound("/docs/<missing>")}))

	assert.Contains(t, out, "<title>React Ripple Effect</title>")
	assert.Contains(t, out, `<main class="page">`)
	assert.Contains(t, out, "/docs/&lt;missing&gt;")
	assert.NotContains(t, out, "WebSocket")
}

func TestLanding(t *testing.T) {
	size, gzip := int64(4096), int64(1536)
	cards := features.Combine(features.Defaults(), features.BundleSize("@protoworx/react-ripple-effect", &size, &gzip))

	out := render(t, Landing(LandingProps{
		Package:  "@protoworx/react-ripple-effect",
		RepoURL:  "https://github.com/RandyGlasgow/react-ripple-effect",
		Features: cards,
		Repo: &stats.RepoStats{
			Repository: stats.Repository{Stars: 12},
			Package:    &stats.PackageInfo{Name: "x", Version: "0.0.6"},
		},
		Bundle:    &stats.BundleStats{Size: size, Gzip: gzip},
		ShowStats: true,
	}))

	assert.Contains(t, out, "npm install @protoworx/react-ripple-effect")
	assert.Contains(t, out, "12 stars")
	assert.Contains(t, out, "v0.0.6")
	assert.Contains(t, out, "Tiny Bundle Size")
	assert.Contains(t, out, "Debounce &amp; Throttle")
	assert.Contains(t, out, "Gzipped: 1.5 KB")
	assert.Contains(t, out, "View on Bundlephobia")
}

func TestLandingWithoutStats(t *testing.T) {
	out := render(t, Landing(LandingProps{Package: "pkg", Features: features.Defaults()}))

	assert.NotContains(t, out, "stars")
	assert.NotContains(t, out, "Gzipped")
	assert.NotContains(t, out, "View on GitHub")
}
