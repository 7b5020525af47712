package breadcrumbs

import (
	"testing"

	"github.com/protoworx/rippledocs/internal/navigation"
	"github.com/stretchr/testify/assert"
)

func testNavigation() *navigation.Navigation {
	return &navigation.Navigation{NavMain: []navigation.NavSection{
		{Title: "Getting Started", URL: "/docs/getting-started", Items: []navigation.NavItem{
			{Title: "Installation", URL: "/docs/getting-started#installation"},
		}},
		{Title: "Hooks", URL: "/docs/hooks", Items: []navigation.NavItem{
			{Title: "Use Event Listener", URL: "/docs/hooks/use-event-listener"},
		}},
	}}
}

func TestResolve(t *testing.T) {
	nav := testNavigation()

	tests := []struct {
		name string
		nav  *navigation.Navigation
		path string
		want []Crumb
	}{
		{
			name: "root is only home",
			nav:  nav,
			path: "/",
			want: []Crumb{{Title: "Home", Href: "/", Current: true}},
		},
		{
			name: "empty path is root",
			nav:  nav,
			path: "",
			want: []Crumb{{Title: "Home", Href: "/", Current: true}},
		},
		{
			name: "exact section match",
			nav:  nav,
			path: "/docs/getting-started",
			want: []Crumb{{Title: "Getting Started", Href: "/docs/getting-started", Current: true}},
		},
		{
			name: "item under matched section",
			nav:  nav,
			path: "/docs/hooks/use-event-listener",
			want: []Crumb{
				{Title: "Hooks", Href: "/docs/hooks"},
				{Title: "Use Event Listener", Href: "/docs/hooks/use-event-listener", Current: true},
			},
		},
		{
			name: "unmatched last segment is title cased",
			nav:  nav,
			path: "/docs/hooks/use_event-bus",
			want: []Crumb{
				{Title: "Hooks", Href: "/docs/hooks"},
				{Title: "Use Event Bus", Href: "/docs/hooks/use_event-bus", Current: true},
			},
		},
		{
			name: "trailing slash ignored",
			nav:  nav,
			path: "/docs/hooks/",
			want: []Crumb{{Title: "Hooks", Href: "/docs/hooks", Current: true}},
		},
		{
			name: "nil navigation title cases every segment",
			nav:  nil,
			path: "/docs/multi-step",
			want: []Crumb{
				{Title: "Docs", Href: "/docs"},
				{Title: "Multi Step", Href: "/docs/multi-step", Current: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.nav, tt.path))
		})
	}
}

func TestIsRoot(t *testing.T) {
	assert.True(t, IsRoot("/"))
	assert.True(t, IsRoot("//"))
	assert.False(t, IsRoot("/docs"))
}
