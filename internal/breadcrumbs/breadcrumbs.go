// Package breadcrumbs resolves the breadcrumb trail of a request path
// against the documentation navigation.
package breadcrumbs

import (
	"strings"

	"github.com/protoworx/rippledocs/internal/navigation"
)

// HomeTitle is the label of the root crumb.
const HomeTitle = "Home"

// Crumb is one step of a breadcrumb trail. The Current crumb is rendered as
// plain text, every other crumb as a link to Href.
type Crumb struct {
	Title   string `json:"title"`
	Href    string `json:"href"`
	Current bool   `json:"current"`
}

// Resolve returns the trail for path.
//
// The root path resolves to a single current Home crumb. Any other path is
// walked one segment at a time: a prefix found in nav contributes the
// navigation's title and URL, an unmatched last segment contributes its
// title-cased name, and unmatched interior segments are skipped so that no
// crumb links to a page that does not exist. With a nil nav every segment is
// title-cased. The Home link that precedes a non-root trail is left to the
// renderer.
func Resolve(nav *navigation.Navigation, path string) []Crumb {
	segments := splitPath(path)
	if len(segments) == 0 {
		return []Crumb{{Title: HomeTitle, Href: "/", Current: true}}
	}

	crumbs := make([]Crumb, 0, len(segments))
	for i, segment := range segments {
		prefix := "/" + strings.Join(segments[:i+1], "/")
		last := i == len(segments)-1

		if nav == nil {
			crumbs = append(crumbs, Crumb{Title: navigation.TitleCase(segment), Href: prefix})
			continue
		}

		if found, ok := nav.Find(prefix); ok {
			crumbs = append(crumbs, Crumb{Title: found.Title, Href: found.URL})
		} else if last {
			crumbs = append(crumbs, Crumb{Title: navigation.TitleCase(segment), Href: prefix})
		}
	}

	crumbs[len(crumbs)-1].Current = true

	return crumbs
}

// IsRoot reports whether path is the site root.
func IsRoot(path string) bool {
	return len(splitPath(path)) == 0
}

func splitPath(path string) []string {
	raw := strings.Split(path, "/")
	segments := make([]string, 0, len(raw))
	for _, s := range raw {
		if s != "" {
			segments = append(segments, s)
		}
	}

	return segments
}
