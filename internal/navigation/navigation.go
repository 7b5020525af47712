// Package navigation builds the documentation sidebar model from a content
// directory.
//
// A directory holding a primary content file (page.mdx, page.md or the first
// .md/.mdx file listed) becomes a NavSection. The primary file's
// <ExampleSection title="..."> markers become anchor items, sibling content
// files become page items, and directories without content are flattened
// into whatever contains them. The result is recomputed from the filesystem
// on every call and shares nothing with previous results.
package navigation

// NavItem is a single link inside a section: a page or an in-page anchor.
type NavItem struct {
	Title string `json:"title" yaml:"title"`
	URL   string `json:"url" yaml:"url"`
}

// NavSection is a top-level sidebar entry for one directory with a page.
type NavSection struct {
	Title string    `json:"title" yaml:"title"`
	URL   string    `json:"url" yaml:"url"`
	Items []NavItem `json:"items" yaml:"items"`
}

// Navigation is the root of the sidebar model.
type Navigation struct {
	NavMain []NavSection `json:"navMain" yaml:"navMain"`
}

// Empty returns the navigation used when the content root cannot be read.
func Empty() Navigation {
	return Navigation{NavMain: []NavSection{}}
}

// Find returns the first section or item whose URL equals url. Each section
// is checked before its own items.
func (n *Navigation) Find(url string) (NavItem, bool) {
	if n == nil {
		return NavItem{}, false
	}
	for _, section := range n.NavMain {
		if section.URL == url {
			return NavItem{Title: section.Title, URL: section.URL}, true
		}
		for _, item := range section.Items {
			if item.URL == url {
				return item, true
			}
		}
	}

	return NavItem{}, false
}

// ItemCount returns the number of items across all sections.
func (n *Navigation) ItemCount() int {
	if n == nil {
		return 0
	}
	count := 0
	for _, section := range n.NavMain {
		count += len(section.Items)
	}

	return count
}
