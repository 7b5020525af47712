// Package content locates documentation pages in the content directory and
// renders their markdown to HTML.
package content

import (
	"errors"
	"fmt"
	"io/fs"
	"path"

	docserrors "github.com/protoworx/rippledocs/internal/errors"
	"github.com/protoworx/rippledocs/internal/navigation"
	"github.com/protoworx/rippledocs/internal/validation"
)

// Page is a located source file.
type Page struct {
	// URL is the request path the page was resolved from, without a
	// trailing slash.
	URL string
	// Path is the slash-separated file path inside the content FS.
	Path   string
	Source []byte
}

// Resolver maps request paths to files of a content FS.
type Resolver struct {
	fsys     fs.FS
	basePath string
}

func NewResolver(fsys fs.FS, basePath string) *Resolver {
	if basePath == "" {
		basePath = navigation.DefaultBasePath
	}
	return &Resolver{fsys: fsys, basePath: basePath}
}

// Resolve finds the page for urlPath. A directory URL prefers its page file;
// otherwise the URL names a file directly, .mdx before .md.
func (r *Resolver) Resolve(urlPath string) (Page, error) {
	rel, err := validation.DocPath(r.basePath, urlPath)
	if err != nil {
		return Page{}, docserrors.NewValidationError("INVALID_DOC_PATH", "Invalid documentation path").
			WithContext("path", urlPath).
			WithContext("reason", err.Error())
	}

	url := r.basePath
	if rel != "." {
		url = path.Join(r.basePath, rel)
	}

	for _, candidate := range candidates(rel) {
		info, err := fs.Stat(r.fsys, candidate)
		if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
			continue
		}

		var data []byte
		if err == nil {
			data, err = fs.ReadFile(r.fsys, candidate)
		}
		if err != nil {
			return Page{}, docserrors.NewIOError("PAGE_READ", "Failed to read page", err).WithContext("file", candidate)
		}

		return Page{URL: url, Path: candidate, Source: data}, nil
	}

	return Page{}, docserrors.NewNotFoundError("PAGE_NOT_FOUND", fmt.Sprintf("No page at %s", url)).WithContext("path", urlPath)
}

func candidates(rel string) []string {
	if rel == "." {
		return []string{"page.mdx", "page.md"}
	}

	return []string{
		path.Join(rel, "page.mdx"),
		path.Join(rel, "page.md"),
		rel + ".mdx",
		rel + ".md",
	}
}
