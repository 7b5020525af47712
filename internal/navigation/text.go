package navigation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	wordSeparator = regexp.MustCompile(`[-_]`)
	nonSlugRun    = regexp.MustCompile(`[^a-z0-9]+`)

	// exampleMarker matches the opening tag of an ExampleSection component and
	// captures its title attribute. Other attributes may precede title.
	exampleMarker = regexp.MustCompile(`<ExampleSection\s+[^>]*title=["']([^"']+)["']`)
)

// TitleCase turns a kebab-case or snake_case name into "Title Case". Every
// part gets its first rune upper-cased and the rest lower-cased; empty parts
// are kept, so "a--b" becomes "A  B".
func TitleCase(s string) string {
	upper := cases.Upper(language.Und)
	lower := cases.Lower(language.Und)

	parts := wordSeparator.Split(s, -1)
	for i, part := range parts {
		if part == "" {
			continue
		}
		_, size := utf8.DecodeRuneInString(part)
		parts[i] = upper.String(part[:size]) + lower.String(part[size:])
	}

	return strings.Join(parts, " ")
}

// Slug converts a title into an anchor id: lower-cased, runs of anything
// outside [a-z0-9] collapsed to "-", one leading and trailing "-" trimmed.
func Slug(s string) string {
	slug := nonSlugRun.ReplaceAllString(cases.Lower(language.Und).String(s), "-")
	slug = strings.TrimPrefix(slug, "-")

	return strings.TrimSuffix(slug, "-")
}

// ExtractExampleTitles returns the title of every ExampleSection marker in
// text, in order of appearance. Duplicates are kept. The match is textual;
// a marker whose title attribute is not closed yields nothing.
func ExtractExampleTitles(text string) []string {
	matches := exampleMarker.FindAllStringSubmatch(text, -1)
	titles := make([]string, 0, len(matches))
	for _, m := range matches {
		titles = append(titles, m[1])
	}

	return titles
}

// ExampleMarkerIndexes returns the start offset and title of every marker in
// text. Renderers use it to place anchor targets in front of each marker.
func ExampleMarkerIndexes(text string) (offsets []int, titles []string) {
	for _, m := range exampleMarker.FindAllStringSubmatchIndex(text, -1) {
		offsets = append(offsets, m[0])
		titles = append(titles, text[m[2]:m[3]])
	}

	return offsets, titles
}

// isContentFile reports whether name has a .md or .mdx extension.
func isContentFile(name string) bool {
	return strings.HasSuffix(name, ".mdx") || strings.HasSuffix(name, ".md")
}

// isPageFile reports whether name is the preferred primary file of a
// directory.
func isPageFile(name string) bool {
	return name == "page.mdx" || name == "page.md"
}

// baseName strips a trailing .mdx or .md extension.
func baseName(name string) string {
	if trimmed := strings.TrimSuffix(name, ".mdx"); trimmed != name {
		return trimmed
	}

	return strings.TrimSuffix(name, ".md")
}
