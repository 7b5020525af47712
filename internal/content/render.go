package content

import (
	"bufio"
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/protoworx/rippledocs/internal/navigation"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

var exampleTagLine = regexp.MustCompile(`(?m)^[ \t]*</?ExampleSection\b[^>\n]*>[ \t]*\n?`)

// maxLineSize bounds a single source line.
const maxLineSize = 4 << 20

// DefaultStyle is the chroma style used for fenced code blocks.
const DefaultStyle = "github"

// Rendered is the HTML of one page together with its outline.
type Rendered struct {
	HTML  string
	Title string
	TOC   []Heading
}

// Renderer turns page sources into HTML.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer returns a Renderer that highlights code with the named chroma
// style.
func NewRenderer(style string) *Renderer {
	if style == "" {
		style = DefaultStyle
	}

	return &Renderer{md: goldmark.New(
		goldmark.WithExtensions(extension.GFM, highlighting.NewHighlighting(highlighting.WithStyle(style))),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		// Pages are trusted repository content and embed example components
		// as raw HTML.
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)}
}

// Render converts source to HTML. MDX import and export statements are
// dropped, and every ExampleSection gets an anchor heading whose id matches
// the navigation anchor built for it.
func (r *Renderer) Render(source []byte) (Rendered, error) {
	stripped, err := stripModuleStatements(string(source))
	if err != nil {
		return Rendered{}, fmt.Errorf("prepare markdown: %w", err)
	}
	prepared := insertExampleAnchors(stripped)

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(prepared), &buf); err != nil {
		return Rendered{}, fmt.Errorf("render markdown: %w", err)
	}

	out := buf.String()
	title, toc := Outline(out)

	return Rendered{HTML: out, Title: title, TOC: toc}, nil
}

// stripModuleStatements removes top-level MDX import/export lines, leaving
// fenced code untouched. It fails when a line exceeds maxLineSize.
func stripModuleStatements(src string) (string, error) {
	var (
		out     strings.Builder
		inFence bool
		fence   string
	)

	sc := bufio.NewScanner(strings.NewReader(src))
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)

		switch {
		case inFence:
			if strings.HasPrefix(trimmed, fence) {
				inFence = false
			}
		case strings.HasPrefix(trimmed, "```"), strings.HasPrefix(trimmed, "~~~"):
			inFence = true
			fence = trimmed[:3]
		case strings.HasPrefix(line, "import "), strings.HasPrefix(line, "export "):
			continue
		}

		out.WriteString(line)
		out.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return "", err
	}

	return out.String(), nil
}

// insertExampleAnchors puts an h2 anchor block in front of every
// ExampleSection marker.
func insertExampleAnchors(src string) string {
	offsets, titles := navigation.ExampleMarkerIndexes(src)
	if len(offsets) == 0 {
		return src
	}

	var out strings.Builder
	last := 0
	for i, off := range offsets {
		out.WriteString(src[last:off])
		fmt.Fprintf(&out, "\n\n<h2 id=\"%s\">%s</h2>\n\n", navigation.Slug(titles[i]), html.EscapeString(titles[i]))
		last = off
	}
	out.WriteString(src[last:])

	return out.String()
}

// Markdown returns source as plain markdown for terminal output. Module
// statements are dropped and every ExampleSection becomes a level two
// heading; tag lines of the component itself are removed. A source the
// module statement pass cannot scan is used as is.
func Markdown(source []byte) string {
	src, err := stripModuleStatements(string(source))
	if err != nil {
		src = string(source)
	}

	offsets, titles := navigation.ExampleMarkerIndexes(src)
	var out strings.Builder
	last := 0
	for i, off := range offsets {
		out.WriteString(src[last:off])
		fmt.Fprintf(&out, "\n\n## %s\n\n", titles[i])
		last = off
	}
	out.WriteString(src[last:])

	return exampleTagLine.ReplaceAllString(out.String(), "")
}
