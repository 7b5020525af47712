package content

import (
	"bufio"
	"strings"
	"testing"
	"testing/fstest"

	docserrors "github.com/protoworx/rippledocs/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	fsys := fstest.MapFS{
		"page.mdx":                     {Data: []byte("# Docs home")},
		"hooks/page.mdx":               {Data: []byte("# Hooks")},
		"hooks/page.md":                {Data: []byte("shadowed")},
		"hooks/use-event.md":           {Data: []byte("# Use event")},
		"guides/forms.mdx":             {Data: []byte("# Forms mdx")},
		"guides/forms.md":              {Data: []byte("# Forms md")},
		"reference/types.mdx/page.md":  {Data: []byte("# Dir named like a file")},
		"reference/types.mdx/notes.md": {Data: []byte("notes")},
	}
	r := NewResolver(fsys, "/docs")

	tests := []struct {
		path     string
		wantFile string
		wantURL  string
	}{
		{"/docs", "page.mdx", "/docs"},
		{"/docs/", "page.mdx", "/docs"},
		{"/docs/hooks", "hooks/page.mdx", "/docs/hooks"},
		{"/docs/hooks/use-event", "hooks/use-event.md", "/docs/hooks/use-event"},
		{"/docs/guides/forms", "guides/forms.mdx", "/docs/guides/forms"},
		{"/docs/reference/types.mdx", "reference/types.mdx/page.md", "/docs/reference/types.mdx"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			page, err := r.Resolve(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFile, page.Path)
			assert.Equal(t, tt.wantURL, page.URL)
			assert.NotEmpty(t, page.Source)
		})
	}
}

func TestResolveErrors(t *testing.T) {
	r := NewResolver(fstest.MapFS{"hooks/page.md": {Data: []byte("x")}}, "/docs")

	_, err := r.Resolve("/docs/missing")
	require.Error(t, err)
	assert.True(t, docserrors.IsNotFound(err))
	assert.Equal(t, 404, docserrors.HTTPStatus(err))

	_, err = r.Resolve("/docs/../secrets")
	require.Error(t, err)
	assert.Equal(t, 400, docserrors.HTTPStatus(err))

	_, err = r.Resolve("/blog/hooks")
	require.Error(t, err)
	assert.Equal(t, 400, docserrors.HTTPStatus(err))
}

func TestRender(t *testing.T) {
	source := `import { Demo } from "@/components/demo"
export const meta = { title: "Hooks" }

# Hooks

Intro with **bold** text.

## Basic Usage

<ExampleSection title="Event Bus & Friends" description="d" />

### Details

` + "```tsx\nimport x from \"y\"\nconst a = 1\n```\n"

	out, err := NewRenderer("").Render([]byte(source))
	require.NoError(t, err)

	assert.NotContains(t, out.HTML, "export const meta")
	assert.NotContains(t, out.HTML, `from "@/components/demo"`)
	assert.Contains(t, out.HTML, "<strong>bold</strong>")
	assert.Contains(t, out.HTML, `<h2 id="event-bus-friends">Event Bus &amp; Friends</h2>`)
	// import inside a fence is kept
	assert.Contains(t, out.HTML, "import")

	assert.Equal(t, "Hooks", out.Title)
	assert.Equal(t, []Heading{
		{Level: 2, ID: "basic-usage", Text: "Basic Usage"},
		{Level: 2, ID: "event-bus-friends", Text: "Event Bus & Friends"},
		{Level: 3, ID: "details", Text: "Details"},
	}, out.TOC)
}

func TestStripModuleStatements(t *testing.T) {
	in := "import A from 'a'\n# Title\n```js\nimport b from 'b'\n```\nexport default X\ntext\n"
	out, err := stripModuleStatements(in)
	require.NoError(t, err)
	assert.Equal(t, "# Title\n```js\nimport b from 'b'\n```\ntext\n", out)
}

func TestOverlongLine(t *testing.T) {
	src := []byte("# Title\n" + strings.Repeat("a", maxLineSize+1) + "\ntail\n")

	_, err := stripModuleStatements(string(src))
	assert.ErrorIs(t, err, bufio.ErrTooLong)

	_, err = NewRenderer("").Render(src)
	assert.ErrorIs(t, err, bufio.ErrTooLong)

	// Terminal output keeps the whole page instead of truncating it.
	assert.True(t, strings.HasSuffix(Markdown(src), "tail\n"))
}

func TestMarkdown(t *testing.T) {
	in := "import A from 'a'\n# Hooks\n<ExampleSection title=\"Basic Usage\">\nbody\n</ExampleSection>\n"

	out := Markdown([]byte(in))

	assert.NotContains(t, out, "import A")
	assert.NotContains(t, out, "ExampleSection")
	assert.Contains(t, out, "## Basic Usage\n")
	assert.Less(t, strings.Index(out, "## Basic Usage"), strings.Index(out, "body"))
}

func TestOutline(t *testing.T) {
	title, toc := Outline(`<h1>First <em>Title</em></h1><h1>Second</h1><h2>No id</h2><h3 id="x">  X   marks </h3>`)

	assert.Equal(t, "First Title", title)
	assert.Equal(t, []Heading{{Level: 3, ID: "x", Text: "X marks"}}, toc)

	title, toc = Outline("")
	assert.Empty(t, title)
	assert.Empty(t, toc)
}
