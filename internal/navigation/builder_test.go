package navigation

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/protoworx/rippledocs/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingFS refuses to open the listed paths, standing in for permission
// errors.
type failingFS struct {
	fs.FS
	deny map[string]bool
}

func (f failingFS) Open(name string) (fs.File, error) {
	if f.deny[name] {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
	}
	return f.FS.Open(name)
}

func file(content string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(content), Mode: 0o644}
}

func build(t *testing.T, fsys fs.FS) Navigation {
	t.Helper()
	return NewBuilder(fsys).Build(context.Background())
}

func TestBuildSinglePage(t *testing.T) {
	nav := build(t, fstest.MapFS{
		"getting-started/page.mdx": file("# Getting started\n"),
	})

	require.Len(t, nav.NavMain, 1)
	assert.Equal(t, NavSection{
		Title: "Getting Started",
		URL:   "/docs/getting-started",
		Items: []NavItem{},
	}, nav.NavMain[0])
}

func TestBuildExampleAnchors(t *testing.T) {
	content := `# Examples

<ExampleSection title="Alpha Case" description="first" />

Some prose.

<ExampleSection description='second' title='Beta-2'>
</ExampleSection>

<ExampleSection
  title="Gamma!!"
/>
`
	nav := build(t, fstest.MapFS{
		"examples/page.mdx": file(content),
	})

	require.Len(t, nav.NavMain, 1)
	assert.Equal(t, []NavItem{
		{Title: "Alpha Case", URL: "/docs/examples#alpha-case"},
		{Title: "Beta-2", URL: "/docs/examples#beta-2"},
		{Title: "Gamma!!", URL: "/docs/examples#gamma"},
	}, nav.NavMain[0].Items)
}

func TestBuildPromotesSectionsOfContentlessDirectory(t *testing.T) {
	nav := build(t, fstest.MapFS{
		"guides/advanced/page.md": file("advanced"),
	})

	require.Len(t, nav.NavMain, 1)
	assert.Equal(t, "Advanced", nav.NavMain[0].Title)
	assert.Equal(t, "/docs/guides/advanced", nav.NavMain[0].URL)
}

func TestBuildPrimaryFileSelection(t *testing.T) {
	t.Run("page file wins over earlier files", func(t *testing.T) {
		nav := build(t, fstest.MapFS{
			"hooks/a-first.md": file("a"),
			"hooks/page.mdx":   file("page"),
		})

		require.Len(t, nav.NavMain, 1)
		section := nav.NavMain[0]
		assert.Equal(t, "Hooks", section.Title)
		assert.Equal(t, "/docs/hooks", section.URL)
		assert.Equal(t, []NavItem{{Title: "A First", URL: "/docs/hooks/a-first"}}, section.Items)
	})

	t.Run("first listed file without page file", func(t *testing.T) {
		nav := build(t, fstest.MapFS{
			"api/reference.mdx": file("ref"),
			"api/types.md":      file("types"),
		})

		require.Len(t, nav.NavMain, 1)
		section := nav.NavMain[0]
		assert.Equal(t, "Reference", section.Title)
		assert.Equal(t, "/docs/api/reference", section.URL)
		assert.Equal(t, []NavItem{{Title: "Types", URL: "/docs/api/types"}}, section.Items)
	})

	t.Run("anchors of non-page primary use its url", func(t *testing.T) {
		nav := build(t, fstest.MapFS{
			"api/reference.mdx": file(`<ExampleSection title="Emit Events" />`),
		})

		require.Len(t, nav.NavMain, 1)
		assert.Equal(t, []NavItem{
			{Title: "Emit Events", URL: "/docs/api/reference#emit-events"},
		}, nav.NavMain[0].Items)
	})
}

func TestBuildItemOrder(t *testing.T) {
	nav := build(t, fstest.MapFS{
		"hooks/page.mdx":           file(`<ExampleSection title="Basic Usage" />`),
		"hooks/use-event.mdx":      file("use event"),
		"hooks/more/deep/page.mdx": file("deep"),
		"hooks/more/deep/extra.md": file("extra"),
		"hooks/more/zz/page.md":    file(`<ExampleSection title="Zed" />`),
	})

	require.Len(t, nav.NavMain, 1)
	assert.Equal(t, []NavItem{
		{Title: "Basic Usage", URL: "/docs/hooks#basic-usage"},
		{Title: "Use Event", URL: "/docs/hooks/use-event"},
		{Title: "Extra", URL: "/docs/hooks/more/deep/extra"},
		{Title: "Zed", URL: "/docs/hooks/more/zz#zed"},
	}, nav.NavMain[0].Items)
}

func TestBuildNestedPageDirectoryIsIndependentSection(t *testing.T) {
	nav := build(t, fstest.MapFS{
		"hooks/page.mdx":          file("hooks"),
		"hooks/advanced/page.mdx": file(`<ExampleSection title="Throttle" />`),
	})

	require.Len(t, nav.NavMain, 2)
	assert.Equal(t, NavSection{Title: "Hooks", URL: "/docs/hooks", Items: []NavItem{}}, nav.NavMain[0])
	assert.Equal(t, NavSection{
		Title: "Advanced",
		URL:   "/docs/hooks/advanced",
		Items: []NavItem{{Title: "Throttle", URL: "/docs/hooks/advanced#throttle"}},
	}, nav.NavMain[1])
}

func TestBuildStandaloneFiles(t *testing.T) {
	t.Run("each file opens a section once the last has items", func(t *testing.T) {
		nav := build(t, fstest.MapFS{
			"faq.md":   file("faq"),
			"intro.md": file("intro"),
		})

		assert.Equal(t, []NavSection{
			{Title: "Documentation", URL: "/docs", Items: []NavItem{{Title: "Faq", URL: "/docs/faq"}}},
			{Title: "Documentation", URL: "/docs", Items: []NavItem{{Title: "Intro", URL: "/docs/intro"}}},
		}, nav.NavMain)
	})

	t.Run("file joins a preceding section without items", func(t *testing.T) {
		nav := build(t, fstest.MapFS{
			"setup/page.md": file("setup"),
			"intro.md":      file("intro"),
		})

		require.Len(t, nav.NavMain, 1)
		assert.Equal(t, "Setup", nav.NavMain[0].Title)
		assert.Equal(t, []NavItem{{Title: "Intro", URL: "/docs/intro"}}, nav.NavMain[0].Items)
	})

	t.Run("non-content files are ignored", func(t *testing.T) {
		nav := build(t, fstest.MapFS{
			"logo.png":        file("png"),
			"assets/site.css": file("css"),
		})

		assert.Empty(t, nav.NavMain)
		assert.NotNil(t, nav.NavMain)
	})
}

func TestBuildCustomBasePath(t *testing.T) {
	nav := NewBuilder(fstest.MapFS{
		"events/page.md": file("events"),
		"changelog.md":   file("log"),
	}, WithBasePath("/reference")).Build(context.Background())

	require.Len(t, nav.NavMain, 1)
	assert.Equal(t, "/reference/events", nav.NavMain[0].URL)
	assert.Equal(t, []NavItem{{Title: "Changelog", URL: "/reference/changelog"}}, nav.NavMain[0].Items)
}

func TestBuildIsIdempotent(t *testing.T) {
	fsys := fstest.MapFS{
		"getting-started/page.mdx":       file(`<ExampleSection title="Install" />`),
		"getting-started/quick-start.md": file("quick"),
		"guides/forms/page.mdx":          file("forms"),
		"intro.md":                       file("intro"),
	}
	builder := NewBuilder(fsys)

	first := builder.Build(context.Background())
	second := builder.Build(context.Background())

	assert.Equal(t, first, second)

	// Results do not alias each other.
	first.NavMain[0].Items[0].Title = "changed"
	assert.Equal(t, "Install", second.NavMain[0].Items[0].Title)
}

func TestBuildReadFailures(t *testing.T) {
	t.Run("unreadable root yields empty navigation", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.NewLogger(&logging.LoggerConfig{Level: logging.LevelDebug, Output: &buf})

		fsys := failingFS{FS: fstest.MapFS{"a/page.md": file("a")}, deny: map[string]bool{".": true}}
		nav := NewBuilder(fsys, WithLogger(logger)).Build(context.Background())

		assert.Equal(t, Empty(), nav)
		assert.Contains(t, buf.String(), "Error scanning docs directory")
		assert.Contains(t, buf.String(), "Operation completed")
		assert.Contains(t, buf.String(), "operation=build_navigation")
		assert.Contains(t, buf.String(), "sections=0")
	})

	t.Run("unreadable sub-directory keeps siblings", func(t *testing.T) {
		fsys := failingFS{
			FS: fstest.MapFS{
				"alpha/page.md":  file("a"),
				"secret/page.md": file("s"),
				"zeta/page.md":   file("z"),
			},
			deny: map[string]bool{"secret": true},
		}
		nav := build(t, fsys)

		require.Len(t, nav.NavMain, 2)
		assert.Equal(t, "/docs/alpha", nav.NavMain[0].URL)
		assert.Equal(t, "/docs/zeta", nav.NavMain[1].URL)
	})

	t.Run("unreadable primary file gives no anchors", func(t *testing.T) {
		fsys := failingFS{
			FS:   fstest.MapFS{"alpha/page.md": file(`<ExampleSection title="Hidden" />`)},
			deny: map[string]bool{"alpha/page.md": true},
		}
		nav := build(t, fsys)

		require.Len(t, nav.NavMain, 1)
		assert.Empty(t, nav.NavMain[0].Items)
	})

	t.Run("missing root directory on disk", func(t *testing.T) {
		nav := BuildDir(context.Background(), filepath.Join(t.TempDir(), "missing"))
		assert.Equal(t, Empty(), nav)
	})
}

func TestBuildDirOnDisk(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "state-sync"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "state-sync", "page.mdx"),
		[]byte(`<ExampleSection title="Local Storage Sync" />`),
		0o644,
	))

	nav := BuildDir(context.Background(), root)

	require.Len(t, nav.NavMain, 1)
	assert.Equal(t, NavSection{
		Title: "State Sync",
		URL:   "/docs/state-sync",
		Items: []NavItem{{Title: "Local Storage Sync", URL: "/docs/state-sync#local-storage-sync"}},
	}, nav.NavMain[0])
}

func TestNavigationFind(t *testing.T) {
	nav := &Navigation{NavMain: []NavSection{
		{Title: "Hooks", URL: "/docs/hooks", Items: []NavItem{
			{Title: "Use Event", URL: "/docs/hooks/use-event"},
		}},
	}}

	item, ok := nav.Find("/docs/hooks")
	require.True(t, ok)
	assert.Equal(t, "Hooks", item.Title)

	item, ok = nav.Find("/docs/hooks/use-event")
	require.True(t, ok)
	assert.Equal(t, "Use Event", item.Title)

	_, ok = nav.Find("/docs/missing")
	assert.False(t, ok)

	var nilNav *Navigation
	_, ok = nilNav.Find("/docs")
	assert.False(t, ok)
	assert.Equal(t, 1, nav.ItemCount())
}
