package navigation

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"

	"github.com/protoworx/rippledocs/internal/logging"
)

// DefaultBasePath is the URL prefix every navigation URL lives under.
const DefaultBasePath = "/docs"

// DocumentationTitle names the implicit section that collects standalone
// content files.
const DocumentationTitle = "Documentation"

// Builder scans a content tree and produces its Navigation.
//
// Entries are visited in the order the filesystem lists them. The builder
// does not sort: when a directory has several content files and none is a
// page file, the first one listed becomes the primary file, and that order
// may differ between platforms.
type Builder struct {
	fsys     fs.FS
	basePath string
	logger   logging.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithBasePath sets the URL prefix. Trailing slashes are not added.
func WithBasePath(basePath string) Option {
	return func(b *Builder) {
		b.basePath = basePath
	}
}

// WithLogger sets the logger read failures are reported to.
func WithLogger(logger logging.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBuilder creates a builder over fsys, rooted at ".".
func NewBuilder(fsys fs.FS, opts ...Option) *Builder {
	b := &Builder{
		fsys:     fsys,
		basePath: DefaultBasePath,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.WithComponent("navigation")

	return b
}

// BuildDir builds the navigation of the directory at root.
func BuildDir(ctx context.Context, root string, opts ...Option) Navigation {
	return NewBuilder(os.DirFS(root), opts...).Build(ctx)
}

// Build reads the content tree and returns its navigation. It never fails:
// unreadable directories below the root are skipped, and an unreadable root
// yields an empty navigation.
func (b *Builder) Build(ctx context.Context) Navigation {
	perf := logging.StartOperation(b.logger, "build_navigation")

	sections, err := b.scanDir(ctx, ".", "")
	if err != nil {
		b.logger.Error(ctx, err, "Error scanning docs directory")
		perf.End(ctx, "sections", 0)
		return Empty()
	}
	if sections == nil {
		sections = []NavSection{}
	}

	perf.End(ctx, "sections", len(sections))

	return Navigation{NavMain: sections}
}

// scanDir returns the sections found under dir, whose path relative to the
// content root is rel. The only error returned is a failure to list dir
// itself.
func (b *Builder) scanDir(ctx context.Context, dir, rel string) ([]NavSection, error) {
	entries, err := b.readDir(dir)
	if err != nil {
		return nil, err
	}
	dirs, files := partition(entries)

	var sections []NavSection
	for _, d := range dirs {
		sections = append(sections, b.directorySections(ctx, dir, rel, d.Name())...)
	}

	for _, f := range files {
		if !isContentFile(f.Name()) {
			continue
		}
		name := baseName(f.Name())

		if len(sections) == 0 || len(sections[len(sections)-1].Items) > 0 {
			sections = append(sections, NavSection{
				Title: DocumentationTitle,
				URL:   b.basePath,
				Items: []NavItem{},
			})
		}
		last := &sections[len(sections)-1]
		last.Items = append(last.Items, NavItem{
			Title: TitleCase(name),
			URL:   b.url(rel, name),
		})
	}

	return sections, nil
}

// directorySections returns what the sub-directory name of parent
// contributes: its own section followed by the sections of nested
// directories that carry their own content, or, when it has no content file,
// the sections discovered beneath it.
func (b *Builder) directorySections(ctx context.Context, parent, parentRel, name string) []NavSection {
	dir := path.Join(parent, name)
	rel := joinRel(parentRel, name)

	entries, err := b.readDir(dir)
	if err != nil {
		b.logger.Warn(ctx, err, "Skipping unreadable directory", "dir", dir)
		return nil
	}
	subDirs, files := partition(entries)
	content := contentFiles(files)

	if len(content) == 0 {
		nested, err := b.scanDir(ctx, dir, rel)
		if err != nil {
			b.logger.Warn(ctx, err, "Skipping unreadable directory", "dir", dir)
			return nil
		}
		return nested
	}

	section, independent := b.pageSection(ctx, dir, rel, name, content, subDirs)

	return append([]NavSection{section}, independent...)
}

// pageSection builds the section of a directory that has content files.
// Nested directories without content are flattened into the section's items;
// nested directories with content are returned as separate sections.
func (b *Builder) pageSection(
	ctx context.Context,
	dir, rel, name string,
	content []fs.DirEntry,
	subDirs []fs.DirEntry,
) (NavSection, []NavSection) {
	primary := content[0]
	for _, f := range content {
		if isPageFile(f.Name()) {
			primary = f
			break
		}
	}

	dirURL := b.url(rel, "")
	mainName := baseName(primary.Name())
	mainURL := dirURL
	mainTitle := TitleCase(name)
	if !isPageFile(primary.Name()) {
		mainURL = dirURL + "/" + mainName
		mainTitle = TitleCase(mainName)
	}

	items := make([]NavItem, 0)
	for _, title := range b.exampleTitles(ctx, path.Join(dir, primary.Name())) {
		items = append(items, NavItem{
			Title: title,
			URL:   mainURL + "#" + Slug(title),
		})
	}

	for _, f := range content {
		if f.Name() == primary.Name() {
			continue
		}
		fileName := baseName(f.Name())
		items = append(items, NavItem{
			Title: TitleCase(fileName),
			URL:   dirURL + "/" + fileName,
		})
	}

	var independent []NavSection
	for _, nd := range subDirs {
		ndPath := path.Join(dir, nd.Name())
		ndRel := joinRel(rel, nd.Name())

		entries, err := b.readDir(ndPath)
		if err != nil {
			b.logger.Warn(ctx, err, "Skipping unreadable directory", "dir", ndPath)
			continue
		}
		_, ndFiles := partition(entries)
		if len(contentFiles(ndFiles)) > 0 {
			independent = append(independent, b.directorySections(ctx, dir, rel, nd.Name())...)
			continue
		}

		nested, err := b.scanDir(ctx, ndPath, ndRel)
		if err != nil {
			b.logger.Warn(ctx, err, "Skipping unreadable directory", "dir", ndPath)
			continue
		}
		items = append(items, flattenItems(nested)...)
	}

	return NavSection{Title: mainTitle, URL: mainURL, Items: items}, independent
}

// exampleTitles reads file and returns its ExampleSection titles. A read
// failure is logged and yields no titles.
func (b *Builder) exampleTitles(ctx context.Context, file string) []string {
	data, err := fs.ReadFile(b.fsys, file)
	if err != nil {
		b.logger.Warn(ctx, err, "Error reading file", "file", file)
		return nil
	}

	return ExtractExampleTitles(string(data))
}

// readDir lists name in the order the underlying filesystem returns.
// fs.ReadDir is avoided because it sorts by name.
func (b *Builder) readDir(name string) ([]fs.DirEntry, error) {
	f, err := b.fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dir, ok := f.(fs.ReadDirFile)
	if !ok {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fmt.Errorf("not a directory")}
	}

	return dir.ReadDir(-1)
}

// url joins the base path, rel and an optional trailing name.
func (b *Builder) url(rel, name string) string {
	u := b.basePath
	if rel != "" {
		u += "/" + rel
	}
	if name != "" {
		u += "/" + name
	}

	return u
}

// flattenItems concatenates the items of sections, dropping the sections.
func flattenItems(sections []NavSection) []NavItem {
	var items []NavItem
	for _, s := range sections {
		items = append(items, s.Items...)
	}

	return items
}

func partition(entries []fs.DirEntry) (dirs, files []fs.DirEntry) {
	for _, e := range entries {
		switch {
		case e.IsDir():
			dirs = append(dirs, e)
		case e.Type().IsRegular():
			files = append(files, e)
		}
	}

	return dirs, files
}

func contentFiles(files []fs.DirEntry) []fs.DirEntry {
	var content []fs.DirEntry
	for _, f := range files {
		if isContentFile(f.Name()) {
			content = append(content, f)
		}
	}

	return content
}

func joinRel(rel, name string) string {
	if rel == "" {
		return name
	}

	return rel + "/" + name
}
