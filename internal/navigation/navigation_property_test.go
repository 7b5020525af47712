//go:build property
// +build property

package navigation

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var slugShape = regexp.MustCompile(`^([a-z0-9]+(-[a-z0-9]+)*)?$`)

// TestSlugProperties tests invariant properties of anchor slugs
func TestSlugProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("slug only contains single dashes between alphanumerics", prop.ForAll(
		func(title string) bool {
			return slugShape.MatchString(Slug(title))
		},
		gen.AnyString(),
	))

	properties.Property("slug is idempotent", prop.ForAll(
		func(title string) bool {
			once := Slug(title)
			return Slug(once) == once
		},
		gen.AnyString(),
	))

	properties.Property("title case keeps one word per separated part", prop.ForAll(
		func(parts []string) bool {
			name := strings.Join(parts, "-")
			return len(strings.Split(TitleCase(name), " ")) == len(parts)
		},
		gen.SliceOfN(4, gen.RegexMatch(`^[a-z0-9]{1,8}$`)),
	))

	properties.TestingRun(t)
}

// TestBuilderProperties tests invariant properties of navigation building
func TestBuilderProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("building twice yields equal navigation", prop.ForAll(
		func(dirs []string) bool {
			fsys := fstest.MapFS{}
			for i, d := range dirs {
				fsys[fmt.Sprintf("%s/page.mdx", d)] = &fstest.MapFile{
					Data: []byte(fmt.Sprintf(`<ExampleSection title="Example %d" />`, i)),
				}
			}
			builder := NewBuilder(fsys)
			first := builder.Build(context.Background())
			second := builder.Build(context.Background())
			return reflect.DeepEqual(first, second)
		},
		gen.SliceOfN(5, gen.RegexMatch(`^[a-z][a-z-]{0,10}$`)),
	))

	properties.Property("every url lives under the base path", prop.ForAll(
		func(dirs []string) bool {
			fsys := fstest.MapFS{}
			for _, d := range dirs {
				fsys[d+"/page.md"] = &fstest.MapFile{Data: []byte("page")}
				fsys[d+"/extra.md"] = &fstest.MapFile{Data: []byte("extra")}
			}
			nav := NewBuilder(fsys, WithBasePath("/docs")).Build(context.Background())
			for _, s := range nav.NavMain {
				if !strings.HasPrefix(s.URL, "/docs") {
					return false
				}
				for _, item := range s.Items {
					if !strings.HasPrefix(item.URL, "/docs/") {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOfN(3, gen.RegexMatch(`^[a-z]{1,6}(/[a-z]{1,6})?$`)),
	))

	properties.TestingRun(t)
}
