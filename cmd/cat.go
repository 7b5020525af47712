package cmd

import (
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/protoworx/rippledocs/internal/config"
	"github.com/protoworx/rippledocs/internal/content"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var catCmd = &cobra.Command{
	Use:   "cat <url>",
	Short: "Show a documentation page in the terminal",
	Long: `Resolve a page the way the server does and print it. On a terminal the
markdown is rendered; otherwise it is printed as markdown.

Examples:
  rippledocs cat /docs/hooks
  rippledocs cat hooks/use-event      # Relative to the base path
  rippledocs cat /docs --raw          # The source file, untouched`,
	Args: cobra.ExactArgs(1),
	PreRun: func(cmd *cobra.Command, args []string) {
		SetViperBindings(cmd, map[string]string{"content": "content.root"})
	},
	RunE: runCat,
}

var catRaw bool

func init() {
	rootCmd.AddCommand(catCmd)

	catCmd.Flags().BoolVar(&catRaw, "raw", false, "Print the page source without processing")
	catCmd.Flags().String("content", config.DefaultContentRoot, "Content directory")
}

func runCat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	resolver := content.NewResolver(os.DirFS(cfg.Content.Root), cfg.Content.BasePath)
	page, err := resolver.Resolve(docURL(cfg.Content.BasePath, args[0]))
	if err != nil {
		return fmt.Errorf("cat %q: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	if catRaw {
		_, err := out.Write(page.Source)
		return err
	}

	markdown := content.Markdown(page.Source)
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		rendered, renderErr := glamour.Render(markdown, "dark")
		if renderErr == nil {
			_, err := io.WriteString(out, rendered)
			return err
		}
	}

	_, err = io.WriteString(out, markdown)
	return err
}

// docURL turns the argument of cat into a request path under basePath.
func docURL(basePath, arg string) string {
	if arg == basePath || strings.HasPrefix(arg, basePath+"/") {
		return arg
	}
	trimmed := strings.Trim(arg, "/")
	if trimmed == "" {
		return basePath
	}
	return path.Join(basePath, trimmed)
}
