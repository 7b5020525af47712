package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/protoworx/rippledocs/internal/config"
	"github.com/protoworx/rippledocs/internal/logging"
	"github.com/protoworx/rippledocs/internal/navigation"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var navCmd = &cobra.Command{
	Use:     "nav",
	Aliases: []string{"n"},
	Short:   "Print the documentation navigation",
	Long: `Build the sidebar navigation from the content directory and print it.

Examples:
  rippledocs nav                  # Sections and items as a table
  rippledocs nav -o json          # The /api/navigation payload
  rippledocs nav -o yaml`,
	PreRun: func(cmd *cobra.Command, args []string) {
		SetViperBindings(cmd, map[string]string{"content": "content.root"})
	},
	RunE: runNav,
}

var navFlags *StandardFlags

func init() {
	rootCmd.AddCommand(navCmd)

	navFlags = AddStandardFlags(navCmd, "output")
	navCmd.Flags().String("content", config.DefaultContentRoot, "Content directory")
}

func runNav(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	nav := buildNavigation(cmd.Context(), cfg, logger)
	return writeNavigation(cmd.OutOrStdout(), nav, navFlags.OutputFormat)
}

func buildNavigation(ctx context.Context, cfg *config.Config, logger logging.Logger) navigation.Navigation {
	if ctx == nil {
		ctx = context.Background()
	}
	return navigation.BuildDir(ctx, cfg.Content.Root,
		navigation.WithBasePath(cfg.Content.BasePath),
		navigation.WithLogger(logger),
	)
}

func writeNavigation(w io.Writer, nav navigation.Navigation, format string) error {
	switch strings.ToLower(format) {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(nav)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(nav); err != nil {
			return err
		}
		return encoder.Close()
	case "table", "":
		return writeNavigationTable(w, nav)
	default:
		return ValidateFormat(format, outputFormats)
	}
}

func writeNavigationTable(w io.Writer, nav navigation.Navigation) error {
	if len(nav.NavMain) == 0 {
		_, err := fmt.Fprintln(w, "No documentation pages found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tURL")
	for _, section := range nav.NavMain {
		fmt.Fprintf(tw, "%s\t%s\n", section.Title, section.URL)
		for _, item := range section.Items {
			fmt.Fprintf(tw, "  %s\t%s\n", item.Title, item.URL)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n%d sections, %d items\n", len(nav.NavMain), nav.ItemCount())
	return err
}
