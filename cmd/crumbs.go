package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/protoworx/rippledocs/internal/breadcrumbs"
	"github.com/spf13/cobra"
)

var crumbsCmd = &cobra.Command{
	Use:   "crumbs <path>",
	Short: "Print the breadcrumb trail of a path",
	Long: `Resolve the breadcrumb trail of a request path against the current
navigation.

Examples:
  rippledocs crumbs /docs/hooks/use-event
  rippledocs crumbs / -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runCrumbs,
}

var crumbsFormat string

func init() {
	rootCmd.AddCommand(crumbsCmd)

	crumbsCmd.Flags().StringVarP(&crumbsFormat, "output", "o", "text", "Output format (text|json)")
	AddFlagValidation(crumbsCmd, "output", func(format string) error {
		return ValidateFormat(format, []string{"text", "json"})
	})
}

func runCrumbs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	nav := buildNavigation(cmd.Context(), cfg, logger)
	return writeCrumbs(cmd.OutOrStdout(), breadcrumbs.Resolve(&nav, args[0]), crumbsFormat)
}

// writeCrumbs prints a trail. The text form starts with Home the way the
// page renders it.
func writeCrumbs(w io.Writer, crumbs []breadcrumbs.Crumb, format string) error {
	if strings.EqualFold(format, "json") {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(crumbs)
	}

	titles := make([]string, 0, len(crumbs)+1)
	if len(crumbs) != 1 || crumbs[0].Href != "/" {
		titles = append(titles, breadcrumbs.HomeTitle)
	}
	for _, c := range crumbs {
		titles = append(titles, c.Title)
	}

	_, err := fmt.Fprintln(w, strings.Join(titles, " > "))
	return err
}
