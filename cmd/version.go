package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/protoworx/rippledocs/internal/version"
	"github.com/spf13/cobra"
)

var (
	versionFormat   string
	versionShort    bool
	versionDetailed bool
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display version information for rippledocs including the version,
git commit, build time, Go version and target platform.

Examples:
  rippledocs version               # Default summary
  rippledocs version --short       # Version only
  rippledocs version --detailed    # Every known field
  rippledocs version --format json # Output as JSON`,
	RunE: runVersionCommand,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().StringVarP(&versionFormat, "format", "f", "text", "Output format (text, json)")
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Show short version only")
	versionCmd.Flags().BoolVar(&versionDetailed, "detailed", false, "Show detailed version information")
}

func runVersionCommand(cmd *cobra.Command, args []string) error {
	return writeVersion(cmd.OutOrStdout(), version.Get(), versionFormat, versionShort, versionDetailed)
}

func writeVersion(w io.Writer, info version.BuildInfo, format string, short, detailed bool) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(map[string]interface{}{
			"version":    info.Version,
			"git_commit": info.GitCommit,
			"build_time": info.BuildTime,
			"go_version": info.GoVersion,
			"platform":   info.Platform,
			"is_release": info.IsRelease(),
			"is_dirty":   info.Dirty,
		})
	case "text":
		switch {
		case short:
			_, err := fmt.Fprintln(w, info.Short())
			return err
		case detailed:
			buildType := "development"
			if info.IsRelease() {
				buildType = "release"
			}
			_, err := fmt.Fprintf(w, "%s\nBuild type: %s\n", info.Detailed(), buildType)
			return err
		default:
			_, err := fmt.Fprintf(w, "rippledocs %s\nGo: %s\nPlatform: %s\n", info.Short(), info.GoVersion, info.Platform)
			return err
		}
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json)", format)
	}
}
