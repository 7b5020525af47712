package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	docserrors "github.com/protoworx/rippledocs/internal/errors"
	"github.com/protoworx/rippledocs/internal/features"
	"github.com/protoworx/rippledocs/internal/stats"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Fetch repository, bundle and version stats",
	Long: `Fetch the stats shown on the landing page: GitHub repository data,
the Bundlephobia bundle size and the published package version. Results go
through the configured stat cache.

Examples:
  rippledocs stats
  rippledocs stats --format json`,
	RunE: runStats,
}

var (
	statsFormat  string
	statsTimeout time.Duration
)

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVarP(&statsFormat, "format", "f", "text", "Output format (text, json)")
	statsCmd.Flags().DurationVar(&statsTimeout, "timeout", 30*time.Second, "Overall time limit")
	AddFlagValidation(statsCmd, "format", func(format string) error {
		return ValidateFormat(format, []string{"text", "json"})
	})
}

// statsReport is what the stats command prints. A part that could not be
// fetched is nil and its error is kept instead.
type statsReport struct {
	Repository *stats.RepoStats   `json:"repository,omitempty"`
	Bundle     *stats.BundleStats `json:"bundle,omitempty"`
	Version    string             `json:"version"`
	Errors     map[string]string  `json:"errors,omitempty"`
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	service, store, err := newStatsService(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, statsTimeout)
	defer cancel()

	report := collectStats(ctx, service)
	if err := writeStats(cmd.OutOrStdout(), report, statsFormat); err != nil {
		return err
	}

	if len(report.Errors) == 3 {
		return fmt.Errorf("no stats could be fetched")
	}
	return nil
}

func collectStats(ctx context.Context, source stats.Source) statsReport {
	report := statsReport{Version: stats.FallbackVersion, Errors: map[string]string{}}

	if repo, err := source.Repository(ctx); err != nil {
		report.Errors["repository"] = docserrors.PublicMessage(err)
	} else {
		report.Repository = &repo
	}

	if bundle, err := source.Bundle(ctx); err != nil {
		report.Errors["bundle"] = docserrors.PublicMessage(err)
	} else {
		report.Bundle = &bundle
	}

	if v, err := source.Version(ctx); err != nil {
		report.Errors["version"] = docserrors.PublicMessage(err)
	} else {
		report.Version = v
	}

	return report
}

func writeStats(w io.Writer, report statsReport, format string) error {
	if strings.EqualFold(format, "json") {
		// The README is too long for a summary.
		if report.Repository != nil {
			repo := *report.Repository
			repo.Repository.Readme = nil
			report.Repository = &repo
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	}

	var b strings.Builder
	if r := report.Repository; r != nil {
		fmt.Fprintf(&b, "Stars:        %s\n", humanize.Comma(int64(r.Repository.Stars)))
		fmt.Fprintf(&b, "Forks:        %s\n", humanize.Comma(int64(r.Repository.Forks)))
		if r.Repository.Language != nil {
			fmt.Fprintf(&b, "Language:     %s\n", *r.Repository.Language)
		}
		if r.Repository.License != nil {
			fmt.Fprintf(&b, "License:      %s\n", *r.Repository.License)
		}
		if len(r.Repository.Topics) > 0 {
			fmt.Fprintf(&b, "Topics:       %s\n", strings.Join(r.Repository.Topics, ", "))
		}
		if r.Package != nil {
			fmt.Fprintf(&b, "Package:      %s@%s\n", r.Package.Name, r.Package.Version)
		}
	}
	if bundle := report.Bundle; bundle != nil {
		fmt.Fprintf(&b, "Minified:     %s\n", features.FormatBytes(bundle.Size))
		fmt.Fprintf(&b, "Gzipped:      %s\n", features.FormatBytes(bundle.Gzip))
		fmt.Fprintf(&b, "Dependencies: %d\n", bundle.DependencyCount)
	}
	fmt.Fprintf(&b, "Version:      %s\n", report.Version)

	for _, part := range []string{"repository", "bundle", "version"} {
		if msg, ok := report.Errors[part]; ok {
			fmt.Fprintf(&b, "%s unavailable: %s\n", part, msg)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
