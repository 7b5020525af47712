package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/protoworx/rippledocs/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Start the documentation server",
	Long: `Start the documentation server. Pages are read from the content
directory on every request; with live reload enabled, open pages reload
when a markdown or MDX file changes.

Examples:
  rippledocs serve                       # Serve ./content/docs on localhost:3000
  rippledocs serve -p 8080 --host 0.0.0.0
  rippledocs serve --content ./docs --no-reload`,
	PreRun: func(cmd *cobra.Command, args []string) {
		SetViperBindings(cmd, map[string]string{
			"port":      "server.port",
			"host":      "server.host",
			"content":   "content.root",
			"no-reload": "server.no_reload",
		})
	},
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	AddStandardFlags(serveCmd, "server")
}

func runServe(cmd *cobra.Command, args []string) error {
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

	srv, err := server.New(server.Options{Config: cfg, Logger: logger, Stats: service})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Serving documentation at http://%s:%d%s\n", cfg.Server.Host, cfg.Server.Port, cfg.Content.BasePath)

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
