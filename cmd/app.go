package cmd

import (
	"fmt"
	"os"

	"github.com/protoworx/rippledocs/internal/config"
	"github.com/protoworx/rippledocs/internal/logging"
	"github.com/protoworx/rippledocs/internal/statcache"
	"github.com/protoworx/rippledocs/internal/stats"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}

	return logging.NewLogger(&logging.LoggerConfig{
		Level:  level,
		Format: cfg.Logging.Format,
		Output: os.Stderr,
	}), nil
}

// newStatsService wires the upstream client behind the configured cache.
// The returned store must be closed by the caller.
func newStatsService(cfg *config.Config, logger logging.Logger) (*stats.Service, statcache.Store, error) {
	client, err := stats.NewClient(stats.Options{
		GitHubAPI:      cfg.Stats.GitHubAPI,
		RawContent:     cfg.Stats.RawContent,
		Bundlephobia:   cfg.Stats.Bundlephobia,
		Owner:          cfg.Stats.Owner,
		Repo:           cfg.Stats.Repo,
		Branch:         cfg.Stats.Branch,
		Package:        cfg.Stats.Package,
		PackageVersion: cfg.Stats.PackageVersion,
		Timeout:        cfg.Stats.Timeout,
		Logger:         logger,
	})
	if err != nil {
		return nil, nil, err
	}

	store, err := statcache.New(cfg.Cache.Driver, cfg.Cache.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open stat cache: %w", err)
	}

	cache := stats.NewCache(store, cfg.Cache.TTL, logger)
	return stats.NewService(client, cache), store, nil
}
