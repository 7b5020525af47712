// Package cmd provides the command-line interface for rippledocs.
//
// Configuration System:
//
//	Values are read from several sources, highest priority first:
//	1. Command-line flags (--config, --port, etc.)
//	2. Individual environment variables (RIPPLEDOCS_SERVER_PORT, etc.)
//	3. The configuration file: --config, else RIPPLEDOCS_CONFIG_FILE, else
//	   .rippledocs.yml in the working directory
//
// Environment Variables:
//
//	RIPPLEDOCS_CONFIG_FILE: Path to a custom configuration file
//	RIPPLEDOCS_SERVER_PORT: Override server port
//	RIPPLEDOCS_CONTENT_ROOT: Override the content directory
//	RIPPLEDOCS_CACHE_DRIVER: memory or sqlite
//	And every other key, following the RIPPLEDOCS_<SECTION>_<OPTION> pattern
package cmd

import (
	"fmt"
	"os"

	"github.com/protoworx/rippledocs/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rippledocs",
	Short: "Documentation server for React Ripple Effect",
	Long: `rippledocs serves the React Ripple Effect documentation site from a
directory of markdown and MDX pages.

Key Features:
  • Sidebar navigation built from the content directory on every request
  • Breadcrumbs and page outlines
  • GitHub, npm and Bundlephobia stats with a TTL cache
  • Live reload while editing content

Quick Start:
  rippledocs serve                 Start the documentation server
  rippledocs nav                   Print the navigation tree
  rippledocs cat /docs/hooks       Show a page in the terminal
  rippledocs stats                 Fetch repository and bundle stats

Command Aliases:
  serve (s), nav (n)`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .rippledocs.yml, can also use RIPPLEDOCS_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// initConfig points viper at the configuration file and the environment.
//
// The file is taken from the --config flag, then RIPPLEDOCS_CONFIG_FILE,
// then .rippledocs.yml in the working directory. A missing file is not an
// error. Every key can be overridden from the environment with the
// RIPPLEDOCS_ prefix, dots replaced by underscores.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("RIPPLEDOCS_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".rippledocs")
	}

	if err := config.BindEnvironment(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
