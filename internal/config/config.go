// Package config provides configuration management for rippledocs using
// Viper for loading from files, environment variables, and command-line
// flags.
//
// The configuration system supports YAML files, environment variable overrides
// with the RIPPLEDOCS_ prefix, defaults, and validation. It manages server
// settings, the content directory, the upstream stat sources, the stat cache,
// and development options like live reload.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Defaults applied by Load when a value is not configured.
const (
	DefaultPort              = 3000
	DefaultHost              = "localhost"
	DefaultContentRoot       = "./content/docs"
	DefaultBasePath          = "/docs"
	DefaultOwner             = "RandyGlasgow"
	DefaultRepo              = "react-ripple-effect"
	DefaultPackage           = "@protoworx/react-ripple-effect"
	DefaultPackageVersion    = "0.0.6"
	DefaultBranch            = "main"
	DefaultGitHubAPI         = "https://api.github.com"
	DefaultRawContent        = "https://raw.githubusercontent.com"
	DefaultBundlephobia      = "https://bundlephobia.com"
	DefaultCacheTTL          = time.Hour
	DefaultCacheDriver       = "memory"
	DefaultCachePath         = ".rippledocs/stats.db"
	DefaultRequestsPerMinute = 120
	DefaultBurst             = 30
	DefaultUpstreamTimeout   = 10 * time.Second
	DefaultShutdownTimeout   = 5 * time.Second
)

type Config struct {
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Content     ContentConfig     `yaml:"content" mapstructure:"content"`
	Stats       StatsConfig       `yaml:"stats" mapstructure:"stats"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Development DevelopmentConfig `yaml:"development" mapstructure:"development"`
	Logging     LoggingConfig     `yaml:"logging" mapstructure:"logging"`
}

type ServerConfig struct {
	Port            int             `yaml:"port" mapstructure:"port"`
	Host            string          `yaml:"host" mapstructure:"host"`
	AllowedOrigins  []string        `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	Environment     string          `yaml:"environment" mapstructure:"environment"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled" mapstructure:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
	Burst             int  `yaml:"burst" mapstructure:"burst"`
}

type ContentConfig struct {
	Root     string `yaml:"root" mapstructure:"root"`
	BasePath string `yaml:"base_path" mapstructure:"base_path"`
}

type StatsConfig struct {
	Owner          string        `yaml:"owner" mapstructure:"owner"`
	Repo           string        `yaml:"repo" mapstructure:"repo"`
	Branch         string        `yaml:"branch" mapstructure:"branch"`
	Package        string        `yaml:"package" mapstructure:"package"`
	PackageVersion string        `yaml:"package_version" mapstructure:"package_version"`
	GitHubAPI      string        `yaml:"github_api" mapstructure:"github_api"`
	RawContent     string        `yaml:"raw_content" mapstructure:"raw_content"`
	Bundlephobia   string        `yaml:"bundlephobia" mapstructure:"bundlephobia"`
	Timeout        time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

type CacheConfig struct {
	Driver string        `yaml:"driver" mapstructure:"driver"`
	Path   string        `yaml:"path" mapstructure:"path"`
	TTL    time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

type DevelopmentConfig struct {
	LiveReload bool `yaml:"live_reload" mapstructure:"live_reload"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// EnvPrefix prefixes every environment override.
const EnvPrefix = "RIPPLEDOCS"

// envKeys are bound one by one so Unmarshal sees an override even when no
// configuration file mentions the key.
var envKeys = []string{
	"server.port", "server.host", "server.allowed_origins", "server.environment",
	"server.shutdown_timeout", "server.rate_limit.enabled",
	"server.rate_limit.requests_per_minute", "server.rate_limit.burst",
	"content.root", "content.base_path",
	"stats.owner", "stats.repo", "stats.branch", "stats.package", "stats.package_version",
	"stats.github_api", "stats.raw_content", "stats.bundlephobia", "stats.timeout",
	"cache.driver", "cache.path", "cache.ttl",
	"development.live_reload",
	"logging.level", "logging.format",
}

// BindEnvironment lets RIPPLEDOCS_<SECTION>_<OPTION> variables override any
// key, with dots in the key mapped to underscores.
func BindEnvironment() error {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	for _, key := range envKeys {
		if err := viper.BindEnv(key); err != nil {
			return fmt.Errorf("bind environment for %s: %w", key, err)
		}
	}

	return nil
}

func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Flags and env vars bound to viper win over whatever Unmarshal decoded.
	if viper.IsSet("development.live_reload") {
		config.Development.LiveReload = viper.GetBool("development.live_reload")
	}
	if viper.IsSet("server.no_reload") && viper.GetBool("server.no_reload") {
		config.Development.LiveReload = false
	}
	if viper.IsSet("server.allowed_origins") && len(config.Server.AllowedOrigins) == 0 {
		config.Server.AllowedOrigins = viper.GetStringSlice("server.allowed_origins")
	}

	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyDefaults fills every unset value. Booleans are only defaulted when
// viper has never seen them.
func applyDefaults(config *Config) {
	if config.Server.Port == 0 && !viper.IsSet("server.port") {
		config.Server.Port = DefaultPort
	}
	if config.Server.Host == "" {
		config.Server.Host = DefaultHost
	}
	if config.Server.Environment == "" {
		config.Server.Environment = "development"
	}
	if config.Server.ShutdownTimeout == 0 {
		config.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if !viper.IsSet("server.rate_limit.enabled") {
		config.Server.RateLimit.Enabled = true
	}
	if config.Server.RateLimit.RequestsPerMinute == 0 {
		config.Server.RateLimit.RequestsPerMinute = DefaultRequestsPerMinute
	}
	if config.Server.RateLimit.Burst == 0 {
		config.Server.RateLimit.Burst = DefaultBurst
	}

	if config.Content.Root == "" {
		config.Content.Root = DefaultContentRoot
	}
	if config.Content.BasePath == "" {
		config.Content.BasePath = DefaultBasePath
	}

	if config.Stats.Owner == "" {
		config.Stats.Owner = DefaultOwner
	}
	if config.Stats.Repo == "" {
		config.Stats.Repo = DefaultRepo
	}
	if config.Stats.Branch == "" {
		config.Stats.Branch = DefaultBranch
	}
	if config.Stats.Package == "" {
		config.Stats.Package = DefaultPackage
	}
	if config.Stats.PackageVersion == "" {
		config.Stats.PackageVersion = DefaultPackageVersion
	}
	if config.Stats.GitHubAPI == "" {
		config.Stats.GitHubAPI = DefaultGitHubAPI
	}
	if config.Stats.RawContent == "" {
		config.Stats.RawContent = DefaultRawContent
	}
	if config.Stats.Bundlephobia == "" {
		config.Stats.Bundlephobia = DefaultBundlephobia
	}
	if config.Stats.Timeout == 0 {
		config.Stats.Timeout = DefaultUpstreamTimeout
	}

	if config.Cache.Driver == "" {
		config.Cache.Driver = DefaultCacheDriver
	}
	if config.Cache.Path == "" {
		config.Cache.Path = DefaultCachePath
	}
	if config.Cache.TTL == 0 {
		config.Cache.TTL = DefaultCacheTTL
	}

	if !viper.IsSet("development.live_reload") && !viper.IsSet("server.no_reload") {
		config.Development.LiveReload = true
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
	if config.Logging.Format == "" {
		config.Logging.Format = "text"
	}
}

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	if err := validateServerConfig(&config.Server); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := validateContentConfig(&config.Content); err != nil {
		return fmt.Errorf("content config: %w", err)
	}

	if err := validateCacheConfig(&config.Cache); err != nil {
		return fmt.Errorf("cache config: %w", err)
	}

	if config.Stats.Timeout < 0 {
		return fmt.Errorf("stats config: timeout must not be negative")
	}

	return nil
}

// validateServerConfig validates server configuration values
func validateServerConfig(config *ServerConfig) error {
	// Allow 0 for system-assigned ports in testing
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("port %d is not in valid range 0-65535", config.Port)
	}

	if config.Host != "" {
		dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'", "\\"}
		for _, char := range dangerousChars {
			if strings.Contains(config.Host, char) {
				return fmt.Errorf("host contains dangerous character: %s", char)
			}
		}
	}

	if config.RateLimit.RequestsPerMinute < 0 || config.RateLimit.Burst < 0 {
		return fmt.Errorf("rate limit values must not be negative")
	}

	return nil
}

func validateContentConfig(config *ContentConfig) error {
	if err := validatePath(config.Root); err != nil {
		return fmt.Errorf("invalid content root '%s': %w", config.Root, err)
	}

	if !strings.HasPrefix(config.BasePath, "/") {
		return fmt.Errorf("base_path must start with '/': %s", config.BasePath)
	}
	if strings.Contains(config.BasePath, "..") {
		return fmt.Errorf("base_path contains path traversal: %s", config.BasePath)
	}
	if config.BasePath == "/" || strings.HasSuffix(config.BasePath, "/") {
		return fmt.Errorf("base_path must not end with '/': %s", config.BasePath)
	}
	if strings.HasPrefix(config.BasePath, "/api") || config.BasePath == "/ws" || config.BasePath == "/health" {
		return fmt.Errorf("base_path collides with a server route: %s", config.BasePath)
	}

	return nil
}

func validateCacheConfig(config *CacheConfig) error {
	switch config.Driver {
	case "memory":
	case "sqlite":
		if err := validatePath(config.Path); err != nil {
			return fmt.Errorf("invalid cache path '%s': %w", config.Path, err)
		}
	default:
		return fmt.Errorf("unknown cache driver %q (want memory or sqlite)", config.Driver)
	}

	if config.TTL < 0 {
		return fmt.Errorf("ttl must not be negative")
	}

	return nil
}

// validatePath validates a file path for security
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}

	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains traversal: %s", path)
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'"}
	for _, char := range dangerousChars {
		if strings.Contains(cleanPath, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}

	return nil
}
