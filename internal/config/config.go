// Package config loads and validates the forumsite YAML configuration.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/forumsite/internal/foundation/errors"
)

// Config represents the application configuration.
type Config struct {
	ExportPath         string        `yaml:"export_path"`
	OutputPath         string        `yaml:"output_path"`
	ExcludedCategories []int         `yaml:"excluded_categories"`
	HomepagePageSize   int           `yaml:"homepage_page_size"`
	HTMLOnlyMode       bool          `yaml:"html_only_mode"`
	TemplatesDir       string        `yaml:"templates_dir,omitempty"` // empty uses the built-in templates
	AssetsDir          string        `yaml:"assets_dir,omitempty"`
	RobotsFile         string        `yaml:"robots_file,omitempty"`
	PagesDir           string        `yaml:"pages_dir,omitempty"` // markdown informational pages
	VerifyAnchors      *bool         `yaml:"verify_anchors,omitempty"`
	Search             SearchConfig  `yaml:"search"`
	Users              UsersConfig   `yaml:"users"`
	Cache              CacheConfig   `yaml:"cache"`
	Metrics            MetricsConfig `yaml:"metrics"`
	Logging            LoggingConfig `yaml:"logging"`
	DMs                DMConfig      `yaml:"dms"`
}

// SearchConfig controls the client-side search artifacts.
type SearchConfig struct {
	HiddenCategories []string `yaml:"hidden_categories"`
}

// UsersConfig controls per-user data bundles.
type UsersConfig struct {
	ChunkSize int `yaml:"chunk_size"`
}

// CacheConfig controls the incremental cache written by full runs.
type CacheConfig struct {
	Enabled   *bool        `yaml:"enabled,omitempty"`
	Backend   CacheBackend `yaml:"backend"`
	Directory string       `yaml:"directory"` // relative paths resolve against output_path
}

// MetricsConfig controls the optional Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// DMConfig controls the private-message exporter.
type DMConfig struct {
	OutputPath string `yaml:"output_path"`
}

// AnchorVerification reports whether rendered discussion pages are checked for dangling anchors.
func (c *Config) AnchorVerification() bool {
	return c.VerifyAnchors == nil || *c.VerifyAnchors
}

// CacheEnabled reports whether full runs persist the incremental cache.
func (c *Config) CacheEnabled() bool {
	return c.Cache.Enabled == nil || *c.Cache.Enabled
}

// IsExcludedCategory reports whether discussions in categoryID are dropped at ingestion.
func (c *Config) IsExcludedCategory(categoryID int) bool {
	for _, id := range c.ExcludedCategories {
		if id == categoryID {
			return true
		}
	}
	return false
}

// Load loads a configuration file, expanding ${VAR} references from the environment.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError("configuration file not found").WithContext("path", configPath).Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").Fatal().WithContext("path", configPath).Build()
	}
	return Parse([]byte(os.ExpandEnv(string(data))))
}

// Parse decodes YAML configuration and applies normalization, defaults and validation.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").Fatal().Build()
	}
	if err := normalize(&cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "normalize").Fatal().Build()
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "configuration validation failed").Fatal().Build()
	}
	return &cfg, nil
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").WithContext("path", configPath).Build()
	}

	enabled := true
	example := Config{
		ExportPath:         "./exports",
		OutputPath:         "./build",
		ExcludedCategories: []int{21, 22},
		HomepagePageSize:   DefaultHomepagePageSize,
		VerifyAnchors:      &enabled,
		Search:             SearchConfig{HiddenCategories: DefaultHiddenCategories()},
		Users:              UsersConfig{ChunkSize: DefaultUserChunkSize},
		Cache:              CacheConfig{Enabled: &enabled, Backend: CacheBackendJSON, Directory: DefaultCacheDirectory},
		Logging:            LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
		DMs:                DMConfig{OutputPath: DefaultDMOutputPath},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal config").Build()
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").Fatal().WithContext("path", configPath).Build()
	}
	return nil
}
