package config

import "path/filepath"

const (
	DefaultHomepagePageSize = 25
	DefaultUserChunkSize    = 50
	DefaultCacheDirectory   = "processed_data"
	DefaultDMOutputPath     = "./dm_output"
)

// DefaultHiddenCategories are administrative categories left out of the search filter.
func DefaultHiddenCategories() []string {
	return []string{"Moderators", "Editors: Private Group"}
}

func applyDefaults(cfg *Config) {
	if cfg.HomepagePageSize <= 0 {
		cfg.HomepagePageSize = DefaultHomepagePageSize
	}
	if cfg.Users.ChunkSize <= 0 {
		cfg.Users.ChunkSize = DefaultUserChunkSize
	}
	if cfg.Search.HiddenCategories == nil {
		cfg.Search.HiddenCategories = DefaultHiddenCategories()
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = CacheBackendJSON
	}
	if cfg.Cache.Directory == "" {
		cfg.Cache.Directory = DefaultCacheDirectory
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
	if cfg.DMs.OutputPath == "" {
		cfg.DMs.OutputPath = DefaultDMOutputPath
	}
	if cfg.ExportPath != "" {
		cfg.ExportPath = filepath.Clean(cfg.ExportPath)
	}
	if cfg.OutputPath != "" {
		cfg.OutputPath = filepath.Clean(cfg.OutputPath)
	}
}

// CacheDir resolves the cache directory against the output path.
func (c *Config) CacheDir() string {
	if filepath.IsAbs(c.Cache.Directory) {
		return c.Cache.Directory
	}
	return filepath.Join(c.OutputPath, c.Cache.Directory)
}
