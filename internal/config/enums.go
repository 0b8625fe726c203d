package config

import "git.home.luguber.info/inful/forumsite/internal/foundation/normalization"

// RunMode selects between a full conversion and a derived-pages-only rebuild.
type RunMode string

const (
	RunModeFull     RunMode = "full"
	RunModeHTMLOnly RunMode = "html-only"
)

var runModeNormalizer = normalization.NewNormalizer("run mode", map[string]RunMode{
	"full":        RunModeFull,
	"html-only":   RunModeHTMLOnly,
	"incremental": RunModeHTMLOnly,
}, RunModeFull)

// ParseRunMode converts a CLI or config spelling into a RunMode.
func ParseRunMode(raw string) (RunMode, error) { return runModeNormalizer.Parse(raw) }

// Mode returns the run mode implied by html_only_mode.
func (c *Config) Mode() RunMode {
	if c.HTMLOnlyMode {
		return RunModeHTMLOnly
	}
	return RunModeFull
}

// CacheBackend selects the incremental cache storage format.
type CacheBackend string

const (
	CacheBackendJSON   CacheBackend = "json"
	CacheBackendSQLite CacheBackend = "sqlite"
)

var cacheBackendNormalizer = normalization.NewNormalizer("cache backend", map[string]CacheBackend{
	"json":    CacheBackendJSON,
	"sqlite":  CacheBackendSQLite,
	"sqlite3": CacheBackendSQLite,
}, CacheBackendJSON)

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevelNormalizer = normalization.NewNormalizer("log level", map[string]LogLevel{
	"debug":   LogLevelDebug,
	"info":    LogLevelInfo,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"error":   LogLevelError,
}, LogLevelInfo)

// NormalizeLogLevel maps raw onto a LogLevel, defaulting to info.
func NormalizeLogLevel(raw string) LogLevel { return logLevelNormalizer.Normalize(raw) }

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

var logFormatNormalizer = normalization.NewNormalizer("log format", map[string]LogFormat{
	"json": LogFormatJSON,
	"text": LogFormatText,
}, LogFormatText)

func normalize(cfg *Config) error {
	backend, err := cacheBackendNormalizer.Parse(string(cfg.Cache.Backend))
	if err != nil {
		return err
	}
	cfg.Cache.Backend = backend
	if cfg.Logging.Level != "" {
		cfg.Logging.Level = logLevelNormalizer.Normalize(string(cfg.Logging.Level))
	}
	if cfg.Logging.Format != "" {
		cfg.Logging.Format = logFormatNormalizer.Normalize(string(cfg.Logging.Format))
	}
	return nil
}
