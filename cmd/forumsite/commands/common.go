package commands

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/forumsite/internal/config"
	"git.home.luguber.info/inful/forumsite/internal/logfields"
	"git.home.luguber.info/inful/forumsite/internal/metrics"
)

// LogLevelEnv overrides the configured log level unless --verbose is set.
const LogLevelEnv = "FORUMSITE_LOG_LEVEL"

// Global carries state shared by all subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI is the command tree and its global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"config.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" default:"withargs" help:"Convert the forum export into a static site"`
	HTMLOnly HTMLOnlyCmd `cmd:"" name:"html-only" help:"Regenerate derived pages from the incremental cache"`
	DMs      DMsCmd      `cmd:"" name:"dms" help:"Export one member's private messages as text files"`
	Watch    WatchCmd    `cmd:"" help:"Rebuild derived pages whenever templates, assets or pages change"`
	Init     InitCmd     `cmd:"" help:"Write an example configuration file"`
}

// AfterApply installs the default logger once flags are parsed. Commands
// that load a configuration refine it with configureLogging.
func (c *CLI) AfterApply() error {
	slog.SetDefault(newLogger(os.Stderr, config.LogFormatText, parseLogLevel(c.Verbose, config.LogLevelInfo)))
	return nil
}

// parseLogLevel resolves the effective level: --verbose, then the
// environment, then the configuration.
func parseLogLevel(verbose bool, configured config.LogLevel) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	if env := strings.TrimSpace(os.Getenv(LogLevelEnv)); env != "" {
		configured = config.NormalizeLogLevel(env)
	}
	switch configured {
	case config.LogLevelDebug:
		return slog.LevelDebug
	case config.LogLevelWarn:
		return slog.LevelWarn
	case config.LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newLogger(w io.Writer, format config.LogFormat, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// loadConfig loads the configuration and applies its logging section.
func loadConfig(root *CLI) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(newLogger(os.Stderr, cfg.Logging.Format, parseLogLevel(root.Verbose, cfg.Logging.Level)))
	slog.Debug("Loaded configuration", logfields.Path(root.Config))
	return cfg, nil
}

// newRecorder returns a Prometheus recorder when a textfile is configured and
// a flush func writing it; otherwise a no-op recorder.
func newRecorder(cfg *config.Config) (metrics.Recorder, func()) {
	if cfg.Metrics.Textfile == "" {
		return metrics.NoopRecorder{}, func() {}
	}
	rec := metrics.NewPrometheusRecorder(prom.NewRegistry())
	return rec, func() {
		if err := rec.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			slog.Warn("Failed to write metrics textfile", logfields.Path(cfg.Metrics.Textfile), logfields.Error(err))
			return
		}
		slog.Debug("Wrote metrics textfile", logfields.Path(cfg.Metrics.Textfile))
	}
}
