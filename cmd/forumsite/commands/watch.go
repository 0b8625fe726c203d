package commands

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/forumsite/internal/config"
	"git.home.luguber.info/inful/forumsite/internal/foundation/errors"
	"git.home.luguber.info/inful/forumsite/internal/logfields"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Debounce time.Duration `help:"Quiet period before a rebuild" default:"500ms"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := RunGenerate(ctx, cfg, config.RunModeHTMLOnly); err != nil {
		return err
	}
	watcher, err := NewWatcher(watchedDirs(cfg), w.Debounce)
	if err != nil {
		return err
	}
	defer watcher.Close()

	fmt.Println("Watching for changes, press Ctrl-C to stop")
	watcher.Run(ctx, func(ctx context.Context) {
		if err := RunGenerate(ctx, cfg, config.RunModeHTMLOnly); err != nil {
			slog.Error("Rebuild failed", logfields.Error(err))
		}
	})
	return nil
}

func watchedDirs(cfg *config.Config) []string {
	var dirs []string
	for _, dir := range []string{cfg.TemplatesDir, cfg.AssetsDir, cfg.PagesDir} {
		if dir != "" {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// Watcher triggers a debounced callback when files below its roots change.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	logger   *slog.Logger
}

// NewWatcher watches roots and every directory below them.
func NewWatcher(roots []string, debounce time.Duration) (*Watcher, error) {
	if len(roots) == 0 {
		return nil, errors.ConfigError("nothing to watch: set templates_dir, assets_dir or pages_dir").Build()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, "create file watcher").Build()
	}
	w := &Watcher{fs: fw, debounce: debounce, logger: slog.Default()}
	for _, root := range roots {
		if err := w.addTree(root); err != nil {
			_ = fw.Close()
			return nil, errors.FileSystemError("cannot watch directory").
				WithCause(err).WithContext("path", root).Build()
		}
	}
	return w, nil
}

// fsnotify does not recurse, so each directory is added individually.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			w.logger.Debug("Watching directory", logfields.Path(path))
			return w.fs.Add(path)
		}
		return nil
	})
}

// Close stops watching.
func (w *Watcher) Close() error { return w.fs.Close() }

// Run calls rebuild once per burst of changes until ctx is done.
func (w *Watcher) Run(ctx context.Context, rebuild func(context.Context)) {
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						w.logger.Warn("Cannot watch new directory", logfields.Path(event.Name), logfields.Error(err))
					}
				}
			}
			w.logger.Debug("Change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			timer.Reset(w.debounce)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", logfields.Error(err))
		case <-timer.C:
			w.logger.Info("Rebuilding after changes")
			rebuild(ctx)
		}
	}
}
