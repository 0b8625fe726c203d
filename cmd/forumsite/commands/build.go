package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/forumsite/internal/config"
	"git.home.luguber.info/inful/forumsite/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	HTMLOnly bool `name:"html-only" help:"Skip ingestion and discussion pages; rebuild derived pages from the cache"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	mode := cfg.Mode()
	if b.HTMLOnly {
		mode = config.RunModeHTMLOnly
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return RunGenerate(ctx, cfg, mode)
}

// HTMLOnlyCmd implements the 'html-only' command.
type HTMLOnlyCmd struct{}

func (h *HTMLOnlyCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return RunGenerate(ctx, cfg, config.RunModeHTMLOnly)
}

// RunGenerate runs one generation and prints its summary.
func RunGenerate(ctx context.Context, cfg *config.Config, mode config.RunMode) error {
	recorder, flush := newRecorder(cfg)
	defer flush()

	gen, err := site.NewGenerator(cfg, site.WithLogger(slog.Default()), site.WithRecorder(recorder))
	if err != nil {
		return err
	}
	fmt.Printf("Starting %s generation\n", mode)
	report, err := gen.Run(ctx, mode)
	fmt.Println(report.Summary())
	if err != nil {
		return err
	}
	if len(report.Warnings) > 0 {
		fmt.Printf("Completed with %d warnings (see %s/build-report.json)\n", len(report.Warnings), cfg.OutputPath)
		return nil
	}
	fmt.Println("Generation completed successfully")
	return nil
}
