package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/forumsite/internal/dm"
	"git.home.luguber.info/inful/forumsite/internal/forum"
	"git.home.luguber.info/inful/forumsite/internal/foundation/errors"
)

// DMsCmd implements the 'dms' command.
type DMsCmd struct {
	User   string `arg:"" help:"Member id or name (case-insensitive)"`
	Output string `short:"o" help:"Output directory (defaults to dms.output_path)" type:"path"`
}

func (d *DMsCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	out := cfg.DMs.OutputPath
	if d.Output != "" {
		out = d.Output
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return RunDMs(ctx, cfg.ExportPath, d.User, out)
}

// RunDMs loads the private messages below exportPath and writes the
// transcripts of user into outDir.
func RunDMs(ctx context.Context, exportPath, user, outDir string) error {
	logger := slog.Default()
	store, ingest, err := forum.NewLoader(exportPath, nil, logger).LoadPrivateMessages(ctx)
	if err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "loading private messages interrupted").Build()
	}
	if len(ingest.Warnings) > 0 {
		logger.Warn("Some private-message records were skipped", slog.Int("warnings", len(ingest.Warnings)))
	}

	res, err := dm.NewExporter(store, dm.WithLogger(logger)).Export(ctx, user, outDir)
	if err != nil {
		return err
	}
	fmt.Printf("Exported %d conversations for %s (ID: %d) to %s\n", res.Conversations, res.Username, res.UserID, res.Dir)
	return nil
}
