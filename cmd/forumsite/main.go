package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/forumsite/cmd/forumsite/commands"
	"git.home.luguber.info/inful/forumsite/internal/foundation/errors"
	"git.home.luguber.info/inful/forumsite/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("forumsite"),
		kong.Description("Convert a forum export into a static website."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	err := ctx.Run(&commands.Global{Logger: slog.Default()}, &cli)
	errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
