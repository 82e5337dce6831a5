package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/blogkit/cmd/blogkit/commands"
	ferrors "git.home.luguber.info/inful/blogkit/internal/foundation/errors"
	"git.home.luguber.info/inful/blogkit/internal/logfields"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Must(cli,
		kong.Name("blogkit"),
		kong.Description("Asset pipeline and template maintenance for Astro blogs"),
		kong.UsageOnError(),
	)
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	g := commands.NewGlobal(ctx, cli)
	err = kctx.Run(g, cli)
	stop()

	if ferr := g.Flush(cli); ferr != nil {
		slog.Warn("Failed to write metrics", logfields.Error(ferr))
	}
	ferrors.NewCLIErrorAdapter(cli.Verbose, nil).HandleError(err)
}
