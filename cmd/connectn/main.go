package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/google/subcommands"

	"github.com/nelhage/connectn/cmd/internal/analyze"
	"github.com/nelhage/connectn/cmd/internal/engine"
	"github.com/nelhage/connectn/cmd/internal/history"
	"github.com/nelhage/connectn/cmd/internal/play"
	"github.com/nelhage/connectn/cmd/internal/selfplay"
	"github.com/nelhage/connectn/cmd/internal/serve"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	subcommands.Register(&play.Command{}, "")
	subcommands.Register(&engine.Command{}, "")
	subcommands.Register(&analyze.Command{}, "")
	subcommands.Register(&selfplay.Command{}, "")
	subcommands.Register(&serve.Command{}, "")
	subcommands.Register(&history.Command{}, "")

	flag.Parse()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	go func() {
		<-sigs
		cancel()
		signal.Stop(sigs)
	}()

	os.Exit(int(subcommands.Execute(ctx)))
}
