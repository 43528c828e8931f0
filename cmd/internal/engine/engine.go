package engine

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/google/subcommands"

	"github.com/nelhage/connectn/cei"
	"github.com/nelhage/connectn/cmd/internal/opt"
	"github.com/nelhage/connectn/engine"
)

type Command struct {
	game   opt.Game
	search opt.Search
}

func (*Command) Name() string     { return "engine" }
func (*Command) Synopsis() string { return "Launch connectn in UCI-like engine mode" }
func (*Command) Usage() string {
	return `engine

Launch the engine in CEI mode, a UCI-like protocol suitable for being
driven by an external GUI or controller. Columns are numbered from 1.
`
}

func (c *Command) SetFlags(fs *flag.FlagSet) {
	c.game.AddFlags(fs)
	c.search.AddFlags(fs)
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.search.Validate(); err != nil {
		log.Print(err)
		return subcommands.ExitUsageError
	}
	cfg, err := c.game.Config()
	if err != nil {
		log.Printf("bad geometry: %v", err)
		return subcommands.ExitUsageError
	}
	book, err := c.search.LoadBook(cfg)
	if err != nil {
		log.Printf("-book: %v", err)
		return subcommands.ExitUsageError
	}

	e := cei.NewEngine(engine.New(c.search.Options(book, 0)), os.Stdin, os.Stdout)
	e.Depth = c.search.Depth
	e.Config = cfg
	if err := e.Run(ctx); err != nil {
		log.Println("cei: ", err.Error())
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
