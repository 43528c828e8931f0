package play

import (
	"bufio"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"time"

	"context"

	"github.com/google/subcommands"

	"github.com/nelhage/connectn/cli"
	"github.com/nelhage/connectn/cmd/internal/opt"
	"github.com/nelhage/connectn/connect"
	"github.com/nelhage/connectn/engine"
)

type Command struct {
	game   opt.Game
	search opt.Search

	p1    string
	p2    string
	first int
	limit time.Duration
	out   string

	unicode bool
}

func (*Command) Name() string     { return "play" }
func (*Command) Synopsis() string { return "Play Connect-N from the command line" }
func (*Command) Usage() string {
	return `play

Play Connect-N on the command-line, against a human or AI. Columns
are numbered from 1.
`
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	c.game.AddFlags(flags)
	c.search.AddFlags(flags)
	flags.StringVar(&c.p1, "p1", "human", "player 0 (human, minimax[:DEPTH], rand[:SEED], remote:ADDR)")
	flags.StringVar(&c.p2, "p2", "minimax", "player 1")
	flags.IntVar(&c.first, "first", 0, "player to move first (0 or 1)")
	flags.DurationVar(&c.limit, "limit", time.Minute, "ai time limit")
	flags.StringVar(&c.out, "out", "", "write game record to file")

	flags.BoolVar(&c.unicode, "unicode", false, "render board with utf8 glyphs")
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := c.game.Config()
	if err != nil {
		log.Printf("bad geometry: %v", err)
		return subcommands.ExitUsageError
	}
	if err := c.search.Validate(); err != nil {
		log.Print(err)
		return subcommands.ExitUsageError
	}
	if c.first != 0 && c.first != 1 {
		log.Printf("-first must be 0 or 1")
		return subcommands.ExitUsageError
	}
	book, err := c.search.LoadBook(cfg)
	if err != nil {
		log.Fatalf("-book: %v", err)
	}

	e := engine.New(c.search.Options(book, 0))
	e.SetPoll(func() { fmt.Print(".") }, 500*time.Millisecond)

	in := bufio.NewReader(os.Stdin)
	st := &cli.CLI{
		Engine:  e,
		Config:  cfg,
		Out:     os.Stdout,
		Player0: c.parsePlayer(in, c.p1),
		Player1: c.parsePlayer(in, c.p2),
		First:   connect.Player(c.first),
		Glyphs:  glyphs(c.unicode),
	}
	rec, err := st.Play(ctx)
	if err != nil {
		log.Printf("game ended early: %v", err)
	}
	if c.out != "" && rec != nil {
		rec.SetTag("Player1", c.p1)
		rec.SetTag("Player2", c.p2)
		if err := ioutil.WriteFile(c.out, []byte(rec.Render()), 0644); err != nil {
			log.Printf("write %s: %v", c.out, err)
		}
	}

	return subcommands.ExitSuccess
}

func glyphs(unicode bool) *cli.Glyphs {
	if unicode {
		return &cli.UnicodeGlyphs
	}
	return &cli.DefaultGlyphs
}

type limited struct {
	limit time.Duration
	p     cli.Player
}

func (a *limited) Move(ctx context.Context, e *engine.Engine, who connect.Player) (int, int, error) {
	ctx, cancel := context.WithTimeout(ctx, a.limit)
	defer cancel()
	return a.p.Move(ctx, e, who)
}

func (c *Command) parsePlayer(in *bufio.Reader, s string) cli.Player {
	if s == "human" {
		return cli.NewCLIPlayer(os.Stdout, in)
	}
	p, err := c.search.ParsePlayer(s, c.search.Seed)
	if err != nil {
		log.Fatal(err)
	}
	return &limited{c.limit, p}
}
