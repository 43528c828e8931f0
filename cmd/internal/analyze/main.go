package analyze

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"context"

	"github.com/google/subcommands"
	"github.com/pkg/errors"

	"github.com/nelhage/connectn/ai"
	"github.com/nelhage/connectn/cmd/internal/opt"
	"github.com/nelhage/connectn/connect"
	"github.com/nelhage/connectn/notation"
)

type Command struct {
	quiet      bool
	cpuProfile string

	/* Options to select which position(s) to analyze */
	position  string
	player    int
	move      int
	all       bool
	variation string

	timeLimit time.Duration
	eval      bool
	search    opt.Search
}

func (*Command) Name() string     { return "analyze" }
func (*Command) Synopsis() string { return "Evaluate a position from a game record" }
func (*Command) Usage() string {
	return `analyze [options] [FILE]

Evaluate a position from a game record, or from -position, using the
minimax engine.

By default evaluates the final position in the file; use -move to
select an earlier one, -all to walk the whole game, and -variation to
play additional columns prior to analysis.
`
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	flags.BoolVar(&c.quiet, "quiet", false, "don't print board diagrams")
	flags.StringVar(&c.cpuProfile, "cpuprofile", "", "write CPU profile")

	flags.StringVar(&c.position, "position", "", "analyze this position instead of a record")
	flags.IntVar(&c.player, "player", -1, "player to move in -position (default: by piece parity)")
	flags.IntVar(&c.move, "move", 0, "analyze the position after this many moves")
	flags.BoolVar(&c.all, "all", false, "analyze every position in the record")
	flags.StringVar(&c.variation, "variation", "", "apply the listed columns after the given position")

	flags.DurationVar(&c.timeLimit, "limit", time.Minute, "limit of how much time to use")
	flags.BoolVar(&c.eval, "evaluate", false, "only show static evaluation")
	c.search.AddFlags(flags)
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.search.Validate(); err != nil {
		log.Print(err)
		return subcommands.ExitUsageError
	}
	if c.cpuProfile != "" {
		f, e := os.OpenFile(c.cpuProfile, os.O_WRONLY|os.O_CREATE, 0644)
		if e != nil {
			log.Fatalf("open cpu-profile: %s: %v", c.cpuProfile, e)
		}
		pprof.StartCPUProfile(f)
		defer f.Close()
		defer pprof.StopCPUProfile()
	}

	if c.position != "" {
		p, e := notation.ParsePosition(c.position)
		if e != nil {
			log.Fatal("-position: ", e)
		}
		who, e := c.toMove(p)
		if e != nil {
			log.Fatal("-player: ", e)
		}
		if c.variation != "" {
			if p, who, e = applyVariation(p, who, c.variation); e != nil {
				log.Fatal("-variation: ", e)
			}
		}
		if e := c.analyzeWith(c.buildAnalysis(p), os.Stdout, p, who); e != nil {
			log.Print(e)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	if flag.NArg() != 1 {
		log.Print("need a record FILE or -position")
		return subcommands.ExitUsageError
	}
	rec, e := notation.ParseFile(flag.Arg(0))
	if e != nil {
		log.Fatal("parse: ", e)
	}
	if c.all {
		if e := c.analyzeAll(os.Stdout, rec); e != nil {
			log.Print(e)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	p, who, e := positionAtMove(rec, c.move)
	if e != nil {
		log.Fatal("find move: ", e)
	}
	if c.variation != "" {
		if p, who, e = applyVariation(p, who, c.variation); e != nil {
			log.Fatal("-variation: ", e)
		}
	}
	if e := c.analyzeWith(c.buildAnalysis(p), os.Stdout, p, who); e != nil {
		log.Print(e)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *Command) toMove(p *connect.Position) (connect.Player, error) {
	switch c.player {
	case -1:
		return connect.Player(p.Pieces() % 2), nil
	case 0, 1:
		return connect.Player(c.player), nil
	}
	return connect.NoPlayer, errors.Errorf("must be 0 or 1, not %d", c.player)
}

// positionAtMove replays the first n moves of rec (all of them if n is
// zero) and returns the position with the player to move.
func positionAtMove(rec *notation.Record, n int) (*connect.Position, connect.Player, error) {
	p, err := rec.InitialPosition()
	if err != nil {
		return nil, connect.NoPlayer, err
	}
	who, err := rec.First()
	if err != nil {
		return nil, connect.NoPlayer, err
	}
	ms := rec.Moves()
	if n < 0 || n > len(ms) {
		return nil, connect.NoPlayer, errors.Errorf("move %d out of range (record has %d)", n, len(ms))
	}
	if n == 0 {
		n = len(ms)
	}
	for i, m := range ms[:n] {
		if _, err := p.Drop(who, m); err != nil {
			return nil, connect.NoPlayer, errors.Wrapf(err, "move %d (%s)", i+1, notation.FormatMove(m))
		}
		who = who.Opponent()
	}
	return p, who, nil
}

func applyVariation(p *connect.Position, who connect.Player, variant string) (*connect.Position, connect.Player, error) {
	ms, e := notation.ParseMoves(variant)
	if e != nil {
		return nil, connect.NoPlayer, e
	}
	p = p.Clone()
	for _, m := range ms {
		if _, e := p.Drop(who, m); e != nil {
			return nil, connect.NoPlayer, fmt.Errorf("bad move `%s': %v", notation.FormatMove(m), e)
		}
		who = who.Opponent()
	}
	return p, who, nil
}

func (c *Command) analyzeAll(out io.Writer, rec *notation.Record) error {
	p, err := rec.InitialPosition()
	if err != nil {
		return err
	}
	who, err := rec.First()
	if err != nil {
		return err
	}
	analysis := c.buildAnalysis(p)
	for i, m := range rec.Moves() {
		if over, _ := p.GameOver(); over {
			break
		}
		fmt.Fprintf(out, "%d. %s %s\n", i/2+1, who, notation.FormatMove(m))
		if err := c.analyzeWith(analysis, out, p, who); err != nil {
			return err
		}
		if _, err := p.Drop(who, m); err != nil {
			return errors.Wrapf(err, "move %d", i+1)
		}
		who = who.Opponent()
	}
	return nil
}

func (c *Command) buildAnalysis(p *connect.Position) Analyzer {
	if c.eval {
		return &staticAnalysis{quiet: c.quiet}
	}
	book, err := c.search.LoadBook(*p.Config())
	if err != nil {
		log.Fatalf("-book: %v", err)
	}
	return &minimaxAnalysis{
		quiet: c.quiet,
		depth: c.search.Depth,
		ai: ai.NewMinimax(ai.MinimaxConfig{
			Depth:  c.search.Depth,
			Debug:  c.search.Debug,
			Seed:   c.search.Seed,
			Book:   book,
			NoBook: c.search.NoBook,
		}),
	}
}

func (c *Command) analyzeWith(analysis Analyzer, out io.Writer, p *connect.Position, who connect.Player) error {
	ctx := context.Background()
	if c.timeLimit != 0 {
		var cancel func()
		ctx, cancel = context.WithTimeout(ctx, c.timeLimit)
		defer cancel()
	}
	return analysis.Analyze(ctx, out, p, who)
}
