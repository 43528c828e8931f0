package selfplay

import (
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path"
	"text/tabwriter"
	"time"

	"context"

	"github.com/google/subcommands"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nelhage/connectn/cli"
	"github.com/nelhage/connectn/cmd/internal/opt"
	"github.com/nelhage/connectn/logs"
)

type Command struct {
	game   opt.Game
	search opt.Search

	p1 string
	p2 string

	games   int
	swap    bool
	threads int
	epsilon float64

	out     string
	db      string
	summary string
	verbose bool
}

func (*Command) Name() string     { return "selfplay" }
func (*Command) Synopsis() string { return "Play two AIs against each other and report results" }
func (*Command) Usage() string {
	return `selfplay [flags]
`
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	c.game.AddFlags(flags)
	c.search.AddFlags(flags)
	flags.StringVar(&c.p1, "p1", "minimax", "player 1 (minimax[:DEPTH], rand[:SEED], remote:ADDR)")
	flags.StringVar(&c.p2, "p2", "minimax:3", "player 2")
	flags.IntVar(&c.games, "games", 10, "number of games to play per color")
	flags.BoolVar(&c.swap, "swap", true, "swap colors each game")
	flags.IntVar(&c.threads, "threads", 4, "number of parallel threads")
	flags.Float64Var(&c.epsilon, "epsilon", 0, "probability of replacing a move with a random one")
	flags.StringVar(&c.out, "out", "", "directory to write game records to")
	flags.StringVar(&c.db, "db", opt.Getenv("CONNECTN_DB"), "sqlite database to log results to")
	flags.StringVar(&c.summary, "summary", "", "write summary JSON file")
	flags.BoolVar(&c.verbose, "v", false, "verbose output")
}

func (c *Command) factory(spec string) PlayerFactory {
	return func(seed int64) (cli.Player, error) {
		return c.search.ParsePlayer(spec, seed)
	}
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
	for _, spec := range []string{c.p1, c.p2} {
		if _, err := c.search.ParsePlayer(spec, 1); err != nil {
			log.Print(err)
			return subcommands.ExitUsageError
		}
	}
	book, err := c.search.LoadBook(cfg)
	if err != nil {
		log.Fatalf("-book: %v", err)
	}
	if c.search.Seed == 0 {
		c.search.Seed = time.Now().Unix()
	}

	sc := &Config{
		Games:   c.games,
		Verbose: c.verbose,
		Game:    cfg,
		P1:      c.factory(c.p1),
		P2:      c.factory(c.p2),
		Names:   [2]string{c.p1, c.p2},
		Engine:  c.search.Options(book, 0),
		Swap:    c.swap,
		Threads: c.threads,
		Seed:    c.search.Seed,
		Epsilon: c.epsilon,
	}
	start := time.Now()
	st, err := Simulate(ctx, sc)
	if err != nil {
		log.Fatalf("selfplay: %v", err)
	}

	if c.out != "" {
		if c.summary == "" {
			c.summary = path.Join(c.out, "summary.json")
		}
		for i := range st.Games {
			writeGame(c.out, &st.Games[i])
		}
	}
	if c.summary != "" {
		if err := c.writeSummary(c.summary, &st); err != nil {
			log.Println("writing summary: ", err.Error())
		}
	}
	if c.db != "" {
		if err := logGames(c.db, &st); err != nil {
			log.Printf("logging to %s: %v", c.db, err)
		}
	}

	pr := message.NewPrinter(language.English)
	pr.Fprintf(os.Stderr, "done games=%d seed=%d ties=%d first=%d second=%d time=%s\n",
		st.Count(), c.search.Seed, st.Ties, st.First, st.Second, time.Since(start))
	tw := tabwriter.NewWriter(os.Stderr, 2, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "\tfirst\tsecond\tsum\n")
	fmt.Fprintf(tw, "p1\t%d\t%d\t%d\n", st.Players[0].FirstWins, st.Players[0].SecondWins, st.Players[0].Wins)
	fmt.Fprintf(tw, "p2\t%d\t%d\t%d\n", st.Players[1].FirstWins, st.Players[1].SecondWins, st.Players[1].Wins)
	fmt.Fprintf(tw, "sum\t%d\t%d\t%d\n",
		st.Players[0].FirstWins+st.Players[1].FirstWins,
		st.Players[0].SecondWins+st.Players[1].SecondWins,
		st.Players[0].Wins+st.Players[1].Wins,
	)
	tw.Flush()

	a, b := int64(st.Players[0].Wins), int64(st.Players[1].Wins)
	if a < b {
		a, b = b, a
	}
	log.Printf("p[one-sided]=%f", binomTest(a, b, 0.5))

	return subcommands.ExitSuccess
}

func writeGame(d string, r *Result) {
	os.MkdirAll(d, 0755)
	p := path.Join(d, fmt.Sprintf("%d.txt", r.spec.i))
	ioutil.WriteFile(p, []byte(r.Record.Render()), 0644)
}

func logGames(db string, st *Stats) error {
	repo, err := logs.Open(db)
	if err != nil {
		return err
	}
	defer repo.Close()
	var gs []*logs.Game
	for i := range st.Games {
		g, err := logs.FromRecord(st.Games[i].Record)
		if err != nil {
			return err
		}
		gs = append(gs, g)
	}
	return repo.InsertGames(gs)
}

type Summary struct {
	Cmdline []string
	Player1 string
	Player2 string
	Epsilon float64
	Stats   *Stats
}

func (c *Command) writeSummary(path string, stats *Stats) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	summary := Summary{
		Cmdline: os.Args,
		Player1: c.p1,
		Player2: c.p2,
		Epsilon: c.epsilon,
		Stats:   stats,
	}

	bs, err := json.MarshalIndent(&summary, "", "  ")
	if err != nil {
		return err
	}
	f.Write(bs)
	return nil
}
