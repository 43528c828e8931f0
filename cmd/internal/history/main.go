package history

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/nelhage/connectn/cmd/internal/opt"
	"github.com/nelhage/connectn/logs"
	"github.com/nelhage/connectn/notation"
)

type Command struct {
	db        string
	limit     int
	standings bool
	show      string
}

func (*Command) Name() string     { return "history" }
func (*Command) Synopsis() string { return "List and import logged games" }
func (*Command) Usage() string {
	return `history [options] [FILE...]

With no arguments, list the most recent games in the results
database. With FILE arguments, import those game records (or every
*.txt record under a directory) into the database first.
`
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	flags.StringVar(&c.db, "db", opt.Getenv("CONNECTN_DB"), "sqlite results database")
	flags.IntVar(&c.limit, "limit", 20, "number of games to list")
	flags.BoolVar(&c.standings, "standings", false, "print per-player standings")
	flags.StringVar(&c.show, "show", "", "print the record of the game with this id")
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.db == "" {
		log.Print("need -db or CONNECTN_DB")
		return subcommands.ExitUsageError
	}
	repo, err := logs.Open(c.db)
	if err != nil {
		log.Fatalf("open %s: %v", c.db, err)
	}
	defer repo.Close()

	if flag.NArg() > 0 {
		n, err := importRecords(repo, flag.Args())
		if err != nil {
			log.Printf("import: %v", err)
			return subcommands.ExitFailure
		}
		log.Printf("imported %d games", n)
		return subcommands.ExitSuccess
	}

	if c.show != "" {
		g, err := repo.Game(c.show)
		if err != nil {
			log.Printf("game %s: %v", c.show, err)
			return subcommands.ExitFailure
		}
		fmt.Print(g.Record)
		return subcommands.ExitSuccess
	}

	if c.standings {
		st, err := repo.Standings()
		if err != nil {
			log.Fatalf("standings: %v", err)
		}
		printStandings(os.Stdout, st)
		return subcommands.ExitSuccess
	}

	gs, err := repo.Games(c.limit)
	if err != nil {
		log.Fatalf("games: %v", err)
	}
	printGames(os.Stdout, gs)
	return subcommands.ExitSuccess
}

// importRecords logs every finished game among paths. Directories are
// walked for *.txt files; unfinished games are skipped.
func importRecords(repo *logs.Repository, paths []string) (int, error) {
	var gs []*logs.Game
	add := func(path string) error {
		rec, err := notation.ParseFile(path)
		if err != nil {
			return err
		}
		g, err := logs.FromRecord(rec)
		if err != nil {
			log.Printf("skipping %s: %v", path, err)
			return nil
		}
		gs = append(gs, g)
		return nil
	}
	for _, p := range paths {
		st, err := os.Stat(p)
		if err != nil {
			return 0, err
		}
		if !st.IsDir() {
			if err := add(p); err != nil {
				return 0, err
			}
			continue
		}
		err = filepath.Walk(p, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() || filepath.Ext(path) != ".txt" {
				return nil
			}
			return add(path)
		})
		if err != nil {
			return 0, err
		}
	}
	if len(gs) == 0 {
		return 0, nil
	}
	return len(gs), repo.InsertGames(gs)
}

func printGames(out io.Writer, gs []logs.Game) {
	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintf(w, "id\ttime\tgame\tplayer1\tplayer2\tresult\tmoves\n")
	for _, g := range gs {
		fmt.Fprintf(w, "%s\t%s\t%dx%d/%d\t%s\t%s\t%s\t%d\n",
			g.ID, g.Timestamp.Format("2006-01-02 15:04:05"),
			g.Width, g.Height, g.Connect,
			g.Player1, g.Player2, g.Result, g.Moves)
	}
	w.Flush()
}

func printStandings(out io.Writer, st []logs.Standing) {
	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintf(w, "player\twins\tlosses\tties\n")
	for _, s := range st {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", s.Player, s.Wins, s.Losses, s.Ties)
	}
	w.Flush()
}
