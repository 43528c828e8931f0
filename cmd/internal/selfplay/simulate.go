package selfplay

import (
	"log"
	"math/rand"

	"golang.org/x/net/context"
	"golang.org/x/sync/errgroup"

	"github.com/nelhage/connectn/ai"
	"github.com/nelhage/connectn/cli"
	"github.com/nelhage/connectn/connect"
	"github.com/nelhage/connectn/engine"
	"github.com/nelhage/connectn/notation"
)

// PlayerFactory builds a fresh player for one worker.
type PlayerFactory func(seed int64) (cli.Player, error)

type Config struct {
	Games   int
	Verbose bool

	Game connect.Config
	P1   PlayerFactory
	P2   PlayerFactory
	// Names are written into game records.
	Names [2]string

	Engine  engine.Options
	Swap    bool
	Threads int
	Seed    int64
	// Epsilon is the chance that any single move is replaced by a
	// random one.
	Epsilon float64
}

type Stats struct {
	Players [2]struct {
		Wins       int
		FirstWins  int
		SecondWins int
	}
	First, Second int
	Ties          int

	Games []Result `json:"-"`
}

func (s *Stats) Count() int {
	return s.First + s.Second + s.Ties
}

type gameSpec struct {
	i       int
	seed    int64
	p1First bool
}

type Result struct {
	spec   gameSpec
	Record *notation.Record
	Moves  int
	// Winner is 0 or 1 for p1 or p2, or -1 for a tie.
	Winner int
	// WinnerMovedFirst is set when the winner made the first move.
	WinnerMovedFirst bool
}

func (s *Stats) add(r *Result) {
	switch {
	case r.Winner < 0:
		s.Ties++
	case r.WinnerMovedFirst:
		s.First++
		s.Players[r.Winner].FirstWins++
	default:
		s.Second++
		s.Players[r.Winner].SecondWins++
	}
	if r.Winner >= 0 {
		s.Players[r.Winner].Wins++
	}
	s.Games = append(s.Games, *r)
}

// Simulate plays c.Games games (twice that with Swap) across
// c.Threads workers and tallies the results.
func Simulate(ctx context.Context, c *Config) (Stats, error) {
	var st Stats
	games := make(chan gameSpec)
	results := make(chan Result)

	grp, ctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		defer close(games)
		r := rand.New(rand.NewSource(c.Seed))
		n := c.Games
		if c.Swap {
			n *= 2
		}
		for g := 0; g < n; g++ {
			spec := gameSpec{
				i:       g,
				seed:    r.Int63(),
				p1First: g%2 == 0 || !c.Swap,
			}
			select {
			case games <- spec:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	threads := c.Threads
	if threads < 1 {
		threads = 1
	}
	workers, wctx := errgroup.WithContext(ctx)
	for i := 0; i < threads; i++ {
		workers.Go(func() error {
			return worker(wctx, c, games, results)
		})
	}
	grp.Go(func() error {
		defer close(results)
		return workers.Wait()
	})

	for r := range results {
		if c.Verbose {
			log.Printf("[selfplay] game=%d moves=%d p1first=%v winner=%d",
				r.spec.i, r.Moves, r.spec.p1First, r.Winner)
		}
		st.add(&r)
	}
	return st, grp.Wait()
}

func worker(ctx context.Context, c *Config, games <-chan gameSpec, out chan<- Result) error {
	for g := range games {
		r, err := playGame(ctx, c, g)
		if err != nil {
			return err
		}
		select {
		case out <- *r:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

type randomized struct {
	cli.Player
	epsilon float64
	r       *rand.Rand
	random  *ai.RandomAI
}

func (n *randomized) Move(ctx context.Context, e *engine.Engine, who connect.Player) (int, int, error) {
	if n.r.Float64() < n.epsilon {
		return (&cli.AIPlayer{AI: n.random}).Move(ctx, e, who)
	}
	return n.Player.Move(ctx, e, who)
}

func playGame(ctx context.Context, c *Config, g gameSpec) (*Result, error) {
	r := rand.New(rand.NewSource(g.seed))
	p1, err := c.P1(r.Int63())
	if err != nil {
		return nil, err
	}
	p2, err := c.P2(r.Int63())
	if err != nil {
		return nil, err
	}
	players := [2]cli.Player{p1, p2}
	if c.Epsilon > 0 {
		for i := range players {
			players[i] = &randomized{players[i], c.Epsilon, r, ai.NewRandom(r.Int63())}
		}
	}
	// seat[who] is the index into players of the player moving as who
	seat := [2]int{0, 1}
	if !g.p1First {
		seat = [2]int{1, 0}
	}

	opts := c.Engine
	opts.Seed = r.Int63()
	e := engine.New(opts)
	e.NewGame(c.Game)
	defer e.EndGame()
	who := connect.Player0
	for {
		p := e.Position()
		if over, _ := p.GameOver(); over {
			break
		}
		if _, _, err := players[seat[who]].Move(ctx, e, who); err != nil {
			return nil, err
		}
		who = who.Opponent()
	}

	rec := e.Record()
	rec.SetTag("Player1", c.Names[seat[0]])
	rec.SetTag("Player2", c.Names[seat[1]])
	res := &Result{
		spec:   g,
		Record: rec,
		Moves:  len(e.Moves()),
		Winner: -1,
	}
	if _, w := e.Position().GameOver(); w != connect.NoPlayer {
		res.Winner = seat[w]
		res.WinnerMovedFirst = w == connect.Player0
	}
	return res, nil
}
