package opt

import (
	"bufio"
	"flag"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/nelhage/connectn/ai"
	"github.com/nelhage/connectn/cli"
	"github.com/nelhage/connectn/connect"
	"github.com/nelhage/connectn/engine"
	"github.com/nelhage/connectn/wire"
)

var loadEnv sync.Once

// Getenv reads key after loading ./.env, if present. Variables already
// set in the environment win over the file.
func Getenv(key string) string {
	loadEnv.Do(func() {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(errors.Cause(err)) {
			log.Printf("loading .env: %v", err)
		}
	})
	return os.Getenv(key)
}

// EnvInt reads an integer from the environment, falling back to def.
func EnvInt(key string, def int) int {
	v := Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("ignoring %s=%q: %v", key, v, err)
		return def
	}
	return n
}

// Game holds the board geometry flags.
type Game struct {
	Width   int
	Height  int
	Connect int
}

func (o *Game) AddFlags(flags *flag.FlagSet) {
	flags.IntVar(&o.Width, "width", EnvInt("CONNECTN_WIDTH", connect.Standard.Width), "board width")
	flags.IntVar(&o.Height, "height", EnvInt("CONNECTN_HEIGHT", connect.Standard.Height), "board height")
	flags.IntVar(&o.Connect, "connect", EnvInt("CONNECTN_CONNECT", connect.Standard.Connect), "run length needed to win")
}

func (o *Game) Config() (connect.Config, error) {
	cfg := connect.Config{Width: o.Width, Height: o.Height, Connect: o.Connect}
	return cfg, cfg.Validate()
}

// Search holds the engine flags shared by every command that searches.
type Search struct {
	Seed   int64
	Debug  int
	Depth  int
	Book   string
	NoBook bool
}

func (o *Search) AddFlags(flags *flag.FlagSet) {
	flags.IntVar(&o.Debug, "debug", 0, "debug level")
	flags.Int64Var(&o.Seed, "seed", 0, "specify a seed")
	flags.IntVar(&o.Depth, "depth", EnvInt("CONNECTN_DEPTH", ai.DefaultDepth), "minimax depth (1-20)")
	flags.StringVar(&o.Book, "book", "", "opening book file (one line of columns per opening)")
	flags.BoolVar(&o.NoBook, "no-book", false, "never play book moves")
}

func (o *Search) Validate() error {
	if o.Depth < 1 || o.Depth > ai.MaxDepth {
		return errors.Errorf("depth must be between 1 and %d, not %d", ai.MaxDepth, o.Depth)
	}
	return nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	s := bufio.NewScanner(f)
	for s.Scan() {
		out = append(out, s.Text())
	}
	return out, s.Err()
}

// LoadBook reads the -book file for cfg, or returns nil if there is
// none.
func (o *Search) LoadBook(cfg connect.Config) (*ai.OpeningBook, error) {
	if o.Book == "" {
		return nil, nil
	}
	lines, err := readLines(o.Book)
	if err != nil {
		return nil, err
	}
	ob, err := ai.BuildOpeningBook(cfg, lines)
	if err != nil {
		return nil, errors.Wrap(err, o.Book)
	}
	return ob, nil
}

func (o *Search) Options(book *ai.OpeningBook, seed int64) engine.Options {
	if seed == 0 {
		seed = o.Seed
	}
	return engine.Options{
		Seed:   seed,
		Debug:  o.Debug,
		Book:   book,
		NoBook: o.NoBook,
	}
}

// ParsePlayer builds a computer player from a spec:
//
//	minimax[:DEPTH]   search with the engine (default -depth)
//	rand[:SEED]       uniformly random columns
//	remote:ADDR       ask a `connectn serve` worker at ADDR
func (o *Search) ParsePlayer(spec string, seed int64) (cli.Player, error) {
	kind, arg := spec, ""
	if i := strings.Index(spec, ":"); i >= 0 {
		kind, arg = spec[:i], spec[i+1:]
	}
	switch kind {
	case "minimax":
		depth := o.Depth
		if arg != "" {
			d, err := strconv.Atoi(arg)
			if err != nil {
				return nil, errors.Errorf("bad depth in %q", spec)
			}
			depth = d
		}
		if depth < 1 || depth > ai.MaxDepth {
			return nil, errors.Errorf("depth must be between 1 and %d: %q", ai.MaxDepth, spec)
		}
		return &cli.Computer{Depth: depth}, nil
	case "rand":
		if arg != "" {
			s, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				return nil, errors.Errorf("bad seed in %q", spec)
			}
			seed = s
		}
		return &cli.AIPlayer{AI: ai.NewRandom(seed)}, nil
	case "remote":
		if arg == "" {
			return nil, errors.Errorf("remote player needs an address: %q", spec)
		}
		client, err := wire.Dial(arg, o.Depth)
		if err != nil {
			return nil, err
		}
		client.Seed = seed
		return &cli.AIPlayer{AI: client}, nil
	}
	return nil, errors.Errorf("unparseable player: %q", spec)
}
