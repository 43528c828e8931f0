// Package cei speaks a UCI-like line protocol on top of engine.Engine,
// suitable for being driven by an external GUI or controller.
//
//	cei                       -> id lines, ceiok
//	ceinewgame [W H N]        start a game (default Config)
//	position startpos [moves C...]
//	go [depth D] [movetime MS] -> info, bestmove C
//	board                     -> position string
//	isready                   -> readyok
//	quit
package cei

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/context"

	"github.com/pkg/errors"

	"github.com/nelhage/connectn/ai"
	"github.com/nelhage/connectn/connect"
	"github.com/nelhage/connectn/engine"
	"github.com/nelhage/connectn/notation"
)

type Engine struct {
	// Depth is used by go commands that don't name one, and Config by
	// a bare ceinewgame.
	Depth  int
	Config connect.Config

	in  *bufio.Reader
	out io.Writer

	e   *engine.Engine
	cfg connect.Config
	who connect.Player
}

func NewEngine(e *engine.Engine, in io.Reader, out io.Writer) *Engine {
	return &Engine{
		Depth:  ai.DefaultDepth,
		Config: connect.Standard,
		in:     bufio.NewReader(in),
		out:    out,
		e:      e,
	}
}

// Run reads commands until quit or EOF.
func (e *Engine) Run(ctx context.Context) error {
	defer func() {
		if e.e.Active() {
			e.e.EndGame()
		}
	}()
	for {
		line, err := e.in.ReadString('\n')
		if err == io.EOF && line == "" {
			return nil
		}
		if err != nil && err != io.EOF {
			return err
		}
		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}
		switch words[0] {
		case "cei":
			fmt.Fprintf(e.out, "id name %s\n", engine.Version())
			fmt.Fprintln(e.out, "ceiok")
		case "quit":
			return nil
		case "ceinewgame":
			if err := e.newGame(words[1:]); err != nil {
				return err
			}
		case "position":
			if err := e.position(words[1:]); err != nil {
				return errors.Wrap(err, "position")
			}
		case "go":
			if err := e.analyze(ctx, words[1:]); err != nil {
				fmt.Fprintf(e.out, "info error %v\n", err)
			}
		case "board":
			if !e.e.Active() {
				return errors.New("board: no game")
			}
			fmt.Fprintln(e.out, notation.FormatPosition(e.e.Position()))
		case "isready":
			fmt.Fprintln(e.out, "readyok")
		default:
			return errors.Errorf("unknown command: %q", strings.TrimSpace(line))
		}
	}
}

func (e *Engine) newGame(words []string) error {
	cfg := e.Config
	if len(words) != 0 {
		if len(words) != 3 {
			return errors.New("ceinewgame: expected WIDTH HEIGHT CONNECT")
		}
		var dims [3]int
		for i, w := range words {
			n, err := strconv.Atoi(w)
			if err != nil {
				return errors.Errorf("ceinewgame: bad number %q", w)
			}
			dims[i] = n
		}
		cfg = connect.Config{Width: dims[0], Height: dims[1], Connect: dims[2]}
		if err := cfg.Validate(); err != nil {
			return errors.Wrap(err, "ceinewgame")
		}
	}
	e.cfg = cfg
	e.start()
	return nil
}

func (e *Engine) start() {
	if e.e.Active() {
		e.e.EndGame()
	}
	e.e.NewGame(e.cfg)
	e.who = connect.Player0
}

func (e *Engine) position(words []string) error {
	if len(words) == 0 {
		return errors.New("not enough arguments")
	}
	if words[0] != "startpos" {
		return errors.Errorf("unknown initial position: %q", words[0])
	}
	words = words[1:]
	if e.cfg.Width == 0 {
		e.cfg = e.Config
	}
	e.start()
	if len(words) == 0 {
		return nil
	}
	if words[0] != "moves" {
		return errors.New("expected `moves'")
	}
	for _, w := range words[1:] {
		col, err := notation.ParseMove(w)
		if err != nil {
			return err
		}
		if _, err := e.e.MakeMove(e.who, col); err != nil {
			return errors.Wrapf(err, "move %s", w)
		}
		e.who = e.who.Opponent()
	}
	return nil
}

func (e *Engine) analyze(ctx context.Context, words []string) error {
	if !e.e.Active() {
		return errors.New("no position provided")
	}
	depth := e.Depth
	timed := false
	for len(words) > 0 {
		if len(words) < 2 {
			return errors.Errorf("%s: missing value", words[0])
		}
		n, err := strconv.Atoi(words[1])
		if err != nil || n < 1 {
			return errors.Errorf("bad %s: %s", words[0], words[1])
		}
		switch words[0] {
		case "depth":
			if n > ai.MaxDepth {
				return errors.Errorf("depth must be at most %d", ai.MaxDepth)
			}
			depth = n
		case "movetime":
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, time.Duration(n)*time.Millisecond)
			defer cancel()
			timed = true
		default:
			return errors.Errorf("unknown go option %q", words[0])
		}
		words = words[2:]
	}

	col, _, err := e.e.AutoMove(ctx, e.who, depth)
	res := e.e.LastSearch()
	fmt.Fprintf(e.out, "info depth %d time %d nodes %d score %d\n",
		res.Stats.Depth,
		res.Stats.Elapsed/time.Millisecond,
		res.Stats.Visited,
		res.Value,
	)
	if err != nil && timed && ctx.Err() == context.DeadlineExceeded {
		col, err = e.playOutOfTime(res)
	}
	if err != nil {
		return err
	}
	e.who = e.who.Opponent()
	fmt.Fprintf(e.out, "bestmove %s\n", notation.FormatMove(col))
	return nil
}

// playOutOfTime commits the best column the interrupted search had
// fully examined, or a one-ply choice if it finished none.
func (e *Engine) playOutOfTime(res ai.Result) (int, error) {
	if res.Column >= 0 {
		_, err := e.e.MakeMove(e.who, res.Column)
		return res.Column, err
	}
	col, _, err := e.e.AutoMove(context.Background(), e.who, 1)
	return col, err
}
