// Package engine is the game-instance facade used by front ends: it
// owns one game at a time, commits human and computer moves to it and
// answers questions about the result.
package engine

import (
	"fmt"
	"log"
	"time"

	"golang.org/x/net/context"

	"github.com/nelhage/connectn/ai"
	"github.com/nelhage/connectn/connect"
	"github.com/nelhage/connectn/lines"
	"github.com/nelhage/connectn/notation"
)

const version = "1.2.0"

// Version identifies the engine build.
func Version() string {
	return "connectn " + version
}

type Options struct {
	Seed  int64
	Debug int

	// Book replaces the standard opening book; NoBook disables it.
	Book   *ai.OpeningBook
	NoBook bool
}

// A Move is one committed drop.
type Move struct {
	Player connect.Player
	Column int
	Row    int
}

// Engine holds at most one active game. It is not safe for concurrent
// use.
type Engine struct {
	opts Options
	mm   *ai.MinimaxAI

	active bool
	moving bool
	stack  *connect.Stack
	moves  []Move
	last   ai.Result

	poll         func()
	pollInterval time.Duration
}

func New(opts Options) *Engine {
	e := &Engine{opts: opts}
	e.mm = ai.NewMinimax(ai.MinimaxConfig{
		Depth:  ai.DefaultDepth,
		Seed:   opts.Seed,
		Debug:  opts.Debug,
		Book:   opts.Book,
		NoBook: opts.NoBook,
	})
	return e
}

func (e *Engine) mustBeIdle(op string) {
	if e.moving {
		panic(op + ": called while a move is in progress")
	}
}

func (e *Engine) mustBeActive(op string) {
	if !e.active {
		panic(op + ": no active game")
	}
	e.mustBeIdle(op)
}

// NewGame starts a game on an empty board. It panics if a game is
// already active or the geometry is invalid.
func (e *Engine) NewGame(cfg connect.Config) {
	e.mustBeIdle("NewGame")
	if e.active {
		panic("NewGame: a game is already active")
	}
	p := connect.New(cfg)
	if e.stack == nil {
		e.stack = connect.NewStack(p)
	} else {
		e.stack.Reset(p)
	}
	e.moves = nil
	e.last = ai.Result{}
	e.active = true
	if e.opts.Debug > 0 {
		log.Printf("[engine] new game %s lines=%d", cfg.String(), p.Config().Lines().Total())
	}
}

// EndGame releases the active game. A new one may then be started.
func (e *Engine) EndGame() {
	e.mustBeActive("EndGame")
	e.active = false
	e.moves = nil
}

// Reset abandons any active game and removes the poll hook.
func (e *Engine) Reset() {
	e.mustBeIdle("Reset")
	e.active = false
	e.moves = nil
	e.stack = nil
	e.last = ai.Result{}
	e.SetPoll(nil, 0)
}

func (e *Engine) Active() bool {
	return e.active
}

// SetPoll installs fn to be called at most once per interval during
// long searches. fn must not call back into the engine.
func (e *Engine) SetPoll(fn func(), interval time.Duration) {
	e.mustBeIdle("SetPoll")
	e.poll = fn
	e.pollInterval = interval
}

func (e *Engine) current() *connect.Position {
	return e.stack.Root()
}

// MakeMove drops who's piece into column and returns the row it
// landed in. On error nothing changes.
func (e *Engine) MakeMove(who connect.Player, column int) (int, error) {
	e.mustBeActive("MakeMove")
	if !who.Valid() {
		panic(fmt.Sprintf("MakeMove: bad player %d", int(who)))
	}
	return e.commit(who, column)
}

func (e *Engine) commit(who connect.Player, column int) (int, error) {
	p := e.current()
	if p.Full() {
		return -1, connect.ErrBoardFull
	}
	row, err := p.Drop(who, column)
	if err != nil {
		return -1, err
	}
	e.moves = append(e.moves, Move{Player: who, Column: column, Row: row})
	return row, nil
}

// AutoMove searches depth plies ahead, then commits and returns the
// column chosen for who and the row the piece landed in. If the
// search is cancelled or the board is full, nothing is committed.
func (e *Engine) AutoMove(ctx context.Context, who connect.Player, depth int) (int, int, error) {
	e.mustBeActive("AutoMove")
	if depth < 1 || depth > ai.MaxDepth {
		panic(fmt.Sprintf("AutoMove: bad depth %d", depth))
	}
	if e.current().Full() {
		return -1, -1, connect.ErrBoardFull
	}

	e.moving = true
	defer func() { e.moving = false }()

	e.mm.SetPoll(e.poll, e.pollInterval)
	res, err := e.mm.Analyze(ctx, e.stack, who, depth)
	e.last = res
	if err != nil {
		return -1, -1, err
	}
	row, err := e.commit(who, res.Column)
	if err != nil {
		// the search only returns columns it could drop into
		panic(fmt.Sprintf("AutoMove: search chose column %d: %v", res.Column, err))
	}
	return res.Column, row, nil
}

// LastSearch describes the most recent AutoMove search.
func (e *Engine) LastSearch() ai.Result {
	return e.last
}

// Position returns a copy of the current position.
func (e *Engine) Position() *connect.Position {
	e.mustBeActive("Position")
	return e.current().Clone()
}

// Board returns a snapshot of the grid indexed [column][row], row 0 at
// the bottom.
func (e *Engine) Board() [][]connect.Player {
	e.mustBeActive("Board")
	return e.current().Board()
}

func (e *Engine) ScoreOf(who connect.Player) int64 {
	e.mustBeActive("ScoreOf")
	return e.current().Score(who)
}

func (e *Engine) IsWinner(who connect.Player) bool {
	e.mustBeActive("IsWinner")
	return e.current().IsWinner(who)
}

func (e *Engine) IsTie() bool {
	e.mustBeActive("IsTie")
	return e.current().IsTie()
}

// WinningCoordinates lists the cells of the winning line, lowest row
// first, or nil while nobody has won.
func (e *Engine) WinningCoordinates() []lines.Cell {
	e.mustBeActive("WinningCoordinates")
	return e.current().WinningLine()
}

func (e *Engine) Moves() []Move {
	out := make([]Move, len(e.moves))
	copy(out, e.moves)
	return out
}

// Record renders the game so far, with a result once it is over. The
// record format assumes the players alternated.
func (e *Engine) Record() *notation.Record {
	e.mustBeActive("Record")
	p := e.current()
	rec := notation.NewRecord(*p.Config())
	if len(e.moves) > 0 && e.moves[0].Player != connect.Player0 {
		rec.SetTag("First", "1")
	}
	cols := make([]int, len(e.moves))
	for i, m := range e.moves {
		cols[i] = m.Column
	}
	rec.AddMoves(cols)
	if over, winner := p.GameOver(); over {
		rec.SetResult(winner)
	}
	return rec
}
