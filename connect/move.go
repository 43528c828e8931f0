package connect

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrInvalidColumn = errors.New("invalid column")
	ErrColumnFull    = errors.New("column is full")
	ErrBoardFull     = errors.New("board is full")
)

// Drop places who's piece in the lowest empty row of column and
// returns that row. The position is modified in place; on error it
// is left untouched.
func (p *Position) Drop(who Player, column int) (int, error) {
	if !who.Valid() {
		panic(fmt.Sprintf("Drop: bad player %d", int(who)))
	}
	if column < 0 || column >= p.cfg.Width {
		return -1, ErrInvalidColumn
	}
	h := p.cfg.Height
	y := 0
	for y < h && p.board[column*h+y] != NoPlayer {
		y++
	}
	if y == h {
		return -1, ErrColumnFull
	}
	i := column*h + y
	p.board[i] = who
	p.pieces++
	p.hash ^= p.cfg.basis[2*i+int(who)]
	p.updateScore(who, column, y)
	return y, nil
}

// updateScore applies the effect of who's new piece at (x, y) to
// every line through it, adjusting both scores by the accumulated
// deltas instead of re-summing.
func (p *Position) updateScore(who Player, x, y int) {
	other := who.Opponent()
	mine, theirs := p.potential[who], p.potential[other]
	win := int64(1) << uint(p.cfg.Connect)
	var gained, lost int64
	for _, id := range p.cfg.lines.Through(x, y) {
		gained += mine[id]
		lost += theirs[id]
		mine[id] <<= 1
		theirs[id] = 0
		if mine[id] == win && p.winner == NoPlayer {
			p.winner = who
		}
	}
	p.score[who] += gained
	p.score[other] -= lost
}

// Move returns a new position with who's piece dropped in column,
// leaving p unchanged.
func (p *Position) Move(who Player, column int) (*Position, int, error) {
	return p.MovePreallocated(who, column, nil)
}

// MovePreallocated is Move, but copies into next (which must have
// been allocated for the same geometry) instead of allocating.
func (p *Position) MovePreallocated(who Player, column int, next *Position) (*Position, int, error) {
	if next == nil {
		next = alloc(p)
	} else {
		copyPosition(p, next)
	}
	row, err := next.Drop(who, column)
	if err != nil {
		return nil, -1, err
	}
	return next, row, nil
}
