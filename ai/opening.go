package ai

import (
	"math/rand"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/nelhage/connectn/connect"
	"github.com/nelhage/connectn/notation"
)

// An OpeningBook maps early positions of one geometry to weighted
// replies. Every position is stored together with its mirror image.
type OpeningBook struct {
	cfg  connect.Config
	book map[uint64]*openingPosition
}

type openingPosition struct {
	p     *connect.Position
	moves []child
}

type child struct {
	column int
	weight int
}

func NewOpeningBook(cfg connect.Config) *OpeningBook {
	return &OpeningBook{
		cfg:  cfg,
		book: make(map[uint64]*openingPosition),
	}
}

// Add records column as a reply to p (and the mirrored column as a
// reply to p's mirror image).
func (ob *OpeningBook) Add(p *connect.Position, column int, weight int) error {
	if !ob.cfg.SameGeometry(p.Config()) {
		return errors.Errorf("book is %s, position is %s",
			ob.cfg.String(), p.Config().String())
	}
	if column < 0 || column >= p.Width() {
		return connect.ErrInvalidColumn
	}
	if p.ColumnFull(column) {
		return connect.ErrColumnFull
	}
	ob.add(p, column, weight)
	ob.add(p.Mirror(), p.MirrorColumn(column), weight)
	return nil
}

func (ob *OpeningBook) add(p *connect.Position, column, weight int) {
	pos, ok := ob.book[p.Hash()]
	if !ok {
		pos = &openingPosition{p: p.Clone()}
		ob.book[p.Hash()] = pos
	}
	for i := range pos.moves {
		if pos.moves[i].column == column {
			pos.moves[i].weight += weight
			return
		}
	}
	pos.moves = append(pos.moves, child{column: column, weight: weight})
}

// BuildOpeningBook builds a book from lines of space-separated,
// 1-based columns, each a game prefix starting from the empty board
// with player 0 to move.
func BuildOpeningBook(cfg connect.Config, lines []string) (*OpeningBook, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ob := NewOpeningBook(cfg)
	for lno, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		p := connect.New(cfg)
		who := connect.Player0
		for _, b := range strings.Fields(line) {
			col, e := notation.ParseMove(b)
			if e != nil {
				return nil, errors.Wrapf(e, "line %d", lno+1)
			}
			if e = ob.Add(p, col, 1); e != nil {
				return nil, errors.Wrapf(e, "line %d: move `%s`", lno+1, b)
			}
			if _, e = p.Drop(who, col); e != nil {
				return nil, errors.Wrapf(e, "line %d: move `%s`", lno+1, b)
			}
			who = who.Opponent()
		}
	}
	return ob, nil
}

// Size is the number of distinct positions in the book.
func (ob *OpeningBook) Size() int {
	return len(ob.book)
}

func (ob *OpeningBook) GetMove(p *connect.Position, r *rand.Rand) (int, bool) {
	if !ob.cfg.SameGeometry(p.Config()) {
		return -1, false
	}
	pos, ok := ob.book[p.Hash()]
	if !ok || !pos.p.Equal(p) {
		return -1, false
	}
	sum := 0
	out := -1
	for _, ch := range pos.moves {
		sum += ch.weight
		if r.Int31n(int32(sum)) < int32(ch.weight) {
			out = ch.column
		}
	}
	return out, out >= 0
}

var (
	standardOnce sync.Once
	standardBook *OpeningBook
)

// StandardBook answers the center column on the standard board when
// it is empty, or holds one piece outside the center column.
func StandardBook() *OpeningBook {
	standardOnce.Do(func() {
		cfg := connect.Standard
		center := (cfg.Width - 1) / 2
		ob := NewOpeningBook(cfg)
		if err := ob.Add(connect.New(cfg), center, 1); err != nil {
			panic(err)
		}
		for x := 0; x < cfg.Width; x++ {
			if x == center {
				continue
			}
			for _, who := range []connect.Player{connect.Player0, connect.Player1} {
				p := connect.New(cfg)
				if _, err := p.Drop(who, x); err != nil {
					panic(err)
				}
				if err := ob.Add(p, center, 1); err != nil {
					panic(err)
				}
			}
		}
		standardBook = ob
	})
	return standardBook
}
