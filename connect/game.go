package connect

import (
	"fmt"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/nelhage/connectn/lines"
)

// MaxConnect bounds the run length so that per-line potentials
// (2^Connect) and their sums fit comfortably in an int64.
const MaxConnect = 40

type Config struct {
	Width   int
	Height  int
	Connect int

	lines *lines.Index
	basis []uint64
}

// Standard is the classic 7x6 connect-four board.
var Standard = Config{Width: 7, Height: 6, Connect: 4}

func (c Config) Validate() error {
	if c.Width < 1 || c.Height < 1 {
		return errors.Errorf("bad board size: %dx%d", c.Width, c.Height)
	}
	if c.Connect < 1 || c.Connect > MaxConnect {
		return errors.Errorf("bad connect length: %d", c.Connect)
	}
	return nil
}

// IsStandard reports whether c describes a 7x6 board with runs of four.
func (c *Config) IsStandard() bool {
	return c.Width == Standard.Width &&
		c.Height == Standard.Height &&
		c.Connect == Standard.Connect
}

// SameGeometry reports whether two configs describe the same board.
func (c *Config) SameGeometry(o *Config) bool {
	return c.Width == o.Width && c.Height == o.Height && c.Connect == o.Connect
}

func (c *Config) String() string {
	return fmt.Sprintf("%dx%d/%d", c.Width, c.Height, c.Connect)
}

// Lines returns the line index shared by every position of this game.
func (c *Config) Lines() *lines.Index {
	return c.lines
}

func (c *Config) precompute() {
	c.lines = lines.Precompute(c.Width, c.Height, c.Connect)
	r := rand.New(rand.NewSource(0x7a3))
	c.basis = make([]uint64, 2*c.Width*c.Height)
	for i := range c.basis {
		c.basis[i] = uint64(r.Int63())<<1 | uint64(r.Int63()&1)
	}
}

// New returns the empty position for the given geometry. It panics
// if the geometry is invalid.
func New(g Config) *Position {
	if err := g.Validate(); err != nil {
		panic(err.Error())
	}
	g.precompute()
	total := g.lines.Total()
	p := &Position{
		cfg:    &g,
		board:  make([]Player, g.Width*g.Height),
		winner: NoPlayer,
	}
	for i := range p.board {
		p.board[i] = NoPlayer
	}
	for pl := range p.potential {
		p.potential[pl] = make([]int64, total)
		for i := range p.potential[pl] {
			p.potential[pl][i] = 1
		}
		p.score[pl] = int64(total)
	}
	return p
}

// Position is one game state: the board, each player's per-line
// potential (2^k for k own pieces in an uncontested line, 0 once the
// opponent occupies it), the aggregate scores, the winner and the
// piece count.
type Position struct {
	cfg *Config

	// board[x*Height+y]
	board     []Player
	potential [2][]int64
	score     [2]int64
	winner    Player
	pieces    int
	hash      uint64
}

// FromBoard builds a position from a column-major board
// (board[x][y], row 0 at the bottom). Pieces are replayed bottom-up,
// so the result has the same potentials and scores as any legal
// sequence of drops reaching it. The winner is the owner of the first
// complete line met in that replay; when both players own one, use
// FromBoardWinner to name who completed theirs first.
func FromBoard(cfg Config, board [][]Player) (*Position, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(board) != cfg.Width {
		return nil, errors.Errorf("board has %d columns, want %d", len(board), cfg.Width)
	}
	for x, col := range board {
		if len(col) != cfg.Height {
			return nil, errors.Errorf("column %d has %d rows, want %d", x, len(col), cfg.Height)
		}
		for y, c := range col {
			if c != NoPlayer && !c.Valid() {
				return nil, errors.Errorf("bad cell (%d,%d): %d", x, y, int(c))
			}
			if y > 0 && c != NoPlayer && col[y-1] == NoPlayer {
				return nil, errors.Errorf("floating piece at (%d,%d)", x, y)
			}
		}
	}
	p := New(cfg)
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			if board[x][y] == NoPlayer {
				continue
			}
			if _, err := p.Drop(board[x][y], x); err != nil {
				return nil, errors.Wrapf(err, "replay (%d,%d)", x, y)
			}
		}
	}
	return p, nil
}

// FromBoardWinner is FromBoard with the winner supplied by the caller.
// winner must own a complete line, and NoPlayer is only accepted when
// nobody does.
func FromBoardWinner(cfg Config, board [][]Player, winner Player) (*Position, error) {
	p, err := FromBoard(cfg, board)
	if err != nil {
		return nil, err
	}
	switch {
	case winner == NoPlayer:
		if p.winner != NoPlayer {
			return nil, errors.Errorf("no winner given, but %s has a complete line", p.winner)
		}
	case !winner.Valid():
		return nil, errors.Errorf("bad winner: %d", int(winner))
	case !p.HasLine(winner):
		return nil, errors.Errorf("winner %s has no complete line", winner)
	}
	p.winner = winner
	return p, nil
}

func (p *Position) Config() *Config {
	return p.cfg
}

func (p *Position) Width() int {
	return p.cfg.Width
}

func (p *Position) Height() int {
	return p.cfg.Height
}

func (p *Position) Connect() int {
	return p.cfg.Connect
}

func (p *Position) At(x, y int) Player {
	return p.board[x*p.cfg.Height+y]
}

// ColumnHeight is the number of pieces in column x.
func (p *Position) ColumnHeight(x int) int {
	col := p.board[x*p.cfg.Height : (x+1)*p.cfg.Height]
	for y, c := range col {
		if c == NoPlayer {
			return y
		}
	}
	return p.cfg.Height
}

func (p *Position) ColumnFull(x int) bool {
	return p.board[(x+1)*p.cfg.Height-1] != NoPlayer
}

// Board returns a copy of the grid indexed [x][y].
func (p *Position) Board() [][]Player {
	out := make([][]Player, p.cfg.Width)
	for x := range out {
		out[x] = make([]Player, p.cfg.Height)
		copy(out[x], p.board[x*p.cfg.Height:(x+1)*p.cfg.Height])
	}
	return out
}

func (p *Position) Pieces() int {
	return p.pieces
}

func (p *Position) Full() bool {
	return p.pieces == len(p.board)
}

func (p *Position) Score(who Player) int64 {
	return p.score[who]
}

// Goodness is who's score minus the opponent's score.
func (p *Position) Goodness(who Player) int64 {
	return p.score[who] - p.score[who.Opponent()]
}

// Potential returns who's counter for line id.
func (p *Position) Potential(who Player, id int) int64 {
	return p.potential[who][id]
}

func (p *Position) Winner() Player {
	return p.winner
}

// HasLine reports whether who owns every cell of some line. After
// play continues past a win, both players may.
func (p *Position) HasLine(who Player) bool {
	win := int64(1) << uint(p.cfg.Connect)
	for _, v := range p.potential[who] {
		if v == win {
			return true
		}
	}
	return false
}

func (p *Position) IsWinner(who Player) bool {
	return p.winner == who
}

// IsTie reports a full board with no winner.
func (p *Position) IsTie() bool {
	return p.Full() && p.winner == NoPlayer
}

// GameOver reports whether the game has a winner or the board is full.
func (p *Position) GameOver() (over bool, winner Player) {
	if p.winner != NoPlayer {
		return true, p.winner
	}
	return p.Full(), NoPlayer
}

func (p *Position) Equal(o *Position) bool {
	if !p.cfg.SameGeometry(o.cfg) {
		return false
	}
	if p.winner != o.winner || p.pieces != o.pieces || p.score != o.score {
		return false
	}
	for i := range p.board {
		if p.board[i] != o.board[i] {
			return false
		}
	}
	for pl := range p.potential {
		for i := range p.potential[pl] {
			if p.potential[pl][i] != o.potential[pl][i] {
				return false
			}
		}
	}
	return true
}
