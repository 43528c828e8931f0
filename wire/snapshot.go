package wire

import (
	"github.com/pkg/errors"

	"github.com/nelhage/connectn/connect"
)

func FromPosition(p *connect.Position) *Snapshot {
	total := p.Config().Lines().Total()
	s := &Snapshot{
		Width:      int32(p.Width()),
		Height:     int32(p.Height()),
		Connect:    int32(p.Connect()),
		Cells:      make([]int32, 0, p.Width()*p.Height()),
		Potential0: make([]int64, total),
		Potential1: make([]int64, total),
		Score0:     p.Score(connect.Player0),
		Score1:     p.Score(connect.Player1),
		Winner:     int32(p.Winner()),
		Pieces:     int32(p.Pieces()),
	}
	for x := 0; x < p.Width(); x++ {
		for y := 0; y < p.Height(); y++ {
			s.Cells = append(s.Cells, int32(p.At(x, y)))
		}
	}
	for id := 0; id < total; id++ {
		s.Potential0[id] = p.Potential(connect.Player0, id)
		s.Potential1[id] = p.Potential(connect.Player1, id)
	}
	return s
}

// Position rebuilds the game state from its cells and checks that the
// counters, scores, winner and piece count carried alongside agree.
func (s *Snapshot) Position() (*connect.Position, error) {
	if s == nil {
		return nil, errors.New("missing snapshot")
	}
	cfg := connect.Config{
		Width:   int(s.Width),
		Height:  int(s.Height),
		Connect: int(s.Connect),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(s.Cells) != cfg.Width*cfg.Height {
		return nil, errors.Errorf("snapshot has %d cells, want %d", len(s.Cells), cfg.Width*cfg.Height)
	}
	board := make([][]connect.Player, cfg.Width)
	for x := range board {
		board[x] = make([]connect.Player, cfg.Height)
		for y := range board[x] {
			c := s.Cells[x*cfg.Height+y]
			if c < 0 || c > int32(connect.NoPlayer) {
				return nil, errors.Errorf("bad cell (%d,%d): %d", x, y, c)
			}
			board[x][y] = connect.Player(c)
		}
	}
	if s.Winner < 0 || s.Winner > int32(connect.NoPlayer) {
		return nil, errors.Errorf("bad winner: %d", s.Winner)
	}
	p, err := connect.FromBoardWinner(cfg, board, connect.Player(s.Winner))
	if err != nil {
		return nil, err
	}

	total := p.Config().Lines().Total()
	if len(s.Potential0) != total || len(s.Potential1) != total {
		return nil, errors.Errorf("snapshot has %d/%d potentials, want %d",
			len(s.Potential0), len(s.Potential1), total)
	}
	for id := 0; id < total; id++ {
		if s.Potential0[id] != p.Potential(connect.Player0, id) ||
			s.Potential1[id] != p.Potential(connect.Player1, id) {
			return nil, errors.Errorf("inconsistent potential for line %d", id)
		}
	}
	if s.Score0 != p.Score(connect.Player0) || s.Score1 != p.Score(connect.Player1) {
		return nil, errors.New("inconsistent scores")
	}
	if int(s.Pieces) != p.Pieces() {
		return nil, errors.New("inconsistent piece count")
	}
	return p, nil
}
