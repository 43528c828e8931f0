package notation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/nelhage/connectn/connect"
)

// A position is written as its rows from top to bottom, separated by
// '/', followed by the connect length:
//
//	......./......./......./......./...O.../..XX... 4
//
// '.' is empty, 'X' is player 0 and 'O' is player 1.

func FormatPosition(p *connect.Position) string {
	rows := make([]string, 0, p.Height())
	for y := p.Height() - 1; y >= 0; y-- {
		row := make([]byte, p.Width())
		for x := range row {
			row[x] = cellChar(p.At(x, y))
		}
		rows = append(rows, string(row))
	}
	return fmt.Sprintf("%s %d", strings.Join(rows, "/"), p.Connect())
}

func cellChar(c connect.Player) byte {
	switch c {
	case connect.Player0:
		return 'X'
	case connect.Player1:
		return 'O'
	default:
		return '.'
	}
}

func ParsePosition(s string) (*connect.Position, error) {
	words := strings.Fields(s)
	if len(words) != 2 {
		return nil, errors.New("bad position: wrong number of words")
	}
	n, err := strconv.Atoi(words[1])
	if err != nil {
		return nil, errors.Errorf("bad connect length: %s", words[1])
	}
	rows := strings.Split(words[0], "/")
	w := len(rows[0])
	cfg := connect.Config{Width: w, Height: len(rows), Connect: n}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	board := make([][]connect.Player, w)
	for x := range board {
		board[x] = make([]connect.Player, len(rows))
	}
	for i, r := range rows {
		if len(r) != w {
			return nil, errors.Errorf("row %d bad length: %d", i, len(r))
		}
		y := len(rows) - 1 - i
		for x := 0; x < w; x++ {
			switch r[x] {
			case '.':
				board[x][y] = connect.NoPlayer
			case 'X':
				board[x][y] = connect.Player0
			case 'O':
				board[x][y] = connect.Player1
			default:
				return nil, errors.Errorf("bad cell %q in row %d", r[x], i)
			}
		}
	}
	return connect.FromBoard(cfg, board)
}
