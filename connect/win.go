package connect

import "github.com/nelhage/connectn/lines"

// WinningLine returns the cells of the first completed line owned by
// the winner, ordered from the bottom row up. It returns nil if there
// is no winner.
func (p *Position) WinningLine() []lines.Cell {
	if p.winner == NoPlayer {
		return nil
	}
	win := int64(1) << uint(p.cfg.Connect)
	for id, v := range p.potential[p.winner] {
		if v == win {
			return p.cfg.lines.Cells(id)
		}
	}
	panic("WinningLine: winner recorded without a complete line")
}

// WinningEnds returns the two extreme cells of the winning line,
// lowest first.
func (p *Position) WinningEnds() (from, to lines.Cell, ok bool) {
	cells := p.WinningLine()
	if cells == nil {
		return from, to, false
	}
	return cells[0], cells[len(cells)-1], true
}
