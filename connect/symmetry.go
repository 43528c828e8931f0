package connect

// Mirror returns p reflected left to right. Column x of p becomes
// column Width-1-x of the result.
func (p *Position) Mirror() *Position {
	board := p.Board()
	for i, j := 0, len(board)-1; i < j; i, j = i+1, j-1 {
		board[i], board[j] = board[j], board[i]
	}
	out, err := FromBoard(*p.cfg, board)
	if err != nil {
		panic("Mirror: " + err.Error())
	}
	return out
}

// MirrorColumn maps a column through Mirror.
func (p *Position) MirrorColumn(x int) int {
	return p.cfg.Width - 1 - x
}
