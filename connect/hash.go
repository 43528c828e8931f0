package connect

// Hash is a Zobrist hash over occupied cells. It does not include the
// geometry; compare configs separately when mixing board sizes.
func (p *Position) Hash() uint64 {
	return p.hash
}
