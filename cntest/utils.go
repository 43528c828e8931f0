// Package cntest has helpers for building positions in tests.
package cntest

import (
	"github.com/nelhage/connectn/connect"
	"github.com/nelhage/connectn/notation"
)

func Moves(s string) []int {
	ms, e := notation.ParseMoves(s)
	if e != nil {
		panic(e)
	}
	return ms
}

// Position plays ms (1-based columns) from the empty board, player 0
// first, and returns the result with the player to move next.
func Position(cfg connect.Config, ms string) (*connect.Position, connect.Player) {
	return PositionFrom(cfg, connect.Player0, ms)
}

func PositionFrom(cfg connect.Config, first connect.Player, ms string) (*connect.Position, connect.Player) {
	p := connect.New(cfg)
	who := first
	for _, m := range Moves(ms) {
		if _, e := p.Drop(who, m); e != nil {
			panic(e)
		}
		who = who.Opponent()
	}
	return p, who
}
