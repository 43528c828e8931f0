package connect

import "fmt"

// Player identifies the owner of a cell. NoPlayer marks an empty
// cell or the absence of a winner.
type Player byte

const (
	Player0  Player = 0
	Player1  Player = 1
	NoPlayer Player = 2
)

func (p Player) String() string {
	switch p {
	case Player0:
		return "player 0"
	case Player1:
		return "player 1"
	case NoPlayer:
		return "nobody"
	default:
		panic(fmt.Sprintf("bad player: %d", int(p)))
	}
}

// Opponent returns the other player. NoPlayer has no opponent.
func (p Player) Opponent() Player {
	switch p {
	case Player0:
		return Player1
	case Player1:
		return Player0
	default:
		panic(fmt.Sprintf("bad player: %d", int(p)))
	}
}

func (p Player) Valid() bool {
	return p == Player0 || p == Player1
}
