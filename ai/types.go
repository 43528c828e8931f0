package ai

import (
	"github.com/nelhage/connectn/connect"
	"golang.org/x/net/context"
)

// Player chooses a column for who to drop into, or -1 if it cannot
// move.
type Player interface {
	GetMove(ctx context.Context, p *connect.Position, who connect.Player) int
}
