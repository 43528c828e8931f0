package ai

import (
	"math/rand"

	"golang.org/x/net/context"

	"github.com/nelhage/connectn/connect"
)

// RandomAI drops into a uniformly chosen open column.
type RandomAI struct {
	r *rand.Rand
}

func (r *RandomAI) GetMove(ctx context.Context, p *connect.Position, who connect.Player) int {
	open := make([]int, 0, p.Width())
	for x := 0; x < p.Width(); x++ {
		if !p.ColumnFull(x) {
			open = append(open, x)
		}
	}
	if len(open) == 0 {
		return -1
	}
	return open[r.r.Intn(len(open))]
}

func NewRandom(seed int64) *RandomAI {
	return &RandomAI{
		r: rand.New(rand.NewSource(seed)),
	}
}
