package ai

import (
	"flag"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"

	"github.com/nelhage/connectn/cntest"
	"github.com/nelhage/connectn/connect"
)

var width = flag.Int("width", 7, "board width to benchmark")
var depth = flag.Int("depth", 6, "minimax search depth")

func analyze(t *testing.T, p *connect.Position, who connect.Player, cfg MinimaxConfig) Result {
	t.Helper()
	m := NewMinimax(cfg)
	st := connect.NewStack(p)
	res, err := m.Analyze(context.Background(), st, who, m.Config().Depth)
	require.NoError(t, err)
	assert.Equal(t, 0, st.Depth())
	assert.True(t, st.Root().Equal(p), "search leaves the root untouched")
	return res
}

func TestDropOrder(t *testing.T) {
	assert.Equal(t, []int{3, 4, 2, 5, 1, 6, 0}, DropOrder(7))
	assert.Equal(t, []int{2, 3, 1, 4, 0, 5}, DropOrder(6))
	assert.Equal(t, []int{0}, DropOrder(1))
	assert.Equal(t, []int{0, 1}, DropOrder(2))
}

func TestMateInOne(t *testing.T) {
	p, who := cntest.Position(connect.Standard, "1 1 2 2 3 3")
	require.Equal(t, connect.Player0, who)
	for _, d := range []int{1, 2, 5} {
		res := analyze(t, p, who, MinimaxConfig{Depth: d, Seed: 1, NoBook: true})
		assert.Equal(t, 3, res.Column, "depth=%d", d)
		assert.Equal(t, MaxEval, res.Value)
	}
}

func TestBlock(t *testing.T) {
	p, who := cntest.PositionFrom(connect.Standard, connect.Player1, "1 1 2 2 3")
	require.Equal(t, connect.Player0, who)
	for _, d := range []int{2, 4} {
		res := analyze(t, p, who, MinimaxConfig{Depth: d, Seed: 1, NoBook: true})
		assert.Equal(t, 3, res.Column, "depth=%d", d)
		assert.True(t, res.Value > -WinThreshold, "blocking avoids the loss")
	}
}

func TestForcedWin(t *testing.T) {
	p, who := cntest.Position(connect.Standard, "3 3 4 4")
	res := analyze(t, p, who, MinimaxConfig{Depth: 4, Seed: 1, NoBook: true})
	assert.Contains(t, []int{1, 4}, res.Column)
	assert.True(t, res.Value > WinThreshold, "value=%d", res.Value)
	assert.True(t, res.Stats.Terminal > 0)
}

func TestDeterministic(t *testing.T) {
	p, who := cntest.Position(connect.Standard, "4 3 5")
	a := analyze(t, p, who, MinimaxConfig{Depth: 4, Seed: 7})
	b := analyze(t, p, who, MinimaxConfig{Depth: 4, Seed: 7})
	assert.Equal(t, a.Column, b.Column)
	assert.Equal(t, a.Value, b.Value)
	assert.Equal(t, a.Stats.Visited, b.Stats.Visited)
}

func TestTieBreak(t *testing.T) {
	// on 4x4/4 the bottom corners lie on three lines, the middle
	// columns on two
	cfg := connect.Config{Width: 4, Height: 4, Connect: 4}
	p := connect.New(cfg)
	seen := make(map[int]bool)
	var value int64
	for seed := int64(1); seed <= 30; seed++ {
		res := analyze(t, p, connect.Player0, MinimaxConfig{Depth: 1, Seed: seed})
		assert.Equal(t, 2, res.Ties)
		assert.Contains(t, []int{0, 3}, res.Column)
		if seed > 1 {
			assert.Equal(t, value, res.Value)
		}
		value = res.Value
		seen[res.Column] = true
	}
	assert.Len(t, seen, 2, "both corners get chosen")
}

func TestPoll(t *testing.T) {
	p := connect.New(connect.Standard)
	calls := 0
	m := NewMinimax(MinimaxConfig{
		Depth:        6,
		Seed:         1,
		NoBook:       true,
		Poll:         func() { calls++ },
		PollInterval: time.Nanosecond,
	})
	res, err := m.Analyze(context.Background(), connect.NewStack(p), connect.Player0, 6)
	require.NoError(t, err)
	assert.True(t, calls > 0)
	assert.Equal(t, uint64(calls), res.Stats.Polls)

	calls = 0
	m.SetPoll(func() { calls++ }, time.Hour)
	_, err = m.Analyze(context.Background(), connect.NewStack(p), connect.Player0, 6)
	require.NoError(t, err)
	assert.Equal(t, 0, calls)
}

func TestCancel(t *testing.T) {
	p := connect.New(connect.Standard)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := NewMinimax(MinimaxConfig{
		Seed:   1,
		NoBook: true,
		Poll: func() {
			cancel()
			time.Sleep(10 * time.Millisecond)
		},
		PollInterval: time.Nanosecond,
	})
	st := connect.NewStack(p)
	res, err := m.Analyze(ctx, st, connect.Player0, 12)
	assert.Equal(t, context.Canceled, err)
	assert.Equal(t, 0, st.Depth())
	assert.True(t, st.Root().Equal(p))
	assert.True(t, res.Stats.Polls >= 1)
}

func TestReentry(t *testing.T) {
	p := connect.New(connect.Standard)
	var m *MinimaxAI
	m = NewMinimax(MinimaxConfig{
		Seed:   1,
		NoBook: true,
		Poll: func() {
			m.Analyze(context.Background(), connect.NewStack(p), connect.Player1, 1)
		},
		PollInterval: time.Nanosecond,
	})
	assert.Panics(t, func() {
		m.Analyze(context.Background(), connect.NewStack(p), connect.Player0, 6)
	})
}

func TestAnalyzeContract(t *testing.T) {
	p := connect.New(connect.Standard)
	m := NewMinimax(MinimaxConfig{Seed: 1})
	st := connect.NewStack(p)
	ctx := context.Background()
	assert.Panics(t, func() { m.Analyze(ctx, st, connect.Player0, 0) })
	assert.Panics(t, func() { m.Analyze(ctx, st, connect.Player0, MaxDepth+1) })
	assert.Panics(t, func() { m.Analyze(ctx, st, connect.NoPlayer, 3) })
	st.Push()
	assert.Panics(t, func() { m.Analyze(ctx, st, connect.Player0, 3) })
	assert.Panics(t, func() { NewMinimax(MinimaxConfig{Depth: 21}) })
}

func TestFullBoard(t *testing.T) {
	p := connect.New(connect.Config{Width: 1, Height: 1, Connect: 2})
	_, err := p.Drop(connect.Player0, 0)
	require.NoError(t, err)
	m := NewMinimax(MinimaxConfig{Depth: 3, Seed: 1})
	res, err := m.Analyze(context.Background(), connect.NewStack(p), connect.Player1, 3)
	assert.Equal(t, connect.ErrBoardFull, err)
	assert.Equal(t, -1, res.Column)
	assert.Equal(t, -1, m.GetMove(context.Background(), p, connect.Player1))
}

func TestBook(t *testing.T) {
	p := connect.New(connect.Standard)
	res := analyze(t, p, connect.Player0, MinimaxConfig{Depth: 3, Seed: 1})
	assert.True(t, res.Book)
	assert.Equal(t, 3, res.Column)

	p, who := cntest.Position(connect.Standard, "1")
	res = analyze(t, p, who, MinimaxConfig{Depth: 3, Seed: 1})
	assert.True(t, res.Book)
	assert.Equal(t, 3, res.Column)

	p, who = cntest.Position(connect.Standard, "4")
	res = analyze(t, p, who, MinimaxConfig{Depth: 3, Seed: 1})
	assert.False(t, res.Book, "no book reply once the center is taken")
	assert.True(t, res.Stats.Visited > 0)

	p, who = cntest.Position(connect.Standard, "1 7")
	res = analyze(t, p, who, MinimaxConfig{Depth: 3, Seed: 1})
	assert.False(t, res.Book)

	res = analyze(t, connect.New(connect.Standard), connect.Player0,
		MinimaxConfig{Depth: 3, Seed: 1, NoBook: true})
	assert.False(t, res.Book)

	other := connect.New(connect.Config{Width: 8, Height: 6, Connect: 4})
	res = analyze(t, other, connect.Player0, MinimaxConfig{Depth: 3, Seed: 1})
	assert.False(t, res.Book)
}

func TestAgainstRandom(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for _, cfg := range []connect.Config{
		connect.Standard,
		{Width: 5, Height: 4, Connect: 3},
		{Width: 9, Height: 2, Connect: 5},
	} {
		mm := NewMinimax(MinimaxConfig{Depth: 3, Seed: 2})
		rnd := NewRandom(r.Int63())
		players := []Player{mm, rnd}
		p := connect.New(cfg)
		who := connect.Player0
		for {
			if over, _ := p.GameOver(); over {
				break
			}
			col := players[who].GetMove(context.Background(), p, who)
			_, err := p.Drop(who, col)
			require.NoError(t, err, "%s: %s played %d", cfg.String(), who, col)
			who = who.Opponent()
		}
	}
}

func BenchmarkMinimax(b *testing.B) {
	cfg := connect.Config{Width: *width, Height: 6, Connect: 4}
	m := NewMinimax(MinimaxConfig{Depth: *depth, Seed: 1, NoBook: true})
	p := connect.New(cfg)
	who := connect.Player0

	for i := 0; i < b.N; i++ {
		col := m.GetMove(context.Background(), p, who)
		if _, e := p.Drop(who, col); e != nil {
			b.Fatal("bad move", e)
		}
		who = who.Opponent()
		if over, _ := p.GameOver(); over {
			p = connect.New(cfg)
			who = connect.Player0
		}
	}
}
