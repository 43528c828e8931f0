package connect

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drops(t *testing.T, p *Position, who Player, cols ...int) Player {
	t.Helper()
	for _, c := range cols {
		_, err := p.Drop(who, c)
		require.NoError(t, err, "drop %s in %d", who, c)
		who = who.Opponent()
	}
	return who
}

func TestNew(t *testing.T) {
	p := New(Standard)
	assert.Equal(t, int64(69), p.Score(Player0))
	assert.Equal(t, int64(69), p.Score(Player1))
	assert.Equal(t, NoPlayer, p.Winner())
	assert.Equal(t, 0, p.Pieces())
	assert.False(t, p.IsTie())
	assert.Panics(t, func() { New(Config{Width: 0, Height: 6, Connect: 4}) })
}

func TestDropGravity(t *testing.T) {
	p := New(Standard)
	for i := 0; i < 6; i++ {
		row, err := p.Drop(Player(i%2), 0)
		require.NoError(t, err)
		assert.Equal(t, i, row)
		assert.Equal(t, Player(i%2), p.At(0, i))
	}
	assert.True(t, p.ColumnFull(0))
	assert.Equal(t, 6, p.ColumnHeight(0))
	assert.Equal(t, 0, p.ColumnHeight(1))
}

func TestDropErrorsDoNotMutate(t *testing.T) {
	p := New(Standard)
	drops(t, p, Player0, 0, 0, 0, 0, 0, 0)
	before := p.Clone()

	_, err := p.Drop(Player0, 0)
	assert.Equal(t, ErrColumnFull, err)
	assert.True(t, before.Equal(p))
	assert.Equal(t, before.Hash(), p.Hash())

	_, err = p.Drop(Player0, 7)
	assert.Equal(t, ErrInvalidColumn, err)
	_, err = p.Drop(Player0, -1)
	assert.Equal(t, ErrInvalidColumn, err)
	assert.True(t, before.Equal(p))

	assert.Panics(t, func() { p.Drop(NoPlayer, 1) })
}

func TestScoreDelta(t *testing.T) {
	p := New(Standard)
	drops(t, p, Player0, 3)
	// (3,0) lies on 7 lines, each doubled for player 0 and taken
	// from player 1.
	assert.Equal(t, int64(69+7), p.Score(Player0))
	assert.Equal(t, int64(69-7), p.Score(Player1))
	for _, id := range p.Config().Lines().Through(3, 0) {
		assert.Equal(t, int64(2), p.Potential(Player0, id))
		assert.Equal(t, int64(0), p.Potential(Player1, id))
	}
}

func checkInvariants(t *testing.T, p *Position) {
	t.Helper()
	for _, who := range []Player{Player0, Player1} {
		var sum int64
		for id := 0; id < p.Config().Lines().Total(); id++ {
			sum += p.Potential(who, id)
		}
		require.Equal(t, sum, p.Score(who), "score of %s", who)
	}
	for id := 0; id < p.Config().Lines().Total(); id++ {
		a, b := p.Potential(Player0, id), p.Potential(Player1, id)
		if a != 0 && b != 0 {
			require.True(t, a == 1 && b == 1, "line %d contested: %d/%d", id, a, b)
		}
	}
}

func TestRandomGamesInvariants(t *testing.T) {
	geometries := []Config{
		Standard,
		{Width: 4, Height: 4, Connect: 4},
		{Width: 3, Height: 5, Connect: 4},
		{Width: 9, Height: 3, Connect: 3},
		{Width: 5, Height: 5, Connect: 2},
	}
	r := rand.New(rand.NewSource(42))
	for _, cfg := range geometries {
		for game := 0; game < 20; game++ {
			p := New(cfg)
			who := Player0
			winner := NoPlayer
			for !p.Full() {
				col := r.Intn(cfg.Width)
				mine, theirs := p.Score(who), p.Score(who.Opponent())
				_, err := p.Drop(who, col)
				if err == ErrColumnFull {
					continue
				}
				require.NoError(t, err)
				checkInvariants(t, p)
				assert.True(t, p.Score(who) >= mine, "mover's score never drops")
				assert.True(t, p.Score(who.Opponent()) <= theirs, "opponent's score never rises")
				if winner != NoPlayer {
					require.Equal(t, winner, p.Winner(), "winner is permanent")
				}
				winner = p.Winner()
				who = who.Opponent()
			}
			assert.Equal(t, cfg.Width*cfg.Height, p.Pieces())
			assert.Equal(t, winner == NoPlayer, p.IsTie())
		}
	}
}

func TestHorizontalWin(t *testing.T) {
	p := New(Standard)
	drops(t, p, Player0, 0, 0, 1, 1, 2, 2)
	assert.Equal(t, NoPlayer, p.Winner())
	assert.Nil(t, p.WinningLine())
	drops(t, p, Player0, 3)
	assert.True(t, p.IsWinner(Player0))
	assert.False(t, p.IsWinner(Player1))

	cells := p.WinningLine()
	require.Len(t, cells, 4)
	for i, c := range cells {
		assert.Equal(t, i, c.X)
		assert.Equal(t, 0, c.Y)
		assert.Equal(t, Player0, p.At(c.X, c.Y))
	}
	from, to, ok := p.WinningEnds()
	assert.True(t, ok)
	assert.Equal(t, cells[0], from)
	assert.Equal(t, cells[3], to)

	over, w := p.GameOver()
	assert.True(t, over)
	assert.Equal(t, Player0, w)
}

func TestDiagonalWin(t *testing.T) {
	p := New(Standard)
	// player 1 builds the backward diagonal (3,0) (2,1) (1,2) (0,3)
	drops(t, p, Player0,
		2, 3,
		1, 2,
		1, 1,
		0, 6,
		0, 6,
		0)
	assert.Equal(t, NoPlayer, p.Winner())
	drops(t, p, Player1, 0)
	require.True(t, p.IsWinner(Player1))
	cells := p.WinningLine()
	require.Len(t, cells, 4)
	for i, c := range cells {
		assert.Equal(t, 3-i, c.X)
		assert.Equal(t, i, c.Y)
		assert.Equal(t, Player1, p.At(c.X, c.Y))
	}
}

func TestTie(t *testing.T) {
	p := New(Config{Width: 1, Height: 1, Connect: 2})
	assert.Equal(t, 0, p.Config().Lines().Total())
	_, err := p.Drop(Player0, 0)
	require.NoError(t, err)
	assert.True(t, p.IsTie())
	over, w := p.GameOver()
	assert.True(t, over)
	assert.Equal(t, NoPlayer, w)
}

func TestMoveDoesNotMutate(t *testing.T) {
	p := New(Standard)
	n, row, err := p.Move(Player0, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, row)
	assert.Equal(t, NoPlayer, p.At(3, 0))
	assert.Equal(t, Player0, n.At(3, 0))
	assert.Equal(t, 0, p.Pieces())
	assert.Equal(t, 1, n.Pieces())

	buf := New(Standard)
	m, _, err := n.MovePreallocated(Player1, 3, buf)
	require.NoError(t, err)
	assert.True(t, m == buf)
	assert.Equal(t, Player1, buf.At(3, 1))
	assert.Equal(t, NoPlayer, n.At(3, 1))
}

func TestHashOrderIndependent(t *testing.T) {
	a := New(Standard)
	drops(t, a, Player0, 0, 1, 2, 3)
	b := New(Standard)
	drops(t, b, Player0, 2, 3, 0, 1)
	assert.Equal(t, a.Hash(), b.Hash())
	assert.True(t, a.Equal(b))

	c := New(Standard)
	drops(t, c, Player1, 0, 1, 2, 3)
	assert.NotEqual(t, a.Hash(), c.Hash())
}

func TestFromBoard(t *testing.T) {
	src := New(Standard)
	drops(t, src, Player0, 3, 3, 2, 4, 4)
	p, err := FromBoard(Standard, src.Board())
	require.NoError(t, err)
	assert.True(t, src.Equal(p))
	assert.Equal(t, src.Hash(), p.Hash())

	board := New(Standard).Board()
	board[2][1] = Player0
	_, err = FromBoard(Standard, board)
	assert.Error(t, err)

	_, err = FromBoard(Standard, board[:3])
	assert.Error(t, err)
}

func TestFromBoardWinner(t *testing.T) {
	src := New(Standard)
	// player 0 wins in column 6, then player 1 completes row 0
	drops(t, src, Player0, 6, 0, 6, 1, 6, 2, 6, 3)
	require.True(t, src.IsWinner(Player0))
	assert.True(t, src.HasLine(Player0))
	assert.True(t, src.HasLine(Player1))

	replayed, err := FromBoard(Standard, src.Board())
	require.NoError(t, err)
	assert.Equal(t, Player1, replayed.Winner(), "row 0 is replayed first")

	p, err := FromBoardWinner(Standard, src.Board(), Player0)
	require.NoError(t, err)
	assert.True(t, src.Equal(p))
	for _, c := range p.WinningLine() {
		assert.Equal(t, 6, c.X)
	}

	_, err = FromBoardWinner(Standard, src.Board(), NoPlayer)
	assert.Error(t, err)

	open := New(Standard)
	drops(t, open, Player0, 3, 3)
	assert.False(t, open.HasLine(Player0))
	_, err = FromBoardWinner(Standard, open.Board(), Player0)
	assert.Error(t, err)
	p, err = FromBoardWinner(Standard, open.Board(), NoPlayer)
	require.NoError(t, err)
	assert.True(t, open.Equal(p))
	_, err = FromBoardWinner(Standard, open.Board(), Player(7))
	assert.Error(t, err)
}

func TestStack(t *testing.T) {
	root := New(Standard)
	drops(t, root, Player0, 3)
	st := NewStack(root)
	assert.Equal(t, 0, st.Depth())

	top := st.Push()
	assert.Equal(t, 1, st.Depth())
	assert.True(t, top.Equal(st.Root()))
	_, err := top.Drop(Player1, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, top.Pieces())
	assert.Equal(t, NoPlayer, st.Root().At(3, 1))

	st.Push()
	st.Pop()
	st.Pop()
	assert.Equal(t, 0, st.Depth())
	assert.True(t, st.Top() == st.Root())
	allocated := st.Allocated()

	for i := 0; i < 10; i++ {
		st.Push()
		st.Push()
		st.Pop()
		st.Pop()
	}
	assert.Equal(t, allocated, st.Allocated(), "frames are reused")
	assert.Panics(t, func() { st.Pop() })

	other := New(Config{Width: 5, Height: 5, Connect: 3})
	st.Reset(other)
	assert.Equal(t, 1, st.Allocated())
	assert.Equal(t, 5, st.Top().Width())
}

func TestMirror(t *testing.T) {
	p := New(Standard)
	drops(t, p, Player0, 0, 1, 1)
	m := p.Mirror()
	assert.Equal(t, Player0, m.At(6, 0))
	assert.Equal(t, Player1, m.At(5, 0))
	assert.Equal(t, Player0, m.At(5, 1))
	assert.Equal(t, p.Score(Player0), m.Score(Player0))
	assert.Equal(t, p.Score(Player1), m.Score(Player1))
	assert.Equal(t, 6, p.MirrorColumn(0))
	assert.True(t, p.Equal(m.Mirror()))
}
