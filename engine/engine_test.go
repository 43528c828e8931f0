package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"

	"github.com/nelhage/connectn/connect"
)

func TestEndToEnd(t *testing.T) {
	ctx := context.Background()
	e := New(Options{Seed: 1})
	e.NewGame(connect.Standard)

	col, row, err := e.AutoMove(ctx, connect.Player0, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, col)
	assert.Equal(t, 0, row)
	assert.True(t, e.LastSearch().Book, "opening move comes from the book")

	row, err = e.MakeMove(connect.Player1, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, row)

	who := connect.Player0
	for i := 0; i < 6; i++ {
		row, err = e.MakeMove(who, 0)
		require.NoError(t, err)
		assert.Equal(t, i, row)
		who = who.Opponent()
	}
	_, err = e.MakeMove(who, 0)
	assert.Equal(t, connect.ErrColumnFull, err)
	assert.Len(t, e.Moves(), 8)
	e.EndGame()

	e.NewGame(connect.Standard)
	for _, m := range []struct {
		who connect.Player
		col int
	}{
		{connect.Player0, 0}, {connect.Player1, 0},
		{connect.Player0, 1}, {connect.Player1, 1},
		{connect.Player0, 2}, {connect.Player1, 6},
	} {
		_, err := e.MakeMove(m.who, m.col)
		require.NoError(t, err)
	}
	assert.False(t, e.IsWinner(connect.Player0))
	assert.Nil(t, e.WinningCoordinates())

	col, row, err = e.AutoMove(ctx, connect.Player0, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, col)
	assert.Equal(t, 0, row)
	assert.True(t, e.IsWinner(connect.Player0))
	assert.False(t, e.IsWinner(connect.Player1))
	assert.False(t, e.IsTie())

	cells := e.WinningCoordinates()
	require.Len(t, cells, 4)
	for i, c := range cells {
		assert.Equal(t, i, c.X)
		assert.Equal(t, 0, c.Y)
	}
}

func TestContract(t *testing.T) {
	e := New(Options{Seed: 1})
	assert.False(t, e.Active())
	assert.Panics(t, func() { e.MakeMove(connect.Player0, 0) })
	assert.Panics(t, func() { e.Board() })
	assert.Panics(t, func() { e.EndGame() })
	assert.Panics(t, func() { e.NewGame(connect.Config{Width: 0, Height: 6, Connect: 4}) })

	e.NewGame(connect.Standard)
	assert.True(t, e.Active())
	assert.Panics(t, func() { e.NewGame(connect.Standard) })
	assert.Panics(t, func() { e.AutoMove(context.Background(), connect.Player0, 0) })
	assert.Panics(t, func() { e.AutoMove(context.Background(), connect.Player0, 21) })
	assert.Panics(t, func() { e.MakeMove(connect.NoPlayer, 0) })

	e.EndGame()
	assert.False(t, e.Active())
	e.NewGame(connect.Config{Width: 5, Height: 4, Connect: 3})
	assert.Len(t, e.Board(), 5)
	e.Reset()
	assert.False(t, e.Active())
	e.NewGame(connect.Standard)
}

func TestIllegalMoves(t *testing.T) {
	e := New(Options{Seed: 1})
	e.NewGame(connect.Standard)
	_, err := e.MakeMove(connect.Player0, 7)
	assert.Equal(t, connect.ErrInvalidColumn, err)
	_, err = e.MakeMove(connect.Player0, -1)
	assert.Equal(t, connect.ErrInvalidColumn, err)
	assert.Empty(t, e.Moves())
	assert.Equal(t, int64(69), e.ScoreOf(connect.Player0))
	assert.Equal(t, int64(69), e.ScoreOf(connect.Player1))
}

func TestBoardFull(t *testing.T) {
	e := New(Options{Seed: 1})
	e.NewGame(connect.Config{Width: 2, Height: 1, Connect: 2})
	_, err := e.MakeMove(connect.Player0, 0)
	require.NoError(t, err)
	col, _, err := e.AutoMove(context.Background(), connect.Player1, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, col)
	assert.True(t, e.IsTie())

	_, err = e.MakeMove(connect.Player0, 0)
	assert.Equal(t, connect.ErrBoardFull, err)
	_, _, err = e.AutoMove(context.Background(), connect.Player0, 3)
	assert.Equal(t, connect.ErrBoardFull, err)
	assert.Len(t, e.Moves(), 2)
}

func TestCancelCommitsNothing(t *testing.T) {
	e := New(Options{Seed: 1})
	e.NewGame(connect.Config{Width: 8, Height: 6, Connect: 4})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	e.SetPoll(func() {
		cancel()
		time.Sleep(10 * time.Millisecond)
	}, time.Nanosecond)

	_, _, err := e.AutoMove(ctx, connect.Player0, 12)
	assert.Equal(t, context.Canceled, err)
	assert.Empty(t, e.Moves())
	assert.Equal(t, 0, e.Position().Pieces())

	e.SetPoll(nil, 0)
	_, _, err = e.AutoMove(context.Background(), connect.Player0, 2)
	assert.NoError(t, err)
	assert.Len(t, e.Moves(), 1)
}

func TestPollMayNotReenter(t *testing.T) {
	e := New(Options{Seed: 1, NoBook: true})
	e.NewGame(connect.Standard)
	e.SetPoll(func() { e.ScoreOf(connect.Player0) }, time.Nanosecond)
	assert.Panics(t, func() { e.AutoMove(context.Background(), connect.Player0, 6) })
	assert.Empty(t, e.Moves())

	e.SetPoll(nil, 0)
	_, _, err := e.AutoMove(context.Background(), connect.Player0, 2)
	assert.NoError(t, err)
}

func TestRecord(t *testing.T) {
	e := New(Options{Seed: 3})
	e.NewGame(connect.Config{Width: 5, Height: 5, Connect: 3})
	who := connect.Player1
	for {
		if over, _ := e.Position().GameOver(); over {
			break
		}
		_, _, err := e.AutoMove(context.Background(), who, 3)
		require.NoError(t, err)
		who = who.Opponent()
	}
	rec := e.Record()
	assert.Equal(t, "1", rec.FindTag("First"))
	assert.NotEmpty(t, rec.FindTag("Result"))

	p, _, err := rec.Replay()
	require.NoError(t, err)
	assert.True(t, p.Equal(e.Position()))
}

func TestVersion(t *testing.T) {
	assert.True(t, strings.HasPrefix(Version(), "connectn "))
}
