package wire

import (
	"net"
	"testing"

	"github.com/golang/protobuf/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nelhage/connectn/cntest"
	"github.com/nelhage/connectn/connect"
)

func startServer(t *testing.T) (EngineClient, func()) {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := grpc.NewServer()
	RegisterEngineServer(srv, &Server{})
	go srv.Serve(lis)

	conn, err := grpc.Dial(lis.Addr().String(), grpc.WithInsecure())
	require.NoError(t, err)
	return NewEngineClient(conn), func() {
		conn.Close()
		srv.Stop()
	}
}

func TestSnapshot(t *testing.T) {
	p, _ := cntest.Position(connect.Standard, "4 4 3 5 3")
	s := FromPosition(p)
	assert.Len(t, s.Cells, 42)
	assert.Len(t, s.Potential0, 69)
	assert.Equal(t, int32(5), s.Pieces)

	buf, err := proto.Marshal(s)
	require.NoError(t, err)
	var back Snapshot
	require.NoError(t, proto.Unmarshal(buf, &back))
	q, err := back.Position()
	require.NoError(t, err)
	assert.True(t, p.Equal(q))
	assert.Equal(t, p.Hash(), q.Hash())
}

func TestSnapshotInconsistent(t *testing.T) {
	p, _ := cntest.Position(connect.Standard, "4 4")
	for name, mutate := range map[string]func(s *Snapshot){
		"score":     func(s *Snapshot) { s.Score0++ },
		"potential": func(s *Snapshot) { s.Potential1[0] = 8 },
		"pieces":    func(s *Snapshot) { s.Pieces = 3 },
		"winner":    func(s *Snapshot) { s.Winner = 0 },
		"badwinner": func(s *Snapshot) { s.Winner = 5 },
		"cells":     func(s *Snapshot) { s.Cells = s.Cells[:10] },
		"cell":      func(s *Snapshot) { s.Cells[0] = 7 },
		"floating":  func(s *Snapshot) { s.Cells[5] = 0 },
		"geometry":  func(s *Snapshot) { s.Width = 0 },
	} {
		s := FromPosition(p)
		mutate(s)
		_, err := s.Position()
		assert.Error(t, err, name)
	}
	var nilSnap *Snapshot
	_, err := nilSnap.Position()
	assert.Error(t, err)
}

func TestSnapshotBothLinesComplete(t *testing.T) {
	// player 0 wins in column 7, then player 1 completes the bottom row
	p, _ := cntest.Position(connect.Standard, "7 1 7 2 7 3 7 4")
	require.True(t, p.IsWinner(connect.Player0))
	require.True(t, p.HasLine(connect.Player1))

	q, err := FromPosition(p).Position()
	require.NoError(t, err)
	assert.True(t, p.Equal(q))
	assert.True(t, q.IsWinner(connect.Player0))

	s := FromPosition(p)
	s.Winner = int32(connect.NoPlayer)
	_, err = s.Position()
	assert.Error(t, err, "a complete line needs a winner")

	client, stop := startServer(t)
	defer stop()
	resp, err := client.MakeMove(context.Background(), &MoveRequest{
		Player:   1,
		Column:   5,
		Snapshot: FromPosition(p),
	})
	require.NoError(t, err)
	assert.Equal(t, int32(connect.Player0), resp.Snapshot.Winner)
	_, err = resp.Snapshot.Position()
	assert.NoError(t, err)
}

func TestAutoMoveRPC(t *testing.T) {
	client, stop := startServer(t)
	defer stop()

	p, who := cntest.Position(connect.Standard, "1 1 2 2 3 3")
	resp, err := client.AutoMove(context.Background(), &MoveRequest{
		Player:   int32(who),
		Depth:    3,
		Snapshot: FromPosition(p),
		Seed:     1,
	})
	require.NoError(t, err)
	assert.Equal(t, int32(3), resp.Column)
	assert.Equal(t, int32(0), resp.Row)
	q, err := resp.Snapshot.Position()
	require.NoError(t, err)
	assert.True(t, q.IsWinner(connect.Player0))

	resp, err = client.AutoMove(context.Background(), &MoveRequest{
		Player:   0,
		Depth:    3,
		Snapshot: FromPosition(connect.New(connect.Standard)),
	})
	require.NoError(t, err)
	assert.True(t, resp.Book)
	assert.Equal(t, int32(3), resp.Column)
}

func TestRPCErrors(t *testing.T) {
	client, stop := startServer(t)
	defer stop()
	ctx := context.Background()

	p, _ := cntest.Position(connect.Config{Width: 2, Height: 1, Connect: 2}, "1")
	_, err := client.MakeMove(ctx, &MoveRequest{Player: 1, Column: 0, Snapshot: FromPosition(p)})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	resp, err := client.MakeMove(ctx, &MoveRequest{Player: 1, Column: 1, Snapshot: FromPosition(p)})
	require.NoError(t, err)
	full, err := resp.Snapshot.Position()
	require.NoError(t, err)
	assert.True(t, full.IsTie())

	_, err = client.AutoMove(ctx, &MoveRequest{Player: 0, Depth: 2, Snapshot: resp.Snapshot})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	_, err = client.AutoMove(ctx, &MoveRequest{Player: 2, Depth: 2, Snapshot: FromPosition(p)})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	_, err = client.AutoMove(ctx, &MoveRequest{Player: 0, Depth: 30, Snapshot: FromPosition(p)})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	_, err = client.AutoMove(ctx, &MoveRequest{Player: 0, Depth: 2})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
