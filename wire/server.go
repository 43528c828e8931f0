package wire

import (
	"log"
	"sync"

	"golang.org/x/net/context"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nelhage/connectn/ai"
	"github.com/nelhage/connectn/connect"
)

// Server answers move requests. Searches are serialized; each request
// carries the whole game state, so the server keeps none.
type Server struct {
	Debug int

	sync.Mutex
	player *ai.MinimaxAI
	seed   int64
}

func (s *Server) getPlayer(seed int64) *ai.MinimaxAI {
	if s.player == nil || (seed != 0 && seed != s.seed) {
		s.player = ai.NewMinimax(ai.MinimaxConfig{
			Seed:  seed,
			Debug: s.Debug,
		})
		s.seed = seed
	}
	return s.player
}

func decode(req *MoveRequest) (*connect.Position, connect.Player, error) {
	if req.Player != 0 && req.Player != 1 {
		return nil, connect.NoPlayer, status.Errorf(codes.InvalidArgument, "bad player: %d", req.Player)
	}
	who := connect.Player(req.Player)
	p, err := req.Snapshot.Position()
	if err != nil {
		return nil, connect.NoPlayer, status.Errorf(codes.InvalidArgument, "snapshot: %v", err)
	}
	return p, who, nil
}

func moveError(err error) error {
	switch err {
	case connect.ErrColumnFull, connect.ErrInvalidColumn:
		return status.Error(codes.InvalidArgument, err.Error())
	case connect.ErrBoardFull:
		return status.Error(codes.FailedPrecondition, err.Error())
	case context.Canceled:
		return status.Error(codes.Canceled, err.Error())
	case context.DeadlineExceeded:
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

func (s *Server) AutoMove(ctx context.Context, req *MoveRequest) (*MoveResponse, error) {
	p, who, err := decode(req)
	if err != nil {
		return nil, err
	}
	if req.Depth < 1 || req.Depth > ai.MaxDepth {
		return nil, status.Errorf(codes.InvalidArgument, "bad depth: %d", req.Depth)
	}
	if p.Full() {
		return nil, moveError(connect.ErrBoardFull)
	}

	s.Lock()
	defer s.Unlock()
	res, err := s.getPlayer(req.Seed).Analyze(ctx, connect.NewStack(p), who, int(req.Depth))
	if err != nil {
		return nil, moveError(err)
	}
	row, err := p.Drop(who, res.Column)
	if err != nil {
		return nil, moveError(err)
	}
	if s.Debug > 0 {
		log.Printf("[serve] %s depth=%d column=%d value=%d book=%v",
			p.Config().String(), req.Depth, res.Column, res.Value, res.Book)
	}
	return &MoveResponse{
		Column:   int32(res.Column),
		Row:      int32(row),
		Snapshot: FromPosition(p),
		Value:    res.Value,
		Book:     res.Book,
	}, nil
}

func (s *Server) MakeMove(ctx context.Context, req *MoveRequest) (*MoveResponse, error) {
	p, who, err := decode(req)
	if err != nil {
		return nil, err
	}
	if p.Full() {
		return nil, moveError(connect.ErrBoardFull)
	}
	row, err := p.Drop(who, int(req.Column))
	if err != nil {
		return nil, moveError(err)
	}
	return &MoveResponse{
		Column:   req.Column,
		Row:      int32(row),
		Snapshot: FromPosition(p),
		Value:    p.Goodness(who),
	}, nil
}
