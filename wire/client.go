package wire

import (
	"log"

	"golang.org/x/net/context"
	"google.golang.org/grpc"

	"github.com/nelhage/connectn/connect"
)

// Client is an ai.Player that asks a remote worker for its moves.
type Client struct {
	Depth int
	Seed  int64

	conn   *grpc.ClientConn
	client EngineClient
}

func Dial(addr string, depth int) (*Client, error) {
	conn, err := grpc.Dial(addr, grpc.WithInsecure())
	if err != nil {
		return nil, err
	}
	return &Client{
		Depth:  depth,
		conn:   conn,
		client: NewEngineClient(conn),
	}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// AutoMove asks the worker to search from p and returns its answer.
func (c *Client) AutoMove(ctx context.Context, p *connect.Position, who connect.Player) (*MoveResponse, error) {
	return c.client.AutoMove(ctx, &MoveRequest{
		Player:   int32(who),
		Depth:    int32(c.Depth),
		Snapshot: FromPosition(p),
		Seed:     c.Seed,
	})
}

func (c *Client) GetMove(ctx context.Context, p *connect.Position, who connect.Player) int {
	resp, err := c.AutoMove(ctx, p, who)
	if err != nil {
		log.Printf("[wire] AutoMove: %v", err)
		return -1
	}
	return int(resp.Column)
}
