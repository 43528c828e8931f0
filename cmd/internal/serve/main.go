package serve

import (
	"flag"
	"fmt"
	"log"
	"net"

	"context"

	"google.golang.org/grpc"

	"github.com/google/subcommands"

	"github.com/nelhage/connectn/cmd/internal/opt"
	"github.com/nelhage/connectn/wire"
)

type Command struct {
	port  int
	debug int
}

func (*Command) Name() string     { return "serve" }
func (*Command) Synopsis() string { return "Serve engine moves via GRPC" }
func (*Command) Usage() string {
	return `serve [-port PORT]

Run a move worker. Clients send a position snapshot and receive the
engine's move; see remote:ADDR players in play and selfplay.
`
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	flags.IntVar(&c.port, "port", opt.EnvInt("CONNECTN_PORT", 55430), "bind port")
	flags.IntVar(&c.debug, "debug", 0, "debug level")
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log.Printf("[serve] listening on port %d", c.port)
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", c.port))
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}
	grpcServer := grpc.NewServer()
	wire.RegisterEngineServer(grpcServer, &wire.Server{Debug: c.debug})

	go func() {
		<-ctx.Done()
		grpcServer.GracefulStop()
	}()
	if err := grpcServer.Serve(lis); err != nil {
		log.Printf("[serve] %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
