package cli

import (
	"bufio"
	"fmt"
	"io"

	"golang.org/x/net/context"

	"github.com/nelhage/connectn/ai"
	"github.com/nelhage/connectn/connect"
	"github.com/nelhage/connectn/engine"
	"github.com/nelhage/connectn/notation"
)

func NewCLIPlayer(out io.Writer, in *bufio.Reader) Player {
	return &cliPlayer{out, in}
}

type cliPlayer struct {
	out io.Writer
	in  *bufio.Reader
}

func (c *cliPlayer) Move(ctx context.Context, e *engine.Engine, who connect.Player) (int, int, error) {
	for {
		fmt.Fprintf(c.out, "%s> ", who)
		line, err := c.in.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return -1, -1, err
		}
		col, err := notation.ParseMove(line)
		if err != nil {
			fmt.Fprintln(c.out, "parse error: ", err)
			continue
		}
		row, err := e.MakeMove(who, col)
		if err != nil {
			fmt.Fprintln(c.out, "illegal move: ", err)
			continue
		}
		return col, row, nil
	}
}

// Computer lets the engine search Depth plies for its move.
type Computer struct {
	Depth int
}

func (c *Computer) Move(ctx context.Context, e *engine.Engine, who connect.Player) (int, int, error) {
	return e.AutoMove(ctx, who, c.Depth)
}

// AIPlayer asks an outside ai.Player for a column and commits it.
type AIPlayer struct {
	AI ai.Player
}

func (a *AIPlayer) Move(ctx context.Context, e *engine.Engine, who connect.Player) (int, int, error) {
	col := a.AI.GetMove(ctx, e.Position(), who)
	if col < 0 {
		return -1, -1, connect.ErrBoardFull
	}
	row, err := e.MakeMove(who, col)
	return col, row, err
}
