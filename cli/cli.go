package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"golang.org/x/net/context"

	"github.com/nelhage/connectn/connect"
	"github.com/nelhage/connectn/engine"
	"github.com/nelhage/connectn/notation"
)

// A Player commits one move for who to the engine's active game and
// reports where it went.
type Player interface {
	Move(ctx context.Context, e *engine.Engine, who connect.Player) (column, row int, err error)
}

type Glyphs struct {
	Player0, Player1, Empty string
}

type CLI struct {
	Engine *engine.Engine
	Config connect.Config
	Glyphs *Glyphs
	Out    io.Writer

	Player0 Player
	Player1 Player
	First   connect.Player
}

var DefaultGlyphs = Glyphs{
	Player0: "X",
	Player1: "O",
	Empty:   ".",
}

var UnicodeGlyphs = Glyphs{
	Player0: "●",
	Player1: "○",
	Empty:   "·",
}

// Play runs one game to completion and returns its record. The
// engine's game is ended before Play returns.
func (c *CLI) Play(ctx context.Context) (*notation.Record, error) {
	c.Engine.NewGame(c.Config)
	defer c.Engine.EndGame()
	who := c.First
	for {
		p := c.Engine.Position()
		RenderBoard(c.Glyphs, c.Out, p)
		if over, winner := p.GameOver(); over {
			fmt.Fprintf(c.Out, "Game Over! ")
			if winner == connect.NoPlayer {
				fmt.Fprintf(c.Out, "Tie.\n")
			} else {
				from, to, _ := p.WinningEnds()
				fmt.Fprintf(c.Out, "%s wins from (%d,%d) to (%d,%d)\n",
					c.name(winner), from.X+1, from.Y+1, to.X+1, to.Y+1)
			}
			return c.Engine.Record(), nil
		}
		pl := c.Player0
		if who == connect.Player1 {
			pl = c.Player1
		}
		col, _, err := pl.Move(ctx, c.Engine, who)
		if err != nil {
			return c.Engine.Record(), err
		}
		fmt.Fprintf(c.Out, "%d. %s drops in %s\n",
			len(c.Engine.Moves()), c.name(who), notation.FormatMove(col))
		who = who.Opponent()
	}
}

func (c *CLI) name(who connect.Player) string {
	g := c.Glyphs
	if g == nil {
		g = &DefaultGlyphs
	}
	if who == connect.Player0 {
		return g.Player0
	}
	return g.Player1
}

func RenderBoard(g *Glyphs, out io.Writer, p *connect.Position) {
	if g == nil {
		g = &DefaultGlyphs
	}
	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 2, 8, 1, ' ', 0)
	for y := p.Height() - 1; y >= 0; y-- {
		fmt.Fprintf(w, "|\t")
		for x := 0; x < p.Width(); x++ {
			var cell string
			switch p.At(x, y) {
			case connect.Player0:
				cell = g.Player0
			case connect.Player1:
				cell = g.Player1
			default:
				cell = g.Empty
			}
			fmt.Fprintf(w, "%s\t", cell)
		}
		fmt.Fprintf(w, "|\n")
	}
	fmt.Fprintf(w, " \t")
	for x := 0; x < p.Width(); x++ {
		fmt.Fprintf(w, "%s\t", notation.FormatMove(x))
	}
	fmt.Fprintf(w, "\n")
	w.Flush()
	fmt.Fprintf(out, "score: %s=%d %s=%d [%s]\n",
		g.Player0, p.Score(connect.Player0),
		g.Player1, p.Score(connect.Player1),
		notation.FormatPosition(p))
}
