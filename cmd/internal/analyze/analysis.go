package analyze

import (
	"fmt"
	"io"

	"golang.org/x/net/context"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nelhage/connectn/ai"
	"github.com/nelhage/connectn/cli"
	"github.com/nelhage/connectn/connect"
	"github.com/nelhage/connectn/notation"
)

type Analyzer interface {
	Analyze(ctx context.Context, out io.Writer, p *connect.Position, who connect.Player) error
}

// staticAnalysis reports the scores without searching.
type staticAnalysis struct {
	quiet bool
}

func (s *staticAnalysis) Analyze(ctx context.Context, out io.Writer, p *connect.Position, who connect.Player) error {
	if !s.quiet {
		cli.RenderBoard(nil, out, p)
	}
	fmt.Fprintf(out, " to move=%s goodness=%d\n", who, p.Goodness(who))
	return nil
}

type minimaxAnalysis struct {
	quiet bool
	depth int
	ai    *ai.MinimaxAI
	stack *connect.Stack
}

func (m *minimaxAnalysis) Analyze(ctx context.Context, out io.Writer, p *connect.Position, who connect.Player) error {
	if !m.quiet {
		cli.RenderBoard(nil, out, p)
	}
	if m.stack == nil {
		m.stack = connect.NewStack(p)
	} else {
		m.stack.Reset(p)
	}
	res, err := m.ai.Analyze(ctx, m.stack, who, m.depth)
	if err == connect.ErrBoardFull {
		fmt.Fprintf(out, " board full\n")
		return nil
	}
	printer := message.NewPrinter(language.English)
	move := "(none)"
	if res.Column >= 0 {
		move = notation.FormatMove(res.Column)
	}
	printer.Fprintf(out, "AI analysis:\n")
	printer.Fprintf(out, " to move=%s column=%s value=%s ties=%d book=%t\n",
		who, move, formatValue(res.Value), res.Ties, res.Book)
	if !res.Book {
		printer.Fprintf(out, " depth=%d visited=%d evaluated=%d terminal=%d cut=%d time=%s\n",
			res.Stats.Depth, res.Stats.Visited, res.Stats.Evaluated,
			res.Stats.Terminal, res.Stats.Cutoffs, res.Stats.Elapsed)
	}
	if err != nil {
		return err
	}
	if m.quiet || res.Column < 0 {
		return nil
	}
	next, _, err := p.Move(who, res.Column)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "Resulting position:")
	cli.RenderBoard(nil, out, next)
	fmt.Fprintln(out)
	return nil
}

func formatValue(v int64) string {
	switch {
	case v > ai.WinThreshold:
		return fmt.Sprintf("WIN(%d)", ai.MaxEval-v)
	case v < -ai.WinThreshold:
		return fmt.Sprintf("LOSS(%d)", ai.MaxEval+v)
	}
	return fmt.Sprintf("%d", v)
}
