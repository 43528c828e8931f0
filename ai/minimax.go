package ai

import (
	"fmt"
	"log"
	"math/rand"
	"sync/atomic"
	"time"

	"golang.org/x/net/context"

	"github.com/nelhage/connectn/connect"
)

const (
	MaxEval int64 = 1 << 62
	MinEval       = -MaxEval
	// Values beyond WinThreshold are forced wins or losses; the
	// distance from MaxEval is the search depth of the win.
	WinThreshold = MaxEval - 1<<10

	MaxDepth     = 20
	DefaultDepth = 5

	// time.Now is only consulted every pollEvery nodes
	pollEvery = 64
)

type MinimaxAI struct {
	cfg  MinimaxConfig
	rand *rand.Rand
	book *OpeningBook

	st    Stats
	order []int

	// scratch stack for GetMove
	stack *connect.Stack

	searching bool
	cancel    *int32
	nodes     uint64
	nextPoll  time.Time
}

type Stats struct {
	Depth     int
	Visited   uint64
	Evaluated uint64
	Terminal  uint64
	Cutoffs   uint64
	Polls     uint64
	Elapsed   time.Duration
}

type MinimaxConfig struct {
	Depth int
	Debug int
	Seed  int64

	// Poll, if set, is called from inside long searches, never more
	// often than once per PollInterval. It must not call back into
	// the search.
	Poll         func()
	PollInterval time.Duration

	// Book overrides the standard opening book; NoBook disables
	// book moves entirely.
	Book   *OpeningBook
	NoBook bool
}

// Result describes the outcome of a search from the root position.
type Result struct {
	Column int
	// Value is the best worst-case goodness found for the mover.
	Value int64
	// Ties is the number of root columns that shared Value.
	Ties int
	// Book is set when the column came from the opening book and no
	// search was run.
	Book  bool
	Stats Stats
}

func NewMinimax(cfg MinimaxConfig) *MinimaxAI {
	m := &MinimaxAI{cfg: cfg}
	if m.cfg.Depth == 0 {
		m.cfg.Depth = DefaultDepth
	}
	if m.cfg.Depth < 1 || m.cfg.Depth > MaxDepth {
		panic(fmt.Sprintf("NewMinimax: bad depth %d", m.cfg.Depth))
	}
	seed := m.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if m.cfg.Debug > 0 {
		log.Printf("[minimax] seed=%d", seed)
	}
	m.rand = rand.New(rand.NewSource(seed))
	if !m.cfg.NoBook {
		m.book = m.cfg.Book
		if m.book == nil {
			m.book = StandardBook()
		}
	}
	return m
}

func (m *MinimaxAI) Config() MinimaxConfig {
	return m.cfg
}

// SetPoll replaces the poll hook. It may not be called during a search.
func (m *MinimaxAI) SetPoll(poll func(), interval time.Duration) {
	if m.searching {
		panic("SetPoll: search in progress")
	}
	m.cfg.Poll = poll
	m.cfg.PollInterval = interval
}

func (m *MinimaxAI) GetMove(ctx context.Context, p *connect.Position, who connect.Player) int {
	if m.stack == nil {
		m.stack = connect.NewStack(p)
	} else {
		m.stack.Reset(p)
	}
	res, err := m.Analyze(ctx, m.stack, who, m.cfg.Depth)
	if err != nil && m.cfg.Debug > 0 {
		log.Printf("[minimax] analyze: %v", err)
	}
	return res.Column
}

// Analyze picks a column for who from the position at the root of st,
// searching depth plies. The stack is returned to its root on every
// path. No move is committed. If ctx is cancelled the search unwinds
// and the best column among fully searched candidates (or -1) is
// returned alongside ctx.Err().
func (m *MinimaxAI) Analyze(ctx context.Context, st *connect.Stack, who connect.Player, depth int) (Result, error) {
	if depth < 1 || depth > MaxDepth {
		panic(fmt.Sprintf("Analyze: bad depth %d", depth))
	}
	if !who.Valid() {
		panic(fmt.Sprintf("Analyze: bad player %d", int(who)))
	}
	if st.Depth() != 0 {
		panic("Analyze: stack is not at its root")
	}
	if m.searching {
		panic("Analyze: search already in progress")
	}

	p := st.Top()
	if m.book != nil {
		if col, ok := m.book.GetMove(p, m.rand); ok && !p.ColumnFull(col) {
			if m.cfg.Debug > 0 {
				log.Printf("[minimax] book move column=%d", col)
			}
			return Result{Column: col, Value: p.Goodness(who), Ties: 1, Book: true}, nil
		}
	}

	m.searching = true
	defer func() {
		m.searching = false
		for st.Depth() > 0 {
			st.Pop()
		}
	}()

	var cancel int32
	m.cancel = &cancel
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			atomic.StoreInt32(&cancel, 1)
		case <-done:
		}
	}()

	if len(m.order) != p.Width() {
		m.order = DropOrder(p.Width())
	}
	m.st = Stats{Depth: depth}
	start := time.Now()
	m.nextPoll = start.Add(m.cfg.PollInterval)

	best, equal := -1, 0
	bestWorst := MinEval
	for _, col := range m.order {
		next := st.Push()
		if _, err := next.Drop(who, col); err != nil {
			st.Pop()
			continue
		}
		if next.Winner() == who {
			st.Pop()
			best, bestWorst, equal = col, MaxEval, 1
			if m.cfg.Debug > 1 {
				log.Printf("[minimax]  column=%d wins immediately", col)
			}
			break
		}
		v := m.evaluate(st, who, depth, MinEval, -bestWorst)
		st.Pop()
		if atomic.LoadInt32(m.cancel) != 0 {
			break
		}
		if m.cfg.Debug > 1 {
			log.Printf("[minimax]  column=%d value=%d", col, v)
		}
		if v > bestWorst {
			best, bestWorst, equal = col, v, 1
		} else if v == bestWorst {
			equal++
			if m.rand.Intn(equal) == 0 {
				best = col
			}
		}
	}
	m.st.Elapsed = time.Since(start)

	res := Result{Column: best, Value: bestWorst, Ties: equal, Stats: m.st}
	if m.cfg.Debug > 0 {
		log.Printf("[minimax] depth=%d column=%d value=%d ties=%d visited=%d evaluated=%d terminal=%d cut=%d time=%s",
			depth, best, bestWorst, equal,
			m.st.Visited, m.st.Evaluated, m.st.Terminal, m.st.Cutoffs,
			m.st.Elapsed)
	}
	if atomic.LoadInt32(m.cancel) != 0 {
		return res, ctx.Err()
	}
	if best < 0 {
		return res, connect.ErrBoardFull
	}
	return res, nil
}

// evaluate returns the worst goodness who can be held to once the
// opponent, and then both players in turn, have moved until the stack
// reaches level. It is a negamax search: each reply is scored from the
// opponent's point of view and the best of them is negated.
func (m *MinimaxAI) evaluate(st *connect.Stack, who connect.Player, level int, α, β int64) int64 {
	m.poll()
	p := st.Top()
	if st.Depth() == level {
		m.st.Evaluated++
		return p.Goodness(who)
	}
	m.st.Visited++

	opp := who.Opponent()
	best := MinEval
	maxab := α
	moved := false
	for _, col := range m.order {
		next := st.Push()
		if _, err := next.Drop(opp, col); err != nil {
			st.Pop()
			continue
		}
		moved = true
		var v int64
		if next.Winner() == opp {
			m.st.Terminal++
			v = MaxEval - int64(st.Depth())
		} else {
			v = m.evaluate(st, opp, level, -β, -maxab)
		}
		if v > best {
			best = v
			if best > maxab {
				maxab = best
			}
		}
		st.Pop()
		if best > β {
			m.st.Cutoffs++
			break
		}
		if atomic.LoadInt32(m.cancel) != 0 {
			break
		}
	}
	if !moved {
		// the board filled up before level was reached
		m.st.Terminal++
		return p.Goodness(who)
	}
	return -best
}

func (m *MinimaxAI) poll() {
	if m.cfg.Poll == nil {
		return
	}
	m.nodes++
	if m.nodes%pollEvery != 0 {
		return
	}
	now := time.Now()
	if now.Before(m.nextPoll) {
		return
	}
	m.nextPoll = now.Add(m.cfg.PollInterval)
	m.st.Polls++
	m.cfg.Poll()
}
