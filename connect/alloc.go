package connect

import "fmt"

func alloc(tpl *Position) *Position {
	total := tpl.cfg.lines.Total()
	p := &Position{cfg: tpl.cfg}
	p.board = make([]Player, len(tpl.board))
	p.potential[0] = make([]int64, total)
	p.potential[1] = make([]int64, total)
	copyPosition(tpl, p)
	return p
}

func copyPosition(p *Position, out *Position) {
	b := out.board
	p0, p1 := out.potential[0], out.potential[1]

	*out = *p
	out.board = b
	out.potential[0] = p0
	out.potential[1] = p1

	copy(out.board, p.board)
	copy(out.potential[0], p.potential[0])
	copy(out.potential[1], p.potential[1])
}

// Clone returns an independent copy of p.
func (p *Position) Clone() *Position {
	return alloc(p)
}

// CopyFrom overwrites p with src without allocating. Both positions
// must share a geometry.
func (p *Position) CopyFrom(src *Position) {
	if !p.cfg.SameGeometry(src.cfg) {
		panic(fmt.Sprintf("CopyFrom: geometry %s != %s", src.cfg, p.cfg))
	}
	copyPosition(src, p)
}

// Stack is the ancestry of hypothetical positions explored by a
// search. Frame 0 is the root; Push copies the top into the next
// frame and Pop discards it. Frames are allocated the first time a
// depth is reached and reused afterwards.
type Stack struct {
	frames []*Position
	depth  int
}

// NewStack returns a stack whose root is a copy of p.
func NewStack(p *Position) *Stack {
	return &Stack{frames: []*Position{alloc(p)}}
}

// Reset makes a copy of p the root and empties the stack above it.
// Frames are kept when p has the same geometry as the current root.
func (s *Stack) Reset(p *Position) {
	if !s.frames[0].cfg.SameGeometry(p.cfg) {
		s.frames = []*Position{alloc(p)}
	} else {
		copyPosition(p, s.frames[0])
	}
	s.depth = 0
}

// Top is the current position. It is valid until the next Push or Pop.
func (s *Stack) Top() *Position {
	return s.frames[s.depth]
}

func (s *Stack) Root() *Position {
	return s.frames[0]
}

func (s *Stack) Depth() int {
	return s.depth
}

func (s *Stack) Push() *Position {
	top := s.frames[s.depth]
	s.depth++
	if s.depth == len(s.frames) {
		s.frames = append(s.frames, alloc(top))
	} else {
		copyPosition(top, s.frames[s.depth])
	}
	return s.frames[s.depth]
}

func (s *Stack) Pop() {
	if s.depth == 0 {
		panic("Pop: empty stack")
	}
	s.depth--
}

// Allocated is the number of frames allocated so far.
func (s *Stack) Allocated() int {
	return len(s.frames)
}
