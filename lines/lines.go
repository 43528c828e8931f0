package lines

import "fmt"

// Cell is a board coordinate. Column X counts from the left, row Y
// from the bottom.
type Cell struct {
	X, Y int
}

type Direction byte

const (
	Horizontal Direction = iota
	Vertical
	ForwardDiagonal
	BackwardDiagonal
)

func (d Direction) String() string {
	switch d {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case ForwardDiagonal:
		return "forward-diagonal"
	case BackwardDiagonal:
		return "backward-diagonal"
	default:
		panic(fmt.Sprintf("bad direction: %d", int(d)))
	}
}

// Index numbers every run of Connect consecutive cells on a
// Width x Height board and records, for each cell, the ids of the
// runs passing through it. Ids are assigned in four passes:
// horizontal, vertical, forward diagonal, backward diagonal.
type Index struct {
	Width, Height, Connect int

	total int
	// first id of each direction's pass, plus total
	starts [5]int
	// through[x*Height+y] lists the line ids containing (x, y)
	through [][]int
}

// Count returns the number of lines on a w x h board for runs of
// length n.
func Count(w, h, n int) int {
	switch {
	case w < n && h < n:
		return 0
	case w < n:
		return w * (h - n + 1)
	case h < n:
		return h * (w - n + 1)
	default:
		return 4*w*h - 3*w*n - 3*h*n + 3*w + 3*h - 4*n + 2*n*n + 2
	}
}

// Precompute enumerates all lines for the given geometry. It panics
// if any dimension is less than one.
func Precompute(w, h, n int) *Index {
	if w < 1 || h < 1 || n < 1 {
		panic(fmt.Sprintf("lines: invalid geometry %dx%d/%d", w, h, n))
	}
	ix := &Index{
		Width:   w,
		Height:  h,
		Connect: n,
		through: make([][]int, w*h),
	}
	id := 0
	add := func(x, y int) {
		i := x*h + y
		ix.through[i] = append(ix.through[i], id)
	}

	ix.starts[Horizontal] = id
	for y := 0; y < h; y++ {
		for x := 0; x < w-n+1; x++ {
			for k := 0; k < n; k++ {
				add(x+k, y)
			}
			id++
		}
	}

	ix.starts[Vertical] = id
	for x := 0; x < w; x++ {
		for y := 0; y < h-n+1; y++ {
			for k := 0; k < n; k++ {
				add(x, y+k)
			}
			id++
		}
	}

	ix.starts[ForwardDiagonal] = id
	for y := 0; y < h-n+1; y++ {
		for x := 0; x < w-n+1; x++ {
			for k := 0; k < n; k++ {
				add(x+k, y+k)
			}
			id++
		}
	}

	ix.starts[BackwardDiagonal] = id
	for y := 0; y < h-n+1; y++ {
		for x := w - 1; x >= n-1; x-- {
			for k := 0; k < n; k++ {
				add(x-k, y+k)
			}
			id++
		}
	}

	ix.starts[4] = id
	ix.total = id
	return ix
}

// Total is the number of enumerated lines.
func (ix *Index) Total() int {
	return ix.total
}

// Through returns the ids of every line containing (x, y). The
// returned slice is shared and must not be modified.
func (ix *Index) Through(x, y int) []int {
	return ix.through[x*ix.Height+y]
}

// Direction reports which pass produced line id.
func (ix *Index) Direction(id int) Direction {
	if id < 0 || id >= ix.total {
		panic(fmt.Sprintf("lines: id %d out of range [0, %d)", id, ix.total))
	}
	d := Horizontal
	for id >= ix.starts[d+1] {
		d++
	}
	return d
}

// Cells recovers the cells of line id by scanning the membership
// table, ordered by row and then column.
func (ix *Index) Cells(id int) []Cell {
	out := make([]Cell, 0, ix.Connect)
	for y := 0; y < ix.Height; y++ {
		for x := 0; x < ix.Width; x++ {
			for _, l := range ix.Through(x, y) {
				if l == id {
					out = append(out, Cell{x, y})
					break
				}
			}
		}
	}
	return out
}
