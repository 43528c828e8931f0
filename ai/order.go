package ai

// DropOrder returns the columns of a board of the given width from the
// center outwards: (w-1)/2, then +1, -2, +3, ... relative to the
// previous column. Central columns take part in the most lines, so
// trying them first makes alpha-beta cutoffs happen earlier.
func DropOrder(width int) []int {
	order := make([]int, width)
	column := (width - 1) / 2
	for i := 1; i <= width; i++ {
		order[i-1] = column
		if i%2 == 1 {
			column += i
		} else {
			column -= i
		}
	}
	return order
}
