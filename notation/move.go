package notation

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Columns are written 1-based, as players count them.

func ParseMove(move string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(move))
	if err != nil {
		return -1, errors.Errorf("illegal move: %q", move)
	}
	if n < 1 {
		return -1, errors.Errorf("illegal column: %d", n)
	}
	return n - 1, nil
}

func FormatMove(column int) string {
	return strconv.Itoa(column + 1)
}

// ParseMoves parses a space-separated list of columns.
func ParseMoves(s string) ([]int, error) {
	var out []int
	for _, b := range strings.Fields(s) {
		c, err := ParseMove(b)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func FormatMoves(ms []int) string {
	bits := make([]string, len(ms))
	for i, m := range ms {
		bits[i] = FormatMove(m)
	}
	return strings.Join(bits, " ")
}
