package keyboard

import (
	"math"
	"unicode"
)

type position struct {
	row, col int
}

// Metric measures distances on a fixed layout.
type Metric struct {
	layout Layout
	pos    map[rune]position
}

// NewMetric indexes every key of the layout by (row, column). Columns count
// runes, so multi-byte keys such as ü keep their visual slot. When a key
// appears twice the later slot wins.
func NewMetric(layout Layout) *Metric {
	m := &Metric{
		layout: layout,
		pos:    make(map[rune]position),
	}
	for i, row := range layout.Rows {
		for j, r := range []rune(row) {
			m.pos[r] = position{row: i, col: j}
		}
	}
	return m
}

// Layout returns the layout the metric was built from.
func (m *Metric) Layout() Layout {
	return m.layout
}

// Position returns the (row, column) of r. Keys missing from the layout sit
// at (0, 0).
func (m *Metric) Position(r rune) (int, int) {
	p := m.pos[r]
	return p.row, p.col
}

// KeyDistance is the Euclidean distance between two keys, ignoring case.
func (m *Metric) KeyDistance(a, b rune) float64 {
	pa := m.pos[unicode.ToLower(a)]
	pb := m.pos[unicode.ToLower(b)]
	dx := float64(pa.row - pb.row)
	dy := float64(pa.col - pb.col)
	return math.Sqrt(dx*dx + dy*dy)
}

// WeightedEditDistance is a Levenshtein distance where insertions and
// deletions cost 1 and a substitution costs the key distance between the two
// characters.
func (m *Metric) WeightedEditDistance(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)

	prev := make([]float64, len(rb)+1)
	curr := make([]float64, len(rb)+1)
	for j := range prev {
		prev[j] = float64(j)
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = float64(i)
		for j := 1; j <= len(rb); j++ {
			sub := prev[j-1] + m.KeyDistance(ra[i-1], rb[j-1])
			del := prev[j] + 1
			ins := curr[j-1] + 1
			curr[j] = min(sub, del, ins)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
