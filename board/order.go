package board

import "sort"

// staticOrder is the fixed positional evaluation table used only to
// order root moves before handout; it never affects correctness. Kept
// verbatim from the original engine (corners +4, X-squares adjacent to
// corners penalized, edges and center varying).
var staticOrder = [100]int{
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 4, -3, 2, 2, 2, 2, -3, 4, 0,
	0, -3, -4, -1, -1, -1, -1, -4, -3, 0,
	0, 2, -1, 1, 0, 0, 1, -1, 2, 0,
	0, 2, -1, 0, 1, 1, 0, -1, 2, 0,
	0, 2, -1, 0, 1, 1, 0, -1, 2, 0,
	0, 2, -1, 1, 0, 0, 1, -1, 2, 0,
	0, -3, -4, -1, -1, -1, -1, -4, -3, 0,
	0, 4, -3, 2, 2, 2, 2, -3, 4, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// StaticOrderValue returns the static ordering score for sq.
func StaticOrderValue(sq int) int {
	return staticOrder[sq]
}

// SortByStaticOrder sorts moves descending by StaticOrderValue.
// Equal-valued squares are ordered by ascending index (row-major
// order), whatever order they arrive in.
func SortByStaticOrder(moves []int) {
	sort.SliceStable(moves, func(i, j int) bool {
		a, b := moves[i], moves[j]
		if staticOrder[a] != staticOrder[b] {
			return staticOrder[a] > staticOrder[b]
		}
		return a < b
	})
}
