package eval

import "othello/board"

// Axis-border bitmask flags: a cell is stable along an axis once a
// contiguous run of the same colour reaches the edge of the board
// along that axis. STABLE is the OR of all four; UNSTABLE is none.
const (
	unstable  = 0
	hBorder   = 1 // stable along the horizontal (row) axis
	vBorder   = 2 // stable along the vertical (column) axis
	uddBorder = 4 // stable along the up-down diagonal (NW-SE)
	dudBorder = 8 // stable along the down-up diagonal (NE-SW)
	stable    = hBorder | vBorder | uddBorder | dudBorder
)

// spiralOrder visits the board from the corners inward, ring by ring,
// so a ring that is entirely unstable lets the traversal stop early:
// stability can only propagate outside-in.
var spiralOrder = [64]int{
	11, 18, 81, 88,
	12, 13, 14, 15, 16, 17, 21, 28, 31, 38, 41, 48, 51, 58, 61, 68, 71, 78, 82, 83, 84, 85, 86, 87,
	22, 27, 72, 77,
	23, 24, 25, 26, 32, 37, 42, 47, 52, 57, 62, 67, 73, 74, 75, 76,
	33, 36, 63, 66,
	34, 35, 43, 46, 53, 56, 64, 65,
	44, 45, 54, 55,
}

// ringBoundary marks the last square of each concentric ring in
// spiralOrder; it is where the traversal decides whether to stop
// early (a ring in which no occupied cell carries any border bit
// means outer rings can't help the rings further in). The check runs
// whether or not the boundary square itself is occupied.
var ringBoundary = map[int]bool{
	87: true,
	76: true,
	65: true,
	55: true,
}

// evalStability runs the spiral traversal and returns the normalized
// stable-cell ratio, plus whether tc reported a timeout mid-traversal.
func evalStability(b board.Board, max, opp board.Player, tc TimeoutChecker) (int, bool) {
	var flags [100]int
	maxVal, minVal := 0, 0
	unstableRing := true

	for _, loc := range spiralOrder {
		if tc != nil && tc.TimedOut() {
			return 0, true
		}
		if b.At(loc) == board.Empty {
			if ringBoundary[loc] {
				if unstableRing {
					break
				}
				unstableRing = true
			}
			continue
		}

		value := 0
		col := loc % 10
		row := loc / 10

		if col == 1 || col == 8 {
			value |= hBorder
		} else if sameAndFlagged(b, flags, loc, -1, hBorder) || sameAndFlagged(b, flags, loc, 1, hBorder) {
			value |= hBorder
		}

		if row == 1 || row == 8 {
			value |= vBorder
		} else if sameAndFlagged(b, flags, loc, -10, vBorder) || sameAndFlagged(b, flags, loc, 10, vBorder) {
			value |= vBorder
		}

		onEdge := col == 1 || col == 8 || row == 1 || row == 8
		if onEdge {
			value |= uddBorder
		} else if sameAndFlagged(b, flags, loc, -11, uddBorder) || sameAndFlagged(b, flags, loc, 11, uddBorder) {
			value |= uddBorder
		}
		if onEdge {
			value |= dudBorder
		} else if sameAndFlagged(b, flags, loc, -9, dudBorder) || sameAndFlagged(b, flags, loc, 9, dudBorder) {
			value |= dudBorder
		}

		switch {
		case b.At(loc) == max && value == stable:
			maxVal++
		case b.At(loc) == max && value == unstable:
			maxVal--
		case b.At(loc) == opp && value == stable:
			minVal++
		case b.At(loc) == opp && value == unstable:
			minVal--
		}

		flags[loc] = value
		if value != unstable {
			unstableRing = false
		}

		if ringBoundary[loc] {
			if unstableRing {
				break
			}
			unstableRing = true
		}
	}

	return ratio(maxVal, minVal), false
}

// sameAndFlagged reports whether the neighbour at loc+delta holds the
// same colour as loc and already carries bit on its stability flags.
func sameAndFlagged(b board.Board, flags [100]int, loc, delta, bit int) bool {
	n := loc + delta
	return b.At(n) == b.At(loc) && flags[n]&bit != 0
}
