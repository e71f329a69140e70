// Package board implements the 10x10 padded Othello board: the
// sentinel outer ring, bracket-flip move application, and legal move
// enumeration.
package board

import "fmt"

// Player identifies the occupant of a cell.
type Player uint8

const (
	Empty Player = iota
	Black
	White
	Outer
)

func (p Player) String() string {
	switch p {
	case Empty:
		return "."
	case Black:
		return "b"
	case White:
		return "w"
	default:
		return "?"
	}
}

// Opponent returns the other playing colour. Called with anything but
// Black or White it logs nothing itself (callers decide how to report
// the programming error) and returns Empty, matching the "illegal
// player identifier" policy of treating it as Empty.
func Opponent(p Player) Player {
	switch p {
	case Black:
		return White
	case White:
		return Black
	default:
		return Empty
	}
}

// boardSize is the number of cells in the padded 10x10 grid.
const boardSize = 100

// PassSquare is the sentinel used for "no legal move" at the root; it
// never appears inside a MoveList.
const PassSquare = -1

// Directions are the 8 offsets a bracket can run along.
var Directions = [8]int{-11, -10, -9, -1, 1, 9, 10, 11}

// Board is a 100-cell value type: cheap enough to copy on every search
// node instead of threading an undo token through make/unmake.
type Board struct {
	cells [boardSize]Player
}

// NewGame returns a board in the standard Othello starting position:
// the outer ring sentineled, the four center discs placed, every other
// playable square empty.
func NewGame() Board {
	var b Board
	for i := 0; i < boardSize; i++ {
		if isPlayable(i) {
			b.cells[i] = Empty
		} else {
			b.cells[i] = Outer
		}
	}
	b.cells[44] = White
	b.cells[45] = Black
	b.cells[54] = Black
	b.cells[55] = White
	return b
}

// isPlayable reports whether index i is one of the 64 interior squares.
func isPlayable(i int) bool {
	if i < 11 || i > 88 {
		return false
	}
	col := i % 10
	return col >= 1 && col <= 8
}

// At returns the occupant of square sq.
func (b Board) At(sq int) Player {
	return b.cells[sq]
}

// Count returns the number of player pieces on playable squares.
func (b Board) Count(p Player) int {
	n := 0
	for i := 11; i <= 88; i++ {
		if isPlayable(i) && b.cells[i] == p {
			n++
		}
	}
	return n
}

// String renders the board as an 8x8 grid with a piece-count header,
// folded in from the original engine's print_board/nameof routine so a
// per-process log file is legible without a separate viewer.
func (b Board) String() string {
	s := fmt.Sprintf("   1 2 3 4 5 6 7 8 [b=%d w=%d]\n", b.Count(Black), b.Count(White))
	for row := 1; row <= 8; row++ {
		s += fmt.Sprintf("%d  ", row)
		for col := 1; col <= 8; col++ {
			s += b.cells[col+10*row].String() + " "
		}
		s += "\n"
	}
	return s
}

// ParseSquare parses a two-digit row/column string ("rc", digits 0..7)
// into a board index. It is the inverse of SquareString.
func ParseSquare(rc string) (int, error) {
	if len(rc) != 2 || rc[0] < '0' || rc[0] > '7' || rc[1] < '0' || rc[1] > '7' {
		return 0, fmt.Errorf("board: malformed move string %q", rc)
	}
	row := int(rc[0] - '0')
	col := int(rc[1] - '0')
	return 10*(row+1) + (col + 1), nil
}

// SquareString renders a board index as a two-digit row/column string.
func SquareString(sq int) string {
	shifted := sq - (9 + 2*(sq/10))
	row := shifted / 8
	col := shifted % 8
	return fmt.Sprintf("%d%d", row, col)
}
