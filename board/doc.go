package board

// Data model reference.
//
// A Board is a sequence of 100 cells indexed 0..99, arranged as a
// 10x10 grid. Cells hold one of four states: Empty, Black, White, or
// Outer. The outer ring (row 0, row 9, column 0, column 9) is
// permanently Outer and acts as a sentinel so direction walks need no
// bounds checks. Playable squares are the 64 cells with both row and
// column in 1..8. The initial position has Black at (4,5) and (5,4),
// White at (4,4) and (5,5), and every other playable square Empty.
// Directions are the 8 offsets {-11,-10,-9,-1,+1,+9,+10,+11}. Outer
// cells are never mutated after NewGame.
//
// A move is a playable square index, or the PassSquare sentinel used
// only at the external protocol boundary. A row/column string "rc"
// (digits 0..7) maps to index 10*(r+1)+(c+1) via ParseSquare, and
// SquareString is its inverse.
//
// A MoveList is a compact list with a count and up to 64 square
// indices. A move m is legal for player P when board[m] is Empty and
// at least one direction contains a contiguous nonempty run of
// opponent pieces terminated by a P piece ("bracketed").
