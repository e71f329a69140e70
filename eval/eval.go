// Package eval implements the staged positional evaluator: parity,
// mobility, corner, and spiral-stability heuristics blended by game
// phase. Every sub-score is from the maximizing player's perspective.
package eval

import "othello/board"

// TimeoutChecker lets the stability spiral cooperate with whatever
// deadline the caller is tracking, without eval importing search: the
// interface is declared here and satisfied implicitly by
// *search.Context.
type TimeoutChecker interface {
	TimedOut() bool
}

// timeoutSentinel is returned (after phase weighting) when the
// stability spiral observes a timeout mid-traversal. The caller's
// search layer discards any score seen after timeout regardless, so
// the exact magnitude only needs to dominate the sum.
const timeoutSentinel = -100000

// corner squares, fixed by the board's coordinate scheme.
const (
	cornerTopLeft     = 11
	cornerTopRight    = 18
	cornerBottomLeft  = 81
	cornerBottomRight = 88
)

// Evaluate scores the position from max's point of view, blending
// sub-scores according to the game phase (total pieces on the board).
func Evaluate(b board.Board, max board.Player, tc TimeoutChecker) int {
	opp := board.Opponent(max)
	phase := b.Count(max) + b.Count(opp)

	var parity, corners, mobility, stability int

	switch {
	case phase < 14:
		parity = 5 * evalParity(b, max, opp)
		corners = 30 * evalCorners(b, max, opp)
		mobility = 10 * evalMobility(b, max, opp)
		s, timedOut := evalStability(b, max, opp, tc)
		if timedOut {
			return timeoutSentinel
		}
		stability = 20 * s
	case phase < 64-startingDepth:
		parity = 25 * evalParity(b, max, opp)
		corners = 30 * evalCorners(b, max, opp)
		mobility = evalMobility(b, max, opp)
		s, timedOut := evalStability(b, max, opp, tc)
		if timedOut {
			return timeoutSentinel
		}
		stability = 25 * s
	default:
		parity = evalParity(b, max, opp)
	}

	return parity + corners + mobility + stability
}

// startingDepth mirrors the coordinator's D0, used only to pick the
// endgame phase boundary (64 - D0); it has no other effect on search.
const startingDepth = 7

// ratio normalizes a (max, min) pair into [-100, 100], treating a 0/0
// split as perfectly balanced.
func ratio(maxVal, minVal int) int {
	if maxVal+minVal == 0 {
		return 0
	}
	return 100 * (maxVal - minVal) / (maxVal + minVal)
}

// evalParity scores piece counts; a min count of zero is a terminal
// wipeout, reported as a large positive value regardless of phase
// weighting.
func evalParity(b board.Board, max, opp board.Player) int {
	maxVal := b.Count(max)
	minVal := b.Count(opp)
	if minVal == 0 {
		return 10000
	}
	return ratio(maxVal, minVal)
}

// evalMobility scores legal-move counts.
func evalMobility(b board.Board, max, opp board.Player) int {
	maxVal := b.LegalMoves(max).Count
	minVal := b.LegalMoves(opp).Count
	return ratio(maxVal, minVal)
}

// evalCorners scores ownership of the four corner squares.
func evalCorners(b board.Board, max, opp board.Player) int {
	corners := [4]int{cornerTopLeft, cornerTopRight, cornerBottomLeft, cornerBottomRight}
	maxVal, minVal := 0, 0
	for _, sq := range corners {
		switch b.At(sq) {
		case max:
			maxVal++
		case opp:
			minVal++
		}
	}
	return ratio(maxVal, minVal)
}
