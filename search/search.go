// Package search implements the per-root-move alpha-beta minimax that
// each worker runs on the root moves handed to it. The coordinator
// does not search: its single-move shortcut and its fallback both
// play a root move directly.
package search

import (
	"context"

	"othello/board"
	"othello/eval"
)

// pollInterval bounds how often the recursion checks ctx.Done(): once
// every this many visited nodes, not on every call, so the context
// check never shows up as a hot-path cost.
const pollInterval = 1024

// timeoutScore is returned up the stack the instant a deadline fires.
// It is far outside any real evaluation's range so the caller can
// distinguish "the position is terrible" from "we ran out of time".
// Every level returns it unchanged (scores are always from max's
// point of view, never negated), so callers test for it with ==.
const timeoutScore = -100000

// Context carries the per-move search state: the node budget poll,
// the shared alpha floor received from sibling workers, and the
// deadline the whole tree must respect. It satisfies eval.TimeoutChecker
// so the evaluator can poll the same clock without importing search.
type Context struct {
	ctx   context.Context
	nodes int64

	// SharedAlpha, when non-nil, is consulted at every max node so a
	// better bound discovered by a sibling worker can prune this
	// worker's subtree immediately.
	SharedAlpha func() int

	// OnPoll, when non-nil, runs each time TimedOut performs its
	// periodic check (every pollInterval nodes). Workers use it to
	// drain buffered inter-worker alpha messages without blocking the
	// search, so a better bound can take effect mid-search rather than
	// only once the current root move is finished.
	OnPoll func()
}

// NewContext wraps ctx for one root-move search.
func NewContext(ctx context.Context) *Context {
	return &Context{ctx: ctx}
}

// TimedOut reports whether ctx's deadline has passed, polling ctx.Done()
// only once every pollInterval nodes.
func (c *Context) TimedOut() bool {
	c.nodes++
	if c.nodes%pollInterval != 0 {
		return false
	}
	if c.OnPoll != nil {
		c.OnPoll()
	}
	select {
	case <-c.ctx.Done():
		return true
	default:
		return false
	}
}

var _ eval.TimeoutChecker = (*Context)(nil)

// Minimax runs alpha-beta search to depth plies from b's position,
// maximizing for the max player, and returns the score from max's
// perspective. A pass (the side to move has no legal move) hands the
// turn to the opponent without spending a ply; if neither side has a
// move, the position is terminal and is scored directly.
func Minimax(c *Context, b board.Board, toMove, max board.Player, depth, alpha, beta int) int {
	if c.TimedOut() {
		return timeoutScore
	}
	if c.SharedAlpha != nil {
		if shared := c.SharedAlpha(); toMove == max && shared > alpha {
			alpha = shared
		}
	}

	moves := b.LegalMoves(toMove)
	if moves.Count == 0 {
		opp := board.Opponent(toMove)
		if b.LegalMoves(opp).Count == 0 {
			return terminalScore(b, max)
		}
		return Minimax(c, b, opp, max, depth, alpha, beta)
	}

	if depth == 0 {
		return eval.Evaluate(b, max, c)
	}

	ordered := append([]int(nil), moves.Moves()...)
	board.SortByStaticOrder(ordered)

	if toMove == max {
		best := alpha
		for _, sq := range ordered {
			child := b
			child.ApplyMove(sq, toMove)
			score := Minimax(c, child, board.Opponent(toMove), max, depth-1, best, beta)
			if score == timeoutScore {
				return timeoutScore
			}
			if score > best {
				best = score
			}
			if best >= beta {
				break
			}
		}
		return best
	}

	worst := beta
	for _, sq := range ordered {
		child := b
		child.ApplyMove(sq, toMove)
		score := Minimax(c, child, board.Opponent(toMove), max, depth-1, alpha, worst)
		if score == timeoutScore {
			return timeoutScore
		}
		if score < worst {
			worst = score
		}
		if worst <= alpha {
			break
		}
	}
	return worst
}

// terminalScore scores a position where neither side has a legal
// move: the game is over, so the outcome is exact rather than a
// heuristic estimate.
func terminalScore(b board.Board, max board.Player) int {
	opp := board.Opponent(max)
	maxCount, oppCount := b.Count(max), b.Count(opp)
	switch {
	case maxCount > oppCount:
		return 100000 + maxCount - oppCount
	case maxCount < oppCount:
		return -100000 + maxCount - oppCount
	default:
		return 0
	}
}
