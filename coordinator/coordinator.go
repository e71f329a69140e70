// Package coordinator implements rank 0: the process that talks to
// the external referee, hands root moves out to workers (who share
// improved alpha bounds directly among themselves), and reduces their
// verdicts into a single move before the per-move deadline expires.
package coordinator

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"othello/board"
	"othello/messaging"
)

// Default search parameters, matching the original engine's tuning:
// begin full-width search at depth 7, never search deeper than 15
// plies, and budget 4 seconds of wall clock per move unless the CLI
// overrides it.
const (
	DefaultStartDepth = 7
	DefaultMaxDepth   = 15
	DefaultDeadline   = 4 * time.Second
)

// Config parameterizes one Coordinator.
type Config struct {
	StartDepth int
	MaxDepth   int
	Deadline   time.Duration
}

// DefaultConfig returns the engine's stock tuning.
func DefaultConfig() Config {
	return Config{
		StartDepth: DefaultStartDepth,
		MaxDepth:   DefaultMaxDepth,
		Deadline:   DefaultDeadline,
	}
}

// Coordinator is rank 0.
type Coordinator struct {
	hub *messaging.Hub
	cfg Config
	log zerolog.Logger
}

// New builds a Coordinator driving hub with cfg.
func New(hub *messaging.Hub, cfg Config, log zerolog.Logger) *Coordinator {
	return &Coordinator{hub: hub, cfg: cfg, log: log.With().Str("component", "coordinator").Logger()}
}

// GenMove runs the full move-generation protocol described by the
// engine: broadcast the position, shortcut zero- and one-move
// positions, then iterative-deepen across the worker pool until
// parent's deadline fires or MaxDepth is reached, returning the best
// move found by any completed depth.
func (c *Coordinator) GenMove(parent context.Context, b board.Board, color board.Player) (int, error) {
	moves := b.LegalMoves(color)

	if moves.Count == 0 {
		c.hub.Broadcast(0, messaging.BoardBroadcast{Color: color, Running: false, Board: b, Ctx: parent})
		c.log.Info().Msg("no legal move, passing")
		return board.PassSquare, nil
	}

	ordered := append([]int(nil), moves.Moves()...)
	board.SortByStaticOrder(ordered)

	if len(ordered) == 1 {
		c.log.Info().Int("move", ordered[0]).Msg("single legal move, skipping search")
		return ordered[0], nil
	}

	numWorkers := c.hub.NumRanks() - 1
	if numWorkers <= 0 {
		return 0, errors.New("coordinator: no workers registered on the hub")
	}

	ctx, cancel := context.WithTimeout(parent, c.cfg.Deadline)
	defer cancel()

	c.hub.Broadcast(0, messaging.BoardBroadcast{Color: color, Running: true, Board: b, Ctx: ctx})

	bestMove := ordered[0]
	bestScore := -1 << 30
	haveResult := false
	stopAfterThisDepth := false

	for depth := c.cfg.StartDepth; depth <= c.cfg.MaxDepth; depth++ {
		if ctx.Err() != nil {
			break
		}

		c.hub.Broadcast(0, messaging.NextDepth{Depth: depth})

		move, score, ok := c.runRound(ctx, ordered, numWorkers)
		if ok && ctx.Err() == nil {
			bestMove, bestScore = move, score
			haveResult = true
		}

		if ctx.Err() != nil {
			stopAfterThisDepth = true
		}
		if stopAfterThisDepth {
			break
		}
	}

	if !haveResult {
		c.log.Warn().Msg("no depth completed before the deadline, falling back to the statically best-ordered move")
		return ordered[0], nil
	}

	c.log.Info().Int("move", bestMove).Int("score", bestScore).Msg("move selected")
	return bestMove, nil
}

// runRound hands every root move in ordered out to whichever worker
// asks for one next, and stops servicing requests once every worker
// has been told the move list is exhausted. Alpha bounds never pass
// through here: SendAlpha travels directly worker-to-worker over the
// Hub (see worker.playRound), matching §4.6's documented topology.
// Once ctx is done, the per-iteration clock check in §4.4 step 6.b
// (originally "broadcast TIMEOUT and exit the loop") is realized by
// refusing to hand out any further moves — every still-pending
// RequestMove gets NO_MOVES_LEFT immediately instead, so no new search
// starts after the deadline even though in-flight ones still drain via
// their own cooperative-cancellation poll. It then waits at the
// barrier and gathers and reduces the verdicts. ok is false if every
// worker timed out without producing a usable verdict.
func (c *Coordinator) runRound(ctx context.Context, ordered []int, numWorkers int) (move, score int, ok bool) {
	next := 0
	exhaustedReplies := 0

	for exhaustedReplies < numWorkers {
		req, isRequest := c.hub.Recv(0).(messaging.RequestMove)
		if !isRequest {
			continue
		}
		if ctx.Err() != nil || next >= len(ordered) {
			c.hub.Send(req.Rank, messaging.NoMovesLeft{})
			exhaustedReplies++
			continue
		}
		c.hub.Send(req.Rank, messaging.SendMove{Square: ordered[next]})
		next++
	}

	c.hub.Barrier().Wait()

	verdicts := c.hub.CollectVerdicts(numWorkers)
	return reduce(verdicts)
}

// reduce picks the verdict with the highest score among the Valid
// ones, breaking ties by the lowest reporting rank (the engine's
// documented tie-break). ok is false when every worker hit the
// deadline before producing a usable verdict.
func reduce(verdicts []messaging.Verdict) (move, score int, ok bool) {
	var bestRank int
	for _, v := range verdicts {
		if !v.Valid {
			continue
		}
		if !ok || v.Score > score || (v.Score == score && v.Rank < bestRank) {
			move, score, bestRank, ok = v.Move, v.Score, v.Rank, true
		}
	}
	return move, score, ok
}
