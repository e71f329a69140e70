// Package worker implements every rank other than the coordinator: it
// waits for a root move, searches it with alpha-beta to whatever
// depth the coordinator is currently iterating, sends any improved
// alpha bound directly to its peer workers, and gathers a verdict once
// the round's moves are exhausted.
package worker

import (
	"context"

	"github.com/rs/zerolog"

	"othello/board"
	"othello/messaging"
	"othello/search"
)

// Worker is one cooperating rank.
type Worker struct {
	hub  *messaging.Hub
	rank int
	log  zerolog.Logger
}

// New builds a Worker for rank, driven by hub.
func New(hub *messaging.Hub, rank int, log zerolog.Logger) *Worker {
	return &Worker{hub: hub, rank: rank, log: log.With().Int("rank", rank).Logger()}
}

// Run services hub messages until lifetime is cancelled. lifetime
// governs the worker's own process lifetime, not any single move's
// deadline: each move's deadline travels inside BoardBroadcast.Ctx so
// every rank's search stops at the same wall-clock instant.
func (w *Worker) Run(lifetime context.Context) {
	var current messaging.BoardBroadcast
	for {
		msg, ok := w.hub.RecvContext(lifetime, w.rank)
		if !ok {
			return
		}
		switch m := msg.(type) {
		case messaging.BoardBroadcast:
			current = m
		case messaging.NextDepth:
			if current.Running {
				w.playRound(current, m.Depth)
			}
		default:
			// A SendAlpha or stale move reply arriving outside an
			// active round: nothing to do with it.
		}
	}
}

// playRound searches every root move handed to this worker at depth,
// sharing and consuming improved alpha bounds with its peers, and
// reports its single best verdict once the coordinator signals the
// move list is exhausted.
func (w *Worker) playRound(current messaging.BoardBroadcast, depth int) {
	sharedAlpha := -1 << 30
	bestMove := board.PassSquare
	bestScore := -1 << 30
	haveVerdict := false

	for {
		w.hub.Send(0, messaging.RequestMove{Rank: w.rank})

		reply := w.awaitReply(&sharedAlpha)
		switch r := reply.(type) {
		case messaging.NoMovesLeft:
			w.log.Debug().Int("depth", depth).Int("move", bestMove).Int("score", bestScore).Bool("valid", haveVerdict).Msg("round complete")
			w.hub.Gather(messaging.Verdict{Rank: w.rank, Move: bestMove, Score: bestScore, Valid: haveVerdict})
			w.hub.Barrier().Wait()
			return

		case messaging.SendMove:
			sc := search.NewContext(current.Ctx)
			sc.SharedAlpha = func() int { return sharedAlpha }
			sc.OnPoll = func() { w.drainAlpha(&sharedAlpha) }

			child := current.Board
			child.ApplyMove(r.Square, current.Color)
			score := search.Minimax(sc, child, board.Opponent(current.Color), current.Color, depth-1, -1<<30, 1<<30)

			if current.Ctx.Err() != nil {
				continue
			}

			if !haveVerdict || score > bestScore {
				bestMove, bestScore, haveVerdict = r.Square, score, true
			}
			if score > sharedAlpha {
				sharedAlpha = score
				w.hub.BroadcastToWorkers(w.rank, messaging.SendAlpha{Rank: w.rank, Alpha: score})
			}
		}
	}
}

// awaitReply blocks for the coordinator's reply to the most recent
// RequestMove, updating sharedAlpha in place for any SendAlpha
// broadcasts from peers that arrive first.
func (w *Worker) awaitReply(sharedAlpha *int) messaging.Msg {
	for {
		msg := w.hub.Recv(w.rank)
		if alpha, ok := msg.(messaging.SendAlpha); ok {
			if alpha.Alpha > *sharedAlpha {
				*sharedAlpha = alpha.Alpha
			}
			continue
		}
		return msg
	}
}

// drainAlpha consumes every SendAlpha currently queued without
// blocking, called from inside an active search so a peer's improved
// bound can prune this worker's own subtree before the move finishes.
func (w *Worker) drainAlpha(sharedAlpha *int) {
	for {
		msg, ok := w.hub.TryRecv(w.rank)
		if !ok {
			return
		}
		if alpha, ok := msg.(messaging.SendAlpha); ok {
			if alpha.Alpha > *sharedAlpha {
				*sharedAlpha = alpha.Alpha
			}
		}
	}
}
