// Package messaging substitutes for the inter-process communicator: a
// Hub gives each rank (one goroutine per cooperating search process)
// an inbox channel, a broadcast fan-out, and a gather collection
// point, mirroring the tagged point-to-point and collective calls the
// original engine made over its process group.
package messaging

import (
	"context"

	"othello/board"
)

// Msg is any message a rank can send another rank. The marker method
// keeps the set closed to the variants declared in this file, playing
// the role the original engine's integer message tags played.
type Msg interface {
	isMsg()
}

// RequestMove is sent by a worker to the coordinator asking for its
// next root move to search this round.
type RequestMove struct {
	Rank int
}

func (RequestMove) isMsg() {}

// SendMove is the coordinator's reply handing a worker its next root
// move to evaluate.
type SendMove struct {
	Square int
}

func (SendMove) isMsg() {}

// NoMovesLeft tells a requesting worker that no further root move will
// be handed out this round: either every one has been handed out
// already, or the per-move deadline has passed.
type NoMovesLeft struct{}

func (NoMovesLeft) isMsg() {}

// SendAlpha broadcasts an improved alpha bound discovered by one
// worker's root-move search to every other worker, so their own
// alpha-beta searches can prune against it.
type SendAlpha struct {
	Rank  int
	Alpha int
}

func (SendAlpha) isMsg() {}

// NextDepth tells every worker which depth the upcoming round should
// search the assigned root moves to.
type NextDepth struct {
	Depth int
}

func (NextDepth) isMsg() {}

// BoardBroadcast is sent once per move, from the coordinator to every
// worker, establishing the position to search, the colour to move,
// and whether the game is still running. Ctx carries the shared
// per-move deadline so every rank's search stops at exactly the same
// wall-clock instant.
type BoardBroadcast struct {
	Color   board.Player
	Running bool
	Board   board.Board
	Ctx     context.Context
}

func (BoardBroadcast) isMsg() {}

// Verdict is a worker's report at the end of one round: the
// best-scoring root move it finished searching, gathered by the
// coordinator once all workers have drained. Valid is false when none
// of the root moves it was assigned finished searching before the
// deadline (or it was assigned none), in which case Move and Score
// carry no usable information.
type Verdict struct {
	Rank  int
	Move  int
	Score int
	Valid bool
}
