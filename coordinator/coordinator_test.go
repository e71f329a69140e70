package coordinator

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"othello/board"
	"othello/messaging"
)

// stubWorker plays the worker side of one round per running
// BoardBroadcast: it sends RequestMove until told NoMovesLeft, scores
// each handed-out square with scoreFor instead of searching, and
// gathers its best verdict, letting coordinator tests exercise the
// handout/barrier/gather protocol without a real search.
func stubWorker(t *testing.T, hub *messaging.Hub, rank int, scoreFor func(square int) int) {
	t.Helper()
	go func() {
		for {
			msg := hub.Recv(rank)
			bcast, ok := msg.(messaging.BoardBroadcast)
			if !ok {
				continue
			}
			if !bcast.Running {
				continue
			}
			depthMsg, ok := hub.Recv(rank).(messaging.NextDepth)
			if !ok {
				continue
			}
			_ = depthMsg

			bestMove, bestScore, have := board.PassSquare, -1<<30, false
			for {
				hub.Send(0, messaging.RequestMove{Rank: rank})
				reply := hub.Recv(rank)
				switch r := reply.(type) {
				case messaging.NoMovesLeft:
					hub.Gather(messaging.Verdict{Rank: rank, Move: bestMove, Score: bestScore, Valid: have})
					hub.Barrier().Wait()
					goto nextRound
				case messaging.SendMove:
					score := scoreFor(r.Square)
					if !have || score > bestScore {
						bestMove, bestScore, have = r.Square, score, true
					}
				}
			}
		nextRound:
		}
	}()
}

func TestCoordinator_ZeroMovesPasses(t *testing.T) {
	hub := messaging.NewHub(2)
	stubWorker(t, hub, 1, func(int) int { return 0 })

	c := New(hub, DefaultConfig(), zerolog.Nop())

	var b board.Board // empty board: no legal moves for anyone
	move, err := c.GenMove(context.Background(), b, board.Black)
	require.NoError(t, err)
	assert.Equal(t, board.PassSquare, move)
}

func TestCoordinator_SingleMoveShortcut(t *testing.T) {
	hub := messaging.NewHub(2)
	stubWorker(t, hub, 1, func(int) int { return 0 })

	cfg := DefaultConfig()
	c := New(hub, cfg, zerolog.Nop())

	// Build a position with exactly one legal move for black by playing
	// the real opening forward, each side taking its first legal move,
	// until black has a single legal square left. If the playout leaves
	// black with no move instead, the test is skipped.
	b := board.NewGame()
	for b.LegalMoves(board.Black).Count > 1 {
		moves := b.LegalMoves(board.Black)
		b.ApplyMove(moves.Squares[0], board.Black)
		if b.LegalMoves(board.White).Count > 0 {
			b.ApplyMove(b.LegalMoves(board.White).Squares[0], board.White)
		}
		if b.LegalMoves(board.Black).Count == 0 {
			t.Skip("constructed playout did not pass through a single-legal-move position for black")
		}
	}

	want := b.LegalMoves(board.Black).Squares[0]
	move, err := c.GenMove(context.Background(), b, board.Black)
	require.NoError(t, err)
	assert.Equal(t, want, move)
}

func TestCoordinator_PicksHighestScoringMove(t *testing.T) {
	hub := messaging.NewHub(2)

	b := board.NewGame()
	moves := b.LegalMoves(board.Black).Moves()
	require.GreaterOrEqual(t, len(moves), 2)
	best := moves[0]

	stubWorker(t, hub, 1, func(sq int) int {
		if sq == best {
			return 1000
		}
		return 0
	})

	cfg := DefaultConfig()
	cfg.StartDepth = 1
	cfg.MaxDepth = 1
	cfg.Deadline = time.Second
	c := New(hub, cfg, zerolog.Nop())

	move, err := c.GenMove(context.Background(), b, board.Black)
	require.NoError(t, err)
	assert.Equal(t, best, move)
}

func TestRunRound_ExpiredContextSkipsHandoutAndFailsOver(t *testing.T) {
	// §4.4 step 6.b's per-iteration clock check: once the shared
	// deadline is already done, runRound must answer every pending
	// RequestMove with NoMovesLeft rather than handing out any of the
	// still-unissued moves in ordered.
	hub := messaging.NewHub(2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(hub, DefaultConfig(), zerolog.Nop())

	done := make(chan struct{})
	go func() {
		c.runRound(ctx, []int{23, 32}, 1)
		close(done)
	}()

	hub.Send(0, messaging.RequestMove{Rank: 1})
	reply := hub.Recv(1)
	_, gotNoMovesLeft := reply.(messaging.NoMovesLeft)
	assert.True(t, gotNoMovesLeft, "an already-expired deadline must short-circuit the handout before any SendMove")

	hub.Gather(messaging.Verdict{Rank: 1, Valid: false})
	hub.Barrier().Wait()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runRound did not return once the worker's side of the protocol completed")
	}
}

func TestCoordinator_TimeoutRobustness_StillEmitsLegalMove(t *testing.T) {
	// spec §8 scenario 5: with the deadline already exhausted on a
	// midgame position, the engine must still emit a legal move.
	hub := messaging.NewHub(2)
	stubWorker(t, hub, 1, func(sq int) int { return sq })

	cfg := DefaultConfig()
	cfg.Deadline = time.Millisecond // stands in for T_max = 0.5s, scaled down so the test stays fast
	c := New(hub, cfg, zerolog.Nop())

	b := board.NewGame()
	for i := 0; i < 6; i++ {
		moves := b.LegalMoves(board.Black)
		if moves.Count == 0 {
			break
		}
		b.ApplyMove(moves.Squares[0], board.Black)
		moves = b.LegalMoves(board.White)
		if moves.Count == 0 {
			break
		}
		b.ApplyMove(moves.Squares[0], board.White)
	}

	legal := b.LegalMoves(board.Black)
	if legal.Count == 0 {
		t.Skip("constructed playout left black with no legal moves")
	}

	move, err := c.GenMove(context.Background(), b, board.Black)
	require.NoError(t, err)
	assert.Contains(t, legal.Moves(), move, "an exhausted deadline must still yield a legal move, never none")

	b.ApplyMove(move, board.Black) // must not panic: move is legal per the assertion above
}

func TestCoordinator_NoWorkersIsAnError(t *testing.T) {
	hub := messaging.NewHub(1)
	c := New(hub, DefaultConfig(), zerolog.Nop())

	b := board.NewGame()
	_, err := c.GenMove(context.Background(), b, board.Black)
	assert.Error(t, err)
}
