package worker

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

func TestWorker_SearchesAssignedMoveAndGathersVerdict(t *testing.T) {
	hub := messaging.NewHub(2) // rank 0: coordinator stub, rank 1: worker under test
	w := New(hub, 1, zerolog.Nop())

	lifetime, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(lifetime)

	b := board.NewGame()
	moveCtx, moveCancel := context.WithTimeout(context.Background(), time.Second)
	defer moveCancel()

	hub.Send(1, messaging.BoardBroadcast{Color: board.Black, Running: true, Board: b, Ctx: moveCtx})
	hub.Send(1, messaging.NextDepth{Depth: 3})

	req, ok := hub.Recv(0).(messaging.RequestMove)
	require.True(t, ok)
	assert.Equal(t, 1, req.Rank)

	hub.Send(1, messaging.SendMove{Square: 34})

	// Improved alpha bounds go to peer workers, never to rank 0, so once
	// the worker finishes the one move handed out, the next message in
	// rank 0's inbox is a second RequestMove.
	second := waitForRequestMove(t, hub)
	assert.Equal(t, 1, second.Rank)

	hub.Send(1, messaging.NoMovesLeft{})

	verdicts := hub.CollectVerdicts(1)
	require.Len(t, verdicts, 1)
	assert.Equal(t, 34, verdicts[0].Move)
	assert.True(t, verdicts[0].Valid)

	released := make(chan struct{})
	go func() {
		hub.Barrier().Wait()
		close(released)
	}()
	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("barrier did not release after the worker's own Wait")
	}
}

func TestWorker_DrainsFullMoveListAndTerminatesAfterDeadline(t *testing.T) {
	// The deadline poll only fires every pollInterval nodes (see the
	// search package), so a shallow search may finish before ever
	// observing an already-expired deadline. What must hold regardless
	// is liveness: the worker drains every handed-out move and reports
	// exactly one verdict without hanging.
	hub := messaging.NewHub(2)
	w := New(hub, 1, zerolog.Nop())

	lifetime, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(lifetime)

	b := board.NewGame()
	moveCtx, moveCancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer moveCancel()
	time.Sleep(5 * time.Millisecond) // ensure the deadline has already passed

	hub.Send(1, messaging.BoardBroadcast{Color: board.Black, Running: true, Board: b, Ctx: moveCtx})
	hub.Send(1, messaging.NextDepth{Depth: 8})

	moves := b.LegalMoves(board.Black).Moves()
	for _, sq := range moves {
		req := waitForRequestMove(t, hub)
		hub.Send(req.Rank, messaging.SendMove{Square: sq})
	}

	done := make(chan messaging.RequestMove, 1)
	go func() {
		for {
			msg := hub.Recv(0)
			if req, ok := msg.(messaging.RequestMove); ok {
				done <- req
				return
			}
		}
	}()

	select {
	case req := <-done:
		hub.Send(req.Rank, messaging.NoMovesLeft{})
	case <-time.After(2 * time.Second):
		t.Fatal("worker never asked for another move after the handed-out list was exhausted")
	}

	verdicts := hub.CollectVerdicts(1)
	require.Len(t, verdicts, 1)
}

func TestWorker_RunExitsPromptlyOnLifetimeCancelWithNoPendingMessage(t *testing.T) {
	hub := messaging.NewHub(2)
	w := New(hub, 1, zerolog.Nop())

	lifetime, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(lifetime)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not return after lifetime cancellation with an empty inbox")
	}
}

// waitForRequestMove reads from rank 0's inbox until a RequestMove
// shows up. A SendAlpha is skipped (workers send those to peers, not
// to rank 0, so none is expected); any other message fails the test.
func waitForRequestMove(t *testing.T, hub *messaging.Hub) messaging.RequestMove {
	t.Helper()
	for {
		msg := hub.Recv(0)
		if req, ok := msg.(messaging.RequestMove); ok {
			return req
		}
		if _, ok := msg.(messaging.SendAlpha); !ok {
			t.Fatalf("expected RequestMove or SendAlpha, got %T", msg)
		}
	}
}
