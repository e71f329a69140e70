package messaging

import "context"

// Hub is the in-process stand-in for the communicator: rank 0 is
// always the coordinator, ranks 1..N-1 are workers. Every rank gets
// its own buffered inbox so Send never blocks the sender on a slow
// receiver, matching the original engine's buffered-send semantics.
type Hub struct {
	inboxes  []chan Msg
	gather   chan Verdict
	barrier  *Barrier
	numRanks int
}

// NewHub builds a Hub for numRanks cooperating ranks (1 coordinator +
// numRanks-1 workers).
func NewHub(numRanks int) *Hub {
	h := &Hub{
		inboxes:  make([]chan Msg, numRanks),
		gather:   make(chan Verdict, numRanks),
		barrier:  NewBarrier(numRanks),
		numRanks: numRanks,
	}
	for i := range h.inboxes {
		h.inboxes[i] = make(chan Msg, numRanks*4)
	}
	return h
}

// NumRanks reports how many ranks this Hub was built for.
func (h *Hub) NumRanks() int {
	return h.numRanks
}

// Send delivers msg to rank's inbox. It never blocks: the inbox is
// sized generously enough that a round's worth of traffic always
// fits, matching the fire-and-forget style of the original engine's
// non-blocking sends.
func (h *Hub) Send(rank int, msg Msg) {
	h.inboxes[rank] <- msg
}

// Recv blocks until a message arrives in rank's inbox.
func (h *Hub) Recv(rank int) Msg {
	return <-h.inboxes[rank]
}

// RecvContext blocks until a message arrives in rank's inbox or ctx is
// done, reporting ok=false in the latter case. It lets a goroutine
// sitting idle between rounds respond to process-lifetime cancellation
// without a message ever having to be sent just to wake it up.
func (h *Hub) RecvContext(ctx context.Context, rank int) (msg Msg, ok bool) {
	select {
	case m := <-h.inboxes[rank]:
		return m, true
	case <-ctx.Done():
		return nil, false
	}
}

// TryRecv returns the next queued message for rank without blocking,
// reporting false if the inbox is currently empty.
func (h *Hub) TryRecv(rank int) (Msg, bool) {
	select {
	case m := <-h.inboxes[rank]:
		return m, true
	default:
		return nil, false
	}
}

// Broadcast delivers msg to every rank except the sender, mirroring a
// collective broadcast from the coordinator to all workers.
func (h *Hub) Broadcast(from int, msg Msg) {
	for rank := range h.inboxes {
		if rank == from {
			continue
		}
		h.Send(rank, msg)
	}
}

// BroadcastToWorkers delivers msg to every worker rank (everything but
// rank 0) except from, for traffic that travels directly between
// peers and never touches the coordinator's inbox.
func (h *Hub) BroadcastToWorkers(from int, msg Msg) {
	for rank := 1; rank < h.numRanks; rank++ {
		if rank == from {
			continue
		}
		h.Send(rank, msg)
	}
}

// Gather publishes one rank's verdict for the coordinator to collect.
func (h *Hub) Gather(v Verdict) {
	h.gather <- v
}

// CollectVerdicts blocks until count verdicts have been gathered and
// returns them, matching the coordinator's MPI_Gather of one result
// per worker at the end of a round.
func (h *Hub) CollectVerdicts(count int) []Verdict {
	out := make([]Verdict, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, <-h.gather)
	}
	return out
}

// Barrier returns the Hub's shared barrier, sized for every rank.
func (h *Hub) Barrier() *Barrier {
	return h.barrier
}
