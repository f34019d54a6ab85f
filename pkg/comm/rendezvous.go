package comm

import (
	"context"
	"sync"
)

// roundState holds one collective round's payloads and, once complete,
// its result. A fresh roundState is installed before the completing
// payload is released, so late readers of a prior round's result never
// race with the next round starting.
type roundState struct {
	done     chan struct{}
	payloads []any
	result   []any
}

// rendezvous is a reusable N-party barrier-with-payload: every
// participant calls enter with its contribution, and all participants
// receive the full, rank-ordered slice of contributions once the last
// one arrives. Reused sequentially across every collective call issued
// by the SPMD program (all ranks call collectives in the same order),
// so one rendezvous suffices per World.
type rendezvous struct {
	n     int
	mu    sync.Mutex
	count int
	cur   *roundState
}

func newRendezvous(n int) *rendezvous {
	return &rendezvous{n: n, cur: newRoundState(n)}
}

func newRoundState(n int) *roundState {
	return &roundState{done: make(chan struct{}), payloads: make([]any, n)}
}

func (rv *rendezvous) enter(ctx context.Context, rankID int, payload any) ([]any, error) {
	rv.mu.Lock()
	state := rv.cur
	state.payloads[rankID] = payload
	rv.count++

	if rv.count == rv.n {
		result := make([]any, rv.n)
		copy(result, state.payloads)
		state.result = result
		rv.count = 0
		rv.cur = newRoundState(rv.n)
		rv.mu.Unlock()
		close(state.done)
		return result, nil
	}
	rv.mu.Unlock()

	select {
	case <-state.done:
		return state.result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
