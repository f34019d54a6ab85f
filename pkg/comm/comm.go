// Package comm implements collective and point-to-point primitives
// (Barrier, Allgather, Alltoall, Alltoallv, Allreduce) over an in-process
// World: every rank in the World is a goroutine that must call the same
// collective in the same order (the usual SPMD discipline), and the last
// arrival computes and releases the shared result. Only collective
// operations may block on other processes.
package comm

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/nkusla/dkaminpar-go/pkg/dkerr"
)

// Communicator is the collective/point-to-point substrate a rank uses to
// cross process boundaries.
type Communicator interface {
	Rank() int
	Size() int

	// Barrier blocks until every rank has called Barrier.
	Barrier(ctx context.Context) error

	// Allgather returns, for every rank in rank order, the value it
	// contributed.
	Allgather(ctx context.Context, local uint64) ([]uint64, error)

	// AllgatherBytes is Allgather for opaque payloads (e.g. serialized
	// distribution vectors, for a cross-rank consistency check).
	AllgatherBytes(ctx context.Context, local []byte) ([][]byte, error)

	// Alltoall exchanges one scalar count per destination rank and
	// returns the counts received from each source rank, the standard
	// "exchange counts first" half of a sparse all-to-all.
	Alltoall(ctx context.Context, sendCounts []int) (recvCounts []int, err error)

	// Alltoallv exchanges variable-length byte payloads: sendBuf[p] is
	// what this rank sends to rank p, and the return value's [p] is
	// what this rank received from rank p.
	Alltoallv(ctx context.Context, sendBuf [][]byte) (recvBuf [][]byte, err error)

	// AllreduceSum sums local across all ranks and returns the total to
	// everyone.
	AllreduceSum(ctx context.Context, local int64) (int64, error)

	// AllreduceAnd ANDs local across all ranks and returns the result
	// to everyone (used for "did every rank succeed" style checks).
	AllreduceAnd(ctx context.Context, local bool) (bool, error)
}

// World is an in-process communicator shared by all ranks of a single
// run. Construct one World per run and hand each rank its own view via
// For.
type World struct {
	size int
	rv   *rendezvous
}

// NewWorld creates a World for size ranks.
func NewWorld(size int) *World {
	return &World{size: size, rv: newRendezvous(size)}
}

// Size returns the number of ranks in the world.
func (w *World) Size() int { return w.size }

// For returns the Communicator view of this world for rank id.
func (w *World) For(id int) Communicator {
	return &worldComm{world: w, id: id}
}

// RunAll runs fn once per rank concurrently and returns the first error,
// canceling every other rank's context on the first failure: a single
// rank's failure is fatal to the whole run.
func RunAll(ctx context.Context, w *World, fn func(ctx context.Context, comm Communicator) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for id := 0; id < w.size; id++ {
		id := id
		g.Go(func() error {
			return fn(gctx, w.For(id))
		})
	}
	return g.Wait()
}

type worldComm struct {
	world *World
	id    int
}

func (c *worldComm) Rank() int { return c.id }
func (c *worldComm) Size() int { return c.world.size }

func (c *worldComm) Barrier(ctx context.Context) error {
	_, err := c.world.rv.enter(ctx, c.id, nil)
	return wrapErr(err)
}

func (c *worldComm) Allgather(ctx context.Context, local uint64) ([]uint64, error) {
	results, err := c.world.rv.enter(ctx, c.id, local)
	if err != nil {
		return nil, wrapErr(err)
	}
	out := make([]uint64, len(results))
	for i, r := range results {
		out[i] = r.(uint64)
	}
	return out, nil
}

func (c *worldComm) AllgatherBytes(ctx context.Context, local []byte) ([][]byte, error) {
	results, err := c.world.rv.enter(ctx, c.id, local)
	if err != nil {
		return nil, wrapErr(err)
	}
	out := make([][]byte, len(results))
	for i, r := range results {
		if r == nil {
			continue
		}
		out[i] = r.([]byte)
	}
	return out, nil
}

func (c *worldComm) Alltoall(ctx context.Context, sendCounts []int) ([]int, error) {
	results, err := c.world.rv.enter(ctx, c.id, sendCounts)
	if err != nil {
		return nil, wrapErr(err)
	}
	recv := make([]int, len(results))
	for p, r := range results {
		counts := r.([]int)
		recv[p] = counts[c.id]
	}
	return recv, nil
}

func (c *worldComm) Alltoallv(ctx context.Context, sendBuf [][]byte) ([][]byte, error) {
	results, err := c.world.rv.enter(ctx, c.id, sendBuf)
	if err != nil {
		return nil, wrapErr(err)
	}
	recv := make([][]byte, len(results))
	for p, r := range results {
		bufs := r.([][]byte)
		recv[p] = bufs[c.id]
	}
	return recv, nil
}

func (c *worldComm) AllreduceSum(ctx context.Context, local int64) (int64, error) {
	results, err := c.world.rv.enter(ctx, c.id, local)
	if err != nil {
		return 0, wrapErr(err)
	}
	var sum int64
	for _, r := range results {
		sum += r.(int64)
	}
	return sum, nil
}

func (c *worldComm) AllreduceAnd(ctx context.Context, local bool) (bool, error) {
	results, err := c.world.rv.enter(ctx, c.id, local)
	if err != nil {
		return false, wrapErr(err)
	}
	out := true
	for _, r := range results {
		out = out && r.(bool)
	}
	return out, nil
}

func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	return dkerr.WithDetail(dkerr.ErrCommunicationFailure, "%v", err)
}
