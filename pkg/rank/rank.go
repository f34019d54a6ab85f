// Package rank models one participating process ("rank") of the
// partitioner under a hybrid scheduling model: each rank hosts one
// worker pool sized to the configured thread count, and all per-rank
// phases run as parallel-for / parallel-scan over vertex and edge ranges
// on that pool. Crossing a rank boundary always goes through pkg/comm's
// collectives, never directly through the pool.
package rank

import (
	"github.com/sourcegraph/conc/iter"
)

// ID identifies a rank within a communicator; a rank is the unit of
// MPI-style ownership.
type ID int

// Rank is the local execution context of one participating process: its
// identity, its total rank count, and the worker pool used for every
// data-parallel phase of graph construction and contraction.
type Rank struct {
	id      ID
	size    int
	threads int
}

// New creates a Rank with identity id among size total ranks, using
// threads worker goroutines for parallel-for/scan (threads <= 0 means
// "use GOMAXPROCS", left to conc's default).
func New(id ID, size int, threads int) *Rank {
	return &Rank{id: id, size: size, threads: threads}
}

// ID returns this rank's identity.
func (r *Rank) ID() ID { return r.id }

// Size returns the total number of ranks.
func (r *Rank) Size() int { return r.size }

// Threads returns the configured worker-pool size.
func (r *Rank) Threads() int { return r.threads }

func (r *Rank) iterator() iter.Iterator[int] {
	it := iter.Iterator[int]{}
	if r.threads > 0 {
		it.MaxGoroutines = r.threads
	}
	return it
}

// ParallelFor runs fn(i) for every i in [0, n), fanning out across the
// rank's worker pool for intra-phase data-parallel work.
func (r *Rank) ParallelFor(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	r.iterator().ForEach(idx, func(i *int) { fn(*i) })
}

// ParallelScan computes an exclusive prefix sum over buf in place: on
// return, buf[i] holds the sum of the original buf[0:i], and the
// function returns the total sum (the value that would occupy
// buf[len(buf)]] in a CSR offsets array). Implemented sequentially since
// a work-efficient parallel scan is not worth the synchronization
// overhead below a few thousand elements.
func ParallelScan(buf []uint32) uint32 {
	var sum uint32
	for i, v := range buf {
		buf[i] = sum
		sum += v
	}
	return sum
}

// ParallelScanInt is ParallelScan for signed 32-bit values (bucket
// position buffers over int-typed contributor counts).
func ParallelScanInt(buf []int32) int32 {
	var sum int32
	for i, v := range buf {
		buf[i] = sum
		sum += v
	}
	return sum
}
