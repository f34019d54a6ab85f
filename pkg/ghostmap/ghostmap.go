// Package ghostmap implements a ghost-node mapper: it assigns dense
// local ghost indices to non-owned global vertex IDs encountered as
// edge endpoints while a graph is being built (graph.BuildFromAdjacency).
// pkg/contraction follows the same idiom for its off-process cluster
// map but keeps its own map and per-owner counters.
//
// The single-winner insert-or-get semantics are provided by
// github.com/puzpuzpuz/xsync's lock-free MapOf, so concurrent goroutines
// racing to assign the same ghost index converge on one winner without
// a mutex.
package ghostmap

import (
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
)

// OwnerFunc resolves the owning rank of a global vertex ID, typically
// distvec.Vector.Owner.
type OwnerFunc func(global uint64) int

// Builder assigns local ghost indices n, n+1, ... to global vertex IDs
// that are not owned locally. Safe for concurrent use from multiple
// goroutines during a parallel scan over edge endpoints.
type Builder struct {
	n          uint32 // count of owned local vertices; ghost indices start here
	findOwner  OwnerFunc
	isOwned    func(global uint64) bool
	globalToID *xsync.MapOf[uint64, uint32]
	next       atomic.Uint32
}

// NewBuilder creates a Builder for a rank owning n local vertices, using
// isOwned to short-circuit locally-owned IDs and findOwner to resolve
// the owning rank of ghosts.
func NewBuilder(n uint32, isOwned func(global uint64) bool, findOwner OwnerFunc) *Builder {
	b := &Builder{
		n:          n,
		findOwner:  findOwner,
		isOwned:    isOwned,
		globalToID: xsync.NewMapOf[uint64, uint32](),
	}
	b.next.Store(n)
	return b
}

// Resolve returns the local ID for a global vertex ID: if owned, that is
// a plain offset computed by the caller (Resolve is not consulted);
// Resolve is only meaningful for non-owned IDs, where it returns a
// previously-assigned ghost index or allocates a fresh one.
func (b *Builder) Resolve(global uint64) uint32 {
	if b.isOwned(global) {
		panic("ghostmap: Resolve called on an owned global id")
	}

	// LoadOrCompute only invokes the value function for the goroutine
	// that actually inserts global, so the counter advances once per
	// distinct ghost rather than once per racing goroutine.
	local, _ := b.globalToID.LoadOrCompute(global, func() uint32 {
		return b.next.Add(1) - 1
	})
	return local
}

// Finalize returns the three ghost-directory arrays: ghostToGlobal and
// ghostOwner are indexed by local ghost index minus n; globalToGhost is
// returned as the same concurrent map for the caller's convenience
// (typically stored into graph.Graph.GlobalToGhost, now frozen).
func (b *Builder) Finalize() (ghostToGlobal []uint64, ghostOwner []int32, globalToGhost *xsync.MapOf[uint64, uint32]) {
	ghostN := int(b.next.Load() - b.n)
	ghostToGlobal = make([]uint64, ghostN)
	ghostOwner = make([]int32, ghostN)

	b.globalToID.Range(func(global uint64, local uint32) bool {
		idx := local - b.n
		ghostToGlobal[idx] = global
		ghostOwner[idx] = int32(b.findOwner(global))
		return true
	})

	return ghostToGlobal, ghostOwner, b.globalToID
}

// GhostCount returns the number of distinct ghosts assigned so far.
func (b *Builder) GhostCount() int {
	return int(b.next.Load() - b.n)
}
