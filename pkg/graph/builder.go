package graph

import (
	"context"

	"go.opentelemetry.io/otel"

	"github.com/nkusla/dkaminpar-go/pkg/dkerr"
	"github.com/nkusla/dkaminpar-go/pkg/distvec"
	"github.com/nkusla/dkaminpar-go/pkg/ghostmap"
	"github.com/nkusla/dkaminpar-go/pkg/rank"
)

var tracer = otel.Tracer("github.com/nkusla/dkaminpar-go/pkg/graph")

// GlobalEdge is one adjacency-list entry keyed by global vertex ID,
// as read from input (pkg/graphio) or produced by a partitioner.
type GlobalEdge struct {
	Global uint64
	Weight int64
}

// BuildFromAdjacency assembles a Graph for rank r's owned vertex range
// from a per-vertex adjacency list of global neighbor IDs, resolving
// each neighbor to either a local owned index or a ghost slot as it
// goes. Every entry of adjacency corresponds to one owned local vertex,
// in local-ID order; nodeWeights may be nil for uniform weight 1.
//
// The two-pass shape (size, then fill) mirrors clustering_contraction.cc's
// degree-then-place pattern. The size pass and its prefix sum run
// sequentially; the fill pass runs as a parallel-for over r.Threads()
// goroutines, since ghostmap.Builder.Resolve is safe for concurrent use.
func BuildFromAdjacency(
	ctx context.Context,
	r *rank.Rank,
	nodeDist, edgeDist distvec.Vector,
	adjacency [][]GlobalEdge,
	nodeWeights []int64,
) (*Graph, error) {
	_, span := tracer.Start(ctx, "graph.BuildFromAdjacency")
	defer span.End()

	rankID := int(r.ID())
	n := uint32(len(adjacency))
	if nodeDist.Count(rankID) != uint64(n) {
		return nil, dkerr.WithDetail(dkerr.ErrInconsistentDistribution,
			"rank %d built %d vertices but node_dist assigns %d", rankID, n, nodeDist.Count(rankID))
	}
	offsetN := nodeDist[rankID]

	degrees := make([]uint32, n+1)
	for u := uint32(0); u < n; u++ {
		degrees[u] = uint32(len(adjacency[u]))
	}
	m := rank.ParallelScan(degrees[:n])
	degrees[n] = m
	nodes := degrees

	edges := make([]uint32, m)
	var edgeWeights []int64
	for u := uint32(0); u < n && edgeWeights == nil; u++ {
		for _, a := range adjacency[u] {
			if a.Weight != 1 {
				edgeWeights = make([]int64, m)
				break
			}
		}
	}

	ghosts := ghostmap.NewBuilder(n,
		func(g uint64) bool { return nodeDist.Owns(rankID, g) },
		nodeDist.Owner,
	)

	r.ParallelFor(int(n), func(ui int) {
		u := uint32(ui)
		start := nodes[u]
		for i, a := range adjacency[u] {
			e := start + uint32(i)
			var local uint32
			if nodeDist.Owns(rankID, a.Global) {
				local = uint32(a.Global - offsetN)
			} else {
				local = ghosts.Resolve(a.Global)
			}
			edges[e] = local
			if edgeWeights != nil {
				edgeWeights[e] = a.Weight
			}
		}
	})

	ghostToGlobal, ghostOwner, globalToGhost := ghosts.Finalize()

	var fullNodeWeights []int64
	if nodeWeights != nil {
		fullNodeWeights = make([]int64, n+uint32(len(ghostToGlobal)))
		copy(fullNodeWeights, nodeWeights)
		for i := range ghostToGlobal {
			fullNodeWeights[int(n)+i] = 1
		}
	}

	g := New(rankID, nodeDist, edgeDist, nodes, edges, fullNodeWeights, edgeWeights, ghostOwner, ghostToGlobal, globalToGhost)
	return g, nil
}
