// Package initialpart pins the initial-partitioning contract consumed
// by refinement and supplies a reference implementation built on
// connected components plus greedy weight-balanced bin packing.
package initialpart

import (
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/topo"

	dkgraph "github.com/nkusla/dkaminpar-go/pkg/graph"
	"github.com/nkusla/dkaminpar-go/pkg/localview"
)

// InitialPartitioner assigns each owned vertex of g to one of k blocks.
type InitialPartitioner interface {
	Partition(g *dkgraph.Graph, k int) ([]int32, error)
}

// ConnectedComponents computes connected components of the local graph
// view via gonum's topo package, then greedily assigns whole components
// to the currently lightest block, largest component first. This is a
// coarse, single-process-local heuristic suitable for seeding
// refinement, not a distributed partitioner in its own right.
type ConnectedComponents struct{}

func (ConnectedComponents) Partition(g *dkgraph.Graph, k int) ([]int32, error) {
	wg := localview.Build(g)
	components := topo.ConnectedComponents(wg)

	type block struct {
		nodes  []int64
		weight int64
	}
	comps := make([]block, len(components))
	for i, nodes := range components {
		comps[i] = block{nodes: idsOf(nodes)}
		for _, id := range comps[i].nodes {
			if id < int64(g.N()) {
				comps[i].weight += g.NodeWeight(uint32(id))
			}
		}
	}
	sort.Slice(comps, func(i, j int) bool { return comps[i].weight > comps[j].weight })

	blockWeight := make([]int64, k)
	partition := make([]int32, g.TotalN())
	for _, c := range comps {
		best := 0
		for b := 1; b < k; b++ {
			if blockWeight[b] < blockWeight[best] {
				best = b
			}
		}
		for _, id := range c.nodes {
			partition[id] = int32(best)
		}
		blockWeight[best] += c.weight
	}

	return partition[:g.N()], nil
}

func idsOf(nodes []graph.Node) []int64 {
	ids := make([]int64, len(nodes))
	for i, nd := range nodes {
		ids[i] = nd.ID()
	}
	return ids
}
