// Package localview adapts one rank's local graph view (owned vertices
// plus the ghosts it can see) into a gonum weighted undirected graph, for
// reference algorithms (pkg/initialpart) that only need local
// connectivity and have no reason to reimplement gonum's graph
// interfaces themselves.
package localview

import (
	"gonum.org/v1/gonum/graph/simple"

	"github.com/nkusla/dkaminpar-go/pkg/graph"
)

// Build translates g's owned-plus-ghost local structure into a gonum
// simple.WeightedUndirectedGraph keyed by local vertex ID.
func Build(g *graph.Graph) *simple.WeightedUndirectedGraph {
	wg := simple.NewWeightedUndirectedGraph(0, 0)
	for u := int64(0); u < int64(g.TotalN()); u++ {
		wg.AddNode(simple.Node(u))
	}
	for u := uint32(0); u < g.N(); u++ {
		g.ForEachNeighbor(u, func(e, v uint32) {
			if wg.HasEdgeBetween(int64(u), int64(v)) {
				return
			}
			wg.SetWeightedEdge(wg.NewWeightedEdge(simple.Node(u), simple.Node(v), float64(g.EdgeWeight(e))))
		})
	}
	return wg
}
