// Package clusterer pins the clustering contract the contraction engine
// consumes — cluster(graph, max_cluster_weight) → per-vertex cluster
// assignment — and supplies a minimal label-propagation reference
// implementation.
package clusterer

import (
	"context"

	"github.com/nkusla/dkaminpar-go/pkg/graph"
	"github.com/nkusla/dkaminpar-go/pkg/rank"
)

// Clusterer produces a clustering of a graph's owned vertices: one
// global vertex ID per owned local vertex, naming the cluster it joins.
// Ghost vertices are not clustered by this interface; pkg/contraction
// performs the halo exchange that extends the result to ghosts before
// its own grouping phase begins (see DESIGN.md). r's worker pool is
// used for parallelizing per-vertex move computation within a pass.
type Clusterer interface {
	Cluster(ctx context.Context, g *graph.Graph, maxClusterWeight int64, r *rank.Rank) ([]uint64, error)
}
