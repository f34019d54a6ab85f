package clusterer

import (
	"context"
	"sort"
	"sync/atomic"

	"github.com/nkusla/dkaminpar-go/pkg/crdt"
	"github.com/nkusla/dkaminpar-go/pkg/graph"
	"github.com/nkusla/dkaminpar-go/pkg/rank"
)

// LabelProp is a synchronous weighted label-propagation clusterer: each
// pass computes, in parallel across r's worker pool, the cluster every
// owned vertex would most like to join (by summed neighbor edge
// weight), collects the results in a crdt.MoveSet, then applies them
// sequentially so the cluster-weight cap is enforced against a
// consistent view. Stops when a pass makes no changes or after
// MaxIterations passes.
//
// Grounded loosely on the local-move step of a Louvain implementation
// (github.com/gilchrisn/graph-clustering-service) but stripped down to
// a plain weighted majority vote per vertex, with no modularity
// bookkeeping, which is what label propagation is.
//
// Ghost neighbors are treated as singleton clusters identified by their
// own global ID, since this clusterer has no communicator to exchange
// live labels with other processes across iterations; pkg/contraction's
// halo exchange only needs the final owned-vertex clustering, not a
// synchronized view of in-progress ghost labels.
type LabelProp struct {
	MaxIterations int
}

// NewLabelProp creates a LabelProp clusterer bounded to maxIterations
// passes over the owned vertex set.
func NewLabelProp(maxIterations int) *LabelProp {
	return &LabelProp{MaxIterations: maxIterations}
}

func (lp *LabelProp) Cluster(ctx context.Context, g *graph.Graph, maxClusterWeight int64, r *rank.Rank) ([]uint64, error) {
	n := g.N()
	label := make([]uint64, n)
	for u := uint32(0); u < n; u++ {
		label[u] = g.LocalToGlobalNode(u)
	}

	clusterWeight := make(map[uint64]int64, n)
	for u := uint32(0); u < n; u++ {
		clusterWeight[label[u]] += g.NodeWeight(u)
	}

	for iter := 0; iter < lp.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		moves := crdt.NewMoveSet()
		var canceled atomic.Bool
		r.ParallelFor(int(n), func(i int) {
			if canceled.Load() {
				return
			}
			select {
			case <-ctx.Done():
				canceled.Store(true)
				return
			default:
			}

			u := uint32(i)
			votes := make(map[uint64]int64)
			g.ForEachNeighbor(u, func(e, v uint32) {
				var lv uint64
				if v < n {
					lv = label[v]
				} else {
					lv = g.LocalToGlobalNode(v)
				}
				votes[lv] += g.EdgeWeight(e)
			})

			best := label[u]
			bestScore := votes[label[u]]
			for cand, score := range votes {
				if cand == label[u] {
					continue
				}
				if clusterWeight[cand]+g.NodeWeight(u) > maxClusterWeight {
					continue
				}
				if score > bestScore || (score == bestScore && cand < best) {
					best, bestScore = cand, score
				}
			}

			if best != label[u] {
				moves.Add(crdt.Move{VertexID: uint64(u), ClusterID: best, Score: bestScore})
			}
		})

		if canceled.Load() {
			return nil, ctx.Err()
		}

		applied := moves.Moves()
		sort.Slice(applied, func(i, j int) bool { return applied[i].VertexID < applied[j].VertexID })

		changed := false
		for _, m := range applied {
			u := uint32(m.VertexID)
			if clusterWeight[m.ClusterID]+g.NodeWeight(u) > maxClusterWeight {
				continue
			}
			clusterWeight[label[u]] -= g.NodeWeight(u)
			clusterWeight[m.ClusterID] += g.NodeWeight(u)
			label[u] = m.ClusterID
			changed = true
		}
		if !changed {
			break
		}
	}

	return label, nil
}
