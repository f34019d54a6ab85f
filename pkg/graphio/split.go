package graphio

import (
	"github.com/nkusla/dkaminpar-go/pkg/distvec"
	"github.com/nkusla/dkaminpar-go/pkg/graph"
)

// SplitByVertex assigns owned vertex ranges to size ranks by dividing
// [0, n) into size contiguous, near-equal blocks, and builds the
// matching node/edge distribution vectors.
func SplitByVertex(pg *ParsedGraph, size int) (nodeDist, edgeDist distvec.Vector) {
	nodeCounts := make([]uint64, size)
	base := pg.N / uint64(size)
	rem := pg.N % uint64(size)
	for p := 0; p < size; p++ {
		nodeCounts[p] = base
		if uint64(p) < rem {
			nodeCounts[p]++
		}
	}
	nodeDist = distvec.Build(nodeCounts)

	edgeCounts := make([]uint64, size)
	for p := 0; p < size; p++ {
		lo, hi := nodeDist[p], nodeDist[p+1]
		var m uint64
		for u := lo; u < hi; u++ {
			m += uint64(len(pg.Adjacency[u]))
		}
		edgeCounts[p] = m
	}
	edgeDist = distvec.Build(edgeCounts)
	return nodeDist, edgeDist
}

// SplitByEdge assigns owned vertex ranges to size ranks by greedily
// growing each rank's vertex block until its edge count reaches its
// fair share of m, balancing edges rather than vertices (useful for
// graphs with a skewed degree distribution).
func SplitByEdge(pg *ParsedGraph, size int) (nodeDist, edgeDist distvec.Vector) {
	targetPerRank := pg.M / uint64(size)
	nodeCounts := make([]uint64, size)
	edgeCounts := make([]uint64, size)

	u := uint64(0)
	for p := 0; p < size; p++ {
		var accumulated uint64
		start := u
		remainingRanks := uint64(size - p)
		for u < pg.N {
			remainingVertices := pg.N - u
			if remainingRanks > 1 && accumulated >= targetPerRank && remainingVertices > remainingRanks-1 {
				break
			}
			accumulated += uint64(len(pg.Adjacency[u]))
			u++
		}
		nodeCounts[p] = u - start
		edgeCounts[p] = accumulated
	}

	return distvec.Build(nodeCounts), distvec.Build(edgeCounts)
}

// OwnedAdjacency slices out the per-vertex global adjacency for rank
// rankID's owned range, in the shape graph.BuildFromAdjacency expects.
func OwnedAdjacency(pg *ParsedGraph, nodeDist distvec.Vector, rankID int) (adjacency [][]graph.GlobalEdge, nodeWeights []int64) {
	lo, hi := nodeDist[rankID], nodeDist[rankID+1]
	adjacency = pg.Adjacency[lo:hi]
	if pg.NodeWeights != nil {
		nodeWeights = pg.NodeWeights[lo:hi]
	}
	return adjacency, nodeWeights
}
