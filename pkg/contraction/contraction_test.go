package contraction_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkusla/dkaminpar-go/pkg/comm"
	"github.com/nkusla/dkaminpar-go/pkg/contraction"
	"github.com/nkusla/dkaminpar-go/pkg/distvec"
	"github.com/nkusla/dkaminpar-go/pkg/graph"
	"github.com/nkusla/dkaminpar-go/pkg/rank"
)

// runContract builds one graph per rank from adjacency, runs Contract
// concurrently across all ranks via a shared World, and returns every
// rank's (coarse graph, mapping).
func runContract(t *testing.T, size int, adjacency [][][]graph.GlobalEdge, clustering [][]uint64, nodeWeights [][]int64) ([]*graph.Graph, [][]uint64) {
	t.Helper()

	counts := make([]uint64, size)
	for p := 0; p < size; p++ {
		counts[p] = uint64(len(adjacency[p]))
	}
	nodeDist := distvec.Build(counts)

	edgeCounts := make([]uint64, size)
	for p := 0; p < size; p++ {
		for _, adj := range adjacency[p] {
			edgeCounts[p] += uint64(len(adj))
		}
	}
	edgeDist := distvec.Build(edgeCounts)

	graphs := make([]*graph.Graph, size)
	for p := 0; p < size; p++ {
		r := rank.New(rank.ID(p), size, 0)
		var nw []int64
		if nodeWeights != nil {
			nw = nodeWeights[p]
		}
		g, err := graph.BuildFromAdjacency(context.Background(), r, nodeDist, edgeDist, adjacency[p], nw)
		require.NoError(t, err)
		graphs[p] = g
	}

	world := comm.NewWorld(size)
	results := make([]*graph.Graph, size)
	mappings := make([][]uint64, size)

	err := comm.RunAll(context.Background(), world, func(ctx context.Context, c comm.Communicator) error {
		p := c.Rank()
		r := rank.New(rank.ID(p), size, 0)
		cg, m, err := contraction.Contract(ctx, graphs[p], clustering[p], c, r)
		if err != nil {
			return err
		}
		results[p] = cg
		mappings[p] = m
		return nil
	})
	require.NoError(t, err)
	return results, mappings
}

func TestContractEmptyGraph(t *testing.T) {
	size := 4
	adjacency := make([][][]graph.GlobalEdge, size)
	clustering := make([][]uint64, size)
	for p := 0; p < size; p++ {
		adjacency[p] = [][]graph.GlobalEdge{}
		clustering[p] = []uint64{}
	}

	results, mappings := runContract(t, size, adjacency, clustering, nil)
	for p := 0; p < size; p++ {
		assert.EqualValues(t, 0, results[p].GlobalN())
		assert.EqualValues(t, 0, results[p].GlobalM())
		assert.Empty(t, mappings[p])
	}
}

func TestContractIsolatedEdges(t *testing.T) {
	// P=2, each rank owns two vertices forming one local edge of weight
	// 1, no cross-process edges. Cluster both endpoints together.
	size := 2
	adjacency := [][][]graph.GlobalEdge{
		{ // rank 0: vertices 0,1
			{{Global: 1, Weight: 1}},
			{{Global: 0, Weight: 1}},
		},
		{ // rank 1: vertices 2,3
			{{Global: 3, Weight: 1}},
			{{Global: 2, Weight: 1}},
		},
	}
	clustering := [][]uint64{
		{0, 0},
		{2, 2},
	}

	results, _ := runContract(t, size, adjacency, clustering, nil)
	var globalN, globalM uint64
	for p := 0; p < size; p++ {
		globalN = results[p].GlobalN()
		globalM = results[p].GlobalM()
	}
	assert.EqualValues(t, 2, globalN)
	assert.EqualValues(t, 0, globalM)
	for p := 0; p < size; p++ {
		if results[p].N() > 0 {
			assert.EqualValues(t, 2, results[p].NodeWeight(0))
		}
	}
}

func TestContractIdentityClustering(t *testing.T) {
	// Identity clustering: every vertex maps to itself; the coarse graph
	// should be structurally equal to the input.
	size := 2
	adjacency := [][][]graph.GlobalEdge{
		{
			{{Global: 1, Weight: 3}},
			{{Global: 0, Weight: 3}, {Global: 2, Weight: 1}},
		},
		{
			{{Global: 1, Weight: 1}},
		},
	}
	clustering := [][]uint64{
		{0, 1},
		{2},
	}

	results, mappings := runContract(t, size, adjacency, clustering, nil)
	assert.EqualValues(t, 3, results[0].GlobalN())
	assert.EqualValues(t, 4, results[0].GlobalM())

	assert.EqualValues(t, 0, mappings[0][0])
	assert.EqualValues(t, 1, mappings[0][1])
	assert.EqualValues(t, 2, mappings[1][0])

	// Ghost consistency: rank 0's coarse graph must carry a ghost for
	// cluster 2, owned by rank 1, and that ghost must be reachable from
	// at least one of rank 0's owned coarse edges.
	g0 := results[0]
	require.Len(t, g0.GhostOwner, 1)
	assert.EqualValues(t, 1, g0.GhostOwner[0])

	ghostGlobal := g0.GhostToGlobal[0]
	assert.EqualValues(t, 2, ghostGlobal)
	assert.NotEqual(t, g0.Rank(), g0.FindOwnerOfGlobalNode(ghostGlobal))

	ghostLocal, err := g0.GlobalToLocalNode(ghostGlobal)
	require.NoError(t, err)
	assert.EqualValues(t, g0.N(), ghostLocal)

	stored, ok := g0.GlobalToGhost.Load(ghostGlobal)
	require.True(t, ok)
	assert.Equal(t, ghostLocal, stored)

	var referencesGhost bool
	for u := uint32(0); u < g0.N(); u++ {
		g0.ForEachNeighbor(u, func(_, v uint32) {
			if v == ghostLocal {
				referencesGhost = true
			}
		})
	}
	assert.True(t, referencesGhost)
}

func TestContractSumsParallelFineEdgesIntoOneCoarseEdge(t *testing.T) {
	// K_{2,2} between cluster {0,1} and cluster {2,3}: every one of the
	// four parallel fine edges between the two clusters must coalesce
	// into a single coarse edge whose weight is their sum, exercising
	// Phase G's per-bucket sort-then-sum-duplicate-neighbors dedup.
	size := 1
	adjacency := [][][]graph.GlobalEdge{
		{
			{{Global: 2, Weight: 1}, {Global: 3, Weight: 1}},
			{{Global: 2, Weight: 1}, {Global: 3, Weight: 1}},
			{{Global: 0, Weight: 1}, {Global: 1, Weight: 1}},
			{{Global: 0, Weight: 1}, {Global: 1, Weight: 1}},
		},
	}
	clustering := [][]uint64{{0, 0, 2, 2}}

	results, mappings := runContract(t, size, adjacency, clustering, nil)
	g := results[0]
	assert.EqualValues(t, 2, g.GlobalN())
	assert.EqualValues(t, 2, g.GlobalM()) // one coarse edge per direction

	assert.Equal(t, mappings[0][0], mappings[0][1])
	assert.Equal(t, mappings[0][2], mappings[0][3])
	assert.NotEqual(t, mappings[0][0], mappings[0][2])

	cu, err := g.GlobalToLocalNode(mappings[0][0])
	require.NoError(t, err)

	var found bool
	g.ForEachNeighbor(cu, func(e, _ uint32) {
		found = true
		assert.EqualValues(t, 4, g.EdgeWeight(e))
	})
	assert.True(t, found)
}

func TestContractGlobalRing(t *testing.T) {
	// P=4, one vertex per process forming a ring, clustered into one
	// global cluster owned by rank 0.
	size := 4
	adjacency := [][][]graph.GlobalEdge{
		{{{Global: 1, Weight: 1}, {Global: 3, Weight: 1}}},
		{{{Global: 0, Weight: 1}, {Global: 2, Weight: 1}}},
		{{{Global: 1, Weight: 1}, {Global: 3, Weight: 1}}},
		{{{Global: 2, Weight: 1}, {Global: 0, Weight: 1}}},
	}
	clustering := [][]uint64{{0}, {0}, {0}, {0}}
	nodeWeights := [][]int64{{2}, {3}, {4}, {5}}

	results, mappings := runContract(t, size, adjacency, clustering, nodeWeights)
	assert.EqualValues(t, 1, results[0].GlobalN())
	assert.EqualValues(t, 0, results[0].GlobalM())
	assert.EqualValues(t, 14, results[0].NodeWeight(0))
	for p := 0; p < size; p++ {
		assert.EqualValues(t, 0, mappings[p][0])
	}
}

func TestContractRejectsUnknownClusterTarget(t *testing.T) {
	adjacency := [][][]graph.GlobalEdge{
		{{}},
	}
	clustering := [][]uint64{{99}}

	_, _, err := errFromSingleRankContract(t, adjacency, clustering)
	assert.Error(t, err)
}

func errFromSingleRankContract(t *testing.T, adjacency [][][]graph.GlobalEdge, clustering [][]uint64) (*graph.Graph, []uint64, error) {
	t.Helper()
	size := 1
	counts := []uint64{uint64(len(adjacency[0]))}
	nodeDist := distvec.Build(counts)
	edgeDist := distvec.Build([]uint64{0})
	r := rank.New(0, size, 0)
	g, err := graph.BuildFromAdjacency(context.Background(), r, nodeDist, edgeDist, adjacency[0], nil)
	require.NoError(t, err)

	world := comm.NewWorld(size)
	c := world.For(0)
	return contraction.Contract(context.Background(), g, clustering[0], c, r)
}
