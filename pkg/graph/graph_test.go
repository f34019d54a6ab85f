package graph_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkusla/dkaminpar-go/pkg/distvec"
	"github.com/nkusla/dkaminpar-go/pkg/graph"
	"github.com/nkusla/dkaminpar-go/pkg/rank"
)

// twoRankPath builds a 4-vertex path 0-1-2-3 split as {0,1} on rank 0
// and {2,3} on rank 1, with the 1-2 edge crossing ranks.
func twoRankPath(t *testing.T, rankID int) *graph.Graph {
	t.Helper()
	nodeDist := distvec.Build([]uint64{2, 2})
	edgeDist := distvec.Build([]uint64{4, 4}) // illustrative only: each rank below has 3 directed entries, and no test here reads GlobalM

	var adjacency [][]graph.GlobalEdge
	switch rankID {
	case 0:
		adjacency = [][]graph.GlobalEdge{
			{{Global: 1, Weight: 1}},
			{{Global: 0, Weight: 1}, {Global: 2, Weight: 1}},
		}
	case 1:
		adjacency = [][]graph.GlobalEdge{
			{{Global: 1, Weight: 1}, {Global: 3, Weight: 1}},
			{{Global: 2, Weight: 1}},
		}
	}

	r := rank.New(rank.ID(rankID), 2, 0)
	g, err := graph.BuildFromAdjacency(context.Background(), r, nodeDist, edgeDist, adjacency, nil)
	require.NoError(t, err)
	return g
}

func TestBuildFromAdjacencyOwnedRange(t *testing.T) {
	g := twoRankPath(t, 0)
	assert.EqualValues(t, 2, g.N())
	assert.EqualValues(t, 1, g.GhostN()) // vertex 2 is a ghost on rank 0
	assert.EqualValues(t, 3, g.TotalN())
}

func TestGlobalLocalRoundTrip(t *testing.T) {
	g := twoRankPath(t, 0)
	for _, global := range []uint64{0, 1, 2} {
		local, err := g.GlobalToLocalNode(global)
		require.NoError(t, err)
		assert.Equal(t, global, g.LocalToGlobalNode(local))
	}
	_, err := g.GlobalToLocalNode(99)
	assert.Error(t, err)
}

func TestFindOwnerOfGlobalNode(t *testing.T) {
	g := twoRankPath(t, 0)
	assert.Equal(t, 0, g.FindOwnerOfGlobalNode(0))
	assert.Equal(t, 0, g.FindOwnerOfGlobalNode(1))
	assert.Equal(t, 1, g.FindOwnerOfGlobalNode(2))
	assert.Equal(t, 1, g.FindOwnerOfGlobalNode(3))
}

func TestEdgeCutAndCommVolume(t *testing.T) {
	g := twoRankPath(t, 0)
	require.Len(t, g.EdgeCutToPE, 2)
	assert.EqualValues(t, 1, g.EdgeCutToPE[1]) // one cross edge, weight 1
	assert.EqualValues(t, 1, g.CommVolToPE[1]) // exactly one owned vertex touches rank 1
}

func TestSetGhostNodeWeightRejectedAfterPublish(t *testing.T) {
	g := twoRankPath(t, 0)
	require.NoError(t, g.SetGhostNodeWeight(g.N(), 5))
	assert.EqualValues(t, 5, g.NodeWeight(g.N()))

	g.Publish()
	assert.Error(t, g.SetGhostNodeWeight(g.N(), 7))
}

func TestSetGhostNodeWeightRejectsOwnedIndex(t *testing.T) {
	g := twoRankPath(t, 0)
	assert.Error(t, g.SetGhostNodeWeight(0, 5))
}

func TestUniformWeightsDefaultToOne(t *testing.T) {
	g := twoRankPath(t, 0)
	assert.EqualValues(t, 1, g.NodeWeight(0))
	assert.EqualValues(t, 1, g.EdgeWeight(0))
}

func TestBuildFromAdjacencyRejectsWrongCount(t *testing.T) {
	nodeDist := distvec.Build([]uint64{2, 2})
	edgeDist := distvec.Build([]uint64{2, 2})
	r := rank.New(0, 2, 0)
	_, err := graph.BuildFromAdjacency(context.Background(), r, nodeDist, edgeDist, [][]graph.GlobalEdge{{}}, nil)
	assert.Error(t, err)
}
