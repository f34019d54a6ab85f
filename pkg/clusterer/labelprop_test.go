package clusterer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkusla/dkaminpar-go/pkg/clusterer"
	"github.com/nkusla/dkaminpar-go/pkg/distvec"
	"github.com/nkusla/dkaminpar-go/pkg/graph"
	"github.com/nkusla/dkaminpar-go/pkg/rank"
)

func TestLabelPropGroupsATriangle(t *testing.T) {
	nodeDist := distvec.Build([]uint64{3})
	edgeDist := distvec.Build([]uint64{6})
	adjacency := [][]graph.GlobalEdge{
		{{Global: 1, Weight: 5}, {Global: 2, Weight: 5}},
		{{Global: 0, Weight: 5}, {Global: 2, Weight: 5}},
		{{Global: 0, Weight: 5}, {Global: 1, Weight: 5}},
	}
	r := rank.New(0, 1, 0)
	g, err := graph.BuildFromAdjacency(context.Background(), r, nodeDist, edgeDist, adjacency, nil)
	require.NoError(t, err)

	lp := clusterer.NewLabelProp(10)
	c, err := lp.Cluster(context.Background(), g, 100, r)
	require.NoError(t, err)
	require.Len(t, c, 3)
	assert.Equal(t, c[0], c[1])
	assert.Equal(t, c[1], c[2])
}

func TestLabelPropRespectsMaxClusterWeight(t *testing.T) {
	nodeDist := distvec.Build([]uint64{2})
	edgeDist := distvec.Build([]uint64{2})
	adjacency := [][]graph.GlobalEdge{
		{{Global: 1, Weight: 1}},
		{{Global: 0, Weight: 1}},
	}
	nodeWeights := []int64{5, 5}
	r := rank.New(0, 1, 0)
	g, err := graph.BuildFromAdjacency(context.Background(), r, nodeDist, edgeDist, adjacency, nodeWeights)
	require.NoError(t, err)

	lp := clusterer.NewLabelProp(10)
	c, err := lp.Cluster(context.Background(), g, 5, r) // cap below combined weight of 10
	require.NoError(t, err)
	assert.NotEqual(t, c[0], c[1])
}
