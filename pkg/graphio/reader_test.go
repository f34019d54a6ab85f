package graphio_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkusla/dkaminpar-go/pkg/graphio"
)

func TestReadAdjacencyListUnweighted(t *testing.T) {
	input := "4 4\n2\n1 3\n2 4\n3\n"
	pg, err := graphio.ReadAdjacencyList(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, uint64(4), pg.N)
	assert.Equal(t, uint64(4), pg.M)
	assert.False(t, pg.HasEdgeWt)
	assert.False(t, pg.HasNodeWt)
	require.Len(t, pg.Adjacency[0], 1)
	assert.Equal(t, uint64(1), pg.Adjacency[0][0].Global)
	assert.Equal(t, int64(1), pg.Adjacency[0][0].Weight)
	require.Len(t, pg.Adjacency[1], 2)
	assert.Equal(t, uint64(0), pg.Adjacency[1][0].Global)
	assert.Equal(t, uint64(2), pg.Adjacency[1][1].Global)
}

func TestReadAdjacencyListEdgeWeighted(t *testing.T) {
	input := "2 1 1\n2 5\n1 5\n"
	pg, err := graphio.ReadAdjacencyList(strings.NewReader(input))
	require.NoError(t, err)
	assert.True(t, pg.HasEdgeWt)
	require.Len(t, pg.Adjacency[0], 1)
	assert.Equal(t, uint64(1), pg.Adjacency[0][0].Global)
	assert.Equal(t, int64(5), pg.Adjacency[0][0].Weight)
}

func TestReadAdjacencyListNodeAndEdgeWeighted(t *testing.T) {
	input := "2 1 11\n7 2 5\n9 1 5\n"
	pg, err := graphio.ReadAdjacencyList(strings.NewReader(input))
	require.NoError(t, err)
	assert.True(t, pg.HasNodeWt)
	assert.True(t, pg.HasEdgeWt)
	assert.Equal(t, int64(7), pg.NodeWeights[0])
	assert.Equal(t, int64(9), pg.NodeWeights[1])
	assert.Equal(t, int64(5), pg.Adjacency[0][0].Weight)
}

func TestReadAdjacencyListRejectsTruncatedInput(t *testing.T) {
	input := "3 2\n2\n"
	_, err := graphio.ReadAdjacencyList(strings.NewReader(input))
	assert.Error(t, err)
}

func TestReadAdjacencyListRejectsMalformedHeader(t *testing.T) {
	_, err := graphio.ReadAdjacencyList(strings.NewReader("not-a-number\n"))
	assert.Error(t, err)
}
