package crdt_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkusla/dkaminpar-go/pkg/crdt"
)

func TestMoveSetKeepsHighestScore(t *testing.T) {
	s := crdt.NewMoveSet()
	s.Add(crdt.Move{VertexID: 1, ClusterID: 10, Score: 5})
	s.Add(crdt.Move{VertexID: 1, ClusterID: 20, Score: 3})
	s.Add(crdt.Move{VertexID: 1, ClusterID: 30, Score: 9})

	m, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, uint64(30), m.ClusterID)
	assert.Equal(t, int64(9), m.Score)
}

func TestMoveSetConcurrentAdd(t *testing.T) {
	s := crdt.NewMoveSet()
	var wg sync.WaitGroup
	for i := int64(0); i < 100; i++ {
		wg.Add(1)
		go func(score int64) {
			defer wg.Done()
			s.Add(crdt.Move{VertexID: 1, ClusterID: uint64(score), Score: score})
		}(i)
	}
	wg.Wait()

	m, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, int64(99), m.Score)
}

func TestMoveSetMergeKeepsHigherScoring(t *testing.T) {
	a := crdt.NewMoveSet()
	a.Add(crdt.Move{VertexID: 1, ClusterID: 10, Score: 5})
	b := crdt.NewMoveSet()
	b.Add(crdt.Move{VertexID: 1, ClusterID: 20, Score: 8})
	b.Add(crdt.Move{VertexID: 2, ClusterID: 30, Score: 1})

	a.Merge(b)
	assert.Equal(t, 2, a.Len())
	m, _ := a.Get(1)
	assert.Equal(t, int64(8), m.Score)
}
