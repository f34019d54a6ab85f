package contraction

import (
	"context"

	"github.com/nkusla/dkaminpar-go/pkg/comm"
	"github.com/nkusla/dkaminpar-go/pkg/graph"
)

// extendClusteringToGhosts resolves open question (i): the clusterer
// output covers only owned vertices, so this engine performs the halo
// exchange on C itself before Phase A rather than requiring callers to
// pre-extend it. Every ghost asks its owner for the owner's clustering
// decision at that local index.
func extendClusteringToGhosts(ctx context.Context, g *graph.Graph, cm comm.Communicator, owned []uint64) ([]uint64, error) {
	n := g.N()
	ghostN := g.GhostN()
	ext := make([]uint64, n+ghostN)
	copy(ext, owned)
	if ghostN == 0 {
		return ext, nil
	}

	size := cm.Size()
	reqLocalIdx := make([][]uint32, size) // local index at owner
	reqGhostSlot := make([][]uint32, size) // which ghost slot (0-based) the response fills

	for k := uint32(0); k < ghostN; k++ {
		owner := int(g.GhostOwner[k])
		global := g.GhostToGlobal[k]
		localAtOwner := uint32(global - g.OffsetNOf(owner))
		reqLocalIdx[owner] = append(reqLocalIdx[owner], localAtOwner)
		reqGhostSlot[owner] = append(reqGhostSlot[owner], k)
	}

	sendBuf := make([][]byte, size)
	for p := 0; p < size; p++ {
		sendBuf[p] = encodeU32(reqLocalIdx[p])
	}
	recvBuf, err := exchangeBytes(ctx, cm, sendBuf)
	if err != nil {
		return nil, err
	}

	respBuf := make([][]byte, size)
	for p := 0; p < size; p++ {
		idxs := decodeU32(recvBuf[p])
		vals := make([]uint64, len(idxs))
		for i, li := range idxs {
			vals[i] = owned[li]
		}
		respBuf[p] = encodeU64(vals)
	}
	respRecv, err := exchangeBytes(ctx, cm, respBuf)
	if err != nil {
		return nil, err
	}

	for p := 0; p < size; p++ {
		vals := decodeU64(respRecv[p])
		for i, v := range vals {
			ext[n+reqGhostSlot[p][i]] = v
		}
	}
	return ext, nil
}
