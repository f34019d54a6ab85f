// Package contraction implements a distributed cluster-contraction
// engine: given a fine distributed graph and a clustering, it produces
// the coarse distributed graph and the fine→coarse mapping.
//
// The algorithm follows clustering_contraction.cc phase for phase (local
// partitioning, dedup, migration, local numbering, mapping echo and
// ghost resolution, coarse ghost directory, coarse adjacency, ghost
// weight sync), translated from TBB parallel-for/parallel-sort plus MPI
// alltoallv into pkg/rank's worker pool and pkg/comm's collectives. The
// concurrent dedup map (Phase E) reuses the get-or-insert-with-single-
// winner idiom pkg/ghostmap already implements for the input graph's
// ghost directory.
package contraction

import (
	"context"
	"sort"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
	"go.opentelemetry.io/otel"

	"github.com/nkusla/dkaminpar-go/pkg/comm"
	"github.com/nkusla/dkaminpar-go/pkg/dkerr"
	"github.com/nkusla/dkaminpar-go/pkg/distvec"
	"github.com/nkusla/dkaminpar-go/pkg/graph"
	"github.com/nkusla/dkaminpar-go/pkg/rank"
)

var tracer = otel.Tracer("github.com/nkusla/dkaminpar-go/pkg/contraction")

// nodeGroup accumulates the away fine vertices of this process that
// share one off-process cluster label, so that a single deduplicated
// node record can be shipped to the cluster's owner while remembering
// which local vertices need the echoed coarse ID (Phase E.1).
type nodeGroup struct {
	weight  int64
	members []uint32
}

// contrib is one (coarse source, coarse neighbor, weight) contribution
// to the coarse adjacency, before Phase G's bucket placement and
// per-bucket dedup.
type contrib struct {
	cu       uint32
	neighbor uint32
	weight   int64
}

// Contract runs the full contraction of g under clustering, returning
// the coarse graph and the length-g.N() fine→coarse mapping. clustering
// holds one global cluster ID per owned fine vertex; ghost clustering is
// resolved internally via a halo exchange rather than requiring the
// caller to pre-extend it (see DESIGN.md).
func Contract(ctx context.Context, g *graph.Graph, clustering []uint64, cm comm.Communicator, r *rank.Rank) (*graph.Graph, []uint64, error) {
	ctx, span := tracer.Start(ctx, "contraction.Contract")
	defer span.End()

	n := g.N()
	if uint32(len(clustering)) != n {
		return nil, nil, dkerr.WithDetail(dkerr.ErrAssertionFailure, "clustering has %d entries, expected %d", len(clustering), n)
	}

	nodeDist := g.NodeDist()
	globalN := nodeDist.N()
	for _, c := range clustering {
		if c >= globalN {
			return nil, nil, dkerr.WithDetail(dkerr.ErrUnknownGlobal, "clustering targets nonexistent global vertex %d", c)
		}
	}

	myRank := cm.Rank()
	size := cm.Size()
	offsetN := g.OffsetN()

	ext, err := extendClusteringToGhosts(ctx, g, cm, clustering)
	if err != nil {
		return nil, nil, err
	}

	// Phase A + B (nodes): group away vertices by cluster directly,
	// which both partitions (Phase A) and deduplicates+sums (Phase B)
	// node records in one pass, since a Go map naturally coalesces
	// entries; this also gives Phase E.1 the member list it needs to
	// distribute the echoed coarse ID back to every away vertex sharing
	// a cluster.
	homeMask := make([]bool, n)
	awayGroups := make(map[uint64]*nodeGroup)
	var awayEdges []edgeRecord

	for u := uint32(0); u < n; u++ {
		cu := ext[u]
		if g.IsOwnedGlobalNode(cu) {
			homeMask[u] = true
			continue
		}
		grp := awayGroups[cu]
		if grp == nil {
			grp = &nodeGroup{}
			awayGroups[cu] = grp
		}
		grp.weight += g.NodeWeight(u)
		grp.members = append(grp.members, u)

		g.ForEachNeighbor(u, func(e, v uint32) {
			awayEdges = append(awayEdges, edgeRecord{Src: cu, Dst: ext[v], Weight: g.EdgeWeight(e)})
		})
	}

	// Phase B (edges): lexicographic sort by (src, dst), then coalesce.
	sort.Slice(awayEdges, func(i, j int) bool {
		if awayEdges[i].Src != awayEdges[j].Src {
			return awayEdges[i].Src < awayEdges[j].Src
		}
		return awayEdges[i].Dst < awayEdges[j].Dst
	})
	dedupedEdges := make([]edgeRecord, 0, len(awayEdges))
	for _, e := range awayEdges {
		if k := len(dedupedEdges); k > 0 && dedupedEdges[k-1].Src == e.Src && dedupedEdges[k-1].Dst == e.Dst {
			dedupedEdges[k-1].Weight += e.Weight
		} else {
			dedupedEdges = append(dedupedEdges, e)
		}
	}

	nodeKeys := make([]uint64, 0, len(awayGroups))
	for k := range awayGroups {
		nodeKeys = append(nodeKeys, k)
	}
	sort.Slice(nodeKeys, func(i, j int) bool { return nodeKeys[i] < nodeKeys[j] })

	// Phase C: migration. Both buffers are sorted ascending by a key
	// whose owning rank is a monotonic function of the key, so a single
	// pass groups contiguous runs by destination without an extra sort.
	sendNodeBuf := make([][]byte, size)
	sendNodeMembers := make([][][]uint32, size)
	for i := 0; i < len(nodeKeys); {
		owner := nodeDist.Owner(nodeKeys[i])
		var recs []nodeRecord
		var members [][]uint32
		for i < len(nodeKeys) && nodeDist.Owner(nodeKeys[i]) == owner {
			k := nodeKeys[i]
			grp := awayGroups[k]
			recs = append(recs, nodeRecord{Cluster: k, Weight: grp.weight})
			members = append(members, grp.members)
			i++
		}
		sendNodeBuf[owner] = encodeNodeRecords(recs)
		sendNodeMembers[owner] = members
	}

	sendEdgeBuf := make([][]byte, size)
	for i := 0; i < len(dedupedEdges); {
		owner := nodeDist.Owner(dedupedEdges[i].Src)
		var recs []edgeRecord
		for i < len(dedupedEdges) && nodeDist.Owner(dedupedEdges[i].Src) == owner {
			recs = append(recs, dedupedEdges[i])
			i++
		}
		sendEdgeBuf[owner] = encodeEdgeRecords(recs)
	}

	migrateCtx, migrateSpan := tracer.Start(ctx, "contraction.migrate")
	recvNodeBuf, err := exchangeBytes(migrateCtx, cm, sendNodeBuf)
	if err != nil {
		migrateSpan.End()
		return nil, nil, err
	}
	recvEdgeBuf, err := exchangeBytes(migrateCtx, cm, sendEdgeBuf)
	migrateSpan.End()
	if err != nil {
		return nil, nil, err
	}

	recvNodes := make([][]nodeRecord, size)
	for p := 0; p < size; p++ {
		recvNodes[p] = decodeNodeRecords(recvNodeBuf[p])
		for _, rec := range recvNodes[p] {
			if !g.IsOwnedGlobalNode(rec.Cluster) {
				return nil, nil, dkerr.WithDetail(dkerr.ErrInconsistentDistribution, "received node record for cluster %d not owned by rank %d", rec.Cluster, myRank)
			}
		}
	}

	// Phase D: local coarse numbering.
	marks := make([]int32, n)
	for u := uint32(0); u < n; u++ {
		if homeMask[u] {
			marks[ext[u]-offsetN] = 1
		}
	}
	for p := 0; p < size; p++ {
		for _, rec := range recvNodes[p] {
			marks[rec.Cluster-offsetN] = 1
		}
	}
	lnodeToLcnode := marks // ParallelScanInt below turns this into the dense numbering in place.
	total := rank.ParallelScanInt(lnodeToLcnode)
	cn := uint32(total)

	nodeCounts, err := cm.Allgather(ctx, uint64(cn))
	if err != nil {
		return nil, nil, err
	}
	cNodeDist := distvec.Build(nodeCounts)

	// Phase E.1: echo coarse IDs back to senders of migrated nodes.
	echoSendBuf := make([][]byte, size)
	for p := 0; p < size; p++ {
		vals := make([]uint64, len(recvNodes[p]))
		for i, rec := range recvNodes[p] {
			vals[i] = uint64(lnodeToLcnode[rec.Cluster-offsetN]) + cNodeDist[myRank]
		}
		echoSendBuf[p] = encodeU64(vals)
	}
	echoRecv, err := exchangeBytes(ctx, cm, echoSendBuf)
	if err != nil {
		return nil, nil, err
	}

	M := make([]uint64, n)
	for u := uint32(0); u < n; u++ {
		if homeMask[u] {
			M[u] = uint64(lnodeToLcnode[ext[u]-offsetN]) + cNodeDist[myRank]
		}
	}
	for p := 0; p < size; p++ {
		vals := decodeU64(echoRecv[p])
		for i, v := range vals {
			for _, member := range sendNodeMembers[p][i] {
				M[member] = v
			}
		}
	}

	// Coarse node weight: home contributions plus received node records.
	cNodeWeights := make([]int64, cn)
	for u := uint32(0); u < n; u++ {
		if homeMask[u] {
			cNodeWeights[lnodeToLcnode[ext[u]-offsetN]] += g.NodeWeight(u)
		}
	}
	for p := 0; p < size; p++ {
		for _, rec := range recvNodes[p] {
			cNodeWeights[lnodeToLcnode[rec.Cluster-offsetN]] += rec.Weight
		}
	}

	// Phase E.2: request/response for off-process clusters referenced by
	// edges, deduplicated via a concurrent get-or-insert map keyed by
	// cluster global ID, with a single atomic counter per owning rank
	// assigning the index into that owner's request list. LoadOrCompute
	// only calls the value function for the goroutine that actually
	// inserts global, so counters[owner] advances once per distinct
	// off-process cluster rather than once per racing goroutine.
	seen := xsync.NewMapOf[uint64, uint32]()
	counters := make([]atomic.Uint32, size)
	resolve := func(global uint64) uint32 {
		idx, _ := seen.LoadOrCompute(global, func() uint32 {
			owner := nodeDist.Owner(global)
			return counters[owner].Add(1) - 1
		})
		return idx
	}

	r.ParallelFor(int(n), func(ui int) {
		u := uint32(ui)
		if !homeMask[u] {
			return
		}
		g.ForEachNeighbor(u, func(_, v uint32) {
			cv := ext[v]
			if !g.IsOwnedGlobalNode(cv) {
				resolve(cv)
			}
		})
	})

	recvEdges := make([][]edgeRecord, size)
	r.ParallelFor(size, func(pi int) {
		p := pi
		recvEdges[p] = decodeEdgeRecords(recvEdgeBuf[p])
		for _, rec := range recvEdges[p] {
			if !g.IsOwnedGlobalNode(rec.Dst) {
				resolve(rec.Dst)
			}
		}
	})

	reqGlobal := make([][]uint64, size)
	for p := 0; p < size; p++ {
		reqGlobal[p] = make([]uint64, counters[p].Load())
	}
	seen.Range(func(global uint64, idx uint32) bool {
		owner := nodeDist.Owner(global)
		reqGlobal[owner][idx] = global
		return true
	})

	reqSendBuf := make([][]byte, size)
	for p := 0; p < size; p++ {
		idxs := make([]uint32, len(reqGlobal[p]))
		for i, gl := range reqGlobal[p] {
			idxs[i] = uint32(gl - nodeDist[p])
		}
		reqSendBuf[p] = encodeU32(idxs)
	}
	resolveCtx, resolveSpan := tracer.Start(ctx, "contraction.resolveGhostClusters")
	reqRecv, err := exchangeBytes(resolveCtx, cm, reqSendBuf)
	if err != nil {
		resolveSpan.End()
		return nil, nil, err
	}

	respSendBuf := make([][]byte, size)
	ghostRequestCoarseLocal := make([][]uint32, size)
	for p := 0; p < size; p++ {
		idxs := decodeU32(reqRecv[p])
		coarseLocal := make([]uint32, len(idxs))
		vals := make([]uint64, len(idxs))
		for i, li := range idxs {
			cl := uint32(lnodeToLcnode[li])
			coarseLocal[i] = cl
			vals[i] = uint64(cl) + cNodeDist[myRank]
		}
		respSendBuf[p] = encodeU64(vals)
		ghostRequestCoarseLocal[p] = coarseLocal
	}
	respRecv, err := exchangeBytes(resolveCtx, cm, respSendBuf)
	resolveSpan.End()
	if err != nil {
		return nil, nil, err
	}

	responseByOwner := make([][]uint64, size)
	for p := 0; p < size; p++ {
		responseByOwner[p] = decodeU64(respRecv[p])
	}

	// Phase F: coarse ghost directory, concatenated in owner-rank order.
	var cGhostToGlobal []uint64
	var cGhostOwner []int32
	cGlobalToGhost := xsync.NewMapOf[uint64, uint32]()
	baseOffset := make([]uint32, size)
	var cursor uint32
	for p := 0; p < size; p++ {
		baseOffset[p] = cursor
		for _, coarseGlobal := range responseByOwner[p] {
			cGhostToGlobal = append(cGhostToGlobal, coarseGlobal)
			cGhostOwner = append(cGhostOwner, int32(p))
			cGlobalToGhost.Store(coarseGlobal, cn+cursor)
			cursor++
		}
	}

	resolveClusterLocal := func(clusterGlobal uint64) uint32 {
		if nodeDist.Owns(myRank, clusterGlobal) {
			return uint32(lnodeToLcnode[clusterGlobal-offsetN])
		}
		owner := nodeDist.Owner(clusterGlobal)
		idx, _ := seen.Load(clusterGlobal)
		return cn + baseOffset[owner] + idx
	}

	// Phase G: coarse adjacency, collected as (cu, neighbor, weight)
	// contributions, then grouped by bucket-position placement and
	// deduplicated per bucket. contribs is pre-sized to an upper bound
	// (every home vertex's fine degree plus every received edge record)
	// so the append loops below never trigger a reallocation.
	upperBoundContribs := 0
	for u := uint32(0); u < n; u++ {
		if homeMask[u] {
			upperBoundContribs += int(g.Degree(u))
		}
	}
	for p := 0; p < size; p++ {
		upperBoundContribs += len(recvEdges[p])
	}
	contribs := make([]contrib, 0, upperBoundContribs)
	for u := uint32(0); u < n; u++ {
		if !homeMask[u] {
			continue
		}
		cu := uint32(lnodeToLcnode[ext[u]-offsetN])
		g.ForEachNeighbor(u, func(e, v uint32) {
			cv := resolveClusterLocal(ext[v])
			if cv == cu {
				return
			}
			contribs = append(contribs, contrib{cu: cu, neighbor: cv, weight: g.EdgeWeight(e)})
		})
	}
	for p := 0; p < size; p++ {
		for _, rec := range recvEdges[p] {
			cu := uint32(lnodeToLcnode[rec.Src-offsetN])
			cv := resolveClusterLocal(rec.Dst)
			if cv == cu {
				continue
			}
			contribs = append(contribs, contrib{cu: cu, neighbor: cv, weight: rec.Weight})
		}
	}

	bucketCount := make([]int32, cn)
	for _, c := range contribs {
		bucketCount[c.cu]++
	}
	positions := make([]int32, cn)
	copy(positions, bucketCount)
	rawTotal := rank.ParallelScanInt(positions)

	cNodesRaw := make([]uint32, cn+1)
	for i := uint32(0); i < cn; i++ {
		cNodesRaw[i] = uint32(positions[i])
	}
	cNodesRaw[cn] = uint32(rawTotal)

	cursorPos := make([]atomic.Int32, cn)
	for i := range cursorPos {
		cursorPos[i].Store(positions[i])
	}
	rawNeighbor := make([]uint32, rawTotal)
	rawWeight := make([]int64, rawTotal)
	r.ParallelFor(len(contribs), func(i int) {
		c := contribs[i]
		pos := cursorPos[c.cu].Add(1) - 1
		rawNeighbor[pos] = c.neighbor
		rawWeight[pos] = c.weight
	})

	finalNeighbor := make([][]uint32, cn)
	finalWeight := make([][]int64, cn)
	r.ParallelFor(int(cn), func(cui int) {
		cu := uint32(cui)
		start, end := cNodesRaw[cu], cNodesRaw[cu+1]
		if start == end {
			return
		}
		idxs := make([]int, end-start)
		for i := range idxs {
			idxs[i] = int(start) + i
		}
		sort.Slice(idxs, func(a, b int) bool { return rawNeighbor[idxs[a]] < rawNeighbor[idxs[b]] })
		neigh := make([]uint32, 0, end-start)
		wt := make([]int64, 0, end-start)
		for _, i := range idxs {
			if k := len(neigh); k > 0 && neigh[k-1] == rawNeighbor[i] {
				wt[k-1] += rawWeight[i]
			} else {
				neigh = append(neigh, rawNeighbor[i])
				wt = append(wt, rawWeight[i])
			}
		}
		finalNeighbor[cu] = neigh
		finalWeight[cu] = wt
	})

	cNodes := make([]uint32, cn+1)
	for cu := uint32(0); cu < cn; cu++ {
		cNodes[cu+1] = cNodes[cu] + uint32(len(finalNeighbor[cu]))
	}
	cM := cNodes[cn]
	cEdges := make([]uint32, cM)
	cEdgeWeights := make([]int64, cM)
	for cu := uint32(0); cu < cn; cu++ {
		copy(cEdges[cNodes[cu]:], finalNeighbor[cu])
		copy(cEdgeWeights[cNodes[cu]:], finalWeight[cu])
	}

	edgeCounts, err := cm.Allgather(ctx, uint64(cM))
	if err != nil {
		return nil, nil, err
	}
	cEdgeDist := distvec.Build(edgeCounts)

	// Phase H: sparse ghost-weight synchronization. Only ranks that were
	// actually asked about one of their coarse vertices send anything.
	weightSendBuf := make([][]byte, size)
	for p := 0; p < size; p++ {
		coarseLocal := ghostRequestCoarseLocal[p]
		if len(coarseLocal) == 0 {
			continue
		}
		weights := make([]int64, len(coarseLocal))
		for i, cl := range coarseLocal {
			weights[i] = cNodeWeights[cl]
		}
		weightSendBuf[p] = encodeIdxWeightPairs(coarseLocal, weights)
	}
	weightCtx, weightSpan := tracer.Start(ctx, "contraction.syncGhostWeights")
	weightRecv, err := exchangeBytes(weightCtx, cm, weightSendBuf)
	weightSpan.End()
	if err != nil {
		return nil, nil, err
	}

	ghostCount := uint32(len(cGhostToGlobal))
	cFullNodeWeights := make([]int64, cn+ghostCount)
	copy(cFullNodeWeights[:cn], cNodeWeights)
	for i := range cGhostToGlobal {
		cFullNodeWeights[cn+uint32(i)] = 1
	}

	cGraph := graph.New(myRank, cNodeDist, cEdgeDist, cNodes, cEdges, cFullNodeWeights, cEdgeWeights, cGhostOwner, cGhostToGlobal, cGlobalToGhost)

	// Resolved ghost weights are applied through the guarded setter, not
	// by writing cFullNodeWeights directly, so a weight sync running
	// after Publish (a coding error, not a normal path) is caught rather
	// than silently corrupting an already-published graph.
	for p := 0; p < size; p++ {
		_, weights := decodeIdxWeightPairs(weightRecv[p])
		for i, w := range weights {
			coarseGlobal := responseByOwner[p][i]
			if ghostLocal, ok := cGlobalToGhost.Load(coarseGlobal); ok {
				if err := cGraph.SetGhostNodeWeight(ghostLocal, w); err != nil {
					return nil, nil, err
				}
			}
		}
	}

	cGraph.Publish()

	return cGraph, M, nil
}
