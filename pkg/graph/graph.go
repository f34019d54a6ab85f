// Package graph implements a distributed graph representation: an
// owned-vertex CSR adjacency augmented with a ghost directory for
// cross-process neighbors, distribution vectors, and cached
// inter-process metrics, so a rank can hold only its own share of a
// graph and still resolve neighbors that live elsewhere.
package graph

import (
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/nkusla/dkaminpar-go/pkg/dkerr"
	"github.com/nkusla/dkaminpar-go/pkg/distvec"
)

// Graph is one rank's local view of a distributed graph: owned vertices
// [0, N), ghost vertices [N, TotalN), and edges into either range.
type Graph struct {
	rankID int

	nodeDist distvec.Vector
	edgeDist distvec.Vector

	n      uint32 // owned vertex count
	ghostN uint32 // ghost vertex count

	Nodes []uint32 // CSR offsets, length n+1
	Edges []uint32 // local vertex ids, length m

	// NodeWeights / EdgeWeights are nil when uniform (weight 1 for
	// every entry).
	NodeWeights []int64 // length n+ghostN if non-nil
	EdgeWeights []int64 // length m if non-nil

	GhostOwner    []int32 // length ghostN
	GhostToGlobal []uint64
	GlobalToGhost *xsync.MapOf[uint64, uint32]

	// EdgeCutToPE[p] / CommVolToPE[p]: cached inter-process metrics,
	// computed once at construction.
	EdgeCutToPE []int64
	CommVolToPE []int64

	// published marks the graph as handed off to refinement; after
	// this point SetGhostNodeWeight must not be called.
	published bool
}

// New assembles a Graph from already-built CSR + ghost-directory arrays.
// Used both by the input Builder in this package and by the contraction
// engine, which construct these arrays via different code paths but
// share this constructor for the final assembly + metrics pass.
func New(
	rankID int,
	nodeDist, edgeDist distvec.Vector,
	nodes, edges []uint32,
	nodeWeights, edgeWeights []int64,
	ghostOwner []int32, ghostToGlobal []uint64, globalToGhost *xsync.MapOf[uint64, uint32],
) *Graph {
	n := uint32(len(nodes) - 1)
	ghostN := uint32(len(ghostToGlobal))

	g := &Graph{
		rankID:        rankID,
		nodeDist:      nodeDist,
		edgeDist:      edgeDist,
		n:             n,
		ghostN:        ghostN,
		Nodes:         nodes,
		Edges:         edges,
		NodeWeights:   nodeWeights,
		EdgeWeights:   edgeWeights,
		GhostOwner:    ghostOwner,
		GhostToGlobal: ghostToGlobal,
		GlobalToGhost: globalToGhost,
	}
	g.computeMetrics()
	return g
}

// Rank returns the owning rank of this local graph view.
func (g *Graph) Rank() int { return g.rankID }

// N returns the count of owned vertices.
func (g *Graph) N() uint32 { return g.n }

// GhostN returns the count of ghost vertices visible locally.
func (g *Graph) GhostN() uint32 { return g.ghostN }

// TotalN returns N()+GhostN().
func (g *Graph) TotalN() uint32 { return g.n + g.ghostN }

// M returns the number of local edge entries.
func (g *Graph) M() uint32 { return uint32(len(g.Edges)) }

// GlobalN returns the total vertex count across all ranks.
func (g *Graph) GlobalN() uint64 { return g.nodeDist.N() }

// GlobalM returns the total edge count across all ranks.
func (g *Graph) GlobalM() uint64 { return g.edgeDist.N() }

// NodeDist returns the node distribution vector.
func (g *Graph) NodeDist() distvec.Vector { return g.nodeDist }

// EdgeDist returns the edge distribution vector.
func (g *Graph) EdgeDist() distvec.Vector { return g.edgeDist }

// OffsetN returns node_dist[rank], the global ID of local vertex 0.
func (g *Graph) OffsetN() uint64 { return g.nodeDist[g.rankID] }

// OffsetNOf returns node_dist[pe], for translating another rank's local
// indices.
func (g *Graph) OffsetNOf(pe int) uint64 { return g.nodeDist[pe] }

// OffsetM returns edge_dist[rank].
func (g *Graph) OffsetM() uint64 { return g.edgeDist[g.rankID] }

// Degree returns the degree of owned local vertex u.
func (g *Graph) Degree(u uint32) uint32 {
	return g.Nodes[u+1] - g.Nodes[u]
}

// NeighborRange returns the [start, end) range into Edges/EdgeWeights
// for owned local vertex u.
func (g *Graph) NeighborRange(u uint32) (start, end uint32) {
	return g.Nodes[u], g.Nodes[u+1]
}

// ForEachNeighbor calls fn(edgeIndex, neighborLocalID) for every edge of
// owned local vertex u.
func (g *Graph) ForEachNeighbor(u uint32, fn func(e, v uint32)) {
	start, end := g.NeighborRange(u)
	for e := start; e < end; e++ {
		fn(e, g.Edges[e])
	}
}

// NodeWeight returns the weight of local vertex u (owned or ghost),
// defaulting to 1 when NodeWeights is absent.
func (g *Graph) NodeWeight(u uint32) int64 {
	if g.NodeWeights == nil {
		return 1
	}
	return g.NodeWeights[u]
}

// EdgeWeight returns the weight of edge index e, defaulting to 1 when
// EdgeWeights is absent.
func (g *Graph) EdgeWeight(e uint32) int64 {
	if g.EdgeWeights == nil {
		return 1
	}
	return g.EdgeWeights[e]
}

// TotalNodeWeight sums node weights over the owned range [0, n).
func (g *Graph) TotalNodeWeight() int64 {
	var sum int64
	for u := uint32(0); u < g.n; u++ {
		sum += g.NodeWeight(u)
	}
	return sum
}

// IsOwnedLocalNode reports whether local id u refers to an owned vertex
// (as opposed to a ghost).
func (g *Graph) IsOwnedLocalNode(u uint32) bool { return u < g.n }

// IsOwnedGlobalNode reports whether global vertex global belongs to this
// rank's owned range.
func (g *Graph) IsOwnedGlobalNode(global uint64) bool {
	return g.nodeDist.Owns(g.rankID, global)
}

// GlobalToLocalNode translates a global vertex ID to a local ID, failing
// with ErrUnknownGlobal if the ID is neither owned nor a known ghost.
func (g *Graph) GlobalToLocalNode(global uint64) (uint32, error) {
	if g.IsOwnedGlobalNode(global) {
		return uint32(global - g.OffsetN()), nil
	}
	if local, ok := g.GlobalToGhost.Load(global); ok {
		return local, nil
	}
	return 0, dkerr.WithDetail(dkerr.ErrUnknownGlobal, "global vertex %d", global)
}

// LocalToGlobalNode translates a local vertex ID to its global ID.
func (g *Graph) LocalToGlobalNode(u uint32) uint64 {
	if u < g.n {
		return uint64(u) + g.OffsetN()
	}
	return g.GhostToGlobal[u-g.n]
}

// FindOwnerOfGlobalNode binary-searches the node distribution vector.
func (g *Graph) FindOwnerOfGlobalNode(global uint64) int {
	return g.nodeDist.Owner(global)
}

// SetGhostNodeWeight sets the weight of ghost local vertex u, permitted
// only before the graph is published to refinement. Used by the
// contraction engine's ghost-weight synchronization phase.
func (g *Graph) SetGhostNodeWeight(u uint32, w int64) error {
	if g.published {
		return dkerr.WithDetail(dkerr.ErrAssertionFailure, "SetGhostNodeWeight called after Publish on ghost %d", u)
	}
	if u < g.n || u >= g.n+g.ghostN {
		return dkerr.WithDetail(dkerr.ErrUnknownGlobal, "local id %d is not a ghost", u)
	}
	if g.NodeWeights == nil {
		g.NodeWeights = make([]int64, g.n+g.ghostN)
		for i := range g.NodeWeights {
			g.NodeWeights[i] = 1
		}
	}
	g.NodeWeights[u] = w
	return nil
}

// Publish freezes the graph against further ghost-weight mutation,
// marking the point where it is handed off to refinement.
func (g *Graph) Publish() { g.published = true }

// computeMetrics maintains cached inter-process metrics: a single pass
// over local edges accumulates, per owning rank of ghost neighbors, the
// total cut edge weight and the count of distinct owned vertices with at
// least one neighbor on that rank.
func (g *Graph) computeMetrics() {
	size := g.nodeDist.NumRanks()
	if size == 0 {
		return
	}
	g.EdgeCutToPE = make([]int64, size)
	g.CommVolToPE = make([]int64, size)

	lastTouched := make([]int32, size)
	for i := range lastTouched {
		lastTouched[i] = -1
	}

	for u := uint32(0); u < g.n; u++ {
		start, end := g.NeighborRange(u)
		for e := start; e < end; e++ {
			v := g.Edges[e]
			if v < g.n {
				continue // owned neighbor, not a cross-process edge
			}
			pe := int(g.GhostOwner[v-g.n])
			g.EdgeCutToPE[pe] += g.EdgeWeight(e)
			if lastTouched[pe] != int32(u) {
				lastTouched[pe] = int32(u)
				g.CommVolToPE[pe]++
			}
		}
	}
}
