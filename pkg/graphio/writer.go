package graphio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nkusla/dkaminpar-go/pkg/graph"
)

// WriteAdjacencyList writes g in the "n m [fmt]" text format, using
// each owned vertex's own local adjacency (this is a per-rank partial
// dump; a full-graph dump requires gathering every rank's owned range
// first). Neighbor IDs are emitted 1-based, as global IDs.
func WriteAdjacencyList(w io.Writer, g *graph.Graph) error {
	bw := bufio.NewWriter(w)

	hasNodeWt := g.NodeWeights != nil
	hasEdgeWt := g.EdgeWeights != nil
	fmtFlag := ""
	switch {
	case hasNodeWt && hasEdgeWt:
		fmtFlag = " 11"
	case hasEdgeWt:
		fmtFlag = " 1"
	case hasNodeWt:
		fmtFlag = " 10"
	}

	if _, err := fmt.Fprintf(bw, "%d %d%s\n", g.N(), g.M(), fmtFlag); err != nil {
		return err
	}

	for u := uint32(0); u < g.N(); u++ {
		var tokens []string
		if hasNodeWt {
			tokens = append(tokens, strconv.FormatInt(g.NodeWeight(u), 10))
		}
		g.ForEachNeighbor(u, func(e, v uint32) {
			global := g.LocalToGlobalNode(v) + 1
			tokens = append(tokens, strconv.FormatUint(global, 10))
			if hasEdgeWt {
				tokens = append(tokens, strconv.FormatInt(g.EdgeWeight(e), 10))
			}
		})
		if _, err := fmt.Fprintln(bw, strings.Join(tokens, " ")); err != nil {
			return err
		}
	}

	return bw.Flush()
}
