// Package graphio reads and writes the plain-text adjacency-list graph
// format: a header line "n m [fmt]" followed by n lines, one per
// vertex, listing 1-based neighbor IDs with optional inline weights.
// fmt follows the common two-flag convention: "1" means edges carry a
// trailing weight after each neighbor ID, "10" means each vertex line
// starts with its own weight, "11" means both. An absent fmt means an
// unweighted graph.
package graphio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nkusla/dkaminpar-go/pkg/graph"
)

// ParsedGraph is the whole-graph adjacency list read from an input
// file, indexed by 0-based global vertex ID, before any ownership split
// is applied.
type ParsedGraph struct {
	N            uint64
	M            uint64
	HasEdgeWt    bool
	HasNodeWt    bool
	NodeWeights  []int64
	Adjacency    [][]graph.GlobalEdge
}

// ReadAdjacencyList parses the "n m [fmt]" text format from r.
func ReadAdjacencyList(r io.Reader) (*ParsedGraph, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1<<20), 1<<24)

	if !scanner.Scan() {
		return nil, fmt.Errorf("graphio: empty input")
	}
	header := strings.Fields(scanner.Text())
	if len(header) < 2 {
		return nil, fmt.Errorf("graphio: header line must have at least \"n m\"")
	}
	n, err := strconv.ParseUint(header[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("graphio: invalid n: %w", err)
	}
	m, err := strconv.ParseUint(header[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("graphio: invalid m: %w", err)
	}
	hasEdgeWt, hasNodeWt := false, false
	if len(header) >= 3 {
		fmtFlag := header[2]
		hasEdgeWt = strings.HasPrefix(fmtFlag, "1") && len(fmtFlag) == 1
		if len(fmtFlag) == 2 {
			hasNodeWt = fmtFlag[0] == '1'
			hasEdgeWt = fmtFlag[1] == '1'
		}
	}

	pg := &ParsedGraph{N: n, M: m, HasEdgeWt: hasEdgeWt, HasNodeWt: hasNodeWt}
	pg.Adjacency = make([][]graph.GlobalEdge, n)
	if hasNodeWt {
		pg.NodeWeights = make([]int64, n)
	}

	for u := uint64(0); u < n; u++ {
		if !scanner.Scan() {
			return nil, fmt.Errorf("graphio: expected %d vertex lines, ran out at line %d", n, u+1)
		}
		fields := strings.Fields(scanner.Text())
		idx := 0
		if hasNodeWt {
			if idx >= len(fields) {
				return nil, fmt.Errorf("graphio: line %d: missing node weight", u+2)
			}
			w, err := strconv.ParseInt(fields[idx], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("graphio: line %d: invalid node weight: %w", u+2, err)
			}
			pg.NodeWeights[u] = w
			idx++
		}

		var neighbors []graph.GlobalEdge
		for idx < len(fields) {
			target, err := strconv.ParseUint(fields[idx], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("graphio: line %d: invalid neighbor id: %w", u+2, err)
			}
			idx++
			weight := int64(1)
			if hasEdgeWt {
				if idx >= len(fields) {
					return nil, fmt.Errorf("graphio: line %d: missing edge weight", u+2)
				}
				weight, err = strconv.ParseInt(fields[idx], 10, 64)
				if err != nil {
					return nil, fmt.Errorf("graphio: line %d: invalid edge weight: %w", u+2, err)
				}
				idx++
			}
			neighbors = append(neighbors, graph.GlobalEdge{Global: target - 1, Weight: weight})
		}
		pg.Adjacency[u] = neighbors
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("graphio: scan error: %w", err)
	}
	return pg, nil
}
