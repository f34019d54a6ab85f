// Package distvec implements distribution vectors: P+1-entry prefix-sum
// arrays that map global vertex or edge IDs to the owning rank.
package distvec

import (
	"sort"

	"github.com/nkusla/dkaminpar-go/pkg/dkerr"
)

// Vector is a distribution vector: D[0] == 0, D[P] == N, monotonically
// non-decreasing. Rank r owns global IDs in [D[r], D[r+1]).
type Vector []uint64

// Build constructs a distribution vector from the per-rank owned counts,
// as if gathered via Communicator.Allgather(count) followed by an
// exclusive prefix sum. Kept separate from any communicator so it can be
// unit tested without a running collective.
func Build(counts []uint64) Vector {
	v := make(Vector, len(counts)+1)
	var sum uint64
	for i, c := range counts {
		v[i] = sum
		sum += c
	}
	v[len(counts)] = sum
	return v
}

// N returns the total number of global IDs covered by the vector.
func (v Vector) N() uint64 {
	if len(v) == 0 {
		return 0
	}
	return v[len(v)-1]
}

// NumRanks returns P, the number of ranks the vector partitions IDs
// across.
func (v Vector) NumRanks() int {
	if len(v) == 0 {
		return 0
	}
	return len(v) - 1
}

// Owner returns the rank owning global ID g via binary search.
func (v Vector) Owner(g uint64) int {
	// The first index i such that v[i+1] > g is the owning rank; using
	// sort.Search over the upper bounds v[1:] does exactly this.
	r := sort.Search(len(v)-1, func(i int) bool { return v[i+1] > g })
	return r
}

// Owns reports whether rank r owns global ID g.
func (v Vector) Owns(r int, g uint64) bool {
	return g >= v[r] && g < v[r+1]
}

// Count returns the number of global IDs owned by rank r.
func (v Vector) Count(r int) uint64 {
	return v[r+1] - v[r]
}

// CheckConsistent verifies that every gathered copy of a distribution
// vector is identical. The caller supplies one vector per rank (e.g.
// gathered via an Allgather of serialized vectors at construction time).
func CheckConsistent(vecs []Vector) error {
	if len(vecs) == 0 {
		return nil
	}
	ref := vecs[0]
	for i := 1; i < len(vecs); i++ {
		if len(vecs[i]) != len(ref) {
			return dkerr.WithDetail(dkerr.ErrInconsistentDistribution, "rank %d has %d entries, rank 0 has %d", i, len(vecs[i]), len(ref))
		}
		for j := range ref {
			if vecs[i][j] != ref[j] {
				return dkerr.WithDetail(dkerr.ErrInconsistentDistribution, "rank %d entry %d = %d, rank 0 = %d", i, j, vecs[i][j], ref[j])
			}
		}
	}
	return nil
}
