package index

import "sort"

// Neighbor is a single nearest-neighbor hit: the corpus row index and its
// cosine distance from the query, in [0, 2].
type Neighbor struct {
	Index    int
	Distance float64
}

// NeighborIndex answers k-nearest queries over a fixed set of L2-normalized
// corpus vectors under cosine distance. Brute force: corpora here are small
// enough that an approximate structure would cost more than it saves.
type NeighborIndex struct {
	rows []SparseVector
	k    int
}

// FitNeighbors builds a neighbor index over the given rows with
// k = min(k, len(rows)).
func FitNeighbors(rows []SparseVector, k int) *NeighborIndex {
	if k > len(rows) {
		k = len(rows)
	}
	return &NeighborIndex{rows: rows, k: k}
}

// K returns the effective neighbor count.
func (n *NeighborIndex) K() int { return n.k }

// Len returns the corpus size.
func (n *NeighborIndex) Len() int { return len(n.rows) }

// KNearest returns the k nearest rows to the query, ascending by distance.
// Equidistant rows keep ascending index order (stable sort), so results are
// reproducible across calls. Rows and query are L2-normalized, hence
// cosine distance reduces to 1 - dot; a zero query vector is equally far
// (distance 1) from every row.
func (n *NeighborIndex) KNearest(query SparseVector) []Neighbor {
	neighbors := make([]Neighbor, len(n.rows))
	for i, row := range n.rows {
		neighbors[i] = Neighbor{Index: i, Distance: 1 - query.Dot(row)}
	}

	sort.SliceStable(neighbors, func(a, b int) bool {
		return neighbors[a].Distance < neighbors[b].Distance
	})

	return neighbors[:n.k]
}
