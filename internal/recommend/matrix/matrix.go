// Package matrix builds the sparse user-item interaction matrix the
// factorization model trains on.
package matrix

import (
	"sort"
)

// Pair is one raw (user, item) order event.
type Pair struct {
	UserID int64
	ItemID int64
}

// Interactions holds the count matrix together with the index mappings it
// was built with. Row i corresponds to Users[i], column j to Items[j];
// both slices are sorted ascending so index assignment is reproducible
// for identical input.
type Interactions struct {
	Users  []int64
	Items  []int64
	Counts *CSR
}

// Build aggregates order events into an interaction count matrix. Repeat
// orders of the same (user, item) pair accumulate as counts. An empty
// history yields empty mappings and a zero-sized matrix, not an error.
func Build(pairs []Pair) *Interactions {
	counts := make(map[Pair]float64, len(pairs))
	userSet := make(map[int64]struct{})
	itemSet := make(map[int64]struct{})
	for _, p := range pairs {
		counts[p]++
		userSet[p.UserID] = struct{}{}
		itemSet[p.ItemID] = struct{}{}
	}

	users := sortedKeys(userSet)
	items := sortedKeys(itemSet)

	userIdx := make(map[int64]int, len(users))
	for i, id := range users {
		userIdx[id] = i
	}
	itemIdx := make(map[int64]int, len(items))
	for j, id := range items {
		itemIdx[id] = j
	}

	triplets := make([]triplet, 0, len(counts))
	for p, c := range counts {
		triplets = append(triplets, triplet{
			row: userIdx[p.UserID],
			col: itemIdx[p.ItemID],
			val: c,
		})
	}

	return &Interactions{
		Users:  users,
		Items:  items,
		Counts: newCSR(len(users), len(items), triplets),
	}
}

// UserIndex returns the matrix row for a user ID.
func (x *Interactions) UserIndex(userID int64) (int, bool) {
	i := sort.Search(len(x.Users), func(i int) bool { return x.Users[i] >= userID })
	if i < len(x.Users) && x.Users[i] == userID {
		return i, true
	}
	return 0, false
}

// ItemID returns the item ID at a matrix column.
func (x *Interactions) ItemID(col int) (int64, bool) {
	if col < 0 || col >= len(x.Items) {
		return 0, false
	}
	return x.Items[col], true
}

func sortedKeys(set map[int64]struct{}) []int64 {
	keys := make([]int64, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

type triplet struct {
	row, col int
	val      float64
}

// CSR is a compressed sparse row matrix. Absent cells are absent
// interactions, not zero scores.
type CSR struct {
	rows, cols int
	rowPtr     []int
	colIdx     []int
	val        []float64
}

func newCSR(rows, cols int, triplets []triplet) *CSR {
	sort.Slice(triplets, func(i, j int) bool {
		if triplets[i].row != triplets[j].row {
			return triplets[i].row < triplets[j].row
		}
		return triplets[i].col < triplets[j].col
	})

	m := &CSR{
		rows:   rows,
		cols:   cols,
		rowPtr: make([]int, rows+1),
		colIdx: make([]int, len(triplets)),
		val:    make([]float64, len(triplets)),
	}
	for i, t := range triplets {
		m.rowPtr[t.row+1]++
		m.colIdx[i] = t.col
		m.val[i] = t.val
	}
	for r := 0; r < rows; r++ {
		m.rowPtr[r+1] += m.rowPtr[r]
	}
	return m
}

// Dims returns the matrix dimensions.
func (m *CSR) Dims() (rows, cols int) { return m.rows, m.cols }

// NNZ returns the number of stored cells.
func (m *CSR) NNZ() int { return len(m.val) }

// Row calls fn for every stored cell of row i in column order.
func (m *CSR) Row(i int, fn func(col int, val float64)) {
	for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
		fn(m.colIdx[k], m.val[k])
	}
}

// T returns the transpose as a new matrix.
func (m *CSR) T() *CSR {
	triplets := make([]triplet, 0, len(m.val))
	for r := 0; r < m.rows; r++ {
		for k := m.rowPtr[r]; k < m.rowPtr[r+1]; k++ {
			triplets = append(triplets, triplet{row: m.colIdx[k], col: r, val: m.val[k]})
		}
	}
	return newCSR(m.cols, m.rows, triplets)
}
