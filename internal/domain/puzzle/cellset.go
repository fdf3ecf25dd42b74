package puzzle

import "math/bits"

// CellSet is a set of grid cells stored as a bitmask.
// Iteration is always in ascending cell order.
type CellSet uint32

// maxCells is the number of cells a CellSet can hold.
const maxCells = 32

// NewCellSet builds a set from the given cells.
// Indices outside [0, 32) are ignored.
func NewCellSet(cells ...int) CellSet {
	var s CellSet
	for _, c := range cells {
		s = s.With(c)
	}

	return s
}

// With returns the set with cell added.
func (s CellSet) With(cell int) CellSet {
	if cell < 0 || cell >= maxCells {
		return s
	}

	return s | 1<<uint(cell)
}

// Has reports whether cell is in the set.
func (s CellSet) Has(cell int) bool {
	if cell < 0 || cell >= maxCells {
		return false
	}

	return s&(1<<uint(cell)) != 0
}

// Len returns the number of cells in the set.
func (s CellSet) Len() int {
	return bits.OnesCount32(uint32(s))
}

// Empty reports whether the set has no cells.
func (s CellSet) Empty() bool {
	return s == 0
}

// Union returns the cells present in either set.
func (s CellSet) Union(other CellSet) CellSet {
	return s | other
}

// Cells returns the members in ascending order.
func (s CellSet) Cells() []int {
	cells := make([]int, 0, s.Len())
	for rest := uint32(s); rest != 0; rest &= rest - 1 {
		cells = append(cells, bits.TrailingZeros32(rest))
	}

	return cells
}
