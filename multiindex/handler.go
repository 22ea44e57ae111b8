// Package multiindex maps tuples of per-dimension indices onto the flat
// positions of a tensor-product array and back. Dimension 0 varies fastest.
package multiindex

import (
	"fmt"
	"iter"
	"slices"

	"github.com/mfcats/SplineLib-sub001/types"
)

// Handler walks a tensor-product array with lengths[d] entries in dimension
// d. The zero value is not usable; use New.
//
// Moving past either end wraps around and latches Overflowed until the next
// Reset or SetCurrentIndex.
type Handler struct {
	lengths    []int
	current    []int
	overflowed bool
}

// New returns a handler positioned at the all-zero index. It panics if a
// length is less than one.
func New(lengths ...int) *Handler {
	for d, l := range lengths {
		if l < 1 {
			panic(fmt.Sprintf("multiindex: dimension %d has length %d", d, l))
		}
	}
	return &Handler{
		lengths: slices.Clone(lengths),
		current: make([]int, len(lengths)),
	}
}

func (h *Handler) Clone() *Handler {
	return &Handler{
		lengths:    slices.Clone(h.lengths),
		current:    slices.Clone(h.current),
		overflowed: h.overflowed,
	}
}

// Dimensions returns the number of dimensions.
func (h *Handler) Dimensions() int {
	return len(h.lengths)
}

// Len returns the total number of entries, the product of all lengths.
func (h *Handler) Len() int {
	n := 1
	for _, l := range h.lengths {
		n *= l
	}
	return n
}

func (h *Handler) Lengths() []int {
	return slices.Clone(h.lengths)
}

// Index returns a copy of the current multi-index.
func (h *Handler) Index() []int {
	return slices.Clone(h.current)
}

// At returns the current index in dimension d.
func (h *Handler) At(d types.Dimension) int {
	return h.current[d]
}

// Overflowed reports whether the handler wrapped around since the last
// Reset or SetCurrentIndex.
func (h *Handler) Overflowed() bool {
	return h.overflowed
}

// Reset moves to the all-zero index and clears Overflowed.
func (h *Handler) Reset() {
	clear(h.current)
	h.overflowed = false
}

// Index1D computes the flat position of indices in an array of the given
// lengths.
func Index1D(lengths, indices []int) int {
	var index, stride = 0, 1
	for d, l := range lengths {
		index += indices[d] * stride
		stride *= l
	}
	return index
}

// Get1DIndex returns the flat position of the current multi-index.
func (h *Handler) Get1DIndex() int {
	return Index1D(h.lengths, h.current)
}

// SetCurrentIndex moves to the given multi-index and clears Overflowed. It
// panics on an index outside the array.
func (h *Handler) SetCurrentIndex(indices ...int) {
	if len(indices) != len(h.lengths) {
		panic(fmt.Sprintf("multiindex: %d indices for %d dimensions", len(indices), len(h.lengths)))
	}
	for d, i := range indices {
		if i < 0 || i >= h.lengths[d] {
			panic(fmt.Sprintf("multiindex: index %d out of range [0, %d) in dimension %d", i, h.lengths[d], d))
		}
	}
	copy(h.current, indices)
	h.overflowed = false
}

// SetCurrent1DIndex moves to the multi-index at flat position i, wrapping i
// into [0, Len).
func (h *Handler) SetCurrent1DIndex(i int) {
	h.overflowed = false
	h.set1D(i)
}

func (h *Handler) set1D(i int) {
	total := h.Len()
	if i >= total || i < 0 {
		h.overflowed = true
		i %= total
		if i < 0 {
			i += total
		}
	}
	for d, l := range h.lengths {
		h.current[d] = i % l
		i /= l
	}
}

// Increment moves to the next entry. Past the last entry it wraps to the
// all-zero index.
func (h *Handler) Increment() {
	for d := range h.current {
		h.current[d]++
		if h.current[d] < h.lengths[d] {
			return
		}
		h.current[d] = 0
	}
	h.overflowed = true
}

// Decrement moves to the previous entry. Before the first entry it wraps to
// the maximum index.
func (h *Handler) Decrement() {
	for d := range h.current {
		h.current[d]--
		if h.current[d] >= 0 {
			return
		}
		h.current[d] = h.lengths[d] - 1
	}
	h.overflowed = true
}

// Add moves count entries forward.
func (h *Handler) Add(count int) {
	h.set1D(h.Get1DIndex() + count)
}

// Sub moves count entries backward.
func (h *Handler) Sub(count int) {
	h.set1D(h.Get1DIndex() - count)
}

// ComplementaryIndex returns, per dimension, the number of steps left before
// the end: lengths[d]-1-current[d].
func (h *Handler) ComplementaryIndex() []int {
	complementary := make([]int, len(h.current))
	for d, i := range h.current {
		complementary[d] = h.lengths[d] - 1 - i
	}
	return complementary
}

// CollapseDimension returns the flat position of the current multi-index in
// the array that remains when the given dimensions are removed.
func (h *Handler) CollapseDimension(dims ...types.Dimension) int {
	var index, stride = 0, 1
	for d, l := range h.lengths {
		if slices.Contains(dims, types.Dimension(d)) {
			continue
		}
		index += h.current[d] * stride
		stride *= l
	}
	return index
}

// Equal compares lengths and current multi-index.
func (h *Handler) Equal(rhs *Handler) bool {
	return slices.Equal(h.lengths, rhs.lengths) && slices.Equal(h.current, rhs.current)
}

// All iterates over every entry in flat order, yielding the flat position
// and a copy of the multi-index. It does not move h.
func (h *Handler) All() iter.Seq2[int, []int] {
	return func(yield func(int, []int) bool) {
		walker := New(h.lengths...)
		for i := range walker.Len() {
			if !yield(i, walker.Index()) {
				return
			}
			walker.Increment()
		}
	}
}

// Fibres iterates over the one-dimensional rows of the array along dim. For
// every combination of the other indices it yields the flat positions of the
// row, in increasing order of the index in dim.
func (h *Handler) Fibres(dim types.Dimension) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		others := slices.Clone(h.lengths)
		others[dim] = 1
		walker := New(others...)
		stride := 1
		for d := range int(dim) {
			stride *= h.lengths[d]
		}
		for range walker.Len() {
			base := Index1D(h.lengths, walker.current)
			row := make([]int, h.lengths[dim])
			for j := range row {
				row[j] = base + j*stride
			}
			if !yield(row) {
				return
			}
			walker.Increment()
		}
	}
}

func (h *Handler) String() string {
	return fmt.Sprintf("%v of %v", h.current, h.lengths)
}
