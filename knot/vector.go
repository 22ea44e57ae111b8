// Package knot implements knot vectors: non-decreasing sequences of
// parametric coordinates that partition the parameter domain of a spline into
// knot spans.
package knot

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/mfcats/SplineLib-sub001/internal"
	"github.com/mfcats/SplineLib-sub001/types"
)

// Vector is a non-decreasing sequence of knots. The zero value is not
// usable; use New or one of the generators.
//
// A Vector is mutated in place by InsertKnot, RemoveKnot and the
// multiplicity operations. Splines hold it by pointer, so splines constructed
// from the same Vector share it; use Clone for an independent copy.
type Vector struct {
	knots []types.ParametricCoordinate

	// revision counts in-place mutations
	revision uint64
}

// KnotMultiplicity pairs a distinct knot value with its multiplicity.
type KnotMultiplicity struct {
	Knot types.ParametricCoordinate
	Mult types.Multiplicity
}

// New returns a knot vector holding a copy of knots. It fails with
// [types.ErrInvalidArgument] if knots is empty or decreasing anywhere.
func New(knots []types.ParametricCoordinate) (*Vector, error) {
	if len(knots) == 0 {
		return nil, fmt.Errorf("%w: empty knot vector", types.ErrInvalidArgument)
	}
	v := &Vector{knots: slices.Clone(knots)}
	if !v.IsNonDecreasing() {
		return nil, fmt.Errorf("%w: knots %v are not non-decreasing", types.ErrInvalidArgument, v)
	}
	return v, nil
}

// FromFloats is New for plain float arguments.
func FromFloats(knots ...float64) (*Vector, error) {
	return New(types.Coordinates(knots...))
}

// NewAveraged generates a clamped knot vector for the given parameters using
// the averaging technique, so that every knot span contains at least one
// parameter.
// (corresponds to eq. 9.8 from The NURBS book, Piegl & Tiller 2nd edition)
//
// **params**
// + non-decreasing parameters, one per control point
// + degree of the basis functions, at least 1
//
// **returns**
// + a knot vector with len(params) + degree + 1 knots
func NewAveraged(params []types.ParametricCoordinate, degree types.Degree) (*Vector, error) {
	p := int(degree)
	if p < 1 {
		return nil, fmt.Errorf("%w: averaging needs a degree of at least 1, got %d", types.ErrInvalidArgument, p)
	}
	if len(params) < p+1 {
		return nil, fmt.Errorf("%w: %d parameters are too few for degree %d", types.ErrInvalidArgument, len(params), p)
	}

	n := len(params) - 1
	m := n + p + 1
	knots := make([]types.ParametricCoordinate, m+1)

	for i := 0; i <= p; i++ {
		knots[i] = params[0]
		knots[m-i] = params[n]
	}

	for j := 1; j <= n-p; j++ {
		var sum types.ParametricCoordinate
		for i := j; i < j+p; i++ {
			sum += params[i]
		}
		knots[j+p] = sum / types.ParametricCoordinate(p)
	}

	return New(knots)
}

// NewOpenUniform generates a clamped knot vector over [first, last] for the
// given number of basis functions with equally spaced interior knots.
func NewOpenUniform(degree types.Degree, numberOfBasisFunctions int, first, last types.ParametricCoordinate) (*Vector, error) {
	if err := degree.ValidateNonNegative(); err != nil {
		return nil, err
	}
	p := int(degree)
	if numberOfBasisFunctions < p+1 {
		return nil, fmt.Errorf("%w: %d basis functions are too few for degree %d", types.ErrInvalidArgument, numberOfBasisFunctions, p)
	}
	if last <= first {
		return nil, fmt.Errorf("%w: empty domain [%v, %v]", types.ErrInvalidArgument, first, last)
	}

	numberOfKnots := numberOfBasisFunctions + p + 1
	knots := make([]types.ParametricCoordinate, numberOfKnots)
	interior := numberOfBasisFunctions - p
	for i := range knots {
		switch {
		case i <= p:
			knots[i] = first
		case i >= numberOfBasisFunctions:
			knots[i] = last
		default:
			knots[i] = first + (last-first)*types.ParametricCoordinate(i-p)/types.ParametricCoordinate(interior)
		}
	}

	return New(knots)
}

// Clone returns a deep copy of v.
func (v *Vector) Clone() *Vector {
	return &Vector{knots: slices.Clone(v.knots)}
}

// Assign replaces the knots of v by a copy of the knots of src.
func (v *Vector) Assign(src *Vector) {
	v.knots = slices.Clone(src.knots)
	v.revision++
}

// Len returns the number of knots, repeated knots included.
func (v *Vector) Len() int {
	return len(v.knots)
}

// Knot returns the i-th knot.
func (v *Vector) Knot(i int) types.ParametricCoordinate {
	return v.knots[i]
}

// Knots returns a copy of the knots.
func (v *Vector) Knots() []types.ParametricCoordinate {
	return slices.Clone(v.knots)
}

// Floats returns a copy of the knots as plain floats.
func (v *Vector) Floats() []float64 {
	return types.Floats(v.knots)
}

func (v *Vector) First() types.ParametricCoordinate {
	return v.knots[0]
}

func (v *Vector) Last() types.ParametricCoordinate {
	return v.knots[len(v.knots)-1]
}

// Revision changes whenever v is mutated in place. Caches built from v
// compare it to detect stale data.
func (v *Vector) Revision() uint64 {
	return v.revision
}

// Domain returns the length of the parameter domain.
func (v *Vector) Domain() types.ParametricCoordinate {
	return v.Last() - v.First()
}

// IsLastKnot reports whether u equals the last knot within [internal.Epsilon].
func (v *Vector) IsLastKnot(u types.ParametricCoordinate) bool {
	return internal.AreEqual(float64(u), float64(v.Last()), internal.Epsilon)
}

// IsInRange reports whether u lies in [First, Last], with the ends widened
// by [internal.Epsilon].
func (v *Vector) IsInRange(u types.ParametricCoordinate) bool {
	return float64(u) >= float64(v.First())-internal.Epsilon && float64(u) <= float64(v.Last())+internal.Epsilon
}

// KnotSpan finds the span of u, i.e. the index i with
// knot[i] <= u < knot[i+1]. At the last knot the interval of the last
// non-degenerate span is closed on the right, so that u = Last is part of the
// domain.
// (corresponds to algorithm 2.1 from The NURBS book, Piegl & Tiller 2nd edition)
//
// **params**
// + parameter in [First, Last]
//
// **returns**
// + the index of the knot span, or an error wrapping [types.ErrOutOfRange]
func (v *Vector) KnotSpan(u types.ParametricCoordinate) (types.KnotSpan, error) {
	if !v.IsInRange(u) {
		return 0, fmt.Errorf("%w: %v is not in [%v, %v]", types.ErrOutOfRange, u, v.First(), v.Last())
	}

	var i int
	if v.IsLastKnot(u) {
		// lower bound of the last knot
		i = sort.Search(len(v.knots), func(i int) bool { return v.IsLastKnot(v.knots[i]) })
	} else {
		u = max(u, v.First())
		// upper bound of u
		i = sort.Search(len(v.knots), func(i int) bool { return v.knots[i] > u })
	}

	return types.KnotSpan(max(i-1, 0)), nil
}

// Multiplicity counts the knots equal to u within [internal.Epsilon].
func (v *Vector) Multiplicity(u types.ParametricCoordinate) types.Multiplicity {
	var m types.Multiplicity
	for _, knot := range v.knots {
		if internal.AreEqual(float64(knot), float64(u), internal.Epsilon) {
			m++
		}
	}
	return m
}

// InsertKnot inserts u directly after its knot span.
func (v *Vector) InsertKnot(u types.ParametricCoordinate) error {
	span, err := v.KnotSpan(u)
	if err != nil {
		return err
	}
	v.knots = slices.Insert(v.knots, int(span)+1, u)
	v.revision++
	return nil
}

// LastIndex returns the index of the last knot equal to u within
// [internal.Epsilon], or false if u is not a knot.
func (v *Vector) LastIndex(u types.ParametricCoordinate) (int, bool) {
	for i := len(v.knots) - 1; i >= 0; i-- {
		if internal.AreEqual(float64(v.knots[i]), float64(u), internal.Epsilon) {
			return i, true
		}
	}
	return 0, false
}

// RemoveKnot removes the last occurrence of u.
func (v *Vector) RemoveKnot(u types.ParametricCoordinate) error {
	i, ok := v.LastIndex(u)
	if !ok {
		return fmt.Errorf("%w: %v is not a knot of %v", types.ErrInvalidArgument, u, v)
	}
	v.knots = slices.Delete(v.knots, i, i+1)
	v.revision++
	return nil
}

//
// Determine the multiplicities of the values in a knot vector
//
// **returns**
// + *Array* of distinct knot values paired with their multiplicity
//
func (v *Vector) Multiplicities() []KnotMultiplicity {
	mults := []KnotMultiplicity{{v.knots[0], 0}}

	var currI int
	for _, knot := range v.knots {
		if math.Abs(float64(knot-mults[currI].Knot)) > internal.Epsilon {
			mults = append(mults, KnotMultiplicity{knot, 0})
			currI++
		}

		mults[currI].Mult++
	}

	return mults
}

// UniqueKnots returns the distinct knot values in increasing order.
func (v *Vector) UniqueKnots() []types.ParametricCoordinate {
	mults := v.Multiplicities()
	unique := make([]types.ParametricCoordinate, len(mults))
	for i, m := range mults {
		unique[i] = m.Knot
	}
	return unique
}

func (v *Vector) NumberOfDifferentKnots() int {
	return len(v.Multiplicities())
}

// IncrementMultiplicityOfAllKnots repeats every distinct knot once more.
func (v *Vector) IncrementMultiplicityOfAllKnots() {
	v.rebuild(1)
}

// DecrementMultiplicityOfAllKnots drops one occurrence of every distinct
// knot. Interior knots of multiplicity one disappear. The first and last
// knot must have multiplicity two or more, otherwise v is left unchanged and
// the error wraps [types.ErrInvalidArgument].
func (v *Vector) DecrementMultiplicityOfAllKnots() error {
	mults := v.Multiplicities()
	if mults[0].Mult < 2 || mults[len(mults)-1].Mult < 2 {
		return fmt.Errorf("%w: the ends of %v would disappear", types.ErrInvalidArgument, v)
	}
	v.rebuild(-1)
	return nil
}

func (v *Vector) rebuild(delta types.Multiplicity) {
	mults := v.Multiplicities()
	knots := make([]types.ParametricCoordinate, 0, len(v.knots)+int(delta)*len(mults))
	for _, m := range mults {
		for range m.Mult + delta {
			knots = append(knots, m.Knot)
		}
	}
	v.knots = knots
	v.revision++
}

// Equal compares elementwise within the fixed [internal.Epsilon].
func (v *Vector) Equal(rhs *Vector) bool {
	return v.AreEqual(rhs, internal.Epsilon)
}

// AreEqual compares elementwise within tolerance.
func (v *Vector) AreEqual(rhs *Vector, tolerance float64) bool {
	if len(v.knots) != len(rhs.knots) {
		return false
	}
	for i, knot := range v.knots {
		if !internal.AreEqual(float64(knot), float64(rhs.knots[i]), tolerance) {
			return false
		}
	}
	return true
}

// IsValid reports whether v can be the knot vector of a clamped spline of
// the given degree: non-decreasing with degree+1 equal knots at either end.
func (v *Vector) IsValid(degree types.Degree) bool {
	if len(v.knots) < 2*degree.Order() {
		return false
	}

	rep := v.knots[0]

	for _, knot := range v.knots[:degree.Order()] {
		if math.Abs(float64(knot-rep)) > internal.Epsilon {
			return false
		}
	}

	rep = v.Last()

	for _, knot := range v.knots[len(v.knots)-degree.Order():] {
		if math.Abs(float64(knot-rep)) > internal.Epsilon {
			return false
		}
	}

	return v.IsNonDecreasing()
}

func (v *Vector) IsNonDecreasing() bool {
	rep := v.knots[0]
	for _, knot := range v.knots[1:] {
		if float64(knot) < float64(rep)-internal.Epsilon {
			return false
		}
		rep = knot
	}
	return true
}

// Reversed returns the knot vector of the reversed parametrization: the knot
// spacing mirrored over the same domain.
func (v *Vector) Reversed() *Vector {
	l := make([]types.ParametricCoordinate, len(v.knots))
	l[0] = v.knots[0]

	length := len(v.knots)
	for i := 1; i < length; i++ {
		l[i] = l[i-1] + (v.knots[length-i] - v.knots[length-i-1])
	}

	return &Vector{knots: l}
}

// Slice returns a copy of the knots with indices in [i, j).
func (v *Vector) Slice(i, j int) *Vector {
	return &Vector{knots: slices.Clone(v.knots[i:j])}
}

func (v *Vector) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, knot := range v.knots {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%g", float64(knot))
	}
	sb.WriteByte('}')
	return sb.String()
}
