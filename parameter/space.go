// Package parameter implements the parameter space of a tensor-product
// spline: one knot vector and one degree per parametric dimension, and the
// basis functions they define.
package parameter

import (
	"fmt"
	"slices"

	"github.com/mfcats/SplineLib-sub001/basis"
	"github.com/mfcats/SplineLib-sub001/knot"
	"github.com/mfcats/SplineLib-sub001/types"
)

type cachedNetwork struct {
	net      *basis.Network
	kv       *knot.Vector
	revision uint64
	degree   types.Degree
}

// Space holds the knot vectors and degrees of a spline.
//
// Knot vectors are held by pointer and may be shared with other spaces.
// Basis function networks are cached per dimension and rebuilt on first use
// after the knot vector or degree changed. A Space is not safe for
// concurrent use.
type Space struct {
	knotVectors []*knot.Vector
	degrees     []types.Degree
	cache       []cachedNetwork
}

// New returns a parameter space over the given knot vectors, which are
// shared, not copied. A vector passed for several dimensions is copied for
// all but the first, so that every dimension owns its knots. Degrees must be non-negative
// ([types.ErrInvalidArgument]); every knot vector must start and end with
// exactly degree+1 equal knots ([types.ErrMalformed]).
func New(knotVectors []*knot.Vector, degrees []types.Degree) (*Space, error) {
	if len(knotVectors) == 0 || len(knotVectors) != len(degrees) {
		return nil, fmt.Errorf("%w: %d knot vectors for %d degrees", types.ErrInvalidArgument, len(knotVectors), len(degrees))
	}
	for d, kv := range knotVectors {
		if err := degrees[d].ValidateNonNegative(); err != nil {
			return nil, err
		}
		if err := checkClamped(kv, degrees[d]); err != nil {
			return nil, fmt.Errorf("dimension %d: %w", d, err)
		}
	}
	kvs := slices.Clone(knotVectors)
	for d, kv := range kvs {
		if slices.Contains(kvs[:d], kv) {
			kvs[d] = kv.Clone()
		}
	}
	return &Space{
		knotVectors: kvs,
		degrees:     slices.Clone(degrees),
		cache:       make([]cachedNetwork, len(kvs)),
	}, nil
}

func checkClamped(kv *knot.Vector, degree types.Degree) error {
	order := types.Multiplicity(degree.Order())
	if kv.Len() < 2*degree.Order() {
		return fmt.Errorf("%w: %d knots are too few for degree %d", types.ErrMalformed, kv.Len(), degree)
	}
	if m := kv.Multiplicity(kv.First()); m != order {
		return fmt.Errorf("%w: first knot has multiplicity %d, want %d", types.ErrMalformed, m, order)
	}
	if m := kv.Multiplicity(kv.Last()); m != order {
		return fmt.Errorf("%w: last knot has multiplicity %d, want %d", types.ErrMalformed, m, order)
	}
	return nil
}

// Clone returns a deep copy with knot vectors of its own.
func (s *Space) Clone() *Space {
	kvs := make([]*knot.Vector, len(s.knotVectors))
	for d, kv := range s.knotVectors {
		kvs[d] = kv.Clone()
	}
	return &Space{
		knotVectors: kvs,
		degrees:     slices.Clone(s.degrees),
		cache:       make([]cachedNetwork, len(kvs)),
	}
}

// Assign copies knots and degrees of src into s. The knot vectors of s are
// overwritten in place, so spaces sharing them see the change.
func (s *Space) Assign(src *Space) {
	for d, kv := range s.knotVectors {
		kv.Assign(src.knotVectors[d])
	}
	s.degrees = slices.Clone(src.degrees)
}

// Dimensionality returns the number of parametric dimensions.
func (s *Space) Dimensionality() int {
	return len(s.degrees)
}

// KnotVector returns the knot vector of dim. It is shared with the space.
func (s *Space) KnotVector(dim types.Dimension) *knot.Vector {
	return s.knotVectors[dim]
}

func (s *Space) Degree(dim types.Dimension) types.Degree {
	return s.degrees[dim]
}

func (s *Space) Degrees() []types.Degree {
	return slices.Clone(s.degrees)
}

// CheckDimension fails with [types.ErrInvalidArgument] unless dim is a
// parametric dimension of s.
func (s *Space) CheckDimension(dim types.Dimension) error {
	if dim < 0 || int(dim) >= len(s.degrees) {
		return fmt.Errorf("%w: dimension %d of a %d-dimensional parameter space", types.ErrInvalidArgument, dim, len(s.degrees))
	}
	return nil
}

// NumberOfBasisFunctions returns, per dimension, knots - degree - 1.
func (s *Space) NumberOfBasisFunctions() []int {
	n := make([]int, len(s.degrees))
	for d, kv := range s.knotVectors {
		n[d] = kv.Len() - s.degrees[d].Order()
	}
	return n
}

// CheckNumberOfPoints fails with [types.ErrMalformed] unless the control net
// has one point per basis function in every dimension.
func (s *Space) CheckNumberOfPoints(numberOfPoints []int) error {
	if len(numberOfPoints) != len(s.degrees) {
		return fmt.Errorf("%w: %d point counts for %d parametric dimensions", types.ErrMalformed, len(numberOfPoints), len(s.degrees))
	}
	for d, n := range s.NumberOfBasisFunctions() {
		if numberOfPoints[d] != n {
			return fmt.Errorf("%w: dimension %d has %d knots, degree %d and %d control points",
				types.ErrMalformed, d, s.knotVectors[d].Len(), s.degrees[d], numberOfPoints[d])
		}
	}
	return nil
}

// CheckRange fails with [types.ErrOutOfRange] if a coordinate lies outside
// the knot vector of its dimension.
func (s *Space) CheckRange(coords []types.ParametricCoordinate) error {
	if len(coords) != len(s.degrees) {
		return fmt.Errorf("%w: %d coordinates for %d parametric dimensions", types.ErrInvalidArgument, len(coords), len(s.degrees))
	}
	for d, u := range coords {
		if !s.knotVectors[d].IsInRange(u) {
			return fmt.Errorf("%w: %v is not in [%v, %v] in dimension %d",
				types.ErrOutOfRange, u, s.knotVectors[d].First(), s.knotVectors[d].Last(), d)
		}
	}
	return nil
}

// FirstNonZeroBasisFunctions returns, per dimension, the index of the first
// basis function that does not vanish at coords: span - degree.
func (s *Space) FirstNonZeroBasisFunctions(coords []types.ParametricCoordinate) ([]int, error) {
	if err := s.CheckRange(coords); err != nil {
		return nil, err
	}
	first := make([]int, len(coords))
	for d, u := range coords {
		span, err := s.knotVectors[d].KnotSpan(u)
		if err != nil {
			return nil, err
		}
		first[d] = int(span) - int(s.degrees[d])
	}
	return first, nil
}

// Network returns the basis functions of dim, building them if the knot
// vector or degree changed since the last call.
func (s *Space) Network(dim types.Dimension) *basis.Network {
	c := &s.cache[dim]
	kv := s.knotVectors[dim]
	if c.net != nil && c.kv == kv && c.revision == kv.Revision() && c.degree == s.degrees[dim] {
		return c.net
	}
	net, err := basis.NewNetwork(kv, s.degrees[dim])
	if err != nil {
		// New and every mutation keep degree+1 knots at either end
		panic(fmt.Sprintf("parameter: dimension %d: %v", dim, err))
	}
	*c = cachedNetwork{net: net, kv: kv, revision: kv.Revision(), degree: s.degrees[dim]}
	return net
}

// BasisFunctions returns the tensor-product basis function with the given
// per-dimension indices, evaluated at coords.
func (s *Space) BasisFunctions(indices []int, coords []types.ParametricCoordinate) float64 {
	value := 1.0
	for d, i := range indices {
		value *= s.Network(types.Dimension(d)).Function(i).Evaluate(coords[d])
		if value == 0 {
			return 0
		}
	}
	return value
}

// BasisFunctionDerivatives is BasisFunctions for the partial derivative of
// order derivatives[d] in each dimension d.
func (s *Space) BasisFunctionDerivatives(indices []int, coords []types.ParametricCoordinate, derivatives []types.Derivative) float64 {
	value := 1.0
	for d, i := range indices {
		value *= s.Network(types.Dimension(d)).Function(i).EvaluateDerivative(coords[d], derivatives[d])
		if value == 0 {
			return 0
		}
	}
	return value
}

// EvaluateAllNonZeroBasisFunctions returns the degree+1 basis functions of
// dim that don't vanish at u, the first one being N(span-degree).
func (s *Space) EvaluateAllNonZeroBasisFunctions(dim types.Dimension, u types.ParametricCoordinate) ([]float64, error) {
	kv := s.knotVectors[dim]
	span, err := kv.KnotSpan(u)
	if err != nil {
		return nil, err
	}
	return basis.NonZero(kv, span, s.degrees[dim], u), nil
}

// EvaluateAllNonZeroBasisFunctionDerivatives returns the derivatives of
// order 0 to n of the non-vanishing basis functions of dim at u, one row per
// order.
func (s *Space) EvaluateAllNonZeroBasisFunctionDerivatives(dim types.Dimension, u types.ParametricCoordinate, n types.Derivative) ([][]float64, error) {
	kv := s.knotVectors[dim]
	span, err := kv.KnotSpan(u)
	if err != nil {
		return nil, err
	}
	return basis.NonZeroDerivatives(kv, span, s.degrees[dim], u, n), nil
}

// InsertKnot inserts u multiplicity times into the knot vector of dim.
func (s *Space) InsertKnot(dim types.Dimension, u types.ParametricCoordinate, multiplicity types.Multiplicity) error {
	for range multiplicity {
		if err := s.knotVectors[dim].InsertKnot(u); err != nil {
			return err
		}
	}
	return nil
}

// RemoveKnot removes u multiplicity times from the knot vector of dim.
func (s *Space) RemoveKnot(dim types.Dimension, u types.ParametricCoordinate, multiplicity types.Multiplicity) error {
	for range multiplicity {
		if err := s.knotVectors[dim].RemoveKnot(u); err != nil {
			return err
		}
	}
	return nil
}

// ElevateDegree raises the degree of dim by one and repeats every distinct
// knot once more.
func (s *Space) ElevateDegree(dim types.Dimension) {
	s.degrees[dim]++
	s.knotVectors[dim].IncrementMultiplicityOfAllKnots()
}

// ReduceDegree lowers the degree of dim by one and drops one occurrence of
// every distinct knot. Degree 0 cannot be reduced.
func (s *Space) ReduceDegree(dim types.Dimension) error {
	if s.degrees[dim] == 0 {
		return fmt.Errorf("%w: degree 0 cannot be reduced", types.ErrInvalidArgument)
	}
	if err := s.knotVectors[dim].DecrementMultiplicityOfAllKnots(); err != nil {
		return err
	}
	s.degrees[dim]--
	return nil
}

func (s *Space) IncrementMultiplicityOfAllKnots(dim types.Dimension) {
	s.knotVectors[dim].IncrementMultiplicityOfAllKnots()
}

func (s *Space) DecrementMultiplicityOfAllKnots(dim types.Dimension) error {
	return s.knotVectors[dim].DecrementMultiplicityOfAllKnots()
}

// ReplaceKnotVector swaps the knot vector of dim for kv, which must be
// clamped for the degree of dim.
func (s *Space) ReplaceKnotVector(dim types.Dimension, kv *knot.Vector) error {
	if err := checkClamped(kv, s.degrees[dim]); err != nil {
		return err
	}
	for d, other := range s.knotVectors {
		if d != int(dim) && other == kv {
			kv = kv.Clone()
			break
		}
	}
	s.knotVectors[dim] = kv
	return nil
}

// GrevilleAbscissae returns, for every basis function of dim, the average of
// the degree knots following its first knot. For degree 0 it is the
// midpoint of the support.
func (s *Space) GrevilleAbscissae(dim types.Dimension) []types.ParametricCoordinate {
	kv, p := s.knotVectors[dim], int(s.degrees[dim])
	n := kv.Len() - p - 1
	abscissae := make([]types.ParametricCoordinate, n)
	for i := range abscissae {
		if p == 0 {
			abscissae[i] = (kv.Knot(i) + kv.Knot(i+1)) / 2
			continue
		}
		var sum types.ParametricCoordinate
		for j := i + 1; j <= i+p; j++ {
			sum += kv.Knot(j)
		}
		abscissae[i] = sum / types.ParametricCoordinate(p)
	}
	return abscissae
}
