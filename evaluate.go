package splinelib

import (
	"fmt"

	"github.com/ungerik/go3d/float64/vec3"

	"github.com/mfcats/SplineLib-sub001/internal"
	"github.com/mfcats/SplineLib-sub001/multiindex"
	"github.com/mfcats/SplineLib-sub001/physical"
	"github.com/mfcats/SplineLib-sub001/types"
)

// window walks the degree+1 basis functions per dimension that don't vanish
// at coords and calls visit with their global indices and the flat index of
// the matching control point.
func (s *spline) window(coords []types.ParametricCoordinate, visit func(indices []int, flat int)) error {
	first, err := s.param.FirstNonZeroBasisFunctions(coords)
	if err != nil {
		return err
	}
	lengths := make([]int, len(first))
	for d := range lengths {
		lengths[d] = s.param.Degree(types.Dimension(d)).Order()
	}
	numberOfPoints := s.net.NumberOfPoints()
	indices := make([]int, len(first))
	for _, local := range multiindex.New(lengths...).All() {
		for d, i := range local {
			indices[d] = first[d] + i
		}
		visit(indices, multiindex.Index1D(numberOfPoints, indices))
	}
	return nil
}

// clamp checks coords against the knot vectors and moves coordinates that
// are within Epsilon outside the domain onto its boundary.
func (s *spline) clamp(coords []types.ParametricCoordinate) ([]types.ParametricCoordinate, error) {
	if err := s.param.CheckRange(coords); err != nil {
		return nil, err
	}
	clamped := make([]types.ParametricCoordinate, len(coords))
	for d, u := range coords {
		kv := s.param.KnotVector(types.Dimension(d))
		clamped[d] = min(max(u, kv.First()), kv.Last())
	}
	return clamped, nil
}

// evaluateHomogeneous sums the homogeneous control points weighted by the
// tensor-product basis function derivatives of the given orders. A nil
// derivatives slice means the values.
func (s *spline) evaluateHomogeneous(coords []types.ParametricCoordinate, derivatives []types.Derivative) (physical.ControlPoint, error) {
	coords, err := s.clamp(coords)
	if err != nil {
		return physical.ControlPoint{}, err
	}
	var sum physical.ControlPoint
	homogeneousDimension := s.net.Dimension()
	if s.net.IsRational() {
		homogeneousDimension++
	}
	sum = physical.Origin(homogeneousDimension)

	err = s.window(coords, func(indices []int, flat int) {
		var n float64
		if derivatives == nil {
			n = s.param.BasisFunctions(indices, coords)
		} else {
			n = s.param.BasisFunctionDerivatives(indices, coords, derivatives)
		}
		if n != 0 {
			sum = sum.Add(s.net.HomogeneousPointAt(flat).Scale(n))
		}
	})
	return sum, err
}

// EvaluatePoint returns the point of the spline at coords. It fails with
// [ErrOutOfRange] if a coordinate lies outside its knot vector.
func (s *spline) EvaluatePoint(coords []types.ParametricCoordinate) (physical.ControlPoint, error) {
	h, err := s.evaluateHomogeneous(coords, nil)
	if err != nil {
		return physical.ControlPoint{}, err
	}
	if !s.net.IsRational() {
		return h, nil
	}
	p, _ := h.Dehomogenized()
	return p, nil
}

// Evaluate returns the requested coordinates of the point at coords.
func (s *spline) Evaluate(coords []types.ParametricCoordinate, dimensions []int) ([]float64, error) {
	p, err := s.EvaluatePoint(coords)
	if err != nil {
		return nil, err
	}
	return s.pick(p, dimensions)
}

func (s *spline) pick(p physical.ControlPoint, dimensions []int) ([]float64, error) {
	values := make([]float64, len(dimensions))
	for i, d := range dimensions {
		if d < 0 || d >= p.Dimension() {
			return nil, fmt.Errorf("%w: coordinate %d of a %d-dimensional spline", ErrInvalidArgument, d, p.Dimension())
		}
		values[i] = p.Coordinate(d)
	}
	return values, nil
}

// Point returns the point at coords embedded into 3-space.
func (s *spline) Point(coords ...types.ParametricCoordinate) (vec3.T, error) {
	if s.net.Dimension() > 3 {
		return vec3.T{}, fmt.Errorf("%w: %d-dimensional spline", ErrInvalidArgument, s.net.Dimension())
	}
	p, err := s.EvaluatePoint(coords)
	if err != nil {
		return vec3.T{}, err
	}
	return p.Vec3(), nil
}

// EvaluateDerivative returns the requested coordinates of the partial
// derivative of order derivatives[d] in every parametric dimension d.
//
// For a NURBS the derivatives of the homogeneous spline A and its weight W
// are combined by the quotient rule
//
//	S^(k) = (A^(k) - sum over 0 < j <= k of C(k,j) W^(j) S^(k-j)) / W
//
// with multi-indices j, k and C(k,j) the product of the binomial
// coefficients per dimension.
// (corresponds to eq. 4.20 from The NURBS book, Piegl & Tiller 2nd edition)
func (s *spline) EvaluateDerivative(coords []types.ParametricCoordinate, dimensions []int, derivatives []types.Derivative) ([]float64, error) {
	if len(derivatives) != s.param.Dimensionality() {
		return nil, fmt.Errorf("%w: %d derivative orders for %d parametric dimensions", ErrInvalidArgument, len(derivatives), s.param.Dimensionality())
	}
	for _, k := range derivatives {
		if k < 0 {
			return nil, fmt.Errorf("%w: derivative order %d", ErrInvalidArgument, k)
		}
	}
	if err := s.param.CheckRange(coords); err != nil {
		return nil, err
	}

	if !s.net.IsRational() {
		d, err := s.evaluateHomogeneous(coords, derivatives)
		if err != nil {
			return nil, err
		}
		return s.pick(d, dimensions)
	}

	d, err := s.rationalDerivative(coords, derivatives)
	if err != nil {
		return nil, err
	}
	return s.pick(d, dimensions)
}

func (s *spline) rationalDerivative(coords []types.ParametricCoordinate, derivatives []types.Derivative) (physical.ControlPoint, error) {
	lengths := make([]int, len(derivatives))
	for d, k := range derivatives {
		lengths[d] = int(k) + 1
	}
	orders := multiindex.New(lengths...)
	dimension := s.net.Dimension()

	// A^(j) and W^(j) for all j <= k
	cartesian := make([]physical.ControlPoint, orders.Len())
	weights := make([]float64, orders.Len())
	current := make([]types.Derivative, len(derivatives))
	for flat, j := range orders.All() {
		for d, o := range j {
			current[d] = types.Derivative(o)
		}
		h, err := s.evaluateHomogeneous(coords, current)
		if err != nil {
			return physical.ControlPoint{}, err
		}
		c := h.Coordinates()
		cartesian[flat] = physical.NewControlPoint(c[:dimension]...)
		weights[flat] = c[dimension]
	}

	// S^(j) in flat order: every l <= j comes before j
	results := make([]physical.ControlPoint, orders.Len())
	for flat, j := range orders.All() {
		v := cartesian[flat]
		inner := multiindex.New(addOne(j)...)
		for lFlat, l := range inner.All() {
			if lFlat == 0 {
				continue
			}
			coefficient := 1.0
			rest := make([]int, len(j))
			for d := range j {
				coefficient *= internal.Binomial(j[d], l[d])
				rest[d] = j[d] - l[d]
			}
			w := weights[multiindex.Index1D(lengths, l)]
			v = v.Sub(results[multiindex.Index1D(lengths, rest)].Scale(coefficient * w))
		}
		results[flat] = v.Scale(1 / weights[0])
	}
	return results[len(results)-1], nil
}

func addOne(j []int) []int {
	out := make([]int, len(j))
	for d, v := range j {
		out[d] = v + 1
	}
	return out
}
