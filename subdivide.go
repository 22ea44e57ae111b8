package splinelib

import (
	"fmt"
	"slices"

	"github.com/mfcats/SplineLib-sub001/internal"
	"github.com/mfcats/SplineLib-sub001/knot"
	"github.com/mfcats/SplineLib-sub001/parameter"
	"github.com/mfcats/SplineLib-sub001/physical"
	"github.com/mfcats/SplineLib-sub001/types"
)

// Subdivide splits the spline at u along dim into the pieces over
// [First, u] and [u, Last]. s itself is not changed.
//
// **params**
// + parameter strictly inside the domain of dim
// + parametric dimension to split
//
// **returns**
// + the spline over [First, u] and the one over [u, Last], of the same kind
// as s
func (s *spline) Subdivide(u types.ParametricCoordinate, dim types.Dimension) (Spline, Spline, error) {
	if err := s.checkInterior(u, dim); err != nil {
		return nil, nil, err
	}
	c := s.clone().base()
	p := int(c.param.Degree(dim))
	kv := c.param.KnotVector(dim)
	if m := int(kv.Multiplicity(u)); m < p+1 {
		if err := c.InsertKnot(u, dim, types.Multiplicity(p+1-m)); err != nil {
			return nil, nil, err
		}
	}

	span, err := kv.KnotSpan(u)
	if err != nil {
		return nil, nil, err
	}
	// u occupies the knots a..a+p
	a := int(span) - p
	n := c.net.NumberOfPoints()[dim]

	left, err := c.slice(dim, 0, a, kv.Slice(0, a+p+1))
	if err != nil {
		return nil, nil, err
	}
	right, err := c.slice(dim, a, n, kv.Slice(a, kv.Len()))
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

// slice returns the spline made of the control points with indices in
// [from, to) along dim and the knot vector kv for dim.
func (s *spline) slice(dim types.Dimension, from, to int, kv *knot.Vector) (Spline, error) {
	kvs := make([]*knot.Vector, s.param.Dimensionality())
	for d := range kvs {
		if types.Dimension(d) == dim {
			kvs[d] = kv
		} else {
			kvs[d] = s.param.KnotVector(types.Dimension(d)).Clone()
		}
	}
	param, err := parameter.New(kvs, s.param.Degrees())
	if err != nil {
		return nil, err
	}
	piece := s.wrap(param, physical.Clone(s.net))
	err = piece.base().mapFibres(dim, to-from, func(row []physical.ControlPoint) ([]physical.ControlPoint, error) {
		return row[from:to], nil
	})
	if err != nil {
		return nil, err
	}
	return piece, nil
}

// BezierSegments splits the spline at every interior knot of dim. The
// pieces keep their parameter intervals.
func (s *spline) BezierSegments(dim types.Dimension) ([]Spline, error) {
	if err := s.param.CheckDimension(dim); err != nil {
		return nil, err
	}
	interior := interiorKnots(s.param.KnotVector(dim))
	segments := make([]Spline, 0, len(interior)+1)
	rest := s.clone()
	for _, k := range interior {
		left, right, err := rest.Subdivide(k.Knot, dim)
		if err != nil {
			return nil, err
		}
		segments = append(segments, left)
		rest = right
	}
	Logger().Debug("splinelib: Bezier segments", "dimension", int(dim), "segments", len(segments)+1)
	return append(segments, rest), nil
}

// Reverse flips the parametrization of dim: afterwards the spline at u is
// the old spline at First+Last-u.
func (s *spline) Reverse(dim types.Dimension) error {
	if err := s.param.CheckDimension(dim); err != nil {
		return err
	}
	kv := s.param.KnotVector(dim)
	kv.Assign(kv.Reversed())
	return s.mapFibres(dim, s.net.NumberOfPoints()[dim], func(row []physical.ControlPoint) ([]physical.ControlPoint, error) {
		reversed := slices.Clone(row)
		slices.Reverse(reversed)
		return reversed, nil
	})
}

// MakeCompatible brings splines to the same degree and knot vector along dim
// without changing their geometry: all are elevated to the highest degree
// among them, then every spline gets the knots of the others that it lacks.
// The splines must share the domain of dim and must not share knot vectors.
func MakeCompatible(splines []Spline, dim types.Dimension) error {
	if len(splines) < 2 {
		return nil
	}
	first := splines[0]
	for i, sp := range splines {
		if err := sp.ParameterSpace().CheckDimension(dim); err != nil {
			return fmt.Errorf("spline %d: %w", i, err)
		}
		kv, kv0 := sp.KnotVector(dim), first.KnotVector(dim)
		if !internal.AreEqual(float64(kv.First()), float64(kv0.First()), internal.Epsilon) ||
			!internal.AreEqual(float64(kv.Last()), float64(kv0.Last()), internal.Epsilon) {
			return fmt.Errorf("%w: spline %d has domain [%v, %v], want [%v, %v]",
				ErrInvalidArgument, i, kv.First(), kv.Last(), kv0.First(), kv0.Last())
		}
		for j := range i {
			if splines[j].KnotVector(dim) == kv {
				return fmt.Errorf("%w: splines %d and %d share a knot vector", ErrInvalidArgument, j, i)
			}
		}
	}

	var degree types.Degree
	for _, sp := range splines {
		degree = max(degree, sp.Degree(dim))
	}
	for _, sp := range splines {
		for sp.Degree(dim) < degree {
			if err := sp.ElevateDegreeForDimension(dim); err != nil {
				return err
			}
		}
	}

	union := first.KnotVector(dim).Clone()
	for _, sp := range splines[1:] {
		union = union.Union(sp.KnotVector(dim))
	}
	for _, sp := range splines {
		for _, u := range union.Difference(sp.KnotVector(dim)) {
			if err := sp.InsertKnot(u, dim, 1); err != nil {
				return err
			}
		}
	}
	return nil
}
