package splinelib

import (
	"fmt"
	"slices"

	"github.com/mfcats/SplineLib-sub001/knot"
	"github.com/mfcats/SplineLib-sub001/physical"
	"github.com/mfcats/SplineLib-sub001/types"
)

// elevationTolerance is the relative tolerance for removing the knots that
// degree elevation leaves behind. They are removable exactly, so it only
// absorbs rounding.
const elevationTolerance = 1e-9

// interiorKnots returns the distinct knots of kv without the two ends.
func interiorKnots(kv *knot.Vector) []knot.KnotMultiplicity {
	mults := kv.Multiplicities()
	if len(mults) < 2 {
		return nil
	}
	return mults[1 : len(mults)-1]
}

// decompose inserts every interior knot of dim up to multiplicity degree, so
// that the spline consists of Bezier segments along dim. It returns the
// interior knots with their multiplicities before the insertion.
func (s *spline) decompose(dim types.Dimension) ([]knot.KnotMultiplicity, error) {
	p := types.Multiplicity(s.param.Degree(dim))
	interior := slices.Clone(interiorKnots(s.param.KnotVector(dim)))
	for _, k := range interior {
		if k.Mult < p {
			if err := s.InsertKnot(k.Knot, dim, p-k.Mult); err != nil {
				return nil, err
			}
		}
	}
	Logger().Debug("splinelib: Bezier decomposition",
		"dimension", int(dim), "segments", len(interior)+1, "points", s.net.NumberOfPoints()[dim])
	return interior, nil
}

// joints reports for every interior knot of a decomposed knot vector whether
// the segments on either side share their end point. They don't at a knot
// of multiplicity degree+1.
func joints(kv *knot.Vector, p int) []bool {
	interior := interiorKnots(kv)
	shared := make([]bool, len(interior))
	for i, k := range interior {
		shared[i] = int(k.Mult) <= p
	}
	return shared
}

// segmentLength returns the number of points of a row of len(shared)+1
// segments of the given degree.
func segmentLength(shared []bool, degree int) int {
	n := (len(shared) + 1) * (degree + 1)
	for _, s := range shared {
		if s {
			n--
		}
	}
	return n
}

func splitSegments(row []physical.ControlPoint, degree int, shared []bool) [][]physical.ControlPoint {
	segments := make([][]physical.ControlPoint, 0, len(shared)+1)
	start := 0
	for j := 0; j <= len(shared); j++ {
		segments = append(segments, row[start:start+degree+1])
		if j == len(shared) {
			break
		}
		if shared[j] {
			start += degree
		} else {
			start += degree + 1
		}
	}
	return segments
}

func joinSegments(segments [][]physical.ControlPoint, shared []bool) []physical.ControlPoint {
	row := slices.Clone(segments[0])
	for j, segment := range segments[1:] {
		if shared[j] {
			segment = segment[1:]
		}
		row = append(row, segment...)
	}
	return row
}

// mapSegments decomposes every row along dim into Bezier segments, applies f
// to each and joins the results, which must have newDegree+1 points.
// Segments of degree 0 never share a point.
func (s *spline) mapSegments(dim types.Dimension, newDegree int, f func(*BezierSegment)) error {
	p := int(s.param.Degree(dim))
	shared := joints(s.param.KnotVector(dim), p)
	joined := shared
	if newDegree == 0 {
		joined = make([]bool, len(shared))
	}
	return s.mapFibres(dim, segmentLength(joined, newDegree), func(row []physical.ControlPoint) ([]physical.ControlPoint, error) {
		segments := splitSegments(row, p, shared)
		for j, points := range segments {
			b, err := NewBezierSegment(points)
			if err != nil {
				return nil, err
			}
			f(b)
			segments[j] = b.points
		}
		return joinSegments(segments, joined), nil
	})
}

// ElevateDegreeForDimension raises the degree of dim by one without changing
// the geometry. The continuity at every knot is preserved, so the
// multiplicity of every distinct knot grows by one.
// (corresponds to algorithm A5.9 from The NURBS book, Piegl & Tiller 2nd
// edition, by way of Bezier decomposition)
func (s *spline) ElevateDegreeForDimension(dim types.Dimension) error {
	if err := s.param.CheckDimension(dim); err != nil {
		return err
	}
	interior, err := s.decompose(dim)
	if err != nil {
		return err
	}
	p := s.param.Degree(dim)

	err = s.mapSegments(dim, int(p)+1, func(b *BezierSegment) { b.ElevateDegree() })
	if err != nil {
		return err
	}
	s.param.ElevateDegree(dim)

	tolerance := elevationTolerance * (1 + s.net.Expansion())
	for _, k := range interior {
		excess := max(k.Mult, types.Multiplicity(p)) - k.Mult
		if excess == 0 {
			continue
		}
		removed, err := s.RemoveKnot(k.Knot, dim, tolerance, excess)
		if err != nil {
			return err
		}
		if removed < int(excess) {
			Logger().Warn("splinelib: degree elevation left redundant knots",
				"knot", float64(k.Knot), "dimension", int(dim), "redundant", int(excess)-removed)
		}
	}
	return nil
}

// ReduceDegreeForDimension lowers the degree of dim by one if the spline moves
// by at most tolerance. Otherwise the spline is left as it was and false is
// returned. Degree 0 cannot be reduced; degree 1 reduces to a piecewise
// constant spline with one piece per knot span.
// (corresponds to algorithm A5.11 from The NURBS book, Piegl & Tiller 2nd
// edition, by way of Bezier decomposition)
//
// The knots of the reduced spline have one less multiplicity than before,
// but at least one, as long as the remaining tolerance allows their removal.
func (s *spline) ReduceDegreeForDimension(dim types.Dimension, tolerance float64) (bool, error) {
	if err := s.param.CheckDimension(dim); err != nil {
		return false, err
	}
	p := s.param.Degree(dim)
	if p < 1 {
		return false, fmt.Errorf("%w: cannot reduce degree %d", ErrInvalidArgument, p)
	}

	snapshot := s.snapshot()
	homogeneous := s.homogeneousTolerance(tolerance)

	interior, err := s.decompose(dim)
	if err != nil {
		s.restore(snapshot)
		return false, err
	}

	var bound float64
	err = s.mapSegments(dim, int(p)-1, func(b *BezierSegment) { bound = max(bound, b.ReduceDegree()) })
	if err != nil {
		s.restore(snapshot)
		return false, err
	}
	if bound > homogeneous {
		s.restore(snapshot)
		Logger().Debug("splinelib: degree reduction exceeds tolerance",
			"dimension", int(dim), "degree", int(p), "error", bound, "tolerance", homogeneous)
		return false, nil
	}
	if err := s.param.ReduceDegree(dim); err != nil {
		s.restore(snapshot)
		return false, err
	}
	if p == 1 {
		// interior knots of multiplicity one vanished, but every constant piece needs its own span
		for _, k := range interior {
			if k.Mult != 1 {
				continue
			}
			if err := s.param.InsertKnot(dim, k.Knot, 1); err != nil {
				s.restore(snapshot)
				return false, err
			}
		}
	}

	var remaining float64
	if homogeneous > 0 {
		remaining = tolerance * (1 - bound/homogeneous)
	}
	for _, k := range interior {
		current := max(k.Mult, types.Multiplicity(p)) - 1
		target := max(k.Mult-1, 1)
		if current <= target {
			continue
		}
		if _, err := s.RemoveKnot(k.Knot, dim, remaining, current-target); err != nil {
			s.restore(snapshot)
			return false, err
		}
	}
	return true, nil
}
