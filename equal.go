package splinelib

import (
	"errors"
	"math"

	"github.com/mfcats/SplineLib-sub001/multiindex"
	"github.com/mfcats/SplineLib-sub001/types"
)

// AreGeometricallyEqual samples s on a regular grid over its domain and
// reports whether rhs is within tolerance of s at every sample. Splines of
// different dimensions, or an rhs whose domain doesn't cover the samples, are
// not equal.
func (s *spline) AreGeometricallyEqual(rhs Spline, tolerance float64, opts ...SampleOption) (bool, error) {
	if rhs.ParametricDimensionality() != s.ParametricDimensionality() || rhs.Dimension() != s.Dimension() {
		return false, nil
	}

	o := defaultSampleOptions()
	for _, opt := range opts {
		opt(&o)
	}
	dimensionality := s.ParametricDimensionality()
	perAxis := o.samplesPerAxis
	if perAxis == 0 {
		perAxis = int(math.Ceil(math.Pow(float64(o.budget), 1/float64(dimensionality)))) + 1
	}

	lengths := make([]int, dimensionality)
	for d := range lengths {
		lengths[d] = perAxis
	}
	coords := make([]types.ParametricCoordinate, dimensionality)
	for _, indices := range multiindex.New(lengths...).All() {
		for d, i := range indices {
			kv := s.param.KnotVector(types.Dimension(d))
			coords[d] = kv.First() + kv.Domain()*types.ParametricCoordinate(i)/types.ParametricCoordinate(perAxis-1)
		}
		p, err := s.EvaluatePoint(coords)
		if err != nil {
			return false, err
		}
		q, err := rhs.EvaluatePoint(coords)
		if errors.Is(err, ErrOutOfRange) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if p.Distance(q) > tolerance {
			return false, nil
		}
	}
	return true, nil
}
