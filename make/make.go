// Package make constructs common curves and surfaces as splines in
// 3-space: lines, polylines, Bezier and interpolated curves, conic arcs, and
// surfaces made by extruding, revolving, lofting or sweeping profile curves.
package make

import (
	"fmt"
	"slices"

	"github.com/ungerik/go3d/float64/vec3"

	splinelib "github.com/mfcats/SplineLib-sub001"
	"github.com/mfcats/SplineLib-sub001/knot"
	"github.com/mfcats/SplineLib-sub001/parameter"
	"github.com/mfcats/SplineLib-sub001/physical"
	"github.com/mfcats/SplineLib-sub001/types"
)

func toControlPoints(pts []vec3.T) []physical.ControlPoint {
	out := make([]physical.ControlPoint, len(pts))
	for i, p := range pts {
		out[i] = physical.FromVec3(p, 3)
	}
	return out
}

// surfaceSpaces builds the parameter space and control net of a surface.
// pts and weights are flat with the first parametric dimension varying
// fastest.
func surfaceSpaces(degrees [2]types.Degree, knots [2][]float64, pts []vec3.T, weights []float64) (*parameter.Space, *physical.WeightedSpace, error) {
	kvs := make([]*knot.Vector, 2)
	for d := range kvs {
		kv, err := knot.FromFloats(knots[d]...)
		if err != nil {
			return nil, nil, err
		}
		kvs[d] = kv
	}
	param, err := parameter.New(kvs, degrees[:])
	if err != nil {
		return nil, nil, err
	}
	numberOfPoints := param.NumberOfBasisFunctions()
	net, err := physical.NewWeightedSpace(toControlPoints(pts), weights, numberOfPoints)
	if err != nil {
		return nil, nil, err
	}
	return param, net, nil
}

func newSurface(degrees [2]types.Degree, knots [2][]float64, pts []vec3.T, weights []float64) (*splinelib.NURBS, error) {
	param, net, err := surfaceSpaces(degrees, knots, pts, weights)
	if err != nil {
		return nil, err
	}
	return splinelib.NewNURBS(param, net)
}

// profileOf reads the control points, weights, knots and degree of a curve
// in at most three dimensions.
func profileOf(profile splinelib.Spline) (pts []vec3.T, weights, knots []float64, degree types.Degree, err error) {
	if profile.ParametricDimensionality() != 1 || profile.Dimension() > 3 {
		return nil, nil, nil, 0, fmt.Errorf("%w: profile must be a curve in at most 3 dimensions, not %d-dimensional in %d-space",
			splinelib.ErrInvalidArgument, profile.ParametricDimensionality(), profile.Dimension())
	}
	n := profile.NumberOfControlPoints()[0]
	pts = make([]vec3.T, n)
	weights = make([]float64, n)
	for i := range n {
		pts[i] = profile.ControlPoint(i).Vec3()
		weights[i] = profile.Weight(i)
	}
	return pts, weights, slices.Clone(profile.KnotVector(0).Floats()), profile.Degree(0), nil
}
