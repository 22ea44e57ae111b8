package make

import (
	"fmt"

	"github.com/ungerik/go3d/float64/vec3"
	"gonum.org/v1/gonum/mat"

	splinelib "github.com/mfcats/SplineLib-sub001"
	"github.com/mfcats/SplineLib-sub001/basis"
	"github.com/mfcats/SplineLib-sub001/knot"
	"github.com/mfcats/SplineLib-sub001/physical"
	"github.com/mfcats/SplineLib-sub001/types"
)

// InterpolatedCurve returns the curve of the given degree through pts,
// parametrized by chord length with averaged knots.
// (corresponds to algorithm A9.1 from The NURBS book, Piegl & Tiller 2nd edition)
//
// **params**
// + at least degree+1 points
// + degree, at least 1
//
// **returns**
// + a B-spline over [0, 1] with one control point per point
func InterpolatedCurve(pts []vec3.T, degree int) (*splinelib.BSpline, error) {
	if degree < 1 || len(pts) < degree+1 {
		return nil, fmt.Errorf("%w: interpolation of degree %d through %d points", splinelib.ErrInvalidArgument, degree, len(pts))
	}
	params, err := chordParameters(pts)
	if err != nil {
		return nil, err
	}
	kv, err := knot.NewAveraged(params, types.Degree(degree))
	if err != nil {
		return nil, err
	}
	controlPoints, err := interpolate(toControlPoints(pts), params, kv, types.Degree(degree))
	if err != nil {
		return nil, err
	}
	return splinelib.NewBSplineCurve(types.Degree(degree), kv.Floats(), controlPoints)
}

// chordParameters returns the normalized accumulated chord lengths of pts.
func chordParameters(pts []vec3.T) ([]types.ParametricCoordinate, error) {
	params := make([]types.ParametricCoordinate, len(pts))
	for i := 1; i < len(pts); i++ {
		params[i] = params[i-1] + types.ParametricCoordinate(vec3.Distance(&pts[i-1], &pts[i]))
	}
	total := params[len(params)-1]
	if total == 0 {
		return nil, fmt.Errorf("%w: points of chord length 0", splinelib.ErrInvalidArgument)
	}
	for i := range params {
		params[i] /= total
	}
	params[len(params)-1] = 1
	return params, nil
}

// interpolate solves for the control points of the curve on kv that passes
// through points[k] at params[k]. Points may have any dimension, so
// homogeneous points interpolate rational curves.
func interpolate(points []physical.ControlPoint, params []types.ParametricCoordinate, kv *knot.Vector, degree types.Degree) ([]physical.ControlPoint, error) {
	n := len(points)
	a := mat.NewDense(n, n, nil)
	for k, u := range params {
		span, err := kv.KnotSpan(u)
		if err != nil {
			return nil, err
		}
		first := int(span) - int(degree)
		for j, v := range basis.NonZero(kv, span, degree, u) {
			a.Set(k, first+j, v)
		}
	}

	b := mat.NewDense(n, points[0].Dimension(), nil)
	for k, p := range points {
		b.SetRow(k, p.Coordinates())
	}

	var x mat.Dense
	if err := x.Solve(a, b); err != nil {
		return nil, fmt.Errorf("%w: interpolation system: %v", splinelib.ErrInvalidArgument, err)
	}

	controlPoints := make([]physical.ControlPoint, n)
	for k := range controlPoints {
		controlPoints[k] = physical.NewControlPoint(mat.Row(nil, k, &x)...)
	}
	return controlPoints, nil
}
