package make

import (
	"fmt"

	"github.com/ungerik/go3d/float64/vec3"

	splinelib "github.com/mfcats/SplineLib-sub001"
	"github.com/mfcats/SplineLib-sub001/types"
)

// Line returns the straight segment from first to last over [0, 1].
func Line(first, last *vec3.T) (*splinelib.BSpline, error) {
	return Polyline([]vec3.T{*first, *last})
}

// Polyline returns the degree 1 curve through pts, parametrized by chord
// length over [0, 1].
//
// **params**
// + at least two points, not all equal
//
// **returns**
// + a B-spline with one knot per point
func Polyline(pts []vec3.T) (*splinelib.BSpline, error) {
	if len(pts) < 2 {
		return nil, fmt.Errorf("%w: polyline through %d points", splinelib.ErrInvalidArgument, len(pts))
	}
	knots := make([]float64, len(pts)+2)

	var lsum float64
	for i := 0; i < len(pts)-1; i++ {
		lsum += vec3.Distance(&pts[i], &pts[i+1])
		knots[i+2] = lsum
	}
	knots[len(knots)-1] = lsum
	if lsum == 0 {
		return nil, fmt.Errorf("%w: polyline of length 0", splinelib.ErrInvalidArgument)
	}

	// normalize the knot array
	for i := range knots {
		knots[i] /= lsum
	}

	return splinelib.NewBSplineCurve(1, knots, toControlPoints(pts))
}

// BezierCurve returns the Bezier curve of degree len(pts)-1 over [0, 1].
func BezierCurve(pts []vec3.T) (*splinelib.BSpline, error) {
	if len(pts) == 0 {
		return nil, fmt.Errorf("%w: Bezier curve without control points", splinelib.ErrInvalidArgument)
	}
	degree := len(pts) - 1

	knots := make([]float64, 2*degree+2)
	for i := degree + 1; i < len(knots); i++ {
		knots[i] = 1
	}

	return splinelib.NewBSplineCurve(types.Degree(degree), knots, toControlPoints(pts))
}
