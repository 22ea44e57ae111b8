package make

import (
	"fmt"

	"github.com/ungerik/go3d/float64/vec3"

	splinelib "github.com/mfcats/SplineLib-sub001"
	"github.com/mfcats/SplineLib-sub001/knot"
	"github.com/mfcats/SplineLib-sub001/parameter"
	"github.com/mfcats/SplineLib-sub001/physical"
	"github.com/mfcats/SplineLib-sub001/types"
)

// DefaultFourPointDegree is the degree of FourPointSurface in both
// parametric dimensions when none is given.
const DefaultFourPointDegree = 3

// FourPointSurface returns the bilinear patch spanned by four corners,
// elevated to the given degree in both parametric dimensions.
//
// **params**
// + first point in counter-clockwise order, at (0, 0)
// + second point, at (1, 0)
// + third point, at (1, 1)
// + fourth point, at (0, 1)
// + degree, at least 1
//
// **returns**
// + a B-spline surface over [0, 1] x [0, 1]
func FourPointSurface(p1, p2, p3, p4 *vec3.T, degree int) (*splinelib.BSpline, error) {
	if degree < 1 {
		return nil, fmt.Errorf("%w: four point surface of degree %d", splinelib.ErrInvalidArgument, degree)
	}

	kvs := make([]*knot.Vector, 2)
	for d := range kvs {
		kv, err := knot.FromFloats(0, 0, 1, 1)
		if err != nil {
			return nil, err
		}
		kvs[d] = kv
	}
	param, err := parameter.New(kvs, []types.Degree{1, 1})
	if err != nil {
		return nil, err
	}
	net, err := physical.NewSpace(toControlPoints([]vec3.T{*p1, *p2, *p4, *p3}), []int{2, 2})
	if err != nil {
		return nil, err
	}
	s, err := splinelib.NewBSpline(param, net)
	if err != nil {
		return nil, err
	}

	for dim := range types.Dimension(2) {
		for range degree - 1 {
			if err := s.ElevateDegreeForDimension(dim); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}
