package make

import (
	"fmt"

	"github.com/ungerik/go3d/float64/vec3"

	splinelib "github.com/mfcats/SplineLib-sub001"
	"github.com/mfcats/SplineLib-sub001/types"
)

// ExtrudedSurface sweeps a profile curve along a straight line. The first
// parametric dimension runs along the extrusion with degree 1, the second
// follows the profile.
//
// **params**
// + axis of the extrusion
// + length of the extrusion
// + a curve in at most 3 dimensions
//
// **returns**
// + a NURBS surface carrying the profile at u = 0 and its translate at u = 1
func ExtrudedSurface(axis *vec3.T, length float64, profile splinelib.Spline) (*splinelib.NURBS, error) {
	profControlPoints, profWeights, profKnots, profDegree, err := profileOf(profile)
	if err != nil {
		return nil, err
	}
	if axis.Length() == 0 || length == 0 {
		return nil, fmt.Errorf("%w: extrusion of length 0", splinelib.ErrInvalidArgument)
	}

	translation := axis.Scaled(length)

	controlPoints := make([]vec3.T, 2*len(profControlPoints))
	weights := make([]float64, 2*len(profControlPoints))
	for j := range profControlPoints {
		controlPoints[2*j] = profControlPoints[j]
		controlPoints[2*j+1] = vec3.Add(&profControlPoints[j], &translation)
		weights[2*j] = profWeights[j]
		weights[2*j+1] = profWeights[j]
	}

	return newSurface(
		[2]types.Degree{1, profDegree},
		[2][]float64{{0, 0, 1, 1}, profKnots},
		controlPoints, weights,
	)
}

// CylindricalSurface returns the side of a cylinder.
//
// **params**
// + normalized axis of the cylinder
// + x axis in the base plane, orthogonal to the axis
// + center of the base
// + height from base to top
// + radius of the cylinder
func CylindricalSurface(axis, xaxis, base *vec3.T, height, radius float64) (*splinelib.NURBS, error) {
	yaxis := vec3.Cross(axis, xaxis)
	circ, err := Circle(base, xaxis, &yaxis, radius)
	if err != nil {
		return nil, err
	}
	return ExtrudedSurface(axis, height, circ)
}
