package make

import (
	"fmt"
	"math"

	"github.com/ungerik/go3d/float64/vec3"

	splinelib "github.com/mfcats/SplineLib-sub001"
	"github.com/mfcats/SplineLib-sub001/internal"
)

// intersectRays returns the parameter s of the point p0 + s*d0 closest to
// the line p1 + t*d1. For intersecting lines it is their intersection.
func intersectRays(p0, d0, p1, d1 *vec3.T) (float64, error) {
	a, b, c := vec3.Dot(d0, d0), vec3.Dot(d0, d1), vec3.Dot(d1, d1)
	w := vec3.Sub(p0, p1)
	d, e := vec3.Dot(d0, &w), vec3.Dot(d1, &w)

	denom := a*c - b*b
	if math.Abs(denom) < internal.Epsilon*a*c {
		return 0, fmt.Errorf("%w: parallel tangents", splinelib.ErrInvalidArgument)
	}
	return (b*e - c*d) / denom, nil
}

// closestPointOnAxis projects p onto the line through origin along axis.
func closestPointOnAxis(p, origin, axis *vec3.T) vec3.T {
	v := vec3.Sub(p, origin)
	s := axis.Scaled(vec3.Dot(&v, axis) / vec3.Dot(axis, axis))
	return vec3.Add(origin, &s)
}
