package types

import "errors"

// Sentinel errors shared by all spline packages. Errors returned by this
// module wrap one of them and can be matched with errors.Is.
var (
	// ErrInvalidArgument is returned for malformed construction inputs:
	// negative degrees, empty or decreasing knot sequences, control point
	// counts that don't match the point-count array, unknown dimensions.
	ErrInvalidArgument = errors.New("spline: invalid argument")

	// ErrOutOfRange is returned when a parametric coordinate lies outside
	// the domain of a knot vector.
	ErrOutOfRange = errors.New("spline: parametric coordinate out of range")

	// ErrMalformed is returned for a parameter space that cannot describe a
	// clamped spline, e.g. when the number of knots doesn't match degree
	// and number of control points.
	ErrMalformed = errors.New("spline: malformed parameter space")
)
