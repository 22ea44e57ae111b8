// Package splinelib evaluates and refines tensor-product B-splines and NURBS
// with any number of parametric dimensions: curves, surfaces, volumes and
// beyond.
//
// A spline combines a [parameter.Space] (one knot vector and degree per
// parametric dimension) with a control net from package physical. Both
// variants, [BSpline] and [NURBS], implement [Spline]:
//
//	s, err := splinelib.NewBSplineCurve(2,
//	    []float64{0, 0, 0, 1, 2, 3, 4, 4, 5, 5, 5},
//	    points)
//	x, err := s.Evaluate(types.Coordinates(2.5), []int{0})
//
// The refinement operations (knot insertion and removal, degree elevation
// and reduction) change a spline in place and keep its geometry, exactly or
// within a caller tolerance. Errors wrap [ErrInvalidArgument],
// [ErrOutOfRange] or [ErrMalformed].
//
// The algorithms follow The NURBS Book by Piegl and Tiller (2nd edition).
package splinelib
