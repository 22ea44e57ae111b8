// Package types holds the named scalar types shared by all spline packages.
// They keep semantically distinct numbers apart: a parametric coordinate is
// not a physical coordinate, and a knot span is not a multiplicity.
package types

import "fmt"

// ParametricCoordinate is a position in parameter space, i.e. a value
// comparable to the knots of a knot vector.
type ParametricCoordinate float64

// Degree is the polynomial degree of the basis functions in one parametric
// dimension.
type Degree int

// NoBasisFunction is the degree one below zero. A basis function of this
// degree is identically zero; it terminates the Cox-de Boor recursion.
const NoBasisFunction Degree = -1

// KnotSpan is the index i of the half-open knot interval [knot[i], knot[i+1]).
type KnotSpan int

// Multiplicity is the number of times a knot value is repeated.
type Multiplicity int

// Derivative is the order of a derivative.
type Derivative int

// Dimension indexes a parametric dimension of a spline.
type Dimension int

// Validate accepts non-negative degrees and the NoBasisFunction sentinel.
func (d Degree) Validate() error {
	if d < NoBasisFunction {
		return fmt.Errorf("%w: degree %d is below %d", ErrInvalidArgument, d, NoBasisFunction)
	}
	return nil
}

// ValidateNonNegative accepts only degrees a spline can have.
func (d Degree) ValidateNonNegative() error {
	if d < 0 {
		return fmt.Errorf("%w: degree %d is negative", ErrInvalidArgument, d)
	}
	return nil
}

// Order returns degree+1, the number of basis functions that are non-zero on
// a knot span.
func (d Degree) Order() int {
	return int(d) + 1
}

// Floats converts parametric coordinates to plain floats.
func Floats(coords []ParametricCoordinate) []float64 {
	out := make([]float64, len(coords))
	for i, c := range coords {
		out[i] = float64(c)
	}
	return out
}

// Coordinates converts plain floats to parametric coordinates.
func Coordinates(values ...float64) []ParametricCoordinate {
	out := make([]ParametricCoordinate, len(values))
	for i, v := range values {
		out[i] = ParametricCoordinate(v)
	}
	return out
}
