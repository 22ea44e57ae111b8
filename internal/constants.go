package internal

import "math"

// Epsilon is the fixed tolerance under which two knots or parametric
// coordinates are considered equal.
const Epsilon = 1e-10

// AreEqual reports whether a and b differ by less than tolerance.
func AreEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) < tolerance
}

// IsZero reports whether a is within Epsilon of zero.
func IsZero(a float64) bool {
	return math.Abs(a) < Epsilon
}
