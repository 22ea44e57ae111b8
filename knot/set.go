package knot

import (
	"math"

	"github.com/mfcats/SplineLib-sub001/internal"
	"github.com/mfcats/SplineLib-sub001/types"
)

// Union merges two knot vectors as sorted multisets: every knot value
// appears with the larger of its two multiplicities.
func (v *Vector) Union(rhs *Vector) *Vector {
	this, set := v.knots, rhs.knots
	merged := make([]types.ParametricCoordinate, 0, len(this)+len(set))

	var thisI, setI int
	for thisI < len(this) || setI < len(set) {
		if thisI >= len(this) {
			merged = append(merged, set[setI])
			setI++
			continue
		} else if setI >= len(set) {
			merged = append(merged, this[thisI])
			thisI++
			continue
		}

		diff := float64(this[thisI] - set[setI])

		if math.Abs(diff) < internal.Epsilon {
			merged = append(merged, this[thisI])
			thisI++
			setI++
			continue
		}

		if diff > 0.0 {
			// add the smaller
			merged = append(merged, set[setI])
			setI++
			continue
		}

		// thus diff < 0.0
		merged = append(merged, this[thisI])
		thisI++
	}

	return &Vector{knots: merged}
}

// Difference returns the knots of v that are not matched by a knot of rhs.
// v must be a superset of rhs, e.g. a Union that rhs took part in; the result
// is then the list of knots to insert into rhs to obtain v.
func (v *Vector) Difference(rhs *Vector) []types.ParametricCoordinate {
	this, set := v.knots, rhs.knots
	result := make([]types.ParametricCoordinate, 0)

	var thisI, setI int

	for thisI < len(this) {

		if setI >= len(set) {
			result = append(result, this[thisI])
			thisI++
			continue
		}

		if math.Abs(float64(this[thisI]-set[setI])) < internal.Epsilon {
			thisI++
			setI++
			continue
		}

		result = append(result, this[thisI])
		thisI++
	}

	return result
}
