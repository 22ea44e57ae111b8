package basis

import (
	"github.com/mfcats/SplineLib-sub001/knot"
	"github.com/mfcats/SplineLib-sub001/types"
)

// NonZero computes the degree+1 basis functions that don't vanish on the
// given knot span, N(span-degree, degree) first.
// (corresponds to algorithm 2.2 from The NURBS book, Piegl & Tiller 2nd edition)
//
// **params**
// + knot vector
// + knot span index, as returned by [knot.Vector.KnotSpan]
// + degree of the basis functions
// + parameter
//
// **returns**
// + list of non-vanishing basis functions
func NonZero(kv *knot.Vector, span types.KnotSpan, degree types.Degree, u types.ParametricCoordinate) []float64 {
	knotSpanIndex, p, x := int(span), int(degree), float64(u)
	basisFunctions := make([]float64, p+1)
	left := make([]float64, p+1)
	right := make([]float64, p+1)

	basisFunctions[0] = 1

	for j := 1; j <= p; j++ {
		left[j] = x - float64(kv.Knot(knotSpanIndex+1-j))
		right[j] = float64(kv.Knot(knotSpanIndex+j)) - x
		var saved float64

		for r := 0; r < j; r++ {
			temp := basisFunctions[r] / (right[r+1] + left[j-r])
			basisFunctions[r] = saved + right[r+1]*temp
			saved = left[j-r] * temp
		}

		basisFunctions[j] = saved
	}

	return basisFunctions
}

// NonZeroDerivatives computes the non-vanishing basis functions on a knot
// span and their derivatives up to order n. Derivatives above the degree are
// zero.
// (corresponds to algorithm 2.3 from The NURBS book, Piegl & Tiller 2nd edition)
//
// **params**
// + knot vector
// + knot span index
// + degree
// + parameter
// + highest derivative order
//
// **returns**
// + 2d array of size (n+1, p+1). The k-th row holds the k-th derivatives; the
// first row is made up of the basis function values.
func NonZeroDerivatives(kv *knot.Vector, span types.KnotSpan, degree types.Degree, u types.ParametricCoordinate, n types.Derivative) [][]float64 {
	knotSpanIndex, p, x := int(span), int(degree), float64(u)
	ndu := zeros2d(p+1, p+1)

	left := make([]float64, p+1)
	right := make([]float64, p+1)

	ndu[0][0] = 1

	for j := 1; j <= p; j++ {
		left[j] = x - float64(kv.Knot(knotSpanIndex+1-j))
		right[j] = float64(kv.Knot(knotSpanIndex+j)) - x
		var saved float64

		for r := 0; r < j; r++ {
			ndu[j][r] = right[r+1] + left[j-r]
			temp := ndu[r][j-1] / ndu[j][r]

			ndu[r][j] = saved + right[r+1]*temp
			saved = left[j-r] * temp
		}
		ndu[j][j] = saved
	}

	ders := zeros2d(int(n)+1, p+1)
	du := min(int(n), p)

	for j := 0; j <= p; j++ {
		ders[0][j] = ndu[j][p]
	}

	a := zeros2d(2, p+1)
	var j1, j2 int

	for r := 0; r <= p; r++ {
		s1, s2 := 0, 1
		a[0][0] = 1

		for k := 1; k <= du; k++ {
			var d float64
			rk := r - k
			pk := p - k

			if r >= k {
				a[s2][0] = a[s1][0] / ndu[pk+1][rk]
				d = a[s2][0] * ndu[rk][pk]
			}

			if rk >= -1 {
				j1 = 1
			} else {
				j1 = -rk
			}

			if r-1 <= pk {
				j2 = k - 1
			} else {
				j2 = p - r
			}

			for j := j1; j <= j2; j++ {
				a[s2][j] = (a[s1][j] - a[s1][j-1]) / ndu[pk+1][rk+j]
				d += a[s2][j] * ndu[rk+j][pk]
			}

			if r <= pk {
				a[s2][k] = -a[s1][k-1] / ndu[pk+1][r]
				d += a[s2][k] * ndu[r][pk]
			}

			ders[k][r] = d

			s1, s2 = s2, s1
		}
	}

	acc := p
	for k := 1; k <= du; k++ {
		for j := 0; j <= p; j++ {
			ders[k][j] *= float64(acc)
		}
		acc *= (p - k)
	}

	return ders
}

func zeros2d(n, m int) [][]float64 {
	result := make([][]float64, n)
	for i := range result {
		result[i] = make([]float64, m)
	}

	return result
}
