package make

import (
	"fmt"
	"math"

	"github.com/ungerik/go3d/float64/vec3"

	splinelib "github.com/mfcats/SplineLib-sub001"
	"github.com/mfcats/SplineLib-sub001/internal"
	"github.com/mfcats/SplineLib-sub001/types"
)

// RevolvedSurface revolves a profile curve about an axis.
// (corresponds to algorithm A8.1 from The NURBS book, Piegl & Tiller 2nd edition)
//
// The first parametric dimension runs around the axis as a quadratic made of
// up to four rational arcs, the second follows the profile.
//
// **params**
// + a curve in at most 3 dimensions
// + a point on the rotation axis
// + direction of the rotation axis
// + angle to revolve around the axis, in (0, 2pi]
//
// **returns**
// + a NURBS surface carrying the profile at u = 0
func RevolvedSurface(profile splinelib.Spline, center, axis *vec3.T, theta float64) (*splinelib.NURBS, error) {
	profControlPoints, profWeights, profKnots, profDegree, err := profileOf(profile)
	if err != nil {
		return nil, err
	}
	if axis.Length() == 0 {
		return nil, fmt.Errorf("%w: rotation axis of length 0", splinelib.ErrInvalidArgument)
	}
	if theta <= 0 || theta > 2*math.Pi+internal.Epsilon {
		return nil, fmt.Errorf("%w: revolution angle %v outside (0, 2pi]", splinelib.ErrInvalidArgument, theta)
	}
	direction := axis.Normalized()

	var narcs int
	switch {
	case theta <= math.Pi/2:
		narcs = 1
	case theta <= math.Pi:
		narcs = 2
	case theta <= 3*math.Pi/2:
		narcs = 3
	default:
		narcs = 4
	}

	knotsU := make([]float64, 2*narcs+4)
	for i := 1; i < narcs; i++ {
		knotsU[2*i+1] = float64(i) / float64(narcs)
		knotsU[2*i+2] = float64(i) / float64(narcs)
	}
	for i := 0; i < 3; i++ {
		knotsU[len(knotsU)-1-i] = 1
	}

	dtheta := theta / float64(narcs)
	wm := math.Cos(dtheta / 2)

	sines, cosines := make([]float64, narcs+1), make([]float64, narcs+1)
	var angle float64
	for i := 1; i <= narcs; i++ {
		angle += dtheta
		cosines[i] = math.Cos(angle)
		sines[i] = math.Sin(angle)
	}

	// the revolution index varies fastest
	nrev := 2*narcs + 1
	controlPoints := make([]vec3.T, nrev*len(profControlPoints))
	weights := make([]float64, nrev*len(profControlPoints))

	for j := range profControlPoints {
		row := j * nrev

		// closest point of the generatrix point on the axis
		O := closestPointOnAxis(&profControlPoints[j], center, &direction)
		X := vec3.Sub(&profControlPoints[j], &O)
		r := X.Length()
		Y := vec3.Cross(&direction, &X)
		if r > internal.Epsilon {
			X.Scale(1 / r)
			Y.Scale(1 / r)
		}

		controlPoints[row] = profControlPoints[j]
		weights[row] = profWeights[j]

		P0, T0 := profControlPoints[j], Y
		for i := 1; i <= narcs; i++ {
			index := row + 2*i

			// O + r*cos*X + r*sin*Y
			var P2 vec3.T
			if r <= internal.Epsilon {
				P2 = O
			} else {
				xCompon := X.Scaled(r * cosines[i])
				yCompon := Y.Scaled(r * sines[i])
				offset := vec3.Add(&xCompon, &yCompon)
				P2 = vec3.Add(&O, &offset)
			}
			controlPoints[index] = P2
			weights[index] = profWeights[j]

			// tangent to the rotation at P2
			yCompon := Y.Scaled(cosines[i])
			xCompon := X.Scaled(sines[i])
			T2 := vec3.Sub(&yCompon, &xCompon)

			if r <= internal.Epsilon {
				controlPoints[index-1] = O
			} else {
				s, err := intersectRays(&P0, &T0, &P2, &T2)
				if err != nil {
					return nil, err
				}
				T0Scaled := T0.Scaled(s)
				controlPoints[index-1] = vec3.Add(&P0, &T0Scaled)
			}
			weights[index-1] = wm * profWeights[j]

			P0, T0 = P2, T2
		}
	}

	return newSurface(
		[2]types.Degree{2, profDegree},
		[2][]float64{knotsU, profKnots},
		controlPoints, weights,
	)
}

// SphericalSurface returns a sphere as a half circle revolved about the
// axis.
//
// **params**
// + the center of the sphere
// + normalized axis of the sphere
// + vector perpendicular to the axis, starting the rotation
// + radius of the sphere
func SphericalSurface(center, axis, xaxis *vec3.T, radius float64) (*splinelib.NURBS, error) {
	invAxis := axis.Inverted()
	arc, err := Arc(center, &invAxis, xaxis, radius, 0, math.Pi)
	if err != nil {
		return nil, err
	}
	return RevolvedSurface(arc, center, axis, 2*math.Pi)
}

// ConicalSurface returns the side of a cone.
//
// **params**
// + normalized axis of the cone
// + vector perpendicular to the axis, starting the rotation
// + center of the base
// + height from base to tip
// + radius at the base
func ConicalSurface(axis, xaxis, base *vec3.T, height, radius float64) (*splinelib.NURBS, error) {
	heightCompon := axis.Scaled(height)
	radiusCompon := xaxis.Scaled(radius)
	tip, rim := vec3.Add(base, &heightCompon), vec3.Add(base, &radiusCompon)

	prof, err := Line(&tip, &rim)
	if err != nil {
		return nil, err
	}
	return RevolvedSurface(prof, base, axis, 2*math.Pi)
}
