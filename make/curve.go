package make

import (
	"fmt"
	"math"

	"github.com/ungerik/go3d/float64/vec3"

	splinelib "github.com/mfcats/SplineLib-sub001"
)

// Arc returns a circular arc of the given radius in the plane spanned by the
// orthogonal unit vectors xaxis and yaxis, from startAngle to endAngle
// measured from xaxis.
func Arc(center, xaxis, yaxis *vec3.T, radius, startAngle, endAngle float64) (*splinelib.NURBS, error) {
	xaxisScaled, yaxisScaled := xaxis.Scaled(radius), yaxis.Scaled(radius)
	return EllipseArc(center, &xaxisScaled, &yaxisScaled, startAngle, endAngle)
}

// Circle returns the full circle of Arc.
func Circle(center, xaxis, yaxis *vec3.T, radius float64) (*splinelib.NURBS, error) {
	return Arc(center, xaxis, yaxis, radius, 0, 2*math.Pi)
}

// Ellipse returns the full ellipse of EllipseArc.
func Ellipse(center, xaxis, yaxis *vec3.T) (*splinelib.NURBS, error) {
	return EllipseArc(center, xaxis, yaxis, 0, 2*math.Pi)
}

// EllipseArc returns an elliptical arc as a quadratic NURBS made of up to
// four rational Bezier pieces of at most 90 degrees each.
// (corresponds to algorithm A7.1 from The NURBS book, Piegl & Tiller 2nd edition)
//
// **params**
// + the center
// + the x axis, scaled to the x radius
// + the y axis, orthogonal to the x axis and scaled to the y radius
// + start angle of the arc, where 0 points at the x axis
// + end angle of the arc; if it is less than the start angle the full
// ellipse is returned
//
// **returns**
// + a NURBS curve over [0, 1]
func EllipseArc(center, xaxis, yaxis *vec3.T, startAngle, endAngle float64) (*splinelib.NURBS, error) {
	if xaxis.Length() == 0 || yaxis.Length() == 0 {
		return nil, fmt.Errorf("%w: degenerate ellipse axes", splinelib.ErrInvalidArgument)
	}

	// if the end angle is less than the start angle, do a full turn
	if endAngle < startAngle {
		endAngle = 2.0*math.Pi + startAngle
	}

	theta := endAngle - startAngle
	if theta == 0 {
		return nil, fmt.Errorf("%w: arc of angle 0", splinelib.ErrInvalidArgument)
	}

	// how many arcs?
	var numArcs int
	switch {
	case theta <= math.Pi/2:
		numArcs = 1
	case theta <= math.Pi:
		numArcs = 2
	case theta <= 3*math.Pi/2:
		numArcs = 3
	default:
		numArcs = 4
	}

	dtheta := theta / float64(numArcs)
	w1 := math.Cos(dtheta / 2)

	// point and tangent of the ellipse at an angle
	point := func(angle float64) vec3.T {
		x, y := xaxis.Scaled(math.Cos(angle)), yaxis.Scaled(math.Sin(angle))
		offset := vec3.Add(&x, &y)
		return vec3.Add(center, &offset)
	}
	tangent := func(angle float64) vec3.T {
		x, y := xaxis.Scaled(-math.Sin(angle)), yaxis.Scaled(math.Cos(angle))
		return vec3.Add(&x, &y)
	}

	controlPoints := make([]vec3.T, 2*numArcs+1)
	weights := make([]float64, 2*numArcs+1)
	knots := make([]float64, 2*numArcs+4)

	P0, T0 := point(startAngle), tangent(startAngle)
	controlPoints[0] = P0
	weights[0] = 1

	angle := startAngle
	for i := 1; i <= numArcs; i++ {
		angle += dtheta
		P2, T2 := point(angle), tangent(angle)

		s, err := intersectRays(&P0, &T0, &P2, &T2)
		if err != nil {
			return nil, err
		}
		T0Scaled := T0.Scaled(s)

		controlPoints[2*i-1] = vec3.Add(&P0, &T0Scaled)
		weights[2*i-1] = w1
		controlPoints[2*i] = P2
		weights[2*i] = 1

		P0, T0 = P2, T2
	}

	for i := 0; i < 3; i++ {
		knots[i] = 0
		knots[len(knots)-1-i] = 1
	}
	for i := 1; i < numArcs; i++ {
		knots[2*i+1] = float64(i) / float64(numArcs)
		knots[2*i+2] = float64(i) / float64(numArcs)
	}

	return splinelib.NewNURBSCurve(2, knots, toControlPoints(controlPoints), weights)
}
