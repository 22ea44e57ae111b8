package splinelib

import (
	"fmt"
	"slices"

	"github.com/mfcats/SplineLib-sub001/physical"
	"github.com/mfcats/SplineLib-sub001/types"
)

// BezierSegment is a single polynomial piece of a spline along one
// parametric dimension, given by its degree+1 homogeneous control points over
// the local parameter t in [0, 1].
type BezierSegment struct {
	points []physical.ControlPoint
}

// NewBezierSegment copies points into a segment of degree len(points)-1.
func NewBezierSegment(points []physical.ControlPoint) (*BezierSegment, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: Bezier segment without control points", ErrInvalidArgument)
	}
	for _, p := range points[1:] {
		if p.Dimension() != points[0].Dimension() {
			return nil, fmt.Errorf("%w: control points of different dimensions", ErrInvalidArgument)
		}
	}
	return &BezierSegment{points: slices.Clone(points)}, nil
}

func (b *BezierSegment) Degree() types.Degree {
	return types.Degree(len(b.points) - 1)
}

// Points returns a copy of the control points.
func (b *BezierSegment) Points() []physical.ControlPoint {
	return slices.Clone(b.points)
}

// Evaluate returns the point at t by repeated linear interpolation.
// (corresponds to algorithm A1.5 from The NURBS book, Piegl & Tiller 2nd edition)
func (b *BezierSegment) Evaluate(t float64) physical.ControlPoint {
	q := slices.Clone(b.points)
	for k := 1; k < len(q); k++ {
		for i := range len(q) - k {
			q[i] = q[i].Lerp(q[i+1], t)
		}
	}
	return q[0]
}

// ElevateDegree raises the degree by one without changing the curve.
// (corresponds to eq. 5.36 from The NURBS book, Piegl & Tiller 2nd edition)
func (b *BezierSegment) ElevateDegree() {
	p := len(b.points) - 1
	elevated := make([]physical.ControlPoint, p+2)
	elevated[0] = b.points[0]
	elevated[p+1] = b.points[p]
	for i := 1; i <= p; i++ {
		alpha := float64(i) / float64(p+1)
		elevated[i] = b.points[i].Lerp(b.points[i-1], alpha)
	}
	b.points = elevated
}

// ReduceDegree lowers the degree by one and returns a bound for the distance
// between the old and new curve. Points are computed from the left end up to
// r = (p-1)/2 and from the right end down to r+1; for odd degree both
// computations of point r are averaged.
// (corresponds to eq. 5.41 to 5.46 from The NURBS book, Piegl & Tiller 2nd edition)
//
// **returns**
// + the maximum deviation of the reduced segment, 0 if the segment was an
// elevated one
func (b *BezierSegment) ReduceDegree() float64 {
	p := len(b.points) - 1
	if p < 1 {
		panic("splinelib: cannot reduce a Bezier segment of degree 0")
	}
	pts := b.points
	reduced := make([]physical.ControlPoint, p)
	alpha := func(i int) float64 { return float64(i) / float64(p) }
	r := (p - 1) / 2

	left := func(i int) physical.ControlPoint {
		return pts[i].Sub(reduced[i-1].Scale(alpha(i))).Scale(1 / (1 - alpha(i)))
	}
	right := func(i int) physical.ControlPoint {
		return pts[i+1].Sub(reduced[i+1].Scale(1 - alpha(i+1))).Scale(1 / alpha(i+1))
	}

	reduced[0] = pts[0]
	reduced[p-1] = pts[p]
	for i := 1; i <= r; i++ {
		reduced[i] = left(i)
	}
	for i := p - 2; i > r; i-- {
		reduced[i] = right(i)
	}

	var bound float64
	if p%2 == 0 {
		bound = pts[r+1].Distance(reduced[r].Lerp(reduced[r+1], 0.5))
	} else {
		l := pts[0]
		if r > 0 {
			l = left(r)
		}
		rr := pts[p]
		if r < p-1 {
			rr = right(r)
		}
		bound = l.Distance(rr)
		reduced[r] = l.Lerp(rr, 0.5)
	}

	b.points = reduced
	return bound
}
