// Package physical stores the control points of a spline: plain points for
// B-splines, points with weights for NURBS. Points are laid out as a
// tensor-product array addressed through a [multiindex.Handler].
package physical

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/ungerik/go3d/float64/vec3"
)

// ControlPoint is an immutable point with a fixed number of coordinates.
// Arithmetic between points of different dimension panics.
type ControlPoint struct {
	coordinates []float64
}

func NewControlPoint(coordinates ...float64) ControlPoint {
	return ControlPoint{slices.Clone(coordinates)}
}

// Origin returns the point of the given dimension with all coordinates 0.
func Origin(dimension int) ControlPoint {
	return ControlPoint{make([]float64, dimension)}
}

// FromVec3 takes the first dimension coordinates of v.
func FromVec3(v vec3.T, dimension int) ControlPoint {
	if dimension > 3 {
		panic(fmt.Sprintf("physical: %d coordinates do not fit into a vec3", dimension))
	}
	return ControlPoint{slices.Clone(v[:dimension])}
}

func (p ControlPoint) Dimension() int {
	return len(p.coordinates)
}

func (p ControlPoint) Coordinate(i int) float64 {
	return p.coordinates[i]
}

// Coordinates returns a copy of the coordinates.
func (p ControlPoint) Coordinates() []float64 {
	return slices.Clone(p.coordinates)
}

// Vec3 embeds p into 3-space, padding missing coordinates with 0. It panics
// for points with more than three coordinates.
func (p ControlPoint) Vec3() vec3.T {
	if len(p.coordinates) > 3 {
		panic(fmt.Sprintf("physical: %d coordinates do not fit into a vec3", len(p.coordinates)))
	}
	var v vec3.T
	copy(v[:], p.coordinates)
	return v
}

func (p ControlPoint) mustMatch(q ControlPoint) {
	if len(p.coordinates) != len(q.coordinates) {
		panic(fmt.Sprintf("physical: dimension mismatch %d != %d", len(p.coordinates), len(q.coordinates)))
	}
}

func (p ControlPoint) Add(q ControlPoint) ControlPoint {
	p.mustMatch(q)
	out := make([]float64, len(p.coordinates))
	for i, c := range p.coordinates {
		out[i] = c + q.coordinates[i]
	}
	return ControlPoint{out}
}

func (p ControlPoint) Sub(q ControlPoint) ControlPoint {
	p.mustMatch(q)
	out := make([]float64, len(p.coordinates))
	for i, c := range p.coordinates {
		out[i] = c - q.coordinates[i]
	}
	return ControlPoint{out}
}

func (p ControlPoint) Scale(s float64) ControlPoint {
	out := make([]float64, len(p.coordinates))
	for i, c := range p.coordinates {
		out[i] = c * s
	}
	return ControlPoint{out}
}

// Lerp linearly interpolates between p and q: t = 0 gives p, t = 1 gives q.
func (p ControlPoint) Lerp(q ControlPoint, t float64) ControlPoint {
	p.mustMatch(q)
	out := make([]float64, len(p.coordinates))
	for i, c := range p.coordinates {
		out[i] = (1-t)*c + t*q.coordinates[i]
	}
	return ControlPoint{out}
}

// Norm returns the Euclidean length of p.
func (p ControlPoint) Norm() float64 {
	var sum float64
	for _, c := range p.coordinates {
		sum += c * c
	}
	return math.Sqrt(sum)
}

func (p ControlPoint) Distance(q ControlPoint) float64 {
	return p.Sub(q).Norm()
}

// MaxAbs returns the largest absolute coordinate.
func (p ControlPoint) MaxAbs() float64 {
	var m float64
	for _, c := range p.coordinates {
		m = max(m, math.Abs(c))
	}
	return m
}

// Homogenized returns (w*p, w), a point with one more coordinate.
func (p ControlPoint) Homogenized(w float64) ControlPoint {
	out := make([]float64, len(p.coordinates)+1)
	for i, c := range p.coordinates {
		out[i] = c * w
	}
	out[len(p.coordinates)] = w
	return ControlPoint{out}
}

// Dehomogenized is the inverse of Homogenized: it divides all but the last
// coordinate by the last one and returns the quotient and the weight.
func (p ControlPoint) Dehomogenized() (ControlPoint, float64) {
	n := len(p.coordinates) - 1
	w := p.coordinates[n]
	out := make([]float64, n)
	for i, c := range p.coordinates[:n] {
		out[i] = c / w
	}
	return ControlPoint{out}, w
}

// Equal compares coordinates within tolerance.
func (p ControlPoint) Equal(q ControlPoint, tolerance float64) bool {
	if len(p.coordinates) != len(q.coordinates) {
		return false
	}
	for i, c := range p.coordinates {
		if math.Abs(c-q.coordinates[i]) > tolerance {
			return false
		}
	}
	return true
}

func (p ControlPoint) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, c := range p.coordinates {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%g", c)
	}
	sb.WriteByte(')')
	return sb.String()
}
