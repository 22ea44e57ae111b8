package splinelib

import (
	"fmt"
	"iter"

	"github.com/ungerik/go3d/float64/vec3"

	"github.com/mfcats/SplineLib-sub001/knot"
	"github.com/mfcats/SplineLib-sub001/multiindex"
	"github.com/mfcats/SplineLib-sub001/parameter"
	"github.com/mfcats/SplineLib-sub001/physical"
	"github.com/mfcats/SplineLib-sub001/types"
)

// Spline is a tensor-product B-spline or NURBS with any number of
// parametric dimensions. *BSpline and *NURBS implement it.
//
// Splines are mutated in place by the refinement methods. The parameter and
// physical spaces passed to a constructor are shared, not copied; use Clone
// to take a snapshot.
type Spline interface {
	ParametricDimensionality() int
	// Dimension returns the number of coordinates of a point on the spline.
	Dimension() int
	IsRational() bool

	ParameterSpace() *parameter.Space
	PhysicalSpace() physical.Net
	KnotVector(dim types.Dimension) *knot.Vector
	Degree(dim types.Dimension) types.Degree
	NumberOfControlPoints() []int
	ControlPoint(indices ...int) physical.ControlPoint
	Weight(indices ...int) float64
	Expansion() float64

	Evaluate(coords []types.ParametricCoordinate, dimensions []int) ([]float64, error)
	EvaluatePoint(coords []types.ParametricCoordinate) (physical.ControlPoint, error)
	EvaluateDerivative(coords []types.ParametricCoordinate, dimensions []int, derivatives []types.Derivative) ([]float64, error)
	Point(coords ...types.ParametricCoordinate) (vec3.T, error)

	InsertKnot(u types.ParametricCoordinate, dim types.Dimension, multiplicity types.Multiplicity) error
	RemoveKnot(u types.ParametricCoordinate, dim types.Dimension, tolerance float64, multiplicity types.Multiplicity) (int, error)
	ElevateDegreeForDimension(dim types.Dimension) error
	ReduceDegreeForDimension(dim types.Dimension, tolerance float64) (bool, error)

	AreGeometricallyEqual(rhs Spline, tolerance float64, opts ...SampleOption) (bool, error)
	Subdivide(u types.ParametricCoordinate, dim types.Dimension) (Spline, Spline, error)
	BezierSegments(dim types.Dimension) ([]Spline, error)
	Reverse(dim types.Dimension) error

	base() *spline
}

// spline holds what BSpline and NURBS have in common. All algorithms work on
// the homogeneous form of the control points, so they serve both.
type spline struct {
	param *parameter.Space
	net   physical.Net
}

// BSpline is a polynomial spline.
type BSpline struct {
	spline
	space *physical.Space
}

// NURBS is a rational spline with one weight per control point.
type NURBS struct {
	spline
	space *physical.WeightedSpace
}

// NewBSpline combines a parameter space and a control net. It fails with
// [ErrMalformed] if the net does not have one point per basis function.
func NewBSpline(param *parameter.Space, net *physical.Space) (*BSpline, error) {
	if err := checkSpaces(param, net); err != nil {
		return nil, err
	}
	b := &BSpline{space: net}
	b.spline = spline{param: param, net: net}
	return b, nil
}

// NewNURBS is NewBSpline for a weighted control net.
func NewNURBS(param *parameter.Space, net *physical.WeightedSpace) (*NURBS, error) {
	if err := checkSpaces(param, net); err != nil {
		return nil, err
	}
	n := &NURBS{space: net}
	n.spline = spline{param: param, net: net}
	return n, nil
}

func checkSpaces(param *parameter.Space, net physical.Net) error {
	if err := net.Validate(); err != nil {
		return err
	}
	return param.CheckNumberOfPoints(net.NumberOfPoints())
}

// NewBSplineCurve builds a curve from plain knots and control points.
func NewBSplineCurve(degree types.Degree, knots []float64, points []physical.ControlPoint) (*BSpline, error) {
	param, err := curveParameterSpace(degree, knots)
	if err != nil {
		return nil, err
	}
	net, err := physical.NewSpace(points, []int{len(points)})
	if err != nil {
		return nil, err
	}
	return NewBSpline(param, net)
}

// NewNURBSCurve builds a rational curve from plain knots, control points and
// weights.
func NewNURBSCurve(degree types.Degree, knots []float64, points []physical.ControlPoint, weights []float64) (*NURBS, error) {
	param, err := curveParameterSpace(degree, knots)
	if err != nil {
		return nil, err
	}
	net, err := physical.NewWeightedSpace(points, weights, []int{len(points)})
	if err != nil {
		return nil, err
	}
	return NewNURBS(param, net)
}

func curveParameterSpace(degree types.Degree, knots []float64) (*parameter.Space, error) {
	kv, err := knot.FromFloats(knots...)
	if err != nil {
		return nil, err
	}
	return parameter.New([]*knot.Vector{kv}, []types.Degree{degree})
}

// wrap returns a spline of the same kind as s over the given spaces.
func (s *spline) wrap(param *parameter.Space, net physical.Net) Spline {
	switch net := net.(type) {
	case *physical.WeightedSpace:
		n := &NURBS{space: net}
		n.spline = spline{param: param, net: net}
		return n
	case *physical.Space:
		b := &BSpline{space: net}
		b.spline = spline{param: param, net: net}
		return b
	default:
		panic(fmt.Sprintf("splinelib: unknown control net %T", net))
	}
}

func (s *spline) base() *spline {
	return s
}

// Clone returns a deep copy of b.
func (b *BSpline) Clone() *BSpline {
	c, _ := b.clone().(*BSpline)
	return c
}

// Clone returns a deep copy of n.
func (n *NURBS) Clone() *NURBS {
	c, _ := n.clone().(*NURBS)
	return c
}

// Clone returns a deep copy of s.
func Clone(s Spline) Spline {
	return s.base().clone()
}

func (s *spline) clone() Spline {
	return s.wrap(s.param.Clone(), physical.Clone(s.net))
}

// ControlNet returns the control net of b.
func (b *BSpline) ControlNet() *physical.Space {
	return b.space
}

// ControlNet returns the weighted control net of n.
func (n *NURBS) ControlNet() *physical.WeightedSpace {
	return n.space
}

func (s *spline) ParametricDimensionality() int {
	return s.param.Dimensionality()
}

func (s *spline) Dimension() int {
	return s.net.Dimension()
}

func (s *spline) IsRational() bool {
	return s.net.IsRational()
}

func (s *spline) ParameterSpace() *parameter.Space {
	return s.param
}

func (s *spline) PhysicalSpace() physical.Net {
	return s.net
}

func (s *spline) KnotVector(dim types.Dimension) *knot.Vector {
	return s.param.KnotVector(dim)
}

func (s *spline) Degree(dim types.Dimension) types.Degree {
	return s.param.Degree(dim)
}

func (s *spline) NumberOfControlPoints() []int {
	return s.net.NumberOfPoints()
}

func (s *spline) ControlPoint(indices ...int) physical.ControlPoint {
	return s.net.ControlPoint(indices...)
}

func (s *spline) Weight(indices ...int) float64 {
	return s.net.Weight(indices...)
}

func (s *spline) Expansion() float64 {
	return s.net.Expansion()
}

// homogeneousPoints returns all control points in homogeneous form, flat.
func (s *spline) homogeneousPoints() []physical.ControlPoint {
	points := make([]physical.ControlPoint, s.net.Len())
	for i := range points {
		points[i] = s.net.HomogeneousPointAt(i)
	}
	return points
}

// mapFibres replaces every row of homogeneous control points along dim by
// f(row). f must return rows of newLength points.
func (s *spline) mapFibres(dim types.Dimension, newLength int, f func(row []physical.ControlPoint) ([]physical.ControlPoint, error)) error {
	old := s.homogeneousPoints()
	oldHandler := s.net.MultiIndex()

	numberOfPoints := s.net.NumberOfPoints()
	numberOfPoints[dim] = newLength
	newHandler := multiindex.New(numberOfPoints...)
	result := make([]physical.ControlPoint, newHandler.Len())

	next, stop := iter.Pull(newHandler.Fibres(dim))
	defer stop()
	for oldRow := range oldHandler.Fibres(dim) {
		row := make([]physical.ControlPoint, len(oldRow))
		for j, i := range oldRow {
			row[j] = old[i]
		}
		newRow, err := f(row)
		if err != nil {
			return err
		}
		if len(newRow) != newLength {
			panic(fmt.Sprintf("splinelib: fibre of %d points, want %d", len(newRow), newLength))
		}
		target, _ := next()
		for j, i := range target {
			result[i] = newRow[j]
		}
	}
	return s.net.SetHomogeneousPoints(numberOfPoints, result)
}

// fibres returns the rows of homogeneous control points along dim.
func (s *spline) fibres(dim types.Dimension) [][]physical.ControlPoint {
	old := s.homogeneousPoints()
	var rows [][]physical.ControlPoint
	for indices := range s.net.MultiIndex().Fibres(dim) {
		row := make([]physical.ControlPoint, len(indices))
		for j, i := range indices {
			row[j] = old[i]
		}
		rows = append(rows, row)
	}
	return rows
}

func (s *spline) minWeight() float64 {
	w := s.net.WeightAt(0)
	for i := range s.net.Len() {
		w = min(w, s.net.WeightAt(i))
	}
	return w
}

// homogeneousTolerance converts a tolerance on the spline into one on its
// homogeneous control points.
// (corresponds to eq. 5.30 from The NURBS book, Piegl & Tiller 2nd edition)
func (s *spline) homogeneousTolerance(tolerance float64) float64 {
	if !s.net.IsRational() {
		return tolerance
	}
	return tolerance * s.minWeight() / (1 + s.net.Expansion())
}

// snapshot returns a deep copy of the spaces of s.
func (s *spline) snapshot() *spline {
	return &spline{param: s.param.Clone(), net: physical.Clone(s.net)}
}

// restore copies the state of a snapshot back into the spaces of s, so that
// splines sharing them see the rollback too.
func (s *spline) restore(snapshot *spline) {
	s.param.Assign(snapshot.param)
	physical.Assign(s.net, snapshot.net)
}
