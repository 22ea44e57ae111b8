package physical

import (
	"fmt"
	"slices"

	"github.com/ungerik/go3d/float64/mat4"

	"github.com/mfcats/SplineLib-sub001/multiindex"
	"github.com/mfcats/SplineLib-sub001/types"
)

// Net is the control net of a spline. Both Space and WeightedSpace
// implement it.
//
// The homogeneous form of a point is what the refinement algorithms work on:
// the point itself for a Space, (w*x, w) for a WeightedSpace.
type Net interface {
	// Dimension returns the number of coordinates of a control point.
	Dimension() int
	// NumberOfPoints returns the number of points per parametric dimension.
	NumberOfPoints() []int
	// Len returns the total number of points.
	Len() int
	IsRational() bool

	ControlPoint(indices ...int) ControlPoint
	ControlPointAt(i int) ControlPoint
	SetControlPoint(indices []int, p ControlPoint) error
	Weight(indices ...int) float64
	WeightAt(i int) float64

	HomogeneousPointAt(i int) ControlPoint
	// SetHomogeneousPoints replaces all points. It fails with
	// [types.ErrInvalidArgument] if the count or dimension of points does
	// not fit.
	SetHomogeneousPoints(numberOfPoints []int, points []ControlPoint) error

	SetNumberOfPoints(dim types.Dimension, n int)
	AddControlPoints(n int)
	RemoveControlPoints(n int)
	// Validate checks that the point count matches NumberOfPoints.
	Validate() error

	// Expansion returns the largest absolute coordinate of all points.
	Expansion() float64
	// Transform applies an affine transformation to the points of a net of
	// at most three dimensions. Weights are kept.
	Transform(m *mat4.T) error
	BoundingBox() *BoundingBox
	MultiIndex() *multiindex.Handler
}

// Space is the control net of a B-spline.
type Space struct {
	dimension      int
	numberOfPoints []int
	points         []ControlPoint
}

// NewSpace returns a net over points laid out with numberOfPoints[d] points
// in parametric dimension d, dimension 0 varying fastest.
func NewSpace(points []ControlPoint, numberOfPoints []int) (*Space, error) {
	if len(numberOfPoints) == 0 {
		return nil, fmt.Errorf("%w: no parametric dimension", types.ErrInvalidArgument)
	}
	if err := checkCount(numberOfPoints, len(points)); err != nil {
		return nil, err
	}
	dimension := points[0].Dimension()
	if dimension == 0 {
		return nil, fmt.Errorf("%w: control points without coordinates", types.ErrInvalidArgument)
	}
	for i, p := range points {
		if p.Dimension() != dimension {
			return nil, fmt.Errorf("%w: control point %d has %d coordinates, want %d",
				types.ErrInvalidArgument, i, p.Dimension(), dimension)
		}
	}
	return &Space{
		dimension:      dimension,
		numberOfPoints: slices.Clone(numberOfPoints),
		points:         slices.Clone(points),
	}, nil
}

func checkCount(numberOfPoints []int, count int) error {
	total := 1
	for d, n := range numberOfPoints {
		if n < 1 {
			return fmt.Errorf("%w: %d points in dimension %d", types.ErrInvalidArgument, n, d)
		}
		total *= n
	}
	if total != count {
		return fmt.Errorf("%w: %d control points for a %v net", types.ErrInvalidArgument, count, numberOfPoints)
	}
	return nil
}

func (s *Space) Clone() *Space {
	return &Space{
		dimension:      s.dimension,
		numberOfPoints: slices.Clone(s.numberOfPoints),
		points:         slices.Clone(s.points),
	}
}

func (s *Space) Dimension() int {
	return s.dimension
}

func (s *Space) NumberOfPoints() []int {
	return slices.Clone(s.numberOfPoints)
}

func (s *Space) Len() int {
	return len(s.points)
}

func (s *Space) IsRational() bool {
	return false
}

func (s *Space) MultiIndex() *multiindex.Handler {
	return multiindex.New(s.numberOfPoints...)
}

func (s *Space) ControlPoint(indices ...int) ControlPoint {
	return s.points[multiindex.Index1D(s.numberOfPoints, indices)]
}

func (s *Space) ControlPointAt(i int) ControlPoint {
	return s.points[i]
}

// Points returns a copy of all points in flat order.
func (s *Space) Points() []ControlPoint {
	return slices.Clone(s.points)
}

func (s *Space) SetControlPoint(indices []int, p ControlPoint) error {
	if p.Dimension() != s.dimension {
		return fmt.Errorf("%w: point with %d coordinates in a %d-dimensional net", types.ErrInvalidArgument, p.Dimension(), s.dimension)
	}
	i, err := s.flatIndex(indices)
	if err != nil {
		return err
	}
	s.points[i] = p
	return nil
}

func (s *Space) flatIndex(indices []int) (int, error) {
	if len(indices) != len(s.numberOfPoints) {
		return 0, fmt.Errorf("%w: %d indices for %d parametric dimensions", types.ErrInvalidArgument, len(indices), len(s.numberOfPoints))
	}
	for d, i := range indices {
		if i < 0 || i >= s.numberOfPoints[d] {
			return 0, fmt.Errorf("%w: index %d not in [0, %d)", types.ErrOutOfRange, i, s.numberOfPoints[d])
		}
	}
	return multiindex.Index1D(s.numberOfPoints, indices), nil
}

// Weight is 1 for every point of a B-spline net.
func (s *Space) Weight(indices ...int) float64 {
	return 1
}

func (s *Space) WeightAt(i int) float64 {
	return 1
}

func (s *Space) HomogeneousPointAt(i int) ControlPoint {
	return s.points[i]
}

func (s *Space) SetHomogeneousPoints(numberOfPoints []int, points []ControlPoint) error {
	if err := checkCount(numberOfPoints, len(points)); err != nil {
		return err
	}
	for _, p := range points {
		if p.Dimension() != s.dimension {
			return fmt.Errorf("%w: point with %d coordinates in a %d-dimensional net", types.ErrInvalidArgument, p.Dimension(), s.dimension)
		}
	}
	s.numberOfPoints = slices.Clone(numberOfPoints)
	s.points = slices.Clone(points)
	return nil
}

// SetNumberOfPoints changes the point count of one parametric dimension.
// The caller restores the point count with AddControlPoints or
// RemoveControlPoints.
func (s *Space) SetNumberOfPoints(dim types.Dimension, n int) {
	s.numberOfPoints[dim] = n
}

// AddControlPoints appends n points at the origin.
func (s *Space) AddControlPoints(n int) {
	for range n {
		s.points = append(s.points, Origin(s.dimension))
	}
}

// RemoveControlPoints drops the last n points.
func (s *Space) RemoveControlPoints(n int) {
	s.points = s.points[:len(s.points)-n]
}

func (s *Space) Validate() error {
	if err := checkCount(s.numberOfPoints, len(s.points)); err != nil {
		return fmt.Errorf("%w: %w", types.ErrMalformed, err)
	}
	return nil
}

func (s *Space) Expansion() float64 {
	var expansion float64
	for _, p := range s.points {
		expansion = max(expansion, p.MaxAbs())
	}
	return expansion
}

func (s *Space) Transform(m *mat4.T) error {
	if s.dimension > 3 {
		return fmt.Errorf("%w: cannot transform %d-dimensional points", types.ErrInvalidArgument, s.dimension)
	}
	for i, p := range s.points {
		v := p.Vec3()
		s.points[i] = FromVec3(m.MulVec3(&v), s.dimension)
	}
	return nil
}

// BoundingBox returns the box around all control points. By the convex hull
// property it contains the whole spline.
func (s *Space) BoundingBox() *BoundingBox {
	return new(BoundingBox).AddRange(s.points)
}

// WeightedSpace is the control net of a NURBS: a Space with one positive
// weight per point.
type WeightedSpace struct {
	Space
	weights []float64
}

// NewWeightedSpace is NewSpace with one weight per point. Weights must be
// positive.
func NewWeightedSpace(points []ControlPoint, weights []float64, numberOfPoints []int) (*WeightedSpace, error) {
	space, err := NewSpace(points, numberOfPoints)
	if err != nil {
		return nil, err
	}
	if len(weights) != len(points) {
		return nil, fmt.Errorf("%w: %d weights for %d control points", types.ErrInvalidArgument, len(weights), len(points))
	}
	for i, w := range weights {
		if w <= 0 {
			return nil, fmt.Errorf("%w: weight %d is %g", types.ErrInvalidArgument, i, w)
		}
	}
	return &WeightedSpace{Space: *space, weights: slices.Clone(weights)}, nil
}

func (s *WeightedSpace) Clone() *WeightedSpace {
	return &WeightedSpace{Space: *s.Space.Clone(), weights: slices.Clone(s.weights)}
}

func (s *WeightedSpace) IsRational() bool {
	return true
}

func (s *WeightedSpace) Weight(indices ...int) float64 {
	return s.weights[multiindex.Index1D(s.numberOfPoints, indices)]
}

func (s *WeightedSpace) WeightAt(i int) float64 {
	return s.weights[i]
}

// Weights returns a copy of all weights in flat order.
func (s *WeightedSpace) Weights() []float64 {
	return slices.Clone(s.weights)
}

// SetWeight changes the weight of one point. It must be positive.
func (s *WeightedSpace) SetWeight(indices []int, w float64) error {
	if w <= 0 {
		return fmt.Errorf("%w: weight %g", types.ErrInvalidArgument, w)
	}
	i, err := s.flatIndex(indices)
	if err != nil {
		return err
	}
	s.weights[i] = w
	return nil
}

func (s *WeightedSpace) HomogeneousPointAt(i int) ControlPoint {
	return s.points[i].Homogenized(s.weights[i])
}

func (s *WeightedSpace) SetHomogeneousPoints(numberOfPoints []int, points []ControlPoint) error {
	if err := checkCount(numberOfPoints, len(points)); err != nil {
		return err
	}
	cartesian := make([]ControlPoint, len(points))
	weights := make([]float64, len(points))
	for i, p := range points {
		if p.Dimension() != s.dimension+1 {
			return fmt.Errorf("%w: homogeneous point with %d coordinates in a %d-dimensional net", types.ErrInvalidArgument, p.Dimension(), s.dimension)
		}
		cartesian[i], weights[i] = p.Dehomogenized()
	}
	s.numberOfPoints = slices.Clone(numberOfPoints)
	s.points = cartesian
	s.weights = weights
	return nil
}

// AddControlPoints appends n points at the origin with weight 1.
func (s *WeightedSpace) AddControlPoints(n int) {
	s.Space.AddControlPoints(n)
	for range n {
		s.weights = append(s.weights, 1)
	}
}

func (s *WeightedSpace) RemoveControlPoints(n int) {
	s.Space.RemoveControlPoints(n)
	s.weights = s.weights[:len(s.weights)-n]
}

func (s *WeightedSpace) Validate() error {
	if err := s.Space.Validate(); err != nil {
		return err
	}
	if len(s.weights) != len(s.points) {
		return fmt.Errorf("%w: %d weights for %d control points", types.ErrMalformed, len(s.weights), len(s.points))
	}
	return nil
}

// Assign overwrites the points of s with those of src.
func (s *Space) Assign(src *Space) {
	s.dimension = src.dimension
	s.numberOfPoints = slices.Clone(src.numberOfPoints)
	s.points = slices.Clone(src.points)
}

// Assign overwrites points and weights of s with those of src.
func (s *WeightedSpace) Assign(src *WeightedSpace) {
	s.Space.Assign(&src.Space)
	s.weights = slices.Clone(src.weights)
}

// Assign overwrites dst with the state of src. Both must be of the same
// kind.
func Assign(dst, src Net) {
	switch dst := dst.(type) {
	case *Space:
		dst.Assign(src.(*Space))
	case *WeightedSpace:
		dst.Assign(src.(*WeightedSpace))
	default:
		panic(fmt.Sprintf("physical: cannot assign to %T", dst))
	}
}

// Clone returns a deep copy of n.
func Clone(n Net) Net {
	switch n := n.(type) {
	case *Space:
		return n.Clone()
	case *WeightedSpace:
		return n.Clone()
	default:
		panic(fmt.Sprintf("physical: cannot clone %T", n))
	}
}
