package physical

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/ungerik/go3d/float64/mat4"
	"github.com/ungerik/go3d/float64/vec3"

	"github.com/mfcats/SplineLib-sub001/types"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

func points(coords ...[]float64) []ControlPoint {
	out := make([]ControlPoint, len(coords))
	for i, c := range coords {
		out[i] = NewControlPoint(c...)
	}
	return out
}

func TestControlPointArithmetic(t *testing.T) {
	p := NewControlPoint(1, 2)
	q := NewControlPoint(3, -2)

	diff(t, []float64{4, 0}, p.Add(q).Coordinates())
	diff(t, []float64{-2, 4}, p.Sub(q).Coordinates())
	diff(t, []float64{2.5, 5}, p.Scale(2.5).Coordinates())
	diff(t, []float64{2, 0}, p.Lerp(q, 0.5).Coordinates())
	if got := NewControlPoint(3, 4).Norm(); got != 5 {
		t.Errorf("Norm() = %g, want 5", got)
	}
	if got := p.Distance(q); math.Abs(got-math.Sqrt(20)) > 1e-12 {
		t.Errorf("Distance() = %g, want sqrt(20)", got)
	}
	if got := NewControlPoint(-7, 2).MaxAbs(); got != 7 {
		t.Errorf("MaxAbs() = %g, want 7", got)
	}
	if p.String() != "(1, 2)" {
		t.Errorf("String() = %q", p.String())
	}
}

func TestControlPointDimensionMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("adding points of different dimension should panic")
		}
	}()
	NewControlPoint(1, 2).Add(NewControlPoint(1, 2, 3))
}

func TestHomogenized(t *testing.T) {
	p := NewControlPoint(1, 2, 3)
	h := p.Homogenized(2)
	diff(t, []float64{2, 4, 6, 2}, h.Coordinates())

	back, w := h.Dehomogenized()
	if w != 2 {
		t.Errorf("weight = %g, want 2", w)
	}
	if !back.Equal(p, 1e-15) {
		t.Errorf("Dehomogenized() = %v, want %v", back, p)
	}
}

func TestVec3(t *testing.T) {
	p := NewControlPoint(1, 2)
	diff(t, vec3.T{1, 2, 0}, p.Vec3())
	diff(t, []float64{1, 2}, FromVec3(vec3.T{1, 2, 7}, 2).Coordinates())
}

func TestNewSpaceValidates(t *testing.T) {
	pts := points([]float64{0, 0}, []float64{1, 0}, []float64{0, 1}, []float64{1, 1})
	if _, err := NewSpace(pts, []int{2, 3}); !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("wrong count: got %v, want ErrInvalidArgument", err)
	}
	if _, err := NewSpace(append(pts[:3:3], NewControlPoint(1)), []int{2, 2}); !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("mixed dimension: got %v, want ErrInvalidArgument", err)
	}
	if _, err := NewWeightedSpace(pts, []float64{1, 1, 0, 1}, []int{2, 2}); !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("zero weight: got %v, want ErrInvalidArgument", err)
	}
	if _, err := NewWeightedSpace(pts, []float64{1, 1}, []int{2, 2}); !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("too few weights: got %v, want ErrInvalidArgument", err)
	}
}

func TestSpaceAddressing(t *testing.T) {
	pts := points(
		[]float64{0, 0}, []float64{1, 0}, []float64{2, 0},
		[]float64{0, 1}, []float64{1, 1}, []float64{2, 1.5},
	)
	s, err := NewSpace(pts, []int{3, 2})
	if err != nil {
		t.Fatal(err)
	}
	diff(t, []float64{2, 1.5}, s.ControlPoint(2, 1).Coordinates())
	diff(t, []float64{1, 0}, s.ControlPointAt(1).Coordinates())
	if s.Weight(2, 1) != 1 || s.IsRational() {
		t.Error("a B-spline net has unit weights")
	}
	if got := s.Expansion(); got != 2 {
		t.Errorf("Expansion() = %g, want 2", got)
	}

	if err := s.SetControlPoint([]int{0, 1}, NewControlPoint(-3, 1)); err != nil {
		t.Fatal(err)
	}
	if got := s.Expansion(); got != 3 {
		t.Errorf("Expansion() after set = %g, want 3", got)
	}
	if err := s.SetControlPoint([]int{3, 0}, NewControlPoint(0, 0)); !errors.Is(err, types.ErrOutOfRange) {
		t.Errorf("out of range index: got %v, want ErrOutOfRange", err)
	}

	box := s.BoundingBox()
	diff(t, []float64{-3, 0}, box.Min().Coordinates())
	diff(t, []float64{2, 1.5}, box.Max().Coordinates())
	if box.LongestAxis() != 0 || box.AxisLength(1) != 1.5 {
		t.Errorf("LongestAxis() = %d, AxisLength(1) = %g", box.LongestAxis(), box.AxisLength(1))
	}
}

func TestResizeKeepsInvariantCheckable(t *testing.T) {
	pts := points([]float64{0}, []float64{1}, []float64{2})
	s, err := NewWeightedSpace(pts, []float64{1, 2, 1}, []int{3})
	if err != nil {
		t.Fatal(err)
	}
	s.AddControlPoints(2)
	if err := s.Validate(); !errors.Is(err, types.ErrMalformed) {
		t.Errorf("Validate() after AddControlPoints = %v, want ErrMalformed", err)
	}
	s.SetNumberOfPoints(0, 5)
	if err := s.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	if s.WeightAt(4) != 1 {
		t.Errorf("new points should have weight 1, got %g", s.WeightAt(4))
	}
	s.RemoveControlPoints(2)
	s.SetNumberOfPoints(0, 3)
	if err := s.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestWeightedSpaceHomogeneousRoundTrip(t *testing.T) {
	pts := points([]float64{0, 0}, []float64{1, 1}, []float64{3, 2})
	s, err := NewWeightedSpace(pts, []float64{1, 4, 1}, []int{3})
	if err != nil {
		t.Fatal(err)
	}
	diff(t, []float64{4, 4, 4}, s.HomogeneousPointAt(1).Coordinates())

	homogeneous := make([]ControlPoint, 0, s.Len()+1)
	for i := range s.Len() {
		homogeneous = append(homogeneous, s.HomogeneousPointAt(i))
	}
	homogeneous = append(homogeneous, NewControlPoint(10, 5, 5))
	if err := s.SetHomogeneousPoints([]int{4}, homogeneous); err != nil {
		t.Fatal(err)
	}
	diff(t, []float64{1, 4, 1, 5}, s.Weights())
	diff(t, []float64{2, 1}, s.ControlPoint(3).Coordinates())
	diff(t, []float64{1, 1}, s.ControlPoint(1).Coordinates(), cmpopts.EquateApprox(0, 1e-15))

	if err := s.SetHomogeneousPoints([]int{1}, points([]float64{1, 1})); !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("cartesian points for a weighted net: got %v, want ErrInvalidArgument", err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	pts := points([]float64{0, 0}, []float64{1, 1})
	s, err := NewWeightedSpace(pts, []float64{1, 2}, []int{2})
	if err != nil {
		t.Fatal(err)
	}
	c := Clone(s).(*WeightedSpace)
	if err := c.SetWeight([]int{0}, 3); err != nil {
		t.Fatal(err)
	}
	if err := c.SetControlPoint([]int{1}, NewControlPoint(5, 5)); err != nil {
		t.Fatal(err)
	}
	if s.Weight(0) != 1 || s.ControlPoint(1).Coordinate(0) != 1 {
		t.Error("Clone shares storage with the original")
	}
}

func TestTransform(t *testing.T) {
	pts := points([]float64{0, 0}, []float64{1, 1})
	s, err := NewWeightedSpace(pts, []float64{1, 2}, []int{2})
	if err != nil {
		t.Fatal(err)
	}
	m := mat4.Ident
	m.SetTranslation(&vec3.T{2, -1, 0})
	if err := s.Transform(&m); err != nil {
		t.Fatal(err)
	}
	diff(t, []float64{3, 0}, s.ControlPoint(1).Coordinates(), cmpopts.EquateApprox(0, 1e-15))
	if s.Weight(1) != 2 {
		t.Errorf("Transform changed a weight to %g", s.Weight(1))
	}

	wide, err := NewSpace(points([]float64{1, 2, 3, 4}), []int{1})
	if err != nil {
		t.Fatal(err)
	}
	if err := wide.Transform(&m); !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("4-D transform: got %v, want ErrInvalidArgument", err)
	}
}

func TestBoundingBox(t *testing.T) {
	var box BoundingBox
	if !box.IsEmpty() || box.Contains(NewControlPoint(0, 0), 1) {
		t.Error("zero box should be empty")
	}
	box.AddRange(points([]float64{0, 0}, []float64{2, 1}))
	if !box.Contains(NewControlPoint(1, 0.5), 0) {
		t.Error("box should contain its interior")
	}
	if box.Contains(NewControlPoint(2.1, 0.5), 0.05) {
		t.Error("box should not contain a point beyond the tolerance")
	}

	var other BoundingBox
	other.Add(NewControlPoint(2.05, 1.05)).Add(NewControlPoint(3, 3))
	if box.Intersects(&other, 0) {
		t.Error("disjoint boxes should not intersect")
	}
	if !box.Intersects(&other, 0.05) {
		t.Error("boxes within tolerance should intersect")
	}
	box.Clear()
	if !box.IsEmpty() {
		t.Error("Clear should empty the box")
	}
}
