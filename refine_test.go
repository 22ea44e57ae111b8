package splinelib

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/mfcats/SplineLib-sub001/knot"
	"github.com/mfcats/SplineLib-sub001/parameter"
	"github.com/mfcats/SplineLib-sub001/physical"
	"github.com/mfcats/SplineLib-sub001/types"
)

func TestInsertKnotIsLossless(t *testing.T) {
	tests := []struct {
		name         string
		spline       func(*testing.T) Spline
		u            types.ParametricCoordinate
		dim          types.Dimension
		multiplicity types.Multiplicity
		points       []int
	}{
		{"B-spline once", func(t *testing.T) Spline { return exampleBSpline(t) }, 2.5, 0, 1, []int{9}},
		{"B-spline twice", func(t *testing.T) Spline { return exampleBSpline(t) }, 1.5, 0, 2, []int{10}},
		{"B-spline at a double knot", func(t *testing.T) Spline { return exampleBSpline(t) }, 4, 0, 1, []int{9}},
		{"NURBS", func(t *testing.T) Spline { return exampleNURBS(t) }, 0.5, 0, 3, []int{8}},
		{"surface first dimension", func(t *testing.T) Spline { return exampleSurface(t) }, 0.25, 0, 2, []int{6, 2}},
		{"surface second dimension", func(t *testing.T) Spline { return exampleSurface(t) }, 0.4, 1, 2, []int{4, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.spline(t)
			original := Clone(s)
			if err := s.InsertKnot(tt.u, tt.dim, tt.multiplicity); err != nil {
				t.Fatal(err)
			}
			diff(t, tt.points, s.NumberOfControlPoints())
			diff(t, original.KnotVector(tt.dim).Multiplicity(tt.u)+tt.multiplicity, s.KnotVector(tt.dim).Multiplicity(tt.u))
			assertGeometricallyEqual(t, original, s, 1e-10)
		})
	}
}

func TestInsertKnotRejects(t *testing.T) {
	s := exampleBSpline(t)
	for _, tt := range []struct {
		u            types.ParametricCoordinate
		dim          types.Dimension
		multiplicity types.Multiplicity
		want         error
	}{
		{0, 0, 1, ErrInvalidArgument},
		{5, 0, 1, ErrInvalidArgument},
		{6, 0, 1, ErrOutOfRange},
		{2.5, 1, 1, ErrInvalidArgument},
		{4, 0, 2, ErrInvalidArgument},
		{2.5, 0, 4, ErrInvalidArgument},
		{2.5, 0, -1, ErrInvalidArgument},
	} {
		if err := s.InsertKnot(tt.u, tt.dim, tt.multiplicity); !errors.Is(err, tt.want) {
			t.Errorf("InsertKnot(%v, %d, %d) = %v, want %v", tt.u, tt.dim, tt.multiplicity, err, tt.want)
		}
	}
	diff(t, []int{8}, s.NumberOfControlPoints())
}

func TestRemoveKnotUndoesInsertion(t *testing.T) {
	for name, s := range map[string]Spline{
		"B-spline": exampleBSpline(t),
		"NURBS":    exampleNURBS(t),
		"surface":  exampleSurface(t),
	} {
		t.Run(name, func(t *testing.T) {
			original := Clone(s)
			u := types.ParametricCoordinate(0.7)
			if err := s.InsertKnot(u, 0, 2); err != nil {
				t.Fatal(err)
			}
			removed, err := s.RemoveKnot(u, 0, 1e-8, 3)
			if err != nil {
				t.Fatal(err)
			}
			if removed != 2 {
				t.Errorf("removed %d knots, want 2", removed)
			}
			diff(t, original.KnotVector(0).Floats(), s.KnotVector(0).Floats())
			diff(t, original.NumberOfControlPoints(), s.NumberOfControlPoints())
			assertGeometricallyEqual(t, original, s, 1e-10)
			for i := range original.PhysicalSpace().Len() {
				diff(t, original.PhysicalSpace().ControlPointAt(i).Coordinates(), s.PhysicalSpace().ControlPointAt(i).Coordinates(), approx)
				diff(t, original.PhysicalSpace().WeightAt(i), s.PhysicalSpace().WeightAt(i), approx)
			}
		})
	}
}

func TestRemoveKnotKeepsGeometry(t *testing.T) {
	s := exampleBSpline(t)
	for _, u := range []types.ParametricCoordinate{1, 2, 3, 4} {
		removed, err := s.RemoveKnot(u, 0, 1e-8, 2)
		if err != nil {
			t.Fatal(err)
		}
		if removed != 0 {
			t.Errorf("removed knot %v %d times from a curve that needs it", u, removed)
		}
	}
	diff(t, []float64{0, 0, 0, 1, 2, 3, 4, 4, 5, 5, 5}, s.KnotVector(0).Floats())
	assertGeometricallyEqual(t, exampleBSpline(t), s, 0)

	// a loose tolerance lets the knot go
	removed, err := s.RemoveKnot(2, 0, 10, 1)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Errorf("removed %d knots with tolerance 10, want 1", removed)
	}
	equal, err := exampleBSpline(t).AreGeometricallyEqual(s, 10)
	if err != nil || !equal {
		t.Errorf("spline moved more than the tolerance: %v, %v", equal, err)
	}
}

func TestRemoveKnotRejects(t *testing.T) {
	s := exampleBSpline(t)
	for _, tt := range []struct {
		u    types.ParametricCoordinate
		dim  types.Dimension
		want error
	}{
		{0, 0, ErrInvalidArgument},
		{5, 0, ErrInvalidArgument},
		{2.5, 0, ErrInvalidArgument},
		{-1, 0, ErrOutOfRange},
		{2, 3, ErrInvalidArgument},
	} {
		if _, err := s.RemoveKnot(tt.u, tt.dim, 1, 1); !errors.Is(err, tt.want) {
			t.Errorf("RemoveKnot(%v, %d) = %v, want %v", tt.u, tt.dim, err, tt.want)
		}
	}
}

func TestRemoveKnotLogsPartialRemoval(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	s := exampleBSpline(t)
	if _, err := s.RemoveKnot(3, 0, 1e-8, 1); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "knot removal stopped by tolerance") {
		t.Errorf("log output %q lacks the partial removal", buf.String())
	}
}

func TestRemoveKnotNearAKnot(t *testing.T) {
	s := exampleBSpline(t)
	original := s.Clone()
	if err := s.InsertKnot(2, 0, 1); err != nil {
		t.Fatal(err)
	}
	removed, err := s.RemoveKnot(2-1e-12, 0, 1e-9, 1)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Errorf("removed %d knots, want 1", removed)
	}
	diff(t, original.KnotVector(0).Floats(), s.KnotVector(0).Floats())
	assertGeometricallyEqual(t, original, s, 1e-10)
}

func TestRefineSurfaceWithOneKnotVector(t *testing.T) {
	kv, err := knot.FromFloats(0, 0, 0, 1, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	param, err := parameter.New([]*knot.Vector{kv, kv}, []types.Degree{2, 2})
	if err != nil {
		t.Fatal(err)
	}
	net, err := physical.NewSpace(points3(
		0, 0, 0, 1, 0, 1, 2, 0, 0,
		0, 1, 1, 1, 1, 2, 2, 1, 1,
		0, 2, 0, 1, 2, 1, 2, 2, 0), []int{3, 3})
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewBSpline(param, net)
	if err != nil {
		t.Fatal(err)
	}
	original := s.Clone()
	if err := s.InsertKnot(0.5, 0, 1); err != nil {
		t.Fatal(err)
	}
	diff(t, []float64{0, 0, 0, 0.5, 1, 1, 1}, s.KnotVector(0).Floats())
	diff(t, []float64{0, 0, 0, 1, 1, 1}, s.KnotVector(1).Floats())
	diff(t, []int{4, 3}, s.NumberOfControlPoints())
	assertGeometricallyEqual(t, original, s, 1e-10)
}
