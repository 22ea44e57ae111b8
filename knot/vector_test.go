package knot

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/mfcats/SplineLib-sub001/types"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

func mustVector(t *testing.T, knots ...float64) *Vector {
	t.Helper()
	v, err := FromFloats(knots...)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestNewRejectsMalformedKnots(t *testing.T) {
	if _, err := FromFloats(); !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("empty knots: got %v, want ErrInvalidArgument", err)
	}
	if _, err := FromFloats(0, 0, 1, 0.5, 1); !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("decreasing knots: got %v, want ErrInvalidArgument", err)
	}
}

func TestKnotSpan(t *testing.T) {
	v := mustVector(t, 0, 0, 0, 0.5, 0.5, 0.75, 1, 1, 1)
	tests := []struct {
		u    float64
		want types.KnotSpan
	}{
		{0, 2},
		{0.25, 2},
		{0.5, 4},
		{0.6, 4},
		{0.75, 5},
		{0.9, 5},
		{1, 5},
	}
	for _, tt := range tests {
		got, err := v.KnotSpan(types.ParametricCoordinate(tt.u))
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("KnotSpan(%g) = %d, want %d", tt.u, got, tt.want)
		}
	}

	for _, u := range []float64{-0.1, 1.1} {
		if _, err := v.KnotSpan(types.ParametricCoordinate(u)); !errors.Is(err, types.ErrOutOfRange) {
			t.Errorf("KnotSpan(%g): got %v, want ErrOutOfRange", u, err)
		}
	}
}

func TestMultiplicity(t *testing.T) {
	v := mustVector(t, 0, 0, 0, 0.5, 0.5, 0.75, 1, 1, 1)
	tests := []struct {
		u    float64
		want types.Multiplicity
	}{
		{0, 3},
		{0.5, 2},
		{0.5 + 1e-12, 2},
		{0.6, 0},
		{0.75, 1},
		{1, 3},
	}
	for _, tt := range tests {
		if got := v.Multiplicity(types.ParametricCoordinate(tt.u)); got != tt.want {
			t.Errorf("Multiplicity(%g) = %d, want %d", tt.u, got, tt.want)
		}
	}
}

func TestInsertAndRemoveKnot(t *testing.T) {
	v := mustVector(t, 0, 0, 0, 0.5, 1, 1, 1)

	if err := v.InsertKnot(0.25); err != nil {
		t.Fatal(err)
	}
	if err := v.InsertKnot(0.5); err != nil {
		t.Fatal(err)
	}
	diff(t, []float64{0, 0, 0, 0.25, 0.5, 0.5, 1, 1, 1}, v.Floats())

	if err := v.RemoveKnot(0.5); err != nil {
		t.Fatal(err)
	}
	if err := v.RemoveKnot(1); err != nil {
		t.Fatal(err)
	}
	diff(t, []float64{0, 0, 0, 0.25, 0.5, 1, 1}, v.Floats())

	if err := v.RemoveKnot(0.3); !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("removing a non-knot: got %v, want ErrInvalidArgument", err)
	}
	if err := v.InsertKnot(2); !errors.Is(err, types.ErrOutOfRange) {
		t.Errorf("inserting outside the domain: got %v, want ErrOutOfRange", err)
	}
}

func TestMultiplicityOfAllKnots(t *testing.T) {
	v := mustVector(t, 0, 0, 1, 2, 2)
	v.IncrementMultiplicityOfAllKnots()
	diff(t, []float64{0, 0, 0, 1, 1, 2, 2, 2}, v.Floats())
	for range 2 {
		if err := v.DecrementMultiplicityOfAllKnots(); err != nil {
			t.Fatal(err)
		}
	}
	diff(t, []float64{0, 2}, v.Floats())
	if err := v.DecrementMultiplicityOfAllKnots(); !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("decrementing single end knots: got %v, want ErrInvalidArgument", err)
	}
	diff(t, []float64{0, 2}, v.Floats())

	open := mustVector(t, 0, 0, 0.5, 1)
	if err := open.DecrementMultiplicityOfAllKnots(); !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("decrementing a single last knot: got %v, want ErrInvalidArgument", err)
	}
	diff(t, []float64{0, 0, 0.5, 1}, open.Floats())

	w := mustVector(t, 0, 0, 0, 0.5, 0.5, 1, 1, 1)
	diff(t, []KnotMultiplicity{{0, 3}, {0.5, 2}, {1, 3}}, w.Multiplicities())
	diff(t, []types.ParametricCoordinate{0, 0.5, 1}, w.UniqueKnots())
	if n := w.NumberOfDifferentKnots(); n != 3 {
		t.Errorf("NumberOfDifferentKnots() = %d, want 3", n)
	}
}

func TestEqualityUsesFixedOrGivenTolerance(t *testing.T) {
	a := mustVector(t, 0, 0, 1, 1)
	b := mustVector(t, 0, 0, 1+1e-12, 1+1e-12)
	c := mustVector(t, 0, 0, 1.001, 1.001)

	if !a.Equal(b) {
		t.Error("vectors within Epsilon should be equal")
	}
	if a.Equal(c) {
		t.Error("vectors further apart than Epsilon should differ")
	}
	if !a.AreEqual(c, 0.01) {
		t.Error("AreEqual should honour the given tolerance")
	}
	if a.Equal(mustVector(t, 0, 0, 1)) {
		t.Error("vectors of different length should differ")
	}
}

func TestNewAveraged(t *testing.T) {
	// Example 9.1 of The NURBS book uses chord-length parameters
	// {0, 5/17, 9/17, 14/17, 1} with degree 3.
	params := types.Coordinates(0, 5.0/17, 9.0/17, 14.0/17, 1)
	v, err := NewAveraged(params, 3)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, []float64{0, 0, 0, 0, 28.0 / 51, 1, 1, 1, 1}, v.Floats(), cmpopts.EquateApprox(0, 1e-12))

	if _, err := NewAveraged(params, 0); !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("degree 0: got %v, want ErrInvalidArgument", err)
	}
	if _, err := NewAveraged(params[:2], 3); !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("too few parameters: got %v, want ErrInvalidArgument", err)
	}
}

func TestNewOpenUniform(t *testing.T) {
	v, err := NewOpenUniform(2, 5, 0, 3)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, []float64{0, 0, 0, 1, 2, 3, 3, 3}, v.Floats(), cmpopts.EquateApprox(0, 1e-12))
	if !v.IsValid(2) {
		t.Error("open uniform vector should be valid for its degree")
	}
	if v.IsValid(3) {
		t.Error("vector should not be valid for a higher degree")
	}
}

func TestUnionAndDifference(t *testing.T) {
	a := mustVector(t, 0, 0, 0, 0.5, 1, 1, 1)
	b := mustVector(t, 0, 0, 0, 0.25, 0.5, 0.5, 1, 1, 1)

	union := a.Union(b)
	diff(t, []float64{0, 0, 0, 0.25, 0.5, 0.5, 1, 1, 1}, union.Floats())
	diff(t, []types.ParametricCoordinate{0.25, 0.5}, union.Difference(a))
	diff(t, []types.ParametricCoordinate{}, union.Difference(b), cmpopts.EquateEmpty())
}

func TestReversedAndSlice(t *testing.T) {
	v := mustVector(t, 0, 0, 0, 1, 4, 4, 4)
	diff(t, []float64{0, 0, 0, 3, 4, 4, 4}, v.Reversed().Floats())
	diff(t, v.Floats(), v.Reversed().Reversed().Floats())
	diff(t, []float64{0, 0, 0, 1, 4, 4, 4}, v.Floats())

	c := v.Clone()
	if err := c.InsertKnot(2); err != nil {
		t.Fatal(err)
	}
	if v.Len() != 7 || c.Len() != 8 {
		t.Errorf("Clone shares storage: len %d and %d", v.Len(), c.Len())
	}

	diff(t, []float64{1, 4}, v.Slice(3, 5).Floats())
	if got := v.String(); got != "{0, 0, 0, 1, 4, 4, 4}" {
		t.Errorf("String() = %q", got)
	}
}

func TestRemoveKnotWithinTolerance(t *testing.T) {
	v := mustVector(t, 0, 0, 0, 0.5, 0.5, 0.75, 1, 1, 1)
	u := types.ParametricCoordinate(0.5 - 1e-12)
	i, ok := v.LastIndex(u)
	if !ok || i != 4 {
		t.Errorf("LastIndex(%v) = %d, %t, want 4, true", u, i, ok)
	}
	if err := v.RemoveKnot(u); err != nil {
		t.Fatal(err)
	}
	diff(t, []float64{0, 0, 0, 0.5, 0.75, 1, 1, 1}, v.Floats())

	if _, ok := v.LastIndex(0.6); ok {
		t.Error("LastIndex found a value that is not a knot")
	}
}
