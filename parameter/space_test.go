package parameter

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/mfcats/SplineLib-sub001/knot"
	"github.com/mfcats/SplineLib-sub001/types"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

func mustVector(t *testing.T, knots ...float64) *knot.Vector {
	t.Helper()
	v, err := knot.FromFloats(knots...)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func mustSpace(t *testing.T, degrees []types.Degree, kvs ...*knot.Vector) *Space {
	t.Helper()
	s, err := New(kvs, degrees)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNewValidatesClampedKnots(t *testing.T) {
	kv := mustVector(t, 0, 0, 0, 0.5, 1, 1, 1)
	if _, err := New([]*knot.Vector{kv}, []types.Degree{-1}); !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("negative degree: got %v, want ErrInvalidArgument", err)
	}
	if _, err := New([]*knot.Vector{kv}, []types.Degree{1}); !errors.Is(err, types.ErrMalformed) {
		t.Errorf("end multiplicity 3 for degree 1: got %v, want ErrMalformed", err)
	}
	if _, err := New([]*knot.Vector{mustVector(t, 0, 0, 0.5, 1, 1, 1)}, []types.Degree{2}); !errors.Is(err, types.ErrMalformed) {
		t.Errorf("first multiplicity 2 for degree 2: got %v, want ErrMalformed", err)
	}
	if _, err := New([]*knot.Vector{kv, kv}, []types.Degree{2}); !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("mismatched lengths: got %v, want ErrInvalidArgument", err)
	}
	if _, err := New([]*knot.Vector{kv}, []types.Degree{2}); err != nil {
		t.Errorf("valid space: %v", err)
	}
}

func TestCheckNumberOfPoints(t *testing.T) {
	s := mustSpace(t, []types.Degree{2, 1},
		mustVector(t, 0, 0, 0, 0.5, 1, 1, 1),
		mustVector(t, 0, 0, 1, 1))
	diff(t, []int{4, 2}, s.NumberOfBasisFunctions())
	if err := s.CheckNumberOfPoints([]int{4, 2}); err != nil {
		t.Errorf("CheckNumberOfPoints: %v", err)
	}
	if err := s.CheckNumberOfPoints([]int{4, 3}); !errors.Is(err, types.ErrMalformed) {
		t.Errorf("got %v, want ErrMalformed", err)
	}
}

func TestRangeAndFirstNonZero(t *testing.T) {
	s := mustSpace(t, []types.Degree{2, 1},
		mustVector(t, 0, 0, 0, 0.5, 0.5, 0.75, 1, 1, 1),
		mustVector(t, -1, -1, 1, 1))

	first, err := s.FirstNonZeroBasisFunctions(types.Coordinates(0.6, 1))
	if err != nil {
		t.Fatal(err)
	}
	diff(t, []int{2, 0}, first)

	if _, err := s.FirstNonZeroBasisFunctions(types.Coordinates(0.6, 1.5)); !errors.Is(err, types.ErrOutOfRange) {
		t.Errorf("got %v, want ErrOutOfRange", err)
	}
	if err := s.CheckRange(types.Coordinates(0.5)); !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("too few coordinates: got %v, want ErrInvalidArgument", err)
	}
}

func TestTensorProductBasisFunctions(t *testing.T) {
	s := mustSpace(t, []types.Degree{2, 1},
		mustVector(t, 0, 0, 0, 1, 2, 3, 4, 4, 5, 5, 5),
		mustVector(t, 0, 0, 1, 1))
	coords := types.Coordinates(2.5, 0.25)

	// N(3,2)(5/2) = 6/8 and N(1,1)(1/4) = 1/4
	if got := s.BasisFunctions([]int{3, 1}, coords); math.Abs(got-0.75*0.25) > 1e-12 {
		t.Errorf("BasisFunctions = %g, want %g", got, 0.75*0.25)
	}
	// N'(4,2)(5/2) = 1/2 and N'(0,1) = -1
	got := s.BasisFunctionDerivatives([]int{4, 0}, coords, []types.Derivative{1, 1})
	if math.Abs(got-(-0.5)) > 1e-12 {
		t.Errorf("BasisFunctionDerivatives = %g, want -0.5", got)
	}

	var sum float64
	for i := range 8 {
		for j := range 2 {
			sum += s.BasisFunctions([]int{i, j}, coords)
		}
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Errorf("tensor-product partition of unity: %g", sum)
	}
}

func TestEvaluateAllNonZero(t *testing.T) {
	s := mustSpace(t, []types.Degree{2}, mustVector(t, 0, 0, 0, 1, 2, 3, 4, 4, 5, 5, 5))
	values, err := s.EvaluateAllNonZeroBasisFunctions(0, 2.5)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, []float64{1.0 / 8, 6.0 / 8, 1.0 / 8}, values, cmpopts.EquateApprox(0, 1e-12))

	ders, err := s.EvaluateAllNonZeroBasisFunctionDerivatives(0, 2.5, 3)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, [][]float64{
		{1.0 / 8, 6.0 / 8, 1.0 / 8},
		{-0.5, 0, 0.5},
		{1, -2, 1},
		{0, 0, 0},
	}, ders, cmpopts.EquateApprox(0, 1e-12))

	if _, err := s.EvaluateAllNonZeroBasisFunctions(0, 6); !errors.Is(err, types.ErrOutOfRange) {
		t.Errorf("got %v, want ErrOutOfRange", err)
	}
}

func TestNetworkCacheFollowsMutations(t *testing.T) {
	kv := mustVector(t, 0, 0, 0, 1, 1, 1)
	s := mustSpace(t, []types.Degree{2}, kv)
	before := s.Network(0)
	if s.Network(0) != before {
		t.Error("unchanged space should reuse its network")
	}

	if err := s.InsertKnot(0, 0.5, 2); err != nil {
		t.Fatal(err)
	}
	after := s.Network(0)
	if after == before || after.Len() != 5 {
		t.Errorf("network after insertion has %d functions, want a rebuilt one with 5", after.Len())
	}

	// a second space sharing the knot vector sees the insertion too
	other := mustSpace(t, []types.Degree{2}, kv)
	if got := other.NumberOfBasisFunctions()[0]; got != 5 {
		t.Errorf("aliased space has %d basis functions, want 5", got)
	}

	if err := s.RemoveKnot(0, 0.5, 2); err != nil {
		t.Fatal(err)
	}
	if got := s.Network(0).Len(); got != 3 {
		t.Errorf("network after removal has %d functions, want 3", got)
	}
}

func TestElevateAndReduceDegree(t *testing.T) {
	s := mustSpace(t, []types.Degree{1}, mustVector(t, 0, 0, 0.5, 1, 1))
	s.ElevateDegree(0)
	if s.Degree(0) != 2 {
		t.Errorf("Degree = %d, want 2", s.Degree(0))
	}
	diff(t, []float64{0, 0, 0, 0.5, 0.5, 1, 1, 1}, s.KnotVector(0).Floats())

	if err := s.ReduceDegree(0); err != nil {
		t.Fatal(err)
	}
	diff(t, []float64{0, 0, 0.5, 1, 1}, s.KnotVector(0).Floats())

	flat := mustSpace(t, []types.Degree{0}, mustVector(t, 0, 1))
	if err := flat.ReduceDegree(0); !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("reducing degree 0: got %v, want ErrInvalidArgument", err)
	}
}

func TestGrevilleAbscissae(t *testing.T) {
	s := mustSpace(t, []types.Degree{2, 0},
		mustVector(t, 0, 0, 0, 1, 2, 3, 3, 3),
		mustVector(t, 0, 1, 3))
	diff(t, []types.ParametricCoordinate{0, 0.5, 1.5, 2.5, 3}, s.GrevilleAbscissae(0))
	diff(t, []types.ParametricCoordinate{0.5, 2}, s.GrevilleAbscissae(1))
}

func TestCloneIsIndependent(t *testing.T) {
	s := mustSpace(t, []types.Degree{1}, mustVector(t, 0, 0, 1, 1))
	c := s.Clone()
	if err := c.InsertKnot(0, 0.5, 1); err != nil {
		t.Fatal(err)
	}
	if s.KnotVector(0).Len() != 4 {
		t.Error("Clone shares knot vectors with the original")
	}
	if err := s.CheckDimension(1); !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("CheckDimension(1): got %v, want ErrInvalidArgument", err)
	}
}

func TestReplaceKnotVector(t *testing.T) {
	s := mustSpace(t, []types.Degree{1}, mustVector(t, 0, 0, 1, 1))
	if err := s.ReplaceKnotVector(0, mustVector(t, 0, 0, 0, 1, 1, 1)); !errors.Is(err, types.ErrMalformed) {
		t.Errorf("got %v, want ErrMalformed", err)
	}
	if err := s.ReplaceKnotVector(0, mustVector(t, 0, 0, 0.3, 1, 1)); err != nil {
		t.Fatal(err)
	}
	if got := s.Network(0).Len(); got != 3 {
		t.Errorf("network has %d functions, want 3", got)
	}
}

func TestDimensionsOwnTheirKnotVectors(t *testing.T) {
	kv := mustVector(t, 0, 0, 1, 1)
	s := mustSpace(t, []types.Degree{1, 1}, kv, kv)
	if s.KnotVector(0) == s.KnotVector(1) {
		t.Fatal("both dimensions share one knot vector")
	}
	if err := s.InsertKnot(0, 0.5, 1); err != nil {
		t.Fatal(err)
	}
	diff(t, []float64{0, 0, 1, 1}, s.KnotVector(1).Floats())

	if err := s.ReplaceKnotVector(1, s.KnotVector(0)); err != nil {
		t.Fatal(err)
	}
	if s.KnotVector(0) == s.KnotVector(1) {
		t.Error("ReplaceKnotVector shares a knot vector between dimensions")
	}
}
