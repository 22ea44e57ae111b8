package types

import (
	"errors"
	"testing"
)

func TestDegreeValidate(t *testing.T) {
	tests := []struct {
		degree      Degree
		sentinelOK  bool
		nonNegative bool
	}{
		{-2, false, false},
		{NoBasisFunction, true, false},
		{0, true, true},
		{3, true, true},
	}
	for _, tt := range tests {
		if err := tt.degree.Validate(); (err == nil) != tt.sentinelOK {
			t.Errorf("Degree(%d).Validate() = %v", tt.degree, err)
		} else if err != nil && !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Degree(%d).Validate() = %v, want ErrInvalidArgument", tt.degree, err)
		}
		if err := tt.degree.ValidateNonNegative(); (err == nil) != tt.nonNegative {
			t.Errorf("Degree(%d).ValidateNonNegative() = %v", tt.degree, err)
		}
	}
}

func TestCoordinatesRoundTrip(t *testing.T) {
	in := []float64{0, 0.25, 1}
	out := Floats(Coordinates(in...))
	for i := range in {
		if in[i] != out[i] {
			t.Errorf("got %v, want %v", out, in)
		}
	}
	if got := Degree(2).Order(); got != 3 {
		t.Errorf("Order() = %d, want 3", got)
	}
}
