// Package mapping provides the derivatives of the map from the parameter
// space of a spline to physical space, as needed for isogeometric analysis.
package mapping

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	splinelib "github.com/mfcats/SplineLib-sub001"
	"github.com/mfcats/SplineLib-sub001/types"
)

// ErrSingular is returned when the Jacobian at a point cannot be inverted.
var ErrSingular = errors.New("mapping: singular Jacobian")

// Handler evaluates the Jacobian of a spline. It reads the spline on every
// call, so it follows refinements of the spline.
type Handler struct {
	spline splinelib.Spline
}

func New(s splinelib.Spline) *Handler {
	return &Handler{spline: s}
}

// Jacobian returns the matrix of first partial derivatives at coords: one
// row per physical coordinate, one column per parametric dimension.
func (h *Handler) Jacobian(coords []types.ParametricCoordinate) (*mat.Dense, error) {
	rows, cols := h.spline.Dimension(), h.spline.ParametricDimensionality()
	dimensions := make([]int, rows)
	for i := range dimensions {
		dimensions[i] = i
	}
	jacobian := mat.NewDense(rows, cols, nil)
	derivatives := make([]types.Derivative, cols)
	for d := range cols {
		clear(derivatives)
		derivatives[d] = 1
		column, err := h.spline.EvaluateDerivative(coords, dimensions, derivatives)
		if err != nil {
			return nil, err
		}
		jacobian.SetCol(d, column)
	}
	return jacobian, nil
}

func (h *Handler) square(coords []types.ParametricCoordinate) (*mat.Dense, error) {
	if h.spline.Dimension() != h.spline.ParametricDimensionality() {
		return nil, fmt.Errorf("%w: Jacobian of a %d-dimensional map into %d-space is not square",
			splinelib.ErrInvalidArgument, h.spline.ParametricDimensionality(), h.spline.Dimension())
	}
	return h.Jacobian(coords)
}

// JacobianDeterminant returns the determinant of the Jacobian at coords. The
// spline must have as many coordinates as parametric dimensions.
func (h *Handler) JacobianDeterminant(coords []types.ParametricCoordinate) (float64, error) {
	jacobian, err := h.square(coords)
	if err != nil {
		return 0, err
	}
	return mat.Det(jacobian), nil
}

// InverseJacobian returns the inverse of the Jacobian at coords, which maps
// physical directions back to parametric ones.
func (h *Handler) InverseJacobian(coords []types.ParametricCoordinate) (*mat.Dense, error) {
	jacobian, err := h.square(coords)
	if err != nil {
		return nil, err
	}
	var inverse mat.Dense
	if err := inverse.Inverse(jacobian); err != nil {
		return nil, fmt.Errorf("%w at %v: %w", ErrSingular, coords, err)
	}
	return &inverse, nil
}

// MeasureElement returns sqrt(det(J^T J)) at coords: the length, area or
// volume scaling of the map, also for curves and surfaces embedded in a
// space of higher dimension.
func (h *Handler) MeasureElement(coords []types.ParametricCoordinate) (float64, error) {
	jacobian, err := h.Jacobian(coords)
	if err != nil {
		return 0, err
	}
	var metric mat.Dense
	metric.Mul(jacobian.T(), jacobian)
	return math.Sqrt(max(mat.Det(&metric), 0)), nil
}
