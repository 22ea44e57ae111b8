package splinelib

import (
	"fmt"

	"github.com/mfcats/SplineLib-sub001/internal"
	"github.com/mfcats/SplineLib-sub001/knot"
	"github.com/mfcats/SplineLib-sub001/physical"
	"github.com/mfcats/SplineLib-sub001/types"
)

// checkInterior fails with [ErrInvalidArgument] unless u lies strictly
// inside the domain of dim.
func (s *spline) checkInterior(u types.ParametricCoordinate, dim types.Dimension) error {
	if err := s.param.CheckDimension(dim); err != nil {
		return err
	}
	kv := s.param.KnotVector(dim)
	if !kv.IsInRange(u) {
		return fmt.Errorf("%w: %v is not in [%v, %v]", ErrOutOfRange, u, kv.First(), kv.Last())
	}
	if u <= kv.First()+internal.Epsilon || u >= kv.Last()-internal.Epsilon {
		return fmt.Errorf("%w: %v is a boundary of the domain [%v, %v]", ErrInvalidArgument, u, kv.First(), kv.Last())
	}
	return nil
}

// InsertKnot inserts u multiplicity times into the knot vector of dim and
// adjusts the control points so that the geometry does not change. The
// multiplicity of u must not exceed degree+1 afterwards.
func (s *spline) InsertKnot(u types.ParametricCoordinate, dim types.Dimension, multiplicity types.Multiplicity) error {
	if err := s.checkInterior(u, dim); err != nil {
		return err
	}
	kv, p := s.param.KnotVector(dim), s.param.Degree(dim)
	if multiplicity < 0 {
		return fmt.Errorf("%w: multiplicity %d", ErrInvalidArgument, multiplicity)
	}
	if kv.Multiplicity(u)+multiplicity > types.Multiplicity(p.Order()) {
		return fmt.Errorf("%w: %v already has multiplicity %d, inserting %d more exceeds degree+1 = %d",
			ErrInvalidArgument, u, kv.Multiplicity(u), multiplicity, p.Order())
	}
	if i, ok := kv.LastIndex(u); ok {
		u = kv.Knot(i)
	}

	for range multiplicity {
		span, err := kv.KnotSpan(u)
		if err != nil {
			return err
		}
		n := s.net.NumberOfPoints()[dim]
		err = s.mapFibres(dim, n+1, func(row []physical.ControlPoint) ([]physical.ControlPoint, error) {
			return insertKnotRow(row, kv, int(p), int(span), u), nil
		})
		if err != nil {
			return err
		}
		if err := s.param.InsertKnot(dim, u, 1); err != nil {
			return err
		}
	}
	return nil
}

// insertKnotRow inserts u once into one row of homogeneous control points.
// (corresponds to Boehm's algorithm, eq. 5.15 from The NURBS book, Piegl &
// Tiller 2nd edition)
//
// **params**
// + n control points along the dimension of insertion
// + knot vector before the insertion
// + degree
// + knot span k of u
// + parameter to insert
//
// **returns**
// + n+1 control points
func insertKnotRow(row []physical.ControlPoint, kv *knot.Vector, p, k int, u types.ParametricCoordinate) []physical.ControlPoint {
	result := make([]physical.ControlPoint, len(row)+1)

	for i := 0; i <= k-p; i++ {
		result[i] = row[i]
	}

	for i := k - p + 1; i <= k; i++ {
		alpha := float64((u - kv.Knot(i)) / (kv.Knot(i+p) - kv.Knot(i)))
		result[i] = row[i-1].Lerp(row[i], alpha)
	}

	for i := k + 1; i < len(result); i++ {
		result[i] = row[i-1]
	}

	return result
}

// RemoveKnot removes u up to multiplicity times from the knot vector of dim,
// as long as the control points of every row can be adjusted so that the
// spline moves by at most tolerance. It returns the number of knots actually
// removed.
func (s *spline) RemoveKnot(u types.ParametricCoordinate, dim types.Dimension, tolerance float64, multiplicity types.Multiplicity) (int, error) {
	if err := s.checkInterior(u, dim); err != nil {
		return 0, err
	}
	kv, p := s.param.KnotVector(dim), int(s.param.Degree(dim))
	m := kv.Multiplicity(u)
	if m == 0 {
		return 0, fmt.Errorf("%w: %v is not a knot of %v", ErrInvalidArgument, u, kv)
	}
	if multiplicity < 0 {
		return 0, fmt.Errorf("%w: multiplicity %d", ErrInvalidArgument, multiplicity)
	}
	num := int(min(multiplicity, m))
	r, _ := kv.LastIndex(u)
	u = kv.Knot(r)
	tol := s.homogeneousTolerance(tolerance)

	removable := num
	for _, row := range s.fibres(dim) {
		t, _ := removeKnotRow(row, kv, p, u, r, int(m), removable, tol)
		removable = min(removable, t)
		if removable == 0 {
			break
		}
	}

	if removable < int(multiplicity) {
		Logger().Debug("splinelib: knot removal stopped by tolerance",
			"knot", float64(u), "dimension", int(dim), "requested", int(multiplicity), "removed", removable)
	}
	if removable == 0 {
		return 0, nil
	}

	n := s.net.NumberOfPoints()[dim]
	err := s.mapFibres(dim, n-removable, func(row []physical.ControlPoint) ([]physical.ControlPoint, error) {
		_, result := removeKnotRow(row, kv, p, u, r, int(m), removable, tol)
		return result, nil
	})
	if err != nil {
		return 0, err
	}
	if err := s.param.RemoveKnot(dim, u, types.Multiplicity(removable)); err != nil {
		return 0, err
	}
	return removable, nil
}

// removeKnotRow removes the knot u up to num times from one row of
// homogeneous control points.
// (corresponds to algorithm A5.8 from The NURBS book, Piegl & Tiller 2nd edition)
//
// **params**
// + control points P[0..n]
// + knot vector, left unchanged
// + degree
// + knot to remove
// + index of the last occurrence of u in the knot vector
// + multiplicity of u
// + maximum number of removals
// + tolerance on the homogeneous control points
//
// **returns**
// + number of removals t that stay within the tolerance
// + the n+1-t control points after t removals
func removeKnotRow(row []physical.ControlPoint, kv *knot.Vector, p int, u types.ParametricCoordinate, r, s, num int, tol float64) (int, []physical.ControlPoint) {
	pw := make([]physical.ControlPoint, len(row))
	copy(pw, row)
	n := len(pw) - 1
	x := float64(u)
	knot := func(i int) float64 { return float64(kv.Knot(i)) }

	order := p + 1
	fout := (2*r - s - p) / 2
	first, last := r-p, r-s

	var t int
	for t = 0; t < num; t++ {
		off := first - 1
		temp := make([]physical.ControlPoint, last+2-off)
		temp[0] = pw[off]
		temp[last+1-off] = pw[last+1]

		i, j := first, last
		ii, jj := 1, last-off
		for j-i > t {
			alfi := (x - knot(i)) / (knot(i+order+t) - knot(i))
			alfj := (x - knot(j-t)) / (knot(j+order) - knot(j-t))
			temp[ii] = pw[i].Sub(temp[ii-1].Scale(1 - alfi)).Scale(1 / alfi)
			temp[jj] = pw[j].Sub(temp[jj+1].Scale(alfj)).Scale(1 / (1 - alfj))
			i++
			ii++
			j--
			jj--
		}

		var removable bool
		if j-i < t {
			removable = temp[ii-1].Distance(temp[jj+1]) <= tol
		} else {
			alfi := (x - knot(i)) / (knot(i+order+t) - knot(i))
			blend := temp[ii+t+1].Scale(alfi).Add(temp[ii-1].Scale(1 - alfi))
			removable = pw[i].Distance(blend) <= tol
		}
		if !removable {
			break
		}

		i, j = first, last
		for j-i > t {
			pw[i] = temp[i-off]
			pw[j] = temp[j-off]
			i++
			j--
		}
		first--
		last++
	}

	if t == 0 {
		return 0, pw
	}

	j := fout
	i := j
	for k := 1; k < t; k++ {
		if k%2 == 1 {
			i++
		} else {
			j--
		}
	}
	for k := i + 1; k <= n; k++ {
		pw[j] = pw[k]
		j++
	}

	return t, pw[:n+1-t]
}
