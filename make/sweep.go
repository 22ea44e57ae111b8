package make

import (
	"fmt"

	"github.com/ungerik/go3d/float64/mat4"
	"github.com/ungerik/go3d/float64/vec3"

	splinelib "github.com/mfcats/SplineLib-sub001"
	"github.com/mfcats/SplineLib-sub001/knot"
	"github.com/mfcats/SplineLib-sub001/physical"
	"github.com/mfcats/SplineLib-sub001/types"
)

// DefaultLoftDegree is the degree across the curves of a swept surface.
const DefaultLoftDegree = 3

// SweptSurface translates a profile curve along a rail curve. The rail is
// sampled at twice its number of control points and the translated profiles
// are lofted.
//
// **params**
// + profile curve
// + rail curve, whose start is the origin of the translation
//
// **returns**
// + a NURBS surface following the profile in u and the rail in v
func SweptSurface(profile, rail splinelib.Spline) (*splinelib.NURBS, error) {
	if _, _, _, _, err := profileOf(rail); err != nil {
		return nil, err
	}

	kv := rail.KnotVector(0)
	startu, endu := kv.First(), kv.Last()
	pt0, err := rail.Point(startu)
	if err != nil {
		return nil, err
	}

	numSamples := 2 * rail.NumberOfControlPoints()[0]
	span := (endu - startu) / types.ParametricCoordinate(numSamples-1)

	crvs := make([]splinelib.Spline, numSamples)
	for i := range crvs {
		u := startu + types.ParametricCoordinate(i)*span
		if i == numSamples-1 {
			u = endu
		}
		pt, err := rail.Point(u)
		if err != nil {
			return nil, err
		}
		pt.Sub(&pt0)

		m := mat4.Ident
		m.SetTranslation(&pt)
		crvs[i] = splinelib.Clone(profile)
		if err := crvs[i].PhysicalSpace().Transform(&m); err != nil {
			return nil, err
		}
	}

	return LoftedSurface(crvs, DefaultLoftDegree)
}

// LoftedSurface interpolates a surface through a sequence of curves. The
// curves are brought to a common degree and knot vector first; the input
// curves are left unchanged.
//
// **params**
// + at least two curves over the same domain
// + degree across the curves, lowered to len(curves)-1 if needed
//
// **returns**
// + a NURBS surface with curves[k] at v = the k-th averaged chord parameter
func LoftedSurface(curves []splinelib.Spline, degree int) (*splinelib.NURBS, error) {
	if len(curves) < 2 {
		return nil, fmt.Errorf("%w: lofting %d curves", splinelib.ErrInvalidArgument, len(curves))
	}
	if degree < 1 {
		return nil, fmt.Errorf("%w: loft of degree %d", splinelib.ErrInvalidArgument, degree)
	}
	if degree > len(curves)-1 {
		splinelib.Logger().Debug("make: loft degree lowered to fit the curves",
			"requested", degree, "curves", len(curves))
		degree = len(curves) - 1
	}

	compatible := make([]splinelib.Spline, len(curves))
	for k, c := range curves {
		if _, _, _, _, err := profileOf(c); err != nil {
			return nil, err
		}
		compatible[k] = splinelib.Clone(c)
	}
	if err := splinelib.MakeCompatible(compatible, 0); err != nil {
		return nil, err
	}

	rows := make([][]vec3.T, len(compatible))
	homogeneous := make([][]physical.ControlPoint, len(compatible))
	var knotsU []float64
	var degreeU types.Degree
	for k, c := range compatible {
		pts, weights, knots, deg, err := profileOf(c)
		if err != nil {
			return nil, err
		}
		rows[k], knotsU, degreeU = pts, knots, deg
		homogeneous[k] = make([]physical.ControlPoint, len(pts))
		for i, p := range pts {
			homogeneous[k][i] = physical.FromVec3(p, 3).Homogenized(weights[i])
		}
	}

	params, err := loftParameters(rows)
	if err != nil {
		return nil, err
	}
	kv, err := knot.NewAveraged(params, types.Degree(degree))
	if err != nil {
		return nil, err
	}

	nu, nv := len(rows[0]), len(rows)
	controlPoints := make([]vec3.T, nu*nv)
	weights := make([]float64, nu*nv)
	column := make([]physical.ControlPoint, nv)
	for i := range nu {
		for k := range column {
			column[k] = homogeneous[k][i]
		}
		interpolated, err := interpolate(column, params, kv, types.Degree(degree))
		if err != nil {
			return nil, err
		}
		for k, h := range interpolated {
			p, w := h.Dehomogenized()
			controlPoints[i+nu*k] = p.Vec3()
			weights[i+nu*k] = w
		}
	}

	return newSurface(
		[2]types.Degree{degreeU, types.Degree(degree)},
		[2][]float64{knotsU, kv.Floats()},
		controlPoints, weights,
	)
}

// loftParameters averages the chord parameters of every column of control
// points across the curves. Columns that collapse to a point are skipped.
// (corresponds to eq. 9.6 from The NURBS book, Piegl & Tiller 2nd edition)
func loftParameters(rows [][]vec3.T) ([]types.ParametricCoordinate, error) {
	params := make([]types.ParametricCoordinate, len(rows))
	column := make([]vec3.T, len(rows))
	var used int
	for i := range rows[0] {
		for k := range rows {
			column[k] = rows[k][i]
		}
		columnParams, err := chordParameters(column)
		if err != nil {
			continue
		}
		for k, u := range columnParams {
			params[k] += u
		}
		used++
	}
	if used == 0 {
		return nil, fmt.Errorf("%w: lofted curves coincide", splinelib.ErrInvalidArgument)
	}
	for k := range params {
		params[k] /= types.ParametricCoordinate(used)
	}
	params[len(params)-1] = 1
	return params, nil
}
