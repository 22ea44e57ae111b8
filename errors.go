package splinelib

import "github.com/mfcats/SplineLib-sub001/types"

// Errors returned by the spline operations. They are the sentinels of
// package types, so errors from any package of this module match them with
// errors.Is.
var (
	ErrInvalidArgument = types.ErrInvalidArgument
	ErrOutOfRange      = types.ErrOutOfRange
	ErrMalformed       = types.ErrMalformed
)
