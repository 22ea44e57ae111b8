package splinelib

import (
	"log/slog"

	"github.com/mfcats/SplineLib-sub001/internal"
)

// SetLogger configures the logger for splinelib and all its sub-packages.
// By default nothing is logged. Pass nil to restore the silent default.
//
// Log levels used:
//   - [slog.LevelDebug]: Bezier decomposition sizes, knot removals stopped by
//     the tolerance, rejected degree reductions
//   - [slog.LevelWarn]: knots that degree elevation could not remove
//
// Example:
//
//	splinelib.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	internal.SetLogger(l)
}

// Logger returns the current logger. It is never nil.
func Logger() *slog.Logger {
	return internal.Logger()
}
