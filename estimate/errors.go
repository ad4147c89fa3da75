package estimate

import "errors"

// Errors reported by the estimator. Numerical failures are fatal for
// the current solve and propagate to the caller; the estimator never
// retries or regularizes on its own.
var (
	// ErrDimensionMismatch indicates a vector or matrix argument whose
	// size disagrees with the model dimensions.
	ErrDimensionMismatch = errors.New("estimate: dimension mismatch")

	// ErrSingular indicates a covariance or normal-equations matrix
	// that the linear solver could not factorize.
	ErrSingular = errors.New("estimate: singular matrix")

	// ErrIterations indicates a non-positive iteration count.
	ErrIterations = errors.New("estimate: iteration count must be positive")
)
