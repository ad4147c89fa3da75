// Package forward defines the forward-model abstraction used by the
// retrieval: a pure mapping from a physical state vector to the
// observation vector it would produce. Any retrieval problem plugs in
// here; the greybody radiance model in this package is one instance.
package forward

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// ErrDimensionMismatch is returned when a state vector does not match
// the model's state dimension.
var ErrDimensionMismatch = errors.New("forward: dimension mismatch")

// Model maps a state vector of length n to a predicted observation
// vector of length m.
//
// Eval must be pure: deterministic, free of side effects and cheap
// enough to call repeatedly, since the kernel estimator evaluates it
// once per state component on every iteration.
type Model interface {
	Eval(x mat.Vector) (mat.Vector, error)
	// Dims returns the observation and state dimensions (m, n).
	Dims() (m, n int)
}

// Func adapts a plain function to the Model interface.
type Func struct {
	M, N int
	F    func(x mat.Vector) (mat.Vector, error)
}

// Eval checks the state length and delegates to the wrapped function.
func (f Func) Eval(x mat.Vector) (mat.Vector, error) {
	if x.Len() != f.N {
		return nil, ErrDimensionMismatch
	}
	return f.F(x)
}

// Dims returns the observation and state dimensions (m, n).
func (f Func) Dims() (m, n int) {
	return f.M, f.N
}
