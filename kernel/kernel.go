// Package kernel computes the sensitivity (Jacobian) matrix of a
// forward model with respect to each state component, using forward
// finite differences.
package kernel

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/prowe12/greyBodyRetrieval/forward"
)

var (
	// ErrInvalidStep is returned for a zero or non-finite
	// finite-difference step.
	ErrInvalidStep = errors.New("kernel: invalid finite-difference step")
	// ErrDimensionMismatch is returned when the state, step vector or a
	// forward-model result does not match the model dimensions.
	ErrDimensionMismatch = errors.New("kernel: dimension mismatch")
)

// CheckSteps validates a finite-difference step vector against the
// state dimension n. Every step must be finite and nonzero.
func CheckSteps(steps []float64, n int) error {
	if len(steps) != n {
		return fmt.Errorf("%d steps for %d state components: %w", len(steps), n, ErrDimensionMismatch)
	}
	for j, h := range steps {
		if h == 0 || math.IsNaN(h) || math.IsInf(h, 0) {
			return fmt.Errorf("step %d is %v: %w", j, h, ErrInvalidStep)
		}
	}
	return nil
}

// Estimate returns the m×n matrix K with
//
//	K[i,j] = (f(x + steps[j] e_j)_i − f(x)_i) / steps[j]
//
// where e_j is the j:th unit vector. Each column perturbs exactly one
// state component; the perturbed evaluations are independent and run
// concurrently. The step sizes are caller supplied per component and
// are never auto-scaled.
func Estimate(model forward.Model, x mat.Vector, steps []float64) (*mat.Dense, error) {
	m, n := model.Dims()
	if x.Len() != n {
		return nil, fmt.Errorf("state has length %d, want %d: %w", x.Len(), n, ErrDimensionMismatch)
	}
	if err := CheckSteps(steps, n); err != nil {
		return nil, err
	}

	base, err := model.Eval(x)
	if err != nil {
		return nil, err
	}
	if base.Len() != m {
		return nil, fmt.Errorf("model returned %d observations, want %d: %w", base.Len(), m, ErrDimensionMismatch)
	}

	K := mat.NewDense(m, n, nil)
	errs := make([]error, n)

	var wg sync.WaitGroup
	wg.Add(n)
	for column := 0; column < n; column++ {
		go func(j int) {
			defer wg.Done()
			var perturbed mat.VecDense
			perturbed.CloneFromVec(x)
			perturbed.SetVec(j, perturbed.AtVec(j)+steps[j])
			y, err := model.Eval(&perturbed)
			if err != nil {
				errs[j] = err
				return
			}
			if y.Len() != m {
				errs[j] = fmt.Errorf("model returned %d observations, want %d: %w", y.Len(), m, ErrDimensionMismatch)
				return
			}
			for i := 0; i < m; i++ {
				K.Set(i, j, (y.AtVec(i)-base.AtVec(i))/steps[j])
			}
		}(column)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return K, nil
}
