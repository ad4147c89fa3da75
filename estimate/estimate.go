// Package estimate implements iterative optimal estimation: the
// Gauss-Newton form of the maximum a posteriori retrieval under
// Gaussian prior and measurement statistics. Given a forward model, a
// prior state with covariance and a measurement covariance, the
// estimator repeatedly linearizes the model through its kernel and
// solves the weighted normal equations for the next state estimate.
package estimate

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/prowe12/greyBodyRetrieval/forward"
	"github.com/prowe12/greyBodyRetrieval/kernel"
)

// DefaultIterations is the number of Gauss-Newton iterations performed
// when no other count is configured.
const DefaultIterations = 5

// Prior holds the best-guess state before any measurement together
// with its covariance.
type Prior struct {
	// State is x_a, length n.
	State mat.Vector
	// Covariance is S_a, an n×n symmetric positive-definite matrix.
	Covariance mat.Matrix
}

// Snapshot is one iteration's state estimate paired with the forward
// model's prediction at that state. Snapshots are immutable; each
// iteration consumes one and produces a fresh one.
type Snapshot struct {
	// State is the estimate x_k.
	State mat.Vector
	// Predicted is f(x_k).
	Predicted mat.Vector
}

// Result holds the outcome of a solve.
type Result struct {
	// Trajectory holds every snapshot in iteration order, starting
	// with the first guess.
	Trajectory []Snapshot
}

// Final returns the last state estimate.
func (r *Result) Final() mat.Vector {
	return r.Trajectory[len(r.Trajectory)-1].State
}

// Estimator performs the iterative retrieval. Use New to construct
// one; the zero value is not usable.
type Estimator struct {
	model      forward.Model
	prior      Prior
	noise      mat.Matrix
	priorInv   *mat.Dense
	steps      []float64
	iterations int
	tolerance  float64
}

// New validates the problem setup and returns an estimator running
// DefaultIterations iterations with no convergence tolerance.
//
// model supplies the observation and state dimensions (m, n). prior
// must have an n-vector state and an invertible n×n covariance. noise
// is the m×m measurement covariance S_e. steps holds the n
// finite-difference step sizes handed to the kernel estimator each
// iteration; zero or non-finite steps are rejected here rather than
// mid-solve.
func New(model forward.Model, prior Prior, noise mat.Matrix, steps []float64) (*Estimator, error) {
	m, n := model.Dims()
	if prior.State == nil || prior.State.Len() != n {
		return nil, fmt.Errorf("prior state: %w", ErrDimensionMismatch)
	}
	if r, c := prior.Covariance.Dims(); r != n || c != n {
		return nil, fmt.Errorf("prior covariance is %dx%d, want %dx%d: %w", r, c, n, n, ErrDimensionMismatch)
	}
	if r, c := noise.Dims(); r != m || c != m {
		return nil, fmt.Errorf("measurement covariance is %dx%d, want %dx%d: %w", r, c, m, m, ErrDimensionMismatch)
	}
	if err := kernel.CheckSteps(steps, n); err != nil {
		return nil, err
	}

	// S_a^{-1} appears directly in the normal equations and S_a never
	// changes, so factor it once up front.
	var priorInv mat.Dense
	if err := priorInv.Inverse(prior.Covariance); err != nil {
		return nil, fmt.Errorf("prior covariance: %w", ErrSingular)
	}

	priorState := mat.VecDenseCopyOf(prior.State)
	priorCov := mat.DenseCopyOf(prior.Covariance)
	noiseCov := mat.DenseCopyOf(noise)
	stepCopy := make([]float64, len(steps))
	copy(stepCopy, steps)

	return &Estimator{
		model:      model,
		prior:      Prior{State: priorState, Covariance: priorCov},
		noise:      noiseCov,
		priorInv:   &priorInv,
		steps:      stepCopy,
		iterations: DefaultIterations,
	}, nil
}

// SetIterations fixes the number of Gauss-Newton iterations.
func (e *Estimator) SetIterations(count int) error {
	if count <= 0 {
		return ErrIterations
	}
	e.iterations = count
	return nil
}

// SetTolerance enables an early exit once the relative change in the
// state estimate between iterations drops below tol. A tolerance of
// zero disables the check, restoring the fixed-iteration behaviour.
func (e *Estimator) SetTolerance(tol float64) {
	e.tolerance = tol
}

// Solve runs the retrieval from the given first-guess state against
// the observed data vector.
func (e *Estimator) Solve(first, observed mat.Vector) (*Result, error) {
	return e.SolveContext(context.Background(), first, observed)
}

// SolveContext is Solve with a cancellation point between iterations.
func (e *Estimator) SolveContext(ctx context.Context, first, observed mat.Vector) (*Result, error) {
	m, n := e.model.Dims()
	if first == nil || first.Len() != n {
		return nil, fmt.Errorf("first guess: %w", ErrDimensionMismatch)
	}
	if observed == nil || observed.Len() != m {
		return nil, fmt.Errorf("observation vector: %w", ErrDimensionMismatch)
	}

	obs := mat.VecDenseCopyOf(observed)

	predicted, err := e.predict(mat.VecDenseCopyOf(first))
	if err != nil {
		return nil, err
	}
	current := Snapshot{State: mat.VecDenseCopyOf(first), Predicted: predicted}
	trajectory := []Snapshot{current}

	for iteration := 0; iteration < e.iterations; iteration++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := e.step(current, obs)
		if err != nil {
			return nil, err
		}
		trajectory = append(trajectory, next)
		if e.tolerance > 0 && relativeChange(current.State, next.State) < e.tolerance {
			return &Result{Trajectory: trajectory}, nil
		}
		current = next
	}
	return &Result{Trajectory: trajectory}, nil
}

// step performs one Gauss-Newton update, producing the next snapshot
// from the current one. The prior and covariances are read only.
func (e *Estimator) step(current Snapshot, observed mat.Vector) (Snapshot, error) {
	K, err := kernel.Estimate(e.model, current.State, e.steps)
	if err != nil {
		return Snapshot{}, err
	}

	// Weighted kernel W = S_e^{-T} K, via the solve S_e^T W = K.
	var weighted mat.Dense
	if err := weighted.Solve(e.noise.T(), K); err != nil {
		return Snapshot{}, fmt.Errorf("measurement covariance: %w", ErrSingular)
	}

	// Normal equations left side A = S_a^{-1} + Wᵀ K.
	var lhs mat.Dense
	lhs.Mul(weighted.T(), K)
	lhs.Add(e.priorInv, &lhs)

	// Right side b = Wᵀ (y_obs − y_k + K (x_k − x_a)).
	var departure mat.VecDense
	departure.SubVec(current.State, e.prior.State)
	var residual mat.VecDense
	residual.MulVec(K, &departure)
	residual.AddVec(&residual, observed)
	residual.SubVec(&residual, current.Predicted)
	var rhs mat.VecDense
	rhs.MulVec(weighted.T(), &residual)

	// A δ = b, then x_{k+1} = x_a + δ.
	var delta mat.VecDense
	if err := delta.SolveVec(&lhs, &rhs); err != nil {
		return Snapshot{}, fmt.Errorf("normal equations: %w", ErrSingular)
	}
	var next mat.VecDense
	next.AddVec(e.prior.State, &delta)

	predicted, err := e.predict(&next)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{State: &next, Predicted: predicted}, nil
}

// predict evaluates the forward model and checks the result length.
func (e *Estimator) predict(state mat.Vector) (mat.Vector, error) {
	m, _ := e.model.Dims()
	predicted, err := e.model.Eval(state)
	if err != nil {
		return nil, err
	}
	if predicted.Len() != m {
		return nil, fmt.Errorf("model returned %d observations, want %d: %w", predicted.Len(), m, ErrDimensionMismatch)
	}
	return predicted, nil
}

// relativeChange returns |next − prev| / |prev| in the 2-norm, or the
// absolute change when prev is the zero vector.
func relativeChange(prev, next mat.Vector) float64 {
	var diff mat.VecDense
	diff.SubVec(next, prev)
	norm := mat.Norm(prev, 2)
	if norm == 0 {
		return mat.Norm(&diff, 2)
	}
	return mat.Norm(&diff, 2) / norm
}
