// Package retrieval ties a forward model, prior knowledge and the
// optimal estimator together into a runnable inverse-retrieval
// scenario. The bundled instance retrieves cloud temperature and
// emissivity from an infrared greybody radiance spectrum.
package retrieval

import (
	"context"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/prowe12/greyBodyRetrieval/estimate"
	"github.com/prowe12/greyBodyRetrieval/forward"
	"github.com/prowe12/greyBodyRetrieval/gonumext"
	"github.com/prowe12/greyBodyRetrieval/simulate"
)

// Retrieval is a fully wired scenario ready to run.
type Retrieval struct {
	model     forward.Model
	estimator *estimate.Estimator
	first     mat.Vector
	observed  mat.Vector
}

// New builds a greybody retrieval from cfg. When the config carries no
// observed spectrum, one is simulated from the truth state.
func New(cfg Config) (*Retrieval, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	model := forward.NewGreybody(cfg.Grid())
	prior := estimate.Prior{
		State:      mat.NewVecDense(len(cfg.PriorState), cfg.PriorState),
		Covariance: gonumext.Diag(cfg.PriorVariance),
	}
	noise := gonumext.Diag(cfg.channelVariances())

	estimator, err := estimate.New(model, prior, noise, cfg.Steps)
	if err != nil {
		return nil, err
	}
	if cfg.Iterations > 0 {
		if err := estimator.SetIterations(cfg.Iterations); err != nil {
			return nil, err
		}
	}
	if cfg.Tolerance > 0 {
		estimator.SetTolerance(cfg.Tolerance)
	}

	observed, err := observations(cfg, model)
	if err != nil {
		return nil, err
	}

	first := cfg.FirstGuess
	if len(first) == 0 {
		first = cfg.PriorState
	}

	return &Retrieval{
		model:     model,
		estimator: estimator,
		first:     mat.NewVecDense(len(first), first),
		observed:  observed,
	}, nil
}

// Model returns the forward model of the scenario.
func (r *Retrieval) Model() forward.Model {
	return r.model
}

// Observed returns the data vector the retrieval fits against.
func (r *Retrieval) Observed() mat.Vector {
	return mat.VecDenseCopyOf(r.observed)
}

// Run executes the retrieval.
func (r *Retrieval) Run() (*estimate.Result, error) {
	return r.RunContext(context.Background())
}

// RunContext executes the retrieval under ctx.
func (r *Retrieval) RunContext(ctx context.Context) (*estimate.Result, error) {
	return r.estimator.SolveContext(ctx, r.first, r.observed)
}

// observations returns the configured observed spectrum, simulating
// one from the truth state when none is given.
func observations(cfg Config, model forward.Model) (mat.Vector, error) {
	if len(cfg.Observed) != 0 {
		return mat.NewVecDense(len(cfg.Observed), cfg.Observed), nil
	}
	sigma := make([]float64, cfg.Channels)
	if cfg.SimulateNoise {
		for i, v := range cfg.channelVariances() {
			sigma[i] = math.Sqrt(v)
		}
	}
	truth := mat.NewVecDense(len(cfg.TruthState), cfg.TruthState)
	return simulate.Observe(model, truth, sigma, cfg.NoiseSeed)
}
