// Package simulate generates synthetic observations for retrieval
// harnesses and tests: the forward model is evaluated at a chosen
// truth state and per-channel Gaussian noise is added on top.
package simulate

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/prowe12/greyBodyRetrieval/forward"
)

// Observe evaluates model at the truth state and perturbs channel i by
// zero-mean Gaussian noise with standard deviation sigma[i]. Draws
// come from a source seeded with seed, so a fixed seed reproduces the
// same observation vector. A zero sigma leaves its channel noiseless.
func Observe(model forward.Model, truth mat.Vector, sigma []float64, seed uint64) (mat.Vector, error) {
	clean, err := model.Eval(truth)
	if err != nil {
		return nil, err
	}
	if len(sigma) != clean.Len() {
		return nil, fmt.Errorf("%d noise levels for %d channels: %w", len(sigma), clean.Len(), forward.ErrDimensionMismatch)
	}

	src := rand.NewSource(seed)
	noisy := mat.VecDenseCopyOf(clean)
	for i, s := range sigma {
		if s == 0 {
			continue
		}
		dist := distuv.Normal{Mu: 0, Sigma: s, Src: src}
		noisy.SetVec(i, noisy.AtVec(i)+dist.Rand())
	}
	return noisy, nil
}
