package forward

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// First and second radiation constants for spectral radiance in
// wavenumber form.
const (
	radiationC1 = 1.191042972e-8
	radiationC2 = 1.4387769
)

// Planck returns the blackbody spectral radiance
//
//	B(ν,T) = c1 ν³ / (exp(c2 ν / T) − 1)
//
// at wavenumber nu (cm⁻¹) and temperature T (K), in W/(m² sr cm⁻¹).
// A zero wavenumber yields zero radiance rather than a division by
// zero.
func Planck(nu, temperature float64) float64 {
	if nu == 0 {
		return 0
	}
	return radiationC1 * nu * nu * nu / (math.Exp(radiationC2*nu/temperature) - 1)
}

// Greybody predicts an infrared radiance spectrum from a two-component
// cloud state [temperature (K), emissivity] over a fixed wavenumber
// grid:
//
//	y_i = 1000 B(ν_i, T) ε
//
// with radiances reported in mW/(m² sr cm⁻¹).
type Greybody struct {
	// Wavenumbers holds the observation channels, in cm⁻¹.
	Wavenumbers []float64
}

// NewGreybody returns a greybody model over the given wavenumber grid.
func NewGreybody(wavenumbers []float64) Greybody {
	return Greybody{Wavenumbers: wavenumbers}
}

// Dims returns the observation and state dimensions (m, n).
func (g Greybody) Dims() (m, n int) {
	return len(g.Wavenumbers), 2
}

// Eval returns the greybody spectrum at the state [T, ε].
func (g Greybody) Eval(x mat.Vector) (mat.Vector, error) {
	if x.Len() != 2 {
		return nil, fmt.Errorf("greybody state has length %d, want 2: %w", x.Len(), ErrDimensionMismatch)
	}
	temperature := x.AtVec(0)
	emissivity := x.AtVec(1)
	res := mat.NewVecDense(len(g.Wavenumbers), nil)
	for i, nu := range g.Wavenumbers {
		res.SetVec(i, 1000*Planck(nu, temperature)*emissivity)
	}
	return res, nil
}
