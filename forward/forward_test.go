package forward

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestPlanckZeroWavenumber(t *testing.T) {
	for _, temperature := range []float64{1, 150, 273.15, 300, 6000} {
		require.Zero(t, Planck(0, temperature))
	}
}

func TestPlanckPositive(t *testing.T) {
	require.Greater(t, Planck(1000, 300), 0.0)
	// Warmer bodies radiate more at every wavenumber.
	require.Greater(t, Planck(1000, 310), Planck(1000, 300))
}

func TestGreybodyDims(t *testing.T) {
	g := NewGreybody([]float64{200, 500, 1000})
	m, n := g.Dims()
	require.Equal(t, 3, m)
	require.Equal(t, 2, n)
}

func TestGreybodyEval(t *testing.T) {
	g := NewGreybody([]float64{0, 500, 1000})

	y, err := g.Eval(mat.NewVecDense(2, []float64{300, 0.5}))
	require.NoError(t, err)
	require.Equal(t, 3, y.Len())

	// A zero-wavenumber channel reports zero radiance, never NaN.
	require.Zero(t, y.AtVec(0))

	// The spectrum is linear in emissivity at fixed temperature.
	double, err := g.Eval(mat.NewVecDense(2, []float64{300, 1.0}))
	require.NoError(t, err)
	for i := 0; i < y.Len(); i++ {
		require.InDelta(t, 2*y.AtVec(i), double.AtVec(i), 1e-12)
	}
}

func TestGreybodyEvalBadState(t *testing.T) {
	g := NewGreybody([]float64{500})
	_, err := g.Eval(mat.NewVecDense(3, nil))
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestFuncAdapter(t *testing.T) {
	identity := Func{
		M: 2,
		N: 2,
		F: func(x mat.Vector) (mat.Vector, error) {
			return mat.VecDenseCopyOf(x), nil
		},
	}

	m, n := identity.Dims()
	require.Equal(t, 2, m)
	require.Equal(t, 2, n)

	y, err := identity.Eval(mat.NewVecDense(2, []float64{1, -3}))
	require.NoError(t, err)
	require.Equal(t, -3.0, y.AtVec(1))

	_, err = identity.Eval(mat.NewVecDense(4, nil))
	require.ErrorIs(t, err, ErrDimensionMismatch)
}
