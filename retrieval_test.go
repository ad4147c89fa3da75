package retrieval

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	grid := cfg.Grid()
	require.Len(t, grid, 20)
	require.Equal(t, 200.0, grid[0])
	require.Equal(t, 1500.0, grid[len(grid)-1])
}

func TestRunDefaultScenario(t *testing.T) {
	run, err := New(DefaultConfig())
	require.NoError(t, err)

	result, err := run.Run()
	require.NoError(t, err)

	final := result.Final()
	require.InDelta(t, 300, final.AtVec(0), 1e-2)
	require.InDelta(t, 0.5, final.AtVec(1), 1e-3)
}

func TestRunSimulatedNoise(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SimulateNoise = true
	cfg.NoiseSeed = 11

	run, err := New(cfg)
	require.NoError(t, err)

	result, err := run.Run()
	require.NoError(t, err)

	// Channel noise of sigma 0.1 on ~50 mW radiances barely moves
	// the retrieved state.
	final := result.Final()
	require.InDelta(t, 300, final.AtVec(0), 1)
	require.InDelta(t, 0.5, final.AtVec(1), 0.05)
}

func TestRunObservedSpectrum(t *testing.T) {
	base, err := New(DefaultConfig())
	require.NoError(t, err)

	observed := base.Observed()
	data := make([]float64, observed.Len())
	for i := range data {
		data[i] = observed.AtVec(i)
	}

	cfg := DefaultConfig()
	cfg.TruthState = nil
	cfg.Observed = data

	run, err := New(cfg)
	require.NoError(t, err)

	result, err := run.Run()
	require.NoError(t, err)
	require.InDelta(t, 300, result.Final().AtVec(0), 1e-2)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no channels", func(c *Config) { c.Channels = 0 }},
		{"no prior", func(c *Config) { c.PriorState = nil }},
		{"variance length", func(c *Config) { c.PriorVariance = []float64{900} }},
		{"step length", func(c *Config) { c.Steps = []float64{0.1} }},
		{"first guess length", func(c *Config) { c.FirstGuess = []float64{273} }},
		{"measurement variance length", func(c *Config) { c.MeasurementVariance = []float64{0.01, 0.01} }},
		{"no data source", func(c *Config) { c.TruthState = nil }},
		{"observed length", func(c *Config) { c.Observed = []float64{1, 2, 3} }},
		{"negative iterations", func(c *Config) { c.Iterations = -1 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
