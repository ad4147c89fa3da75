package retrieval

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Config holds all scenario parameters for one retrieval run. Slices
// of length n describe the state space, slices of length m the
// observation channels.
type Config struct {
	// Observation grid: Channels wavenumbers linearly spaced from
	// WavenumberMin to WavenumberMax, in cm⁻¹.
	WavenumberMin float64 `toml:"wavenumber_min"`
	WavenumberMax float64 `toml:"wavenumber_max"`
	Channels      int     `toml:"channels"`

	// Prior state x_a and its per-component variance (diagonal S_a).
	PriorState    []float64 `toml:"prior_state"`
	PriorVariance []float64 `toml:"prior_variance"`

	// Per-channel measurement variance (diagonal S_e). A single value
	// applies to every channel.
	MeasurementVariance []float64 `toml:"measurement_variance"`

	// FirstGuess seeds the iteration; defaults to the prior state.
	FirstGuess []float64 `toml:"first_guess"`

	// Observed is the measured spectrum. When empty, observations are
	// simulated from TruthState; with SimulateNoise set, Gaussian
	// noise per MeasurementVariance is added under NoiseSeed.
	Observed      []float64 `toml:"observed"`
	TruthState    []float64 `toml:"truth_state"`
	SimulateNoise bool      `toml:"simulate_noise"`
	NoiseSeed     uint64    `toml:"noise_seed"`

	// Steps holds the per-component finite-difference step sizes.
	Steps []float64 `toml:"steps"`

	// Iterations bounds the Gauss-Newton loop; Tolerance, when
	// positive, adds an early exit on relative state change.
	Iterations int     `toml:"iterations"`
	Tolerance  float64 `toml:"tolerance"`
}

// DefaultConfig returns the cloud temperature/emissivity scenario: a
// 300 K cloud of emissivity 0.5 observed noise-free over twenty
// channels between 200 and 1500 cm⁻¹, retrieved from a deliberately
// cold, too-emissive prior.
func DefaultConfig() Config {
	return Config{
		WavenumberMin:       200,
		WavenumberMax:       1500,
		Channels:            20,
		PriorState:          []float64{273, 0.8},
		PriorVariance:       []float64{900, 1},
		MeasurementVariance: []float64{0.01},
		TruthState:          []float64{300, 0.5},
		Steps:               []float64{0.1, 0.01},
		Iterations:          5,
	}
}

// Grid returns the wavenumber grid described by the config.
func (c Config) Grid() []float64 {
	return floats.Span(make([]float64, c.Channels), c.WavenumberMin, c.WavenumberMax)
}

// Validate checks internal consistency of the scenario.
func (c Config) Validate() error {
	if c.Channels <= 0 {
		return errors.New("retrieval: channels must be positive")
	}
	n := len(c.PriorState)
	if n == 0 {
		return errors.New("retrieval: prior state is required")
	}
	if len(c.PriorVariance) != n {
		return fmt.Errorf("retrieval: %d prior variances for %d state components", len(c.PriorVariance), n)
	}
	if len(c.Steps) != n {
		return fmt.Errorf("retrieval: %d steps for %d state components", len(c.Steps), n)
	}
	if len(c.FirstGuess) != 0 && len(c.FirstGuess) != n {
		return fmt.Errorf("retrieval: first guess has length %d, want %d", len(c.FirstGuess), n)
	}
	switch len(c.MeasurementVariance) {
	case 1, c.Channels:
	default:
		return fmt.Errorf("retrieval: %d measurement variances for %d channels", len(c.MeasurementVariance), c.Channels)
	}
	if len(c.Observed) == 0 && len(c.TruthState) != n {
		return errors.New("retrieval: either an observed spectrum or a truth state is required")
	}
	if len(c.Observed) != 0 && len(c.Observed) != c.Channels {
		return fmt.Errorf("retrieval: observed spectrum has length %d, want %d", len(c.Observed), c.Channels)
	}
	if c.Iterations < 0 {
		return errors.New("retrieval: iterations must not be negative")
	}
	return nil
}

// channelVariances expands the measurement variance to one value per
// channel.
func (c Config) channelVariances() []float64 {
	variances := make([]float64, c.Channels)
	for i := range variances {
		if len(c.MeasurementVariance) == 1 {
			variances[i] = c.MeasurementVariance[0]
		} else {
			variances[i] = c.MeasurementVariance[i]
		}
	}
	return variances
}
