package main

import (
	"fmt"
	"os"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	retrieval "github.com/prowe12/greyBodyRetrieval"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	var (
		cfgPath    string
		iterations int
		tolerance  float64
	)

	root := &cobra.Command{
		Use:   "retrieve",
		Short: "Retrieve cloud temperature and emissivity from an infrared radiance spectrum",
		Long: `retrieve runs an optimal-estimation inverse retrieval: starting from a
prior cloud state it iteratively fits a greybody forward model to an
observed (or simulated) radiance spectrum and reports the most probable
temperature and emissivity.

Without a scenario file the built-in default scenario is used: a 300 K
cloud of emissivity 0.5 observed over twenty channels between 200 and
1500 cm⁻¹.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := retrieval.DefaultConfig()
			if cfgPath != "" {
				b, err := os.ReadFile(cfgPath)
				if err != nil {
					return fmt.Errorf("load scenario: %w", err)
				}
				if err := toml.Unmarshal(b, &cfg); err != nil {
					return fmt.Errorf("parse scenario: %w", err)
				}
			}
			// Flags override the scenario file.
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })
			if changed["iterations"] {
				cfg.Iterations = iterations
			}
			if changed["tolerance"] {
				cfg.Tolerance = tolerance
			}

			run, err := retrieval.New(cfg)
			if err != nil {
				return err
			}

			log.Info().
				Int("channels", cfg.Channels).
				Floats64("prior_state", cfg.PriorState).
				Int("iterations", cfg.Iterations).
				Msg("starting retrieval")

			result, err := run.RunContext(cmd.Context())
			if err != nil {
				return err
			}

			for i, snapshot := range result.Trajectory {
				states := make([]float64, snapshot.State.Len())
				for j := range states {
					states[j] = snapshot.State.AtVec(j)
				}
				log.Info().Int("iteration", i).Floats64("state", states).Msg("estimate")
			}

			final := result.Final()
			log.Info().
				Float64("temperature_k", final.AtVec(0)).
				Float64("emissivity", final.AtVec(1)).
				Msg("retrieved state")
			return nil
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to a TOML scenario file")
	root.Flags().IntVar(&iterations, "iterations", retrieval.DefaultConfig().Iterations, "number of Gauss-Newton iterations")
	root.Flags().Float64Var(&tolerance, "tolerance", 0, "relative state change for early exit (0 disables)")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("retrieve")
		os.Exit(1)
	}
}
