package dataset

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	scierrors "github.com/YuminosukeSato/regfit/pkg/errors"
)

// SyntheticConfig describes a noisy straight line sampled at evenly spaced x.
type SyntheticConfig struct {
	N         int
	Min       float64
	Max       float64
	Slope     float64
	Intercept float64
	Noise     float64 // standard deviation of the Gaussian noise
	Seed      uint64
}

// DefaultSyntheticConfig returns 100 points of y = 1.5x + 2 over [0, 10] with
// noise σ = 1.5 and seed 42.
func DefaultSyntheticConfig() SyntheticConfig {
	return SyntheticConfig{
		N:         100,
		Min:       0,
		Max:       10,
		Slope:     1.5,
		Intercept: 2,
		Noise:     1.5,
		Seed:      42,
	}
}

// Generate samples cfg. The same config always yields the same dataset.
func Generate(cfg SyntheticConfig) (*Dataset, error) {
	if cfg.N < 1 {
		return nil, scierrors.NewValidationError("n", "must be at least 1", cfg.N)
	}
	if cfg.Noise < 0 || math.IsNaN(cfg.Noise) {
		return nil, scierrors.NewValidationError("noise", "must be non-negative", cfg.Noise)
	}
	if cfg.Max < cfg.Min {
		return nil, scierrors.NewValidationError("max", "must not be below min", cfg.Max)
	}

	xs := make([]float64, cfg.N)
	if cfg.N == 1 {
		xs[0] = cfg.Min
	} else {
		floats.Span(xs, cfg.Min, cfg.Max)
	}

	noise := distuv.Normal{
		Mu:    0,
		Sigma: cfg.Noise,
		Src:   rand.NewPCG(cfg.Seed, cfg.Seed),
	}
	ys := make([]float64, cfg.N)
	for i, x := range xs {
		ys[i] = cfg.Slope*x + cfg.Intercept + noise.Rand()
	}

	return New(xs, ys)
}
