package stackup

import (
	"context"
	"math/rand/v2"
	"slices"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/jackhale98/PDT/errors"
)

// Monte Carlo defaults
const (
	DefaultMonteCarloIterations = 10000
	DefaultMonteCarloBatches    = 4
)

// MonteCarloConfig configures a simulation run.
type MonteCarloConfig struct {
	// Iterations is the number of samples to draw; must be > 0
	Iterations int
	// Batches is the number of independent sampling batches run
	// concurrently. Results are deterministic for a given (seed, batches)
	// pair regardless of the machine; <= 0 selects the default.
	Batches int
	// Seed is the base random seed. Nil draws a fresh seed; the seed used is
	// recorded on the result either way.
	Seed *uint64
}

// MonteCarlo runs a stochastic simulation of the stackup. Per iteration each
// contributor draws a sample from its configured distribution, signed by its
// direction and summed into one result sample. Sampling honors the context:
// cancellation aborts the run with ErrPartialComputation and no result.
func MonteCarlo(ctx context.Context, in *Input, cfg MonteCarloConfig) (*MonteCarloResult, error) {
	res, _, err := MonteCarloWithSamples(ctx, in, cfg)
	return res, err
}

// MonteCarloWithSamples runs a simulation and also returns the raw result
// samples, in deterministic batch order, for export or plotting.
func MonteCarloWithSamples(ctx context.Context, in *Input, cfg MonteCarloConfig) (*MonteCarloResult, []float64, error) {
	if err := Validate(in); err != nil {
		return nil, nil, err
	}
	if cfg.Iterations <= 0 {
		return nil, nil, errors.NewConfigError(
			"monte carlo iterations must be > 0, got %d", cfg.Iterations)
	}

	batches := cfg.Batches
	if batches <= 0 {
		batches = DefaultMonteCarloBatches
	}
	if batches > cfg.Iterations {
		batches = cfg.Iterations
	}

	var seed uint64
	if cfg.Seed != nil {
		seed = *cfg.Seed
	} else {
		seed = rand.Uint64()
	}

	// Iterations split across batches; each batch owns its slice segment and
	// a PCG source derived from (seed, batch index), so the concatenated
	// sample stream is reproducible.
	parts := make([][]float64, batches)
	per := cfg.Iterations / batches
	extra := cfg.Iterations % batches

	g, gctx := errgroup.WithContext(ctx)
	for b := 0; b < batches; b++ {
		n := per
		if b < extra {
			n++
		}
		part := make([]float64, n)
		parts[b] = part
		src := rand.NewPCG(seed, uint64(b)+1)

		g.Go(func() error {
			samplers := make([]sampler, len(in.Contributors))
			for i := range in.Contributors {
				samplers[i] = newSampler(&in.Contributors[i], in, src)
			}
			for it := range part {
				if it%1024 == 0 && gctx.Err() != nil {
					return errors.Wrap(errors.ErrPartialComputation, "monte carlo sampling")
				}
				var sum float64
				for i := range samplers {
					sum += in.Contributors[i].Direction.Sign() * samplers[i].Rand()
				}
				part[it] = sum
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	samples := make([]float64, 0, cfg.Iterations)
	for _, part := range parts {
		samples = append(samples, part...)
	}

	res := summarize(samples, in.Target)
	res.Seed = seed
	return res, samples, nil
}

// summarize extracts the reported statistics from a complete sample set.
func summarize(samples []float64, target Target) *MonteCarloResult {
	sorted := slices.Clone(samples)
	slices.Sort(sorted)

	n := float64(len(samples))
	mean := stat.Mean(samples, nil)
	stdDev := stat.StdDev(samples, nil)

	inSpec := 0
	for _, s := range samples {
		if s >= target.LSL && s <= target.USL {
			inSpec++
		}
	}

	res := &MonteCarloResult{
		Iterations:    len(samples),
		Mean:          mean,
		StdDev:        stdDev,
		Min:           sorted[0],
		Max:           sorted[len(sorted)-1],
		YieldPercent:  float64(inSpec) / n * 100.0,
		Percentile2_5: stat.Quantile(0.025, stat.Empirical, sorted, nil),
		Percentile975: stat.Quantile(0.975, stat.Empirical, sorted, nil),
	}

	// A zero-spread sample set has undefined performance indices, reported
	// as nil rather than infinite
	if stdDev > 0 {
		res.Pp = ptr(target.Band() / (6 * stdDev))
		res.Ppk = ptr(min(target.USL-mean, mean-target.LSL) / (3 * stdDev))
	}

	return res
}

// sampler draws one value per call. distuv distributions satisfy this
// directly; degenerate tolerance bands fall back to a constant.
type sampler interface {
	Rand() float64
}

type constant float64

func (c constant) Rand() float64 { return float64(c) }

// newSampler builds the sampling distribution for one contributor.
//
// Convention (pinned in tests): the normal model is symmetric about the
// nominal with sigma = band/sigma_level even for asymmetric tolerances;
// uniform and triangular span [nominal-minus_tol, nominal+plus_tol] with the
// triangular peak at the nominal. An included GD&T effective tolerance widens
// the band by half on each side.
func newSampler(c *Contributor, in *Input, src rand.Source) sampler {
	var gdt float64
	if in.IncludeGDT && c.Gdt != nil {
		gdt = c.Gdt.EffectiveTolerance(c)
	}
	lo := c.Nominal - c.MinusTol - gdt/2
	hi := c.Nominal + c.PlusTol + gdt/2

	switch c.Distribution {
	case DistributionUniform:
		if hi <= lo {
			return constant(c.Nominal)
		}
		return distuv.Uniform{Min: lo, Max: hi, Src: src}
	case DistributionTriangular:
		if hi <= lo {
			return constant(c.Nominal)
		}
		return distuv.NewTriangle(lo, hi, c.Nominal, src)
	default: // normal
		sigma := (c.PlusTol + c.MinusTol + gdt) / in.SigmaLevel
		if sigma <= 0 {
			return constant(c.Nominal)
		}
		return distuv.Normal{Mu: c.Nominal, Sigma: sigma, Src: src}
	}
}
