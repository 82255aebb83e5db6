package torsor

import (
	"context"
	"math"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/jackhale98/PDT/errors"
	"github.com/jackhale98/PDT/stackup"
)

// Contributor is one feature frame in a 3D tolerance chain: its resolved
// geometry, its torsor bounds, and its sampling model for Monte Carlo.
type Contributor struct {
	Name      string `yaml:"name"`
	FeatureID string `yaml:"feature_id,omitempty"`

	Class    GeometryClass `yaml:"geometry_class"`
	Geometry *Geometry3D   `yaml:"geometry_3d"`

	Bounds Bounds `yaml:"bounds"`

	Distribution stackup.Distribution `yaml:"distribution,omitempty"`
	// SigmaLevel for variance conversion; <= 0 selects the default
	SigmaLevel float64 `yaml:"sigma_level,omitempty"`
}

func (c *Contributor) sigmaLevel() float64 {
	if c.SigmaLevel > 0 {
		return c.SigmaLevel
	}
	return stackup.DefaultSigmaLevel
}

// jacobian builds the contributor's transform to the measurement frame. The
// lever arm is the feature origin; a feature axis differing from the result
// axis composes the aligning rotation first. A missing or zero axis is taken
// as aligned.
func (c *Contributor) jacobian(resultAxis [3]float64) *mat.Dense {
	var origin, axis [3]float64
	if c.Geometry != nil {
		origin = c.Geometry.Origin
		axis = c.Geometry.Axis
	}
	if _, ok := normalize3(axis); !ok {
		return Jacobian(origin)
	}
	rot := RotationBetween(axis, resultAxis)
	return JacobianRotated(origin, rot)
}

// PropagateWorstCase sums per-contributor interval extremes into worst-case
// bounds at the measurement frame. For each output component the minimum
// (maximum) accumulates the smaller (larger) of each Jacobian-scaled bound
// endpoint.
func PropagateWorstCase(contribs []Contributor, resultAxis [3]float64) Bounds {
	var lo, hi [NumDOF]float64

	for i := range contribs {
		j := contribs[i].jacobian(resultAxis)
		for out := 0; out < NumDOF; out++ {
			for in := 0; in < NumDOF; in++ {
				jv := j.At(out, in)
				iv := contribs[i].Bounds.At(in)
				a, b := jv*iv.Min(), jv*iv.Max()
				if a > b {
					a, b = b, a
				}
				lo[out] += a
				hi[out] += b
			}
		}
	}

	var b Bounds
	for dof := 0; dof < NumDOF; dof++ {
		b.Set(dof, lo[dof], hi[dof])
	}
	return b
}

// PropagateRSS combines contributors statistically. Each bound's mean is its
// interval center and its standard deviation is the interval width divided by
// the contributor's sigma level; the Jacobian scales means linearly and
// variances quadratically. The second return value holds each contributor's
// variance share per component, in percent.
func PropagateRSS(contribs []Contributor, resultAxis [3]float64) (ResultTorsor, [][NumDOF]float64) {
	var mean, variance [NumDOF]float64
	individual := make([][NumDOF]float64, len(contribs))

	for i := range contribs {
		j := contribs[i].jacobian(resultAxis)
		level := contribs[i].sigmaLevel()

		for out := 0; out < NumDOF; out++ {
			for in := 0; in < NumDOF; in++ {
				jv := j.At(out, in)
				iv := contribs[i].Bounds.At(in)

				mean[out] += jv * iv.Center()

				sigma := iv.Width() / level
				v := jv * jv * sigma * sigma
				variance[out] += v
				individual[i][out] += v
			}
		}
	}

	var res ResultTorsor
	for dof := 0; dof < NumDOF; dof++ {
		s := res.DOF(dof)
		s.RSSMean = mean[dof]
		s.RSS3Sigma = 3 * math.Sqrt(variance[dof])
	}

	// Variance shares per component
	for i := range individual {
		for dof := 0; dof < NumDOF; dof++ {
			if variance[dof] > 0 {
				individual[i][dof] = individual[i][dof] / variance[dof] * 100.0
			} else {
				individual[i][dof] = 0
			}
		}
	}

	return res, individual
}

// MonteCarlo3D samples each contributor's torsor independently per its
// distribution, transforms through its Jacobian, sums, and reports the mean
// and standard deviation per component. Reproducible for a fixed
// (seed, batches) pair; cancellation aborts with ErrPartialComputation. The
// seed used is returned for recording.
func MonteCarlo3D(ctx context.Context, contribs []Contributor, resultAxis [3]float64, cfg stackup.MonteCarloConfig) (*ResultTorsor, uint64, error) {
	if cfg.Iterations <= 0 {
		return nil, 0, errors.NewConfigError(
			"monte carlo iterations must be > 0, got %d", cfg.Iterations)
	}

	batches := cfg.Batches
	if batches <= 0 {
		batches = stackup.DefaultMonteCarloBatches
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

	jacobians := make([]*mat.Dense, len(contribs))
	for i := range contribs {
		jacobians[i] = contribs[i].jacobian(resultAxis)
	}

	parts := make([][][NumDOF]float64, batches)
	per := cfg.Iterations / batches
	extra := cfg.Iterations % batches

	g, gctx := errgroup.WithContext(ctx)
	for b := 0; b < batches; b++ {
		n := per
		if b < extra {
			n++
		}
		part := make([][NumDOF]float64, n)
		parts[b] = part
		src := rand.NewPCG(seed, uint64(b)+1)

		g.Go(func() error {
			samplers := make([][NumDOF]dofSampler, len(contribs))
			for i := range contribs {
				samplers[i] = newTorsorSampler(&contribs[i], src)
			}

			x := mat.NewVecDense(NumDOF, nil)
			y := mat.NewVecDense(NumDOF, nil)
			total := mat.NewVecDense(NumDOF, nil)

			for it := range part {
				if it%1024 == 0 && gctx.Err() != nil {
					return errors.Wrap(errors.ErrPartialComputation, "monte carlo 3d sampling")
				}
				total.Zero()
				for i := range samplers {
					for dof := 0; dof < NumDOF; dof++ {
						x.SetVec(dof, samplers[i][dof].Rand())
					}
					y.MulVec(jacobians[i], x)
					total.AddVec(total, y)
				}
				for dof := 0; dof < NumDOF; dof++ {
					part[it][dof] = total.AtVec(dof)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	samples := make([][]float64, NumDOF)
	for dof := range samples {
		samples[dof] = make([]float64, 0, cfg.Iterations)
	}
	for _, part := range parts {
		for _, torsor := range part {
			for dof := 0; dof < NumDOF; dof++ {
				samples[dof] = append(samples[dof], torsor[dof])
			}
		}
	}

	var res ResultTorsor
	for dof := 0; dof < NumDOF; dof++ {
		s := res.DOF(dof)
		s.MCMean = ptr(stat.Mean(samples[dof], nil))
		if len(samples[dof]) > 1 {
			s.MCStdDev = ptr(stat.StdDev(samples[dof], nil))
		} else {
			s.MCStdDev = ptr(0)
		}
	}
	return &res, seed, nil
}

// dofSampler draws one value per call for a single torsor component.
type dofSampler interface {
	Rand() float64
}

type constant float64

func (c constant) Rand() float64 { return float64(c) }

// newTorsorSampler builds the six per-component samplers for a contributor.
// Each component samples its bound independently: normal centered on the
// interval midpoint with sigma = width/sigma_level, uniform over the
// interval, or triangular peaking at the midpoint. Zero-width bounds sample
// the constant midpoint.
func newTorsorSampler(c *Contributor, src rand.Source) [NumDOF]dofSampler {
	var s [NumDOF]dofSampler
	level := c.sigmaLevel()

	for dof := 0; dof < NumDOF; dof++ {
		iv := c.Bounds.At(dof)
		if iv.Width() <= 0 {
			s[dof] = constant(iv.Center())
			continue
		}
		switch c.Distribution {
		case stackup.DistributionUniform:
			s[dof] = distuv.Uniform{Min: iv.Min(), Max: iv.Max(), Src: src}
		case stackup.DistributionTriangular:
			s[dof] = distuv.NewTriangle(iv.Min(), iv.Max(), iv.Center(), src)
		default:
			s[dof] = distuv.Normal{Mu: iv.Center(), Sigma: iv.Width() / level, Src: src}
		}
	}
	return s
}
