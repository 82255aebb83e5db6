package torsor

import (
	"context"
	"math"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/jackhale98/PDT/errors"
	"github.com/jackhale98/PDT/stackup"
)

// Input is a validated snapshot of a 3D tolerance chain. Contributors are
// ordered along the physical chain; unlike the 1D methods, reordering changes
// the result whenever positions differ, so the order is part of the data. All
// geometry is caller-resolved; the engine performs no lookups.
type Input struct {
	// Target supplies the limits a functional projection is judged against.
	// Required when FunctionalDirection is set.
	Target *stackup.Target `yaml:"target,omitempty"`

	Contributors []Contributor `yaml:"contributors"`

	// ChainOrder optionally declares the expected contributor order by name.
	// When set, the contributor list must match it exactly.
	ChainOrder []string `yaml:"chain_order,omitempty"`

	// FunctionalDirection projects the result torsor onto a scalar deviation.
	// Nil reports all six components with no pass/fail classification.
	FunctionalDirection *[3]float64 `yaml:"functional_direction,omitempty"`

	// ResultAxis orients the measurement frame; contributors whose feature
	// axis differs are rotated into it. Nil means +Z.
	ResultAxis *[3]float64 `yaml:"result_axis,omitempty"`
}

// Request selects the optional parts of a 3D analysis. Worst-case and RSS
// propagation always run.
type Request struct {
	MonteCarlo       bool
	MonteCarloConfig stackup.MonteCarloConfig
}

// Sensitivity is one contributor's variance share per torsor component, in
// percent of the chain total for that component.
type Sensitivity struct {
	Name         string          `yaml:"name"`
	FeatureID    string          `yaml:"feature_id,omitempty"`
	Contribution [NumDOF]float64 `yaml:"contribution_pct"`
}

// Summary describes the chain's degree-of-freedom structure.
type Summary struct {
	ChainLength int `yaml:"chain_length"`
	// ConstrainedDOF is the total count of constrained components across the
	// chain's geometry classes
	ConstrainedDOF int `yaml:"constrained_dof"`
	// ResultFreeDOF lists the components with zero worst-case width at the
	// result, by index
	ResultFreeDOF []int `yaml:"result_free_dof,omitempty"`
}

// Projection is the scalar deviation of the result torsor along the
// functional direction, judged against the target limits. Deviations are
// relative to the target nominal, so the limits are applied as offsets from
// it.
type Projection struct {
	Direction [3]float64 `yaml:"direction"`

	WCMin     float64  `yaml:"wc_min"`
	WCMax     float64  `yaml:"wc_max"`
	RSSMean   float64  `yaml:"rss_mean"`
	RSS3Sigma float64  `yaml:"rss_3sigma"`
	MCMean    *float64 `yaml:"mc_mean,omitempty"`
	MCStdDev  *float64 `yaml:"mc_std_dev,omitempty"`

	// Cp and Cpk are nil when the projected variance is zero
	Cp  *float64 `yaml:"cp,omitempty"`
	Cpk *float64 `yaml:"cpk,omitempty"`

	YieldPercent float64         `yaml:"yield_percent"`
	Margin       float64         `yaml:"margin"`
	Verdict      stackup.Verdict `yaml:"result"`
}

// Analysis is the complete 3D result: per-component stats, worst-case
// bounds, sensitivity ranking, chain summary, and the functional projection
// when a direction was supplied. AnalyzedAt is set from the caller's clock.
type Analysis struct {
	Torsor      ResultTorsor  `yaml:"result_torsor"`
	WorstCase   Bounds        `yaml:"worst_case"`
	Sensitivity []Sensitivity `yaml:"sensitivity,omitempty"`
	Summary     Summary       `yaml:"summary"`
	Projection  *Projection   `yaml:"functional_result,omitempty"`

	// Seed is the Monte Carlo seed when a simulation ran
	Seed *uint64 `yaml:"seed,omitempty"`

	AnalyzedAt time.Time `yaml:"analyzed_at,omitempty"`
}

// Validate checks a 3D input before any computation. Every contributor must
// carry a valid geometry class and resolved geometry; a declared chain order
// must match the contributor list. Rejection is complete, never partial.
func Validate(in *Input) error {
	if in == nil {
		return errors.NewValidationError("input is required")
	}
	if len(in.Contributors) == 0 {
		return errors.NewValidationError("chain has no contributors")
	}

	if len(in.ChainOrder) > 0 {
		if len(in.ChainOrder) != len(in.Contributors) {
			return errors.NewValidationError(
				"chain order lists %d features but chain has %d contributors",
				len(in.ChainOrder), len(in.Contributors))
		}
		for i, name := range in.ChainOrder {
			if in.Contributors[i].Name != name {
				return errors.NewValidationError(
					"chain order mismatch at index %d: expected %q, got %q",
					i, name, in.Contributors[i].Name)
			}
		}
	}

	for i := range in.Contributors {
		c := &in.Contributors[i]
		if c.Name == "" {
			return errors.NewValidationError("contributor at index %d: name is required", i)
		}
		if !c.Class.Valid() {
			return errors.NewValidationError(
				"contributor %q (index %d): unknown geometry class %q", c.Name, i, c.Class)
		}
		if c.Geometry == nil {
			return errors.NewValidationError(
				"contributor %q (index %d): geometry_3d is required for 3d analysis", c.Name, i)
		}
		if !c.Distribution.Valid() {
			return errors.NewConfigError(
				"contributor %q (index %d): unsupported distribution %q",
				c.Name, i, c.Distribution)
		}
		if c.SigmaLevel < 0 {
			return errors.NewConfigError(
				"contributor %q (index %d): sigma_level must be >= 0, got %g",
				c.Name, i, c.SigmaLevel)
		}
	}

	if in.FunctionalDirection != nil && in.Target == nil {
		return errors.NewValidationError(
			"functional direction requires a target for classification")
	}

	return nil
}

// Analyze propagates the chain. Worst-case and RSS always run; Monte Carlo
// runs when requested and honors the context. The analysis timestamp is
// taken from the supplied clock value, not the engine.
func Analyze(ctx context.Context, in *Input, req Request, now time.Time) (*Analysis, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	axis := [3]float64{0, 0, 1}
	if in.ResultAxis != nil {
		axis = *in.ResultAxis
	}

	wc := PropagateWorstCase(in.Contributors, axis)
	torsor, shares := PropagateRSS(in.Contributors, axis)
	torsor.mergeWC(wc)

	out := &Analysis{
		Torsor:     torsor,
		WorstCase:  wc,
		AnalyzedAt: now,
	}

	if req.MonteCarlo {
		mc, seed, err := MonteCarlo3D(ctx, in.Contributors, axis, req.MonteCarloConfig)
		if err != nil {
			return nil, err
		}
		out.Torsor.mergeMC(mc)
		out.Seed = &seed
	}

	out.Sensitivity = make([]Sensitivity, len(in.Contributors))
	for i := range in.Contributors {
		out.Sensitivity[i] = Sensitivity{
			Name:         in.Contributors[i].Name,
			FeatureID:    in.Contributors[i].FeatureID,
			Contribution: shares[i],
		}
	}

	out.Summary = summarize(in.Contributors, wc)

	if in.FunctionalDirection != nil {
		proj := Project(&out.Torsor, *in.FunctionalDirection, *in.Target)
		out.Projection = &proj
	}

	return out, nil
}

func summarize(contribs []Contributor, wc Bounds) Summary {
	s := Summary{ChainLength: len(contribs)}
	for i := range contribs {
		s.ConstrainedDOF += len(contribs[i].Class.ConstrainedDOF())
	}
	for dof := 0; dof < NumDOF; dof++ {
		if wc.At(dof).Width() == 0 {
			s.ResultFreeDOF = append(s.ResultFreeDOF, dof)
		}
	}
	return s
}

// Project collapses the result torsor onto a functional direction. The
// translational stats project linearly for means and extremes and
// quadratically for variances; rotations do not contribute. The projected
// deviation is judged against the target limits taken as offsets from the
// nominal.
func Project(torsor *ResultTorsor, direction [3]float64, target stackup.Target) Projection {
	d, ok := normalize3(direction)
	if !ok {
		d = [3]float64{1, 0, 0}
	}

	trans := [3]*Stats{&torsor.U, &torsor.V, &torsor.W}

	p := Projection{Direction: d}
	var variance float64
	for i, s := range trans {
		// Interval endpoints scaled by a signed coefficient swap roles
		a, b := d[i]*s.WCMin, d[i]*s.WCMax
		if a > b {
			a, b = b, a
		}
		p.WCMin += a
		p.WCMax += b

		p.RSSMean += d[i] * s.RSSMean
		sigma := s.RSS3Sigma / 3
		variance += d[i] * d[i] * sigma * sigma
	}
	sigma := math.Sqrt(variance)
	p.RSS3Sigma = 3 * sigma

	if torsor.U.MCMean != nil && torsor.V.MCMean != nil && torsor.W.MCMean != nil {
		mean := d[0]*(*torsor.U.MCMean) + d[1]*(*torsor.V.MCMean) + d[2]*(*torsor.W.MCMean)
		p.MCMean = ptr(mean)
	}
	if torsor.U.MCStdDev != nil && torsor.V.MCStdDev != nil && torsor.W.MCStdDev != nil {
		su, sv, sw := *torsor.U.MCStdDev, *torsor.V.MCStdDev, *torsor.W.MCStdDev
		v := d[0]*d[0]*su*su + d[1]*d[1]*sv*sv + d[2]*d[2]*sw*sw
		p.MCStdDev = ptr(math.Sqrt(v))
	}

	// Limits as deviations from the nominal
	devUSL := target.USL - target.Nominal
	devLSL := target.LSL - target.Nominal
	band := devUSL - devLSL

	p.Margin = math.Min(devUSL-(p.RSSMean+p.RSS3Sigma), (p.RSSMean-p.RSS3Sigma)-devLSL)
	p.Verdict = stackup.Classify(p.Margin, band)

	if sigma > 0 {
		p.Cp = ptr(band / (6 * sigma))
		p.Cpk = ptr(math.Min(devUSL-p.RSSMean, p.RSSMean-devLSL) / (3 * sigma))

		phi := distuv.UnitNormal.CDF
		p.YieldPercent = 100 * (phi((devUSL-p.RSSMean)/sigma) - phi((devLSL-p.RSSMean)/sigma))
	} else if p.RSSMean >= devLSL && p.RSSMean <= devUSL {
		p.YieldPercent = 100
	}

	return p
}
