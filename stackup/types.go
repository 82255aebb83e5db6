// Package stackup implements 1D tolerance chain analysis.
//
// A stackup predicts whether an assembly's critical dimension (a gap,
// clearance, or interference) meets specification given the toleranced
// dimensions of the parts that form it. Three methods are provided:
//
//   - Worst-case: deterministic interval summation
//   - RSS: root-sum-square variance propagation with capability indices
//   - Monte Carlo: stochastic simulation with performance indices
//
// The engine is a pure function of its inputs: it owns no state, performs no
// I/O, and never mutates the caller's contributors. Inputs are validated and
// rejected before any computation; a run either completes a requested method
// fully or returns an error.
package stackup

// Direction of a contributor in the stackup chain.
type Direction string

const (
	// DirectionPositive adds to the stack
	DirectionPositive Direction = "positive"
	// DirectionNegative subtracts from the stack
	DirectionNegative Direction = "negative"
)

// Sign returns +1 for positive contributors and -1 for negative ones.
func (d Direction) Sign() float64 {
	if d == DirectionNegative {
		return -1.0
	}
	return 1.0
}

// Valid reports whether the direction is a known value.
func (d Direction) Valid() bool {
	return d == DirectionPositive || d == DirectionNegative
}

// Distribution selects the statistical model used for Monte Carlo sampling.
type Distribution string

const (
	// DistributionNormal is a Gaussian centered on the nominal with
	// sigma = (plus_tol + minus_tol) / sigma_level
	DistributionNormal Distribution = "normal"
	// DistributionUniform is uniform over [nominal-minus_tol, nominal+plus_tol]
	DistributionUniform Distribution = "uniform"
	// DistributionTriangular peaks at the nominal with limits at
	// nominal-minus_tol and nominal+plus_tol
	DistributionTriangular Distribution = "triangular"
)

// Valid reports whether the distribution is a known value. The empty string
// is valid and means normal.
func (d Distribution) Valid() bool {
	switch d {
	case "", DistributionNormal, DistributionUniform, DistributionTriangular:
		return true
	}
	return false
}

// MaterialCondition is the GD&T material condition modifier on a position
// tolerance.
type MaterialCondition string

const (
	// ConditionMMC grants bonus tolerance as the feature departs from its
	// maximum material condition
	ConditionMMC MaterialCondition = "mmc"
	// ConditionLMC grants bonus tolerance as the feature departs from its
	// least material condition
	ConditionLMC MaterialCondition = "lmc"
	// ConditionRFS applies the tolerance regardless of feature size (no bonus)
	ConditionRFS MaterialCondition = "rfs"
)

// Valid reports whether the material condition is a known value. The empty
// string is valid and means RFS.
func (m MaterialCondition) Valid() bool {
	switch m {
	case "", ConditionMMC, ConditionLMC, ConditionRFS:
		return true
	}
	return false
}

// Target is the critical dimension specification the stackup is measured
// against. Nominal is informative only; it is not constrained to lie inside
// the limits. USL must be strictly greater than LSL.
type Target struct {
	Name    string  `yaml:"name"`
	Nominal float64 `yaml:"nominal"`
	USL     float64 `yaml:"upper_limit"`
	LSL     float64 `yaml:"lower_limit"`
	Units   string  `yaml:"units,omitempty"`
	// Critical marks this as a critical-to-function dimension
	Critical bool `yaml:"critical,omitempty"`
}

// Band returns the tolerance band USL - LSL.
func (t Target) Band() float64 {
	return t.USL - t.LSL
}

// GdtContribution is a GD&T position tolerance carried by a contributor.
// When the stackup's include_gdt flag is set, the effective tolerance
// (position tolerance plus any MMC/LMC bonus) widens the contributor's
// tolerance band for the statistical analyses.
type GdtContribution struct {
	// PositionTolerance is the diameter of the position tolerance zone
	PositionTolerance float64 `yaml:"position_tolerance"`
	// ActualSize is the measured feature size used for bonus calculation.
	// Nil means no bonus (worst case).
	ActualSize *float64 `yaml:"actual_size,omitempty"`
	// MaterialCondition modifier; empty means RFS
	MaterialCondition MaterialCondition `yaml:"material_condition,omitempty"`
	// Internal marks a hole-like feature of size (MMC is the smallest size).
	// External (shaft-like) features have MMC at the largest size.
	Internal bool `yaml:"internal,omitempty"`
}

// Contributor is one dimension in the tolerance chain. Tolerances are stored
// as magnitudes, never signed. Contributors are supplied as an ordered,
// immutable list per analysis call; the engine does not own or mutate them.
type Contributor struct {
	Name string `yaml:"name"`
	// FeatureID is an optional cached reference to a feature entity. The
	// engine never dereferences it; callers must resolve feature dimensions
	// into the numeric fields below before invoking an analysis.
	FeatureID string `yaml:"feature_id,omitempty"`

	Direction Direction `yaml:"direction"`
	Nominal   float64   `yaml:"nominal"`
	PlusTol   float64   `yaml:"plus_tol"`
	MinusTol  float64   `yaml:"minus_tol"`

	Distribution Distribution `yaml:"distribution,omitempty"`

	// Gdt is an optional GD&T position tolerance contribution
	Gdt *GdtContribution `yaml:"gdt_position,omitempty"`
}

// ToleranceBand returns the dimensional tolerance band plus_tol + minus_tol.
func (c *Contributor) ToleranceBand() float64 {
	return c.PlusTol + c.MinusTol
}

// TotalToleranceBand returns the tolerance band, widened by the effective
// GD&T position tolerance when includeGdt is set and the contributor carries
// one.
func (c *Contributor) TotalToleranceBand(includeGdt bool) float64 {
	band := c.PlusTol + c.MinusTol
	if includeGdt && c.Gdt != nil {
		band += c.Gdt.EffectiveTolerance(c)
	}
	return band
}

// SignedNominal returns the nominal with the contributor's direction applied.
func (c *Contributor) SignedNominal() float64 {
	return c.Direction.Sign() * c.Nominal
}

// Input is a validated snapshot of everything a 1D analysis needs. All fields
// are caller-resolved plain numbers; the engine performs no lookups.
type Input struct {
	Target       Target        `yaml:"target"`
	Contributors []Contributor `yaml:"contributors"`

	// SigmaLevel is the number of standard deviations the stated tolerance
	// band represents. The conventional 6.0 means the band spans +/-3 sigma.
	SigmaLevel float64 `yaml:"sigma_level"`

	// MeanShiftK is the Bender k-factor modeling long-term process drift
	// toward the nearer specification limit. 0 disables the shift. The shift
	// affects Cpk only, never the reported mean.
	MeanShiftK float64 `yaml:"mean_shift_k,omitempty"`

	// IncludeGDT folds GD&T position tolerances into contributor bands for
	// the statistical analyses
	IncludeGDT bool `yaml:"include_gdt,omitempty"`
}

// DefaultSigmaLevel is the conventional sigma level: the tolerance band
// represents a +/-3 sigma process.
const DefaultSigmaLevel = 6.0

// Verdict classifies an analysis result against the specification limits.
type Verdict string

const (
	// VerdictPass means margin exceeds 10% of the tolerance band
	VerdictPass Verdict = "pass"
	// VerdictMarginal means a positive margin within 10% of the band
	VerdictMarginal Verdict = "marginal"
	// VerdictFail means zero or negative margin
	VerdictFail Verdict = "fail"
)

// Classify applies the pass/marginal/fail convention: pass iff
// margin > 0.1*band, fail iff margin <= 0, marginal in between. A margin of
// exactly 10% of the band is marginal.
func Classify(margin, band float64) Verdict {
	switch {
	case margin > 0.1*band:
		return VerdictPass
	case margin > 0:
		return VerdictMarginal
	default:
		return VerdictFail
	}
}

// WorstCaseResult is the deterministic interval summation result.
type WorstCaseResult struct {
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
	Margin  float64 `yaml:"margin"`
	Verdict Verdict `yaml:"result"`
}

// RSSResult is the root-sum-square statistical result.
type RSSResult struct {
	Mean   float64 `yaml:"mean"`
	Sigma  float64 `yaml:"sigma"`
	Sigma3 float64 `yaml:"sigma_3"`
	// Margin is the distance from the +/-3 sigma spread to the nearer limit
	Margin float64 `yaml:"margin"`

	// Cp and Cpk are nil when sigma is zero (capability is undefined for a
	// zero-variance stack, not infinite)
	Cp  *float64 `yaml:"cp,omitempty"`
	Cpk *float64 `yaml:"cpk,omitempty"`

	YieldPercent float64 `yaml:"yield_percent"`

	// Sensitivity holds each contributor's variance share in percent, indexed
	// like the input contributors. Empty when total variance is zero; sums to
	// 100 otherwise.
	Sensitivity []float64 `yaml:"sensitivity,omitempty"`

	// ShiftedMean is the Bender-shifted mean used for Cpk when mean_shift_k
	// is set; nil otherwise
	ShiftedMean *float64 `yaml:"shifted_mean,omitempty"`
}

// MonteCarloResult is the stochastic simulation result.
type MonteCarloResult struct {
	Iterations int     `yaml:"iterations"`
	Mean       float64 `yaml:"mean"`
	StdDev     float64 `yaml:"std_dev"`
	Min        float64 `yaml:"min"`
	Max        float64 `yaml:"max"`

	YieldPercent  float64 `yaml:"yield_percent"`
	Percentile2_5 float64 `yaml:"percentile_2_5"`
	Percentile975 float64 `yaml:"percentile_97_5"`

	// Pp and Ppk are nil when the sample standard deviation is zero
	Pp  *float64 `yaml:"pp,omitempty"`
	Ppk *float64 `yaml:"ppk,omitempty"`

	// Seed is the base random seed the run used, recorded for reproducibility
	Seed uint64 `yaml:"seed"`
}

// AnalysisResults bundles whichever methods were requested. Each present
// result is fully populated; a method that fails leaves the whole analysis
// rejected rather than a partial snapshot.
type AnalysisResults struct {
	WorstCase  *WorstCaseResult  `yaml:"worst_case,omitempty"`
	RSS        *RSSResult        `yaml:"rss,omitempty"`
	MonteCarlo *MonteCarloResult `yaml:"monte_carlo,omitempty"`
}

func ptr(v float64) *float64 { return &v }
