package entity

import (
	"time"

	"github.com/jackhale98/PDT/errors"
	"github.com/jackhale98/PDT/stackup"
	"github.com/jackhale98/PDT/torsor"
)

// ContributorRef is one entry of a stackup's chain. Either the numeric
// fields are given inline, or Feature names a feature entity the tool
// resolves before analysis.
type ContributorRef struct {
	Name      string            `yaml:"name"`
	Feature   ID                `yaml:"feature,omitempty"`
	Direction stackup.Direction `yaml:"direction"`

	Nominal      float64              `yaml:"nominal,omitempty"`
	PlusTol      float64              `yaml:"plus_tol,omitempty"`
	MinusTol     float64              `yaml:"minus_tol,omitempty"`
	Distribution stackup.Distribution `yaml:"distribution,omitempty"`

	// ActualSize feeds material condition bonus when the feature carries a
	// position tolerance
	ActualSize *float64 `yaml:"actual_size,omitempty"`
}

// Analysis3DConfig enables torsor propagation for a stackup.
type Analysis3DConfig struct {
	Enabled    bool `yaml:"enabled"`
	MonteCarlo bool `yaml:"monte_carlo,omitempty"`
	Iterations int  `yaml:"iterations,omitempty"`
}

// Stackup is a persisted tolerance chain: the target specification, the
// ordered contributor list, the analysis settings, and the last stored
// results.
type Stackup struct {
	ID          ID     `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`

	Target       stackup.Target   `yaml:"target"`
	Contributors []ContributorRef `yaml:"contributors"`

	// SigmaLevel of 0 falls back to the configured default
	SigmaLevel float64 `yaml:"sigma_level,omitempty"`
	MeanShiftK float64 `yaml:"mean_shift_k,omitempty"`
	IncludeGDT bool    `yaml:"include_gdt,omitempty"`

	FunctionalDirection *[3]float64       `yaml:"functional_direction,omitempty"`
	Analysis3D          *Analysis3DConfig `yaml:"analysis_3d,omitempty"`

	// Disposition records the engineering judgement on the stackup, e.g.
	// "accepted" or "needs rework"
	Disposition string   `yaml:"disposition,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`

	// Results of the most recent analyses, if stored
	Results   *stackup.AnalysisResults `yaml:"results,omitempty"`
	Results3D *torsor.Analysis         `yaml:"results_3d,omitempty"`

	Created  time.Time `yaml:"created,omitempty"`
	Author   string    `yaml:"author,omitempty"`
	Revision int       `yaml:"entity_revision,omitempty"`
}

// FeatureLookup resolves a feature ID to its entity.
type FeatureLookup func(ID) (*Feature, bool)

// ResolveInput dereferences feature-linked contributors into plain numeric
// engine inputs. Inline numeric contributors pass through unchanged. A
// referenced feature that cannot be found, or that has no dimension, rejects
// the whole stackup.
func (s *Stackup) ResolveInput(lookup FeatureLookup, defaultSigma float64) (*stackup.Input, error) {
	in := &stackup.Input{
		Target:     s.Target,
		SigmaLevel: s.SigmaLevel,
		MeanShiftK: s.MeanShiftK,
		IncludeGDT: s.IncludeGDT,
	}
	if in.SigmaLevel <= 0 {
		in.SigmaLevel = defaultSigma
	}

	in.Contributors = make([]stackup.Contributor, 0, len(s.Contributors))
	for i, ref := range s.Contributors {
		c := stackup.Contributor{
			Name:         ref.Name,
			Direction:    ref.Direction,
			Nominal:      ref.Nominal,
			PlusTol:      ref.PlusTol,
			MinusTol:     ref.MinusTol,
			Distribution: ref.Distribution,
		}

		if ref.Feature != "" {
			feat, ok := lookupFeature(lookup, ref.Feature)
			if !ok {
				return nil, errors.Wrapf(errors.ErrNotFound,
					"contributor %q (index %d): feature %s", ref.Name, i, ref.Feature)
			}
			fc, ok := feat.Contributor(ref.Direction)
			if !ok {
				return nil, errors.NewValidationError(
					"contributor %q (index %d): feature %s has no dimensions",
					ref.Name, i, ref.Feature)
			}
			if c.Name == "" {
				c.Name = fc.Name
			}
			c.FeatureID = fc.FeatureID
			c.Nominal = fc.Nominal
			c.PlusTol = fc.PlusTol
			c.MinusTol = fc.MinusTol
			if c.Distribution == "" {
				c.Distribution = fc.Distribution
			}
			c.Gdt = fc.Gdt
			if c.Gdt != nil {
				c.Gdt.ActualSize = ref.ActualSize
			}
		}

		in.Contributors = append(in.Contributors, c)
	}

	return in, nil
}

// Resolve3DInput builds the torsor chain input. Every contributor must
// reference a feature carrying a geometry class and 3D geometry; bounds come
// from each feature's tolerances.
func (s *Stackup) Resolve3DInput(lookup FeatureLookup, defaultSigma float64) (*torsor.Input, error) {
	sigma := s.SigmaLevel
	if sigma <= 0 {
		sigma = defaultSigma
	}

	in := &torsor.Input{
		Target:              &s.Target,
		FunctionalDirection: s.FunctionalDirection,
	}

	in.Contributors = make([]torsor.Contributor, 0, len(s.Contributors))
	for i, ref := range s.Contributors {
		if ref.Feature == "" {
			return nil, errors.NewValidationError(
				"contributor %q (index %d): 3d analysis requires a feature reference",
				ref.Name, i)
		}
		feat, ok := lookupFeature(lookup, ref.Feature)
		if !ok {
			return nil, errors.Wrapf(errors.ErrNotFound,
				"contributor %q (index %d): feature %s", ref.Name, i, ref.Feature)
		}

		name := ref.Name
		if name == "" {
			name = feat.Title
		}
		dist := ref.Distribution
		if dist == "" {
			if dim := feat.PrimaryDimension(); dim != nil {
				dist = dim.Distribution
			}
		}

		in.Contributors = append(in.Contributors, torsor.Contributor{
			Name:         name,
			FeatureID:    string(feat.ID),
			Class:        feat.GeometryClass,
			Geometry:     feat.Geometry3D,
			Bounds:       feat.TorsorBounds(ref.ActualSize),
			Distribution: dist,
			SigmaLevel:   sigma,
		})
	}

	return in, nil
}

func lookupFeature(lookup FeatureLookup, id ID) (*Feature, bool) {
	if lookup == nil {
		return nil, false
	}
	return lookup(id)
}
