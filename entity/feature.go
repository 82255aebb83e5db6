package entity

import (
	"time"

	"github.com/jackhale98/PDT/stackup"
	"github.com/jackhale98/PDT/torsor"
)

// Dimension is one toleranced size on a feature.
type Dimension struct {
	// Name of the dimension, e.g. "diameter", "length"
	Name    string  `yaml:"name"`
	Nominal float64 `yaml:"nominal"`
	// PlusTol and MinusTol are magnitudes
	PlusTol  float64 `yaml:"plus_tol"`
	MinusTol float64 `yaml:"minus_tol"`
	Units    string  `yaml:"units,omitempty"`

	// Internal marks a hole-like feature of size; external is shaft-like
	Internal bool `yaml:"internal,omitempty"`

	// Distribution used when the dimension enters a Monte Carlo analysis
	Distribution stackup.Distribution `yaml:"distribution,omitempty"`
}

// Band returns plus_tol + minus_tol.
func (d *Dimension) Band() float64 { return d.PlusTol + d.MinusTol }

// MMC returns the maximum material condition size.
func (d *Dimension) MMC() float64 {
	if d.Internal {
		return d.Nominal - d.MinusTol
	}
	return d.Nominal + d.PlusTol
}

// LMC returns the least material condition size.
func (d *Dimension) LMC() float64 {
	if d.Internal {
		return d.Nominal + d.PlusTol
	}
	return d.Nominal - d.MinusTol
}

// PositionControl is a GD&T position tolerance on a feature.
type PositionControl struct {
	// Tolerance is the position zone diameter
	Tolerance         float64                   `yaml:"tolerance"`
	MaterialCondition stackup.MaterialCondition `yaml:"material_condition,omitempty"`
}

// Feature is a toleranced geometric feature on a part.
type Feature struct {
	ID          ID     `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`

	Dimensions []Dimension      `yaml:"dimensions,omitempty"`
	Position   *PositionControl `yaml:"position,omitempty"`

	// GeometryClass and Geometry3D enable 3D chain analysis
	GeometryClass torsor.GeometryClass `yaml:"geometry_class,omitempty"`
	Geometry3D    *torsor.Geometry3D   `yaml:"geometry_3d,omitempty"`

	Tags []string `yaml:"tags,omitempty"`

	Created  time.Time `yaml:"created,omitempty"`
	Author   string    `yaml:"author,omitempty"`
	Revision int       `yaml:"entity_revision,omitempty"`
}

// PrimaryDimension returns the first dimension, the one used for material
// condition sizes, or nil.
func (f *Feature) PrimaryDimension() *Dimension {
	if len(f.Dimensions) == 0 {
		return nil
	}
	return &f.Dimensions[0]
}

// Contributor converts the feature into a 1D chain contributor using its
// primary dimension. The caller assigns the direction.
func (f *Feature) Contributor(direction stackup.Direction) (stackup.Contributor, bool) {
	dim := f.PrimaryDimension()
	if dim == nil {
		return stackup.Contributor{}, false
	}

	c := stackup.Contributor{
		Name:         f.Title,
		FeatureID:    string(f.ID),
		Direction:    direction,
		Nominal:      dim.Nominal,
		PlusTol:      dim.PlusTol,
		MinusTol:     dim.MinusTol,
		Distribution: dim.Distribution,
	}
	if f.Position != nil {
		c.Gdt = &stackup.GdtContribution{
			PositionTolerance: f.Position.Tolerance,
			MaterialCondition: f.Position.MaterialCondition,
			Internal:          dim.Internal,
		}
	}
	return c, true
}

// TorsorBounds derives the feature's 6-DOF deviation bounds. The position
// tolerance, widened by any material condition bonus for the actual size,
// bounds the translations its geometry class controls; the dimensional
// tolerance contributes through the class's constrained components. The two
// sources merge to the wider interval per component.
func (f *Feature) TorsorBounds(actualSize *float64) torsor.Bounds {
	class := f.GeometryClass
	if class == "" {
		class = torsor.ClassComplex
	}

	var bounds torsor.Bounds
	if dim := f.PrimaryDimension(); dim != nil {
		bounds = torsor.BuildBounds(dim.PlusTol, dim.MinusTol, class, f.Geometry3D)
	}

	if f.Position != nil {
		effective := f.Position.Tolerance
		if dim := f.PrimaryDimension(); dim != nil && actualSize != nil {
			switch f.Position.MaterialCondition {
			case stackup.ConditionMMC:
				effective += abs(*actualSize - dim.MMC())
			case stackup.ConditionLMC:
				effective += abs(*actualSize - dim.LMC())
			}
		}
		bounds.Merge(torsor.BoundsFromPosition(effective, class))
	}

	return bounds
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
