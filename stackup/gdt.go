package stackup

import "math"

// GdtResult reports the bonus tolerance calculation for a contributor's
// position tolerance.
type GdtResult struct {
	// MMCSize is the maximum material condition size: the smallest size for
	// an internal (hole-like) feature, the largest for an external one
	MMCSize float64 `yaml:"mmc_size"`
	// LMCSize is the least material condition size, the opposite bound
	LMCSize float64 `yaml:"lmc_size"`
	// Bonus is the departure of the actual size from the applicable material
	// condition size. Zero under RFS or when no actual size is known.
	Bonus float64 `yaml:"bonus"`
	// EffectiveTolerance is position_tolerance + bonus
	EffectiveTolerance float64 `yaml:"effective_tolerance"`
}

// MMCSize returns the maximum material condition size for a feature of size
// with the given dimensional tolerance. An internal feature (hole) is at MMC
// at its smallest size; an external feature (shaft) at its largest.
func (g *GdtContribution) MMCSize(nominal, plusTol, minusTol float64) float64 {
	if g.Internal {
		return nominal - minusTol
	}
	return nominal + plusTol
}

// LMCSize returns the least material condition size, the bound opposite MMC.
func (g *GdtContribution) LMCSize(nominal, plusTol, minusTol float64) float64 {
	if g.Internal {
		return nominal + plusTol
	}
	return nominal - minusTol
}

// Bonus returns the bonus tolerance earned by the feature's departure from
// its material condition size. RFS (or a missing actual size) earns none.
func (g *GdtContribution) Bonus(nominal, plusTol, minusTol float64) float64 {
	if g.ActualSize == nil {
		return 0
	}
	switch g.MaterialCondition {
	case ConditionMMC:
		return math.Abs(*g.ActualSize - g.MMCSize(nominal, plusTol, minusTol))
	case ConditionLMC:
		return math.Abs(*g.ActualSize - g.LMCSize(nominal, plusTol, minusTol))
	default:
		return 0
	}
}

// EffectiveTolerance returns the position tolerance plus any bonus, using the
// contributor's dimensional tolerance for the material condition sizes.
func (g *GdtContribution) EffectiveTolerance(c *Contributor) float64 {
	return g.PositionTolerance + g.Bonus(c.Nominal, c.PlusTol, c.MinusTol)
}

// GdtResult computes the full bonus tolerance breakdown for a contributor, or
// nil when the contributor carries no GD&T contribution.
func (c *Contributor) GdtResult() *GdtResult {
	if c.Gdt == nil {
		return nil
	}
	return &GdtResult{
		MMCSize:            c.Gdt.MMCSize(c.Nominal, c.PlusTol, c.MinusTol),
		LMCSize:            c.Gdt.LMCSize(c.Nominal, c.PlusTol, c.MinusTol),
		Bonus:              c.Gdt.Bonus(c.Nominal, c.PlusTol, c.MinusTol),
		EffectiveTolerance: c.Gdt.EffectiveTolerance(c),
	}
}
