package stackup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGdtBonusInternalMMC(t *testing.T) {
	// Hole 10.0 +0.05/-0.05 at MMC, measured at 10.02
	c := &Contributor{
		Name:      "Hole",
		Direction: DirectionPositive,
		Nominal:   10.0,
		PlusTol:   0.05,
		MinusTol:  0.05,
		Gdt: &GdtContribution{
			PositionTolerance: 0.25,
			ActualSize:        ptr(10.02),
			MaterialCondition: ConditionMMC,
			Internal:          true,
		},
	}

	res := c.GdtResult()
	require.NotNil(t, res)
	assert.InDelta(t, 9.95, res.MMCSize, 1e-12)
	assert.InDelta(t, 10.05, res.LMCSize, 1e-12)
	assert.InDelta(t, 0.07, res.Bonus, 1e-12)
	assert.InDelta(t, 0.32, res.EffectiveTolerance, 1e-12)
}

func TestGdtBonusExternalMMC(t *testing.T) {
	// Shaft: MMC is the largest size. 10.0 +0.05/-0.05 measured at 10.02
	// departs 0.03 from MMC at 10.05.
	c := &Contributor{
		Name:      "Pin",
		Direction: DirectionPositive,
		Nominal:   10.0,
		PlusTol:   0.05,
		MinusTol:  0.05,
		Gdt: &GdtContribution{
			PositionTolerance: 0.25,
			ActualSize:        ptr(10.02),
			MaterialCondition: ConditionMMC,
		},
	}

	res := c.GdtResult()
	require.NotNil(t, res)
	assert.InDelta(t, 10.05, res.MMCSize, 1e-12)
	assert.InDelta(t, 9.95, res.LMCSize, 1e-12)
	assert.InDelta(t, 0.03, res.Bonus, 1e-12)
	assert.InDelta(t, 0.28, res.EffectiveTolerance, 1e-12)
}

func TestGdtBonusLMC(t *testing.T) {
	// Hole at LMC: departure measured from the largest size
	c := &Contributor{
		Name:      "Hole",
		Direction: DirectionPositive,
		Nominal:   10.0,
		PlusTol:   0.05,
		MinusTol:  0.05,
		Gdt: &GdtContribution{
			PositionTolerance: 0.2,
			ActualSize:        ptr(10.01),
			MaterialCondition: ConditionLMC,
			Internal:          true,
		},
	}

	res := c.GdtResult()
	require.NotNil(t, res)
	assert.InDelta(t, 0.04, res.Bonus, 1e-12)
	assert.InDelta(t, 0.24, res.EffectiveTolerance, 1e-12)
}

func TestGdtNoBonusUnderRFS(t *testing.T) {
	c := &Contributor{
		Name:      "Hole",
		Direction: DirectionPositive,
		Nominal:   10.0,
		PlusTol:   0.05,
		MinusTol:  0.05,
		Gdt: &GdtContribution{
			PositionTolerance: 0.25,
			ActualSize:        ptr(10.02),
			MaterialCondition: ConditionRFS,
			Internal:          true,
		},
	}

	res := c.GdtResult()
	require.NotNil(t, res)
	assert.Zero(t, res.Bonus)
	assert.InDelta(t, 0.25, res.EffectiveTolerance, 1e-12)

	// Empty material condition means RFS
	c.Gdt.MaterialCondition = ""
	assert.Zero(t, c.GdtResult().Bonus)
}

func TestGdtNoBonusWithoutActualSize(t *testing.T) {
	c := &Contributor{
		Name:      "Hole",
		Direction: DirectionPositive,
		Nominal:   10.0,
		PlusTol:   0.05,
		MinusTol:  0.05,
		Gdt: &GdtContribution{
			PositionTolerance: 0.25,
			MaterialCondition: ConditionMMC,
			Internal:          true,
		},
	}

	res := c.GdtResult()
	require.NotNil(t, res)
	assert.Zero(t, res.Bonus)
	assert.InDelta(t, 0.25, res.EffectiveTolerance, 1e-12)
}

func TestGdtActualAtMMC(t *testing.T) {
	// Feature produced exactly at MMC earns zero bonus
	c := &Contributor{
		Name:      "Hole",
		Direction: DirectionPositive,
		Nominal:   10.0,
		PlusTol:   0.05,
		MinusTol:  0.05,
		Gdt: &GdtContribution{
			PositionTolerance: 0.25,
			ActualSize:        ptr(9.95),
			MaterialCondition: ConditionMMC,
			Internal:          true,
		},
	}

	assert.Zero(t, c.GdtResult().Bonus)
}

func TestGdtResultNilWithoutContribution(t *testing.T) {
	c := &Contributor{Name: "Plain", Direction: DirectionPositive, Nominal: 5.0}
	assert.Nil(t, c.GdtResult())
}

func TestTotalToleranceBandIncludesGdt(t *testing.T) {
	c := &Contributor{
		Name:      "Hole",
		Direction: DirectionPositive,
		Nominal:   10.0,
		PlusTol:   0.1,
		MinusTol:  0.05,
		Gdt: &GdtContribution{
			PositionTolerance: 0.25,
			ActualSize:        ptr(10.02),
			MaterialCondition: ConditionMMC,
			Internal:          true,
		},
	}

	assert.InDelta(t, 0.15, c.ToleranceBand(), 1e-12)
	assert.InDelta(t, 0.15, c.TotalToleranceBand(false), 1e-12)
	// effective = 0.25 + |10.02 - 9.95| = 0.32
	assert.InDelta(t, 0.47, c.TotalToleranceBand(true), 1e-12)
}
