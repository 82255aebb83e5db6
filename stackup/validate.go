package stackup

import (
	"github.com/jackhale98/PDT/errors"
)

// Validate checks an analysis input before any computation. Violations are
// reported with the offending contributor's name and index so the caller can
// correct the input. Validation failure never produces a partial result.
func Validate(in *Input) error {
	if in == nil {
		return errors.NewValidationError("input is required")
	}
	if in.Target.Name == "" {
		return errors.NewValidationError("target: name is required")
	}
	if !(in.Target.USL > in.Target.LSL) {
		return errors.NewValidationError(
			"target %q: upper limit (%g) must be greater than lower limit (%g)",
			in.Target.Name, in.Target.USL, in.Target.LSL)
	}

	if in.SigmaLevel <= 0 {
		return errors.NewConfigError("sigma_level must be > 0, got %g", in.SigmaLevel)
	}
	if in.MeanShiftK < 0 {
		return errors.NewConfigError("mean_shift_k must be >= 0, got %g", in.MeanShiftK)
	}

	for i := range in.Contributors {
		c := &in.Contributors[i]
		if c.Name == "" {
			return errors.NewValidationError("contributor at index %d: name is required", i)
		}
		if !c.Direction.Valid() {
			return errors.NewValidationError(
				"contributor %q (index %d): direction must be %q or %q, got %q",
				c.Name, i, DirectionPositive, DirectionNegative, c.Direction)
		}
		if c.PlusTol < 0 {
			return errors.NewValidationError(
				"contributor %q (index %d): plus_tol must be >= 0, got %g", c.Name, i, c.PlusTol)
		}
		if c.MinusTol < 0 {
			return errors.NewValidationError(
				"contributor %q (index %d): minus_tol must be >= 0, got %g", c.Name, i, c.MinusTol)
		}
		if !c.Distribution.Valid() {
			return errors.NewConfigError(
				"contributor %q (index %d): unsupported distribution %q", c.Name, i, c.Distribution)
		}
		if c.Gdt != nil {
			if c.Gdt.PositionTolerance < 0 {
				return errors.NewValidationError(
					"contributor %q (index %d): gdt position_tolerance must be >= 0, got %g",
					c.Name, i, c.Gdt.PositionTolerance)
			}
			if !c.Gdt.MaterialCondition.Valid() {
				return errors.NewConfigError(
					"contributor %q (index %d): unsupported material condition %q",
					c.Name, i, c.Gdt.MaterialCondition)
			}
		}
	}

	return nil
}
