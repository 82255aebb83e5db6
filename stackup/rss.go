package stackup

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// RSS performs root-sum-square variance propagation. Each contributor's
// standard deviation is its tolerance band divided by the configured sigma
// level; the bands combine as independent variances. Capability indices and
// the predicted yield are computed against the target limits.
//
// When mean_shift_k is set, the mean is shifted k*sigma toward the nearer
// limit for the Cpk calculation only (Bender method); the reported mean and
// yield always use the unshifted mean.
//
// A zero-variance stack reports nil Cp/Cpk and an empty sensitivity slice
// rather than infinite indices.
func RSS(in *Input) (*RSSResult, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	var mean, variance float64
	variances := make([]float64, len(in.Contributors))
	for i := range in.Contributors {
		c := &in.Contributors[i]
		mean += c.SignedNominal()

		sigma := c.TotalToleranceBand(in.IncludeGDT) / in.SigmaLevel
		variances[i] = sigma * sigma
		variance += variances[i]
	}

	sigma := math.Sqrt(variance)
	sigma3 := 3 * sigma

	res := &RSSResult{
		Mean:   mean,
		Sigma:  sigma,
		Sigma3: sigma3,
	}

	usl, lsl := in.Target.USL, in.Target.LSL
	res.Margin = math.Min(usl-(mean+sigma3), (mean-sigma3)-lsl)

	if sigma > 0 {
		// Variance contribution percentages, indexed like the contributors
		res.Sensitivity = make([]float64, len(variances))
		for i, v := range variances {
			res.Sensitivity[i] = v / variance * 100.0
		}

		// Bender mean shift toward the nearer limit, for Cpk only
		cpkMean := mean
		if in.MeanShiftK > 0 {
			if usl-mean < mean-lsl {
				cpkMean = mean + in.MeanShiftK*sigma
			} else {
				cpkMean = mean - in.MeanShiftK*sigma
			}
			res.ShiftedMean = ptr(cpkMean)
		}

		res.Cp = ptr((usl - lsl) / (6 * sigma))
		res.Cpk = ptr(math.Min(usl-cpkMean, cpkMean-lsl) / (3 * sigma))

		phi := distuv.UnitNormal.CDF
		res.YieldPercent = 100 * (phi((usl-mean)/sigma) - phi((lsl-mean)/sigma))
	} else {
		// Degenerate stack: every sample lands exactly on the mean
		if mean >= lsl && mean <= usl {
			res.YieldPercent = 100
		}
	}

	return res, nil
}
