package stackup

// WorstCase performs deterministic interval summation across the chain. Each
// positive contributor adds [nominal-minus_tol, nominal+plus_tol] to the
// result interval; each negative contributor subtracts it. The margin is the
// distance from the interval to the nearer specification limit.
func WorstCase(in *Input) (*WorstCaseResult, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	var min, max float64
	for i := range in.Contributors {
		c := &in.Contributors[i]
		switch c.Direction {
		case DirectionPositive:
			min += c.Nominal - c.MinusTol
			max += c.Nominal + c.PlusTol
		case DirectionNegative:
			min -= c.Nominal + c.PlusTol
			max -= c.Nominal - c.MinusTol
		}
	}

	upper := in.Target.USL - max
	lower := min - in.Target.LSL
	margin := upper
	if lower < margin {
		margin = lower
	}

	return &WorstCaseResult{
		Min:     min,
		Max:     max,
		Margin:  margin,
		Verdict: Classify(margin, in.Target.Band()),
	}, nil
}
