package stackup

import (
	"context"
)

// Request selects which analysis methods to run.
type Request struct {
	WorstCase  bool
	RSS        bool
	MonteCarlo bool

	// MonteCarloConfig applies when MonteCarlo is requested
	MonteCarloConfig MonteCarloConfig
}

// RequestAll asks for every 1D method with the given Monte Carlo settings.
func RequestAll(mc MonteCarloConfig) Request {
	return Request{WorstCase: true, RSS: true, MonteCarlo: true, MonteCarloConfig: mc}
}

// Analyze runs the requested methods against one input snapshot and assembles
// their results. The input is validated once up front; each requested method
// either completes fully or fails the whole call. Separate invocations share
// no state and may run concurrently.
func Analyze(ctx context.Context, in *Input, req Request) (*AnalysisResults, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	out := &AnalysisResults{}

	if req.WorstCase {
		wc, err := WorstCase(in)
		if err != nil {
			return nil, err
		}
		out.WorstCase = wc
	}

	if req.RSS {
		rss, err := RSS(in)
		if err != nil {
			return nil, err
		}
		out.RSS = rss
	}

	if req.MonteCarlo {
		mc, err := MonteCarlo(ctx, in, req.MonteCarloConfig)
		if err != nil {
			return nil, err
		}
		out.MonteCarlo = mc
	}

	return out, nil
}
