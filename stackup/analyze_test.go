package stackup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackhale98/PDT/errors"
)

func TestAnalyzeRunsRequestedMethods(t *testing.T) {
	res, err := Analyze(context.Background(), gapInput(), Request{WorstCase: true, RSS: true})
	require.NoError(t, err)
	require.NotNil(t, res.WorstCase)
	require.NotNil(t, res.RSS)
	assert.Nil(t, res.MonteCarlo)

	assert.InDelta(t, 0.62, res.WorstCase.Min, 1e-9)
	assert.InDelta(t, 1.0, res.RSS.Mean, 1e-9)
}

func TestAnalyzeAll(t *testing.T) {
	res, err := Analyze(context.Background(), gapInput(), RequestAll(MonteCarloConfig{
		Iterations: 5000,
		Seed:       seed(17),
	}))
	require.NoError(t, err)
	require.NotNil(t, res.WorstCase)
	require.NotNil(t, res.RSS)
	require.NotNil(t, res.MonteCarlo)
	assert.Equal(t, uint64(17), res.MonteCarlo.Seed)
}

func TestAnalyzeRejectsInvalidInputOnce(t *testing.T) {
	in := gapInput()
	in.Contributors[0].Direction = "diagonal"

	res, err := Analyze(context.Background(), in, RequestAll(MonteCarloConfig{Iterations: 100}))
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	assert.Nil(t, res)
}

func TestAnalyzeNoMethodsRequested(t *testing.T) {
	res, err := Analyze(context.Background(), gapInput(), Request{})
	require.NoError(t, err)
	assert.Nil(t, res.WorstCase)
	assert.Nil(t, res.RSS)
	assert.Nil(t, res.MonteCarlo)
}

func TestAnalyzeMonteCarloFailureRejectsWholeCall(t *testing.T) {
	res, err := Analyze(context.Background(), gapInput(), RequestAll(MonteCarloConfig{}))
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
	assert.Nil(t, res)
}

func TestAnalyzeDoesNotMutateInput(t *testing.T) {
	in := gapInput()
	before := make([]Contributor, len(in.Contributors))
	copy(before, in.Contributors)

	_, err := Analyze(context.Background(), in, RequestAll(MonteCarloConfig{
		Iterations: 1000,
		Seed:       seed(2),
	}))
	require.NoError(t, err)
	assert.Equal(t, before, in.Contributors)
}
