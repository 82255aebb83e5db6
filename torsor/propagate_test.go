package torsor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackhale98/PDT/errors"
	"github.com/jackhale98/PDT/stackup"
)

var zAxis = [3]float64{0, 0, 1}

func planeContributor(name string, origin [3]float64) Contributor {
	return Contributor{
		Name:       name,
		Class:      ClassPlane,
		Geometry:   &Geometry3D{Origin: origin, Axis: zAxis},
		SigmaLevel: stackup.DefaultSigmaLevel,
	}
}

func TestPropagateWorstCaseSingle(t *testing.T) {
	c := planeContributor("Face", [3]float64{0, 0, 0})
	c.Bounds.Set(DOFU, -0.1, 0.1)
	c.Bounds.Set(DOFV, -0.1, 0.1)
	c.Bounds.Set(DOFW, -0.05, 0.05)

	wc := PropagateWorstCase([]Contributor{c}, zAxis)

	// Identity Jacobian at the origin passes bounds through
	assert.Equal(t, Interval{-0.1, 0.1}, wc.At(DOFU))
	assert.Equal(t, Interval{-0.05, 0.05}, wc.At(DOFW))
	assert.Equal(t, Interval{0, 0}, wc.At(DOFAlpha))
}

func TestPropagateWorstCaseLeverArm(t *testing.T) {
	// A tilt bound at a Y offset becomes a W translation: J[2,3] = ry
	c := planeContributor("Face", [3]float64{0, 10, 0})
	c.Bounds.Set(DOFAlpha, -0.002, 0.002)

	wc := PropagateWorstCase([]Contributor{c}, zAxis)

	assert.InDelta(t, -0.02, wc.At(DOFW).Min(), 1e-12)
	assert.InDelta(t, 0.02, wc.At(DOFW).Max(), 1e-12)
	// The tilt itself still appears at the result
	assert.Equal(t, Interval{-0.002, 0.002}, wc.At(DOFAlpha))
	assert.Equal(t, Interval{0, 0}, wc.At(DOFU))
}

func TestPropagateWorstCaseSums(t *testing.T) {
	a := planeContributor("A", [3]float64{0, 0, 0})
	a.Bounds.Set(DOFW, -0.05, 0.05)
	b := planeContributor("B", [3]float64{0, 0, 0})
	b.Bounds.Set(DOFW, -0.03, 0.07)

	wc := PropagateWorstCase([]Contributor{a, b}, zAxis)
	assert.InDelta(t, -0.08, wc.At(DOFW).Min(), 1e-12)
	assert.InDelta(t, 0.12, wc.At(DOFW).Max(), 1e-12)
}

func TestPropagateRSSSingle(t *testing.T) {
	c := planeContributor("Face", [3]float64{0, 0, 0})
	c.Bounds.Set(DOFU, -0.1, 0.1)

	res, sens := PropagateRSS([]Contributor{c}, zAxis)

	// Symmetric bound: zero mean, sigma = 0.2/6, 3 sigma = 0.1
	assert.InDelta(t, 0.0, res.U.RSSMean, 1e-12)
	assert.InDelta(t, 0.1, res.U.RSS3Sigma, 1e-12)

	require.Len(t, sens, 1)
	assert.InDelta(t, 100.0, sens[0][DOFU], 1e-9)
	assert.Zero(t, sens[0][DOFW])
}

func TestPropagateRSSAsymmetricMean(t *testing.T) {
	c := planeContributor("Face", [3]float64{0, 0, 0})
	c.Bounds.Set(DOFW, 0.0, 0.1)

	res, _ := PropagateRSS([]Contributor{c}, zAxis)
	assert.InDelta(t, 0.05, res.W.RSSMean, 1e-12)
	assert.InDelta(t, 3*0.1/6.0, res.W.RSS3Sigma, 1e-12)
}

func TestPropagateRSSSensitivityShares(t *testing.T) {
	// Equal bounds split the variance evenly
	a := planeContributor("A", [3]float64{0, 0, 0})
	a.Bounds.Set(DOFW, -0.05, 0.05)
	b := planeContributor("B", [3]float64{0, 0, 0})
	b.Bounds.Set(DOFW, -0.05, 0.05)

	_, sens := PropagateRSS([]Contributor{a, b}, zAxis)
	assert.InDelta(t, 50.0, sens[0][DOFW], 1e-9)
	assert.InDelta(t, 50.0, sens[1][DOFW], 1e-9)

	// Shares sum to 100 per component that carries variance
	assert.InDelta(t, 100.0, sens[0][DOFW]+sens[1][DOFW], 1e-9)
	// Components with no variance report zero shares
	assert.Zero(t, sens[0][DOFU])
}

func TestPropagateRotatedFrame(t *testing.T) {
	// A cylinder along X measured along Z: its radial U bound rotates into
	// the result frame rather than vanishing
	c := Contributor{
		Name:       "Bore",
		Class:      ClassCylinder,
		Geometry:   &Geometry3D{Origin: [3]float64{0, 0, 0}, Axis: [3]float64{1, 0, 0}},
		SigmaLevel: stackup.DefaultSigmaLevel,
	}
	c.Bounds.Set(DOFU, -0.1, 0.1)
	c.Bounds.Set(DOFV, -0.1, 0.1)

	wc := PropagateWorstCase([]Contributor{c}, zAxis)

	// The quarter-turn from X to Z redistributes the radial plane; total
	// translational spread is preserved across components
	total := wc.At(DOFU).Width() + wc.At(DOFV).Width() + wc.At(DOFW).Width()
	assert.InDelta(t, 0.4, total, 1e-9)
}

func TestMonteCarlo3DStats(t *testing.T) {
	c := planeContributor("Face", [3]float64{0, 0, 0})
	c.Bounds.Set(DOFW, -0.06, 0.06)

	res, usedSeed, err := MonteCarlo3D(context.Background(), []Contributor{c}, zAxis,
		stackup.MonteCarloConfig{Iterations: 50000, Seed: seedVal(42)})
	require.NoError(t, err)
	assert.Equal(t, uint64(42), usedSeed)

	require.NotNil(t, res.W.MCMean)
	require.NotNil(t, res.W.MCStdDev)
	assert.InDelta(t, 0.0, *res.W.MCMean, 0.001)
	// sigma = 0.12/6 = 0.02
	assert.InDelta(t, 0.02, *res.W.MCStdDev, 0.001)

	// Components without bounds sample the constant zero
	require.NotNil(t, res.U.MCStdDev)
	assert.Zero(t, *res.U.MCStdDev)
}

func TestMonteCarlo3DReproducible(t *testing.T) {
	c := planeContributor("Face", [3]float64{0, 5, 0})
	c.Bounds.Set(DOFW, -0.05, 0.05)
	c.Bounds.Set(DOFAlpha, -0.001, 0.001)

	cfg := stackup.MonteCarloConfig{Iterations: 10000, Batches: 4, Seed: seedVal(3)}
	a, _, err := MonteCarlo3D(context.Background(), []Contributor{c}, zAxis, cfg)
	require.NoError(t, err)
	b, _, err := MonteCarlo3D(context.Background(), []Contributor{c}, zAxis, cfg)
	require.NoError(t, err)

	assert.Equal(t, *a.W.MCMean, *b.W.MCMean)
	assert.Equal(t, *a.W.MCStdDev, *b.W.MCStdDev)
}

func TestMonteCarlo3DLeverArmWidensSpread(t *testing.T) {
	near := planeContributor("Near", [3]float64{0, 1, 0})
	near.Bounds.Set(DOFAlpha, -0.002, 0.002)
	far := planeContributor("Far", [3]float64{0, 100, 0})
	far.Bounds.Set(DOFAlpha, -0.002, 0.002)

	cfg := stackup.MonteCarloConfig{Iterations: 20000, Seed: seedVal(8)}
	resNear, _, err := MonteCarlo3D(context.Background(), []Contributor{near}, zAxis, cfg)
	require.NoError(t, err)
	resFar, _, err := MonteCarlo3D(context.Background(), []Contributor{far}, zAxis, cfg)
	require.NoError(t, err)

	nearStd := *resNear.W.MCStdDev
	assert.Greater(t, *resFar.W.MCStdDev, 10*nearStd)
}

func TestMonteCarlo3DConfigErrors(t *testing.T) {
	c := planeContributor("Face", [3]float64{0, 0, 0})
	_, _, err := MonteCarlo3D(context.Background(), []Contributor{c}, zAxis,
		stackup.MonteCarloConfig{})
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
}

func TestMonteCarlo3DCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := planeContributor("Face", [3]float64{0, 0, 0})
	c.Bounds.Set(DOFW, -0.05, 0.05)

	res, _, err := MonteCarlo3D(ctx, []Contributor{c}, zAxis,
		stackup.MonteCarloConfig{Iterations: 1000000, Seed: seedVal(1)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrPartialComputation))
	assert.Nil(t, res)
}

func seedVal(v uint64) *uint64 { return &v }
