package torsor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstrainedDOF(t *testing.T) {
	cases := []struct {
		class GeometryClass
		want  []int
	}{
		{ClassPlane, []int{DOFW, DOFAlpha, DOFBeta}},
		{ClassCylinder, []int{DOFU, DOFV, DOFAlpha, DOFBeta}},
		{ClassSphere, []int{DOFU, DOFV, DOFW}},
		{ClassCone, []int{DOFU, DOFV, DOFW, DOFAlpha, DOFBeta}},
		{ClassPoint, []int{DOFU, DOFV, DOFW}},
		{ClassLine, []int{DOFU, DOFV}},
		{ClassComplex, nil},
	}

	for _, tc := range cases {
		t.Run(string(tc.class), func(t *testing.T) {
			assert.Equal(t, tc.want, tc.class.ConstrainedDOF())
		})
	}
}

func TestFreeDOF(t *testing.T) {
	// A plane is invariant under in-plane sliding and spin about its normal
	assert.Equal(t, []int{DOFU, DOFV, DOFGamma}, ClassPlane.FreeDOF())
	assert.Equal(t, []int{DOFW, DOFGamma}, ClassCylinder.FreeDOF())
	assert.Equal(t, []int{DOFGamma}, ClassCone.FreeDOF())
	assert.Len(t, ClassComplex.FreeDOF(), NumDOF)
}

func TestGeometryClassValid(t *testing.T) {
	assert.True(t, ClassPlane.Valid())
	assert.True(t, ClassComplex.Valid())
	assert.False(t, GeometryClass("").Valid())
	assert.False(t, GeometryClass("torus").Valid())
}

func TestBoundsAccessors(t *testing.T) {
	var b Bounds
	assert.False(t, b.HasAny())
	assert.Equal(t, Interval{}, b.At(DOFU))

	b.Set(DOFW, -0.05, 0.05)
	assert.True(t, b.HasAny())
	require.NotNil(t, b.W)
	assert.Equal(t, Interval{-0.05, 0.05}, b.At(DOFW))
	assert.InDelta(t, 0.1, b.At(DOFW).Width(), 1e-12)
	assert.Zero(t, b.At(DOFW).Center())
}

func TestBoundsMerge(t *testing.T) {
	var a, b Bounds
	a.Set(DOFU, -0.1, 0.1)
	a.Set(DOFW, -0.02, 0.03)
	b.Set(DOFU, -0.05, 0.2)
	b.Set(DOFV, -1, 1)

	a.Merge(b)

	// Overlapping component widens to the union
	assert.Equal(t, Interval{-0.1, 0.2}, a.At(DOFU))
	// Components present on one side only carry over
	assert.Equal(t, Interval{-1, 1}, a.At(DOFV))
	assert.Equal(t, Interval{-0.02, 0.03}, a.At(DOFW))
	assert.Nil(t, a.Alpha)
}

func TestResultTorsorDOF(t *testing.T) {
	var r ResultTorsor
	r.DOF(DOFBeta).RSSMean = 1.5
	assert.Equal(t, 1.5, r.Beta.RSSMean)
	assert.Same(t, &r.U, r.DOF(DOFU))
	assert.Same(t, &r.Gamma, r.DOF(DOFGamma))
}
