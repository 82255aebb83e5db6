package torsor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoundsFromDimension(t *testing.T) {
	// Diameter tolerance on a cylinder bounds the radius
	b := BoundsFromDimension(0.1, 0.1, ClassCylinder)
	assert.Equal(t, Interval{-0.05, 0.05}, b.At(DOFU))
	assert.Equal(t, Interval{-0.05, 0.05}, b.At(DOFV))
	assert.Nil(t, b.W)
	assert.Nil(t, b.Alpha)

	// Plane thickness bounds the normal translation by the half band
	b = BoundsFromDimension(0.1, 0.1, ClassPlane)
	assert.Equal(t, Interval{-0.1, 0.1}, b.At(DOFW))
	assert.Nil(t, b.U)

	// Sphere bounds all three translations
	b = BoundsFromDimension(0.2, 0.0, ClassSphere)
	for _, dof := range []int{DOFU, DOFV, DOFW} {
		assert.Equal(t, Interval{-0.05, 0.05}, b.At(dof))
	}

	// Complex falls back to all translations at the half band
	b = BoundsFromDimension(0.1, 0.1, ClassComplex)
	for _, dof := range []int{DOFU, DOFV, DOFW} {
		assert.Equal(t, Interval{-0.1, 0.1}, b.At(dof))
	}
}

func TestBoundsFromPosition(t *testing.T) {
	// Cylindrical zone is a diameter: radial bound is half
	b := BoundsFromPosition(0.32, ClassCylinder)
	assert.Equal(t, Interval{-0.16, 0.16}, b.At(DOFU))
	assert.Equal(t, Interval{-0.16, 0.16}, b.At(DOFV))
	assert.Nil(t, b.W)

	b = BoundsFromPosition(0.2, ClassSphere)
	assert.Equal(t, Interval{-0.1, 0.1}, b.At(DOFW))

	b = BoundsFromPosition(0.2, ClassPlane)
	assert.Equal(t, Interval{-0.1, 0.1}, b.At(DOFU))
	assert.Nil(t, b.W)
}

func TestBoundsFromOrientation(t *testing.T) {
	// Small-angle conversion: 0.1 over a 20 long feature
	b := BoundsFromOrientation(0.1, 20.0)
	assert.Equal(t, Interval{-0.005, 0.005}, b.At(DOFAlpha))
	assert.Equal(t, Interval{-0.005, 0.005}, b.At(DOFBeta))
	assert.Nil(t, b.Gamma)

	// Unknown length uses the reference length
	b = BoundsFromOrientation(0.5, 0)
	assert.InDelta(t, 0.5/DefaultReferenceLength, b.At(DOFAlpha).Max(), 1e-12)
}

func TestBoundsForDOFs(t *testing.T) {
	b := BoundsForDOFs(0.1, []int{DOFU, DOFW, DOFAlpha}, 50.0)
	assert.Equal(t, Interval{-0.1, 0.1}, b.At(DOFU))
	assert.Equal(t, Interval{-0.1, 0.1}, b.At(DOFW))
	assert.InDelta(t, 0.002, b.At(DOFAlpha).Max(), 1e-12)
	assert.Nil(t, b.V)
	assert.Nil(t, b.Beta)

	// Out-of-range indices are ignored
	b = BoundsForDOFs(0.1, []int{-1, 6}, 50.0)
	assert.False(t, b.HasAny())
}

func TestBuildBounds(t *testing.T) {
	length := 25.0
	geo := &Geometry3D{Axis: [3]float64{0, 0, 1}, Length: &length}

	// Cylinder: tolerance lands on its constrained components, rotations
	// converted through the feature length
	b := BuildBounds(0.1, 0.1, ClassCylinder, geo)
	assert.Equal(t, Interval{-0.1, 0.1}, b.At(DOFU))
	assert.Equal(t, Interval{-0.1, 0.1}, b.At(DOFV))
	assert.InDelta(t, 0.1/25.0, b.At(DOFAlpha).Max(), 1e-12)
	assert.InDelta(t, 0.1/25.0, b.At(DOFBeta).Max(), 1e-12)
	// Free components stay unset
	assert.Nil(t, b.W)
	assert.Nil(t, b.Gamma)

	// No geometry: rotation bounds fall back to the reference length
	b = BuildBounds(0.1, 0.1, ClassPlane, nil)
	assert.Equal(t, Interval{-0.1, 0.1}, b.At(DOFW))
	assert.InDelta(t, 0.1/DefaultReferenceLength, b.At(DOFAlpha).Max(), 1e-12)

	// Complex has no constrained components, so no derived bounds
	b = BuildBounds(0.1, 0.1, ClassComplex, nil)
	assert.False(t, b.HasAny())
}
