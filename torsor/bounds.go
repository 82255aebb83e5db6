package torsor

// DefaultReferenceLength is the feature length, in the model's linear units,
// assumed when converting a linear tolerance to a rotation bound without a
// known feature length.
const DefaultReferenceLength = 50.0

// BoundsFromPosition converts a position tolerance (zone diameter, bonus
// already applied) into bounds on the translational components the geometry
// class controls. Cylindrical and conical zones bound the radial pair;
// spherical and point zones bound all three translations; planes and lines
// bound the in-plane pair.
func BoundsFromPosition(effectiveTol float64, class GeometryClass) Bounds {
	half := effectiveTol / 2
	var b Bounds
	switch class {
	case ClassCylinder, ClassCone:
		b.Set(DOFU, -half, half)
		b.Set(DOFV, -half, half)
	case ClassSphere, ClassPoint, ClassComplex:
		b.Set(DOFU, -half, half)
		b.Set(DOFV, -half, half)
		b.Set(DOFW, -half, half)
	case ClassPlane, ClassLine:
		b.Set(DOFU, -half, half)
		b.Set(DOFV, -half, half)
	}
	return b
}

// BoundsFromOrientation converts an orientation tolerance (perpendicularity,
// parallelism, angularity) into tilt bounds by the small-angle approximation
// rotation = tolerance / length. A zero or negative length falls back to
// DefaultReferenceLength.
func BoundsFromOrientation(tol, length float64) Bounds {
	if length <= 0 {
		length = DefaultReferenceLength
	}
	angular := tol / length
	var b Bounds
	b.Set(DOFAlpha, -angular, angular)
	b.Set(DOFBeta, -angular, angular)
	return b
}

// BoundsFromDimension converts a dimensional tolerance into torsor bounds for
// the geometry class. A diameter tolerance on a cylinder bounds the radius,
// so the radial bound is a quarter of the band; a plane's thickness tolerance
// bounds the normal translation by the half band.
func BoundsFromDimension(plusTol, minusTol float64, class GeometryClass) Bounds {
	halfBand := (plusTol + minusTol) / 2
	var b Bounds
	switch class {
	case ClassCylinder, ClassCone:
		radial := halfBand / 2
		b.Set(DOFU, -radial, radial)
		b.Set(DOFV, -radial, radial)
	case ClassSphere, ClassPoint:
		bound := halfBand / 2
		b.Set(DOFU, -bound, bound)
		b.Set(DOFV, -bound, bound)
		b.Set(DOFW, -bound, bound)
	case ClassPlane:
		b.Set(DOFW, -halfBand, halfBand)
	case ClassLine:
		bound := halfBand / 2
		b.Set(DOFU, -bound, bound)
		b.Set(DOFV, -bound, bound)
	default: // complex
		b.Set(DOFU, -halfBand, halfBand)
		b.Set(DOFV, -halfBand, halfBand)
		b.Set(DOFW, -halfBand, halfBand)
	}
	return b
}

// BoundsForDOFs applies a symmetric half tolerance to an explicit set of
// components. Translational components get the half tolerance directly;
// rotational components get the small-angle conversion against length,
// falling back to DefaultReferenceLength when the length is unknown.
func BoundsForDOFs(halfTol float64, dofs []int, length float64) Bounds {
	if length <= 0 {
		length = DefaultReferenceLength
	}
	angular := halfTol / length

	var b Bounds
	for _, dof := range dofs {
		switch {
		case dof >= DOFU && dof <= DOFW:
			b.Set(dof, -halfTol, halfTol)
		case dof >= DOFAlpha && dof <= DOFGamma:
			b.Set(dof, -angular, angular)
		}
	}
	return b
}

// BuildBounds derives a contributor's torsor bounds from its dimensional
// tolerance and geometry: bounds on the class's constrained components, with
// rotations converted through the feature length. Free components stay unset.
// This is the fallback used when a feature carries no explicit bounds of its
// own.
func BuildBounds(plusTol, minusTol float64, class GeometryClass, geo *Geometry3D) Bounds {
	halfTol := (plusTol + minusTol) / 2
	var length float64
	if geo != nil && geo.Length != nil {
		length = *geo.Length
	}
	return BoundsForDOFs(halfTol, class.ConstrainedDOF(), length)
}
