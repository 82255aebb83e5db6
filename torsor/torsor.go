// Package torsor implements 3D tolerance analysis with small displacement
// torsors.
//
// A feature's geometric deviation is linearized as a six component torsor
// [u, v, w, alpha, beta, gamma]: three translations along and three rotations
// about the reference axes. Each feature's geometry class fixes which
// components can deviate; tolerances become per-component bounds; a 6x6
// Jacobian carries each feature's torsor across the spatial offset to the
// measurement point, where the chain is summed by worst-case, RSS, or Monte
// Carlo propagation.
package torsor

// Torsor component indices.
const (
	DOFU = iota
	DOFV
	DOFW
	DOFAlpha
	DOFBeta
	DOFGamma

	NumDOF = 6
)

// DOFNames are the display names of the six torsor components, indexed by
// the DOF constants.
var DOFNames = [NumDOF]string{"u", "v", "w", "alpha", "beta", "gamma"}

// GeometryClass is a feature's invariance class under the TTRS
// classification. It determines which torsor components the feature's
// tolerances control.
type GeometryClass string

const (
	ClassPlane    GeometryClass = "plane"
	ClassCylinder GeometryClass = "cylinder"
	ClassSphere   GeometryClass = "sphere"
	ClassCone     GeometryClass = "cone"
	ClassPoint    GeometryClass = "point"
	ClassLine     GeometryClass = "line"
	// ClassComplex has no invariance; all six components can deviate
	ClassComplex GeometryClass = "complex"
)

// Valid reports whether the geometry class is a known value.
func (g GeometryClass) Valid() bool {
	switch g {
	case ClassPlane, ClassCylinder, ClassSphere, ClassCone, ClassPoint,
		ClassLine, ClassComplex:
		return true
	}
	return false
}

// ConstrainedDOF returns the torsor components a feature of this class
// constrains, which are exactly the components its tolerances control. A
// plane constrains its normal translation and the two tilts; a cylinder its
// radial translations and tilts; and so on.
func (g GeometryClass) ConstrainedDOF() []int {
	switch g {
	case ClassPlane:
		return []int{DOFW, DOFAlpha, DOFBeta}
	case ClassCylinder:
		return []int{DOFU, DOFV, DOFAlpha, DOFBeta}
	case ClassSphere:
		return []int{DOFU, DOFV, DOFW}
	case ClassCone:
		return []int{DOFU, DOFV, DOFW, DOFAlpha, DOFBeta}
	case ClassPoint:
		return []int{DOFU, DOFV, DOFW}
	case ClassLine:
		return []int{DOFU, DOFV}
	default: // complex
		return nil
	}
}

// FreeDOF returns the components left invariant by this class, the
// complement of ConstrainedDOF. Free components always carry a zero-width
// bound.
func (g GeometryClass) FreeDOF() []int {
	constrained := g.ConstrainedDOF()
	isConstrained := [NumDOF]bool{}
	for _, dof := range constrained {
		isConstrained[dof] = true
	}
	free := make([]int, 0, NumDOF-len(constrained))
	for dof := 0; dof < NumDOF; dof++ {
		if !isConstrained[dof] {
			free = append(free, dof)
		}
	}
	return free
}

// Geometry3D locates a feature in assembly coordinates. Axis need not be
// unit length; it is normalized where used. Length, when known, converts
// linear tolerances to rotation bounds by the small-angle approximation.
type Geometry3D struct {
	Origin [3]float64 `yaml:"origin"`
	Axis   [3]float64 `yaml:"axis"`
	Length *float64   `yaml:"length,omitempty"`
}

// Interval is a closed [min, max] bound on one torsor component.
type Interval [2]float64

// Min returns the lower bound.
func (iv Interval) Min() float64 { return iv[0] }

// Max returns the upper bound.
func (iv Interval) Max() float64 { return iv[1] }

// Width returns max - min.
func (iv Interval) Width() float64 { return iv[1] - iv[0] }

// Center returns the interval midpoint.
func (iv Interval) Center() float64 { return (iv[0] + iv[1]) / 2 }

// Bounds holds the six per-component intervals of a feature's torsor. A nil
// component means no deviation there, equivalent to a zero-width bound.
type Bounds struct {
	U     *Interval `yaml:"u,omitempty"`
	V     *Interval `yaml:"v,omitempty"`
	W     *Interval `yaml:"w,omitempty"`
	Alpha *Interval `yaml:"alpha,omitempty"`
	Beta  *Interval `yaml:"beta,omitempty"`
	Gamma *Interval `yaml:"gamma,omitempty"`
}

// DOF returns a pointer to the interval for the given component index.
func (b *Bounds) DOF(dof int) **Interval {
	switch dof {
	case DOFU:
		return &b.U
	case DOFV:
		return &b.V
	case DOFW:
		return &b.W
	case DOFAlpha:
		return &b.Alpha
	case DOFBeta:
		return &b.Beta
	default:
		return &b.Gamma
	}
}

// Set assigns the interval [min, max] to the given component.
func (b *Bounds) Set(dof int, min, max float64) {
	iv := Interval{min, max}
	*b.DOF(dof) = &iv
}

// At returns the interval for a component, zero-width when unset.
func (b *Bounds) At(dof int) Interval {
	if iv := *b.DOF(dof); iv != nil {
		return *iv
	}
	return Interval{}
}

// HasAny reports whether any component carries a bound.
func (b *Bounds) HasAny() bool {
	for dof := 0; dof < NumDOF; dof++ {
		if *b.DOF(dof) != nil {
			return true
		}
	}
	return false
}

// Merge widens the bounds in place to cover another set: per component, the
// union of the two intervals when both are present, otherwise whichever is
// set.
func (b *Bounds) Merge(other Bounds) {
	for dof := 0; dof < NumDOF; dof++ {
		dst, src := b.DOF(dof), *other.DOF(dof)
		if src == nil {
			continue
		}
		if *dst == nil {
			iv := *src
			*dst = &iv
			continue
		}
		if src[0] < (*dst)[0] {
			(*dst)[0] = src[0]
		}
		if src[1] > (*dst)[1] {
			(*dst)[1] = src[1]
		}
	}
}

// Stats holds the propagated result for one torsor component: the worst-case
// interval, the RSS mean and 3-sigma spread, and the Monte Carlo mean and
// standard deviation when a simulation was run.
type Stats struct {
	WCMin     float64  `yaml:"wc_min"`
	WCMax     float64  `yaml:"wc_max"`
	RSSMean   float64  `yaml:"rss_mean"`
	RSS3Sigma float64  `yaml:"rss_3sigma"`
	MCMean    *float64 `yaml:"mc_mean,omitempty"`
	MCStdDev  *float64 `yaml:"mc_std_dev,omitempty"`
}

// ResultTorsor is the full six component propagation result.
type ResultTorsor struct {
	U     Stats `yaml:"u"`
	V     Stats `yaml:"v"`
	W     Stats `yaml:"w"`
	Alpha Stats `yaml:"alpha"`
	Beta  Stats `yaml:"beta"`
	Gamma Stats `yaml:"gamma"`
}

// DOF returns the stats record for the given component index.
func (r *ResultTorsor) DOF(dof int) *Stats {
	switch dof {
	case DOFU:
		return &r.U
	case DOFV:
		return &r.V
	case DOFW:
		return &r.W
	case DOFAlpha:
		return &r.Alpha
	case DOFBeta:
		return &r.Beta
	default:
		return &r.Gamma
	}
}

// mergeWC copies worst-case bounds into the per-component stats.
func (r *ResultTorsor) mergeWC(wc Bounds) {
	for dof := 0; dof < NumDOF; dof++ {
		iv := wc.At(dof)
		s := r.DOF(dof)
		s.WCMin = iv.Min()
		s.WCMax = iv.Max()
	}
}

// mergeMC copies Monte Carlo stats into the per-component stats.
func (r *ResultTorsor) mergeMC(mc *ResultTorsor) {
	for dof := 0; dof < NumDOF; dof++ {
		src := mc.DOF(dof)
		dst := r.DOF(dof)
		dst.MCMean = src.MCMean
		dst.MCStdDev = src.MCStdDev
	}
}

func ptr(v float64) *float64 { return &v }
