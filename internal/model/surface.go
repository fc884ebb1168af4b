package model

import "math"

// SurfaceKind tags the variant a Surface carries. The builder is the sole
// place an untyped payload (JSON/YAML) crosses into one of these; every
// other package switches over Kind exhaustively.
type SurfaceKind int

const (
	SurfaceObject SurfaceKind = iota
	SurfaceImage
	SurfaceProbe
	SurfaceStop
	SurfaceConic
)

func (k SurfaceKind) String() string {
	switch k {
	case SurfaceObject:
		return "Object"
	case SurfaceImage:
		return "Image"
	case SurfaceProbe:
		return "Probe"
	case SurfaceStop:
		return "Stop"
	case SurfaceConic:
		return "Conic"
	default:
		return "Unknown"
	}
}

// ConicInteraction distinguishes a refracting interface from a mirror.
// Only meaningful when Kind == SurfaceConic.
type ConicInteraction int

const (
	Refracting ConicInteraction = iota
	Reflecting
)

// Surface is the tagged-variant surface entity of §3. Fields outside a
// variant's scope are left zero; the builder and every consumer switch on
// Kind rather than inspect irrelevant fields.
type Surface struct {
	Kind SurfaceKind

	// SemiDiameter is the clear-aperture radius. nil until the builder
	// resolves a default (see builder step 2); once built it is always set.
	SemiDiameter *float64

	// RadiusOfCurvature, ConicConstant, and Interaction apply to
	// Kind == SurfaceConic only. RadiusOfCurvature may be +Inf or -Inf
	// (a flat).
	RadiusOfCurvature float64
	ConicConstant     float64
	Interaction       ConicInteraction

	// Comment is a freeform annotation; it has no effect on any
	// computation and is not included in the components view.
	Comment string
}

// NewObjectSurface, NewImageSurface, and NewProbeSurface build the three
// surface kinds that never carry curvature.
func NewObjectSurface() Surface { return Surface{Kind: SurfaceObject} }
func NewImageSurface() Surface  { return Surface{Kind: SurfaceImage} }
func NewProbeSurface() Surface  { return Surface{Kind: SurfaceProbe} }

// NewStopSurface declares a surface as the (single) aperture stop.
func NewStopSurface(semiDiameter float64) Surface {
	sd := semiDiameter
	return Surface{Kind: SurfaceStop, SemiDiameter: &sd}
}

// NewConicSurface builds a conic-of-revolution surface. radiusOfCurvature
// may be math.Inf(1) or math.Inf(-1) for a flat.
func NewConicSurface(semiDiameter, radiusOfCurvature, conicConstant float64, interaction ConicInteraction) Surface {
	sd := semiDiameter
	return Surface{
		Kind:              SurfaceConic,
		SemiDiameter:      &sd,
		RadiusOfCurvature: radiusOfCurvature,
		ConicConstant:     conicConstant,
		Interaction:       interaction,
	}
}

// IsFlat reports whether the conic's radius of curvature is infinite.
func (s Surface) IsFlat() bool {
	return math.IsInf(s.RadiusOfCurvature, 0)
}

// Curvature returns 1/R, or 0 for a flat (R infinite).
func (s Surface) Curvature() float64 {
	if s.IsFlat() {
		return 0
	}
	return 1 / s.RadiusOfCurvature
}

// ResolvedSemiDiameter returns SemiDiameter, or 0 while it is still nil
// (before the builder has defaulted it); every surface reachable from a
// BuiltSystem has it set.
func (s Surface) ResolvedSemiDiameter() float64 {
	if s.SemiDiameter == nil {
		return 0
	}
	return *s.SemiDiameter
}
