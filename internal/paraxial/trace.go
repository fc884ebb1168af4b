// Package paraxial implements the first-order (Y/Y-bar) ray trace used
// both by the builder's aperture-stop solve (§4.1 step 6) and by the full
// cardinal-point analyzer (§4.2). Sharing the primitive keeps the two
// stages' notion of "the paraxial ray" from drifting apart.
package paraxial

import (
	"math"

	"raytraceGo/internal/model"
)

// Ray is the paraxial (y, u) state: ray height and raw angle (slope),
// recorded once per surface. Direction is the direction_of_travel (±1,
// §4.5 step 5) in effect at the last recorded surface, relative to the
// +1 sense the ray started in at surface 1; it flips sign every time the
// ray crosses a Reflecting conic.
type Ray struct {
	Y         []float64
	U         []float64
	Direction float64
}

// Trace runs the sequential paraxial refraction/transfer recursion of
// SPEC_FULL.md §4.2 across every surface: n·u = n'·u' + y·φ at each
// surface, y' = y + t·u between them. y1 and uInto1 are the ray's height
// at, and angle arriving at, surface index 1 (the first real optical
// surface) — the object (surface 0) and its gap are bookkeeping only; see
// MarginalStart, ChiefStartAngle and ChiefStartPointSource for how they're
// derived from a field spec.
//
// A Reflecting conic carries no index change across its gap (mirrors keep
// the same medium on both sides), so its power would evaluate to zero
// under the refraction formula alone. Per §4.5 step 5, this trace instead
// folds the system: it tracks a running direction_of_travel that flips
// sign at every Reflecting surface, and feeds signed (direction*n) index
// values and signed (direction*thickness) gaps into the same refraction
// and transfer formulas. At a mirror this reduces to the standard
// φ = -2n/R fold, and it generalizes to any number of reflections.
//
// n is indexed n[gapIndex][wavelengthIndex]; wavelengthIndex selects the
// column used throughout this trace.
func Trace(surfaces []model.Surface, gaps []model.Gap, n [][]float64, wavelengthIndex int, y1, uInto1 float64) Ray {
	count := len(surfaces)
	ys := make([]float64, count)
	us := make([]float64, count)

	y := y1
	u := uInto1
	direction := 1.0

	for i := 1; i <= count-2; i++ {
		nIn := direction * n[i-1][wavelengthIndex]
		if surfaces[i].Kind == model.SurfaceConic && surfaces[i].Interaction == model.Reflecting {
			direction = -direction
		}
		nOut := direction * n[i][wavelengthIndex]

		phi := 0.0
		if surfaces[i].Kind == model.SurfaceConic {
			phi = (nOut - nIn) * surfaces[i].Curvature()
		}

		uOut := u
		if nOut != 0 {
			uOut = (nIn*u - y*phi) / nOut
		}

		ys[i] = y
		us[i] = uOut

		t := direction * gaps[i].Thickness
		if !math.IsInf(t, 0) {
			y = y + t*uOut
		}
		u = uOut
	}

	ys[0] = 0
	us[0] = uInto1
	if count >= 2 {
		ys[count-1] = y
		us[count-1] = u
	}

	return Ray{Y: ys, U: us, Direction: direction}
}

// MarginalStart returns the (y1, uInto1) launch condition for the marginal
// ray (axial object point, ray height scale at the first surface given by
// height) for either an infinite or a finite-conjugate object gap.
func MarginalStart(gaps []model.Gap, height float64) (y1, uInto1 float64) {
	if len(gaps) == 0 {
		return height, 0
	}
	objectGap := gaps[0]
	if math.IsInf(objectGap.Thickness, 0) {
		// Object at infinity: the marginal ray is parallel to the axis
		// arriving at surface 1 at the given reference height.
		return height, 0
	}
	// Finite conjugate: object height is 0, ray leaves at a reference
	// angle, which produces a proportional height at surface 1.
	u0 := height
	return u0 * objectGap.Thickness, u0
}

// ChiefStartAngle and ChiefStartPointSource return the (y1, uInto1)
// launch condition for the chief ray
// of an Angle field (entering at angleRad) or a PointSource field (object
// height fieldY), given the current entrance-pupil location/height.
func ChiefStartAngle(surfaces []model.Surface, z []float64, angleRad, pupilZ float64) (y1, uInto1 float64) {
	// A ray at angleRad through the pupil center (0, pupilZ) reaches
	// surface 1 (at z[1]) at a proportional height.
	y1 = (z[1] - pupilZ) * math.Tan(angleRad)
	return y1, math.Tan(angleRad)
}

func ChiefStartPointSource(z []float64, fieldY, pupilZ, pupilSemiDiameter float64) (y1, uInto1 float64) {
	// Ray from (fieldY, 0) through the pupil center (0, pupilZ).
	dz := pupilZ - 0
	if dz == 0 {
		return fieldY, 0
	}
	slope := (0 - fieldY) / dz
	y1 = fieldY + (z[1]-0)*slope
	return y1, slope
}
