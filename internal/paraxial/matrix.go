package paraxial

import (
	"math"

	"raytraceGo/internal/model"
)

// Mat2 is the 2×2 (y, u) transfer matrix used to compose refraction and
// transfer steps for pupil-imaging: y' = A·y + B·u, u' = C·y + D·u.
type Mat2 struct {
	A, B, C, D float64
}

var identity2 = Mat2{A: 1, D: 1}

func (m Mat2) Mul(other Mat2) Mat2 {
	return Mat2{
		A: m.A*other.A + m.B*other.C,
		B: m.A*other.B + m.B*other.D,
		C: m.C*other.A + m.D*other.C,
		D: m.C*other.B + m.D*other.D,
	}
}

func (m Mat2) Inverse() (Mat2, bool) {
	det := m.A*m.D - m.B*m.C
	if det == 0 {
		return Mat2{}, false
	}
	return Mat2{A: m.D / det, B: -m.B / det, C: -m.C / det, D: m.A / det}, true
}

func refractionMatrix(nIn, nOut, phi float64) Mat2 {
	if nOut == 0 {
		nOut = nIn
	}
	return Mat2{A: 1, B: 0, C: -phi / nOut, D: nIn / nOut}
}

func transferMatrix(thickness float64) Mat2 {
	return Mat2{A: 1, B: thickness, C: 0, D: 1}
}

// SubsystemMatrix composes the forward (y, u) matrix carrying the ray
// state immediately after surface `from` to the state immediately after
// surface `to` (from < to), chaining transfer-then-refraction for each
// surface in between. It is the building block for exact paraxial pupil
// imaging (PupilImage below), independent of any particular launched ray.
//
// Like Trace, it folds at a Reflecting conic by flipping a running
// direction_of_travel and feeding signed n/thickness values through the
// same transfer and refraction matrices — see Trace's comment for why.
func SubsystemMatrix(surfaces []model.Surface, gaps []model.Gap, n [][]float64, wavelengthIndex, from, to int) Mat2 {
	m := identity2
	direction := 1.0
	for i := from; i < to; i++ {
		m = transferMatrix(direction * gaps[i].Thickness).Mul(m)
		nIn := direction * n[i][wavelengthIndex]
		if surfaces[i+1].Kind == model.SurfaceConic && surfaces[i+1].Interaction == model.Reflecting {
			direction = -direction
		}
		nOut := direction * n[i+1][wavelengthIndex]
		phi := 0.0
		if surfaces[i+1].Kind == model.SurfaceConic {
			phi = (nOut - nIn) * surfaces[i+1].Curvature()
		}
		m = refractionMatrix(nIn, nOut, phi).Mul(m)
	}
	return m
}

// PupilImage locates the paraxial image of an aperture of semiDiameter at
// the given plane, formed by a subsystem matrix m describing the ray
// propagation from that plane forward (or backward, see forward) to a
// reference surface baseZ away. It returns the location and the image's
// semi-diameter — the classical image-distance construction: find the
// drift distance at which the ray height stops depending on angle.
func PupilImage(m Mat2, baseZ, semiDiameter float64, forward bool) model.PupilDescription {
	a, b, c, d := m.A, m.B, m.C, m.D
	if d == 0 {
		return model.PupilDescription{Location: baseZ, SemiDiameter: semiDiameter}
	}
	var drift float64
	if forward {
		drift = -b / d
	} else {
		drift = b / d
	}
	magnification := a + drift*c
	if !forward {
		magnification = a - drift*c
	}
	location := baseZ
	if forward {
		location = baseZ + drift
	} else {
		location = baseZ - drift
	}
	return model.PupilDescription{Location: location, SemiDiameter: math.Abs(magnification) * semiDiameter}
}
