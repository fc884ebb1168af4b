// Package bundle generates the initial object-space rays of §4.4, for a
// given (field, wavelength) combination, according to the aperture and
// the field's pupil-sampling pattern.
package bundle

import (
	"math"

	"raytraceGo/internal/model"
	"raytraceGo/internal/optmath"
)

// Ray is one launched ray with its identifying pupil coordinate.
type Ray struct {
	Pos optmath.Vec3
	Dir optmath.Vec3

	PupilX, PupilY float64
	IsChief        bool
}

// Generate produces the object-space rays for one field, sized against
// built's entrance pupil. The chief ray (pupil coordinate (0,0)) is always
// present and always first.
func Generate(built *model.BuiltSystem, field model.Field) []Ray {
	points := field.Sampling.PupilPoints()
	rays := make([]Ray, 0, len(points))

	pupilZ := built.EntrancePupil.Location
	pupilR := built.EntrancePupil.SemiDiameter

	for _, p := range points {
		px := p.RhoX * pupilR
		py := p.RhoY * pupilR
		pupilPoint := optmath.Vec3{X: px, Y: py, Z: pupilZ}

		var origin, direction optmath.Vec3
		switch field.Kind {
		case model.FieldAngle:
			origin, direction = rayForAngleField(field.AngleDeg, pupilPoint, pupilZ)
		case model.FieldPointSource:
			origin, direction = rayForPointSourceField(field.X, field.Y, pupilPoint)
		}

		rays = append(rays, Ray{
			Pos:     origin,
			Dir:     direction,
			PupilX:  p.RhoX,
			PupilY:  p.RhoY,
			IsChief: p.RhoX == 0 && p.RhoY == 0,
		})
	}

	return rays
}

// rayForAngleField builds a ray for an object-at-infinity field: direction
// is fixed by the field angle about the x-axis, and the origin is placed
// on the entrance-pupil plane offset to pass through the given pupil
// point — equivalent to launching from z → −∞ at angle θ and landing at P.
func rayForAngleField(angleDeg float64, pupilPoint optmath.Vec3, pupilZ float64) (origin, direction optmath.Vec3) {
	theta := angleDeg * math.Pi / 180
	direction = optmath.Vec3{X: 0, Y: math.Sin(theta), Z: math.Cos(theta)}.Normalize()
	origin = optmath.Vec3{X: pupilPoint.X, Y: pupilPoint.Y, Z: pupilZ}
	return origin, direction
}

// rayForPointSourceField builds a ray from a finite object point through
// the given entrance-pupil point.
func rayForPointSourceField(fieldX, fieldY float64, pupilPoint optmath.Vec3) (origin, direction optmath.Vec3) {
	origin = optmath.Vec3{X: fieldX, Y: fieldY, Z: 0}
	direction = pupilPoint.Sub(origin).Normalize()
	return origin, direction
}

// ChiefIndex returns the index of the chief ray within a Generate result.
func ChiefIndex(rays []Ray) int {
	for i, r := range rays {
		if r.IsChief {
			return i
		}
	}
	return 0
}
