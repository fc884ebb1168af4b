package geometry

import (
	stdmath "math"

	"raytraceGo/internal/optmath"
)

// Conic describes a surface of revolution about the z-axis, apex at the
// local-frame origin, symmetry axis +z: curvature c = 1/R (0 for a flat)
// and conic constant k. F(x,y,z) = c·(x²+y²) − 2·z + c·k·z² = 0.
type Conic struct {
	Curvature     float64
	ConicConstant float64
}

// Sag returns z_local(y) for y sweeping the meridional plane (x=0), per
// SPEC_FULL.md §4.3: z = y²/R / (1 + √(1−(1+k)(y/R)²)). Flat surfaces
// (Curvature == 0) return 0 for every y.
func (c Conic) Sag(y float64) float64 {
	if c.Curvature == 0 {
		return 0
	}
	r := 1 / c.Curvature
	ySq := y * y
	root := 1 - (1+c.ConicConstant)*(ySq/(r*r))
	if root < 0 {
		root = 0
	}
	return (ySq / r) / (1 + stdmath.Sqrt(root))
}

// MaxRadiusSquared returns the largest y² for which Sag is still real —
// the radius at which the conic closes back on the axis (§3 invariant 3),
// or +Inf when the surface never closes (k ≤ -1, or a flat).
func (c Conic) MaxRadiusSquared() float64 {
	if c.Curvature == 0 || 1+c.ConicConstant <= 0 {
		return stdmath.Inf(1)
	}
	r := 1 / c.Curvature
	return r * r / (1 + c.ConicConstant)
}

// Intersect solves for the smallest non-negative ray parameter t at which
// localRay meets the conic, per §4.5 step 2. ok is false when no forward
// intersection exists.
func (c Conic) Intersect(localRay Ray) (t float64, ok bool) {
	p := localRay.Origin
	d := localRay.Direction

	if c.Curvature == 0 {
		// Flat: t = -pos.z / dir.z.
		if optmath.FastAbs(d.Z) < optmath.DenominatorEpsilon {
			return 0, false
		}
		t = -p.Z / d.Z
		return t, t >= 0
	}

	k := c.ConicConstant
	cv := c.Curvature

	a := cv*(d.X*d.X+d.Y*d.Y) + cv*k*d.Z*d.Z
	b := 2*cv*(p.X*d.X+p.Y*d.Y) - 2*d.Z + 2*cv*k*p.Z*d.Z
	cc := cv*(p.X*p.X+p.Y*p.Y) - 2*p.Z + cv*k*p.Z*p.Z

	t0, t1, solved := optmath.QuadraticRoots(a, b, cc)
	if !solved {
		return 0, false
	}

	for _, candidate := range []float64{t0, t1} {
		if candidate < 0 {
			continue
		}
		hit := localRay.At(candidate)
		if hit.RadialSquared() <= c.MaxRadiusSquared()+optmath.ApertureTolerance {
			return candidate, true
		}
	}
	return 0, false
}

// Normal returns the outward unit surface normal at local-frame point p —
// the gradient of F, normalized. Flats return (0,0,1) (step 4).
func (c Conic) Normal(p optmath.Vec3) optmath.Vec3 {
	if c.Curvature == 0 {
		return optmath.Vec3{X: 0, Y: 0, Z: 1}
	}
	cv := c.Curvature
	k := c.ConicConstant
	grad := optmath.Vec3{
		X: 2 * cv * p.X,
		Y: 2 * cv * p.Y,
		Z: -2 + 2*cv*k*p.Z,
	}
	return grad.Normalize()
}
