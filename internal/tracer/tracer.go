// Package tracer implements the real sequential ray tracer of §4.5: per
// surface, per ray, transfer into the local frame, intersect the conic,
// test the aperture, refract or reflect, and return to the global frame.
// Trace in collection.go traces the (wavelength × field) bundles one after
// another; the rays of each bundle are farmed across a worker pool — see
// traceBundle in pool.go.
package tracer

import (
	"math"

	"raytraceGo/internal/bundle"
	"raytraceGo/internal/geometry"
	"raytraceGo/internal/model"
	"raytraceGo/internal/optmath"
)

// traceOneRay runs §4.5 steps 1-7 for a single ray through built, writing
// its samples into bundle slot [surface][rayIndex]. Surfaces are always
// visited in ascending index order — a reflection never re-encounters an
// earlier surface index — see SPEC_FULL.md §9 Open Question (iii). The
// fold itself is real: built.Z already carries the true, direction_of_travel
// folded axial position of every surface (axialLayout flips the sign of
// gap-thickness consumption at each Reflecting conic), and a reflection
// here flips the ray's true 3D direction vector via Reflect. So a mirror
// changes where surfaceIdx+1's vertex sits along z and which way dir
// points, never which surfaceIdx comes next.
func traceOneRay(built *model.BuiltSystem, ray bundle.Ray, rayIndex, wavelengthIndex int, out *model.RayBundle) {
	pos := ray.Pos
	dir := ray.Dir

	n := built.Surfaces
	lastSurface := len(n) - 1

	for surfaceIdx := 1; surfaceIdx < lastSurface; surfaceIdx++ {
		s := n[surfaceIdx]
		zVertex := built.Z[surfaceIdx]

		local := geometry.NewRay(pos.Sub(optmath.Vec3{Z: zVertex}), dir)

		conic := geometry.Conic{Curvature: s.Curvature(), ConicConstant: s.ConicConstant}

		t, hit := conic.Intersect(local)
		if !hit {
			terminate(out, rayIndex, surfaceIdx, model.MissedSurface, optmath.Vec3{Z: zVertex}.Add(pos), dir)
			return
		}

		hitPointLocal := local.At(t)
		sd := s.ResolvedSemiDiameter()
		if hitPointLocal.RadialSquared() > sd*sd+optmath.ApertureTolerance {
			terminate(out, rayIndex, surfaceIdx, model.Vignetted, hitPointLocal.Add(optmath.Vec3{Z: zVertex}), dir)
			return
		}

		normal := conic.Normal(hitPointLocal)

		globalHit := hitPointLocal.Add(optmath.Vec3{Z: zVertex})

		var newDir optmath.Vec3
		switch {
		case s.Kind == model.SurfaceConic && s.Interaction == model.Refracting:
			gapIn := surfaceIdx - 1
			gapOut := surfaceIdx
			nIn := built.N[gapIn][wavelengthIndex]
			nOut := built.N[gapOut][wavelengthIndex]

			refracted, ok := refract(dir, normal, nIn, nOut)
			if !ok {
				terminate(out, rayIndex, surfaceIdx, model.TotalInternalReflection, globalHit, dir)
				return
			}
			newDir = refracted

		case s.Kind == model.SurfaceConic && s.Interaction == model.Reflecting:
			newDir = dir.Reflect(normal)

		default:
			// Stop, Probe: pass-through; aperture test already applied above.
			newDir = dir
		}

		out.Set(surfaceIdx, rayIndex, model.RaySample{Pos: globalHit, Dir: newDir})

		pos = globalHit
		dir = newDir
	}

	// Record where the ray lands on the image plane.
	imageZ := built.Z[lastSurface]
	tEnd := 0.0
	if dir.Z != 0 {
		tEnd = (imageZ - pos.Z) / dir.Z
	}
	finalPos := pos.Add(dir.MulScalar(tEnd))
	out.Set(lastSurface, rayIndex, model.RaySample{Pos: finalPos, Dir: dir})
}

func terminate(out *model.RayBundle, rayIndex, surfaceIdx int, reason model.ErrorKind, pos, dir optmath.Vec3) {
	out.Set(surfaceIdx, rayIndex, model.RaySample{Pos: pos, Dir: dir})
	out.SetTermination(rayIndex, surfaceIdx+1, reason)
	for s := surfaceIdx + 1; s < out.NumSurfaces; s++ {
		out.Set(s, rayIndex, model.RaySample{Pos: pos, Dir: dir})
	}
}

// refract applies vector Snell's law; ok is false on total internal
// reflection.
func refract(dir, normal optmath.Vec3, nIn, nOut float64) (optmath.Vec3, bool) {
	n := normal
	cosThetaI := -dir.Dot(n)
	if cosThetaI < 0 {
		n = n.MulScalar(-1)
		cosThetaI = -cosThetaI
	}

	mu := nIn / nOut
	cos2ThetaT := 1 - mu*mu*(1-cosThetaI*cosThetaI)
	if cos2ThetaT < 0 {
		return optmath.Vec3{}, false
	}

	cosThetaT := math.Sqrt(cos2ThetaT)
	refracted := dir.MulScalar(mu).Add(n.MulScalar(mu*cosThetaI - cosThetaT))
	return refracted.Normalize(), true
}
