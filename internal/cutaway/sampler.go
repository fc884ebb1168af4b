// Package cutaway produces the 2D meridional polyline samples of §4.3: one
// ordered (y, z) polyline per surface, for schematic rendering by an
// external consumer.
package cutaway

import (
	"raytraceGo/internal/geometry"
	"raytraceGo/internal/model"
)

// DefaultSamples is the polyline resolution used when a caller doesn't
// override it.
const DefaultSamples = 21

// Point is one (x=0, y, z) sample in the global frame.
type Point struct {
	Y, Z float64
}

// Polyline is the ordered sample set for a single surface.
type Polyline []Point

// View is the cutaway_view of §4.6.
type View struct {
	PathSamples    map[int]Polyline
	SurfaceTypes   map[int]model.SurfaceKind
	SemiDiameters  map[int]float64
}

// Sample builds the cutaway view for every surface in built, using
// samples points per surface (DefaultSamples when samples <= 0).
func Sample(built *model.BuiltSystem, samples int) View {
	if samples <= 0 {
		samples = DefaultSamples
	}

	view := View{
		PathSamples:   make(map[int]Polyline),
		SurfaceTypes:  make(map[int]model.SurfaceKind),
		SemiDiameters: make(map[int]float64),
	}

	for i, s := range built.Surfaces {
		sd := s.ResolvedSemiDiameter()
		view.SurfaceTypes[i] = s.Kind
		view.SemiDiameters[i] = sd
		view.PathSamples[i] = surfacePolyline(s, built.Z[i], sd, samples)
	}

	return view
}

func surfacePolyline(s model.Surface, zVertex, semiDiameter float64, samples int) Polyline {
	switch s.Kind {
	case model.SurfaceConic:
		if s.IsFlat() {
			return flatPolyline(zVertex, semiDiameter, samples)
		}
		return conicPolyline(s, zVertex, semiDiameter, samples)
	default:
		// Object, Image, Probe, and Stop: a flat, clear-aperture
		// vertical segment. Stop/Object/Image flange geometry beyond
		// the clear aperture is completed by the (external) renderer
		// from system-wide bounding-box extents, per §4.3.
		return flatPolyline(zVertex, semiDiameter, samples)
	}
}

func flatPolyline(zVertex, semiDiameter float64, samples int) Polyline {
	line := make(Polyline, samples)
	step := 2 * semiDiameter / float64(samples-1)
	for i := 0; i < samples; i++ {
		y := -semiDiameter + float64(i)*step
		line[i] = Point{Y: y, Z: zVertex}
	}
	return line
}

func conicPolyline(s model.Surface, zVertex, semiDiameter float64, samples int) Polyline {
	conic := geometry.Conic{Curvature: s.Curvature(), ConicConstant: s.ConicConstant}
	line := make(Polyline, samples)
	step := 2 * semiDiameter / float64(samples-1)
	for i := 0; i < samples; i++ {
		y := -semiDiameter + float64(i)*step
		line[i] = Point{Y: y, Z: zVertex + conic.Sag(y)}
	}
	return line
}
