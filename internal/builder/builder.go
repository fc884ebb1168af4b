// Package builder implements the normalizer of SPEC_FULL.md §4.1: it turns
// an editable model.System into an immutable model.BuiltSystem, or returns
// the first structured model.SystemError it hits. Like the teacher's
// scene.LoadFromFile / createMaterial, this is the one place an untyped
// edit crosses into a value every other package can trust.
package builder

import (
	"math"

	"raytraceGo/internal/catalog"
	"raytraceGo/internal/model"
	"raytraceGo/internal/paraxial"
)

// Builder runs the seven ordered normalization steps of §4.1.
type Builder struct {
	catalog *catalog.Client
}

func New(catalogClient *catalog.Client) *Builder {
	if catalogClient == nil {
		catalogClient = catalog.NewClient()
	}
	return &Builder{catalog: catalogClient}
}

// Build validates sys and, on success, returns a frozen BuiltSystem. sys is
// never mutated.
func (b *Builder) Build(sys *model.System) (*model.BuiltSystem, error) {
	if err := checkShape(sys); err != nil {
		return nil, err
	}

	surfaces := append([]model.Surface(nil), sys.Surfaces...)
	applyDefaultSemiDiameters(surfaces)

	z, err := axialLayout(surfaces, sys.Gaps)
	if err != nil {
		return nil, err
	}

	n, err := b.resolveMedia(sys.Gaps, sys.Wavelengths)
	if err != nil {
		return nil, err
	}

	if err := checkConicRealizable(surfaces); err != nil {
		return nil, err
	}

	stopIndex, err := solveApertureStop(surfaces, sys.Gaps, n)
	if err != nil {
		return nil, err
	}

	entrancePupil := sizeEntrancePupil(surfaces, sys.Gaps, n, z, stopIndex)

	built := model.NewBuiltSystem(sys)
	built.Title = sys.Title
	built.Units = sys.Units
	built.Surfaces = surfaces
	built.Gaps = append([]model.Gap(nil), sys.Gaps...)
	built.Aperture = sys.Aperture
	built.Fields = append([]model.Field(nil), sys.Fields...)
	built.Wavelengths = append([]model.Wavelength(nil), sys.Wavelengths...)
	built.Z = z
	built.N = n
	built.ApertureStopIndex = stopIndex
	built.EntrancePupil = entrancePupil
	built.Components = pairElements(surfaces, sys.Gaps, n)

	return built, nil
}

// checkShape implements step 1: object-first / image-last, matching gap
// count, non-empty wavelengths/fields.
func checkShape(sys *model.System) error {
	n := len(sys.Surfaces)
	if n < 2 {
		return model.NewShapeError("system must have at least an Object and an Image surface")
	}
	if sys.Surfaces[0].Kind != model.SurfaceObject {
		return model.NewSurfaceError(model.ShapeInvalid, 0, "first surface must be Object")
	}
	if sys.Surfaces[n-1].Kind != model.SurfaceImage {
		return model.NewSurfaceError(model.ShapeInvalid, n-1, "last surface must be Image")
	}
	for i := 1; i < n-1; i++ {
		k := sys.Surfaces[i].Kind
		if k == model.SurfaceObject || k == model.SurfaceImage {
			return model.NewSurfaceError(model.ShapeInvalid, i, "only the first surface may be Object and only the last may be Image")
		}
	}
	if len(sys.Gaps) != n-1 {
		return model.NewShapeError("gap count must be surface count minus one")
	}
	if len(sys.Wavelengths) == 0 {
		return model.NewShapeError("wavelength list must be non-empty")
	}
	for i, w := range sys.Wavelengths {
		if w <= 0 {
			return model.NewShapeError("wavelengths must be strictly positive")
		}
		_ = i
	}
	if len(sys.Fields) == 0 {
		return model.NewShapeError("field list must be non-empty")
	}
	for i, f := range sys.Fields {
		switch f.Kind {
		case model.FieldAngle:
			if math.Abs(f.AngleDeg) > 90 {
				return model.NewShapeError("Angle field magnitude must be <= 90 degrees")
			}
		case model.FieldPointSource:
			// Invariant 6: the point must lie before the first
			// refracting surface. The object surface's z is always 0
			// (axial layout step 3), so any finite object gap
			// satisfies this; nothing further to check here.
		}
		_ = i
	}
	for i, g := range sys.Gaps {
		if g.Thickness < 0 {
			return model.NewGapError(model.ShapeInvalid, i, "gap thickness must be non-negative")
		}
		if math.IsInf(g.Thickness, 0) && i != 0 && i != len(sys.Gaps)-1 {
			return model.NewGapError(model.ShapeInvalid, i, "only the first and last gaps may be infinite")
		}
	}
	return nil
}

// applyDefaultSemiDiameters implements step 2: Object/Image/Probe/Stop
// surfaces without a declared semi-diameter default from the max of
// adjacent Conic semi-diameters, else 1.0.
func applyDefaultSemiDiameters(surfaces []model.Surface) {
	for i := range surfaces {
		if surfaces[i].SemiDiameter != nil {
			continue
		}
		sd := 1.0
		if i > 0 {
			if prev := surfaces[i-1]; prev.Kind == model.SurfaceConic && prev.SemiDiameter != nil {
				sd = math.Max(sd, *prev.SemiDiameter)
			}
		}
		if i < len(surfaces)-1 {
			if next := surfaces[i+1]; next.Kind == model.SurfaceConic && next.SemiDiameter != nil {
				sd = math.Max(sd, *next.SemiDiameter)
			}
		}
		surfaces[i].SemiDiameter = &sd
	}
}

// axialLayout implements step 3. z tracks true folded axial position, not
// unfolded path length: each gap is consumed in the current direction of
// travel, and that direction flips every time a Reflecting conic surface is
// passed, per §4.5 step 5's direction_of_travel bookkeeping. traceOneRay
// relies on these z values to place every surface's local frame (and the
// image plane) at its real position along the axis, fold included.
func axialLayout(surfaces []model.Surface, gaps []model.Gap) ([]float64, error) {
	z := make([]float64, len(surfaces))
	z[0] = 0
	direction := 1.0
	for i := 1; i < len(surfaces); i++ {
		if isReflecting(surfaces[i-1]) {
			direction = -direction
		}
		t := gaps[i-1].Thickness
		if math.IsInf(t, 0) {
			z[i] = z[i-1]
			continue
		}
		z[i] = z[i-1] + direction*t
	}
	for i, zi := range z {
		if math.IsNaN(zi) {
			return nil, model.NewSurfaceError(model.NonFinite, i, "axial position is not finite")
		}
	}
	return z, nil
}

func isReflecting(s model.Surface) bool {
	return s.Kind == model.SurfaceConic && s.Interaction == model.Reflecting
}

// resolveMedia implements step 4: n[gap][wavelength], memoized through the
// materials catalog for Material gaps.
func (b *Builder) resolveMedia(gaps []model.Gap, wavelengths []model.Wavelength) ([][]float64, error) {
	n := make([][]float64, len(gaps))
	for g, gap := range gaps {
		n[g] = make([]float64, len(wavelengths))
		for w, lambda := range wavelengths {
			switch gap.Medium.Kind {
			case model.MediumRefractiveIndex:
				n[g][w] = gap.Medium.Index
			case model.MediumMaterial:
				value, err := b.catalog.IndexAt(gap.Medium.CatalogKey, float64(lambda))
				if err != nil {
					return nil, model.NewGapError(model.MaterialUnknown, g, err.Error())
				}
				n[g][w] = value
			}
			if n[g][w] <= 0 || math.IsNaN(n[g][w]) || math.IsInf(n[g][w], 0) {
				return nil, model.NewGapError(model.NonFinite, g, "resolved refractive index must be finite and positive")
			}
		}
	}
	return n, nil
}

// checkConicRealizable implements invariant 3: a finite-R conic's
// semi-diameter must not exceed the radius at which the surface closes.
func checkConicRealizable(surfaces []model.Surface) error {
	for i, s := range surfaces {
		if s.Kind != model.SurfaceConic || s.IsFlat() {
			continue
		}
		r := s.RadiusOfCurvature
		k := s.ConicConstant
		if 1+k <= 0 {
			continue // hyperboloid/paraboloid-like: never closes, any aperture is realizable
		}
		maxSD := math.Abs(r) * math.Sqrt(1/(1+k))
		if s.ResolvedSemiDiameter() > maxSD {
			return model.NewSurfaceError(model.GeometryUnrealizable, i,
				"semi-diameter exceeds the radius at which this conic closes")
		}
	}
	return nil
}

// pairElements implements step 5: consecutive Conic surfaces whose
// separating gap has n != 1.0 form a cemented/monolithic Element.
func pairElements(surfaces []model.Surface, gaps []model.Gap, n [][]float64) []model.Element {
	var elements []model.Element
	i := 0
	for i < len(surfaces) {
		if surfaces[i].Kind != model.SurfaceConic {
			i++
			continue
		}
		if i+1 < len(surfaces) && surfaces[i+1].Kind == model.SurfaceConic && gapIsSolid(n, i) {
			elements = append(elements, model.Element{SurfaceIndices: []int{i, i + 1}})
			i += 2
			continue
		}
		elements = append(elements, model.Element{SurfaceIndices: []int{i}})
		i++
	}
	return elements
}

func gapIsSolid(n [][]float64, surfaceIndex int) bool {
	if surfaceIndex >= len(n) || len(n[surfaceIndex]) == 0 {
		return false
	}
	return n[surfaceIndex][0] != 1.0
}

// solveApertureStop implements step 6. If exactly one Stop surface is
// declared it wins; otherwise the marginal ray is traced with an
// arbitrary nonzero launch condition and the stop is the surface
// maximizing |y|/semi_diameter (ties broken toward the smaller index).
func solveApertureStop(surfaces []model.Surface, gaps []model.Gap, n [][]float64) (int, error) {
	declaredStops := 0
	declaredIndex := -1
	for i, s := range surfaces {
		if s.Kind == model.SurfaceStop {
			declaredStops++
			declaredIndex = i
		}
	}
	if declaredStops > 1 {
		return 0, model.NewShapeError("at most one surface may be declared Stop")
	}
	if declaredStops == 1 {
		return declaredIndex, nil
	}

	y1, u1 := paraxial.MarginalStart(gaps, 1.0)
	ray := paraxial.Trace(surfaces, gaps, n, 0, y1, u1)

	bestIndex := -1
	bestRatio := -1.0
	for i, s := range surfaces {
		if s.Kind != model.SurfaceConic && s.Kind != model.SurfaceStop && s.Kind != model.SurfaceProbe {
			continue
		}
		sd := s.ResolvedSemiDiameter()
		if sd <= 0 {
			continue
		}
		ratio := math.Abs(ray.Y[i]) / sd
		if ratio > bestRatio+1e-12 {
			bestRatio = ratio
			bestIndex = i
		}
	}
	if bestIndex < 0 {
		return 0, model.NewShapeError("unable to locate an aperture stop: no surface constrains the marginal ray")
	}
	return bestIndex, nil
}

// sizeEntrancePupil implements step 7: propagate the marginal ray,
// normalized to graze the stop's semi-diameter, back to object space to
// get the entrance pupil's location and semi-diameter. For an object at
// infinity the semi-diameter is the scaled marginal height at surface 1
// and the location is the stop's paraxial image in object space.
func sizeEntrancePupil(surfaces []model.Surface, gaps []model.Gap, n [][]float64, z []float64, stopIndex int) model.PupilDescription {
	y1, u1 := paraxial.MarginalStart(gaps, 1.0)
	ray := paraxial.Trace(surfaces, gaps, n, 0, y1, u1)

	stopSD := surfaces[stopIndex].ResolvedSemiDiameter()
	yAtStop := ray.Y[stopIndex]
	if yAtStop == 0 {
		return model.PupilDescription{Location: z[1], SemiDiameter: stopSD}
	}
	scale := stopSD / math.Abs(yAtStop)

	yAt1 := y1 * scale
	uInto1 := u1 * scale

	if uInto1 == 0 {
		// Object at infinity: the marginal ray arrives parallel to the
		// axis, so its scaled height at surface 1 is the pupil radius; the
		// pupil sits at the stop's paraxial image through the surfaces in
		// front of the stop (surface 1 itself when it is the stop).
		location := z[1]
		if stopIndex > 1 {
			if inv, ok := paraxial.SubsystemMatrix(surfaces, gaps, n, 0, 1, stopIndex).Inverse(); ok {
				location = paraxial.PupilImage(inv, z[1], stopSD, false).Location
			}
		}
		return model.PupilDescription{Location: location, SemiDiameter: math.Abs(yAt1)}
	}

	// Back-propagate the scaled marginal ray from surface 1 to the
	// plane where its height crosses zero — the entrance pupil location
	// in object space (for a finite object, this is where an observer
	// standing before the first surface would see the stop's image).
	pupilZ := z[1] - yAt1/uInto1
	return model.PupilDescription{Location: pupilZ, SemiDiameter: math.Abs(yAt1)}
}
