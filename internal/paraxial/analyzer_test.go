package paraxial

import (
	"math"
	"testing"

	"raytraceGo/internal/model"
)

func planoconvexBuilt(t *testing.T, wavelengths []model.Wavelength) *model.BuiltSystem {
	t.Helper()
	surfaces := []model.Surface{
		model.NewObjectSurface(),
		model.NewConicSurface(12.5, 25.8, 0, model.Refracting),
		model.NewConicSurface(12.5, math.Inf(1), 0, model.Refracting),
		model.NewImageSurface(),
	}
	gaps := []model.Gap{
		model.NewGap(math.Inf(1), model.RefractiveIndex(1)),
		model.NewGap(5.3, model.RefractiveIndex(1.515)),
		model.NewGap(46.6, model.RefractiveIndex(1)),
	}

	n := make([][]float64, len(gaps))
	for i, g := range gaps {
		row := make([]float64, len(wavelengths))
		for w := range wavelengths {
			row[w] = g.Medium.Index
		}
		n[i] = row
	}

	z, err := axialLayoutForTest(surfaces, gaps)
	if err != nil {
		t.Fatalf("axial layout: %v", err)
	}

	built := model.NewBuiltSystem(model.NewSystem())
	built.Surfaces = surfaces
	built.Gaps = gaps
	built.Wavelengths = wavelengths
	built.Fields = []model.Field{model.NewAngleField(0, model.NewSquareGridSampling(0))}
	built.Z = z
	built.N = n
	built.ApertureStopIndex = 1
	built.EntrancePupil = model.PupilDescription{Location: 0, SemiDiameter: 5}
	return built
}

// axialLayoutForTest mirrors builder.axialLayout without importing the
// builder package (which would create an import cycle with paraxial).
func axialLayoutForTest(surfaces []model.Surface, gaps []model.Gap) ([]float64, error) {
	z := make([]float64, len(gaps)+1)
	direction := 1.0
	for i := 1; i < len(z); i++ {
		if surfaces[i-1].Kind == model.SurfaceConic && surfaces[i-1].Interaction == model.Reflecting {
			direction = -direction
		}
		t := gaps[i-1].Thickness
		if math.IsInf(t, 0) {
			z[i] = z[i-1]
			continue
		}
		z[i] = z[i-1] + direction*t
	}
	return z, nil
}

func mirrorBuilt(t *testing.T) *model.BuiltSystem {
	t.Helper()
	surfaces := []model.Surface{
		model.NewObjectSurface(),
		model.NewConicSurface(12.5, -200, 0, model.Reflecting),
		model.NewImageSurface(),
	}
	gaps := []model.Gap{
		model.NewGap(math.Inf(1), model.RefractiveIndex(1)),
		model.NewGap(100, model.RefractiveIndex(1)),
	}

	n := [][]float64{{1}, {1}}

	z, err := axialLayoutForTest(surfaces, gaps)
	if err != nil {
		t.Fatalf("axial layout: %v", err)
	}

	built := model.NewBuiltSystem(model.NewSystem())
	built.Surfaces = surfaces
	built.Gaps = gaps
	built.Wavelengths = []model.Wavelength{0.5876}
	built.Fields = []model.Field{model.NewAngleField(0, model.NewSquareGridSampling(0))}
	built.Z = z
	built.N = n
	built.ApertureStopIndex = 1
	built.EntrancePupil = model.PupilDescription{Location: 0, SemiDiameter: 12.5}
	return built
}

func TestAnalyzeSingleWavelengthHasNoAxialColor(t *testing.T) {
	built := planoconvexBuilt(t, []model.Wavelength{0.5876})
	view := Analyze(built)

	if len(view.Subviews) != 2 { // one Y, one mirrored X
		t.Fatalf("expected 2 subviews for 1 wavelength, got %d", len(view.Subviews))
	}
	if view.PrimaryAxialColor[model.AxisY] != 0 {
		t.Errorf("single-wavelength axial color = %f, want 0", view.PrimaryAxialColor[model.AxisY])
	}

	sub := view.Subviews[0]
	if math.IsInf(sub.EffectiveFocalLength, 0) || sub.EffectiveFocalLength <= 0 {
		t.Errorf("EFL = %f, want a finite positive focal length for a converging singlet", sub.EffectiveFocalLength)
	}
}

func TestAnalyzeTwoWavelengthsProducesAxialColor(t *testing.T) {
	built := planoconvexBuilt(t, []model.Wavelength{0.4861, 0.6563})
	// Give the two wavelengths genuinely different indices, as a real
	// catalog lookup would.
	built.N[1][0] = 1.521
	built.N[1][1] = 1.513

	view := Analyze(built)
	if len(view.Subviews) != 4 {
		t.Fatalf("expected 4 subviews for 2 wavelengths, got %d", len(view.Subviews))
	}
	if view.PrimaryAxialColor[model.AxisY] <= 0 {
		t.Errorf("expected nonzero axial color when index varies by wavelength, got %f", view.PrimaryAxialColor[model.AxisY])
	}
	if view.PrimaryAxialColor[model.AxisX] != view.PrimaryAxialColor[model.AxisY] {
		t.Error("X and Y axial color must match in a rotationally symmetric system")
	}
}

// TestAnalyzeMirrorReportsFiniteFocalLength is scenario D's paraxial half:
// a mirror's power comes from folding (direction_of_travel flips, φ=-2n/R
// at the mirror), not from an index change across its gap — the gap is air
// on both sides. Hand-derived for R=-200: nIn=1, reflecting flips direction
// to -1 so nOut=-1, φ=(nOut-nIn)·(1/R)=(-2)·(-0.005)=0.01, giving a marginal
// ray angle of 0.01 after the mirror and EFL=100 once direction_of_travel
// is folded back into the reported (positive) focal length.
func TestAnalyzeMirrorReportsFiniteFocalLength(t *testing.T) {
	built := mirrorBuilt(t)
	view := Analyze(built)

	sub := view.Subviews[0]
	if math.IsInf(sub.EffectiveFocalLength, 0) {
		t.Fatal("EFL is infinite: the mirror's power was not folded into the paraxial trace")
	}
	if math.Abs(sub.EffectiveFocalLength-100) > 1e-9 {
		t.Errorf("EFL = %f, want 100", sub.EffectiveFocalLength)
	}
	if math.Abs(sub.BackFocalDistance-100) > 1e-9 {
		t.Errorf("BackFocalDistance = %f, want 100", sub.BackFocalDistance)
	}
}

func TestAnalyzeApertureStopAtFirstSurfaceUsesItsOwnSemiDiameter(t *testing.T) {
	built := planoconvexBuilt(t, []model.Wavelength{0.5876})
	view := Analyze(built)

	sub := view.Subviews[0]
	if sub.EntrancePupil.SemiDiameter != 12.5 {
		t.Errorf("EntrancePupil.SemiDiameter = %f, want 12.5 (stop sits at surface 1)", sub.EntrancePupil.SemiDiameter)
	}
	if sub.EntrancePupil.Location != built.Z[1] {
		t.Errorf("EntrancePupil.Location = %f, want %f", sub.EntrancePupil.Location, built.Z[1])
	}
}
