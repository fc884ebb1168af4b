package paraxial

import (
	"math"

	"raytraceGo/internal/model"
)

// Subview is the per-(wavelength, axis) paraxial description of §4.2.
type Subview struct {
	WavelengthIndex int
	Axis            model.Axis

	ApertureStop int

	EffectiveFocalLength float64
	BackFocalDistance    float64
	FrontFocalDistance   float64
	BackPrincipalPlane   float64
	FrontPrincipalPlane  float64

	EntrancePupil      model.PupilDescription
	ExitPupil          model.PupilDescription
	ParaxialImagePlane model.PupilDescription
}

// View is the full paraxial_view of §4.6: every (wavelength, axis)
// subview plus the system-level primary axial color per axis.
type View struct {
	Subviews          []Subview
	PrimaryAxialColor map[model.Axis]float64
}

// Analyze runs the paraxial analyzer of §4.2 over a frozen BuiltSystem,
// producing one Subview per wavelength (X mirrors Y — see SPEC_FULL.md §9
// Open Question (ii), so only Y is computed and echoed under both axes).
func Analyze(built *model.BuiltSystem) View {
	view := View{PrimaryAxialColor: make(map[model.Axis]float64)}

	backFocalDistances := make([]float64, len(built.Wavelengths))

	for w := range built.Wavelengths {
		sub := analyzeWavelength(built, w, model.AxisY)
		view.Subviews = append(view.Subviews, sub)
		backFocalDistances[w] = sub.BackFocalDistance

		subX := sub
		subX.Axis = model.AxisX
		view.Subviews = append(view.Subviews, subX)
	}

	if len(backFocalDistances) >= 2 {
		lo, hi := backFocalDistances[0], backFocalDistances[0]
		for _, v := range backFocalDistances {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		view.PrimaryAxialColor[model.AxisY] = hi - lo
		view.PrimaryAxialColor[model.AxisX] = hi - lo
	} else {
		view.PrimaryAxialColor[model.AxisY] = 0
		view.PrimaryAxialColor[model.AxisX] = 0
	}

	return view
}

func analyzeWavelength(built *model.BuiltSystem, w int, axis model.Axis) Subview {
	n := len(built.Surfaces)
	lastReal := n - 2

	y1, u1 := MarginalStart(built.Gaps, 1.0)
	marginal := Trace(built.Surfaces, built.Gaps, built.N, w, y1, u1)

	// eflRaw/bfdRaw/ffdRaw stay in the same signed-coordinate sense as
	// built.Z (used below for the principal-plane arithmetic); efl/bfd/ffd
	// are the direction_of_travel-corrected magnitudes reported in the
	// Subview, so an EFL/BFD/FFD is always a positive distance measured
	// along whichever way the ray is actually travelling at that point
	// (see Trace's and SubsystemMatrix's direction_of_travel comments).
	eflRaw := math.Inf(1)
	if marginal.U[lastReal] != 0 {
		eflRaw = -y1 / marginal.U[lastReal]
	}
	efl := eflRaw * marginal.Direction

	bfdRaw := 0.0
	if marginal.U[lastReal] != 0 {
		bfdRaw = -marginal.Y[lastReal] / marginal.U[lastReal]
	}
	bfd := bfdRaw * marginal.Direction

	ffdRaw, ffdDirection := frontFocalDistance(built, w)
	ffd := ffdRaw * ffdDirection

	backFocalZ := built.Z[lastReal] + bfdRaw
	frontFocalZ := built.Z[1] - ffdRaw
	backPrincipalPlane := backFocalZ - eflRaw
	frontPrincipalPlane := frontFocalZ + eflRaw

	stopIndex := built.ApertureStopIndex
	stopSD := built.Surfaces[stopIndex].ResolvedSemiDiameter()

	entrancePupil := built.EntrancePupil
	if stopIndex > 1 {
		mPre := SubsystemMatrix(built.Surfaces, built.Gaps, built.N, w, 1, stopIndex)
		if mPreInv, ok := mPre.Inverse(); ok {
			entrancePupil = PupilImage(mPreInv, built.Z[1], stopSD, false)
		}
	} else if stopIndex == 1 {
		entrancePupil = model.PupilDescription{Location: built.Z[1], SemiDiameter: stopSD}
	}

	exitPupil := model.PupilDescription{Location: built.Z[lastReal], SemiDiameter: stopSD}
	if stopIndex < lastReal {
		mPost := SubsystemMatrix(built.Surfaces, built.Gaps, built.N, w, stopIndex, lastReal)
		exitPupil = PupilImage(mPost, built.Z[lastReal], stopSD, true)
	}

	imagePlane := paraxialImagePlane(built, w, entrancePupil)

	return Subview{
		WavelengthIndex:      w,
		Axis:                 axis,
		ApertureStop:         stopIndex,
		EffectiveFocalLength: efl,
		BackFocalDistance:    bfd,
		FrontFocalDistance:   ffd,
		BackPrincipalPlane:   backPrincipalPlane,
		FrontPrincipalPlane:  frontPrincipalPlane,
		EntrancePupil:        entrancePupil,
		ExitPupil:            exitPupil,
		ParaxialImagePlane:   imagePlane,
	}
}

// frontFocalDistance traces the marginal ray through the reversed system
// (object and image roles swapped) to locate the front focal point,
// mirroring the back focal distance computed in analyzeWavelength. It returns the raw (Z-arithmetic
// sense) distance alongside the direction_of_travel in effect at the
// reversed system's last real surface, so the caller can report a
// direction-corrected magnitude the same way it does for the forward trace.
func frontFocalDistance(built *model.BuiltSystem, w int) (float64, float64) {
	revSurfaces, revGaps, revN := reverseSystem(built.Surfaces, built.Gaps, built.N, w)
	y1, u1 := MarginalStart(revGaps, 1.0)
	marginal := Trace(revSurfaces, revGaps, revN, 0, y1, u1)
	lastReal := len(revSurfaces) - 2
	if marginal.U[lastReal] == 0 {
		return 0, marginal.Direction
	}
	return -marginal.Y[lastReal] / marginal.U[lastReal], marginal.Direction
}

func reverseSystem(surfaces []model.Surface, gaps []model.Gap, n [][]float64, w int) ([]model.Surface, []model.Gap, [][]float64) {
	count := len(surfaces)
	revSurfaces := make([]model.Surface, count)
	for i, s := range surfaces {
		revSurfaces[count-1-i] = s
	}
	revSurfaces[0] = model.NewObjectSurface()
	revSurfaces[count-1] = model.NewImageSurface()

	revGaps := make([]model.Gap, len(gaps))
	for i, g := range gaps {
		revGaps[len(gaps)-1-i] = g
	}

	revN := make([][]float64, len(n))
	for i, row := range n {
		revN[len(n)-1-i] = []float64{row[w]}
	}
	return revSurfaces, revGaps, revN
}

// paraxialImagePlane traces the chief ray of the first field and reports
// the image surface's Z as the location and the chief ray's height there
// as the paraxial image plane semi-diameter.
func paraxialImagePlane(built *model.BuiltSystem, w int, entrancePupil model.PupilDescription) model.PupilDescription {
	n := len(built.Surfaces)
	if len(built.Fields) == 0 {
		return model.PupilDescription{Location: built.Z[n-1], SemiDiameter: 0}
	}

	field := built.Fields[0]
	var y1, u1 float64
	switch field.Kind {
	case model.FieldAngle:
		y1, u1 = ChiefStartAngle(built.Surfaces, built.Z, field.AngleDeg*math.Pi/180, entrancePupil.Location)
	case model.FieldPointSource:
		y1, u1 = ChiefStartPointSource(built.Z, field.Y, entrancePupil.Location, entrancePupil.SemiDiameter)
	}

	// Trace already propagates through the final gap to the image surface
	// (chief.Y[n-1]), using the same signed direction_of_travel as every
	// other gap in the recursion — recomputing it here with the raw,
	// unsigned gap thickness would get the sign wrong for a folded system.
	chief := Trace(built.Surfaces, built.Gaps, built.N, w, y1, u1)
	return model.PupilDescription{Location: built.Z[n-1], SemiDiameter: math.Abs(chief.Y[n-1])}
}
