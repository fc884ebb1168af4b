package model

import "testing"

func TestSystemGenerationIncrementsOnEverySetter(t *testing.T) {
	sys := NewSystem()
	if sys.Generation() != 0 {
		t.Fatalf("fresh system generation = %d, want 0", sys.Generation())
	}

	sys.SetSurfaces([]Surface{NewObjectSurface(), NewImageSurface()})
	sys.SetGaps([]Gap{NewGap(1, RefractiveIndex(1))})
	sys.SetAperture(NewEntrancePupilAperture(5))
	sys.SetFields([]Field{NewAngleField(0, NewSquareGridSampling(0))})
	sys.SetWavelengths([]Wavelength{0.5876})

	if sys.Generation() != 5 {
		t.Errorf("generation = %d, want 5 after five setter calls", sys.Generation())
	}
}

func TestBuiltSystemStaleTracksGeneration(t *testing.T) {
	sys := NewSystem()
	built := NewBuiltSystem(sys)

	if built.Stale(sys) {
		t.Error("a snapshot built from a fresh system should not be stale")
	}
	sys.SetSurfaces([]Surface{NewObjectSurface(), NewImageSurface()})
	if !built.Stale(sys) {
		t.Error("expected staleness after a setter runs")
	}
}
