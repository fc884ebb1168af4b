package config

import (
	"context"
	"path/filepath"
	"testing"

	"raytraceGo/internal/builder"
	"raytraceGo/internal/model"
	"raytraceGo/internal/tracer"
)

func fixturePath(name string) string {
	return filepath.Join("..", "..", "testdata", name)
}

// TestFixturePlanoconvexOnAxis is scenario A of the concrete end-to-end
// table: aperture stop must land on the curved front surface.
func TestFixturePlanoconvexOnAxis(t *testing.T) {
	sys, err := LoadFromFile(fixturePath("planoconvex.yaml"))
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	built, err := builder.New(nil).Build(sys)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if built.ApertureStopIndex != 1 {
		t.Errorf("ApertureStopIndex = %d, want 1", built.ApertureStopIndex)
	}
}

// TestFixturePlanoconvex5DegChiefRaySurvives is scenario B: the 5-degree
// field's chief ray must reach the image surface without vignetting.
func TestFixturePlanoconvex5DegChiefRaySurvives(t *testing.T) {
	sys, err := LoadFromFile(fixturePath("planoconvex_5deg.yaml"))
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	built, err := builder.New(nil).Build(sys)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	collection := tracer.Trace(context.Background(), built)
	result := collection.Results[0]
	chiefTerminated := result.Bundle.Terminated[result.ChiefRayIndex]
	if chiefTerminated != 0 {
		t.Errorf("chief ray terminated at surface %d, want it to survive to the image", chiefTerminated)
	}
}

// TestFixtureMirrorFlipsRayBackward is scenario D: a concave mirror must
// send the on-axis ray back toward the object side.
func TestFixtureMirrorFlipsRayBackward(t *testing.T) {
	sys, err := LoadFromFile(fixturePath("mirror.yaml"))
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	built, err := builder.New(nil).Build(sys)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	collection := tracer.Trace(context.Background(), built)
	result := collection.Results[0]
	afterMirror := result.Bundle.At(1, result.ChiefRayIndex)
	if afterMirror.Dir.Z >= 0 {
		t.Errorf("Dir.Z after the mirror = %f, want negative (reflected back toward the object)", afterMirror.Dir.Z)
	}

	image := result.Bundle.At(len(built.Surfaces)-1, result.ChiefRayIndex)
	if image.Pos.Z >= 0 {
		t.Errorf("image position Z = %f, want negative (direction_of_travel folds the gap behind the mirror)", image.Pos.Z)
	}
}

// TestFixtureUnrealizableFailsBuild is scenario E: a semi-diameter beyond
// the conic's closure radius must fail build() with GeometryUnrealizable
// at the offending surface.
func TestFixtureUnrealizableFailsBuild(t *testing.T) {
	sys, err := LoadFromFile(fixturePath("unrealizable.yaml"))
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	_, buildErr := builder.New(nil).Build(sys)
	if buildErr == nil {
		t.Fatal("expected GeometryUnrealizable")
	}
	serr, ok := buildErr.(*model.SystemError)
	if !ok || serr.Kind != model.GeometryUnrealizable {
		t.Fatalf("got %v, want GeometryUnrealizable", buildErr)
	}
	if serr.SurfaceIndex == nil || *serr.SurfaceIndex != 1 {
		t.Errorf("SurfaceIndex = %v, want 1", serr.SurfaceIndex)
	}
}

// TestFixturePetzvalStopAtDeclaredSurface is scenario C: the stop must
// resolve to its declared surface index, and the chief ray of every field
// must reach the image surface without vignetting.
func TestFixturePetzvalStopAtDeclaredSurface(t *testing.T) {
	sys, err := LoadFromFile(fixturePath("petzval.yaml"))
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	built, err := builder.New(nil).Build(sys)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if built.ApertureStopIndex != 4 {
		t.Errorf("ApertureStopIndex = %d, want 4 (the declared Stop surface)", built.ApertureStopIndex)
	}

	collection := tracer.Trace(context.Background(), built)
	for _, result := range collection.Results {
		chief := result.Bundle.Terminated[result.ChiefRayIndex]
		if chief != 0 {
			t.Errorf("field %d: chief ray terminated at surface %d, want it to reach the image", result.FieldIndex, chief)
		}
	}
}
