// Package describe assembles the three read-only views of §4.6 —
// components_view, cutaway_view, and paraxial_view — from a frozen
// model.BuiltSystem, without retracing or mutating anything.
package describe

import (
	"raytraceGo/internal/cutaway"
	"raytraceGo/internal/model"
	"raytraceGo/internal/paraxial"
)

// ComponentsView lists each optical element (single or cemented-pair Conic
// run) alongside the surfaces it spans and their resolved semi-diameters.
type ComponentsView struct {
	Elements []ComponentDescription
}

// ComponentDescription is one element's surface span and geometry summary.
type ComponentDescription struct {
	SurfaceIndices []int
	SemiDiameters  []float64
	Curvatures     []float64
}

// View is the full description returned by Describe: the three views of
// §4.6, computed once from the same BuiltSystem.
type View struct {
	Components ComponentsView
	Cutaway    cutaway.View
	Paraxial   paraxial.View
}

// Describe runs describe(): components_view from builder step 5's element
// pairing, cutaway_view from the meridional sampler, paraxial_view from the
// paraxial analyzer. samples <= 0 uses cutaway.DefaultSamples.
func Describe(built *model.BuiltSystem, samples int) View {
	return View{
		Components: componentsView(built),
		Cutaway:    cutaway.Sample(built, samples),
		Paraxial:   paraxial.Analyze(built),
	}
}

func componentsView(built *model.BuiltSystem) ComponentsView {
	view := ComponentsView{Elements: make([]ComponentDescription, 0, len(built.Components))}
	for _, element := range built.Components {
		desc := ComponentDescription{SurfaceIndices: element.SurfaceIndices}
		for _, idx := range element.SurfaceIndices {
			s := built.Surfaces[idx]
			desc.SemiDiameters = append(desc.SemiDiameters, s.ResolvedSemiDiameter())
			desc.Curvatures = append(desc.Curvatures, s.Curvature())
		}
		view.Elements = append(view.Elements, desc)
	}
	return view
}
