package tracer

import (
	"context"

	"raytraceGo/internal/bundle"
	"raytraceGo/internal/model"
)

// Trace runs §6's trace(): every field, at every configured wavelength, with
// the full pupil-sampling pattern. One TraceResult is produced per
// (wavelength, field); its Axis is always AxisY, since a full bundle already
// samples both meridional and sagittal rays simultaneously — see
// SPEC_FULL.md §9 Open Question (ii) for the axis-mirroring rationale that
// also governs the restricted single-axis operations below.
func Trace(ctx context.Context, built *model.BuiltSystem) model.TraceResultsCollection {
	var results []model.TraceResult
	for w := range built.Wavelengths {
		for fi, field := range built.Fields {
			rays := bundle.Generate(built, field)
			out := model.NewRayBundle(len(built.Surfaces), len(rays))
			traceBundle(ctx, built, rays, w, out)
			results = append(results, model.TraceResult{
				WavelengthIndex: w,
				FieldIndex:      fi,
				Axis:            model.AxisY,
				Bundle:          out,
				ChiefRayIndex:   bundle.ChiefIndex(rays),
			})
		}
	}
	return model.TraceResultsCollection{Results: results}
}

// TraceTangentialRayFan runs the diagnostic subset of §6: for the given
// field and wavelength, only the meridional (ρx=0) pupil line is launched,
// in place of the full 2D grid — a cheap fan used to inspect coma and
// astigmatism along a single field point without tracing the whole bundle.
func TraceTangentialRayFan(ctx context.Context, built *model.BuiltSystem, fieldIndex, wavelengthIndex int) model.TraceResult {
	field := built.Fields[fieldIndex]
	rays := tangentialFan(bundle.Generate(built, field))
	out := model.NewRayBundle(len(built.Surfaces), len(rays))
	traceBundle(ctx, built, rays, wavelengthIndex, out)
	return model.TraceResult{
		WavelengthIndex: wavelengthIndex,
		FieldIndex:      fieldIndex,
		Axis:            model.AxisY,
		Bundle:          out,
		ChiefRayIndex:   bundle.ChiefIndex(rays),
	}
}

// TraceChiefAndMarginalRays runs the other §6 diagnostic subset: just the
// chief ray (ρ=(0,0)) and the two meridional marginal rays (ρ=(0,±1)), for
// every field at every wavelength — the minimal bundle a first-order
// aberration check needs.
func TraceChiefAndMarginalRays(ctx context.Context, built *model.BuiltSystem) model.TraceResultsCollection {
	var results []model.TraceResult
	for w := range built.Wavelengths {
		for fi, field := range built.Fields {
			rays := chiefAndMarginal(bundle.Generate(built, field))
			out := model.NewRayBundle(len(built.Surfaces), len(rays))
			traceBundle(ctx, built, rays, w, out)
			results = append(results, model.TraceResult{
				WavelengthIndex: w,
				FieldIndex:      fi,
				Axis:            model.AxisY,
				Bundle:          out,
				ChiefRayIndex:   bundle.ChiefIndex(rays),
			})
		}
	}
	return model.TraceResultsCollection{Results: results}
}

// tangentialFan keeps only the chief ray and rays lying on the ρx=0 line.
func tangentialFan(rays []bundle.Ray) []bundle.Ray {
	fan := make([]bundle.Ray, 0, len(rays))
	for _, r := range rays {
		if r.PupilX == 0 {
			fan = append(fan, r)
		}
	}
	return fan
}

// chiefAndMarginal keeps the chief ray plus the two meridional rays closest
// to the pupil edge (ρy→±1, ρx=0).
func chiefAndMarginal(rays []bundle.Ray) []bundle.Ray {
	var chief *bundle.Ray
	var top, bottom *bundle.Ray
	for i := range rays {
		r := &rays[i]
		if r.IsChief {
			chief = r
			continue
		}
		if r.PupilX != 0 {
			continue
		}
		if r.PupilY > 0 && (top == nil || r.PupilY > top.PupilY) {
			top = r
		}
		if r.PupilY < 0 && (bottom == nil || r.PupilY < bottom.PupilY) {
			bottom = r
		}
	}

	var out []bundle.Ray
	if chief != nil {
		out = append(out, *chief)
	}
	if top != nil {
		out = append(out, *top)
	}
	if bottom != nil {
		out = append(out, *bottom)
	}
	return out
}
