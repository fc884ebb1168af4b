package tracer

import (
	"context"
	"runtime"

	"github.com/alitto/pond"

	"raytraceGo/internal/bundle"
	"raytraceGo/internal/model"
)

// traceBundle runs traceOneRay for every ray in rays, writing into out. Each
// worker only ever touches its own ray index — out.Set and the Terminated
// slice are partitioned by rayIndex, so no two workers ever write the same
// slot there. ReasonForTermination is a shared map rather than a slice, so
// writes to it go through RayBundle.SetTermination's mutex instead.
//
// A fixed pool sized at 2×NumCPU is created per call rather than held open
// across the whole trace, matching how sixy6e-go-gsf pools one conversion
// batch at a time and drains it with StopAndWait before returning.
func traceBundle(ctx context.Context, built *model.BuiltSystem, rays []bundle.Ray, wavelengthIndex int, out *model.RayBundle) {
	n := runtime.NumCPU() * 2
	pool := pond.New(n, 0, pond.MinWorkers(n), pond.Context(ctx))
	defer pool.StopAndWait()

	for i, ray := range rays {
		rayIndex, r := i, ray
		pool.Submit(func() {
			traceOneRay(built, r, rayIndex, wavelengthIndex, out)
		})
	}
}
