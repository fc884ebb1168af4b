package model

import (
	"sync"

	"raytraceGo/internal/optmath"
)

// RaySample is one ray's recorded (position, direction) at a single
// surface, in the global coordinate frame.
type RaySample struct {
	Pos optmath.Vec3
	Dir optmath.Vec3
}

// RayBundle is the row-major [surface][ray] sample grid produced by a real
// ray trace, plus per-ray termination bookkeeping. Row stride is RayCount.
type RayBundle struct {
	NumSurfaces int
	RayCount    int

	// Samples is laid out surface-major: Samples[surface*RayCount+ray].
	Samples []RaySample

	// Terminated holds, per ray, the 1-based surface index at which the
	// ray stopped; 0 means the ray survived to the image surface.
	Terminated []int

	// ReasonForTermination maps ray index to the ErrorKind that ended it;
	// rays that survive have no entry. Guarded by mu because a parallel
	// tracer writes ray indices from different goroutines, and a Go map
	// (unlike a slice's disjoint indices) is not safe for concurrent
	// writes even to distinct keys.
	ReasonForTermination map[int]ErrorKind

	mu sync.Mutex
}

// SetTermination records that ray stopped at surfaceIndex (1-based) for
// reason. Safe to call concurrently from different goroutines.
func (b *RayBundle) SetTermination(ray, surfaceIndex int, reason ErrorKind) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Terminated[ray] = surfaceIndex
	b.ReasonForTermination[ray] = reason
}

// NewRayBundle allocates a bundle sized for numSurfaces × rayCount,
// pre-filling Samples so every slot is addressable before the tracer
// writes into it.
func NewRayBundle(numSurfaces, rayCount int) *RayBundle {
	return &RayBundle{
		NumSurfaces:          numSurfaces,
		RayCount:             rayCount,
		Samples:              make([]RaySample, numSurfaces*rayCount),
		Terminated:           make([]int, rayCount),
		ReasonForTermination: make(map[int]ErrorKind),
	}
}

// At returns the sample recorded for ray at the given surface index.
func (b *RayBundle) At(surface, ray int) RaySample {
	return b.Samples[surface*b.RayCount+ray]
}

// Set records a sample for ray at the given surface index.
func (b *RayBundle) Set(surface, ray int, sample RaySample) {
	b.Samples[surface*b.RayCount+ray] = sample
}

// TraceResult bundles one (wavelength, field, axis) ray trace.
type TraceResult struct {
	WavelengthIndex int
	FieldIndex      int
	Axis            Axis
	Bundle          *RayBundle
	ChiefRayIndex   int
}

// TraceResultsCollection is the full set of results from trace(): one
// TraceResult per (wavelength × field) combination, each with Axis Y.
type TraceResultsCollection struct {
	Results []TraceResult
}
