// Package worker implements the host/engine message protocol of §5 and §6:
// a host submits Compute requests carrying a system spec, tagged with a
// monotonically increasing request_id, and an Engine goroutine drains them
// in strict FIFO order, replying with a Computed response echoing the same
// request_id. It adapts the teacher's internal/shutdown graceful-shutdown
// machinery (signal handling, context cancellation, cleanup hooks)
// into this request/response loop instead of a renderer's frame pipeline.
package worker

import (
	"context"

	"raytraceGo/internal/builder"
	"raytraceGo/internal/catalog"
	"raytraceGo/internal/describe"
	"raytraceGo/internal/model"
	"raytraceGo/internal/shutdown"
	"raytraceGo/internal/tracer"
)

// RequestKind tags a Request's payload.
type RequestKind int

const (
	RequestInitialize RequestKind = iota
	RequestCompute
)

// Request is one host-submitted unit of work. Spec is nil for Initialize.
type Request struct {
	ID   int64
	Kind RequestKind
	Spec *model.System

	// Samples controls cutaway resolution for a Compute request that asks
	// for a description rather than a ray trace.
	Samples int
	Op      Operation
}

// Operation distinguishes the engine method a Compute request invokes —
// the engine API of §6 is otherwise identical whether reached through
// direct Go calls or this message protocol.
type Operation int

const (
	OpDescribe Operation = iota
	OpTrace
	OpTraceChiefAndMarginal
)

// Response is the host-facing reply, always echoing the originating
// request's ID so a host can match responses delivered out of submission
// order back to the right caller (the engine itself replies in FIFO order,
// but a host may dispatch requests from several goroutines).
type Response struct {
	RequestID int64
	Err       error

	Description *describe.View
	Trace       *model.TraceResultsCollection
}

// Host owns the channel pair a caller uses to drive one Engine instance.
type Host struct {
	requests  chan Request
	responses chan Response
	nextID    int64
}

// NewHost allocates a Host with a bounded request queue of the given depth.
func NewHost(queueDepth int) *Host {
	return &Host{
		requests:  make(chan Request, queueDepth),
		responses: make(chan Response, queueDepth),
	}
}

// Submit assigns the next request_id, enqueues req, and returns the ID the
// caller should match against Responses().
func (h *Host) Submit(req Request) int64 {
	h.nextID++
	req.ID = h.nextID
	h.requests <- req
	return req.ID
}

// Responses exposes the reply stream for a caller to range over.
func (h *Host) Responses() <-chan Response {
	return h.responses
}

// Close signals no further requests will be submitted.
func (h *Host) Close() {
	close(h.requests)
}

// Engine is the single-threaded, synchronous, pure-function compute core
// of §5: no shared mutable state across instances, one goroutine draining
// h.requests in order.
type Engine struct {
	catalog *catalog.Client
}

// NewEngine constructs an Engine backed by its own materials catalog.
func NewEngine() *Engine {
	return &Engine{catalog: catalog.NewClient()}
}

// Run drains h's request channel in FIFO order until it is closed or ctx is
// cancelled, replying to each with a Computed/Initialized response that
// echoes the request's ID. Shutdown is driven by a teacher-style
// GracefulShutdown: cancelling ctx (e.g. on SIGINT/SIGTERM) stops the drain
// loop and runs the registered cleanup hook — closing the response channel
// — before Run returns, so a host's range over Responses() always
// terminates cleanly rather than blocking forever.
func (e *Engine) Run(ctx context.Context, h *Host) {
	gs := shutdown.NewGracefulShutdown(ctx)
	gs.AddCleanupFunc("close-responses", 0, func(context.Context) error {
		close(h.responses)
		return nil
	})
	gs.Start()

	for {
		select {
		case <-ctx.Done():
			gs.Shutdown()
			return
		case req, ok := <-h.requests:
			if !ok {
				gs.Shutdown()
				return
			}
			h.responses <- e.handle(ctx, req)
		}
	}
}

func (e *Engine) handle(ctx context.Context, req Request) Response {
	if req.Kind == RequestInitialize {
		return Response{RequestID: req.ID}
	}

	built, err := builder.New(e.catalog).Build(req.Spec)
	if err != nil {
		return Response{RequestID: req.ID, Err: err}
	}

	switch req.Op {
	case OpDescribe:
		view := describe.Describe(built, req.Samples)
		return Response{RequestID: req.ID, Description: &view}
	case OpTraceChiefAndMarginal:
		collection := tracer.TraceChiefAndMarginalRays(ctx, built)
		return Response{RequestID: req.ID, Trace: &collection}
	default:
		collection := tracer.Trace(ctx, built)
		return Response{RequestID: req.ID, Trace: &collection}
	}
}
