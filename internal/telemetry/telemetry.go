// Package telemetry replaces the teacher's internal/monitoring (a
// streaming pixels/sec progress reporter, appropriate for a long-running
// renderer) with what a batch, deterministic trace actually needs:
// structured logging via log/slog plus a small summary of one trace run.
package telemetry

import (
	"log/slog"
	"os"
	"time"

	"raytraceGo/internal/model"
)

// NewLogger returns a structured JSON logger to stderr, matching how a
// host process consuming this engine's stdout (the describe/trace JSON
// payload) needs logs kept off that stream.
func NewLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, nil))
}

// TraceSummary aggregates termination counts across a TraceResultsCollection
// — the per-run statistic an operator actually wants, in place of the
// teacher's live rays-per-second gauge.
type TraceSummary struct {
	Elapsed    time.Duration
	RaysTraced int
	Survived   int
	Terminated map[model.ErrorKind]int
}

// Summarize walks a completed collection and tallies termination reasons.
func Summarize(collection model.TraceResultsCollection, elapsed time.Duration) TraceSummary {
	summary := TraceSummary{Elapsed: elapsed, Terminated: make(map[model.ErrorKind]int)}
	for _, result := range collection.Results {
		summary.RaysTraced += result.Bundle.RayCount
		for ray := 0; ray < result.Bundle.RayCount; ray++ {
			if result.Bundle.Terminated[ray] == 0 {
				summary.Survived++
				continue
			}
			reason := result.Bundle.ReasonForTermination[ray]
			summary.Terminated[reason]++
		}
	}
	return summary
}

// Log emits the summary as a structured slog record.
func Log(logger *slog.Logger, summary TraceSummary) {
	logger.Info("trace complete",
		"elapsed", summary.Elapsed,
		"rays_traced", summary.RaysTraced,
		"survived", summary.Survived,
		"terminated", summary.Terminated,
	)
}
