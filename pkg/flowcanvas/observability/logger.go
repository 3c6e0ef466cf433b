// Package observability provides structured logging, metrics, and tracing
// for canvas sessions.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds document and session ids to a logger.
//
// Example:
//
//	enriched := EnrichLogger(logger, "journey-7", sessionID)
//	enriched.Info("editing") // includes document_id, session_id
func EnrichLogger(logger *slog.Logger, documentID, sessionID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("document_id", documentID),
		slog.String("session_id", sessionID),
	)
}

// LogCommit logs a successful persistence commit.
func LogCommit(logger *slog.Logger, documentID, trigger string, sizeBytes int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Info("document committed",
		slog.String("document_id", documentID),
		slog.String("trigger", trigger),
		slog.Int("size_bytes", sizeBytes),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogCommitError logs a failed commit. The session keeps its dirty state,
// so this is a warning rather than an error.
func LogCommitError(logger *slog.Logger, documentID, trigger string, err error, attempts int) {
	if logger == nil {
		return
	}
	logger.Warn("document commit failed",
		slog.String("document_id", documentID),
		slog.String("trigger", trigger),
		slog.String("error", err.Error()),
		slog.Int("attempts", attempts),
	)
}

// LogMerge logs a suggestion merge.
func LogMerge(logger *slog.Logger, mode string, entries, nodes, edges int) {
	if logger == nil {
		return
	}
	logger.Info("suggestion merged",
		slog.String("mode", mode),
		slog.Int("entries", entries),
		slog.Int("nodes", nodes),
		slog.Int("edges", edges),
	)
}

// LogLoadFallback logs a load that fell back to an empty document.
func LogLoadFallback(logger *slog.Logger, documentID string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("document unreadable, starting empty",
		slog.String("document_id", documentID),
		slog.String("error", err.Error()),
	)
}

// LogEdgeRejected logs an edge that failed endpoint validation.
func LogEdgeRejected(logger *slog.Logger, edgeID string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("edge rejected",
		slog.String("edge_id", edgeID),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}
