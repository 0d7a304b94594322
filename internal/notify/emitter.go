package notify

import (
	"context"
	"log/slog"
	"time"
)

// LogEmitter writes events to structured logs.
type LogEmitter struct {
	logger *slog.Logger
}

// NewLogEmitter creates a LogEmitter.
func NewLogEmitter(logger *slog.Logger) *LogEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogEmitter{logger: logger}
}

// Emit logs the event.
func (e *LogEmitter) Emit(ctx context.Context, ev Event) {
	e.logger.Info("pipeline event",
		"type", ev.Type,
		"session_id", ev.SessionID,
		"stage_slug", ev.StageSlug,
		"job_id", ev.JobID,
		"document_key", ev.DocumentKey,
		"model_id", ev.ModelID,
		"iteration", ev.Iteration,
		"error", ev.Error,
	)
}

// EventSink persists events; implemented by the catalog event log.
type EventSink interface {
	Append(ctx context.Context, ev Event) error
}

// SinkEmitter records events to a sink. Append failures are logged and
// dropped; emission never fails the caller.
type SinkEmitter struct {
	sink   EventSink
	logger *slog.Logger
}

// NewSinkEmitter creates a SinkEmitter.
func NewSinkEmitter(sink EventSink, logger *slog.Logger) *SinkEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SinkEmitter{sink: sink, logger: logger}
}

// Emit stamps and records the event.
func (e *SinkEmitter) Emit(ctx context.Context, ev Event) {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now()
	}
	if err := e.sink.Append(ctx, ev); err != nil {
		e.logger.Error("failed to record pipeline event", "type", ev.Type, "error", err)
	}
}

// MultiEmitter fans an event out to several emitters.
type MultiEmitter []Emitter

// Emit dispatches to every emitter in order.
func (m MultiEmitter) Emit(ctx context.Context, ev Event) {
	for _, e := range m {
		e.Emit(ctx, ev)
	}
}
