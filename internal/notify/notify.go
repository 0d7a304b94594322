// Package notify defines fire-and-forget pipeline lifecycle events.
// Dispatch is side-effecting but never blocks and never propagates
// failure into the pipeline.
package notify

import (
	"context"
	"time"
)

// EventType tags a lifecycle event. The set is closed.
type EventType string

const (
	PlannerStarted               EventType = "planner_started"
	ExecuteStarted               EventType = "execute_started"
	ExecuteChunkCompleted        EventType = "execute_chunk_completed"
	RenderCompleted              EventType = "render_completed"
	JobFailed                    EventType = "job_failed"
	GenerationStarted            EventType = "generation_started"
	ContributionReceived         EventType = "contribution_received"
	ContributionGenerationFailed EventType = "contribution_generation_failed"
	GenerationComplete           EventType = "generation_complete"
	GenerationFailed             EventType = "generation_failed"
)

// Event is the payload contract for notification dispatch.
type Event struct {
	Type        EventType `json:"type"`
	SessionID   string    `json:"sessionId"`
	StageSlug   string    `json:"stageSlug"`
	JobID       string    `json:"job_id,omitempty"`
	StepKey     string    `json:"step_key,omitempty"`
	DocumentKey string    `json:"document_key,omitempty"`
	ModelID     string    `json:"modelId,omitempty"`
	Iteration   int       `json:"iterationNumber"`
	Error       string    `json:"error,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Emitter dispatches events. Implementations must not block the caller
// and must swallow their own failures.
type Emitter interface {
	Emit(ctx context.Context, ev Event)
}

// NopEmitter discards all events.
type NopEmitter struct{}

func (NopEmitter) Emit(ctx context.Context, ev Event) {}
