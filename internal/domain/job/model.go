package job

import "time"

// JobStatus is the lifecycle status of a generation job.
type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Payload describes the unit of work a generation job tracks. Jobs without
// a document key are planner or orchestration jobs rather than
// document-producing jobs.
type Payload struct {
	StageSlug            string  `json:"stage_slug"`
	Iteration            int     `json:"iteration"`
	StepKey              string  `json:"step_key,omitempty"`
	DocumentKey          *string `json:"document_key,omitempty"`
	ModelID              string  `json:"model_id,omitempty"`
	SourceContributionID *string `json:"source_contribution_id,omitempty"`
}

// GenerationJob correlates a model/document pair to its lifecycle status
// within a generation round.
type GenerationJob struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	ProjectID string    `json:"project_id"`
	UserID    string    `json:"user_id"`
	Status    JobStatus `json:"status"`
	Payload   Payload   `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}
