package session

import "time"

// Status represents the lifecycle status of a session. Values are
// stage-scoped, e.g. "pending_thesis" or "thesis_generation_complete".
type Status string

// PendingStatus returns the status for a session waiting on generation
// for the given stage.
func PendingStatus(stageSlug string) Status {
	return Status("pending_" + stageSlug)
}

// GenerationCompleteStatus returns the terminal status for a stage whose
// generation round produced at least one contribution.
func GenerationCompleteStatus(stageSlug string) Status {
	return Status(stageSlug + "_generation_complete")
}

// GenerationFailedStatus returns the terminal status for a stage whose
// generation round produced no contributions.
func GenerationFailedStatus(stageSlug string) Status {
	return Status(stageSlug + "_generation_failed")
}

// Session tracks one run of the pipeline over a project.
type Session struct {
	ID               string    `json:"id"`
	ProjectID        string    `json:"project_id"`
	SelectedModelIDs []string  `json:"selected_model_ids"`
	CurrentStageID   string    `json:"current_stage_id"`
	Iteration        int       `json:"iteration"`
	Status           Status    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
