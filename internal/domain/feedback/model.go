package feedback

import "time"

// Record is a user-authored artifact scoped to a session, stage, iteration
// and author.
type Record struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`
	StageSlug string `json:"stage_slug"`
	Iteration int    `json:"iteration"`
	UserID    string `json:"user_id"`

	StorageBucket string    `json:"storage_bucket"`
	StoragePath   string    `json:"storage_path"`
	FileName      string    `json:"file_name"`
	CreatedAt     time.Time `json:"created_at"`
}
