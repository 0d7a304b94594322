package contribution

import "time"

// Contribution is one model's generated output for an attempt, prior to or
// independent of final rendering.
type Contribution struct {
	ID           string  `json:"id"`
	SessionID    string  `json:"session_id"`
	ModelID      string  `json:"model_id"`
	ModelName    string  `json:"model_name"`
	StageSlug    string  `json:"stage_slug"`
	Iteration    int     `json:"iteration"`
	DocumentKey  *string `json:"document_key,omitempty"`
	EditVersion  int     `json:"edit_version"`
	IsLatestEdit bool    `json:"is_latest_edit"`

	StorageBucket string `json:"storage_bucket"`
	StoragePath   string `json:"storage_path"`
	FileName      string `json:"file_name"`
	MimeType      string `json:"mime_type"`
	SizeBytes     int64  `json:"size_bytes"`

	TokensUsed int           `json:"tokens_used"`
	Latency    time.Duration `json:"latency"`
	CreatedAt  time.Time     `json:"created_at"`
}

// FailedAttempt records one model's failure during a fan-out generation
// round. The code preserves the provider or transport code verbatim.
type FailedAttempt struct {
	ModelID string `json:"modelId"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
