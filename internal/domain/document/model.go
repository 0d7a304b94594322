package document

import "time"

// TypeRenderedDocument is the resource type for finalized rendered output.
const TypeRenderedDocument = "rendered_document"

// Resource is a persisted, stage-scoped artifact produced once a document
// is finalized for a session, iteration, stage and document key. When a
// resource exists for that scope it is authoritative over any raw
// contribution for the same logical document.
type Resource struct {
	ID           string `json:"id"`
	SessionID    string `json:"session_id"`
	Iteration    int    `json:"iteration"`
	StageSlug    string `json:"stage_slug"`
	DocumentKey  string `json:"document_key"`
	ResourceType string `json:"resource_type"`

	StorageBucket string `json:"storage_bucket"`
	StoragePath   string `json:"storage_path"`
	FileName      string `json:"file_name"`

	// SourceContributionID is a weak back-reference to the raw contribution
	// this resource was rendered from, not an ownership link.
	SourceContributionID *string   `json:"source_contribution_id,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
}

// HasStorageDetails reports whether the resource carries enough location
// data to be downloaded.
func (r *Resource) HasStorageDetails() bool {
	return r.StorageBucket != "" && r.StoragePath != ""
}
