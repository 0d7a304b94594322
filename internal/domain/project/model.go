package project

import "time"

// Project is the owning container for pipeline sessions. Immutable after
// creation except for metadata.
type Project struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	Name              string    `json:"name"`
	Domain            string    `json:"domain"`
	ProcessTemplateID string    `json:"process_template_id"`
	CreatedAt         time.Time `json:"created_at"`
}
