package resolver

import "github.com/rgauld/dialectic/internal/domain/stage"

// Metadata decorates a resolved source document for prompt assembly.
type Metadata struct {
	Header      *string `json:"header,omitempty"`
	DisplayName string  `json:"display_name"`
	ModelName   string  `json:"model_name,omitempty"`
}

// SourceDocument is one fully-hydrated input document. Ephemeral; never
// persisted.
type SourceDocument struct {
	ID       string         `json:"id"`
	Type     stage.RuleType `json:"type"`
	Content  string         `json:"content"`
	Metadata Metadata       `json:"metadata"`
}

// GatheredContext is the resolver output: documents in rule declaration
// order plus the recipe step they satisfy.
type GatheredContext struct {
	SourceDocuments []SourceDocument `json:"source_documents"`
	RecipeStep      stage.RecipeStep `json:"recipe_step"`
}
