package mcp

import (
	"context"
	"errors"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rgauld/dialectic/internal/domain/contribution"
	"github.com/rgauld/dialectic/internal/domain/doclister"
	"github.com/rgauld/dialectic/internal/domain/generator"
	"github.com/rgauld/dialectic/internal/domain/resolver"
)

// GenerateContributionsInput is the input schema for generate_contributions.
type GenerateContributionsInput struct {
	SessionID        string  `json:"session_id" jsonschema:"the session to generate contributions for"`
	StageSlug        string  `json:"stage_slug" jsonschema:"the pipeline stage to generate for"`
	Iteration        int     `json:"iteration" jsonschema:"the iteration number within the stage"`
	DocumentKey      *string `json:"document_key,omitempty" jsonschema:"optional document key when the stage renders multiple documents"`
	SeedPromptBucket string  `json:"seed_prompt_bucket" jsonschema:"storage bucket holding the assembled seed prompt"`
	SeedPromptPath   string  `json:"seed_prompt_path" jsonschema:"storage path of the assembled seed prompt"`
}

// ContributionOutput is one successful model contribution.
type ContributionOutput struct {
	ID          string  `json:"id"`
	ModelID     string  `json:"model_id"`
	ModelName   string  `json:"model_name"`
	DocumentKey *string `json:"document_key,omitempty"`
	FileName    string  `json:"file_name"`
	Bucket      string  `json:"bucket"`
	Path        string  `json:"path"`
	SizeBytes   int64   `json:"size_bytes"`
	TokensUsed  int     `json:"tokens_used"`
	LatencyMs   int64   `json:"latency_ms"`
}

// GenerateContributionsOutput is the output schema for generate_contributions.
// A round where every model failed reports Error instead of returning a
// bare protocol error so callers can render the per-model details.
type GenerateContributionsOutput struct {
	Status        string                       `json:"status"`
	Contributions []ContributionOutput         `json:"contributions"`
	FailedModels  []contribution.FailedAttempt `json:"failed_models,omitempty"`
	Error         *APIError                    `json:"error,omitempty"`
}

// ListStageDocumentsInput is the input schema for list_stage_documents.
type ListStageDocumentsInput struct {
	SessionID string `json:"session_id" jsonschema:"the session to list documents for"`
	ProjectID string `json:"project_id" jsonschema:"the project owning the session"`
	StageSlug string `json:"stage_slug" jsonschema:"the pipeline stage to list documents for"`
	Iteration int    `json:"iteration" jsonschema:"the iteration number within the stage"`
}

// StageDocumentOutput is one renderable document slot for a stage.
type StageDocumentOutput struct {
	DocumentKey            string  `json:"document_key"`
	ModelID                string  `json:"model_id,omitempty"`
	LastRenderedResourceID *string `json:"last_rendered_resource_id"`
}

// ListStageDocumentsOutput is the output schema for list_stage_documents.
type ListStageDocumentsOutput struct {
	Documents []StageDocumentOutput `json:"documents"`
}

// ResolveStageInputsInput is the input schema for resolve_stage_inputs.
type ResolveStageInputsInput struct {
	SessionID string `json:"session_id" jsonschema:"the session whose inputs to resolve"`
	StageSlug string `json:"stage_slug" jsonschema:"the pipeline stage whose recipe inputs to gather"`
	Iteration *int   `json:"iteration,omitempty" jsonschema:"iteration to resolve against (defaults to the session's current iteration)"`
}

// SourceDocumentOutput is one gathered input document.
type SourceDocumentOutput struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Content     string  `json:"content"`
	Header      *string `json:"header,omitempty"`
	DisplayName string  `json:"display_name,omitempty"`
	ModelName   string  `json:"model_name,omitempty"`
}

// ResolveStageInputsOutput is the output schema for resolve_stage_inputs.
type ResolveStageInputsOutput struct {
	StepKey   string                 `json:"step_key"`
	Documents []SourceDocumentOutput `json:"documents"`
}

// GetSessionInput is the input schema for get_session.
type GetSessionInput struct {
	SessionID string `json:"session_id" jsonschema:"the session to fetch"`
}

// GetSessionOutput is the output schema for get_session.
type GetSessionOutput struct {
	ID               string   `json:"id"`
	ProjectID        string   `json:"project_id"`
	SelectedModelIDs []string `json:"selected_model_ids"`
	CurrentStageID   string   `json:"current_stage_id"`
	Iteration        int      `json:"iteration"`
	Status           string   `json:"status"`
}

// GetProjectInput is the input schema for get_project.
type GetProjectInput struct {
	ProjectID string `json:"project_id" jsonschema:"the project to fetch"`
}

// GetProjectOutput is the output schema for get_project.
type GetProjectOutput struct {
	ID                string `json:"id"`
	UserID            string `json:"user_id"`
	Name              string `json:"name"`
	Domain            string `json:"domain"`
	ProcessTemplateID string `json:"process_template_id"`
}

type toolHandlers struct {
	services Services
}

// registerTools registers all tool handlers with the MCP server.
func registerTools(server *sdkmcp.Server, services Services) {
	h := &toolHandlers{services: services}

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "generate_contributions",
		Description: "Fan a stage's seed prompt out to the session's selected models and persist each successful contribution",
	}, h.handleGenerateContributions)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_stage_documents",
		Description: "List the renderable document slots for a stage iteration, correlated with their latest rendered resources",
	}, h.handleListStageDocuments)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "resolve_stage_inputs",
		Description: "Gather the input documents a stage's recipe step requires, in rule declaration order",
	}, h.handleResolveStageInputs)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_session",
		Description: "Fetch a generation session by ID",
	}, h.handleGetSession)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Fetch a project by ID",
	}, h.handleGetProject)
}

func (h *toolHandlers) handleGenerateContributions(
	ctx context.Context,
	_ *sdkmcp.CallToolRequest,
	input GenerateContributionsInput,
) (*sdkmcp.CallToolResult, GenerateContributionsOutput, error) {
	result, err := h.services.Generator.Generate(ctx, generator.GenerateRequest{
		SessionID:        input.SessionID,
		StageSlug:        input.StageSlug,
		Iteration:        input.Iteration,
		DocumentKey:      input.DocumentKey,
		SeedPromptBucket: input.SeedPromptBucket,
		SeedPromptPath:   input.SeedPromptPath,
	})
	if err != nil {
		var genErr *generator.GenerationError
		if errors.As(err, &genErr) {
			return nil, GenerateContributionsOutput{
				Status:        "failed",
				Contributions: []ContributionOutput{},
				FailedModels:  genErr.Details,
				Error:         &APIError{Code: genErr.Code, Message: genErr.Message},
			}, nil
		}
		return nil, GenerateContributionsOutput{}, toolError(err)
	}

	out := GenerateContributionsOutput{
		Status:        string(result.Status),
		Contributions: make([]ContributionOutput, len(result.Contributions)),
	}
	for i := range result.Contributions {
		out.Contributions[i] = contributionOutput(&result.Contributions[i])
	}
	return nil, out, nil
}

func (h *toolHandlers) handleListStageDocuments(
	ctx context.Context,
	_ *sdkmcp.CallToolRequest,
	input ListStageDocumentsInput,
) (*sdkmcp.CallToolResult, ListStageDocumentsOutput, error) {
	result, err := h.services.Documents.List(ctx, doclister.ListRequest{
		SessionID: input.SessionID,
		ProjectID: input.ProjectID,
		UserID:    getUserID(ctx),
		StageSlug: input.StageSlug,
		Iteration: input.Iteration,
	})
	if err != nil {
		return nil, ListStageDocumentsOutput{}, toolError(err)
	}

	out := ListStageDocumentsOutput{Documents: make([]StageDocumentOutput, len(result.Documents))}
	for i, doc := range result.Documents {
		out.Documents[i] = StageDocumentOutput{
			DocumentKey:            doc.DocumentKey,
			ModelID:                doc.ModelID,
			LastRenderedResourceID: doc.LastRenderedResourceID,
		}
	}
	return nil, out, nil
}

func (h *toolHandlers) handleResolveStageInputs(
	ctx context.Context,
	_ *sdkmcp.CallToolRequest,
	input ResolveStageInputsInput,
) (*sdkmcp.CallToolResult, ResolveStageInputsOutput, error) {
	sess, err := h.services.Sessions.Get(ctx, input.SessionID)
	if err != nil {
		return nil, ResolveStageInputsOutput{}, toolError(err)
	}
	proj, err := h.services.Projects.Get(ctx, sess.ProjectID)
	if err != nil {
		return nil, ResolveStageInputsOutput{}, toolError(err)
	}
	stg, err := h.services.Stages.Get(ctx, input.StageSlug)
	if err != nil {
		return nil, ResolveStageInputsOutput{}, toolError(err)
	}

	iteration := sess.Iteration
	if input.Iteration != nil {
		iteration = *input.Iteration
	}

	gathered, err := h.services.Resolver.Resolve(ctx, resolver.ResolveRequest{
		Stage:     stg,
		Project:   proj,
		Session:   sess,
		Iteration: iteration,
	})
	if err != nil {
		return nil, ResolveStageInputsOutput{}, toolError(err)
	}

	out := ResolveStageInputsOutput{
		StepKey:   gathered.RecipeStep.StepKey,
		Documents: make([]SourceDocumentOutput, len(gathered.SourceDocuments)),
	}
	for i, doc := range gathered.SourceDocuments {
		out.Documents[i] = SourceDocumentOutput{
			ID:          doc.ID,
			Type:        string(doc.Type),
			Content:     doc.Content,
			Header:      doc.Metadata.Header,
			DisplayName: doc.Metadata.DisplayName,
			ModelName:   doc.Metadata.ModelName,
		}
	}
	return nil, out, nil
}

func (h *toolHandlers) handleGetSession(
	ctx context.Context,
	_ *sdkmcp.CallToolRequest,
	input GetSessionInput,
) (*sdkmcp.CallToolResult, GetSessionOutput, error) {
	sess, err := h.services.Sessions.Get(ctx, input.SessionID)
	if err != nil {
		return nil, GetSessionOutput{}, toolError(err)
	}
	return nil, GetSessionOutput{
		ID:               sess.ID,
		ProjectID:        sess.ProjectID,
		SelectedModelIDs: sess.SelectedModelIDs,
		CurrentStageID:   sess.CurrentStageID,
		Iteration:        sess.Iteration,
		Status:           string(sess.Status),
	}, nil
}

func (h *toolHandlers) handleGetProject(
	ctx context.Context,
	_ *sdkmcp.CallToolRequest,
	input GetProjectInput,
) (*sdkmcp.CallToolResult, GetProjectOutput, error) {
	proj, err := h.services.Projects.Get(ctx, input.ProjectID)
	if err != nil {
		return nil, GetProjectOutput{}, toolError(err)
	}
	return nil, GetProjectOutput{
		ID:                proj.ID,
		UserID:            proj.UserID,
		Name:              proj.Name,
		Domain:            proj.Domain,
		ProcessTemplateID: proj.ProcessTemplateID,
	}, nil
}

func contributionOutput(rec *contribution.Contribution) ContributionOutput {
	return ContributionOutput{
		ID:          rec.ID,
		ModelID:     rec.ModelID,
		ModelName:   rec.ModelName,
		DocumentKey: rec.DocumentKey,
		FileName:    rec.FileName,
		Bucket:      rec.StorageBucket,
		Path:        rec.StoragePath,
		SizeBytes:   rec.SizeBytes,
		TokensUsed:  rec.TokensUsed,
		LatencyMs:   rec.Latency.Milliseconds(),
	}
}

// toolError prefers the mapped APIError so clients see stable codes.
func toolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
