package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `dialectic runs a recipe-driven, multi-model content generation pipeline: Projects → Sessions → Stages.

Core concepts (keep this mental model small):
- Project: a user's container for one piece of work; points at a process template.
- Session: one run of the process; tracks the selected models, the current stage, and an iteration counter.
- Stage: a step in the process with a recipe step describing which prior documents feed it (input rules).
- Contribution: one model's raw output for a stage iteration, persisted to storage and cataloged.
- Rendered document: the curated document a stage produces from its contributions.

Typical flow:
1) Orient: get_session / get_project to see where the run stands.
2) Gather: resolve_stage_inputs to pull the documents the current stage's recipe requires
   (prior rendered documents, user feedback, or raw contributions, per rule).
3) Generate: generate_contributions fans the assembled seed prompt out to every selected
   model in parallel. One model failing does not abort the round; if at least one model
   succeeds the session advances. Per-model failures come back in failed_models.
4) Render: list_stage_documents to see which document slots exist for the stage iteration
   and which already have a rendered resource.

Transport notes:
- HTTP: authenticate with a bearer token (Authorization header).
- Stdio: local development only; auth is disabled and a default user is assumed.

Docs (progressive disclosure):
- dialectic://docs/index (what to read when)
- dialectic://docs/pipeline (stages, rules, and statuses)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "dialectic://docs/index",
		Name:        "docs_index",
		Title:       "dialectic docs index",
		Description: "Entry point for agent-facing docs: what exists and what to read.",
		Content: `# dialectic: Agent Docs Index

This server favors **progressive disclosure**: orient with cheap lookups and load deeper docs only when needed.

## Quick start

1. ` + "`get_session`" + ` to see the run's current stage, iteration, and status.
2. ` + "`resolve_stage_inputs`" + ` to gather what the stage's recipe requires.
3. ` + "`generate_contributions`" + ` once a seed prompt has been assembled and stored.
4. ` + "`list_stage_documents`" + ` to find document slots and their rendered resources.

## Docs (read on demand)

- ` + "`dialectic://docs/pipeline`" + `: stages, input rules, session statuses, and failure semantics.

## Capabilities & intentional limitations

- Seed prompt assembly happens upstream; ` + "`generate_contributions`" + ` takes a storage
  location, not prompt text.
- A generation round never partially aborts: per-model failures are isolated and reported.
`,
	},
	{
		URI:         "dialectic://docs/pipeline",
		Name:        "docs_pipeline",
		Title:       "Pipeline concepts",
		Description: "Stages, input rules, session statuses, and generation failure semantics.",
		Content: `# Pipeline concepts

## Input rules

Each stage's recipe step declares ordered input rules. Rule types:

- ` + "`document`" + `: a prior stage's rendered document (optionally keyed when the stage
  renders multiple documents). Resolved from the rendered-resource catalog only.
- ` + "`feedback`" + `: the user's feedback on the named stage from the previous iteration.
- ` + "`header_context`" + `: raw model output injected under an explicit section header.
- ` + "`contribution`" + `: a stage's latest-edit raw model contributions.

A rule can be required or optional, single or multiple. A required rule that cannot
be satisfied fails resolution with an error naming the stage and document key; an
optional one degrades to a log entry.

## Session statuses

A generation round moves the session ` + "`pending_<stage>`" + ` →
` + "`<stage>_generation_complete`" + ` (at least one model succeeded) or
` + "`<stage>_generation_failed`" + ` (every model failed). The terminal status is written
exactly once per round.

## Failure semantics

Per-model failures carry a stable code (for example ` + "`MODEL_CONFIG_NOT_FOUND`" + `,
` + "`EMPTY_RESPONSE`" + `, or the provider's own error code) and never abort sibling models.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
