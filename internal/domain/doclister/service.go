// Package doclister projects a stage's generation jobs onto their latest
// rendered output for status and UI consumption. Read-only; no writes, no
// downloads.
package doclister

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rgauld/dialectic/internal/domain/document"
	"github.com/rgauld/dialectic/internal/domain/job"
	"github.com/rgauld/dialectic/internal/repository"
)

// JobLister provides generation job reads.
type JobLister interface {
	ListForStage(ctx context.Context, q repository.JobQuery) ([]job.GenerationJob, error)
}

// ResourceLister provides rendered-document resource reads.
type ResourceLister interface {
	ListRendered(ctx context.Context, scope repository.ResourceScope) ([]document.Resource, error)
}

// Service correlates jobs to rendered resources.
type Service struct {
	jobs      JobLister
	resources ResourceLister
	logger    *slog.Logger
}

// NewService creates a new document lister service.
func NewService(jobs JobLister, resources ResourceLister, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{jobs: jobs, resources: resources, logger: logger}
}

// ListRequest scopes one listing. UserID and ProjectID are the security
// boundary: there is no separate authorization layer in front of this
// read path, so both narrow the job query.
type ListRequest struct {
	SessionID string
	ProjectID string
	UserID    string
	StageSlug string
	Iteration int
}

// StageDocumentDescriptor is one job's document projection.
type StageDocumentDescriptor struct {
	DocumentKey            string  `json:"document_key"`
	ModelID                string  `json:"model_id"`
	LastRenderedResourceID *string `json:"last_rendered_resource_id"`
}

// ListResult holds the projected documents. Empty is a valid, non-error
// outcome.
type ListResult struct {
	Documents []StageDocumentDescriptor `json:"documents"`
}

// List returns one descriptor per document-producing generation job in the
// scope, correlating each to its latest rendered resource when one exists.
func (s *Service) List(ctx context.Context, req ListRequest) (*ListResult, error) {
	jobs, err := s.jobs.ListForStage(ctx, repository.JobQuery{
		SessionID: req.SessionID,
		ProjectID: req.ProjectID,
		UserID:    req.UserID,
		StageSlug: req.StageSlug,
		Iteration: req.Iteration,
	})
	if err != nil {
		return nil, fmt.Errorf("listing generation jobs: %w", err)
	}

	// Jobs without a document key are planner/orchestration jobs, not
	// document-producing jobs.
	producing := jobs[:0:0]
	for _, j := range jobs {
		if j.Payload.DocumentKey == nil || *j.Payload.DocumentKey == "" {
			continue
		}
		producing = append(producing, j)
	}
	if len(producing) == 0 {
		return &ListResult{Documents: []StageDocumentDescriptor{}}, nil
	}

	resources, err := s.resources.ListRendered(ctx, repository.ResourceScope{
		SessionID: req.SessionID,
		Iteration: req.Iteration,
		StageSlug: req.StageSlug,
	})
	if err != nil {
		return nil, fmt.Errorf("listing rendered resources: %w", err)
	}

	byContribution := make(map[string]string, len(resources))
	byDocumentKey := make(map[string]string, len(resources))
	for _, res := range resources {
		if res.SourceContributionID != nil && *res.SourceContributionID != "" {
			byContribution[*res.SourceContributionID] = res.ID
		}
		if res.DocumentKey != "" {
			byDocumentKey[res.DocumentKey] = res.ID
		}
	}

	docs := make([]StageDocumentDescriptor, 0, len(producing))
	for _, j := range producing {
		var resourceID *string
		// Prefer the contribution correlation when the job payload itself
		// carries the id; fall back to the document key.
		if j.Payload.SourceContributionID != nil {
			if id, ok := byContribution[*j.Payload.SourceContributionID]; ok {
				resourceID = &id
			}
		}
		if resourceID == nil {
			if id, ok := byDocumentKey[*j.Payload.DocumentKey]; ok {
				resourceID = &id
			}
		}
		docs = append(docs, StageDocumentDescriptor{
			DocumentKey:            *j.Payload.DocumentKey,
			ModelID:                j.Payload.ModelID,
			LastRenderedResourceID: resourceID,
		})
	}
	return &ListResult{Documents: docs}, nil
}
