package repository

import (
	"context"

	"github.com/rgauld/dialectic/internal/ai"
	"github.com/rgauld/dialectic/internal/domain/contribution"
	"github.com/rgauld/dialectic/internal/domain/document"
	"github.com/rgauld/dialectic/internal/domain/feedback"
	"github.com/rgauld/dialectic/internal/domain/job"
	"github.com/rgauld/dialectic/internal/domain/project"
	"github.com/rgauld/dialectic/internal/domain/session"
	"github.com/rgauld/dialectic/internal/domain/stage"
)

// ProjectRepository manages project persistence
type ProjectRepository interface {
	Create(ctx context.Context, proj *project.Project) error
	Get(ctx context.Context, id string) (*project.Project, error)
}

// SessionRepository manages session persistence
type SessionRepository interface {
	Create(ctx context.Context, sess *session.Session) error
	Get(ctx context.Context, id string) (*session.Session, error)
	UpdateStatus(ctx context.Context, id string, status session.Status) error
}

// StageRepository manages the stage catalog, including recipe steps
type StageRepository interface {
	Create(ctx context.Context, stg *stage.Stage) error
	GetBySlug(ctx context.Context, slug string) (*stage.Stage, error)
	DisplayNames(ctx context.Context, slugs []string) (map[string]string, error)
}

// ResourceQuery scopes a rendered-document resource lookup
type ResourceQuery struct {
	SessionID   string
	Iteration   int
	StageSlug   string
	DocumentKey *string
}

// ResourceScope scopes a rendered-document resource listing
type ResourceScope struct {
	SessionID string
	Iteration int
	StageSlug string
}

// ResourceRepository manages rendered-document resources
type ResourceRepository interface {
	Create(ctx context.Context, res *document.Resource) error
	FindRendered(ctx context.Context, q ResourceQuery) (*document.Resource, error)
	ListRendered(ctx context.Context, scope ResourceScope) ([]document.Resource, error)
}

// ContributionQuery scopes a raw contribution lookup
type ContributionQuery struct {
	SessionID   string
	Iteration   int
	StageSlug   string
	DocumentKey *string
}

// ContributionRepository manages raw contributions
type ContributionRepository interface {
	Create(ctx context.Context, c *contribution.Contribution) error
	FindLatest(ctx context.Context, q ContributionQuery) (*contribution.Contribution, error)
	ListLatest(ctx context.Context, q ContributionQuery) ([]contribution.Contribution, error)
}

// FeedbackQuery scopes a feedback record lookup
type FeedbackQuery struct {
	SessionID string
	StageSlug string
	Iteration int
	UserID    string
}

// FeedbackRepository manages user feedback records
type FeedbackRepository interface {
	Create(ctx context.Context, rec *feedback.Record) error
	Find(ctx context.Context, q FeedbackQuery) (*feedback.Record, error)
}

// JobQuery scopes a generation job listing. UserID and ProjectID are
// enforced as narrowing filters, not advisory hints.
type JobQuery struct {
	SessionID string
	ProjectID string
	UserID    string
	StageSlug string
	Iteration int
}

// JobRepository manages generation jobs
type JobRepository interface {
	Create(ctx context.Context, j *job.GenerationJob) error
	UpdateStatus(ctx context.Context, id string, status job.JobStatus) error
	ListForStage(ctx context.Context, q JobQuery) ([]job.GenerationJob, error)
}

// ModelConfigRepository manages AI provider configurations
type ModelConfigRepository interface {
	Create(ctx context.Context, cfg *ai.ModelConfig) error
	Get(ctx context.Context, id string) (*ai.ModelConfig, error)
}
