package generator

import (
	"context"

	"github.com/rgauld/dialectic/internal/ai"
	"github.com/rgauld/dialectic/internal/artifact"
	"github.com/rgauld/dialectic/internal/domain/contribution"
	"github.com/rgauld/dialectic/internal/domain/job"
	"github.com/rgauld/dialectic/internal/domain/project"
	"github.com/rgauld/dialectic/internal/domain/session"
	"github.com/rgauld/dialectic/internal/domain/stage"
)

// SessionStore provides session reads and the terminal status update.
type SessionStore interface {
	Get(ctx context.Context, id string) (*session.Session, error)
	UpdateStatus(ctx context.Context, id string, status session.Status) error
}

// ProjectStore provides project reads.
type ProjectStore interface {
	Get(ctx context.Context, id string) (*project.Project, error)
}

// StageStore provides stage reads.
type StageStore interface {
	GetBySlug(ctx context.Context, slug string) (*stage.Stage, error)
}

// ModelConfigStore provides AI provider configuration reads.
type ModelConfigStore interface {
	Get(ctx context.Context, id string) (*ai.ModelConfig, error)
}

// JobStore tracks generation jobs for the round.
type JobStore interface {
	Create(ctx context.Context, j *job.GenerationJob) error
	UpdateStatus(ctx context.Context, id string, status job.JobStatus) error
}

// Registrar uploads and registers a successful contribution artifact.
type Registrar interface {
	Register(ctx context.Context, pc artifact.PathContext, md artifact.Metadata, content []byte) (*contribution.Contribution, error)
}
