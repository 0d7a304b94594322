package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rgauld/dialectic/internal/ai"
	"github.com/rgauld/dialectic/internal/artifact"
	"github.com/rgauld/dialectic/internal/domain/contribution"
	"github.com/rgauld/dialectic/internal/domain/document"
	"github.com/rgauld/dialectic/internal/domain/feedback"
	"github.com/rgauld/dialectic/internal/domain/job"
	"github.com/rgauld/dialectic/internal/domain/project"
	"github.com/rgauld/dialectic/internal/domain/session"
	"github.com/rgauld/dialectic/internal/domain/stage"
	"github.com/rgauld/dialectic/internal/repository"
)

// ProjectRepository is a mock for repository.ProjectRepository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

// SessionRepository is a mock for repository.SessionRepository.
type SessionRepository struct {
	mock.Mock
}

func (m *SessionRepository) Create(ctx context.Context, sess *session.Session) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

func (m *SessionRepository) Get(ctx context.Context, id string) (*session.Session, error) {
	args := m.Called(ctx, id)
	if sess, ok := args.Get(0).(*session.Session); ok {
		return sess, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepository) UpdateStatus(ctx context.Context, id string, status session.Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// StageRepository is a mock for repository.StageRepository.
type StageRepository struct {
	mock.Mock
}

func (m *StageRepository) Create(ctx context.Context, stg *stage.Stage) error {
	args := m.Called(ctx, stg)
	return args.Error(0)
}

func (m *StageRepository) GetBySlug(ctx context.Context, slug string) (*stage.Stage, error) {
	args := m.Called(ctx, slug)
	if stg, ok := args.Get(0).(*stage.Stage); ok {
		return stg, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StageRepository) DisplayNames(ctx context.Context, slugs []string) (map[string]string, error) {
	args := m.Called(ctx, slugs)
	if names, ok := args.Get(0).(map[string]string); ok {
		return names, args.Error(1)
	}
	return nil, args.Error(1)
}

// ResourceRepository is a mock for repository.ResourceRepository.
type ResourceRepository struct {
	mock.Mock
}

func (m *ResourceRepository) Create(ctx context.Context, res *document.Resource) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}

func (m *ResourceRepository) FindRendered(ctx context.Context, q repository.ResourceQuery) (*document.Resource, error) {
	args := m.Called(ctx, q)
	if res, ok := args.Get(0).(*document.Resource); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ResourceRepository) ListRendered(ctx context.Context, scope repository.ResourceScope) ([]document.Resource, error) {
	args := m.Called(ctx, scope)
	if list, ok := args.Get(0).([]document.Resource); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ContributionRepository is a mock for repository.ContributionRepository.
type ContributionRepository struct {
	mock.Mock
}

func (m *ContributionRepository) Create(ctx context.Context, c *contribution.Contribution) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *ContributionRepository) FindLatest(ctx context.Context, q repository.ContributionQuery) (*contribution.Contribution, error) {
	args := m.Called(ctx, q)
	if c, ok := args.Get(0).(*contribution.Contribution); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ContributionRepository) ListLatest(ctx context.Context, q repository.ContributionQuery) ([]contribution.Contribution, error) {
	args := m.Called(ctx, q)
	if list, ok := args.Get(0).([]contribution.Contribution); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// FeedbackRepository is a mock for repository.FeedbackRepository.
type FeedbackRepository struct {
	mock.Mock
}

func (m *FeedbackRepository) Create(ctx context.Context, rec *feedback.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *FeedbackRepository) Find(ctx context.Context, q repository.FeedbackQuery) (*feedback.Record, error) {
	args := m.Called(ctx, q)
	if rec, ok := args.Get(0).(*feedback.Record); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

// JobRepository is a mock for repository.JobRepository.
type JobRepository struct {
	mock.Mock
}

func (m *JobRepository) Create(ctx context.Context, j *job.GenerationJob) error {
	args := m.Called(ctx, j)
	return args.Error(0)
}

func (m *JobRepository) UpdateStatus(ctx context.Context, id string, status job.JobStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *JobRepository) ListForStage(ctx context.Context, q repository.JobQuery) ([]job.GenerationJob, error) {
	args := m.Called(ctx, q)
	if list, ok := args.Get(0).([]job.GenerationJob); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ModelConfigRepository is a mock for repository.ModelConfigRepository.
type ModelConfigRepository struct {
	mock.Mock
}

func (m *ModelConfigRepository) Create(ctx context.Context, cfg *ai.ModelConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

func (m *ModelConfigRepository) Get(ctx context.Context, id string) (*ai.ModelConfig, error) {
	args := m.Called(ctx, id)
	if cfg, ok := args.Get(0).(*ai.ModelConfig); ok {
		return cfg, args.Error(1)
	}
	return nil, args.Error(1)
}

// Downloader is a mock for storage.Downloader.
type Downloader struct {
	mock.Mock
}

func (m *Downloader) Download(ctx context.Context, bucket, path string) ([]byte, error) {
	args := m.Called(ctx, bucket, path)
	if data, ok := args.Get(0).([]byte); ok {
		return data, args.Error(1)
	}
	return nil, args.Error(1)
}

// Uploader is a mock for storage.Uploader.
type Uploader struct {
	mock.Mock
}

func (m *Uploader) Upload(ctx context.Context, bucket, path string, content []byte) error {
	args := m.Called(ctx, bucket, path, content)
	return args.Error(0)
}

// Invoker is a mock for ai.Invoker.
type Invoker struct {
	mock.Mock
}

func (m *Invoker) Invoke(ctx context.Context, cfg ai.ModelConfig, messages []ai.Message, opts ai.Options) (*ai.Response, error) {
	args := m.Called(ctx, cfg, messages, opts)
	if resp, ok := args.Get(0).(*ai.Response); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

// Registrar is a mock for the generator's contribution registrar.
type Registrar struct {
	mock.Mock
}

func (m *Registrar) Register(ctx context.Context, pc artifact.PathContext, md artifact.Metadata, content []byte) (*contribution.Contribution, error) {
	args := m.Called(ctx, pc, md, content)
	if rec, ok := args.Get(0).(*contribution.Contribution); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}
