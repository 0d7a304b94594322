package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rgauld/dialectic/internal/ai"
	"github.com/rgauld/dialectic/internal/artifact"
	"github.com/rgauld/dialectic/internal/domain/contribution"
	"github.com/rgauld/dialectic/internal/domain/job"
	"github.com/rgauld/dialectic/internal/domain/session"
	"github.com/rgauld/dialectic/internal/domain/stage"
	"github.com/rgauld/dialectic/internal/notify"
	"github.com/rgauld/dialectic/internal/repository"
	"github.com/rgauld/dialectic/internal/storage"
)

// DefaultModelCallTimeout bounds a single model invocation. The injected
// call boundary may time out sooner; this is the orchestration layer's
// guarantee that a hung call cannot block the round indefinitely.
const DefaultModelCallTimeout = 5 * time.Minute

// Service fans a generation request out across the session's selected
// models and reduces the per-model outcomes into one terminal session
// state.
type Service struct {
	sessions  SessionStore
	projects  ProjectStore
	stages    StageStore
	models    ModelConfigStore
	jobs      JobStore
	invoker   ai.Invoker
	registrar Registrar
	store     storage.Downloader
	notifier  notify.Emitter
	logger    *slog.Logger

	callTimeout time.Duration
}

// NewService creates a new generator service.
func NewService(
	sessions SessionStore,
	projects ProjectStore,
	stages StageStore,
	models ModelConfigStore,
	jobs JobStore,
	invoker ai.Invoker,
	registrar Registrar,
	store storage.Downloader,
	notifier notify.Emitter,
	logger *slog.Logger,
	callTimeout time.Duration,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = notify.NopEmitter{}
	}
	if callTimeout <= 0 {
		callTimeout = DefaultModelCallTimeout
	}
	return &Service{
		sessions:    sessions,
		projects:    projects,
		stages:      stages,
		models:      models,
		jobs:        jobs,
		invoker:     invoker,
		registrar:   registrar,
		store:       store,
		notifier:    notifier,
		logger:      logger,
		callTimeout: callTimeout,
	}
}

// GenerateRequest describes one generation round.
type GenerateRequest struct {
	SessionID   string
	StageSlug   string
	Iteration   int
	DocumentKey *string

	// Seed prompt location; the prompt was assembled and persisted
	// upstream from resolver output.
	SeedPromptBucket string
	SeedPromptPath   string
}

// GenerateResult holds the successful contributions and the terminal
// session status. Failed sibling attempts, when at least one model
// succeeded, are logged rather than returned.
type GenerateResult struct {
	Contributions []contribution.Contribution `json:"contributions"`
	Status        session.Status              `json:"status"`
}

type outcome struct {
	rec  *contribution.Contribution
	fail *contribution.FailedAttempt
}

// Generate runs one fan-out generation round. All per-model failures are
// isolated; only an empty model set, a missing precondition, or failure of
// every model aborts the round.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	sess, err := s.sessions.Get(ctx, req.SessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &GenerationError{Code: CodeSessionNotFound, Status: 404, Message: fmt.Sprintf("session %s not found", req.SessionID)}
	}
	if err != nil {
		return nil, fmt.Errorf("loading session %s: %w", req.SessionID, err)
	}

	if len(sess.SelectedModelIDs) == 0 {
		return nil, &GenerationError{Code: CodeNoModelsSelected, Status: 400, Message: "session has no selected models"}
	}

	proj, err := s.projects.Get(ctx, sess.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("loading project %s: %w", sess.ProjectID, err)
	}
	stg, err := s.stages.GetBySlug(ctx, req.StageSlug)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &GenerationError{Code: CodeStageNotFound, Status: 404, Message: fmt.Sprintf("stage %q not found", req.StageSlug)}
	}
	if err != nil {
		return nil, fmt.Errorf("loading stage %q: %w", req.StageSlug, err)
	}

	prompt, err := s.store.Download(ctx, req.SeedPromptBucket, req.SeedPromptPath)
	if err != nil {
		return nil, &GenerationError{Code: CodeSeedPromptFailed, Status: 500, Message: "failed to download seed prompt", cause: err}
	}

	if err := s.sessions.UpdateStatus(ctx, sess.ID, session.PendingStatus(stg.Slug)); err != nil {
		s.logger.Error("failed to mark session pending", "session_id", sess.ID, "error", err)
	}
	s.notifier.Emit(ctx, notify.Event{
		Type:      notify.GenerationStarted,
		SessionID: sess.ID,
		StageSlug: stg.Slug,
		StepKey:   stg.RecipeStep.StepKey,
		Iteration: req.Iteration,
	})

	jobIDs := s.createJobs(ctx, sess, proj.ID, proj.UserID, stg, req)

	// Fan-out: one task per model, each owning its own result slot until
	// the join. No accumulator is shared across goroutines.
	outcomes := make([]outcome, len(sess.SelectedModelIDs))
	var wg sync.WaitGroup
	for i, modelID := range sess.SelectedModelIDs {
		wg.Add(1)
		go func(i int, modelID, jobID string) {
			defer wg.Done()
			outcomes[i] = s.generateOne(ctx, sess, proj.ID, stg, req, modelID, jobID, prompt)
		}(i, modelID, jobIDs[i])
	}
	wg.Wait()

	var succeeded []contribution.Contribution
	var failed []contribution.FailedAttempt
	for _, o := range outcomes {
		if o.rec != nil {
			succeeded = append(succeeded, *o.rec)
		} else if o.fail != nil {
			failed = append(failed, *o.fail)
		}
	}

	if len(succeeded) == 0 {
		status := session.GenerationFailedStatus(stg.Slug)
		if err := s.sessions.UpdateStatus(ctx, sess.ID, status); err != nil {
			s.logger.Error("failed to mark session failed", "session_id", sess.ID, "error", err)
		}
		s.notifier.Emit(ctx, notify.Event{
			Type:      notify.GenerationFailed,
			SessionID: sess.ID,
			StageSlug: stg.Slug,
			Iteration: req.Iteration,
			Error:     "all models failed",
		})
		return nil, &GenerationError{
			Code:    CodeAllModelsFailed,
			Status:  500,
			Message: "All models failed to generate stage contributions.",
			Details: failed,
		}
	}

	for _, f := range failed {
		s.logger.Warn("model failed during generation round",
			"session_id", sess.ID, "stage", stg.Slug, "model_id", f.ModelID, "code", f.Code, "error", f.Error)
	}

	status := session.GenerationCompleteStatus(stg.Slug)
	if err := s.sessions.UpdateStatus(ctx, sess.ID, status); err != nil {
		return nil, &GenerationError{Code: CodeSessionUpdateFailed, Status: 500, Message: "failed to update session status", cause: err}
	}
	s.notifier.Emit(ctx, notify.Event{
		Type:      notify.GenerationComplete,
		SessionID: sess.ID,
		StageSlug: stg.Slug,
		Iteration: req.Iteration,
	})

	return &GenerateResult{Contributions: succeeded, Status: status}, nil
}

// createJobs records one generation job per selected model. Job tracking
// is best-effort; a failed insert is logged and the round proceeds.
func (s *Service) createJobs(ctx context.Context, sess *session.Session, projectID, userID string, stg *stage.Stage, req GenerateRequest) []string {
	ids := make([]string, len(sess.SelectedModelIDs))
	for i, modelID := range sess.SelectedModelIDs {
		j := &job.GenerationJob{
			ID:        uuid.NewString(),
			SessionID: sess.ID,
			ProjectID: projectID,
			UserID:    userID,
			Status:    job.StatusRunning,
			Payload: job.Payload{
				StageSlug:   stg.Slug,
				Iteration:   req.Iteration,
				StepKey:     stg.RecipeStep.StepKey,
				DocumentKey: req.DocumentKey,
				ModelID:     modelID,
			},
			CreatedAt: time.Now(),
		}
		if err := s.jobs.Create(ctx, j); err != nil {
			s.logger.Error("failed to create generation job", "session_id", sess.ID, "model_id", modelID, "error", err)
		}
		ids[i] = j.ID
	}
	return ids
}

// generateOne runs a single model attempt. Every failure mode is folded
// into a FailedAttempt; nothing here may abort sibling attempts.
func (s *Service) generateOne(ctx context.Context, sess *session.Session, projectID string, stg *stage.Stage, req GenerateRequest, modelID, jobID string, prompt []byte) outcome {
	fail := func(code string, err error) outcome {
		s.jobDone(ctx, jobID, job.StatusFailed)
		s.notifier.Emit(ctx, notify.Event{
			Type:        notify.ContributionGenerationFailed,
			SessionID:   sess.ID,
			StageSlug:   stg.Slug,
			JobID:       jobID,
			DocumentKey: deref(req.DocumentKey),
			ModelID:     modelID,
			Iteration:   req.Iteration,
			Error:       err.Error(),
		})
		return outcome{fail: &contribution.FailedAttempt{ModelID: modelID, Error: err.Error(), Code: code}}
	}

	cfg, err := s.models.Get(ctx, modelID)
	if err != nil {
		return fail(CodeModelConfigMissing, fmt.Errorf("loading model config: %w", err))
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	start := time.Now()
	resp, err := s.invoker.Invoke(callCtx, *cfg, []ai.Message{
		{Role: "user", Content: string(prompt)},
	}, ai.Options{
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	})
	latency := time.Since(start)
	if err != nil {
		// Preserve the provider/transport code verbatim.
		return fail(ai.ErrorCode(err), err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return fail(CodeEmptyResponse, fmt.Errorf("model %s returned no usable content", modelID))
	}

	rec, err := s.registrar.Register(ctx, artifact.PathContext{
		ProjectID: projectID,
		SessionID: sess.ID,
		Iteration: req.Iteration,
		StageSlug: stg.Slug,
	}, artifact.Metadata{
		ModelID:     cfg.ID,
		ModelName:   cfg.DisplayName,
		ModelSlug:   cfg.Slug,
		DocumentKey: req.DocumentKey,
		Attempt:     1,
		MimeType:    "text/markdown",
		TokensUsed:  resp.Usage.TotalTokens,
		Latency:     latency,
	}, []byte(resp.Content))
	if err != nil {
		return fail(CodeRegistrationFailed, err)
	}

	s.jobDone(ctx, jobID, job.StatusCompleted)
	s.notifier.Emit(ctx, notify.Event{
		Type:        notify.ContributionReceived,
		SessionID:   sess.ID,
		StageSlug:   stg.Slug,
		JobID:       jobID,
		DocumentKey: deref(req.DocumentKey),
		ModelID:     modelID,
		Iteration:   req.Iteration,
	})
	return outcome{rec: rec}
}

func (s *Service) jobDone(ctx context.Context, jobID string, status job.JobStatus) {
	if jobID == "" {
		return
	}
	if err := s.jobs.UpdateStatus(ctx, jobID, status); err != nil {
		s.logger.Error("failed to update generation job", "job_id", jobID, "status", status, "error", err)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
