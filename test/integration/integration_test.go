package integration_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rgauld/dialectic/internal/ai"
	"github.com/rgauld/dialectic/internal/artifact"
	"github.com/rgauld/dialectic/internal/domain/doclister"
	"github.com/rgauld/dialectic/internal/domain/feedback"
	"github.com/rgauld/dialectic/internal/domain/generator"
	"github.com/rgauld/dialectic/internal/domain/project"
	"github.com/rgauld/dialectic/internal/domain/resolver"
	"github.com/rgauld/dialectic/internal/domain/session"
	"github.com/rgauld/dialectic/internal/domain/stage"
	"github.com/rgauld/dialectic/internal/notify"
	"github.com/rgauld/dialectic/internal/sqlite"
	"github.com/rgauld/dialectic/internal/storage"
)

const bucket = "dialectic"

type testEnv struct {
	db    *sqlite.DB
	store *storage.FileStore

	projectRepo      *sqlite.ProjectRepository
	sessionRepo      *sqlite.SessionRepository
	stageRepo        *sqlite.StageRepository
	resourceRepo     *sqlite.ResourceRepository
	contributionRepo *sqlite.ContributionRepository
	feedbackRepo     *sqlite.FeedbackRepository
	jobRepo          *sqlite.JobRepository
	modelRepo        *sqlite.ModelConfigRepository
	eventRepo        *sqlite.EventRepository

	resolverSvc  *resolver.Service
	generatorSvc *generator.Service
	doclisterSvc *doclister.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { _ = db.Close() })

	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	env := &testEnv{
		db:               db,
		store:            store,
		projectRepo:      sqlite.NewProjectRepository(db),
		sessionRepo:      sqlite.NewSessionRepository(db),
		stageRepo:        sqlite.NewStageRepository(db),
		resourceRepo:     sqlite.NewResourceRepository(db),
		contributionRepo: sqlite.NewContributionRepository(db),
		feedbackRepo:     sqlite.NewFeedbackRepository(db),
		jobRepo:          sqlite.NewJobRepository(db),
		modelRepo:        sqlite.NewModelConfigRepository(db),
		eventRepo:        sqlite.NewEventRepository(db),
	}

	notifier := notify.NewSinkEmitter(env.eventRepo, nil)
	registrar := artifact.NewRegistrar(store, env.contributionRepo, bucket, nil)

	env.resolverSvc = resolver.NewService(env.resourceRepo, env.feedbackRepo, env.contributionRepo, env.stageRepo, store, nil)
	env.generatorSvc = generator.NewService(env.sessionRepo, env.projectRepo, env.stageRepo, env.modelRepo, env.jobRepo,
		ai.StubInvoker{}, registrar, store, notifier, nil, 0)
	env.doclisterSvc = doclister.NewService(env.jobRepo, env.resourceRepo, nil)

	return env
}

func (env *testEnv) seedProject(t *testing.T, ctx context.Context) *project.Project {
	t.Helper()
	proj := &project.Project{
		ID:        "proj1",
		UserID:    "user1",
		Name:      "Demo",
		Domain:    "software",
		CreatedAt: time.Now(),
	}
	require.NoError(t, env.projectRepo.Create(ctx, proj))
	return proj
}

func (env *testEnv) seedSession(t *testing.T, ctx context.Context, models ...string) *session.Session {
	t.Helper()
	sess := &session.Session{
		ID:               "sess1",
		ProjectID:        "proj1",
		SelectedModelIDs: models,
		Iteration:        1,
		Status:           "pending_thesis",
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	require.NoError(t, env.sessionRepo.Create(ctx, sess))
	return sess
}

func (env *testEnv) seedStage(t *testing.T, ctx context.Context, slug, name string, rules ...stage.InputRule) *stage.Stage {
	t.Helper()
	stg := &stage.Stage{
		ID:          slug + "-id",
		Slug:        slug,
		DisplayName: name,
		RecipeStep: stage.RecipeStep{
			ID:         slug + "-step-id",
			StepKey:    slug + "_step",
			InputRules: rules,
		},
	}
	require.NoError(t, env.stageRepo.Create(ctx, stg))
	return stg
}

func (env *testEnv) seedModel(t *testing.T, ctx context.Context, id, slug string) {
	t.Helper()
	require.NoError(t, env.modelRepo.Create(ctx, &ai.ModelConfig{
		ID:            id,
		Slug:          slug,
		DisplayName:   strings.ToUpper(slug),
		Provider:      "stub",
		APIIdentifier: slug + "-latest",
		MaxTokens:     1024,
		Temperature:   0.7,
	}))
}

func (env *testEnv) uploadSeedPrompt(t *testing.T, ctx context.Context, path, content string) {
	t.Helper()
	require.NoError(t, env.store.Upload(ctx, bucket, path, []byte(content)))
}

func strPtr(s string) *string { return &s }

func TestIntegration_GenerationRound(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	env.seedProject(t, ctx)
	env.seedSession(t, ctx, "m1", "m2")
	env.seedStage(t, ctx, "thesis", "Thesis")
	env.seedModel(t, ctx, "m1", "claude")
	env.seedModel(t, ctx, "m2", "gpt-4")
	env.uploadSeedPrompt(t, ctx, "proj1/sess1/iteration_1/thesis/seed_prompt.md", "Take a position.")

	key := "argument"
	result, err := env.generatorSvc.Generate(ctx, generator.GenerateRequest{
		SessionID:        "sess1",
		StageSlug:        "thesis",
		Iteration:        1,
		DocumentKey:      &key,
		SeedPromptBucket: bucket,
		SeedPromptPath:   "proj1/sess1/iteration_1/thesis/seed_prompt.md",
	})
	require.NoError(t, err)
	require.Len(t, result.Contributions, 2)
	require.Equal(t, session.Status("thesis_generation_complete"), result.Status)

	sess, err := env.sessionRepo.Get(ctx, "sess1")
	require.NoError(t, err)
	require.Equal(t, session.Status("thesis_generation_complete"), sess.Status)

	// Each contribution's artifact must exist in the store at the path the
	// catalog records.
	for _, c := range result.Contributions {
		content, err := env.store.Download(ctx, c.StorageBucket, c.StoragePath)
		require.NoError(t, err)
		require.NotEmpty(t, content)
		require.Equal(t, "argument", *c.DocumentKey)
		require.True(t, c.IsLatestEdit)
	}

	listed, err := env.doclisterSvc.List(ctx, doclister.ListRequest{
		SessionID: "sess1",
		ProjectID: "proj1",
		UserID:    "user1",
		StageSlug: "thesis",
		Iteration: 1,
	})
	require.NoError(t, err)
	require.Len(t, listed.Documents, 2)
	for _, d := range listed.Documents {
		require.Equal(t, "argument", d.DocumentKey)
		require.Nil(t, d.LastRenderedResourceID)
	}

	events, err := env.eventRepo.ListBySession(ctx, "sess1")
	require.NoError(t, err)
	require.Equal(t, notify.GenerationStarted, events[0].Type)
	require.Equal(t, notify.GenerationComplete, events[len(events)-1].Type)
}

func TestIntegration_GenerationFailsWithoutModelConfigs(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	env.seedProject(t, ctx)
	env.seedSession(t, ctx, "missing1", "missing2")
	env.seedStage(t, ctx, "thesis", "Thesis")
	env.uploadSeedPrompt(t, ctx, "seed.md", "Take a position.")

	_, err := env.generatorSvc.Generate(ctx, generator.GenerateRequest{
		SessionID:        "sess1",
		StageSlug:        "thesis",
		Iteration:        1,
		SeedPromptBucket: bucket,
		SeedPromptPath:   "seed.md",
	})
	var genErr *generator.GenerationError
	require.ErrorAs(t, err, &genErr)
	require.Equal(t, generator.CodeAllModelsFailed, genErr.Code)
	require.Len(t, genErr.Details, 2)

	sess, err := env.sessionRepo.Get(ctx, "sess1")
	require.NoError(t, err)
	require.Equal(t, session.Status("thesis_generation_failed"), sess.Status)
}

func TestIntegration_ResolveAcrossStages(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	proj := env.seedProject(t, ctx)
	sess := env.seedSession(t, ctx, "m1")
	env.seedStage(t, ctx, "thesis", "Thesis")
	env.seedModel(t, ctx, "m1", "claude")
	env.uploadSeedPrompt(t, ctx, "proj1/sess1/iteration_1/thesis/seed_prompt.md", "Take a position.")

	key := "argument"
	result, err := env.generatorSvc.Generate(ctx, generator.GenerateRequest{
		SessionID:        "sess1",
		StageSlug:        "thesis",
		Iteration:        1,
		DocumentKey:      &key,
		SeedPromptBucket: bucket,
		SeedPromptPath:   "proj1/sess1/iteration_1/thesis/seed_prompt.md",
	})
	require.NoError(t, err)
	require.Len(t, result.Contributions, 1)

	// The antithesis stage consumes the thesis contribution as raw model
	// output.
	antithesis := env.seedStage(t, ctx, "antithesis", "Antithesis", stage.InputRule{
		Type:          stage.RuleContribution,
		StageSlug:     "thesis",
		DocumentKey:   &key,
		Required:      true,
		SectionHeader: strPtr("Prior Position"),
	})

	gathered, err := env.resolverSvc.Resolve(ctx, resolver.ResolveRequest{
		Stage:     antithesis,
		Project:   proj,
		Session:   sess,
		Iteration: 1,
	})
	require.NoError(t, err)
	require.Len(t, gathered.SourceDocuments, 1)

	doc := gathered.SourceDocuments[0]
	require.Equal(t, result.Contributions[0].ID, doc.ID)
	require.Contains(t, doc.Content, "stub completion")
	require.Equal(t, "Thesis", doc.Metadata.DisplayName)
	require.Equal(t, "claude", doc.Metadata.ModelName)
	require.Equal(t, "Prior Position", *doc.Metadata.Header)
	require.Equal(t, "antithesis_step", gathered.RecipeStep.StepKey)
}

func TestIntegration_ResolveRequiredInputMissing(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	proj := env.seedProject(t, ctx)
	sess := env.seedSession(t, ctx, "m1")
	env.seedStage(t, ctx, "thesis", "Thesis")
	synthesis := env.seedStage(t, ctx, "synthesis", "Synthesis", stage.InputRule{
		Type:      stage.RuleDocument,
		StageSlug: "thesis",
		Required:  true,
	})

	_, err := env.resolverSvc.Resolve(ctx, resolver.ResolveRequest{
		Stage:     synthesis,
		Project:   proj,
		Session:   sess,
		Iteration: 1,
	})
	require.ErrorIs(t, err, resolver.ErrRequiredInputMissing)
	require.Contains(t, err.Error(), "Thesis")
}

func TestIntegration_FeedbackRoundTrip(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	proj := env.seedProject(t, ctx)
	sess := env.seedSession(t, ctx, "m1")
	env.seedStage(t, ctx, "thesis", "Thesis")

	require.NoError(t, env.store.Upload(ctx, bucket, "feedback/fb1.md", []byte("Sharpen the second claim.")))
	require.NoError(t, env.feedbackRepo.Create(ctx, &feedback.Record{
		ID:            "fb1",
		SessionID:     "sess1",
		StageSlug:     "thesis",
		Iteration:     1,
		UserID:        "user1",
		StorageBucket: bucket,
		StoragePath:   "feedback/fb1.md",
		FileName:      "fb1.md",
		CreatedAt:     time.Now(),
	}))

	parenthesis := env.seedStage(t, ctx, "parenthesis", "Parenthesis", stage.InputRule{
		Type:          stage.RuleFeedback,
		StageSlug:     "thesis",
		Required:      true,
		SectionHeader: strPtr("User Feedback"),
	})

	gathered, err := env.resolverSvc.Resolve(ctx, resolver.ResolveRequest{
		Stage:     parenthesis,
		Project:   proj,
		Session:   sess,
		Iteration: 2,
	})
	require.NoError(t, err)
	require.Len(t, gathered.SourceDocuments, 1)
	require.Equal(t, "Sharpen the second claim.", gathered.SourceDocuments[0].Content)
	require.Equal(t, "User Feedback", *gathered.SourceDocuments[0].Metadata.Header)
}
