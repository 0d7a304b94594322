// Package testserver wires a full HTTP MCP server over in-memory SQLite
// and a temp-dir file store for functional tests.
package testserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/rgauld/dialectic/internal/ai"
	"github.com/rgauld/dialectic/internal/artifact"
	"github.com/rgauld/dialectic/internal/domain/doclister"
	"github.com/rgauld/dialectic/internal/domain/generator"
	"github.com/rgauld/dialectic/internal/domain/resolver"
	"github.com/rgauld/dialectic/internal/domain/stage"
	"github.com/rgauld/dialectic/internal/mcp"
	"github.com/rgauld/dialectic/internal/notify"
	"github.com/rgauld/dialectic/internal/sqlite"
	"github.com/rgauld/dialectic/internal/storage"
)

// Bucket is the storage bucket every test server writes artifacts into.
const Bucket = "dialectic"

type TestServer struct {
	Server *httptest.Server
	DB     *sqlite.DB
	Store  *storage.FileStore
	Token  string
	UserID string

	Projects      *sqlite.ProjectRepository
	Sessions      *sqlite.SessionRepository
	Stages        *sqlite.StageRepository
	Models        *sqlite.ModelConfigRepository
	Resources     *sqlite.ResourceRepository
	Contributions *sqlite.ContributionRepository
	Feedback      *sqlite.FeedbackRepository
	Keys          *sqlite.APIKeyRepository
}

func New(t *testing.T, token, userID string) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	projectRepo := sqlite.NewProjectRepository(db)
	sessionRepo := sqlite.NewSessionRepository(db)
	stageRepo := sqlite.NewStageRepository(db)
	resourceRepo := sqlite.NewResourceRepository(db)
	contributionRepo := sqlite.NewContributionRepository(db)
	feedbackRepo := sqlite.NewFeedbackRepository(db)
	jobRepo := sqlite.NewJobRepository(db)
	modelRepo := sqlite.NewModelConfigRepository(db)
	eventRepo := sqlite.NewEventRepository(db)
	keyRepo := sqlite.NewAPIKeyRepository(db)

	notifier := notify.NewSinkEmitter(eventRepo, nil)
	registrar := artifact.NewRegistrar(store, contributionRepo, Bucket, nil)

	stageSvc := stage.NewService(stageRepo, nil)
	resolverSvc := resolver.NewService(resourceRepo, feedbackRepo, contributionRepo, stageRepo, store, nil)
	generatorSvc := generator.NewService(sessionRepo, projectRepo, stageRepo, modelRepo, jobRepo,
		ai.StubInvoker{}, registrar, store, notifier, nil, 0)
	doclisterSvc := doclister.NewService(jobRepo, resourceRepo, nil)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Resolver:  resolverSvc,
			Generator: generatorSvc,
			Documents: doclisterSvc,
			Stages:    stageSvc,
			Sessions:  sessionRepo,
			Projects:  projectRepo,
		},
		Resolver:      keyRepo,
		AuthEnabled:   true,
		TransportMode: "http",
	})

	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: time.Minute,
		},
	)
	router := http.NewServeMux()
	router.Handle("/mcp", mcpHandler)
	router.Handle("/mcp/", mcpHandler)
	server := httptest.NewServer(router)

	ts := &TestServer{
		Server: server,
		DB:     db,
		Store:  store,
		Token:  token,
		UserID: userID,

		Projects:      projectRepo,
		Sessions:      sessionRepo,
		Stages:        stageRepo,
		Models:        modelRepo,
		Resources:     resourceRepo,
		Contributions: contributionRepo,
		Feedback:      feedbackRepo,
		Keys:          keyRepo,
	}

	require.NoError(t, keyRepo.Insert(context.Background(), token, userID))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}
