package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rgauld/dialectic/internal/domain/doclister"
	"github.com/rgauld/dialectic/internal/domain/generator"
	"github.com/rgauld/dialectic/internal/domain/project"
	"github.com/rgauld/dialectic/internal/domain/resolver"
	"github.com/rgauld/dialectic/internal/domain/session"
	"github.com/rgauld/dialectic/internal/domain/stage"
)

// ResolverService defines input resolution operations needed by MCP.
type ResolverService interface {
	Resolve(ctx context.Context, req resolver.ResolveRequest) (*resolver.GatheredContext, error)
}

// GeneratorService defines contribution generation operations needed by MCP.
type GeneratorService interface {
	Generate(ctx context.Context, req generator.GenerateRequest) (*generator.GenerateResult, error)
}

// DocumentService defines stage document listing operations needed by MCP.
type DocumentService interface {
	List(ctx context.Context, req doclister.ListRequest) (*doclister.ListResult, error)
}

// StageService defines stage lookup operations needed by MCP.
type StageService interface {
	Get(ctx context.Context, slug string) (*stage.Stage, error)
}

// SessionService defines session lookup operations needed by MCP.
type SessionService interface {
	Get(ctx context.Context, id string) (*session.Session, error)
}

// ProjectService defines project lookup operations needed by MCP.
type ProjectService interface {
	Get(ctx context.Context, id string) (*project.Project, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Resolver  ResolverService
	Generator GeneratorService
	Documents DocumentService
	Stages    StageService
	Sessions  SessionService
	Projects  ProjectService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      UserResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "dialectic",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Stdio mode is local dev only: always disable auth
	if cfg.TransportMode == "stdio" {
		server.AddReceivingMiddleware(noAuthMiddleware("default"))
	} else {
		if cfg.AuthEnabled {
			server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
		} else {
			server.AddReceivingMiddleware(noAuthMiddleware("default"))
		}
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}
