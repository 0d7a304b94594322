package artifact

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rgauld/dialectic/internal/domain/contribution"
	"github.com/rgauld/dialectic/internal/storage"
)

// ContributionWriter persists contribution records to the catalog.
type ContributionWriter interface {
	Create(ctx context.Context, c *contribution.Contribution) error
}

// PathContext identifies where an artifact belongs. The directory path is
// derived from it; the file name is supplied by the caller.
type PathContext struct {
	ProjectID string
	SessionID string
	Iteration int
	StageSlug string
}

// Metadata describes the contribution being registered.
type Metadata struct {
	ModelID     string
	ModelName   string
	ModelSlug   string
	DocumentKey *string
	Attempt     int
	MimeType    string
	TokensUsed  int
	Latency     time.Duration
}

// Registrar uploads artifact content and registers the matching
// contribution record in one facade call.
type Registrar struct {
	store         storage.Uploader
	contributions ContributionWriter
	bucket        string
	logger        *slog.Logger
}

// NewRegistrar creates a Registrar writing into the given bucket.
func NewRegistrar(store storage.Uploader, contributions ContributionWriter, bucket string, logger *slog.Logger) *Registrar {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registrar{
		store:         store,
		contributions: contributions,
		bucket:        bucket,
		logger:        logger,
	}
}

// Register uploads content and inserts the contribution record. The stored
// path is kept verbatim on the record.
func (r *Registrar) Register(ctx context.Context, pc PathContext, md Metadata, content []byte) (*contribution.Contribution, error) {
	kind := "contribution"
	if md.DocumentKey != nil && *md.DocumentKey != "" {
		kind = *md.DocumentKey
	}
	fileName := FileName(md.ModelSlug, md.Attempt, kind, extensionFor(md.MimeType))
	path := fmt.Sprintf("%s/%s/iteration_%d/%s/%s", pc.ProjectID, pc.SessionID, pc.Iteration, pc.StageSlug, fileName)

	if err := r.store.Upload(ctx, r.bucket, path, content); err != nil {
		return nil, fmt.Errorf("uploading artifact %s: %w", path, err)
	}

	rec := &contribution.Contribution{
		ID:            uuid.NewString(),
		SessionID:     pc.SessionID,
		ModelID:       md.ModelID,
		ModelName:     md.ModelName,
		StageSlug:     pc.StageSlug,
		Iteration:     pc.Iteration,
		DocumentKey:   md.DocumentKey,
		EditVersion:   1,
		IsLatestEdit:  true,
		StorageBucket: r.bucket,
		StoragePath:   path,
		FileName:      fileName,
		MimeType:      md.MimeType,
		SizeBytes:     int64(len(content)),
		TokensUsed:    md.TokensUsed,
		Latency:       md.Latency,
		CreatedAt:     time.Now(),
	}
	if err := r.contributions.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("registering contribution for model %s: %w", md.ModelID, err)
	}

	r.logger.Debug("registered artifact", "path", path, "model_id", md.ModelID, "bytes", len(content))
	return rec, nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "text/markdown", "":
		return "md"
	case "application/json":
		return "json"
	case "text/plain":
		return "txt"
	default:
		return "bin"
	}
}
