package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rgauld/dialectic/internal/domain/document"
	"github.com/rgauld/dialectic/internal/repository"
)

// ResourceRepository implements repository.ResourceRepository for SQLite
type ResourceRepository struct {
	db *DB
}

// NewResourceRepository creates a new ResourceRepository
func NewResourceRepository(db *DB) *ResourceRepository {
	return &ResourceRepository{db: db}
}

const resourceColumns = `
	id, session_id, iteration, stage_slug, document_key, resource_type,
	storage_bucket, storage_path, file_name, source_contribution_id, created_at
`

// Create registers a rendered-document resource
func (r *ResourceRepository) Create(ctx context.Context, res *document.Resource) error {
	query := `
		INSERT INTO resources (` + resourceColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		res.ID,
		res.SessionID,
		res.Iteration,
		res.StageSlug,
		res.DocumentKey,
		res.ResourceType,
		res.StorageBucket,
		res.StoragePath,
		res.FileName,
		res.SourceContributionID,
		res.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create resource: %w", err)
	}
	return nil
}

// FindRendered retrieves the newest rendered-document resource matching
// the query scope
func (r *ResourceRepository) FindRendered(ctx context.Context, q repository.ResourceQuery) (*document.Resource, error) {
	query := `
		SELECT ` + resourceColumns + `
		FROM resources
		WHERE resource_type = ? AND session_id = ? AND iteration = ? AND stage_slug = ?
	`
	args := []any{document.TypeRenderedDocument, q.SessionID, q.Iteration, q.StageSlug}
	if q.DocumentKey != nil {
		query += ` AND document_key = ?`
		args = append(args, *q.DocumentKey)
	}
	query += ` ORDER BY created_at DESC LIMIT 1`

	res, err := scanResource(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find rendered resource: %w", err)
	}
	return res, nil
}

// ListRendered retrieves all rendered-document resources in the scope
func (r *ResourceRepository) ListRendered(ctx context.Context, scope repository.ResourceScope) ([]document.Resource, error) {
	query := `
		SELECT ` + resourceColumns + `
		FROM resources
		WHERE resource_type = ? AND session_id = ? AND iteration = ? AND stage_slug = ?
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query,
		document.TypeRenderedDocument, scope.SessionID, scope.Iteration, scope.StageSlug)
	if err != nil {
		return nil, fmt.Errorf("failed to list rendered resources: %w", err)
	}
	defer rows.Close()

	var out []document.Resource
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}
		out = append(out, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read resources: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResource(row rowScanner) (*document.Resource, error) {
	var res document.Resource
	var sourceContribution sql.NullString
	err := row.Scan(
		&res.ID,
		&res.SessionID,
		&res.Iteration,
		&res.StageSlug,
		&res.DocumentKey,
		&res.ResourceType,
		&res.StorageBucket,
		&res.StoragePath,
		&res.FileName,
		&sourceContribution,
		&res.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if sourceContribution.Valid {
		res.SourceContributionID = &sourceContribution.String
	}
	return &res, nil
}
