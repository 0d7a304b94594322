package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rgauld/dialectic/internal/domain/contribution"
	"github.com/rgauld/dialectic/internal/repository"
)

// ContributionRepository implements repository.ContributionRepository for SQLite
type ContributionRepository struct {
	db *DB
}

// NewContributionRepository creates a new ContributionRepository
func NewContributionRepository(db *DB) *ContributionRepository {
	return &ContributionRepository{db: db}
}

const contributionColumns = `
	id, session_id, model_id, model_name, stage_slug, iteration, document_key,
	edit_version, is_latest_edit, storage_bucket, storage_path, file_name,
	mime_type, size_bytes, tokens_used, latency_ms, created_at
`

// Create inserts a contribution record
func (r *ContributionRepository) Create(ctx context.Context, c *contribution.Contribution) error {
	query := `
		INSERT INTO contributions (` + contributionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.SessionID,
		c.ModelID,
		c.ModelName,
		c.StageSlug,
		c.Iteration,
		c.DocumentKey,
		c.EditVersion,
		c.IsLatestEdit,
		c.StorageBucket,
		c.StoragePath,
		c.FileName,
		c.MimeType,
		c.SizeBytes,
		c.TokensUsed,
		c.Latency.Milliseconds(),
		c.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create contribution: %w", err)
	}
	return nil
}

// FindLatest retrieves the latest-edit contribution matching the query.
// The document key matches structurally, or via the filename pattern
// <modelSlug>_<attempt>_<documentKey>.<ext> when the structured key is
// absent on older rows.
func (r *ContributionRepository) FindLatest(ctx context.Context, q repository.ContributionQuery) (*contribution.Contribution, error) {
	query := `
		SELECT ` + contributionColumns + `
		FROM contributions
		WHERE session_id = ? AND iteration = ? AND stage_slug = ? AND is_latest_edit = 1
	`
	args := []any{q.SessionID, q.Iteration, q.StageSlug}
	if q.DocumentKey != nil {
		query += ` AND (document_key = ? OR file_name LIKE '%' || '_' || ? || '.%')`
		args = append(args, *q.DocumentKey, *q.DocumentKey)
	}
	query += ` ORDER BY created_at DESC LIMIT 1`

	c, err := scanContribution(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find contribution: %w", err)
	}
	return c, nil
}

// ListLatest retrieves all latest-edit contributions matching the query
func (r *ContributionRepository) ListLatest(ctx context.Context, q repository.ContributionQuery) ([]contribution.Contribution, error) {
	query := `
		SELECT ` + contributionColumns + `
		FROM contributions
		WHERE session_id = ? AND iteration = ? AND stage_slug = ? AND is_latest_edit = 1
	`
	args := []any{q.SessionID, q.Iteration, q.StageSlug}
	if q.DocumentKey != nil {
		query += ` AND (document_key = ? OR file_name LIKE '%' || '_' || ? || '.%')`
		args = append(args, *q.DocumentKey, *q.DocumentKey)
	}
	query += ` ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributions: %w", err)
	}
	defer rows.Close()

	var out []contribution.Contribution
	for rows.Next() {
		c, err := scanContribution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contribution: %w", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read contributions: %w", err)
	}
	return out, nil
}

func scanContribution(row rowScanner) (*contribution.Contribution, error) {
	var c contribution.Contribution
	var documentKey sql.NullString
	var latencyMS int64
	err := row.Scan(
		&c.ID,
		&c.SessionID,
		&c.ModelID,
		&c.ModelName,
		&c.StageSlug,
		&c.Iteration,
		&documentKey,
		&c.EditVersion,
		&c.IsLatestEdit,
		&c.StorageBucket,
		&c.StoragePath,
		&c.FileName,
		&c.MimeType,
		&c.SizeBytes,
		&c.TokensUsed,
		&latencyMS,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if documentKey.Valid {
		c.DocumentKey = &documentKey.String
	}
	c.Latency = time.Duration(latencyMS) * time.Millisecond
	return &c, nil
}
