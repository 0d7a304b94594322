package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rgauld/dialectic/internal/domain/feedback"
	"github.com/rgauld/dialectic/internal/repository"
)

// FeedbackRepository implements repository.FeedbackRepository for SQLite
type FeedbackRepository struct {
	db *DB
}

// NewFeedbackRepository creates a new FeedbackRepository
func NewFeedbackRepository(db *DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Create inserts a feedback record
func (r *FeedbackRepository) Create(ctx context.Context, rec *feedback.Record) error {
	query := `
		INSERT INTO feedback (
			id, session_id, stage_slug, iteration, user_id,
			storage_bucket, storage_path, file_name, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.SessionID,
		rec.StageSlug,
		rec.Iteration,
		rec.UserID,
		rec.StorageBucket,
		rec.StoragePath,
		rec.FileName,
		rec.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create feedback: %w", err)
	}
	return nil
}

// Find retrieves the newest feedback record matching the query scope
func (r *FeedbackRepository) Find(ctx context.Context, q repository.FeedbackQuery) (*feedback.Record, error) {
	query := `
		SELECT id, session_id, stage_slug, iteration, user_id,
			storage_bucket, storage_path, file_name, created_at
		FROM feedback
		WHERE session_id = ? AND stage_slug = ? AND iteration = ? AND user_id = ?
		ORDER BY created_at DESC
		LIMIT 1
	`

	var rec feedback.Record
	err := r.db.QueryRowContext(ctx, query, q.SessionID, q.StageSlug, q.Iteration, q.UserID).Scan(
		&rec.ID,
		&rec.SessionID,
		&rec.StageSlug,
		&rec.Iteration,
		&rec.UserID,
		&rec.StorageBucket,
		&rec.StoragePath,
		&rec.FileName,
		&rec.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find feedback: %w", err)
	}
	return &rec, nil
}
