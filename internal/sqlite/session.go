package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rgauld/dialectic/internal/domain/session"
	"github.com/rgauld/dialectic/internal/repository"
)

// SessionRepository implements repository.SessionRepository for SQLite
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create creates a new session
func (r *SessionRepository) Create(ctx context.Context, sess *session.Session) error {
	models, err := json.Marshal(sess.SelectedModelIDs)
	if err != nil {
		return fmt.Errorf("failed to encode selected models: %w", err)
	}

	query := `
		INSERT INTO sessions (
			id, project_id, selected_model_ids, current_stage_id,
			iteration, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		sess.ID,
		sess.ProjectID,
		string(models),
		sess.CurrentStageID,
		sess.Iteration,
		sess.Status,
		sess.CreatedAt,
		sess.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// Get retrieves a session by ID
func (r *SessionRepository) Get(ctx context.Context, id string) (*session.Session, error) {
	query := `
		SELECT id, project_id, selected_model_ids, current_stage_id,
			iteration, status, created_at, updated_at
		FROM sessions
		WHERE id = ?
	`

	var sess session.Session
	var models string
	var currentStage sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sess.ID,
		&sess.ProjectID,
		&models,
		&currentStage,
		&sess.Iteration,
		&sess.Status,
		&sess.CreatedAt,
		&sess.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if currentStage.Valid {
		sess.CurrentStageID = currentStage.String
	}
	if err := json.Unmarshal([]byte(models), &sess.SelectedModelIDs); err != nil {
		return nil, fmt.Errorf("failed to decode selected models: %w", err)
	}
	return &sess, nil
}

// UpdateStatus sets the session lifecycle status
func (r *SessionRepository) UpdateStatus(ctx context.Context, id string, status session.Status) error {
	query := `UPDATE sessions SET status = ?, updated_at = ? WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update session status: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update session status: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}
