package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rgauld/dialectic/internal/domain/job"
	"github.com/rgauld/dialectic/internal/repository"
)

// JobRepository implements repository.JobRepository for SQLite
type JobRepository struct {
	db *DB
}

// NewJobRepository creates a new JobRepository
func NewJobRepository(db *DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create inserts a generation job
func (r *JobRepository) Create(ctx context.Context, j *job.GenerationJob) error {
	payload, err := json.Marshal(j.Payload)
	if err != nil {
		return fmt.Errorf("failed to encode job payload: %w", err)
	}

	query := `
		INSERT INTO generation_jobs (id, session_id, project_id, user_id, status, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		j.ID,
		j.SessionID,
		j.ProjectID,
		j.UserID,
		j.Status,
		string(payload),
		j.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

// UpdateStatus sets a job's lifecycle status
func (r *JobRepository) UpdateStatus(ctx context.Context, id string, status job.JobStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE generation_jobs SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListForStage retrieves jobs scoped to session, project, user, stage and
// iteration. The stage and iteration filters apply to the job payload;
// user and project narrow the result set as a security boundary.
func (r *JobRepository) ListForStage(ctx context.Context, q repository.JobQuery) ([]job.GenerationJob, error) {
	query := `
		SELECT id, session_id, project_id, user_id, status, payload, created_at
		FROM generation_jobs
		WHERE session_id = ? AND project_id = ? AND user_id = ?
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, q.SessionID, q.ProjectID, q.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var out []job.GenerationJob
	for rows.Next() {
		var j job.GenerationJob
		var payload string
		if err := rows.Scan(&j.ID, &j.SessionID, &j.ProjectID, &j.UserID, &j.Status, &payload, &j.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &j.Payload); err != nil {
			return nil, fmt.Errorf("failed to decode job payload: %w", err)
		}
		if j.Payload.StageSlug != q.StageSlug || j.Payload.Iteration != q.Iteration {
			continue
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read jobs: %w", err)
	}
	return out, nil
}
