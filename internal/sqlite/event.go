package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rgauld/dialectic/internal/notify"
)

// EventRepository persists pipeline lifecycle events. It implements
// notify.EventSink.
type EventRepository struct {
	db *DB
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

// Append records one event
func (r *EventRepository) Append(ctx context.Context, ev notify.Event) error {
	query := `
		INSERT INTO events (type, session_id, stage_slug, job_id, step_key, document_key, model_id, iteration, error, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	occurred := ev.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now()
	}
	_, err := r.db.ExecContext(ctx, query,
		string(ev.Type),
		ev.SessionID,
		ev.StageSlug,
		ev.JobID,
		ev.StepKey,
		ev.DocumentKey,
		ev.ModelID,
		ev.Iteration,
		ev.Error,
		occurred,
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

// ListBySession retrieves the events recorded for a session, oldest first
func (r *EventRepository) ListBySession(ctx context.Context, sessionID string) ([]notify.Event, error) {
	query := `
		SELECT type, session_id, stage_slug, job_id, step_key, document_key, model_id, iteration, error, occurred_at
		FROM events
		WHERE session_id = ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var out []notify.Event
	for rows.Next() {
		var ev notify.Event
		var evType string
		if err := rows.Scan(&evType, &ev.SessionID, &ev.StageSlug, &ev.JobID, &ev.StepKey, &ev.DocumentKey, &ev.ModelID, &ev.Iteration, &ev.Error, &ev.OccurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		ev.Type = notify.EventType(evType)
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	return out, nil
}
