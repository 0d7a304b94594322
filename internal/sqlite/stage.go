package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rgauld/dialectic/internal/domain/stage"
	"github.com/rgauld/dialectic/internal/repository"
)

// StageRepository implements repository.StageRepository for SQLite
type StageRepository struct {
	db *DB
}

// NewStageRepository creates a new StageRepository
func NewStageRepository(db *DB) *StageRepository {
	return &StageRepository{db: db}
}

// Create inserts a stage and its ordered input rules
func (r *StageRepository) Create(ctx context.Context, stg *stage.Stage) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO stages (id, slug, display_name, step_key) VALUES (?, ?, ?, ?)`,
		stg.ID, stg.Slug, stg.DisplayName, stg.RecipeStep.StepKey,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrInvalidInput
		}
		return fmt.Errorf("failed to create stage: %w", err)
	}

	for i, rule := range stg.RecipeStep.InputRules {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO input_rules (
				stage_id, position, type, source_stage_slug,
				document_key, required, multiple, section_header
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			stg.ID, i, string(rule.Type), rule.StageSlug,
			rule.DocumentKey, rule.Required, rule.Multiple, rule.SectionHeader,
		)
		if err != nil {
			return fmt.Errorf("failed to create input rule %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// GetBySlug retrieves a stage and its recipe step by slug
func (r *StageRepository) GetBySlug(ctx context.Context, slug string) (*stage.Stage, error) {
	var stg stage.Stage
	err := r.db.QueryRowContext(ctx,
		`SELECT id, slug, display_name, step_key FROM stages WHERE slug = ?`,
		slug,
	).Scan(&stg.ID, &stg.Slug, &stg.DisplayName, &stg.RecipeStep.StepKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stage: %w", err)
	}
	stg.RecipeStep.ID = stg.ID

	rows, err := r.db.QueryContext(ctx, `
		SELECT type, source_stage_slug, document_key, required, multiple, section_header
		FROM input_rules
		WHERE stage_id = ?
		ORDER BY position
	`, stg.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get input rules: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rule stage.InputRule
		var ruleType string
		var documentKey, sectionHeader sql.NullString
		if err := rows.Scan(&ruleType, &rule.StageSlug, &documentKey, &rule.Required, &rule.Multiple, &sectionHeader); err != nil {
			return nil, fmt.Errorf("failed to scan input rule: %w", err)
		}
		rule.Type = stage.RuleType(ruleType)
		if documentKey.Valid {
			rule.DocumentKey = &documentKey.String
		}
		if sectionHeader.Valid {
			rule.SectionHeader = &sectionHeader.String
		}
		stg.RecipeStep.InputRules = append(stg.RecipeStep.InputRules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input rules: %w", err)
	}
	return &stg, nil
}

// DisplayNames resolves stage slugs to display names in one query
func (r *StageRepository) DisplayNames(ctx context.Context, slugs []string) (map[string]string, error) {
	names := make(map[string]string, len(slugs))
	if len(slugs) == 0 {
		return names, nil
	}

	placeholders := strings.Repeat("?,", len(slugs))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(slugs))
	for i, slug := range slugs {
		args[i] = slug
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT slug, display_name FROM stages WHERE slug IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve display names: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var slug, name string
		if err := rows.Scan(&slug, &name); err != nil {
			return nil, fmt.Errorf("failed to scan display name: %w", err)
		}
		names[slug] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read display names: %w", err)
	}
	return names, nil
}
