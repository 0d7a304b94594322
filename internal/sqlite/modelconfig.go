package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rgauld/dialectic/internal/ai"
	"github.com/rgauld/dialectic/internal/repository"
)

// ModelConfigRepository implements repository.ModelConfigRepository for SQLite
type ModelConfigRepository struct {
	db *DB
}

// NewModelConfigRepository creates a new ModelConfigRepository
func NewModelConfigRepository(db *DB) *ModelConfigRepository {
	return &ModelConfigRepository{db: db}
}

// Create inserts a model provider configuration
func (r *ModelConfigRepository) Create(ctx context.Context, cfg *ai.ModelConfig) error {
	query := `
		INSERT INTO model_configs (id, slug, display_name, provider, api_identifier, base_url, max_tokens, temperature)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		cfg.ID,
		cfg.Slug,
		cfg.DisplayName,
		cfg.Provider,
		cfg.APIIdentifier,
		cfg.BaseURL,
		cfg.MaxTokens,
		cfg.Temperature,
	)
	if err != nil {
		return fmt.Errorf("failed to create model config: %w", err)
	}
	return nil
}

// Get retrieves a model provider configuration by ID
func (r *ModelConfigRepository) Get(ctx context.Context, id string) (*ai.ModelConfig, error) {
	query := `
		SELECT id, slug, display_name, provider, api_identifier, base_url, max_tokens, temperature
		FROM model_configs
		WHERE id = ?
	`

	var cfg ai.ModelConfig
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&cfg.ID,
		&cfg.Slug,
		&cfg.DisplayName,
		&cfg.Provider,
		&cfg.APIIdentifier,
		&cfg.BaseURL,
		&cfg.MaxTokens,
		&cfg.Temperature,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get model config: %w", err)
	}
	return &cfg, nil
}
