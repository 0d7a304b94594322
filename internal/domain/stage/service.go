package stage

import (
	"context"
	"fmt"
	"log/slog"
)

// Directory provides read access to the stage catalog.
type Directory interface {
	GetBySlug(ctx context.Context, slug string) (*Stage, error)
	DisplayNames(ctx context.Context, slugs []string) (map[string]string, error)
}

// Service resolves stage slugs to display metadata.
type Service struct {
	stages Directory
	logger *slog.Logger
}

// NewService creates a new stage service.
func NewService(stages Directory, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{stages: stages, logger: logger}
}

// Get returns the stage for a slug, including its recipe step.
func (s *Service) Get(ctx context.Context, slug string) (*Stage, error) {
	stg, err := s.stages.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("loading stage %q: %w", slug, err)
	}
	return stg, nil
}

// DisplayNames batch-resolves stage slugs to human-readable names. Unknown
// slugs fall back to the slug itself so callers always get a usable label.
func (s *Service) DisplayNames(ctx context.Context, slugs []string) (map[string]string, error) {
	distinct := make([]string, 0, len(slugs))
	seen := make(map[string]struct{}, len(slugs))
	for _, slug := range slugs {
		if _, ok := seen[slug]; ok {
			continue
		}
		seen[slug] = struct{}{}
		distinct = append(distinct, slug)
	}
	if len(distinct) == 0 {
		return map[string]string{}, nil
	}

	names, err := s.stages.DisplayNames(ctx, distinct)
	if err != nil {
		return nil, fmt.Errorf("resolving stage display names: %w", err)
	}
	for _, slug := range distinct {
		if _, ok := names[slug]; !ok {
			s.logger.Debug("stage slug has no display name, falling back to slug", "slug", slug)
			names[slug] = slug
		}
	}
	return names, nil
}
