package resolver

import (
	"context"

	"github.com/rgauld/dialectic/internal/domain/contribution"
	"github.com/rgauld/dialectic/internal/domain/document"
	"github.com/rgauld/dialectic/internal/domain/feedback"
	"github.com/rgauld/dialectic/internal/repository"
)

// ResourceFinder provides rendered-document resource lookups.
type ResourceFinder interface {
	FindRendered(ctx context.Context, q repository.ResourceQuery) (*document.Resource, error)
	ListRendered(ctx context.Context, scope repository.ResourceScope) ([]document.Resource, error)
}

// FeedbackFinder provides user feedback lookups.
type FeedbackFinder interface {
	Find(ctx context.Context, q repository.FeedbackQuery) (*feedback.Record, error)
}

// ContributionFinder provides raw contribution lookups.
type ContributionFinder interface {
	FindLatest(ctx context.Context, q repository.ContributionQuery) (*contribution.Contribution, error)
	ListLatest(ctx context.Context, q repository.ContributionQuery) ([]contribution.Contribution, error)
}

// DisplayNameResolver batch-resolves stage slugs to display names.
type DisplayNameResolver interface {
	DisplayNames(ctx context.Context, slugs []string) (map[string]string, error)
}
