package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rgauld/dialectic/internal/domain/document"
	"github.com/rgauld/dialectic/internal/repository"
)

func seedResource(t *testing.T, repo *ResourceRepository, id, docKey string, createdAt time.Time) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &document.Resource{
		ID:            id,
		SessionID:     "s1",
		Iteration:     1,
		StageSlug:     "thesis",
		DocumentKey:   docKey,
		ResourceType:  document.TypeRenderedDocument,
		StorageBucket: "content",
		StoragePath:   "p1/s1/iteration_1/thesis/" + id + ".md",
		FileName:      "gpt-4_1_" + docKey + ".md",
		CreatedAt:     createdAt,
	}))
}

func TestResourceRepository_FindRendered_NewestWins(t *testing.T) {
	db := NewTestDB(t)
	repo := NewResourceRepository(db)
	ctx := context.Background()

	seedProject(t, db, "p1", "user1")
	seedSession(t, db, "s1", "p1")

	base := time.Now()
	seedResource(t, repo, "res1", "argument", base.Add(-time.Hour))
	seedResource(t, repo, "res2", "argument", base)

	key := "argument"
	found, err := repo.FindRendered(ctx, repository.ResourceQuery{
		SessionID:   "s1",
		Iteration:   1,
		StageSlug:   "thesis",
		DocumentKey: &key,
	})
	require.NoError(t, err)
	require.Equal(t, "res2", found.ID)
}

func TestResourceRepository_FindRendered_FiltersType(t *testing.T) {
	db := NewTestDB(t)
	repo := NewResourceRepository(db)
	ctx := context.Background()

	seedProject(t, db, "p1", "user1")
	seedSession(t, db, "s1", "p1")

	require.NoError(t, repo.Create(ctx, &document.Resource{
		ID:           "res1",
		SessionID:    "s1",
		Iteration:    1,
		StageSlug:    "thesis",
		DocumentKey:  "argument",
		ResourceType: "seed_prompt",
		CreatedAt:    time.Now(),
	}))

	_, err := repo.FindRendered(ctx, repository.ResourceQuery{
		SessionID: "s1",
		Iteration: 1,
		StageSlug: "thesis",
	})
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestResourceRepository_ListRendered(t *testing.T) {
	db := NewTestDB(t)
	repo := NewResourceRepository(db)
	ctx := context.Background()

	seedProject(t, db, "p1", "user1")
	seedSession(t, db, "s1", "p1")

	base := time.Now()
	seedResource(t, repo, "res1", "argument", base.Add(-time.Minute))
	seedResource(t, repo, "res2", "rebuttal", base)

	list, err := repo.ListRendered(ctx, repository.ResourceScope{
		SessionID: "s1",
		Iteration: 1,
		StageSlug: "thesis",
	})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "res1", list[0].ID)
	require.Equal(t, "res2", list[1].ID)
}

func TestResourceRepository_SourceContributionRoundTrip(t *testing.T) {
	db := NewTestDB(t)
	repo := NewResourceRepository(db)
	ctx := context.Background()

	seedProject(t, db, "p1", "user1")
	seedSession(t, db, "s1", "p1")

	con := "con1"
	require.NoError(t, repo.Create(ctx, &document.Resource{
		ID:                   "res1",
		SessionID:            "s1",
		Iteration:            1,
		StageSlug:            "thesis",
		DocumentKey:          "argument",
		ResourceType:         document.TypeRenderedDocument,
		SourceContributionID: &con,
		CreatedAt:            time.Now(),
	}))

	key := "argument"
	found, err := repo.FindRendered(ctx, repository.ResourceQuery{
		SessionID:   "s1",
		Iteration:   1,
		StageSlug:   "thesis",
		DocumentKey: &key,
	})
	require.NoError(t, err)
	require.NotNil(t, found.SourceContributionID)
	require.Equal(t, "con1", *found.SourceContributionID)
}
