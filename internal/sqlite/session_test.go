package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rgauld/dialectic/internal/domain/session"
	"github.com/rgauld/dialectic/internal/repository"
)

func TestSessionRepository_CreateAndGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	seedProject(t, db, "p1", "user1")

	sess := &session.Session{
		ID:               "s1",
		ProjectID:        "p1",
		SelectedModelIDs: []string{"m1", "m2"},
		CurrentStageID:   "stage1",
		Iteration:        1,
		Status:           session.Status("created"),
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	require.NoError(t, repo.Create(ctx, sess))

	retrieved, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, []string{"m1", "m2"}, retrieved.SelectedModelIDs)
	require.Equal(t, "stage1", retrieved.CurrentStageID)
	require.Equal(t, 1, retrieved.Iteration)
}

func TestSessionRepository_Create_MissingProject(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSessionRepository(db)

	err := repo.Create(context.Background(), &session.Session{
		ID:               "s1",
		ProjectID:        "ghost",
		SelectedModelIDs: []string{"m1"},
		Status:           session.Status("created"),
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	})
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
}

func TestSessionRepository_UpdateStatus(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	seedProject(t, db, "p1", "user1")
	seedSession(t, db, "s1", "p1")

	require.NoError(t, repo.UpdateStatus(ctx, "s1", session.GenerationCompleteStatus("thesis")))

	retrieved, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, session.GenerationCompleteStatus("thesis"), retrieved.Status)
}

func TestSessionRepository_UpdateStatus_NotFound(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSessionRepository(db)

	err := repo.UpdateStatus(context.Background(), "ghost", session.PendingStatus("thesis"))
	require.ErrorIs(t, err, repository.ErrNotFound)
}
