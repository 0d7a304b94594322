package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rgauld/dialectic/internal/repository"
)

func TestAPIKeyRepository_InsertAndResolve(t *testing.T) {
	db := NewTestDB(t)
	repo := NewAPIKeyRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, "secret-token", "user1"))

	userID, err := repo.ResolveUser(ctx, "secret-token")
	require.NoError(t, err)
	require.Equal(t, "user1", userID)
}

func TestAPIKeyRepository_ResolveUser_WrongToken(t *testing.T) {
	db := NewTestDB(t)
	repo := NewAPIKeyRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, "secret-token", "user1"))

	_, err := repo.ResolveUser(ctx, "wrong-token")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAPIKeyRepository_StoresHashNotToken(t *testing.T) {
	db := NewTestDB(t)
	repo := NewAPIKeyRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, "secret-token", "user1"))

	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM api_keys WHERE token_hash = ?`, "secret-token").Scan(&count)
	require.NoError(t, err)
	require.Zero(t, count)
}
