package artifact_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rgauld/dialectic/internal/artifact"
	"github.com/rgauld/dialectic/internal/domain/contribution"
	"github.com/rgauld/dialectic/internal/repository/mocks"
)

func TestRegistrar_Register(t *testing.T) {
	ctx := context.Background()
	store := &mocks.Uploader{}
	contributions := &mocks.ContributionRepository{}

	store.On("Upload", ctx, "content", "proj1/sess1/iteration_2/thesis/gpt-4_1_argument.md", []byte("body")).
		Return(nil)
	var created *contribution.Contribution
	contributions.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(1).(*contribution.Contribution)
	}).Return(nil)

	key := "argument"
	reg := artifact.NewRegistrar(store, contributions, "content", nil)
	rec, err := reg.Register(ctx, artifact.PathContext{
		ProjectID: "proj1",
		SessionID: "sess1",
		Iteration: 2,
		StageSlug: "thesis",
	}, artifact.Metadata{
		ModelID:     "m1",
		ModelName:   "GPT-4",
		ModelSlug:   "gpt-4",
		DocumentKey: &key,
		Attempt:     1,
		MimeType:    "text/markdown",
		TokensUsed:  42,
		Latency:     250 * time.Millisecond,
	}, []byte("body"))
	require.NoError(t, err)
	require.Same(t, created, rec)

	require.NotEmpty(t, rec.ID)
	require.Equal(t, "sess1", rec.SessionID)
	require.Equal(t, "gpt-4_1_argument.md", rec.FileName)
	require.Equal(t, "content", rec.StorageBucket)
	require.Equal(t, "proj1/sess1/iteration_2/thesis/gpt-4_1_argument.md", rec.StoragePath)
	require.Equal(t, 1, rec.EditVersion)
	require.True(t, rec.IsLatestEdit)
	require.Equal(t, int64(4), rec.SizeBytes)
	require.Equal(t, 42, rec.TokensUsed)
}

func TestRegistrar_Register_DefaultKind(t *testing.T) {
	ctx := context.Background()
	store := &mocks.Uploader{}
	contributions := &mocks.ContributionRepository{}

	store.On("Upload", ctx, "content", "proj1/sess1/iteration_1/thesis/claude_1_contribution.md", mock.Anything).
		Return(nil)
	contributions.On("Create", ctx, mock.Anything).Return(nil)

	reg := artifact.NewRegistrar(store, contributions, "content", nil)
	rec, err := reg.Register(ctx, artifact.PathContext{
		ProjectID: "proj1",
		SessionID: "sess1",
		Iteration: 1,
		StageSlug: "thesis",
	}, artifact.Metadata{ModelID: "m2", ModelSlug: "claude", Attempt: 1}, []byte("x"))
	require.NoError(t, err)
	require.Equal(t, "claude_1_contribution.md", rec.FileName)
	require.Nil(t, rec.DocumentKey)
}

func TestRegistrar_Register_UploadFailure(t *testing.T) {
	ctx := context.Background()
	store := &mocks.Uploader{}
	contributions := &mocks.ContributionRepository{}

	store.On("Upload", ctx, "content", mock.Anything, mock.Anything).
		Return(errors.New("disk full"))

	reg := artifact.NewRegistrar(store, contributions, "content", nil)
	_, err := reg.Register(ctx, artifact.PathContext{
		ProjectID: "proj1", SessionID: "sess1", Iteration: 1, StageSlug: "thesis",
	}, artifact.Metadata{ModelSlug: "gpt-4", Attempt: 1}, []byte("x"))
	require.Error(t, err)
	contributions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
