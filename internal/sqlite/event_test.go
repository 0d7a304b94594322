package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rgauld/dialectic/internal/notify"
)

func TestEventRepository_AppendAndList(t *testing.T) {
	db := NewTestDB(t)
	repo := NewEventRepository(db)
	ctx := context.Background()

	first := notify.Event{
		Type:       notify.GenerationStarted,
		SessionID:  "s1",
		StageSlug:  "thesis",
		Iteration:  1,
		OccurredAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}
	second := notify.Event{
		Type:        notify.ContributionReceived,
		SessionID:   "s1",
		StageSlug:   "thesis",
		JobID:       "j1",
		DocumentKey: "argument",
		ModelID:     "m1",
		Iteration:   1,
		OccurredAt:  time.Date(2026, 8, 1, 10, 1, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Append(ctx, first))
	require.NoError(t, repo.Append(ctx, second))
	require.NoError(t, repo.Append(ctx, notify.Event{
		Type:      notify.GenerationFailed,
		SessionID: "other",
		StageSlug: "thesis",
		Iteration: 1,
		Error:     "boom",
	}))

	events, err := repo.ListBySession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, notify.GenerationStarted, events[0].Type)
	require.Equal(t, notify.ContributionReceived, events[1].Type)
	require.Equal(t, "argument", events[1].DocumentKey)
	require.Equal(t, "m1", events[1].ModelID)
}

func TestEventRepository_Append_StampsOccurredAt(t *testing.T) {
	db := NewTestDB(t)
	repo := NewEventRepository(db)
	ctx := context.Background()

	before := time.Now()
	require.NoError(t, repo.Append(ctx, notify.Event{
		Type:      notify.JobFailed,
		SessionID: "s1",
		StageSlug: "thesis",
		Error:     "model timeout",
	}))

	events, err := repo.ListBySession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.False(t, events[0].OccurredAt.Before(before))
	require.Equal(t, "model timeout", events[0].Error)
}

func TestEventRepository_ListBySession_Empty(t *testing.T) {
	db := NewTestDB(t)
	repo := NewEventRepository(db)

	events, err := repo.ListBySession(context.Background(), "none")
	require.NoError(t, err)
	require.Empty(t, events)
}
