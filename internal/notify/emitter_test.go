package notify_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rgauld/dialectic/internal/notify"
)

type recordingSink struct {
	events []notify.Event
	err    error
}

func (s *recordingSink) Append(_ context.Context, ev notify.Event) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, ev)
	return nil
}

func TestSinkEmitter_StampsOccurredAt(t *testing.T) {
	sink := &recordingSink{}
	emitter := notify.NewSinkEmitter(sink, nil)

	emitter.Emit(context.Background(), notify.Event{
		Type:      notify.GenerationStarted,
		SessionID: "sess1",
		StageSlug: "thesis",
	})

	require.Len(t, sink.events, 1)
	require.False(t, sink.events[0].OccurredAt.IsZero())
	require.Equal(t, notify.GenerationStarted, sink.events[0].Type)
}

func TestSinkEmitter_SwallowsAppendFailure(t *testing.T) {
	sink := &recordingSink{err: errors.New("db down")}
	emitter := notify.NewSinkEmitter(sink, nil)

	// Must not panic or propagate.
	emitter.Emit(context.Background(), notify.Event{Type: notify.JobFailed})
	require.Empty(t, sink.events)
}

func TestMultiEmitter_DispatchesInOrder(t *testing.T) {
	first := &recordingSink{}
	second := &recordingSink{}
	multi := notify.MultiEmitter{
		notify.NewSinkEmitter(first, nil),
		notify.NewSinkEmitter(second, nil),
	}

	multi.Emit(context.Background(), notify.Event{Type: notify.ContributionReceived, SessionID: "sess1"})

	require.Len(t, first.events, 1)
	require.Len(t, second.events, 1)
	require.Equal(t, "sess1", first.events[0].SessionID)
}
