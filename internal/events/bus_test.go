package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []Event
	err    error
}

func (r *recorder) Notify(_ context.Context, ev Event) error {
	r.events = append(r.events, ev)
	return r.err
}

func TestEmitFansOutToAllNotifiers(t *testing.T) {
	first := &recorder{}
	second := &recorder{}
	bus := &Bus{}
	bus.Subscribe(first)
	bus.Subscribe(second)

	err := bus.Emit(context.Background(), TopicCartUpdated, map[string]any{"itemCount": 3})
	require.NoError(t, err)
	require.Len(t, first.events, 1)
	require.Len(t, second.events, 1)
	require.Equal(t, TopicCartUpdated, first.events[0].Topic)
	require.Equal(t, 3, first.events[0].Payload["itemCount"])
}

func TestEmitJoinsNotifierErrors(t *testing.T) {
	boom := errors.New("boom")
	failing := &recorder{err: boom}
	healthy := &recorder{}
	bus := &Bus{}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	err := bus.Emit(context.Background(), TopicCheckoutFailed, nil)
	require.ErrorIs(t, err, boom)
	// A failing notifier never blocks delivery to the rest.
	require.Len(t, healthy.events, 1)
	require.NotNil(t, healthy.events[0].Payload)
}

func TestEmitRequiresTopic(t *testing.T) {
	bus := &Bus{}
	require.Error(t, bus.Emit(context.Background(), "  ", nil))
}

func TestSubscribeIgnoresNil(t *testing.T) {
	bus := &Bus{}
	bus.Subscribe(nil)
	require.NoError(t, bus.Emit(context.Background(), TopicCartUpdated, nil))
}
