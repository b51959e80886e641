package pubsub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListenCmd_ReturnsEvent(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := broker.Subscribe(ctx)
	broker.Publish(Reloaded, "deck.md")

	msg := ListenCmd(ctx, ch)()

	event, ok := msg.(Event[string])
	require.True(t, ok)
	require.Equal(t, "deck.md", event.Payload)
}

func TestListenCmd_NilWhenDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Nil(t, ListenCmd(ctx, make(chan Event[string]))())

	closed := make(chan Event[string])
	close(closed)
	require.Nil(t, ListenCmd(context.Background(), closed)())
}

func TestContinuousListener_ListensRepeatedly(t *testing.T) {
	broker := NewBroker[int]()
	defer broker.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listener := NewContinuousListener[int](ctx, broker)
	broker.Publish(Navigated, 1)
	broker.Publish(Navigated, 2)

	for _, want := range []int{1, 2} {
		event, ok := listener.Listen()().(Event[int])
		require.True(t, ok)
		require.Equal(t, want, event.Payload)
	}
}

func TestContinuousListener_NilReceiver(t *testing.T) {
	var listener *ContinuousListener[int]
	require.Nil(t, listener.Listen())
}
