package progress

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/outofforest/bedrock/pkg/install"
	"github.com/outofforest/bedrock/pkg/test"
	"github.com/outofforest/parallel"
)

func TestLinkRoundTrip(t *testing.T) {
	ctx := test.Context(t)

	events := make(chan install.Event, 10)
	listener, err := NewListener(func(e install.Event) {
		events <- e
	})
	require.NoError(t, err)

	client := NewClient()
	reporter := client.Reporter()
	reporter(install.Event{Ordinal: 9, Total: 20, Step: "locale"})
	reporter(install.Event{Final: true, Code: install.CodeFailure, Error: "mkfs failed"})

	require.NoError(t, parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
		spawn("listener", parallel.Fail, listener.Run)
		spawn("client", parallel.Continue, func(ctx context.Context) error {
			return client.Run(ctx, listener.Addr())
		})
		spawn("check", parallel.Exit, func(ctx context.Context) error {
			for !listener.Result().Received {
				select {
				case <-ctx.Done():
					return errors.WithStack(ctx.Err())
				case <-time.After(10 * time.Millisecond):
				}
			}
			return nil
		})
		return nil
	}))

	result := listener.Result()
	require.True(t, result.Received)
	require.Equal(t, install.CodeFailure, result.Code)
	require.Equal(t, "mkfs failed", result.Error)

	e := <-events
	require.Equal(t, 9, e.Ordinal)
	require.Equal(t, 20, e.Total)
	require.Equal(t, "locale", e.Step)
	require.False(t, e.Final)
}

func TestClientReporterDropsWhenQueueFull(t *testing.T) {
	client := NewClient()
	reporter := client.Reporter()

	// Without a connected launcher the queue must absorb or drop events
	// instead of blocking the sequence.
	for i := range 2 * subscriberBuffer {
		reporter(install.Event{Ordinal: i + 1, Total: 2 * subscriberBuffer})
	}
}
