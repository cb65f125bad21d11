package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxvote/parliament-pipeline/pkg/core/transport"
)

// schedulePolling has no consumer-visible seam without a live store behind
// the orchestrator (DispatchPoll needs Postgres), so this only exercises the
// part reachable without one: it starts only once the bus reports itself
// running, and it returns promptly once its context is cancelled instead of
// leaking a goroutine past shutdown.
func TestSchedulePollingStopsOnContextCancel(t *testing.T) {
	bus, err := transport.NewBus()
	require.NoError(t, err)

	runCtx, cancelRun := context.WithCancel(context.Background())
	defer cancelRun()
	go func() { _ = bus.Run(runCtx) }()

	select {
	case <-bus.Running():
	case <-time.After(2 * time.Second):
		t.Fatal("bus did not report running")
	}

	pollCtx, cancelPoll := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		schedulePolling(pollCtx, bus, time.Hour)
		close(done)
	}()

	cancelPoll()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("schedulePolling did not return after context cancellation")
	}
}

func TestSchedulePollingBlocksUntilBusIsRunning(t *testing.T) {
	bus, err := transport.NewBus()
	require.NoError(t, err)

	pollCtx, cancelPoll := context.WithCancel(context.Background())
	defer cancelPoll()

	started := make(chan struct{})
	go func() {
		schedulePolling(pollCtx, bus, time.Hour)
		close(started)
	}()

	select {
	case <-started:
		t.Fatal("schedulePolling returned before the bus ever started running")
	case <-time.After(100 * time.Millisecond):
	}

	runCtx, cancelRun := context.WithCancel(context.Background())
	defer cancelRun()
	go func() { _ = bus.Run(runCtx) }()

	select {
	case <-bus.Running():
	case <-time.After(2 * time.Second):
		t.Fatal("bus did not report running")
	}

	cancelPoll()
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("schedulePolling did not return after context cancellation")
	}
	assert.NotNil(t, bus)
}
