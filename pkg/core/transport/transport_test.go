package transport

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxvote/parliament-pipeline/pkg/core/legislature"
	"github.com/voxvote/parliament-pipeline/pkg/core/pipeline"
)

func TestQueueNamesMatchPipelineMapping(t *testing.T) {
	cases := []struct {
		status legislature.Status
		queue  string
	}{
		{legislature.StatusScrapingHansard, QueueIngestion},
		{legislature.StatusIngesting, QueueIngestion},
		{legislature.StatusTranscribing, QueueTranscription},
		{legislature.StatusProcessing, QueueProcessing},
		{legislature.StatusSummarizing, QueueSummarization},
		{legislature.StatusCategorizing, QueueSummarization},
		{legislature.StatusPublishing, QueuePublishing},
	}

	for _, c := range cases {
		queue, ok := pipeline.QueueForStatus(c.status)
		require.True(t, ok, "status %s should map to a queue", c.status)
		assert.Equal(t, c.queue, queue)
	}
}

func TestBusPublishDeliversStagePayload(t *testing.T) {
	bus, err := NewBus()
	require.NoError(t, err)
	defer bus.Close()

	received := make(chan StagePayload, 1)
	bus.router.AddNoPublisherHandler("test-handler", QueueProcessing, bus.pubsub, func(msg *message.Message) error {
		var payload StagePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return err
		}
		received <- payload
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = bus.Run(ctx)
	}()
	<-bus.Running()

	require.NoError(t, bus.Publish(QueueProcessing, "debate-123"))

	select {
	case payload := <-received:
		assert.Equal(t, "debate-123", payload.DebateID)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published message")
	}
}

func TestBusPublishPollDeliversLegislatureCode(t *testing.T) {
	bus, err := NewBus()
	require.NoError(t, err)
	defer bus.Close()

	received := make(chan PollPayload, 1)
	bus.router.AddNoPublisherHandler("test-poll-handler", QueuePolling, bus.pubsub, func(msg *message.Message) error {
		var payload PollPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return err
		}
		received <- payload
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = bus.Run(ctx)
	}()
	<-bus.Running()

	require.NoError(t, bus.PublishPoll("CA"))

	select {
	case payload := <-received:
		assert.Equal(t, "CA", payload.LegislatureCode)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published poll message")
	}
}
