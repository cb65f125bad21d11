// Package transport wires the pipeline's stages onto named message queues,
// the way the richer example repos' event processors wrap a Watermill
// Router with retry middleware instead of hand-rolled subscribe loops. Each
// stage publishes the debate it just advanced onto the next stage's queue;
// a single in-process broker keeps the store as the only durable state.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/voxvote/parliament-pipeline/pkg/core/logging"
	"github.com/voxvote/parliament-pipeline/pkg/core/pipeline"
)

// Named queues, one per stage group. Polling is driven by a timer rather
// than a message, but still gets a queue so an administrator's manual poll
// request can be dispatched the same way as every other stage.
const (
	QueuePolling       = "polling"
	QueueIngestion     = "ingestion"
	QueueTranscription = "transcription"
	QueueProcessing    = "processing"
	QueueSummarization = "summarization"
	QueuePublishing    = "publishing"
)

// StagePayload is the wire body for every stage message: just enough to
// reload the debate from the store and resume its chain from there.
type StagePayload struct {
	DebateID string `json:"debate_id"`
}

// PollPayload is the wire body for a polling-queue message: which
// legislature to scan for newly detected sittings.
type PollPayload struct {
	LegislatureCode string `json:"legislature_code"`
}

// Bus owns the in-process broker and the router dispatching each named
// queue to the orchestrator, replacing RunChain's synchronous recursion
// with one hop through the broker per stage.
type Bus struct {
	pubsub *gochannel.GoChannel
	router *message.Router
	logger watermill.LoggerAdapter
}

// NewBus builds an unstarted Bus. Call Run to start consuming; call
// Orchestrator.Trigger via SetTrigger before Run so the first publish has
// somewhere to go.
func NewBus() (*Bus, error) {
	logger := watermill.NewStdLogger(false, false)

	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 256,
		Persistent:          false,
	}, logger)

	router, err := message.NewRouter(message.RouterConfig{}, logger)
	if err != nil {
		return nil, fmt.Errorf("transport: creating router: %w", err)
	}
	router.AddMiddleware(middleware.Recoverer)
	router.AddMiddleware(middleware.Retry{
		MaxRetries:      3,
		InitialInterval: 2 * time.Second,
		MaxInterval:     60 * time.Second,
		Multiplier:      2.0,
		Logger:          logger,
	}.Middleware)

	return &Bus{pubsub: pubsub, router: router, logger: logger}, nil
}

// Publish hands a debate to the named queue. The caller is expected to have
// already written whatever store state makes the next stage safe to run.
func (b *Bus) Publish(queue, debateID string) error {
	body, err := json.Marshal(StagePayload{DebateID: debateID})
	if err != nil {
		return fmt.Errorf("transport: encoding payload: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), body)
	if err := b.pubsub.Publish(queue, msg); err != nil {
		return fmt.Errorf("transport: publishing to %s: %w", queue, err)
	}
	return nil
}

// RegisterOrchestrator adds one consumer handler per stage queue, each
// running the orchestrator's single-stage step for the debate the message
// names, plus one handler on the polling queue that runs a legislature scan.
// Handlers ack only after their store writes return; a handler that returns
// an error leaves the message unacknowledged and the broker redelivers it.
// The broker is in-memory, so messages not yet acknowledged are lost if the
// process exits.
func (b *Bus) RegisterOrchestrator(o *pipeline.Orchestrator) {
	for _, queue := range []string{QueueIngestion, QueueTranscription, QueueProcessing, QueueSummarization, QueuePublishing} {
		queue := queue
		b.router.AddNoPublisherHandler(
			"stage-"+queue,
			queue,
			b.pubsub,
			func(msg *message.Message) error {
				var payload StagePayload
				if err := json.Unmarshal(msg.Payload, &payload); err != nil {
					logging.Errorf("transport", "malformed payload on %s, dropping: %v", queue, err)
					return nil
				}
				if err := o.RunStage(msg.Context(), payload.DebateID); err != nil {
					return fmt.Errorf("running stage for debate %s: %w", payload.DebateID, err)
				}
				return nil
			},
		)
	}

	b.router.AddNoPublisherHandler(
		"stage-"+QueuePolling,
		QueuePolling,
		b.pubsub,
		func(msg *message.Message) error {
			var payload PollPayload
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				logging.Errorf("transport", "malformed poll payload, dropping: %v", err)
				return nil
			}
			triggered, err := o.DispatchPoll(msg.Context(), payload.LegislatureCode)
			if err != nil {
				return fmt.Errorf("polling legislature %s: %w", payload.LegislatureCode, err)
			}
			logging.Infof("transport", "poll of %s triggered %d debate(s)", payload.LegislatureCode, triggered)
			return nil
		},
	)
}

// PublishPoll hands a legislature code to the polling queue.
func (b *Bus) PublishPoll(legCode string) error {
	body, err := json.Marshal(PollPayload{LegislatureCode: legCode})
	if err != nil {
		return fmt.Errorf("transport: encoding poll payload: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), body)
	if err := b.pubsub.Publish(QueuePolling, msg); err != nil {
		return fmt.Errorf("transport: publishing poll for %s: %w", legCode, err)
	}
	return nil
}

// SetTrigger points the orchestrator's Trigger at this bus: after a stage
// advances a debate's status, the orchestrator publishes to the queue the
// new status maps to instead of running the next stage inline.
func SetTrigger(o *pipeline.Orchestrator, b *Bus) {
	o.Trigger = func(ctx context.Context, debateID string) error {
		debate, err := o.DebateRepo.Get(ctx, debateID)
		if err != nil {
			return fmt.Errorf("transport: loading debate %s to dispatch: %w", debateID, err)
		}
		queue, ok := pipeline.QueueForStatus(debate.Status)
		if !ok {
			logging.Infof("transport", "debate %s status %s has no queue, not dispatching", debateID, debate.Status)
			return nil
		}
		return b.Publish(queue, debateID)
	}
}

// Run blocks consuming every registered queue until ctx is cancelled.
func (b *Bus) Run(ctx context.Context) error {
	return b.router.Run(ctx)
}

// Running returns a channel closed once the router has started consuming.
func (b *Bus) Running() chan struct{} {
	return b.router.Running()
}

// Close stops the router and the underlying broker.
func (b *Bus) Close() error {
	if err := b.router.Close(); err != nil {
		return err
	}
	return b.pubsub.Close()
}
