package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/voxvote/parliament-pipeline/pkg/core/agent"
	"github.com/voxvote/parliament-pipeline/pkg/core/legislature"
	"github.com/voxvote/parliament-pipeline/pkg/core/logging"
	"github.com/voxvote/parliament-pipeline/pkg/core/mediafetch"
	"github.com/voxvote/parliament-pipeline/pkg/core/publish"
	"github.com/voxvote/parliament-pipeline/pkg/core/store"
)

// Metrics receives one call per stage attempt, carrying every field an
// observability backend needs to both count/time the attempt and log a
// structured transition line. The default implementation is a no-op; a
// Prometheus-backed implementation is wired in by the binary.
type Metrics interface {
	ObserveStage(stage legislature.Status, legislatureCode, debateID, outcome string, elapsed time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) ObserveStage(legislature.Status, string, string, string, time.Duration) {}

// Trigger hands a debate off for stage execution. The default, RunChain,
// executes synchronously in the caller's goroutine; a worker binary running
// a message broker replaces it with a function that publishes instead.
type Trigger func(ctx context.Context, debateID string) error

// Orchestrator holds every dependency a pipeline stage needs, and drives
// debates through their chain one status transition at a time.
type Orchestrator struct {
	DebateRepo       *store.DebateRepo
	LegislatureRepo  *store.LegislatureRepo
	SpeakerRepo      *store.SpeakerRepo
	ContributionRepo *store.ContributionRepo
	TopicRepo        *store.TopicSectionRepo
	VoteRepo         *store.VoteRepo
	TranscriptRepo   *store.TranscriptRepo
	MediaRepo        *store.MediaAssetRepo
	SummaryRepo      *store.SummaryRepo
	CategoryRepo     *store.CategoryRepo
	ForumRepo        *store.ForumPostRepo

	Fetcher      *mediafetch.Fetcher
	AgentManager *agent.Manager
	Publisher    *publish.Publisher

	MaxRetries int
	Metrics    Metrics

	// Trigger is called after a successful stage, and by Retrigger, to
	// continue the chain. Left nil, advance and Retrigger stop once the new
	// status is written; DispatchPoll and the Create*Debate helpers fall back
	// to RunChain.
	Trigger Trigger
}

// NewOrchestrator wires every repository and service the pipeline needs.
// Trigger defaults to synchronous chain execution; call SetTrigger to have
// a transport layer dispatch stages through a message broker instead.
func NewOrchestrator(fetcher *mediafetch.Fetcher, agentManager *agent.Manager, publisher *publish.Publisher) *Orchestrator {
	o := &Orchestrator{
		DebateRepo:       store.NewDebateRepo(),
		LegislatureRepo:  store.NewLegislatureRepo(),
		SpeakerRepo:      store.NewSpeakerRepo(),
		ContributionRepo: store.NewContributionRepo(),
		TopicRepo:        store.NewTopicSectionRepo(),
		VoteRepo:         store.NewVoteRepo(),
		TranscriptRepo:   store.NewTranscriptRepo(),
		MediaRepo:        store.NewMediaAssetRepo(),
		SummaryRepo:      store.NewSummaryRepo(),
		CategoryRepo:     store.NewCategoryRepo(),
		ForumRepo:        store.NewForumPostRepo(),
		Fetcher:          fetcher,
		AgentManager:     agentManager,
		Publisher:        publisher,
		MaxRetries:       defaultMaxRetries,
		Metrics:          noopMetrics{},
	}
	o.Trigger = o.RunChain
	return o
}

// RunStage executes whatever stage the debate currently sits in. On success
// it advances the debate's status to the next link in its chain; on failure
// it records the error through MarkError, which decides whether the debate
// is still eligible for a stage-level retry or has exhausted its budget. A
// retryable failure is handed back to Trigger after BackoffFor's delay; with
// a nil Trigger (as inside RunChain) no retry is scheduled.
func (o *Orchestrator) RunStage(ctx context.Context, debateID string) error {
	debate, err := o.DebateRepo.Get(ctx, debateID)
	if err != nil {
		return fmt.Errorf("loading debate %s: %w", debateID, err)
	}

	leg, err := o.legislatureFor(ctx, *debate)
	if err != nil {
		return fmt.Errorf("loading legislature for debate %s: %w", debateID, err)
	}

	variant := metadataVariant(*debate, leg)

	stage, ok := stageFuncs[debate.Status]
	if !ok {
		// Statuses like "detected" carry no work of their own; they only mark
		// a transition point. Advance straight to the next status in the
		// chain and let the trigger continue from there.
		return o.advance(ctx, debateID, variant, debate.Status)
	}

	start := time.Now()
	err = stage(ctx, o, debate, leg)
	elapsed := time.Since(start)

	if err != nil {
		o.Metrics.ObserveStage(debate.Status, leg.Code, debateID, "error", elapsed)
		status, retryable, markErr := o.DebateRepo.MarkError(ctx, debateID, err.Error(), o.maxRetries())
		if markErr != nil {
			return fmt.Errorf("recording failure for debate %s: %w", debateID, markErr)
		}
		if retryable {
			logging.Warnf("pipeline", "debate %s stage %s failed, will retry: %v", debateID, debate.Status, err)
			if trigger := o.Trigger; trigger != nil {
				time.AfterFunc(BackoffFor(debate.Status), func() {
					if err := trigger(context.Background(), debateID); err != nil {
						logging.Warnf("pipeline", "debate %s retry dispatch failed: %v", debateID, err)
					}
				})
			}
			return nil
		}
		logging.Errorf("pipeline", "debate %s stage %s exhausted retries, moved to %s: %v", debateID, debate.Status, status, err)
		return nil
	}

	o.Metrics.ObserveStage(debate.Status, leg.Code, debateID, "success", elapsed)
	logging.Infof("pipeline", "debate %s completed stage %s in %s", debateID, debate.Status, elapsed.Round(time.Millisecond))

	return o.advance(ctx, debateID, variant, debate.Status)
}

// advance moves a debate from current to the next status in its chain, if
// one exists, and hands it to the trigger unless the chain has ended.
func (o *Orchestrator) advance(ctx context.Context, debateID string, variant Variant, current legislature.Status) error {
	next, hasNext := NextStatus(variant, current)
	if !hasNext {
		return nil
	}
	if err := o.DebateRepo.UpdateStatus(ctx, debateID, next); err != nil {
		return fmt.Errorf("advancing debate %s to %s: %w", debateID, next, err)
	}

	if IsTerminal(next) {
		return nil
	}
	if o.Trigger != nil {
		return o.Trigger(ctx, debateID)
	}
	return nil
}

// RunChain drives a debate synchronously through every remaining stage in
// its chain, stopping at the first unresolved retry or terminal status.
func (o *Orchestrator) RunChain(ctx context.Context, debateID string) error {
	for {
		debate, err := o.DebateRepo.Get(ctx, debateID)
		if err != nil {
			return fmt.Errorf("loading debate %s: %w", debateID, err)
		}
		if IsTerminal(debate.Status) {
			return nil
		}

		before := debate.Status
		if err := o.runStageOnce(ctx, debateID); err != nil {
			return err
		}

		after, err := o.DebateRepo.Get(ctx, debateID)
		if err != nil {
			return fmt.Errorf("reloading debate %s: %w", debateID, err)
		}
		if after.Status == before {
			// Stage failed; RunChain schedules no retry of its own, so stop
			// here rather than spin.
			return nil
		}
	}
}

// runStageOnce is RunStage without the recursive Trigger call, used by
// RunChain to avoid double-dispatching every stage through a broker.
func (o *Orchestrator) runStageOnce(ctx context.Context, debateID string) error {
	saved := o.Trigger
	o.Trigger = nil
	defer func() { o.Trigger = saved }()
	return o.RunStage(ctx, debateID)
}

// Retrigger resumes a debate from a specific stage, typically after an
// administrator has investigated and fixed the underlying cause of an
// error. It does not reset the retry budget; call ResetRetryBudget first
// if the debate had already exhausted it. variant may be empty to keep
// whatever acquisition strategy the debate already carries, or "transcript"/
// "audio" to force the opposite chain from the one originally detected.
func (o *Orchestrator) Retrigger(ctx context.Context, debateID string, fromStage legislature.Status, variant string) error {
	if variant != "" {
		if err := o.DebateRepo.SetVariant(ctx, debateID, variant); err != nil {
			return fmt.Errorf("setting variant for debate %s: %w", debateID, err)
		}
	}
	if err := o.DebateRepo.Retrigger(ctx, debateID, fromStage); err != nil {
		return fmt.Errorf("retriggering debate %s from %s: %w", debateID, fromStage, err)
	}
	if o.Trigger != nil {
		return o.Trigger(ctx, debateID)
	}
	return nil
}

// ResetRetryBudget clears a debate's retry counter, typically paired with a
// Retrigger call once an administrator is confident the failure will not
// recur.
func (o *Orchestrator) ResetRetryBudget(ctx context.Context, debateID string) error {
	if err := o.DebateRepo.ResetRetryBudget(ctx, debateID); err != nil {
		return fmt.Errorf("resetting retry budget for debate %s: %w", debateID, err)
	}
	return nil
}

func (o *Orchestrator) maxRetries() int {
	if o.MaxRetries > 0 {
		return o.MaxRetries
	}
	return defaultMaxRetries
}

func (o *Orchestrator) legislatureFor(ctx context.Context, debate legislature.Debate) (legislature.Legislature, error) {
	if debate.LegislatureCode != "" {
		leg, err := o.LegislatureRepo.GetByCode(ctx, debate.LegislatureCode)
		if err == nil {
			return *leg, nil
		}
	}
	return legislature.Legislature{}, fmt.Errorf("no legislature code recorded on debate %s", debate.ID)
}
