package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/voxvote/parliament-pipeline/pkg/core/legislature"
	"github.com/voxvote/parliament-pipeline/pkg/core/logging"
	"github.com/voxvote/parliament-pipeline/pkg/core/pollers"
	"github.com/voxvote/parliament-pipeline/pkg/core/store"
)

// TrackedLegislatureCodes lists the jurisdictions polled on a schedule.
// Kept in step with the poller registry's built-in set.
var TrackedLegislatureCodes = []string{"CA", "ON", "QC"}

// triggerWindow bounds how stale a freshly detected sitting can be and still
// auto-trigger the pipeline. Older detections likely mean a poller backfill
// or a correction and are cheaper to retrigger by hand than to process
// automatically.
const triggerWindow = 48 * time.Hour

// DispatchPoll runs one legislature's poller, upserts every candidate it
// finds against stored debates, and triggers the pipeline for anything
// newly detected and recent enough to be worth the cost of processing.
func (o *Orchestrator) DispatchPoll(ctx context.Context, legCode string) (int, error) {
	leg, err := o.LegislatureRepo.GetByCode(ctx, legCode)
	if err != nil {
		return 0, fmt.Errorf("loading legislature %s: %w", legCode, err)
	}

	poller, err := pollers.Get(legCode)
	if err != nil {
		return 0, fmt.Errorf("resolving poller for %s: %w", legCode, err)
	}

	candidates, err := poller.DetectNewDebates(ctx, leg)
	if err != nil {
		return 0, fmt.Errorf("detecting debates for %s: %w", legCode, err)
	}

	triggered := 0
	for _, c := range candidates {
		didTrigger, err := o.dispatchCandidate(ctx, *leg, c)
		if err != nil {
			logging.Warnf("dispatch", "skipping candidate %s/%s: %v", legCode, c.ExternalID, err)
			continue
		}
		if didTrigger {
			triggered++
		}
	}
	return triggered, nil
}

func (o *Orchestrator) dispatchCandidate(ctx context.Context, leg legislature.Legislature, c pollers.Candidate) (bool, error) {
	metadata := c.Metadata
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	metadata["variant"] = string(DetermineVariant(leg))

	existing, err := o.DebateRepo.FindByExternalID(ctx, leg.ID, c.ExternalID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return false, fmt.Errorf("looking up existing debate: %w", err)
	}

	if errors.Is(err, store.ErrNotFound) {
		debate := legislature.Debate{
			LegislatureID: leg.ID,
			ExternalID:    c.ExternalID,
			Title:         c.Title,
			TitleFR:       c.TitleFR,
			Date:          c.Date,
			SessionKind:   c.SessionKind,
			CommitteeName: c.CommitteeName,
			Status:        c.Status,
			VideoURL:      c.VideoURL,
			HansardURL:    c.HansardURL,
			SourceURLs:    c.SourceURLs,
			Metadata:      metadata,
		}
		if err := o.DebateRepo.Create(ctx, &debate); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return false, nil
			}
			return false, fmt.Errorf("creating debate: %w", err)
		}
		if debate.Status == legislature.StatusDetected && withinTriggerWindow(c.Date) {
			return true, o.trigger(ctx, debate.ID)
		}
		return false, nil
	}

	if existing.Status == legislature.StatusScheduled && c.Status == legislature.StatusDetected {
		if err := o.DebateRepo.UpdateFromCandidate(ctx, existing.ID, c.Title, c.VideoURL, c.HansardURL, c.SourceURLs, metadata); err != nil {
			return false, fmt.Errorf("updating debate from candidate: %w", err)
		}
		if withinTriggerWindow(c.Date) {
			return true, o.trigger(ctx, existing.ID)
		}
		return false, nil
	}

	return false, nil
}

func (o *Orchestrator) trigger(ctx context.Context, debateID string) error {
	if o.Trigger != nil {
		return o.Trigger(ctx, debateID)
	}
	return o.RunChain(ctx, debateID)
}

func withinTriggerWindow(sittingDate time.Time) bool {
	return time.Since(sittingDate) <= triggerWindow
}

// CreateVideoDebate seeds a debate record that skips detection and forces
// the audio-first chain, for administrators verifying the pipeline against
// a known video URL.
func (o *Orchestrator) CreateVideoDebate(ctx context.Context, legCode, externalID, title, videoURL string, date time.Time) (*legislature.Debate, error) {
	leg, err := o.LegislatureRepo.GetByCode(ctx, legCode)
	if err != nil {
		return nil, fmt.Errorf("loading legislature %s: %w", legCode, err)
	}
	debate := legislature.Debate{
		LegislatureID: leg.ID,
		ExternalID:    externalID,
		Title:         title,
		Date:          date,
		SessionKind:   legislature.SessionHouse,
		Status:        legislature.StatusDetected,
		VideoURL:      videoURL,
		Metadata:      map[string]interface{}{"variant": string(VariantAudio)},
	}
	if err := o.DebateRepo.Create(ctx, &debate); err != nil {
		return nil, fmt.Errorf("creating test debate: %w", err)
	}
	return &debate, o.trigger(ctx, debate.ID)
}

// CreateHansardDebate seeds a debate record forcing the transcript-first
// chain from a known sitting date, for administrators verifying the
// pipeline against a specific Hansard publication.
func (o *Orchestrator) CreateHansardDebate(ctx context.Context, legCode, externalID, title string, date time.Time, hansardNumber string) (*legislature.Debate, error) {
	leg, err := o.LegislatureRepo.GetByCode(ctx, legCode)
	if err != nil {
		return nil, fmt.Errorf("loading legislature %s: %w", legCode, err)
	}
	debate := legislature.Debate{
		LegislatureID: leg.ID,
		ExternalID:    externalID,
		Title:         title,
		Date:          date,
		SessionKind:   legislature.SessionHouse,
		Status:        legislature.StatusDetected,
		Metadata: map[string]interface{}{
			"variant":        string(VariantTranscript),
			"hansard_number": hansardNumber,
		},
	}
	if err := o.DebateRepo.Create(ctx, &debate); err != nil {
		return nil, fmt.Errorf("creating test debate: %w", err)
	}
	return &debate, o.trigger(ctx, debate.ID)
}
