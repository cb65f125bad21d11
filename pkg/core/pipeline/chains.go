package pipeline

import "github.com/voxvote/parliament-pipeline/pkg/core/legislature"

// Variant selects which of the two acquisition strategies a debate follows:
// scraping an official transcript, or downloading and recognising audio.
type Variant string

const (
	VariantTranscript Variant = "transcript"
	VariantAudio      Variant = "audio"
)

// transcriptChain is followed when the official transcript is already
// available, skipping media ingestion and speech recognition entirely.
var transcriptChain = []legislature.Status{
	legislature.StatusDetected,
	legislature.StatusScrapingHansard,
	legislature.StatusProcessing,
	legislature.StatusSummarizing,
	legislature.StatusCategorizing,
	legislature.StatusPublishing,
	legislature.StatusPublished,
}

// audioChain is followed when no transcript is available and the debate
// must be acquired from video or audio and run through recognition.
var audioChain = []legislature.Status{
	legislature.StatusDetected,
	legislature.StatusIngesting,
	legislature.StatusTranscribing,
	legislature.StatusProcessing,
	legislature.StatusSummarizing,
	legislature.StatusCategorizing,
	legislature.StatusPublishing,
	legislature.StatusPublished,
}

// ChainFor returns the full stage sequence for a variant.
func ChainFor(variant Variant) []legislature.Status {
	if variant == VariantAudio {
		return audioChain
	}
	return transcriptChain
}

// DetermineVariant picks the acquisition strategy for a freshly detected
// candidate: federal sittings scrape the Hansard feed, provincial sittings
// fall back to downloading and recognising audio. An administrator may
// still force either variant through the test-debate/test-hansard endpoints.
func DetermineVariant(leg legislature.Legislature) Variant {
	if leg.Level == legislature.LevelFederal {
		return VariantTranscript
	}
	return VariantAudio
}

// NextStatus returns the status following current in variant's chain, and
// whether one exists (false once current is the chain's terminal status).
func NextStatus(variant Variant, current legislature.Status) (legislature.Status, bool) {
	chain := ChainFor(variant)
	for i, s := range chain {
		if s == current {
			if i+1 < len(chain) {
				return chain[i+1], true
			}
			return "", false
		}
	}
	return "", false
}

// queueForStatus maps a stage's entering status to the named queue it
// dispatches on, so worker concurrency can be scaled per stage.
var queueForStatus = map[legislature.Status]string{
	legislature.StatusScrapingHansard: "ingestion",
	legislature.StatusIngesting:       "ingestion",
	legislature.StatusTranscribing:    "transcription",
	legislature.StatusProcessing:      "processing",
	legislature.StatusSummarizing:     "summarization",
	legislature.StatusCategorizing:    "summarization",
	legislature.StatusPublishing:      "publishing",
}

// QueueForStatus returns the named queue a stage dispatches on, if any.
// Terminal and pre-detection statuses have no queue.
func QueueForStatus(status legislature.Status) (string, bool) {
	q, ok := queueForStatus[status]
	return q, ok
}

func metadataVariant(debate legislature.Debate, leg legislature.Legislature) Variant {
	if debate.Metadata != nil {
		if v, ok := debate.Metadata["variant"].(string); ok && v != "" {
			return Variant(v)
		}
	}
	return DetermineVariant(leg)
}
