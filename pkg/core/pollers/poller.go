// Package pollers detects new or completed debates at each tracked
// legislature and turns raw source pages into candidate debate records
// ready for the ingestion stage.
package pollers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/voxvote/parliament-pipeline/pkg/core/legislature"
)

// Candidate is a debate detected at a source, not yet persisted. A poller
// may discover the same debate across several runs before its sources are
// complete; the dispatch layer upserts on (legislature_id, external_id) to
// make repeated detection idempotent.
type Candidate struct {
	ExternalID    string
	Title         string
	TitleFR       string
	Date          time.Time
	SessionKind   legislature.SessionKind
	CommitteeName string
	Status        legislature.Status
	SourceURLs    []legislature.SourceURL
	HansardURL    string
	VideoURL      string
	Metadata      map[string]interface{}
}

// Poller detects new debates at one legislature's public sources.
type Poller interface {
	DetectNewDebates(ctx context.Context, leg *legislature.Legislature) ([]Candidate, error)
}

var (
	mu       sync.Mutex
	registry = map[string]Poller{}
)

// Register adds a poller for a legislature code. Call during package init
// or explicitly before dispatch; safe for concurrent use.
func Register(code string, p Poller) {
	mu.Lock()
	defer mu.Unlock()
	registry[code] = p
}

// Get returns the poller registered for a legislature code, lazily
// registering the built-in set on first use.
func Get(code string) (Poller, error) {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := registry[code]; !ok {
		registerBuiltins()
	}
	p, ok := registry[code]
	if !ok {
		return nil, fmt.Errorf("no poller registered for legislature code: %s", code)
	}
	return p, nil
}

func registerBuiltins() {
	if _, ok := registry["CA"]; !ok {
		registry["CA"] = NewFederalPoller()
	}
	if _, ok := registry["ON"]; !ok {
		registry["ON"] = NewOntarioPoller()
	}
	if _, ok := registry["QC"]; !ok {
		registry["QC"] = NewQuebecPoller()
	}
}
