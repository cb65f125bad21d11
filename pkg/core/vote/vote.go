// Package vote extracts recorded divisions for a debate, dispatched by
// legislature code the same way the source pollers and LLM providers are.
package vote

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/voxvote/parliament-pipeline/pkg/core/legislature"
)

const userAgent = "Vox.Vote Parliament Tracker/1.0"

var httpClient = &http.Client{Timeout: 60 * time.Second}

var billNumberRe = regexp.MustCompile(`(?i)(?:Bill|Projet de loi)\s+(C-\d+|S-\d+|\d+)`)

// Extract fetches and parses vote data for a debate. A missing or
// unreachable source is not fatal: it returns an empty list.
func Extract(ctx context.Context, debate legislature.Debate, leg legislature.Legislature) []legislature.Vote {
	switch leg.Code {
	case "CA":
		return extractFederal(ctx, debate)
	case "ON":
		return extractProvincial(ctx, debate, ontarioDivisionSelectors)
	case "QC":
		return extractProvincial(ctx, debate, quebecDivisionSelectors)
	default:
		return nil
	}
}
