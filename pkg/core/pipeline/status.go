package pipeline

import "github.com/voxvote/parliament-pipeline/pkg/core/legislature"

// IsTerminal reports whether a debate in this status is done moving through
// the chain on its own: published debates only move by explicit retrigger,
// error debates only by an administrative reset.
func IsTerminal(status legislature.Status) bool {
	return status == legislature.StatusPublished || status == legislature.StatusError
}

// HasStage reports whether a status corresponds to an executable stage
// (as opposed to the pre-detection scheduled state or a terminal state).
func HasStage(status legislature.Status) bool {
	_, ok := stageFuncs[status]
	return ok
}
