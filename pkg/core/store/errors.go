package store

import "errors"

// Sentinel errors every repo method returns, per the record store adapter's
// error contract: NotFound is fatal at the stage level, StoreUnavailable is
// retryable, Conflict is swallowed on idempotent re-detection.
var (
	ErrNotFound        = errors.New("store: not found")
	ErrConflict        = errors.New("store: conflict")
	ErrStoreUnavailable = errors.New("store: unavailable")
)

func unavailable(err error) error {
	return errors.Join(ErrStoreUnavailable, err)
}
