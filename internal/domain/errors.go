package domain

import (
	"errors"
)

// Genuine failures the core surfaces to callers. Missing ledger data,
// missing signals or an unmatched persona are NOT errors; they resolve to
// zero records and insufficient_data.
var (
	// ErrDataUnavailable means a storage read failed. Retryable.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrCatalogMalformed marks a single unusable catalog entry. The entry
	// is skipped; processing continues with the remainder of the catalog.
	ErrCatalogMalformed = errors.New("catalog entry malformed")

	// ErrConcurrentWrite means a signal recomputation lost the race on the
	// (user, window, kind) uniqueness constraint. Retry after re-reading.
	ErrConcurrentWrite = errors.New("concurrent write conflict")
)
