package models

import "errors"

// Error kinds shared by the sync layer. Callers branch with errors.Is; the
// distinction between "doesn't exist yet" (a valid empty result, never an
// error) and "malformed data" (ErrFetchFailed) is load-bearing.
var (
	// ErrFetchFailed reports that a stored value had the wrong shape.
	ErrFetchFailed = errors.New("fetch failed: malformed value in store")
	// ErrWriteFailed reports that a store write errored.
	ErrWriteFailed = errors.New("write failed")
	// ErrSessionMissing reports that no usable sender session was provided.
	ErrSessionMissing = errors.New("sender session missing or incomplete")
)
