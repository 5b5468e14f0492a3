package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrProviderRejected marks a provider response carrying a non-empty errors object.
	ErrProviderRejected = errors.New("sports provider rejected request")
	// ErrFatalSync aborts a run; the schedule cursor is not advanced.
	ErrFatalSync = errors.New("fatal sync error")
	// ErrSyncInProgress is returned when another run holds the sync lock.
	ErrSyncInProgress = errors.New("sync already in progress")
)
