package services

import "errors"

var (
	// ErrNotFound is returned when a requested document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrStoreUnavailable wraps network/backend failures on any store operation.
	ErrStoreUnavailable = errors.New("document store unavailable")

	// ErrAlreadyDecided is returned when a user swipes on a profile they
	// have already decided on.
	ErrAlreadyDecided = errors.New("profile already decided")

	// ErrMatchCheckFailed wraps a transient store error during mutual-like
	// detection. The swipe itself is already durably recorded; only the
	// match-creation step needs retrying.
	ErrMatchCheckFailed = errors.New("match check failed")

	// ErrProfileResolutionFailed is returned when the counterpart profile
	// cannot be resolved during notification creation.
	ErrProfileResolutionFailed = errors.New("profile resolution failed")

	// ErrAuthenticationRequired is returned for operations attempted with
	// no signed-in user session.
	ErrAuthenticationRequired = errors.New("authentication required")

	// ErrMalformedDocument is returned when a store document is missing a
	// required field. Reads fail rather than silently defaulting.
	ErrMalformedDocument = errors.New("malformed document")
)
