package entities

import "errors"

var (
	// ErrEventNotFound is permanent, there is nothing to retry.
	ErrEventNotFound = errors.New("event not found")

	// ErrTicketsSoldOut is a business outcome, user-visible as "sold out".
	ErrTicketsSoldOut = errors.New("no tickets left for event")

	// ErrConcurrencyConflict means another booking committed against the same
	// aggregate between our load and save. No partial state survives, so the
	// whole operation is safe to retry from scratch.
	ErrConcurrencyConflict = errors.New("event was modified concurrently")

	// ErrStoreUnavailable is infrastructure-level; retry with backoff.
	ErrStoreUnavailable = errors.New("store unavailable")

	ErrInvalidEvent = errors.New("event needs a name and a positive ticket count")
)

// IsTransient reports whether the caller may retry the operation as-is.
func IsTransient(err error) bool {
	return errors.Is(err, ErrConcurrencyConflict) || errors.Is(err, ErrStoreUnavailable)
}
