package episode

import "errors"

var (
	// ErrInvalidArgument indicates a nil or otherwise unusable input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidFormat indicates a slug that does not follow {show}-s{N}-e{M}.
	ErrInvalidFormat = errors.New("invalid slug format")

	// ErrInvalidState indicates an episode that fails validation,
	// for example one without an existing show.
	ErrInvalidState = errors.New("invalid state")

	// ErrNotFound indicates the targeted episode does not exist.
	ErrNotFound = errors.New("episode not found")

	// ErrDuplicateItem indicates an episode with the same slug already exists.
	ErrDuplicateItem = errors.New("duplicate episode")

	// ErrInvariantViolation indicates the store reported a duplicate that
	// cannot be read back. Callers should not retry.
	ErrInvariantViolation = errors.New("internal invariant violation")
)
