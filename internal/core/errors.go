package core

import "errors"

// Validation failures. Each is a distinct sentinel so callers can render a
// precise message; all of them satisfy IsValidation.
var (
	ErrEmptyDescription   = errors.New("empty description")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrEmptyCategory      = errors.New("empty category")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidMonth       = errors.New("invalid month")
	ErrNegativeLimit      = errors.New("negative limit")
)

// Outcome errors for store and authorization operations.
var (
	// ErrNotFound means the operation target id does not exist. Terminal.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the caller does not own the resource. Checked only
	// after existence, so probing a nonexistent id never reveals ownership.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict is reserved for a budget-key race the store's atomic upsert
	// could not resolve. Callers may retry the upsert once.
	ErrConflict = errors.New("conflict")

	// ErrStoreUnavailable marks a transient store failure. The core performs
	// no retries; the calling layer owns backoff policy.
	ErrStoreUnavailable = errors.New("store unavailable")
)

var validationErrs = []error{
	ErrEmptyDescription,
	ErrDescriptionTooLong,
	ErrInvalidAmount,
	ErrInvalidCategory,
	ErrEmptyCategory,
	ErrInvalidDate,
	ErrInvalidMonth,
	ErrNegativeLimit,
}

// IsValidation reports whether err is one of the validation sentinels.
func IsValidation(err error) bool {
	for _, v := range validationErrs {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
