package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated means no resolved user identity reached the
	// service. Surfaced to the caller, never retried.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNotFound means the record does not exist within the caller's scope.
	ErrNotFound = errors.New("record not found")

	// ErrSystemFood rejects any mutation of a system catalog row.
	ErrSystemFood = errors.New("system foods are read-only")

	// ErrSyncBusy means another reconciliation for the same user holds the
	// cross-instance lease. The client retries on its next save cycle.
	ErrSyncBusy = errors.New("sync already in progress for this user")
)

// ValidationError rejects malformed input before it reaches storage.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
