package usecase

import (
	"errors"

	"heartcoach/internal/data/repository"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidRequest   = errors.New("invalid request")
	ErrDeliveryFailure  = errors.New("delivery failure")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrConflict         = errors.New("conflict")
)

// invalid wraps a client-facing message with ErrInvalidRequest.
func invalid(msg string) error {
	return &requestError{msg: msg, kind: ErrInvalidRequest}
}

func notFound(msg string) error {
	return &requestError{msg: msg, kind: ErrNotFound}
}

// requestError keeps the message shown to clients separate from the category.
type requestError struct {
	msg  string
	kind error
}

func (e *requestError) Error() string { return e.msg }

func (e *requestError) Unwrap() error { return e.kind }

// IsStoreUnavailable reports failures to reach either the TTL store or the database.
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable) || repository.IsUnavailable(err)
}
