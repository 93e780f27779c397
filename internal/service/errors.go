package service

import "errors"

// Sentinel errors returned by the services.  Store failures surface as the
// repository sentinels (ErrNotFound, ErrDuplicateIdentifier, ErrTimeout).
var (
	ErrMissingField = errors.New("missing field")
	ErrInvalidField = errors.New("invalid field")
	// ErrInvalidCredentials covers both an unknown document id and a wrong
	// password so callers cannot tell which one failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrInternal           = errors.New("internal error")
)
