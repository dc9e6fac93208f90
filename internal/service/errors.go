package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error kinds returned by every service. Handlers map them to HTTP statuses.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrAuth       = errors.New("authentication failed")
)

var (
	ErrOutOfStock         = fmt.Errorf("%w: out of stock", ErrConflict)
	ErrFigurineBusy       = fmt.Errorf("%w: figurine is being sold, try again", ErrConflict)
	ErrDuplicateContract  = fmt.Errorf("%w: contract number already exists", ErrConflict)
	ErrDuplicateUsername  = fmt.Errorf("%w: username already exists", ErrAuth)
	ErrForbiddenRole      = fmt.Errorf("%w: account cannot sign in here", ErrAuth)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid username or password", ErrAuth)
)

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// parseID turns a path id into a UUID. A malformed id cannot name a row,
// so it is reported as not found.
func parseID(raw, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, notFoundf("%s %q", what, raw)
	}
	return id, nil
}

// actorID parses the authenticated user id; anything unparsable yields nil.
func actorID(userID string) *uuid.UUID {
	if parsed, err := uuid.Parse(userID); err == nil {
		return &parsed
	}
	return nil
}
