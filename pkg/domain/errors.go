package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEventNotFound      = errors.New("event not found")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrDuplicateEvent     = errors.New("event already exists")
	ErrExternalAPIFailure = errors.New("external API failure")
	ErrRateLimitExceeded  = errors.New("rate limit exceeded")
	ErrPersistenceFailure = errors.New("persistence failure")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}
