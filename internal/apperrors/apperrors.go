package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")

	ErrInvalidRequest = errors.New("invalid request body")
	ErrValidation     = errors.New("validation failed")

	ErrRequestNotOpen = errors.New("service request is not open")
)

type MatchAlreadyExistsError struct {
	ExpertID  string
	RequestID string
}

func (e *MatchAlreadyExistsError) Error() string {
	return fmt.Sprintf("match for expert '%s' and request '%s' already exists", e.ExpertID, e.RequestID)
}
func (e *MatchAlreadyExistsError) Is(target error) bool { return target == ErrAlreadyExists }
