package domain

import "errors"

var (
	// ErrValidation indicates a missing or malformed field.
	ErrValidation = errors.New("validation failed")

	// ErrAuthorization indicates the actor's role may never perform the
	// requested transition, or the actor does not own the proposal.
	ErrAuthorization = errors.New("not authorized")

	// ErrStateConflict indicates the transition is not legal from the
	// record's current state.
	ErrStateConflict = errors.New("state conflict")

	// ErrBudgetExceeded indicates the amount exceeds the budget line's
	// remaining capacity.
	ErrBudgetExceeded = errors.New("budget exceeded")

	// ErrNotFound indicates the proposal, payment, budget line or user
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConcurrentUpdate indicates an optimistic version check lost a race.
	// It never escapes the unit of work unless retries are exhausted.
	ErrConcurrentUpdate = errors.New("concurrent update")
)

// ErrorCode is a stable, transport-neutral classification of an error.
type ErrorCode string

const (
	CodeValidation       ErrorCode = "VALIDATION_ERROR"
	CodeAuthorization    ErrorCode = "AUTHORIZATION_ERROR"
	CodeStateConflict    ErrorCode = "STATE_CONFLICT"
	CodeBudgetExceeded   ErrorCode = "BUDGET_EXCEEDED"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeConcurrentUpdate ErrorCode = "CONCURRENT_UPDATE"
	CodeInternal         ErrorCode = "INTERNAL_ERROR"
)

// ErrorKind classifies err by the first taxonomy sentinel it wraps.
func ErrorKind(err error) ErrorCode {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrAuthorization):
		return CodeAuthorization
	case errors.Is(err, ErrStateConflict):
		return CodeStateConflict
	case errors.Is(err, ErrBudgetExceeded):
		return CodeBudgetExceeded
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrConcurrentUpdate):
		return CodeConcurrentUpdate
	default:
		return CodeInternal
	}
}
