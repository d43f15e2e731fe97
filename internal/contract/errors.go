package contract

import "errors"

type RecoveryErrorCode string

const (
	ErrNotWarranted        RecoveryErrorCode = "NOT_WARRANTED"
	ErrNothingToRecover    RecoveryErrorCode = "NOTHING_TO_RECOVER"
	ErrEmptyPlan           RecoveryErrorCode = "EMPTY_PLAN"
	ErrPlanNotFound        RecoveryErrorCode = "PLAN_NOT_FOUND"
	ErrPlanAlreadyApplied  RecoveryErrorCode = "PLAN_ALREADY_APPLIED"
	ErrTaskNotFound        RecoveryErrorCode = "TASK_NOT_FOUND"
	ErrTaskAlreadyComplete RecoveryErrorCode = "TASK_ALREADY_COMPLETED"
	ErrInvalidInput        RecoveryErrorCode = "INVALID_INPUT"
	ErrInternal            RecoveryErrorCode = "INTERNAL_ERROR"

	// Transport-level codes, set by the HTTP middleware.
	ErrUnauthorized RecoveryErrorCode = "UNAUTHORIZED"
	ErrRateLimited  RecoveryErrorCode = "RATE_LIMITED"
)

// RecoveryError is a business failure with a stable code. Store and other
// infrastructure failures are never wrapped in it.
type RecoveryError struct {
	Code    RecoveryErrorCode
	Message string
}

func (e *RecoveryError) Error() string {
	return string(e.Code) + ": " + e.Message
}

func NewError(code RecoveryErrorCode, msg string) *RecoveryError {
	return &RecoveryError{Code: code, Message: msg}
}

// AsRecoveryError unwraps err to a *RecoveryError if it is one.
func AsRecoveryError(err error) (*RecoveryError, bool) {
	var re *RecoveryError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Code    RecoveryErrorCode `json:"code"`
	Message string            `json:"message"`
}
