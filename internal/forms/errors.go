package forms

import "errors"

// ErrorCode classifies fill-session failures so callers can decide
// presentation without string matching.
type ErrorCode string

const (
	ErrorNotFound     ErrorCode = "not_found"
	ErrorExpired      ErrorCode = "expired"
	ErrorValidation   ErrorCode = "validation"
	ErrorAuthRequired ErrorCode = "auth_required"
	ErrorPersistence  ErrorCode = "persistence"
	ErrorInvalid      ErrorCode = "invalid"
)

// FlowError is the structured outcome reported across the engine boundary.
// Validation failures carry the ids of the questions that failed.
type FlowError struct {
	Code    ErrorCode
	Message string
	Fields  []string
}

func (e *FlowError) Error() string { return e.Message }

func NewNotFoundError(msg string) error { return &FlowError{Code: ErrorNotFound, Message: msg} }
func NewExpiredError(msg string) error  { return &FlowError{Code: ErrorExpired, Message: msg} }
func NewInvalidError(msg string) error  { return &FlowError{Code: ErrorInvalid, Message: msg} }

func NewAuthRequiredError(msg string) error {
	return &FlowError{Code: ErrorAuthRequired, Message: msg}
}

func NewValidationError(fields []string) error {
	return &FlowError{Code: ErrorValidation, Message: "please fill in all required fields", Fields: fields}
}

func NewPersistenceError(msg string) error {
	return &FlowError{Code: ErrorPersistence, Message: msg}
}

// AsFlowError unwraps err into a *FlowError when possible.
func AsFlowError(err error) (*FlowError, bool) {
	var fe *FlowError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
