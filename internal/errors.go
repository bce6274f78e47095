package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation      ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound        ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized    ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden       ErrorType = "FORBIDDEN"
	ErrorTypeConflict        ErrorType = "CONFLICT"
	ErrorTypeInvalidState    ErrorType = "INVALID_STATE"
	ErrorTypeTooManyRequests ErrorType = "TOO_MANY_REQUESTS"
	ErrorTypeInternal        ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidBody      ErrorCode = "INVALID_REQUEST_BODY"
	ErrCodeInvalidID        ErrorCode = "INVALID_ID"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"
	ErrCodeInvalidPeriod    ErrorCode = "INVALID_PERIOD"
	ErrCodeInvalidLeaveType ErrorCode = "INVALID_LEAVE_TYPE"
	ErrCodeInvalidRole      ErrorCode = "INVALID_ROLE"
	ErrCodeInvalidManager   ErrorCode = "INVALID_MANAGER"
	ErrCodeInvalidEmail     ErrorCode = "INVALID_EMAIL"

	ErrCodeRequestNotFound  ErrorCode = "REQUEST_NOT_FOUND"
	ErrCodeEmployeeNotFound ErrorCode = "EMPLOYEE_NOT_FOUND"

	ErrCodeInvalidRequestState ErrorCode = "INVALID_REQUEST_STATE"
	ErrCodeNoManagerAssigned   ErrorCode = "NO_MANAGER_ASSIGNED"
	ErrCodeCannotDeleteSelf    ErrorCode = "CANNOT_DELETE_SELF"

	ErrCodeForbidden ErrorCode = "FORBIDDEN"

	ErrCodeStaleVersion  ErrorCode = "STALE_VERSION"
	ErrCodeEmailTaken    ErrorCode = "EMAIL_TAKEN"
	ErrCodeTopTierExists ErrorCode = "TOP_TIER_EXISTS"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeMissingToken       ErrorCode = "MISSING_TOKEN"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"

	ErrCodeRateLimited        ErrorCode = "RATE_LIMITED"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvariantViolation ErrorCode = "INVARIANT_VIOLATION"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
		messages := make([]string, len(validationErrors.Errors))
		for i, err := range validationErrors.Errors {
			messages[i] = err.Message
		}
		return strings.Join(messages, "; ")
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on Type and Code so that errors.Is works against the sentinels
// below even when a copy carries a different message or cause.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

// WithCause returns a copy so shared sentinels are never mutated.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

func (e *AppError) WithMessage(message string) *AppError {
	cp := *e
	cp.Message = message
	return &cp
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

// NewInvalidStateError reports an operation that is well-formed but not
// allowed in the record's current lifecycle state.
func NewInvalidStateError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalidState,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewTooManyRequestsError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeTooManyRequests,
		Code:       ErrCodeRateLimited,
		Message:    message,
		StatusCode: http.StatusTooManyRequests,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       ErrCodeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewInvariantViolation reports persisted data that breaks an organisational
// rule the service relies on, such as a missing top-tier employee.
func NewInvariantViolation(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       ErrCodeInvariantViolation,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

var (
	ErrRequestNotFound     = NewNotFoundError("Leave request not found", ErrCodeRequestNotFound)
	ErrEmployeeNotFound    = NewNotFoundError("Employee not found", ErrCodeEmployeeNotFound)
	ErrForbidden           = NewForbiddenError("You are not allowed to perform this action", ErrCodeForbidden)
	ErrInvalidRequestState = NewInvalidStateError("Leave request is not in a state that allows this action", ErrCodeInvalidRequestState)
	ErrInvalidPeriod       = NewValidationError("Start date must be before end date", ErrCodeInvalidPeriod)
	ErrNoManagerAssigned   = NewInvalidStateError("You have no manager assigned", ErrCodeNoManagerAssigned)
	ErrCannotDeleteSelf    = NewInvalidStateError("You cannot delete yourself", ErrCodeCannotDeleteSelf)
	ErrStaleVersion        = NewConflictError("Leave request was modified by someone else", ErrCodeStaleVersion)
	ErrEmailTaken          = NewConflictError("Email is already registered", ErrCodeEmailTaken)
	ErrTopTierExists       = NewConflictError("A top-tier employee already exists", ErrCodeTopTierExists)
	ErrNoTopTier           = NewInvariantViolation("No top-tier employee is configured")

	ErrInvalidCredentials = NewUnauthorizedError("Invalid email or password", ErrCodeInvalidCredentials)
	ErrMissingToken       = NewUnauthorizedError("Missing authorization token", ErrCodeMissingToken)
	ErrInvalidToken       = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
)

// IsAppError unwraps err until it finds an *AppError.
func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
