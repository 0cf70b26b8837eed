package errors

import (
	"fmt"
	"net/http"
)

// Error codes
const (
	// 4xx Client Errors
	CodeInvalidInput         = "INVALID_INPUT"
	CodeNotFound             = "NOT_FOUND"
	CodeConflict             = "CONFLICT"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeForbidden            = "FORBIDDEN"
	CodeNonceNotFound        = "NONCE_NOT_FOUND"
	CodeNonceExpired         = "NONCE_EXPIRED"
	CodeNonceAlreadyConsumed = "NONCE_ALREADY_CONSUMED"
	CodeNonceOwnerMismatch   = "NONCE_OWNER_MISMATCH"

	// 5xx Server Errors
	CodeInternal     = "INTERNAL_ERROR"
	CodeStorageError = "STORAGE_ERROR"
)

// AppError represents a structured application error
type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	StatusCode int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

func (e *AppError) withCode(code string) *AppError {
	e.Code = code
	return e
}

// Error constructors

func InvalidInput(message string) *AppError {
	return &AppError{
		Code:       CodeInvalidInput,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: http.StatusNotFound,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func Unauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func Forbidden(message string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

// Nonce errors specialise the generic ones with a nonce-specific code

func NonceNotFound() *AppError {
	return NotFound("Nonce").withCode(CodeNonceNotFound)
}

func NonceExpired() *AppError {
	return &AppError{
		Code:       CodeNonceExpired,
		Message:    "Nonce has expired",
		StatusCode: http.StatusGone,
	}
}

func NonceAlreadyConsumed() *AppError {
	return Conflict("Nonce has already been used").withCode(CodeNonceAlreadyConsumed)
}

func NonceOwnerMismatch() *AppError {
	return Forbidden("Nonce was not issued to this client").withCode(CodeNonceOwnerMismatch)
}

func Internal(message string) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

func StorageError(err error) *AppError {
	return Internal("Nonce storage error occurred").withCode(CodeStorageError).WithError(err)
}
