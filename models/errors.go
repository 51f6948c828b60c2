package models

import "fmt"

// Error codes used in API responses and internal error handling.
const (
	ErrCodeLaunch       = "LAUNCH_FAILED"
	ErrCodeNotFound     = "PROFILE_NOT_FOUND"
	ErrCodeTimeout      = "NAV_TIMEOUT"
	ErrCodeExtraction   = "EXTRACTION_FAILED"
	ErrCodeBusy         = "POOL_BUSY"
	ErrCodeUpstream     = "UPSTREAM_FAILED"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FetchError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type FetchError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new FetchError.
func NewFetchError(code, message string, err error) *FetchError {
	return &FetchError{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *FetchError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}

// CodeOf returns the error code of err, or ErrCodeInternal when err is any
// other non-nil error. Nil errors return an empty string.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	if fe, ok := err.(*FetchError); ok {
		return fe.Code
	}
	return ErrCodeInternal
}
