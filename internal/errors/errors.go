package errors

import (
	"errors"
	"fmt"
)

// ErrCode represents an error code
type ErrCode string

const (
	ErrCodeRateLimited ErrCode = "RATE_LIMITED"
	ErrCodeInternal    ErrCode = "INTERNAL_ERROR"
	ErrCodeBadRequest  ErrCode = "BAD_REQUEST"
	ErrCodeUpstream    ErrCode = "UPSTREAM_ERROR"
	ErrCodeDecode      ErrCode = "DECODE_ERROR"
	ErrCodeTimeout     ErrCode = "TIMEOUT"
	ErrCodeConfig      ErrCode = "CONFIG_ERROR"
)

// AppError represents an application error
type AppError struct {
	Code    ErrCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewRateLimitedError creates a new rate limited error
func NewRateLimitedError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeRateLimited,
		Message: message,
		Err:     err,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// NewBadRequestError creates a new bad request error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
	}
}

// NewUpstreamError creates an error for a failed call to a hosting backend
func NewUpstreamError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeUpstream,
		Message: message,
		Err:     err,
	}
}

// NewDecodeError creates an error for a backend response of unexpected shape
func NewDecodeError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeDecode,
		Message: message,
		Err:     err,
	}
}

// NewTimeoutError creates an error for a backend call that ran out of time
func NewTimeoutError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeTimeout,
		Message: message,
		Err:     err,
	}
}

// NewConfigError creates an error for missing or invalid configuration
func NewConfigError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeConfig,
		Message: message,
		Err:     err,
	}
}

// Code returns the code of the first AppError in the chain, or ErrCodeInternal
func Code(err error) ErrCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// IsRateLimited checks if the error is a rate limited error
func IsRateLimited(err error) bool {
	return Code(err) == ErrCodeRateLimited
}

// IsUpstream reports whether the error came from a failed backend call
func IsUpstream(err error) bool {
	switch Code(err) {
	case ErrCodeUpstream, ErrCodeDecode, ErrCodeTimeout, ErrCodeRateLimited:
		return true
	}
	return false
}
