package types

import (
	"errors"
	"net/http"
)

type ErrorCode string

const (
	// InternalServiceError is the error code for internal service errors
	InternalServiceError ErrorCode = "INTERNAL_SERVICE_ERROR"
	ValidationError      ErrorCode = "VALIDATION_ERROR"
	NotFound             ErrorCode = "NOT_FOUND"
	BadRequest           ErrorCode = "BAD_REQUEST"

	// Wallet mapping rejection codes. These are surfaced synchronously to
	// the API caller and never affect orchestration state.
	InvalidSignature    ErrorCode = "INVALID_SIGNATURE"
	AddressAlreadyBound ErrorCode = "ADDRESS_ALREADY_BOUND"
	StaleTimestamp      ErrorCode = "STALE_TIMESTAMP"
	MalformedMessage    ErrorCode = "MALFORMED_MESSAGE"

	// RateLimited marks a ledger submission rejected for being too soon
	// after the previous one. Handled as deferral, not failure.
	RateLimited ErrorCode = "RATE_LIMITED"
)

func (e ErrorCode) String() string {
	return string(e)
}

// Error wraps an underlying error with an API-visible error code and the
// HTTP status it maps to.
type Error struct {
	Err        error
	StatusCode int
	ErrorCode  ErrorCode
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.ErrorCode.String()
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(statusCode int, errorCode ErrorCode, err error) *Error {
	return &Error{
		Err:        err,
		StatusCode: statusCode,
		ErrorCode:  errorCode,
	}
}

func NewErrorWithMsg(statusCode int, errorCode ErrorCode, msg string) *Error {
	return NewError(statusCode, errorCode, errors.New(msg))
}

func NewInternalServiceError(err error) *Error {
	return &Error{
		Err:        err,
		StatusCode: http.StatusInternalServerError,
		ErrorCode:  InternalServiceError,
	}
}

// ErrorCodeOf extracts the ErrorCode from err, or InternalServiceError if
// err does not carry one.
func ErrorCodeOf(err error) ErrorCode {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.ErrorCode
	}
	return InternalServiceError
}

// IsRateLimited reports whether err is a ledger rate-limit rejection.
func IsRateLimited(err error) bool {
	var typed *Error
	return errors.As(err, &typed) && typed.ErrorCode == RateLimited
}
