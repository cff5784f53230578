package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies failures that abort a generation run.
type ErrorCode string

const (
	ErrCodeConfiguration         ErrorCode = "CONFIGURATION"
	ErrCodeGeocode               ErrorCode = "GEOCODE"
	ErrCodeTransactionValidation ErrorCode = "TRANSACTION_VALIDATION"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Errorf builds a domain error with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ErrAlreadySet is returned when a write-once person attribute is assigned twice.
var ErrAlreadySet = errors.New("attribute already set")

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
