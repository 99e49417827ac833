// Package validation holds the error taxonomy shared by the event and booking
// validators. Every failure is an *Error wrapping one of the sentinels below,
// so callers can branch with errors.Is and read the field with errors.As.
package validation

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField           = errors.New("field is required and cannot be empty")
	ErrInvalidDate            = errors.New("invalid date format; expected a parsable date string")
	ErrInvalidTime            = errors.New("invalid time format; expected HH:MM or HH:MM AM/PM")
	ErrInvalidListField       = errors.New("must contain at least one non-empty item")
	ErrInvalidReferenceFormat = errors.New("invalid reference format")
	ErrInvalidEmail           = errors.New("invalid email address")
	ErrDanglingReference      = errors.New("referenced record does not exist")
)

// Error is a field-level validation failure. It describes malformed input,
// never a system fault, and must not be retried without corrected input.
type Error struct {
	Field string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func MissingField(field string) error {
	return &Error{Field: field, Err: ErrMissingField}
}

func InvalidDate(field string) error {
	return &Error{Field: field, Err: ErrInvalidDate}
}

func InvalidTime(field string) error {
	return &Error{Field: field, Err: ErrInvalidTime}
}

func InvalidListField(field string) error {
	return &Error{Field: field, Err: ErrInvalidListField}
}

func InvalidReferenceFormat(field string) error {
	return &Error{Field: field, Err: ErrInvalidReferenceFormat}
}

func InvalidEmail(field string) error {
	return &Error{Field: field, Err: ErrInvalidEmail}
}

func DanglingReference(field string) error {
	return &Error{Field: field, Err: ErrDanglingReference}
}

// IsValidationError reports whether err is, or wraps, a validation failure.
func IsValidationError(err error) bool {
	var verr *Error
	return errors.As(err, &verr)
}

// FieldOf returns the failing field name, or "" when err is not a
// validation failure.
func FieldOf(err error) string {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Field
	}
	return ""
}
