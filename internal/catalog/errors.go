package catalog

import (
	"errors"
	"fmt"
)

// Outcome classes of a failed catalog operation. Every *Error wraps exactly one of them.
var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// FieldError describes a rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is returned by Service operations. Kind is one of the Err* classes above and is
// matched with errors.Is; Err holds the underlying cause, if any.
type Error struct {
	Kind    error
	Code    string
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes both the outcome class and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func validationError(fields ...FieldError) *Error {
	return &Error{Kind: ErrValidation, Code: "VALIDATION_ERROR", Message: "Input validation failed", Fields: fields}
}

func notFoundError(format string, args ...any) *Error {
	return &Error{Kind: ErrNotFound, Code: "NOT_FOUND", Message: fmt.Sprintf(format, args...)}
}

func conflictError(code, format string, args ...any) *Error {
	return &Error{Kind: ErrConflict, Code: code, Message: fmt.Sprintf(format, args...)}
}

func priceError(field string) *Error {
	return validationError(FieldError{Field: field, Message: PriceMessage(field)})
}
