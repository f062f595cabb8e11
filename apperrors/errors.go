// Package apperrors defines the error kinds shared by the store, the friends
// service and the HTTP layer. Every error produced by those layers matches
// exactly one kind through errors.Is.
package apperrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrConflict          = errors.New("conflict")
	ErrNotFound          = errors.New("not found")
	ErrNotAuthorized     = errors.New("not authorized")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrStorage           = errors.New("storage failure")
)

// Error carries a kind, a caller-facing message and optional field detail.
type Error struct {
	Kind    error
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Error()
	}
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+e.Fields[k])
		}
		msg += " (" + strings.Join(parts, "; ") + ")"
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func Validation(message string, fields map[string]string) error {
	return &Error{Kind: ErrValidation, Message: message, Fields: fields}
}

func Conflict(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func NotAuthorized(format string, args ...any) error {
	return &Error{Kind: ErrNotAuthorized, Message: fmt.Sprintf(format, args...)}
}

func InvalidTransition(from, to string) error {
	return &Error{Kind: ErrInvalidTransition, Message: fmt.Sprintf("cannot move friendship from %s to %s", from, to)}
}

// Storage wraps a persistence failure. A nil err returns nil.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: ErrStorage, Message: op, Err: err}
}

// Kind reports which sentinel err matches, or nil for foreign errors.
func Kind(err error) error {
	for _, kind := range []error{ErrValidation, ErrConflict, ErrNotFound, ErrNotAuthorized, ErrInvalidTransition, ErrStorage} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// Message returns the caller-facing message of the outermost *Error in err's
// chain, falling back to the kind's text.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		if appErr.Message != "" {
			return appErr.Message
		}
		return appErr.Kind.Error()
	}
	if kind := Kind(err); kind != nil {
		return kind.Error()
	}
	return err.Error()
}

// FieldErrors returns the field-level detail attached to a validation error.
func FieldErrors(err error) map[string]string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Fields
	}
	return nil
}
