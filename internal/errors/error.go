package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig     Category = "config"
	CategoryNavigation Category = "navigation"
	CategoryTransition Category = "transition"
	CategoryLifecycle  Category = "lifecycle"
)

// Redirect is a recovery target attached to a guard rejection. When present,
// the router re-navigates to the named route instead of failing the
// transition.
type Redirect struct {
	Name   string
	Params map[string]string
}

// Error is a structured routing error with a stable code, the offending
// route segment (when known) and an optional redirect recovery target.
type Error struct {
	// Code is a unique error identifier (e.g. "ROUTE_NOT_FOUND").
	Code string

	// Category is the error type (config, navigation, transition, lifecycle).
	Category Category

	// Message is a short description of the error.
	Message string

	// Segment is the route segment the error relates to, if any.
	Segment string

	// Redirect is the recovery target attached by a rejecting guard, if any.
	Redirect *Redirect

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Segment != "" {
		msg = fmt.Sprintf("%s (segment %q)", msg, e.Segment)
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is reports code equality so that errors.Is(err, New(code)) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// WithSegment attaches the offending route segment to the error.
func (e *Error) WithSegment(segment string) *Error {
	e.Segment = segment
	return e
}

// WithRedirect attaches a redirect recovery target to the error.
func (e *Error) WithRedirect(name string, params map[string]string) *Error {
	e.Redirect = &Redirect{Name: name, Params: params}
	return e
}

// WithMessagef replaces the registered message with a formatted one.
func (e *Error) WithMessagef(format string, args ...any) *Error {
	e.Message = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// New creates an Error from a registered error code.
func New(code string) *Error {
	template, ok := registry[code]
	if !ok {
		return &Error{
			Code:    code,
			Message: "unknown error",
		}
	}
	return &Error{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
	}
}

// Newf creates a new Error with a formatted message and no code.
func Newf(category Category, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error under the given code. If err already is a
// structured Error it is returned unchanged.
func FromError(err error, code string) *Error {
	if err == nil {
		return nil
	}
	var re *Error
	if stderrors.As(err, &re) {
		return re
	}
	return New(code).Wrap(err)
}

// CodeOf returns the code of err, or "" when err carries none.
func CodeOf(err error) string {
	var re *Error
	if stderrors.As(err, &re) {
		return re.Code
	}
	return ""
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code string) bool {
	return CodeOf(err) == code
}

// RedirectOf returns the redirect recovery target of err, if any.
func RedirectOf(err error) *Redirect {
	var re *Error
	if stderrors.As(err, &re) {
		return re.Redirect
	}
	return nil
}
