// Package errors defines the error taxonomy of the view layer: guard
// rejections, unknown views, module load failures. Helpers mirror the
// standard library so call sites only import this package.
package errors

import (
	"errors"
	"fmt"
)

// Re-exported standard helpers.
var (
	Unwrap = errors.Unwrap
	Is     = errors.Is
	As     = errors.As
)

// ErrorKind classifies view-layer errors.
type ErrorKind int

const (
	Unknown ErrorKind = iota
	// ViewNotFound: a switch targeted a view that is not registered.
	ViewNotFound
	// GuardRejected: the target view's try-enter guard vetoed the switch.
	GuardRejected
	// ModuleLoadFailed: a view module could not be loaded or is
	// incompatible with this host version. Fatal to that module only.
	ModuleLoadFailed
	// InvalidConfig: a configuration file could not be parsed.
	InvalidConfig
)

// ViewError is the error type returned by the view manager.
type ViewError struct {
	msg  string
	view string
	kind ErrorKind
	err  error
}

// Error returns the message, including the view name when set.
func (e *ViewError) Error() string {
	switch {
	case e.view != "" && e.err != nil:
		return fmt.Sprintf("%s: %s: %v", e.msg, e.view, e.err)
	case e.view != "":
		return fmt.Sprintf("%s: %s", e.msg, e.view)
	case e.err != nil:
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error.
func (e *ViewError) Unwrap() error { return e.err }

// Kind returns the error classification.
func (e *ViewError) Kind() ErrorKind { return e.kind }

// View returns the view name associated with the error, if any.
func (e *ViewError) View() string { return e.view }

// NewViewError creates a classified view error.
func NewViewError(msg, view string, kind ErrorKind, err error) *ViewError {
	return &ViewError{msg: msg, view: view, kind: kind, err: err}
}

// New creates a plain error.
func New(msg string) error {
	return &ViewError{msg: msg, kind: Unknown}
}

// Newf creates a plain formatted error.
func Newf(format string, args ...interface{}) error {
	return &ViewError{msg: fmt.Sprintf(format, args...), kind: Unknown}
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ViewError{msg: fmt.Sprintf(format, args...), kind: Unknown, err: err}
}

// IsGuardRejected reports whether err is a try-enter guard rejection.
func IsGuardRejected(err error) bool {
	var ve *ViewError
	if errors.As(err, &ve) {
		return ve.Kind() == GuardRejected
	}
	return false
}

// IsViewNotFound reports whether err names a missing view.
func IsViewNotFound(err error) bool {
	var ve *ViewError
	if errors.As(err, &ve) {
		return ve.Kind() == ViewNotFound
	}
	return false
}
