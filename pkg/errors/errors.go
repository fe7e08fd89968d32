package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// NetworkKind classifies a remote fetch failure.
type NetworkKind string

const (
	// NetworkTransport covers connection errors, timeouts and non-2xx
	// responses other than 404.
	NetworkTransport NetworkKind = "transport"
	// NetworkNotFound is a 404 from the remote source.
	NetworkNotFound NetworkKind = "not_found"
)

// NetworkError represents a failed call to the remote source.
// It is never produced by the local store.
type NetworkError struct {
	Kind       NetworkKind
	Operation  string
	StatusCode int
	Err        error
}

// NewNetworkError creates a new network error
func NewNetworkError(kind NetworkKind, operation string, statusCode int, err error) *NetworkError {
	return &NetworkError{
		Kind:       kind,
		Operation:  operation,
		StatusCode: statusCode,
		Err:        err,
	}
}

// Error implements the error interface
func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s failed: %v", e.Kind, e.Operation, e.Err)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s failed with status %d", e.Kind, e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s failed", e.Kind, e.Operation)
}

// Unwrap returns the wrapped error
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status for this error
func (e *NetworkError) HTTPStatus() int {
	if e.Kind == NetworkNotFound {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

// NotFoundError represents a local lookup miss.
type NotFoundError struct {
	Resource string
	Message  string
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is lets any NotFoundError match another in errors.Is checks.
func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}

// HTTPStatus returns the HTTP status for this error
func (e *NotFoundError) HTTPStatus() int {
	return http.StatusNotFound
}

// ErrNotFound is the generic local lookup miss.
var ErrNotFound = NewNotFoundError("resource", "")

// LoadError represents a failed step of a paging cycle. The cycle's state is
// unchanged and the same transition may be retried.
type LoadError struct {
	Transition string
	Err        error
}

// NewLoadError creates a new recoverable load error
func NewLoadError(transition string, err error) *LoadError {
	return &LoadError{
		Transition: transition,
		Err:        err,
	}
}

// Error implements the error interface
func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s failed: %v", e.Transition, e.Err)
}

// Unwrap returns the wrapped error
func (e *LoadError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status for this error
func (e *LoadError) HTTPStatus() int {
	return http.StatusServiceUnavailable
}

// HTTPStatuser interface for errors that can provide an HTTP status
type HTTPStatuser interface {
	HTTPStatus() int
}

// IsNotFound reports whether err is a local or remote not-found.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return true
	}
	var ne *NetworkError
	return errors.As(err, &ne) && ne.Kind == NetworkNotFound
}
