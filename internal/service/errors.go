package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSession is returned when no authenticated client is available.
	ErrNoSession = errors.New("not logged in")

	// ErrNotFound is returned when a resource does not exist.
	ErrNotFound = errors.New("not found")
)

// UpstreamError is a failed call to the task service.
type UpstreamError struct {
	Op     string // e.g. "get tasks"
	Status int    // HTTP status, 0 for transport errors
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// IsAuth reports whether the service rejected the credentials.
func (e *UpstreamError) IsAuth() bool {
	return e.Status == 401 || e.Status == 403
}
