package application

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common conditions
var (
	ErrMissingSite    = errors.New("no site selected: the panel needs an active site")
	ErrNoValidRows    = errors.New("no valid rows to import")
	ErrBusy           = errors.New("another operation is already in progress")
	ErrPartialFailure = errors.New("some operations failed")
)

// ValidationError represents a validation failure with details.
// It is always detected before any remote call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// RemoteError wraps a failed call to the node store
type RemoteError struct {
	Op   string
	Path string
	Err  error
}

// Error returns the underlying message so it can be shown to users as is
func (e *RemoteError) Error() string {
	return e.Err.Error()
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Remote wraps err as a RemoteError, or returns nil
func Remote(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &RemoteError{Op: op, Path: path, Err: err}
}

// BatchError reports the failed operations of a best-effort batch.
// Succeeded operations are not rolled back.
type BatchError struct {
	Succeeded int
	Failed    []error
}

func (e *BatchError) Error() string {
	msgs := make([]string, len(e.Failed))
	for i, err := range e.Failed {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d of %d operations failed: %s",
		len(e.Failed), e.Succeeded+len(e.Failed), strings.Join(msgs, "; "))
}

func (e *BatchError) Is(target error) bool {
	return target == ErrPartialFailure
}

// IsValidation reports whether err is a local validation failure
func IsValidation(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr) || errors.Is(err, ErrNoValidRows)
}
