package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for sync operations
var (
	// ErrConfiguration indicates missing credentials, a missing or conflicting
	// operation flag, or an unusable target directory
	ErrConfiguration = errors.New("invalid configuration")

	// ErrUnsupportedOperation indicates an operation that exists in the
	// command surface but is rejected before any transfer
	ErrUnsupportedOperation = errors.New("operation not implemented")

	// ErrRemoteTransport indicates the translation service could not be
	// reached or answered with a non-success status
	ErrRemoteTransport = errors.New("translation service request failed")

	// ErrRemotePayload indicates a success response whose body could not be
	// used (malformed JSON or an embedded error payload on a listing call)
	ErrRemotePayload = errors.New("translation service returned an unusable response")

	// ErrAuthFailed indicates the service rejected the api key or signature
	ErrAuthFailed = errors.New("authentication with translation service failed")

	// ErrFilesystem indicates a read or write in the target directory failed
	ErrFilesystem = errors.New("filesystem operation failed")

	// ErrSkipped indicates the run was skipped because the integration is not
	// configured and strict mode is off
	ErrSkipped = errors.New("sync skipped")
)

// Severity grades a validation outcome.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// ValidationError is returned by configuration validation. Warnings may be
// treated as a soft skip by the caller; errors always abort the run.
type ValidationError struct {
	Severity Severity
	Reason   string
	Kind     error // ErrConfiguration or ErrUnsupportedOperation
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

// IsWarning reports whether err is a warning-level validation result.
func IsWarning(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr) && verr.Severity == SeverityWarning
}

// APIFailure is an application-level error payload returned inside an
// otherwise successful HTTP exchange. It is not a transport failure.
type APIFailure struct {
	Status  int
	Message string
}

func (f *APIFailure) Error() string {
	if f.Message == "" {
		return fmt.Sprintf("service reported status %d", f.Status)
	}
	return fmt.Sprintf("service reported status %d: %s", f.Status, f.Message)
}
