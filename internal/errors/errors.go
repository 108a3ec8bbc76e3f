// Package errors provides standardized error types for the snippyctl tool.
//
// The errors package defines domain-specific error types that enable
// structured error handling and consistent error messages throughout
// the application.
//
// # Error Types
//
// OpsError is the primary error type, containing:
//   - Code: Categorizes the error (NOT_FOUND, SUPERVISOR, etc.)
//   - Message: Human-readable error description
//   - Subject: The service, certificate bundle, or host involved (if applicable)
//   - Err: The underlying wrapped error (if any)
//
// # Sentinel Errors
//
// Common error scenarios have pre-defined sentinel errors:
//
//	errors.ErrCertNotFound      // certificate bundle doesn't exist
//	errors.ErrCertExists        // certificate bundle already exists
//	errors.ErrRootRequired      // root access required
//	errors.ErrHealthCheckFailed // service never became healthy
//
// # Usage
//
// Creating domain-specific errors:
//
//	// Certificate bundle not found
//	return errors.NotFound("postgres")
//
//	// Certificate bundle already present
//	return errors.AlreadyExists("api")
//
//	// Validation error
//	return errors.Validation("service name cannot be empty")
//
//	// Wrapping an underlying error
//	return errors.Wrap(errors.ErrCodeConfig, "failed to load config", err)
//
// # Error Checking
//
// Use errors.Is for sentinel error comparison:
//
//	if errors.Is(err, errors.ErrCertNotFound) {
//	    // Handle not found case
//	}
//
// Use errors.As for type assertion:
//
//	var opsErr *errors.OpsError
//	if errors.As(err, &opsErr) {
//	    fmt.Printf("Error code: %s, Subject: %s\n", opsErr.Code, opsErr.Subject)
//	}
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes errors for programmatic handling.
type ErrorCode string

// Error codes for different error categories.
const (
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"      // Resource not found
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS" // Resource already exists
	ErrCodeValidation    ErrorCode = "VALIDATION"     // Input validation failed
	ErrCodePermission    ErrorCode = "PERMISSION"     // Permission denied
	ErrCodeConfig        ErrorCode = "CONFIG"         // Configuration error
	ErrCodeSupervisor    ErrorCode = "SUPERVISOR"     // Service supervisor error
	ErrCodeSSL           ErrorCode = "SSL"            // SSL/TLS related error
	ErrCodeCron          ErrorCode = "CRON"           // Crontab management error
	ErrCodeHealth        ErrorCode = "HEALTH"         // Health check error
	ErrCodeRemote        ErrorCode = "REMOTE"         // SSH/remote execution error
	ErrCodeInternal      ErrorCode = "INTERNAL"       // Internal/unexpected error
)

// OpsError represents a structured error with context about the operation.
type OpsError struct {
	Code    ErrorCode // Error category
	Message string    // Human-readable message
	Subject string    // Service, certificate bundle, or host (if applicable)
	Err     error     // Underlying error (if any)
}

// Error implements the error interface.
func (e *OpsError) Error() string {
	if e.Subject != "" && e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Subject, e.Message, e.Err)
	}
	if e.Subject != "" {
		return fmt.Sprintf("%s: %s", e.Subject, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for error chain traversal.
func (e *OpsError) Unwrap() error {
	return e.Err
}

// Is reports whether target matches this error.
// Comparison is based on error code.
func (e *OpsError) Is(target error) bool {
	t, ok := target.(*OpsError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Sentinel errors for common error scenarios.
// Use these with errors.Is() for error checking.
var (
	// ErrCertNotFound indicates the requested certificate bundle does not exist.
	ErrCertNotFound = &OpsError{Code: ErrCodeNotFound, Message: "certificate not found"}

	// ErrCertExists indicates a certificate bundle is already present.
	ErrCertExists = &OpsError{Code: ErrCodeAlreadyExists, Message: "certificate already exists"}

	// ErrUnitNotFound indicates the systemd unit file does not exist.
	ErrUnitNotFound = &OpsError{Code: ErrCodeNotFound, Message: "unit file not found"}

	// ErrInvalidSchedule indicates the cron schedule expression is not valid.
	ErrInvalidSchedule = &OpsError{Code: ErrCodeValidation, Message: "invalid cron schedule"}

	// ErrInvalidDomain indicates the domain name is not valid.
	ErrInvalidDomain = &OpsError{Code: ErrCodeValidation, Message: "invalid domain"}

	// ErrPermissionDenied indicates insufficient privileges for the operation.
	ErrPermissionDenied = &OpsError{Code: ErrCodePermission, Message: "permission denied"}

	// ErrConfigInvalid indicates the configuration is invalid or corrupt.
	ErrConfigInvalid = &OpsError{Code: ErrCodeConfig, Message: "invalid configuration"}

	// ErrSupervisorNotFound indicates no usable service supervisor is available.
	ErrSupervisorNotFound = &OpsError{Code: ErrCodeSupervisor, Message: "supervisor not found"}

	// ErrCertbotNotInstalled indicates certbot is not installed.
	ErrCertbotNotInstalled = &OpsError{Code: ErrCodeSSL, Message: "certbot not installed"}

	// ErrHealthCheckFailed indicates the service never reported healthy.
	ErrHealthCheckFailed = &OpsError{Code: ErrCodeHealth, Message: "health check failed"}

	// ErrRootRequired indicates root privileges are required.
	ErrRootRequired = &OpsError{Code: ErrCodePermission, Message: "root privileges required"}
)

// NotFound creates an error for a certificate bundle that doesn't exist.
func NotFound(subject string) error {
	return &OpsError{
		Code:    ErrCodeNotFound,
		Message: "certificate not found",
		Subject: subject,
	}
}

// AlreadyExists creates an error for a certificate bundle that is already present.
func AlreadyExists(subject string) error {
	return &OpsError{
		Code:    ErrCodeAlreadyExists,
		Message: "certificate already exists",
		Subject: subject,
	}
}

// Validation creates a validation error with a custom message.
func Validation(msg string) error {
	return &OpsError{
		Code:    ErrCodeValidation,
		Message: msg,
	}
}

// Wrap creates an error with the specified code, message, and underlying error.
func Wrap(code ErrorCode, msg string, err error) error {
	return &OpsError{
		Code:    code,
		Message: msg,
		Err:     err,
	}
}

// WrapSubject creates an error with subject context and underlying error.
func WrapSubject(code ErrorCode, subject string, err error) error {
	return &OpsError{
		Code:    code,
		Subject: subject,
		Err:     err,
	}
}

// Is reports whether any error in err's chain matches target.
// This is a re-export of errors.Is for convenience.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
// This is a re-export of errors.As for convenience.
var As = errors.As
