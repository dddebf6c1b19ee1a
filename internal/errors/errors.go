// Package errors provides centralized error definitions and error handling utilities
// for dogfight. It defines sentinel errors for each subsystem, semantic error types
// that carry context, and classification helpers.
//
// # Error Types
//
//   - ConfigError: a debate could not be constructed (empty roster, bad threshold, ...)
//   - OracleError: a text-generation backend call failed
//   - ValidationError: invalid input, usually from a config file or tool call
//
// # Usage
//
//	err := errors.NewConfigError("consensus_threshold", 1.5, errors.ErrInvalidThreshold)
//	if errors.Is(err, errors.ErrInvalidThreshold) { ... }
//
//	var oracleErr *errors.OracleError
//	if errors.As(err, &oracleErr) && oracleErr.StatusCode == 429 { ... }
//
// Oracle errors never escape a debate: actors and the scribe absorb them into
// empty output. They only surface from oracle construction and direct oracle use.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Debate construction sentinel errors
var (
	// ErrEmptyRoster indicates a debate was configured without actors.
	ErrEmptyRoster = New("at least 1 actor is required for a dogfight")
	// ErrDuplicateActor indicates two actors share a name.
	ErrDuplicateActor = New("actor names must be unique")
	// ErrEmptyActorName indicates an actor without a name.
	ErrEmptyActorName = New("actor name cannot be empty")
	// ErrInvalidMaxRounds indicates a round budget below 1.
	ErrInvalidMaxRounds = New("max_rounds must be at least 1")
	// ErrInvalidThreshold indicates a consensus threshold outside (0, 1].
	ErrInvalidThreshold = New("consensus_threshold must be in (0, 1]")
	// ErrNilOracle indicates a debate was configured without a text oracle.
	ErrNilOracle = New("text oracle is required")
	// ErrNoProposals indicates the scribe was asked to synthesize nothing.
	ErrNoProposals = New("scribe requires at least one proposal")
)

// Oracle sentinel errors
var (
	// ErrUnknownBackend is returned when the configured oracle backend is unsupported.
	ErrUnknownBackend = New("unknown oracle backend")
	// ErrMissingAPIKey indicates the backend credentials are not configured.
	ErrMissingAPIKey = New("api key not configured")
	// ErrEmptyResponse indicates the backend answered without any text content.
	ErrEmptyResponse = New("empty response from oracle")
)

// Roster sentinel errors
var (
	// ErrUnsupportedRosterFormat indicates a roster file with an unknown extension.
	ErrUnsupportedRosterFormat = New("unsupported roster file format")
)

// General sentinel errors
var (
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error
// -----------------------------------------------------------------------------

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *baseError) Unwrap() error { return e.cause }

func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

func (e *baseError) Severity() Severity { return e.severity }

func (e *baseError) IsRetryable() bool { return e.retryable }

func (e *baseError) IsUserFacing() bool { return e.userFacing }

// classified is implemented by every error type in this package.
type classified interface {
	error
	Severity() Severity
	IsRetryable() bool
	IsUserFacing() bool
}

// -----------------------------------------------------------------------------
// ConfigError
// -----------------------------------------------------------------------------

// ConfigError reports a debate configuration that cannot be used.
//
// Example:
//
//	err := errors.NewConfigError("max_rounds", 0, errors.ErrInvalidMaxRounds)
//	fmt.Println(err) // "config error [max_rounds=0]: max_rounds must be at least 1"
type ConfigError struct {
	baseError
	Field string
	Value any
}

// NewConfigError creates a ConfigError for the given field and offending value.
func NewConfigError(field string, value any, cause error) *ConfigError {
	msg := "invalid configuration"
	if cause != nil {
		msg = cause.Error()
	}
	return &ConfigError{
		baseError: baseError{
			message:    msg,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
		Field: field,
		Value: value,
	}
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "config error: " + e.message
	}
	return fmt.Sprintf("config error [%s=%v]: %s", e.Field, e.Value, e.message)
}

// Is matches any *ConfigError and the wrapped sentinel.
func (e *ConfigError) Is(target error) bool {
	if _, ok := target.(*ConfigError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// OracleError
// -----------------------------------------------------------------------------

// OracleError reports a failed call to a text-generation backend.
type OracleError struct {
	baseError
	Backend    string
	StatusCode int
}

// NewOracleError creates an OracleError for the named backend.
func NewOracleError(backend, message string, cause error) *OracleError {
	return &OracleError{
		baseError: baseError{
			message:  message,
			cause:    cause,
			severity: SeverityWarning,
		},
		Backend: backend,
	}
}

// WithStatus records the HTTP status returned by the backend. Rate limiting and
// server-side failures are marked retryable so callers outside the debate loop
// can decide what to do with them.
func (e *OracleError) WithStatus(code int) *OracleError {
	e.StatusCode = code
	e.retryable = code == 429 || code >= 500
	return e
}

func (e *OracleError) Error() string {
	var parts []string
	if e.Backend != "" {
		parts = append(parts, "backend="+e.Backend)
	}
	if e.StatusCode != 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}
	prefix := "oracle error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("oracle error [%s]", strings.Join(parts, ", "))
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// -----------------------------------------------------------------------------
// ValidationError
// -----------------------------------------------------------------------------

// ValidationError represents invalid input or state.
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is matches any *ValidationError, ErrInvalidInput and the wrapped cause.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if errors.Is(target, ErrInvalidInput) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Classification Helpers
// -----------------------------------------------------------------------------

// IsRetryable reports whether any error in the chain is marked retryable.
func IsRetryable(err error) bool {
	var c classified
	if As(err, &c) {
		return c.IsRetryable()
	}
	return false
}

// IsUserFacing reports whether the error message is safe to show to users.
// Unclassified errors are treated as internal.
func IsUserFacing(err error) bool {
	var c classified
	if As(err, &c) {
		return c.IsUserFacing()
	}
	return false
}

// GetSeverity returns the severity of the first classified error in the chain,
// or SeverityError when none is found.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityInfo
	}
	var c classified
	if As(err, &c) {
		return c.Severity()
	}
	return SeverityError
}
