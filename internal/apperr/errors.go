package apperr

import (
	"errors"
	"fmt"
)

// Sentinel errors. Typed errors below unwrap to one of these so callers can use errors.Is.
var (
	// ErrInvalidInput is returned for malformed caller arguments.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConfig signals missing or invalid process configuration.
	ErrConfig = errors.New("configuration error")
	// ErrValidation is returned when an entity field violates its constraints.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthenticated indicates missing or rejected credentials (HTTP 401).
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden indicates that the actor is not allowed to perform the action (HTTP 403).
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound indicates that the requested resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a uniqueness or state conflict (HTTP 409).
	ErrConflict = errors.New("conflict")
	// ErrInvalidTransition is returned when a status change is not permitted.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// AuthKind distinguishes token failures.
type AuthKind int

// Token failure kinds.
const (
	AuthMalformed AuthKind = iota + 1
	AuthExpired
)

func (k AuthKind) String() string {
	switch k {
	case AuthExpired:
		return "expired"
	case AuthMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// AuthError reports a token that could not be accepted.
type AuthError struct {
	Kind AuthKind
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return "token " + e.Kind.String()
	}
	return fmt.Sprintf("token %s: %v", e.Kind, e.Err)
}

// Unwrap exposes ErrUnauthenticated and the underlying cause.
func (e *AuthError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrUnauthenticated}
	}
	return []error{ErrUnauthenticated, e.Err}
}

// Expired builds an AuthError of kind AuthExpired.
func Expired(err error) error { return &AuthError{Kind: AuthExpired, Err: err} }

// Malformed builds an AuthError of kind AuthMalformed.
func Malformed(err error) error { return &AuthError{Kind: AuthMalformed, Err: err} }

// IsAuthKind reports whether err is an AuthError of the given kind.
func IsAuthKind(err error, kind AuthKind) bool {
	var ae *AuthError
	return errors.As(err, &ae) && ae.Kind == kind
}

// ValidationError names the entity field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

// Unwrap returns ErrValidation.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid builds a ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// TransitionKind distinguishes status workflow failures.
type TransitionKind int

// InvalidTransition is the only workflow failure kind.
const InvalidTransition TransitionKind = 1

// TransitionError reports a rejected status change.
type TransitionError struct {
	Kind TransitionKind
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}

// Unwrap returns ErrInvalidTransition.
func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// Transition builds a TransitionError for the given edge.
func Transition(from, to string) error {
	return &TransitionError{Kind: InvalidTransition, From: from, To: to}
}

// ConfigError reports a missing or invalid configuration key.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Key, e.Reason)
}

// Unwrap returns ErrConfig.
func (e *ConfigError) Unwrap() error { return ErrConfig }

// Config builds a ConfigError.
func Config(key, reason string) error {
	return &ConfigError{Key: key, Reason: reason}
}

// PersistenceError wraps a storage failure. It is passed through services unchanged.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Persistence wraps err as a PersistenceError; nil stays nil.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}
