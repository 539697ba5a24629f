package apperr

import (
	"errors"
	"net/http"
)

// Response is the uniform error body returned to API callers.
type Response struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Debug      string `json:"debug,omitempty"`
}

// Normalize converts err into a Response. Internal detail is attached only when debug is true.
func Normalize(err error, debug bool) Response {
	status, msg := classify(err)
	resp := Response{Success: false, Message: msg, StatusCode: status}
	if debug && err != nil {
		resp.Debug = err.Error()
	}
	return resp
}

// StatusCode returns the HTTP status err maps to.
func StatusCode(err error) int {
	status, _ := classify(err)
	return status
}

// publicError overrides the caller-facing message while keeping the classification of err.
type publicError struct {
	err error
	msg string
}

func (e *publicError) Error() string { return e.err.Error() }
func (e *publicError) Unwrap() error { return e.err }

// WithMessage attaches a caller-facing message to err.
func WithMessage(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &publicError{err: err, msg: msg}
}

func classify(err error) (int, string) {
	var pe *publicError
	if errors.As(err, &pe) {
		status, _ := classify(pe.err)
		return status, pe.msg
	}
	var (
		ve *ValidationError
		ae *AuthError
		te *TransitionError
	)
	switch {
	case err == nil:
		return http.StatusInternalServerError, "internal error"
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Error()
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest, "invalid input"
	case errors.As(err, &ae):
		if ae.Kind == AuthExpired {
			return http.StatusUnauthorized, "session expired"
		}
		return http.StatusUnauthorized, "invalid token"
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.As(err, &te):
		return http.StatusConflict, te.Error()
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrConflict):
		return http.StatusConflict, "conflict"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
