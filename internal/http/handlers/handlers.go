package handlers

import (
	"net/http"

	"fuel-delivery-service/internal/apperr"
	"fuel-delivery-service/internal/logx"
)

var (
	errRouteNotFound    = apperr.WithMessage(apperr.ErrNotFound, "route not found")
	errMethodNotAllowed = apperr.WithMessage(apperr.ErrInvalidInput, "method not allowed")
)

// Handlers serves the service-level endpoints.
type Handlers struct {
	responder
}

// New creates a Handlers instance. debug adds error detail to responses.
func New(logger logx.Logger, debug bool) *Handlers {
	return &Handlers{responder: newResponder(logger, debug)}
}

// Ping handles GET /ping and returns 200 with {"message":"pong"}.
func (h *Handlers) Ping(w http.ResponseWriter, r *http.Request) {
	h.json(w, r, http.StatusOK, map[string]string{"message": "pong"})
}

// HealthcheckHead handles HEAD /healthcheck and returns 204 No Content.
func (h *Handlers) HealthcheckHead(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// NotFound returns a JSON 404 error for unknown routes.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.fail(w, r, errRouteNotFound)
}

// MethodNotAllowed returns a JSON 405 error.
func (h *Handlers) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	resp := apperr.Normalize(errMethodNotAllowed, false)
	resp.StatusCode = http.StatusMethodNotAllowed
	h.json(w, r, http.StatusMethodNotAllowed, resp)
}
