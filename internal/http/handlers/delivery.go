package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fuel-delivery-service/internal/apperr"
	"fuel-delivery-service/internal/domain"
	"fuel-delivery-service/internal/logx"
)

// DeliveryHandler handles HTTP requests for delivery resources.
type DeliveryHandler struct {
	responder
	usecase deliveryUsecase
}

// NewDeliveryHandler creates a new DeliveryHandler.
func NewDeliveryHandler(logger logx.Logger, debug bool, uc deliveryUsecase) *DeliveryHandler {
	return &DeliveryHandler{responder: newResponder(logger, debug), usecase: uc}
}

// Create handles POST /deliveries. The price is always quoted by the server.
func (h *DeliveryHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req createDeliveryRequest
	if ok := h.decode(w, r, &req); !ok {
		return
	}

	d, err := h.usecase.Create(r.Context(), actor, req.toInput())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Location", "/deliveries/"+d.ID)
	h.json(w, r, http.StatusCreated, deliveryToResponse(d))
}

// Get handles GET /deliveries/{id}.
func (h *DeliveryHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	d, err := h.usecase.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, r, http.StatusOK, deliveryToResponse(d))
}

// List handles GET /deliveries?status=&clientId=&driverId=&limit=&offset=.
func (h *DeliveryHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	f, err := filterFromQuery(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	list, err := h.usecase.List(r.Context(), actor, f)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, r, http.StatusOK, deliveriesToResponse(list))
}

// Transition handles POST /deliveries/{id}/status.
func (h *DeliveryHandler) Transition(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req transitionRequest
	if ok := h.decode(w, r, &req); !ok {
		return
	}
	to, ok := domain.ParseDeliveryStatus(req.Status)
	if !ok {
		h.fail(w, r, apperr.Invalid("status", "must be one of Pending, Completed, Cancelled"))
		return
	}

	d, err := h.usecase.Transition(r.Context(), chi.URLParam(r, "id"), to, actor)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, r, http.StatusOK, deliveryToResponse(d))
}

func filterFromQuery(r *http.Request) (domain.DeliveryFilter, error) {
	q := r.URL.Query()
	f := domain.DeliveryFilter{
		ClientID: q.Get("clientId"),
		DriverID: q.Get("driverId"),
	}
	if s := q.Get("status"); s != "" {
		st, ok := domain.ParseDeliveryStatus(s)
		if !ok {
			return domain.DeliveryFilter{}, apperr.Invalid("status", "must be one of Pending, Completed, Cancelled")
		}
		f.Status = &st
	}
	var err error
	if f.Limit, err = intQuery(r, "limit"); err != nil {
		return domain.DeliveryFilter{}, err
	}
	if f.Offset, err = intQuery(r, "offset"); err != nil {
		return domain.DeliveryFilter{}, err
	}
	return f, nil
}
