package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"fuel-delivery-service/internal/apperr"
	"fuel-delivery-service/internal/domain"
	"fuel-delivery-service/internal/logx"
)

// PricingHandler serves fuel rates and quotes.
type PricingHandler struct {
	responder
	usecase pricingUsecase
}

// NewPricingHandler creates a new PricingHandler.
func NewPricingHandler(logger logx.Logger, debug bool, uc pricingUsecase) *PricingHandler {
	return &PricingHandler{responder: newResponder(logger, debug), usecase: uc}
}

// List handles GET /pricing.
func (h *PricingHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.usecase.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, r, http.StatusOK, pricesToResponse(list))
}

// Quote handles GET /pricing/quote?fuelType=95&amount=50.
func (h *PricingHandler) Quote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ft := domain.FuelType(q.Get("fuelType"))
	amount, err := strconv.ParseFloat(q.Get("amount"), 64)
	if err != nil {
		h.fail(w, r, apperr.Invalid("amount", "must be a number"))
		return
	}

	price, err := h.usecase.Quote(r.Context(), ft, amount)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, r, http.StatusOK, quoteDTO{FuelType: string(ft), Amount: amount, Price: price})
}

// UpdateRate handles PUT /pricing/{fuelType}.
func (h *PricingHandler) UpdateRate(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req updateRateRequest
	if ok := h.decode(w, r, &req); !ok {
		return
	}

	p, err := h.usecase.UpdateRate(r.Context(), actor, domain.FuelType(chi.URLParam(r, "fuelType")), req.RatePerLiter)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, r, http.StatusOK, priceToResponse(p))
}
