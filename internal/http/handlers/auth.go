package handlers

import (
	"net/http"

	"fuel-delivery-service/internal/domain"
	"fuel-delivery-service/internal/logx"
)

// AuthHandler serves registration, login and the current-user endpoint.
type AuthHandler struct {
	responder
	users userUsecase
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(logger logx.Logger, debug bool, uc userUsecase) *AuthHandler {
	return &AuthHandler{responder: newResponder(logger, debug), users: uc}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if ok := h.decode(w, r, &req); !ok {
		return
	}

	u, err := h.users.Register(r.Context(), req.toInput())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, r, http.StatusCreated, userToResponse(u))
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if ok := h.decode(w, r, &req); !ok {
		return
	}

	res, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, r, http.StatusOK, loginResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		User:      userToResponse(res.User),
	})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	u, err := h.users.Get(r.Context(), actor.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, r, http.StatusOK, userToResponse(u))
}

// UserHandler serves account administration endpoints.
type UserHandler struct {
	responder
	users userUsecase
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(logger logx.Logger, debug bool, uc userUsecase) *UserHandler {
	return &UserHandler{responder: newResponder(logger, debug), users: uc}
}

// Create handles POST /users. Any role may be provisioned here.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req registerRequest
	if ok := h.decode(w, r, &req); !ok {
		return
	}

	u, err := h.users.CreateUser(r.Context(), actor, req.toInput())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, r, http.StatusCreated, userToResponse(u))
}

// ListDrivers handles GET /drivers.
func (h *UserHandler) ListDrivers(w http.ResponseWriter, r *http.Request) {
	list, err := h.users.ListByRole(r.Context(), domain.RoleDriver)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, r, http.StatusOK, usersToResponse(list))
}
