package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fuel-delivery-service/internal/apperr"
	"fuel-delivery-service/internal/domain"
	"fuel-delivery-service/internal/service/user"
)

type stubUserUsecase struct {
	registerFn   func(ctx context.Context, in user.RegisterInput) (domain.User, error)
	createUserFn func(ctx context.Context, actor domain.Actor, in user.RegisterInput) (domain.User, error)
	loginFn      func(ctx context.Context, email, password string) (user.LoginResult, error)
	getFn        func(ctx context.Context, id string) (domain.User, error)
	listByRoleFn func(ctx context.Context, role domain.Role) ([]domain.User, error)
}

func (s *stubUserUsecase) Register(ctx context.Context, in user.RegisterInput) (domain.User, error) {
	if s.registerFn == nil {
		panic("Register not expected in this test")
	}
	return s.registerFn(ctx, in)
}

func (s *stubUserUsecase) CreateUser(ctx context.Context, actor domain.Actor, in user.RegisterInput) (domain.User, error) {
	if s.createUserFn == nil {
		panic("CreateUser not expected in this test")
	}
	return s.createUserFn(ctx, actor, in)
}

func (s *stubUserUsecase) Login(ctx context.Context, email, password string) (user.LoginResult, error) {
	if s.loginFn == nil {
		panic("Login not expected in this test")
	}
	return s.loginFn(ctx, email, password)
}

func (s *stubUserUsecase) Get(ctx context.Context, id string) (domain.User, error) {
	if s.getFn == nil {
		panic("Get not expected in this test")
	}
	return s.getFn(ctx, id)
}

func (s *stubUserUsecase) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	if s.listByRoleFn == nil {
		panic("ListByRole not expected in this test")
	}
	return s.listByRoleFn(ctx, role)
}

var joined = time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)

func TestAuthHandler_Register(t *testing.T) {
	t.Parallel()

	uc := &stubUserUsecase{
		registerFn: func(_ context.Context, in user.RegisterInput) (domain.User, error) {
			require.Equal(t, "ann@fuel.example", in.Email)
			require.Equal(t, domain.RoleDriver, in.Role)
			return domain.User{ID: "u-1", Email: in.Email, Name: in.Name, Role: in.Role, PasswordHash: "secret", CreatedAt: joined}, nil
		},
	}

	rr := httptest.NewRecorder()
	NewAuthHandler(nil, false, uc).Register(rr, newRequest(http.MethodPost, "/auth/register",
		`{"email":"ann@fuel.example","password":"pw-123456","name":"Ann","role":"driver"}`, nil))

	require.Equal(t, http.StatusCreated, rr.Code)
	require.JSONEq(t, `{
		"id":"u-1","email":"ann@fuel.example","name":"Ann","role":"driver","createdAt":"2025-02-03T04:05:06Z"
	}`, rr.Body.String())
	require.NotContains(t, rr.Body.String(), "secret")
}

func TestAuthHandler_Register_Conflict(t *testing.T) {
	t.Parallel()

	uc := &stubUserUsecase{
		registerFn: func(context.Context, user.RegisterInput) (domain.User, error) {
			return domain.User{}, apperr.ErrConflict
		},
	}

	rr := httptest.NewRecorder()
	NewAuthHandler(nil, false, uc).Register(rr, newRequest(http.MethodPost, "/auth/register",
		`{"email":"ann@fuel.example","password":"pw-123456","name":"Ann"}`, nil))
	require.Equal(t, http.StatusConflict, rr.Code)
	errorBody(t, rr)
}

func TestAuthHandler_Login(t *testing.T) {
	t.Parallel()

	exp := joined.Add(24 * time.Hour)
	uc := &stubUserUsecase{
		loginFn: func(_ context.Context, email, password string) (user.LoginResult, error) {
			if password != "pw-123456" {
				return user.LoginResult{}, apperr.WithMessage(apperr.ErrUnauthenticated, "invalid email or password")
			}
			return user.LoginResult{Token: "jwt", ExpiresAt: exp, User: domain.User{ID: "u-1", Email: email, Role: domain.RoleClient}}, nil
		},
	}
	h := NewAuthHandler(nil, false, uc)

	rr := httptest.NewRecorder()
	h.Login(rr, newRequest(http.MethodPost, "/auth/login", `{"email":"ann@fuel.example","password":"pw-123456"}`, nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp loginResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "jwt", resp.Token)
	require.True(t, resp.ExpiresAt.Equal(exp))
	require.Equal(t, "client", resp.User.Role)

	rr = httptest.NewRecorder()
	h.Login(rr, newRequest(http.MethodPost, "/auth/login", `{"email":"ann@fuel.example","password":"nope"}`, nil))
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "invalid email or password", errorBody(t, rr).Message)
}

func TestAuthHandler_Me(t *testing.T) {
	t.Parallel()

	uc := &stubUserUsecase{
		getFn: func(_ context.Context, id string) (domain.User, error) {
			require.Equal(t, "u-9", id)
			return domain.User{ID: id, Role: domain.RoleOwner, CreatedAt: joined}, nil
		},
	}
	h := NewAuthHandler(nil, false, uc)

	rr := httptest.NewRecorder()
	h.Me(rr, newRequest(http.MethodGet, "/auth/me", "", &domain.Actor{ID: "u-9", Role: domain.RoleOwner}))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `"role":"owner"`)

	rr = httptest.NewRecorder()
	h.Me(rr, newRequest(http.MethodGet, "/auth/me", "", nil))
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestUserHandler_CreateAndListDrivers(t *testing.T) {
	t.Parallel()

	owner := domain.Actor{ID: "o-1", Role: domain.RoleOwner}
	uc := &stubUserUsecase{
		createUserFn: func(_ context.Context, actor domain.Actor, in user.RegisterInput) (domain.User, error) {
			require.Equal(t, owner, actor)
			require.Equal(t, domain.RoleSupervisor, in.Role)
			return domain.User{ID: "u-2", Role: in.Role}, nil
		},
		listByRoleFn: func(_ context.Context, role domain.Role) ([]domain.User, error) {
			require.Equal(t, domain.RoleDriver, role)
			return []domain.User{{ID: "d-1", Role: role}, {ID: "d-2", Role: role}}, nil
		},
	}
	h := NewUserHandler(nil, false, uc)

	rr := httptest.NewRecorder()
	h.Create(rr, newRequest(http.MethodPost, "/users",
		`{"email":"sup@fuel.example","password":"pw-123456","name":"Sup","role":"supervisor"}`, &owner))
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = httptest.NewRecorder()
	h.ListDrivers(rr, newRequest(http.MethodGet, "/drivers", "", &owner))
	require.Equal(t, http.StatusOK, rr.Code)

	var out []userDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.Len(t, out, 2)
}
