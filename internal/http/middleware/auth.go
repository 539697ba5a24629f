package middleware

import (
	"context"
	"net/http"
	"strings"

	"fuel-delivery-service/internal/apperr"
	"fuel-delivery-service/internal/auth/policy"
	"fuel-delivery-service/internal/auth/token"
	"fuel-delivery-service/internal/domain"
	"fuel-delivery-service/internal/logx"
)

// Verifier checks a raw session token.
type Verifier interface {
	Verify(raw string) (token.Claims, error)
}

type actorKey struct{}

// WithActor stores the authenticated actor in ctx.
func WithActor(ctx context.Context, a domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFrom returns the actor stored by Authenticate.
func ActorFrom(ctx context.Context) (domain.Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(domain.Actor)
	return a, ok
}

var errMissingToken = apperr.WithMessage(apperr.ErrUnauthenticated, "missing bearer token")

// Auth authenticates requests and enforces the role policy.
type Auth struct {
	logger   logx.Logger
	verifier Verifier
	debug    bool
}

// NewAuth creates Auth. debug adds error detail to rejected responses.
func NewAuth(logger logx.Logger, v Verifier, debug bool) *Auth {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Auth{logger: logger, verifier: v, debug: debug}
}

// Authenticate requires a valid Bearer token and stores its actor in the request context.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearer(r)
		if !ok {
			writeError(a.logger, w, r, errMissingToken, a.debug)
			return
		}

		claims, err := a.verifier.Verify(raw)
		if err != nil {
			a.logger.Info("token rejected",
				logx.String("path", r.URL.Path),
				logx.Bool("expired", apperr.IsAuthKind(err, apperr.AuthExpired)),
			)
			writeError(a.logger, w, r, err, a.debug)
			return
		}

		ctx := WithActor(r.Context(), domain.Actor{ID: claims.Subject, Role: claims.Role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Require rejects actors whose role may not perform action. It must run after Authenticate.
func (a *Auth) Require(action policy.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFrom(r.Context())
			if !ok {
				writeError(a.logger, w, r, errMissingToken, a.debug)
				return
			}
			if !policy.Allowed(actor.Role, action) {
				a.logger.Info("access denied",
					logx.String("actor_id", actor.ID),
					logx.String("role", string(actor.Role)),
					logx.String("action", string(action)),
				)
				writeError(a.logger, w, r, apperr.ErrForbidden, a.debug)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearer(r *http.Request) (string, bool) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, raw, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}
