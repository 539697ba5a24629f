package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/dig"

	"fuel-delivery-service/internal/auth/policy"
	"fuel-delivery-service/internal/http/handlers"
	appmw "fuel-delivery-service/internal/http/middleware"
	"fuel-delivery-service/internal/http/middleware/ratelimit"
	"fuel-delivery-service/internal/logx"
)

const requestTimeout = 5 * time.Second

// Params collects everything the router mounts.
type Params struct {
	dig.In

	Base       *handlers.Handlers
	Auth       *handlers.AuthHandler
	Users      *handlers.UserHandler
	Deliveries *handlers.DeliveryHandler
	Pricing    *handlers.PricingHandler

	Authn     *appmw.Auth
	RateLimit *ratelimit.Middleware
	Logger    logx.Logger
	Metrics   appmw.HTTPMetrics
	Gatherer  prometheus.Gatherer
	Security  Security
}

// Security carries the browser-facing policy.
type Security struct {
	Production     bool
	AllowedOrigins []string
}

// New constructs a chi-based http.Handler with base middleware and routes.
func New(p Params) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(appmw.SecurityHeaders(p.Security.Production))
	r.Use(appmw.CORS(p.Security.AllowedOrigins))
	r.Use(appmw.Observability(p.Logger, p.Metrics))

	r.Get("/ping", p.Base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(p.Base.HealthcheckHead))
	if p.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}
	r.NotFound(p.Base.NotFound)
	r.MethodNotAllowed(p.Base.MethodNotAllowed)

	r.Group(func(r chi.Router) {
		if p.RateLimit != nil {
			r.Use(p.RateLimit.Handler())
		}

		r.Post("/auth/register", p.Auth.Register)
		r.Post("/auth/login", p.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(p.Authn.Authenticate)

			r.Get("/auth/me", p.Auth.Me)

			r.With(p.Authn.Require(policy.UserCreate)).Post("/users", p.Users.Create)
			r.With(p.Authn.Require(policy.UserListDrivers)).Get("/drivers", p.Users.ListDrivers)

			r.Route("/deliveries", func(r chi.Router) {
				r.With(p.Authn.Require(policy.DeliveryCreate)).Post("/", p.Deliveries.Create)
				r.With(p.Authn.Require(policy.DeliveryRead)).Get("/", p.Deliveries.List)
				r.With(p.Authn.Require(policy.DeliveryRead)).Get("/{id}", p.Deliveries.Get)
				r.With(p.Authn.Require(policy.DeliveryTransition)).Post("/{id}/status", p.Deliveries.Transition)
			})

			r.Route("/pricing", func(r chi.Router) {
				r.Use(p.Authn.Require(policy.PricingRead))
				r.Get("/", p.Pricing.List)
				r.Get("/quote", p.Pricing.Quote)
				r.With(p.Authn.Require(policy.PricingUpdate)).Put("/{fuelType}", p.Pricing.UpdateRate)
			})
		})
	})

	return r
}
