package pprofserver

import (
	"crypto/subtle"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"fuel-delivery-service/internal/apperr"
	"fuel-delivery-service/internal/logx"
)

// Config stores profiling listener settings.
type Config struct {
	Addr string
	User string
	Pass string
}

// Handler serves the runtime profiler under /debug. Loopback callers skip
// authentication; everyone else needs basic auth with the configured pair.
func Handler(cfg Config, logger logx.Logger) http.Handler {
	if logger == nil {
		logger = logx.Nop()
	}
	r := chi.NewRouter()
	r.Use(guard(cfg, logger))
	r.Mount("/debug", middleware.Profiler())
	return r
}

// New returns the profiling server. Write timeouts stay off so CPU profiles can run.
func New(cfg Config, logger logx.Logger) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           Handler(cfg, logger),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func guard(cfg Config, logger logx.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isLoopback(r.RemoteAddr) {
				next.ServeHTTP(w, r)
				return
			}
			u, p, ok := r.BasicAuth()
			if cfg.User == "" || cfg.Pass == "" || !ok || !secureEq(u, cfg.User) || !secureEq(p, cfg.Pass) {
				logger.Warn("profiler access denied",
					logx.String("remote", r.RemoteAddr),
					logx.String("path", r.URL.Path),
				)
				unauthorized(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="pprof"`)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(apperr.Response{
		Success:    false,
		Message:    "unauthorized",
		StatusCode: http.StatusUnauthorized,
	})
}

func secureEq(u, s string) bool {
	return subtle.ConstantTimeCompare([]byte(u), []byte(s)) == 1
}

func isLoopback(remoteAddr string) bool {
	host := strings.TrimSpace(remoteAddr)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
