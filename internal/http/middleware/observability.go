package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"fuel-delivery-service/internal/auth/token"
	"fuel-delivery-service/internal/logx"
)

// HTTPMetrics holds the request collectors. Nil fields are skipped.
type HTTPMetrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// Observability - middleware for prometheus and access logs
func Observability(logger logx.Logger, m HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			// route pattern keeps label cardinality bounded
			path := pathPattern(r)
			tm := time.Since(start)
			code := ww.Status()
			if code == 0 {
				code = http.StatusOK
			}
			status := strconv.Itoa(code)

			if m.Requests != nil {
				m.Requests.WithLabelValues(r.Method, path, status).Inc()
			}
			if m.Duration != nil {
				m.Duration.WithLabelValues(r.Method, path, status).Observe(tm.Seconds())
			}

			fields := []logx.Field{
				logx.String("req_id", chimw.GetReqID(r.Context())),
				logx.String("method", r.Method),
				logx.String("path", path),
				logx.Int("status", code),
				logx.Duration("duration", tm),
			}
			if sub := subject(r); sub != "" {
				fields = append(fields, logx.String("subject", sub))
			}
			logger.Info("http request", fields...)
		})
	}
}

// subject reads the token subject without verifying it. Log context only.
func subject(r *http.Request) string {
	raw, ok := bearer(r)
	if !ok {
		return ""
	}
	c, ok := token.Decode(raw)
	if !ok {
		return ""
	}
	return strings.TrimSpace(c.Subject)
}

func pathPattern(r *http.Request) string {
	rc := chi.RouteContext(r.Context())
	if rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
