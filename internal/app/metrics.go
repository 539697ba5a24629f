package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	appmw "fuel-delivery-service/internal/http/middleware"
	"fuel-delivery-service/internal/metrics"
)

type metricsOut struct {
	dig.Out

	RateLimitExceededTotal prometheus.Counter     `name:"rate_limit_exceeded_total"`
	LoginFailuresTotal     prometheus.Counter     `name:"login_failures_total"`
	PublishFailuresTotal   prometheus.Counter     `name:"event_publish_failures_total"`
	StatusTransitionsTotal *prometheus.CounterVec `name:"status_transitions_total"`
	StatusEventsTotal      *prometheus.CounterVec `name:"status_events_total"`
	HTTP                   appmw.HTTPMetrics
}

func provideMetrics(reg prometheus.Registerer) (metricsOut, error) {
	var (
		out metricsOut
		err error
	)
	if out.RateLimitExceededTotal, err = metrics.Register(reg, "rate_limit_exceeded_total", metrics.NewRateLimitExceededTotal()); err != nil {
		return metricsOut{}, err
	}
	if out.LoginFailuresTotal, err = metrics.Register(reg, "auth_login_failures_total", metrics.NewLoginFailuresTotal()); err != nil {
		return metricsOut{}, err
	}
	if out.PublishFailuresTotal, err = metrics.Register(reg, "delivery_event_publish_failures_total", metrics.NewEventPublishFailuresTotal()); err != nil {
		return metricsOut{}, err
	}
	if out.StatusTransitionsTotal, err = metrics.Register(reg, "delivery_status_transitions_total", metrics.NewStatusTransitionsTotal()); err != nil {
		return metricsOut{}, err
	}
	if out.StatusEventsTotal, err = metrics.Register(reg, "status_events_total", metrics.NewStatusEventsTotal()); err != nil {
		return metricsOut{}, err
	}
	if out.HTTP.Requests, err = metrics.Register(reg, "http_requests_total", metrics.NewHTTPRequestsTotal()); err != nil {
		return metricsOut{}, err
	}
	if out.HTTP.Duration, err = metrics.Register(reg, "http_request_duration_seconds", metrics.NewHTTPRequestDuration()); err != nil {
		return metricsOut{}, err
	}
	return out, nil
}
