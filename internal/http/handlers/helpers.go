package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"fuel-delivery-service/internal/apperr"
	"fuel-delivery-service/internal/domain"
	appmw "fuel-delivery-service/internal/http/middleware"
	"fuel-delivery-service/internal/logx"
)

const bodyLimit = 1 << 20

var (
	errInvalidJSON  = apperr.WithMessage(apperr.ErrInvalidInput, "invalid json")
	errTrailingJSON = apperr.WithMessage(apperr.ErrInvalidInput, "invalid json: trailing data")
	errNoActor      = apperr.WithMessage(apperr.ErrUnauthenticated, "missing bearer token")
)

func reqID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return "-"
}

// responder writes JSON bodies and normalized errors.
type responder struct {
	logger logx.Logger
	debug  bool
}

func newResponder(logger logx.Logger, debug bool) responder {
	if logger == nil {
		logger = logx.Nop()
	}
	return responder{logger: logger, debug: debug}
}

func (rs responder) json(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		rs.logger.Error("json encode error",
			logx.String("req_id", reqID(r.Context())),
			logx.Err(err),
		)
	}
}

func (rs responder) fail(w http.ResponseWriter, r *http.Request, err error) {
	resp := apperr.Normalize(err, rs.debug)
	fields := []logx.Field{
		logx.String("req_id", reqID(r.Context())),
		logx.Int("status", resp.StatusCode),
		logx.Err(err),
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		rs.logger.Error("http error", fields...)
	} else {
		rs.logger.Debug("http error", fields...)
	}
	rs.json(w, r, resp.StatusCode, resp)
}

func (rs responder) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		rs.fail(w, r, errInvalidJSON)
		return false
	}
	if err := dec.Decode(new(struct{})); !errors.Is(err, io.EOF) {
		rs.fail(w, r, errTrailingJSON)
		return false
	}
	return true
}

func (rs responder) actor(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	a, ok := appmw.ActorFrom(r.Context())
	if !ok {
		rs.fail(w, r, errNoActor)
	}
	return a, ok
}

func intQuery(r *http.Request, name string) (*int, error) {
	s := strings.TrimSpace(r.URL.Query().Get(name))
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, apperr.Invalid(name, "must be an integer")
	}
	return &v, nil
}
