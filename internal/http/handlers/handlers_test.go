package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"fuel-delivery-service/internal/apperr"
	"fuel-delivery-service/internal/domain"
	appmw "fuel-delivery-service/internal/http/middleware"
)

func newRequest(method, target, body string, actor *domain.Actor) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if actor != nil {
		req = req.WithContext(appmw.WithActor(req.Context(), *actor))
	}
	return req
}

func errorBody(t *testing.T, rr *httptest.ResponseRecorder) apperr.Response {
	t.Helper()
	var resp apperr.Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.Equal(t, rr.Code, resp.StatusCode)
	return resp
}

func TestHandlers_Ping(t *testing.T) {
	t.Parallel()

	h := New(nil, false)

	rr := httptest.NewRecorder()
	h.Ping(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"message":"pong"}`, rr.Body.String())
}

func TestHandlers_HealthcheckHead(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	New(nil, false).HealthcheckHead(rr, httptest.NewRequest(http.MethodHead, "/healthcheck", nil))
	require.Equal(t, http.StatusNoContent, rr.Code)
	require.Zero(t, rr.Body.Len())
}

func TestHandlers_NotFoundAndMethod(t *testing.T) {
	t.Parallel()

	h := New(nil, false)

	rr := httptest.NewRecorder()
	h.NotFound(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "route not found", errorBody(t, rr).Message)

	rr = httptest.NewRecorder()
	h.MethodNotAllowed(rr, httptest.NewRequest(http.MethodDelete, "/ping", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	require.Equal(t, "method not allowed", errorBody(t, rr).Message)
}

func TestResponder_DebugDetailOnlyInDebug(t *testing.T) {
	t.Parallel()

	cause := apperr.Persistence("insert delivery", context.DeadlineExceeded)

	rr := httptest.NewRecorder()
	newResponder(nil, false).fail(rr, httptest.NewRequest(http.MethodGet, "/", nil), cause)
	resp := errorBody(t, rr)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.Equal(t, "internal error", resp.Message)
	require.Empty(t, resp.Debug)

	rr = httptest.NewRecorder()
	newResponder(nil, true).fail(rr, httptest.NewRequest(http.MethodGet, "/", nil), cause)
	require.Contains(t, errorBody(t, rr).Debug, "insert delivery")
}

func TestResponder_Decode(t *testing.T) {
	t.Parallel()

	rs := newResponder(nil, false)
	cases := map[string]string{
		"not json":      `{`,
		"unknown field": `{"status":"Completed","extra":1}`,
		"trailing data": `{"status":"Completed"} {}`,
	}
	for name, body := range cases {
		rr := httptest.NewRecorder()
		var dst transitionRequest
		ok := rs.decode(rr, newRequest(http.MethodPost, "/", body, nil), &dst)
		require.False(t, ok, name)
		require.Equal(t, http.StatusBadRequest, rr.Code, name)
		require.Contains(t, errorBody(t, rr).Message, "invalid json", name)
	}

	rr := httptest.NewRecorder()
	var dst transitionRequest
	require.True(t, rs.decode(rr, newRequest(http.MethodPost, "/", `{"status":"Completed"}`, nil), &dst))
	require.Equal(t, "Completed", dst.Status)
}
