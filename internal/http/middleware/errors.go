package middleware

import (
	"encoding/json"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"fuel-delivery-service/internal/apperr"
	"fuel-delivery-service/internal/logx"
)

func writeError(logger logx.Logger, w http.ResponseWriter, r *http.Request, err error, debug bool) {
	resp := apperr.Normalize(err, debug)
	if resp.StatusCode == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	if encErr := json.NewEncoder(w).Encode(resp); encErr != nil {
		logger.Debug("error response write failed",
			logx.String("req_id", chimw.GetReqID(r.Context())),
			logx.Err(encErr),
		)
	}
}
