package api

import (
	"encoding/json"
	"net/http"

	"hiring-platform/internal/common/errors"
	"hiring-platform/internal/common/logger"
)

type errorBody struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

type messageBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError answers with the StandardError status mapping. Unknown errors
// become a 500 whose details only reach the log.
func writeError(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	stdErr := errors.Normalize(err)
	status := errors.HTTPStatus(stdErr.Code)

	fields := map[string]interface{}{
		"method":    r.Method,
		"path":      r.URL.Path,
		"status":    status,
		"errorCode": string(stdErr.Code),
		"details":   stdErr.Details,
		"requestId": requestIDFrom(r.Context()),
	}
	if status >= http.StatusInternalServerError {
		log.Error(stdErr.Message, fields)
	} else {
		log.Debug(stdErr.Message, fields)
	}

	if stdErr.Code == errors.ErrCodeAuthenticationFailed {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	writeJSON(w, status, errorBody{Detail: stdErr.Message, Code: string(stdErr.Code)})
}
