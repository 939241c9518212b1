package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"rentwheels-backend/internal/domain"
	"rentwheels-backend/internal/logger"
)

type errorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			logger.Error("Failed to encode response body", "error", err)
		}
	}
}

// writeError maps the error taxonomy onto HTTP status codes. Internal
// details never leak to the client.
func writeError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)

	status := http.StatusInternalServerError
	switch kind {
	case domain.ErrKindValidation:
		status = http.StatusBadRequest
	case domain.ErrKindInvalidState:
		status = http.StatusConflict
	case domain.ErrKindDateOverlap:
		status = http.StatusConflict
	case domain.ErrKindConflict:
		status = http.StatusConflict
	case domain.ErrKindPaymentFailed:
		status = http.StatusPaymentRequired
	case domain.ErrKindForbidden:
		status = http.StatusForbidden
	case domain.ErrKindNotFound:
		status = http.StatusNotFound
	}

	body := errorBody{Error: string(kind)}
	var de *domain.Error
	if errors.As(err, &de) && kind != domain.ErrKindInternal {
		body.Message = de.Message
		body.Fields = de.Fields
	} else {
		body.Message = "internal error"
		logger.Error("Request failed", "error", err)
	}

	writeJSON(w, status, body)
}
