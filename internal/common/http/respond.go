package http

import (
	"encoding/json"
	"net/http"

	apperrors "apartment-estimator/internal/common/errors"
)

type errorBody struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

// RespondWithJSON writes payload with the given status.
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// WriteError maps err onto its HTTP status. Internal errors carry no details.
func WriteError(w http.ResponseWriter, err error) {
	stdErr := apperrors.AsStandard(err)
	status := apperrors.HTTPStatus(stdErr.Code)

	body := errorBody{Error: stdErr.Message, Code: string(stdErr.Code), Details: stdErr.Details}
	if status == http.StatusInternalServerError {
		body.Details = ""
	}
	RespondWithJSON(w, status, body)
}
