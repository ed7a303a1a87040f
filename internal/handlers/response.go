package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"spaceweather-backend/internal/models"
	"spaceweather-backend/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrEmptyMessage):
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Message is required", r))
	case errors.Is(err, services.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Session not found", r))
	case errors.Is(err, services.ErrSessionBusy):
		writeJSON(w, http.StatusConflict, errorResp("SESSION_BUSY", "Still thinking about the previous question", r))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Something went wrong", r))
	}
}
