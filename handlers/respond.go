package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"finplan/backend/models"
	"finplan/backend/storage"
	"finplan/backend/suggest"
)

// Transactions is the shared transaction store, set once at startup.
var Transactions *storage.Store

// DefaultProposer serves suggestion requests for users without their own
// API key. NewProposer builds a per-user client when a stored key exists.
var (
	DefaultProposer suggest.Proposer
	NewProposer     func(apiKey string) suggest.Proposer
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy onto HTTP status codes: validation
// 400, not-found 404, duplicate id 409, auth 401, suggestion service 502.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var validationErr *models.ValidationError
	var authErr *models.AuthError
	var serviceErr *models.ServiceError

	switch {
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrDuplicateID):
		status = http.StatusConflict
	case errors.As(err, &authErr):
		status = http.StatusUnauthorized
	case errors.As(err, &serviceErr):
		status = http.StatusBadGateway
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}
