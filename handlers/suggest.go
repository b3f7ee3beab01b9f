package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"finplan/backend/middleware"
	"finplan/backend/models"
	"finplan/backend/services"
	"finplan/backend/suggest"

	"github.com/google/uuid"
)

type suggestRequest struct {
	Messages []suggest.Message `json:"messages"`
}

type applyRequest struct {
	Items []suggest.Proposal `json:"items"`
}

type rejectedItem struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

type applyResponse struct {
	Added    []models.Transaction `json:"added"`
	Rejected []rejectedItem       `json:"rejected"`
}

// GetSuggestions forwards the planning conversation to the suggestion
// service and returns its question or proposed transactions. Nothing is
// persisted here.
func GetSuggestions(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserIDFromContext(r)
	if ownerID == "" {
		http.Error(w, "Unauthorized: no user ID found", http.StatusUnauthorized)
		return
	}

	var req suggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, models.NewValidationError("body", err.Error()))
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, models.NewValidationError("messages", "must not be empty"))
		return
	}

	proposer := proposerFor(ownerID)
	if proposer == nil {
		writeError(w, &models.ServiceError{Op: "configuration", Err: errNoProposer})
		return
	}

	result, err := proposer.Propose(r.Context(), req.Messages)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ApplySuggestions persists suggested transactions. Every item passes
// through the same validation as a regular add; malformed suggestions are
// rejected individually rather than trusted.
func ApplySuggestions(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserIDFromContext(r)
	if ownerID == "" {
		http.Error(w, "Unauthorized: no user ID found", http.StatusUnauthorized)
		return
	}

	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, models.NewValidationError("body", err.Error()))
		return
	}
	if len(req.Items) == 0 {
		writeError(w, models.NewValidationError("items", "must not be empty"))
		return
	}

	response := applyResponse{Added: []models.Transaction{}, Rejected: []rejectedItem{}}
	for i, item := range req.Items {
		added, err := Transactions.Add(item.Transaction(uuid.NewString(), ownerID))
		if err != nil {
			response.Rejected = append(response.Rejected, rejectedItem{Index: i, Error: err.Error()})
			continue
		}
		response.Added = append(response.Added, added)
	}
	writeJSON(w, http.StatusOK, response)
}

// SetSuggestionKey stores the caller's own suggestion-service API key,
// encrypted at rest. Subsequent suggestion calls use it instead of the
// server-wide key.
func SetSuggestionKey(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserIDFromContext(r)
	if ownerID == "" {
		http.Error(w, "Unauthorized: no user ID found", http.StatusUnauthorized)
		return
	}

	var req struct {
		APIKey string `json:"apiKey"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, models.NewValidationError("body", err.Error()))
		return
	}

	if req.APIKey == "" {
		if err := services.DeleteSuggestionKey(ownerID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
		return
	}

	if err := services.SetSuggestionKey(ownerID, req.APIKey); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "stored"})
}

var errNoProposer = errors.New("no suggestion service configured")

// proposerFor prefers the user's stored API key over the server-wide
// client.
func proposerFor(ownerID string) suggest.Proposer {
	key, err := services.GetSuggestionKey(ownerID)
	if err != nil {
		log.Printf("Failed to load suggestion key for %s: %v", ownerID, err)
		return DefaultProposer
	}
	if key != "" && NewProposer != nil {
		return NewProposer(key)
	}
	return DefaultProposer
}
