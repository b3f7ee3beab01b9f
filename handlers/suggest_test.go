package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"finplan/backend/models"
	"finplan/backend/security"
	"finplan/backend/suggest"
)

// fakeProposer returns a canned result or error without any network access.
type fakeProposer struct {
	result *suggest.Result
	err    error
}

func (f *fakeProposer) Propose(ctx context.Context, history []suggest.Message) (*suggest.Result, error) {
	return f.result, f.err
}

func intPtr(n int) *int { return &n }

func TestGetSuggestionsReturnsServiceResult(t *testing.T) {
	SetupTestDB()
	defer CleanupTestDB()

	DefaultProposer = &fakeProposer{result: &suggest.Result{
		Kind: suggest.KindQuestion,
		Text: "What is your monthly rent?",
	}}
	defer func() { DefaultProposer = nil }()

	body := suggestRequest{Messages: []suggest.Message{{Role: "user", Content: "help me plan"}}}
	w := httptest.NewRecorder()
	GetSuggestions(w, NewAuthenticatedRequest("POST", "/suggestions", body))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body)
	}
	var result suggest.Result
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.Kind != suggest.KindQuestion || result.Text == "" {
		t.Errorf("Unexpected result: %+v", result)
	}
}

func TestGetSuggestionsServiceFailure(t *testing.T) {
	SetupTestDB()
	defer CleanupTestDB()

	DefaultProposer = &fakeProposer{err: &models.ServiceError{Op: "chat completion", Err: errors.New("connection refused")}}
	defer func() { DefaultProposer = nil }()

	body := suggestRequest{Messages: []suggest.Message{{Role: "user", Content: "help"}}}
	w := httptest.NewRecorder()
	GetSuggestions(w, NewAuthenticatedRequest("POST", "/suggestions", body))

	if w.Code != http.StatusBadGateway {
		t.Errorf("Expected status 502 for service failure, got %d", w.Code)
	}
}

func TestApplySuggestionsValidatesEachItem(t *testing.T) {
	SetupTestDB()
	defer CleanupTestDB()

	start, _ := models.ParseDate("2024-02-01")
	body := applyRequest{Items: []suggest.Proposal{
		{Name: "Salary", Amount: 3200, Type: "income", StartDate: start, Frequency: "months", Interval: intPtr(1)},
		// Explicit zero interval must be rejected, not coerced.
		{Name: "Bad stride", Amount: 10, Type: "expense", StartDate: start, Frequency: "weeks", Interval: intPtr(0)},
		// Unknown type from the remote service must be rejected.
		{Name: "Weird", Amount: 10, Type: "transfer", StartDate: start, Frequency: "none", Interval: intPtr(1)},
	}}

	w := httptest.NewRecorder()
	ApplySuggestions(w, NewAuthenticatedRequest("POST", "/suggestions/apply", body))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body)
	}
	var response applyResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatal(err)
	}
	if len(response.Added) != 1 {
		t.Errorf("Expected 1 accepted item, got %d", len(response.Added))
	}
	if len(response.Rejected) != 2 {
		t.Errorf("Expected 2 rejected items, got %d", len(response.Rejected))
	}

	// The accepted suggestion is persisted for the caller.
	listed, err := Transactions.List(TestUserID)
	if err != nil {
		t.Fatal(err)
	}
	if len(listed) != 1 || listed[0].Name != "Salary" {
		t.Errorf("Expected only the valid suggestion persisted, got %+v", listed)
	}
}

func TestSetSuggestionKeyStoresAndClears(t *testing.T) {
	SetupTestDB()
	defer CleanupTestDB()
	security.InitializeEncryption("suggest-handler-test-key")

	w := httptest.NewRecorder()
	SetSuggestionKey(w, NewAuthenticatedRequest("PUT", "/settings/suggestion-key", map[string]string{"apiKey": "sk-user-key"}))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body)
	}

	w = httptest.NewRecorder()
	SetSuggestionKey(w, NewAuthenticatedRequest("PUT", "/settings/suggestion-key", map[string]string{"apiKey": ""}))
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 when clearing, got %d", w.Code)
	}
}
