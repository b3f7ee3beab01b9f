package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"

	"finplan/backend/database"
	"finplan/backend/middleware"
	"finplan/backend/storage"
)

// TestUserID is the default authenticated owner for handler tests.
const TestUserID = "test-user-id"

// SetupTestDB points the package globals at a fresh in-memory database.
func SetupTestDB() {
	os.Setenv("TEST_DB", "1")
	if err := database.InitDB(""); err != nil {
		panic(err)
	}
	Transactions = storage.New(database.DB)
}

// CleanupTestDB closes the test database connection.
func CleanupTestDB() {
	if database.DB != nil {
		database.DB.Close()
	}
}

// SetupTestAuth adds authentication context to the request.
func SetupTestAuth(req *http.Request) *http.Request {
	return MockAuthContext(req, TestUserID)
}

// MockAuthContext adds the given owner id to the request context.
func MockAuthContext(req *http.Request, userID string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
	return req.WithContext(ctx)
}

// NewAuthenticatedRequest creates a request with a JSON body and the default
// test owner already authenticated.
func NewAuthenticatedRequest(method, url string, body interface{}) *http.Request {
	var req *http.Request
	if body != nil {
		buf, _ := json.Marshal(body)
		req = httptest.NewRequest(method, url, bytes.NewBuffer(buf))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	return SetupTestAuth(req)
}
